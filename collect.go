package spatialindex

// Collect runs a query and gathers every visited value into a slice. The
// query is any function taking a visitor, e.g. a method value bound to its
// query arguments:
//
//	vals := Collect(func(fn Visitor[string]) bool { return tr.Visit(b, fn) })
func Collect[T any](query func(Visitor[T]) bool) []T {
	var vals []T
	query(func(v T) bool {
		vals = append(vals, v)
		return true
	})
	return vals
}

// Filter wraps fn so that it is only called for values accepted by pred. A
// nil pred accepts everything.
func Filter[T any](pred Predicate[T], fn Visitor[T]) Visitor[T] {
	if pred == nil {
		return fn
	}
	return func(v T) bool {
		if !pred(v) {
			return true
		}
		return fn(v)
	}
}

// Limit wraps fn so that the query stops after n values have been visited.
func Limit[T any](n int, fn Visitor[T]) Visitor[T] {
	seen := 0
	return func(v T) bool {
		if seen >= n {
			return false
		}
		seen++
		return fn(v) && seen < n
	}
}

// Count runs a query and counts the visited values.
func Count[T any](query func(Visitor[T]) bool) int {
	var n int
	query(func(T) bool {
		n++
		return true
	})
	return n
}

// First runs a query and returns the first value visited. The query is
// stopped as soon as it is found.
func First[T any](query func(Visitor[T]) bool) (T, bool) {
	var (
		first T
		found bool
	)
	query(func(v T) bool {
		first, found = v, true
		return false
	})
	return first, found
}
