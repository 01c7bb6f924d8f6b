package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
)

const testFeatures = `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}
{"type":"Polygon","coordinates":[[[20,20],[30,20],[30,30],[20,30],[20,20]]]}
{"type":"Point","coordinates":[5,5]}
{"type":"LineString","coordinates":[[40,40],[50,50]]}
`

func writeTestFeatures(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "features.geojson")
	if err := os.WriteFile(fname, []byte(testFeatures), 0o644); err != nil {
		t.Fatal(err)
	}
	return fname
}

// run executes the root command and returns the GeoJSON lines it printed,
// skipping log lines.
func run(t *testing.T, args ...string) ([]string, string) {
	t.Helper()
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs(args)
	if err := Root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, buf.String())
	}
	var geoms []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "{") {
			geoms = append(geoms, line)
		}
	}
	return geoms, buf.String()
}

func TestQuery(t *testing.T) {
	fname := writeTestFeatures(t)
	got, _ := run(t, "query", "--input", fname, "--bounds", "5,5,25,25", "--maxEntries", "4", "--minEntries", "2")
	want := []string{
		`{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`,
		`{"type":"Polygon","coordinates":[[[20,20],[30,20],[30,30],[20,30],[20,20]]]}`,
		`{"type":"Point","coordinates":[5,5]}`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got=%v want=%v", got, want)
	}

	got, _ = run(t, "query", "--input", fname, "--bounds", "100,100,110,110")
	if len(got) != 0 {
		t.Errorf("got=%v", got)
	}
}

func TestNear(t *testing.T) {
	fname := writeTestFeatures(t)

	// Feature centres are (5,5), (25,25), (5,5) and (45,45).
	got, _ := run(t, "near", "--input", fname, "--point", "6,6", "--radius", "2")
	want := []string{
		`{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`,
		`{"type":"Point","coordinates":[5,5]}`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("point: got=%v want=%v", got, want)
	}

	got, _ = run(t, "near", "--input", fname, "--segment", "25,0,25,100", "--radius", "1")
	want = []string{
		`{"type":"Polygon","coordinates":[[[20,20],[30,20],[30,30],[20,30],[20,20]]]}`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("segment: got=%v want=%v", got, want)
	}
}

func TestVersion(t *testing.T) {
	_, out := run(t, "version")
	if !strings.Contains(out, "spatialindex v"+Version) {
		t.Errorf("out=%q", out)
	}
}

func TestBench(t *testing.T) {
	_, out := run(t, "bench", "--n", "500", "--queries", "20", "--maxEntries", "8", "--minEntries", "3")
	for _, name := range []string{"insert\t", "bulk\t"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing %q in %q", name, out)
		}
	}
}

func TestRunBench(t *testing.T) {
	res, err := runBench(2000, 50, 1, 4, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("got %d results", len(res))
	}
	// Both trees hold the same boxes, so the queries must match the same
	// number of boxes.
	if res[0].meanMatches != res[1].meanMatches {
		t.Errorf("inserted tree matched %v on average, bulk loaded tree %v", res[0].meanMatches, res[1].meanMatches)
	}
	if res[0].meanMatches == 0 {
		t.Error("expected some matches")
	}

	if _, err := runBench(10, 1, 1, 6, 10); err == nil {
		t.Error("expected invalid node sizes to be rejected")
	}
}

func TestParse(t *testing.T) {
	b, err := parseBounds("10, 0,0,5")
	if err != nil {
		t.Fatal(err)
	}
	want := geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 5}}
	if b != want {
		t.Errorf("got=%v want=%v", b, want)
	}

	p, err := parsePoint("point", "1.5,-2")
	if err != nil {
		t.Fatal(err)
	}
	if p != (geom.Point{X: 1.5, Y: -2}) {
		t.Errorf("got=%v", p)
	}

	for _, s := range []string{"", "1,2,3", "1,2,3,x", "1,2,3,4,5"} {
		if _, err := parseBounds(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}
