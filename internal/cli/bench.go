package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/peterstace/spatialindex"
	"github.com/peterstace/spatialindex/rtree"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time R-Tree inserts and queries on random boxes.",
	Long: `bench inserts --n random boxes in the unit square into an R-Tree, one at a
time and then again by bulk loading, and times --queries random envelope
queries against each tree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runBench(Cfg.GetInt("n"), Cfg.GetInt("queries"), Cfg.GetInt64("seed"),
			Cfg.GetInt("minEntries"), Cfg.GetInt("maxEntries"))
		if err != nil {
			return err
		}
		for _, r := range res {
			Log.WithFields(logrus.Fields{
				"tree":         r.name,
				"build":        r.build.String(),
				"height":       r.height,
				"query":        r.query.String(),
				"mean_matches": r.meanMatches,
			}).Info("benchmark complete")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tbuild=%v\theight=%d\tquery=%v\tmean_matches=%.2f\n",
				r.name, r.build, r.height, r.query, r.meanMatches)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

type benchResult struct {
	name         string
	build, query time.Duration
	height       int
	meanMatches  float64
}

func runBench(n, queries int, seed int64, minEntries, maxEntries int) ([]benchResult, error) {
	rnd := rand.New(rand.NewSource(seed))
	entries := make([]rtree.Entry[int], n)
	for i := range entries {
		entries[i] = rtree.Entry[int]{BBox: randomBox(rnd, 0.99, 0.01), Value: i}
	}
	searches := make([]geom.Bounds, queries)
	for i := range searches {
		searches[i] = randomBox(rnd, 0.9, 0.1)
	}

	start := time.Now()
	inserted, err := rtree.New[int](minEntries, maxEntries)
	if err != nil {
		return nil, fmt.Errorf("spatialindex: %v", err)
	}
	for _, e := range entries {
		inserted.Insert(e.BBox, e.Value)
	}
	insertTime := time.Since(start)

	start = time.Now()
	bulk, err := rtree.BulkLoad(minEntries, maxEntries, entries)
	if err != nil {
		return nil, fmt.Errorf("spatialindex: %v", err)
	}
	bulkTime := time.Since(start)

	res := []benchResult{
		{name: "insert", build: insertTime, height: inserted.Height()},
		{name: "bulk", build: bulkTime, height: bulk.Height()},
	}
	for i, tr := range []*rtree.RTree[int]{inserted, bulk} {
		matches := make([]float64, len(searches))
		start := time.Now()
		for j, b := range searches {
			matches[j] = float64(spatialindex.Count(func(fn spatialindex.Visitor[int]) bool {
				return tr.Visit(b, fn)
			}))
		}
		res[i].query = time.Since(start)
		if len(matches) > 0 {
			res[i].meanMatches = floats.Sum(matches) / float64(len(matches))
		}
	}
	return res, nil
}

func randomBox(rnd *rand.Rand, maxStart, maxWidth float64) geom.Bounds {
	minX := rnd.Float64() * maxStart
	minY := rnd.Float64() * maxStart
	return spatialindex.NewEnvelope(minX, minY, minX+rnd.Float64()*maxWidth, minY+rnd.Float64()*maxWidth)
}
