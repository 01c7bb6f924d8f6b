package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/peterstace/spatialindex/idindex"
	"github.com/peterstace/spatialindex/internal/load"
	"github.com/peterstace/spatialindex/quadtree"
	"github.com/peterstace/spatialindex/rtree"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find the features intersecting an envelope.",
	Long: `query loads the input features into an R-Tree and writes the geometries
of the features whose envelopes intersect --bounds to standard output, one
GeoJSON geometry per line, in the order they appear in the input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := parseBounds(Cfg.GetString("bounds"))
		if err != nil {
			return err
		}
		ix, err := loadIDIndex(Cfg.GetString("input"), Cfg.GetString("format"),
			Cfg.GetInt("minEntries"), Cfg.GetInt("maxEntries"))
		if err != nil {
			return err
		}
		matches := ix.Query(b)
		Log.WithFields(logrus.Fields{
			"bounds":  fmt.Sprintf("%v", b),
			"matches": len(matches),
		}).Info("query complete")
		return writeFeatures(cmd.OutOrStdout(), matches)
	},
	DisableAutoGenTag: true,
}

var nearCmd = &cobra.Command{
	Use:   "near",
	Short: "Find the features near a point or segment.",
	Long: `near loads the centres of the input features' envelopes into a point quad
tree and writes the geometries of the features whose centres are closer than
--radius to --point (or to --segment, if given) to standard output, one
GeoJSON geometry per line, in the order they appear in the input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		features, err := load.File(Cfg.GetString("input"), Cfg.GetString("format"))
		if err != nil {
			return err
		}
		qt := quadtree.New[*load.Feature]()
		for _, f := range features {
			b := f.Bounds()
			qt.Put(centre(f), f)
			Log.WithFields(logrus.Fields{"row": f.Row, "bounds": fmt.Sprintf("%v", b)}).Debug("indexed feature")
		}
		Log.WithFields(logrus.Fields{
			"features": qt.Len(),
			"elapsed":  time.Since(start).String(),
		}).Info("built quad tree")

		radius := Cfg.GetFloat64("radius")
		var matches []*load.Feature
		if seg := Cfg.GetString("segment"); seg != "" {
			v, err := parseFloats("segment", seg, 4)
			if err != nil {
				return err
			}
			a, b := pointOf(v[0], v[1]), pointOf(v[2], v[3])
			matches = qt.FindWithinSegmentDistance(a, b, radius)
		} else {
			p, err := parsePoint("point", Cfg.GetString("point"))
			if err != nil {
				return err
			}
			matches = qt.FindWithinDistance(p, radius)
		}
		sortByRow(matches)
		Log.WithFields(logrus.Fields{
			"radius":  radius,
			"matches": len(matches),
		}).Info("near query complete")
		return writeFeatures(cmd.OutOrStdout(), matches)
	},
	DisableAutoGenTag: true,
}

// loadIDIndex reads the features in a file into an id index backed by an
// R-Tree. Feature ids match their row in the file.
func loadIDIndex(filename, format string, minEntries, maxEntries int) (*idindex.Index[*load.Feature], error) {
	start := time.Now()
	features, err := load.File(filename, format)
	if err != nil {
		return nil, err
	}
	tr, err := rtree.New[int](minEntries, maxEntries)
	if err != nil {
		return nil, fmt.Errorf("spatialindex: %v", err)
	}
	ix := idindex.New((*load.Feature).Bounds, tr)
	for _, f := range features {
		ix.Add(f)
	}
	Log.WithFields(logrus.Fields{
		"file":     filename,
		"features": ix.Len(),
		"height":   tr.Height(),
		"elapsed":  time.Since(start).String(),
	}).Info("built R-Tree")
	return ix, nil
}

func writeFeatures(w io.Writer, features []*load.Feature) error {
	for _, f := range features {
		if err := load.WriteGeoJSON(w, f.Geom); err != nil {
			return err
		}
	}
	return nil
}

// centre gives the centre of a feature's envelope.
func centre(f *load.Feature) geom.Point {
	b := f.Bounds()
	return pointOf((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
}

func pointOf(x, y float64) geom.Point {
	return geom.Point{X: x, Y: y}
}

func sortByRow(fs []*load.Feature) {
	sort.Slice(fs, func(i, j int) bool { return fs[i].Row < fs[j].Row })
}
