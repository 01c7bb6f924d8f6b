// Package cli holds the commands of the spatialindex tool.
package cli

import (
	"fmt"
	"strings"

	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/peterstace/spatialindex"
)

// Version is the version of the tool.
const Version = "0.1.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is where the commands report progress.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose turns on debug logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "input",
			usage: `
              input is the shapefile (.shp) or line delimited GeoJSON
              (.geojson, .ndjson) file holding the features to index.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{queryCmd.Flags(), nearCmd.Flags()},
		},
		{
			name: "format",
			usage: `
              format overrides the input format guessed from the file
              extension. It can be "shp" or "geojson".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{queryCmd.Flags(), nearCmd.Flags()},
		},
		{
			name: "bounds",
			usage: `
              bounds is the query envelope as "minX,minY,maxX,maxY".`,
			shorthand:  "b",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{queryCmd.Flags()},
		},
		{
			name: "point",
			usage: `
              point is the query point as "x,y".`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{nearCmd.Flags()},
		},
		{
			name: "segment",
			usage: `
              segment is a query segment as "x1,y1,x2,y2". When given, it is
              used instead of point.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{nearCmd.Flags()},
		},
		{
			name: "radius",
			usage: `
              radius is the distance from the query point or segment within
              which features are matched. Features at exactly this distance
              are not matched.`,
			shorthand:  "r",
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{nearCmd.Flags()},
		},
		{
			name: "minEntries",
			usage: `
              minEntries is the minimum R-Tree node size. It must be no more
              than half of maxEntries.`,
			defaultVal: 12,
			flagsets:   []*pflag.FlagSet{queryCmd.Flags(), benchCmd.Flags()},
		},
		{
			name: "maxEntries",
			usage: `
              maxEntries is the maximum number of entries in an R-Tree node.`,
			defaultVal: 32,
			flagsets:   []*pflag.FlagSet{queryCmd.Flags(), benchCmd.Flags()},
		},
		{
			name: "n",
			usage: `
              n is the number of random boxes to insert.`,
			defaultVal: 100000,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "queries",
			usage: `
              queries is the number of random queries to run.`,
			defaultVal: 1000,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
		{
			name: "seed",
			usage: `
              seed seeds the random number generator.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{benchCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SPATIALINDEX")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(queryCmd)
	Root.AddCommand(nearCmd)
	Root.AddCommand(benchCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "spatialindex",
	Short: "Query geometries through an in-memory spatial index.",
	Long: `spatialindex loads geometries from a shapefile or a line delimited GeoJSON
file into an in-memory R-Tree or point quad tree and queries them.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SPATIALINDEX_var' where
'var' is the name of the variable to be set.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		Log.Out = cmd.OutOrStderr()
		Log.Level = logrus.InfoLevel
		if Cfg.GetBool("verbose") {
			Log.Level = logrus.DebugLevel
		}
		return nil
	},
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of spatialindex.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spatialindex v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("spatialindex: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// parseFloats parses a comma separated list of exactly n numbers.
func parseFloats(name, s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("spatialindex: %s must have %d comma separated values, got %q", name, n, s)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("spatialindex: invalid %s: %v", name, err)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseBounds(s string) (geom.Bounds, error) {
	v, err := parseFloats("bounds", s, 4)
	if err != nil {
		return geom.Bounds{}, err
	}
	return spatialindex.NewEnvelope(v[0], v[1], v[2], v[3]), nil
}

func parsePoint(name, s string) (geom.Point, error) {
	v, err := parseFloats(name, s, 2)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: v[0], Y: v[1]}, nil
}
