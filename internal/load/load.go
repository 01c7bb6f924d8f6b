// Package load reads geometries from files so that they can be indexed.
package load

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
)

// Supported file formats.
const (
	FormatShapefile = "shp"
	FormatGeoJSON   = "geojson"
)

// maxLineSize is the longest GeoJSON line that will be read.
const maxLineSize = 64 << 20

// Feature is a geometry read from a file.
type Feature struct {
	// Row is the position of the feature in its file, starting at zero.
	Row    int
	Geom   geom.Geom
	Fields map[string]string
}

// Bounds gives the envelope of the feature's geometry.
func (f *Feature) Bounds() geom.Bounds {
	return *f.Geom.Bounds()
}

// Format guesses the format of a file from its extension.
func Format(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".shp":
		return FormatShapefile, nil
	case ".geojson", ".json", ".jsonl", ".ndjson":
		return FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("load: can't determine the format of %s", filename)
	}
}

// File reads every feature from the named file. If format is empty it is
// guessed from the file extension. fields names the shapefile attribute
// columns to read along with each geometry; it is ignored for GeoJSON.
func File(filename, format string, fields ...string) ([]*Feature, error) {
	if format == "" {
		var err error
		if format, err = Format(filename); err != nil {
			return nil, err
		}
	}
	switch format {
	case FormatShapefile:
		return Shapefile(filename, fields...)
	case FormatGeoJSON:
		f, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("load: %v", err)
		}
		defer f.Close()
		return GeoJSON(f)
	default:
		return nil, fmt.Errorf("load: unsupported format %q", format)
	}
}

// Shapefile reads every feature from a shapefile, along with the named
// attribute fields. Records with a null shape are skipped; the Row of the
// remaining features is still their position in the file.
func Shapefile(filename string, fields ...string) ([]*Feature, error) {
	d, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("load: opening shapefile: %v", err)
	}
	defer d.Close()

	var features []*Feature
	for row := 0; ; row++ {
		g, vals, more := d.DecodeRowFields(fields...)
		if err := d.Error(); err != nil {
			return nil, fmt.Errorf("load: reading %s row %d: %v", filename, row, err)
		}
		if !more {
			break
		}
		if g == nil {
			continue
		}
		features = append(features, &Feature{Row: row, Geom: g, Fields: vals})
	}
	return features, nil
}

// GeoJSON reads line delimited GeoJSON geometry objects from r. Blank lines
// are skipped.
func GeoJSON(r io.Reader) ([]*Feature, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var features []*Feature
	for line := 1; scanner.Scan(); line++ {
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		g, err := geojson.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("load: GeoJSON line %d: %v", line, err)
		}
		features = append(features, &Feature{Row: len(features), Geom: g})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load: %v", err)
	}
	return features, nil
}

// WriteGeoJSON writes g to w as a single line of GeoJSON.
func WriteGeoJSON(w io.Writer, g geom.Geom) error {
	b, err := geojson.Encode(g)
	if err != nil {
		return fmt.Errorf("load: encoding GeoJSON: %v", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
