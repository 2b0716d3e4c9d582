// Package routefile reads the recorded patrol loop replayed by the tracking
// simulator. Sources are an array of {lat, lng} objects in JSON or YAML.
package routefile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// Format identifies the encoding of a route source.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// rawPoint keeps pointers so a missing field can be told apart from a zero.
type rawPoint struct {
	Lat *float64 `json:"lat" yaml:"lat"`
	Lng *float64 `json:"lng" yaml:"lng"`
}

// LoadFile reads the route at path, choosing the format from its extension
// (.yaml and .yml are YAML, anything else is JSON).
func LoadFile(path string) (*domain.RouteSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrMalformedRoute, path, err)
	}
	defer f.Close()

	return Load(f, FormatFromPath(path))
}

// FormatFromPath infers the route format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load decodes a route source and builds the deduplicated RouteSample.
func Load(r io.Reader, format Format) (*domain.RouteSample, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", domain.ErrMalformedRoute, err)
	}

	var raw []rawPoint
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrMalformedRoute, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrMalformedRoute, format, err)
	}

	points := make([]domain.Coordinate, 0, len(raw))
	for i, p := range raw {
		if p.Lat == nil || p.Lng == nil {
			return nil, fmt.Errorf("%w: coordinate %d is missing lat or lng", domain.ErrMalformedRoute, i)
		}
		points = append(points, domain.Coordinate{Lat: *p.Lat, Lng: *p.Lng})
	}

	return domain.NewRouteSample(points)
}
