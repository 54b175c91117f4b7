package world

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON imports a layout from a GeoJSON FeatureCollection, the
// interchange format mapping tools export. LineString features become walls
// (each consecutive point pair must be axis-aligned, with an optional
// integer "thickness" property), Point features become destinations with
// optional "name" and "weight" properties. The collection-level size comes
// from "width"/"height" properties on the first feature that carries them.
func LoadGeoJSON(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("world: parse geojson %s: %w", path, err)
	}

	l := &Layout{Name: path}
	for _, f := range fc.Features {
		if l.Width == 0 {
			l.Width = f.Properties.MustInt("width", 0)
			l.Height = f.Properties.MustInt("height", 0)
		}
		switch geom := f.Geometry.(type) {
		case orb.LineString:
			thickness := f.Properties.MustInt("thickness", 3)
			for i := 0; i+1 < len(geom); i++ {
				a, b := geom[i], geom[i+1]
				l.Walls = append(l.Walls, WallSpec{
					X1: int(a.X()), Y1: int(a.Y()),
					X2: int(b.X()), Y2: int(b.Y()),
					Thickness: thickness,
				})
			}
		case orb.Point:
			l.Destinations = append(l.Destinations, Destination{
				Name:   f.Properties.MustString("name", fmt.Sprintf("destination-%d", len(l.Destinations))),
				X:      int(geom.X()),
				Y:      int(geom.Y()),
				Weight: f.Properties.MustFloat64("weight", 0),
			})
		default:
			return nil, fmt.Errorf("world: unsupported geometry %T in %s", geom, path)
		}
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}
