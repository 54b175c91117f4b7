// Package world supplies the geometry the navigation core consumes: obstacle
// walls, the named destination list and the world dimensions. Layouts come
// from YAML files, GeoJSON imports or the built-in campus default.
package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"crowdnav/internal/nav"
)

// WallSpec is one thick axis-aligned wall in a layout file.
type WallSpec struct {
	X1        int `yaml:"x1" json:"x1"`
	Y1        int `yaml:"y1" json:"y1"`
	X2        int `yaml:"x2" json:"x2"`
	Y2        int `yaml:"y2" json:"y2"`
	Thickness int `yaml:"thickness" json:"thickness"`
}

// Destination is a named target cell agents navigate toward. Weight biases
// how often agents pick it, relative to the other destinations; zero means
// "use the uniform share".
type Destination struct {
	Name   string  `yaml:"name" json:"name"`
	X      int     `yaml:"x" json:"x"`
	Y      int     `yaml:"y" json:"y"`
	Weight float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// Layout is a complete world description. Destination order is stable: the
// slice index is the identity heatmap layers and agents use.
type Layout struct {
	Name         string        `yaml:"name" json:"name"`
	Width        int           `yaml:"width" json:"width"`
	Height       int           `yaml:"height" json:"height"`
	Walls        []WallSpec    `yaml:"walls" json:"walls"`
	Destinations []Destination `yaml:"destinations" json:"destinations"`
}

// LoadLayout reads and validates a YAML layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("world: parse layout %s: %w", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks dimensions, wall geometry and destination placement.
func (l *Layout) Validate() error {
	if l.Width < 3 || l.Height < 3 {
		return fmt.Errorf("world: layout %q needs dimensions of at least 3x3, got %dx%d", l.Name, l.Width, l.Height)
	}
	if len(l.Destinations) == 0 {
		return fmt.Errorf("world: layout %q has no destinations", l.Name)
	}
	if _, err := l.Segments(); err != nil {
		return err
	}
	for i, d := range l.Destinations {
		if d.X <= 0 || d.X >= l.Width-1 || d.Y <= 0 || d.Y >= l.Height-1 {
			return fmt.Errorf("world: destination %d (%q) at (%d,%d) lies on or outside the world border", i, d.Name, d.X, d.Y)
		}
		if d.Weight < 0 {
			return fmt.Errorf("world: destination %d (%q) has negative weight", i, d.Name)
		}
	}
	return nil
}

// Segments converts the wall specs into validated obstacle segments.
func (l *Layout) Segments() ([]nav.Segment, error) {
	segs := make([]nav.Segment, 0, len(l.Walls))
	for i, w := range l.Walls {
		s, err := nav.NewSegment(w.X1, w.Y1, w.X2, w.Y2, w.Thickness)
		if err != nil {
			return nil, fmt.Errorf("world: wall %d: %w", i, err)
		}
		segs = append(segs, s)
	}
	return segs, nil
}

// DestinationCells returns the destination coordinates in stable index order.
func (l *Layout) DestinationCells() []nav.Cell {
	cells := make([]nav.Cell, len(l.Destinations))
	for i, d := range l.Destinations {
		cells[i] = nav.Cell{X: d.X, Y: d.Y}
	}
	return cells
}

// Weights returns one normalized sampling weight per destination. Unweighted
// destinations split the probability mass left over by the weighted ones;
// when nothing is weighted the distribution is uniform.
func (l *Layout) Weights() []float64 {
	w := make([]float64, len(l.Destinations))
	var sum float64
	unweighted := 0
	for i, d := range l.Destinations {
		w[i] = d.Weight
		sum += d.Weight
		if d.Weight == 0 {
			unweighted++
		}
	}
	if unweighted > 0 {
		share := (1 - sum) / float64(unweighted)
		if share <= 0 {
			share = sum / float64(len(w)) // weighted mass already >= 1, just give a mean share
		}
		for i := range w {
			if w[i] == 0 {
				w[i] = share
			}
		}
	}
	return w
}

// SaveLayout writes a layout back to YAML, used by the GeoJSON importer.
func SaveLayout(path string, l *Layout) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("world: marshal layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("world: write layout: %w", err)
	}
	return nil
}
