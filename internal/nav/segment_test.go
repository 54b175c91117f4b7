package nav

import (
	"errors"
	"testing"
)

func TestNewSegmentValidation(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		thickness      int
		wantErr        bool
	}{
		{"horizontal", 10, 20, 50, 20, 3, false},
		{"vertical", 10, 20, 10, 60, 1, false},
		{"thick wall", 0, 5, 90, 5, 7, false},
		{"degenerate point", 10, 10, 10, 10, 3, true},
		{"diagonal", 0, 0, 10, 10, 3, true},
		{"even thickness", 0, 0, 10, 0, 4, true},
		{"zero thickness", 0, 0, 10, 0, 0, true},
		{"negative thickness", 0, 0, 10, 0, -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSegment(tt.x1, tt.y1, tt.x2, tt.y2, tt.thickness)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var geomErr *GeometryError
				if !errors.As(err, &geomErr) {
					t.Errorf("expected GeometryError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSegmentFootprint(t *testing.T) {
	// Thickness 3 plus buffer 1 gives 2 extra cells on each side of the line.
	seg, err := NewSegment(10, 5, 12, 5, 3)
	if err != nil {
		t.Fatalf("NewSegment: %v", err)
	}

	cells := seg.Footprint(1)
	// 3 cells along the line + 2 per end = 7 columns, 5 rows.
	if want := 7 * 5; len(cells) != want {
		t.Fatalf("expected %d footprint cells, got %d", want, len(cells))
	}

	covered := make(map[Cell]bool, len(cells))
	for _, c := range cells {
		covered[c] = true
	}
	for _, c := range []Cell{{8, 3}, {14, 7}, {10, 5}, {12, 5}, {11, 4}} {
		if !covered[c] {
			t.Errorf("footprint should cover %v", c)
		}
	}
	for _, c := range []Cell{{7, 5}, {15, 5}, {10, 2}, {10, 8}} {
		if covered[c] {
			t.Errorf("footprint should not cover %v", c)
		}
	}
}

func TestSegmentFootprintNoBuffer(t *testing.T) {
	seg, err := NewSegment(4, 2, 4, 6, 1)
	if err != nil {
		t.Fatalf("NewSegment: %v", err)
	}
	cells := seg.Footprint(0)
	if len(cells) != 5 {
		t.Fatalf("thickness-1 vertical wall without buffer should be 5 cells, got %d", len(cells))
	}
	for _, c := range cells {
		if c.X != 4 {
			t.Errorf("unexpected footprint cell %v", c)
		}
	}
}

func TestSegmentCovers(t *testing.T) {
	seg, _ := NewSegment(0, 10, 20, 10, 5)
	if !seg.Covers(Cell{5, 12}, 0) {
		t.Error("cell inside thickness band should be covered")
	}
	if seg.Covers(Cell{5, 13}, 0) {
		t.Error("cell beyond thickness band should not be covered")
	}
	if !seg.Covers(Cell{5, 13}, 1) {
		t.Error("buffer should extend coverage by one cell")
	}
}
