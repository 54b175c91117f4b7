package nav

import (
	"image"

	"github.com/fogleman/gg"
)

// Diagnostic rendering for the heatgen tool. These images are build
// artifacts for eyeballing a world layout and its distance fields, they play
// no part in serving queries.

// RenderOccupancy draws the occupancy grid, blocked cells in dark grey on a
// white background.
func RenderOccupancy(g *OccupancyGrid) image.Image {
	dc := gg.NewContext(g.width, g.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.25, 0.29, 0.35)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.blocked[y*g.width+x] {
				dc.SetPixel(x, y)
			}
		}
	}
	return dc.Image()
}

// RenderHeatmap draws one distance field: near cells hot (red), far cells
// cold (blue), unreachable cells black, the destination marked white.
func RenderHeatmap(h *Heatmap, dest Cell) image.Image {
	maxDist := h.MaxDistance()
	if maxDist <= 0 {
		maxDist = 1
	}

	dc := gg.NewContext(h.width, h.height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	for y := 0; y < h.height; y++ {
		for x := 0; x < h.width; x++ {
			d := h.dist[y*h.width+x]
			if d == Unreachable {
				continue
			}
			t := float64(d / maxDist)
			dc.SetRGB(1-t, 0.15, t)
			dc.SetPixel(x, y)
		}
	}
	dc.SetRGB(1, 1, 1)
	dc.DrawCircle(float64(dest.X), float64(dest.Y), 3)
	dc.Fill()
	return dc.Image()
}

// SavePNG writes an image to disk.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}
