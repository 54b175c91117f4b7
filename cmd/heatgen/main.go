// Command heatgen precomputes the heatmap artifact offline so the server can
// start with HEATMAP_MODE=load. It can also export per-layer diagnostic PNGs
// and a CSV build report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"crowdnav/internal/nav"
	"crowdnav/internal/world"
)

type reportRow struct {
	Layer       int     `csv:"layer"`
	Name        string  `csv:"name"`
	X           int     `csv:"x"`
	Y           int     `csv:"y"`
	DurationMS  float64 `csv:"duration_ms"`
	Reachable   int     `csv:"reachable_cells"`
	MaxDistance float32 `csv:"max_distance"`
}

func main() {
	var (
		layoutPath = flag.String("layout", "", "world layout file (.yaml or .geojson), empty for the built-in campus")
		outPath    = flag.String("out", "heatmaps/stack.bin", "output artifact path")
		workers    = flag.Int("workers", 0, "build workers, 0 = NumCPU")
		buffer     = flag.Int("buffer", 1, "blocked margin around walls, in cells")
		reduce     = flag.Int("reduce", 1, "max-pool window, 1 = full resolution")
		pngDir     = flag.String("png", "", "directory for diagnostic PNGs, empty to skip")
		reportPath = flag.String("report", "", "CSV build report path, empty to skip")
	)
	flag.Parse()

	layout, err := loadLayout(*layoutPath)
	if err != nil {
		log.Fatalf("load layout: %v", err)
	}
	log.Printf("world %q: %dx%d, %d walls, %d destinations",
		layout.Name, layout.Width, layout.Height, len(layout.Walls), len(layout.Destinations))

	segments, err := layout.Segments()
	if err != nil {
		log.Fatalf("invalid layout: %v", err)
	}

	grid, err := nav.BuildOccupancy(nav.GridConfig{
		Width:  layout.Width,
		Height: layout.Height,
		Buffer: *buffer,
		Reduce: *reduce,
	}, segments)
	if err != nil {
		log.Fatalf("occupancy grid: %v", err)
	}

	dests := layout.DestinationCells()
	if *reduce > 1 {
		for i := range dests {
			dests[i].X /= *reduce
			dests[i].Y /= *reduce
		}
	}

	stack, stats, err := nav.BuildStack(grid, dests, *workers)
	if err != nil {
		log.Fatalf("heatmap build: %v", err)
	}

	if err := nav.NewStore(*outPath).Save(stack); err != nil {
		log.Fatalf("save artifact: %v", err)
	}
	log.Printf("wrote %d layers to %s", stack.Layers(), *outPath)

	if *pngDir != "" {
		if err := exportPNGs(*pngDir, grid, stack, dests); err != nil {
			log.Fatalf("export PNGs: %v", err)
		}
		log.Printf("wrote diagnostic PNGs to %s", *pngDir)
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, layout, stats); err != nil {
			log.Fatalf("write report: %v", err)
		}
		log.Printf("wrote build report to %s", *reportPath)
	}
}

func loadLayout(path string) (*world.Layout, error) {
	if path == "" {
		return world.Campus(), nil
	}
	if filepath.Ext(path) == ".geojson" {
		return world.LoadGeoJSON(path)
	}
	return world.LoadLayout(path)
}

func exportPNGs(dir string, grid *nav.OccupancyGrid, stack *nav.Stack, dests []nav.Cell) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := nav.SavePNG(filepath.Join(dir, "occupancy.png"), nav.RenderOccupancy(grid)); err != nil {
		return err
	}
	for i := 0; i < stack.Layers(); i++ {
		name := fmt.Sprintf("heatmap-%03d.png", i)
		img := nav.RenderHeatmap(stack.Layer(i), dests[i])
		if err := nav.SavePNG(filepath.Join(dir, name), img); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(path string, layout *world.Layout, stats []nav.BuildStats) error {
	rows := make([]reportRow, len(stats))
	for i, st := range stats {
		rows[i] = reportRow{
			Layer:       st.Layer,
			Name:        layout.Destinations[st.Layer].Name,
			X:           st.Destination.X,
			Y:           st.Destination.Y,
			DurationMS:  float64(st.Duration.Microseconds()) / 1000,
			Reachable:   st.ReachableCells,
			MaxDistance: st.MaxDistance,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&rows, f)
}
