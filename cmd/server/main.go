package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"crowdnav/internal/api"
	"crowdnav/internal/config"
	"crowdnav/internal/nav"
	"crowdnav/internal/sim"
	"crowdnav/internal/world"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	gridCfg := appConfig.Grid
	heatCfg := appConfig.Heatmap
	simCfg := appConfig.Sim
	serverCfg := appConfig.Server

	layout := loadLayout(serverCfg.LayoutPath)
	log.Printf("world %q: %dx%d, %d walls, %d destinations",
		layout.Name, layout.Width, layout.Height, len(layout.Walls), len(layout.Destinations))

	// The layout owns the world dimensions; env overrides only tune the
	// rasterization knobs.
	gridCfg.Width = layout.Width
	gridCfg.Height = layout.Height

	segments, err := layout.Segments()
	if err != nil {
		log.Fatalf("invalid layout: %v", err)
	}

	// Cross-check destinations against the wall index before paying for a
	// full rasterization pass.
	index, err := world.NewIndex(segments, gridCfg.Buffer)
	if err != nil {
		log.Fatalf("wall index: %v", err)
	}
	dests := layout.DestinationCells()
	if err := index.CheckDestinations(dests); err != nil {
		log.Fatalf("layout rejected: %v", err)
	}

	grid, err := nav.BuildOccupancy(nav.GridConfig{
		Width:  gridCfg.Width,
		Height: gridCfg.Height,
		Buffer: gridCfg.Buffer,
		Reduce: gridCfg.Reduce,
	}, segments)
	if err != nil {
		log.Fatalf("occupancy grid: %v", err)
	}
	log.Printf("occupancy grid %dx%d, %d blocked cells", grid.Width(), grid.Height(), grid.BlockedCount())

	// Destinations are expressed in full-resolution coordinates; scale them
	// down when the grid is reduced.
	if gridCfg.Reduce > 1 {
		for i := range dests {
			dests[i].X /= gridCfg.Reduce
			dests[i].Y /= gridCfg.Reduce
		}
	}

	stack := loadOrBuildStack(heatCfg, grid, dests)
	api.UpdateHeatmapLayers(stack.Layers())

	directions := nav.NewDirectionService(grid, stack, simCfg.Seed)

	engine, err := sim.NewEngine(directions, dests, layout.Weights(),
		simCfg.TickRate, simCfg.MaxAgents, simCfg.Seed)
	if err != nil {
		log.Fatalf("simulation: %v", err)
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	server := api.NewServer(directions, engine, layout, index)

	engine.Start()
	if n := engine.Spawn(simCfg.Agents); n > 0 {
		log.Printf("spawned %d agents", n)
	}

	// Start API server in goroutine
	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down...")
	engine.Stop()
	server.Stop()
}

// loadLayout resolves the world description: a GeoJSON or YAML file when
// configured, the built-in campus otherwise.
func loadLayout(path string) *world.Layout {
	if path == "" {
		return world.Campus()
	}

	var (
		layout *world.Layout
		err    error
	)
	if filepath.Ext(path) == ".geojson" {
		layout, err = world.LoadGeoJSON(path)
	} else {
		layout, err = world.LoadLayout(path)
	}
	if err != nil {
		log.Fatalf("load layout %s: %v", path, err)
	}
	return layout
}

// loadOrBuildStack applies the configured cache policy to the heatmap artifact.
func loadOrBuildStack(cfg config.HeatmapConfig, grid *nav.OccupancyGrid, dests []nav.Cell) *nav.Stack {
	store := nav.NewStore(cfg.ArtifactPath)

	if cfg.Mode != config.ModeRebuild {
		stack, err := store.Load(len(dests), grid.Width(), grid.Height())
		if err == nil {
			log.Printf("loaded %d heatmap layers from %s", stack.Layers(), cfg.ArtifactPath)
			return stack
		}

		var notFound *nav.NotFoundError
		var mismatch *nav.ShapeMismatchError
		switch {
		case errors.As(err, &notFound):
			log.Printf("heatmap artifact missing: %v", err)
		case errors.As(err, &mismatch):
			log.Printf("heatmap artifact stale: %v", err)
		default:
			log.Printf("heatmap artifact unreadable: %v", err)
		}

		if cfg.Mode == config.ModeLoad {
			log.Fatalf("HEATMAP_MODE=load requires a matching artifact at %s", cfg.ArtifactPath)
		}
	}

	log.Printf("building %d heatmap layers with %d workers...", len(dests), cfg.Workers)
	stack, stats, err := nav.BuildStack(grid, dests, cfg.Workers)
	if err != nil {
		log.Fatalf("heatmap build: %v", err)
	}
	for _, st := range stats {
		api.RecordHeatmapBuild(st.Duration)
	}

	if err := store.Save(stack); err != nil {
		log.Printf("could not persist heatmaps: %v", err)
	} else {
		log.Printf("saved heatmap artifact to %s", cfg.ArtifactPath)
	}
	return stack
}
