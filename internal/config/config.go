// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all grid and simulation settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// HEATMAP CACHE POLICY
// =============================================================================

// HeatmapMode selects the cache policy for the heatmap artifact. The policy
// is always an explicit caller decision, the core never silently rebuilds.
type HeatmapMode string

const (
	// ModeAuto loads the artifact and falls back to a fresh build (then
	// saves) when it is missing or its shape no longer matches the grid.
	ModeAuto HeatmapMode = "auto"
	// ModeLoad requires the artifact, any load failure is a startup error.
	ModeLoad HeatmapMode = "load"
	// ModeRebuild always recomputes and overwrites the artifact.
	ModeRebuild HeatmapMode = "rebuild"
)

// =============================================================================
// GRID CONFIGURATION
// =============================================================================

// GridConfig holds occupancy grid settings.
// These values are shared between the navigation core and the heatgen tool.
type GridConfig struct {
	Width  int // World width in cells
	Height int // World height in cells
	Buffer int // Safety margin blocked around each wall, in cells
	Reduce int // Block max-pool window, 1 = full resolution
}

// DefaultGrid returns the default grid configuration.
// This is the SINGLE SOURCE OF TRUTH for world dimensions.
func DefaultGrid() GridConfig {
	return GridConfig{
		Width:  800,
		Height: 800,
		Buffer: 1, // keeps agents with a collision radius out of one-cell gaps
		Reduce: 1,
	}
}

// GridFromEnv returns grid configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func GridFromEnv() GridConfig {
	cfg := DefaultGrid()

	if w := getEnvInt("GRID_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvInt("GRID_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if b := getEnvInt("GRID_BUFFER", -1); b >= 0 {
		cfg.Buffer = b
	}
	if k := getEnvInt("GRID_REDUCE", 0); k > 0 {
		cfg.Reduce = k
	}

	return cfg
}

// =============================================================================
// HEATMAP BUILD & PERSISTENCE
// =============================================================================

// HeatmapConfig holds build and persistence settings for the heatmap stack.
type HeatmapConfig struct {
	Mode         HeatmapMode
	ArtifactPath string
	Workers      int // Build workers, 0 = NumCPU
}

// DefaultHeatmap returns the default heatmap configuration.
func DefaultHeatmap() HeatmapConfig {
	return HeatmapConfig{
		Mode:         ModeAuto,
		ArtifactPath: "heatmaps/stack.bin",
		Workers:      0,
	}
}

// HeatmapFromEnv returns heatmap configuration with environment variable overrides.
func HeatmapFromEnv() HeatmapConfig {
	cfg := DefaultHeatmap()

	switch HeatmapMode(os.Getenv("HEATMAP_MODE")) {
	case ModeAuto:
		cfg.Mode = ModeAuto
	case ModeLoad:
		cfg.Mode = ModeLoad
	case ModeRebuild:
		cfg.Mode = ModeRebuild
	}
	if p := os.Getenv("HEATMAP_PATH"); p != "" {
		cfg.ArtifactPath = p
	}
	if w := getEnvInt("HEATMAP_WORKERS", 0); w > 0 {
		cfg.Workers = w
	}

	return cfg
}

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimConfig holds agent simulation settings.
type SimConfig struct {
	TickRate  int   // Simulation steps per second
	Agents    int   // Agents spawned at startup
	MaxAgents int   // Hard cap on total agents (DoS protection)
	Seed      int64 // RNG seed, 0 = derive from clock
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate:  30,
		Agents:    200,
		MaxAgents: 5000,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if t := getEnvInt("SIM_TICK_RATE", 0); t > 0 {
		cfg.TickRate = t
	}
	if a := getEnvInt("SIM_AGENTS", -1); a >= 0 {
		cfg.Agents = a
	}
	if m := getEnvInt("SIM_MAX_AGENTS", 0); m > 0 {
		cfg.MaxAgents = m
	}
	if s := getEnvInt("SIM_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int
	LayoutPath string // World layout file (.yaml or .geojson), "" = built-in campus
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if l := os.Getenv("WORLD_LAYOUT"); l != "" {
		cfg.LayoutPath = l
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Grid    GridConfig
	Heatmap HeatmapConfig
	Sim     SimConfig
	Server  ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Grid:    GridFromEnv(),
		Heatmap: HeatmapFromEnv(),
		Sim:     SimFromEnv(),
		Server:  ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
