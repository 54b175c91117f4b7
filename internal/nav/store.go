package nav

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Artifact layout (little endian):
//
//	[4]byte  magic "CNAV"
//	uint16   format version
//	uint32   layers
//	uint32   width
//	uint32   height
//	float32  distances, layers*width*height values, layer-major row-major
//
// Unreachable cells persist as float32 +Inf, which round-trips exactly.
const (
	storeMagic   = "CNAV"
	storeVersion = uint16(1)
)

// Store persists and reloads the full heatmap stack as one binary artifact.
// Saves and loads are bulk synchronous operations: a load either fully
// succeeds or fails, partial results are never visible.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact file path.
func (s *Store) Path() string { return s.path }

// Save writes the stack atomically: to a temp file in the same directory,
// then renamed over the target, so a crash mid-write never leaves a torn
// artifact behind.
func (s *Store) Save(stack *Stack) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("nav: create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".heatmap-*.tmp")
	if err != nil {
		return fmt.Errorf("nav: create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	start := time.Now()
	w := bufio.NewWriterSize(tmp, 1<<20)
	if _, err := w.WriteString(storeMagic); err != nil {
		tmp.Close()
		return fmt.Errorf("nav: write artifact: %w", err)
	}
	header := []any{
		storeVersion,
		uint32(stack.Layers()),
		uint32(stack.width),
		uint32(stack.height),
	}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			tmp.Close()
			return fmt.Errorf("nav: write artifact header: %w", err)
		}
	}
	for _, layer := range stack.layers {
		if err := binary.Write(w, binary.LittleEndian, layer.dist); err != nil {
			tmp.Close()
			return fmt.Errorf("nav: write artifact layer: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("nav: flush artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("nav: close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("nav: publish artifact: %w", err)
	}

	log.Printf("saved heatmap stack (%d, %d, %d) to %s in %v",
		stack.Layers(), stack.width, stack.height, s.path, time.Since(start).Round(time.Millisecond))
	return nil
}

// Load reads the artifact back and verifies its shape against the current
// world configuration. A missing file yields a NotFoundError, a stale cache
// from a different world size yields a ShapeMismatchError. The caller's
// cache policy decides whether either is grounds for a fresh build.
func (s *Store) Load(wantLayers, wantWidth, wantHeight int) (*Stack, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: s.path}
		}
		return nil, fmt.Errorf("nav: open artifact: %w", err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)
	magic := make([]byte, len(storeMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("nav: read artifact magic: %w", err)
	}
	if string(magic) != storeMagic {
		return nil, fmt.Errorf("nav: %s is not a heatmap artifact", s.path)
	}

	var version uint16
	var layers, width, height uint32
	for _, v := range []any{&version, &layers, &width, &height} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, fmt.Errorf("nav: read artifact header: %w", err)
		}
	}
	if version != storeVersion {
		return nil, fmt.Errorf("nav: unsupported artifact version %d", version)
	}
	if int(layers) != wantLayers || int(width) != wantWidth || int(height) != wantHeight {
		return nil, &ShapeMismatchError{
			WantLayers: wantLayers, GotLayers: int(layers),
			WantWidth: wantWidth, GotWidth: int(width),
			WantHeight: wantHeight, GotHeight: int(height),
		}
	}

	stack := &Stack{
		width:  int(width),
		height: int(height),
		layers: make([]*Heatmap, layers),
	}
	for i := range stack.layers {
		layer := &Heatmap{
			width:  int(width),
			height: int(height),
			dist:   make([]float32, int(width)*int(height)),
		}
		if err := binary.Read(r, binary.LittleEndian, layer.dist); err != nil {
			return nil, fmt.Errorf("nav: read artifact layer %d: %w", i, err)
		}
		stack.layers[i] = layer
	}

	log.Printf("loaded heatmap stack (%d, %d, %d) from %s", layers, width, height, s.path)
	return stack, nil
}
