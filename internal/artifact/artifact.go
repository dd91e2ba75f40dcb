// Package artifact reads and writes trained model bundles.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current bundle format version - increment when Bundle changes
const bundleSchemaVersion uint16 = 1

// ErrSchemaMismatch is returned for bundles written by an incompatible version.
var ErrSchemaMismatch = errors.New("model bundle format is not supported")

// Bundle is everything needed to rebuild a classifier: the column order,
// the scaler bounds and the forest.
type Bundle struct {
	// Format version for safe invalidation
	Schema uint16 `msgpack:"schema"`

	// Model metadata
	ModelID   string    `msgpack:"model_id"`
	TrainedAt time.Time `msgpack:"trained_at"`
	Trees     int       `msgpack:"trees"`
	Seed      int64     `msgpack:"seed"`
	Rows      int       `msgpack:"rows"`
	Accuracy  float64   `msgpack:"accuracy"`

	// Feature schema and scaler bounds, aligned by index
	Columns []string  `msgpack:"columns"`
	Min     []float64 `msgpack:"min"`
	Max     []float64 `msgpack:"max"`

	Forest []TreeNodes `msgpack:"forest"`
}

// TreeNodes is one decision tree as parallel node arrays.
type TreeNodes struct {
	Feature   []int32   `msgpack:"f"`
	Threshold []float64 `msgpack:"t"`
	Left      []int32   `msgpack:"l"`
	Right     []int32   `msgpack:"r"`
	Value     []float64 `msgpack:"v"`
}

// Check verifies the shape of a bundle without interpreting the trees.
func (b *Bundle) Check() error {
	if b.Schema != bundleSchemaVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrSchemaMismatch, b.Schema, bundleSchemaVersion)
	}
	if len(b.Columns) == 0 {
		return errors.New("model bundle has no columns")
	}
	if len(b.Min) != len(b.Columns) || len(b.Max) != len(b.Columns) {
		return fmt.Errorf("model bundle has %d columns but %d/%d scaler bounds", len(b.Columns), len(b.Min), len(b.Max))
	}
	if len(b.Forest) == 0 {
		return errors.New("model bundle has no trees")
	}
	return nil
}

// Marshal encodes a bundle, stamping the current format version.
func Marshal(b *Bundle) ([]byte, error) {
	b.Schema = bundleSchemaVersion
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(b); err != nil {
		return nil, fmt.Errorf("cannot encode model bundle: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and checks a bundle.
func Unmarshal(data []byte) (*Bundle, error) {
	var b Bundle
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("cannot decode model bundle: %w", err)
	}
	if err := b.Check(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Save writes a bundle to path atomically.
func Save(path string, b *Bundle) error {
	data, err := Marshal(b)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".model-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a bundle from path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read model file: %w", err)
	}
	return Unmarshal(data)
}
