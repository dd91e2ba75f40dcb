package core

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// FeatureSchema is the ordered list of model columns fixed at training time.
// It is immutable after construction and safe for concurrent use.
type FeatureSchema struct {
	columns     []string
	index       map[string]int
	fingerprint string
}

// NewFeatureSchema builds a schema from an ordered column list.
// Column names must be unique and non-empty.
func NewFeatureSchema(columns []string) (*FeatureSchema, error) {
	if len(columns) == 0 {
		return nil, errors.New("feature schema has no columns")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("feature schema column %d is empty", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("feature schema has duplicate column %q", c)
		}
		index[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	sum := sha256.Sum256([]byte(strings.Join(cols, "\x00")))
	return &FeatureSchema{
		columns:     cols,
		index:       index,
		fingerprint: hex.EncodeToString(sum[:8]),
	}, nil
}

// Len returns the number of columns.
func (s *FeatureSchema) Len() int { return len(s.columns) }

// Columns returns a copy of the ordered column names.
func (s *FeatureSchema) Columns() []string {
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Index returns the position of a column.
func (s *FeatureSchema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// Fingerprint identifies the column order. Two schemas with the same
// fingerprint produce identical vectors for the same input.
func (s *FeatureSchema) Fingerprint() string { return s.fingerprint }
