package core

import (
	"errors"
	"fmt"
)

// MinMaxScaler maps each column to (v-min)/(max-min) using bounds learned at fit time.
// Values outside the fitted range are not clamped. A column whose range is
// zero always scales to 0.
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

// FitMinMax learns per-column bounds from a non-empty matrix.
func FitMinMax(matrix [][]float64) (*MinMaxScaler, error) {
	if len(matrix) == 0 {
		return nil, errors.New("cannot fit scaler on an empty matrix")
	}
	width := len(matrix[0])
	s := &MinMaxScaler{Min: make([]float64, width), Max: make([]float64, width)}
	copy(s.Min, matrix[0])
	copy(s.Max, matrix[0])
	for r, row := range matrix[1:] {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d", r+1, len(row), width)
		}
		for c, v := range row {
			s.Min[c] = min(s.Min[c], v)
			s.Max[c] = max(s.Max[c], v)
		}
	}
	return s, nil
}

// NewMinMaxScaler builds a scaler from stored bounds.
func NewMinMaxScaler(lo, hi []float64) (*MinMaxScaler, error) {
	if len(lo) != len(hi) {
		return nil, fmt.Errorf("scaler bounds mismatch: %d min values, %d max values", len(lo), len(hi))
	}
	for i := range lo {
		if lo[i] > hi[i] {
			return nil, fmt.Errorf("scaler column %d has min %v above max %v", i, lo[i], hi[i])
		}
	}
	return &MinMaxScaler{Min: lo, Max: hi}, nil
}

// Dim returns the number of columns the scaler was fitted on.
func (s *MinMaxScaler) Dim() int { return len(s.Min) }

// Transform scales a vector into a new slice.
func (s *MinMaxScaler) Transform(vec []float64) ([]float64, error) {
	if len(vec) != len(s.Min) {
		return nil, fmt.Errorf("vector has %d columns, scaler expects %d", len(vec), len(s.Min))
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		span := s.Max[i] - s.Min[i]
		if span == 0 {
			continue
		}
		out[i] = (v - s.Min[i]) / span
	}
	return out, nil
}
