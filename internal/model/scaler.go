package model

import (
	"errors"
	"fmt"

	"tabular-backend/internal/dataset"
)

// MinMaxScaler rescales each of its columns to [0, 1] using the range
// observed at fit time.
type MinMaxScaler struct {
	Columns []string
	Min     []float64
	Max     []float64
}

func NewMinMaxScaler(columns []string) *MinMaxScaler {
	return &MinMaxScaler{Columns: columns}
}

func (s *MinMaxScaler) Fit(frame *dataset.Frame) error {
	if frame.NumRows() == 0 {
		return errors.New("scaler: cannot fit on empty frame")
	}

	s.Min = make([]float64, len(s.Columns))
	s.Max = make([]float64, len(s.Columns))
	for j, col := range s.Columns {
		vals, err := frame.FloatColumn(col)
		if err != nil {
			return fmt.Errorf("scaler: %w", err)
		}

		s.Min[j], s.Max[j] = vals[0], vals[0]
		for _, v := range vals[1:] {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
	return nil
}

// Transform returns one scaled output column per configured column, in the
// configured order. Columns that were constant at fit time map to 0.
func (s *MinMaxScaler) Transform(frame *dataset.Frame) ([][]float64, error) {
	if s.Min == nil {
		return nil, errors.New("scaler: not fitted")
	}

	out := make([][]float64, len(s.Columns))
	for j, col := range s.Columns {
		vals, err := frame.FloatColumn(col)
		if err != nil {
			return nil, fmt.Errorf("scaler: %w", err)
		}

		scaled := make([]float64, len(vals))
		span := s.Max[j] - s.Min[j]
		if span != 0 {
			for i, v := range vals {
				scaled[i] = (v - s.Min[j]) / span
			}
		}
		out[j] = scaled
	}
	return out, nil
}
