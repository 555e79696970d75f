package model

import (
	"errors"
	"fmt"

	"tabular-backend/internal/dataset"
)

// OneHotEncoder expands each of its columns into indicator columns, one per
// category observed at fit time. Binary columns collapse to a single
// indicator for the second category. A category never seen at fit time is an
// error at transform time, never silently ignored.
type OneHotEncoder struct {
	Columns    []string
	Categories [][]string // per column, in first-occurrence order over the fit data
}

func NewOneHotEncoder(columns []string) *OneHotEncoder {
	return &OneHotEncoder{Columns: columns}
}

func (e *OneHotEncoder) Fit(frame *dataset.Frame) error {
	if frame.NumRows() == 0 {
		return errors.New("encoder: cannot fit on empty frame")
	}

	e.Categories = make([][]string, len(e.Columns))
	for j, col := range e.Columns {
		vals, err := frame.Column(col)
		if err != nil {
			return fmt.Errorf("encoder: %w", err)
		}

		seen := make(map[string]struct{})
		for _, v := range vals {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				e.Categories[j] = append(e.Categories[j], v)
			}
		}
	}
	return nil
}

// Transform returns the expanded indicator columns for every configured
// column, in configured column order then category order.
func (e *OneHotEncoder) Transform(frame *dataset.Frame) ([][]float64, error) {
	if e.Categories == nil {
		return nil, errors.New("encoder: not fitted")
	}

	var out [][]float64
	for j, col := range e.Columns {
		vals, err := frame.Column(col)
		if err != nil {
			return nil, fmt.Errorf("encoder: %w", err)
		}

		index := make(map[string]int, len(e.Categories[j]))
		for k, cat := range e.Categories[j] {
			index[cat] = k
		}

		width := len(e.Categories[j])
		if width == 2 {
			// A binary column carries its full information in one
			// indicator: 1 for the second category, 0 for the first.
			width = 1
		}

		block := make([][]float64, width)
		for k := range block {
			block[k] = make([]float64, len(vals))
		}

		for i, v := range vals {
			k, ok := index[v]
			if !ok {
				return nil, fmt.Errorf("encoder: column %q: unknown category %q", col, v)
			}
			if len(e.Categories[j]) == 2 {
				if k == 1 {
					block[0][i] = 1
				}
			} else {
				block[k][i] = 1
			}
		}
		out = append(out, block...)
	}
	return out, nil
}

// OutputWidth is the number of indicator columns Transform produces.
func (e *OneHotEncoder) OutputWidth() int {
	var width int
	for _, cats := range e.Categories {
		if len(cats) == 2 {
			width++
		} else {
			width += len(cats)
		}
	}
	return width
}
