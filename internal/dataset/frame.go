package dataset

import (
	"fmt"
	"slices"
	"strconv"
)

// Frame is an in-memory table of named columns over string-valued cells.
// Cells stay strings until a consumer asks for numbers, since the raw CSVs
// mix numeric and categorical columns.
type Frame struct {
	Columns []string
	Rows    [][]string
}

func NewFrame(columns []string) *Frame {
	return &Frame{Columns: slices.Clone(columns)}
}

func (f *Frame) NumRows() int { return len(f.Rows) }

func (f *Frame) NumCols() int { return len(f.Columns) }

func (f *Frame) HasColumn(name string) bool {
	return slices.Contains(f.Columns, name)
}

func (f *Frame) columnIndex(name string) (int, error) {
	idx := slices.Index(f.Columns, name)
	if idx < 0 {
		return 0, fmt.Errorf("frame has no column %q", name)
	}
	return idx, nil
}

// Column returns the raw values of the named column.
func (f *Frame) Column(name string) ([]string, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return nil, err
	}

	vals := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		vals[i] = row[idx]
	}
	return vals, nil
}

// FloatColumn parses the named column as float64 values.
func (f *Frame) FloatColumn(name string) ([]float64, error) {
	raw, err := f.Column(name)
	if err != nil {
		return nil, err
	}

	vals := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: invalid numeric value %q: %w", name, i, s, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Drop returns a copy of the frame without the named column.
func (f *Frame) Drop(name string) (*Frame, error) {
	idx, err := f.columnIndex(name)
	if err != nil {
		return nil, err
	}

	out := &Frame{Columns: slices.Delete(slices.Clone(f.Columns), idx, idx+1)}
	out.Rows = make([][]string, len(f.Rows))
	for i, row := range f.Rows {
		out.Rows[i] = slices.Delete(slices.Clone(row), idx, idx+1)
	}
	return out, nil
}

// Append stacks the rows of other onto f. The column sets must already agree.
func (f *Frame) Append(other *Frame) error {
	if !slices.Equal(f.Columns, other.Columns) {
		return fmt.Errorf("cannot concatenate frames: columns %v do not match %v", other.Columns, f.Columns)
	}
	f.Rows = append(f.Rows, other.Rows...)
	return nil
}

// SplitTarget separates the first column as the regression target and
// returns the remaining columns as the feature matrix.
func (f *Frame) SplitTarget() ([]float64, [][]float64, error) {
	if f.NumCols() < 2 {
		return nil, nil, fmt.Errorf("need at least 2 columns to split target, have %d", f.NumCols())
	}

	y := make([]float64, len(f.Rows))
	X := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		target, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: invalid target value %q: %w", i, row[0], err)
		}
		y[i] = target

		X[i] = make([]float64, len(row)-1)
		for j, s := range row[1:] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d column %q: invalid feature value %q: %w", i, f.Columns[j+1], s, err)
			}
			X[i][j] = v
		}
	}
	return y, X, nil
}

// FloatMatrix parses every cell as a float64.
func (f *Frame) FloatMatrix() ([][]float64, error) {
	X := make([][]float64, len(f.Rows))
	for i, row := range f.Rows {
		X[i] = make([]float64, len(row))
		for j, s := range row {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: invalid numeric value %q: %w", i, f.Columns[j], s, err)
			}
			X[i][j] = v
		}
	}
	return X, nil
}
