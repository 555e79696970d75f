package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"tabular-backend/internal/dataset"
)

// ColumnTransformer composes the numeric scaler and the categorical encoder
// side by side: output is every scaled numeric column in listed order
// followed by every indicator column in listed order. All other input
// columns are dropped.
type ColumnTransformer struct {
	Scaler  *MinMaxScaler
	Encoder *OneHotEncoder
}

// NewStudentPreprocessor builds the transformer over the fixed numeric and
// nominal column subsets of the student schema.
func NewStudentPreprocessor() *ColumnTransformer {
	return &ColumnTransformer{
		Scaler:  NewMinMaxScaler(dataset.NumericColumns),
		Encoder: NewOneHotEncoder(dataset.NominalColumns),
	}
}

func (c *ColumnTransformer) Fit(frame *dataset.Frame) error {
	if err := c.Scaler.Fit(frame); err != nil {
		return fmt.Errorf("column transformer: %w", err)
	}
	if err := c.Encoder.Fit(frame); err != nil {
		return fmt.Errorf("column transformer: %w", err)
	}
	return nil
}

func (c *ColumnTransformer) Transform(frame *dataset.Frame) (*mat.Dense, error) {
	numeric, err := c.Scaler.Transform(frame)
	if err != nil {
		return nil, fmt.Errorf("column transformer: %w", err)
	}
	nominal, err := c.Encoder.Transform(frame)
	if err != nil {
		return nil, fmt.Errorf("column transformer: %w", err)
	}

	columns := append(numeric, nominal...)
	out := mat.NewDense(frame.NumRows(), len(columns), nil)
	for j, col := range columns {
		for i, v := range col {
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// Apply implements Artifact. When the decoded frame still carries the label
// column, the label values are reinserted as the first output column, since
// column selection would otherwise lose them.
func (c *ColumnTransformer) Apply(frame *dataset.Frame) (*mat.Dense, error) {
	features, err := c.Transform(frame)
	if err != nil {
		return nil, err
	}

	if !frame.HasColumn(dataset.LabelColumn) {
		return features, nil
	}

	labels, err := frame.FloatColumn(dataset.LabelColumn)
	if err != nil {
		return nil, fmt.Errorf("column transformer: %w", err)
	}

	rows, cols := features.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, labels[i])
		for j := 0; j < cols; j++ {
			out.Set(i, j+1, features.At(i, j))
		}
	}
	return out, nil
}
