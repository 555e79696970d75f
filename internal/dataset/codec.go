package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"tabular-backend/pkg/api"
)

var (
	// ErrUnsupportedFormat is returned for any request or response encoding
	// outside the supported set. Callers map it to HTTP 415.
	ErrUnsupportedFormat = errors.New("unsupported content type")

	// ErrSchemaMismatch is returned when a payload's column count matches
	// neither the feature schema nor the labelled schema. Silently assigning
	// names to a mismatched payload would mislabel every column downstream,
	// so this is a hard error.
	ErrSchemaMismatch = errors.New("payload does not match expected schema")
)

// DecodeRequest parses a request payload into a Frame. Only text/csv is
// accepted, and the payload carries no header row: whether the label column
// is present is determined by counting columns. A labelled payload carries
// the label as its final column.
func DecodeRequest(data []byte, contentType string) (*Frame, error) {
	if contentType != api.ContentTypeCSV {
		return nil, fmt.Errorf("%w: cannot decode %q request", ErrUnsupportedFormat, contentType)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv payload: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv payload")
	}

	var columns []string
	switch len(rows[0]) {
	case len(FeatureColumns):
		columns = FeatureColumns
	case len(FeatureColumns) + 1:
		columns = LabelledColumns()
	default:
		return nil, fmt.Errorf("%w: payload has %d columns, expected %d or %d",
			ErrSchemaMismatch, len(rows[0]), len(FeatureColumns), len(FeatureColumns)+1)
	}

	return &Frame{Columns: columns, Rows: rows}, nil
}

// EncodeResponse serializes an output matrix into the requested encoding and
// returns the payload along with the content type to declare on the
// response.
func EncodeResponse(m *mat.Dense, accept string) ([]byte, string, error) {
	switch accept {
	case api.ContentTypeJSON:
		data, err := encodeInstances(m)
		return data, api.ContentTypeJSON, err
	case api.ContentTypeCSV:
		data, err := encodeCSV(m)
		return data, api.ContentTypeCSV, err
	default:
		return nil, "", fmt.Errorf("%w: cannot encode %q response", ErrUnsupportedFormat, accept)
	}
}

func encodeInstances(m *mat.Dense) ([]byte, error) {
	rows, cols := m.Dims()

	resp := api.InstancesResponse{Instances: make([]api.Instance, rows)}
	for i := 0; i < rows; i++ {
		features := make([]float64, cols)
		for j := 0; j < cols; j++ {
			features[j] = m.At(i, j)
		}
		resp.Instances[i] = api.Instance{Features: features}
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize instances: %w", err)
	}
	return data, nil
}

func encodeCSV(m *mat.Dense) ([]byte, error) {
	rows, cols := m.Dims()

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	record := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			record[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv output: %w", err)
	}
	return buf.Bytes(), nil
}
