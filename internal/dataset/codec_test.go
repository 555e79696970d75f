package dataset

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"tabular-backend/pkg/api"
)

func csvRow(width int) string {
	fields := make([]string, width)
	for i := range fields {
		fields[i] = "1"
	}
	return strings.Join(fields, ",")
}

func TestDecodeRequestUnlabelled(t *testing.T) {
	payload := csvRow(len(FeatureColumns)) + "\n" + csvRow(len(FeatureColumns))

	frame, err := DecodeRequest([]byte(payload), api.ContentTypeCSV)
	require.NoError(t, err)

	assert.Equal(t, FeatureColumns, frame.Columns)
	assert.Equal(t, 2, frame.NumRows())
	assert.False(t, frame.HasColumn(LabelColumn))
}

func TestDecodeRequestLabelled(t *testing.T) {
	payload := csvRow(len(FeatureColumns) + 1)

	frame, err := DecodeRequest([]byte(payload), api.ContentTypeCSV)
	require.NoError(t, err)

	assert.Equal(t, LabelledColumns(), frame.Columns)
	assert.Equal(t, LabelColumn, frame.Columns[frame.NumCols()-1])
}

func TestDecodeRequestSchemaMismatch(t *testing.T) {
	payload := csvRow(5)

	_, err := DecodeRequest([]byte(payload), api.ContentTypeCSV)
	require.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestDecodeRequestUnsupportedContentType(t *testing.T) {
	_, err := DecodeRequest([]byte("<rows/>"), "application/xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecodeRequestEmptyPayload(t *testing.T) {
	_, err := DecodeRequest(nil, api.ContentTypeCSV)
	require.Error(t, err)
}

func TestEncodeResponseJSON(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	data, contentType, err := EncodeResponse(m, api.ContentTypeJSON)
	require.NoError(t, err)
	assert.Equal(t, api.ContentTypeJSON, contentType)

	var resp api.InstancesResponse
	require.NoError(t, json.Unmarshal(data, &resp))

	// Row-major: each instance holds one matrix row.
	require.Len(t, resp.Instances, 2)
	assert.Equal(t, []float64{1, 2, 3}, resp.Instances[0].Features)
	assert.Equal(t, []float64{4, 5, 6}, resp.Instances[1].Features)
}

func TestEncodeResponseCSV(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0.5, 1, 2, 3})

	data, contentType, err := EncodeResponse(m, api.ContentTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, api.ContentTypeCSV, contentType)
	assert.Equal(t, "0.5,1\n2,3\n", string(data))
}

func TestEncodeResponseUnsupportedAccept(t *testing.T) {
	m := mat.NewDense(1, 1, []float64{1})

	_, _, err := EncodeResponse(m, "application/xml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
