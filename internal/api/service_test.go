package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tabular-backend/internal/database"
	"tabular-backend/internal/dataset"
	"tabular-backend/internal/model"
	"tabular-backend/pkg/api"
)

var nominalValues = map[string][]string{
	"address":  {"U", "R"},
	"Fjob":     {"teacher", "services", "other"},
	"guardian": {"mother", "father", "other"},
	"higher":   {"yes", "no"},
	"internet": {"yes", "no"},
	"romantic": {"no", "yes"},
}

func studentCell(col string, rowIdx int) string {
	if values, ok := nominalValues[col]; ok {
		return values[rowIdx%len(values)]
	}
	return strconv.Itoa(rowIdx + 1)
}

func fitFrame(t *testing.T, rows int) *dataset.Frame {
	t.Helper()

	frame := dataset.NewFrame(dataset.LabelledColumns())
	for i := 0; i < rows; i++ {
		row := make([]string, frame.NumCols())
		for j, col := range frame.Columns {
			row[j] = studentCell(col, i)
		}
		frame.Rows = append(frame.Rows, row)
	}
	return frame
}

// csvPayload renders request rows positionally against the schema, with or
// without the trailing label column.
func csvPayload(t *testing.T, rows int, labelled bool) string {
	t.Helper()

	columns := dataset.FeatureColumns
	if labelled {
		columns = dataset.LabelledColumns()
	}

	var lines []string
	for i := 0; i < rows; i++ {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = studentCell(col, i)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

func setupService(t *testing.T, db *gorm.DB) (*httptest.Server, *model.ColumnTransformer) {
	t.Helper()

	preprocessor := model.NewStudentPreprocessor()
	require.NoError(t, preprocessor.Fit(fitFrame(t, 6)))

	r := chi.NewRouter()
	NewInferenceService(preprocessor, db).AddRoutes(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, preprocessor
}

func TestPing(t *testing.T) {
	server, _ := setupService(t, nil)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPingUnloaded(t *testing.T) {
	r := chi.NewRouter()
	NewInferenceService(nil, nil).AddRoutes(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func postInvocation(t *testing.T, url, payload, contentType, accept string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url+"/invocations", strings.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestInvocationsJSONResponse(t *testing.T) {
	server, preprocessor := setupService(t, nil)

	resp := postInvocation(t, server.URL, csvPayload(t, 3, false), api.ContentTypeCSV, api.ContentTypeJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ContentTypeJSON, resp.Header.Get("Content-Type"))

	var out api.InstancesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Instances, 3)

	wantWidth := len(dataset.NumericColumns) + preprocessor.Encoder.OutputWidth()
	for _, instance := range out.Instances {
		assert.Len(t, instance.Features, wantWidth)
	}
}

func TestInvocationsLabelledPayload(t *testing.T) {
	server, preprocessor := setupService(t, nil)

	resp := postInvocation(t, server.URL, csvPayload(t, 2, true), api.ContentTypeCSV, api.ContentTypeJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out api.InstancesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Instances, 2)

	// Label values come back as the first output column.
	wantWidth := len(dataset.NumericColumns) + preprocessor.Encoder.OutputWidth() + 1
	for i, instance := range out.Instances {
		require.Len(t, instance.Features, wantWidth)
		label, err := strconv.ParseFloat(studentCell(dataset.LabelColumn, i), 64)
		require.NoError(t, err)
		assert.Equal(t, label, instance.Features[0])
	}
}

func TestInvocationsCSVResponse(t *testing.T) {
	server, _ := setupService(t, nil)

	resp := postInvocation(t, server.URL, csvPayload(t, 2, false), api.ContentTypeCSV, api.ContentTypeCSV)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, api.ContentTypeCSV, resp.Header.Get("Content-Type"))
}

func TestInvocationsUnsupportedContentType(t *testing.T) {
	server, _ := setupService(t, nil)

	resp := postInvocation(t, server.URL, "<rows/>", "application/xml", api.ContentTypeJSON)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestInvocationsUnsupportedAccept(t *testing.T) {
	server, _ := setupService(t, nil)

	resp := postInvocation(t, server.URL, csvPayload(t, 1, false), api.ContentTypeCSV, "application/xml")
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestInvocationsSchemaMismatch(t *testing.T) {
	server, _ := setupService(t, nil)

	resp := postInvocation(t, server.URL, "1,2,3", api.ContentTypeCSV, api.ContentTypeJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func createRun(t *testing.T, db *gorm.DB, kind string, age time.Duration) uuid.UUID {
	t.Helper()

	run := database.TrainingRun{
		Id:           uuid.New(),
		Kind:         kind,
		Status:       database.RunTrained,
		CreationTime: time.Now().UTC().Add(-age),
	}
	require.NoError(t, db.Create(&run).Error)
	return run.Id
}

func TestRunEndpoints(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	regressorId := createRun(t, db, database.RunKindRegressor, time.Hour)
	createRun(t, db, database.RunKindPreprocessor, time.Minute)

	server, _ := setupService(t, db)

	resp, err := http.Get(server.URL + "/runs?kind=" + database.RunKindRegressor)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list api.ListRunsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Runs, 1)
	assert.Equal(t, regressorId, list.Runs[0].Id)
	assert.Equal(t, int64(1), list.Total)

	single, err := http.Get(server.URL + "/runs/" + regressorId.String())
	require.NoError(t, err)
	defer single.Body.Close()
	require.Equal(t, http.StatusOK, single.StatusCode)

	var run api.TrainingRun
	require.NoError(t, json.NewDecoder(single.Body).Decode(&run))
	assert.Equal(t, database.RunKindRegressor, run.Kind)

	missing, err := http.Get(server.URL + "/runs/" + uuid.NewString())
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}
