package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"tabular-backend/internal/database"
	"tabular-backend/internal/dataset"
	"tabular-backend/internal/model"
	"tabular-backend/pkg/api"
)

const defaultListLimit = 50

// InferenceService serves a single loaded artifact. The artifact is read
// once at startup and never mutated, so requests share it without locking.
type InferenceService struct {
	artifact model.Artifact
	db       *gorm.DB // optional run registry, may be nil
}

func NewInferenceService(artifact model.Artifact, db *gorm.DB) *InferenceService {
	return &InferenceService{artifact: artifact, db: db}
}

func (s *InferenceService) AddRoutes(r chi.Router) {
	r.Get("/ping", s.Ping)
	r.Post("/invocations", s.Invocations)
	if s.db != nil {
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", RestHandler(s.ListRuns))
			r.Get("/{run_id}", RestHandler(s.GetRun))
		})
	}
}

// Ping reports whether the artifact is loaded. The hosting platform only
// routes invocations to containers that answer 200 here.
func (s *InferenceService) Ping(w http.ResponseWriter, r *http.Request) {
	if s.artifact == nil {
		http.Error(w, "artifact not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Invocations runs one decode/apply/encode cycle. The response encoding
// follows the Accept header, defaulting to JSON, which is the handoff format
// between containers in a serial inference pipeline.
func (s *InferenceService) Invocations(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("error reading request body", "error", err)
		http.Error(w, "unable to read request body", http.StatusBadRequest)
		return
	}

	frame, err := dataset.DecodeRequest(body, r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, invocationError(err))
		return
	}

	output, err := s.artifact.Apply(frame)
	if err != nil {
		slog.Error("error applying artifact", "error", err)
		writeError(w, CodedErrorf(http.StatusBadRequest, "failed to apply model: %v", err))
		return
	}

	accept := r.Header.Get("Accept")
	if accept == "" || accept == "*/*" {
		accept = api.ContentTypeJSON
	}

	payload, contentType, err := dataset.EncodeResponse(output, accept)
	if err != nil {
		writeError(w, invocationError(err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		slog.Error("error writing response body", "error", err)
	}
}

func invocationError(err error) error {
	switch {
	case errors.Is(err, dataset.ErrUnsupportedFormat):
		return CodedError(http.StatusUnsupportedMediaType, err)
	case errors.Is(err, dataset.ErrSchemaMismatch):
		return CodedError(http.StatusBadRequest, err)
	default:
		return CodedError(http.StatusBadRequest, err)
	}
}

func (s *InferenceService) ListRuns(r *http.Request) (any, error) {
	req, err := ParseRequestQueryParams[api.ListRunsRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}

	query := s.db.WithContext(r.Context()).Model(&database.TrainingRun{})
	if req.Kind != "" {
		query = query.Where("kind = ?", req.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		slog.Error("error counting training runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing training runs")
	}

	var runs []database.TrainingRun
	if err := query.Order("creation_time DESC").Limit(req.Limit).Offset(req.Offset).Find(&runs).Error; err != nil {
		slog.Error("error listing training runs", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing training runs")
	}

	resp := api.ListRunsResponse{Runs: make([]api.TrainingRun, len(runs)), Total: total}
	for i, run := range runs {
		resp.Runs[i] = toApiRun(run)
	}
	return resp, nil
}

func (s *InferenceService) GetRun(r *http.Request) (any, error) {
	runId, err := URLParamUUID(r, "run_id")
	if err != nil {
		return nil, err
	}

	var run database.TrainingRun
	if err := s.db.WithContext(r.Context()).First(&run, "id = ?", runId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "training run not found")
		}
		slog.Error("error getting training run", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving training run")
	}

	return toApiRun(run), nil
}

func toApiRun(run database.TrainingRun) api.TrainingRun {
	out := api.TrainingRun{
		Id:              run.Id,
		Kind:            run.Kind,
		Status:          run.Status,
		Hyperparameters: run.Hyperparameters,
		ArtifactPath:    run.ArtifactPath,
		CreationTime:    run.CreationTime,
	}
	if run.CompletionTime.Valid {
		t := run.CompletionTime.Time
		out.CompletionTime = &t
	}
	return out
}
