package api

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Content types accepted by the inference surface.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
)

// Instance is one output row of a prediction or transform.
type Instance struct {
	Features []float64 `json:"features"`
}

// InstancesResponse is the structured JSON wrapping of a prediction matrix,
// the format downstream containers in a serial inference pipeline consume.
type InstancesResponse struct {
	Instances []Instance `json:"instances"`
}

// TrainingRun is the API view of a recorded training invocation.
type TrainingRun struct {
	Id              uuid.UUID      `json:"id"`
	Kind            string         `json:"kind"`
	Status          string         `json:"status"`
	Hyperparameters datatypes.JSON `json:"hyperparameters,omitempty"`
	ArtifactPath    string         `json:"artifact_path,omitempty"`
	CreationTime    time.Time      `json:"creation_time"`
	CompletionTime  *time.Time     `json:"completion_time,omitempty"`
}

// ListRunsRequest holds the query params of the run listing endpoint.
type ListRunsRequest struct {
	Limit  int    `schema:"limit"`
	Offset int    `schema:"offset"`
	Kind   string `schema:"kind"`
}

// ListRunsResponse is the paginated run listing.
type ListRunsResponse struct {
	Runs  []TrainingRun `json:"runs"`
	Total int64         `json:"total"`
}
