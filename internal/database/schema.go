package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunTraining string = "TRAINING"
	RunTrained  string = "TRAINED"
	RunFailed   string = "FAILED"
)

const (
	RunKindRegressor    string = "regressor"
	RunKindPreprocessor string = "preprocessor"
)

// TrainingRun records one invocation of a training entrypoint. The artifact
// path is filled in once the fitted artifact has been persisted.
type TrainingRun struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Kind   string `gorm:"size:20;not null"`
	Status string `gorm:"size:20;not null"`

	Hyperparameters datatypes.JSON
	ArtifactPath    string

	CreationTime   time.Time
	CompletionTime sql.NullTime
}
