package versions

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Schema snapshot for migration 0. Later migrations must not reference the
// live schema structs, so the table is redeclared here.
type TrainingRun struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Kind   string `gorm:"size:20;not null"`
	Status string `gorm:"size:20;not null"`

	Hyperparameters datatypes.JSON
	ArtifactPath    string

	CreationTime   time.Time
	CompletionTime sql.NullTime
}

func Migration0(txn *gorm.DB) error {
	return txn.AutoMigrate(&TrainingRun{})
}
