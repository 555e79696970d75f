package cmd

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tabular-backend/internal/database"
	"tabular-backend/internal/model"
	"tabular-backend/internal/storage"
)

// OpenRunRegistry connects to the training-run registry. An empty URL
// disables the registry, which keeps standalone container runs working
// without a database.
func OpenRunRegistry(databaseURL string) *gorm.DB {
	if databaseURL == "" {
		slog.Warn("no database configured, training run will not be recorded")
		return nil
	}

	db, err := database.NewDatabase(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// StartRun records a new training run in TRAINING state.
func StartRun(db *gorm.DB, kind string, hyperparameters any) uuid.UUID {
	runId := uuid.New()
	if db == nil {
		return runId
	}

	params, err := json.Marshal(hyperparameters)
	if err != nil {
		log.Fatalf("Failed to marshal hyperparameters: %v", err)
	}

	run := database.TrainingRun{
		Id:              runId,
		Kind:            kind,
		Status:          database.RunTraining,
		Hyperparameters: params,
		CreationTime:    time.Now().UTC(),
	}
	if err := db.Create(&run).Error; err != nil {
		log.Fatalf("Failed to create training run record: %v", err)
	}

	slog.Info("training run started", "run_id", runId, "kind", kind)
	return runId
}

// FinishRun marks the run trained and records where the artifact ended up.
func FinishRun(db *gorm.DB, runId uuid.UUID, artifactPath string) {
	if db == nil {
		return
	}
	ctx := context.Background()
	database.SetRunArtifactPath(ctx, db, runId, artifactPath) //nolint:errcheck
	database.UpdateRunStatus(ctx, db, runId, database.RunTrained) //nolint:errcheck
}

// FailRun marks the run failed. Safe to call with a nil registry.
func FailRun(db *gorm.DB, runId uuid.UUID) {
	if db == nil {
		return
	}
	database.UpdateRunStatus(context.Background(), db, runId, database.RunFailed) //nolint:errcheck
}

// PublishArtifact uploads the serialized artifact to object storage under
// the run id. Returns the stored path, or the local path when no store is
// configured.
func PublishArtifact(ctx context.Context, store storage.ObjectStore, runId uuid.UUID, modelDir string) (string, error) {
	localPath := filepath.Join(modelDir, model.ArtifactFileName)
	if store == nil {
		return localPath, nil
	}

	if err := store.EnsureBucket(ctx); err != nil {
		return "", err
	}
	return store.UploadFile(ctx, localPath, runId.String()+"/"+model.ArtifactFileName)
}
