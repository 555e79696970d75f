package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UpdateRunStatus(ctx context.Context, txn *gorm.DB, runId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == RunTrained || status == RunFailed {
		updates["completion_time"] = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Model(&TrainingRun{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error updating training run status", "run_id", runId, "status", status, "error", err)
		return err
	}
	return nil
}

func SetRunArtifactPath(ctx context.Context, txn *gorm.DB, runId uuid.UUID, path string) error {
	if err := txn.WithContext(ctx).Model(&TrainingRun{Id: runId}).Update("artifact_path", path).Error; err != nil {
		slog.Error("error recording artifact path", "run_id", runId, "path", path, "error", err)
		return err
	}
	return nil
}
