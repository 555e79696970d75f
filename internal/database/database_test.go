package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func TestMigrationsCreateSchema(t *testing.T) {
	db := newTestDatabase(t)

	run := TrainingRun{
		Id:              uuid.New(),
		Kind:            RunKindRegressor,
		Status:          RunTraining,
		Hyperparameters: datatypes.JSON([]byte(`{"n_estimators":50}`)),
		CreationTime:    time.Now().UTC(),
	}
	require.NoError(t, db.Create(&run).Error)

	var stored TrainingRun
	require.NoError(t, db.First(&stored, "id = ?", run.Id).Error)
	assert.Equal(t, RunKindRegressor, stored.Kind)
	assert.Equal(t, RunTraining, stored.Status)
	assert.False(t, stored.CompletionTime.Valid)
}

func TestUpdateRunStatus(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	run := TrainingRun{
		Id:           uuid.New(),
		Kind:         RunKindPreprocessor,
		Status:       RunTraining,
		CreationTime: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&run).Error)

	require.NoError(t, UpdateRunStatus(ctx, db, run.Id, RunTrained))

	var stored TrainingRun
	require.NoError(t, db.First(&stored, "id = ?", run.Id).Error)
	assert.Equal(t, RunTrained, stored.Status)
	// Terminal statuses also stamp the completion time.
	assert.True(t, stored.CompletionTime.Valid)
}

func TestSetRunArtifactPath(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	run := TrainingRun{
		Id:           uuid.New(),
		Kind:         RunKindRegressor,
		Status:       RunTraining,
		CreationTime: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&run).Error)

	require.NoError(t, SetRunArtifactPath(ctx, db, run.Id, "s3://models/abc/model.joblib"))

	var stored TrainingRun
	require.NoError(t, db.First(&stored, "id = ?", run.Id).Error)
	assert.Equal(t, "s3://models/abc/model.joblib", stored.ArtifactPath)
}
