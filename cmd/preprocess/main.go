package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/caarlos0/env/v11"

	"tabular-backend/cmd"
	"tabular-backend/internal/database"
	"tabular-backend/internal/dataset"
	"tabular-backend/internal/model"
)

type PreprocessConfig struct {
	OutputDataDir string `env:"SM_OUTPUT_DATA_DIR" envDefault:"/opt/ml/output/data"`
	ModelDir      string `env:"SM_MODEL_DIR" envDefault:"/opt/ml/model"`
	TrainDir      string `env:"SM_CHANNEL_TRAIN" envDefault:"/opt/ml/input/data/train"`
	DatabaseURL   string `env:"DATABASE_URL"`

	Store cmd.StoreConfig
}

func main() {
	log.Println("Starting preprocessor fitting...")

	cmd.LoadEnvFile()

	var cfg PreprocessConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db := cmd.OpenRunRegistry(cfg.DatabaseURL)
	runId := cmd.StartRun(db, database.RunKindPreprocessor, nil)

	// Training exports carry a leading row-index column.
	frame, err := dataset.LoadDir(cfg.TrainDir, dataset.WithIndexColumn())
	if err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to load training data: %v", err)
	}
	slog.Info("training data loaded", "rows", frame.NumRows(), "columns", frame.NumCols())

	preprocessor := model.NewStudentPreprocessor()
	if err := preprocessor.Fit(frame); err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to fit preprocessor: %v", err)
	}
	slog.Info("preprocessor fitted",
		"numeric_columns", len(dataset.NumericColumns),
		"indicator_columns", preprocessor.Encoder.OutputWidth())

	if err := model.SaveArtifact(cfg.ModelDir, preprocessor); err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to save artifact: %v", err)
	}

	store, err := cmd.NewObjectStore(cfg.Store)
	if err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to create object store: %v", err)
	}

	artifactPath, err := cmd.PublishArtifact(context.Background(), store, runId, cfg.ModelDir)
	if err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to publish artifact: %v", err)
	}

	cmd.FinishRun(db, runId, artifactPath)
	log.Printf("Fitting complete, artifact at %s", artifactPath)
}
