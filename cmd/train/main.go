package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"tabular-backend/cmd"
	"tabular-backend/internal/database"
	"tabular-backend/internal/dataset"
	"tabular-backend/internal/model"
)

// TrainConfig follows the hosting platform's directory conventions: the
// defaults are the paths the platform mounts inside a training container.
type TrainConfig struct {
	OutputDataDir string `env:"SM_OUTPUT_DATA_DIR" envDefault:"/opt/ml/output/data"`
	ModelDir      string `env:"SM_MODEL_DIR" envDefault:"/opt/ml/model"`
	TrainDir      string `env:"SM_CHANNEL_TRAIN" envDefault:"/opt/ml/input/data/train"`
	DatabaseURL   string `env:"DATABASE_URL"`
	Seed          int64  `env:"TRAIN_SEED" envDefault:"42"`

	Store cmd.StoreConfig
}

func main() {
	log.Println("Starting regressor training...")

	// Hyperparameters arrive as command-line arguments.
	params := model.DefaultHyperparameters()
	flag.IntVar(&params.MaxDepth, "max-depth", params.MaxDepth, "maximum tree depth")
	flag.IntVar(&params.MinSamplesLeaf, "min-samples-leaf", params.MinSamplesLeaf, "minimum samples per leaf")
	flag.IntVar(&params.MinSamplesSplit, "min-samples-split", params.MinSamplesSplit, "minimum samples to split a node")
	flag.IntVar(&params.NumTrees, "n-estimators", params.NumTrees, "number of trees in the ensemble")
	cmd.LoadEnvFile()

	var cfg TrainConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db := cmd.OpenRunRegistry(cfg.DatabaseURL)
	runId := cmd.StartRun(db, database.RunKindRegressor, params)

	frame, err := dataset.LoadDir(cfg.TrainDir)
	if err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to load training data: %v", err)
	}
	slog.Info("training data loaded", "rows", frame.NumRows(), "columns", frame.NumCols())

	// First column is the target, the rest are features.
	y, X, err := frame.SplitTarget()
	if err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to split target column: %v", err)
	}

	start := time.Now()
	forest := model.NewForestRegressor(params, cfg.Seed)
	if err := forest.Fit(X, y); err != nil {
		cmd.FailRun(db, runId)
		log.Fatalf("Failed to fit regressor: %v", err)
	}
	slog.Info("regressor fitted", "trees", params.NumTrees, "duration", time.Since(start))

	if err := model.SaveArtifact(cfg.ModelDir, forest); err != nil {
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
	log.Printf("Training complete, artifact at %s", artifactPath)
}
