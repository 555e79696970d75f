package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"tabular-backend/internal/dataset"
)

// ArtifactFileName is the artifact file the hosting platform expects inside
// the model directory. The name is part of the platform contract; the bytes
// are a gob stream.
const ArtifactFileName = "model.joblib"

// Artifact is a fitted regressor or transformer: it maps a decoded frame to
// a numeric output matrix.
type Artifact interface {
	Apply(frame *dataset.Frame) (*mat.Dense, error)
}

// The envelope carries the artifact through gob as an interface value, so
// the serving process does not need to know which variant was trained.
type artifactEnvelope struct {
	Artifact Artifact
}

func init() {
	gob.Register(&ForestRegressor{})
	gob.Register(&ColumnTransformer{})
}

// SaveArtifact writes the artifact to modelDir/model.joblib.
func SaveArtifact(modelDir string, artifact Artifact) error {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create model directory %s: %w", modelDir, err)
	}

	path := filepath.Join(modelDir, ArtifactFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact file %s: %w", path, err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(&artifactEnvelope{Artifact: artifact}); err != nil {
		return fmt.Errorf("failed to serialize artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads the artifact back from modelDir/model.joblib.
func LoadArtifact(modelDir string) (Artifact, error) {
	path := filepath.Join(modelDir, ArtifactFileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact file %s: %w", path, err)
	}
	defer f.Close()

	var envelope artifactEnvelope
	if err := gob.NewDecoder(f).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to deserialize artifact %s: %w", path, err)
	}
	return envelope.Artifact, nil
}
