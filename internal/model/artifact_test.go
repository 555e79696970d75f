package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestArtifactRoundTripForest(t *testing.T) {
	X, y := stepData(50)
	forest := NewForestRegressor(DefaultHyperparameters(), 11)
	require.NoError(t, forest.Fit(X, y))

	modelDir := t.TempDir()
	require.NoError(t, SaveArtifact(modelDir, forest))

	_, err := os.Stat(filepath.Join(modelDir, ArtifactFileName))
	require.NoError(t, err)

	loaded, err := LoadArtifact(modelDir)
	require.NoError(t, err)

	restored, ok := loaded.(*ForestRegressor)
	require.True(t, ok, "expected a forest regressor, got %T", loaded)

	// The reloaded artifact reproduces the original predictions exactly.
	want, err := forest.Predict(X)
	require.NoError(t, err)
	got, err := restored.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestArtifactRoundTripPreprocessor(t *testing.T) {
	frame := studentFrame(t, 8)

	preprocessor := NewStudentPreprocessor()
	require.NoError(t, preprocessor.Fit(frame))

	modelDir := t.TempDir()
	require.NoError(t, SaveArtifact(modelDir, preprocessor))

	loaded, err := LoadArtifact(modelDir)
	require.NoError(t, err)

	restored, ok := loaded.(*ColumnTransformer)
	require.True(t, ok, "expected a column transformer, got %T", loaded)

	want, err := preprocessor.Apply(frame)
	require.NoError(t, err)
	got, err := restored.Apply(frame)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestLoadArtifactMissingFile(t *testing.T) {
	_, err := LoadArtifact(t.TempDir())
	require.Error(t, err)
}
