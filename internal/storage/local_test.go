package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestObjectStore(t *testing.T) (*LocalObjectStore, string) {
	t.Helper()
	dir := t.TempDir()
	objectStore, err := NewLocalObjectStore(dir, "test-bucket")
	require.NoError(t, err)
	require.NoError(t, objectStore.EnsureBucket(context.Background()))
	return objectStore, dir
}

func TestLocalObjectStore_PutObject(t *testing.T) {
	objectStore, baseDir := setupTestObjectStore(t)

	key := "runs/abc/model.joblib"
	content := []byte("Test content")

	err := objectStore.PutObject(context.Background(), key, bytes.NewReader(content))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, "test-bucket", key))
	require.NoError(t, err)
	assert.Equal(t, content, data)
}

func TestLocalObjectStore_GetObject(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	content := []byte("artifact bytes")
	require.NoError(t, objectStore.PutObject(context.Background(), "model.joblib", bytes.NewReader(content)))

	data, err := objectStore.GetObject(context.Background(), "model.joblib")
	require.NoError(t, err)
	assert.Equal(t, content, data)

	_, err = objectStore.GetObject(context.Background(), "missing.joblib")
	require.Error(t, err)
}

func TestLocalObjectStore_UploadDownloadFile(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	srcPath := filepath.Join(t.TempDir(), "model.joblib")
	require.NoError(t, os.WriteFile(srcPath, []byte("serialized model"), os.ModePerm))

	location, err := objectStore.UploadFile(context.Background(), srcPath, "runs/abc/model.joblib")
	require.NoError(t, err)
	assert.FileExists(t, location)

	destPath := filepath.Join(t.TempDir(), "download", "model.joblib")
	require.NoError(t, objectStore.DownloadObject(context.Background(), "runs/abc/model.joblib", destPath))

	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "serialized model", string(data))
}

func TestLocalObjectStore_ListObjects(t *testing.T) {
	objectStore, _ := setupTestObjectStore(t)

	files := []string{"runs/a/model.joblib", "runs/a/metrics.json", "runs/b/model.joblib"}
	for _, key := range files {
		require.NoError(t, objectStore.PutObject(context.Background(), key, bytes.NewReader([]byte("content"))))
	}

	objects, err := objectStore.ListObjects(context.Background(), "runs/a")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	for _, object := range objects {
		assert.Equal(t, int64(len("content")), object.Size)
	}

	// A prefix with no objects lists empty rather than erroring.
	objects, err = objectStore.ListObjects(context.Background(), "runs/missing")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://models/runs/abc/model.joblib")
	require.NoError(t, err)
	assert.Equal(t, "models", bucket)
	assert.Equal(t, "runs/abc/model.joblib", key)

	_, _, err = ParseS3URI("http://models/runs")
	require.Error(t, err)
}
