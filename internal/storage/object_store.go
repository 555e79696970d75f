package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type Object struct {
	Name string
	Size int64
}

// ObjectStore persists training artifacts in a single bucket of object
// storage. Training uploads the fitted artifact; serving downloads it before
// loading.
type ObjectStore interface {
	EnsureBucket(ctx context.Context) error

	PutObject(ctx context.Context, key string, data io.Reader) error

	GetObject(ctx context.Context, key string) ([]byte, error)

	DownloadObject(ctx context.Context, key, filename string) error

	UploadFile(ctx context.Context, localPath, key string) (string, error)

	ListObjects(ctx context.Context, prefix string) ([]Object, error)
}

// ParseS3URI splits s3://bucket/key into its bucket and key parts.
func ParseS3URI(uri string) (bucket, key string, err error) {
	trimmed, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("invalid s3 uri %q: missing s3:// prefix", uri)
	}

	bucket, key, ok = strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q: expected s3://bucket/key", uri)
	}
	return bucket, key, nil
}
