package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalObjectStore lays a bucket out as a directory tree, for training and
// serving outside any cloud environment.
type LocalObjectStore struct {
	baseDir string
	bucket  string
}

var _ ObjectStore = (*LocalObjectStore)(nil)

func NewLocalObjectStore(dir, bucket string) (*LocalObjectStore, error) {
	baseDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}
	return &LocalObjectStore{baseDir: baseDir, bucket: bucket}, nil
}

func (p *LocalObjectStore) fullpath(key string) string {
	return filepath.Join(p.baseDir, p.bucket, key)
}

func (p *LocalObjectStore) EnsureBucket(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Join(p.baseDir, p.bucket), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create bucket directory %s: %w", p.bucket, err)
	}
	return nil
}

func (p *LocalObjectStore) PutObject(ctx context.Context, key string, data io.Reader) error {
	path := p.fullpath(key)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", key, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		return fmt.Errorf("failed to write file %s: %w", key, err)
	}
	return nil
}

func (p *LocalObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(p.fullpath(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

func (p *LocalObjectStore) DownloadObject(ctx context.Context, key, filename string) error {
	data, err := p.GetObject(ctx, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, data, os.ModePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func (p *LocalObjectStore) UploadFile(ctx context.Context, localPath, key string) (string, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer src.Close()

	if err := p.PutObject(ctx, key, src); err != nil {
		return "", err
	}
	return p.fullpath(key), nil
}

func (p *LocalObjectStore) ListObjects(ctx context.Context, prefix string) ([]Object, error) {
	root := p.fullpath(prefix)

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", prefix, err)
	}
	if !info.IsDir() {
		return []Object{{Name: prefix, Size: info.Size()}}, nil
	}

	var objects []Object
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(filepath.Join(p.baseDir, p.bucket), path)
		if err != nil {
			return err
		}
		objects = append(objects, Object{Name: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
	}
	return objects, nil
}
