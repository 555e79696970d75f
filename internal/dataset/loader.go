package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// ErrNoTrainingData is returned when the training channel directory contains
// no files at all.
var ErrNoTrainingData = errors.New("no training data files found")

type loadOptions struct {
	indexColumn bool
}

type LoadOption func(*loadOptions)

// WithIndexColumn drops the leading index column of each file, matching data
// exported with a row-index column.
func WithIndexColumn() LoadOption {
	return func(o *loadOptions) { o.indexColumn = true }
}

// DiscoverFiles lists the regular files directly inside dir plus the regular
// files one level below any subdirectory. The hosting platform may mount the
// channel either flat or sharded into per-source subdirectories.
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read training directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(dir, entry.Name()))
			continue
		}

		subEntries, err := os.ReadDir(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read subdirectory %s: %w", entry.Name(), err)
		}
		for _, sub := range subEntries {
			if sub.IsDir() {
				continue
			}
			files = append(files, filepath.Join(dir, entry.Name(), sub.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf(
			"%w in %s: this usually indicates that the channel (train) was incorrectly specified, "+
				"the data location was incorrectly specified, or the role used does not have "+
				"permission to access the data", ErrNoTrainingData, dir)
	}

	sort.Strings(files)
	return files, nil
}

// LoadDir reads every discovered file as headered CSV and concatenates the
// resulting tables by stacking rows.
func LoadDir(dir string, opts ...LoadOption) (*Frame, error) {
	files, err := DiscoverFiles(dir)
	if err != nil {
		return nil, err
	}
	slog.Info("loading training data", "dir", dir, "files", len(files))

	var frame *Frame
	for _, file := range files {
		part, err := loadFile(file, opts...)
		if err != nil {
			return nil, err
		}

		if frame == nil {
			frame = part
			continue
		}
		if err := frame.Append(part); err != nil {
			return nil, fmt.Errorf("file %s: %w", file, err)
		}
	}
	return frame, nil
}

func loadFile(path string, opts ...LoadOption) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	frame, err := ReadCSV(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return frame, nil
}

// ReadCSV parses headered CSV into a Frame.
func ReadCSV(r io.Reader, opts ...LoadOption) (*Frame, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}

	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv contains no header row")
	}

	header, rows := records[0], records[1:]
	if options.indexColumn {
		header = header[1:]
		for i, row := range rows {
			rows[i] = row[1:]
		}
	}

	return &Frame{Columns: header, Rows: rows}, nil
}
