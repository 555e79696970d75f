package integrationtests

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"tabular-backend/internal/dataset"
	"tabular-backend/internal/storage"
)

const (
	minioUsername = "admin"
	minioPassword = "password"
)

func setupMinioContainer(t *testing.T, ctx context.Context) string {
	minioContainer, err := minio.Run(
		ctx,
		"minio/minio:RELEASE.2024-01-16T16-07-38Z",
		minio.WithUsername(minioUsername),
		minio.WithPassword(minioPassword),
	)
	require.NoError(t, err, "Failed to start MinIO container")

	t.Cleanup(func() {
		err := minioContainer.Terminate(context.Background())
		require.NoError(t, err, "Failed to terminate MinIO container")
	})

	connStr, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get MinIO connection string")

	return "http://" + connStr
}

func setupPostgresContainer(t *testing.T, ctx context.Context) string {
	dbName, dbUser, dbPassword := "test_db", "test_user", "test_password"

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	t.Cleanup(func() {
		err := postgresContainer.Terminate(context.Background())
		require.NoError(t, err, "Failed to terminate PostgreSQL container")
	})

	connStr, err := postgresContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get PostgreSQL connection string")

	return connStr
}

func newS3Store(t *testing.T, minioUrl, bucket string) *storage.S3ObjectStore {
	store, err := storage.NewS3ObjectStore(bucket, storage.S3ClientConfig{
		Endpoint:        minioUrl,
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
		Region:          "us-east-1",
	})
	require.NoError(t, err)
	return store
}

var nominalValues = map[string][]string{
	"address":  {"U", "R"},
	"Fjob":     {"teacher", "services", "other"},
	"guardian": {"mother", "father", "other"},
	"higher":   {"yes", "no"},
	"internet": {"yes", "no"},
	"romantic": {"no", "yes"},
}

func studentCell(col string, rowIdx int) string {
	if values, ok := nominalValues[col]; ok {
		return values[rowIdx%len(values)]
	}
	return strconv.Itoa(rowIdx + 1)
}

// writeTrainingData lays out labelled CSV files under dir the way a training
// channel is mounted: one header row per file, data rows below.
func writeTrainingData(t *testing.T, dir string, files, rowsPerFile int) {
	t.Helper()

	columns := dataset.LabelledColumns()
	for f := 0; f < files; f++ {
		lines := []string{strings.Join(columns, ",")}
		for i := 0; i < rowsPerFile; i++ {
			cells := make([]string, len(columns))
			for j, col := range columns {
				cells[j] = studentCell(col, f*rowsPerFile+i)
			}
			lines = append(lines, strings.Join(cells, ","))
		}

		path := filepath.Join(dir, "student-mat-"+strconv.Itoa(f)+".csv")
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), os.ModePerm))
	}
}

// inferenceRequest renders rows in the unlabelled request layout.
func inferenceRequest(rows int) []byte {
	var lines []string
	for i := 0; i < rows; i++ {
		cells := make([]string, len(dataset.FeatureColumns))
		for j, col := range dataset.FeatureColumns {
			cells[j] = studentCell(col, i)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return []byte(strings.Join(lines, "\n"))
}
