package cmd

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"tabular-backend/internal/storage"
)

// LoadEnvFile parses command-line flags (including any the caller registered
// beforehand) and loads the optional env file. Call it exactly once, after
// all flags are registered.
func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	if err := godotenv.Load(configPath); err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// StoreConfig is the shared object-storage configuration of the training and
// serving entrypoints.
type StoreConfig struct {
	ArtifactBucket    string `env:"ARTIFACT_BUCKET"`
	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	LocalStoreDir     string `env:"LOCAL_STORE_DIR"`
}

// NewObjectStore builds the artifact store described by the config: an
// S3-compatible store when an endpoint or plain AWS setup is configured, a
// directory-backed one when LOCAL_STORE_DIR is set, nil when neither is.
func NewObjectStore(cfg StoreConfig) (storage.ObjectStore, error) {
	if cfg.ArtifactBucket == "" {
		return nil, nil
	}

	if cfg.LocalStoreDir != "" {
		return storage.NewLocalObjectStore(cfg.LocalStoreDir, cfg.ArtifactBucket)
	}

	return storage.NewS3ObjectStore(cfg.ArtifactBucket, storage.S3ClientConfig{
		Endpoint:        cfg.S3EndpointURL,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
	})
}
