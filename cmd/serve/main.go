package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"tabular-backend/cmd"
	"tabular-backend/internal/api"
	"tabular-backend/internal/database"
	"tabular-backend/internal/model"
)

type ServeConfig struct {
	Port        string `env:"SERVE_PORT" envDefault:"8080"`
	ModelDir    string `env:"SM_MODEL_DIR" envDefault:"/opt/ml/model"`
	ArtifactKey string `env:"ARTIFACT_KEY"` // bucket key to fetch before loading
	DatabaseURL string `env:"DATABASE_URL"`

	Store cmd.StoreConfig
}

func main() {
	log.Println("Starting inference server...")

	cmd.LoadEnvFile()

	var cfg ServeConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	if cfg.ArtifactKey != "" {
		store, err := cmd.NewObjectStore(cfg.Store)
		if err != nil {
			log.Fatalf("Failed to create object store: %v", err)
		}
		if store == nil {
			log.Fatalf("ARTIFACT_KEY is set but no object store is configured")
		}

		dest := filepath.Join(cfg.ModelDir, model.ArtifactFileName)
		if err := store.DownloadObject(context.Background(), cfg.ArtifactKey, dest); err != nil {
			log.Fatalf("Failed to fetch artifact: %v", err)
		}
	}

	// One-time load; the artifact is read-only for the life of the process.
	artifact, err := model.LoadArtifact(cfg.ModelDir)
	if err != nil {
		log.Fatalf("Failed to load artifact: %v", err)
	}
	slog.Info("artifact loaded", "model_dir", cfg.ModelDir)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	service := api.NewInferenceService(artifact, db)
	service.AddRoutes(r)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Inference server listening on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.Port, err)
	}

	log.Println("Server stopped.")
}
