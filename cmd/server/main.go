package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/storage"

	"github.com/openlancer/openlancer-backend/internal/auth"
	"github.com/openlancer/openlancer-backend/internal/form"
	"github.com/openlancer/openlancer-backend/internal/gcp"
	"github.com/openlancer/openlancer-backend/internal/server"
	"github.com/openlancer/openlancer-backend/internal/services"
)

type serverConfig struct {
	ProjectID           string
	AssetBucket         string
	ProfilesCollection  string
	ProjectsCollection  string
	CompaniesCollection string
	RedisAddr           string
	JWTSecret           string
	Port                string
	AllowedOrigins      []string
	DraftTTL            time.Duration
}

// loadConfig loads and validates all necessary environment variables.
func loadConfig() (*serverConfig, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	assetBucket := gcp.GetEnv("ASSET_BUCKET", "")
	if assetBucket == "" {
		return nil, fmt.Errorf("ASSET_BUCKET environment variable must be set")
	}
	jwtSecret := gcp.GetEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}
	redisAddr := gcp.GetEnv("REDIS_ADDR", "")
	if redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR environment variable must be set")
	}

	draftTTL := 30 * 24 * time.Hour
	if raw := gcp.GetEnv("DRAFT_TTL", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAFT_TTL %q: %w", raw, err)
		}
		draftTTL = parsed
	}

	return &serverConfig{
		ProjectID:           projectID,
		AssetBucket:         assetBucket,
		ProfilesCollection:  gcp.GetEnv("PROFILES_COLLECTION", "profiles"),
		ProjectsCollection:  gcp.GetEnv("PROJECTS_COLLECTION", "projects"),
		CompaniesCollection: gcp.GetEnv("COMPANIES_COLLECTION", "companies"),
		RedisAddr:           redisAddr,
		JWTSecret:           jwtSecret,
		Port:                gcp.GetEnv("PORT", "8080"),
		AllowedOrigins:      strings.Split(gcp.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		DraftTTL:            draftTTL,
	}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("Server exited with error.", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	config, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return err
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	defer storageClient.Close()

	assets, err := gcp.NewGCSAssets(storageClient, config.AssetBucket)
	if err != nil {
		return err
	}

	redisClient, err := form.NewRedisClient(ctx, config.RedisAddr)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	verifier, err := auth.NewVerifier(config.JWTSecret)
	if err != nil {
		return err
	}

	docs := gcp.NewFirestoreDocuments(firestoreClient)
	pipeline := services.NewMediaPipeline(services.NewUploader(assets), services.NewPatcher(docs))
	submissions := services.NewSubmissionService(docs, pipeline, services.SubmissionConfig{
		ProfilesCollection:  config.ProfilesCollection,
		ProjectsCollection:  config.ProjectsCollection,
		CompaniesCollection: config.CompaniesCollection,
	})
	drafts := form.NewRedisDraftStore(redisClient, config.DraftTTL)

	router := server.NewRouter(server.Config{AllowedOrigins: config.AllowedOrigins}, verifier, submissions, drafts)
	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening.", "port", config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down.", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown did not finish cleanly.", "error", err)
	}

	// Queued media work is in-memory only; give it a chance to settle before
	// the process exits.
	if err := pipeline.Drain(shutdownCtx); err != nil {
		slog.Warn("Media pipeline did not drain before shutdown deadline; pending uploads were dropped.", "error", err)
	}
	return nil
}
