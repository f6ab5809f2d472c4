package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/coldcall/internal/config"
	"github.com/jonathan/coldcall/internal/questions"
	"github.com/jonathan/coldcall/internal/server"
	"github.com/jonathan/coldcall/internal/store"
)

var (
	servePort   int
	serveConfig string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for the cold-call verification workflow.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if serveConfig != "" {
		loaded, err := config.LoadConfig(serveConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		Port:               servePort,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		QuestionServiceURL: os.Getenv("QUESTION_SERVICE_URL"),
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.QuestionServiceURL == "" {
		return fmt.Errorf("QUESTION_SERVICE_URL environment variable or question_service_url config is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	var opts *questions.Options
	if cfg.RequestTimeoutSeconds > 0 {
		opts = &questions.Options{Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second}
	}
	client := questions.NewHTTPClient(cfg.QuestionServiceURL, opts)

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Store:     st,
		Questions: client,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// buildStore picks the Postgres store when a database URL is
// configured and falls back to the in-memory store otherwise.
func buildStore(cfg config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("no database URL configured, verification records will not survive restarts")
		return store.NewMemory(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open verification store: %w", err)
	}
	logger.Info("verification store ready", zap.String("backend", "postgres"))
	return st, nil
}
