package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/apresai/studynotes/internal/extract"
	"github.com/apresai/studynotes/internal/storage"
	"github.com/apresai/studynotes/internal/store"
	"github.com/apresai/studynotes/internal/summarize"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// Config holds server configuration.
type Config struct {
	Port           int
	TableName      string
	S3Bucket       string
	CDNBaseURL     string
	AWSRegion      string
	SecretPrefix   string // e.g. "/studynotes/api/"
	SummaryModel   string // model alias: haiku, sonnet
	MaxUploadBytes int64
}

// DefaultConfig returns a Config populated from environment variables.
func DefaultConfig() Config {
	port := 8000
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	return Config{
		Port:           port,
		TableName:      envOr("DYNAMODB_TABLE", "apresai-studynotes-prod"),
		S3Bucket:       envOr("S3_BUCKET", ""),
		CDNBaseURL:     envOr("CDN_BASE_URL", "https://studynotes.apresai.dev"),
		AWSRegion:      envOr("AWS_REGION", "us-east-1"),
		SecretPrefix:   envOr("SECRET_PREFIX", "/studynotes/api/"),
		SummaryModel:   envOr("SUMMARY_MODEL", "haiku"),
		MaxUploadBytes: 25 * 1024 * 1024,
	}
}

// Server is the studynotes HTTP API server.
type Server struct {
	cfg  Config
	http *http.Server
	log  *slog.Logger
}

// New creates and configures the API server.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Server, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	if cfg.SecretPrefix != "" {
		if err := loadSecrets(ctx, awsCfg, cfg.SecretPrefix, logger); err != nil {
			logger.Warn("Failed to load secrets from Secrets Manager, falling back to env vars",
				"error", err)
		}
	}

	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET environment variable is required")
	}

	st := store.New(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	blobs := storage.New(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.CDNBaseURL)
	generator := summarize.NewClaudeGenerator(cfg.SummaryModel)

	handlers := NewHandlers(st, st, st, blobs, extract.NewPDFExtractor(), generator, logger, cfg.MaxUploadBytes)
	router := NewRouter(handlers, st, logger)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: router,
		},
		log: logger,
	}, nil
}

// Start runs the HTTP server until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("Starting API server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// loadSecrets fetches API keys from Secrets Manager and sets them as env vars.
func loadSecrets(ctx context.Context, cfg aws.Config, prefix string, logger *slog.Logger) error {
	client := secretsmanager.NewFromConfig(cfg)

	secrets := map[string]string{
		"ANTHROPIC_API_KEY": prefix + "ANTHROPIC_API_KEY",
	}

	for envVar, secretID := range secrets {
		// Skip if already set in environment
		if os.Getenv(envVar) != "" {
			continue
		}

		result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: &secretID,
		})
		if err != nil {
			logger.Info("Secret not found", "secret_id", secretID, "error", err)
			continue
		}
		if result.SecretString != nil {
			os.Setenv(envVar, *result.SecretString)
			logger.Info("Loaded secret", "secret_id", secretID)
		}
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
