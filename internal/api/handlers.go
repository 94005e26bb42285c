package api

import (
	"context"
	"log/slog"

	"github.com/apresai/studynotes/internal/extract"
	"github.com/apresai/studynotes/internal/store"
	"github.com/apresai/studynotes/internal/summarize"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("studynotes-api")

// MaterialStore is the slice of the store the material handlers need.
type MaterialStore interface {
	CreateMaterial(ctx context.Context, nm store.NewMaterial) (*store.MaterialItem, error)
	GetMaterial(ctx context.Context, id string) (*store.MaterialItem, error)
	ListMaterials(ctx context.Context, userID string, limit int) ([]store.MaterialItem, error)
	DeleteMaterial(ctx context.Context, id string) error
}

// SummaryStore is the slice of the store the summary handlers need.
type SummaryStore interface {
	CreateSummary(ctx context.Context, ns store.NewSummary) (*store.SummaryItem, error)
	LatestSummary(ctx context.Context, materialID string) (*store.SummaryItem, error)
	ListSummaries(ctx context.Context, userID string, limit int) ([]store.SummaryItem, error)
}

// UserStore is the slice of the store the profile handlers need.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*store.UserItem, error)
	UpdateProfile(ctx context.Context, userID string, username, avatarURL *string) error
}

// BlobStore handles uploaded file bytes.
type BlobStore interface {
	UploadMaterial(ctx context.Context, userID, filename string, data []byte) (string, error)
	UploadAvatar(ctx context.Context, userID, filename, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// KeyValidator authenticates bearer tokens.
type KeyValidator interface {
	ValidateAPIKey(ctx context.Context, bearerToken string) (*store.AuthResult, error)
}

// Handlers holds the route implementations and their collaborators.
type Handlers struct {
	materials MaterialStore
	summaries SummaryStore
	users     UserStore
	blobs     BlobStore
	extractor extract.Extractor
	generator summarize.Generator
	log       *slog.Logger
	maxUpload int64
}

// NewHandlers creates the route handlers.
func NewHandlers(
	materials MaterialStore,
	summaries SummaryStore,
	users UserStore,
	blobs BlobStore,
	extractor extract.Extractor,
	generator summarize.Generator,
	logger *slog.Logger,
	maxUpload int64,
) *Handlers {
	if maxUpload <= 0 {
		maxUpload = 25 * 1024 * 1024
	}
	return &Handlers{
		materials: materials,
		summaries: summaries,
		users:     users,
		blobs:     blobs,
		extractor: extractor,
		generator: generator,
		log:       logger,
		maxUpload: maxUpload,
	}
}
