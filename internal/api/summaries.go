package api

import (
	"errors"
	"net/http"

	"github.com/apresai/studynotes/internal/store"
	"github.com/apresai/studynotes/internal/summarize"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type createSummaryRequest struct {
	MaterialID string `json:"materialId"`
}

type summaryResponse struct {
	ID            string `json:"id"`
	MaterialID    string `json:"material_id"`
	MaterialTitle string `json:"material_title,omitempty"`
	Model         string `json:"model"`
	Tokens        int    `json:"tokens,omitempty"`
	Summary       string `json:"summary"`
	CreatedAt     string `json:"created_at"`
}

func toSummaryResponse(item *store.SummaryItem) summaryResponse {
	return summaryResponse{
		ID:            item.SummaryID,
		MaterialID:    item.MaterialID,
		MaterialTitle: item.MaterialTitle,
		Model:         item.Model,
		Tokens:        item.Tokens,
		Summary:       item.Summary,
		CreatedAt:     item.CreatedAt,
	}
}

// CreateSummary handles POST /summaries. Each call reaches the hosted model
// and appends a fresh row; nothing deduplicates repeated requests for the
// same material.
func (h *Handlers) CreateSummary(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.create_summary")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	auth := store.AuthFromContext(ctx)

	var req createSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "JSON_PARSE", "Invalid JSON")
		return
	}
	if req.MaterialID == "" {
		fail(c, http.StatusBadRequest, "VALIDATE", "materialId is required")
		return
	}
	span.SetAttributes(attribute.String("material.id", req.MaterialID))

	material, ok := h.requireOwned(c, req.MaterialID)
	if !ok {
		return
	}

	result, err := h.generator.Summarize(ctx, material.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.log.ErrorContext(ctx, "Summary generation failed", "material_id", material.MaterialID, "error", err)
		if errors.Is(err, summarize.ErrGenerate) {
			fail(c, http.StatusBadGateway, "GENERATE", "Failed to summarize")
		} else {
			fail(c, http.StatusInternalServerError, "GENERATE", "Internal error")
		}
		return
	}

	id, err := store.NewID()
	if err != nil {
		span.RecordError(err)
		fail(c, http.StatusInternalServerError, "DB_INSERT", "Internal error")
		return
	}

	item, err := h.summaries.CreateSummary(ctx, store.NewSummary{
		ID:            id,
		MaterialID:    material.MaterialID,
		UserID:        auth.UserID,
		MaterialTitle: material.Title,
		Model:         result.Model,
		Tokens:        result.OutputTokens,
		Summary:       result.Text,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		h.log.ErrorContext(ctx, "Summary insert failed", "material_id", material.MaterialID, "error", err)
		fail(c, http.StatusInternalServerError, "DB_INSERT", "Internal error")
		return
	}

	span.SetAttributes(attribute.String("summary.id", item.SummaryID))
	h.log.InfoContext(ctx, "Summary created",
		"summary_id", item.SummaryID, "material_id", material.MaterialID,
		"model", item.Model, "tokens", item.Tokens)
	c.JSON(http.StatusCreated, toSummaryResponse(item))
}

// GetSummary handles GET /summaries?materialId=... and returns the latest
// summary for the material.
func (h *Handlers) GetSummary(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.get_summary")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	materialID := c.Query("materialId")
	if materialID == "" {
		fail(c, http.StatusBadRequest, "VALIDATE", "materialId is required")
		return
	}
	span.SetAttributes(attribute.String("material.id", materialID))

	if _, ok := h.requireOwned(c, materialID); !ok {
		return
	}

	item, err := h.summaries.LatestSummary(ctx, materialID)
	if err != nil {
		span.RecordError(err)
		h.log.ErrorContext(ctx, "Latest summary lookup failed", "material_id", materialID, "error", err)
		fail(c, http.StatusInternalServerError, "DB_GET", "Internal error")
		return
	}
	if item == nil {
		fail(c, http.StatusNotFound, "DB_GET", "Summary not found")
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(item))
}

// ListSummaries handles GET /summaries/recent: the caller's summaries,
// newest first, carrying the denormalized material titles.
func (h *Handlers) ListSummaries(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.list_summaries")
	defer span.End()

	auth := store.AuthFromContext(ctx)

	items, err := h.summaries.ListSummaries(ctx, auth.UserID, 50)
	if err != nil {
		span.RecordError(err)
		h.log.ErrorContext(ctx, "List summaries failed", "error", err)
		fail(c, http.StatusInternalServerError, "DB_LIST", "Internal error")
		return
	}
	span.SetAttributes(attribute.Int("result_count", len(items)))

	summaries := make([]summaryResponse, 0, len(items))
	for i := range items {
		summaries = append(summaries, toSummaryResponse(&items[i]))
	}
	c.JSON(http.StatusOK, gin.H{"summaries": summaries, "count": len(summaries)})
}
