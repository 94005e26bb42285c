package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/apresai/studynotes/internal/store"
	"github.com/apresai/studynotes/internal/summarize"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("studynotes-mcp")

// ToolDefs returns the MCP tool definitions.
func ToolDefs() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_materials",
			Description: "List your study materials, newest first. Returns material IDs, titles, and types.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default 20)",
						"default":     20,
					},
				},
			},
		},
		{
			Name:        "get_material",
			Description: "Get a material by ID, including its text content.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"material_id": map[string]any{
						"type":        "string",
						"description": "The material ID from list_materials",
					},
				},
				Required: []string{"material_id"},
			},
		},
		{
			Name:        "get_latest_summary",
			Description: "Get the most recent summary for a material, or report that none exists yet.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"material_id": map[string]any{
						"type":        "string",
						"description": "The material ID to look up",
					},
				},
				Required: []string{"material_id"},
			},
		},
		{
			Name:        "summarize_material",
			Description: "Generate a fresh study-notes summary for a material. Each call produces a new summary row and a new model invocation.",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"material_id": map[string]any{
						"type":        "string",
						"description": "The material ID to summarize",
					},
				},
				Required: []string{"material_id"},
			},
		},
	}
}

// Handlers contains tool handler implementations.
type Handlers struct {
	store     *store.Store
	generator summarize.Generator
	log       *slog.Logger
}

// NewHandlers creates tool handlers.
func NewHandlers(st *store.Store, generator summarize.Generator, logger *slog.Logger) *Handlers {
	return &Handlers{store: st, generator: generator, log: logger}
}

// authenticate validates the bearer key captured from the HTTP request.
func (h *Handlers) authenticate(ctx context.Context) (*store.AuthResult, error) {
	header := authHeaderFromContext(ctx)
	if header == "" {
		return nil, fmt.Errorf("missing Authorization header")
	}
	return h.store.ValidateAPIKey(ctx, header)
}

// ownedMaterial loads a material and enforces ownership, mirroring the HTTP
// API's guard.
func (h *Handlers) ownedMaterial(ctx context.Context, auth *store.AuthResult, materialID string) (*store.MaterialItem, error) {
	material, err := h.store.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("fetch material: %w", err)
	}
	if material == nil {
		return nil, fmt.Errorf("material %s not found", materialID)
	}
	if material.UserID != auth.UserID {
		return nil, fmt.Errorf("material %s not found", materialID)
	}
	return material, nil
}

// HandleListMaterials lists the caller's materials.
func (h *Handlers) HandleListMaterials(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.list_materials")
	defer span.End()

	auth, err := h.authenticate(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "unauthenticated")
		return mcp.NewToolResultError("authentication failed"), nil
	}

	limit := parseIntParam(req, "limit", 20)
	span.SetAttributes(attribute.Int("limit", limit))

	items, err := h.store.ListMaterials(ctx, auth.UserID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list materials failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list materials: %v", err)), nil
	}
	span.SetAttributes(attribute.Int("result_count", len(items)))

	materials := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m := map[string]any{
			"material_id": item.MaterialID,
			"title":       item.Title,
			"type":        item.Type,
			"created_at":  item.CreatedAt,
		}
		materials = append(materials, m)
	}
	return jsonResult(map[string]any{"materials": materials, "count": len(materials)})
}

// HandleGetMaterial returns a material with its content.
func (h *Handlers) HandleGetMaterial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.get_material")
	defer span.End()

	auth, err := h.authenticate(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "unauthenticated")
		return mcp.NewToolResultError("authentication failed"), nil
	}

	id := mcp.ParseString(req, "material_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing material_id")
		return mcp.NewToolResultError("material_id is required"), nil
	}
	span.SetAttributes(attribute.String("material_id", id))

	material, err := h.ownedMaterial(ctx, auth, id)
	if err != nil {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := map[string]any{
		"material_id": material.MaterialID,
		"title":       material.Title,
		"type":        material.Type,
		"content":     material.Content,
		"created_at":  material.CreatedAt,
	}
	if material.StoragePath != "" {
		result["storage_path"] = material.StoragePath
	}
	return jsonResult(result)
}

// HandleGetLatestSummary returns the newest summary for a material.
func (h *Handlers) HandleGetLatestSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.get_latest_summary")
	defer span.End()

	auth, err := h.authenticate(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "unauthenticated")
		return mcp.NewToolResultError("authentication failed"), nil
	}

	id := mcp.ParseString(req, "material_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing material_id")
		return mcp.NewToolResultError("material_id is required"), nil
	}
	span.SetAttributes(attribute.String("material_id", id))

	if _, err := h.ownedMaterial(ctx, auth, id); err != nil {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := h.store.LatestSummary(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "latest summary failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get summary: %v", err)), nil
	}
	if item == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no summary exists for material %s", id)), nil
	}

	return jsonResult(map[string]any{
		"summary_id": item.SummaryID,
		"summary":    item.Summary,
		"model":      item.Model,
		"created_at": item.CreatedAt,
	})
}

// HandleSummarizeMaterial generates and stores a new summary.
func (h *Handlers) HandleSummarizeMaterial(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, span := tracer.Start(ctx, "tool.summarize_material")
	defer span.End()

	auth, err := h.authenticate(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "unauthenticated")
		return mcp.NewToolResultError("authentication failed"), nil
	}

	id := mcp.ParseString(req, "material_id", "")
	if id == "" {
		span.SetStatus(codes.Error, "missing material_id")
		return mcp.NewToolResultError("material_id is required"), nil
	}
	span.SetAttributes(attribute.String("material_id", id))

	material, err := h.ownedMaterial(ctx, auth, id)
	if err != nil {
		span.SetStatus(codes.Error, "not found")
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := h.generator.Summarize(ctx, material.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		h.log.ErrorContext(ctx, "Summary generation failed", "material_id", id, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to summarize: %v", err)), nil
	}

	summaryID, err := store.NewID()
	if err != nil {
		span.RecordError(err)
		return mcp.NewToolResultError(fmt.Sprintf("failed to store summary: %v", err)), nil
	}

	item, err := h.store.CreateSummary(ctx, store.NewSummary{
		ID:            summaryID,
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
		return mcp.NewToolResultError(fmt.Sprintf("failed to store summary: %v", err)), nil
	}

	span.SetAttributes(attribute.String("summary_id", item.SummaryID))
	h.log.InfoContext(ctx, "Summary created", "summary_id", item.SummaryID, "material_id", id, "model", item.Model)

	return jsonResult(map[string]any{
		"summary_id": item.SummaryID,
		"summary":    item.Summary,
		"model":      item.Model,
		"tokens":     item.Tokens,
		"created_at": item.CreatedAt,
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func parseIntParam(req mcp.CallToolRequest, key string, defaultVal int) int {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	raw, ok := args[key]
	if !ok {
		return defaultVal
	}
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return defaultVal
	}
}
