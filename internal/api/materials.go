package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/apresai/studynotes/internal/extract"
	"github.com/apresai/studynotes/internal/store"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxTitleLen = 200

type createTextRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type materialResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	StoragePath string `json:"storage_path,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toMaterialResponse(m *store.MaterialItem, withContent bool) materialResponse {
	resp := materialResponse{
		ID:          m.MaterialID,
		Title:       m.Title,
		Type:        m.Type,
		StoragePath: m.StoragePath,
		CreatedAt:   m.CreatedAt,
	}
	if withContent {
		resp.Content = m.Content
	}
	return resp
}

// CreateMaterial handles POST /materials. JSON bodies create text materials;
// multipart bodies carry a PDF that goes through extraction and blob storage.
func (h *Handlers) CreateMaterial(c *gin.Context) {
	switch ct := c.ContentType(); {
	case strings.Contains(ct, "application/json"):
		h.createTextMaterial(c)
	case strings.Contains(ct, "multipart/form-data"):
		h.createPDFMaterial(c)
	default:
		fail(c, http.StatusUnsupportedMediaType, "CONTENT_TYPE", "Unsupported content type")
	}
}

func (h *Handlers) createTextMaterial(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.create_material")
	defer span.End()
	span.SetAttributes(attribute.String("material.type", "text"))

	auth := store.AuthFromContext(ctx)

	var req createTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "JSON_PARSE", "Invalid JSON")
		return
	}
	if req.Title == "" || req.Content == "" {
		fail(c, http.StatusBadRequest, "JSON_VALIDATE", "Missing title or content")
		return
	}
	if utf8.RuneCountInString(req.Title) > maxTitleLen {
		fail(c, http.StatusBadRequest, "JSON_VALIDATE", "Title too long")
		return
	}

	id, err := store.NewID()
	if err != nil {
		span.RecordError(err)
		fail(c, http.StatusInternalServerError, "DB_INSERT_TEXT", "Internal error")
		return
	}

	material, err := h.materials.CreateMaterial(ctx, store.NewMaterial{
		ID:      id,
		UserID:  auth.UserID,
		Title:   req.Title,
		Type:    store.MaterialText,
		Content: req.Content,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		h.log.ErrorContext(ctx, "Text material insert failed", "error", err)
		fail(c, http.StatusInternalServerError, "DB_INSERT_TEXT", "Internal error")
		return
	}

	span.SetAttributes(attribute.String("material.id", material.MaterialID))
	h.log.InfoContext(ctx, "Material created", "material_id", material.MaterialID, "type", "text")
	c.JSON(http.StatusCreated, gin.H{"ok": true, "type": store.MaterialText})
}

func (h *Handlers) createPDFMaterial(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.create_material")
	defer span.End()
	span.SetAttributes(attribute.String("material.type", "pdf"))

	auth := store.AuthFromContext(ctx)

	title := c.PostForm("title")
	fileHeader, err := c.FormFile("file")
	if title == "" || err != nil {
		fail(c, http.StatusBadRequest, "FORM_VALIDATE", "Invalid form data")
		return
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		fail(c, http.StatusBadRequest, "FORM_VALIDATE", "Title too long")
		return
	}
	if !strings.Contains(fileHeader.Header.Get("Content-Type"), "pdf") {
		fail(c, http.StatusBadRequest, "FORM_FILETYPE", "File must be a PDF")
		return
	}
	if fileHeader.Size > h.maxUpload {
		fail(c, http.StatusBadRequest, "FORM_FILESIZE", "File too large")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "PDF_READ", "Failed to read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload))
	if err != nil {
		fail(c, http.StatusBadRequest, "PDF_READ", "Failed to read uploaded file")
		return
	}

	text, err := h.extractor.Extract(data)
	if err != nil {
		// Well-formed but unusable input is the caller's problem, not ours.
		span.SetStatus(codes.Error, "extraction failed")
		h.log.InfoContext(ctx, "PDF extraction failed", "error", err, "size", len(data))
		if errors.Is(err, extract.ErrNoText) {
			fail(c, http.StatusUnprocessableEntity, "PDF_EMPTY", "No text found in PDF")
		} else {
			fail(c, http.StatusUnprocessableEntity, "PDF_PARSE", "Could not extract text from PDF")
		}
		return
	}

	id, err := store.NewID()
	if err != nil {
		span.RecordError(err)
		fail(c, http.StatusInternalServerError, "DB_INSERT_PDF", "Internal error")
		return
	}

	storagePath, err := h.blobs.UploadMaterial(ctx, auth.UserID, fileHeader.Filename, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "blob upload failed")
		h.log.ErrorContext(ctx, "Material blob upload failed", "error", err)
		fail(c, http.StatusInternalServerError, "STORAGE_UPLOAD", "Internal error")
		return
	}

	material, err := h.materials.CreateMaterial(ctx, store.NewMaterial{
		ID:          id,
		UserID:      auth.UserID,
		Title:       title,
		Type:        store.MaterialPDF,
		Content:     text,
		StoragePath: storagePath,
	})
	if err != nil {
		// Compensate: the blob exists but the row does not. Cleanup is
		// best-effort; a second failure here leaks the blob and is only logged.
		if delErr := h.blobs.Delete(ctx, storagePath); delErr != nil {
			h.log.WarnContext(ctx, "Orphaned blob cleanup failed", "storage_path", storagePath, "error", delErr)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		h.log.ErrorContext(ctx, "PDF material insert failed", "error", err)
		fail(c, http.StatusInternalServerError, "DB_INSERT_PDF", "Internal error")
		return
	}

	span.SetAttributes(attribute.String("material.id", material.MaterialID))
	h.log.InfoContext(ctx, "Material created", "material_id", material.MaterialID, "type", "pdf", "chars", len(text))
	c.JSON(http.StatusCreated, gin.H{"ok": true, "type": store.MaterialPDF})
}

// ListMaterials handles GET /materials.
func (h *Handlers) ListMaterials(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.list_materials")
	defer span.End()

	auth := store.AuthFromContext(ctx)

	items, err := h.materials.ListMaterials(ctx, auth.UserID, 50)
	if err != nil {
		span.RecordError(err)
		h.log.ErrorContext(ctx, "List materials failed", "error", err)
		fail(c, http.StatusInternalServerError, "DB_LIST", "Internal error")
		return
	}
	span.SetAttributes(attribute.Int("result_count", len(items)))

	materials := make([]materialResponse, 0, len(items))
	for i := range items {
		materials = append(materials, toMaterialResponse(&items[i], false))
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials, "count": len(materials)})
}

// GetMaterial handles GET /materials/:id.
func (h *Handlers) GetMaterial(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.get_material")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("material.id", id))

	material, ok := h.requireOwned(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toMaterialResponse(material, true))
}

// DeleteMaterial handles DELETE /materials/:id, and POST /materials/:id/delete
// for HTML form compatibility. The blob (when present) goes first; its removal
// is idempotent so retries after a partial failure converge.
func (h *Handlers) DeleteMaterial(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.delete_material")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	id := c.Param("id")
	span.SetAttributes(attribute.String("material.id", id))

	material, ok := h.requireOwned(c, id)
	if !ok {
		return
	}

	if material.StoragePath != "" {
		if err := h.blobs.Delete(ctx, material.StoragePath); err != nil {
			h.log.WarnContext(ctx, "Material blob delete failed", "storage_path", material.StoragePath, "error", err)
		}
	}

	if err := h.materials.DeleteMaterial(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		h.log.ErrorContext(ctx, "Material delete failed", "material_id", id, "error", err)
		fail(c, http.StatusInternalServerError, "DB_DELETE", "Internal error")
		return
	}

	h.log.InfoContext(ctx, "Material deleted", "material_id", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
