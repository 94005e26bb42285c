package api

import (
	"net/http"

	"github.com/apresai/studynotes/internal/store"
	"github.com/gin-gonic/gin"
)

// requireOwned loads a material and enforces that it belongs to the
// authenticated caller. Every material-scoped route goes through here, so
// the ownership predicate lives in exactly one place. On failure it writes
// the response (404 missing, 403 foreign, 500 store fault) and returns
// ok=false.
func (h *Handlers) requireOwned(c *gin.Context, materialID string) (*store.MaterialItem, bool) {
	ctx := c.Request.Context()
	auth := store.AuthFromContext(ctx)

	material, err := h.materials.GetMaterial(ctx, materialID)
	if err != nil {
		h.log.ErrorContext(ctx, "Fetch material failed", "material_id", materialID, "error", err)
		fail(c, http.StatusInternalServerError, "FETCH_MATERIAL", "Internal error")
		return nil, false
	}
	if material == nil {
		fail(c, http.StatusNotFound, "FETCH_MATERIAL", "Material not found")
		return nil, false
	}
	if material.UserID != auth.UserID {
		fail(c, http.StatusForbidden, "OWNERSHIP", "Forbidden")
		return nil, false
	}
	return material, true
}
