package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter wires the routes. Everything except the health probe sits behind
// the auth middleware.
func NewRouter(h *Handlers, keys KeyValidator, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("studynotes-api"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	authed := r.Group("/", RequireAuth(keys, log))

	authed.POST("/materials", h.CreateMaterial)
	authed.GET("/materials", h.ListMaterials)
	authed.GET("/materials/:id", h.GetMaterial)
	authed.DELETE("/materials/:id", h.DeleteMaterial)
	// Form compatibility: HTML forms cannot issue DELETE.
	authed.POST("/materials/:id/delete", h.DeleteMaterial)

	authed.POST("/summaries", h.CreateSummary)
	authed.GET("/summaries", h.GetSummary)
	authed.GET("/summaries/recent", h.ListSummaries)

	authed.GET("/me", h.Me)
	authed.POST("/profile", h.UpdateProfile)

	return r
}
