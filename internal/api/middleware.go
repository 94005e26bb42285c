package api

import (
	"log/slog"
	"net/http"

	"github.com/apresai/studynotes/internal/store"
	"github.com/gin-gonic/gin"
)

// RequireAuth validates the Authorization bearer key on every request and
// stores the resulting identity in the request context. Unauthenticated
// calls uniformly receive 401.
func RequireAuth(keys KeyValidator, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			fail(c, http.StatusUnauthorized, "AUTH", "Unauthorized")
			return
		}

		result, err := keys.ValidateAPIKey(c.Request.Context(), header)
		if err != nil {
			log.InfoContext(c.Request.Context(), "Auth failed", "error", err)
			fail(c, http.StatusUnauthorized, "AUTH", "Unauthorized")
			return
		}

		c.Request = c.Request.WithContext(store.WithAuthResult(c.Request.Context(), *result))
		c.Next()
	}
}
