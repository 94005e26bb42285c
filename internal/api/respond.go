package api

import "github.com/gin-gonic/gin"

// fail writes the error envelope: a short machine-readable step tag plus a
// human-readable message, and aborts the request.
//
// Taxonomy: 400 validation/parse, 401 unauthenticated, 403 ownership,
// 404 not found, 415 unsupported content type, 422 unprocessable PDF,
// 502 upstream model failure, 500 everything else.
func fail(c *gin.Context, status int, step, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"step": step, "error": msg})
}
