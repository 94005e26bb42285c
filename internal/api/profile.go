package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/apresai/studynotes/internal/store"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxUsernameLen = 64

// Me handles GET /me.
func (h *Handlers) Me(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.me")
	defer span.End()

	auth := store.AuthFromContext(ctx)

	user, err := h.users.GetUser(ctx, auth.UserID)
	if err != nil {
		span.RecordError(err)
		h.log.ErrorContext(ctx, "Get user failed", "error", err)
		fail(c, http.StatusInternalServerError, "DB_GET", "Internal error")
		return
	}

	// A missing profile row still yields the identity the auth layer knows.
	resp := gin.H{"email": nil, "username": nil, "avatar_url": nil}
	if user != nil {
		if user.Email != "" {
			resp["email"] = user.Email
		}
		if user.Username != "" {
			resp["username"] = user.Username
		}
		if user.AvatarURL != "" {
			resp["avatar_url"] = user.AvatarURL
		}
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile handles POST /profile: multipart form with optional
// "username" and optional "avatar" file. Echoes the fields that changed.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "api.update_profile")
	defer span.End()

	auth := store.AuthFromContext(ctx)

	if !strings.Contains(c.ContentType(), "multipart/form-data") {
		fail(c, http.StatusUnsupportedMediaType, "CONTENT_TYPE", "Expected multipart/form-data")
		return
	}

	var username, avatarURL *string

	if fileHeader, err := c.FormFile("avatar"); err == nil && fileHeader.Size > 0 {
		if fileHeader.Size > h.maxUpload {
			fail(c, http.StatusBadRequest, "FORM_FILESIZE", "File too large")
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, "FORM_READ", "Failed to read uploaded file")
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, h.maxUpload))
		f.Close()
		if err != nil {
			fail(c, http.StatusBadRequest, "FORM_READ", "Failed to read uploaded file")
			return
		}

		url, err := h.blobs.UploadAvatar(ctx, auth.UserID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
		if err != nil {
			span.RecordError(err)
			h.log.ErrorContext(ctx, "Avatar upload failed", "error", err)
			fail(c, http.StatusInternalServerError, "STORAGE_UPLOAD", "Avatar upload failed")
			return
		}
		avatarURL = &url
	}

	if raw, ok := c.GetPostForm("username"); ok {
		name := strings.TrimSpace(raw)
		if len(name) > 0 && len(name) <= maxUsernameLen {
			username = &name
		}
	}

	if username == nil && avatarURL == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "updated": false})
		return
	}

	if err := h.users.UpdateProfile(ctx, auth.UserID, username, avatarURL); err != nil {
		span.RecordError(err)
		h.log.ErrorContext(ctx, "Profile update failed", "error", err)
		fail(c, http.StatusInternalServerError, "DB_UPDATE", "Internal error")
		return
	}

	span.SetAttributes(
		attribute.Bool("profile.username_changed", username != nil),
		attribute.Bool("profile.avatar_changed", avatarURL != nil),
	)
	resp := gin.H{"ok": true, "updated": true}
	if username != nil {
		resp["username"] = *username
	}
	if avatarURL != nil {
		resp["avatar_url"] = *avatarURL
	}
	c.JSON(http.StatusOK, resp)
}
