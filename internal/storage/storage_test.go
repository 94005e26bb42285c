package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeName(t *testing.T) {
	assert.Equal(t, "notes.pdf", safeName("notes.pdf"))
	assert.Equal(t, "week_1_notes.pdf", safeName("week 1 notes.pdf"))
	assert.Equal(t, "a_b.pdf", safeName("  a \t\n b.pdf  "))
	assert.Equal(t, "upload.pdf", safeName(""))
	assert.Equal(t, "upload.pdf", safeName("   "))
}

func TestAvatarExt(t *testing.T) {
	assert.Equal(t, "png", avatarExt("me.PNG"))
	assert.Equal(t, "jpeg", avatarExt("photo.jpeg"))
	assert.Equal(t, "jpg", avatarExt("photo.JPG"))
	assert.Equal(t, "webp", avatarExt("pic.webp"))
	assert.Equal(t, "gif", avatarExt("anim.gif"))

	// Anything outside the allowlist falls back to png.
	assert.Equal(t, "png", avatarExt("payload.svg"))
	assert.Equal(t, "png", avatarExt("page.html"))
	assert.Equal(t, "png", avatarExt("noext"))
	assert.Equal(t, "png", avatarExt("trailing."))
	assert.Equal(t, "png", avatarExt(""))
}

func TestPublicURL(t *testing.T) {
	s := New(nil, "bucket", "https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/avatars/u1/avatar.png", s.PublicURL("avatars/u1/avatar.png"))

	s = New(nil, "bucket", "https://cdn.example.com")
	assert.Equal(t, "https://cdn.example.com/materials/u1/1-x.pdf", s.PublicURL("materials/u1/1-x.pdf"))
}
