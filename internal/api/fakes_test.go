package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/apresai/studynotes/internal/store"
	"github.com/apresai/studynotes/internal/summarize"
	"github.com/gin-gonic/gin"
)

// In-memory fakes for the handler-facing interfaces. Tests drive the real
// router and handlers against these.

type fakeMaterials struct {
	items     map[string]*store.MaterialItem
	createErr error
	deleteErr error
	seq       int
}

func newFakeMaterials() *fakeMaterials {
	return &fakeMaterials{items: map[string]*store.MaterialItem{}}
}

func (f *fakeMaterials) CreateMaterial(_ context.Context, nm store.NewMaterial) (*store.MaterialItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	item := &store.MaterialItem{
		MaterialID:  nm.ID,
		UserID:      nm.UserID,
		Title:       nm.Title,
		Type:        string(nm.Type),
		Content:     nm.Content,
		StoragePath: nm.StoragePath,
		CreatedAt:   fmt.Sprintf("2026-08-28T00:00:%02dZ", f.seq),
	}
	f.items[nm.ID] = item
	return item, nil
}

func (f *fakeMaterials) GetMaterial(_ context.Context, id string) (*store.MaterialItem, error) {
	return f.items[id], nil
}

func (f *fakeMaterials) ListMaterials(_ context.Context, userID string, _ int) ([]store.MaterialItem, error) {
	var out []store.MaterialItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (f *fakeMaterials) DeleteMaterial(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, id)
	return nil
}

type fakeSummaries struct {
	items     []store.SummaryItem
	createErr error
	seq       int
}

func (f *fakeSummaries) CreateSummary(_ context.Context, ns store.NewSummary) (*store.SummaryItem, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	item := store.SummaryItem{
		SummaryID:     ns.ID,
		MaterialID:    ns.MaterialID,
		UserID:        ns.UserID,
		MaterialTitle: ns.MaterialTitle,
		Model:         ns.Model,
		Tokens:        ns.Tokens,
		Summary:       ns.Summary,
		CreatedAt:     fmt.Sprintf("2026-08-28T00:00:%02dZ", f.seq),
	}
	f.items = append(f.items, item)
	return &item, nil
}

func (f *fakeSummaries) LatestSummary(_ context.Context, materialID string) (*store.SummaryItem, error) {
	var latest *store.SummaryItem
	for i := range f.items {
		item := &f.items[i]
		if item.MaterialID != materialID {
			continue
		}
		if latest == nil || item.CreatedAt > latest.CreatedAt {
			latest = item
		}
	}
	return latest, nil
}

func (f *fakeSummaries) ListSummaries(_ context.Context, userID string, _ int) ([]store.SummaryItem, error) {
	var out []store.SummaryItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

type fakeUsers struct {
	users map[string]*store.UserItem
}

func (f *fakeUsers) GetUser(_ context.Context, userID string) (*store.UserItem, error) {
	return f.users[userID], nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, userID string, username, avatarURL *string) error {
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	if username != nil {
		user.Username = *username
	}
	if avatarURL != nil {
		user.AvatarURL = *avatarURL
	}
	return nil
}

type fakeBlobs struct {
	objects   map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
	seq       int
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) UploadMaterial(_ context.Context, userID, filename string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.seq++
	key := fmt.Sprintf("materials/%s/%d-%s", userID, f.seq, filename)
	f.objects[key] = data
	return key, nil
}

func (f *fakeBlobs) UploadAvatar(_ context.Context, userID, filename, _ string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	key := fmt.Sprintf("avatars/%s/avatar.png", userID)
	f.objects[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(_ []byte) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	result *summarize.Result
	err    error
	calls  int
}

func (f *fakeGenerator) Summarize(_ context.Context, _ string) (*summarize.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeKeys maps full bearer tokens to user IDs.
type fakeKeys struct {
	users map[string]string
}

func (f *fakeKeys) ValidateAPIKey(_ context.Context, bearerToken string) (*store.AuthResult, error) {
	token := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer "))
	userID, ok := f.users[token]
	if !ok {
		return nil, fmt.Errorf("API key not found")
	}
	return &store.AuthResult{Authenticated: true, UserID: userID, Role: "user", KeyID: "testkey"}, nil
}

// env bundles the fakes with a wired router.
type env struct {
	materials *fakeMaterials
	summaries *fakeSummaries
	users     *fakeUsers
	blobs     *fakeBlobs
	extractor *fakeExtractor
	generator *fakeGenerator
	router    *gin.Engine
}

func newEnv() *env {
	e := &env{
		materials: newFakeMaterials(),
		summaries: &fakeSummaries{},
		users: &fakeUsers{users: map[string]*store.UserItem{
			"user-a": {UserID: "user-a", Email: "a@example.com", Username: "alice", Status: "active", Role: "user"},
			"user-b": {UserID: "user-b", Email: "b@example.com", Status: "active", Role: "user"},
		}},
		blobs:     newFakeBlobs(),
		extractor: &fakeExtractor{text: "extracted text"},
		generator: &fakeGenerator{result: &summarize.Result{Text: "notes", Model: "claude-haiku-4-5-20251001", OutputTokens: 42}},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandlers(e.materials, e.summaries, e.users, e.blobs, e.extractor, e.generator, logger, 0)
	keys := &fakeKeys{users: map[string]string{
		"sn_key_a": "user-a",
		"sn_key_b": "user-b",
	}}
	e.router = NewRouter(h, keys, logger)
	return e
}
