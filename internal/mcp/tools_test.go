package mcp

import (
	"context"
	"net/http"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolDefs(t *testing.T) {
	tools := ToolDefs()
	require.Len(t, tools, 4)

	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.Equal(t, []string{"list_materials", "get_material", "get_latest_summary", "summarize_material"}, names)

	// Everything except the listing requires a material ID.
	for _, tool := range tools[1:] {
		assert.Equal(t, []string{"material_id"}, tool.InputSchema.Required, tool.Name)
	}
}

func TestParseIntParam(t *testing.T) {
	req := mcp.CallToolRequest{}
	assert.Equal(t, 20, parseIntParam(req, "limit", 20))

	req.Params.Arguments = map[string]any{"limit": float64(5)}
	assert.Equal(t, 5, parseIntParam(req, "limit", 20))

	req.Params.Arguments = map[string]any{"limit": "nope"}
	assert.Equal(t, 20, parseIntParam(req, "limit", 20))
}

func TestAuthHeaderContext(t *testing.T) {
	assert.Empty(t, authHeaderFromContext(context.Background()))

	r, err := http.NewRequest(http.MethodPost, "/mcp", nil)
	require.NoError(t, err)
	r.Header.Set("Authorization", "Bearer sn_test")

	ctx := withAuthHeader(context.Background(), r)
	assert.Equal(t, "Bearer sn_test", authHeaderFromContext(ctx))
}
