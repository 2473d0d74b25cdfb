package mcptool

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		res  *mcp.CallToolResult
		want Result
	}{
		{
			name: "structured url",
			res:  &mcp.CallToolResult{StructuredContent: map[string]any{"product_url": "https://x"}},
			want: Found{URL: "https://x"},
		},
		{
			name: "structured message",
			res:  &mcp.CallToolResult{StructuredContent: map[string]any{"message": "nope"}},
			want: NotFound{Message: "nope"},
		},
		{
			name: "url wins over message",
			res:  &mcp.CallToolResult{StructuredContent: map[string]any{"product_url": "https://x", "message": "ignored"}},
			want: Found{URL: "https://x"},
		},
		{
			name: "empty message is still not found",
			res:  &mcp.CallToolResult{StructuredContent: map[string]any{"message": ""}},
			want: NotFound{},
		},
		{
			name: "text fallback",
			res:  mcp.NewToolResultText(`{"product_url":"https://www.amazon.com/dp/B1"}`),
			want: Found{URL: "https://www.amazon.com/dp/B1"},
		},
		{
			name: "empty object",
			res:  &mcp.CallToolResult{StructuredContent: map[string]any{}},
			want: Malformed{Reason: "neither product_url nor message present"},
		},
		{
			name: "nil result",
			res:  nil,
			want: Malformed{Reason: "empty result"},
		},
		{
			name: "no content",
			res:  &mcp.CallToolResult{},
			want: Malformed{Reason: "no content"},
		},
		{
			name: "text is not json",
			res:  mcp.NewToolResultText("hello"),
			want: Malformed{Reason: "unparsable content"},
		},
		{
			name: "tool error",
			res:  mcp.NewToolResultError("query is required"),
			want: Malformed{Reason: "tool error: query is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.res))
		})
	}
}
