// Package mcptool defines the search_amazon MCP tool shared by the server
// and the opener client.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/productfinder/models"
)

// ToolName is the name clients call.
const ToolName = "search_amazon"

// ArgQuery is the single tool argument.
const ArgQuery = "query"

// Searcher is implemented by scraper.Searcher.
type Searcher interface {
	Search(ctx context.Context, query string) *models.SearchResult
}

// NewTool describes search_amazon.
func NewTool() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("Searches for a product on Amazon and returns the link to the first result."),
		mcp.WithString(ArgQuery,
			mcp.Required(),
			mcp.Description("The product name to search for"),
		),
	)
}

// Register adds search_amazon to s.
func Register(s *server.MCPServer, searcher Searcher) {
	s.AddTool(NewTool(), Handler(searcher))
}

// Handler serves search_amazon. Scrape failures are part of the structured
// result, not tool errors.
func Handler(searcher Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString(ArgQuery)
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		slog.Debug("tool call", "tool", ToolName, "query", query)
		result := searcher.Search(ctx, query)

		text, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcp.NewToolResultStructured(result, string(text)), nil
	}
}

// NewCallRequest builds the client-side request for query.
func NewCallRequest(query string) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = ToolName
	req.Params.Arguments = map[string]any{ArgQuery: query}
	return req
}

// NewServer builds an MCP server exposing search_amazon.
func NewServer(searcher Searcher, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Amazon Search Server",
		version,
		server.WithToolCapabilities(false),
	)
	Register(s, searcher)
	return s
}
