package mcptool

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Result is the decoded answer of one search_amazon call:
// exactly one of Found, NotFound or Malformed.
type Result interface {
	isResult()
}

// Found carries the product page URL.
type Found struct {
	URL string
}

// NotFound carries the server's explanation. Message may be empty.
type NotFound struct {
	Message string
}

// Malformed means the tool answered with something unusable.
type Malformed struct {
	Reason string
}

func (Found) isResult()     {}
func (NotFound) isResult()  {}
func (Malformed) isResult() {}

// payload mirrors models.SearchResult, with pointers to tell absent from empty.
type payload struct {
	ProductURL *string `json:"product_url"`
	Message    *string `json:"message"`
}

// Decode classifies a tool result. It prefers structured content and falls
// back to JSON carried in the first text block.
func Decode(res *mcp.CallToolResult) Result {
	if res == nil {
		return Malformed{Reason: "empty result"}
	}
	if res.IsError {
		return Malformed{Reason: "tool error: " + firstText(res)}
	}

	var raw []byte
	if res.StructuredContent != nil {
		b, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return Malformed{Reason: "unencodable structured content"}
		}
		raw = b
	} else if text := firstText(res); strings.TrimSpace(text) != "" {
		raw = []byte(text)
	} else {
		return Malformed{Reason: "no content"}
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Malformed{Reason: "unparsable content"}
	}

	switch {
	case p.ProductURL != nil && *p.ProductURL != "":
		return Found{URL: *p.ProductURL}
	case p.Message != nil:
		return NotFound{Message: *p.Message}
	default:
		return Malformed{Reason: "neither product_url nor message present"}
	}
}

func firstText(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	return ""
}
