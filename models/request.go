package models

// SearchRequest is the payload for POST /api/v1/search and the arguments of
// the search_amazon tool.
type SearchRequest struct {
	// Query is the product name to look up. Required.
	Query string `json:"query" binding:"required"`
}
