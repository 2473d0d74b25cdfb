package models

// SearchResult is the structured answer of one product search.
// Exactly one of ProductURL and Message is set.
type SearchResult struct {
	// ProductURL is the absolute link of the first product on the results page.
	ProductURL string `json:"product_url,omitempty"`

	// Message explains why no product link could be returned.
	Message string `json:"message,omitempty"`
}

// Found reports whether the search produced a product link.
func (r *SearchResult) Found() bool {
	return r != nil && r.ProductURL != ""
}

// ErrorResponse is returned by the HTTP API for rejected requests.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
