package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/productfinder/mcptool"
	"github.com/use-agent/productfinder/models"
)

// Search returns a handler for POST /api/v1/search.
//
// The body mirrors the search_amazon tool arguments and the response is the
// same SearchResult the tool returns. A product that cannot be found is still
// a 200: only malformed requests are rejected.
func Search(searcher mcptool.Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err).ToDetail(),
			})
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.NewScrapeError(models.ErrCodeInvalidInput, "query must not be blank", nil).ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, searcher.Search(c.Request.Context(), req.Query))
	}
}
