package api

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/productfinder/api/handler"
	"github.com/use-agent/productfinder/api/middleware"
	"github.com/use-agent/productfinder/config"
	"github.com/use-agent/productfinder/mcptool"
)

// NewRouter creates a configured Gin engine exposing the product search.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     RateLimit
//
// Health endpoint is outside the rate limit so monitoring probes always work.
//
// All gin output, access log and debug route dump included, goes to stderr:
// the same process serves MCP frames on stdout.
func NewRouter(searcher mcptool.Searcher, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.DefaultWriter = os.Stderr
	gin.DefaultErrorWriter = os.Stderr
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.RecoveryWithWriter(os.Stderr))
	r.Use(gin.LoggerWithWriter(os.Stderr))

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(startTime))

	limited := v1.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))

	limited.POST("/search", handler.Search(searcher))

	return r
}
