package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/productfinder/config"
	"github.com/use-agent/productfinder/engine"
	"github.com/use-agent/productfinder/models"
	"golang.org/x/net/html"
)

// Searcher looks up the first product link for a query on the search site.
// It is safe for concurrent use.
type Searcher struct {
	engine    engine.Engine
	rules     []Rule
	searchURL string
	base      *url.URL
	userAgent string
	timeout   time.Duration
}

// NewSearcher validates cfg and builds a Searcher. A nil rules slice uses
// DefaultRules.
func NewSearcher(eng engine.Engine, cfg config.ScraperConfig, rules []Rule) (*Searcher, error) {
	if !strings.Contains(cfg.SearchURL, "{query}") {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("search URL %q has no {query} placeholder", cfg.SearchURL), nil)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("base URL %q must be absolute", cfg.BaseURL), err)
	}
	if rules == nil {
		rules = DefaultRules()
	}

	return &Searcher{
		engine:    eng,
		rules:     rules,
		searchURL: cfg.SearchURL,
		base:      base,
		userAgent: cfg.UserAgent,
		timeout:   cfg.RequestTimeout,
	}, nil
}

// SearchURL substitutes the percent-encoded query into the template.
func (s *Searcher) SearchURL(query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	return strings.ReplaceAll(s.searchURL, "{query}", escaped)
}

// Search fetches the results page for query and returns the first product
// link. Failures never surface as errors: they become a Message.
func (s *Searcher) Search(ctx context.Context, query string) *models.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return &models.SearchResult{Message: "Please enter a product name to search for."}
	}

	start := time.Now()
	page, link, rule, err := s.find(ctx, query)
	if err != nil {
		slog.Warn("product search failed", append(pageAttrs(page),
			"query", query,
			"code", models.CodeOf(err),
			"selector", rule,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)...)
		return &models.SearchResult{Message: failureMessage(query, err)}
	}

	slog.Info("product link found", append(pageAttrs(page),
		"query", query,
		"selector", rule,
		"url", link,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)...)
	return &models.SearchResult{ProductURL: link}
}

// find returns the fetched page, when there is one, alongside the outcome so
// failures can be logged with what the site actually served.
func (s *Searcher) find(ctx context.Context, query string) (page *engine.FetchResult, link, rule string, err error) {
	req := &engine.FetchRequest{
		URL:     s.SearchURL(query),
		Timeout: s.timeout,
	}
	if s.userAgent != "" {
		req.Headers = map[string]string{"User-Agent": s.userAgent}
	}

	page, err = s.engine.Fetch(ctx, req)
	if err != nil {
		return nil, "", "", err
	}

	root, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		return page, "", "", models.NewScrapeError(models.ErrCodeParseFailed, "parse results page", err)
	}

	link, rule, err = ExtractProductLink(goquery.NewDocumentFromNode(root), s.rules, s.base)
	if err != nil {
		if isRobotCheck(page.Title) {
			return page, "", rule, models.NewScrapeError(models.ErrCodeBlocked,
				fmt.Sprintf("robot check page %q", page.Title), err)
		}
		return page, "", rule, models.NewScrapeError(models.ErrCodeNoProductLink, "no selector yielded a product link", err)
	}
	return page, link, rule, nil
}

// robotCheckTitles are page titles Amazon serves instead of results when it
// suspects automation.
var robotCheckTitles = []string{"robot check", "captcha", "sorry! something went wrong"}

func isRobotCheck(title string) bool {
	t := strings.ToLower(title)
	for _, marker := range robotCheckTitles {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

func pageAttrs(page *engine.FetchResult) []any {
	if page == nil {
		return nil
	}
	return []any{
		"engine", page.EngineName,
		"status", page.StatusCode,
		"final_url", page.FinalURL,
		"title", page.Title,
	}
}

func failureMessage(query string, err error) string {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		switch se.Code {
		case models.ErrCodeHTTPStatus:
			return fmt.Sprintf("Sorry, I could not find '%s' on Amazon. The search page returned an error (%s); Amazon might be blocking the request.", query, se.Message)
		case models.ErrCodeFetchFailed:
			return fmt.Sprintf("Sorry, I could not find '%s' on Amazon. The search page could not be fetched.", query)
		case models.ErrCodeBlocked:
			return fmt.Sprintf("Sorry, I could not find '%s' on Amazon. Amazon answered with a robot check page instead of results.", query)
		}
	}
	return fmt.Sprintf("Sorry, I could not find '%s' on Amazon. The website structure may have changed.", query)
}

// NewFromConfig wires the HTTP engine and the configured selector rules.
func NewFromConfig(cfg config.ScraperConfig) (*Searcher, error) {
	rules, err := LoadRules(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}
	return NewSearcher(engine.NewHTTPEngine(), cfg, rules)
}
