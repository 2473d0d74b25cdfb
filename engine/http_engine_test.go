package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/productfinder/models"
)

func TestHTTPEngine_FetchSendsBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title> Results </title></head><body></body></html>`))
	}))
	defer srv.Close()

	e := NewHTTPEngineWithClient(srv.Client())
	res, err := e.Fetch(context.Background(), &FetchRequest{
		URL:     srv.URL + "/s?k=lamp",
		Headers: map[string]string{"User-Agent": "test-agent/1.0"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Results", res.Title)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "http", res.EngineName)
	assert.Equal(t, srv.URL+"/s?k=lamp", res.FinalURL)

	assert.Equal(t, "test-agent/1.0", got.Get("User-Agent"))
	assert.Equal(t, "en-US,en;q=0.9", got.Get("Accept-Language"))
	assert.Equal(t, "https://www.google.com/", got.Get("Referer"))
}

func TestHTTPEngine_FetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPEngineWithClient(srv.Client()).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeHTTPStatus, models.CodeOf(err))
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestHTTPEngine_FetchRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"captcha":true}`))
	}))
	defer srv.Close()

	_, err := NewHTTPEngineWithClient(srv.Client()).Fetch(context.Background(), &FetchRequest{URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeFetchFailed, models.CodeOf(err))
}

func TestHTTPEngine_FetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPEngineWithClient(srv.Client()).Fetch(context.Background(), &FetchRequest{
		URL:     srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrCodeFetchFailed, models.CodeOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Amazon.com : lamp", extractTitle(`<html><head><title>Amazon.com : lamp</title></head></html>`))
	assert.Empty(t, extractTitle(`<html><body>no title</body></html>`))
	assert.Empty(t, extractTitle(`<title></title>`))
}
