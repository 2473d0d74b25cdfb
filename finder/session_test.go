package finder

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/productfinder/mcptool"
	"github.com/use-agent/productfinder/models"
)

type slowSearcher struct {
	results map[string]*models.SearchResult
	delay   map[string]time.Duration
}

func (s slowSearcher) Search(ctx context.Context, query string) *models.SearchResult {
	time.Sleep(s.delay[query])
	if r, ok := s.results[query]; ok {
		return r
	}
	return &models.SearchResult{Message: "Sorry, I could not find '" + query + "' on Amazon. The website structure may have changed."}
}

func newInProcessSession(t *testing.T, searcher mcptool.Searcher) *Session {
	t.Helper()
	sess, err := OpenInProcess(context.Background(), mcptool.NewServer(searcher, "test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}

func TestSession_SearchProductRoundTrip(t *testing.T) {
	sess := newInProcessSession(t, slowSearcher{
		results: map[string]*models.SearchResult{"lamp": {ProductURL: "https://www.amazon.com/dp/LAMP"}},
	})

	res, err := sess.SearchProduct(context.Background(), "lamp")
	require.NoError(t, err)
	assert.Equal(t, mcptool.Found{URL: "https://www.amazon.com/dp/LAMP"}, res)

	res, err = sess.SearchProduct(context.Background(), "chair")
	require.NoError(t, err)
	assert.Equal(t, mcptool.NotFound{Message: "Sorry, I could not find 'chair' on Amazon. The website structure may have changed."}, res)
}

func TestSession_ConcurrentDispatch(t *testing.T) {
	sess := newInProcessSession(t, slowSearcher{
		results: map[string]*models.SearchResult{
			"shoes": {ProductURL: "https://www.amazon.com/dp/SHOES"},
			"hat":   {ProductURL: "https://www.amazon.com/dp/HAT"},
		},
		delay: map[string]time.Duration{"shoes": 30 * time.Millisecond},
	})

	out := NewDispatcher(sess, 0).Dispatch(context.Background(), []string{"shoes", "hat", "scarf"})

	require.Len(t, out, 3)
	assert.Equal(t, Outcome{Query: "shoes", Status: StatusSuccess, Payload: "https://www.amazon.com/dp/SHOES"}, out[0])
	assert.Equal(t, Outcome{Query: "hat", Status: StatusSuccess, Payload: "https://www.amazon.com/dp/HAT"}, out[1])
	assert.Equal(t, StatusNotFound, out[2].Status)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	sess := newInProcessSession(t, slowSearcher{})
	first := sess.Close()
	assert.Equal(t, first, sess.Close())
}

func TestForwardStderr_DrainsServerLogs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	forwardStderr(strings.NewReader("{\"msg\":\"product link found\"}\nsecond line\n"))

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "server log"))
	assert.Contains(t, out, "second line")
}
