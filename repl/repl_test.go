package repl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/productfinder/finder"
	"github.com/use-agent/productfinder/mcptool"
	"github.com/use-agent/productfinder/report"
)

type countingCaller struct {
	calls atomic.Int32
}

func (c *countingCaller) SearchProduct(_ context.Context, q string) (mcptool.Result, error) {
	c.calls.Add(1)
	if q == "lamp" {
		return mcptool.Found{URL: "https://www.amazon.com/dp/LAMP"}, nil
	}
	return mcptool.NotFound{Message: "Sorry, I could not find '" + q + "' on Amazon."}, nil
}

type nopOpener struct {
	mu   sync.Mutex
	urls []string
}

func (o *nopOpener) Open(url string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
}

// syncBuffer guards a bytes.Buffer shared with the loop goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLoop(in io.Reader, out io.Writer, caller *countingCaller, opener *nopOpener) *Loop {
	return &Loop{
		In:         in,
		Out:        out,
		Dispatcher: finder.NewDispatcher(caller, 0),
		Reporter:   report.NewReporter(out, opener),
	}
}

func init() {
	pterm.DisableColor()
}

func TestLoop_SearchThenExit(t *testing.T) {
	out := &syncBuffer{}
	caller := &countingCaller{}
	opener := &nopOpener{}

	in := strings.NewReader("lamp, chair\n   \nQUIT\nlamp\n")
	require.NoError(t, newLoop(in, out, caller, opener).Run(context.Background()))

	assert.Equal(t, int32(2), caller.calls.Load())
	assert.Equal(t, []string{"https://www.amazon.com/dp/LAMP"}, opener.urls)

	text := out.String()
	assert.Contains(t, text, "Searching Amazon for 2 product(s)...")
	assert.Contains(t, text, "Found and opened 1 of 2 products.")
	assert.True(t, strings.HasSuffix(text, "Goodbye!\n"), text)
	assert.Equal(t, 3, strings.Count(text, "Enter product(s) to find"))
}

func TestLoop_EmptyInputMakesNoCalls(t *testing.T) {
	out := &syncBuffer{}
	caller := &countingCaller{}

	require.NoError(t, newLoop(strings.NewReader("\n , \nexit\n"), out, caller, &nopOpener{}).Run(context.Background()))

	assert.Zero(t, caller.calls.Load())
	assert.NotContains(t, out.String(), "Searching Amazon")
}

func TestLoop_EOFEndsSession(t *testing.T) {
	out := &syncBuffer{}
	require.NoError(t, newLoop(strings.NewReader("chair"), out, &countingCaller{}, &nopOpener{}).Run(context.Background()))

	assert.Contains(t, out.String(), "Found and opened 0 of 1 products.")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestLoop_InterruptEndsSession(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- newLoop(pr, out, &countingCaller{}, &nopOpener{}).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Contains(t, out.String(), "Goodbye!")
}
