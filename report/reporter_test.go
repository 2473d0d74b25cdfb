package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/productfinder/finder"
	"github.com/use-agent/productfinder/mcptool"
	"github.com/use-agent/productfinder/query"
)

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Open(url string) { o.urls = append(o.urls, url) }

type stubCaller map[string]mcptool.Result

func (s stubCaller) SearchProduct(_ context.Context, q string) (mcptool.Result, error) {
	return s[q], nil
}

func init() {
	pterm.DisableColor()
}

func TestReport_MixedOutcomes(t *testing.T) {
	var buf bytes.Buffer
	opener := &recordingOpener{}

	n := NewReporter(&buf, opener).Report([]finder.Outcome{
		{Query: "lamp", Status: finder.StatusSuccess, Payload: "https://www.amazon.com/dp/LAMP"},
		{Query: "chair", Status: finder.StatusNotFound, Payload: "Sorry, I could not find 'chair' on Amazon."},
		{Query: "desk", Status: finder.StatusError, Payload: finder.InvalidResponseMessage},
	})

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"https://www.amazon.com/dp/LAMP"}, opener.urls)

	out := buf.String()
	lamp := strings.Index(out, "Opened Amazon page for 'lamp'.")
	chair := strings.Index(out, "Sorry, I could not find 'chair' on Amazon.")
	desk := strings.Index(out, finder.InvalidResponseMessage)
	require.True(t, lamp >= 0 && chair >= 0 && desk >= 0, out)
	assert.Less(t, lamp, chair)
	assert.Less(t, chair, desk)
	assert.True(t, strings.HasSuffix(out, "Found and opened 1 of 3 products.\n"), out)
}

func TestReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	opener := &recordingOpener{}

	assert.Zero(t, NewReporter(&buf, opener).Report(nil))
	assert.Empty(t, opener.urls)
	assert.Contains(t, buf.String(), "Found and opened 0 of 0 products.")
}

func TestEndToEnd_LampAndChair(t *testing.T) {
	caller := stubCaller{
		"lamp":  mcptool.Found{URL: "https://www.amazon.com/dp/LAMP"},
		"chair": mcptool.NotFound{Message: "Sorry, I could not find 'chair' on Amazon. The website structure may have changed."},
	}

	var buf bytes.Buffer
	opener := &recordingOpener{}

	outcomes := finder.NewDispatcher(caller, 0).Dispatch(context.Background(), query.Split("lamp, chair"))
	NewReporter(&buf, opener).Report(outcomes)

	assert.Equal(t, []string{"https://www.amazon.com/dp/LAMP"}, opener.urls)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "Found and opened 1 of 2 products.", lines[len(lines)-1])
}
