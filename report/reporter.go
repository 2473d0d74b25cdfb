package report

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/pterm/pterm"
	"github.com/use-agent/productfinder/finder"
)

// Opener shows a URL to the user. Failures are not reported back.
type Opener interface {
	Open(url string)
}

// SystemBrowser opens URLs in the default system browser.
type SystemBrowser struct{}

// Open hands url to the OS, fire-and-forget.
func (SystemBrowser) Open(url string) {
	slog.Info("opening browser", "url", url)
	launcher.Open(url)
}

// Reporter prints outcomes in submission order and opens every found page.
type Reporter struct {
	out     io.Writer
	opener  Opener
	success *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
}

// NewReporter writes to out and opens pages through opener.
func NewReporter(out io.Writer, opener Opener) *Reporter {
	return &Reporter{
		out:     out,
		opener:  opener,
		success: pterm.Success.WithWriter(out),
		failure: pterm.Error.WithWriter(out),
	}
}

// Report handles a joined batch and returns how many pages were opened.
func (r *Reporter) Report(outcomes []finder.Outcome) int {
	fmt.Fprintln(r.out, "\n--- Search Complete ---")

	opened := 0
	for _, o := range outcomes {
		if o.Status == finder.StatusSuccess {
			r.opener.Open(o.Payload)
			r.success.Println(fmt.Sprintf("Opened Amazon page for '%s'.", o.Query))
			opened++
			continue
		}
		r.failure.Println(o.Payload)
	}

	fmt.Fprintln(r.out, "-----------------------")
	fmt.Fprintf(r.out, "Found and opened %d of %d products.\n", opened, len(outcomes))
	return opened
}
