// Package repl runs the opener's interactive prompt.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/use-agent/productfinder/finder"
	"github.com/use-agent/productfinder/query"
	"github.com/use-agent/productfinder/report"
)

// Prompt is shown before every line of input.
const Prompt = "\nEnter product(s) to find : "

// Loop reads product lists until exit, EOF or cancellation.
type Loop struct {
	In         io.Reader
	Out        io.Writer
	Dispatcher *finder.Dispatcher
	Reporter   *report.Reporter
}

// Run blocks until the user quits or ctx is cancelled. Both end the session
// normally and return nil; batch failures never stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	fmt.Fprintln(l.Out, "Welcome to the Amazon Multi-Product Opener! (Type 'exit' or 'quit' to end)")

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(l.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprint(l.Out, Prompt)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.Out, "\nGoodbye!")
			return nil
		case err := <-readErr:
			if err != nil {
				slog.Error("reading input failed", "error", err)
			}
			fmt.Fprintln(l.Out, "\nGoodbye!")
			return nil
		case line = <-lines:
		}

		input := strings.TrimSpace(line)
		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Fprintln(l.Out, "Goodbye!")
			return nil
		}

		queries := query.Split(input)
		if len(queries) == 0 {
			continue
		}

		fmt.Fprintf(l.Out, "\nSearching Amazon for %d product(s)...\n", len(queries))
		// Dispatched calls run to completion even if the user interrupts.
		outcomes := l.Dispatcher.Dispatch(context.WithoutCancel(ctx), queries)
		l.Reporter.Report(outcomes)
	}
}
