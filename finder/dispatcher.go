package finder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/use-agent/productfinder/mcptool"
)

// Caller performs one remote product search.
type Caller interface {
	SearchProduct(ctx context.Context, query string) (mcptool.Result, error)
}

// Dispatcher fans queries out to a Caller and joins the outcomes.
type Dispatcher struct {
	caller        Caller
	maxConcurrent int
}

// NewDispatcher creates a Dispatcher. maxConcurrent <= 0 starts every call at
// once; 1 serializes calls for transports that cannot multiplex.
func NewDispatcher(caller Caller, maxConcurrent int) *Dispatcher {
	return &Dispatcher{caller: caller, maxConcurrent: maxConcurrent}
}

// Dispatch searches all queries concurrently and waits for every call.
// out[i] always belongs to queries[i], whatever the completion order.
func (d *Dispatcher) Dispatch(ctx context.Context, queries []string) []Outcome {
	if len(queries) == 0 {
		return nil
	}

	var sem chan struct{}
	if d.maxConcurrent > 0 {
		sem = make(chan struct{}, d.maxConcurrent)
	}

	out := make([]Outcome, len(queries))
	var wg sync.WaitGroup

	for i, q := range queries {
		wg.Add(1)
		go func(idx int, query string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			out[idx] = d.searchOne(ctx, query)
		}(i, q)
	}

	wg.Wait()
	return out
}

// searchOne never lets a failing call, panics included, escape its query.
func (d *Dispatcher) searchOne(ctx context.Context, query string) (o Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("search call panicked", "query", query, "panic", r)
			o = Classify(query, nil, fmt.Errorf("panic: %v", r))
		}
	}()

	res, err := d.caller.SearchProduct(ctx, query)
	if err != nil {
		slog.Error("search call failed", "query", query, "error", err)
	} else if m, ok := res.(mcptool.Malformed); ok {
		slog.Warn("invalid search response", "query", query, "reason", m.Reason)
	}
	return Classify(query, res, err)
}
