package jst

import (
	"context"
	"sync"
	"time"
)

// Result is the outcome of an asynchronous query. When Success is false,
// Time is the local clock reading at the moment of failure and must not be
// treated as authoritative.
type Result struct {
	Success bool
	Time    time.Time
	Err     error
}

// Callback receives the outcome of FetchJST.
type Callback func(success bool, at time.Time, err error)

// FetchAsync queries the primary endpoint and, only if that fails, the
// fallback endpoint on a separate goroutine. The returned channel yields
// exactly one Result and is then closed. No latency compensation is applied.
func (c *Client) FetchAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- c.query(ctx)
	}()
	return out
}

// FetchJST is the callback form of FetchAsync. cb runs exactly once, on a
// goroutine other than the caller's.
func (c *Client) FetchJST(ctx context.Context, cb Callback) {
	results := c.FetchAsync(ctx)
	go func() {
		r := <-results
		cb(r.Success, r.Time, r.Err)
	}()
}

// The fallback's error is relayed as-is; the primary's is only logged.
func (c *Client) query(ctx context.Context) Result {
	if t, err := c.attempt(ctx, rolePrimary, c.endpoints.Primary); err == nil {
		return Result{Success: true, Time: t}
	}

	t, err := c.attempt(ctx, roleFallback, c.endpoints.Fallback)
	if err != nil {
		return Result{Success: false, Time: c.clock.Now(), Err: err}
	}
	return Result{Success: true, Time: t}
}

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// FetchJST queries the NICT endpoints with default settings and reports the
// outcome through cb.
func FetchJST(cb Callback) {
	defaultOnce.Do(func() {
		defaultClient, defaultErr = NewClient()
	})
	if defaultErr != nil {
		err := defaultErr
		go cb(false, time.Now(), err)
		return
	}
	defaultClient.FetchJST(context.Background(), cb)
}
