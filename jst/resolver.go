package jst

import (
	"context"
	"time"

	"github.com/tnicklin/jstclock/clock"
	"github.com/tnicklin/jstclock/metrics"
	"github.com/tnicklin/jstclock/timeutil"
)

var _ clock.Clock = (*Resolver)(nil)

// Resolver answers "now" in JST from the local clock plus an offset measured
// once at construction. It never touches the network after New returns.
type Resolver struct {
	clock  clock.Clock
	offset time.Duration
	source string
}

// New blocks while the primary (then, on failure, the fallback) endpoint is
// queried and returns a resolver with its offset fixed. If both endpoints
// fail no resolver is returned.
func New(ctx context.Context, opts ...Option) (*Resolver, error) {
	c, err := NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return NewWithClient(ctx, c)
}

// NewWithClient is New for an existing Client.
func NewWithClient(ctx context.Context, c *Client) (*Resolver, error) {
	start := c.clock.Now()

	authoritative, source, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	// Assume the authority stamped the response when the request started and
	// carry it forward by the time the fetch took.
	completed := c.clock.Now()
	elapsed := completed.Sub(start)
	adjusted := authoritative.Add(elapsed)
	offset := adjusted.Sub(completed)

	metrics.SetOffset(offset.Seconds())
	c.log().InfoW("jst offset resolved",
		"source", source,
		"authoritative", authoritative,
		"elapsed", elapsed,
		"offset", offset,
	)

	return &Resolver{clock: c.clock, offset: offset, source: source}, nil
}

// Now returns the local clock adjusted by the stored offset, in JST.
func (r *Resolver) Now() time.Time {
	return timeutil.InJST(r.clock.Now().Add(r.offset))
}

// Offset returns the delta added to the local clock.
func (r *Resolver) Offset() time.Duration {
	return r.offset
}

// Source returns the URL of the endpoint the offset was measured against.
func (r *Resolver) Source() string {
	return r.source
}
