package jst

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tnicklin/jstclock/clock"
)

// authority is a mock time server that counts its hits.
type authority struct {
	*httptest.Server
	hits atomic.Int32
}

func newAuthority(t *testing.T, status int, body string) *authority {
	t.Helper()
	a := &authority{}
	a.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.hits.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(a.Close)
	return a
}

// unreachable returns a URL nothing listens on.
func unreachable(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// steppingClock returns base on the first call and advances by step on each
// subsequent call.
func steppingClock(base time.Time, step time.Duration) clock.Clock {
	var (
		mu   sync.Mutex
		next = base
	)
	return clock.Func(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(step)
		return now
	})
}

func newTestClient(t *testing.T, primary, fallback string, opts ...Option) *Client {
	t.Helper()
	all := append([]Option{
		WithEndpoints(Endpoints{Primary: primary, Fallback: fallback}),
		WithHTTPClient(&http.Client{}),
		WithTimeout(2 * time.Second),
	}, opts...)
	c, err := NewClient(all...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}
