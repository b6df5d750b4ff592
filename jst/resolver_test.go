package jst

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnicklin/jstclock/timeutil"
)

// recordingLogger captures structured log calls.
type recordingLogger struct {
	infos []string
	warns []string
}

func (l *recordingLogger) InfoW(msg string, _ ...any) { l.infos = append(l.infos, msg) }
func (l *recordingLogger) WarnW(msg string, _ ...any) { l.warns = append(l.warns, msg) }

func TestNewComputesOffset(t *testing.T) {
	// Local clock is 5s behind the authority and each reading advances 2s.
	local := time.Date(2024, 1, 2, 6, 4, 0, 0, time.UTC)
	primary := newAuthority(t, http.StatusOK, "Mon Jan 02 15:04:05 2024 JST ")
	fallback := newAuthority(t, http.StatusOK, fallbackBody)

	r, err := New(context.Background(),
		WithEndpoints(Endpoints{Primary: primary.URL, Fallback: fallback.URL}),
		WithHTTPClient(&http.Client{}),
		WithClock(steppingClock(local, 2*time.Second)),
	)
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, 5*time.Second, r.Offset())
	assert.Equal(t, primary.URL, r.Source())
	assert.EqualValues(t, 0, fallback.hits.Load())

	// Third reading is local+4s.
	want := time.Date(2024, 1, 2, 6, 4, 9, 0, time.UTC)
	got := r.Now()
	assert.True(t, got.Equal(want), "Now() = %s, want %s", got, want)

	// Later readings track the same offset forward.
	got = r.Now()
	assert.True(t, got.Equal(want.Add(2*time.Second)), "Now() = %s", got)
}

func TestNewUsesFallbackTimestamp(t *testing.T) {
	local := time.Date(2024, 1, 2, 6, 4, 0, 0, time.UTC)
	primary := newAuthority(t, http.StatusBadGateway, "")
	fallback := newAuthority(t, http.StatusOK, fallbackBody)
	log := &recordingLogger{}

	c := newTestClient(t, primary.URL, fallback.URL,
		WithClock(steppingClock(local, 0)),
		WithLogger(log),
	)
	r, err := NewWithClient(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, 7*time.Second, r.Offset())
	assert.Equal(t, fallback.URL, r.Source())
	assert.Contains(t, log.warns, "jst fetch failed")
	assert.Contains(t, log.infos, "jst resolved from fallback endpoint")
}

func TestNewBothFail(t *testing.T) {
	primary := newAuthority(t, http.StatusOK, "nonsense")
	c := newTestClient(t, primary.URL, unreachable(t))

	r, err := NewWithClient(context.Background(), c)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "all endpoints failed")
}

func TestNewRejectsInvalidEndpoints(t *testing.T) {
	r, err := New(context.Background(), WithEndpoints(Endpoints{}))
	require.Error(t, err)
	assert.Nil(t, r)
}

func TestResolverNowTracksLocalClock(t *testing.T) {
	srv := newAuthority(t, http.StatusOK, Format(time.Now()))
	c := newTestClient(t, srv.URL, srv.URL)

	r, err := NewWithClient(context.Background(), c)
	require.NoError(t, err)

	const delta = 50 * time.Millisecond
	first := r.Now()
	time.Sleep(delta)
	second := r.Now()

	diff := second.Sub(first)
	assert.GreaterOrEqual(t, diff, delta)
	assert.Less(t, diff, delta+time.Second)

	// The server stamp is truncated to the second, so the offset stays small.
	assert.Less(t, r.Offset().Abs(), 2*time.Second)
}

func TestResolverNowInJST(t *testing.T) {
	srv := newAuthority(t, http.StatusOK, primaryBody)
	c := newTestClient(t, srv.URL, srv.URL)

	r, err := NewWithClient(context.Background(), c)
	require.NoError(t, err)

	_, off := r.Now().Zone()
	assert.Equal(t, timeutil.JSTOffset, off)
}

func TestNICTIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping NICT integration test in -short mode")
	}

	r, err := New(context.Background())
	if err != nil {
		t.Skipf("NICT endpoints unreachable: %v", err)
	}

	// A healthy system clock should be within a few seconds of NICT.
	if off := r.Offset(); off > 5*time.Second || off < -5*time.Second {
		t.Logf("WARNING: system clock offset from NICT is %v", off)
	}
}
