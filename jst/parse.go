package jst

import (
	"fmt"
	"strings"
	"time"

	"github.com/tnicklin/jstclock/timeutil"
)

// Layout is the fixed format served by the NICT cgi-bin/time endpoints,
// e.g. "Mon Jan 02 15:04:05 2024 JST ". The trailing space is part of it.
const Layout = stampLayout + zoneSuffix

const (
	stampLayout = "Mon Jan 02 15:04:05 2006"
	zoneSuffix  = " JST "
)

// Parse extracts the authoritative instant from a response body.
func Parse(body string) (time.Time, error) {
	// time.Parse folds runs of spaces and accepts a missing trailing one, so
	// the zone token is matched by hand.
	stamp, ok := strings.CutSuffix(body, zoneSuffix)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: missing %q suffix in %q", ErrFormat, zoneSuffix, body)
	}

	t, err := time.ParseInLocation(stampLayout, stamp, timeutil.FixedJST())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrFormat, body)
	}
	return t, nil
}

// Format renders t the way a time authority would serve it.
func Format(t time.Time) string {
	return timeutil.InJST(t).Format(Layout)
}
