package timeutil

import "time"

const jstLocation = "Asia/Tokyo"

// JSTOffset is the fixed UTC offset of Japan Standard Time. JST has no
// daylight saving.
const JSTOffset = 9 * 60 * 60

var fixedJST = time.FixedZone("JST", JSTOffset)

// FixedJST returns a UTC+9 zone that does not depend on the host tz database.
func FixedJST() *time.Location {
	return fixedJST
}

// JST returns the Asia/Tokyo location, or the fixed UTC+9 zone when tzdata
// is unavailable.
func JST() *time.Location {
	loc, err := time.LoadLocation(jstLocation)
	if err != nil {
		return fixedJST
	}
	return loc
}

// InJST renders t in Japan Standard Time.
func InJST(t time.Time) time.Time {
	return t.In(fixedJST)
}
