package utils

import "time"

// UTCDate converts t to UTC and truncates it to midnight of that calendar day.
func UTCDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PrettyDate formats t for human readers, e.g. "Mon, 02 Jan 2006 15:04 UTC".
func PrettyDate(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04 MST")
}
