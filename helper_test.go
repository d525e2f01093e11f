package nexotax

import "time"

// ts parses an export timestamp for tests. It panics on malformed input
// because a bad literal is a bug in the test itself.
func ts(s string) time.Time {
	t, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}
