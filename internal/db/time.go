// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import "time"

// TimeFormat is the layout rows store timestamps in. RFC 3339 UTC
// strings compare correctly with plain string ordering, which the
// search layer relies on for date range conditions.
const TimeFormat = time.RFC3339

// Now returns the current UTC time rendered in TimeFormat.
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}

// ParseTime decodes a stored timestamp, returning the zero time for
// empty or malformed values.
func ParseTime(s string) time.Time {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
