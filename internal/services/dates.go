package services

import "time"

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseBirthday parses YYYY-MM-DD with zero-padded month and day. Empty or
// invalid input yields nil.
func ParseBirthday(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}

// ParseBookmarkedAt tries YYYY-MM-DD HH:MM:SS, then YYYY-MM-DD.
func ParseBookmarkedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
