package utils

import (
	"time"

	"github.com/aquasecurity/advisory-scraper/pkg/log"
)

func MustTimeParse(value string) *time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		log.Error("Failed to parse time",
			log.String("value", value),
			log.Err(err))
		panic(err)
	}

	return &t
}

// Date truncates t to its calendar day in UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Date(a).Equal(Date(b))
}
