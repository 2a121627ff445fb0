package schedule

import (
	"strings"
	"time"

	"github.com/marcus/zooshift/internal/tasks"
	"github.com/marcus/zooshift/internal/zooerr"
)

// DateLayout is the canonical date key format (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// parseLayout accepts one- or two-digit day and month.
const parseLayout = "2/1/2006"

// ResolveDate turns user input into a date key. An empty string maps to
// Unscheduled, "today" and "now" (any case, trimmed) map to now's date, and
// everything else must parse as DD/MM/YYYY.
func ResolveDate(input string, now time.Time) (string, error) {
	if input == "" || input == Unscheduled {
		return Unscheduled, nil
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "today", "now":
		return now.Format(DateLayout), nil
	}

	parsed, err := time.Parse(parseLayout, strings.TrimSpace(input))
	if err != nil {
		return "", zooerr.Wrap(zooerr.InvalidDate,
			"invalid date '"+input+"', use DD/MM/YYYY e.g. 05/12/2025", err)
	}
	return parsed.Format(DateLayout), nil
}

// ParseKey converts a dated key back to a time. It fails for Unscheduled.
func ParseKey(key string) (time.Time, error) {
	if key == tasks.Unscheduled {
		return time.Time{}, zooerr.New(zooerr.InvalidDate, "%s has no calendar date", key)
	}
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, zooerr.Wrap(zooerr.InvalidDate, "invalid date key '"+key+"'", err)
	}
	return t, nil
}
