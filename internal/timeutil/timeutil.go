// Package timeutil holds the date/time helpers the dashboard derives its
// temporal logic from: today's date key, the flexible reservation time
// parser, the late-after deadline builder, and display formatters.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	re24h      = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	re12h      = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([ap])\.?m?\.?$`)
	reDateYMD  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reTime24OK = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
)

// Today returns the local calendar date as "YYYY-MM-DD".
func Today(clock Clock) string {
	return clock.Now().Format(DateLayout)
}

// ParseTimeTo24h normalizes a free-form time string to zero-padded 24-hour
// "HH:mm". It accepts 24-hour "H:mm" and 12-hour "h[:mm] am|pm" forms
// (case-insensitive, optional spaces and periods). Hours and minutes are
// clamped into range rather than rejected. Unrecognized input returns
// ok=false; malformed times are an expected, recoverable condition.
func ParseTimeTo24h(s string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return "", false
	}

	if m := re24h.FindStringSubmatch(t); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		h = clamp(h, 0, 23)
		min = clamp(min, 0, 59)
		return fmt.Sprintf("%02d:%02d", h, min), true
	}

	if m := re12h.FindStringSubmatch(t); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		h = clamp(h, 1, 12)
		min = clamp(min, 0, 59)
		if m[3] == "p" && h != 12 {
			h += 12
		}
		if m[3] == "a" && h == 12 {
			h = 0
		}
		return fmt.Sprintf("%02d:%02d", h, min), true
	}

	return "", false
}

// ToAbsoluteTime combines a "YYYY-MM-DD" date with a flexible time string
// into an absolute instant in loc. A missing or unparseable time defaults
// to 23:59 (end of day); a missing or invalid date yields nil.
func ToAbsoluteTime(dateStr, timeStr string, loc *time.Location) *time.Time {
	if dateStr == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	hhmm, ok := ParseTimeTo24h(timeStr)
	if !ok {
		hhmm = "23:59"
	}
	ts, err := time.ParseInLocation(DateLayout+" 15:04", dateStr+" "+hhmm, loc)
	if err != nil {
		return nil
	}
	return &ts
}

// FormatTime12h renders a 24-hour "HH:mm" string as "h:mm AM/PM". Input
// that is not a valid 24-hour time passes through unchanged.
func FormatTime12h(s string) string {
	m := reTime24OK.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	h, _ := strconv.Atoi(m[1])
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	h = h % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%s %s", h, m[2], ampm)
}

// FormatDateMDY renders "YYYY-MM-DD" as "MM/DD/YYYY", passing through
// anything else unchanged.
func FormatDateMDY(s string) string {
	m := reDateYMD.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return fmt.Sprintf("%s/%s/%s", m[2], m[3], m[1])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
