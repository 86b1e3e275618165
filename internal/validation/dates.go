package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches: "3d ago", "2w ago", "1mo ago"
var daysAgoRegex = regexp.MustCompile(`^(\d+)\s*(mo|w|d)\s*ago$`)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// parseRelativeDay understands "today", "yesterday", "3d ago" and weekday
// names. A weekday means its most recent occurrence, today included.
// Results are midnight in now's location.
func parseRelativeDay(input string, now time.Time) (time.Time, bool) {
	input = strings.Join(strings.Fields(strings.ToLower(input)), " ")
	today := startOfDay(now)

	switch input {
	case "today", "i dag", "idag":
		return today, true
	case "yesterday", "i går", "igår":
		return today.AddDate(0, 0, -1), true
	}

	if m := daysAgoRegex.FindStringSubmatch(input); len(m) == 3 {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		switch m[2] {
		case "mo":
			return today.AddDate(0, -n, 0), true
		case "w":
			return today.AddDate(0, 0, -7*n), true
		default:
			return today.AddDate(0, 0, -n), true
		}
	}

	last := false
	if rest, ok := strings.CutPrefix(input, "last "); ok {
		last, input = true, rest
	}
	weekday, ok := weekdays[input]
	if !ok {
		return time.Time{}, false
	}
	delta := (int(today.Weekday()) - int(weekday) + 7) % 7
	if last && delta == 0 {
		delta = 7
	}
	return today.AddDate(0, 0, -delta), true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
