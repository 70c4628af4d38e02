package codec

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"task-manager/internal/errors"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

var intervalPartPattern = regexp.MustCompile(`(\d+)\s([a-z])`)

// FormatInterval renders seconds as days, hours, minutes and seconds,
// omitting zero parts: 93784 becomes "1 day 2 hours 3 minutes 4 seconds".
func FormatInterval(seconds uint32) string {
	parts := []struct {
		n    uint32
		unit string
	}{
		{seconds / secondsPerDay, "day"},
		{seconds / secondsPerHour % 24, "hour"},
		{seconds / secondsPerMinute % 60, "minute"},
		{seconds % 60, "second"},
	}

	words := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p.n {
		case 0:
		case 1:
			words = append(words, "1 "+p.unit)
		default:
			words = append(words, fmt.Sprintf("%d %ss", p.n, p.unit))
		}
	}
	return strings.Join(words, " ")
}

// ParseInterval reads a humanized interval. Every "<number> <unit>" pair is
// picked up wherever it appears; the unit is recognized by its first letter
// (d, h, m, s) and other letters are ignored. A later pair for the same unit
// overrides an earlier one.
func ParseInterval(text string) (uint32, error) {
	var days, hours, minutes, seconds uint64
	for _, m := range intervalPartPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return 0, errors.NewInvalidInputError("interval", text, fmt.Sprintf("number %s is too large", m[1]))
		}
		switch m[2] {
		case "d":
			days = n
		case "h":
			hours = n
		case "m":
			minutes = n
		case "s":
			seconds = n
		}
	}

	total := days*secondsPerDay + hours*secondsPerHour + minutes*secondsPerMinute + seconds
	if total > math.MaxUint32 {
		return 0, errors.NewInvalidInputError("interval", text, "interval is too long")
	}
	if total == 0 {
		return 0, errors.NewInvalidInputError("interval", text, "interval must be at least one second")
	}
	return uint32(total), nil
}
