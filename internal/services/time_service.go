package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"task-manager/internal/codec"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// Shorthand layouts accepted besides the full codec timestamp.
const (
	minuteLayout = "2006-01-02 15:04"
	dateLayout   = "2006-01-02"
)

var spanPattern = regexp.MustCompile(`^(\d+)(s|m|h|d|w|mo|y)$`)

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	now     func() time.Time
	display string
}

// NewTimeService creates a new TimeService instance. display is the layout
// used by FormatInstant; an empty layout means the codec timestamp format.
func NewTimeService(now func() time.Time, display string) TimeService {
	if now == nil {
		now = time.Now
	}
	if display == "" {
		display = domain.InstantLayout
	}
	return &timeServiceImpl{now: now, display: display}
}

// Now returns the current instant, normalized like every task instant
func (t *timeServiceImpl) Now() time.Time {
	return domain.NormalizeInstant(t.now())
}

// ParseInstant accepts "yyyy-MM-dd HH:mm:ss.SSS", "yyyy-MM-dd HH:mm" or "yyyy-MM-dd"
func (t *timeServiceImpl) ParseInstant(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, errors.NewInvalidInputError("time", text, "time cannot be empty")
	}
	if ts, err := codec.ParseTimestamp(text); err == nil {
		return ts, nil
	}
	for _, layout := range []string{minuteLayout, dateLayout} {
		if ts, err := time.Parse(layout, text); err == nil {
			return domain.NormalizeInstant(ts), nil
		}
	}
	return time.Time{}, errors.NewInvalidInputError("time", text,
		"expected yyyy-MM-dd HH:mm:ss.SSS, yyyy-MM-dd HH:mm or yyyy-MM-dd")
}

// FormatInstant renders an instant with the display layout
func (t *timeServiceImpl) FormatInstant(ts time.Time) string {
	return ts.Format(t.display)
}

// ParseInterval accepts a Go duration ("90m", "1h30m") or the humanized
// form used in task files ("1 day 2 hours")
func (t *timeServiceImpl) ParseInterval(text string) (uint32, error) {
	text = strings.TrimSpace(text)
	if d, err := time.ParseDuration(text); err == nil {
		if d < time.Second || d%time.Second != 0 {
			return 0, errors.NewInvalidInputError("interval", text, "interval must be a whole number of seconds")
		}
		secs := int64(d / time.Second)
		if secs > math.MaxUint32 {
			return 0, errors.NewInvalidInputError("interval", text, "interval is too long")
		}
		return uint32(secs), nil
	}
	return codec.ParseInterval(text)
}

// ParseSpan converts shorthand like "30m", "2h", "7d", "1w", "1mo" or "1y" to a duration
func (t *timeServiceImpl) ParseSpan(text string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	matches := spanPattern.FindStringSubmatch(text)
	if matches == nil {
		if d, err := time.ParseDuration(text); err == nil && d > 0 {
			return d, nil
		}
		return 0, errors.NewInvalidInputError("span", text, "expected a number followed by s, m, h, d, w, mo or y")
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil || value == 0 {
		return 0, errors.NewInvalidInputError("span", text, "span must be positive")
	}

	var unit time.Duration
	switch matches[2] {
	case "s":
		unit = time.Second
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	case "mo":
		unit = 30 * 24 * time.Hour
	case "y":
		unit = 365 * 24 * time.Hour
	}
	return time.Duration(value) * unit, nil
}

// ParseWindow resolves the from/to/span arguments of calendar style commands
func (t *timeServiceImpl) ParseWindow(from, to, span string, defaultSpan time.Duration) (*TimeRange, error) {
	start := t.Now()
	if from != "" {
		parsed, err := t.ParseInstant(from)
		if err != nil {
			return nil, err
		}
		start = parsed
	}

	var end time.Time
	switch {
	case to != "" && span != "":
		return nil, errors.NewInvalidInputError("window", span, "give either an end time or a span, not both")
	case to != "":
		parsed, err := t.ParseInstant(to)
		if err != nil {
			return nil, err
		}
		end = parsed
	case span != "":
		d, err := t.ParseSpan(span)
		if err != nil {
			return nil, err
		}
		end = start.Add(d)
	default:
		end = start.Add(defaultSpan)
	}

	if end.Before(start) {
		return nil, errors.NewRangeError(codec.FormatTimestamp(start), codec.FormatTimestamp(end))
	}
	return &TimeRange{Start: start, End: end}, nil
}
