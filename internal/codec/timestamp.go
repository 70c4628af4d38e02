package codec

import (
	"regexp"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

var timestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}$`)

// FormatTimestamp renders an instant as yyyy-MM-dd HH:mm:ss.SSS.
func FormatTimestamp(t time.Time) string {
	return domain.FormatInstant(t)
}

// ParseTimestamp parses a zero-padded yyyy-MM-dd HH:mm:ss.SSS timestamp.
func ParseTimestamp(text string) (time.Time, error) {
	if !timestampPattern.MatchString(text) {
		return time.Time{}, errors.NewInvalidInputError("timestamp", text, "expected yyyy-MM-dd HH:mm:ss.SSS")
	}
	t, err := time.Parse(domain.InstantLayout, text)
	if err != nil {
		return time.Time{}, errors.WrapError(err, errors.ErrorTypeInvalidInput, "invalid timestamp "+text)
	}
	return t, nil
}
