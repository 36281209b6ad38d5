package util

import (
	"strings"

	"github.com/pkg/errors"
)

const shortTimeLength = len("15:04:05")

// ShortTimestamp reduces a 'T'-separated ISO-8601 timestamp to its date
// and the first eight characters of its time of day, e.g.
// "2024-01-01T10:00:00.123Z" becomes "2024-01-01 10:00:00". The value is
// not otherwise parsed or validated.
func ShortTimestamp(ts string) (string, error) {
	parts := strings.Split(ts, "T")
	if len(parts) < 2 {
		return "", errors.Errorf("timestamp '%s' has no 'T' separator", ts)
	}

	timeOfDay := []rune(parts[1])
	if len(timeOfDay) > shortTimeLength {
		timeOfDay = timeOfDay[:shortTimeLength]
	}

	return parts[0] + " " + string(timeOfDay), nil
}
