package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTimestamp renders seconds as minutes:seconds, with seconds padded
// to two digits. Minutes are not wrapped into hours.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// ParseDuration converts a display duration ("m:ss" or "h:mm:ss") into seconds.
func ParseDuration(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("parse duration %q: expected m:ss or h:mm:ss", s)
	}
	total := 0
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("parse duration %q: invalid field %q", s, part)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("parse duration %q: field %q out of range", s, part)
		}
		total = total*60 + n
	}
	return float64(total), nil
}

// FormatViewCount renders a view count the way catalog cards show it.
func FormatViewCount(count int) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(count)/1_000)
	}
	return fmt.Sprintf("%d views", count)
}
