package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is the preferred stream quality.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Preference keys accepted by Preferences.Set.
const (
	PreferenceAutoplay  = "autoplay"
	PreferenceQuality   = "quality"
	PreferenceSubtitles = "subtitles"
)

// Preferences are process-wide user settings for the session.
type Preferences struct {
	Autoplay  bool    `json:"autoplay" yaml:"autoplay"`
	Quality   Quality `json:"quality" yaml:"quality"`
	Subtitles bool    `json:"subtitles" yaml:"subtitles"`
}

// DefaultPreferences returns the initial session preferences.
func DefaultPreferences() Preferences {
	return Preferences{Autoplay: false, Quality: QualityHigh, Subtitles: true}
}

// ParseQuality validates a quality value.
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case QualityLow, QualityMedium, QualityHigh:
		return q, nil
	}
	return "", fmt.Errorf("%w: quality %q", ErrInvalidPreference, s)
}

// Set returns a copy of p with key set to value. Boolean keys accept bool
// or a string strconv.ParseBool understands.
func (p Preferences) Set(key string, value any) (Preferences, error) {
	switch key {
	case PreferenceAutoplay:
		b, err := toBool(key, value)
		if err != nil {
			return p, err
		}
		p.Autoplay = b
	case PreferenceSubtitles:
		b, err := toBool(key, value)
		if err != nil {
			return p, err
		}
		p.Subtitles = b
	case PreferenceQuality:
		var raw string
		switch v := value.(type) {
		case string:
			raw = v
		case Quality:
			raw = string(v)
		default:
			return p, fmt.Errorf("%w: quality must be a string", ErrInvalidPreference)
		}
		q, err := ParseQuality(raw)
		if err != nil {
			return p, err
		}
		p.Quality = q
	default:
		return p, fmt.Errorf("%w: unknown key %q", ErrInvalidPreference, key)
	}
	return p, nil
}

func toBool(key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidPreference, key)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: %s must be a boolean", ErrInvalidPreference, key)
}
