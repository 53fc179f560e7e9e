package usecase

import (
	"sync"

	"tinyflix/internal/domain"
	"tinyflix/internal/logger"
)

// PreferenceService holds the session preferences.
type PreferenceService struct {
	mu     sync.Locker
	prefs  domain.Preferences
	notify func()
}

// NewPreferenceService starts from initial. A nil locker gives the service
// its own mutex.
func NewPreferenceService(initial domain.Preferences, mu sync.Locker) *PreferenceService {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &PreferenceService{mu: mu, prefs: initial, notify: func() {}}
}

// Get returns the current preferences.
func (s *PreferenceService) Get() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

func (s *PreferenceService) getLocked() domain.Preferences {
	return s.prefs
}

// Set validates and stores a single preference.
func (s *PreferenceService) Set(key string, value any) (domain.Preferences, error) {
	s.mu.Lock()
	next, err := s.prefs.Set(key, value)
	if err != nil {
		s.mu.Unlock()
		return s.Get(), err
	}
	s.prefs = next
	s.mu.Unlock()

	logger.Info().Str("key", key).Interface("value", value).Msg("preference updated")
	s.notify()
	return next, nil
}
