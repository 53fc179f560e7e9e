package domain

import "slices"

// PlaybackPhase is the transport phase of the player.
type PlaybackPhase string

const (
	PhaseIdle            PlaybackPhase = "idle"
	PhaseMetadataPending PlaybackPhase = "metadata_pending"
	PhaseReady           PlaybackPhase = "ready"
	PhasePlaying         PlaybackPhase = "playing"
	PhasePaused          PlaybackPhase = "paused"
)

// PlaybackRates is the fixed set of supported playback rates.
var PlaybackRates = []float64{0.5, 1, 1.5, 2}

// ValidRate reports whether r is one of PlaybackRates.
func ValidRate(r float64) bool {
	return slices.Contains(PlaybackRates, r)
}

// PlaybackState is a snapshot of the transport for the selected video.
type PlaybackState struct {
	// VideoID is the loaded video, empty when idle
	VideoID string `json:"video_id,omitempty"`

	// Source is the media URL of the loaded video
	Source string `json:"source,omitempty"`

	Phase        PlaybackPhase `json:"phase"`
	IsPlaying    bool          `json:"is_playing"`
	CurrentTime  float64       `json:"current_time"`
	Duration     float64       `json:"duration"`
	Volume       float64       `json:"volume"`
	IsMuted      bool          `json:"is_muted"`
	PlaybackRate float64       `json:"playback_rate"`

	// Error is set while the player is in the errored state
	Error string `json:"error,omitempty"`
}

// Errored reports whether the orthogonal error state is active.
func (s PlaybackState) Errored() bool {
	return s.Error != ""
}
