package domain

import "context"

// MediaEvents receives notifications raised by a MediaElement. Events carry
// the video id so a stale source cannot update a newer one.
type MediaEvents interface {
	MetadataLoaded(videoID string, duration float64)
	LoadFailed(videoID string, err error)
}

// MediaElement is the underlying player the playback state machine drives
type MediaElement interface {
	// Load starts loading src for video and reports metadata or failure
	// through events. It must not block; ctx is cancelled when the source
	// is replaced.
	Load(ctx context.Context, video Video, src string, events MediaEvents)

	// Play attempts to start playback of src
	Play(ctx context.Context, src string) error

	// Pause stops playback; it cannot fail
	Pause()
}
