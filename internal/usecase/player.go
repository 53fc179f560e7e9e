package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"tinyflix/internal/domain"
	"tinyflix/internal/logger"
)

// Player is the playback state machine for the selected video:
//
//	Idle -> MetadataPending -> Ready <-> Playing <-> Paused
//
// with an orthogonal error message that any load or play failure sets.
// All media events are ignored unless they refer to the loaded video.
type Player struct {
	media      domain.MediaElement
	sourceFor  func(videoID string) string
	autoplay   func() bool
	mu         sync.Locker
	state      domain.PlaybackState
	video      *domain.Video
	generation uint64
	cancelLoad context.CancelFunc
	notify     func()
}

// NewPlayer creates an idle player. sourceFor maps a video id to its media
// URL. A nil locker gives the player its own mutex.
func NewPlayer(media domain.MediaElement, sourceFor func(videoID string) string, mu sync.Locker) *Player {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Player{
		media:     media,
		sourceFor: sourceFor,
		autoplay:  func() bool { return false },
		mu:        mu,
		state: domain.PlaybackState{
			Phase:        domain.PhaseIdle,
			Volume:       1,
			PlaybackRate: 1,
		},
		notify: func() {},
	}
}

// State returns a snapshot of the transport.
func (p *Player) State() domain.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Video returns the loaded video, or nil when idle.
func (p *Player) Video() *domain.Video {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.video == nil {
		return nil
	}
	v := p.video.Clone()
	return &v
}

// Load assigns a new media source and resets the transport.
func (p *Player) Load(video domain.Video) {
	p.mu.Lock()
	p.loadLocked(video)
	p.mu.Unlock()
	p.notify()
}

// loadLocked resets to MetadataPending. Volume, mute and rate carry over.
func (p *Player) loadLocked(video domain.Video) {
	if p.cancelLoad != nil {
		p.cancelLoad()
	}
	if p.state.IsPlaying {
		p.media.Pause()
	}
	p.generation++
	p.video = &video
	p.state.VideoID = video.ID
	p.state.Source = p.sourceFor(video.ID)
	p.state.Phase = domain.PhaseMetadataPending
	p.state.IsPlaying = false
	p.state.CurrentTime = 0
	p.state.Duration = 0
	p.state.Error = ""

	ctx, cancel := context.WithCancel(context.Background())
	p.cancelLoad = cancel
	p.media.Load(ctx, video, p.state.Source, p)
}

// MetadataLoaded implements domain.MediaEvents.
func (p *Player) MetadataLoaded(videoID string, duration float64) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		p.LoadFailed(videoID, domain.ErrPlaybackLoad)
		return
	}

	p.mu.Lock()
	if videoID != p.state.VideoID || p.state.Phase != domain.PhaseMetadataPending {
		p.mu.Unlock()
		return
	}
	p.state.Phase = domain.PhaseReady
	p.state.Duration = duration
	p.state.CurrentTime = clamp(p.state.CurrentTime, 0, duration)
	autoplay := p.autoplay()
	p.mu.Unlock()
	p.notify()

	if autoplay {
		if err := p.Play(context.Background()); err != nil {
			logger.Debug().Err(err).Str("video_id", videoID).Msg("autoplay did not start")
		}
	}
}

// LoadFailed implements domain.MediaEvents.
func (p *Player) LoadFailed(videoID string, err error) {
	p.mu.Lock()
	if videoID != p.state.VideoID {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	p.state.Error = domain.ErrPlaybackLoad.Error()
	p.mu.Unlock()

	logger.Error().Err(err).Str("video_id", videoID).Msg("media failed to load")
	p.notify()
}

// Play starts playback from Ready or Paused. A rejected attempt leaves the
// player stopped with the play-failure message.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	switch {
	case p.video == nil:
		p.mu.Unlock()
		return domain.ErrNoMedia
	case p.state.Phase == domain.PhasePlaying:
		p.mu.Unlock()
		return nil
	case p.state.Phase != domain.PhaseReady && p.state.Phase != domain.PhasePaused:
		p.mu.Unlock()
		return domain.ErrNotReady
	}
	gen, src := p.generation, p.state.Source
	p.mu.Unlock()

	err := p.media.Play(ctx, src)

	p.mu.Lock()
	if gen != p.generation {
		// The source changed while the play attempt was in flight.
		p.mu.Unlock()
		return domain.ErrNotReady
	}
	if err != nil {
		p.stopLocked()
		p.state.Error = domain.ErrPlaybackStart.Error()
		videoID := p.state.VideoID
		p.mu.Unlock()
		logger.Error().Err(err).Str("video_id", videoID).Msg("playback start rejected")
		p.notify()
		return domain.ErrPlaybackStart
	}
	if p.state.Phase == domain.PhaseReady || p.state.Phase == domain.PhasePaused {
		p.state.Phase = domain.PhasePlaying
		p.state.IsPlaying = true
		p.state.Error = ""
	}
	p.mu.Unlock()
	p.notify()
	return nil
}

// Pause stops playback. Pausing anything but a playing player is a no-op.
func (p *Player) Pause() {
	p.mu.Lock()
	changed := p.state.Phase == domain.PhasePlaying
	if changed {
		p.media.Pause()
		p.stopLocked()
	}
	p.mu.Unlock()
	if changed {
		p.notify()
	}
}

// TimeUpdate records the media position while playing. Positions never move
// backwards and are clamped to the duration; reaching the end pauses.
func (p *Player) TimeUpdate(videoID string, t float64) {
	p.mu.Lock()
	if videoID != p.state.VideoID || p.state.Phase != domain.PhasePlaying || math.IsNaN(t) {
		p.mu.Unlock()
		return
	}
	p.advanceToLocked(t)
	p.mu.Unlock()
	p.notify()
}

// Advance moves a playing player forward by elapsed wall time scaled by the
// playback rate. It drives the simulated media clock.
func (p *Player) Advance(elapsed time.Duration) {
	p.mu.Lock()
	if p.state.Phase != domain.PhasePlaying {
		p.mu.Unlock()
		return
	}
	p.advanceToLocked(p.state.CurrentTime + elapsed.Seconds()*p.state.PlaybackRate)
	p.mu.Unlock()
	p.notify()
}

func (p *Player) advanceToLocked(t float64) {
	t = clamp(t, 0, p.state.Duration)
	if t > p.state.CurrentTime {
		p.state.CurrentTime = t
	}
	if p.state.Duration > 0 && p.state.CurrentTime >= p.state.Duration {
		p.media.Pause()
		p.stopLocked()
	}
}

// Seek moves the position, clamped to [0, duration]. Play state is unchanged.
func (p *Player) Seek(t float64) error {
	p.mu.Lock()
	if p.video == nil {
		p.mu.Unlock()
		return domain.ErrNoMedia
	}
	if math.IsNaN(t) {
		t = 0
	}
	p.state.CurrentTime = clamp(t, 0, p.state.Duration)
	p.mu.Unlock()
	p.notify()
	return nil
}

// SetVolume sets the volume, clamped to [0, 1]. A request of exactly zero
// also mutes; raising the volume later does not unmute.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	if math.IsNaN(v) {
		v = p.state.Volume
	}
	p.state.Volume = clamp(v, 0, 1)
	if v == 0 {
		p.state.IsMuted = true
	}
	p.mu.Unlock()
	p.notify()
}

// ToggleMute flips the mute flag independently of the volume.
func (p *Player) ToggleMute() {
	p.mu.Lock()
	p.state.IsMuted = !p.state.IsMuted
	p.mu.Unlock()
	p.notify()
}

// SetRate sets the playback rate to one of domain.PlaybackRates.
func (p *Player) SetRate(rate float64) error {
	if !domain.ValidRate(rate) {
		return domain.ErrInvalidRate
	}
	p.mu.Lock()
	p.state.PlaybackRate = rate
	p.mu.Unlock()
	p.notify()
	return nil
}

// bookmarkLocked captures the loaded video and position for a bookmark.
func (p *Player) bookmarkLocked() (domain.Bookmark, error) {
	if p.video == nil {
		return domain.Bookmark{}, domain.ErrNoMedia
	}
	t := p.state.CurrentTime
	return domain.Bookmark{
		VideoID:   p.video.ID,
		Timestamp: t,
		Title:     p.video.Title + " at " + domain.FormatTimestamp(t),
	}, nil
}

// stopLocked leaves Playing for Paused and clears the playing flag.
func (p *Player) stopLocked() {
	if p.state.Phase == domain.PhasePlaying {
		p.state.Phase = domain.PhasePaused
	}
	p.state.IsPlaying = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
