// Package mediatest provides a scriptable in-memory media.Element for tests.
package mediatest

import (
	"context"
	"errors"
	"sync"

	"github.com/reelroom/reelroom/media"
)

var (
	// ErrReleased is returned by every command issued after Release.
	ErrReleased = errors.New("element released")

	// ErrNotStarted is returned by property commands of an Unstarted element.
	ErrNotStarted = errors.New("element not started")
)

// Element is an in-memory media.Element. Failure fields may be set by
// tests before the matching command is issued.
type Element struct {
	media.Emitter

	mu sync.Mutex

	PlayErr       error
	LoadErr       error
	FullscreenErr error
	PiPErr        error

	// Gate, when non-nil, makes Play block until a value is received.
	Gate chan struct{}

	// Unstarted elements behave like a backend whose process starts on the
	// first Load: property commands fail until then, and the load reports
	// the backend's own volume.
	Unstarted bool
	started   bool

	src        string
	paused     bool
	current    float64
	volume     float64
	muted      bool
	rate       float64
	loop       bool
	fullscreen bool
	pip        bool
	released   bool

	loads  []string
	plays  int
	pauses int
}

// New creates a paused element with default transport values.
func New() *Element {
	return &Element{paused: true, volume: 1, rate: 1}
}

func (e *Element) Load(_ context.Context, src string) error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return ErrReleased
	}
	e.loads = append(e.loads, src)
	if e.LoadErr != nil {
		err := e.LoadErr
		e.mu.Unlock()
		return err
	}
	e.src = src
	e.paused = true
	e.current = 0
	announce := e.Unstarted && !e.started
	e.started = true
	volume, muted := e.volume, e.muted
	e.mu.Unlock()

	if announce {
		e.Emit(media.Event{Kind: media.VolumeChange, Volume: volume, Muted: muted})
	}
	return nil
}

func (e *Element) Play(ctx context.Context) error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return ErrReleased
	}
	e.plays++
	gate := e.Gate
	e.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	e.mu.Lock()
	if err := e.PlayErr; err != nil {
		e.mu.Unlock()
		return err
	}
	e.paused = false
	e.mu.Unlock()

	e.Emit(media.Event{Kind: media.Playing})
	return nil
}

func (e *Element) Pause() error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return ErrReleased
	}
	e.pauses++
	wasPaused := e.paused
	e.paused = true
	e.mu.Unlock()

	if !wasPaused {
		e.Emit(media.Event{Kind: media.Paused})
	}
	return nil
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *Element) SetCurrentTime(seconds float64) error {
	e.mu.Lock()
	if e.released {
		e.mu.Unlock()
		return ErrReleased
	}
	e.current = seconds
	e.mu.Unlock()
	return nil
}

func (e *Element) SetVolume(volume float64) error {
	e.mu.Lock()
	if e.Unstarted && !e.started {
		e.mu.Unlock()
		return ErrNotStarted
	}
	e.volume = volume
	muted := e.muted
	e.mu.Unlock()

	e.Emit(media.Event{Kind: media.VolumeChange, Volume: volume, Muted: muted})
	return nil
}

func (e *Element) SetMuted(muted bool) error {
	e.mu.Lock()
	if e.Unstarted && !e.started {
		e.mu.Unlock()
		return ErrNotStarted
	}
	e.muted = muted
	volume := e.volume
	e.mu.Unlock()

	e.Emit(media.Event{Kind: media.VolumeChange, Volume: volume, Muted: muted})
	return nil
}

func (e *Element) SetPlaybackRate(rate float64) error {
	e.mu.Lock()
	if e.Unstarted && !e.started {
		e.mu.Unlock()
		return ErrNotStarted
	}
	e.rate = rate
	e.mu.Unlock()

	e.Emit(media.Event{Kind: media.RateChange, Rate: rate})
	return nil
}

func (e *Element) SetLoop(loop bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = loop
	return nil
}

func (e *Element) RequestFullscreen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FullscreenErr != nil {
		return e.FullscreenErr
	}
	e.fullscreen = true
	return nil
}

func (e *Element) ExitFullscreen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fullscreen = false
	return nil
}

func (e *Element) RequestPictureInPicture() error {
	e.mu.Lock()
	if e.PiPErr != nil {
		err := e.PiPErr
		e.mu.Unlock()
		return err
	}
	e.pip = true
	e.mu.Unlock()

	e.Emit(media.Event{Kind: media.EnterPictureInPicture})
	return nil
}

func (e *Element) ExitPictureInPicture() error {
	e.mu.Lock()
	e.pip = false
	e.mu.Unlock()

	e.Emit(media.Event{Kind: media.LeavePictureInPicture})
	return nil
}

func (e *Element) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = true
	e.paused = true
	return nil
}

// Scripted platform events.

// Tick reports a new playback position.
func (e *Element) Tick(seconds float64) {
	e.mu.Lock()
	e.current = seconds
	e.mu.Unlock()
	e.Emit(media.Event{Kind: media.TimeUpdate, Seconds: seconds})
}

// Duration reports the media duration.
func (e *Element) Duration(seconds float64) {
	e.Emit(media.Event{Kind: media.DurationChange, Seconds: seconds})
}

// Stall reports that playback is waiting for data.
func (e *Element) Stall() {
	e.Emit(media.Event{Kind: media.Waiting})
}

// Ready reports that enough data is buffered to play.
func (e *Element) Ready() {
	e.Emit(media.Event{Kind: media.CanPlay})
}

// Buffered reports buffering progress.
func (e *Element) Buffered(percent float64) {
	e.Emit(media.Event{Kind: media.Progress, BufferedPercent: percent})
}

// Finish reports the end of the media.
func (e *Element) Finish() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
	e.Emit(media.Event{Kind: media.Ended})
}

// Fail reports a playback fault.
func (e *Element) Fail(err error) {
	e.Emit(media.Event{Kind: media.Error, Err: err})
}

// Inspection helpers.

func (e *Element) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.src
}

func (e *Element) Loads() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.loads...)
}

func (e *Element) Plays() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plays
}

func (e *Element) Pauses() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauses
}

func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Element) Volume() (float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume, e.muted
}

func (e *Element) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

func (e *Element) Looping() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loop
}

func (e *Element) Fullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

func (e *Element) PictureInPicture() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pip
}

func (e *Element) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}
