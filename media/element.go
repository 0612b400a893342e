// Package media defines the platform boundary for controllable media elements.
//
// An Element is the playable surface a player drives: it accepts transport
// commands and reports what actually happened through events.
package media

import "context"

// Element is a controllable media element.
type Element interface {
	// Load points the element at a new source and resets its transport.
	Load(ctx context.Context, src string) error

	// Play requests playback. It returns once the platform has accepted or
	// rejected the request.
	Play(ctx context.Context) error
	Pause() error
	Paused() bool

	SetCurrentTime(seconds float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetPlaybackRate(rate float64) error
	SetLoop(loop bool) error

	RequestFullscreen() error
	ExitFullscreen() error
	RequestPictureInPicture() error
	ExitPictureInPicture() error

	// Subscribe attaches fn to one event kind. The returned function
	// detaches it and is safe to call more than once.
	Subscribe(kind EventKind, fn func(Event)) (unsubscribe func())

	// Release frees the underlying platform resource.
	Release() error
}
