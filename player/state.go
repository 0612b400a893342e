package player

import "math"

// Phase is the playback axis of a player's state. Buffering, fullscreen and
// picture-in-picture are independent flags on State.
type Phase int

const (
	Idle Phase = iota
	Playing
	Paused
	Ended
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	case Errored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// State is an observable snapshot of one player.
//
// Cross-flag rules: an errored player ignores transport commands until
// RetryAfterError; a paused, ended or errored player always shows its
// controls; Volume == 0 implies Muted after SetVolume, but Muted never
// zeroes Volume.
type State struct {
	Source string
	Phase  Phase

	CurrentTime float64
	// Duration is zero while unknown.
	Duration float64

	Volume float64
	Muted  bool
	Rate   float64

	Buffering        bool
	Fullscreen       bool
	PictureInPicture bool
	BufferedPercent  float64

	ControlsVisible bool
}

func defaultState(src string, volume float64) State {
	return State{
		Source:          src,
		Phase:           Idle,
		Volume:          volume,
		Rate:            1,
		ControlsVisible: true,
	}
}

// Playing reports whether the player is in the playing phase.
func (s State) Playing() bool {
	return s.Phase == Playing
}

// Errored reports whether a playback fault is pending retry.
func (s State) Errored() bool {
	return s.Phase == Errored
}

// DurationKnown reports whether the media has reported a usable duration.
func (s State) DurationKnown() bool {
	return knownDuration(s.Duration)
}

// ProgressPercent returns playback progress in 0..100, or 0 while the
// duration is unknown.
func (s State) ProgressPercent() float64 {
	if !s.DurationKnown() {
		return 0
	}
	return s.CurrentTime / s.Duration * 100
}

func knownDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0) && !math.IsNaN(d)
}

// clampTime bounds t to [0, duration] when the duration is known, and to
// [0, +inf) otherwise.
func clampTime(t, duration float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if knownDuration(duration) && t > duration {
		return duration
	}
	return t
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
