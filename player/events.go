package player

import (
	"errors"

	"github.com/reelroom/reelroom/media"
)

var errElementFault = errors.New("media element reported an error")

// handleEvent folds one element event into the state. Events arriving
// after Close are dropped.
func (p *Player) handleEvent(ev media.Event) {
	switch ev.Kind {
	case media.Error:
		err := ev.Err
		if err == nil {
			err = errElementFault
		}
		_ = p.fault(err)
		return
	case media.Playing:
		p.onPlaying()
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}

	s := &p.state
	switch ev.Kind {
	case media.TimeUpdate:
		s.CurrentTime = clampTime(ev.Seconds, s.Duration)
	case media.DurationChange:
		s.Duration = ev.Seconds
		if !knownDuration(s.Duration) {
			s.Duration = 0
		}
		s.CurrentTime = clampTime(s.CurrentTime, s.Duration)
	case media.Paused:
		if s.Phase == Playing && !p.pending {
			s.Phase = Paused
			s.Buffering = false
			p.cancelHideLocked()
			s.ControlsVisible = true
		}
	case media.Ended:
		if s.Phase != Errored {
			s.Phase = Ended
			s.Buffering = false
			if s.DurationKnown() {
				s.CurrentTime = s.Duration
			}
			p.cancelHideLocked()
			s.ControlsVisible = true
		}
	case media.Waiting:
		if s.Phase == Playing || p.pending {
			s.Buffering = true
		}
	case media.CanPlay:
		s.Buffering = false
	case media.VolumeChange:
		s.Volume = clampUnit(ev.Volume)
		s.Muted = ev.Muted || s.Volume == 0
		if s.Volume > 0 {
			p.lastAudible = s.Volume
		}
	case media.RateChange:
		if ev.Rate > 0 {
			s.Rate = ev.Rate
		}
	case media.Progress:
		s.BufferedPercent = clampPercent(ev.BufferedPercent)
	case media.EnterPictureInPicture:
		s.PictureInPicture = true
	case media.LeavePictureInPicture:
		s.PictureInPicture = false
	default:
		p.mu.Unlock()
		return
	}

	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)
}

// onPlaying handles playback the element started on its own, such as a
// resume from the platform's own controls. Playback started through Play is
// settled by resolvePlay instead.
func (p *Player) onPlaying() {
	p.mu.Lock()
	if p.closed || p.pending || p.state.Phase == Playing || p.state.Phase == Errored {
		p.mu.Unlock()
		return
	}
	p.state.Phase = Playing
	p.state.Buffering = false
	p.armHideLocked()
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	p.claimExclusive()
}

func clampPercent(v float64) float64 {
	return clampUnit(v/100) * 100
}
