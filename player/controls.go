package player

// PointerMove shows the controls and, while playing, schedules them to hide
// after the configured delay of pointer inactivity.
func (p *Player) PointerMove() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.state.ControlsVisible = true
	p.armHideLocked()
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)
}

// PointerLeave re-runs the hide check when the pointer leaves the player.
func (p *Player) PointerLeave() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.volumeHover = false
	p.armHideLocked()
	p.mu.Unlock()
}

// SetScrubbing marks a drag on the scrub bar. Controls never hide mid-drag.
func (p *Player) SetScrubbing(active bool) {
	p.setHold(&p.scrubbing, active)
}

// SetVolumeHover marks the pointer resting on the volume popout.
func (p *Player) SetVolumeHover(active bool) {
	p.setHold(&p.volumeHover, active)
}

func (p *Player) setHold(flag *bool, active bool) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	*flag = active
	if active {
		p.state.ControlsVisible = true
	}
	p.armHideLocked()
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)
}

// armHideLocked cancels any pending hide and, if the player is playing
// with nothing holding the controls open, schedules a new one.
func (p *Player) armHideLocked() {
	p.cancelHideLocked()

	if p.closed || p.state.Phase != Playing || p.scrubbing || p.volumeHover {
		return
	}

	seq := p.hideSeq
	p.hideTimer = p.clock.AfterFunc(p.hideDelay, func() {
		p.hideControls(seq)
	})
}

func (p *Player) cancelHideLocked() {
	p.hideSeq++
	if p.hideTimer != nil {
		p.hideTimer.Stop()
		p.hideTimer = nil
	}
}

func (p *Player) hideControls(seq uint64) {
	p.mu.Lock()
	if p.closed || seq != p.hideSeq || p.state.Phase != Playing || p.scrubbing || p.volumeHover {
		p.mu.Unlock()
		return
	}
	p.hideTimer = nil
	p.state.ControlsVisible = false
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)
}

// HidePending reports whether an auto-hide is scheduled.
func (p *Player) HidePending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hideTimer != nil
}
