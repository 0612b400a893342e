// Package player implements the transport state machine for one playable media source.
//
// A Player drives a media.Element, keeps an observable State in sync with
// the element's events, and takes part in the exclusive-playback protocol of
// the registry found in its construction context.
package player

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/media"
	"github.com/reelroom/reelroom/registry"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	// DefaultHideDelay is how long controls stay visible after the last activity while playing.
	DefaultHideDelay = 3 * time.Second

	// DefaultSeekStep is the seek distance in seconds of the arrow keys.
	DefaultSeekStep = 5.0

	// DefaultVolumeStep is the volume change of one up or down key press.
	DefaultVolumeStep = 0.05
)

// AllowedRates are the playback rates offered by the speed menu.
var AllowedRates = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

// Options configures a Player.
type Options struct {
	ID        string
	SourceURL string
	PosterURL string

	// OnError receives every playback fault. It is the only channel through
	// which a player reports failures to its host.
	OnError func(error)

	Volume     mo.Option[float64]
	HideDelay  time.Duration
	SeekStep   float64
	VolumeStep float64

	// Clock drives the controls auto-hide timer. Defaults to the real clock.
	Clock clockwork.Clock

	// Document, when set, delivers keyboard shortcuts while the player lives.
	Document Document
}

// Player is the state machine for one media element.
type Player struct {
	id     string
	poster string
	el     media.Element
	reg    *registry.Registry
	clock  clockwork.Clock

	hideDelay   time.Duration
	seekStep    float64
	volumeStep  float64
	volume      float64
	applyVolume bool
	onError     func(error)

	ctx    context.Context
	cancel context.CancelFunc
	log    *log.Entry

	mu     sync.Mutex
	state  State
	closed bool

	// pending is set while a play request is in flight; playSeq identifies
	// the newest request so stale resolutions can be discarded.
	pending bool
	playSeq uint64

	lastAudible float64

	scrubbing   bool
	volumeHover bool
	hideTimer   clockwork.Timer
	hideSeq     uint64

	observers  map[int]func(State)
	nextObs    int
	unsubs     []func()
	removeKeys func()
}

// New mounts a player for el in the registry scope carried by ctx.
// It fails with registry.ErrNoRegistry when ctx carries no registry.
func New(ctx context.Context, el media.Element, opts Options) (*Player, error) {
	reg, err := registry.From(ctx)
	if err != nil {
		return nil, fmt.Errorf("mount player %q: %w", opts.ID, err)
	}
	if opts.ID == "" {
		return nil, ErrEmptyID
	}
	if el == nil {
		return nil, ErrNoElement
	}

	volume := clampUnit(opts.Volume.OrElse(1))

	p := &Player{
		id:          opts.ID,
		poster:      opts.PosterURL,
		el:          el,
		reg:         reg,
		clock:       opts.Clock,
		hideDelay:   lo.Ternary(opts.HideDelay > 0, opts.HideDelay, DefaultHideDelay),
		seekStep:    lo.Ternary(opts.SeekStep > 0, opts.SeekStep, DefaultSeekStep),
		volumeStep:  lo.Ternary(opts.VolumeStep > 0, opts.VolumeStep, DefaultVolumeStep),
		volume:      volume,
		applyVolume: opts.Volume.IsPresent(),
		onError:     opts.OnError,
		state:       defaultState(opts.SourceURL, volume),
		lastAudible: lo.Ternary(volume > 0, volume, 1),
		observers:   make(map[int]func(State)),
		log:         log.With(log.Fields{"player": opts.ID}),
	}
	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	for _, kind := range media.AllEventKinds {
		p.unsubs = append(p.unsubs, el.Subscribe(kind, p.handleEvent))
	}

	reg.Register(p.id, p)

	if opts.Document != nil {
		p.removeKeys = opts.Document.AddKeyListener(p.HandleKey)
	}

	if opts.SourceURL != "" {
		_ = p.load()
	}

	return p, nil
}

// ID returns the identifier the player is registered under.
func (p *Player) ID() string {
	return p.id
}

// Poster returns the poster image shown before playback starts.
func (p *Player) Poster() string {
	return p.poster
}

// State returns a snapshot of the current state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Subscribe registers fn to receive a snapshot after every state change.
func (p *Player) Subscribe(fn func(State)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextObs
	p.nextObs++
	p.observers[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.observers, id)
	}
}

// IsPaused reports whether the player is neither playing nor about to play.
// It makes Player a registry.Handle.
func (p *Player) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Phase != Playing && !p.pending
}

// Play starts playback after every other player in the registry has been
// paused. A rejected request moves the player to Errored.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.state.Phase == Errored || p.state.Phase == Playing || p.pending {
		p.mu.Unlock()
		return nil
	}

	restart := p.state.Phase == Ended
	if restart {
		p.state.CurrentTime = 0
	}
	p.playSeq++
	seq := p.playSeq
	p.pending = true
	p.state.Buffering = true
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	if restart {
		if err := p.el.SetCurrentTime(0); err != nil {
			p.log.Warnf("rewind before replay: %v", err)
		}
	}

	// Exclusivity must hold before this element produces a single frame.
	p.claimExclusive()

	err := p.el.Play(p.ctx)
	return p.resolvePlay(seq, err)
}

// claimExclusive pauses every other handle in the registry. It is the
// first half of the play protocol and must complete before el.Play.
func (p *Player) claimExclusive() {
	p.reg.PauseAllExcept(p.id)
}

func (p *Player) resolvePlay(seq uint64, err error) error {
	p.mu.Lock()
	if p.closed || seq != p.playSeq {
		closed := p.closed
		p.mu.Unlock()

		// Superseded while in flight: keep the newer intent.
		if err == nil && !closed {
			p.log.Debugf("discarding superseded play")
			if perr := p.el.Pause(); perr != nil {
				p.log.Warnf("pause after superseded play: %v", perr)
			}
		}
		return nil
	}
	p.pending = false
	if err != nil {
		p.mu.Unlock()
		return p.fault(err)
	}

	p.state.Phase = Playing
	p.state.Buffering = false
	p.armHideLocked()
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)
	return nil
}

// Pause stops playback, keeping the position. Paused players always show
// their controls.
func (p *Player) Pause() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	active := p.state.Phase == Playing || p.pending
	p.playSeq++
	p.pending = false
	if active {
		p.state.Phase = Paused
	}
	p.state.Buffering = false
	p.cancelHideLocked()
	p.state.ControlsVisible = true
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	if !active {
		return nil
	}
	return p.el.Pause()
}

// TogglePlay pauses a playing player and plays any other.
func (p *Player) TogglePlay() error {
	p.mu.Lock()
	active := p.state.Phase == Playing || p.pending
	p.mu.Unlock()

	if active {
		return p.Pause()
	}
	return p.Play()
}

// Seek moves to toSec, clamped to the known duration.
func (p *Player) Seek(toSec float64) error {
	p.mu.Lock()
	if p.closed || p.state.Phase == Errored {
		p.mu.Unlock()
		return nil
	}

	to := clampTime(toSec, p.state.Duration)
	p.state.CurrentTime = to
	if p.state.Phase == Ended && (!p.state.DurationKnown() || to < p.state.Duration) {
		p.state.Phase = Paused
	}
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	return p.el.SetCurrentTime(to)
}

// Skip seeks relative to the current position.
func (p *Player) Skip(deltaSec float64) error {
	p.mu.Lock()
	current := p.state.CurrentTime
	p.mu.Unlock()

	return p.Seek(current + deltaSec)
}

// JumpToDecile seeks to digit/10 of the duration. It does nothing while the
// duration is unknown.
func (p *Player) JumpToDecile(digit int) error {
	if digit < 0 || digit > 9 {
		return nil
	}

	p.mu.Lock()
	duration := p.state.Duration
	p.mu.Unlock()

	if !knownDuration(duration) {
		return nil
	}
	return p.Seek(duration * float64(digit) / 10)
}

// SetVolume sets the volume in [0,1]. Zero mutes; any audible level unmutes
// and becomes the level restored by ToggleMute.
func (p *Player) SetVolume(v float64) error {
	p.mu.Lock()
	if p.closed || p.state.Phase == Errored {
		p.mu.Unlock()
		return nil
	}

	v = clampUnit(v)
	p.state.Volume = v
	p.state.Muted = v == 0
	if v > 0 {
		p.lastAudible = v
	}
	muted := p.state.Muted
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	if err := p.el.SetMuted(muted); err != nil {
		return err
	}
	return p.el.SetVolume(v)
}

// AdjustVolume changes the volume by delta, rounded to hundredths.
func (p *Player) AdjustVolume(delta float64) error {
	p.mu.Lock()
	current := p.state.Volume
	p.mu.Unlock()

	return p.SetVolume(math.Round((current+delta)*100) / 100)
}

// ToggleMute flips Muted without touching Volume. Unmuting a player whose
// volume was driven to zero restores the last audible level.
func (p *Player) ToggleMute() error {
	p.mu.Lock()
	if p.closed || p.state.Phase == Errored {
		p.mu.Unlock()
		return nil
	}

	p.state.Muted = !p.state.Muted
	restore := !p.state.Muted && p.state.Volume == 0
	if restore {
		p.state.Volume = p.lastAudible
	}
	muted, volume := p.state.Muted, p.state.Volume
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	if restore {
		if err := p.el.SetVolume(volume); err != nil {
			return err
		}
	}
	return p.el.SetMuted(muted)
}

// SetPlaybackRate applies one of AllowedRates.
func (p *Player) SetPlaybackRate(r float64) error {
	if !lo.Contains(AllowedRates, r) {
		return fmt.Errorf("%w: %v", ErrRateNotAllowed, r)
	}

	p.mu.Lock()
	if p.closed || p.state.Phase == Errored {
		p.mu.Unlock()
		return nil
	}
	p.state.Rate = r
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	return p.el.SetPlaybackRate(r)
}

// ToggleFullscreen enters or leaves fullscreen, leaving picture-in-picture
// first. A refusal leaves the flag untouched and is only logged.
func (p *Player) ToggleFullscreen() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	fullscreen, pip := p.state.Fullscreen, p.state.PictureInPicture
	p.mu.Unlock()

	if fullscreen {
		return p.ExitFullscreen()
	}

	if pip {
		p.leavePictureInPicture()
	}

	if err := p.el.RequestFullscreen(); err != nil {
		p.log.Warnf("fullscreen: %v", err)
		return fmt.Errorf("%w: %w", ErrFullscreenDenied, err)
	}

	p.update(func(s *State) { s.Fullscreen = true })
	return nil
}

// ExitFullscreen leaves fullscreen if active.
func (p *Player) ExitFullscreen() error {
	p.mu.Lock()
	if p.closed || !p.state.Fullscreen {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	if err := p.el.ExitFullscreen(); err != nil {
		p.log.Warnf("exit fullscreen: %v", err)
		return fmt.Errorf("%w: %w", ErrFullscreenDenied, err)
	}

	p.update(func(s *State) { s.Fullscreen = false })
	return nil
}

// TogglePictureInPicture enters or leaves picture-in-picture, leaving
// fullscreen first. A refusal leaves the flag untouched and is only logged.
func (p *Player) TogglePictureInPicture() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	fullscreen, pip := p.state.Fullscreen, p.state.PictureInPicture
	p.mu.Unlock()

	if pip {
		if err := p.leavePictureInPicture(); err != nil {
			return fmt.Errorf("%w: %w", ErrPictureInPictureDenied, err)
		}
		return nil
	}

	if fullscreen {
		_ = p.ExitFullscreen()
	}

	if err := p.el.RequestPictureInPicture(); err != nil {
		p.log.Warnf("picture-in-picture: %v", err)
		return fmt.Errorf("%w: %w", ErrPictureInPictureDenied, err)
	}

	p.update(func(s *State) { s.PictureInPicture = true })
	return nil
}

func (p *Player) leavePictureInPicture() error {
	if err := p.el.ExitPictureInPicture(); err != nil {
		p.log.Warnf("exit picture-in-picture: %v", err)
		return err
	}

	p.update(func(s *State) { s.PictureInPicture = false })
	return nil
}

// RetryAfterError moves an errored player back to Idle and reloads its
// source. It does nothing in any other phase.
func (p *Player) RetryAfterError() error {
	p.mu.Lock()
	if p.closed || p.state.Phase != Errored {
		p.mu.Unlock()
		return nil
	}

	p.state.Phase = Idle
	p.state.Buffering = false
	p.state.CurrentTime = 0
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	p.log.Infof("retrying %s", snapshot.Source)
	return p.load()
}

// SetSource switches to a new source, resetting the state to defaults.
func (p *Player) SetSource(src string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if src == p.state.Source {
		p.mu.Unlock()
		return nil
	}

	p.playSeq++
	p.pending = false
	p.cancelHideLocked()
	p.state = defaultState(src, p.volume)
	p.lastAudible = lo.Ternary(p.volume > 0, p.volume, 1)
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	if src == "" {
		return nil
	}
	return p.load()
}

func (p *Player) load() error {
	p.mu.Lock()
	src := p.state.Source
	volume, muted := p.state.Volume, p.state.Muted
	p.mu.Unlock()

	if err := p.el.Load(p.ctx, src); err != nil {
		return p.fault(fmt.Errorf("load %s: %w", src, err))
	}

	// Backends start with their own volume; ours is applied once loaded.
	if p.applyVolume {
		if err := p.el.SetVolume(volume); err != nil {
			p.log.Warnf("volume after load: %v", err)
		}
		if muted {
			if err := p.el.SetMuted(true); err != nil {
				p.log.Warnf("mute after load: %v", err)
			}
		}
	}
	return nil
}

// fault moves the player to Errored and reports err through OnError once.
func (p *Player) fault(err error) error {
	fault := fmt.Errorf("%w: %w", ErrPlaybackFault, err)

	p.mu.Lock()
	if p.closed || p.state.Phase == Errored {
		p.mu.Unlock()
		return fault
	}

	p.state.Phase = Errored
	p.state.Buffering = false
	p.pending = false
	p.playSeq++
	p.cancelHideLocked()
	p.state.ControlsVisible = true
	onError := p.onError
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)

	p.log.Errorf("%v", fault)
	if onError != nil {
		onError(fault)
	}
	return fault
}

// Close tears the player down: the hide timer, keyboard listener, element
// subscriptions, registry entry and element are released together.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.playSeq++
	p.pending = false
	p.cancelHideLocked()
	unsubs, removeKeys := p.unsubs, p.removeKeys
	p.unsubs, p.removeKeys = nil, nil
	p.observers = make(map[int]func(State))
	p.mu.Unlock()

	if removeKeys != nil {
		removeKeys()
	}
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	p.reg.Unregister(p.id)
	p.cancel()

	if err := p.el.Release(); err != nil {
		return fmt.Errorf("release %s: %w", p.id, err)
	}
	return nil
}

// update applies fn to the state and notifies observers.
func (p *Player) update(fn func(s *State)) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	fn(&p.state)
	snapshot, observers := p.snapshotLocked()
	p.mu.Unlock()
	notify(observers, snapshot)
}

func (p *Player) snapshotLocked() (State, []func(State)) {
	return p.state, lo.Values(p.observers)
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}
