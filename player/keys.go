package player

import "sync"

// Document delivers document-level key presses to listeners.
type Document interface {
	// AddKeyListener attaches fn; fn reports whether it consumed the key.
	AddKeyListener(fn func(key string) bool) (remove func())
}

// Keyboard is an in-process Document. Hosts feed it key names in the
// bubbletea spelling (" ", "left", "esc", "k", "5", ...).
type Keyboard struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(string) bool
}

// NewKeyboard creates a Keyboard with no listeners.
func NewKeyboard() *Keyboard {
	return &Keyboard{listeners: make(map[int]func(string) bool)}
}

// AddKeyListener implements Document.
func (k *Keyboard) AddKeyListener(fn func(key string) bool) func() {
	k.mu.Lock()
	defer k.mu.Unlock()

	id := k.nextID
	k.nextID++
	k.listeners[id] = fn

	return func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		delete(k.listeners, id)
	}
}

// Dispatch offers key to every listener and reports whether any consumed it.
func (k *Keyboard) Dispatch(key string) bool {
	k.mu.Lock()
	fns := make([]func(string) bool, 0, len(k.listeners))
	for _, fn := range k.listeners {
		fns = append(fns, fn)
	}
	k.mu.Unlock()

	handled := false
	for _, fn := range fns {
		if fn(key) {
			handled = true
		}
	}
	return handled
}

// Listeners returns the number of attached listeners.
func (k *Keyboard) Listeners() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.listeners)
}

// HandleKey applies the player's keyboard shortcuts:
//
//	space, k   play / pause
//	j, left    back one seek step
//	l, right   forward one seek step
//	up, down   volume by one volume step
//	m          mute
//	f          fullscreen
//	esc        leave fullscreen
//	0-9        jump to that tenth of the duration
func (p *Player) HandleKey(key string) bool {
	var err error

	switch key {
	case " ", "space", "k", "K":
		err = p.TogglePlay()
	case "j", "J", "left":
		err = p.Skip(-p.seekStep)
	case "l", "L", "right":
		err = p.Skip(p.seekStep)
	case "up":
		err = p.AdjustVolume(p.volumeStep)
	case "down":
		err = p.AdjustVolume(-p.volumeStep)
	case "m", "M":
		err = p.ToggleMute()
	case "f", "F":
		err = p.ToggleFullscreen()
	case "esc":
		if !p.State().Fullscreen {
			return false
		}
		err = p.ExitFullscreen()
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		err = p.JumpToDecile(int(key[0] - '0'))
	default:
		return false
	}

	if err != nil {
		p.log.Debugf("key %q: %v", key, err)
	}
	return true
}
