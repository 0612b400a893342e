package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
//
// In the player the transport keys are delivered through the player's own
// keyboard shortcuts; the bindings here document them in the help line.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back, filter, reload,
	togglePreviews,
	up, down, left, right,
	top, bottom,
	playPause, seekBack, seekForward,
	volumeUp, volumeDown, mute,
	fullscreen, pictureInPicture,
	slower, faster, jump, retry,
	showHelp key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		togglePreviews: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "hover previews"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp("space", "play/pause"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "j"),
			key.WithHelp("←", "back 5s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward 5s"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "volume down"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		pictureInPicture: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "picture-in-picture"),
		),
		slower: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "faster"),
		),
		jump: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "jump"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit))
	case libraryState:
		return h(k.confirm, k.togglePreviews), h(k.confirm, k.togglePreviews, k.filter, k.reload)
	case playerState:
		return h(k.playPause, k.seekBack, k.seekForward, k.mute, k.fullscreen, k.back),
			h(k.playPause, k.seekBack, k.seekForward, k.volumeUp, k.volumeDown, k.mute, k.fullscreen, k.pictureInPicture, k.slower, k.faster, k.jump, k.retry, k.back)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}
