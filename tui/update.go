package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelroom/reelroom/internal/ui"
	"github.com/reelroom/reelroom/log"
	"github.com/reelroom/reelroom/player"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmds = append(cmds, uiCmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}
	case error:
		b.opening = false
		b.raiseError(msg)
		return b, tea.Batch(cmds...)
	case assetsLoadedMsg:
		cmds = append(cmds, b.setAssets(msg), b.hover())
		if b.state == loadingState && !b.opening {
			b.setState(libraryState)
		}
		return b, tea.Batch(cmds...)
	case previewReadyMsg:
		b.mountPreview(msg)
		return b, tea.Batch(cmds...)
	case gridChangedMsg:
		b.refreshCards()
		return b, tea.Batch(append(cmds, b.waitForGrid())...)
	case playerStateMsg:
		if b.player != nil {
			b.playerState = player.State(msg)
		}
		return b, tea.Batch(append(cmds, b.waitForPlayerState())...)
	case playerFaultMsg:
		log.Warnf("playback: %v", msg.err)
		return b, tea.Batch(append(cmds, ui.NotifyPlaybackError(msg.err), b.waitForPlayerFault())...)
	case playerReadyMsg:
		return b, tea.Batch(append(cmds, b.onPlayerReady(msg))...)
	case playerExitedMsg:
		if msg.element == b.element && b.state == playerState {
			b.leavePlayer()
			return b, tea.Batch(append(cmds, b.hover())...)
		}
		return b, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	switch b.state {
	case loadingState:
		b.spinnerC, cmd = b.spinnerC.Update(msg)
	case libraryState:
		cmd = b.updateLibrary(msg)
	case playerState:
		cmd = b.updatePlayer(msg)
	case errorState:
		cmd = b.updateError(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) onPlayerReady(msg playerReadyMsg) tea.Cmd {
	b.opening = false
	if msg.err != nil {
		b.raiseError(msg.err)
		return nil
	}

	// Opening straight into the player still leaves the library to go back to.
	if b.state == loadingState {
		b.setState(libraryState)
	}

	b.player = msg.player
	b.element = msg.element
	b.playing = msg.asset
	b.unsubPlayer = msg.unsubscribe
	b.playerState = msg.player.State()
	b.newState(playerState)

	return b.waitForPlayerExit(msg.element)
}

func (b *statefulBubble) leavePlayer() {
	b.closePlayer()
	b.previousState()
}

func (b *statefulBubble) updateLibrary(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && b.assetsC.FilterState() != list.Filtering {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if asset, ok := b.selectedAsset(); ok {
				b.setState(loadingState)
				return tea.Batch(b.openPlayer(asset), b.spinnerC.Tick)
			}
			return nil
		case bubblesKey.Matches(msg, b.keymap.togglePreviews):
			if !b.previewsOn && b.grid.ReducedMotion() {
				return ui.Notify("previews are off while reduced motion is set")
			}
			b.setPreviews(!b.previewsOn)
			return b.hover()
		case bubblesKey.Matches(msg, b.keymap.reload):
			return b.loadAssets()
		}
	}

	var cmd tea.Cmd
	b.assetsC, cmd = b.assetsC.Update(msg)
	return tea.Batch(cmd, b.hover())
}

func (b *statefulBubble) updatePlayer(msg tea.Msg) tea.Cmd {
	if b.player == nil {
		b.previousState()
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		b.player.PointerMove()

		if b.keyboard.Dispatch(msg.String()) {
			return nil
		}

		var err error
		switch {
		case bubblesKey.Matches(msg, b.keymap.back), bubblesKey.Matches(msg, b.keymap.quit):
			b.leavePlayer()
			return b.hover()
		case bubblesKey.Matches(msg, b.keymap.pictureInPicture):
			err = b.player.TogglePictureInPicture()
		case bubblesKey.Matches(msg, b.keymap.slower):
			err = b.player.SetPlaybackRate(stepRate(b.playerState.Rate, -1))
		case bubblesKey.Matches(msg, b.keymap.faster):
			err = b.player.SetPlaybackRate(stepRate(b.playerState.Rate, 1))
		case bubblesKey.Matches(msg, b.keymap.retry):
			if b.playerState.Errored() {
				err = b.player.RetryAfterError()
			}
		}

		// Denied display modes are logged only.
		if err != nil {
			log.Debugf("player %s: %v", b.player.ID(), err)
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return cmd
	case progress.FrameMsg:
		model, cmd := b.progressC.Update(msg)
		b.progressC = model.(progress.Model)
		return cmd
	}

	return nil
}

func (b *statefulBubble) updateError(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			if b.state == errorState || b.state == loadingState {
				b.setState(libraryState)
			}
		}
	}
	return nil
}
