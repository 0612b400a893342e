package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init loads the catalog and starts listening for player and preview updates.
func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{
		b.spinnerC.Tick,
		b.loadAssets(),
		b.waitForPlayerState(),
		b.waitForPlayerFault(),
		b.waitForGrid(),
	}

	if asset, ok := b.options.Asset.Get(); ok {
		cmds = append(cmds, b.openPlayer(asset))
	}

	return tea.Batch(cmds...)
}
