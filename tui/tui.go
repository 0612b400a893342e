// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/registry"
	"github.com/samber/mo"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Library library.Service

	// Asset, when present, opens its player right away.
	Asset mo.Option[*library.Asset]
}

// Run starts the TUI in its own playback scope: previews and the player
// opened from it pause one another, but nothing outside it.
func Run(ctx context.Context, options *Options) error {
	ctx = registry.WithRegistry(ctx, registry.New())

	bubble, err := newBubble(ctx, options)
	if err != nil {
		return err
	}
	defer bubble.shutdown()

	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
