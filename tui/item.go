package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelroom/reelroom/grid"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/key"
	"github.com/reelroom/reelroom/library"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/util"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// listItem is one card of the library grid.
type listItem struct {
	asset  *library.Asset
	resume mo.Option[float64]
	card   mo.Option[grid.Card]
}

var stageColors = map[library.Stage]lipgloss.Color{
	library.Draft:     style.DraftColor,
	library.Review:    style.ReviewColor,
	library.Approved:  style.ApprovedColor,
	library.Published: style.PublishedColor,
	library.Archived:  style.ArchivedColor,
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	title := t.asset.Title

	if card, ok := t.card.Get(); ok {
		switch {
		case card.Failed:
			title = fmt.Sprintf("%s %s", title, style.Faint(icon.Get(icon.Asset)+" poster only"))
		case card.Hovered:
			title = fmt.Sprintf("%s %s %s", title, icon.Get(icon.Play), style.Faint(util.FormatTimestamp(card.CurrentTime)))
		}
	}

	if pos, ok := t.resume.Get(); ok {
		title = fmt.Sprintf("%s %s", title, style.Faint("resume "+util.FormatTimestamp(pos)))
	}

	return title
}

// Description retrieves the secondary metadata for the list item.
func (t *listItem) Description() string {
	stage := lipgloss.NewStyle().Foreground(stageColors[t.asset.Stage]).Render(t.asset.Stage.String())
	parts := []string{stage}

	if t.asset.Creator != "" {
		parts = append(parts, t.asset.Creator)
	}

	if m := t.asset.Media; m.Duration > 0 {
		parts = append(parts, util.FormatTimestamp(m.Duration))
	}

	if p := t.asset.Performance; p.Views > 0 {
		parts = append(parts, fmt.Sprintf("%s · %.1f%% engagement", util.Quantify(int(p.Views), "view", "views"), p.EngagementRate))
	}

	if viper.GetBool(key.TUIShowURLs) {
		parts = append(parts, style.Faint(t.asset.SourceURL))
	}

	return strings.Join(parts, " · ")
}

// FilterValue returns the text the list filter matches against.
func (t *listItem) FilterValue() string {
	return strings.Join(append([]string{t.asset.Title, t.asset.Creator}, t.asset.Tags...), " ")
}
