package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/player"
	"github.com/reelroom/reelroom/style"
	"github.com/reelroom/reelroom/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case libraryState:
		output = b.viewLibrary()
	case playerState:
		output = b.viewPlayer()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	status := b.progressStatus
	if status == "" {
		status = "Loading library"
	}

	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + status,
		},
	)
}

func (b *statefulBubble) viewLibrary() string {
	return listExtraPaddingStyle.Render(b.assetsC.View())
}

func phaseIcon(s player.State) string {
	switch {
	case s.Errored():
		return icon.Get(icon.Fail)
	case s.Buffering:
		return icon.Get(icon.Buffering)
	case s.Phase == player.Ended:
		return icon.Get(icon.Ended)
	case s.Playing():
		return icon.Get(icon.Play)
	default:
		return icon.Get(icon.Pause)
	}
}

func (b *statefulBubble) viewPlayer() string {
	s := b.playerState

	title := ""
	if b.playing != nil {
		title = b.playing.Title
	}

	duration := "--:--"
	if s.DurationKnown() {
		duration = util.FormatTimestamp(s.Duration)
	}

	volume := icon.Get(icon.Volume) + fmt.Sprintf(" %d%%", int(s.Volume*100+0.5))
	if s.Muted {
		volume = icon.Get(icon.Muted) + " muted"
	}

	var modes []string
	if s.Fullscreen {
		modes = append(modes, icon.Get(icon.Fullscreen)+" fullscreen")
	}
	if s.PictureInPicture {
		modes = append(modes, icon.Get(icon.PictureInPicture)+" picture-in-picture")
	}
	if s.Rate != 1 {
		modes = append(modes, fmt.Sprintf("%gx", s.Rate))
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", phaseIcon(s), style.Fg(color.Purple)(title))),
		"",
		b.progressC.ViewAs(s.ProgressPercent() / 100),
		fmt.Sprintf("%s / %s   %s   %s",
			util.FormatTimestamp(s.CurrentTime),
			duration,
			volume,
			style.Faint(strings.Join(modes, " · ")),
		),
	}

	if s.Errored() {
		lines = append(lines,
			"",
			style.Fg(color.Red)(icon.Get(icon.Retry)+" Playback failed."),
			style.Faint("Press r to retry."),
		)
	} else if s.Phase == player.Idle && b.player != nil && b.player.Poster() != "" {
		lines = append(lines, "", style.Faint(icon.Get(icon.Asset)+" "+b.player.Poster()))
	}

	return b.renderLines(s.ControlsVisible, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := errorStyle.Render(b.lastError.Error())
	if b.width > 0 {
		errorMsg = wrap.String(errorMsg, b.width)
	}
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
