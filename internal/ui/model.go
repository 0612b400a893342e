// Package ui renders short-lived notifications on the last line of a view.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelroom/reelroom/color"
	"github.com/reelroom/reelroom/icon"
	"github.com/reelroom/reelroom/style"
)

// Lifetime is how long a notification stays on screen.
const Lifetime = 3 * time.Second

// Model holds the current notification, if any.
type Model struct {
	notification string
	seq          int
}

// NotificationMsg shows its text until Lifetime passes.
type NotificationMsg string

// ClearNotificationMsg resets the notification shown for Seq.
type ClearNotificationMsg struct {
	Seq int
}

// Notify returns a tea.Cmd showing text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg(text)
	}
}

// NotifyPlaybackError returns a tea.Cmd showing a playback failure with a
// hint to retry.
func NotifyPlaybackError(err error) tea.Cmd {
	return Notify(icon.Get(icon.Fail) + " " + err.Error() + " (r to retry)")
}

func clearAfter(seq int) tea.Cmd {
	return tea.Tick(Lifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{Seq: seq}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.seq++
		m.notification = string(msg)
		return clearAfter(m.seq)
	case ClearNotificationMsg:
		if msg.Seq == m.seq {
			m.notification = ""
		}
	}
	return nil
}

// Current returns the notification on screen.
func (m *Model) Current() string {
	return m.notification
}

// View appends the notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	lines[len(lines)-1] += "  " + style.Fg(color.Red)(m.notification)
	return strings.Join(lines, "\n")
}
