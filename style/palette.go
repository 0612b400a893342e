package style

import "github.com/charmbracelet/lipgloss"

var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Overlay = lipgloss.Color("#6c7086")
	Surface = lipgloss.Color("#45475a")

	Mauve  = lipgloss.Color("#cba6f7")
	Red    = lipgloss.Color("#f38ba8")
	Yellow = lipgloss.Color("#f9e2af")
	Green  = lipgloss.Color("#a6e3a1")
	Sky    = lipgloss.Color("#89dceb")

	AccentColor = Mauve
	ErrorColor  = Red
	HiRed       = Red
)

// Workflow stage colors, from untouched drafts to shelved archives.
var (
	DraftColor     = Overlay
	ReviewColor    = Yellow
	ApprovedColor  = Sky
	PublishedColor = Green
	ArchivedColor  = Surface
)
