// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys configure the full player and its control overlay.
const (
	PlayerBinary            = "player.binary"
	PlayerControlsHideDelay = "player.controls_hide_delay"
	PlayerVolumeStep        = "player.volume_step"
	PlayerSeekStep          = "player.seek_step"
	PlayerDefaultVolume     = "player.default_volume"
)

// Grid Preview - these keys govern the hover-to-preview behavior of the asset grid.
const (
	GridPreviews        = "grid.previews"
	GridReducedMotion   = "grid.reduced_motion"
	GridPreviewGeometry = "grid.preview_geometry"
)

// Content Library - these keys locate the local asset catalog.
const (
	LibraryPath        = "library.path"
	LibrarySuggestions = "library.suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI)
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowURLs    = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
