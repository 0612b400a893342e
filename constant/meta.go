// Package constant defines immutable application-level identifiers.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "reelroom"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// Repository is the GitHub slug releases are published under.
	Repository = "reelroom/reelroom"
)

// Build metadata, overridden with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
