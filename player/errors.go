package player

import "errors"

var (
	// ErrPlaybackFault marks a load or play failure reported through OnError.
	ErrPlaybackFault = errors.New("playback fault")

	// ErrFullscreenDenied is returned when the platform refuses fullscreen.
	// Hosts log it and never show it to the user.
	ErrFullscreenDenied = errors.New("fullscreen request denied")

	// ErrPictureInPictureDenied is the picture-in-picture counterpart of ErrFullscreenDenied.
	ErrPictureInPictureDenied = errors.New("picture-in-picture request denied")

	// ErrRateNotAllowed is returned by SetPlaybackRate for rates outside AllowedRates.
	ErrRateNotAllowed = errors.New("playback rate not offered")

	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("player closed")

	// ErrEmptyID is returned by New when Options.ID is empty.
	ErrEmptyID = errors.New("player id must not be empty")

	// ErrNoElement is returned by New when no media element is given.
	ErrNoElement = errors.New("player needs a media element")
)
