package player

import "errors"

// Custom error types for better error discrimination
var (
	// ErrNoLesson is returned when a command needs a loaded lesson
	ErrNoLesson = errors.New("no lesson loaded")

	// ErrDrillActive is returned when a playback command arrives while a drill owns the output
	ErrDrillActive = errors.New("drill owns the audio output")

	// ErrResumePending is returned when a playback command arrives before Resume is called
	ErrResumePending = errors.New("resume pending after drill")

	// ErrDrillConflict is returned when a drill toggle arrives while the other drill kind is running
	ErrDrillConflict = errors.New("another drill is already running")

	// ErrNoVocabulary is returned when a vocabulary drill is requested on a segment without vocabulary
	ErrNoVocabulary = errors.New("segment has no vocabulary items")

	// ErrNotResumable is returned when Resume is called with no suspended playback to return to
	ErrNotResumable = errors.New("nothing to resume")

	// ErrSessionClosed is returned by commands issued after Close
	ErrSessionClosed = errors.New("session is closed")
)
