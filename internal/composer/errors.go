package composer

import "errors"

var (
	// ErrBaseImageMissing means the base template file is not accessible.
	// Renders abort entirely on it, there is no fallback canvas.
	ErrBaseImageMissing = errors.New("base image missing")
	// ErrImageUnreadable means an image exists but its pixels or
	// dimensions could not be decoded.
	ErrImageUnreadable = errors.New("image unreadable")
)
