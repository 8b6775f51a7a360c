package repository

import "time"

// Window is a fixed lookback window for metric queries.
type Window string

const (
	Window7d  Window = "7d"
	Window30d Window = "30d"
	Window90d Window = "90d"
)

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	switch w {
	case Window7d:
		return 7 * 24 * time.Hour
	case Window30d:
		return 30 * 24 * time.Hour
	case Window90d:
		return 90 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Days returns the window length in calendar days.
func (w Window) Days() int {
	return int(w.Duration() / (24 * time.Hour))
}

// IsValidWindow returns true if w is a supported lookback window.
func IsValidWindow(w Window) bool {
	switch w {
	case Window7d, Window30d, Window90d:
		return true
	default:
		return false
	}
}
