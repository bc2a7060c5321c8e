package report

import (
	"fmt"
	"strings"
	"time"
)

// Window limits an aggregation to transactions dated on or after now minus its duration.
type Window int

// Supported windows.
const (
	WindowAllTime Window = iota
	WindowWeek
	WindowMonth
)

// ParseWindow converts a window name into a Window.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "7d":
		return WindowWeek, nil
	case "month", "30d":
		return WindowMonth, nil
	case "all", "all-time", "":
		return WindowAllTime, nil
	default:
		return WindowAllTime, fmt.Errorf("unknown window %q (want week, month or all)", s)
	}
}

// Duration returns the window length; zero means no lower bound.
func (w Window) Duration() time.Duration {
	switch w {
	case WindowWeek:
		return 7 * 24 * time.Hour
	case WindowMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Contains reports whether a transaction dated at t falls inside the window ending at now.
func (w Window) Contains(t, now time.Time) bool {
	d := w.Duration()
	if d == 0 {
		return true
	}
	return !t.Before(now.Add(-d))
}

func (w Window) String() string {
	switch w {
	case WindowWeek:
		return "week"
	case WindowMonth:
		return "month"
	default:
		return "all-time"
	}
}
