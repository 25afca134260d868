package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// String returns the wire form of the window: "all", "1h", "6h" or "24h".
func (w TimeWindow) String() string {
	switch w {
	case WindowLastHour:
		return "1h"
	case WindowLast6Hours:
		return "6h"
	case WindowLast24Hours:
		return "24h"
	default:
		return "all"
	}
}

// Duration returns the lookback for the window, or 0 for WindowAll.
func (w TimeWindow) Duration() time.Duration {
	switch w {
	case WindowLastHour:
		return time.Hour
	case WindowLast6Hours:
		return 6 * time.Hour
	case WindowLast24Hours:
		return 24 * time.Hour
	default:
		return 0
	}
}

// ParseTimeWindow accepts the wire forms produced by TimeWindow.String.
// An empty string means WindowAll.
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "1h":
		return WindowLastHour, nil
	case "6h":
		return WindowLast6Hours, nil
	case "24h":
		return WindowLast24Hours, nil
	default:
		return WindowAll, fmt.Errorf("unknown time window %q (want all, 1h, 6h or 24h)", s)
	}
}

// Validate checks the criteria against the inputs the filter controls offer:
// a magnitude floor in [0, 7] on a 0.5 grid and a known window.
func (c FilterCriteria) Validate() error {
	if math.IsNaN(c.MinMagnitude) || c.MinMagnitude < 0 || c.MinMagnitude > MaxFilterMagnitude {
		return fmt.Errorf("min magnitude %v out of range [0, %v]", c.MinMagnitude, MaxFilterMagnitude)
	}
	if steps := c.MinMagnitude / FilterMagnitudeStep; steps != math.Trunc(steps) {
		return fmt.Errorf("min magnitude %v is not a multiple of %v", c.MinMagnitude, FilterMagnitudeStep)
	}
	if c.Window < WindowAll || c.Window > WindowLast24Hours {
		return fmt.Errorf("unknown time window %d", c.Window)
	}
	return nil
}

// Apply returns the events matching criteria, preserving input order. The
// input slice is never modified. A zero MinMagnitude disables the magnitude
// rule; WindowAll disables the time rule.
func Apply(events []Event, criteria FilterCriteria, evaluationTime time.Time) []Event {
	var cutoff time.Time
	useWindow := criteria.Window != WindowAll
	if useWindow {
		cutoff = evaluationTime.Add(-criteria.Window.Duration())
	}

	out := make([]Event, 0, len(events))
	for _, e := range events {
		if criteria.MinMagnitude != 0 && e.Magnitude < criteria.MinMagnitude {
			continue
		}
		if useWindow && e.OccurredAt.Before(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}
