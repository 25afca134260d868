package domain

import "time"

// Event is a normalized seismic record. Values are immutable once produced by
// the feed ingestor; consumers receive copies.
type Event struct {
	ID           string    `json:"id"`
	Place        string    `json:"place"`
	Magnitude    float64   `json:"magnitude"`
	OccurredAt   time.Time `json:"occurred_at"`
	DepthKm      float64   `json:"depth_km"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Significance int       `json:"significance"`
	Tsunami      bool      `json:"tsunami"`
}

// TimeWindow is the recency filter applied on top of the feed's rolling window.
type TimeWindow int

const (
	WindowAll TimeWindow = iota
	WindowLastHour
	WindowLast6Hours
	WindowLast24Hours
)

// FilterCriteria narrows an event set. A zero value keeps everything.
type FilterCriteria struct {
	MinMagnitude float64
	Window       TimeWindow
}

// TopEvent is one ranked entry of a StatsSummary, carrying what prompt
// construction and the HTTP surface need.
type TopEvent struct {
	Rank      int       `json:"rank"`
	ID        string    `json:"id"`
	Place     string    `json:"place"`
	Magnitude float64   `json:"magnitude"`
	DepthKm   float64   `json:"depth_km"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Time      time.Time `json:"time"`
}

// StatsSummary aggregates an event set at a specific evaluation time.
type StatsSummary struct {
	Total            int        `json:"total"`
	MaxMagnitude     float64    `json:"max_magnitude"`
	MinMagnitude     float64    `json:"min_magnitude"`
	AverageMagnitude float64    `json:"average_magnitude"`
	AverageDepthKm   float64    `json:"average_depth_km"`
	SignificantCount int        `json:"significant_count"`
	RecentCount      int        `json:"recent_count"`
	TopEvents        []TopEvent `json:"top_events"`
	EvaluatedAt      time.Time  `json:"evaluated_at"`
}

const (
	// SignificantMagnitude is the floor for counting an event as significant (M4.5+).
	SignificantMagnitude = 4.5

	// RecentWindow is the lookback used for StatsSummary.RecentCount.
	RecentWindow = time.Hour

	// TopEventLimit caps StatsSummary.TopEvents.
	TopEventLimit = 5

	// MaxFilterMagnitude is the highest magnitude floor accepted from callers.
	MaxFilterMagnitude = 7.0

	// FilterMagnitudeStep is the granularity of accepted magnitude floors.
	FilterMagnitudeStep = 0.5
)
