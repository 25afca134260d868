package domain

import (
	"sort"
	"time"
)

// Summarize computes aggregate statistics over events as of evaluationTime.
// An empty input yields a zero summary with an empty TopEvents list.
func Summarize(events []Event, evaluationTime time.Time) StatsSummary {
	summary := StatsSummary{
		TopEvents:   []TopEvent{},
		EvaluatedAt: evaluationTime,
	}
	if len(events) == 0 {
		return summary
	}

	recentCutoff := evaluationTime.Add(-RecentWindow)
	var magSum, depthSum float64
	summary.Total = len(events)
	summary.MaxMagnitude = events[0].Magnitude
	summary.MinMagnitude = events[0].Magnitude

	for _, e := range events {
		magSum += e.Magnitude
		depthSum += e.DepthKm
		if e.Magnitude > summary.MaxMagnitude {
			summary.MaxMagnitude = e.Magnitude
		}
		if e.Magnitude < summary.MinMagnitude {
			summary.MinMagnitude = e.Magnitude
		}
		if e.Magnitude >= SignificantMagnitude {
			summary.SignificantCount++
		}
		if !e.OccurredAt.Before(recentCutoff) {
			summary.RecentCount++
		}
	}
	summary.AverageMagnitude = magSum / float64(len(events))
	summary.AverageDepthKm = depthSum / float64(len(events))
	summary.TopEvents = topEvents(events)

	return summary
}

// topEvents ranks a copy of events by magnitude, descending. Ties keep feed order.
func topEvents(events []Event) []TopEvent {
	ranked := make([]Event, len(events))
	copy(ranked, events)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Magnitude > ranked[j].Magnitude
	})

	n := min(TopEventLimit, len(ranked))
	top := make([]TopEvent, n)
	for i, e := range ranked[:n] {
		top[i] = TopEvent{
			Rank:      i + 1,
			ID:        e.ID,
			Place:     e.Place,
			Magnitude: e.Magnitude,
			DepthKm:   e.DepthKm,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Time:      e.OccurredAt,
		}
	}
	return top
}
