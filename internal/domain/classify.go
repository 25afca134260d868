package domain

// MagnitudeClass buckets a magnitude into the map legend's three classes.
func MagnitudeClass(magnitude float64) string {
	switch {
	case magnitude >= 5:
		return "major"
	case magnitude >= 3:
		return "light"
	default:
		return "minor"
	}
}

// SignificanceLevel buckets the USGS sig score.
func SignificanceLevel(sig int) string {
	switch {
	case sig >= 600:
		return "high"
	case sig >= 300:
		return "moderate"
	default:
		return "low"
	}
}

// ActivityLevel rates how busy the last hour was from StatsSummary.RecentCount.
func ActivityLevel(recentCount int) string {
	switch {
	case recentCount >= 10:
		return "high"
	case recentCount >= 5:
		return "moderate"
	default:
		return "low"
	}
}
