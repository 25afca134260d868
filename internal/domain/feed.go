package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrMalformedFeature marks a feed record that cannot become an Event.
var ErrMalformedFeature = errors.New("malformed feature")

// maxEpochMillis bounds feature times so the int64 conversion cannot overflow.
const maxEpochMillis = math.MaxInt64 / 2

// FeatureCollection is the top-level GeoJSON document served by the feed.
// Features are kept raw so one bad record cannot fail the whole document.
type FeatureCollection struct {
	Type     string            `json:"type"`
	Metadata FeedMetadata      `json:"metadata"`
	Features []json.RawMessage `json:"features"`
}

// FeedMetadata is the feed's self-description block.
type FeedMetadata struct {
	Generated int64  `json:"generated"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Count     int    `json:"count"`
}

type rawFeature struct {
	ID         string        `json:"id"`
	Geometry   rawGeometry   `json:"geometry"`
	Properties rawProperties `json:"properties"`
}

type rawGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

type rawProperties struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    *float64 `json:"time"` // epoch millis
	Sig     *float64 `json:"sig"`
	Tsunami *float64 `json:"tsunami"`
}

// ParseFeatureCollection decodes a feed document and normalizes every
// well-formed feature. It returns the events in feed order and the number of
// features that were skipped. Only a document that is not a feature
// collection at all is an error.
func ParseFeatureCollection(data []byte) ([]Event, int, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, 0, fmt.Errorf("parse feature collection: %w", err)
	}

	events := make([]Event, 0, len(fc.Features))
	skipped := 0
	for _, raw := range fc.Features {
		event, err := ParseFeature(raw)
		if err != nil {
			skipped++
			continue
		}
		events = append(events, event)
	}
	return events, skipped, nil
}

// ParseFeature validates a single GeoJSON feature and maps it to an Event.
// Missing place, significance or tsunami fields default to their zero values;
// anything else missing or out of range yields ErrMalformedFeature.
func ParseFeature(data []byte) (Event, error) {
	var f rawFeature
	if err := json.Unmarshal(data, &f); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedFeature, err)
	}

	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Event{}, fmt.Errorf("%w: missing id", ErrMalformedFeature)
	}
	p := f.Properties
	if p.Mag == nil || !finite(*p.Mag) {
		return Event{}, fmt.Errorf("%w: %s: missing magnitude", ErrMalformedFeature, id)
	}
	if p.Time == nil || !finite(*p.Time) {
		return Event{}, fmt.Errorf("%w: %s: missing time", ErrMalformedFeature, id)
	}
	if math.Abs(*p.Time) > maxEpochMillis {
		return Event{}, fmt.Errorf("%w: %s: time out of range", ErrMalformedFeature, id)
	}
	coords := f.Geometry.Coordinates
	if len(coords) < 3 {
		return Event{}, fmt.Errorf("%w: %s: expected 3 coordinates, got %d", ErrMalformedFeature, id, len(coords))
	}
	lon, lat, depth := coords[0], coords[1], coords[2]
	if !finite(lon) || !finite(lat) || !finite(depth) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Event{}, fmt.Errorf("%w: %s: coordinates out of range", ErrMalformedFeature, id)
	}

	sig := 0
	if p.Sig != nil {
		if !finite(*p.Sig) || *p.Sig < 0 {
			return Event{}, fmt.Errorf("%w: %s: negative significance", ErrMalformedFeature, id)
		}
		sig = int(math.Round(*p.Sig))
	}

	place := ""
	if p.Place != nil {
		place = strings.TrimSpace(*p.Place)
	}

	return Event{
		ID:           id,
		Place:        place,
		Magnitude:    *p.Mag,
		OccurredAt:   time.UnixMilli(int64(*p.Time)).UTC(),
		DepthKm:      depth,
		Latitude:     lat,
		Longitude:    lon,
		Significance: sig,
		Tsunami:      p.Tsunami != nil && *p.Tsunami > 0,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
