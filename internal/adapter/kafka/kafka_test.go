package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	fetchedAt := time.Date(2025, 3, 14, 12, 5, 0, 0, time.UTC)
	event := domain.Event{
		ID:           "us7000p1ab",
		Place:        "112 km NNE of Neiafu, Tonga",
		Magnitude:    6.1,
		OccurredAt:   time.Date(2025, 3, 14, 11, 30, 0, 0, time.UTC),
		DepthKm:      35,
		Latitude:     -17.9214,
		Longitude:    -173.6321,
		Significance: 573,
		Tsunami:      true,
	}

	msg, err := serializeToMessage(event, fetchedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("us7000p1ab"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "magnitude_class", msg.Headers[0].Key)
	assert.Equal(t, []byte("major"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2025-03-14T12:05:00Z"), msg.Headers[1].Value)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "us7000p1ab", body["id"])
	assert.InDelta(t, 6.1, body["magnitude"], 1e-9)
	assert.Equal(t, "major", body["magnitude_class"])
	assert.Equal(t, "moderate", body["significance_level"])
	assert.Equal(t, true, body["tsunami"])
	assert.Equal(t, "2025-03-14T12:05:00Z", body["fetched_at"])
}

func TestSerializeToMessage_MinorEvent(t *testing.T) {
	msg, err := serializeToMessage(domain.Event{ID: "hv1", Magnitude: 1.62}, time.Unix(0, 0))
	require.NoError(t, err)

	assert.Equal(t, []byte("minor"), msg.Headers[0].Value)
	assert.Contains(t, string(msg.Value), `"significance_level":"low"`)
}
