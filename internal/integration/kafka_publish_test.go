//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	kafkaadapter "github.com/couchcryptid/quakewatch/internal/adapter/kafka"
	"github.com/couchcryptid/quakewatch/internal/adapter/usgs"
	"github.com/couchcryptid/quakewatch/internal/config"
	"github.com/couchcryptid/quakewatch/internal/observability"
	"github.com/couchcryptid/quakewatch/internal/pipeline"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testTopic = "test-usgs-earthquakes"

var fetchedAt = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

// publishedMessage holds a deserialized message read back from the topic.
type publishedMessage struct {
	Key     string
	Headers map[string]string
	Body    map[string]any
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0", kafka.WithClusterID("quakewatch-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	cconn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer cconn.Close()

	require.NoError(t, cconn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func readMessages(ctx context.Context, t *testing.T, broker string, n int) []publishedMessage {
	t.Helper()
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer reader.Close()

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]publishedMessage, 0, n)
	for len(out) < n {
		msg, err := reader.ReadMessage(readCtx)
		require.NoError(t, err, "read from topic")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		var body map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &body))
		out = append(out, publishedMessage{Key: string(msg.Key), Headers: headers, Body: body})
	}
	return out
}

// TestFeedSnapshotPublished runs one refresh against a fixture feed and checks
// that every accepted event reaches Kafka keyed by id.
func TestFeedSnapshotPublished(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	body, err := os.ReadFile("../adapter/usgs/testdata/all_day_sample.geojson")
	require.NoError(t, err)
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(body) //nolint:errcheck // test server
	}))
	defer feedSrv.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	writer := kafkaadapter.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}, logger)
	defer writer.Close()

	feed := usgs.NewClient(feedSrv.URL, 10*time.Second, metrics, logger)
	p := pipeline.New(feed, writer, pipeline.NewStore(), clockwork.NewFakeClockAt(fetchedAt), logger, metrics, 1)

	require.NoError(t, p.Refresh(ctx))

	msgs := readMessages(ctx, t, broker, 4)
	byKey := make(map[string]publishedMessage, len(msgs))
	for _, m := range msgs {
		byKey[m.Key] = m
	}
	require.Len(t, byKey, 4)

	tonga, ok := byKey["us7000p1ab"]
	require.True(t, ok)
	assert.Equal(t, "major", tonga.Headers["magnitude_class"])
	assert.Equal(t, "2025-03-14T12:00:00Z", tonga.Headers["fetched_at"])
	assert.InDelta(t, 6.1, tonga.Body["magnitude"], 1e-9)
	assert.Equal(t, true, tonga.Body["tsunami"])

	assert.Equal(t, "minor", byKey["hv74612345"].Headers["magnitude_class"])
}
