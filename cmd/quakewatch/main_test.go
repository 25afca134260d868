package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/couchcryptid/quakewatch/internal/insight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile("../../internal/adapter/usgs/testdata/all_day_sample.geojson")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(body) //nolint:errcheck // test server
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	t.Setenv("FEED_URL", feedServer(t).URL)

	out, err := execute(t, "summary", "--min-magnitude", "4.5")
	require.NoError(t, err)

	var got summaryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 4.5, got.MinMagnitude, 0)
	assert.Equal(t, "all", got.Window)
	assert.Equal(t, 2, got.Summary.Total)
	assert.InDelta(t, 6.1, got.Summary.MaxMagnitude, 1e-9)
	require.Len(t, got.Summary.TopEvents, 2)
	assert.Equal(t, "us7000p1ab", got.Summary.TopEvents[0].ID)
}

func TestSummaryCommand_InvalidCriteria(t *testing.T) {
	_, err := execute(t, "summary", "--window", "2d")
	require.Error(t, err)

	_, err = execute(t, "summary", "--min-magnitude", "1.2")
	require.Error(t, err)
}

func TestSummaryCommand_FeedUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	t.Setenv("FEED_URL", srv.URL)

	_, err := execute(t, "summary")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestAskCommand_WithoutCredential(t *testing.T) {
	t.Setenv("FEED_URL", feedServer(t).URL)
	t.Setenv("GEMINI_API_KEY", "")

	out, err := execute(t, "ask", "Any", "tsunami", "threats?")
	require.NoError(t, err)
	assert.Equal(t, insight.MissingCredentialMessage, strings.TrimSpace(out))
}

func TestAskCommand_NoMatchingEvents(t *testing.T) {
	t.Setenv("FEED_URL", feedServer(t).URL)
	t.Setenv("GEMINI_API_KEY", "")

	out, err := execute(t, "ask", "--min-magnitude", "7", "anything big?")
	require.NoError(t, err)
	assert.Equal(t, insight.NoDataMessage, strings.TrimSpace(out))
}

func TestAskCommand_RequiresQuestion(t *testing.T) {
	_, err := execute(t, "ask")
	require.Error(t, err)

	_, err = execute(t, "ask", "   ")
	require.Error(t, err)
}
