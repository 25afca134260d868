package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/couchcryptid/quakewatch/internal/insight"
	"github.com/couchcryptid/quakewatch/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

const maxRequestBytes = 64 << 10

// EventSource provides the current event snapshot and feed status.
type EventSource interface {
	Snapshot() []domain.Event
	Status() pipeline.FeedStatus
}

// Refresher triggers a manual feed refresh.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Conversation is the insight conversation the API drives.
type Conversation interface {
	Submit(ctx context.Context, question string, events []domain.Event) insight.Outcome
	Snapshot() insight.ConversationState
	Available() bool
}

// API serves the /api routes.
type API struct {
	events    EventSource
	refresher Refresher
	insights  Conversation
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewAPI creates the API handlers.
func NewAPI(events EventSource, refresher Refresher, insights Conversation, clock clockwork.Clock, logger *slog.Logger) *API {
	return &API{
		events:    events,
		refresher: refresher,
		insights:  insights,
		clock:     clock,
		logger:    logger,
	}
}

func (a *API) register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/events", a.handleEvents)
	mux.HandleFunc("GET /api/stats", a.handleStats)
	mux.HandleFunc("GET /api/feed/status", a.handleFeedStatus)
	mux.HandleFunc("POST /api/feed/refresh", a.handleFeedRefresh)
	mux.HandleFunc("GET /api/insights", a.handleInsights)
	mux.HandleFunc("POST /api/insights", a.handleAsk)
}

type criteriaView struct {
	MinMagnitude float64 `json:"min_magnitude"`
	Window       string  `json:"window"`
}

type eventView struct {
	domain.Event
	MagnitudeClass    string `json:"magnitude_class"`
	SignificanceLevel string `json:"significance_level"`
}

type eventsResponse struct {
	Criteria    criteriaView `json:"criteria"`
	EvaluatedAt time.Time    `json:"evaluated_at"`
	Count       int          `json:"count"`
	Events      []eventView  `json:"events"`
}

type statsResponse struct {
	Criteria      criteriaView        `json:"criteria"`
	ActivityLevel string              `json:"activity_level"`
	Summary       domain.StatsSummary `json:"summary"`
}

type insightsResponse struct {
	Available      bool                      `json:"available"`
	Conversation   insight.ConversationState `json:"conversation"`
	QuickQuestions []string                  `json:"quick_questions"`
}

type askRequest struct {
	Question     string  `json:"question"`
	MinMagnitude float64 `json:"min_magnitude"`
	Window       string  `json:"window"`
}

type askResponse struct {
	Outcome      insight.Outcome           `json:"outcome"`
	Events       int                       `json:"events"`
	Conversation insight.ConversationState `json:"conversation"`
}

func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	now := a.clock.Now()
	matched := domain.Apply(a.events.Snapshot(), criteria, now)
	views := make([]eventView, len(matched))
	for i, e := range matched {
		views[i] = eventView{
			Event:             e,
			MagnitudeClass:    domain.MagnitudeClass(e.Magnitude),
			SignificanceLevel: domain.SignificanceLevel(e.Significance),
		}
	}

	writeJSON(w, http.StatusOK, eventsResponse{
		Criteria:    viewCriteria(criteria),
		EvaluatedAt: now,
		Count:       len(views),
		Events:      views,
	})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	now := a.clock.Now()
	summary := domain.Summarize(domain.Apply(a.events.Snapshot(), criteria, now), now)

	writeJSON(w, http.StatusOK, statsResponse{
		Criteria:      viewCriteria(criteria),
		ActivityLevel: domain.ActivityLevel(summary.RecentCount),
		Summary:       summary,
	})
}

func (a *API) handleFeedStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.events.Status())
}

func (a *API) handleFeedRefresh(w http.ResponseWriter, r *http.Request) {
	if err := a.refresher.Refresh(r.Context()); err != nil {
		a.logger.Warn("manual refresh failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"status": a.events.Status(),
		})
		return
	}
	writeJSON(w, http.StatusOK, a.events.Status())
}

func (a *API) handleInsights(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, insightsResponse{
		Available:      a.insights.Available(),
		Conversation:   a.insights.Snapshot(),
		QuickQuestions: insight.QuickQuestions,
	})
}

func (a *API) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	window, err := domain.ParseTimeWindow(req.Window)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	criteria := domain.FilterCriteria{MinMagnitude: req.MinMagnitude, Window: window}
	if err := criteria.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	events := domain.Apply(a.events.Snapshot(), criteria, a.clock.Now())
	outcome := a.insights.Submit(r.Context(), req.Question, events)

	writeJSON(w, http.StatusAccepted, askResponse{
		Outcome:      outcome,
		Events:       len(events),
		Conversation: a.insights.Snapshot(),
	})
}

func criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	q := r.URL.Query()

	var criteria domain.FilterCriteria
	if s := q.Get("min_magnitude"); s != "" {
		m, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return criteria, errors.New("min_magnitude must be a number")
		}
		criteria.MinMagnitude = m
	}

	window, err := domain.ParseTimeWindow(q.Get("window"))
	if err != nil {
		return criteria, err
	}
	criteria.Window = window

	return criteria, criteria.Validate()
}

func viewCriteria(c domain.FilterCriteria) criteriaView {
	return criteriaView{MinMagnitude: c.MinMagnitude, Window: c.Window.String()}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
