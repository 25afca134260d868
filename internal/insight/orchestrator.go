package insight

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/couchcryptid/quakewatch/internal/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Orchestrator owns the insight conversation and drives its request state
// machine: Idle -> AwaitingResponse on Submit, back to Idle on OnResponse.
// All mutation goes through Submit and OnResponse; readers get copies from
// Snapshot.
type Orchestrator struct {
	generator Generator
	clock     clockwork.Clock
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	newID     func() string

	mu      sync.Mutex
	state   ConversationState
	lastMsg int64

	inflight sync.WaitGroup
}

// New creates an Orchestrator seeded with the assistant welcome message. A nil
// generator means no credential is configured; questions are then answered
// with MissingCredentialMessage and no call is attempted.
func New(generator Generator, clock clockwork.Clock, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Orchestrator {
	o := &Orchestrator{
		generator: generator,
		clock:     clock,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics,
		newID:     uuid.NewString,
		state:     ConversationState{Phase: PhaseIdle},
	}
	if generator != nil {
		metrics.InsightAvailable.Set(1)
	} else {
		metrics.InsightAvailable.Set(0)
	}
	o.appendLocked(RoleAssistant, WelcomeMessage)
	return o
}

// Submit asks question about events. It never blocks on the model: when a
// call is started it runs in its own goroutine and its result comes back
// through OnResponse. The returned Outcome says which path was taken.
func (o *Orchestrator) Submit(ctx context.Context, question string, events []domain.Event) Outcome {
	question = strings.TrimSpace(question)

	o.mu.Lock()
	if o.state.Phase != PhaseIdle || question == "" {
		o.mu.Unlock()
		o.metrics.InsightRequests.WithLabelValues(string(OutcomeIgnored)).Inc()
		return OutcomeIgnored
	}

	if len(events) == 0 {
		o.appendLocked(RoleAssistant, NoDataMessage)
		o.mu.Unlock()
		o.metrics.InsightRequests.WithLabelValues(string(OutcomeNoData)).Inc()
		return OutcomeNoData
	}

	if o.generator == nil {
		o.appendLocked(RoleAssistant, MissingCredentialMessage)
		o.mu.Unlock()
		o.metrics.InsightRequests.WithLabelValues(string(OutcomeMissingCredential)).Inc()
		return OutcomeMissingCredential
	}

	o.appendLocked(RoleUser, question)
	summary := domain.Summarize(events, o.clock.Now())
	prompt := BuildPrompt(question, summary)
	requestID := o.newID()
	o.state.Phase = PhaseAwaitingResponse
	o.state.PendingRequestID = requestID
	o.inflight.Add(1)
	o.mu.Unlock()

	o.metrics.InsightRequests.WithLabelValues(string(OutcomePending)).Inc()
	o.logger.Info("insight request started",
		"request_id", requestID,
		"events", summary.Total,
		"question_len", len(question),
	)

	// The model call outlives the caller's request; only its values are kept.
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	go func() {
		defer o.inflight.Done()
		defer cancel()

		start := o.clock.Now()
		text, err := o.generator.Generate(callCtx, prompt)
		o.metrics.ModelCallDuration.Observe(o.clock.Since(start).Seconds())
		o.OnResponse(requestID, text, err)
	}()

	return OutcomePending
}

// OnResponse completes the request identified by requestID. Completions for
// any other id are stale and dropped without touching state.
func (o *Orchestrator) OnResponse(requestID, text string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state.Phase != PhaseAwaitingResponse || requestID != o.state.PendingRequestID {
		o.metrics.InsightResponses.WithLabelValues("stale").Inc()
		o.logger.Warn("discarding stale model response", "request_id", requestID)
		return
	}

	if err != nil {
		kind := ClassifyModelError(err)
		o.metrics.InsightResponses.WithLabelValues(string(kind)).Inc()
		o.logger.Error("model call failed", "request_id", requestID, "kind", kind, "error", err)
		o.appendLocked(RoleAssistant, FailureMessage)
	} else {
		o.metrics.InsightResponses.WithLabelValues("success").Inc()
		reply := Sanitize(text)
		if reply == "" {
			o.logger.Warn("model returned empty reply", "request_id", requestID)
			reply = FailureMessage
		}
		o.appendLocked(RoleAssistant, reply)
	}

	o.state.Phase = PhaseIdle
	o.state.PendingRequestID = ""
}

// Snapshot returns a copy of the current conversation state.
func (o *Orchestrator) Snapshot() ConversationState {
	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.state
	s.Messages = make([]ChatMessage, len(o.state.Messages))
	copy(s.Messages, o.state.Messages)
	return s
}

// Available reports whether a language-model generator is configured.
func (o *Orchestrator) Available() bool {
	return o.generator != nil
}

// Wait blocks until every started model call has delivered its response.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// appendLocked adds a message; o.mu must be held (or o not yet shared).
func (o *Orchestrator) appendLocked(role Role, content string) {
	o.lastMsg++
	o.state.Messages = append(o.state.Messages, ChatMessage{
		ID:        o.lastMsg,
		Role:      role,
		Content:   content,
		CreatedAt: o.clock.Now(),
	})
}
