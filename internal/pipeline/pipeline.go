package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/couchcryptid/quakewatch/internal/observability"
	"github.com/jonboulle/clockwork"
)

// RefreshInterval is the fixed period between scheduled feed refreshes.
const RefreshInterval = 300 * time.Second

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Fetcher retrieves the current list of events from the feed.
type Fetcher interface {
	FetchEvents(ctx context.Context) ([]domain.Event, error)
}

// Publisher forwards an accepted snapshot downstream.
type Publisher interface {
	Publish(ctx context.Context, events []domain.Event, fetchedAt time.Time) error
}

// Pipeline keeps the Store in sync with the feed: one fetch on start, then one
// per RefreshInterval, plus manual refreshes.
type Pipeline struct {
	fetcher     Fetcher
	publisher   Publisher
	store       *Store
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
	interval    time.Duration
	maxAttempts int

	seq   atomic.Uint64
	ready atomic.Bool
}

// New creates a Pipeline. publisher may be nil.
func New(f Fetcher, pub Publisher, store *Store, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, maxAttempts int) *Pipeline {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Pipeline{
		fetcher:     f,
		publisher:   pub,
		store:       store,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
		interval:    RefreshInterval,
		maxAttempts: maxAttempts,
	}
}

// Store returns the store the pipeline writes to.
func (p *Pipeline) Store() *Store {
	return p.store
}

// CheckReadiness returns nil once a snapshot has been loaded, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no earthquake snapshot loaded yet")
	}
	return nil
}

// Run refreshes the feed until the context is cancelled. Refresh failures are
// logged and recorded in the store; they never stop the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("feed refresher started", "interval", p.interval, "max_attempts", p.maxAttempts)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.refreshLogged(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("feed refresher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			p.refreshLogged(ctx)
		}
	}
}

func (p *Pipeline) refreshLogged(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
		p.logger.Error("feed refresh failed", "error", err)
	}
}

// Refresh performs one fetch (with retries) and applies the result to the
// store. It returns the fetch error, if any.
func (p *Pipeline) Refresh(ctx context.Context) error {
	seq := p.seq.Add(1)

	events, err := p.fetchWithRetry(ctx)
	now := p.clock.Now()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !p.store.RecordFailure(seq, err, now) {
			p.metrics.FeedStaleDiscarded.Inc()
		}
		return err
	}

	if !p.store.Replace(seq, events, now) {
		p.metrics.FeedStaleDiscarded.Inc()
		p.logger.Warn("discarding stale feed result", "sequence", seq)
		return nil
	}

	p.metrics.FeedEvents.Set(float64(len(events)))
	p.ready.Store(true)
	p.logger.Info("feed snapshot updated", "sequence", seq, "events", len(events))

	p.publish(ctx, events, now)
	return nil
}

func (p *Pipeline) fetchWithRetry(ctx context.Context) ([]domain.Event, error) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		events, err := p.fetcher.FetchEvents(ctx)
		if err == nil {
			return events, nil
		}
		if attempt >= p.maxAttempts || ctx.Err() != nil {
			return nil, err
		}
		p.logger.Warn("feed fetch failed, retrying",
			"error", err,
			"attempt", attempt,
			"backoff", backoff,
		)
		if !p.sleep(ctx, backoff) {
			return nil, err
		}
		backoff = nextBackoff(backoff, maxBackoff)
	}
}

func (p *Pipeline) publish(ctx context.Context, events []domain.Event, fetchedAt time.Time) {
	if p.publisher == nil || len(events) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, events, fetchedAt); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish snapshot failed", "error", err, "events", len(events))
		return
	}
	p.metrics.EventsPublished.Add(float64(len(events)))
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(d):
		return true
	}
}

func nextBackoff(current, limit time.Duration) time.Duration {
	next := current * 2
	if next > limit {
		return limit
	}
	return next
}
