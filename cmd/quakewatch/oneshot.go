package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quakewatch/internal/adapter/usgs"
	"github.com/couchcryptid/quakewatch/internal/config"
	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/couchcryptid/quakewatch/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// filterFlags are the criteria flags shared by the one-shot commands.
type filterFlags struct {
	minMagnitude float64
	window       string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.minMagnitude, "min-magnitude", 0, "minimum magnitude, 0 to 7 in steps of 0.5 (0 disables)")
	cmd.Flags().StringVar(&f.window, "window", "all", "time window: all, 1h, 6h or 24h")
}

func (f *filterFlags) criteria() (domain.FilterCriteria, error) {
	window, err := domain.ParseTimeWindow(f.window)
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	c := domain.FilterCriteria{MinMagnitude: f.minMagnitude, Window: window}
	if err := c.Validate(); err != nil {
		return domain.FilterCriteria{}, err
	}
	return c, nil
}

// oneShot is the environment of a single fetch-and-report command run.
type oneShot struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

func newOneShot(cmd *cobra.Command) (*oneShot, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &oneShot{
		cfg:     cfg,
		logger:  observability.NewLoggerTo(cmd.ErrOrStderr(), cfg),
		metrics: observability.NewMetricsWithRegistry(prometheus.NewRegistry()),
		clock:   clockwork.NewRealClock(),
	}, nil
}

// fetchFiltered fetches the feed once and applies criteria at the current time.
func (o *oneShot) fetchFiltered(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Event, error) {
	feed := usgs.NewClient(o.cfg.FeedURL, o.cfg.FeedTimeout, o.metrics, o.logger)
	events, err := feed.FetchEvents(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Apply(events, criteria, o.clock.Now()), nil
}
