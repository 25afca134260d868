package main

import (
	"encoding/json"

	"github.com/couchcryptid/quakewatch/internal/domain"
	"github.com/spf13/cobra"
)

type summaryOutput struct {
	MinMagnitude  float64             `json:"min_magnitude"`
	Window        string              `json:"window"`
	ActivityLevel string              `json:"activity_level"`
	Summary       domain.StatsSummary `json:"summary"`
}

func newSummaryCmd() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch the feed once and print filtered statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria, err := flags.criteria()
			if err != nil {
				return err
			}
			run, err := newOneShot(cmd)
			if err != nil {
				return err
			}

			events, err := run.fetchFiltered(cmd.Context(), criteria)
			if err != nil {
				return err
			}
			summary := domain.Summarize(events, run.clock.Now())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summaryOutput{
				MinMagnitude:  criteria.MinMagnitude,
				Window:        criteria.Window.String(),
				ActivityLevel: domain.ActivityLevel(summary.RecentCount),
				Summary:       summary,
			})
		},
	}
	flags.register(cmd)
	return cmd
}
