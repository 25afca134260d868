package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/quakewatch/internal/insight"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question about the filtered feed and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.New("question is empty")
			}
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

			generator, err := newGenerator(cmd.Context(), run.cfg, run.logger)
			if err != nil {
				return err
			}
			orch := insight.New(generator, run.clock, run.cfg.GeminiTimeout, run.logger, run.metrics)

			outcome := orch.Submit(cmd.Context(), question, events)
			orch.Wait()
			run.logger.Debug("question answered", "outcome", outcome, "events", len(events))

			state := orch.Snapshot()
			reply := state.Messages[len(state.Messages)-1]
			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}
