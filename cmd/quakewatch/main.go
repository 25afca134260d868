// Command quakewatch serves the USGS earthquake feed with filtering,
// statistics and language-model insights, and offers one-shot summary and
// question commands for the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quakewatch",
		Short:         "USGS earthquake feed service",
		Long:          "quakewatch ingests the USGS all_day GeoJSON feed, filters and summarizes it, and answers questions about recent activity.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSummaryCmd(), newAskCmd())
	return root
}
