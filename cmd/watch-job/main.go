// Command watch-job polls a deborgen job until it reaches a terminal
// state, printing a one-line summary on every poll, matching
// cli/watch_job.py.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sacchen/deborgen/apiclient"
	"github.com/sacchen/deborgen/internal/clisupport"
)

func main() {
	var (
		coordinator    string
		token          string
		pollSeconds    float64
		timeoutSeconds float64
		noLogs         bool
	)

	root := &cobra.Command{
		Use:   "watch-job <job_id>",
		Short: "Watch a deborgen job until it reaches a terminal state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("DEBORGEN_TOKEN")
			}
			client := apiclient.New(coordinator, token)
			return clisupport.WatchJob(context.Background(), client, args[0], pollSeconds, timeoutSeconds, !noLogs)
		},
	}

	root.Flags().StringVar(&coordinator, "coordinator", "", "coordinator base URL (required)")
	root.Flags().StringVar(&token, "token", "", "bearer token (default DEBORGEN_TOKEN)")
	root.Flags().Float64Var(&pollSeconds, "poll-seconds", 1.0, "polling interval while waiting for completion")
	root.Flags().Float64Var(&timeoutSeconds, "timeout-seconds", 30.0, "how long to wait before giving up")
	root.Flags().BoolVar(&noLogs, "no-logs", false, "do not fetch logs after the job completes")
	_ = root.MarkFlagRequired("coordinator")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
