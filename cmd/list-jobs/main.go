// Command list-jobs lists recent deborgen jobs, matching
// cli/list_jobs.py's output format.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sacchen/deborgen/apiclient"
)

func main() {
	var (
		coordinator string
		token       string
		status      string
		limit       int
	)

	root := &cobra.Command{
		Use:   "list-jobs",
		Short: "List recent deborgen jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > 1000 {
				return fmt.Errorf("--limit must be between 1 and 1000")
			}
			switch status {
			case "", "queued", "running", "succeeded", "failed":
			default:
				return fmt.Errorf("--status must be one of queued, running, succeeded, failed")
			}

			if token == "" {
				token = os.Getenv("DEBORGEN_TOKEN")
			}

			client := apiclient.New(coordinator, token)
			jobs, err := client.ListJobs(context.Background(), status, limit)
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println("no jobs found")
				return nil
			}
			for _, j := range jobs {
				node := "unassigned"
				if j.AssignedNodeID != nil && *j.AssignedNodeID != "" {
					node = *j.AssignedNodeID
				}
				fmt.Printf("%s status=%s node=%s attempts=%d/%d command=%s\n",
					j.ID, j.Status, node, j.Attempts, j.MaxAttempts, j.Command)
			}
			return nil
		},
	}

	root.Flags().StringVar(&coordinator, "coordinator", "", "coordinator base URL (required)")
	root.Flags().StringVar(&token, "token", "", "bearer token (default DEBORGEN_TOKEN)")
	root.Flags().StringVar(&status, "status", "", "optional status filter (queued|running|succeeded|failed)")
	root.Flags().IntVar(&limit, "limit", 10, "maximum number of jobs to list")
	_ = root.MarkFlagRequired("coordinator")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
