// Command get-job prints one job's full details, matching
// cli/get_job.py's field-by-field output.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sacchen/deborgen/apiclient"
)

func main() {
	var (
		coordinator string
		token       string
	)

	root := &cobra.Command{
		Use:   "get-job <job_id>",
		Short: "Show details for one deborgen job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("DEBORGEN_TOKEN")
			}

			client := apiclient.New(coordinator, token)
			job, err := client.GetJob(context.Background(), args[0])
			if err != nil {
				return err
			}

			printField := func(name string, v any) { fmt.Printf("%s: %v\n", name, derefOrNil(v)) }
			printField("id", job.ID)
			printField("status", job.Status)
			printField("command", job.Command)
			printField("assigned_node_id", job.AssignedNodeID)
			printField("created_at", job.CreatedAt)
			printField("started_at", job.StartedAt)
			printField("finished_at", job.FinishedAt)
			printField("timeout_seconds", job.TimeoutSeconds)
			printField("attempts", job.Attempts)
			printField("max_attempts", job.MaxAttempts)
			printField("exit_code", job.ExitCode)
			printField("failure_reason", job.FailureReason)
			return nil
		},
	}

	root.Flags().StringVar(&coordinator, "coordinator", "", "coordinator base URL (required)")
	root.Flags().StringVar(&token, "token", "", "bearer token (default DEBORGEN_TOKEN)")
	_ = root.MarkFlagRequired("coordinator")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// derefOrNil prints None for a nil pointer rather than Go's "<nil>" for
// every pointer kind, matching Python's bare "None".
func derefOrNil(v any) any {
	switch t := v.(type) {
	case *string:
		if t == nil {
			return "None"
		}
		return *t
	case *int:
		if t == nil {
			return "None"
		}
		return *t
	case *time.Time:
		if t == nil {
			return "None"
		}
		return *t
	default:
		return v
	}
}
