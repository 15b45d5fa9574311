// Package clisupport holds the pieces of CLI behavior shared by more
// than one command binary, mirroring how the original Python tutorial
// script imported watch_job and submit_example_job directly from their
// sibling CLI modules rather than duplicating them.
package clisupport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sacchen/deborgen/apiclient"
)

// WatchJob polls jobID until it reaches a terminal status or
// timeoutSeconds elapses, printing one summary line per poll. When a
// terminal state is reached and includeLogs is set, it also fetches and
// prints the job's accumulated log text.
func WatchJob(ctx context.Context, client *apiclient.Client, jobID string, pollSeconds, timeoutSeconds float64, includeLogs bool) error {
	deadline := time.Now().Add(time.Duration(timeoutSeconds * float64(time.Second)))

	for {
		job, err := client.GetJob(ctx, jobID)
		if err != nil {
			return err
		}

		node := "unassigned"
		if job.AssignedNodeID != nil && *job.AssignedNodeID != "" {
			node = *job.AssignedNodeID
		}
		exitCode := "None"
		if job.ExitCode != nil {
			exitCode = fmt.Sprintf("%d", *job.ExitCode)
		}
		fmt.Printf("job=%s status=%s node=%s exit_code=%s\n", job.ID, job.Status, node, exitCode)

		if job.Status == "succeeded" || job.Status == "failed" {
			if !includeLogs {
				return nil
			}
			text, err := client.ReadLogs(ctx, jobID)
			if err != nil {
				return err
			}
			if text != "" {
				fmt.Println()
				fmt.Println("logs:")
				if strings.HasSuffix(text, "\n") {
					fmt.Print(text)
				} else {
					fmt.Println(text)
				}
			}
			return nil
		}

		if !time.Now().Before(deadline) {
			return fmt.Errorf("timed out waiting for %s", jobID)
		}
		time.Sleep(time.Duration(pollSeconds * float64(time.Second)))
	}
}
