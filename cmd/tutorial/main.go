// Command tutorial runs the deborgen onboarding sequence: it submits
// the two built-in example jobs in order and watches each to
// completion, narrating what it proves, matching cli/tutorial.py.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sacchen/deborgen/apiclient"
	"github.com/sacchen/deborgen/internal/clisupport"
)

var exampleCommands = map[string]string{
	"hello":  "uv run python examples/01_hello_worker.py",
	"primes": "uv run python examples/02_count_primes.py",
}

var sequence = []string{"hello", "primes"}

var stepTitles = map[string]string{
	"hello":  "Step 1: prove where the job runs",
	"primes": "Step 2: run a small practical compute job",
}

func main() {
	var (
		coordinator    string
		token          string
		pollSeconds    float64
		timeoutSeconds float64
	)

	root := &cobra.Command{
		Use:   "tutorial",
		Short: "Run the deborgen onboarding tutorial sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("DEBORGEN_TOKEN")
			}
			client := apiclient.New(coordinator, token)
			return runTutorial(context.Background(), client, coordinator, pollSeconds, timeoutSeconds)
		},
	}

	root.Flags().StringVar(&coordinator, "coordinator", "", "coordinator base URL (required)")
	root.Flags().StringVar(&token, "token", "", "bearer token (default DEBORGEN_TOKEN)")
	root.Flags().Float64Var(&pollSeconds, "poll-seconds", 1.0, "polling interval while waiting for completion")
	root.Flags().Float64Var(&timeoutSeconds, "timeout-seconds", 60.0, "per-job timeout while waiting for completion")
	_ = root.MarkFlagRequired("coordinator")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTutorial(ctx context.Context, client *apiclient.Client, coordinator string, pollSeconds, timeoutSeconds float64) error {
	fmt.Println("starting deborgen tutorial")

	for _, example := range sequence {
		command := exampleCommands[example]
		fmt.Println()
		fmt.Println(stepTitles[example])
		fmt.Printf("submitting example=%s\n", example)
		fmt.Printf("command=%s\n", command)

		job, err := client.CreateJob(ctx, command, int(timeoutSeconds), 1)
		if err != nil {
			return err
		}
		fmt.Printf("submitted %s\n", job.ID)

		if err := clisupport.WatchJob(ctx, client, job.ID, pollSeconds, timeoutSeconds, true); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println("what you just verified:")
	fmt.Println("- your local machine can submit jobs to the coordinator")
	fmt.Println("- the droplet worker claims and runs those jobs")
	fmt.Println("- logs come back through the coordinator API")
	fmt.Println()
	fmt.Println("next commands:")
	fmt.Printf("- submit one example: submit-example hello --coordinator %s\n", coordinator)
	fmt.Printf("- submit one example: submit-example primes --coordinator %s\n", coordinator)
	fmt.Printf("- watch a job: watch-job <job_id> --coordinator %s\n", coordinator)
	fmt.Printf("- list recent jobs: list-jobs --coordinator %s\n", coordinator)
	fmt.Println()
	fmt.Println("tutorial complete")
	return nil
}
