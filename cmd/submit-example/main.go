// Command submit-example submits one of deborgen's two built-in example
// jobs to a coordinator, matching cli/submit_example.py.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sacchen/deborgen/apiclient"
)

// exampleCommands are the only two jobs this CLI knows how to submit,
// matching EXAMPLE_COMMANDS in the original.
var exampleCommands = map[string]string{
	"hello":  "uv run python examples/01_hello_worker.py",
	"primes": "uv run python examples/02_count_primes.py",
}

func main() {
	var (
		coordinator    string
		token          string
		timeoutSeconds int
		maxAttempts    int
	)

	choices := make([]string, 0, len(exampleCommands))
	for k := range exampleCommands {
		choices = append(choices, k)
	}
	sort.Strings(choices)

	root := &cobra.Command{
		Use:       fmt.Sprintf("submit-example [%s]", joinChoices(choices)),
		Short:     "Submit a built-in deborgen example job",
		Args:      cobra.ExactArgs(1),
		ValidArgs: choices,
		RunE: func(cmd *cobra.Command, args []string) error {
			example := args[0]
			command, ok := exampleCommands[example]
			if !ok {
				return fmt.Errorf("unknown example %q (choose from %s)", example, joinChoices(choices))
			}

			envToken := os.Getenv("DEBORGEN_TOKEN")
			if token == "" {
				token = envToken
			}

			client := apiclient.New(coordinator, token)
			job, err := client.CreateJob(context.Background(), command, timeoutSeconds, maxAttempts)
			if err != nil {
				return err
			}

			fmt.Printf("example=%s\n", example)
			fmt.Printf("command=%s\n", command)
			fmt.Printf("submitted %s\n", job.ID)

			watchCmd := fmt.Sprintf("watch-job %s --coordinator %s", job.ID, coordinator)
			if token != "" && token == envToken {
				watchCmd += " --token \"$DEBORGEN_TOKEN\""
			}
			fmt.Printf("watch: %s\n", watchCmd)
			return nil
		},
	}

	root.Flags().StringVar(&coordinator, "coordinator", "", "coordinator base URL (required)")
	root.Flags().StringVar(&token, "token", "", "bearer token (default DEBORGEN_TOKEN)")
	root.Flags().IntVar(&timeoutSeconds, "timeout-seconds", 3600, "job timeout passed to the coordinator")
	root.Flags().IntVar(&maxAttempts, "max-attempts", 1, "maximum attempts passed to the coordinator")
	_ = root.MarkFlagRequired("coordinator")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func joinChoices(choices []string) string {
	out := ""
	for i, c := range choices {
		if i > 0 {
			out += "|"
		}
		out += c
	}
	return out
}
