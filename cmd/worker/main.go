// Command worker runs one deborgen worker agent: it heartbeats,
// polls the coordinator for work, executes the claimed command, and
// reports the result, per spec §4.4. Flags mirror the original
// worker/agent.py argparse surface.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sacchen/deborgen/workeragent"
)

func main() {
	var (
		coordinator   string
		nodeID        string
		name          string
		labelsJSON    string
		token         string
		pollSeconds   float64
		heartbeatSecs float64
		workDir       string
	)

	root := &cobra.Command{
		Use:   "worker",
		Short: "Run a deborgen worker agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("DEBORGEN_TOKEN")
			}

			var labels map[string]any
			if labelsJSON != "" {
				if err := json.Unmarshal([]byte(labelsJSON), &labels); err != nil {
					return fmt.Errorf("worker: --labels-json: %w", err)
				}
			}

			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			cfg := workeragent.Config{
				Coordinator:       coordinator,
				NodeID:            nodeID,
				Name:              name,
				Labels:            labels,
				Token:             token,
				PollInterval:      time.Duration(pollSeconds * float64(time.Second)),
				HeartbeatInterval: time.Duration(heartbeatSecs * float64(time.Second)),
				WorkDir:           workDir,
			}
			agent := workeragent.New(cfg, log)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.Info("shutting down")
				cancel()
			}()

			if err := agent.Start(ctx); err != nil {
				return fmt.Errorf("worker: start: %w", err)
			}

			<-ctx.Done()
			return agent.Stop(10 * time.Second)
		},
	}

	root.Flags().StringVar(&coordinator, "coordinator", "", "coordinator base URL (required)")
	root.Flags().StringVar(&nodeID, "node-id", "", "this worker's node id (required)")
	root.Flags().StringVar(&name, "name", "", "human-readable node name")
	root.Flags().StringVar(&labelsJSON, "labels-json", "", "node labels as a JSON object")
	root.Flags().StringVar(&token, "token", "", "bearer token (default DEBORGEN_TOKEN)")
	root.Flags().Float64Var(&pollSeconds, "poll-seconds", workeragent.DefaultPollInterval.Seconds(), "polling interval while idle")
	root.Flags().Float64Var(&heartbeatSecs, "heartbeat-seconds", workeragent.DefaultHeartbeatInterval.Seconds(), "heartbeat interval")
	root.Flags().StringVar(&workDir, "work-dir", "", "working directory for executed commands")
	_ = root.MarkFlagRequired("coordinator")
	_ = root.MarkFlagRequired("node-id")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
