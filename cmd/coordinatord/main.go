// Command coordinatord runs the deborgen coordinator: it opens the
// SQLite-backed store, wires it behind a lifecycle.Service, and serves
// the HTTP surface described by spec §6.1 until terminated.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/sacchen/deborgen/httpapi"
	"github.com/sacchen/deborgen/lifecycle"
	"github.com/sacchen/deborgen/store"
)

func main() {
	var (
		addr          string
		dbPath        string
		token         string
		leaseDuration time.Duration
	)

	root := &cobra.Command{
		Use:   "coordinatord",
		Short: "Run the deborgen coordinator daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(os.Stderr, nil))

			if dbPath == "" {
				dbPath = envOr("DEBORGEN_DB_PATH", "deborgen.db")
			}
			if token == "" {
				token = os.Getenv("DEBORGEN_TOKEN")
			}

			sqldb, err := sql.Open("sqlite", dbPath)
			if err != nil {
				return fmt.Errorf("coordinatord: open %s: %w", dbPath, err)
			}
			defer sqldb.Close()
			sqldb.SetMaxOpenConns(1)

			db := bun.NewDB(sqldb, sqlitedialect.New())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := store.InitDB(ctx, db); err != nil {
				return fmt.Errorf("coordinatord: init schema: %w", err)
			}

			svc := lifecycle.New(store.NewStore(db), leaseDuration)
			srv := httpapi.New(svc, token, log)

			httpServer := &http.Server{Addr: addr, Handler: srv}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				log.Info("shutting down")
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				_ = httpServer.Shutdown(shutdownCtx)
				cancel()
			}()

			log.Info("coordinator listening", "addr", addr, "db", dbPath, "auth", token != "")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("coordinatord: serve: %w", err)
			}
			return nil
		},
	}

	root.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	root.Flags().StringVar(&dbPath, "db-path", "", "sqlite database path (default DEBORGEN_DB_PATH or deborgen.db)")
	root.Flags().StringVar(&token, "token", "", "bearer token required on every request (default DEBORGEN_TOKEN)")
	root.Flags().DurationVar(&leaseDuration, "lease-duration", lifecycle.DefaultLeaseDuration, "lease duration granted to a claimed job")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
