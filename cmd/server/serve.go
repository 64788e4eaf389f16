package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hperssn/studyboard/internal/httpapi"
	"github.com/hperssn/studyboard/internal/prefs"
	"github.com/hperssn/studyboard/internal/runner"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the study timer API and, when server.static_dir is set, the
browser client.

ENDPOINTS:

  POST /api/log                  Record a completed session
  GET  /api/leaderboard          Rankings (?period=daily|monthly|lifetime&user=)
  GET  /api/sessions             One user's sessions (?user=&period=)
  GET  /api/preferences/{user}   Theme and timer lengths
  POST /api/timers               Start a server-side pomodoro timer
  GET  /api/timers/{id}/events   Timer progress as server-sent events`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, repo, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		store, err := prefs.Open(cfg.Storage.PrefsDir)
		if err != nil {
			return err
		}
		defer store.Close()
		store.SetTimerDefaults(cfg.Timer.Defaults)

		api := &httpapi.Server{
			Sessions:      svc,
			Prefs:         store,
			Cycles:        cfg.Timer.Cycles,
			TimerDefaults: cfg.Timer.Defaults,
			StaticDir:     cfg.Server.StaticDir,
		}
		if cfg.Timer.Enabled {
			timers := runner.NewTimerManager(svc, runner.ManagerOptions{})
			defer timers.Close()
			api.Timers = timers
		}

		srv := &http.Server{
			Addr:              cfg.Addr(),
			Handler:           api.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("listening on %s", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
