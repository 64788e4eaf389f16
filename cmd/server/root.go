package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hperssn/studyboard/internal/config"
	"github.com/hperssn/studyboard/internal/leaderboard"
	"github.com/hperssn/studyboard/internal/storage"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "studyboard",
	Short: "Pomodoro study timer with a shared leaderboard",
	Long: `Studyboard records completed study sessions and ranks users by the
minutes they studied today, this month or in total.

QUICK START:

  $ studyboard serve                      # Start the HTTP API on :8080
  $ studyboard log alice 25               # Record a 25 minute session
  $ studyboard leaderboard -p monthly     # Show this month's ranking

CONFIGURATION:

  Settings are read from config.yaml in the working directory, or from the
  file given with --config. Every key can be overridden with an environment
  variable prefixed STUDYBOARD_, e.g. STUDYBOARD_STORAGE_DRIVER=postgres.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.yaml)")
	rootCmd.AddCommand(versionCmd)
}

// openService opens the configured session store. The caller closes the
// returned repository.
func openService() (*leaderboard.Service, storage.Repository, error) {
	repo, err := storage.Open(cfg.Storage.Driver, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		repo.Close()
		return nil, nil, err
	}

	svc := leaderboard.NewService(repo, leaderboard.Options{
		Limit:    cfg.Leaderboard.Limit,
		Location: loc,
	})
	return svc, repo, nil
}
