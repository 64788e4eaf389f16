package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/leaderboard"
)

var (
	boardPeriod string
	boardUser   string
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb", "top"},
	Short:   "Show the study leaderboard",
	Long: `Show users ranked by minutes studied in a window.

PERIODS:

  daily      Since midnight in leaderboard.timezone (default)
  monthly    Since the first of the month
  lifetime   Everything ever logged

EXAMPLES:

  studyboard leaderboard
  studyboard leaderboard -p monthly -u alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, repo, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		res, err := svc.Leaderboard(cmd.Context(), boardPeriod, boardUser)
		if err != nil {
			return fmt.Errorf("failed to load leaderboard: %w", err)
		}

		printLeaderboard(cmd.OutOrStdout(), res, boardUser)
		return nil
	},
}

func printLeaderboard(w io.Writer, res *leaderboard.Result, user string) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	bold.Fprintf(w, "%s leaderboard\n", res.Period)
	if len(res.Leaderboard) == 0 {
		faint.Fprintln(w, "No sessions logged yet.")
		return
	}

	for _, s := range res.Leaderboard {
		line := fmt.Sprintf("%3d  %s %8.1f min", s.Rank, padRight(s.Username, 20), s.TotalMinutes)
		switch {
		case s.Username == user:
			color.New(color.FgCyan, color.Bold).Fprintln(w, line)
		case s.Rank == 1:
			color.New(color.FgYellow).Fprintln(w, line)
		default:
			fmt.Fprintln(w, line)
		}
	}

	if user == "" {
		return
	}
	if res.UserRank == nil {
		faint.Fprintf(w, "%s has no sessions in this period.\n", user)
		return
	}
	if !onBoard(res.Leaderboard, user) {
		faint.Fprintln(w, "...")
		color.New(color.FgCyan, color.Bold).Fprintf(w, "%3d  %s %8.1f min\n",
			res.UserRank.Rank, padRight(user, 20), res.UserRank.TotalMinutes)
	}
}

func onBoard(standings []domain.Standing, user string) bool {
	return domain.Find(standings, user) != nil
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	leaderboardCmd.Flags().StringVarP(&boardPeriod, "period", "p", "daily", "daily, monthly or lifetime")
	leaderboardCmd.Flags().StringVarP(&boardUser, "user", "u", "", "highlight this user's rank")
	rootCmd.AddCommand(leaderboardCmd)
}
