package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log <username> <minutes>",
	Short: "Record a completed study session",
	Long: `Record a completed study session, stamped with the current time.

EXAMPLES:

  studyboard log alice 25      # A full pomodoro
  studyboard log bob 12.5      # Fractional minutes are kept`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid minutes %q: %w", args[1], err)
		}

		svc, repo, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		session, err := svc.LogSession(cmd.Context(), args[0], minutes)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Logged %g minutes for %s %s\n",
			color.GreenString("✓"),
			session.DurationMinutes,
			session.Username,
			color.New(color.Faint).Sprint(session.ID[:8]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)
}
