package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hperssn/studyboard/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol server on stdin/stdout so AI assistants
can log sessions and read the leaderboard.

  {
    "mcpServers": {
      "studyboard": { "command": "studyboard", "args": ["mcp"] }
    }
  }

AVAILABLE TOOLS:

  log_session       Record a completed study session
  get_leaderboard   Rank users for a period
  list_sessions     One user's sessions, newest first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, repo, err := openService()
		if err != nil {
			return err
		}
		defer repo.Close()

		return mcp.NewServer(svc, version).Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
