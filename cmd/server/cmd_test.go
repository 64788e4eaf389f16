package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/leaderboard"
)

func init() {
	color.NoColor = true
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestPrintLeaderboard(t *testing.T) {
	res := &leaderboard.Result{
		Period: domain.PeriodDaily,
		Leaderboard: []domain.Standing{
			{Username: "bob", TotalMinutes: 30, Rank: 1},
		},
		UserRank: &domain.Standing{Username: "alice", TotalMinutes: 25, Rank: 2},
	}

	var buf bytes.Buffer
	printLeaderboard(&buf, res, "alice")

	out := buf.String()
	assert.Contains(t, out, "daily leaderboard")
	assert.Contains(t, out, "  1  bob")
	assert.Contains(t, out, "...")
	assert.Contains(t, out, "  2  alice")
	assert.Contains(t, out, "25.0 min")
}

func TestPrintEmptyLeaderboard(t *testing.T) {
	var buf bytes.Buffer
	printLeaderboard(&buf, &leaderboard.Result{Period: domain.PeriodLifetime}, "carol")

	assert.Contains(t, buf.String(), "No sessions logged yet.")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
	})
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestLogAndLeaderboardCommands(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	body := "storage:\n  driver: sqlite\n  sqlite_path: " + filepath.Join(dir, "study.db") + "\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(body), 0o644))

	out := run(t, "--config", cfgFile, "log", "alice", "25")
	assert.Contains(t, out, "Logged 25 minutes for alice")

	run(t, "--config", cfgFile, "log", "bob", "30")

	out = run(t, "--config", cfgFile, "leaderboard", "-p", "lifetime", "-u", "alice")
	assert.Contains(t, out, "lifetime leaderboard")
	assert.Contains(t, out, "  1  bob")
	assert.Contains(t, out, "  2  alice")
}

func TestLogRejectsBadMinutes(t *testing.T) {
	rootCmd.SetArgs([]string{"log", "alice", "soon"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	t.Chdir(t.TempDir())

	assert.Error(t, rootCmd.Execute())
}
