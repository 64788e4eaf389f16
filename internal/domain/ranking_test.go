package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(username string, minutes float64, at time.Time) StudySession {
	return StudySession{Username: username, DurationMinutes: minutes, CompletedAt: at}
}

func TestRankOrdersByTotalDescending(t *testing.T) {
	now := time.Now()
	got := Rank([]StudySession{
		session("alice", 25, now),
		session("bob", 30, now),
	})

	assert.Equal(t, []Standing{
		{Username: "bob", TotalMinutes: 30, Rank: 1},
		{Username: "alice", TotalMinutes: 25, Rank: 2},
	}, got)
}

func TestRankSumsPerUser(t *testing.T) {
	now := time.Now()
	got := Rank([]StudySession{
		session("alice", 25, now),
		session("alice", 25, now),
		session("bob", 30, now),
	})

	require.Len(t, got, 2)
	assert.Equal(t, Standing{Username: "alice", TotalMinutes: 50, Rank: 1}, got[0])
	assert.Equal(t, Standing{Username: "bob", TotalMinutes: 30, Rank: 2}, got[1])
}

func TestRankBreaksTiesByUsername(t *testing.T) {
	now := time.Now()
	got := Rank([]StudySession{
		session("carol", 25, now),
		session("alice", 25, now),
		session("bob", 25, now),
		session("dave", 40, now),
	})

	names := make([]string, len(got))
	for i, s := range got {
		names[i] = s.Username
		assert.Equal(t, i+1, s.Rank)
	}
	assert.Equal(t, []string{"dave", "alice", "bob", "carol"}, names)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}

func TestRankNonIncreasing(t *testing.T) {
	now := time.Now()
	var sessions []StudySession
	for i := 0; i < 120; i++ {
		sessions = append(sessions, session(fmt.Sprintf("user-%03d", i%37), float64(i%11+1), now))
	}

	got := Rank(sessions)
	require.Len(t, got, 37)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalMinutes, got[i].TotalMinutes)
		assert.Equal(t, i+1, got[i].Rank)
	}
}

func TestTop(t *testing.T) {
	standings := make([]Standing, 75)
	for i := range standings {
		standings[i] = Standing{Username: fmt.Sprintf("u%d", i), Rank: i + 1}
	}

	assert.Len(t, Top(standings, 50), 50)
	assert.Len(t, Top(standings[:10], 50), 10)
	assert.Len(t, Top(standings, 0), 75)
}

func TestFind(t *testing.T) {
	standings := []Standing{
		{Username: "bob", TotalMinutes: 30, Rank: 1},
		{Username: "alice", TotalMinutes: 25, Rank: 2},
	}

	got := Find(standings, "alice")
	require.NotNil(t, got)
	assert.Equal(t, 2, got.Rank)

	got.Rank = 99
	assert.Equal(t, 2, standings[1].Rank, "Find must return a copy")

	assert.Nil(t, Find(standings, "carol"))
}

func TestFilterWindow(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	sessions := []StudySession{
		session("today", 25, now),
		session("yesterday", 25, now.AddDate(0, 0, -1)),
		session("last-month", 25, now.AddDate(0, -1, 0)),
	}

	daily := FilterWindow(sessions, WindowFor(PeriodDaily, now))
	require.Len(t, daily, 1)
	assert.Equal(t, "today", daily[0].Username)

	monthly := FilterWindow(sessions, WindowFor(PeriodMonthly, now))
	assert.Len(t, monthly, 2)

	assert.Len(t, FilterWindow(sessions, WindowFor(PeriodLifetime, now)), 3)
}
