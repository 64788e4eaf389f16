package domain

import (
	"sort"
	"strings"
)

// Standing is one user's summed study time and rank inside a window.
type Standing struct {
	Username     string  `json:"username"`
	TotalMinutes float64 `json:"total_minutes"`
	Rank         int     `json:"rank"`
}

// FilterWindow keeps the sessions completed inside w.
func FilterWindow(sessions []StudySession, w Window) []StudySession {
	if w.Unbounded() {
		return sessions
	}

	out := make([]StudySession, 0, len(sessions))
	for _, s := range sessions {
		if w.Contains(s.CompletedAt) {
			out = append(out, s)
		}
	}
	return out
}

// Rank groups sessions by username and orders the groups by total minutes,
// highest first. Equal totals are ordered by username so the result is
// deterministic. Rank is the 1-based position in that order.
func Rank(sessions []StudySession) []Standing {
	totals := make(map[string]float64)
	for _, s := range sessions {
		totals[s.Username] += s.DurationMinutes
	}

	standings := make([]Standing, 0, len(totals))
	for username, total := range totals {
		standings = append(standings, Standing{Username: username, TotalMinutes: total})
	}

	sort.Slice(standings, func(i, j int) bool {
		return Less(standings[i], standings[j])
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}

// Less reports whether a sorts before b in a leaderboard.
func Less(a, b Standing) bool {
	if a.TotalMinutes != b.TotalMinutes {
		return a.TotalMinutes > b.TotalMinutes
	}
	return strings.Compare(a.Username, b.Username) < 0
}

// Top returns at most n standings. n <= 0 means no limit.
func Top(standings []Standing, n int) []Standing {
	if n <= 0 || len(standings) <= n {
		return standings
	}
	return standings[:n]
}

// Find returns the standing for username, or nil.
func Find(standings []Standing, username string) *Standing {
	for i := range standings {
		if standings[i].Username == username {
			s := standings[i]
			return &s
		}
	}
	return nil
}
