package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/studyboard/internal/domain"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "studyboard.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// repositories returns every backend available in this environment.
// Postgres joins only when STUDYBOARD_TEST_POSTGRES_DSN is set.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	repos := map[string]Repository{
		"memory": NewMemoryRepository(),
		"sqlite": setupTestRepo(t),
	}

	if dsn := os.Getenv("STUDYBOARD_TEST_POSTGRES_DSN"); dsn != "" {
		pg, err := NewPostgresRepository(dsn)
		require.NoError(t, err)
		_, err = pg.db.Exec("TRUNCATE study_sessions")
		require.NoError(t, err)
		t.Cleanup(func() { pg.Close() })
		repos["postgres"] = pg
	}

	return repos
}

func mustSave(t *testing.T, repo Repository, username string, minutes float64, at time.Time) {
	t.Helper()
	s, err := domain.NewStudySession(username, minutes, at)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSession(context.Background(), s))
}

func TestRepositoryScenarioAliceBob(t *testing.T) {
	now := time.Now().UTC()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			mustSave(t, repo, "alice", 25, now)
			mustSave(t, repo, "bob", 30, now)

			got, err := repo.Standings(context.Background(), domain.Window{}, 50)
			require.NoError(t, err)

			assert.Equal(t, []domain.Standing{
				{Username: "bob", TotalMinutes: 30, Rank: 1},
				{Username: "alice", TotalMinutes: 25, Rank: 2},
			}, got)
		})
	}
}

func TestRepositorySumsSessions(t *testing.T) {
	now := time.Now().UTC()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			mustSave(t, repo, "alice", 25, now)
			mustSave(t, repo, "alice", 25, now)

			got, err := repo.StandingFor(context.Background(), domain.Window{}, "alice")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, 50.0, got.TotalMinutes)
			assert.Equal(t, 1, got.Rank)
		})
	}
}

func TestRepositoryWindows(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			mustSave(t, repo, "today", 10, now)
			mustSave(t, repo, "yesterday", 20, now.AddDate(0, 0, -1))
			mustSave(t, repo, "last-year", 30, now.AddDate(-1, 0, 0))
			mustSave(t, repo, "tomorrow", 40, now.AddDate(0, 0, 1))

			ctx := context.Background()
			names := func(p domain.Period) []string {
				got, err := repo.Standings(ctx, domain.WindowFor(p, now), 0)
				require.NoError(t, err)
				out := make([]string, len(got))
				for i, s := range got {
					out[i] = s.Username
				}
				return out
			}

			assert.Equal(t, []string{"today"}, names(domain.PeriodDaily))
			assert.Equal(t, []string{"tomorrow", "yesterday", "today"}, names(domain.PeriodMonthly))
			assert.Equal(t, []string{"tomorrow", "last-year", "yesterday", "today"}, names(domain.PeriodLifetime))
		})
	}
}

func TestRepositoryLimitAndUntruncatedRank(t *testing.T) {
	now := time.Now().UTC()

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 60; i++ {
				mustSave(t, repo, fmt.Sprintf("user-%02d", i), float64(100-i), now)
			}

			ctx := context.Background()
			top, err := repo.Standings(ctx, domain.Window{}, 50)
			require.NoError(t, err)
			require.Len(t, top, 50)
			for i, s := range top {
				assert.Equal(t, i+1, s.Rank)
			}

			last, err := repo.StandingFor(ctx, domain.Window{}, "user-59")
			require.NoError(t, err)
			require.NotNil(t, last)
			assert.Equal(t, 60, last.Rank)
			assert.Equal(t, 41.0, last.TotalMinutes)
		})
	}
}

func TestRepositoryTieBreakMatchesDomain(t *testing.T) {
	now := time.Now().UTC()
	input := []struct {
		name    string
		minutes float64
	}{
		{"carol", 25}, {"Bob", 25}, {"alice", 25}, {"dave", 50}, {"alice", 0.5},
	}

	var reference []domain.StudySession
	for _, in := range input {
		reference = append(reference, domain.StudySession{Username: in.name, DurationMinutes: in.minutes, CompletedAt: now})
	}
	want := domain.Rank(reference)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, in := range input {
				mustSave(t, repo, in.name, in.minutes, now)
			}

			got, err := repo.Standings(context.Background(), domain.Window{}, 0)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			for _, s := range want {
				one, err := repo.StandingFor(context.Background(), domain.Window{}, s.Username)
				require.NoError(t, err)
				require.NotNil(t, one)
				assert.Equal(t, s.Rank, one.Rank, s.Username)
			}
		})
	}
}

func TestRepositoryStandingForMissingUser(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			mustSave(t, repo, "alice", 25, now.AddDate(0, 0, -2))

			got, err := repo.StandingFor(context.Background(), domain.WindowFor(domain.PeriodDaily, now), "alice")
			require.NoError(t, err)
			assert.Nil(t, got)

			got, err = repo.StandingFor(context.Background(), domain.Window{}, "nobody")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestRepositoryEmptyStandings(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			got, err := repo.Standings(context.Background(), domain.Window{}, 50)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestRepositorySessionsByUser(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			mustSave(t, repo, "alice", 25, now.Add(-2*time.Hour))
			mustSave(t, repo, "alice", 15, now.Add(-time.Hour))
			mustSave(t, repo, "alice", 5, now.AddDate(0, 0, -3))
			mustSave(t, repo, "bob", 30, now)

			got, err := repo.SessionsByUser(context.Background(), "alice", domain.WindowFor(domain.PeriodDaily, now))
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, 15.0, got[0].DurationMinutes)
			assert.Equal(t, 25.0, got[1].DurationMinutes)
			assert.True(t, got[0].CompletedAt.Equal(now.Add(-time.Hour)), "completed_at round trip: %v", got[0].CompletedAt)

			all, err := repo.SessionsByUser(context.Background(), "alice", domain.Window{})
			require.NoError(t, err)
			assert.Len(t, all, 3)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mongo", "")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenMemory(t *testing.T) {
	repo, err := Open(DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, repo)
}

func TestSQLiteRejectsNonPositiveDuration(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.SaveSession(context.Background(), &domain.StudySession{
		ID:              "bad",
		Username:        "alice",
		DurationMinutes: 0,
		CompletedAt:     time.Now(),
	})
	assert.Error(t, err)
}

func TestMemoryRepositoryHonorsContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Standings(ctx, domain.Window{}, 50)
	assert.ErrorIs(t, err, context.Canceled)
}
