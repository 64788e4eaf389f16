// Package leaderboard records completed study sessions and ranks users by
// the minutes they studied inside a daily, monthly or lifetime window.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/storage"
)

const DefaultLimit = 50

var ErrValidation = errors.New("validation failed")

// StorageError marks a failed read or write against the session store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Clock abstracts time so window boundaries are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type Options struct {
	// Limit caps the leaderboard length. Zero means DefaultLimit.
	Limit int
	// Location decides where a day or month starts. Nil means UTC.
	Location *time.Location
	Clock    Clock
}

type Service struct {
	repo  storage.Repository
	clock Clock
	loc   *time.Location
	limit int
}

func NewService(repo storage.Repository, opts Options) *Service {
	s := &Service{
		repo:  repo,
		clock: opts.Clock,
		loc:   opts.Location,
		limit: opts.Limit,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.limit <= 0 {
		s.limit = DefaultLimit
	}
	return s
}

// Result is the leaderboard payload. UserRank is nil when no user was asked
// for or the user has no sessions in the window.
type Result struct {
	Period      domain.Period     `json:"-"`
	Leaderboard []domain.Standing `json:"leaderboard"`
	UserRank    *domain.Standing  `json:"userRank"`
}

// LogSession appends one completed session for username. Retried calls
// append duplicates.
func (s *Service) LogSession(ctx context.Context, username string, minutes float64) (*domain.StudySession, error) {
	session, err := domain.NewStudySession(username, minutes, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, &StorageError{Op: "log session", Err: err}
	}
	return session, nil
}

func (s *Service) window(p domain.Period) domain.Window {
	return domain.WindowFor(p, s.clock.Now().In(s.loc))
}

// Leaderboard ranks users inside the window named by period. A non-empty
// user additionally gets their place in the untruncated ranking.
func (s *Service) Leaderboard(ctx context.Context, period string, user string) (*Result, error) {
	user = strings.TrimSpace(user)
	p := domain.ParsePeriod(period)
	w := s.window(p)

	standings, err := s.repo.Standings(ctx, w, s.limit)
	if err != nil {
		return nil, &StorageError{Op: "read leaderboard", Err: err}
	}

	result := &Result{Period: p, Leaderboard: standings}
	if result.Leaderboard == nil {
		result.Leaderboard = []domain.Standing{}
	}

	if user != "" {
		rank, err := s.repo.StandingFor(ctx, w, user)
		if err != nil {
			return nil, &StorageError{Op: "read user rank", Err: err}
		}
		result.UserRank = rank
	}

	return result, nil
}

// History lists one user's sessions inside the window, newest first.
func (s *Service) History(ctx context.Context, username string, period string) ([]domain.StudySession, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidation, domain.ErrMissingUsername)
	}

	sessions, err := s.repo.SessionsByUser(ctx, username, s.window(domain.ParsePeriod(period)))
	if err != nil {
		return nil, &StorageError{Op: "read history", Err: err}
	}
	return sessions, nil
}
