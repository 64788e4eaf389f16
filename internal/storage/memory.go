package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hperssn/studyboard/internal/domain"
)

// MemoryRepository keeps sessions in process. It ranks with domain.Rank, so
// it doubles as the reference the SQL backends are checked against.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions []domain.StudySession
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) SaveSession(ctx context.Context, s *domain.StudySession) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, *s)
	return nil
}

func (r *MemoryRepository) ranked(w domain.Window) []domain.Standing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.Rank(domain.FilterWindow(r.sessions, w))
}

func (r *MemoryRepository) Standings(ctx context.Context, w domain.Window, limit int) ([]domain.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return domain.Top(r.ranked(w), limit), nil
}

func (r *MemoryRepository) StandingFor(ctx context.Context, w domain.Window, username string) (*domain.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return domain.Find(r.ranked(w), username), nil
}

func (r *MemoryRepository) SessionsByUser(ctx context.Context, username string, w domain.Window) ([]domain.StudySession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var out []domain.StudySession
	for _, s := range r.sessions {
		if s.Username == username && w.Contains(s.CompletedAt) {
			out = append(out, s)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
