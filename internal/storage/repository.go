package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/hperssn/studyboard/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Repository interface {
	SaveSession(ctx context.Context, s *domain.StudySession) error

	// Standings returns the ranked totals inside w. limit <= 0 means all.
	Standings(ctx context.Context, w domain.Window, limit int) ([]domain.Standing, error)

	// StandingFor returns username's place in the full ranking inside w,
	// or nil when the user has no sessions there.
	StandingFor(ctx context.Context, w domain.Window, username string) (*domain.Standing, error)

	SessionsByUser(ctx context.Context, username string, w domain.Window) ([]domain.StudySession, error)

	Close() error
}

// Open builds the repository for driver. dsn is a file path for sqlite and
// a connection string for postgres; it is ignored for memory.
func Open(driver, dsn string) (Repository, error) {
	switch driver {
	case DriverSQLite, "sqlite3", "":
		return NewSQLiteRepository(dsn)
	case DriverPostgres:
		return NewPostgresRepository(dsn)
	case DriverMemory:
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
