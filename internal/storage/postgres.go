package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/hperssn/studyboard/internal/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS study_sessions (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		duration_minutes DOUBLE PRECISION NOT NULL CHECK (duration_minutes > 0),
		completed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE INDEX IF NOT EXISTS idx_study_sessions_username ON study_sessions(username);
	CREATE INDEX IF NOT EXISTS idx_study_sessions_completed_at ON study_sessions(completed_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) SaveSession(ctx context.Context, s *domain.StudySession) error {
	query, args := insertSessionQuery(postgresDialect, s)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Standings(ctx context.Context, w domain.Window, limit int) ([]domain.Standing, error) {
	query, args := standingsQuery(postgresDialect, w, limit)
	return queryStandings(ctx, r.db, query, args)
}

func (r *PostgresRepository) StandingFor(ctx context.Context, w domain.Window, username string) (*domain.Standing, error) {
	query, args := standingForQuery(postgresDialect, w, username)
	return queryStandingFor(ctx, r.db, query, args)
}

func (r *PostgresRepository) SessionsByUser(ctx context.Context, username string, w domain.Window) ([]domain.StudySession, error) {
	query, args := sessionsByUserQuery(postgresDialect, username, w)
	return querySessions(ctx, r.db, query, args)
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
