package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hperssn/studyboard/internal/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS study_sessions (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		duration_minutes REAL NOT NULL CHECK (duration_minutes > 0),
		completed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_study_sessions_username ON study_sessions(username);
	CREATE INDEX IF NOT EXISTS idx_study_sessions_completed_at ON study_sessions(completed_at);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteRepository) SaveSession(ctx context.Context, s *domain.StudySession) error {
	query, args := insertSessionQuery(sqliteDialect, s)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert study session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Standings(ctx context.Context, w domain.Window, limit int) ([]domain.Standing, error) {
	query, args := standingsQuery(sqliteDialect, w, limit)
	return queryStandings(ctx, r.db, query, args)
}

func (r *SQLiteRepository) StandingFor(ctx context.Context, w domain.Window, username string) (*domain.Standing, error) {
	query, args := standingForQuery(sqliteDialect, w, username)
	return queryStandingFor(ctx, r.db, query, args)
}

func (r *SQLiteRepository) SessionsByUser(ctx context.Context, username string, w domain.Window) ([]domain.StudySession, error) {
	query, args := sessionsByUserQuery(sqliteDialect, username, w)
	return querySessions(ctx, r.db, query, args)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func queryStandings(ctx context.Context, db *sql.DB, query string, args []any) ([]domain.Standing, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	standings := []domain.Standing{}
	for rows.Next() {
		var s domain.Standing
		if err := rows.Scan(&s.Username, &s.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		s.Rank = len(standings) + 1
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

func queryStandingFor(ctx context.Context, db *sql.DB, query string, args []any) (*domain.Standing, error) {
	var s domain.Standing
	err := db.QueryRowContext(ctx, query, args...).Scan(&s.Username, &s.TotalMinutes, &s.Rank)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user standing: %w", err)
	}
	return &s, nil
}

func querySessions(ctx context.Context, db *sql.DB, query string, args []any) ([]domain.StudySession, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.StudySession
	for rows.Next() {
		var s domain.StudySession
		if err := rows.Scan(&s.ID, &s.Username, &s.DurationMinutes, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.CompletedAt = s.CompletedAt.UTC()
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}
