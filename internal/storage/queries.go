package storage

import (
	"strconv"
	"strings"
	"time"

	"github.com/hperssn/studyboard/internal/domain"
)

// sqliteTimeLayout is fixed width so stored values compare correctly as text.
const sqliteTimeLayout = "2006-01-02 15:04:05.000"

// dialect covers the differences between the SQL backends: bind variable
// syntax, how timestamps are bound, and the collation used for tie-breaks.
type dialect struct {
	placeholder func(n int) string
	bindTime    func(t time.Time) any
	orderByName string
}

var sqliteDialect = dialect{
	placeholder: func(int) string { return "?" },
	bindTime:    func(t time.Time) any { return t.UTC().Format(sqliteTimeLayout) },
	orderByName: "username ASC",
}

var postgresDialect = dialect{
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	bindTime:    func(t time.Time) any { return t.UTC() },
	orderByName: `username COLLATE "C" ASC`,
}

type queryBuilder struct {
	d    dialect
	args []any
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return b.d.placeholder(len(b.args))
}

// where renders the window predicate. Bound values are appended in the
// order their placeholders appear, which positional "?" binding relies on.
func (b *queryBuilder) where(w domain.Window, username string) string {
	var conds []string
	if !w.Unbounded() {
		conds = append(conds, "completed_at >= "+b.bind(b.d.bindTime(w.Start)))
		conds = append(conds, "completed_at < "+b.bind(b.d.bindTime(w.End)))
	}
	if username != "" {
		conds = append(conds, "username = "+b.bind(username))
	}

	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

func insertSessionQuery(d dialect, s *domain.StudySession) (string, []any) {
	b := &queryBuilder{d: d}
	query := `
		INSERT INTO study_sessions (id, username, duration_minutes, completed_at)
		VALUES (` + b.bind(s.ID) + `, ` + b.bind(s.Username) + `, ` +
		b.bind(s.DurationMinutes) + `, ` + b.bind(d.bindTime(s.CompletedAt)) + `)`
	return query, b.args
}

func standingsQuery(d dialect, w domain.Window, limit int) (string, []any) {
	b := &queryBuilder{d: d}
	query := `
		SELECT username, SUM(duration_minutes) AS total_minutes
		FROM study_sessions
		` + b.where(w, "") + `
		GROUP BY username
		ORDER BY total_minutes DESC, ` + d.orderByName
	if limit > 0 {
		query += "\n\t\tLIMIT " + b.bind(limit)
	}
	return query, b.args
}

func standingForQuery(d dialect, w domain.Window, username string) (string, []any) {
	b := &queryBuilder{d: d}
	query := `
		WITH ranked AS (
			SELECT username, SUM(duration_minutes) AS total_minutes,
				ROW_NUMBER() OVER (ORDER BY SUM(duration_minutes) DESC, ` + d.orderByName + `) AS user_rank
			FROM study_sessions
			` + b.where(w, "") + `
			GROUP BY username
		)
		SELECT username, total_minutes, user_rank FROM ranked WHERE username = ` + b.bind(username)
	return query, b.args
}

func sessionsByUserQuery(d dialect, username string, w domain.Window) (string, []any) {
	b := &queryBuilder{d: d}
	query := `
		SELECT id, username, duration_minutes, completed_at
		FROM study_sessions
		` + b.where(w, username) + `
		ORDER BY completed_at DESC`
	return query, b.args
}
