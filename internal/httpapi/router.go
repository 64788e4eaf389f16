// Package httpapi exposes session logging, the leaderboard, user
// preferences and server-side pomodoro timers over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/leaderboard"
	"github.com/hperssn/studyboard/internal/prefs"
	"github.com/hperssn/studyboard/internal/runner"
)

type SessionService interface {
	LogSession(ctx context.Context, username string, minutes float64) (*domain.StudySession, error)
	Leaderboard(ctx context.Context, period string, user string) (*leaderboard.Result, error)
	History(ctx context.Context, username string, period string) ([]domain.StudySession, error)
}

type PreferenceStore interface {
	Get(ctx context.Context, username string) (prefs.Preferences, error)
	Put(ctx context.Context, username string, p prefs.Preferences) error
}

type Server struct {
	Sessions SessionService
	// Prefs and Timers are optional; their routes are only mounted when set.
	Prefs  PreferenceStore
	Timers *runner.TimerManager
	// Cycles is the number of work phases a new timer plans by default.
	Cycles int
	// TimerDefaults applies when neither the request nor Prefs give
	// settings. The zero value means domain.DefaultTimerSettings.
	TimerDefaults domain.TimerSettings
	// StaticDir serves the browser client when non-empty.
	StaticDir string
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(IdentityMiddleware)

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Route("/api", func(r chi.Router) {
		r.Post("/log", s.logSession)
		r.Get("/leaderboard", s.getLeaderboard)
		r.Get("/sessions", s.getHistory)

		if s.Prefs != nil {
			r.Get("/preferences/{username}", s.getPreferences)
			r.Put("/preferences/{username}", s.putPreferences)
		}

		if s.Timers != nil {
			r.Post("/timers", s.startTimer)
			r.Get("/timers/{id}", s.getTimer)
			r.Get("/timers/{id}/status", s.getTimerStatus)
			r.Post("/timers/{id}/stop", s.stopTimer)
			r.Post("/timers/{id}/phases/{idx}/start", s.startPhase)
			r.Post("/timers/{id}/phases/{idx}/stop", s.stopPhase)
			r.Get("/timers/{id}/events", StreamTimerEvents(s.Timers))
		}
	})

	if s.StaticDir != "" {
		index := filepath.Join(s.StaticDir, "index.html")
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		})
		fs := http.FileServer(http.Dir(s.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	return r
}
