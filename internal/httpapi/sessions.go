package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/leaderboard"
)

type logRequest struct {
	Username string  `json:"username"`
	Duration float64 `json:"duration"`
}

func (s *Server) logSession(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondText(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	_, err := s.Sessions.LogSession(r.Context(), usernameOr(r, req.Username), req.Duration)
	switch {
	case err == nil:
		respondText(w, "Session logged", http.StatusOK)
	case errors.Is(err, leaderboard.ErrValidation):
		respondText(w, "Missing username or duration", http.StatusBadRequest)
	default:
		log.Printf("log session: %v", err)
		respondText(w, "Failed to log session", http.StatusInternalServerError)
	}
}

func (s *Server) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := s.Sessions.Leaderboard(r.Context(), q.Get("period"), q.Get("user"))
	if err != nil {
		log.Printf("leaderboard: %v", err)
		respondText(w, "Failed to load leaderboard", http.StatusInternalServerError)
		return
	}

	respondJSON(w, result, http.StatusOK)
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sessions, err := s.Sessions.History(r.Context(), usernameOr(r, q.Get("user")), q.Get("period"))
	switch {
	case err == nil:
		if sessions == nil {
			sessions = []domain.StudySession{}
		}
		respondJSON(w, map[string]any{"sessions": sessions}, http.StatusOK)
	case errors.Is(err, leaderboard.ErrValidation):
		respondError(w, "user is required", http.StatusBadRequest)
	default:
		log.Printf("history: %v", err)
		respondError(w, "failed to load sessions", http.StatusInternalServerError)
	}
}
