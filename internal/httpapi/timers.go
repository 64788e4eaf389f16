package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/runner"
)

const defaultCycles = 4

type startTimerRequest struct {
	Username string                `json:"username"`
	Cycles   int                   `json:"cycles"`
	Settings *domain.TimerSettings `json:"settings"`
}

func (s *Server) startTimer(w http.ResponseWriter, r *http.Request) {
	var req startTimerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(usernameOr(r, req.Username))
	if username == "" {
		respondError(w, "username is required", http.StatusBadRequest)
		return
	}

	settings := s.TimerDefaults
	if settings == (domain.TimerSettings{}) {
		settings = domain.DefaultTimerSettings()
	}
	switch {
	case req.Settings != nil:
		settings = *req.Settings
	case s.Prefs != nil:
		p, err := s.Prefs.Get(r.Context(), username)
		if err != nil {
			log.Printf("timer preferences for %s: %v", username, err)
		} else {
			settings = p.TimerSettings
		}
	}
	if err := settings.Validate(); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cycles := req.Cycles
	if cycles <= 0 {
		cycles = s.Cycles
	}
	if cycles <= 0 {
		cycles = defaultCycles
	}

	timer := domain.NewTimer("", username, settings, cycles)
	if err := s.Timers.StartTimer(timer); err != nil {
		respondError(w, err.Error(), http.StatusConflict)
		return
	}

	respondJSON(w, timer, http.StatusCreated)
}

func (s *Server) getTimer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	timer, ok := s.Timers.GetTimer(id)
	if !ok {
		respondError(w, "timer not found", http.StatusNotFound)
		return
	}

	respondJSON(w, timer, http.StatusOK)
}

type timerStatus struct {
	ID            string `json:"id"`
	Completed     bool   `json:"completed"`
	Current       int    `json:"currentPhase"`
	WorkCompleted int    `json:"workCompleted"`
}

func (s *Server) getTimerStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	timer, ok := s.Timers.GetTimer(id)
	if !ok {
		respondError(w, "timer not found", http.StatusNotFound)
		return
	}

	respondJSON(w, timerStatus{
		ID:            timer.ID,
		Completed:     timer.Completed,
		Current:       timer.CurrentIdx,
		WorkCompleted: timer.WorkCompleted,
	}, http.StatusOK)
}

func (s *Server) stopTimer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Timers.StopTimer(id); err != nil {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) startPhase(w http.ResponseWriter, r *http.Request) {
	s.controlPhase(w, r, s.Timers.StartPhase)
}

func (s *Server) stopPhase(w http.ResponseWriter, r *http.Request) {
	s.controlPhase(w, r, s.Timers.StopPhase)
}

func (s *Server) controlPhase(w http.ResponseWriter, r *http.Request, op func(id string, idx int) error) {
	id := chi.URLParam(r, "id")
	idx, err := parsePhaseIndex(r)
	if err != nil {
		respondError(w, "invalid phase index", http.StatusBadRequest)
		return
	}

	if err := op(id, idx); err != nil {
		respondError(w, err.Error(), phaseErrorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func phaseErrorStatus(err error) int {
	switch {
	case errors.Is(err, runner.ErrTimerNotFound):
		return http.StatusNotFound
	case errors.Is(err, runner.ErrInvalidPhase):
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func parsePhaseIndex(r *http.Request) (int, error) {
	idxStr := chi.URLParam(r, "idx")
	return strconv.Atoi(idxStr)
}
