package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/prefs"
)

func isPreferenceValidation(err error) bool {
	return errors.Is(err, prefs.ErrInvalidTheme) ||
		errors.Is(err, prefs.ErrInvalidUsername) ||
		errors.Is(err, domain.ErrInvalidSettings)
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	p, err := s.Prefs.Get(r.Context(), username)
	if err != nil {
		if isPreferenceValidation(err) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("get preferences: %v", err)
		respondError(w, "failed to load preferences", http.StatusInternalServerError)
		return
	}

	respondJSON(w, p, http.StatusOK)
}

func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	// Fields left out of the body keep their current values.
	p, err := s.Prefs.Get(r.Context(), username)
	if err != nil {
		if isPreferenceValidation(err) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("get preferences: %v", err)
		respondError(w, "failed to load preferences", http.StatusInternalServerError)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.Prefs.Put(r.Context(), username, p); err != nil {
		if isPreferenceValidation(err) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("put preferences: %v", err)
		respondError(w, "failed to save preferences", http.StatusInternalServerError)
		return
	}

	respondJSON(w, p, http.StatusOK)
}
