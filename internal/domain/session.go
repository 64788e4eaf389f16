package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
)

// StudySession is one completed work interval. Rows are append-only.
type StudySession struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	DurationMinutes float64   `json:"duration_minutes"`
	CompletedAt     time.Time `json:"completed_at"`
}

// NewStudySession validates the input and stamps the record with a fresh ID.
// The username is trimmed; completedAt is stored in UTC.
func NewStudySession(username string, minutes float64, completedAt time.Time) (*StudySession, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingUsername
	}
	if !ValidDuration(minutes) {
		return nil, ErrInvalidDuration
	}

	return &StudySession{
		ID:              uuid.New().String(),
		Username:        username,
		DurationMinutes: minutes,
		CompletedAt:     completedAt.UTC(),
	}, nil
}

func ValidDuration(minutes float64) bool {
	return minutes > 0 && !math.IsInf(minutes, 0) && !math.IsNaN(minutes)
}
