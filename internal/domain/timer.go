package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type PhaseKind string

const (
	PhaseWork       PhaseKind = "work"
	PhaseShortBreak PhaseKind = "short_break"
	PhaseLongBreak  PhaseKind = "long_break"
)

type Phase struct {
	Index       int       `json:"index"`
	Kind        PhaseKind `json:"kind"`
	DurationSec int       `json:"durationSec"`
	StartedAt   time.Time `json:"startedAt,omitzero"`
	Completed   bool      `json:"completed"`
}

// Minutes is the phase length as it is recorded on the leaderboard.
func (p Phase) Minutes() float64 {
	return float64(p.DurationSec) / 60
}

type TimerSettings struct {
	WorkMinutes          int `json:"work_minutes" mapstructure:"work_minutes"`
	ShortBreakMinutes    int `json:"short_break_minutes" mapstructure:"short_break_minutes"`
	LongBreakMinutes     int `json:"long_break_minutes" mapstructure:"long_break_minutes"`
	SessionsForLongBreak int `json:"sessions_for_long_break" mapstructure:"sessions_for_long_break"`
}

func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		WorkMinutes:          25,
		ShortBreakMinutes:    5,
		LongBreakMinutes:     15,
		SessionsForLongBreak: 4,
	}
}

var ErrInvalidSettings = errors.New("timer settings must be positive")

func (s TimerSettings) Validate() error {
	if s.WorkMinutes <= 0 || s.ShortBreakMinutes <= 0 || s.LongBreakMinutes <= 0 || s.SessionsForLongBreak <= 0 {
		return ErrInvalidSettings
	}
	return nil
}

// Timer is a server-side pomodoro run for one user.
type Timer struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Phases        []Phase   `json:"phases"`
	CurrentIdx    int       `json:"currentPhase"`
	WorkCompleted int       `json:"workCompleted"`
	StartedAt     time.Time `json:"startedAt"`
	Completed     bool      `json:"completed"`
}

// PlanPhases lays out cycles work phases, each followed by a break. Every
// SessionsForLongBreak-th break is a long one.
func PlanPhases(s TimerSettings, cycles int) []Phase {
	if cycles < 1 {
		cycles = 1
	}

	phases := make([]Phase, 0, cycles*2)
	for i := 1; i <= cycles; i++ {
		phases = append(phases, Phase{Kind: PhaseWork, DurationSec: s.WorkMinutes * 60})

		if i%s.SessionsForLongBreak == 0 {
			phases = append(phases, Phase{Kind: PhaseLongBreak, DurationSec: s.LongBreakMinutes * 60})
		} else {
			phases = append(phases, Phase{Kind: PhaseShortBreak, DurationSec: s.ShortBreakMinutes * 60})
		}
	}

	for i := range phases {
		phases[i].Index = i
	}
	return phases
}

func NewTimer(id string, username string, s TimerSettings, cycles int) *Timer {
	if id == "" {
		id = uuid.New().String()
	}

	return &Timer{
		ID:         id,
		Username:   username,
		Phases:     PlanPhases(s, cycles),
		CurrentIdx: 0,
		StartedAt:  time.Now(),
	}
}
