package runner

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hperssn/studyboard/internal/domain"
)

var (
	ErrTimerExists   = errors.New("timer already exists")
	ErrTimerNotFound = errors.New("timer not found")
	ErrInvalidPhase  = errors.New("invalid phase index")
)

// SessionRecorder stores a finished work phase on the leaderboard.
type SessionRecorder interface {
	LogSession(ctx context.Context, username string, minutes float64) (*domain.StudySession, error)
}

type ManagerOptions struct {
	// Unit is the length of one phase second. Zero means time.Second.
	Unit time.Duration
	// Retention is how long completed timers are kept. Zero means an hour.
	Retention time.Duration
	// CleanupInterval is how often expired timers are dropped.
	// Zero means five minutes.
	CleanupInterval time.Duration
}

type TimerManager struct {
	mu     sync.Mutex
	timers map[string]*TimerRunner

	recorder SessionRecorder
	opts     ManagerOptions
	done     chan struct{}
	once     sync.Once
}

func NewTimerManager(recorder SessionRecorder, opts ManagerOptions) *TimerManager {
	if opts.Unit <= 0 {
		opts.Unit = time.Second
	}
	if opts.Retention <= 0 {
		opts.Retention = time.Hour
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = 5 * time.Minute
	}

	m := &TimerManager{
		timers:   make(map[string]*TimerRunner),
		recorder: recorder,
		opts:     opts,
		done:     make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *TimerManager) cleanupLoop() {
	ticker := time.NewTicker(m.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupOldTimers()
		case <-m.done:
			return
		}
	}
}

func (m *TimerManager) cleanupOldTimers() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-m.opts.Retention)

	for id, r := range m.timers {
		t := r.Timer()
		if t.Completed && t.StartedAt.Before(cutoff) {
			r.Stop()
			delete(m.timers, id)
		}
	}
}

// Close stops every timer and the cleanup loop.
func (m *TimerManager) Close() {
	m.once.Do(func() {
		close(m.done)

		m.mu.Lock()
		defer m.mu.Unlock()
		for id, r := range m.timers {
			r.Stop()
			delete(m.timers, id)
		}
	})
}

func (m *TimerManager) recordWork(t domain.Timer, p domain.Phase) {
	if p.Kind != domain.PhaseWork || m.recorder == nil {
		return
	}

	if _, err := m.recorder.LogSession(context.Background(), t.Username, p.Minutes()); err != nil {
		log.Printf("timer %s: failed to log work phase %d for %s: %v", t.ID, p.Index, t.Username, err)
		return
	}
	log.Printf("timer %s: logged %.1f minutes for %s", t.ID, p.Minutes(), t.Username)
}

// Subscribe follows the events of timer id. The returned func ends the
// subscription; the channel is also closed when the timer is stopped.
func (m *TimerManager) Subscribe(id string) (<-chan PhaseEvent, func(), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.timers[id]
	if !ok {
		return nil, nil, false
	}

	events, unsubscribe := r.Subscribe()
	return events, unsubscribe, true
}

func (m *TimerManager) StartTimer(t *domain.Timer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.timers[t.ID]; exists {
		return ErrTimerExists
	}

	m.timers[t.ID] = NewTimerRunner(t, m.opts.Unit, m.recordWork)

	return nil
}

func (m *TimerManager) StopTimer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.timers[id]
	if !exists {
		return ErrTimerNotFound
	}

	r.Stop()
	delete(m.timers, id)
	return nil
}

func (m *TimerManager) GetTimer(id string) (*domain.Timer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.timers[id]
	if !exists {
		return nil, false
	}
	return r.Timer(), true
}

func (m *TimerManager) runner(id string) (*TimerRunner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.timers[id]
	if !exists {
		return nil, ErrTimerNotFound
	}
	return r, nil
}

func (m *TimerManager) StartPhase(timerID string, idx int) error {
	r, err := m.runner(timerID)
	if err != nil {
		return err
	}
	return r.StartPhase(idx)
}

func (m *TimerManager) StopPhase(timerID string, idx int) error {
	r, err := m.runner(timerID)
	if err != nil {
		return err
	}

	t := r.Timer()
	if idx < 0 || idx >= len(t.Phases) {
		return ErrInvalidPhase
	}

	return r.StopPhase(idx)
}
