package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hperssn/studyboard/internal/domain"
)

var (
	ErrPhaseRunning    = errors.New("phase already running")
	ErrPhaseNotRunning = errors.New("phase not running")
	ErrPhaseCompleted  = errors.New("phase already completed")
)

// PhaseEvent is a progress tick of the running phase. The terminal event
// of a timer has Done set and no phase data.
type PhaseEvent struct {
	Index     int              `json:"index"`
	Kind      domain.PhaseKind `json:"kind,omitempty"`
	Elapsed   int              `json:"elapsed"`
	Remaining int              `json:"remaining"`
	Done      bool             `json:"done,omitempty"`
}

// PhaseDoneFunc is called outside the runner lock once a phase completes.
type PhaseDoneFunc func(t domain.Timer, p domain.Phase)

type phaseControl struct {
	cancel       chan struct{}
	paused       bool
	elapsedSoFar int
}

// TimerRunner drives the phases of one timer. Durations are counted in
// units, which is a second outside of tests.
type TimerRunner struct {
	mu sync.Mutex

	timer  *domain.Timer
	unit   time.Duration
	onDone PhaseDoneFunc
	ctx    context.Context
	cancel context.CancelFunc

	subs    map[chan PhaseEvent]struct{}
	stopped bool
	phases  map[int]*phaseControl
}

// subscriberBuffer is how many ticks a slow subscriber may fall behind
// before progress ticks are dropped for it.
const subscriberBuffer = 16

func NewTimerRunner(t *domain.Timer, unit time.Duration, onDone PhaseDoneFunc) *TimerRunner {
	if unit <= 0 {
		unit = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TimerRunner{
		timer:  t,
		unit:   unit,
		onDone: onDone,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[chan PhaseEvent]struct{}),
		phases: make(map[int]*phaseControl),
	}
}

// Start runs the current phase.
func (r *TimerRunner) Start() error {
	r.mu.Lock()
	idx := r.timer.CurrentIdx
	r.mu.Unlock()

	return r.StartPhase(idx)
}

// StartPhase starts phase idx, or resumes it when it was paused.
func (r *TimerRunner) StartPhase(idx int) error {
	r.mu.Lock()
	if idx < 0 || idx >= len(r.timer.Phases) {
		r.mu.Unlock()
		return ErrInvalidPhase
	}

	phase := &r.timer.Phases[idx]
	if phase.Completed {
		r.mu.Unlock()
		return ErrPhaseCompleted
	}

	pc, exists := r.phases[idx]
	if !exists {
		pc = &phaseControl{cancel: make(chan struct{})}
		r.phases[idx] = pc
	} else if !pc.paused {
		r.mu.Unlock()
		return ErrPhaseRunning
	} else {
		pc.cancel = make(chan struct{})
		pc.paused = false
	}

	startTime := time.Now()
	if phase.StartedAt.IsZero() {
		phase.StartedAt = startTime
	}

	r.timer.CurrentIdx = idx
	base := pc.elapsedSoFar
	cancel := pc.cancel
	index, kind, duration := phase.Index, phase.Kind, phase.DurationSec
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(r.unit)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				elapsed := base + int(time.Since(startTime)/r.unit)
				if elapsed > duration {
					elapsed = duration
				}

				ev := PhaseEvent{Index: index, Kind: kind, Elapsed: elapsed, Remaining: duration - elapsed}
				if elapsed < duration {
					r.publish(ev, false)
					continue
				}

				allDone := r.phaseDone(index)
				r.publish(ev, true)
				if allDone {
					r.publish(PhaseEvent{Done: true}, true)
				}
				return

			case <-cancel:
				r.mu.Lock()
				pc.elapsedSoFar = base + int(time.Since(startTime)/r.unit)
				r.mu.Unlock()
				return

			case <-r.ctx.Done():
				return
			}
		}
	}()

	return nil
}

// StopPhase pauses phase idx. Elapsed time is kept for the next StartPhase.
func (r *TimerRunner) StopPhase(idx int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pc, ok := r.phases[idx]
	if !ok || pc.paused || r.timer.Phases[idx].Completed {
		return ErrPhaseNotRunning
	}

	pc.paused = true
	close(pc.cancel)
	return nil
}

// Stop ends the timer. Open subscriptions get a Done event and are closed.
func (r *TimerRunner) Stop() {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	for ch := range r.subs {
		offer(ch, PhaseEvent{Done: true}, true)
		close(ch)
		delete(r.subs, ch)
	}
}

// Subscribe returns a channel receiving the ticks published from now on,
// and a func that ends the subscription. The channel is closed when the
// runner stops or the subscription ends.
func (r *TimerRunner) Subscribe() (<-chan PhaseEvent, func()) {
	ch := make(chan PhaseEvent, subscriberBuffer)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		close(ch)
		return ch, func() {}
	}
	r.subs[ch] = struct{}{}

	return ch, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.subs[ch]; ok {
			delete(r.subs, ch)
			close(ch)
		}
	}
}

// Timer returns a snapshot safe to read without the runner lock.
func (r *TimerRunner) Timer() *domain.Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *TimerRunner) snapshot() *domain.Timer {
	t := *r.timer
	t.Phases = append([]domain.Phase(nil), r.timer.Phases...)
	return &t
}

// publish hands ev to every subscriber without blocking. Progress ticks
// are dropped for subscribers that fell behind; a must event evicts the
// oldest queued tick instead.
func (r *TimerRunner) publish(ev PhaseEvent, must bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		offer(ch, ev, must)
	}
}

func offer(ch chan PhaseEvent, ev PhaseEvent, must bool) {
	select {
	case ch <- ev:
		return
	default:
	}
	if !must {
		return
	}

	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}

// phaseDone marks phase idx completed, advances the timer and reports
// whether every phase is now done.
func (r *TimerRunner) phaseDone(idx int) bool {
	r.mu.Lock()
	phase := &r.timer.Phases[idx]
	phase.Completed = true
	if phase.Kind == domain.PhaseWork {
		r.timer.WorkCompleted++
	}
	if idx+1 < len(r.timer.Phases) {
		r.timer.CurrentIdx = idx + 1
	}

	allDone := true
	for _, p := range r.timer.Phases {
		if !p.Completed {
			allDone = false
			break
		}
	}
	r.timer.Completed = allDone

	snap := r.snapshot()
	done := *phase
	r.mu.Unlock()

	if r.onDone != nil {
		r.onDone(*snap, done)
	}
	return allDone
}
