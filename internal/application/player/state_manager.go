package player

import (
	"sync"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/core/playback"
	"github.com/penwyp/go-sched-timeline/internal/presentation/layout"
)

// StateManager is the owning view's model of the player. It is fed by clock
// notifications on the driver goroutine and read by the UI loop.
type StateManager struct {
	mu sync.RWMutex

	trace    *model.NormalizedTrace
	segments []model.Segment

	cursor  float64
	playing bool
	speedMs int
	quantum float64

	// Last paused position, kept across reloads until a reset
	resumePoint *float64

	lastError error
	notice    string
}

// NewStateManager creates an empty state
func NewStateManager() *StateManager {
	return &StateManager{}
}

// SetTimeline installs a freshly normalized trace and its segments
func (sm *StateManager) SetTimeline(trace *model.NormalizedTrace, segments []model.Segment) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.trace = trace
	sm.segments = segments
	sm.playing = false
}

// Trace returns the current trace
func (sm *StateManager) Trace() *model.NormalizedTrace {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.trace
}

// SetPlayback records the speed and quantum of the running clock
func (sm *StateManager) SetPlayback(speedMs int, quantum float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.speedMs = speedMs
	sm.quantum = quantum
}

// SpeedMs returns the last applied speed
func (sm *StateManager) SpeedMs() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.speedMs
}

// Cursor returns the last reported clock position
func (sm *StateManager) Cursor() float64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.cursor
}

// ResumePoint returns the stored paused position, if any
func (sm *StateManager) ResumePoint() (float64, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.resumePoint == nil {
		return 0, false
	}
	return *sm.resumePoint, true
}

// SetError records a failure to surface to the user; nil clears it
func (sm *StateManager) SetError(err error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.lastError = err
}

// LastError returns the last recorded failure
func (sm *StateManager) LastError() error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastError
}

// SetNotice sets a transient status message
func (sm *StateManager) SetNotice(msg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.notice = msg
}

// Observer returns the clock callbacks that keep this state current
func (sm *StateManager) Observer() playback.Observer {
	return playback.Observer{
		OnTimeUpdate: func(cursor float64) {
			sm.mu.Lock()
			sm.cursor = cursor
			sm.mu.Unlock()
		},
		OnPause: func(cursor float64) {
			sm.mu.Lock()
			sm.cursor = cursor
			sm.playing = false
			resume := cursor
			sm.resumePoint = &resume
			sm.mu.Unlock()
		},
		OnResume: func() {
			sm.mu.Lock()
			sm.playing = true
			sm.mu.Unlock()
		},
		OnReset: func() {
			sm.mu.Lock()
			sm.resumePoint = nil
			sm.mu.Unlock()
		},
	}
}

// Snapshot derives the clock view from the recorded notifications
func (sm *StateManager) Snapshot() playback.Snapshot {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.snapshotLocked()
}

func (sm *StateManager) snapshotLocked() playback.Snapshot {
	total := sm.trace.TotalExecutionTime()
	s := playback.Snapshot{
		Cursor:  sm.cursor,
		Total:   total,
		Mode:    playback.ModeStopped,
		SpeedMs: sm.speedMs,
		Quantum: sm.quantum,
	}
	switch {
	case sm.playing:
		s.Mode = playback.ModePlaying
		s.Status = playback.StatusPlaying
	case sm.cursor >= total:
		s.Status = playback.StatusCompleted
	default:
		s.Status = playback.StatusPaused
	}
	return s
}

// Frame assembles everything the display needs
func (sm *StateManager) Frame() layout.Frame {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	notice := sm.notice
	if sm.lastError != nil {
		notice = "Error: " + sm.lastError.Error()
	}
	return layout.Frame{
		Trace:    sm.trace,
		Segments: sm.segments,
		Clock:    sm.snapshotLocked(),
		Notice:   notice,
	}
}
