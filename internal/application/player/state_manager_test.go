package player

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/core/playback"
)

func TestStateManagerFollowsClock(t *testing.T) {
	sm := NewStateManager()
	trace := &model.NormalizedTrace{
		Entries: []model.TraceEntry{{ProcessID: 1, StartTime: 0, EndTime: 4, ReadyQueue: []int{}}},
	}
	sm.SetTimeline(trace, nil)
	sm.SetPlayback(300, 0.05)

	_, ok := sm.ResumePoint()
	assert.False(t, ok)

	obs := sm.Observer()
	obs.OnResume()
	obs.OnTimeUpdate(1.5)

	snap := sm.Snapshot()
	assert.Equal(t, playback.StatusPlaying, snap.Status)
	assert.Equal(t, playback.ModePlaying, snap.Mode)
	assert.Equal(t, 1.5, snap.Cursor)
	assert.Equal(t, 4.0, snap.Total)
	assert.Equal(t, 300, snap.SpeedMs)

	obs.OnPause(2)
	resume, ok := sm.ResumePoint()
	assert.True(t, ok)
	assert.Equal(t, 2.0, resume)
	assert.Equal(t, playback.StatusPaused, sm.Snapshot().Status)

	obs.OnTimeUpdate(0)
	obs.OnPause(0)
	obs.OnReset()
	_, ok = sm.ResumePoint()
	assert.False(t, ok, "reset discards the resume point")

	obs.OnPause(4)
	assert.Equal(t, playback.StatusCompleted, sm.Snapshot().Status)
}

func TestStateManagerFrame(t *testing.T) {
	sm := NewStateManager()
	trace := &model.NormalizedTrace{AlgorithmName: "RR"}
	sm.SetTimeline(trace, []model.Segment{})

	sm.SetNotice("Reloaded")
	assert.Equal(t, "Reloaded", sm.Frame().Notice)

	sm.SetError(errors.New("malformed payload"))
	frame := sm.Frame()
	assert.Equal(t, "Error: malformed payload", frame.Notice)
	assert.Same(t, trace, frame.Trace)
	assert.EqualError(t, sm.LastError(), "malformed payload")

	sm.SetError(nil)
	assert.Equal(t, "Reloaded", sm.Frame().Notice)
}

func TestStateManagerEmptyTraceIsCompleted(t *testing.T) {
	sm := NewStateManager()
	assert.Equal(t, playback.StatusCompleted, sm.Snapshot().Status)
	assert.Nil(t, sm.Trace())
}
