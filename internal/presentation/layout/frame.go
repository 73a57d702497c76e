package layout

import (
	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/core/playback"
	"github.com/penwyp/go-sched-timeline/internal/core/timeline"
)

// Frame is everything a strategy needs to draw the player at one instant
type Frame struct {
	Trace    *model.NormalizedTrace
	Segments []model.Segment
	Clock    playback.Snapshot
	// Notice is a transient status line such as a reload error
	Notice string
}

// Algorithm returns the trace's algorithm name or a placeholder
func (f Frame) Algorithm() string {
	if f.Trace == nil || f.Trace.AlgorithmName == "" {
		return "Unknown"
	}
	return f.Trace.AlgorithmName
}

// Entries returns the trace entries, nil-safe
func (f Frame) Entries() []model.TraceEntry {
	if f.Trace == nil {
		return nil
	}
	return f.Trace.Entries
}

// CurrentLabel describes what the CPU is doing at the cursor
func (f Frame) CurrentLabel() string {
	return timeline.ProcessLabelAt(f.Entries(), f.Clock.Cursor)
}

// Queues returns the ready-queue view at the cursor
func (f Frame) Queues() timeline.QueueSnapshot {
	return timeline.QueueSnapshotAt(f.Trace, f.Clock.Cursor)
}

// StatusIcon is a one-cell marker for the clock status
func (f Frame) StatusIcon() string {
	switch f.Clock.Status {
	case playback.StatusPlaying:
		return "▶"
	case playback.StatusCompleted:
		return "■"
	default:
		return "⏸"
	}
}
