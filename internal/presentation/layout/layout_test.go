package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/core/playback"
	"github.com/penwyp/go-sched-timeline/internal/core/timeline"
)

func twoProcessTrace() *model.NormalizedTrace {
	return &model.NormalizedTrace{
		AlgorithmName: "FCFS",
		Entries: []model.TraceEntry{
			{ProcessID: 1, StartTime: 0, EndTime: 4, ReadyQueue: []int{2}},
			{ProcessID: 2, StartTime: 4, EndTime: 8, ReadyQueue: []int{}},
		},
	}
}

func frameAt(trace *model.NormalizedTrace, cursor float64, status playback.Status) Frame {
	return Frame{
		Trace:    trace,
		Segments: timeline.BuildSegments(trace.Entries),
		Clock: playback.Snapshot{
			Cursor:  cursor,
			Total:   trace.TotalExecutionTime(),
			Status:  status,
			SpeedMs: 300,
		},
	}
}

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		style    string
		expected string
	}{
		{StyleFull, "Full Timeline"},
		{StyleCompact, "Compact Timeline"},
		{"unknown", "Full Timeline"},
		{"", "Full Timeline"},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetLayoutStrategy(tt.style).GetName())
		})
	}
}

func TestRenderBar(t *testing.T) {
	segments := timeline.BuildSegments(twoProcessTrace().Entries)
	vp := newGanttViewport(8, len(segments), 8, 0)

	tests := []struct {
		name     string
		cursor   float64
		expected string
	}{
		{"nothing started", 0, "░░░░    "},
		{"inside first segment", 3, "███░    "},
		{"second segment started", 5, "█████░░░"},
		{"complete", 8, "████████"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderBar(segments, tt.cursor, vp))
		})
	}
}

func TestRenderBarIdle(t *testing.T) {
	segments := []model.Segment{
		{ProcessID: 1, StartTime: 0, EndTime: 2},
		{ProcessID: model.IdleProcessID, StartTime: 2, EndTime: 4},
	}
	vp := newGanttViewport(4, len(segments), 4, 4)
	assert.Equal(t, "██▒▒", renderBar(segments, 4, vp))
}

func TestRenderBarEmptyTotal(t *testing.T) {
	vp := newGanttViewport(0, 0, 5, 0)
	assert.Equal(t, "     ", renderBar(nil, 0, vp))
	assert.Equal(t, "", renderCursor(0, vp))
}

func TestRenderLabelsAndMarkers(t *testing.T) {
	segments := timeline.BuildSegments(twoProcessTrace().Entries)
	vp := newGanttViewport(8, len(segments), 8, 5)

	assert.Equal(t, " P1 P2  ", renderLabels(segments, 5, vp))
	assert.Equal(t, " P1     ", renderLabels(segments, 2, vp), "future segments are not labelled")
	assert.Equal(t, "0   4  8", renderMarkers(segments, vp))
	assert.Equal(t, "     ^", renderCursor(5, vp))
}

func TestViewportScrollsWithCursor(t *testing.T) {
	// 20 segments widen the chart to 180%
	tests := []struct {
		name   string
		cursor float64
		offset int
	}{
		{"start", 0, 0},
		{"middle", 9, 4},
		{"end clamps", 18, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vp := newGanttViewport(18, 20, 10, tt.cursor)
			assert.Equal(t, 18, vp.virtual)
			assert.Equal(t, tt.offset, vp.offset)
		})
	}

	vp := newGanttViewport(18, 20, 10, 9)
	assert.Equal(t, "showing 4.0-14.0 of 18.0", scrollHint(vp))
	assert.Equal(t, -1, vp.column(1))
	assert.Equal(t, 5, vp.column(9))
}

func TestFullLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, frameAt(twoProcessTrace(), 5, playback.StatusPaused), 40)
	out := buf.String()

	assert.Contains(t, out, "CPU Scheduling Timeline: FCFS")
	assert.Contains(t, out, "⏸ Paused  Time: 5.0 / 8.0  Speed: 300ms")
	assert.Contains(t, out, "Current: ")
	assert.Contains(t, out, "P2")
	assert.Contains(t, out, "Ready Queue")
	assert.Contains(t, out, "  Empty\n")
	assert.Contains(t, out, "Processes: P1, P2")
	assert.Contains(t, out, "[space] play/pause")
}

func TestFullLayoutBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, frameAt(twoProcessTrace(), 0, playback.StatusPaused), 40)

	// At 0 the first entry's queue is shown
	assert.Contains(t, buf.String(), "  P2\n")
}

func TestFullLayoutMultiLevel(t *testing.T) {
	trace := &model.NormalizedTrace{
		AlgorithmName: "MLQ",
		MultiLevel:    true,
		Entries: []model.TraceEntry{
			{
				ProcessID:          1,
				StartTime:          0,
				EndTime:            2,
				QueueLevel:         model.IntPtr(0),
				ReadyQueue:         []int{2},
				ReadyQueuesByLevel: map[int][]int{0: {2}, 1: {3}, 2: {}},
			},
		},
	}

	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, frameAt(trace, 1, playback.StatusPlaying), 40)
	out := buf.String()

	assert.Contains(t, out, "Multi-Level Queue")
	assert.Contains(t, out, " * Q0 High Priority    P2")
	assert.Contains(t, out, "   Q1 Medium Priority  P3")
	assert.Contains(t, out, "   Q2 Low Priority     Empty")
	assert.Contains(t, out, "▶ Playing")
}

func TestFullLayoutNoData(t *testing.T) {
	var buf bytes.Buffer
	frame := Frame{Trace: &model.NormalizedTrace{}, Notice: "reload failed"}
	(&FullLayoutStrategy{}).Render(&buf, frame, 40)

	assert.Contains(t, buf.String(), "No timeline data available")
	assert.Contains(t, buf.String(), "reload failed")
	assert.Contains(t, buf.String(), "Unknown")
}

func TestCompactLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&CompactLayoutStrategy{}).Render(&buf, frameAt(twoProcessTrace(), 8, playback.StatusCompleted), 120)

	line := strings.TrimRight(buf.String(), " \n")
	require.NotEmpty(t, line)
	assert.Equal(t, "FCFS | ■ Completed | 8.0/8.0 | Execution Complete | Ready: Empty", line)
}

func TestClampWidth(t *testing.T) {
	assert.Equal(t, 40, ClampWidth(10))
	assert.Equal(t, 100, ClampWidth(100))
	assert.Equal(t, 160, ClampWidth(400))
}
