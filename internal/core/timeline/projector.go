package timeline

import (
	"fmt"
	"math"
	"sort"

	"github.com/penwyp/go-sched-timeline/internal/core/constants"
	"github.com/penwyp/go-sched-timeline/internal/core/model"
)

// Visible returns the segments that have started by cursor, in their original order
func Visible(segments []model.Segment, cursor float64) []model.Segment {
	visible := make([]model.Segment, 0, len(segments))
	for _, s := range segments {
		if s.StartTime <= cursor {
			visible = append(visible, s)
		}
	}
	return visible
}

// CurrentEntryAt returns the entry whose interval [StartTime, EndTime) contains cursor
func CurrentEntryAt(entries []model.TraceEntry, cursor float64) (model.TraceEntry, bool) {
	for _, e := range entries {
		if cursor >= e.StartTime && cursor < e.EndTime {
			return e, true
		}
	}
	return model.TraceEntry{}, false
}

// FillRatio returns how much of the segment has elapsed at cursor, in [0, 1]
func FillRatio(s model.Segment, cursor float64) float64 {
	switch {
	case cursor <= s.StartTime:
		return 0
	case cursor >= s.EndTime:
		return 1
	default:
		return (cursor - s.StartTime) / (s.EndTime - s.StartTime)
	}
}

// ProcessLabelAt describes what the CPU is doing at cursor
func ProcessLabelAt(entries []model.TraceEntry, cursor float64) string {
	if entry, ok := CurrentEntryAt(entries, cursor); ok {
		if entry.IsIdle() {
			return LabelIdle
		}
		return model.ProcessLabel(entry.ProcessID)
	}
	if cursor == 0 {
		return LabelReady
	}
	return LabelCompleted
}

// TimeMarkers returns the sorted unique segment boundaries, thinned to about
// maxMarkers markers. The first and last boundaries are always kept.
func TimeMarkers(segments []model.Segment, maxMarkers int) []float64 {
	seen := make(map[float64]struct{}, len(segments)*2)
	points := make([]float64, 0, len(segments)*2)
	for _, s := range segments {
		for _, t := range []float64{s.StartTime, s.EndTime} {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			points = append(points, t)
		}
	}
	sort.Float64s(points)

	if maxMarkers <= 0 || len(points) <= maxMarkers {
		return points
	}

	step := int(math.Ceil(float64(len(points)) / float64(maxMarkers)))
	markers := make([]float64, 0, maxMarkers+1)
	for i, t := range points {
		if i%step == 0 {
			markers = append(markers, t)
		}
	}
	if last := points[len(points)-1]; markers[len(markers)-1] != last {
		markers = append(markers, last)
	}
	return markers
}

// Legend returns the sorted unique non-idle process IDs of a trace
func Legend(entries []model.TraceEntry) []int {
	seen := make(map[int]struct{})
	ids := make([]int, 0)
	for _, e := range entries {
		if e.IsIdle() {
			continue
		}
		if _, ok := seen[e.ProcessID]; ok {
			continue
		}
		seen[e.ProcessID] = struct{}{}
		ids = append(ids, e.ProcessID)
	}
	sort.Ints(ids)
	return ids
}

// ChartWidthPercent widens the chart for long traces: every segment past the
// first ten adds a fixed share, capped at the maximum width
func ChartWidthPercent(segmentCount int) int {
	width := constants.BaseChartWidthPercent
	if segmentCount > constants.ChartWidthFreeSegs {
		width += (segmentCount - constants.ChartWidthFreeSegs) * constants.ChartWidthPerSegment
	}
	if width > constants.MaxChartWidthPercent {
		width = constants.MaxChartWidthPercent
	}
	return width
}

// QueueSnapshotAt returns the ready-queue view at cursor. At cursor 0 the first
// entry's queue is shown; at or past the end the queue is empty.
func QueueSnapshotAt(trace *model.NormalizedTrace, cursor float64) QueueSnapshot {
	snapshot := QueueSnapshot{ProcessID: model.IdleProcessID, ReadyQueue: []int{}}
	if trace == nil || len(trace.Entries) == 0 {
		return snapshot
	}

	entry, ok := CurrentEntryAt(trace.Entries, cursor)
	if !ok {
		if cursor != 0 {
			return snapshot
		}
		entry = trace.Entries[0]
	} else {
		snapshot.Running = true
	}

	snapshot.ProcessID = entry.ProcessID
	snapshot.QueueLevel = entry.QueueLevel
	snapshot.ReadyQueue = entry.ReadyQueue

	if trace.IsMultiLevel() {
		levels := make([]int, 0, len(entry.ReadyQueuesByLevel))
		for level := range entry.ReadyQueuesByLevel {
			levels = append(levels, level)
		}
		sort.Ints(levels)
		for _, level := range levels {
			snapshot.ByLevel = append(snapshot.ByLevel, LevelQueue{
				Level:     level,
				Label:     QueueLevelLabel(level),
				Processes: entry.ReadyQueuesByLevel[level],
				Active:    snapshot.Running && entry.QueueLevel != nil && *entry.QueueLevel == level,
			})
		}
	}
	return snapshot
}

// QueueLevelLabel names a priority level, 0 being the highest
func QueueLevelLabel(level int) string {
	switch level {
	case 0:
		return "High Priority"
	case 1:
		return "Medium Priority"
	case 2:
		return "Low Priority"
	default:
		return fmt.Sprintf("Priority Level %d", level)
	}
}
