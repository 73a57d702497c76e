package timeline

import (
	"sync"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
)

// BuildSegments collapses consecutive entries that share a process and queue
// level into segments. Entries must already be time-ordered; output order
// equals input order.
func BuildSegments(entries []model.TraceEntry) []model.Segment {
	if len(entries) == 0 {
		return []model.Segment{}
	}

	segments := make([]model.Segment, 0, len(entries))
	current := openSegment(entries[0])

	for _, entry := range entries[1:] {
		if entry.ProcessID == current.ProcessID && model.SameLevel(entry.QueueLevel, current.QueueLevel) {
			current.EndTime = entry.EndTime
			current.LastKnownQueues = entry.ReadyQueue
			current.LastKnownQueuesByLevel = entry.ReadyQueuesByLevel
			continue
		}
		segments = append(segments, current)
		current = openSegment(entry)
	}

	return append(segments, current)
}

func openSegment(entry model.TraceEntry) model.Segment {
	return model.Segment{
		ProcessID:              entry.ProcessID,
		QueueLevel:             entry.QueueLevel,
		StartTime:              entry.StartTime,
		EndTime:                entry.EndTime,
		LastKnownQueues:        entry.ReadyQueue,
		LastKnownQueuesByLevel: entry.ReadyQueuesByLevel,
	}
}

// TotalExecutionTime returns the maximum end time over all entries, or 0 when empty
func TotalExecutionTime(entries []model.TraceEntry) float64 {
	var total float64
	for _, e := range entries {
		if e.EndTime > total {
			total = e.EndTime
		}
	}
	return total
}

// SegmentCache keeps the segments of the most recent trace. Segments are
// rebuilt only when a different trace is passed in, never on cursor changes.
type SegmentCache struct {
	mu       sync.Mutex
	trace    *model.NormalizedTrace
	segments []model.Segment
	builds   int
}

// NewSegmentCache creates an empty segment cache
func NewSegmentCache() *SegmentCache {
	return &SegmentCache{}
}

// Segments returns the segments for trace, rebuilding them if trace is not the cached one
func (c *SegmentCache) Segments(trace *model.NormalizedTrace) []model.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()

	if trace == nil {
		return []model.Segment{}
	}
	if c.trace == trace && c.segments != nil {
		return c.segments
	}

	c.trace = trace
	c.segments = BuildSegments(trace.Entries)
	c.builds++
	return c.segments
}

// Builds returns how many times segments were rebuilt
func (c *SegmentCache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
