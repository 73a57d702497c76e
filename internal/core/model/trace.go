package model

import "fmt"

// IdleProcessID marks a trace entry during which the CPU executed nothing
const IdleProcessID = -1

// TraceEntry is one atomic record of a process running over [StartTime, EndTime)
type TraceEntry struct {
	ProcessID  int
	StartTime  float64
	EndTime    float64
	QueueLevel *int // nil for single-queue scheduling

	// ReadyQueue is the flat view of waiting processes and is always non-nil
	ReadyQueue         []int
	ReadyQueuesByLevel map[int][]int // multi-level traces only
}

// IsIdle reports whether the entry is the CPU idle sentinel
func (e TraceEntry) IsIdle() bool {
	return e.ProcessID == IdleProcessID
}

// Duration returns the length of the entry in simulation time
func (e TraceEntry) Duration() float64 {
	return e.EndTime - e.StartTime
}

// Segment is a merged run of consecutive entries with the same process and queue level
type Segment struct {
	ProcessID  int
	QueueLevel *int
	StartTime  float64
	EndTime    float64

	// Most recent queue snapshot observed within the run
	LastKnownQueues        []int
	LastKnownQueuesByLevel map[int][]int
}

// Duration returns the length of the segment in simulation time
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// IsIdle reports whether the segment covers CPU idle time
func (s Segment) IsIdle() bool {
	return s.ProcessID == IdleProcessID
}

// Label returns the short display name for the running process
func (s Segment) Label() string {
	return ProcessLabel(s.ProcessID)
}

// ProcessLabel formats a process ID for display
func ProcessLabel(processID int) string {
	if processID == IdleProcessID {
		return "Idle"
	}
	return fmt.Sprintf("P%d", processID)
}

// ProcessStats holds the per-process results computed by the scheduler
type ProcessStats struct {
	ProcessID       int     `json:"process_id"`
	ArrivalTime     float64 `json:"arrival_time"`
	BurstTime       float64 `json:"burst_time"`
	CompletionTime  float64 `json:"completion_time"`
	TurnaroundTime  float64 `json:"turnaround_time"`
	WaitingTime     float64 `json:"waiting_time"`
	FinalQueueLevel *int    `json:"final_queue_level,omitempty"`
	Priority        *int    `json:"priority,omitempty"`
}

// NormalizedTrace is the canonical, immutable result of normalizing a scheduler payload
type NormalizedTrace struct {
	Entries       []TraceEntry
	ProcessStats  []ProcessStats
	AlgorithmName string
	MultiLevel    bool
}

// TotalExecutionTime returns the maximum end time over all entries, or 0 when empty
func (t *NormalizedTrace) TotalExecutionTime() float64 {
	if t == nil {
		return 0
	}
	var total float64
	for _, e := range t.Entries {
		if e.EndTime > total {
			total = e.EndTime
		}
	}
	return total
}

// IsMultiLevel reports whether the trace came from a multi-level queue scheduler
func (t *NormalizedTrace) IsMultiLevel() bool {
	return t != nil && t.MultiLevel
}

// NonIdleStats returns process statistics without the idle sentinel
func (t *NormalizedTrace) NonIdleStats() []ProcessStats {
	if t == nil {
		return nil
	}
	stats := make([]ProcessStats, 0, len(t.ProcessStats))
	for _, s := range t.ProcessStats {
		if s.ProcessID == IdleProcessID {
			continue
		}
		stats = append(stats, s)
	}
	return stats
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// SameLevel reports whether two optional queue levels are equal
func SameLevel(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
