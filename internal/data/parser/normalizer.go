package parser

import (
	"bytes"
	"encoding/json"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
)

// rawPayload is the response envelope returned by the scheduler service
type rawPayload struct {
	Status              string          `json:"status"`
	Message             string          `json:"message"`
	SchedulingAlgorithm string          `json:"scheduling_algorithm"`
	GanttChart          json.RawMessage `json:"gantt_chart"`
	ProcessStats        json.RawMessage `json:"process_stats"`
}

// rawEntry accepts both gantt entry shapes. Queues is a pointer so that an
// explicit empty per-level array can be told apart from a missing one.
type rawEntry struct {
	ProcessID  *int     `json:"process_id"`
	StartTime  *float64 `json:"start_time"`
	EndTime    *float64 `json:"end_time"`
	ReadyQueue []int    `json:"ready_queue"`
	QueueLevel *int     `json:"queue_level"`
	Queues     *[][]int `json:"queues"`
}

func (e *rawEntry) multiLevel() bool {
	return e.Queues != nil
}

type rawStats struct {
	ProcessID       *int    `json:"process_id"`
	ArrivalTime     float64 `json:"arrival_time"`
	BurstTime       float64 `json:"burst_time"`
	CompletionTime  float64 `json:"completion_time"`
	TurnaroundTime  float64 `json:"turnaround_time"`
	WaitingTime     float64 `json:"waiting_time"`
	FinalQueueLevel *int    `json:"final_queue_level"`
	Queue           *int    `json:"queue"`
	Priority        *int    `json:"priority"`
}

// Options tune normalization of payloads with missing envelope fields
type Options struct {
	// DefaultAlgorithm names the trace when the payload omits scheduling_algorithm
	DefaultAlgorithm string
}

// Normalize parses a scheduler payload into a canonical trace
func Normalize(data []byte) (*model.NormalizedTrace, error) {
	return NormalizeWithOptions(data, Options{})
}

// NormalizeWithOptions parses a scheduler payload into a canonical trace.
// Both the single-queue and the multi-level gantt shapes collapse into
// model.TraceEntry, and every entry carries a flat ReadyQueue.
func NormalizeWithOptions(data []byte, opts Options) (*model.NormalizedTrace, error) {
	var payload rawPayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, malformed("decode payload: %v", err)
	}

	if payload.Status == "error" {
		msg := payload.Message
		if msg == "" {
			msg = "no message"
		}
		return nil, rejected(msg)
	}

	if !isJSONArray(payload.GanttChart) {
		return nil, malformed("gantt_chart is missing or not an array")
	}
	if !isJSONArray(payload.ProcessStats) {
		return nil, malformed("process_stats is missing or not an array")
	}

	var rawEntries []rawEntry
	if err := sonic.Unmarshal(payload.GanttChart, &rawEntries); err != nil {
		return nil, malformed("decode gantt_chart: %v", err)
	}
	var rawStatsList []rawStats
	if err := sonic.Unmarshal(payload.ProcessStats, &rawStatsList); err != nil {
		return nil, malformed("decode process_stats: %v", err)
	}

	entries, multiLevel, err := normalizeEntries(rawEntries)
	if err != nil {
		return nil, err
	}
	stats, err := normalizeStats(rawStatsList)
	if err != nil {
		return nil, err
	}

	algorithm := payload.SchedulingAlgorithm
	if algorithm == "" {
		algorithm = opts.DefaultAlgorithm
	}

	return &model.NormalizedTrace{
		Entries:       entries,
		ProcessStats:  stats,
		AlgorithmName: algorithm,
		MultiLevel:    multiLevel,
	}, nil
}

func normalizeEntries(raw []rawEntry) ([]model.TraceEntry, bool, error) {
	entries := make([]model.TraceEntry, 0, len(raw))
	if len(raw) == 0 {
		return entries, false, nil
	}

	// The first entry decides the shape for the whole payload
	multiLevel := raw[0].multiLevel()

	for i := range raw {
		r := &raw[i]
		if r.multiLevel() != multiLevel {
			return nil, false, inconsistent("gantt_chart[%d]: multi-level=%t in a multi-level=%t payload",
				i, r.multiLevel(), multiLevel)
		}
		if r.ProcessID == nil {
			return nil, false, malformed("gantt_chart[%d]: missing process_id", i)
		}
		if r.StartTime == nil || r.EndTime == nil {
			return nil, false, malformed("gantt_chart[%d]: missing start_time or end_time", i)
		}
		start, end := *r.StartTime, *r.EndTime
		if start < 0 || end < start {
			return nil, false, malformed("gantt_chart[%d]: invalid interval [%v, %v)", i, start, end)
		}
		// Zero-length entries cover no time and can never be current
		if end == start {
			continue
		}

		entry := model.TraceEntry{
			ProcessID: *r.ProcessID,
			StartTime: start,
			EndTime:   end,
		}
		if multiLevel {
			entry.QueueLevel = copyLevel(r.QueueLevel)
			entry.ReadyQueuesByLevel = make(map[int][]int, len(*r.Queues))
			for level, queue := range *r.Queues {
				entry.ReadyQueuesByLevel[level] = copyQueue(queue)
			}
			entry.ReadyQueue = []int{}
			if r.QueueLevel != nil {
				if q, ok := entry.ReadyQueuesByLevel[*r.QueueLevel]; ok {
					entry.ReadyQueue = copyQueue(q)
				}
			}
		} else {
			entry.ReadyQueue = copyQueue(r.ReadyQueue)
		}
		entries = append(entries, entry)
	}

	return entries, multiLevel, nil
}

func normalizeStats(raw []rawStats) ([]model.ProcessStats, error) {
	stats := make([]model.ProcessStats, 0, len(raw))
	for i, r := range raw {
		if r.ProcessID == nil {
			return nil, malformed("process_stats[%d]: missing process_id", i)
		}
		level := r.FinalQueueLevel
		if level == nil {
			level = r.Queue
		}
		stats = append(stats, model.ProcessStats{
			ProcessID:       *r.ProcessID,
			ArrivalTime:     r.ArrivalTime,
			BurstTime:       r.BurstTime,
			CompletionTime:  r.CompletionTime,
			TurnaroundTime:  r.TurnaroundTime,
			WaitingTime:     r.WaitingTime,
			FinalQueueLevel: copyLevel(level),
			Priority:        copyLevel(r.Priority),
		})
	}
	return stats, nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func copyQueue(q []int) []int {
	out := make([]int, len(q))
	copy(out, q)
	return out
}

func copyLevel(level *int) *int {
	if level == nil {
		return nil
	}
	return model.IntPtr(*level)
}
