package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
)

// Output formats accepted by NewFormatter
const (
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// Formatter writes a timeline report in one output format
type Formatter interface {
	FormatSegments(w io.Writer, report Report) error
	FormatStats(w io.Writer, report Report) error
}

// NewFormatter returns the formatter for the named output format
func NewFormatter(format string) (Formatter, error) {
	switch format {
	case FormatTable, "":
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	case FormatSummary:
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (expected table, json, csv or summary)", format)
	}
}

// SegmentRow is one merged execution run as exported
type SegmentRow struct {
	Process    string  `json:"process"`
	ProcessID  int     `json:"process_id"`
	QueueLevel *int    `json:"queue_level,omitempty"`
	StartTime  float64 `json:"start_time"`
	EndTime    float64 `json:"end_time"`
	Duration   float64 `json:"duration"`
	ReadyQueue []int   `json:"ready_queue"`
}

// Report is the exportable view of a normalized trace
type Report struct {
	Algorithm  string               `json:"algorithm"`
	TotalTime  float64              `json:"total_time"`
	MultiLevel bool                 `json:"multi_level"`
	Segments   []SegmentRow         `json:"segments,omitempty"`
	Stats      []model.ProcessStats `json:"process_stats,omitempty"`
	Summary    Summary              `json:"summary"`
}

// NewReport builds a report from a trace and its segments. Statistics
// never include the idle sentinel.
func NewReport(trace *model.NormalizedTrace, segments []model.Segment) Report {
	report := Report{
		TotalTime:  trace.TotalExecutionTime(),
		MultiLevel: trace.IsMultiLevel(),
		Stats:      trace.NonIdleStats(),
		Summary:    Summarize(trace),
	}
	if trace != nil {
		report.Algorithm = trace.AlgorithmName
	}

	report.Segments = make([]SegmentRow, 0, len(segments))
	for _, seg := range segments {
		queue := seg.LastKnownQueues
		if queue == nil {
			queue = []int{}
		}
		report.Segments = append(report.Segments, SegmentRow{
			Process:    seg.Label(),
			ProcessID:  seg.ProcessID,
			QueueLevel: seg.QueueLevel,
			StartTime:  seg.StartTime,
			EndTime:    seg.EndTime,
			Duration:   seg.Duration(),
			ReadyQueue: queue,
		})
	}
	return report
}

// Summary aggregates whole-run scheduling metrics
type Summary struct {
	BusyTime          float64 `json:"busy_time"`
	IdleTime          float64 `json:"idle_time"`
	Utilization       float64 `json:"cpu_utilization"`
	Throughput        float64 `json:"throughput"`
	Processes         int     `json:"processes"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
}

// Summarize computes CPU utilization, throughput and average times for a trace
func Summarize(trace *model.NormalizedTrace) Summary {
	var s Summary
	if trace == nil {
		return s
	}

	total := trace.TotalExecutionTime()
	for _, e := range trace.Entries {
		if e.IsIdle() {
			s.IdleTime += e.Duration()
		} else {
			s.BusyTime += e.Duration()
		}
	}
	if total > 0 {
		s.Utilization = s.BusyTime / total * 100
	}

	stats := trace.NonIdleStats()
	s.Processes = len(stats)
	if total > 0 {
		s.Throughput = float64(len(stats)) / total
	}
	if len(stats) > 0 {
		for _, st := range stats {
			s.AvgTurnaroundTime += st.TurnaroundTime
			s.AvgWaitingTime += st.WaitingTime
		}
		s.AvgTurnaroundTime /= float64(len(stats))
		s.AvgWaitingTime /= float64(len(stats))
	}
	return s
}

func formatLevel(level *int) string {
	if level == nil {
		return "-"
	}
	return fmt.Sprintf("Q%d", *level)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
