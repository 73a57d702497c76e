package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sched-timeline/internal/util"
)

// SummaryFormatter writes a plain-text overview of a scheduling run
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// FormatSegments reports how the CPU time was spent
func (f *SummaryFormatter) FormatSegments(w io.Writer, report Report) error {
	var b strings.Builder
	f.header(&b, report)

	if len(report.Segments) == 0 {
		b.WriteString("No timeline data to summarize\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	s := report.Summary
	b.WriteString("CPU Time:\n")
	fmt.Fprintf(&b, "  Segments: %d\n", len(report.Segments))
	fmt.Fprintf(&b, "  Busy: %s\n", util.FormatFloat(s.BusyTime))
	fmt.Fprintf(&b, "  Idle: %s\n", util.FormatFloat(s.IdleTime))
	fmt.Fprintf(&b, "  Utilization: %s%%\n", util.FormatFloat(s.Utilization))
	b.WriteString("\n")

	// Per-process CPU time, in order of first appearance
	var order []string
	perProcess := make(map[string]float64)
	for _, row := range report.Segments {
		if _, ok := perProcess[row.Process]; !ok {
			order = append(order, row.Process)
		}
		perProcess[row.Process] += row.Duration
	}
	b.WriteString("Process Usage:\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	for _, name := range order {
		fmt.Fprintf(&b, "  %s %s\n", util.PadRight(name+":", 12), util.FormatFloat(perProcess[name]))
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatStats reports the run's aggregate scheduling metrics
func (f *SummaryFormatter) FormatStats(w io.Writer, report Report) error {
	var b strings.Builder
	f.header(&b, report)

	if len(report.Stats) == 0 {
		b.WriteString("No process statistics to summarize\n\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	s := report.Summary
	b.WriteString("Scheduling Metrics:\n")
	fmt.Fprintf(&b, "  Processes: %d\n", s.Processes)
	fmt.Fprintf(&b, "  Average Turnaround Time: %s\n", util.FormatFloat(s.AvgTurnaroundTime))
	fmt.Fprintf(&b, "  Average Waiting Time: %s\n", util.FormatFloat(s.AvgWaitingTime))
	fmt.Fprintf(&b, "  Throughput: %.4f processes/time unit\n", s.Throughput)
	fmt.Fprintf(&b, "  CPU Utilization: %s%%\n", util.FormatFloat(s.Utilization))

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (f *SummaryFormatter) header(b *strings.Builder, report Report) {
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(b, "%s Scheduling Summary\n", algorithmTitle(report))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(b, "Total Execution Time: %s\n\n", util.FormatFloat(report.TotalTime))
}
