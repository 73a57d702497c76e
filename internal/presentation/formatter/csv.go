package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penwyp/go-sched-timeline/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) FormatSegments(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	headers := []string{"Process", "Process ID", "Queue Level", "Start", "End", "Duration", "Ready Queue"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Segments {
		record := []string{
			row.Process,
			fmt.Sprintf("%d", row.ProcessID),
			formatOptionalInt(row.QueueLevel),
			util.FormatFloat(row.StartTime),
			util.FormatFloat(row.EndTime),
			util.FormatFloat(row.Duration),
			processIDs(row.ReadyQueue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (f *CSVFormatter) FormatStats(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)

	headers := []string{"Process ID", "Arrival", "Burst", "Completion", "Turnaround", "Waiting", "Final Queue", "Priority"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, st := range report.Stats {
		record := []string{
			fmt.Sprintf("%d", st.ProcessID),
			util.FormatFloat(st.ArrivalTime),
			util.FormatFloat(st.BurstTime),
			util.FormatFloat(st.CompletionTime),
			util.FormatFloat(st.TurnaroundTime),
			util.FormatFloat(st.WaitingTime),
			formatOptionalInt(st.FinalQueueLevel),
			formatOptionalInt(st.Priority),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// processIDs joins IDs with spaces so the cell needs no quoting
func processIDs(ids []int) string {
	out := make([]byte, 0, len(ids)*3)
	for i, id := range ids {
		if i > 0 {
			out = append(out, ' ')
		}
		out = fmt.Appendf(out, "%d", id)
	}
	return string(out)
}
