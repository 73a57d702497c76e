package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sched-timeline/internal/util"
)

type TableFormatter struct {
	minWidth int
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{minWidth: 6}
}

func (f *TableFormatter) FormatSegments(w io.Writer, report Report) error {
	headers := []string{"Process", "Queue", "Start", "End", "Duration", "Ready Queue"}
	rows := make([][]string, 0, len(report.Segments))
	var covered float64
	for _, row := range report.Segments {
		rows = append(rows, []string{
			row.Process,
			formatLevel(row.QueueLevel),
			util.FormatFloat(row.StartTime),
			util.FormatFloat(row.EndTime),
			util.FormatFloat(row.Duration),
			util.FormatProcessList(row.ReadyQueue),
		})
		covered += row.Duration
	}
	footer := []string{"Total", "", "", util.FormatFloat(report.TotalTime), util.FormatFloat(covered), ""}

	fmt.Fprintf(w, "%s (%d segments)\n", algorithmTitle(report), len(report.Segments))
	return f.render(w, headers, rows, footer, []bool{false, false, true, true, true, false})
}

func (f *TableFormatter) FormatStats(w io.Writer, report Report) error {
	headers := []string{"Process", "Arrival", "Burst", "Completion", "Turnaround", "Waiting"}
	if report.MultiLevel {
		headers = append(headers, "Final Queue")
	}

	rows := make([][]string, 0, len(report.Stats))
	for _, st := range report.Stats {
		row := []string{
			fmt.Sprintf("P%d", st.ProcessID),
			util.FormatFloat(st.ArrivalTime),
			util.FormatFloat(st.BurstTime),
			util.FormatFloat(st.CompletionTime),
			util.FormatFloat(st.TurnaroundTime),
			util.FormatFloat(st.WaitingTime),
		}
		if report.MultiLevel {
			row = append(row, formatLevel(st.FinalQueueLevel))
		}
		rows = append(rows, row)
	}

	footer := []string{
		"Average", "", "", "",
		util.FormatFloat(report.Summary.AvgTurnaroundTime),
		util.FormatFloat(report.Summary.AvgWaitingTime),
	}
	rightAlign := []bool{false, true, true, true, true, true}
	if report.MultiLevel {
		footer = append(footer, "")
		rightAlign = append(rightAlign, false)
	}

	fmt.Fprintf(w, "%s (%d processes)\n", algorithmTitle(report), len(report.Stats))
	return f.render(w, headers, rows, footer, rightAlign)
}

func (f *TableFormatter) render(w io.Writer, headers []string, rows [][]string, footer []string, rightAlign []bool) error {
	widths := f.calculateColumnWidths(headers, rows, footer)

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, headers, widths, nil)
	f.printBorder(&b, widths, "middle")
	for _, row := range rows {
		f.printRow(&b, row, widths, rightAlign)
	}
	f.printBorder(&b, widths, "middle")
	f.printRow(&b, footer, widths, rightAlign)
	f.printBorder(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

// calculateColumnWidths sizes each column to its widest cell in terminal cells
func (f *TableFormatter) calculateColumnWidths(headers []string, rows [][]string, footer []string) []int {
	widths := make([]int, len(headers))
	measure := func(values []string) {
		for i, value := range values {
			if i < len(widths) && util.DisplayWidth(value) > widths[i] {
				widths[i] = util.DisplayWidth(value)
			}
		}
	}

	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	measure(footer)

	for i := range widths {
		if widths[i] < f.minWidth {
			widths[i] = f.minWidth
		}
	}
	return widths
}

// printBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// printRow writes one row; nil rightAlign left-aligns every column
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int, rightAlign []bool) {
	b.WriteString("│")
	for i, width := range widths {
		var value string
		if i < len(values) {
			value = values[i]
		}
		if i < len(rightAlign) && rightAlign[i] {
			value = util.PadLeft(value, width)
		} else {
			value = util.PadRight(value, width)
		}
		b.WriteString(" " + value + " │")
	}
	b.WriteString("\n")
}

func algorithmTitle(report Report) string {
	if report.Algorithm == "" {
		return "Unknown algorithm"
	}
	return report.Algorithm
}
