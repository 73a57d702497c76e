package util

import (
	"fmt"
	"strings"
)

// FormatSimTime renders a simulation time with one decimal
func FormatSimTime(t float64) string {
	return fmt.Sprintf("%.1f", t)
}

// FormatSpeed renders a playback speed in milliseconds per step
func FormatSpeed(ms int) string {
	return fmt.Sprintf("%dms", ms)
}

// FormatProcessList renders process IDs as "P1, P3"; an empty list reads "Empty"
func FormatProcessList(pids []int) string {
	if len(pids) == 0 {
		return "Empty"
	}
	names := make([]string, len(pids))
	for i, pid := range pids {
		names[i] = fmt.Sprintf("P%d", pid)
	}
	return strings.Join(names, ", ")
}

// FormatFloat trims a float to at most two decimals for tables and CSV
func FormatFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
