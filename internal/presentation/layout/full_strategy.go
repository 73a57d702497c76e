package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sched-timeline/internal/core/timeline"
	"github.com/penwyp/go-sched-timeline/internal/presentation/interaction"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

// FullLayoutStrategy draws the chart, queues, legend and key help
type FullLayoutStrategy struct{}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Timeline"
}

func (s *FullLayoutStrategy) Render(w io.Writer, frame Frame, width int) {
	var lines []string
	add := func(format string, args ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	clock := frame.Clock
	add("%s", util.FormatHeaderTitle("CPU Scheduling Timeline: "+frame.Algorithm()))
	add("%s %s  Time: %s / %s  Speed: %s",
		frame.StatusIcon(), clock.Status,
		util.FormatSimTime(clock.Cursor), util.FormatSimTime(clock.Total),
		util.FormatSpeed(clock.SpeedMs))
	add("Current: %s", util.Bold(frame.CurrentLabel()))
	add("%s", util.Separator(width))

	if len(frame.Segments) == 0 {
		add("No timeline data available")
	} else {
		vp := newGanttViewport(clock.Total, len(frame.Segments), width, clock.Cursor)
		add("%s", strings.TrimRight(renderLabels(frame.Segments, clock.Cursor, vp), " "))
		add("%s", renderBar(frame.Segments, clock.Cursor, vp))
		add("%s", renderCursor(clock.Cursor, vp))
		add("%s", renderMarkers(frame.Segments, vp))
		if hint := scrollHint(vp); hint != "" {
			add("%s", util.Colorize(util.ColorDim, hint))
		}
	}

	add("%s", util.Separator(width))
	lines = append(lines, queueLines(frame.Queues())...)

	if legend := timeline.Legend(frame.Entries()); len(legend) > 0 {
		add("Processes: %s", util.FormatProcessList(legend))
	}

	add("%s", util.Separator(width))
	add("%s", interaction.HelpLine())
	if frame.Notice != "" {
		add("%s", util.Colorize(util.ColorYellow, frame.Notice))
	}

	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// queueLines renders the single ready queue or one row per priority level
func queueLines(q timeline.QueueSnapshot) []string {
	if len(q.ByLevel) == 0 {
		return []string{
			util.FormatSectionTitle("Ready Queue"),
			"  " + util.FormatProcessList(q.ReadyQueue),
		}
	}

	lines := []string{util.FormatSectionTitle("Multi-Level Queue")}
	labelWidth := 0
	for _, level := range q.ByLevel {
		if w := util.DisplayWidth(level.Label); w > labelWidth {
			labelWidth = w
		}
	}
	for _, level := range q.ByLevel {
		marker := " "
		if level.Active {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf(" %s Q%d %s  %s",
			marker, level.Level, util.PadRight(level.Label, labelWidth), util.FormatProcessList(level.Processes)))
	}
	return lines
}
