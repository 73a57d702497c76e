package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/penwyp/go-sched-timeline/internal/core/constants"
	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/core/timeline"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

const (
	cellFilled = "█"
	cellIdle   = "▒"
	cellAhead  = "░"
	cellHidden = " "
)

// ganttViewport maps chart columns to simulation time. Long traces get a
// virtual chart wider than the screen that scrolls to follow the cursor.
type ganttViewport struct {
	total   float64
	virtual int // columns in the whole chart
	width   int // columns on screen
	offset  int // first virtual column on screen
}

func newGanttViewport(total float64, segmentCount, width int, cursor float64) ganttViewport {
	if width < 1 {
		width = 1
	}
	virtual := width * timeline.ChartWidthPercent(segmentCount) / constants.BaseChartWidthPercent
	vp := ganttViewport{total: total, virtual: virtual, width: width}
	if total <= 0 || virtual <= width {
		return vp
	}

	cursorCol := int(cursor / total * float64(virtual))
	offset := cursorCol - width/2
	if offset < 0 {
		offset = 0
	}
	if offset > virtual-width {
		offset = virtual - width
	}
	vp.offset = offset
	return vp
}

// timeAt returns the simulation time at the middle of screen column col
func (vp ganttViewport) timeAt(col int) float64 {
	return (float64(vp.offset+col) + 0.5) / float64(vp.virtual) * vp.total
}

// column returns the screen column for time t, or -1 if it is off screen
func (vp ganttViewport) column(t float64) int {
	if vp.total <= 0 {
		return -1
	}
	col := int(math.Round(t/vp.total*float64(vp.virtual))) - vp.offset
	if col == vp.width {
		col = vp.width - 1
	}
	if col < 0 || col >= vp.width {
		return -1
	}
	return col
}

// renderBar draws the gantt row. Segments not yet started are blank; started
// segments fill up to the cursor and show the rest as shaded.
func renderBar(segments []model.Segment, cursor float64, vp ganttViewport) string {
	var b strings.Builder
	idx := 0
	for col := 0; col < vp.width; col++ {
		t := vp.timeAt(col)
		for idx < len(segments) && segments[idx].EndTime <= t {
			idx++
		}
		if vp.total <= 0 || idx >= len(segments) || segments[idx].StartTime > t {
			b.WriteString(cellHidden)
			continue
		}

		seg := segments[idx]
		switch {
		case seg.StartTime > cursor:
			b.WriteString(cellHidden)
		case t >= cursor:
			b.WriteString(cellAhead)
		case seg.IsIdle():
			b.WriteString(cellIdle)
		default:
			b.WriteString(cellFilled)
		}
	}
	return b.String()
}

// renderLabels centres each visible segment's label inside its columns when it fits
func renderLabels(segments []model.Segment, cursor float64, vp ganttViewport) string {
	row := []rune(strings.Repeat(" ", vp.width))
	for _, seg := range timeline.Visible(segments, cursor) {
		start := vp.column(seg.StartTime)
		end := vp.column(seg.EndTime)
		if start < 0 || end < 0 {
			continue
		}
		label := []rune(seg.Label())
		if end-start < len(label)+1 {
			continue
		}
		at := start + (end-start-len(label))/2
		copy(row[at:], label)
	}
	return string(row)
}

// renderMarkers places time markers under the bar; markers that would overlap are dropped
func renderMarkers(segments []model.Segment, vp ganttViewport) string {
	row := []rune(strings.Repeat(" ", vp.width))
	next := 0
	for _, t := range timeline.TimeMarkers(segments, constants.MaxTimeMarkers) {
		col := vp.column(t)
		if col < 0 || col < next {
			continue
		}
		text := []rune(util.FormatFloat(t))
		if col+len(text) > vp.width {
			col = vp.width - len(text)
			if col < next {
				continue
			}
		}
		copy(row[col:], text)
		next = col + len(text) + 1
	}
	return strings.TrimRight(string(row), " ")
}

// renderCursor draws a caret under the cursor column
func renderCursor(cursor float64, vp ganttViewport) string {
	col := vp.column(cursor)
	if col < 0 {
		return ""
	}
	return strings.Repeat(" ", col) + "^"
}

// scrollHint reports which part of a wide chart is on screen
func scrollHint(vp ganttViewport) string {
	if vp.virtual <= vp.width {
		return ""
	}
	from := float64(vp.offset) / float64(vp.virtual) * vp.total
	to := float64(vp.offset+vp.width) / float64(vp.virtual) * vp.total
	return fmt.Sprintf("showing %s-%s of %s", util.FormatSimTime(from), util.FormatSimTime(to), util.FormatSimTime(vp.total))
}
