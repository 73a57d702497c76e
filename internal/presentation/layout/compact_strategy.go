package layout

import (
	"fmt"
	"io"

	"github.com/penwyp/go-sched-timeline/internal/util"
)

// CompactLayoutStrategy prints a single status line per frame
type CompactLayoutStrategy struct{}

func (s *CompactLayoutStrategy) GetName() string {
	return "Compact Timeline"
}

func (s *CompactLayoutStrategy) Render(w io.Writer, frame Frame, width int) {
	line := fmt.Sprintf("%s | %s %s | %s/%s | %s | Ready: %s",
		frame.Algorithm(),
		frame.StatusIcon(), frame.Clock.Status,
		util.FormatSimTime(frame.Clock.Cursor), util.FormatSimTime(frame.Clock.Total),
		frame.CurrentLabel(),
		util.FormatProcessList(frame.Queues().ReadyQueue))
	if frame.Notice != "" {
		line += " | " + frame.Notice
	}
	fmt.Fprintln(w, util.PadRight(line, width))
}
