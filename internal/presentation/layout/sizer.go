package layout

import (
	"os"

	"golang.org/x/term"

	"github.com/penwyp/go-sched-timeline/internal/util"
)

const (
	fallbackWidth = 80
	minWidth      = 40
	maxWidth      = 160
)

// TerminalWidth returns the usable stdout width with a fallback for pipes
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = fallbackWidth
	}
	width = ClampWidth(width)
	util.LogDebugf("Terminal width %d", width)
	return width
}

// ClampWidth keeps a width inside the range the layouts are drawn for
func ClampWidth(width int) int {
	if width < minWidth {
		return minWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}
