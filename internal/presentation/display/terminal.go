package display

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sched-timeline/internal/presentation/layout"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

const (
	enterAlternateScreen = "\033[?1049h"
	exitAlternateScreen  = "\033[?1049l"
	clearToEnd           = "\033[0J"
)

// DisplayConfig controls how frames are drawn
type DisplayConfig struct {
	Style string
	// Width overrides terminal detection when positive
	Width int
}

// TerminalDisplay draws player frames to a terminal, redrawing in place
type TerminalDisplay struct {
	out               io.Writer
	config            *DisplayConfig
	strategy          layout.LayoutStrategy
	inAlternateScreen bool
	isFirstRender     bool
	previousScreen    []string
}

// NewTerminalDisplay creates a display writing to out
func NewTerminalDisplay(out io.Writer, config *DisplayConfig) *TerminalDisplay {
	if config == nil {
		config = &DisplayConfig{}
	}
	return &TerminalDisplay{
		out:           out,
		config:        config,
		strategy:      layout.GetLayoutStrategy(config.Style),
		isFirstRender: true,
	}
}

// EnterAlternateScreen switches to the alternate screen buffer and hides the cursor
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, enterAlternateScreen, util.ClearScreen, util.MoveCursorHome, util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen restores the normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ShowCursor, exitAlternateScreen)
	td.inAlternateScreen = false
}

// Width returns the configured width or the terminal's
func (td *TerminalDisplay) Width() int {
	if td.config.Width > 0 {
		return layout.ClampWidth(td.config.Width)
	}
	return layout.TerminalWidth()
}

// Render draws frame. In the alternate screen only changed lines are rewritten.
func (td *TerminalDisplay) Render(frame layout.Frame) {
	var buf bytes.Buffer
	td.strategy.Render(&buf, frame, td.Width())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	if !td.inAlternateScreen {
		fmt.Fprint(td.out, buf.String())
		return
	}

	var screen strings.Builder
	screen.WriteString(util.MoveCursorHome)
	for i, line := range lines {
		if !td.isFirstRender && i < len(td.previousScreen) && td.previousScreen[i] == line {
			screen.WriteString("\n")
			continue
		}
		screen.WriteString(util.ClearLine)
		screen.WriteString(line)
		screen.WriteString("\n")
	}
	screen.WriteString(clearToEnd)
	fmt.Fprint(td.out, screen.String())

	td.previousScreen = lines
	td.isFirstRender = false
}

// Render draws a single frame with the given style to w
func Render(w io.Writer, frame layout.Frame, config *DisplayConfig) {
	NewTerminalDisplay(w, config).Render(frame)
}
