package player

import (
	"github.com/penwyp/go-sched-timeline/internal/presentation/interaction"
	"github.com/penwyp/go-sched-timeline/internal/presentation/layout"
)

// DisplayController handles terminal display operations
type DisplayController interface {
	EnterAlternateScreen()
	ExitAlternateScreen()
	Render(frame layout.Frame)
}

// InputHandler processes keyboard input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	Close() error
}

// FileMonitor watches the trace file for changes
type FileMonitor interface {
	Events() <-chan FileEvent
	Close() error
}
