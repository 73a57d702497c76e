package layout

import (
	"io"
)

// LayoutStrategy renders one frame of the player
type LayoutStrategy interface {
	Render(w io.Writer, frame Frame, width int)
	GetName() string
}

const (
	StyleFull    = "full"
	StyleCompact = "compact"
)

// GetLayoutStrategy returns the strategy for style, defaulting to the full view
func GetLayoutStrategy(style string) LayoutStrategy {
	strategies := map[string]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleCompact: &CompactLayoutStrategy{},
	}

	if strategy, exists := strategies[style]; exists {
		return strategy
	}
	return &FullLayoutStrategy{}
}
