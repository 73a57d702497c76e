package interaction

import (
	"github.com/penwyp/go-sched-timeline/internal/core/constants"
)

// ActionType is what a key press asks the player to do
type ActionType int

const (
	ActionNone ActionType = iota
	ActionToggle
	ActionReset
	ActionSeekBy
	ActionSeekFraction
	ActionSpeedUp
	ActionSlowDown
	ActionQuit
)

// Action is a resolved key binding. Value carries the seek delta or fraction.
type Action struct {
	Type  ActionType
	Value float64
}

// Resolve maps a key event to a player action
func Resolve(ev KeyEvent) Action {
	switch ev.Type {
	case KeyArrowLeft:
		return Action{Type: ActionSeekBy, Value: -constants.SeekStep}
	case KeyArrowRight:
		return Action{Type: ActionSeekBy, Value: constants.SeekStep}
	case KeyArrowUp:
		return Action{Type: ActionSpeedUp}
	case KeyArrowDown:
		return Action{Type: ActionSlowDown}
	case KeyHome:
		return Action{Type: ActionSeekFraction, Value: 0}
	case KeyEnd:
		return Action{Type: ActionSeekFraction, Value: 1}
	case KeyEscape:
		return Action{Type: ActionQuit}
	}

	switch ev.Key {
	case ' ', 'p', 'P':
		return Action{Type: ActionToggle}
	case 'r', 'R':
		return Action{Type: ActionReset}
	case 'h':
		return Action{Type: ActionSeekBy, Value: -constants.SeekStep}
	case 'l':
		return Action{Type: ActionSeekBy, Value: constants.SeekStep}
	case '+', '=':
		return Action{Type: ActionSpeedUp}
	case '-', '_':
		return Action{Type: ActionSlowDown}
	case 'g':
		return Action{Type: ActionSeekFraction, Value: 0}
	case 'G':
		return Action{Type: ActionSeekFraction, Value: 1}
	case 'q', 'Q', 3:
		return Action{Type: ActionQuit}
	}

	if ev.Key >= '0' && ev.Key <= '9' {
		return Action{Type: ActionSeekFraction, Value: float64(ev.Key-'0') / 10}
	}
	return Action{Type: ActionNone}
}

// NextSpeed returns the playback delay after a speed key. Faster playback
// means fewer milliseconds per step; the result stays within the allowed range.
func NextSpeed(currentMs int, action ActionType) int {
	next := currentMs
	switch action {
	case ActionSpeedUp:
		next -= constants.SpeedStepMs
	case ActionSlowDown:
		next += constants.SpeedStepMs
	}
	if next < constants.MinSpeedMs {
		next = constants.MinSpeedMs
	}
	if next > constants.MaxSpeedMs {
		next = constants.MaxSpeedMs
	}
	return next
}

// HelpLine is the key legend shown under the chart
func HelpLine() string {
	return "[space] play/pause  [←/→] seek  [+/-] speed  [0-9] jump  [g/G] start/end  [r] reset  [q] quit"
}
