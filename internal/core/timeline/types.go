package timeline

// Current-process labels shown when no entry covers the cursor
const (
	LabelIdle      = "Idle (CPU waiting)"
	LabelReady     = "Ready to Start"
	LabelCompleted = "Execution Complete"
)

// QueueSnapshot is the ready-queue view at a cursor position
type QueueSnapshot struct {
	ProcessID  int
	Running    bool // false before start and after completion
	QueueLevel *int
	ReadyQueue []int
	ByLevel    []LevelQueue // multi-level traces only, ordered by level
}

// LevelQueue is one priority level of a multi-level snapshot
type LevelQueue struct {
	Level     int
	Label     string
	Processes []int
	Active    bool // the running process was dispatched from this level
}
