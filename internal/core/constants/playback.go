package constants

import "time"

const (
	// Wall-clock milliseconds per simulation quantum
	DefaultSpeedMs = 300
	MinSpeedMs     = 50
	MaxSpeedMs     = 800
	SpeedStepMs    = 50

	// Simulation time added per elapsed speed period
	DefaultQuantum = 0.05

	// Frame scheduling for the playback driver (~60 fps)
	DefaultFrameInterval = 16 * time.Millisecond

	// Manual scrubbing step for arrow keys
	SeekStep = 1.0
)

const (
	// Timeline rendering limits
	MaxTimeMarkers        = 20
	BaseChartWidthPercent = 100
	MaxChartWidthPercent  = 500
	ChartWidthPerSegment  = 8
	ChartWidthFreeSegs    = 10
)

const (
	DefaultSchedulerBaseURL = "http://0.0.0.0:18080"
	SchedulerTimeout        = 30 * time.Second
)
