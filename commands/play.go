package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-sched-timeline/internal/application/player"
	"github.com/penwyp/go-sched-timeline/internal/core/constants"
	"github.com/penwyp/go-sched-timeline/internal/presentation/layout"
)

var (
	// Playback flags
	playSpeedMs  int
	playQuantum  float64
	playResumeAt float64
	playAutoPlay bool
	playExit     bool

	// Display flags
	playFrameRate        float64
	playRefreshPerSecond float64
	playLayout           string
	playWidth            int

	// Live reload and observability
	playWatch       bool
	playMetricsAddr string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a scheduling timeline in the terminal",
	Long: `Replays a scheduling result as an animated Gantt chart with the ready queue
(or every queue level for multi-level schedulers) shown at the playback cursor.

Keys:
  space/p   play or pause        r         reset to the start
  ←/→, h/l  seek one time unit    0-9       seek to a tenth of the run
  ↑/↓, +/-  faster or slower      g/G       jump to start or end
  q/Esc     quit`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	// Playback flags
	playCmd.Flags().IntVar(&playSpeedMs, "speed", constants.DefaultSpeedMs,
		"Wall-clock milliseconds per playback step (50-800)")
	playCmd.Flags().Float64Var(&playQuantum, "quantum", constants.DefaultQuantum,
		"Simulation time advanced per playback step")
	playCmd.Flags().Float64Var(&playResumeAt, "resume-at", 0,
		"Start with the cursor at this simulation time")
	playCmd.Flags().BoolVar(&playAutoPlay, "autoplay", false,
		"Start playing immediately")
	playCmd.Flags().BoolVar(&playExit, "exit-on-complete", false,
		"Exit once playback reaches the end")

	// Display flags
	playCmd.Flags().Float64Var(&playFrameRate, "frame-rate", 60,
		"Playback frames per second")
	playCmd.Flags().Float64Var(&playRefreshPerSecond, "refresh-per-second", 20,
		"Display refresh rate in Hz")
	playCmd.Flags().StringVar(&playLayout, "layout", layout.StyleFull,
		"Layout style (full, compact)")
	playCmd.Flags().IntVar(&playWidth, "width", 0,
		"Display width in columns (0 = terminal width)")

	// Live reload and observability
	playCmd.Flags().BoolVarP(&playWatch, "watch", "w", false,
		"Reload the trace file when it changes")
	playCmd.Flags().StringVar(&playMetricsAddr, "metrics-addr", "",
		"Serve /metrics and /healthz on this address (e.g. :9090)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	config, err := buildPlayConfig(cmd)
	if err != nil {
		return err
	}

	orchestrator, err := player.NewOrchestrator(config)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.Run(ctx)
}

// buildPlayConfig layers play flags over the shared source settings
func buildPlayConfig(cmd *cobra.Command) (*player.PlayerConfig, error) {
	config, err := loadPlayerConfig(cmd)
	if err != nil {
		return nil, err
	}

	override := func(name string) bool {
		return configPath == "" || cmd.Flags().Changed(name)
	}
	if override("speed") {
		config.SpeedMs = playSpeedMs
	}
	if override("quantum") {
		config.Quantum = playQuantum
	}
	if override("resume-at") {
		config.ResumeAt = playResumeAt
	}
	if override("autoplay") {
		config.AutoPlay = playAutoPlay
	}
	if override("exit-on-complete") {
		config.ExitOnComplete = playExit
	}
	if override("frame-rate") {
		config.FrameRate = playFrameRate
	}
	if override("refresh-per-second") {
		config.UIRefreshRate = playRefreshPerSecond
	}
	if override("layout") {
		config.Layout = playLayout
	}
	if override("width") {
		config.Width = playWidth
	}
	if override("watch") {
		config.Watch = playWatch
	}
	if override("metrics-addr") {
		config.MetricsAddr = playMetricsAddr
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
