package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-sched-timeline/internal/core/constants"
	"github.com/penwyp/go-sched-timeline/internal/presentation/layout"
)

// PlayerConfig contains configuration for the play command
type PlayerConfig struct {
	// Payload source; TracePath wins over RequestPath
	TracePath    string `yaml:"trace"`
	RequestPath  string `yaml:"request"`
	SchedulerURL string `yaml:"scheduler_url"`

	// Used when the payload does not name its algorithm
	DefaultAlgorithm string `yaml:"default_algorithm"`

	// Playback settings
	SpeedMs   int     `yaml:"speed_ms"`
	Quantum   float64 `yaml:"quantum"`
	ResumeAt  float64 `yaml:"resume_at"`
	FrameRate float64 `yaml:"frame_rate"`

	// Display settings
	UIRefreshRate float64 `yaml:"ui_refresh_rate"`
	Layout        string  `yaml:"layout"`
	Width         int     `yaml:"width"`

	// Start playing as soon as the trace is loaded
	AutoPlay bool `yaml:"autoplay"`
	// Leave the player once playback completes
	ExitOnComplete bool `yaml:"exit_on_complete"`

	// Reload the trace file when it changes
	Watch bool `yaml:"watch"`

	// Serve /metrics and /healthz on this address when set
	MetricsAddr string `yaml:"metrics_addr"`
}

// Validate fills defaults and rejects settings the player cannot run with
func (c *PlayerConfig) Validate() error {
	if c.TracePath == "" && c.RequestPath == "" {
		return fmt.Errorf("either a trace file or a schedule request is required")
	}
	if c.SchedulerURL == "" {
		c.SchedulerURL = constants.DefaultSchedulerBaseURL
	}
	if c.SpeedMs == 0 {
		c.SpeedMs = constants.DefaultSpeedMs
	}
	if c.SpeedMs < constants.MinSpeedMs || c.SpeedMs > constants.MaxSpeedMs {
		return fmt.Errorf("speed must be between %dms and %dms, got %dms",
			constants.MinSpeedMs, constants.MaxSpeedMs, c.SpeedMs)
	}
	if c.Quantum == 0 {
		c.Quantum = constants.DefaultQuantum
	}
	if c.Quantum < 0 {
		return fmt.Errorf("quantum must be positive, got %g", c.Quantum)
	}
	if c.ResumeAt < 0 {
		c.ResumeAt = 0
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 60
	}
	if c.UIRefreshRate <= 0 {
		c.UIRefreshRate = 20
	}
	if c.Layout == "" {
		c.Layout = layout.StyleFull
	}
	if c.Watch && c.TracePath == "" {
		return fmt.Errorf("watch mode needs a trace file")
	}
	return nil
}

// LoadConfigFile reads a YAML config. A leading ~ in the path is expanded.
func LoadConfigFile(path string) (*PlayerConfig, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &PlayerConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
