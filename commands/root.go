package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-sched-timeline/internal/application/player"
	"github.com/penwyp/go-sched-timeline/internal/core/constants"
	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/data/client"
	"github.com/penwyp/go-sched-timeline/internal/data/parser"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

var (
	// Logging related
	debug     bool
	logLevel  string
	logFile   string
	logFormat string

	// Optional YAML config; explicit flags win over its values
	configPath string

	// Payload source
	tracePath        string
	requestPath      string
	schedulerURL     string
	defaultAlgorithm string

	rootCmd = &cobra.Command{
		Use:   "go-sched-timeline",
		Short: "CPU scheduling timeline player",
		Long: `go-sched-timeline replays the output of a CPU scheduling simulation as an
animated Gantt chart in the terminal.

A payload is either read from a JSON file or requested from a running
scheduler service.

Examples:
  go-sched-timeline play --trace fcfs.json                  # Play a saved result
  go-sched-timeline play --request mlfq.json --autoplay     # Ask the scheduler, then play
  go-sched-timeline play --trace rr.json --watch            # Reload when the file changes
  go-sched-timeline segments --trace rr.json --sort duration
  go-sched-timeline stats --trace rr.json --output json`,
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}
)

const defaultLogFile = "~/.go-sched-timeline/logs/app.log"

func init() {
	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode (debug level, log to stderr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", string(util.FormatText),
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML config file")

	// Payload source
	rootCmd.PersistentFlags().StringVarP(&tracePath, "trace", "t", "",
		"Scheduler result JSON file")
	rootCmd.PersistentFlags().StringVar(&requestPath, "request", "",
		"Schedule request JSON file to submit to the scheduler service")
	rootCmd.PersistentFlags().StringVar(&schedulerURL, "scheduler-url", constants.DefaultSchedulerBaseURL,
		"Scheduler service base URL")
	rootCmd.PersistentFlags().StringVar(&defaultAlgorithm, "algorithm", "",
		"Algorithm name used when the payload does not carry one")
}

func Execute() error {
	return rootCmd.Execute()
}

func initLogging(cmd *cobra.Command, args []string) error {
	level := logLevel
	if debug {
		level = "debug"
	}

	opts := util.LoggerOptions{
		Level:  level,
		Format: util.LogFormat(logFormat),
	}
	if logFile != "" {
		opts.File = expandPath(logFile)
		if err := ensureDir(filepath.Dir(opts.File)); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	if debug {
		opts.Console = os.Stderr
	}
	if opts.File == "" && opts.Console == nil {
		util.SetLogger(nil)
		return nil
	}

	if err := util.InitLogger(opts); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	util.LogDebug("Logger initialized", util.F("command", cmd.Name()), util.F("level", level))
	return nil
}

// loadPlayerConfig merges the config file, if any, with explicitly set flags
func loadPlayerConfig(cmd *cobra.Command) (*player.PlayerConfig, error) {
	cfg := &player.PlayerConfig{}
	if configPath != "" {
		loaded, err := player.LoadConfigFile(expandPath(configPath))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	override := func(name string) bool {
		return configPath == "" || cmd.Flags().Changed(name)
	}
	if override("trace") && tracePath != "" {
		cfg.TracePath = expandPath(tracePath)
	}
	if override("request") && requestPath != "" {
		cfg.RequestPath = expandPath(requestPath)
	}
	if override("scheduler-url") {
		cfg.SchedulerURL = schedulerURL
	}
	if override("algorithm") && defaultAlgorithm != "" {
		cfg.DefaultAlgorithm = defaultAlgorithm
	}
	return cfg, nil
}

// loadTrace fetches and normalizes the payload for the one-shot commands
func loadTrace(ctx context.Context, cmd *cobra.Command) (*model.NormalizedTrace, error) {
	cfg, err := loadPlayerConfig(cmd)
	if err != nil {
		return nil, err
	}

	src, err := client.NewSource(client.SourceConfig{
		TracePath:    cfg.TracePath,
		RequestPath:  cfg.RequestPath,
		SchedulerURL: cfg.SchedulerURL,
	})
	if err != nil {
		return nil, err
	}

	loader := player.NewDataLoader(src, parser.Options{DefaultAlgorithm: cfg.DefaultAlgorithm}, nil)
	return loader.Load(ctx)
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
