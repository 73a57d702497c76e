package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/core/playback"
	"github.com/penwyp/go-sched-timeline/internal/core/timeline"
	"github.com/penwyp/go-sched-timeline/internal/data/client"
	"github.com/penwyp/go-sched-timeline/internal/data/parser"
	"github.com/penwyp/go-sched-timeline/internal/metrics"
	"github.com/penwyp/go-sched-timeline/internal/presentation/display"
	"github.com/penwyp/go-sched-timeline/internal/presentation/interaction"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

// Orchestrator owns a timeline and its playback clock and drives the UI
type Orchestrator struct {
	config *PlayerConfig
	id     string

	// Core components
	loader  *DataLoader
	cache   *timeline.SegmentCache
	state   *StateManager
	metrics *metrics.Recorder
	source  client.Source

	// UI components
	display   DisplayController
	input     InputHandler
	watcher   FileMonitor
	newFrames func() playback.FrameSource

	// Playback; replaced on every successful reload
	driver  *playback.Driver
	speedMs int

	closeOnce sync.Once
}

// Option customizes an Orchestrator
type Option func(*Orchestrator)

// WithDisplay replaces the terminal display
func WithDisplay(d DisplayController) Option {
	return func(o *Orchestrator) { o.display = d }
}

// WithInput replaces the raw-mode keyboard
func WithInput(in InputHandler) Option {
	return func(o *Orchestrator) { o.input = in }
}

// WithFileMonitor replaces the trace file watcher
func WithFileMonitor(m FileMonitor) Option {
	return func(o *Orchestrator) { o.watcher = m }
}

// WithFrameSource sets how each new clock is scheduled
func WithFrameSource(newFrames func() playback.FrameSource) Option {
	return func(o *Orchestrator) { o.newFrames = newFrames }
}

// WithMetrics shares a metrics recorder
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *Orchestrator) { o.metrics = r }
}

// WithSource replaces the payload source derived from config
func WithSource(src client.Source) Option {
	return func(o *Orchestrator) { o.source = src }
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *PlayerConfig, opts ...Option) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := &Orchestrator{
		config:  config,
		id:      uuid.NewString(),
		cache:   timeline.NewSegmentCache(),
		state:   NewStateManager(),
		speedMs: config.SpeedMs,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.source == nil {
		src, err := client.NewSource(client.SourceConfig{
			TracePath:    config.TracePath,
			RequestPath:  config.RequestPath,
			SchedulerURL: config.SchedulerURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create payload source: %w", err)
		}
		o.source = src
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}
	o.metrics.WatchSegmentBuilds(o.cache)

	if o.display == nil {
		o.display = display.NewTerminalDisplay(os.Stdout, &display.DisplayConfig{
			Style: config.Layout,
			Width: config.Width,
		})
	}
	if o.newFrames == nil {
		interval := time.Duration(float64(time.Second) / config.FrameRate)
		o.newFrames = func() playback.FrameSource { return playback.TickerFrames(interval) }
	}

	o.loader = NewDataLoader(o.source, parser.Options{DefaultAlgorithm: config.DefaultAlgorithm}, o.metrics)
	return o, nil
}

// ID identifies this player instance in logs
func (o *Orchestrator) ID() string {
	return o.id
}

// State exposes the owning view's state
func (o *Orchestrator) State() *StateManager {
	return o.state
}

// Metrics returns the recorder fed by this player
func (o *Orchestrator) Metrics() *metrics.Recorder {
	return o.metrics
}

// Snapshot reads the clock through its driver, after every pending notification
func (o *Orchestrator) Snapshot() (playback.Snapshot, error) {
	if o.driver == nil {
		return playback.Snapshot{}, playback.ErrDriverNotStarted
	}
	return o.driver.Snapshot()
}

// Load normalizes the initial payload and starts a clock over it. No clock is
// started when normalization fails.
func (o *Orchestrator) Load(ctx context.Context) error {
	trace, err := o.loader.Load(ctx)
	if err != nil {
		o.state.SetError(err)
		return err
	}
	o.state.SetError(nil)
	return o.install(ctx, trace, o.config.ResumeAt)
}

// Reload re-reads the payload. On failure the current timeline keeps playing
// and the error is surfaced; on success playback restarts paused at the
// stored resume point.
func (o *Orchestrator) Reload(ctx context.Context) error {
	trace, err := o.loader.Load(ctx)
	if err != nil {
		o.state.SetError(err)
		util.LogWarn("Reload failed, keeping previous timeline", util.F("instance", o.id), util.F("error", err.Error()))
		return err
	}

	if o.driver != nil {
		// Pausing stores the current position as the resume point
		if _, err := o.driver.Pause(); err != nil && !errors.Is(err, playback.ErrDriverClosed) {
			util.LogWarn("Failed to pause before reload", util.F("instance", o.id), util.F("error", err.Error()))
		}
		o.driver.Close()
		o.driver = nil
	}

	resume, _ := o.state.ResumePoint()
	o.state.SetError(nil)
	o.state.SetNotice(fmt.Sprintf("Reloaded %s", o.source.Name()))
	return o.install(ctx, trace, resume)
}

func (o *Orchestrator) install(ctx context.Context, trace *model.NormalizedTrace, resume float64) error {
	segments := o.cache.Segments(trace)
	total := trace.TotalExecutionTime()

	o.state.SetTimeline(trace, segments)
	o.state.SetPlayback(o.speedMs, o.config.Quantum)
	o.metrics.SetTotal(total)

	clock := playback.NewClock(total,
		playback.WithResumeCursor(resume),
		playback.WithSpeed(o.speedMs),
		playback.WithQuantum(o.config.Quantum),
		playback.WithObserver(o.state.Observer()),
		playback.WithObserver(o.metrics.Observer()),
	)
	driver := playback.NewDriver(clock, o.newFrames())
	if err := driver.Start(ctx); err != nil {
		driver.Close()
		return fmt.Errorf("failed to start playback: %w", err)
	}
	o.driver = driver

	util.LogInfo("Timeline ready",
		util.F("instance", o.id),
		util.F("segments", len(segments)),
		util.F("total", total),
		util.F("resume_at", clock.Cursor()))

	if o.config.AutoPlay {
		if _, err := driver.Play(); err != nil {
			return fmt.Errorf("failed to start playback: %w", err)
		}
	}
	return nil
}

// HandleAction applies a key binding. It reports whether the player should quit.
func (o *Orchestrator) HandleAction(action interaction.Action) (bool, error) {
	if action.Type == interaction.ActionQuit {
		return true, nil
	}
	if o.driver == nil {
		return false, nil
	}

	var err error
	switch action.Type {
	case interaction.ActionToggle:
		_, err = o.driver.Toggle()
	case interaction.ActionReset:
		err = o.driver.Reset()
		o.state.SetNotice("")
	case interaction.ActionSeekBy:
		err = o.driver.SeekBy(action.Value)
	case interaction.ActionSeekFraction:
		err = o.driver.SeekFraction(action.Value)
	case interaction.ActionSpeedUp, interaction.ActionSlowDown:
		next := interaction.NextSpeed(o.speedMs, action.Type)
		if err = o.driver.SetSpeed(next); err == nil {
			o.speedMs = next
			o.state.SetPlayback(next, o.config.Quantum)
		}
	}
	return false, err
}

// Run loads the timeline and runs the interactive loop until quit or ctx ends
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting timeline player", util.F("instance", o.id), util.F("source", o.source.Name()))
	defer o.Close()

	if err := o.Load(ctx); err != nil {
		return err
	}

	if o.input == nil {
		keyboard, err := interaction.NewKeyboardReader()
		switch {
		case err == nil:
			o.input = keyboard
		case errors.Is(err, interaction.ErrNotTerminal):
			util.LogInfo("Stdin is not a terminal, running without key bindings")
		default:
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
	}

	if o.config.Watch && o.watcher == nil {
		watcher, err := NewFileWatcher(o.config.TracePath)
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		o.watcher = watcher
	}

	if o.config.MetricsAddr != "" {
		go func() {
			if err := o.metrics.Serve(ctx, o.config.MetricsAddr); err != nil {
				util.LogError("Metrics endpoint stopped", util.F("error", err.Error()))
			}
		}()
	}

	var keyEvents <-chan interaction.KeyEvent
	if o.input != nil {
		keyEvents = o.input.Events()
	}
	var fileEvents <-chan FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	uiTicker := time.NewTicker(time.Duration(float64(time.Second) / o.config.UIRefreshRate))
	defer uiTicker.Stop()

	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down timeline player", util.F("instance", o.id))
			return nil

		case <-uiTicker.C:
			o.updateDisplay()
			if o.config.ExitOnComplete && o.state.Snapshot().Status == playback.StatusCompleted {
				return nil
			}

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			util.LogDebug("Trace file changed", util.F("path", event.Path), util.F("op", event.Operation))
			_ = o.Reload(ctx)
			o.updateDisplay()

		case key, ok := <-keyEvents:
			if !ok {
				keyEvents = nil
				continue
			}
			quit, err := o.HandleAction(interaction.Resolve(key))
			if err != nil {
				util.LogWarn("Key action failed", util.F("error", err.Error()))
			}
			if quit {
				return nil
			}
			o.updateDisplay()
		}
	}
}

func (o *Orchestrator) updateDisplay() {
	o.display.Render(o.state.Frame())
}

// Close stops playback and releases input and file watching
func (o *Orchestrator) Close() error {
	var firstErr error
	o.closeOnce.Do(func() {
		if o.driver != nil {
			o.driver.Close()
		}
		if o.input != nil {
			if err := o.input.Close(); err != nil {
				firstErr = err
			}
		}
		if o.watcher != nil {
			if err := o.watcher.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to close file watcher: %w", err)
			}
		}
	})
	return firstErr
}
