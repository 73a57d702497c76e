package player

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-sched-timeline/internal/core/playback"
	"github.com/penwyp/go-sched-timeline/internal/data/parser"
	"github.com/penwyp/go-sched-timeline/internal/metrics"
	"github.com/penwyp/go-sched-timeline/internal/presentation/interaction"
	"github.com/penwyp/go-sched-timeline/internal/presentation/layout"
)

const (
	eightUnitPayload = `{"scheduling_algorithm":"FCFS","gantt_chart":[
		{"process_id":1,"start_time":0,"end_time":3,"ready_queue":[2]},
		{"process_id":2,"start_time":3,"end_time":8,"ready_queue":[]}],"process_stats":[]}`
	tenUnitPayload = `{"scheduling_algorithm":"SJF","gantt_chart":[
		{"process_id":2,"start_time":0,"end_time":4,"ready_queue":[1]},
		{"process_id":1,"start_time":4,"end_time":10,"ready_queue":[]}],"process_stats":[]}`
	brokenPayload = `{"gantt_chart":[{"process_id":1,"start_time":5,"end_time":2}],"process_stats":[]}`
)

type fakeDisplay struct {
	mu      sync.Mutex
	frames  []layout.Frame
	entered int
	exited  int
}

func (d *fakeDisplay) EnterAlternateScreen() { d.mu.Lock(); d.entered++; d.mu.Unlock() }
func (d *fakeDisplay) ExitAlternateScreen()  { d.mu.Lock(); d.exited++; d.mu.Unlock() }
func (d *fakeDisplay) Render(f layout.Frame) { d.mu.Lock(); d.frames = append(d.frames, f); d.mu.Unlock() }

func (d *fakeDisplay) counts() (int, int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entered, d.exited, len(d.frames)
}

type fakeInput struct {
	ch     chan interaction.KeyEvent
	closed bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{ch: make(chan interaction.KeyEvent)}
}

func (f *fakeInput) Events() <-chan interaction.KeyEvent { return f.ch }
func (f *fakeInput) Close() error                        { f.closed = true; return nil }

type fakeMonitor struct {
	ch     chan FileEvent
	closed bool
}

func (f *fakeMonitor) Events() <-chan FileEvent { return f.ch }
func (f *fakeMonitor) Close() error             { f.closed = true; return nil }

// noFrames never ticks; tests drive the clock through commands only
type noFrames struct{}

func (noFrames) Frames() <-chan time.Time { return nil }
func (noFrames) Stop()                    {}

func writeTrace(t *testing.T, path, payload string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))
}

func newTestOrchestrator(t *testing.T, payload string, cfg PlayerConfig, opts ...Option) (*Orchestrator, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.json")
	writeTrace(t, path, payload)
	cfg.TracePath = path

	opts = append([]Option{
		WithDisplay(&fakeDisplay{}),
		WithFrameSource(func() playback.FrameSource { return noFrames{} }),
	}, opts...)
	o, err := NewOrchestrator(&cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { o.Close() })
	return o, path
}

func TestNewOrchestratorInvalidConfig(t *testing.T) {
	_, err := NewOrchestrator(&PlayerConfig{})
	assert.Error(t, err)
}

func TestOrchestratorLoadFailureStartsNoClock(t *testing.T) {
	rec := metrics.New()
	o, _ := newTestOrchestrator(t, brokenPayload, PlayerConfig{}, WithMetrics(rec))

	err := o.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrMalformedPayload)
	assert.Error(t, o.State().LastError())

	_, err = o.Snapshot()
	assert.ErrorIs(t, err, playback.ErrDriverNotStarted)
	count, err := testutil.GatherAndCount(rec.Registry(), "timeline_normalize_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOrchestratorActions(t *testing.T) {
	o, _ := newTestOrchestrator(t, eightUnitPayload, PlayerConfig{ResumeAt: 2})
	require.NoError(t, o.Load(context.Background()))
	assert.NotEmpty(t, o.ID())

	snap, err := o.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 2.0, snap.Cursor)
	assert.Equal(t, 8.0, snap.Total)
	assert.Equal(t, playback.StatusPaused, snap.Status)

	act := func(a interaction.Action) playback.Snapshot {
		t.Helper()
		quit, err := o.HandleAction(a)
		require.NoError(t, err)
		require.False(t, quit)
		snap, err := o.Snapshot()
		require.NoError(t, err)
		return snap
	}

	snap = act(interaction.Action{Type: interaction.ActionToggle})
	assert.Equal(t, playback.ModePlaying, snap.Mode)
	assert.Equal(t, playback.StatusPlaying, o.State().Snapshot().Status)

	snap = act(interaction.Action{Type: interaction.ActionSeekFraction, Value: 0.5})
	assert.Equal(t, 4.0, snap.Cursor)
	assert.Equal(t, playback.ModeStopped, snap.Mode)

	snap = act(interaction.Action{Type: interaction.ActionSeekBy, Value: -1})
	assert.Equal(t, 3.0, snap.Cursor)
	resume, ok := o.State().ResumePoint()
	assert.True(t, ok)
	assert.Equal(t, 3.0, resume)

	snap = act(interaction.Action{Type: interaction.ActionSpeedUp})
	assert.Equal(t, 250, snap.SpeedMs)
	assert.Equal(t, 250, o.State().SpeedMs())

	snap = act(interaction.Action{Type: interaction.ActionReset})
	assert.Equal(t, 0.0, snap.Cursor)
	_, ok = o.State().ResumePoint()
	assert.False(t, ok)

	quit, err := o.HandleAction(interaction.Action{Type: interaction.ActionQuit})
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestOrchestratorReload(t *testing.T) {
	o, path := newTestOrchestrator(t, eightUnitPayload, PlayerConfig{})
	ctx := context.Background()
	require.NoError(t, o.Load(ctx))

	_, err := o.HandleAction(interaction.Action{Type: interaction.ActionSeekBy, Value: 5})
	require.NoError(t, err)
	original := o.State().Trace()

	// A broken payload leaves the current timeline in place
	writeTrace(t, path, brokenPayload)
	require.Error(t, o.Reload(ctx))
	assert.Same(t, original, o.State().Trace())
	assert.Contains(t, o.State().Frame().Notice, "Error:")

	snap, err := o.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 5.0, snap.Cursor)
	assert.Equal(t, 8.0, snap.Total)

	// A good payload swaps the timeline and resumes where playback was paused
	writeTrace(t, path, tenUnitPayload)
	require.NoError(t, o.Reload(ctx))
	assert.NotSame(t, original, o.State().Trace())
	assert.Equal(t, "SJF", o.State().Trace().AlgorithmName)
	assert.NoError(t, o.State().LastError())

	snap, err = o.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 5.0, snap.Cursor)
	assert.Equal(t, 10.0, snap.Total)
	assert.Equal(t, playback.ModeStopped, snap.Mode)
	assert.Equal(t, 2, o.cache.Builds())
}

func TestOrchestratorReloadWhilePlayingKeepsPosition(t *testing.T) {
	o, path := newTestOrchestrator(t, eightUnitPayload, PlayerConfig{ResumeAt: 1.5, AutoPlay: true})
	ctx := context.Background()
	require.NoError(t, o.Load(ctx))

	snap, err := o.Snapshot()
	require.NoError(t, err)
	require.Equal(t, playback.ModePlaying, snap.Mode)

	writeTrace(t, path, tenUnitPayload)
	require.NoError(t, o.Reload(ctx))

	snap, err = o.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1.5, snap.Cursor)
	// autoplay applies to every installed timeline
	assert.Equal(t, playback.ModePlaying, snap.Mode)
}

func TestOrchestratorRunQuitsOnKey(t *testing.T) {
	disp := &fakeDisplay{}
	input := newFakeInput()
	o, _ := newTestOrchestrator(t, eightUnitPayload, PlayerConfig{}, WithDisplay(disp), WithInput(input))

	done := make(chan error, 1)
	go func() { done <- o.Run(context.Background()) }()

	input.ch <- interaction.KeyEvent{Key: ' '}
	input.ch <- interaction.KeyEvent{Key: 'q'}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	entered, exited, frames := disp.counts()
	assert.Equal(t, 1, entered)
	assert.Equal(t, 1, exited)
	assert.GreaterOrEqual(t, frames, 2)
	assert.True(t, input.closed)
}

func TestOrchestratorRunFailsBeforeUI(t *testing.T) {
	disp := &fakeDisplay{}
	o, _ := newTestOrchestrator(t, brokenPayload, PlayerConfig{}, WithDisplay(disp), WithInput(newFakeInput()))

	err := o.Run(context.Background())
	require.Error(t, err)

	entered, _, frames := disp.counts()
	assert.Equal(t, 0, entered)
	assert.Equal(t, 0, frames)
}

func TestOrchestratorRunReloadsOnFileEvent(t *testing.T) {
	input := newFakeInput()
	monitor := &fakeMonitor{ch: make(chan FileEvent)}
	o, path := newTestOrchestrator(t, eightUnitPayload, PlayerConfig{}, WithInput(input), WithFileMonitor(monitor))

	done := make(chan error, 1)
	go func() { done <- o.Run(context.Background()) }()

	writeTrace(t, path, tenUnitPayload)
	monitor.ch <- FileEvent{Path: path, Operation: "WRITE"}
	input.ch <- interaction.KeyEvent{Key: 'q'}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	assert.Equal(t, "SJF", o.State().Trace().AlgorithmName)
	assert.True(t, monitor.closed)
}

func TestOrchestratorRunStopsWithContext(t *testing.T) {
	o, _ := newTestOrchestrator(t, eightUnitPayload, PlayerConfig{}, WithInput(newFakeInput()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestOrchestratorAutoplayToCompletion(t *testing.T) {
	cfg := PlayerConfig{
		SpeedMs:        50,
		Quantum:        1,
		AutoPlay:       true,
		ExitOnComplete: true,
		UIRefreshRate:  100,
	}
	o, _ := newTestOrchestrator(t, `{"gantt_chart":[{"process_id":1,"start_time":0,"end_time":2}],"process_stats":[]}`, cfg,
		WithInput(newFakeInput()),
		WithFrameSource(func() playback.FrameSource { return playback.TickerFrames(5 * time.Millisecond) }))

	done := make(chan error, 1)
	go func() { done <- o.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("player did not exit on completion")
	}
	assert.Equal(t, playback.StatusCompleted, o.State().Snapshot().Status)
	assert.Equal(t, 2.0, o.State().Cursor())
}
