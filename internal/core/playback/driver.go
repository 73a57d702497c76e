package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrDriverNotStarted = errors.New("playback driver not started")
	ErrDriverClosed     = errors.New("playback driver closed")
)

// FrameSource delivers per-frame callbacks, the host's animation scheduling primitive
type FrameSource interface {
	Frames() <-chan time.Time
	Stop()
}

type tickerFrames struct {
	ticker *time.Ticker
}

// TickerFrames schedules frames at a fixed interval
func TickerFrames(interval time.Duration) FrameSource {
	return &tickerFrames{ticker: time.NewTicker(interval)}
}

func (f *tickerFrames) Frames() <-chan time.Time { return f.ticker.C }
func (f *tickerFrames) Stop()                    { f.ticker.Stop() }

// Driver owns a Clock and runs it on a single goroutine. Frames and control
// commands are handled strictly one at a time; commands waiting when a frame
// arrives are applied before that frame's tick.
//
// Observer callbacks run on the driver goroutine and must not call back into
// the Driver.
type Driver struct {
	clock  *Clock
	frames FrameSource

	cmds chan func(*Clock)
	done chan struct{}

	mu        sync.Mutex
	started   bool
	cancel    context.CancelFunc
	closeOnce sync.Once

	lastFrame time.Time
}

// NewDriver creates a driver for clock. The frame source is released on Close.
func NewDriver(clock *Clock, frames FrameSource) *Driver {
	return &Driver{
		clock:  clock,
		frames: frames,
		cmds:   make(chan func(*Clock)),
		done:   make(chan struct{}),
	}
}

// Start registers the frame loop and announces the starting position. The
// loop runs until ctx is cancelled or Close is called.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	select {
	case <-d.done:
		return ErrDriverClosed
	default:
	}
	if d.started {
		return errors.New("playback driver already started")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.started = true
	go d.loop(loopCtx)
	return nil
}

// Close cancels the frame loop and waits for it to exit
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		started := d.started
		cancel := d.cancel
		d.mu.Unlock()

		if !started {
			d.frames.Stop()
			close(d.done)
			return
		}
		cancel()
		<-d.done
	})
	return nil
}

// Done is closed once the frame loop has exited
func (d *Driver) Done() <-chan struct{} {
	return d.done
}

func (d *Driver) loop(ctx context.Context) {
	defer close(d.done)
	defer d.frames.Stop()

	d.clock.Mount()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-d.cmds:
			cmd(d.clock)
		case now := <-d.frames.Frames():
			d.drainCommands()
			d.frame(now)
		}
	}
}

func (d *Driver) drainCommands() {
	for {
		select {
		case cmd := <-d.cmds:
			cmd(d.clock)
		default:
			return
		}
	}
}

func (d *Driver) frame(now time.Time) {
	if d.clock.Mode() != ModePlaying {
		d.lastFrame = time.Time{}
		return
	}
	if d.lastFrame.IsZero() {
		d.lastFrame = now
		return
	}
	delta := now.Sub(d.lastFrame)
	d.lastFrame = now
	d.clock.Tick(delta)
}

// do runs fn on the driver goroutine and waits for it to finish
func (d *Driver) do(fn func(*Clock)) error {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()
	if !started {
		return ErrDriverNotStarted
	}

	applied := make(chan struct{})
	select {
	case d.cmds <- func(c *Clock) {
		fn(c)
		close(applied)
	}:
	case <-d.done:
		return ErrDriverClosed
	}

	select {
	case <-applied:
		return nil
	case <-d.done:
		return ErrDriverClosed
	}
}

// Play starts playback; it reports whether the clock changed state
func (d *Driver) Play() (bool, error) {
	var changed bool
	err := d.do(func(c *Clock) { changed = c.Play() })
	return changed, err
}

// Pause stops playback; it reports whether the clock changed state
func (d *Driver) Pause() (bool, error) {
	var changed bool
	err := d.do(func(c *Clock) { changed = c.Pause() })
	return changed, err
}

// Toggle switches between playing and paused
func (d *Driver) Toggle() (bool, error) {
	var changed bool
	err := d.do(func(c *Clock) { changed = c.Toggle() })
	return changed, err
}

// Seek moves the cursor and stops playback
func (d *Driver) Seek(t float64) error {
	return d.do(func(c *Clock) { c.Seek(t) })
}

// SeekBy moves the cursor relative to its current position
func (d *Driver) SeekBy(delta float64) error {
	return d.do(func(c *Clock) { c.Seek(c.Cursor() + delta) })
}

// SeekFraction moves the cursor to a fraction of the total execution time
func (d *Driver) SeekFraction(fraction float64) error {
	return d.do(func(c *Clock) { c.Seek(c.Total() * fraction) })
}

// Reset rewinds the clock
func (d *Driver) Reset() error {
	return d.do(func(c *Clock) { c.Reset() })
}

// SetSpeed changes the playback speed
func (d *Driver) SetSpeed(ms int) error {
	var speedErr error
	if err := d.do(func(c *Clock) { speedErr = c.SetSpeed(ms) }); err != nil {
		return err
	}
	return speedErr
}

// Snapshot returns the clock state as seen by the driver goroutine
func (d *Driver) Snapshot() (Snapshot, error) {
	var s Snapshot
	err := d.do(func(c *Clock) { s = c.Snapshot() })
	return s, err
}
