package playback

import (
	"fmt"
	"math"
	"time"

	"github.com/penwyp/go-sched-timeline/internal/core/constants"
)

// Mode is the internal state of a clock
type Mode int

const (
	ModeStopped Mode = iota
	ModePlaying
)

func (m Mode) String() string {
	if m == ModePlaying {
		return "playing"
	}
	return "stopped"
}

// Status is the user-facing label derived from mode and cursor.
// Paused and Completed are both ModeStopped.
type Status string

const (
	StatusPlaying   Status = "Playing"
	StatusPaused    Status = "Paused"
	StatusCompleted Status = "Completed"
)

// Snapshot is a copy of the clock state
type Snapshot struct {
	Cursor  float64
	Total   float64
	Mode    Mode
	Status  Status
	SpeedMs int
	Quantum float64
}

// Observer receives clock notifications. Nil callbacks are skipped.
type Observer struct {
	OnTimeUpdate func(cursor float64)
	OnPause      func(cursor float64)
	OnResume     func()
	OnReset      func()
}

// Clock is a virtual time cursor over [0, total]. It is advanced by Tick while
// playing and set directly by Seek and Reset. A Clock is not safe for
// concurrent use; a Driver serializes access to it.
type Clock struct {
	total   float64
	cursor  float64
	mode    Mode
	speedMs int
	quantum float64

	// Wall time accumulated towards the next quantum
	pending time.Duration

	observers map[int]Observer
	order     []int
	nextID    int
}

// Option configures a Clock
type Option func(*Clock)

// WithResumeCursor starts the clock at a previously paused position
func WithResumeCursor(cursor float64) Option {
	return func(c *Clock) {
		c.cursor = cursor
	}
}

// WithSpeed sets the wall-clock milliseconds per quantum
func WithSpeed(ms int) Option {
	return func(c *Clock) {
		if ms > 0 {
			c.speedMs = ms
		}
	}
}

// WithQuantum sets the simulation time added per elapsed speed period
func WithQuantum(q float64) Option {
	return func(c *Clock) {
		if q > 0 {
			c.quantum = q
		}
	}
}

// WithObserver registers an observer at construction time
func WithObserver(o Observer) Option {
	return func(c *Clock) {
		c.Subscribe(o)
	}
}

// NewClock creates a stopped clock over [0, total]
func NewClock(total float64, opts ...Option) *Clock {
	if total < 0 {
		total = 0
	}
	c := &Clock{
		total:     total,
		speedMs:   constants.DefaultSpeedMs,
		quantum:   constants.DefaultQuantum,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cursor = c.clamp(c.cursor)
	return c
}

// Subscribe registers an observer and returns a function that removes it
func (c *Clock) Subscribe(o Observer) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.observers[id] = o
	c.order = append(c.order, id)

	return func() {
		if _, ok := c.observers[id]; !ok {
			return
		}
		delete(c.observers, id)
		for i, oid := range c.order {
			if oid == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

// Mount announces the starting paused position to observers
func (c *Clock) Mount() {
	c.emitPause()
}

// Play starts playback. It is a no-op when already playing or at the end.
func (c *Clock) Play() bool {
	if c.mode == ModePlaying || c.cursor >= c.total {
		return false
	}
	c.mode = ModePlaying
	c.pending = 0
	c.emitResume()
	return true
}

// Pause stops playback at the current cursor. It is a no-op when stopped.
func (c *Clock) Pause() bool {
	if c.mode != ModePlaying {
		return false
	}
	c.mode = ModeStopped
	c.pending = 0
	c.emitPause()
	return true
}

// Toggle plays when stopped and pauses when playing
func (c *Clock) Toggle() bool {
	if c.mode == ModePlaying {
		return c.Pause()
	}
	return c.Play()
}

// Seek moves the cursor to t, clamped to [0, total]. Manual scrubbing always
// stops playback.
func (c *Clock) Seek(t float64) {
	c.cursor = c.clamp(t)
	c.mode = ModeStopped
	c.pending = 0
	c.emitTimeUpdate()
	c.emitPause()
}

// Reset rewinds to 0, stops playback and tells observers to drop any resume point
func (c *Clock) Reset() {
	c.cursor = 0
	c.mode = ModeStopped
	c.pending = 0
	c.emitTimeUpdate()
	c.emitPause()
	c.emitReset()
}

// SetSpeed changes the wall-clock milliseconds per quantum from the next tick on
func (c *Clock) SetSpeed(ms int) error {
	if ms <= 0 {
		return fmt.Errorf("speed must be a positive number of milliseconds, got %d", ms)
	}
	c.speedMs = ms
	return nil
}

// Tick feeds elapsed wall time into a playing clock. Every full speed period
// advances the cursor by one quantum; leftover time carries to the next tick.
// Reaching the end stops the clock as if paused.
func (c *Clock) Tick(wallDelta time.Duration) {
	if c.mode != ModePlaying || wallDelta <= 0 {
		return
	}

	period := time.Duration(c.speedMs) * time.Millisecond
	c.pending += wallDelta
	if c.pending < period {
		return
	}

	steps := int64(c.pending / period)
	c.pending -= time.Duration(steps) * period
	c.cursor = c.clamp(c.cursor + float64(steps)*c.quantum)
	c.emitTimeUpdate()

	if c.cursor >= c.total {
		c.mode = ModeStopped
		c.pending = 0
		c.emitPause()
	}
}

// Cursor returns the current virtual time
func (c *Clock) Cursor() float64 {
	return c.cursor
}

// Total returns the total execution time of the timeline
func (c *Clock) Total() float64 {
	return c.total
}

// Mode returns the internal mode
func (c *Clock) Mode() Mode {
	return c.mode
}

// Status returns the user-facing label
func (c *Clock) Status() Status {
	switch {
	case c.mode == ModePlaying:
		return StatusPlaying
	case c.cursor >= c.total:
		return StatusCompleted
	default:
		return StatusPaused
	}
}

// Snapshot returns a copy of the clock state
func (c *Clock) Snapshot() Snapshot {
	return Snapshot{
		Cursor:  c.cursor,
		Total:   c.total,
		Mode:    c.mode,
		Status:  c.Status(),
		SpeedMs: c.speedMs,
		Quantum: c.quantum,
	}
}

func (c *Clock) clamp(t float64) float64 {
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if t > c.total {
		return c.total
	}
	return t
}

func (c *Clock) emitTimeUpdate() {
	for _, id := range c.snapshotOrder() {
		if o, ok := c.observers[id]; ok && o.OnTimeUpdate != nil {
			o.OnTimeUpdate(c.cursor)
		}
	}
}

func (c *Clock) emitPause() {
	for _, id := range c.snapshotOrder() {
		if o, ok := c.observers[id]; ok && o.OnPause != nil {
			o.OnPause(c.cursor)
		}
	}
}

func (c *Clock) emitResume() {
	for _, id := range c.snapshotOrder() {
		if o, ok := c.observers[id]; ok && o.OnResume != nil {
			o.OnResume()
		}
	}
}

func (c *Clock) emitReset() {
	for _, id := range c.snapshotOrder() {
		if o, ok := c.observers[id]; ok && o.OnReset != nil {
			o.OnReset()
		}
	}
}

// snapshotOrder lets observers unsubscribe from inside a callback
func (c *Clock) snapshotOrder() []int {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return order
}
