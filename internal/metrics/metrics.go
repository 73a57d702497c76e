package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/penwyp/go-sched-timeline/internal/core/playback"
	"github.com/penwyp/go-sched-timeline/internal/data/parser"
)

const namespace = "timeline"

// Transition labels
const (
	TransitionResume = "resume"
	TransitionPause  = "pause"
	TransitionReset  = "reset"
	TransitionSeek   = "time_update"
)

// Normalize result label for a successful run
const ResultOK = "ok"

// Recorder owns the player's collectors on a private registry
type Recorder struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	cursor      prometheus.Gauge
	total       prometheus.Gauge
	normalize   *prometheus.CounterVec

	buildsOnce sync.Once
}

// New creates a recorder with every collector registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "playback",
			Name:      "transitions_total",
			Help:      "Playback clock notifications by kind.",
		}, []string{"transition"}),
		cursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "playback",
			Name:      "cursor",
			Help:      "Current simulation time of the playback cursor.",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "playback",
			Name:      "total",
			Help:      "Total execution time of the loaded timeline.",
		}),
		normalize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalize_total",
			Help:      "Normalization attempts by result.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(r.transitions, r.cursor, r.total, r.normalize)
	return r
}

// Registry exposes the private registry for scraping and tests
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observer returns clock callbacks that feed the playback collectors
func (r *Recorder) Observer() playback.Observer {
	return playback.Observer{
		OnTimeUpdate: func(cursor float64) {
			r.transitions.WithLabelValues(TransitionSeek).Inc()
			r.cursor.Set(cursor)
		},
		OnPause: func(cursor float64) {
			r.transitions.WithLabelValues(TransitionPause).Inc()
			r.cursor.Set(cursor)
		},
		OnResume: func() {
			r.transitions.WithLabelValues(TransitionResume).Inc()
		},
		OnReset: func() {
			r.transitions.WithLabelValues(TransitionReset).Inc()
		},
	}
}

// ObserveNormalize counts one normalization by its outcome
func (r *Recorder) ObserveNormalize(err error) {
	result := ResultOK
	if err != nil {
		result = parser.Kind(err)
	}
	r.normalize.WithLabelValues(result).Inc()
}

// SetTotal records the loaded timeline's length
func (r *Recorder) SetTotal(total float64) {
	r.total.Set(total)
}

// BuildCounter reports how many times segments were built
type BuildCounter interface {
	Builds() int
}

// WatchSegmentBuilds exports the cache's build count. Only the first cache is registered.
func (r *Recorder) WatchSegmentBuilds(cache BuildCounter) {
	r.buildsOnce.Do(func() {
		r.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segment_builds_total",
			Help:      "Segment list rebuilds caused by a new normalized trace.",
		}, func() float64 {
			return float64(cache.Builds())
		}))
	})
}
