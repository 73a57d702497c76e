package player

import (
	"context"
	"fmt"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
	"github.com/penwyp/go-sched-timeline/internal/data/client"
	"github.com/penwyp/go-sched-timeline/internal/data/parser"
	"github.com/penwyp/go-sched-timeline/internal/util"
)

// NormalizeObserver is told about every normalization outcome
type NormalizeObserver interface {
	ObserveNormalize(err error)
}

// DataLoader fetches a payload and normalizes it
type DataLoader struct {
	source   client.Source
	options  parser.Options
	observer NormalizeObserver
}

// NewDataLoader creates a loader for source; observer may be nil
func NewDataLoader(source client.Source, options parser.Options, observer NormalizeObserver) *DataLoader {
	return &DataLoader{source: source, options: options, observer: observer}
}

// Load returns a new normalized trace. Fetch failures are not counted as
// normalization results.
func (dl *DataLoader) Load(ctx context.Context) (*model.NormalizedTrace, error) {
	data, err := dl.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payload from %s: %w", dl.source.Name(), err)
	}

	trace, err := parser.NormalizeWithOptions(data, dl.options)
	if dl.observer != nil {
		dl.observer.ObserveNormalize(err)
	}
	if err != nil {
		util.LogWarn("Normalization failed",
			util.F("source", dl.source.Name()),
			util.F("kind", parser.Kind(err)),
			util.F("error", err.Error()))
		return nil, fmt.Errorf("failed to normalize payload from %s: %w", dl.source.Name(), err)
	}

	util.LogInfo("Trace normalized",
		util.F("source", dl.source.Name()),
		util.F("algorithm", trace.AlgorithmName),
		util.F("entries", len(trace.Entries)),
		util.F("multi_level", trace.MultiLevel))
	return trace, nil
}
