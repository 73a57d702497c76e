package interaction

import (
	"fmt"
	"sort"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
)

// SortField represents the field to sort segments by
type SortField int

const (
	SortByStart SortField = iota
	SortByDuration
	SortByProcess
)

// SortOrder represents the sort order
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// SegmentSorter orders segments for listings. Playback always uses timeline order.
type SegmentSorter struct {
	field SortField
	order SortOrder
}

// NewSegmentSorter sorts by start time, ascending
func NewSegmentSorter() *SegmentSorter {
	return &SegmentSorter{field: SortByStart, order: SortAscending}
}

// ParseSortField maps a flag value to a field
func ParseSortField(s string) (SortField, error) {
	switch s {
	case "", "start":
		return SortByStart, nil
	case "duration":
		return SortByDuration, nil
	case "process", "pid":
		return SortByProcess, nil
	default:
		return SortByStart, fmt.Errorf("unknown sort field %q (want start, duration or process)", s)
	}
}

// SetField changes the sort field
func (s *SegmentSorter) SetField(field SortField) {
	s.field = field
}

// SetOrder changes the sort order
func (s *SegmentSorter) SetOrder(order SortOrder) {
	s.order = order
}

// Sort returns a sorted copy; ties keep timeline order
func (s *SegmentSorter) Sort(segments []model.Segment) []model.Segment {
	sorted := make([]model.Segment, len(segments))
	copy(sorted, segments)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if s.order == SortDescending {
			a, b = b, a
		}
		switch s.field {
		case SortByDuration:
			return a.Duration() < b.Duration()
		case SortByProcess:
			return a.ProcessID < b.ProcessID
		default:
			return a.StartTime < b.StartTime
		}
	})
	return sorted
}
