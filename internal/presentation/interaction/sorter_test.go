package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-sched-timeline/internal/core/model"
)

func TestSegmentSorter(t *testing.T) {
	segments := []model.Segment{
		{ProcessID: 2, StartTime: 0, EndTime: 3},
		{ProcessID: 1, StartTime: 3, EndTime: 4},
		{ProcessID: model.IdleProcessID, StartTime: 4, EndTime: 9},
	}

	pids := func(s []model.Segment) []int {
		out := make([]int, len(s))
		for i, seg := range s {
			out[i] = seg.ProcessID
		}
		return out
	}

	sorter := NewSegmentSorter()
	assert.Equal(t, []int{2, 1, -1}, pids(sorter.Sort(segments)))

	sorter.SetField(SortByDuration)
	assert.Equal(t, []int{1, 2, -1}, pids(sorter.Sort(segments)))

	sorter.SetOrder(SortDescending)
	assert.Equal(t, []int{-1, 2, 1}, pids(sorter.Sort(segments)))

	sorter.SetField(SortByProcess)
	sorter.SetOrder(SortAscending)
	assert.Equal(t, []int{-1, 1, 2}, pids(sorter.Sort(segments)))

	// input is untouched
	assert.Equal(t, []int{2, 1, -1}, pids(segments))
}

func TestParseSortField(t *testing.T) {
	for input, expected := range map[string]SortField{
		"":         SortByStart,
		"start":    SortByStart,
		"duration": SortByDuration,
		"pid":      SortByProcess,
		"process":  SortByProcess,
	} {
		field, err := ParseSortField(input)
		require.NoError(t, err)
		assert.Equal(t, expected, field)
	}

	_, err := ParseSortField("cost")
	assert.Error(t, err)
}
