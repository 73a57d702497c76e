package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleQueuePayload = `{
  "scheduling_algorithm": "FCFS",
  "gantt_chart": [
    {"process_id": 1, "start_time": 0, "end_time": 4, "ready_queue": [2, 3]},
    {"process_id": 2, "start_time": 4, "end_time": 6, "ready_queue": [3]},
    {"process_id": -1, "start_time": 6, "end_time": 7, "ready_queue": []},
    {"process_id": 3, "start_time": 7, "end_time": 9}
  ],
  "process_stats": [
    {"process_id": 1, "arrival_time": 0, "burst_time": 4, "completion_time": 4, "turnaround_time": 4, "waiting_time": 0},
    {"process_id": 2, "arrival_time": 1, "burst_time": 2, "completion_time": 6, "turnaround_time": 5, "waiting_time": 3},
    {"process_id": 3, "arrival_time": 7, "burst_time": 2, "completion_time": 9, "turnaround_time": 2, "waiting_time": 0}
  ]
}`

const multiLevelPayload = `{
  "scheduling_algorithm": "MLQ",
  "status": "success",
  "gantt_chart": [
    {"process_id": -1, "start_time": 0, "end_time": 1, "queues": []},
    {"process_id": 1, "start_time": 1, "end_time": 3, "queue_level": 0, "queues": [[2], [3, 4], []]},
    {"process_id": 3, "start_time": 3, "end_time": 5, "queue_level": 1, "queues": [[], [4], [2]]},
    {"process_id": 2, "start_time": 5, "end_time": 6, "queue_level": 2, "queues": [[], [4]]}
  ],
  "process_stats": [
    {"process_id": 1, "arrival_time": 1, "burst_time": 2, "completion_time": 3, "turnaround_time": 2, "waiting_time": 0, "queue": 0},
    {"process_id": 2, "arrival_time": 1, "burst_time": 1, "completion_time": 6, "turnaround_time": 5, "waiting_time": 4, "final_queue_level": 2, "priority": 3}
  ]
}`

func TestNormalizeSingleQueue(t *testing.T) {
	trace, err := Normalize([]byte(singleQueuePayload))
	require.NoError(t, err)

	assert.Equal(t, "FCFS", trace.AlgorithmName)
	assert.False(t, trace.IsMultiLevel())
	require.Len(t, trace.Entries, 4)
	assert.Equal(t, 9.0, trace.TotalExecutionTime())

	first := trace.Entries[0]
	assert.Equal(t, 1, first.ProcessID)
	assert.Equal(t, []int{2, 3}, first.ReadyQueue)
	assert.Nil(t, first.QueueLevel)
	assert.Nil(t, first.ReadyQueuesByLevel)

	// Idle entries survive normalization
	assert.True(t, trace.Entries[2].IsIdle())

	// Missing ready_queue is normalized to an empty, non-nil queue
	assert.NotNil(t, trace.Entries[3].ReadyQueue)
	assert.Empty(t, trace.Entries[3].ReadyQueue)

	require.Len(t, trace.ProcessStats, 3)
	assert.Equal(t, 3.0, trace.ProcessStats[1].WaitingTime)
}

func TestNormalizeMultiLevel(t *testing.T) {
	trace, err := Normalize([]byte(multiLevelPayload))
	require.NoError(t, err)

	assert.True(t, trace.IsMultiLevel())
	require.Len(t, trace.Entries, 4)

	idle := trace.Entries[0]
	assert.True(t, idle.IsIdle())
	assert.Nil(t, idle.QueueLevel)
	assert.Empty(t, idle.ReadyQueue)
	assert.Empty(t, idle.ReadyQueuesByLevel)

	for i, e := range trace.Entries[1:] {
		require.NotNil(t, e.QueueLevel, "entry %d", i+1)
		expected, ok := e.ReadyQueuesByLevel[*e.QueueLevel]
		if !ok {
			expected = []int{}
		}
		assert.Equal(t, expected, e.ReadyQueue, "entry %d", i+1)
	}

	assert.Equal(t, []int{3, 4}, trace.Entries[1].ReadyQueuesByLevel[1])
	assert.Equal(t, []int{4}, trace.Entries[2].ReadyQueue)
	// Level 2 is absent from the last entry's per-level array
	assert.Equal(t, []int{}, trace.Entries[3].ReadyQueue)

	require.Len(t, trace.ProcessStats, 2)
	require.NotNil(t, trace.ProcessStats[0].FinalQueueLevel)
	assert.Equal(t, 0, *trace.ProcessStats[0].FinalQueueLevel)
	require.NotNil(t, trace.ProcessStats[1].Priority)
	assert.Equal(t, 3, *trace.ProcessStats[1].Priority)
}

func TestNormalizeEmptyTrace(t *testing.T) {
	trace, err := Normalize([]byte(`{"gantt_chart": [], "process_stats": []}`))
	require.NoError(t, err)

	assert.Empty(t, trace.Entries)
	assert.Equal(t, 0.0, trace.TotalExecutionTime())
	assert.Equal(t, "", trace.AlgorithmName)
}

func TestNormalizeDefaultAlgorithm(t *testing.T) {
	trace, err := NormalizeWithOptions([]byte(`{"gantt_chart": [], "process_stats": []}`),
		Options{DefaultAlgorithm: "RR"})
	require.NoError(t, err)
	assert.Equal(t, "RR", trace.AlgorithmName)
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `gantt`},
		{"empty input", ``},
		{"top level array", `[]`},
		{"missing gantt_chart", `{"process_stats": []}`},
		{"missing process_stats", `{"gantt_chart": []}`},
		{"gantt_chart object", `{"gantt_chart": {}, "process_stats": []}`},
		{"process_stats null", `{"gantt_chart": [], "process_stats": null}`},
		{"missing process id", `{"gantt_chart": [{"start_time": 0, "end_time": 1}], "process_stats": []}`},
		{"missing end time", `{"gantt_chart": [{"process_id": 1, "start_time": 0}], "process_stats": []}`},
		{"negative start", `{"gantt_chart": [{"process_id": 1, "start_time": -1, "end_time": 1}], "process_stats": []}`},
		{"end before start", `{"gantt_chart": [{"process_id": 1, "start_time": 3, "end_time": 1}], "process_stats": []}`},
		{"stats without id", `{"gantt_chart": [], "process_stats": [{"burst_time": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := Normalize([]byte(tt.payload))
			require.Error(t, err)
			assert.Nil(t, trace, "no partial trace on failure")
			assert.ErrorIs(t, err, ErrMalformedPayload)
			assert.Equal(t, KindMalformed, Kind(err))
		})
	}
}

func TestNormalizeInconsistentShape(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name: "single then multi",
			payload: `{"gantt_chart": [
				{"process_id": 1, "start_time": 0, "end_time": 1, "ready_queue": []},
				{"process_id": 2, "start_time": 1, "end_time": 2, "queue_level": 0, "queues": [[1]]}
			], "process_stats": []}`,
		},
		{
			name: "multi then single",
			payload: `{"gantt_chart": [
				{"process_id": 1, "start_time": 0, "end_time": 1, "queue_level": 0, "queues": [[]]},
				{"process_id": 2, "start_time": 1, "end_time": 2, "ready_queue": [1]}
			], "process_stats": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace, err := Normalize([]byte(tt.payload))
			require.Error(t, err)
			assert.Nil(t, trace)
			assert.ErrorIs(t, err, ErrInconsistentShape)
			// Treated the same as a malformed payload
			assert.ErrorIs(t, err, ErrMalformedPayload)
			assert.Equal(t, KindInconsistentShape, Kind(err))
		})
	}
}

func TestNormalizeSchedulerRejected(t *testing.T) {
	_, err := Normalize([]byte(`{"status": "error", "message": "Unsupported scheduling algorithm"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchedulerRejected)
	assert.Contains(t, err.Error(), "Unsupported scheduling algorithm")
	assert.Equal(t, KindRejected, Kind(err))
}

func TestNormalizeDropsZeroLengthEntries(t *testing.T) {
	trace, err := Normalize([]byte(`{"gantt_chart": [
		{"process_id": -1, "start_time": 0, "end_time": 0, "ready_queue": []},
		{"process_id": 1, "start_time": 0, "end_time": 2, "ready_queue": []}
	], "process_stats": []}`))
	require.NoError(t, err)
	require.Len(t, trace.Entries, 1)
	assert.Equal(t, 1, trace.Entries[0].ProcessID)
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, payload := range []string{singleQueuePayload, multiLevelPayload} {
		a, err := Normalize([]byte(payload))
		require.NoError(t, err)
		b, err := Normalize([]byte(payload))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestNormalizeDoesNotAliasQueues(t *testing.T) {
	trace, err := Normalize([]byte(multiLevelPayload))
	require.NoError(t, err)

	e := trace.Entries[2]
	e.ReadyQueue[0] = 99
	assert.Equal(t, []int{4}, e.ReadyQueuesByLevel[1], "flat view must not share storage with the per-level map")
}

func TestKind(t *testing.T) {
	assert.Equal(t, "", Kind(nil))
	assert.Equal(t, KindUnknown, Kind(assert.AnError))
	assert.Equal(t, KindMalformed, Kind(malformed("x")))
}
