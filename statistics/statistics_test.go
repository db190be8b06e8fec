package statistics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestStatistics_Record(t *testing.T) {
	testCases := []struct {
		description string
		records     []struct {
			elapsed time.Duration
			failed  bool
			intent  string
		}
		expect Snapshot
	}{
		{
			description: "empty",
			expect:      Snapshot{IntentDistribution: map[string]int{}},
		},
		{
			description: "mixed",
			records: []struct {
				elapsed time.Duration
				failed  bool
				intent  string
			}{
				{elapsed: time.Second, intent: "donasi"},
				{elapsed: 2 * time.Second, intent: "donasi"},
				{elapsed: 3 * time.Second, failed: true},
				{elapsed: 6 * time.Second, intent: "kajian_info"},
			},
			expect: Snapshot{
				Total:                 4,
				Successful:            3,
				Failed:                1,
				AverageProcessingTime: 3,
				IntentDistribution:    map[string]int{"donasi": 2, "kajian_info": 1},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			stats := New()
			for _, r := range tc.records {
				stats.Record(r.elapsed, r.failed, r.intent)
			}
			actual := stats.Snapshot()
			assert.InDelta(t, tc.expect.AverageProcessingTime, actual.AverageProcessingTime, 1e-9)
			actual.AverageProcessingTime = tc.expect.AverageProcessingTime
			if diff := cmp.Diff(tc.expect, actual); diff != "" {
				t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, actual.Total, actual.Successful+actual.Failed)
		})
	}
}

func TestStatistics_Concurrent(t *testing.T) {
	stats := New()
	var g errgroup.Group
	for i := 0; i < 100; i++ {
		failed := i%4 == 0
		g.Go(func() error {
			stats.Record(10*time.Millisecond, failed, "jadwal_shalat")
			return nil
		})
	}
	assert.NoError(t, g.Wait())
	snapshot := stats.Snapshot()
	assert.Equal(t, 100, snapshot.Total)
	assert.Equal(t, 25, snapshot.Failed)
	assert.Equal(t, 75, snapshot.Successful)
	assert.Equal(t, 100, snapshot.IntentDistribution["jadwal_shalat"])
	assert.InDelta(t, 0.01, snapshot.AverageProcessingTime, 1e-9)
}

func TestStatistics_SnapshotIsCopy(t *testing.T) {
	stats := New()
	stats.Record(time.Second, false, "donasi")
	snapshot := stats.Snapshot()
	snapshot.IntentDistribution["donasi"] = 100
	assert.Equal(t, 1, stats.Snapshot().IntentDistribution["donasi"])
}

func TestStatistics_OnChange(t *testing.T) {
	stats := New()
	var seen []int
	stats.OnChange(func(s Snapshot) {
		seen = append(seen, s.Total)
		// callbacks run outside the lock
		_ = stats.Snapshot()
	})
	stats.Record(time.Second, false, "")
	stats.Record(time.Second, true, "")
	assert.Equal(t, []int{1, 2}, seen)

	stats.Reset()
	assert.Equal(t, 0, stats.Snapshot().Total)
}

func TestSnapshot_Intents(t *testing.T) {
	snapshot := Snapshot{IntentDistribution: map[string]int{"b": 1, "a": 1, "c": 3}}
	assert.Equal(t, []string{"c", "a", "b"}, snapshot.Intents())
}
