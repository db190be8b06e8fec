package statistics

import (
	"sort"
	"sync"
	"time"
)

// Snapshot is a read-only copy of the aggregated counters.
type Snapshot struct {
	Total      int `json:"total_executions" yaml:"total_executions"`
	Successful int `json:"successful_executions" yaml:"successful_executions"`
	Failed     int `json:"failed_executions" yaml:"failed_executions"`
	// AverageProcessingTime is the running mean in seconds.
	AverageProcessingTime float64        `json:"average_processing_time" yaml:"average_processing_time"`
	IntentDistribution    map[string]int `json:"intent_distribution" yaml:"intent_distribution"`
}

// Intents returns intents sorted by descending count, then by name.
func (s Snapshot) Intents() []string {
	ret := make([]string, 0, len(s.IntentDistribution))
	for k := range s.IntentDistribution {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool {
		ci, cj := s.IntentDistribution[ret[i]], s.IntentDistribution[ret[j]]
		if ci != cj {
			return ci > cj
		}
		return ret[i] < ret[j]
	})
	return ret
}

// Statistics keeps aggregated execution counters.
type Statistics struct {
	mux      sync.Mutex
	snapshot Snapshot
	onChange func(Snapshot)
}

// Record folds one finished execution into the counters. The mean is updated
// incrementally; an empty intent is not counted in the distribution.
func (s *Statistics) Record(elapsed time.Duration, failed bool, intent string) {
	if s == nil {
		return
	}
	s.mux.Lock()
	s.snapshot.Total++
	if failed {
		s.snapshot.Failed++
	} else {
		s.snapshot.Successful++
	}
	n := float64(s.snapshot.Total)
	s.snapshot.AverageProcessingTime = (s.snapshot.AverageProcessingTime*(n-1) + elapsed.Seconds()) / n
	if intent != "" {
		if s.snapshot.IntentDistribution == nil {
			s.snapshot.IntentDistribution = map[string]int{}
		}
		s.snapshot.IntentDistribution[intent]++
	}
	snapshot := s.copy()
	cb := s.onChange
	s.mux.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters suitable for read-only inspection.
func (s *Statistics) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{IntentDistribution: map[string]int{}}
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.copy()
}

// Reset clears all counters.
func (s *Statistics) Reset() {
	if s == nil {
		return
	}
	s.mux.Lock()
	s.snapshot = Snapshot{}
	s.mux.Unlock()
}

// OnChange registers a callback invoked after every Record. Passing nil
// disables the callback; only one callback can be active.
func (s *Statistics) OnChange(cb func(Snapshot)) {
	if s == nil {
		return
	}
	s.mux.Lock()
	s.onChange = cb
	s.mux.Unlock()
}

func (s *Statistics) copy() Snapshot {
	ret := s.snapshot
	ret.IntentDistribution = make(map[string]int, len(s.snapshot.IntentDistribution))
	for k, v := range s.snapshot.IntentDistribution {
		ret.IntentDistribution[k] = v
	}
	return ret
}

// New creates an empty aggregator.
func New() *Statistics {
	return &Statistics{}
}
