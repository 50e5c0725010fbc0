package motionplan

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// InvocationCounters is used to count the number of times a method has been invoked and the
// accumulated time spent in that function.
type InvocationCounters struct {
	calls     atomic.Int64
	timeNanos atomic.Int64
}

// PlanMeta is meta data about one Solve call.
type PlanMeta struct {
	ID           string        `json:"id"`
	Duration     time.Duration `json:"duration"`
	Sampled      int           `json:"sampled"`
	ValidSampled int           `json:"valid_sampled"`
	TreeSize     int           `json:"tree_size"`
	// Improvements counts how many times the best solution was replaced during the call.
	Improvements int `json:"improvements"`

	timingMu sync.Mutex
	Timing   map[string]*InvocationCounters `json:"-"`
}

// NewPlanMeta constructs PlanMeta with a fresh run id.
func NewPlanMeta() *PlanMeta {
	return &PlanMeta{
		ID:     uuid.NewString(),
		Timing: make(map[string]*InvocationCounters),
	}
}

// DeferTiming can be used as a one-liner for tracking a function invocation. Expected usage at the
// top of a function is:
//
//	defer planMeta.DeferTiming("functionName", time.Now())
//
// The start time is evaluated when the defer statement runs, not when the deferred call does.
func (pm *PlanMeta) DeferTiming(opName string, start time.Time) {
	pm.AddTiming(opName, time.Since(start))
}

// AddTiming will increment the invocation count and time spent for an "operation".
func (pm *PlanMeta) AddTiming(opName string, dur time.Duration) {
	pm.timingMu.Lock()
	defer pm.timingMu.Unlock()

	if counters, exists := pm.Timing[opName]; exists {
		counters.calls.Add(1)
		counters.timeNanos.Add(dur.Nanoseconds())
	} else {
		counters := &InvocationCounters{}
		counters.calls.Store(1)
		counters.timeNanos.Store(dur.Nanoseconds())
		pm.Timing[opName] = counters
	}
}

// OutputTiming pretty-prints in a text format the timing information for a Solve call.
func (pm *PlanMeta) OutputTiming(outputWriter io.Writer) {
	pm.timingMu.Lock()
	defer pm.timingMu.Unlock()

	//nolint:errcheck
	fmt.Fprintf(outputWriter, `Solve:			%v
  setup:		%v
  grow:			%v
  extractPath:	%v
`,
		pm.Timing["Solve"],
		pm.Timing["setup"],
		pm.Timing["grow"],
		pm.Timing["extractPath"],
	)
}

// Calls returns the number of times a function was called.
func (ic *InvocationCounters) Calls() int64 {
	if ic == nil {
		return 0
	}

	return ic.calls.Load()
}

// TotalTimeNanos returns the total accumulated runtime of a function as a time in nanoseconds.
func (ic *InvocationCounters) TotalTimeNanos() int64 {
	if ic == nil {
		return 0
	}

	return ic.timeNanos.Load()
}

// TotalTime returns the total accumulated runtime of a function as a time.Duration.
func (ic *InvocationCounters) TotalTime() time.Duration {
	return time.Duration(ic.TotalTimeNanos())
}

// Average returns the average time spent per function invocation. Returns a zero-value when a
// function was not called.
func (ic *InvocationCounters) Average() time.Duration {
	calls := ic.Calls()
	if calls == 0 {
		return time.Duration(0)
	}

	return time.Duration(ic.TotalTimeNanos() / calls)
}

// String is a pretty-formated string representation of the number of calls/total time/average.
func (ic *InvocationCounters) String() string {
	return fmt.Sprintf("Calls: %5d Total time: %-13s Average time: %v",
		ic.Calls(), ic.TotalTime(), ic.Average())
}
