// Package tyme implements the cooperative single-threaded scheduler
// described in spec.md §5: periodic generator-style tasks ("doers")
// that each yield a tock (seconds until next activation), driven by a
// virtual clock ("tyme") advancing in round-robin order with no
// preemption.
package tyme

import "container/heap"

// Doer is a periodic cooperative task. Tock is invoked at or after its
// scheduled wake time with the scheduler's current virtual clock value,
// and returns the delay (in seconds) until its next activation, plus
// whether the task is finished (no further scheduling) and any error.
// An error does not remove the task; callers typically log and let the
// returned delay stand, consistent with Anchorer's per-entry recoverable
// failure policy (spec.md §7).
type Doer interface {
	Tock(tyme float64) (next float64, done bool, err error)
}

// DoerFunc adapts a plain function to the Doer interface.
type DoerFunc func(tyme float64) (float64, bool, error)

func (f DoerFunc) Tock(tyme float64) (float64, bool, error) { return f(tyme) }

type entry struct {
	doer    Doer
	wake    float64
	index   int
	removed bool
}

type entryHeap []*entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].wake < h[j].wake }
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Scheduler advances a virtual clock and resumes each due Doer in
// wake-time order, rescheduling it by the delay it returns. It is not
// safe for concurrent use from multiple goroutines -- the cooperative
// model assumes a single driving loop (spec.md §5).
type Scheduler struct {
	tyme    float64
	heap    entryHeap
	entries map[Doer]*entry
}

// NewScheduler returns an empty scheduler with its virtual clock at 0.
func NewScheduler() *Scheduler {
	return &Scheduler{entries: make(map[Doer]*entry)}
}

// Tyme returns the scheduler's current virtual clock value.
func (s *Scheduler) Tyme() float64 { return s.tyme }

// Add schedules doer for first activation after delay seconds of
// virtual time.
func (s *Scheduler) Add(doer Doer, delay float64) {
	if _, ok := s.entries[doer]; ok {
		return
	}
	e := &entry{doer: doer, wake: s.tyme + delay}
	s.entries[doer] = e
	heap.Push(&s.heap, e)
}

// Remove cancels doer; if it is mid-sweep this tick, cancellation takes
// effect at the next tick boundary (spec.md §5's cancellation policy --
// in-flight passes finish; the cooperative loop has no forced
// interrupt of a running Tock call).
func (s *Scheduler) Remove(doer Doer) {
	if e, ok := s.entries[doer]; ok {
		e.removed = true
		delete(s.entries, doer)
	}
}

// Advance moves the virtual clock forward by dt seconds and resumes
// every Doer whose wake time has elapsed, in wake-time order,
// rescheduling each by the delay it returns unless it reports done or
// was removed. Errors from individual doers are returned in the same
// order they occurred but do not stop the advance; callers may log and
// continue per spec.md §7's per-entry recoverable-failure policy.
func (s *Scheduler) Advance(dt float64) []error {
	s.tyme += dt
	var errs []error
	for s.heap.Len() > 0 && s.heap[0].wake <= s.tyme {
		e := heap.Pop(&s.heap).(*entry)
		if e.removed {
			continue
		}
		next, done, err := e.doer.Tock(s.tyme)
		if err != nil {
			errs = append(errs, err)
		}
		if e.removed {
			continue
		}
		if done {
			delete(s.entries, e.doer)
			continue
		}
		e.wake = s.tyme + next
		heap.Push(&s.heap, e)
	}
	return errs
}

// Len returns the number of doers currently scheduled.
func (s *Scheduler) Len() int { return len(s.entries) }
