// Package scheduler implements the dispatch policies: arrival order (FCFS)
// and non-preemptive static priority.
//
// Schedulers hold no locks. Callers sharing processes between goroutines
// must serialize Accept, Run and Recompute themselves.
package scheduler

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// Observer is called with the pending set after every Accept or Recompute.
type Observer func(pending []*process.Process)

// Scheduler is the contract shared by every dispatch policy.
type Scheduler interface {
	Algorithm() process.Algorithm

	// Accept appends p to the pending set.
	Accept(p *process.Process)

	// Run dispatches the pending set and returns it in execution order.
	Run() []*process.Process

	// Recompute re-times every process in ps that has not started before
	// now, leaving committed results untouched.
	Recompute(ps []*process.Process, now int64) error

	AddObserver(o Observer)
	Pending() []*process.Process
}

var ErrLookup = errors.New("process not in collection")

// LookupError reports a computed result that has no matching process in
// the collection it is being written back to.
type LookupError struct {
	ID   string
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", ErrLookup, e.Name, e.ID)
}

func (e *LookupError) Unwrap() error {
	return ErrLookup
}

// New builds the scheduler for alg.
func New(alg process.Algorithm, logger *zap.Logger) (Scheduler, error) {
	switch alg {
	case process.FCFS:
		return NewFCFS(logger), nil
	case process.Priority:
		return NewPriority(logger), nil
	}
	return nil, fmt.Errorf("%w: %q", process.ErrUnknownAlgorithm, alg)
}

type queue struct {
	pending   []*process.Process
	observers []Observer
	logger    *zap.Logger
}

func newQueue(logger *zap.Logger, name string) queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return queue{logger: logger.Named(name)}
}

func (q *queue) Accept(p *process.Process) {
	q.pending = append(q.pending, p)
	q.notify()
}

func (q *queue) AddObserver(o Observer) {
	q.observers = append(q.observers, o)
}

func (q *queue) Pending() []*process.Process {
	out := make([]*process.Process, len(q.pending))
	copy(out, q.pending)
	return out
}

func (q *queue) notify() {
	if len(q.observers) == 0 {
		return
	}
	pending := q.Pending()
	for _, o := range q.observers {
		o(pending)
	}
}

// slot is a staged dispatch decision. A skipped slot records a process the
// policy excluded; its outputs are cleared when the plan is applied.
type slot struct {
	p    *process.Process
	t    process.Timing
	skip bool
}

// apply writes a finished plan onto its processes and returns the
// dispatched ones in plan order. Nothing is written until the whole plan
// has been computed.
func apply(plan []slot) []*process.Process {
	out := make([]*process.Process, 0, len(plan))
	for _, s := range plan {
		if s.skip {
			s.p.Reset()
			continue
		}
		s.p.SetTiming(s.t)
		out = append(out, s.p)
	}
	return out
}

// Commit copies the timing of each result onto the process in dst with the
// same ID. Results with no counterpart are skipped and reported as
// *LookupError values joined into the returned error.
func Commit(dst, results []*process.Process) error {
	byID := make(map[string]*process.Process, len(dst))
	for _, p := range dst {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = p
		}
	}

	var errs []error
	for _, r := range results {
		orig, ok := byID[r.ID]
		if !ok {
			errs = append(errs, &LookupError{ID: r.ID, Name: r.Name})
			continue
		}
		orig.SetTiming(r.Timing)
	}
	return errors.Join(errs...)
}
