package scheduler

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// PriorityScheduler dispatches, at every decision point, the arrived
// process with the numerically lowest priority. Equal priorities go to the
// earlier arrival. Processes without a priority are excluded and their
// outputs cleared.
//
// Dispatch is non-preemptive: a selected process runs to completion. A
// preemptive variant would hook into next (selection) and slice the
// dispatched burst in Run; CanPreempt is the decision point for it.
type PriorityScheduler struct {
	queue

	// InitialTime is the earliest start any process may get.
	InitialTime int64
}

func NewPriority(logger *zap.Logger) *PriorityScheduler {
	return &PriorityScheduler{queue: newQueue(logger, "priority")}
}

func (s *PriorityScheduler) Algorithm() process.Algorithm {
	return process.Priority
}

func (s *PriorityScheduler) Run() []*process.Process {
	var remaining, excluded []*process.Process
	for _, p := range s.pending {
		if p.HasPriority() && !p.Degenerate() {
			remaining = append(remaining, p)
		} else {
			excluded = append(excluded, p)
		}
	}
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].ArrivalTime < remaining[j].ArrivalTime
	})

	clock := max(s.InitialTime, 0)
	plan := make([]slot, 0, len(s.pending))
	for len(remaining) > 0 {
		i := next(remaining, clock)
		if i < 0 {
			// idle until the next arrival
			clock = remaining[0].ArrivalTime
			continue
		}
		p := remaining[i]
		remaining = append(remaining[:i], remaining[i+1:]...)

		t := p.TimingAt(max(clock, p.ArrivalTime, s.InitialTime))
		plan = append(plan, slot{p: p, t: t})
		clock = t.FinishTime

		s.logger.Debug("dispatched",
			zap.String("process", p.Name),
			zap.Int64("priority", *p.Priority),
			zap.Int64("start", t.StartTime),
			zap.Int64("finish", t.FinishTime),
			zap.Int64("turnaround", t.TurnaroundTime),
			zap.Int64("wait", t.WaitTime),
		)
	}
	for _, p := range excluded {
		plan = append(plan, slot{p: p, skip: true})
	}
	return apply(plan)
}

func (s *PriorityScheduler) Recompute(ps []*process.Process, now int64) error {
	return recompute(&s.queue, s, ps, now)
}

func (s *PriorityScheduler) window(initial int64, _ bool) {
	s.InitialTime = initial
}

// RunningAt returns the pending process whose slot covers t, or nil.
func (s *PriorityScheduler) RunningAt(t int64) *process.Process {
	for _, p := range s.pending {
		if p.Running(t) {
			return p
		}
	}
	return nil
}

// CanPreempt reports whether incoming may interrupt running. Dispatch is
// non-preemptive, so it never can.
func (s *PriorityScheduler) CanPreempt(running, incoming *process.Process) bool {
	return false
}

// next returns the index of the process to dispatch at clock, or -1 when
// nothing has arrived. remaining must be sorted by arrival time, so the
// first entry of an exact tie wins.
func next(remaining []*process.Process, clock int64) int {
	best := -1
	for i, p := range remaining {
		if p.ArrivalTime > clock {
			break
		}
		if best < 0 || before(p, remaining[best]) {
			best = i
		}
	}
	return best
}

func before(a, b *process.Process) bool {
	if *a.Priority != *b.Priority {
		return *a.Priority < *b.Priority
	}
	return a.ArrivalTime < b.ArrivalTime
}
