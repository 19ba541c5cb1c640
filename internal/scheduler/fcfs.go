package scheduler

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// FCFSScheduler serves processes in arrival order.
//
// In static mode the pending set is sorted by arrival time and the clock
// starts at zero. In dynamic mode the pending set is served in acceptance
// order and no process starts before InitialTime. Recompute switches to
// dynamic mode whenever now is past zero. Zero-burst processes are never
// dispatched and any earlier outputs they carry are cleared.
type FCFSScheduler struct {
	queue

	InitialTime int64
	Dynamic     bool
}

func NewFCFS(logger *zap.Logger) *FCFSScheduler {
	return &FCFSScheduler{queue: newQueue(logger, "fcfs")}
}

func (s *FCFSScheduler) Algorithm() process.Algorithm {
	return process.FCFS
}

func (s *FCFSScheduler) Run() []*process.Process {
	ps := s.Pending()
	if !s.Dynamic {
		sort.SliceStable(ps, func(i, j int) bool {
			return ps[i].ArrivalTime < ps[j].ArrivalTime
		})
	}
	return apply(s.walk(ps))
}

// Recalculate re-times ps in the given order without touching the pending
// set.
func (s *FCFSScheduler) Recalculate(ps []*process.Process) {
	apply(s.walk(ps))
}

func (s *FCFSScheduler) Recompute(ps []*process.Process, now int64) error {
	return recompute(&s.queue, s, ps, now)
}

func (s *FCFSScheduler) window(initial int64, dynamic bool) {
	s.InitialTime = initial
	s.Dynamic = dynamic
}

func (s *FCFSScheduler) floor() int64 {
	if s.Dynamic {
		return max(s.InitialTime, 0)
	}
	return 0
}

func (s *FCFSScheduler) walk(ps []*process.Process) []slot {
	floor := s.floor()
	clock := floor
	plan := make([]slot, 0, len(ps))
	for _, p := range ps {
		if p.Degenerate() {
			plan = append(plan, slot{p: p, skip: true})
			continue
		}
		t := p.TimingAt(max(clock, p.ArrivalTime, floor))
		plan = append(plan, slot{p: p, t: t})
		clock = t.FinishTime
	}
	return plan
}
