// Package simulation drives a simulated clock over a process table and keeps
// the schedule consistent as processes are injected or edited mid-run.
package simulation

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// Frame is a consistent copy of the simulation state at one instant.
type Frame struct {
	Now       int64              `json:"now"`
	Makespan  int64              `json:"makespan"`
	Processes []*process.Process `json:"processes"`
	Finished  bool               `json:"finished"`
}

type injection struct {
	at int64
	p  *process.Process
}

// Simulation owns the canonical table and the simulated clock. Every method
// is safe for concurrent use; the schedulers run under s.mu.
type Simulation struct {
	mu         sync.Mutex
	table      Table
	now        int64
	injections []injection
	logger     *zap.Logger
}

func New(logger *zap.Logger) *Simulation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation{logger: logger.Named("simulation")}
}

// Add places processes in the table without rescheduling.
func (s *Simulation) Add(ps ...*process.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range ps {
		if err := s.table.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Inject adds p to the running simulation and reschedules everything that
// has not started yet.
func (s *Simulation) Inject(p *process.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.Add(p); err != nil {
		return err
	}
	s.logger.Info("process injected", zap.String("process", p.String()), zap.Int64("now", s.now))
	return s.reschedule()
}

// InjectAt queues p to be injected when the clock reaches at.
func (s *Simulation) InjectAt(at int64, p *process.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injections = append(s.injections, injection{at: at, p: p})
	sort.SliceStable(s.injections, func(i, j int) bool {
		return s.injections[i].at < s.injections[j].at
	})
}

// Edit changes a process that has not started and reschedules.
func (s *Simulation) Edit(id string, e Edit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.Update(id, e, s.now); err != nil {
		return err
	}
	return s.reschedule()
}

// Reschedule applies injections already due and recomputes the table at
// the current time.
func (s *Simulation) Reschedule() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admitDue()
	return s.reschedule()
}

func (s *Simulation) reschedule() error {
	procs, err := Reschedule(s.table.procs, s.now, s.logger.Named("scheduler"))
	s.table.procs = procs
	return err
}

// Advance moves the clock forward by n units, applies any injections that
// fall due, and returns the resulting frame.
func (s *Simulation) Advance(n int64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += n

	if s.admitDue() > 0 {
		if err := s.reschedule(); err != nil {
			s.logger.Warn("reschedule after injection", zap.Error(err))
		}
	}
	return s.frame()
}

// admitDue adds every queued injection whose time is at or before now and
// returns how many were taken off the queue.
func (s *Simulation) admitDue() int {
	due := 0
	for due < len(s.injections) && s.injections[due].at <= s.now {
		inj := s.injections[due]
		if err := s.table.Add(inj.p); err != nil {
			s.logger.Warn("injection skipped", zap.String("process", inj.p.Name), zap.Error(err))
		} else {
			s.logger.Info("process injected", zap.String("process", inj.p.String()), zap.Int64("now", s.now))
		}
		due++
	}
	s.injections = s.injections[due:]
	return due
}

func (s *Simulation) Now() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Snapshot returns copies of every process at the current time.
func (s *Simulation) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame()
}

// Get returns a copy of the process with the given ID or name.
func (s *Simulation) Get(ref string) (*process.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.table.Get(ref); ok {
		return p.Clone(), nil
	}
	if p, ok := s.table.ByName(ref); ok {
		return p.Clone(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

// Makespan is the latest finish time in the table.
func (s *Simulation) Makespan() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return makespan(s.table.procs)
}

func (s *Simulation) frame() Frame {
	end := makespan(s.table.procs)
	return Frame{
		Now:       s.now,
		Makespan:  end,
		Processes: process.Clones(s.table.procs),
		Finished:  len(s.injections) == 0 && s.now >= end,
	}
}

func makespan(ps []*process.Process) int64 {
	var end int64
	for _, p := range ps {
		if p.FinishTime > end {
			end = p.FinishTime
		}
	}
	return end
}
