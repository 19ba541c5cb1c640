package simulation

import (
	"errors"

	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/internal/scheduler"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

var algorithms = []process.Algorithm{process.FCFS, process.Priority}

// Reschedule recomputes procs at simulated time now and returns them in
// canonical order.
//
// Each algorithm tag is scheduled on its own timeline by a fresh scheduler.
// The work happens on copies; results are committed onto procs only after
// every policy has finished. FCFS entries keep their relative order;
// Priority entries are reordered, within the slots they occupy, into
// dispatch order.
func Reschedule(procs []*process.Process, now int64, logger *zap.Logger) ([]*process.Process, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	staged := process.Clones(procs)
	var errs []error
	for _, alg := range algorithms {
		subset := Partition(staged, alg)
		if len(subset) == 0 {
			continue
		}
		s, err := scheduler.New(alg, logger)
		if err != nil {
			return procs, err
		}
		if err := s.Recompute(subset, now); err != nil {
			errs = append(errs, err)
		}
	}

	if err := scheduler.Commit(procs, staged); err != nil {
		logger.Warn("skipped results with no matching process", zap.Error(err))
		errs = append(errs, err)
	}
	return merge(procs), errors.Join(errs...)
}

func merge(procs []*process.Process) []*process.Process {
	out := make([]*process.Process, len(procs))
	copy(out, procs)

	var slots []int
	var prio []*process.Process
	for i, p := range out {
		if p.Algorithm == process.Priority {
			slots = append(slots, i)
			prio = append(prio, p)
		}
	}
	prio = scheduler.Admitted(prio)
	for k, i := range slots {
		out[i] = prio[k]
	}
	return out
}
