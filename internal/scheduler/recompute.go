package scheduler

import (
	"sort"

	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// policy is the part of a scheduler recompute needs to drive.
type policy interface {
	Run() []*process.Process
	window(initial int64, dynamic bool)
}

// Split partitions ps into processes that started before now, whose results
// are committed, and the rest, which may be re-timed. Order is preserved.
func Split(ps []*process.Process, now int64) (kept, affected []*process.Process) {
	for _, p := range ps {
		if p.Started(now) {
			kept = append(kept, p)
		} else {
			affected = append(affected, p)
		}
	}
	return kept, affected
}

// FreeAt is the earliest time at or after now when none of the kept
// processes still holds the CPU.
func FreeAt(kept []*process.Process, now int64) int64 {
	free := now
	for _, p := range kept {
		if p.FinishTime > free {
			free = p.FinishTime
		}
	}
	return free
}

// Admitted orders ps the way a running system admitted them: processes
// that already hold a planned slot first, by planned start, then the ones
// never planned in their given order.
func Admitted(ps []*process.Process) []*process.Process {
	out := append([]*process.Process(nil), ps...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Dispatched() != b.Dispatched() {
			return a.Dispatched()
		}
		return a.Dispatched() && a.StartTime < b.StartTime
	})
	return out
}

// recompute re-times the affected part of ps on staged copies and commits
// every result in a single pass once the policy has finished.
func recompute(q *queue, pol policy, ps []*process.Process, now int64) error {
	kept, affected := Split(ps, now)
	initial := FreeAt(kept, now)
	if now > 0 {
		affected = Admitted(affected)
	}

	staged := process.Clones(affected)
	for _, p := range staged {
		p.Reset()
	}

	q.pending = staged
	pol.window(initial, now > 0)
	dispatched := pol.Run()

	q.logger.Debug("recomputed",
		zap.Int64("now", now),
		zap.Int64("initial_time", initial),
		zap.Int("kept", len(kept)),
		zap.Int("dispatched", len(dispatched)),
		zap.Int("excluded", len(staged)-len(dispatched)),
	)

	// staged holds the excluded processes too, so their stale outputs are
	// cleared along with the new results.
	err := Commit(affected, staged)

	q.pending = append([]*process.Process(nil), ps...)
	q.notify()
	return err
}
