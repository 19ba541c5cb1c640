package scheduler

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

func TestNew(t *testing.T) {
	s, err := New(process.FCFS, nil)
	require.NoError(t, err)
	assert.Equal(t, process.FCFS, s.Algorithm())

	s, err = New(process.Priority, nil)
	require.NoError(t, err)
	assert.Equal(t, process.Priority, s.Algorithm())

	_, err = New("SJF", nil)
	assert.ErrorIs(t, err, process.ErrUnknownAlgorithm)
}

func TestAcceptNotifiesObservers(t *testing.T) {
	s := NewFCFS(nil)
	var lens []int
	s.AddObserver(func(pending []*process.Process) { lens = append(lens, len(pending)) })
	s.AddObserver(func(pending []*process.Process) { lens = append(lens, -len(pending)) })

	s.Accept(process.New("P1", 0, 1, process.FCFS))
	s.Accept(process.New("P2", 0, 1, process.FCFS))

	assert.Equal(t, []int{1, -1, 2, -2}, lens)
}

func TestPendingIsACopy(t *testing.T) {
	s := NewPriority(nil)
	s.Accept(process.New("P1", 0, 1, process.Priority).WithPriority(1))

	pending := s.Pending()
	pending[0] = nil

	assert.NotNil(t, s.Pending()[0])
}

func TestCommit(t *testing.T) {
	p1 := process.New("P1", 0, 5, process.FCFS)
	p2 := process.New("P2", 2, 3, process.FCFS)

	r1 := p1.Clone()
	r1.Dispatch(0)
	stranger := process.New("ghost", 0, 1, process.FCFS)
	stranger.Dispatch(0)

	err := Commit([]*process.Process{p1, p2}, []*process.Process{r1, stranger})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookup)
	var lookup *LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, stranger.ID, lookup.ID)
	assert.Contains(t, err.Error(), "ghost")

	assert.Equal(t, int64(5), p1.FinishTime)
	assert.False(t, p2.Dispatched())
}

func TestSplit(t *testing.T) {
	done := process.New("done", 0, 2, process.FCFS)
	done.Dispatch(0)
	running := process.New("running", 0, 4, process.FCFS)
	running.Dispatch(2)
	future := process.New("future", 0, 1, process.FCFS)
	future.Dispatch(6)
	fresh := process.New("fresh", 0, 1, process.FCFS)

	kept, affected := Split([]*process.Process{done, future, running, fresh}, 3)

	assert.Equal(t, []*process.Process{done, running}, kept)
	assert.Equal(t, []*process.Process{future, fresh}, affected)
	assert.Equal(t, int64(6), FreeAt(kept, 3))
	assert.Equal(t, int64(9), FreeAt(kept, 9))
}

func TestAdmitted(t *testing.T) {
	late := process.New("late", 5, 1, process.FCFS)
	late.Dispatch(11)
	early := process.New("early", 3, 1, process.FCFS)
	early.Dispatch(10)
	fresh := process.New("fresh", 1, 1, process.FCFS)
	newer := process.New("newer", 0, 1, process.FCFS)

	in := []*process.Process{late, fresh, early, newer}
	assert.Equal(t, []*process.Process{early, late, fresh, newer}, Admitted(in))
	assert.Equal(t, []*process.Process{late, fresh, early, newer}, in)
}

// TestScheduleInvariants checks the timing identities and CPU exclusivity
// on generated workloads for both policies.
func TestScheduleInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		for _, alg := range []process.Algorithm{process.FCFS, process.Priority} {
			s, err := New(alg, nil)
			require.NoError(t, err)

			for i := 0; i < 8; i++ {
				p := process.New("P", rng.Int63n(20), rng.Int63n(6)+1, alg)
				p.WithPriority(rng.Int63n(4))
				s.Accept(p)
			}
			got := s.Run()
			require.Len(t, got, 8)

			for _, p := range got {
				assert.Equal(t, p.StartTime+p.Burst, p.FinishTime)
				assert.Equal(t, p.FinishTime-p.ArrivalTime, p.TurnaroundTime)
				assert.Equal(t, p.TurnaroundTime-p.Burst, p.WaitTime)
				assert.GreaterOrEqual(t, p.StartTime, p.ArrivalTime)
			}
			assertExclusive(t, got)
		}
	}
}

func TestFCFSOrderFollowsArrival(t *testing.T) {
	s := NewFCFS(nil)
	for _, arrival := range []int64{9, 3, 7, 1, 5} {
		s.Accept(process.New("P", arrival, 2, process.FCFS))
	}
	got := s.Run()

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].ArrivalTime, got[i].ArrivalTime)
		assert.Less(t, got[i-1].StartTime, got[i].StartTime)
	}
}

func assertExclusive(t *testing.T, ps []*process.Process) {
	t.Helper()
	sorted := append([]*process.Process(nil), ps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime < sorted[j].StartTime })
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].FinishTime, sorted[i].StartTime,
			"%s overlaps %s", sorted[i-1], sorted[i])
	}
}
