package simulation

import (
	"errors"
	"fmt"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

var (
	ErrDuplicateName = errors.New("duplicate process name")
	ErrNotFound      = errors.New("process not found")
	ErrStarted       = errors.New("process already started")
)

// Table is the canonical, ordered process collection. Schedulers only ever
// see subsets of it; results are reconciled back by ID.
type Table struct {
	procs []*process.Process
}

// Add appends p. Names must be unique so that they stay usable as display
// labels and console handles.
func (t *Table) Add(p *process.Process) error {
	if _, ok := t.ByName(p.Name); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
	}
	t.procs = append(t.procs, p)
	return nil
}

func (t *Table) Get(id string) (*process.Process, bool) {
	for _, p := range t.procs {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (t *Table) ByName(name string) (*process.Process, bool) {
	for _, p := range t.procs {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Processes returns the collection in canonical order. The slice is a copy;
// the processes are not.
func (t *Table) Processes() []*process.Process {
	out := make([]*process.Process, len(t.procs))
	copy(out, t.procs)
	return out
}

func (t *Table) Len() int {
	return len(t.procs)
}

// Partition returns the processes tagged alg, in canonical order.
func (t *Table) Partition(alg process.Algorithm) []*process.Process {
	return Partition(t.procs, alg)
}

// Partition returns the members of ps tagged alg, keeping their order.
func Partition(ps []*process.Process, alg process.Algorithm) []*process.Process {
	var out []*process.Process
	for _, p := range ps {
		if p.Algorithm == alg {
			out = append(out, p)
		}
	}
	return out
}

// Edit changes the inputs of a process. Nil fields are left alone.
type Edit struct {
	Name          *string            `json:"name,omitempty"`
	ArrivalTime   *int64             `json:"arrival_time,omitempty"`
	Burst         *int64             `json:"burst,omitempty"`
	Algorithm     *process.Algorithm `json:"algorithm,omitempty"`
	Priority      *int64             `json:"priority,omitempty"`
	ClearPriority bool               `json:"clear_priority,omitempty"`
}

func (e Edit) apply(p *process.Process) {
	if e.Name != nil {
		p.Name = *e.Name
	}
	if e.ArrivalTime != nil {
		p.ArrivalTime = *e.ArrivalTime
	}
	if e.Burst != nil {
		p.Burst = *e.Burst
	}
	if e.Algorithm != nil {
		p.Algorithm = *e.Algorithm
	}
	if e.Priority != nil {
		p.WithPriority(*e.Priority)
	}
	if e.ClearPriority {
		p.Priority = nil
	}
}

// Update applies e to the process with the given ID. Processes that started
// before now are committed and cannot be edited.
func (t *Table) Update(id string, e Edit, now int64) error {
	p, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if p.Started(now) {
		return fmt.Errorf("%w: %s started at %d", ErrStarted, p.Name, p.StartTime)
	}
	if e.Name != nil && *e.Name != p.Name {
		if _, taken := t.ByName(*e.Name); taken {
			return fmt.Errorf("%w: %s", ErrDuplicateName, *e.Name)
		}
	}
	if e.Algorithm != nil {
		alg, err := process.ParseAlgorithm(string(*e.Algorithm))
		if err != nil {
			return err
		}
		e.Algorithm = &alg
	}
	e.apply(p)
	return nil
}
