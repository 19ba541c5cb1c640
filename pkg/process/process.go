// Package process holds the process record shared by the schedulers and the
// simulation driver.
package process

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Algorithm tags which policy may dispatch a process.
type Algorithm string

const (
	FCFS     Algorithm = "FCFS"
	Priority Algorithm = "Priority"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ParseAlgorithm accepts the canonical tags case-insensitively, plus the
// "Prioridades" spelling used by older scenario files.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fcfs", "fifo":
		return FCFS, nil
	case "priority", "prioridades":
		return Priority, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func (a Algorithm) String() string {
	return string(a)
}

// Timing is the set of fields a scheduler computes.
type Timing struct {
	StartTime      int64 `json:"start_time" yaml:"start_time"`
	FinishTime     int64 `json:"finish_time" yaml:"finish_time"`
	TurnaroundTime int64 `json:"turnaround_time" yaml:"turnaround_time"`
	WaitTime       int64 `json:"wait_time" yaml:"wait_time"`
}

// Process is a simulated job. Inputs are written by callers; the Timing
// fields are written only by a scheduler and stay zero until dispatch.
type Process struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ArrivalTime int64     `json:"arrival_time"`
	Burst       int64     `json:"burst"`
	Algorithm   Algorithm `json:"algorithm"`
	Priority    *int64    `json:"priority,omitempty"`

	Timing
}

// New creates a process with a fresh identifier and zeroed outputs.
func New(name string, arrival, burst int64, alg Algorithm) *Process {
	return &Process{
		ID:          "proc_" + uuid.New().String(),
		Name:        name,
		ArrivalTime: arrival,
		Burst:       burst,
		Algorithm:   alg,
	}
}

// WithPriority sets the priority and returns p for chaining.
func (p *Process) WithPriority(prio int64) *Process {
	p.Priority = &prio
	return p
}

// HasPriority reports whether the priority policy can dispatch p.
func (p *Process) HasPriority() bool {
	return p.Priority != nil
}

// TimingAt computes the outputs of a run starting at start without
// touching p.
func (p *Process) TimingAt(start int64) Timing {
	finish := start + p.Burst
	turnaround := finish - p.ArrivalTime
	return Timing{
		StartTime:      start,
		FinishTime:     finish,
		TurnaroundTime: turnaround,
		WaitTime:       turnaround - p.Burst,
	}
}

// Dispatch assigns the timing fields for a run starting at start.
func (p *Process) Dispatch(start int64) {
	p.Timing = p.TimingAt(start)
}

// Reset clears every computed field.
func (p *Process) Reset() {
	p.Timing = Timing{}
}

// SetTiming overwrites the computed fields in one assignment.
func (p *Process) SetTiming(t Timing) {
	p.Timing = t
}

// Clone returns a deep copy; the priority pointer is not shared.
func (p *Process) Clone() *Process {
	c := *p
	if p.Priority != nil {
		prio := *p.Priority
		c.Priority = &prio
	}
	return &c
}

// Dispatched reports whether a scheduler has assigned p a slot.
// A zero FinishTime is the "not yet dispatched" sentinel.
func (p *Process) Dispatched() bool {
	return p.FinishTime != 0
}

// Degenerate processes have no service time and are never dispatched.
func (p *Process) Degenerate() bool {
	return p.Burst == 0
}

func (p *Process) Done(now int64) bool {
	return p.FinishTime > 0 && p.FinishTime <= now
}

func (p *Process) Pending(now int64) bool {
	return p.FinishTime == 0 || p.StartTime > now
}

func (p *Process) Running(now int64) bool {
	return p.Dispatched() && p.StartTime <= now && now < p.FinishTime
}

// Started reports whether the slot assigned to p began strictly before now.
// Started processes are committed and never re-timed.
func (p *Process) Started(now int64) bool {
	return p.Dispatched() && p.StartTime < now
}

func (p *Process) String() string {
	if p.Priority != nil {
		return fmt.Sprintf("%s(arrival=%d,burst=%d,%s,prio=%d)", p.Name, p.ArrivalTime, p.Burst, p.Algorithm, *p.Priority)
	}
	return fmt.Sprintf("%s(arrival=%d,burst=%d,%s)", p.Name, p.ArrivalTime, p.Burst, p.Algorithm)
}

// Clones deep-copies a slice of processes.
func Clones(ps []*Process) []*Process {
	out := make([]*Process, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
