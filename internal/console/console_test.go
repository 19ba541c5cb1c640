package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtrinh326/schedsim/internal/render"
	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

func newSim(t *testing.T) *simulation.Simulation {
	t.Helper()
	sim := simulation.New(nil)
	require.NoError(t, sim.Add(
		process.New("P1", 0, 5, process.FCFS),
		process.New("P2", 2, 3, process.FCFS),
		process.New("P3", 4, 1, process.FCFS),
	))
	require.NoError(t, sim.Reschedule())
	return sim
}

func run(t *testing.T, sim *simulation.Simulation, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	exit := make(chan struct{}, 2)
	New(sim, process.FCFS, render.Options{}).Run(strings.NewReader(input), &out, &errOut, exit)
	return out.String(), errOut.String()
}

func TestAdd(t *testing.T) {
	sim := newSim(t)
	sim.Advance(6)

	out, errOut := run(t, sim, "add P4 2\nadd Q1 1 0 3 priority\n")

	assert.Empty(t, errOut)
	assert.Contains(t, out, "added P4(arrival=6,burst=2,FCFS)")
	assert.Contains(t, out, "added Q1(arrival=0,burst=1,Priority,prio=3)")

	p4, err := sim.Get("P4")
	require.NoError(t, err)
	assert.Equal(t, int64(9), p4.StartTime)
	q1, err := sim.Get("Q1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), q1.StartTime)
}

func TestEdit(t *testing.T) {
	sim := newSim(t)
	sim.Advance(6)

	_, errOut := run(t, sim, "edit P3 burst 3\nedit P1 burst 1\nedit P3 colour red\n")

	p3, err := sim.Get("P3")
	require.NoError(t, err)
	assert.Equal(t, int64(11), p3.FinishTime)
	assert.Contains(t, errOut, "already started")
	assert.Contains(t, errOut, "unknown field")
}

func TestEdit_PriorityAndAlgorithm(t *testing.T) {
	sim := newSim(t)

	_, errOut := run(t, sim, "edit P2 algorithm Priority\nedit P2 priority 1\n")
	assert.Empty(t, errOut)

	p2, err := sim.Get("P2")
	require.NoError(t, err)
	assert.Equal(t, process.Priority, p2.Algorithm)
	require.NotNil(t, p2.Priority)
	assert.Equal(t, int64(2), p2.StartTime)

	_, errOut = run(t, sim, "edit P2 priority -\n")
	assert.Empty(t, errOut)
	p2, err = sim.Get("P2")
	require.NoError(t, err)
	assert.Nil(t, p2.Priority)
	assert.False(t, p2.Dispatched())
}

func TestShowAndStatus(t *testing.T) {
	sim := newSim(t)
	sim.Advance(6)

	out, errOut := run(t, sim, "show\nstatus\nhelp\n")

	assert.Empty(t, errOut)
	assert.Contains(t, out, "Gantt schedule")
	assert.Contains(t, out, "Schedule table")
	assert.Contains(t, out, "running: P2")
	assert.Contains(t, out, "commands:")
	assert.Contains(t, out, "[t=6] > ")
}

func TestExit(t *testing.T) {
	sim := newSim(t)
	out, _ := run(t, sim, "exit\nadd P9 1\n")

	assert.Contains(t, out, "exiting gracefully...")
	_, err := sim.Get("P9")
	assert.ErrorIs(t, err, simulation.ErrNotFound)
}

func TestOnExit(t *testing.T) {
	sim := newSim(t)
	called := 0
	con := New(sim, process.FCFS, render.Options{})
	con.OnExit(func() { called++ })

	var out bytes.Buffer
	con.Run(strings.NewReader("status\nquit\n"), &out, &out, make(chan struct{}, 1))

	assert.Equal(t, 1, called)
	assert.Contains(t, out.String(), "exiting gracefully...")
}

func TestErrors(t *testing.T) {
	sim := newSim(t)
	_, errOut := run(t, sim, "launch\nadd P9\nadd P9 x\nadd P1 1\nedit P9 burst 1\n\n")

	assert.Contains(t, errOut, "unknown command")
	assert.Contains(t, errOut, "add NAME BURST")
	assert.Contains(t, errOut, "burst must be an integer")
	assert.Contains(t, errOut, "duplicate process name")
	assert.Contains(t, errOut, "process not found")
}

func TestTrailingCommandWithoutNewline(t *testing.T) {
	sim := newSim(t)
	_, errOut := run(t, sim, "add P4 1")
	assert.Empty(t, errOut)

	_, err := sim.Get("P4")
	assert.NoError(t, err)
}
