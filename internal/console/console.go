// Package console is a line-oriented command loop for editing a running
// simulation: adding processes, changing inputs, and inspecting the chart.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vinhtrinh326/schedsim/internal/render"
	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

var ErrInvalidArgs = errors.New("invalid args")

const usage = `commands:
  add NAME BURST [ARRIVAL [PRIORITY [ALGORITHM]]]   inject a process now
  edit NAME FIELD VALUE                             change arrival|burst|priority|algorithm|name
  show                                              print the Gantt chart and table so far
  status                                            print the running/done/waiting line
  help                                              print this text
  exit                                              stop the simulation`

// Console reads commands for a simulation.
type Console struct {
	sim       *simulation.Simulation
	algorithm process.Algorithm
	opts      render.Options
	onExit    func()
}

// New returns a console that tags added processes with alg unless the
// command names another algorithm.
func New(sim *simulation.Simulation, alg process.Algorithm, opts render.Options) *Console {
	return &Console{sim: sim, algorithm: alg, opts: opts}
}

// OnExit registers f to run when the exit command is read.
func (c *Console) OnExit(f func()) {
	c.onExit = f
}

// Run reads commands from r until EOF, an exit command, or a value on
// exit. Errors go to errW and never end the loop.
func (c *Console) Run(r io.Reader, w, errW io.Writer, exit chan struct{}) {
	var (
		input    string
		err      error
		readLoop = bufio.NewReader(r)
	)
	for {
		select {
		case <-exit:
			_, _ = fmt.Fprintln(w, "exiting gracefully...")
			return
		default:
			_, _ = fmt.Fprintf(w, "[t=%d] > ", c.sim.Now())
			if input, err = readLoop.ReadString('\n'); err != nil {
				if errors.Is(err, io.EOF) {
					if strings.TrimSpace(input) != "" {
						c.report(errW, c.handleInput(w, input, exit))
					}
					return
				}
				_, _ = fmt.Fprintln(errW, err)
				continue
			}
			c.report(errW, c.handleInput(w, input, exit))
		}
	}
}

func (c *Console) report(errW io.Writer, err error) {
	if err != nil {
		_, _ = fmt.Fprintln(errW, err)
	}
}

func (c *Console) handleInput(w io.Writer, input string, exit chan<- struct{}) error {
	args := strings.Fields(input)
	if len(args) == 0 {
		return nil
	}
	name, args := args[0], args[1:]

	switch name {
	case "add":
		return c.add(w, args...)
	case "edit":
		return c.edit(w, args...)
	case "show":
		return c.show(w)
	case "status":
		f := c.sim.Snapshot()
		render.Status(w, f.Processes, f.Now, c.opts)
		return nil
	case "help":
		_, err := fmt.Fprintln(w, usage)
		return err
	case "exit", "quit":
		if c.onExit != nil {
			c.onExit()
		}
		select {
		case exit <- struct{}{}:
		default:
		}
		return nil
	}
	return fmt.Errorf("%w: unknown command %q (try help)", ErrInvalidArgs, name)
}

func (c *Console) add(w io.Writer, args ...string) error {
	if len(args) < 2 || len(args) > 5 {
		return fmt.Errorf("%w: add NAME BURST [ARRIVAL [PRIORITY [ALGORITHM]]]", ErrInvalidArgs)
	}
	burst, err := parseInt("burst", args[1])
	if err != nil {
		return err
	}
	arrival := c.sim.Now()
	if len(args) > 2 {
		if arrival, err = parseInt("arrival", args[2]); err != nil {
			return err
		}
	}
	alg := c.algorithm
	if len(args) > 4 {
		if alg, err = process.ParseAlgorithm(args[4]); err != nil {
			return err
		}
	}
	p := process.New(args[0], arrival, burst, alg)
	if len(args) > 3 && args[3] != "-" {
		prio, err := parseInt("priority", args[3])
		if err != nil {
			return err
		}
		p.WithPriority(prio)
	}

	if err := c.sim.Inject(p); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "added %s\n", p)
	return err
}

func (c *Console) edit(w io.Writer, args ...string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: edit NAME FIELD VALUE", ErrInvalidArgs)
	}
	p, err := c.sim.Get(args[0])
	if err != nil {
		return err
	}

	var e simulation.Edit
	value := args[2]
	switch args[1] {
	case "name":
		e.Name = &value
	case "arrival":
		v, err := parseInt("arrival", value)
		if err != nil {
			return err
		}
		e.ArrivalTime = &v
	case "burst":
		v, err := parseInt("burst", value)
		if err != nil {
			return err
		}
		e.Burst = &v
	case "priority":
		if value == "-" {
			e.ClearPriority = true
			break
		}
		v, err := parseInt("priority", value)
		if err != nil {
			return err
		}
		e.Priority = &v
	case "algorithm":
		alg := process.Algorithm(value)
		e.Algorithm = &alg
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidArgs, args[1])
	}

	if err := c.sim.Edit(p.ID, e); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "updated %s\n", args[0])
	return err
}

func (c *Console) show(w io.Writer) error {
	f := c.sim.Snapshot()
	render.Report(w, f.Processes, f.Now, c.opts)
	return nil
}

func parseInt(field, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidArgs, field, s)
	}
	return v, nil
}
