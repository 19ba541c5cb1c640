// Package render draws schedules as Gantt charts and timing tables.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// All draws the whole schedule when passed as now.
const All int64 = -1

// Options controls output styling.
type Options struct {
	Color bool
}

// TimeSlice is one bar of the Gantt chart. Idle slices have no name.
type TimeSlice struct {
	Name      string
	Algorithm process.Algorithm
	Start     int64
	Stop      int64
}

func (s TimeSlice) Idle() bool {
	return s.Name == ""
}

// Timeline returns the dispatched processes as slices in start order, with
// idle gaps filled in. When now is not All, slices are clipped to [0, now).
func Timeline(ps []*process.Process, now int64) []TimeSlice {
	var run []*process.Process
	for _, p := range ps {
		if p.Dispatched() {
			run = append(run, p)
		}
	}
	sort.SliceStable(run, func(i, j int) bool { return run[i].StartTime < run[j].StartTime })

	gantt := make([]TimeSlice, 0, len(run))
	var clock int64
	for i, p := range run {
		if i == 0 {
			clock = min(p.StartTime, 0)
		}
		if p.StartTime > clock {
			gantt = append(gantt, TimeSlice{Start: clock, Stop: p.StartTime})
		}
		gantt = append(gantt, TimeSlice{
			Name:      p.Name,
			Algorithm: p.Algorithm,
			Start:     p.StartTime,
			Stop:      p.FinishTime,
		})
		clock = max(clock, p.FinishTime)
	}
	if now == All {
		return gantt
	}

	clipped := gantt[:0]
	for _, s := range gantt {
		if s.Start >= now {
			break
		}
		s.Stop = min(s.Stop, now)
		clipped = append(clipped, s)
	}
	return clipped
}

func Title(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// Gantt draws the chart up to now (or the whole chart for All).
func Gantt(w io.Writer, ps []*process.Process, now int64, opts Options) {
	au := aurora.NewAurora(opts.Color)
	gantt := Timeline(ps, now)

	_, _ = fmt.Fprintln(w, "Gantt schedule")
	_, _ = fmt.Fprint(w, "|")
	for i := range gantt {
		label := gantt[i].Name
		if gantt[i].Idle() {
			label = "--"
		}
		padding := strings.Repeat(" ", max((8-len(label))/2, 1))
		_, _ = fmt.Fprint(w, padding, colorize(au, gantt[i], label), padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i := range gantt {
		_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Start), "\t")
		if len(gantt)-1 == i {
			_, _ = fmt.Fprint(w, fmt.Sprint(gantt[i].Stop))
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

func colorize(au aurora.Aurora, s TimeSlice, label string) string {
	switch {
	case s.Idle():
		return label
	case s.Algorithm == process.Priority:
		return au.Magenta(label).String()
	default:
		return au.Cyan(label).String()
	}
}

// Schedule writes the timing table with averages in the footer.
func Schedule(w io.Writer, ps []*process.Process) {
	printer := message.NewPrinter(language.AmericanEnglish)
	sum := Summarize(ps)

	rows := make([][]string, len(ps))
	for i, p := range ps {
		prio := "-"
		if p.Priority != nil {
			prio = fmt.Sprint(*p.Priority)
		}
		rows[i] = []string{
			p.Name,
			p.Algorithm.String(),
			prio,
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.Burst),
			"-", "-", "-", "-",
		}
		if p.Dispatched() {
			rows[i][5] = fmt.Sprint(p.StartTime)
			rows[i][6] = fmt.Sprint(p.FinishTime)
			rows[i][7] = fmt.Sprint(p.TurnaroundTime)
			rows[i][8] = fmt.Sprint(p.WaitTime)
		}
	}

	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Algorithm", "Priority", "Arrival", "Burst", "Start", "Finish", "Turnaround", "Wait"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "",
		printer.Sprintf("Utilization\n%.2f%%", sum.Utilization*100),
		printer.Sprintf("Throughput\n%.2f/t", sum.Throughput),
		printer.Sprintf("Average\n%.2f", sum.AvgTurnaround),
		printer.Sprintf("Average\n%.2f", sum.AvgWait)})
	table.Render()
}

// Report writes a title, chart, and table for each algorithm present in ps.
func Report(w io.Writer, ps []*process.Process, now int64, opts Options) {
	for _, alg := range []process.Algorithm{process.FCFS, process.Priority} {
		var group []*process.Process
		for _, p := range ps {
			if p.Algorithm == alg {
				group = append(group, p)
			}
		}
		if len(group) == 0 {
			continue
		}
		Title(w, alg.String())
		Gantt(w, group, now, opts)
		Schedule(w, group)
	}
}

// Status writes a one-line playback summary for time now.
func Status(w io.Writer, ps []*process.Process, now int64, opts Options) {
	au := aurora.NewAurora(opts.Color)
	var running, done, waiting []string
	for _, p := range ps {
		switch {
		case p.Running(now):
			running = append(running, p.Name)
		case p.Done(now):
			done = append(done, p.Name)
		default:
			waiting = append(waiting, p.Name)
		}
	}
	_, _ = fmt.Fprintf(w, "%s %-4d %s %-10s %s %-20s %s %s\n",
		au.Bold("t="), now,
		au.Cyan("running:"), strings.Join(running, ","),
		au.Cyan("done:"), strings.Join(done, ","),
		au.Cyan("waiting:"), strings.Join(waiting, ","),
	)
}
