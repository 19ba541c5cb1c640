package render

import "github.com/vinhtrinh326/schedsim/pkg/process"

// Summary aggregates the dispatched part of a schedule.
type Summary struct {
	Count         int
	AvgWait       float64
	AvgTurnaround float64
	Makespan      int64
	Throughput    float64
	Utilization   float64
}

// Summarize ignores processes that were never dispatched.
func Summarize(ps []*process.Process) Summary {
	var (
		sum             Summary
		totalWait       float64
		totalTurnaround float64
		busy            int64
	)
	for _, p := range ps {
		if !p.Dispatched() {
			continue
		}
		sum.Count++
		totalWait += float64(p.WaitTime)
		totalTurnaround += float64(p.TurnaroundTime)
		busy += p.Burst
		if p.FinishTime > sum.Makespan {
			sum.Makespan = p.FinishTime
		}
	}
	if sum.Count == 0 {
		return sum
	}

	count := float64(sum.Count)
	sum.AvgWait = totalWait / count
	sum.AvgTurnaround = totalTurnaround / count
	if sum.Makespan > 0 {
		sum.Throughput = count / float64(sum.Makespan)
		sum.Utilization = float64(busy) / float64(sum.Makespan)
	}
	return sum
}
