package healthdes

import (
	"time"
)

// Report summarises a run.
type Report struct {
	Name       string             `json:"name"`
	RunID      string             `json:"run_id"`
	Now        time.Duration      `json:"now"` // simulated time at the end of the run
	People     int                `json:"people"`
	Completed  int                `json:"completed"`
	InProgress int                `json:"in_progress"` // cut short by the end time
	Stalled    int                `json:"stalled"`     // parked with nothing left to wake them
	Visits     map[string]int     `json:"visits"`      // activity name -> people who started it
	Counters   map[string]float64 `json:"counters"`
}

func (s *Simulation) report() *Report {
	r := &Report{
		Name:     s.name,
		RunID:    s.runID,
		Now:      s.env.Now(),
		People:   len(s.people),
		Visits:   make(map[string]int),
		Counters: s.memory.Counters(),
	}
	drained := s.env.Pending() == 0
	for _, p := range s.people {
		for _, name := range p.Visited() {
			r.Visits[name]++
		}
		switch {
		case p.Done():
			r.Completed++
		case drained:
			r.Stalled++
		default:
			r.InProgress++
		}
	}
	return r
}
