package collector

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/healthdes/pkg/sim"
)

// Fixed leading columns of every dataset.
const (
	ColumnName = "simulation_name"
	ColumnRun  = "simulation_run"
	ColumnTime = "time"
)

// Table is a snapshot of one dataset.
type Table struct {
	Header []string
	Rows   [][]any
}

type dataset struct {
	columns map[string]bool
	Table
}

// Memory keeps datasets and counters in memory for the duration of a run.
// It is safe to read while the simulation is running.
type Memory struct {
	env  *sim.Environment
	name string
	run  string

	mu       sync.Mutex
	datasets map[string]*dataset
	counters map[string]float64
}

// NewMemory creates a collector stamping every row with name, run and the simulated time
// of env.
func NewMemory(env *sim.Environment, name, run string) *Memory {
	return &Memory{
		env:      env,
		name:     name,
		run:      run,
		datasets: make(map[string]*dataset),
		counters: make(map[string]float64),
	}
}

// Log appends row to dataset. The first row fixes the columns: its keys in sorted order
// after the simulation name, run and time. Later rows may omit columns, which are filled
// with Null, but may not add any.
func (m *Memory) Log(name string, row map[string]any) error {
	if err := requireNonEmpty("dataset name", name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ds, ok := m.datasets[name]
	if !ok {
		ds = newDataset(row)
		m.datasets[name] = ds
	}
	return m.appendLocked(name, ds, row)
}

// Periodic samples callback every interval of simulated time, starting now, into dataset.
// The sampling process never finishes, so the run it belongs to needs an end time.
func (m *Memory) Periodic(name string, callback func() map[string]any, every time.Duration) error {
	if err := requireNonEmpty("dataset name", name); err != nil {
		return err
	}
	if callback == nil {
		return errNilCallback
	}
	if err := requirePositive("reporting interval", every); err != nil {
		return err
	}

	m.mu.Lock()
	if err := requireAbsent(name, m.datasets, ErrDatasetExists); err != nil {
		m.mu.Unlock()
		return err
	}
	ds := newDataset(callback())
	m.datasets[name] = ds
	m.mu.Unlock()

	m.env.Spawn("report/"+name, func(p *sim.Process) error {
		for {
			row := callback()
			m.mu.Lock()
			err := m.appendLocked(name, ds, row)
			m.mu.Unlock()
			if err != nil {
				return err
			}
			if err := p.Wait(every); err != nil {
				return err
			}
		}
	})
	return nil
}

func newDataset(first map[string]any) *dataset {
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ds := &dataset{columns: make(map[string]bool, len(keys))}
	ds.Header = append([]string{ColumnName, ColumnRun, ColumnTime}, keys...)
	for _, k := range keys {
		ds.columns[k] = true
	}
	return ds
}

func (m *Memory) appendLocked(name string, ds *dataset, row map[string]any) error {
	for k := range row {
		if !ds.columns[k] {
			return fmt.Errorf("dataset %q: column %q: %w", name, k, ErrUnknownColumn)
		}
	}
	values := make([]any, 0, len(ds.Header))
	values = append(values, m.name, m.run, m.env.Now())
	for _, k := range ds.Header[3:] {
		v, ok := row[k]
		if !ok {
			v = Null
		}
		values = append(values, v)
	}
	ds.Rows = append(ds.Rows, values)
	return nil
}

// Increment adds amount to counter, creating it at zero.
func (m *Memory) Increment(counter string, amount float64) {
	m.mu.Lock()
	m.counters[counter] += amount
	m.mu.Unlock()
}

// Decrement subtracts amount from counter, creating it at zero.
func (m *Memory) Decrement(counter string, amount float64) {
	m.mu.Lock()
	m.counters[counter] -= amount
	m.mu.Unlock()
}

// Counter returns the value of counter and whether it was ever touched.
func (m *Memory) Counter(counter string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.counters[counter]
	return v, ok
}

// Counters returns a copy of every counter.
func (m *Memory) Counters() map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.counters)
}

// Reports returns the dataset names in sorted order.
func (m *Memory) Reports() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.datasets))
	for name := range m.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Results returns a copy of dataset.
func (m *Memory) Results(name string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ds, ok := m.datasets[name]
	if !ok {
		return Table{}, fmt.Errorf("dataset %q: %w", name, ErrUnknownDataset)
	}
	out := Table{
		Header: append([]string(nil), ds.Header...),
		Rows:   make([][]any, len(ds.Rows)),
	}
	for i, r := range ds.Rows {
		out.Rows[i] = append([]any(nil), r...)
	}
	return out, nil
}

// WriteCSV writes dataset, header first, to w. Simulated time is written in minutes.
func (m *Memory) WriteCSV(w io.Writer, name string) error {
	t, err := m.Results(name)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	record := make([]string, len(t.Header))
	for _, r := range t.Rows {
		for i, v := range r {
			record[i] = format(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Duration:
		return fmt.Sprintf("%g", x.Minutes())
	case nil:
		return Null
	default:
		return fmt.Sprint(x)
	}
}
