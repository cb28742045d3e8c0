// Package collector records what happens during a simulation run.
//
// Activities and people report through the Collector interface: tabular rows appended to
// named datasets, and named counters moved up and down. Memory keeps everything in process
// for inspection and CSV export, Prometheus exposes the same signals as metrics, and Tee fans
// out to several collectors at once.
package collector

import "errors"

var (
	// ErrUnknownColumn is returned when a row carries a key absent from the dataset header.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrDatasetExists is returned when registering a periodic report for a used dataset.
	ErrDatasetExists = errors.New("dataset already exists")
	// ErrUnknownDataset is returned when reading a dataset nothing was logged to.
	ErrUnknownDataset = errors.New("unknown dataset")
)

// Null fills columns a row did not provide.
const Null = "Null"

// Collector receives simulation statistics.
type Collector interface {
	// Log appends row to dataset. The first row logged fixes the dataset columns.
	Log(dataset string, row map[string]any) error
	// Increment adds amount to counter.
	Increment(counter string, amount float64)
	// Decrement subtracts amount from counter.
	Decrement(counter string, amount float64)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Log(string, map[string]any) error { return nil }
func (Nop) Increment(string, float64)        {}
func (Nop) Decrement(string, float64)        {}

type tee []Collector

// Tee returns a collector that forwards to each of collectors in order.
// Log continues past failures and returns the first error.
func Tee(collectors ...Collector) Collector {
	out := make(tee, 0, len(collectors))
	for _, c := range collectors {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (t tee) Log(dataset string, row map[string]any) error {
	var first error
	for _, c := range t {
		if err := c.Log(dataset, row); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t tee) Increment(counter string, amount float64) {
	for _, c := range t {
		c.Increment(counter, amount)
	}
}

func (t tee) Decrement(counter string, amount float64) {
	for _, c := range t {
		c.Decrement(counter, amount)
	}
}
