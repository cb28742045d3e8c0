package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus exposes counters as gauges and counts logged rows per dataset.
type Prometheus struct {
	counters *prometheus.GaugeVec
	rows     *prometheus.CounterVec
}

// NewPrometheus creates the metrics under namespace and registers them with reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	p := &Prometheus{
		counters: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "counter",
				Help:      "Current value of simulation counters",
			},
			[]string{"counter"},
		),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_rows_total",
				Help:      "Total number of rows logged per dataset",
			},
			[]string{"dataset"},
		),
	}
	for _, c := range []prometheus.Collector{p.counters, p.rows} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) Log(dataset string, _ map[string]any) error {
	p.rows.WithLabelValues(dataset).Inc()
	return nil
}

func (p *Prometheus) Increment(counter string, amount float64) {
	p.counters.WithLabelValues(counter).Add(amount)
}

func (p *Prometheus) Decrement(counter string, amount float64) {
	p.counters.WithLabelValues(counter).Sub(amount)
}
