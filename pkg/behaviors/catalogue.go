package behaviors

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/healthdes/pkg/activity"
	"github.com/aretw0/healthdes/pkg/collector"
	"github.com/aretw0/healthdes/pkg/schema"
	"github.com/aretw0/healthdes/pkg/sim"
)

// Dataset is the collector dataset behaviors log their phases to.
const Dataset = "activity_log"

// Behavior kinds understood by Catalogue.
const (
	KindNoop     = "noop"
	KindDelay    = "delay"
	KindResource = "resource"
)

// Kind pairs a factory with the schema its parameter template must satisfy.
type Kind struct {
	Factory activity.Factory
	Schema  schema.Schema
}

// Catalogue returns the stock behavior kinds. Resource-backed activities draw from res.
func Catalogue(res *Resources) map[string]Kind {
	return map[string]Kind{
		KindNoop: {
			Factory: activity.Noop,
			Schema:  schema.Schema{},
		},
		KindDelay: {
			Factory: newDelay,
			Schema:  schema.Schema{"duration": schema.Duration()},
		},
		KindResource: {
			Factory: func(cfg activity.Config) (activity.Behavior, error) { return newResource(cfg, res) },
			Schema: schema.Schema{
				"resource": schema.String(),
				"duration": schema.Duration(),
			},
		},
	}
}

type params struct {
	Person   uint64        `mapstructure:"person"`
	Resource string        `mapstructure:"resource"`
	Duration time.Duration `mapstructure:"duration"`
}

func decode(in map[string]any) (params, error) {
	var out params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(in); err != nil {
		return out, fmt.Errorf("decode params: %w", err)
	}
	return out, nil
}

// recorder reports the phases of one activity instance.
type recorder struct {
	cfg activity.Config
	c   collector.Collector
}

func newRecorder(cfg activity.Config) recorder {
	c := cfg.Collector
	if c == nil {
		c = collector.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return recorder{cfg: cfg, c: c}
}

func (r recorder) phase(p *sim.Process, phase string) error {
	r.cfg.Logger.Debug("activity phase", "phase", phase, "time", p.Now())
	return r.c.Log(Dataset, map[string]any{
		"person":   r.cfg.Owner.ID(),
		"activity": r.cfg.Name,
		"phase":    phase,
	})
}

type delay struct {
	activity.Base
	rec      recorder
	duration time.Duration
}

func newDelay(cfg activity.Config) (activity.Behavior, error) {
	p, err := decode(cfg.Params)
	if err != nil {
		return nil, err
	}
	return &delay{rec: newRecorder(cfg), duration: p.Duration}, nil
}

func (d *delay) Execute(p *sim.Process) error {
	d.rec.c.Increment(d.rec.cfg.Name+"_active", 1)
	if err := d.rec.phase(p, "started"); err != nil {
		return err
	}
	if err := p.Wait(d.duration); err != nil {
		return err
	}
	d.rec.c.Decrement(d.rec.cfg.Name+"_active", 1)
	d.rec.c.Increment(d.rec.cfg.Name+"_completed", 1)
	return d.rec.phase(p, "completed")
}

// resource holds one unit of a shared resource from seize_resources until
// release_resources, and works for duration in between.
type resource struct {
	delay
	res  *sim.Resource
	held bool
}

func newResource(cfg activity.Config, pool *Resources) (activity.Behavior, error) {
	p, err := decode(cfg.Params)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, fmt.Errorf("resource %q: no resource pool", p.Resource)
	}
	res, err := pool.Get(p.Resource)
	if err != nil {
		return nil, err
	}
	return &resource{
		delay: delay{rec: newRecorder(cfg), duration: p.Duration},
		res:   res,
	}, nil
}

func (r *resource) SeizeResources(p *sim.Process) error {
	if r.held {
		return nil
	}
	queued := p.Now()
	r.rec.c.Increment(r.res.Name()+"_waiting", 1)
	if err := r.res.Request(p); err != nil {
		return err
	}
	r.rec.c.Decrement(r.res.Name()+"_waiting", 1)
	r.rec.c.Increment(r.res.Name()+"_in_use", 1)
	r.held = true
	r.rec.cfg.Logger.Debug("resource seized", "resource", r.res.Name(), "waited", p.Now()-queued)
	return r.rec.phase(p, "seized")
}

func (r *resource) ReleaseResources(p *sim.Process) error {
	if !r.held {
		return nil
	}
	if err := r.res.Release(); err != nil {
		return err
	}
	r.held = false
	r.rec.c.Decrement(r.res.Name()+"_in_use", 1)
	return r.rec.phase(p, "released")
}

// End releases the unit if release_resources was never sent.
func (r *resource) End(p *sim.Process) error {
	return r.ReleaseResources(p)
}
