// Package config loads simulation models from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Model is a complete simulation description.
type Model struct {
	Name       string        `mapstructure:"name"`
	Run        string        `mapstructure:"run"`   // run label; a random id is used when empty
	Until      time.Duration `mapstructure:"until"` // zero runs until no event is left
	Monitor    time.Duration `mapstructure:"monitor"`
	Resources  []Resource    `mapstructure:"resources"`
	Activities []Activity    `mapstructure:"activities"`
	Decisions  []string      `mapstructure:"decisions"`
	Routes     []Route       `mapstructure:"routes"`
	People     []People      `mapstructure:"people"`
}

// Resource is a pool of identical units, e.g. nurses or beds.
type Resource struct {
	Name     string `mapstructure:"name"`
	Capacity int    `mapstructure:"capacity"`
}

// Activity is an activity template: a behavior kind and its parameters.
type Activity struct {
	Name     string         `mapstructure:"name"`
	Behavior string         `mapstructure:"behavior"`
	Params   map[string]any `mapstructure:"params"`
}

// Route is an edge of the routing graph.
type Route struct {
	Activity string `mapstructure:"activity"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// People is a group of people of one type arriving at a start node.
type People struct {
	Type       string         `mapstructure:"type"`
	Start      string         `mapstructure:"start"`
	Count      int            `mapstructure:"count"`
	Interval   time.Duration  `mapstructure:"interval"`
	Attributes map[string]any `mapstructure:"attributes"`
}

// Load reads a model file. Files ending in .json are parsed as JSON, anything else as YAML.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a model from data in the given format ("yaml" or "json").
// Unknown keys are rejected.
func Parse(data []byte, format string) (*Model, error) {
	var raw map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse model json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse model yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported model format %q", format)
	}

	var m Model
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &m,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return &m, nil
}

// Validate reports every structural problem of the model at once.
func (m *Model) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if m.Name == "" {
		add("name is required")
	}
	if m.Until < 0 {
		add("until must not be negative")
	}
	if m.Monitor < 0 {
		add("monitor must not be negative")
	}
	if m.Monitor > 0 && m.Until == 0 {
		add("monitor needs a positive until: periodic sampling never ends on its own")
	}

	resources := map[string]bool{}
	for i, r := range m.Resources {
		switch {
		case r.Name == "":
			add("resources[%d]: name is required", i)
		case resources[r.Name]:
			add("resources[%d]: duplicate resource %q", i, r.Name)
		}
		if r.Capacity <= 0 {
			add("resources[%d]: capacity must be greater than zero", i)
		}
		resources[r.Name] = true
	}

	activities := map[string]bool{}
	for i, a := range m.Activities {
		switch {
		case a.Name == "":
			add("activities[%d]: name is required", i)
		case activities[a.Name]:
			add("activities[%d]: duplicate activity %q", i, a.Name)
		}
		if a.Behavior == "" {
			add("activities[%d]: behavior is required", i)
		}
		if res, ok := a.Params["resource"].(string); ok && !resources[res] {
			add("activities[%d]: unknown resource %q", i, res)
		}
		activities[a.Name] = true
	}

	decisions := map[string]bool{}
	for i, d := range m.Decisions {
		switch {
		case d == "":
			add("decisions[%d]: id is required", i)
		case decisions[d]:
			add("decisions[%d]: duplicate decision %q", i, d)
		}
		decisions[d] = true
	}

	for i, r := range m.Routes {
		if !activities[r.Activity] {
			add("routes[%d]: unknown activity %q", i, r.Activity)
		}
		if !decisions[r.From] {
			add("routes[%d]: unknown decision %q", i, r.From)
		}
		if !decisions[r.To] {
			add("routes[%d]: unknown decision %q", i, r.To)
		}
	}

	for i, p := range m.People {
		if p.Type == "" {
			add("people[%d]: type is required", i)
		}
		if !decisions[p.Start] {
			add("people[%d]: unknown start %q", i, p.Start)
		}
		if p.Count <= 0 {
			add("people[%d]: count must be greater than zero", i)
		}
		if p.Interval < 0 {
			add("people[%d]: interval must not be negative", i)
		}
	}

	return errors.Join(errs...)
}
