package routing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/healthdes/pkg/domain"
	"github.com/aretw0/healthdes/pkg/schema"
)

// Validate crawls the graph from every start node and reports every problem found: unknown
// starts, edges naming unregistered activities, nodes with more than one outgoing edge, and
// decision points no person can reach. Problems are returned together as a
// *schema.AggregateError.
func (g *Graph) Validate(starts ...string) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(starts) == 0 {
		return &schema.AggregateError{Errors: []error{errors.New("no start decision given")}}
	}
	var errs []error
	for _, start := range starts {
		if _, ok := g.decisions[start]; !ok {
			errs = append(errs, fmt.Errorf("start %q: %w", start, domain.ErrUnknownDecision))
		}
	}
	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}

	visited := map[string]bool{}
	queue := append([]string(nil), starts...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		out := g.out[current]
		if len(out) > 1 {
			errs = append(errs, fmt.Errorf("decision %q: %d outgoing edges, only %q is ever taken", current, len(out), out[len(out)-1].Activity))
		}
		for _, e := range out {
			if !g.reg.Has(e.Activity) {
				errs = append(errs, fmt.Errorf("edge %s->%s: activity %q: %w", e.From, e.To, e.Activity, domain.ErrUnknownActivity))
			}
			if !visited[e.To] {
				queue = append(queue, e.To)
			}
		}
	}

	for _, id := range g.sortedDecisionsLocked() {
		if !visited[id] {
			errs = append(errs, fmt.Errorf("decision %q: unreachable from %s", id, strings.Join(quote(starts), ", ")))
		}
	}

	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

func (g *Graph) sortedDecisionsLocked() []string {
	ids := make([]string, 0, len(g.decisions))
	for id := range g.decisions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func quote(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = strconv.Quote(id)
	}
	return out
}
