package dsl

type edge struct {
	activity string
	to       string
}

// DecisionBuilder provides a fluent API for configuring a decision point.
type DecisionBuilder struct {
	id      string
	edges   []edge
	builder *Builder
}

// Then adds an outgoing edge: people leaving this decision perform activity and arrive at to.
func (d *DecisionBuilder) Then(activity, to string) *DecisionBuilder {
	d.edges = append(d.edges, edge{activity: activity, to: to})
	return d
}

// Terminal removes every outgoing edge, making the decision an end of traversal.
func (d *DecisionBuilder) Terminal() *DecisionBuilder {
	d.edges = nil
	return d
}

// ID returns the decision id.
func (d *DecisionBuilder) ID() string {
	return d.id
}

// Done returns the parent builder.
func (d *DecisionBuilder) Done() *Builder {
	return d.builder
}
