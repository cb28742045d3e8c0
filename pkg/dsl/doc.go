/*
Package dsl provides a fluent builder for routing graphs.

It lets models be written in Go instead of YAML, which is handy for tests, for generated
models and for IDE completion. Errors are collected and reported together by Build.

Example usage:

	b := dsl.New()

	b.Activity("check-in", behaviors.Catalogue(res)["delay"].Factory, map[string]any{"duration": "5m"})
	b.Activity("treatment", activity.Noop, nil)

	b.Decision("arrival").Then("check-in", "waiting-room")
	b.Decision("waiting-room").Then("treatment", "discharge")
	b.Decision("discharge")

	graph, err := b.BuildFrom("arrival")
	if err != nil {
		// every problem found, joined
	}

Targets named in Then are created on demand, so sinks need not be declared.
*/
package dsl
