// Package schema validates activity parameter templates.
//
// A Schema maps parameter names to types. Activity behaviors publish a schema next to their
// factory so that a model is rejected at registration time, before the simulation starts,
// rather than when the first person reaches the activity.
//
//	params := schema.Schema{
//	    "resource": schema.String(),
//	    "duration": schema.Duration(),
//	    "priority": schema.Optional(schema.Int()),
//	}
//
//	if err := schema.Validate(params, map[string]any{"resource": "nurse", "duration": "15m"}); err != nil {
//	    // err is an *AggregateError listing every failing field
//	}
//
// Durations accept a time.Duration or a string understood by time.ParseDuration, which is
// how they arrive from YAML and JSON model files.
package schema
