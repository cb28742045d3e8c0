package schema

import "sort"

// Schema is a map of parameter names to their expected types.
type Schema map[string]Type

// Fields returns the parameter names in sorted order.
func (s Schema) Fields() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks data against the schema and reports every failing field, in field order.
// Keys of data that the schema does not declare are rejected, so that a misspelt parameter
// in a model file is not silently ignored.
func Validate(s Schema, data map[string]any) error {
	if s == nil {
		return nil
	}

	var errs []error
	for _, key := range s.Fields() {
		typ := s[key]
		value, exists := data[key]
		if !exists {
			if _, optional := typ.(optionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	extra := make([]string, 0)
	for key := range data {
		if _, declared := s[key]; !declared {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		errs = append(errs, &ValidationError{Key: key, Reason: "unknown parameter"})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
