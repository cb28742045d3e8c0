package collector

import (
	"errors"
	"fmt"
)

func requireNonEmpty(what, value string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", what)
	}
	return nil
}

func requireAbsent[V any](key string, m map[string]V, sentinel error) error {
	if _, exists := m[key]; exists {
		return fmt.Errorf("%q: %w", key, sentinel)
	}
	return nil
}

func requirePositive[N ~int | ~int64 | ~float64](what string, n N) error {
	if n <= 0 {
		return fmt.Errorf("%s must be greater than zero, got %v", what, n)
	}
	return nil
}

var errNilCallback = errors.New("callback must not be nil")
