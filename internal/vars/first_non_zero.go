// Package vars holds helpers for picking configuration values.
package vars

// FirstNonZero returns the first value that is not the zero value.
func FirstNonZero[T comparable](values ...T) T {
	var zero T
	for _, value := range values {
		if value != zero {
			return value
		}
	}
	return zero
}

// FirstNonEmpty returns the first slice with elements.
func FirstNonEmpty[T any](values ...[]T) []T {
	for _, value := range values {
		if len(value) > 0 {
			return value
		}
	}
	return nil
}
