// Package stdx contains tiny generic helpers for the rest of the module.
package stdx

// Must0 panics when err is not nil. For initialization paths where an error
// is a programming mistake.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns v, panicking when err is not nil.
func Must1[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Zero returns the zero value of T.
func Zero[T any]() T {
	var zero T
	return zero
}
