package types

// Outcome is a tagged success/failure wrapper used through the agent pipeline
// so that expected control-flow failures (routing misses, missing agents) are
// values, not panics. An Outcome is either Success carrying a value or
// Failure carrying an error.
type Outcome[T any] struct {
	value T
	err   error
	ok    bool
}

// Success creates a successful outcome carrying value.
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

// Failure creates a failed outcome carrying err.
func Failure[T any](err error) Outcome[T] {
	return Outcome[T]{err: err}
}

// IsSuccess reports whether the outcome carries a value.
func (o Outcome[T]) IsSuccess() bool {
	return o.ok
}

// IsFailure reports whether the outcome carries an error.
func (o Outcome[T]) IsFailure() bool {
	return !o.ok
}

// Value returns the carried value. Zero value on failure.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the carried error. Nil on success.
func (o Outcome[T]) Err() error {
	return o.err
}

// Unpack returns the outcome as a conventional (value, error) pair for
// callers at the boundary between outcome-based and error-based code.
func (o Outcome[T]) Unpack() (T, error) {
	return o.value, o.err
}
