// Package probe checks that the host has the toolchain and graphics driver
// stack needed to build and run the project.
//
// Probes never fail the run: every check produces either a value or the
// reason it is missing, and all checks always run.
package probe

// Option holds a probe result that may be absent. Callers must go through
// Get, so the missing case is handled at every use site.
type Option[T any] struct {
	value  T
	ok     bool
	reason string
}

// Some returns a present result.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent result with a human readable reason.
func None[T any](reason string) Option[T] {
	return Option[T]{reason: reason}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Found reports whether the value is present.
func (o Option[T]) Found() bool {
	return o.ok
}

// Reason explains an absent value. It is empty for present values.
func (o Option[T]) Reason() string {
	return o.reason
}
