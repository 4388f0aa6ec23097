// Package rdraft wraps a [ripple.Registry] so that callers publish
// by mutating a draft copy of the stored value
// instead of building the replacement value themselves.
//
// The stored value is never mutated in place,
// so subscribers can compare the current value against the previous one.
package rdraft
