// Package rderive maintains a [ripple.Registry] whose value
// is recomputed whenever any of its source registries publishes.
package rderive
