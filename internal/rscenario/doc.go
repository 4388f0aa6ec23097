// Package rscenario describes publish/subscribe scenarios in YAML
// and replays them against a [ripple.Registry],
// recording what every subscriber observed.
package rscenario
