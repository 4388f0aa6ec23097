package rscenario

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the nesting limit used when a scenario does not set one.
const DefaultMaxDepth = 64

// Scenario is a parsed scenario file.
type Scenario struct {
	// Seed is the initial stored value; nil for an unseeded registry.
	Seed *int `yaml:"seed"`

	Subscribers []Subscriber `yaml:"subscribers"`

	// Publish is the sequence of top-level publishes.
	Publish []int `yaml:"publish"`

	// MaxDepth bounds nested publishes,
	// so that a rule republishing its own trigger fails instead of recursing forever.
	MaxDepth int `yaml:"max_depth"`
}

// Subscriber describes one subscription, in subscription order.
type Subscriber struct {
	Name string `yaml:"name"`

	// Republish rules run after the observation is recorded.
	Republish []Rule `yaml:"republish"`

	// If positive, the subscriber unsubscribes itself
	// after this many notifications.
	UnsubscribeAfter int `yaml:"unsubscribe_after"`
}

// Rule publishes Publish from inside the handler when the current value equals On.
type Rule struct {
	On      int `yaml:"on"`
	Publish int `yaml:"publish"`
}

// ValidationError is returned from [Parse]
// when a decoded scenario is not well formed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return "invalid scenario field " + e.Field + ": " + e.Reason
}

// Parse decodes and validates a YAML scenario.
// Unknown fields are rejected.
func Parse(b []byte) (Scenario, error) {
	var s Scenario

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("failed to decode scenario: %w", err)
	}

	if err := s.validate(); err != nil {
		return Scenario{}, err
	}

	if s.MaxDepth == 0 {
		s.MaxDepth = DefaultMaxDepth
	}

	return s, nil
}

func (s Scenario) validate() error {
	if s.MaxDepth < 0 {
		return ValidationError{
			Field:  "max_depth",
			Reason: fmt.Sprintf("must not be negative (got %d)", s.MaxDepth),
		}
	}

	seen := make(map[string]struct{}, len(s.Subscribers))
	for i, sub := range s.Subscribers {
		field := fmt.Sprintf("subscribers[%d]", i)

		if sub.Name == "" {
			return ValidationError{Field: field + ".name", Reason: "must not be empty"}
		}
		if _, ok := seen[sub.Name]; ok {
			return ValidationError{
				Field:  field + ".name",
				Reason: fmt.Sprintf("duplicate subscriber name %q", sub.Name),
			}
		}
		seen[sub.Name] = struct{}{}

		if sub.UnsubscribeAfter < 0 {
			return ValidationError{
				Field:  field + ".unsubscribe_after",
				Reason: fmt.Sprintf("must not be negative (got %d)", sub.UnsubscribeAfter),
			}
		}
	}

	return nil
}
