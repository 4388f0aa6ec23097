package rscenario

import (
	"fmt"
	"log/slog"

	"github.com/fogfish/opts"
	"github.com/gordian-engine/ripple"
)

// Observation is one notification received by a subscriber.
type Observation struct {
	Current  int `json:"current"`
	Previous int `json:"previous"`
}

// Trace is the result of [Run].
type Trace struct {
	// Observed maps subscriber names to their notifications, in order.
	Observed map[string][]Observation `json:"observed"`

	// Final is the registry's stored value after the last publish,
	// or nil if nothing was ever stored.
	Final *int `json:"final"`
}

// DepthExceededError is returned from [Run]
// when nested publishes go deeper than the scenario's MaxDepth.
type DepthExceededError struct {
	Subscriber string
	MaxDepth   int
}

func (e DepthExceededError) Error() string {
	return fmt.Sprintf(
		"subscriber %q exceeded maximum publish depth %d", e.Subscriber, e.MaxDepth,
	)
}

// Run replays s against a new registry.
func Run(log *slog.Logger, s Scenario) (tr Trace, err error) {
	options := []opts.Option[ripple.Config[int]]{ripple.WithLogger[int](log)}
	if s.Seed != nil {
		options = append(options, ripple.WithSeed(*s.Seed))
	}
	reg := ripple.New(options...)

	maxDepth := s.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}

	tr.Observed = make(map[string][]Observation, len(s.Subscribers))

	depth := 0
	for _, sub := range s.Subscribers {
		tr.Observed[sub.Name] = []Observation{}

		var token *ripple.Subscription
		token = reg.Subscribe(func(cur, prev int) {
			obs := append(tr.Observed[sub.Name], Observation{Current: cur, Previous: prev})
			tr.Observed[sub.Name] = obs

			if sub.UnsubscribeAfter > 0 && len(obs) >= sub.UnsubscribeAfter {
				log.Debug("Subscriber unsubscribing", "subscriber", sub.Name, "after", len(obs))
				token.Unsubscribe()
			}

			for _, r := range sub.Republish {
				if r.On != cur {
					continue
				}

				if depth >= maxDepth {
					panic(DepthExceededError{Subscriber: sub.Name, MaxDepth: maxDepth})
				}

				log.Debug(
					"Subscriber republishing",
					"subscriber", sub.Name, "on", cur, "publish", r.Publish,
				)
				depth++
				reg.Publish(r.Publish)
				depth--

				// A single notification republishes at most once;
				// the nested publish already superseded cur.
				break
			}
		})
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		de, ok := r.(DepthExceededError)
		if !ok {
			panic(r)
		}
		err = de
	}()

	for _, v := range s.Publish {
		reg.Publish(v)
	}

	if v, ok := reg.Load(); ok {
		tr.Final = &v
	}

	return tr, nil
}
