// Package ripple contains a synchronous, single-goroutine publish-subscribe primitive
// intended as the building block for reactive state containers.
//
// A [Registry] stores the most recently published value
// and calls every subscriber, in subscription order,
// with the new value and the value it replaced.
// Subscribing appends to a doubly linked list;
// the returned [Subscription] removes its entry in constant time
// and may be used any number of times.
//
// Subscribers may publish from within their handler.
// When that happens, the nested publish notifies every subscriber of the newer value,
// and the interrupted outer publish stops without notifying the subscribers it had not yet reached.
// Given subscribers A, B, and C, where B publishes 5 upon receiving 2,
// the sequence Publish(1), Publish(2), Publish(3) is observed as:
//
//	A: 1, 2, 5, 3
//	B: 1, 2, 5, 3
//	C: 1, 5, 3
//
// Subpackages build on the Registry:
// [github.com/gordian-engine/ripple/rdraft] publishes by mutating a copy of the stored value,
// [github.com/gordian-engine/ripple/rderive] maintains a value computed from other registries,
// [github.com/gordian-engine/ripple/rbind] ties a subscription to a mount/dispose lifecycle,
// and [github.com/gordian-engine/ripple/rcatalog] looks up registries by name.
package ripple
