// Package rbind ties registry subscriptions to a mount/dispose lifecycle.
//
// A [Scope] stands in for a mounted component.
// [Use] subscribes once when called and unsubscribes when the scope is disposed,
// keeping a render state that follows the registry:
//
//	s := rbind.NewScope()
//	counter := rbind.Use(s, reg, func(n int) {
//	    redraw(n)
//	})
//	// counter.State() is the latest value seen by this scope.
//	s.Dispose() // No further redraws.
package rbind
