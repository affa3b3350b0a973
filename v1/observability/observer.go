// Package observability defines the hook through which the clients in this module report
// the operations they perform.
//
// Clients accept an optional Observer and call it once per completed operation.
// The observer decides what to do with the event: record Prometheus metrics,
// emit trace events, or collect them in tests. A nil Observer is always allowed
// and simply disables reporting.
//
// Example:
//
//	client := arango.NewClient(cfg, transport).WithObserver(metrics.NewOperationObserver(m))
package observability

import "time"

// Observer receives a notification for every operation a client completes.
//
// Implementations must be safe for concurrent use and must not block: they are
// called inline on the caller's goroutine after the operation finished.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component identifies the reporting client, e.g. "arango".
	Component string

	// Operation is the logical operation name, e.g. "find" or "insert".
	Operation string

	// Resource is the primary resource operated on, e.g. a collection name.
	Resource string

	// SubResource carries secondary context such as a document key or cursor handle.
	SubResource string

	// Duration is the wall-clock time the operation took.
	Duration time.Duration

	// Error is the error the operation returned, or nil on success.
	Error error

	// Size is an operation-specific magnitude: records returned, records removed, ...
	Size int64

	// Metadata holds optional extra attributes.
	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

// Multi fans a single event out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	return ObserverFunc(func(ctx OperationContext) {
		for _, o := range observers {
			if o != nil {
				o.ObserveOperation(ctx)
			}
		}
	})
}
