package arango

import (
	"time"

	"github.com/Aleph-Alpha/docstore/v1/observability"
)

const component = "arango"

// observeOperation notifies obs about a completed operation if an observer is configured.
//
// Notes:
//   - resource: the collection operated on, empty for raw queries
//   - subResource: a document key or cursor handle
func observeOperation(obs observability.Observer, operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if obs == nil {
		return
	}

	obs.ObserveOperation(observability.OperationContext{
		Component:   component,
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
