package arango

import (
	"context"
	"net/http"
)

type createRequest struct {
	Name string `json:"name"`
}

type provisionResult struct {
	created bool
	owner   *int
}

// EnsureCollection creates the document collection name in the configured
// database. It reports true only to the caller whose request created it;
// concurrent calls for the same name share one request.
func (h *HTTPTransport) EnsureCollection(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, compileErr("ensure collection", "", ErrMissingCollection)
	}
	return h.ensure(ctx, "collection", name, request{
		method:     http.MethodPost,
		route:      "/_api/collection",
		path:       h.dbPath("/_api/collection"),
		body:       createRequest{Name: name},
		idempotent: true,
		accept:     []int{http.StatusConflict},
	})
}

// EnsureDatabase creates the database name through the _system database.
// Like EnsureCollection, it reports true only to the creating caller.
func (h *HTTPTransport) EnsureDatabase(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, compileErr("ensure database", "", ErrMissingDatabase)
	}
	return h.ensure(ctx, "database", name, request{
		method:     http.MethodPost,
		route:      "/_api/database",
		path:       "/_db/_system/_api/database",
		body:       createRequest{Name: name},
		idempotent: true,
		accept:     []int{http.StatusConflict},
	})
}

// ensure runs req once per kind and name among concurrent callers. The shared
// request is detached from the cancellation of whichever caller started it and
// bounded by the configured timeout instead; each caller still stops waiting
// when its own ctx is done.
func (h *HTTPTransport) ensure(ctx context.Context, kind, name string, req request) (bool, error) {
	me := new(int)
	ch := h.provisioning.DoChan(kind+":"+name, func() (interface{}, error) {
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.Timeout)
		defer cancel()

		status, err := h.do(reqCtx, req)
		if err != nil {
			return nil, err
		}
		created := status != http.StatusConflict
		if created && h.logger != nil {
			h.logger.Info("arango: created "+kind, nil, map[string]interface{}{
				kind: name,
			})
		}
		return provisionResult{created: created, owner: me}, nil
	})

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return false, r.Err
		}
		res := r.Val.(provisionResult)
		return res.created && res.owner == me, nil
	}
}
