// Package arango is a client access layer for ArangoDB's HTTP query API.
//
// It turns query-by-example constraints and CRUD intents into parameterized
// AQL, runs them through a Transport and hands results back either fully
// materialized or through a Cursor that fetches batches on demand and
// releases the server-side cursor deterministically.
//
// # Architecture
//
//   - Record: ordered field map with typed accessors
//   - Constraint and Compile: equality filters compiled to a FILTER clause
//     with bind parameters
//   - Build: full AQL text for find, insert, update/upsert, delete and count
//   - Transport: executes queries and manages cursor handles;
//     HTTPTransport implements it over HTTP together with Provisioner
//   - Materialize: raw JSON records to Documents with ID, Key and Rev lifted out
//   - Cursor: batch iteration state machine (fresh, active, exhausted, disposed)
//   - Collection: the CRUD façade; Client hands collections out
//
// Values never end up in query text. Every value is a bind parameter and the
// collection is bound as @@collection:
//
//	q, _ := arango.Build(arango.OpFind, "users", nil,
//	    arango.Where("address.city", "Berlin").And("deleted", nil),
//	    arango.Options{Limit: 10})
//	// q.Text:     FOR doc IN @@collection FILTER doc.address.city == @address_city AND doc.deleted == null LIMIT @pageSkip, @pageLimit RETURN doc
//	// q.Bindings: {"@collection": "users", "address_city": "Berlin", "pageSkip": 0, "pageLimit": 10}
//
// Two field paths deriving the same bind name ("a.b" and "a_b") are rejected
// with a *CompilationError wrapping ErrBindingCollision.
//
// # Direct Usage
//
//	cfg := arango.DefaultConfig().
//	    WithEndpoint("http://localhost:8529").
//	    WithDatabase("shop").
//	    WithCredentials("root", "secret")
//
//	transport, err := arango.NewHTTPTransport(cfg)
//	if err != nil {
//	    return err
//	}
//	client := arango.NewClient(cfg, transport)
//	defer client.Close()
//
//	users := client.Collection("users")
//	doc, err := users.Insert(ctx, arango.NewRecord().Set("name", "A"))
//	if err != nil {
//	    return err
//	}
//	doc, err = users.Update(ctx, doc.Key, arango.NewRecord().Set("name", "B"))
//
// # Cursors
//
// A Cursor owns a server-side handle while more batches are pending. Dispose
// it when done; Close does the same with a bounded background context:
//
//	cur, err := users.Find(ctx, arango.Where("active", true), 0, 0)
//	if err != nil {
//	    return err
//	}
//	defer cur.Close()
//
//	for doc, err := range cur.All(ctx) {
//	    if err != nil {
//	        return err
//	    }
//	    name, err := doc.Fields.String("name")
//	    ...
//	}
//
// A failed batch fetch is returned to the caller and leaves the cursor
// untouched, so Next can be retried. Cursors that are garbage collected
// without being disposed release their handle in the background; failures of
// that release are only logged.
//
// # Error Handling
//
// Errors are typed and can be classified with errors.Is / errors.As:
//
//   - *CompilationError (ErrCompilation): local validation, before any I/O
//   - *TransportError (ErrTransport): network, auth and server errors, with the
//     server's errorNum preserved; ErrNotFound, ErrCollectionNotFound and
//     ErrUnauthorized match the relevant subsets
//   - *DisposalError (ErrDisposal): explicit cursor release failures
//   - *FieldTypeError: typed Record accessor mismatches
//
// FindOne, Get and Delete treat a missing document as an empty result.
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    arango.FXModule,
//	    fx.Provide(func() arango.Config {
//	        return arango.DefaultConfig().WithDatabase("shop")
//	    }),
//	    fx.Invoke(func(c *arango.Client) {
//	        users := c.Collection("users")
//	        _ = users
//	    }),
//	)
//
// # Configuration
//
//	ARANGO_ENDPOINT=http://localhost:8529
//	ARANGO_DATABASE=shop
//	ARANGO_USERNAME=root
//	ARANGO_PASSWORD=secret
//	ARANGO_TOKEN=                 # JWT, takes precedence over basic auth
//	ARANGO_BATCH_SIZE=1000
//	ARANGO_MAX_RETRIES=3          # idempotent requests only
//	ARANGO_AUTO_PROVISION=true
//
// # Thread Safety
//
// Client, Collection and HTTPTransport are safe for concurrent use. Cursor
// methods are serialized by an internal mutex.
package arango
