package arango

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories. Every error returned by this package matches one of these
// with errors.Is, or is a context error passed through unchanged.
var (
	// ErrCompilation marks local validation failures detected while building a
	// query. They happen before any network call and are never retried.
	ErrCompilation = errors.New("arango: compilation failed")

	// ErrTransport marks failures reported by the transport: network errors,
	// authentication failures and errors returned by the server.
	ErrTransport = errors.New("arango: transport failed")

	// ErrNotFound is matched by transport errors for a missing document (errorNum 1202).
	ErrNotFound = errors.New("arango: document not found")

	// ErrCollectionNotFound is matched by transport errors for an unknown collection (errorNum 1203).
	ErrCollectionNotFound = errors.New("arango: collection or view not found")

	// ErrUnauthorized is matched by transport errors with HTTP status 401.
	ErrUnauthorized = errors.New("arango: unauthorized")

	// ErrDisposal marks a failed explicit release of a server-side cursor.
	ErrDisposal = errors.New("arango: cursor disposal failed")
)

// Compilation causes, wrapped by *CompilationError.
var (
	ErrInvalidFieldPath  = errors.New("invalid field path")
	ErrBindingCollision  = errors.New("binding name collision")
	ErrMissingKey        = errors.New("document key is required")
	ErrMissingCollection = errors.New("collection name is required")
	ErrMissingDatabase   = errors.New("database name is required")
	ErrEmptyQuery        = errors.New("query text is required")
	ErrReservedField     = errors.New("system field not allowed here")
	ErrUnboundedDelete   = errors.New("delete requires a key or a non-empty constraint")
	ErrUnknownOperation  = errors.New("unknown operation")
	ErrInvalidPagination = errors.New("limit and skip must not be negative")
)

// Cursor and record errors.
var (
	// ErrNoMoreDocuments is returned by Cursor.Next once every record was read.
	ErrNoMoreDocuments = errors.New("arango: no more documents")

	// ErrCursorDisposed is returned by Cursor.Next and Cursor.FetchAll after disposal.
	ErrCursorDisposed = errors.New("arango: cursor disposed")

	// ErrInvalidDocument is returned when a result record is not a JSON object
	// or its _id does not end in its _key.
	ErrInvalidDocument = errors.New("arango: invalid document")

	// ErrFieldMissing is returned by the typed Record accessors for absent fields.
	ErrFieldMissing = errors.New("arango: field missing")

	// ErrClientClosed is returned by Client operations after Close.
	ErrClientClosed = errors.New("arango: client is closed")

	// ErrProvisioningUnsupported is returned when the transport cannot create
	// collections or databases.
	ErrProvisioningUnsupported = errors.New("arango: transport does not support provisioning")
)

// ArangoDB error numbers the package gives meaning to.
const (
	ErrorNumDocumentNotFound   = 1202
	ErrorNumCollectionNotFound = 1203
	ErrorNumDuplicateName      = 1207
	ErrorNumCursorNotFound     = 1600
)

// CompilationError reports a query that could not be built.
type CompilationError struct {
	// Op is the operation being built, e.g. "update".
	Op string
	// Field is the offending field path, if any.
	Field string
	// Err is one of the compilation causes (ErrInvalidFieldPath, ...).
	Err error
}

func (e *CompilationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("arango: compile %s: field %q: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("arango: compile %s: %v", e.Op, e.Err)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// Is makes every CompilationError match ErrCompilation.
func (e *CompilationError) Is(target error) bool { return target == ErrCompilation }

// TransportError carries the failure reported by a Transport. StatusCode and
// ErrorNum are zero when the request never got a response.
type TransportError struct {
	StatusCode int
	ErrorNum   int
	Message    string
	// Err is the underlying cause, e.g. a network error.
	Err error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("arango: transport: %v", e.Err)
	case e.ErrorNum != 0:
		return fmt.Sprintf("arango: transport: status %d, errorNum %d: %s", e.StatusCode, e.ErrorNum, e.Message)
	default:
		return fmt.Sprintf("arango: transport: status %d: %s", e.StatusCode, e.Message)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is matches ErrTransport and, depending on the server's answer, ErrNotFound,
// ErrCollectionNotFound or ErrUnauthorized.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrNotFound:
		return e.ErrorNum == ErrorNumDocumentNotFound
	case ErrCollectionNotFound:
		return e.ErrorNum == ErrorNumCollectionNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// DisposalError reports a failed explicit cursor release.
type DisposalError struct {
	Handle string
	Err    error
}

func (e *DisposalError) Error() string {
	return fmt.Sprintf("arango: dispose cursor %s: %v", e.Handle, e.Err)
}

func (e *DisposalError) Unwrap() error { return e.Err }

// Is makes every DisposalError match ErrDisposal.
func (e *DisposalError) Is(target error) bool { return target == ErrDisposal }

// FieldTypeError is returned by the typed Record accessors when a field holds a
// value of another type. Values are never coerced.
type FieldTypeError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("arango: field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

func compileErr(op, field string, cause error) error {
	return &CompilationError{Op: op, Field: field, Err: cause}
}

// IsCompilationError reports whether err is a local query build failure.
func IsCompilationError(err error) bool {
	return errors.Is(err, ErrCompilation)
}

// IsTransportError reports whether err came from the transport.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsNotFoundError reports whether err is a "document not found" transport error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsCollectionNotFoundError reports whether err names an unknown collection.
func IsCollectionNotFoundError(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}

// IsUnauthorizedError reports whether the server rejected the credentials.
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsDisposalError reports whether err is a failed explicit cursor release.
func IsDisposalError(err error) bool {
	return errors.Is(err, ErrDisposal)
}

// IsFieldTypeError reports whether err is a typed accessor mismatch.
func IsFieldTypeError(err error) bool {
	var fte *FieldTypeError
	return errors.As(err, &fte)
}
