package arango

import "context"

// Logger defines the logging the client needs. *logger.LoggerClient from this
// module satisfies it; any implementation with these methods works.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// DocumentStore is the CRUD surface of a single collection.
// It is implemented by *Collection.
type DocumentStore interface {
	// Name returns the collection name.
	Name() string

	// Find returns a cursor over the documents matching c, skipping skip and
	// returning at most limit documents. limit 0 means no limit.
	Find(ctx context.Context, c *Constraint, limit, skip int64) (*Cursor, error)

	// FindOne returns the first document matching c, or nil when none matches.
	FindOne(ctx context.Context, c *Constraint) (*Document, error)

	// Get returns the document with the given key, or nil when it does not exist.
	Get(ctx context.Context, key string) (*Document, error)

	// Insert stores data as a new document and returns it with its system fields.
	Insert(ctx context.Context, data *Record) (*Document, error)

	// Update merges data into the document with the given key and returns the result.
	Update(ctx context.Context, key string, data *Record) (*Document, error)

	// Upsert updates the document whose matchField equals data[matchField],
	// inserting data when there is none.
	Upsert(ctx context.Context, matchField string, data *Record) (*Document, error)

	// Delete removes the document with the given key and returns the number
	// of removed documents: 0 or 1.
	Delete(ctx context.Context, key string) (int64, error)

	// DeleteWhere removes every document matching c and returns how many were removed.
	DeleteWhere(ctx context.Context, c *Constraint) (int64, error)

	// Count returns the number of documents matching c. A nil or empty
	// constraint counts the whole collection.
	Count(ctx context.Context, c *Constraint) (int64, error)

	// EnsureExists creates the collection when missing and reports whether it did.
	EnsureExists(ctx context.Context) (bool, error)
}
