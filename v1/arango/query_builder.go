package arango

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Operation selects the query shape produced by Build.
type Operation int

const (
	OpFind Operation = iota
	OpInsert
	OpUpdate
	OpDelete
	OpCount
)

func (o Operation) String() string {
	switch o {
	case OpFind:
		return "find"
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpCount:
		return "count"
	}
	return "operation(" + strconv.Itoa(int(o)) + ")"
}

// Bind parameter names used by the builder itself. Field bindings that derive
// one of these names are rejected.
const (
	collectionBinding  = "@collection"
	pageSkipBinding    = "pageSkip"
	pageLimitBinding   = "pageLimit"
	docKeyBinding      = "docKey"
	upsertMatchBinding = "upsertMatch"
)

// maxPageSize is bound as the limit when only a skip is requested, since AQL
// has no offset without a count.
const maxPageSize int64 = 1<<53 - 1

var reservedBindings = map[string]bool{
	pageSkipBinding:    true,
	pageLimitBinding:   true,
	docKeyBinding:      true,
	upsertMatchBinding: true,
}

// Options tune the query produced by Build.
type Options struct {
	// Limit caps the number of documents returned by a find. 0 means no limit.
	Limit int64
	// Skip drops the first Skip matching documents of a find.
	Skip int64
	// UpsertKey turns an update into an upsert matching on this field of the data.
	UpsertKey string
	// Key addresses a single document for update and delete. For updates it
	// defaults to the _key field of the data.
	Key string
	// BatchSize is passed through to the server; 0 keeps the server default.
	BatchSize int
	// Count asks the server for the total result count.
	Count bool
}

// CompiledQuery is an AQL query with its bind parameters. Every placeholder in
// Text has exactly one entry in Bindings.
type CompiledQuery struct {
	Text      string
	Bindings  map[string]any
	BatchSize int
	Count     bool
}

// Build composes the AQL query for op against collection. Values are always
// bound as parameters and the collection is bound as @@collection, so nothing
// caller-supplied is interpolated into the query text.
//
// Validation failures are returned as *CompilationError before any I/O.
//
// Shapes:
//
//	find:    FOR doc IN @@collection [FILTER ...] [LIMIT @pageSkip, @pageLimit] RETURN doc
//	insert:  INSERT { "f": @f, ... } INTO @@collection RETURN NEW
//	update:  UPDATE @docKey WITH { ... } IN @@collection RETURN NEW
//	upsert:  UPSERT { "k": @upsertMatch } INSERT { ... } UPDATE { ... } IN @@collection RETURN NEW
//	delete:  REMOVE @docKey IN @@collection OPTIONS { ignoreErrors: true } RETURN OLD
//	         LET removed = (FOR doc IN @@collection FILTER ... REMOVE doc IN @@collection RETURN 1) RETURN LENGTH(removed)
//	count:   RETURN LENGTH(@@collection)
//	         FOR doc IN @@collection FILTER ... COLLECT WITH COUNT INTO total RETURN total
func Build(op Operation, collection string, data *Record, c *Constraint, opts Options) (CompiledQuery, error) {
	if collection == "" {
		return CompiledQuery{}, compileErr(op.String(), "", ErrMissingCollection)
	}

	var (
		q   CompiledQuery
		err error
	)
	switch op {
	case OpFind:
		q, err = buildFind(collection, c, opts)
	case OpInsert:
		q, err = buildInsert(collection, data)
	case OpUpdate:
		if opts.UpsertKey != "" {
			q, err = buildUpsert(collection, data, opts.UpsertKey)
		} else {
			q, err = buildUpdate(collection, data, opts.Key)
		}
	case OpDelete:
		q, err = buildDelete(collection, c, opts.Key)
	case OpCount:
		q, err = buildCount(collection, c)
	default:
		return CompiledQuery{}, compileErr(op.String(), "", ErrUnknownOperation)
	}
	if err != nil {
		return CompiledQuery{}, err
	}

	q.BatchSize = opts.BatchSize
	q.Count = opts.Count
	return q, nil
}

func newQuery(collection string) CompiledQuery {
	return CompiledQuery{Bindings: map[string]any{collectionBinding: collection}}
}

func buildFind(collection string, c *Constraint, opts Options) (CompiledQuery, error) {
	if opts.Limit < 0 || opts.Skip < 0 {
		return CompiledQuery{}, compileErr("find", "", ErrInvalidPagination)
	}
	frag, err := compileConstraint("find", c, reservedBindings, false)
	if err != nil {
		return CompiledQuery{}, err
	}

	q := newQuery(collection)
	parts := []string{"FOR " + docVar + " IN @@collection"}
	if frag.FilterClause != "" {
		parts = append(parts, frag.FilterClause)
		mergeBindings(q.Bindings, frag.Bindings)
	}
	if opts.Limit > 0 || opts.Skip > 0 {
		limit := opts.Limit
		if limit == 0 {
			limit = maxPageSize
		}
		parts = append(parts, "LIMIT @"+pageSkipBinding+", @"+pageLimitBinding)
		q.Bindings[pageSkipBinding] = opts.Skip
		q.Bindings[pageLimitBinding] = limit
	}
	parts = append(parts, "RETURN "+docVar)

	q.Text = strings.Join(parts, " ")
	return q, nil
}

func buildInsert(collection string, data *Record) (CompiledQuery, error) {
	q := newQuery(collection)
	literal, err := objectLiteral("insert", data, q, map[string]string{}, FieldID, FieldRev)
	if err != nil {
		return CompiledQuery{}, err
	}
	q.Text = "INSERT " + literal + " INTO @@collection RETURN NEW"
	return q, nil
}

func buildUpdate(collection string, data *Record, key string) (CompiledQuery, error) {
	if key == "" {
		key = stringField(data, FieldKey)
	} else if v, ok := data.Get(FieldKey); ok && v != key {
		// A document key cannot be changed by an update.
		return CompiledQuery{}, compileErr("update", FieldKey, ErrReservedField)
	}
	if key == "" {
		return CompiledQuery{}, compileErr("update", FieldKey, ErrMissingKey)
	}

	q := newQuery(collection)
	q.Bindings[docKeyBinding] = key
	literal, err := objectLiteral("update", data, q, map[string]string{}, FieldKey, FieldID, FieldRev)
	if err != nil {
		return CompiledQuery{}, err
	}
	q.Text = "UPDATE @" + docKeyBinding + " WITH " + literal + " IN @@collection RETURN NEW"
	return q, nil
}

func buildUpsert(collection string, data *Record, upsertKey string) (CompiledQuery, error) {
	match, ok := data.Get(upsertKey)
	if !ok || match == nil {
		return CompiledQuery{}, compileErr("upsert", upsertKey, ErrMissingKey)
	}

	q := newQuery(collection)
	q.Bindings[upsertMatchBinding] = match

	owners := map[string]string{}
	insertLit, err := objectLiteral("upsert", data, q, owners, FieldID, FieldRev)
	if err != nil {
		return CompiledQuery{}, err
	}
	updateLit, err := objectLiteral("upsert", data, q, owners, FieldKey, FieldID, FieldRev)
	if err != nil {
		return CompiledQuery{}, err
	}

	q.Text = fmt.Sprintf("UPSERT { %s: @%s } INSERT %s UPDATE %s IN @@collection RETURN NEW",
		quoteAttribute(upsertKey), upsertMatchBinding, insertLit, updateLit)
	return q, nil
}

func buildDelete(collection string, c *Constraint, key string) (CompiledQuery, error) {
	q := newQuery(collection)

	if key != "" {
		q.Bindings[docKeyBinding] = key
		q.Text = "REMOVE @" + docKeyBinding + " IN @@collection OPTIONS { ignoreErrors: true } RETURN OLD"
		return q, nil
	}

	if c.IsEmpty() {
		return CompiledQuery{}, compileErr("delete", "", ErrUnboundedDelete)
	}
	frag, err := compileConstraint("delete", c, reservedBindings, true)
	if err != nil {
		return CompiledQuery{}, err
	}
	mergeBindings(q.Bindings, frag.Bindings)
	q.Text = "LET removed = (FOR " + docVar + " IN @@collection " + frag.FilterClause +
		" REMOVE " + docVar + " IN @@collection RETURN 1) RETURN LENGTH(removed)"
	return q, nil
}

func buildCount(collection string, c *Constraint) (CompiledQuery, error) {
	q := newQuery(collection)
	if c.IsEmpty() {
		q.Text = "RETURN LENGTH(@@collection)"
		return q, nil
	}

	frag, err := compileConstraint("count", c, reservedBindings, false)
	if err != nil {
		return CompiledQuery{}, err
	}
	mergeBindings(q.Bindings, frag.Bindings)
	q.Text = "FOR " + docVar + " IN @@collection " + frag.FilterClause + " COLLECT WITH COUNT INTO total RETURN total"
	return q, nil
}

// objectLiteral renders data as an AQL object literal with one bind parameter
// per field, registering the values in q.Bindings. Fields listed in skip are
// left out. owners maps binding names to the field that produced them, so the
// same field rendered twice in one query shares its binding while two fields
// deriving the same name collide.
func objectLiteral(op string, data *Record, q CompiledQuery, owners map[string]string, skip ...string) (string, error) {
	var parts []string
	for _, field := range data.Keys() {
		if slices.Contains(skip, field) {
			continue
		}
		if field == "" {
			return "", compileErr(op, field, ErrInvalidFieldPath)
		}
		name := bindingName(field)
		if reservedBindings[name] {
			return "", compileErr(op, field, ErrBindingCollision)
		}
		if owner, ok := owners[name]; ok && owner != field {
			return "", compileErr(op, field, ErrBindingCollision)
		}
		owners[name] = field
		q.Bindings[name], _ = data.Get(field)
		parts = append(parts, quoteAttribute(field)+": @"+name)
	}
	if len(parts) == 0 {
		return "{}", nil
	}
	return "{ " + strings.Join(parts, ", ") + " }", nil
}

func quoteAttribute(name string) string {
	b, _ := json.Marshal(name)
	return string(b)
}

func mergeBindings(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

func stringField(r *Record, field string) string {
	v, ok := r.Get(field)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
