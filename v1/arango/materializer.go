package arango

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// System fields carried by every stored document.
const (
	FieldID  = "_id"
	FieldKey = "_key"
	FieldRev = "_rev"
)

// Document is a record read from the store with its system fields lifted out.
// ID, Key and Rev are empty for records that were never persisted.
type Document struct {
	// ID is the globally unique "<collection>/<key>" identifier.
	ID string
	// Key is unique within the collection.
	Key string
	// Rev changes on every write.
	Rev string
	// Fields holds every other field in server order.
	Fields *Record
}

// Record rebuilds the full record, system fields first.
func (d *Document) Record() *Record {
	r := NewRecord()
	if d == nil {
		return r
	}
	if d.ID != "" {
		r.Set(FieldID, d.ID)
	}
	if d.Key != "" {
		r.Set(FieldKey, d.Key)
	}
	if d.Rev != "" {
		r.Set(FieldRev, d.Rev)
	}
	for _, k := range d.Fields.Keys() {
		v, _ := d.Fields.Get(k)
		r.Set(k, cloneValue(v))
	}
	return r
}

// Collection returns the collection part of ID, or "" when ID is unset.
func (d *Document) Collection() string {
	if d == nil {
		return ""
	}
	name, _, ok := strings.Cut(d.ID, "/")
	if !ok {
		return ""
	}
	return name
}

// MarshalJSON encodes the document in its wire form.
func (d *Document) MarshalJSON() ([]byte, error) {
	return d.Record().MarshalJSON()
}

// Materialize converts one raw result record into a Document. raw is not
// modified. Non-object payloads and an _id whose suffix differs from _key
// fail with ErrInvalidDocument.
func Materialize(raw json.RawMessage) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: result is not a JSON object", ErrInvalidDocument)
	}
	rec, err := ParseRecord(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return fromRecord(rec)
}

// MaterializeMap is Materialize for an already decoded object. m is not modified.
func MaterializeMap(m map[string]any) (*Document, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil record", ErrInvalidDocument)
	}
	return fromRecord(RecordFromMap(m))
}

// fromRecord takes ownership of rec.
func fromRecord(rec *Record) (*Document, error) {
	doc := &Document{}
	var err error
	if doc.ID, err = systemField(rec, FieldID); err != nil {
		return nil, err
	}
	if doc.Key, err = systemField(rec, FieldKey); err != nil {
		return nil, err
	}
	if doc.Rev, err = systemField(rec, FieldRev); err != nil {
		return nil, err
	}

	if doc.ID != "" && doc.Key != "" {
		_, suffix, ok := strings.Cut(doc.ID, "/")
		if !ok || suffix != doc.Key {
			return nil, fmt.Errorf("%w: _id %q does not match _key %q", ErrInvalidDocument, doc.ID, doc.Key)
		}
	}

	rec.Delete(FieldID)
	rec.Delete(FieldKey)
	rec.Delete(FieldRev)
	doc.Fields = rec
	return doc, nil
}

func systemField(rec *Record, field string) (string, error) {
	v, ok := rec.Get(field)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %s", ErrInvalidDocument, field, typeName(v))
	}
	return s, nil
}
