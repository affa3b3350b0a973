package arango

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Record is an ordered mapping from field name to value. Values are nil, bool,
// numbers (json.Number after decoding), string, *Record or []any.
//
// Field order is kept on Set and through JSON encoding and decoding. Nested
// map[string]any values are converted to *Record with sorted keys.
//
// The zero value is an empty record ready to use. A Record is not safe for
// concurrent mutation.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// RecordFromMap builds a record from m with keys in sorted order, since Go maps
// carry no order of their own.
func RecordFromMap(m map[string]any) *Record {
	r := NewRecord()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Set(k, m[k])
	}
	return r
}

// ParseRecord decodes a JSON object into a record.
func ParseRecord(data []byte) (*Record, error) {
	r := NewRecord()
	if err := r.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return r, nil
}

// Set stores value under field. An existing field keeps its position.
// It returns r so calls can be chained.
func (r *Record) Set(field string, value any) *Record {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = normalizeValue(value)
	return r
}

// Get returns the value stored under field.
func (r *Record) Get(field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[field]
	return v, ok
}

// Has reports whether field is present, even with a nil value.
func (r *Record) Has(field string) bool {
	_, ok := r.Get(field)
	return ok
}

// Delete removes field and reports whether it was present.
func (r *Record) Delete(field string) bool {
	if r == nil {
		return false
	}
	if _, ok := r.values[field]; !ok {
		return false
	}
	delete(r.values, field)
	for i, k := range r.keys {
		if k == field {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the field names in order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Map returns a deep copy as plain Go maps and slices.
func (r *Record) Map() map[string]any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, len(r.keys))
	for _, k := range r.keys {
		out[k] = plainValue(r.values[k])
	}
	return out
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.keys)),
	}
	copy(out.keys, r.keys)
	for _, k := range r.keys {
		out.values[k] = cloneValue(r.values[k])
	}
	return out
}

// Lookup resolves a dot-separated path through nested records.
func (r *Record) Lookup(path string) (any, bool) {
	cur := r
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		v, ok := cur.Get(seg)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		next, ok := v.(*Record)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// String returns the string at path.
func (r *Record) String(path string) (string, error) {
	v, err := r.lookupRequired(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &FieldTypeError{Field: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// Int64 returns the integer at path. Fractional numbers are a type error.
func (r *Record) Int64(path string) (int64, error) {
	v, err := r.lookupRequired(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		i, perr := n.Int64()
		if perr != nil {
			return 0, &FieldTypeError{Field: path, Expected: "integer", Actual: "number"}
		}
		return i, nil
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, &FieldTypeError{Field: path, Expected: "integer", Actual: "number out of int64 range"}
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, &FieldTypeError{Field: path, Expected: "integer", Actual: "number out of int64 range"}
		}
		return int64(n), nil
	}
	return 0, &FieldTypeError{Field: path, Expected: "integer", Actual: typeName(v)}
}

// Float64 returns the number at path.
func (r *Record) Float64(path string) (float64, error) {
	v, err := r.lookupRequired(path)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		f, perr := n.Float64()
		if perr != nil {
			return 0, &FieldTypeError{Field: path, Expected: "number", Actual: "string"}
		}
		return f, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, &FieldTypeError{Field: path, Expected: "number", Actual: typeName(v)}
}

// Bool returns the boolean at path.
func (r *Record) Bool(path string) (bool, error) {
	v, err := r.lookupRequired(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &FieldTypeError{Field: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// Record returns the nested record at path.
func (r *Record) Record(path string) (*Record, error) {
	v, err := r.lookupRequired(path)
	if err != nil {
		return nil, err
	}
	nested, ok := v.(*Record)
	if !ok {
		return nil, &FieldTypeError{Field: path, Expected: "object", Actual: typeName(v)}
	}
	return nested, nil
}

// List returns the list at path.
func (r *Record) List(path string) ([]any, error) {
	v, err := r.lookupRequired(path)
	if err != nil {
		return nil, err
	}
	l, ok := v.([]any)
	if !ok {
		return nil, &FieldTypeError{Field: path, Expected: "array", Actual: typeName(v)}
	}
	return l, nil
}

func (r *Record) lookupRequired(path string) (any, error) {
	v, ok := r.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldMissing, path)
	}
	return v, nil
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("arango: encode field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the content of r with the decoded JSON object,
// keeping the field order of the input.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	r.keys = nil
	r.values = make(map[string]any)
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: expected JSON object", ErrInvalidDocument)
	}
	return decodeObjectInto(dec, r)
}

func decodeObjectInto(dec *json.Decoder, r *Record) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("arango: unexpected token %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return err
		}
		r.Set(key, v)
	}
	_, err := dec.Token() // closing '}'
	return err
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		nested := NewRecord()
		if err := decodeObjectInto(dec, nested); err != nil {
			return nil, err
		}
		return nested, nil
	case '[':
		list := []any{}
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}
	return nil, fmt.Errorf("arango: unexpected delimiter %v", d)
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return RecordFromMap(t)
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	}
	return v
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Map()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	}
	return v
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case *Record:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
