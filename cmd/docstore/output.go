package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Aleph-Alpha/docstore/v1/arango"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printCursor writes every remaining document as one JSON line and the
// query warnings as a trailing comment line each.
func printCursor(ctx context.Context, w io.Writer, cur *arango.Cursor) error {
	for doc, err := range cur.All(ctx) {
		if err != nil {
			return err
		}
		if err := printJSON(w, doc); err != nil {
			return err
		}
	}
	for _, warn := range cur.Warnings() {
		fmt.Fprintf(w, "# warning %d: %s\n", warn.Code, warn.Message)
	}
	return nil
}

// parseWhere turns field=value flags into a constraint.
func parseWhere(flags []string) (*arango.Constraint, error) {
	c := &arango.Constraint{}
	for _, f := range flags {
		field, value, err := splitAssignment(f)
		if err != nil {
			return nil, err
		}
		c.And(field, value)
	}
	return c, nil
}

// parseAssignments turns name=value flags into bind parameters.
func parseAssignments(flags []string) (map[string]any, error) {
	out := make(map[string]any, len(flags))
	for _, f := range flags {
		name, value, err := splitAssignment(f)
		if err != nil {
			return nil, err
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("parameter %q given twice", name)
		}
		out[name] = value
	}
	return out, nil
}

// splitAssignment parses "name=value". The value is decoded as JSON when it
// is valid JSON, so age=30 binds a number and name=Ada a string.
func splitAssignment(s string) (string, any, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("expected name=value, got %q", s)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err == nil && !dec.More() {
		if _, err := dec.Token(); err == io.EOF {
			return name, v, nil
		}
	}
	return name, raw, nil
}
