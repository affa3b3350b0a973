package arango

import (
	"fmt"
	"sort"
	"strings"
)

// docVar is the loop variable every generated query iterates with.
const docVar = "doc"

// Constraint is an ordered list of equality conditions, a query by example.
// A nil value matches documents where the field is absent or null.
//
// Field paths are dot-separated for nested access: "address.city".
type Constraint struct {
	conds []condition
}

type condition struct {
	path  string
	value any
}

// Where starts a constraint with a single condition.
//
//	c := arango.Where("status", "active").And("address.city", "Berlin")
func Where(path string, value any) *Constraint {
	return (&Constraint{}).And(path, value)
}

// And appends a condition and returns c. A nil receiver starts a new constraint.
func (c *Constraint) And(path string, value any) *Constraint {
	if c == nil {
		c = &Constraint{}
	}
	c.conds = append(c.conds, condition{path: path, value: value})
	return c
}

// ConstraintFromMap builds a constraint from m, ordered by field path.
func ConstraintFromMap(m map[string]any) *Constraint {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	c := &Constraint{}
	for _, p := range paths {
		c.And(p, m[p])
	}
	return c
}

// Len returns the number of conditions.
func (c *Constraint) Len() int {
	if c == nil {
		return 0
	}
	return len(c.conds)
}

// IsEmpty reports whether c has no conditions. A nil constraint is empty.
func (c *Constraint) IsEmpty() bool { return c.Len() == 0 }

// Paths returns the field paths in order.
func (c *Constraint) Paths() []string {
	out := make([]string, 0, c.Len())
	for _, cond := range c.conditions() {
		out = append(out, cond.path)
	}
	return out
}

func (c *Constraint) conditions() []condition {
	if c == nil {
		return nil
	}
	return c.conds
}

// Fragment is the compiled form of a constraint: a FILTER clause and the
// values it references. FilterClause is empty for an empty constraint.
type Fragment struct {
	FilterClause string
	Bindings     map[string]any
}

// Compile turns c into a FILTER clause over the loop variable "doc".
// Conditions keep their input order and are joined with AND. Every non-nil
// value is bound as a parameter; nil compiles to a literal "== null".
//
// Binding names are derived from the field path: '.' becomes '_', any other
// character outside [A-Za-z0-9_] is written as its code point ("_u00df"),
// and a leading character that is not a letter or digit gets a 'v' prefix.
// So "a.b" binds as @a_b, "_key" as @v_key and "名前" as @v_u540d_u524d.
// Two paths that derive the same binding name are rejected with
// ErrBindingCollision.
func Compile(c *Constraint) (Fragment, error) {
	return compileConstraint("filter", c, nil, false)
}

// compileConstraint compiles c. reserved lists binding names already taken by
// the surrounding query. With mutation set, system fields other than _key are
// rejected.
func compileConstraint(op string, c *Constraint, reserved map[string]bool, mutation bool) (Fragment, error) {
	frag := Fragment{Bindings: map[string]any{}}
	conds := c.conditions()
	if len(conds) == 0 {
		return frag, nil
	}

	clauses := make([]string, 0, len(conds))
	seen := make(map[string]string, len(conds))

	for _, cond := range conds {
		expr, err := fieldExpr(op, docVar, cond.path)
		if err != nil {
			return Fragment{}, err
		}
		if mutation && isImmutableSystemField(cond.path) {
			return Fragment{}, compileErr(op, cond.path, ErrReservedField)
		}

		name := bindingName(cond.path)
		if reserved[name] {
			return Fragment{}, compileErr(op, cond.path, ErrBindingCollision)
		}
		if _, dup := seen[name]; dup {
			return Fragment{}, compileErr(op, cond.path, ErrBindingCollision)
		}
		seen[name] = cond.path

		if cond.value == nil {
			clauses = append(clauses, expr+" == null")
			continue
		}
		clauses = append(clauses, expr+" == @"+name)
		frag.Bindings[name] = cond.value
	}

	frag.FilterClause = "FILTER " + strings.Join(clauses, " AND ")
	return frag, nil
}

// fieldExpr renders variable.path, quoting segments that are not plain
// identifiers or that collide with AQL keywords.
func fieldExpr(op, variable, path string) (string, error) {
	if path == "" {
		return "", compileErr(op, path, ErrInvalidFieldPath)
	}
	var b strings.Builder
	b.WriteString(variable)
	for _, seg := range strings.Split(path, ".") {
		if seg == "" || strings.ContainsRune(seg, '`') {
			return "", compileErr(op, path, ErrInvalidFieldPath)
		}
		b.WriteByte('.')
		if isIdentifier(seg) && !isKeyword(seg) {
			b.WriteString(seg)
			continue
		}
		b.WriteByte('`')
		b.WriteString(seg)
		b.WriteByte('`')
	}
	return b.String(), nil
}

// bindingName derives a valid bind parameter name from a field path.
func bindingName(path string) string {
	var b strings.Builder
	for _, r := range path {
		switch {
		case isWordRune(r):
			b.WriteRune(r)
		case r == '.':
			b.WriteByte('_')
		case r > 0xffff:
			fmt.Fprintf(&b, "_U%08x", r)
		default:
			fmt.Fprintf(&b, "_u%04x", r)
		}
	}
	name := b.String()
	if name == "" || !isAlnum(rune(name[0])) {
		name = "v" + name
	}
	return name
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && !(r == '_' || isLetter(r)) {
			return false
		}
		if !isWordRune(r) {
			return false
		}
	}
	return s != ""
}

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

func isAlnum(r rune) bool { return isLetter(r) || (r >= '0' && r <= '9') }

func isWordRune(r rune) bool { return isAlnum(r) || r == '_' }

func isImmutableSystemField(path string) bool {
	return path == FieldID || path == FieldRev
}

var aqlKeywords = map[string]bool{
	"aggregate": true, "all": true, "all_shortest_paths": true, "and": true,
	"any": true, "asc": true, "collect": true, "desc": true, "distinct": true,
	"false": true, "filter": true, "for": true, "graph": true, "in": true,
	"inbound": true, "insert": true, "into": true, "k_paths": true,
	"k_shortest_paths": true, "let": true, "like": true, "limit": true,
	"none": true, "not": true, "null": true, "or": true, "outbound": true,
	"remove": true, "replace": true, "return": true, "search": true,
	"shortest_path": true, "sort": true, "true": true, "update": true,
	"upsert": true, "window": true, "with": true,
}

func isKeyword(s string) bool {
	return aqlKeywords[strings.ToLower(s)]
}
