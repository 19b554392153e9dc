// Package schema checks the shape of decoded JSON documents before they are
// trusted. Documents are the `any` trees produced by encoding/json: maps,
// slices, strings, float64, bool and nil.
//
// Objects ignore keys they do not declare. Optional fields may be absent but,
// when present, must match; JSON null only matches Null().
package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Node is one shape in a schema tree.
type Node interface {
	// Describe names the accepted shape in violation messages.
	Describe() string
	check(path string, v any) error
}

// Violation reports the first mismatch found in a document.
type Violation struct {
	Path     string
	Expected string
	Got      string
}

func (v *Violation) Error() string {
	p := v.Path
	if p == "" {
		p = "(root)"
	}
	return fmt.Sprintf("schema: %s: expected %s, got %s", p, v.Expected, v.Got)
}

// Validate checks v against n and returns a *Violation on mismatch.
func Validate(n Node, v any) error {
	return n.check("", v)
}

func violation(path string, n Node, v any) error {
	return &Violation{Path: path, Expected: n.Describe(), Got: kindOf(v)}
}

func kindOf(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return strconv.Quote(x)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

type stringNode struct{}

func String() Node                  { return stringNode{} }
func (stringNode) Describe() string { return "string" }
func (n stringNode) check(p string, v any) error {
	if _, ok := v.(string); !ok {
		return violation(p, n, v)
	}
	return nil
}

type boolNode struct{}

func Bool() Node                  { return boolNode{} }
func (boolNode) Describe() string { return "boolean" }
func (n boolNode) check(p string, v any) error {
	if _, ok := v.(bool); !ok {
		return violation(p, n, v)
	}
	return nil
}

type numberNode struct{ integer bool }

// Number accepts any JSON number.
func Number() Node { return numberNode{} }

// Integer accepts JSON numbers without a fractional part.
func Integer() Node { return numberNode{integer: true} }

func (n numberNode) Describe() string {
	if n.integer {
		return "integer"
	}
	return "number"
}

func (n numberNode) check(p string, v any) error {
	f, ok := v.(float64)
	if !ok || (n.integer && f != math.Trunc(f)) {
		return violation(p, n, v)
	}
	return nil
}

type nullNode struct{}

func Null() Node                  { return nullNode{} }
func (nullNode) Describe() string { return "null" }
func (n nullNode) check(p string, v any) error {
	if v != nil {
		return violation(p, n, v)
	}
	return nil
}

type literalNode struct{ val string }

// Literal accepts exactly the string s.
func Literal(s string) Node { return literalNode{val: s} }

func (n literalNode) Describe() string { return strconv.Quote(n.val) }
func (n literalNode) check(p string, v any) error {
	if s, ok := v.(string); !ok || s != n.val {
		return violation(p, n, v)
	}
	return nil
}

type arrayNode struct{ elem Node }

func Array(elem Node) Node { return arrayNode{elem: elem} }

func (n arrayNode) Describe() string { return "array of " + n.elem.Describe() }
func (n arrayNode) check(p string, v any) error {
	xs, ok := v.([]any)
	if !ok {
		return violation(p, n, v)
	}
	for i, x := range xs {
		if err := n.elem.check(p+"["+strconv.Itoa(i)+"]", x); err != nil {
			return err
		}
	}
	return nil
}

type unionNode struct{ alts []Node }

// Union accepts a value matching any of alts.
func Union(alts ...Node) Node { return unionNode{alts: alts} }

func (n unionNode) Describe() string {
	parts := make([]string, len(n.alts))
	for i, a := range n.alts {
		parts[i] = a.Describe()
	}
	return strings.Join(parts, " | ")
}

func (n unionNode) check(p string, v any) error {
	for _, a := range n.alts {
		if a.check(p, v) == nil {
			return nil
		}
	}
	return violation(p, n, v)
}

// Field is one declared key of an Object.
type Field struct {
	Name     string
	Node     Node
	Optional bool
}

// Req declares a required key.
func Req(name string, n Node) Field { return Field{Name: name, Node: n} }

// Opt declares a key that may be absent.
func Opt(name string, n Node) Field { return Field{Name: name, Node: n, Optional: true} }

type objectNode struct{ fields []Field }

// Object accepts a JSON object carrying the declared fields. Fields are
// checked in declaration order so the reported violation is deterministic.
func Object(fields ...Field) Node { return objectNode{fields: fields} }

func (objectNode) Describe() string { return "object" }

func (n objectNode) check(p string, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return violation(p, n, v)
	}
	for _, f := range n.fields {
		fp := f.Name
		if p != "" {
			fp = p + "." + f.Name
		}
		x, present := m[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			return &Violation{Path: fp, Expected: f.Node.Describe(), Got: "undefined"}
		}
		if err := f.Node.check(fp, x); err != nil {
			return err
		}
	}
	return nil
}
