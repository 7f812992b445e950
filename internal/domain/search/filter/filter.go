// Package filter models metadata pre-filters for vector search as a small
// expression tree: a bare Leaf, or an And over leaves.
package filter

import "github.com/maroco/majormentor/internal/domain/facet"

// Op enumerates leaf comparison operators.
type Op int

const (
	// OpEquals matches a single tag value.
	OpEquals Op = iota
	// OpOneOf matches any of several tag values.
	OpOneOf
)

// Node is a filter tree node: Leaf or And. A nil Node means no filtering.
type Node interface {
	node()
}

// Leaf is a single field condition.
type Leaf struct {
	field  string
	op     Op
	values []string
}

func (Leaf) node() {}

// Eq creates an equality leaf.
func Eq(field, value string) Leaf {
	return Leaf{field: field, op: OpEquals, values: []string{value}}
}

// OneOf creates a set-membership leaf.
func OneOf(field string, values ...string) Leaf {
	return Leaf{field: field, op: OpOneOf, values: values}
}

// Field returns the field name.
func (l Leaf) Field() string { return l.field }

// Operator returns the comparison operator.
func (l Leaf) Operator() Op { return l.op }

// Values returns the match values. Equality leaves hold exactly one.
func (l Leaf) Values() []string { return l.values }

// And is a conjunction of child nodes. Build never produces an And with
// fewer than two children.
type And struct {
	children []Node
}

func (And) node() {}

// NewAnd creates a conjunction over the given children.
func NewAnd(children ...Node) And {
	return And{children: children}
}

// Children returns the conjunction members.
func (a And) Children() []Node { return a.children }

// buildOrder fixes the leaf order of composed filters so that equal facet
// sets always produce structurally identical trees.
var buildOrder = []string{
	facet.University,
	facet.College,
	facet.Department,
	facet.Grade,
	facet.Semester,
}

// Build composes a filter from extracted facets. No facets yields nil,
// one facet yields a bare leaf, more yield an And of equality leaves.
func Build(facets facet.Set) Node {
	var leaves []Node
	for _, field := range buildOrder {
		if v := facets[field]; v != "" {
			leaves = append(leaves, Eq(field, v))
		}
	}
	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return leaves[0]
	default:
		return And{children: leaves}
	}
}

// RemoveField strips every direct leaf on the given field from the tree.
// A matching bare leaf dissolves to nil; an And that loses all but one
// child unwraps to that child. Other shapes pass through unchanged.
func RemoveField(n Node, field string) Node {
	switch t := n.(type) {
	case nil:
		return nil
	case Leaf:
		if t.field == field {
			return nil
		}
		return t
	case And:
		var kept []Node
		for _, child := range t.children {
			if leaf, ok := child.(Leaf); ok && leaf.field == field {
				continue
			}
			kept = append(kept, child)
		}
		switch len(kept) {
		case 0:
			return nil
		case 1:
			return kept[0]
		default:
			return And{children: kept}
		}
	default:
		return n
	}
}

// DepartmentVariants returns the fuzzy name forms for a department base:
// the base itself plus the 부 and 과 suffixed forms, in that order.
func DepartmentVariants(base string) []string {
	return []string{base, base + "부", base + "과"}
}

// ExpandDepartment replaces the department condition of the tree with a
// one-of leaf over the fuzzy variants of base. The rest of the tree is
// preserved; a tree without other conditions becomes the bare one-of leaf.
func ExpandDepartment(n Node, base string) Node {
	fuzzy := OneOf(facet.Department, DepartmentVariants(base)...)

	rest := RemoveField(n, facet.Department)
	switch t := rest.(type) {
	case nil:
		return fuzzy
	case And:
		children := make([]Node, 0, len(t.children)+1)
		children = append(children, t.children...)
		children = append(children, fuzzy)
		return And{children: children}
	default:
		return And{children: []Node{rest, fuzzy}}
	}
}

// DepartmentValue returns the value of the department equality condition,
// if the tree carries one at the top level.
func DepartmentValue(n Node) (string, bool) {
	return FieldValue(n, facet.Department)
}

// FieldValue returns the value of the equality condition on the given
// field, if present at the top level.
func FieldValue(n Node, field string) (string, bool) {
	switch t := n.(type) {
	case Leaf:
		if t.field == field && t.op == OpEquals {
			return t.values[0], true
		}
	case And:
		for _, child := range t.children {
			if leaf, ok := child.(Leaf); ok && leaf.field == field && leaf.op == OpEquals {
				return leaf.values[0], true
			}
		}
	}
	return "", false
}

// HasField reports whether any top-level condition targets the field.
func HasField(n Node, field string) bool {
	switch t := n.(type) {
	case Leaf:
		return t.field == field
	case And:
		for _, child := range t.children {
			if leaf, ok := child.(Leaf); ok && leaf.field == field {
				return true
			}
		}
	}
	return false
}
