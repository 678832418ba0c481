// Package schema implements the Schema Walker's data model (spec §3/§9): a
// tagged-variant SchemaNode with the six cases a tool's input_schema tree can
// take, and a walker that traverses it to compute overhead tokens.
//
// The reference this was distilled from introspected an ad-hoc schema object
// at runtime (duck-typed field presence deciding what kind of node it was).
// That doesn't translate to Go, and the spec calls the redesign out
// explicitly: a Node carries an explicit Kind tag, is built through
// kind-specific constructors so an invalid combination (e.g. enum values on
// an object node) can't be constructed, and Walk dispatches on the tag.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags the six node shapes a tool input_schema can take.
type Kind int

const (
	Object Kind = iota
	String
	Number
	Boolean
	Enum
	Array
)

func (k Kind) String() string {
	switch k {
	case Object:
		return "object"
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Enum:
		return "enum"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Node is one node of an input_schema tree. The zero value is not valid;
// build one with NewObject, NewString, NewNumber, NewBoolean, NewEnum, or
// NewArray.
type Node struct {
	kind        Kind
	description string
	hasDesc     bool

	properties *orderedmap.OrderedMap[string, *Node]
	enumValues []string
	element    *Node
}

// Option configures a Node at construction time.
type Option func(*Node)

// WithDescription attaches a description, contributing per_prop_desc plus
// its tokenized length when this node sits under an object property.
func WithDescription(desc string) Option {
	return func(n *Node) {
		n.description = desc
		n.hasDesc = true
	}
}

// Kind reports which of the six node shapes this is.
func (n *Node) Kind() Kind { return n.kind }

// Description returns the node's description and whether one was set.
func (n *Node) Description() (string, bool) { return n.description, n.hasDesc }

// Properties returns the object node's properties in insertion order. Only
// valid when Kind() == Object.
func (n *Node) Properties() *orderedmap.OrderedMap[string, *Node] { return n.properties }

// EnumValues returns the enum node's possible values. Only valid when
// Kind() == Enum.
func (n *Node) EnumValues() []string { return n.enumValues }

// Element returns the array node's element type. Only valid when
// Kind() == Array.
func (n *Node) Element() *Node { return n.element }

func NewObject(opts ...Option) *Node {
	n := &Node{kind: Object, properties: orderedmap.New[string, *Node]()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SetProperty appends name→child to an object node's property list,
// preserving the insertion order the Walker counts per_first_prop/
// per_additional_prop against. Calling it on a non-object node panics, since
// that would only happen from a programming error in this module, never
// from caller input.
func (n *Node) SetProperty(name string, child *Node) *Node {
	if n.kind != Object {
		panic("schema: SetProperty on a non-object node")
	}
	n.properties.Set(name, child)
	return n
}

func NewString(opts ...Option) *Node  { return leaf(String, opts) }
func NewNumber(opts ...Option) *Node  { return leaf(Number, opts) }
func NewBoolean(opts ...Option) *Node { return leaf(Boolean, opts) }

func leaf(kind Kind, opts []Option) *Node {
	n := &Node{kind: kind}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewEnum(values []string, opts ...Option) *Node {
	n := &Node{kind: Enum, enumValues: append([]string(nil), values...)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewArray(element *Node, opts ...Option) *Node {
	n := &Node{kind: Array, element: element}
	for _, opt := range opts {
		opt(n)
	}
	return n
}
