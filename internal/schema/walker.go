package schema

import (
	"fmt"

	"github.com/promptacct/promptacct/errs"
)

// Tokenizer is the slice of *bpe.Engine the Walker needs: token counts for
// property names, descriptions, and enum values. Depending on this instead
// of a concrete engine type keeps the package testable without building a
// real encoding table.
type Tokenizer interface {
	Count(text string) (int, error)
}

// Coefficients is the subset of a Model Config's token coefficients the
// Walker consumes (spec §3/§4.4).
type Coefficients struct {
	PerFirstProp      int
	PerAdditionalProp int
	PerPropDesc       int
	PerEnum           int
	PerNestedObject   int
	PerArrayOfObjects int
}

// Walk traverses root (which must be an Object node) in property insertion
// order and returns the subtree's total overhead tokens, per spec §4.4.
func Walk(tok Tokenizer, coef Coefficients, root *Node) (int, error) {
	if root == nil || root.Kind() != Object {
		return 0, &errs.InvalidSchemaNodeError{Reason: "walker root must be an object node"}
	}
	return walkObject(tok, coef, root)
}

func walkObject(tok Tokenizer, coef Coefficients, obj *Node) (int, error) {
	total := 0
	i := 0
	for pair := obj.properties.Oldest(); pair != nil; pair = pair.Next() {
		name, child := pair.Key, pair.Value
		if child == nil {
			return 0, &errs.InvalidSchemaNodeError{Reason: fmt.Sprintf("property %q has no node", name)}
		}

		nameTokens, err := tok.Count(name)
		if err != nil {
			return 0, err
		}
		total += nameTokens

		if i == 0 {
			total += coef.PerFirstProp
		} else {
			total += coef.PerAdditionalProp
		}
		i++

		if desc, ok := child.Description(); ok {
			descTokens, err := tok.Count(desc)
			if err != nil {
				return 0, err
			}
			total += coef.PerPropDesc + descTokens
		}

		sub, err := walkValue(tok, coef, child)
		if err != nil {
			return 0, err
		}
		total += sub
	}
	return total, nil
}

// walkValue accounts for a node's own type-specific overhead — the overhead
// a bare property-name entry doesn't already cover. Scalars contribute
// nothing here; object and array-of-object recurse into walkObject.
func walkValue(tok Tokenizer, coef Coefficients, n *Node) (int, error) {
	switch n.Kind() {
	case String, Number, Boolean:
		return 0, nil

	case Enum:
		total := coef.PerEnum
		for _, v := range n.EnumValues() {
			c, err := tok.Count(v)
			if err != nil {
				return 0, err
			}
			total += c
		}
		return total, nil

	case Object:
		sub, err := walkObject(tok, coef, n)
		if err != nil {
			return 0, err
		}
		return coef.PerNestedObject + sub, nil

	case Array:
		elem := n.Element()
		if elem == nil {
			return 0, &errs.InvalidSchemaNodeError{Reason: "array node has no element type"}
		}
		if elem.Kind() == Object {
			sub, err := walkObject(tok, coef, elem)
			if err != nil {
				return 0, err
			}
			return coef.PerArrayOfObjects + sub, nil
		}
		// A non-object element contributes nothing by itself unless it is
		// in turn complex (a nested enum or array), so recurse through the
		// same type-overhead dispatch rather than stopping here.
		return walkValue(tok, coef, elem)

	default:
		return 0, &errs.InvalidSchemaNodeError{Reason: fmt.Sprintf("unrecognized node kind %d", n.Kind())}
	}
}
