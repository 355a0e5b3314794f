package condition

import (
	"fmt"
	"math"
)

type valueKind int

const (
	kindBool valueKind = iota
	kindNumber
	kindString
)

func (k valueKind) String() string {
	switch k {
	case kindBool:
		return "boolean"
	case kindNumber:
		return "number"
	default:
		return "string"
	}
}

type value struct {
	kind valueKind
	b    bool
	n    float64
	s    string
}

func boolValue(b bool) value      { return value{kind: kindBool, b: b} }
func numberValue(n float64) value { return value{kind: kindNumber, n: n} }
func stringValue(s string) value  { return value{kind: kindString, s: s} }

func factValue(name string, raw any) (value, error) {
	switch v := raw.(type) {
	case bool:
		return boolValue(v), nil
	case float64:
		if math.IsNaN(v) {
			return value{}, fmt.Errorf("fact %s is NaN", name)
		}
		return numberValue(v), nil
	case float32:
		return numberValue(float64(v)), nil
	case int:
		return numberValue(float64(v)), nil
	case int64:
		return numberValue(float64(v)), nil
	case string:
		return stringValue(v), nil
	default:
		return value{}, fmt.Errorf("fact %s has unsupported type %T", name, raw)
	}
}

func (n *literalNode) eval(Facts) (value, error) { return n.v, nil }

func (n *identNode) eval(facts Facts) (value, error) {
	raw, ok := facts[n.name]
	if !ok {
		return value{}, fmt.Errorf("fact %s is not set", n.name)
	}
	return factValue(n.name, raw)
}

func (n *notNode) eval(facts Facts) (value, error) {
	v, err := n.operand.eval(facts)
	if err != nil {
		return value{}, err
	}
	if v.kind != kindBool {
		return value{}, fmt.Errorf("not applied to %s", v.kind)
	}
	return boolValue(!v.b), nil
}

func (n *logicalNode) eval(facts Facts) (value, error) {
	left, err := n.left.eval(facts)
	if err != nil {
		return value{}, err
	}
	if left.kind != kindBool {
		return value{}, fmt.Errorf("%s operand is %s", opName(n.op), left.kind)
	}
	if n.op == tokAnd && !left.b {
		return boolValue(false), nil
	}
	if n.op == tokOr && left.b {
		return boolValue(true), nil
	}
	right, err := n.right.eval(facts)
	if err != nil {
		return value{}, err
	}
	if right.kind != kindBool {
		return value{}, fmt.Errorf("%s operand is %s", opName(n.op), right.kind)
	}
	return boolValue(right.b), nil
}

func (n *compareNode) eval(facts Facts) (value, error) {
	left, err := n.left.eval(facts)
	if err != nil {
		return value{}, err
	}
	right, err := n.right.eval(facts)
	if err != nil {
		return value{}, err
	}
	if left.kind != right.kind {
		return value{}, fmt.Errorf("cannot compare %s %s %s", left.kind, opName(n.op), right.kind)
	}

	switch n.op {
	case tokEq:
		return boolValue(left == right), nil
	case tokNe:
		return boolValue(left != right), nil
	}

	if left.kind != kindNumber {
		return value{}, fmt.Errorf("operator %s needs numbers, got %s", opName(n.op), left.kind)
	}
	switch n.op {
	case tokGe:
		return boolValue(left.n >= right.n), nil
	case tokLe:
		return boolValue(left.n <= right.n), nil
	case tokGt:
		return boolValue(left.n > right.n), nil
	case tokLt:
		return boolValue(left.n < right.n), nil
	}
	return value{}, fmt.Errorf("unknown operator %d", n.op)
}

func opName(k tokenKind) string {
	switch k {
	case tokAnd:
		return "and"
	case tokOr:
		return "or"
	case tokEq:
		return "=="
	case tokNe:
		return "!="
	case tokGe:
		return ">="
	case tokLe:
		return "<="
	case tokGt:
		return ">"
	case tokLt:
		return "<"
	default:
		return "?"
	}
}
