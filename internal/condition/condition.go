// Package condition evaluates the boolean expressions that gate guided-journal
// questions. The language is small: comparisons, and/or/not,
// boolean, numeric and double-quoted string literals, and a closed set of
// fact identifiers. Nothing else is accepted.
//
// Evaluate and Check are fail-open: any parse or evaluation problem yields true
// so a question is shown rather than silently dropped.
package condition

import (
	"errors"
	"fmt"
	"strings"
)

// Facts maps identifiers to float64, bool or string values.
type Facts map[string]any

var ErrNotBoolean = errors.New("expression does not evaluate to a boolean")

// MaxLength is the longest expression Compile accepts, in bytes.
const MaxLength = 1024

// Expr is a compiled condition. It is immutable and safe for concurrent use.
type Expr struct {
	source string
	root   node
}

func Compile(expression string) (*Expr, error) {
	src := strings.TrimSpace(expression)
	if src == "" {
		return nil, errors.New("empty expression")
	}
	if len(src) > MaxLength {
		return nil, fmt.Errorf("expression longer than %d bytes", MaxLength)
	}
	root, err := parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", src, err)
	}
	return &Expr{source: src, root: root}, nil
}

func (e *Expr) String() string { return e.source }

func (e *Expr) Eval(facts Facts) (bool, error) {
	v, err := e.root.eval(facts)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", e.source, err)
	}
	if v.kind != kindBool {
		return false, fmt.Errorf("evaluate %q: %w", e.source, ErrNotBoolean)
	}
	return v.b, nil
}

// Check evaluates expression against facts. A blank expression is true. When
// the expression cannot be parsed or evaluated the result is true and the
// error explains why.
func Check(expression string, facts Facts) (result bool, err error) {
	if strings.TrimSpace(expression) == "" {
		return true, nil
	}
	defer func() {
		if r := recover(); r != nil {
			result, err = true, fmt.Errorf("evaluate %q: panic: %v", expression, r)
		}
	}()
	expr, err := Compile(expression)
	if err != nil {
		return true, err
	}
	ok, err := expr.Eval(facts)
	if err != nil {
		return true, err
	}
	return ok, nil
}

// Evaluate is Check without the error.
func Evaluate(expression string, facts Facts) bool {
	ok, _ := Check(expression, facts)
	return ok
}
