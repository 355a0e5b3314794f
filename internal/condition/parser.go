package condition

import (
	"fmt"

	"guidedjournal/internal/domains"
)

// Identifiers is the closed set of names a condition may reference.
var Identifiers = map[string]struct{}{
	domains.FactHoursSinceLastEntry: {},
	domains.FactExercisedToday:      {},
	domains.FactIsBeforeNoon:        {},
	domains.FactGoalsSetToday:       {},
	domains.FactExerciseResponse:    {},
}

type node interface {
	eval(facts Facts) (value, error)
}

type literalNode struct{ v value }

type identNode struct{ name string }

type notNode struct{ operand node }

type logicalNode struct {
	op          tokenKind
	left, right node
}

type compareNode struct {
	op          tokenKind
	left, right node
}

// parser is a recursive-descent parser over:
//
//	expr       = or
//	or         = and { "or" and }
//	and        = not { "and" not }
//	not        = "not" not | comparison
//	comparison = primary [ op primary ]
//	primary    = true | false | number | string | ident | "(" expr ")"
type parser struct {
	tokens []token
	pos    int
	depth  int
}

// maxDepth bounds "not" chains and parenthesis nesting.
const maxDepth = 64

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("expression nested deeper than %d", maxDepth)
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func parse(src string) (node, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %s", tok)
	}
	return root, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: tokOr, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: tokAnd, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.peek().kind == tokNot {
		p.next()
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !isComparison(p.peek().kind) {
		return left, nil
	}
	op := p.next().kind
	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); isComparison(tok.kind) {
		return nil, fmt.Errorf("chained comparison %s", tok)
	}
	return &compareNode{op: op, left: left, right: right}, nil
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokTrue:
		return &literalNode{v: boolValue(true)}, nil
	case tokFalse:
		return &literalNode{v: boolValue(false)}, nil
	case tokNumber:
		return &literalNode{v: numberValue(tok.num)}, nil
	case tokString:
		return &literalNode{v: stringValue(tok.text)}, nil
	case tokIdent:
		if _, ok := Identifiers[tok.text]; !ok {
			return nil, fmt.Errorf("unknown identifier %s", tok)
		}
		return &identNode{name: tok.text}, nil
	case tokLParen:
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("expected ) but got %s", closing)
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("unexpected %s", tok)
	}
}

func isComparison(k tokenKind) bool {
	switch k {
	case tokEq, tokNe, tokGe, tokLe, tokGt, tokLt:
		return true
	default:
		return false
	}
}
