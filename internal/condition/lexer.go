package condition

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokTrue
	tokFalse
	tokAnd
	tokOr
	tokNot
	tokEq
	tokNe
	tokGe
	tokLe
	tokGt
	tokLt
	tokLParen
	tokRParen
)

var keywords = map[string]tokenKind{
	"true":  tokTrue,
	"false": tokFalse,
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of expression"
	}
	return fmt.Sprintf("%q at %d", t.text, t.pos)
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == '=' || c == '!' || c == '<' || c == '>':
			tok, width, err := lexOperator(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += width
		case c == '"':
			tok, width, err := lexString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += width
		case isDigit(c) || (c == '-' && i+1 < len(src) && (isDigit(src[i+1]) || src[i+1] == '.')) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			tok, width, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i += width
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			word := src[start:i]
			kind, ok := keywords[word]
			if !ok {
				kind = tokIdent
			}
			tokens = append(tokens, token{kind: kind, text: word, pos: start})
		default:
			return nil, fmt.Errorf("unexpected character %q at %d", c, i)
		}
	}
	tokens = append(tokens, token{kind: tokEOF, pos: len(src)})
	return tokens, nil
}

func lexOperator(src string, i int) (token, int, error) {
	two := ""
	if i+1 < len(src) {
		two = src[i : i+2]
	}
	switch two {
	case "==":
		return token{kind: tokEq, text: two, pos: i}, 2, nil
	case "!=":
		return token{kind: tokNe, text: two, pos: i}, 2, nil
	case ">=":
		return token{kind: tokGe, text: two, pos: i}, 2, nil
	case "<=":
		return token{kind: tokLe, text: two, pos: i}, 2, nil
	}
	switch src[i] {
	case '>':
		return token{kind: tokGt, text: ">", pos: i}, 1, nil
	case '<':
		return token{kind: tokLt, text: "<", pos: i}, 1, nil
	}
	return token{}, 0, fmt.Errorf("unexpected character %q at %d", src[i], i)
}

func lexString(src string, start int) (token, int, error) {
	var b strings.Builder
	i := start + 1
	for i < len(src) {
		c := src[i]
		switch c {
		case '"':
			return token{kind: tokString, text: b.String(), pos: start}, i + 1 - start, nil
		case '\\':
			if i+1 >= len(src) {
				return token{}, 0, fmt.Errorf("unterminated escape at %d", i)
			}
			next := src[i+1]
			if next != '"' && next != '\\' {
				return token{}, 0, fmt.Errorf("unsupported escape \\%c at %d", next, i)
			}
			b.WriteByte(next)
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return token{}, 0, fmt.Errorf("unterminated string starting at %d", start)
}

func lexNumber(src string, start int) (token, int, error) {
	i := start
	if src[i] == '-' {
		i++
	}
	seenDot := false
	for i < len(src) && (isDigit(src[i]) || (src[i] == '.' && !seenDot)) {
		if src[i] == '.' {
			seenDot = true
		}
		i++
	}
	if i < len(src) && isIdentPart(src[i]) {
		return token{}, 0, fmt.Errorf("malformed number at %d", start)
	}
	text := src[start:i]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, fmt.Errorf("malformed number %q at %d", text, start)
	}
	return token{kind: tokNumber, text: text, num: n, pos: start}, i - start, nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
