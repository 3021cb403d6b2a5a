package sql

import (
	"strings"
	"unicode"

	"vddb/internal/dberr"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokNumber
	tokString
	tokSymbol // ( ) , *
	tokOperator
)

type token struct {
	typ tokenType
	val string
	pos int
}

func (t token) String() string {
	switch t.typ {
	case tokEOF:
		return "end of input"
	case tokString:
		return `"` + t.val + `"`
	default:
		return "'" + t.val + "'"
	}
}

// is reports whether t is the given keyword (case-insensitive).
func (t token) is(keyword string) bool {
	return t.typ == tokIdent && strings.EqualFold(t.val, keyword)
}

// lex splits one input line into tokens. Keywords and identifiers share
// tokIdent; the parser decides which is which. Identifiers keep their case.
func lex(input string) ([]token, error) {
	var toks []token
	pos := 0
	n := len(input)

	for {
		for pos < n && unicode.IsSpace(rune(input[pos])) {
			pos++
		}
		if pos >= n {
			toks = append(toks, token{typ: tokEOF, pos: pos})
			return toks, nil
		}

		start := pos
		ch := input[pos]

		switch {
		case ch == ';':
			return nil, dberr.Syntax("", "unexpected ';' at position %d: statements take no terminator", start)
		case ch == '(' || ch == ')' || ch == ',' || ch == '*':
			pos++
			toks = append(toks, token{typ: tokSymbol, val: string(ch), pos: start})
		case ch == '=' || ch == '<' || ch == '>' || ch == '!':
			pos++
			if pos < n && (input[pos] == '=' || (ch == '<' && input[pos] == '>')) {
				pos++
			}
			op := input[start:pos]
			if op == "!" {
				return nil, dberr.Syntax("", "unexpected '!' at position %d", start)
			}
			toks = append(toks, token{typ: tokOperator, val: op, pos: start})
		case ch == '"':
			pos++
			for pos < n && input[pos] != '"' {
				pos++
			}
			if pos >= n {
				return nil, dberr.Syntax("", "unterminated string starting at position %d", start)
			}
			toks = append(toks, token{typ: tokString, val: input[start+1 : pos], pos: start})
			pos++
		case isDigit(ch) || ((ch == '-' || ch == '+') && pos+1 < n && isDigit(input[pos+1])):
			pos++
			for pos < n && (isDigit(input[pos]) || input[pos] == '.') {
				pos++
			}
			toks = append(toks, token{typ: tokNumber, val: input[start:pos], pos: start})
		case unicode.IsLetter(rune(ch)) || ch == '_':
			for pos < n && isIdentChar(input[pos]) {
				pos++
			}
			toks = append(toks, token{typ: tokIdent, val: input[start:pos], pos: start})
		default:
			return nil, dberr.Syntax("", "unexpected character %q at position %d", ch, start)
		}
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || isDigit(ch) || ch == '_' || ch == '.'
}
