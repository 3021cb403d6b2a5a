package sql

import (
	"fmt"
	"strconv"
	"strings"

	"vddb/internal/dberr"
)

// Expected statement forms, reported with syntax errors.
const (
	hintCreateTable = "CREATE TABLE name(col type, ...)"
	hintDropTable   = "DROP TABLE name"
	hintInsert      = "INSERT INTO name VALUES(v, ...)"
	hintSelect      = "SELECT *|col, ...|SUM(col)|AVG(col)|MIN(col)|MAX(col)|COUNT FROM name [JOIN name2 ON name.col = name2.col] [WHERE col op literal]"
	hintDelete      = "DELETE FROM name [WHERE col op literal]"
	hintStart       = "START TRANSACTION"
	hintCommit      = "COMMIT"
	hintRollback    = "ROLLBACK"
	hintMakeIndex   = "MAKE INDEX ON name(col)"
	hintUnmakeIndex = "UNMAKE INDEX col ON name"
	hintDropIndex   = "DROP INDEX col ON name"
	hintExit        = "EXIT"
	hintCommand     = "CREATE, DROP, INSERT, SELECT, DELETE, START TRANSACTION, COMMIT, ROLLBACK, MAKE INDEX, UNMAKE INDEX, DROP INDEX or EXIT"
)

// reserved words cannot be used as table or column names.
var reserved = map[string]bool{
	"CREATE": true, "TABLE": true, "DROP": true, "INSERT": true, "INTO": true,
	"VALUES": true, "SELECT": true, "FROM": true, "JOIN": true, "ON": true,
	"WHERE": true, "AND": true, "OR": true, "DELETE": true, "START": true,
	"TRANSACTION": true, "COMMIT": true, "ROLLBACK": true, "MAKE": true,
	"UNMAKE": true, "INDEX": true, "EXIT": true,
}

// parser is a cursor over the tokens of one statement.
type parser struct {
	toks []token
	pos  int
	hint string
}

func newParser(toks []token, hint string) *parser {
	return &parser{toks: toks, hint: hint}
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) *dberr.Error {
	return dberr.Syntax(p.hint, format, args...)
}

// acceptKeyword consumes the next token if it is kw.
func (p *parser) acceptKeyword(kw string) bool {
	if p.peek().is(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	t := p.next()
	if !t.is(kw) {
		return p.errorf("expected %s, got %s", kw, t)
	}
	return nil
}

func (p *parser) acceptSymbol(sym string) bool {
	t := p.peek()
	if t.typ == tokSymbol && t.val == sym {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectSymbol(sym string) error {
	t := p.next()
	if t.typ != tokSymbol || t.val != sym {
		return p.errorf("expected '%s', got %s", sym, t)
	}
	return nil
}

// expectName reads a table or column name. Qualified names are rejected.
func (p *parser) expectName(what string) (string, error) {
	t := p.next()
	if t.typ != tokIdent || reserved[strings.ToUpper(t.val)] {
		return "", p.errorf("expected %s, got %s", what, t)
	}
	if strings.Contains(t.val, ".") {
		return "", p.errorf("invalid %s %q", what, t.val)
	}
	return t.val, nil
}

// expectColumnRef reads "col" or "table.col".
func (p *parser) expectColumnRef() (ColumnRef, error) {
	t := p.next()
	if t.typ != tokIdent || reserved[strings.ToUpper(t.val)] {
		return ColumnRef{}, p.errorf("expected column name, got %s", t)
	}
	ref := parseColumnRef(t.val)
	if ref.Name == "" || strings.Contains(ref.Name, ".") {
		return ColumnRef{}, p.errorf("invalid column reference %q", t.val)
	}
	return ref, nil
}

func (p *parser) expectLiteral() (Value, error) {
	t := p.next()
	v, err := parseLiteral(t)
	if err != nil {
		return Value{}, p.errorf("%s", err.Error())
	}
	return v, nil
}

func (p *parser) expectEOF() error {
	if t := p.peek(); t.typ != tokEOF {
		return p.errorf("unexpected %s after end of statement", t)
	}
	return nil
}

// parseLiteral turns a literal token into a Value.
// Supports:
//   - integers:  1, -42
//   - floats:    3.14, 1000.0 (a decimal point is required)
//   - strings:   "Alice" (double quotes)
func parseLiteral(t token) (Value, error) {
	switch t.typ {
	case tokString:
		return StringValue(t.val), nil
	case tokNumber:
		if strings.Contains(t.val, ".") {
			f, err := strconv.ParseFloat(t.val, 64)
			if err != nil {
				return Value{}, fmt.Errorf("invalid float literal %q", t.val)
			}
			return FloatValue(f), nil
		}
		i, err := strconv.ParseInt(t.val, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid integer literal %q", t.val)
		}
		return IntValue(i), nil
	default:
		return Value{}, fmt.Errorf("expected literal, got %s", t)
	}
}

// parseDataType maps a column type keyword to a DataType.
func parseDataType(name string) (DataType, bool) {
	switch strings.ToUpper(name) {
	case "INT":
		return TypeInt, true
	case "FLOAT":
		return TypeFloat, true
	case "STRING":
		return TypeString, true
	default:
		return 0, false
	}
}
