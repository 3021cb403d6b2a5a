package sql

import "strings"

// parseSelect parses a SELECT statement.
// Supported forms (case-insensitive keywords):
//
//	SELECT * FROM Employees
//	SELECT Name, Salary FROM Employees WHERE Salary > 1000.0
//	SELECT SUM(Salary) FROM Employees
//	SELECT COUNT FROM Employees WHERE DeptID = 10
//	SELECT Employees.Name, Departments.Name FROM Employees JOIN Departments ON Employees.DeptID = Departments.ID
func parseSelect(toks []token) (Statement, error) {
	p := newParser(toks, hintSelect)

	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	stmt := &SelectStmt{}
	if err := p.parseSelectList(stmt); err != nil {
		return nil, err
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}
	stmt.TableName = tableName

	if p.acceptKeyword("JOIN") {
		join, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		stmt.Join = join
	}

	if p.acceptKeyword("WHERE") {
		where, err := p.parseWhere()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseSelectList(stmt *SelectStmt) error {
	if p.acceptSymbol("*") {
		stmt.Star = true
		return nil
	}

	if agg, ok, err := p.parseAggregate(); err != nil {
		return err
	} else if ok {
		if p.peek().typ == tokSymbol && p.peek().val == "," {
			return p.errorf("an aggregate cannot be combined with other columns")
		}
		stmt.Aggregate = agg
		return nil
	}

	for {
		if p.atAggregate() {
			return p.errorf("an aggregate cannot be combined with other columns")
		}
		ref, err := p.expectColumnRef()
		if err != nil {
			return err
		}
		stmt.Columns = append(stmt.Columns, ref)
		if !p.acceptSymbol(",") {
			return nil
		}
	}
}

// atAggregate reports whether the next tokens start an aggregate call.
func (p *parser) atAggregate() bool {
	t := p.peek()
	if t.typ != tokIdent {
		return false
	}
	switch strings.ToUpper(t.val) {
	case "COUNT":
		return true
	case "SUM", "AVG", "MIN", "MAX":
		next := p.toks[p.pos+1]
		return next.typ == tokSymbol && next.val == "("
	}
	return false
}

// parseAggregate reads SUM(col), AVG(col), MIN(col), MAX(col), COUNT or
// COUNT(*). ok is false when the select list does not start with one.
func (p *parser) parseAggregate() (*Aggregate, bool, error) {
	t := p.peek()
	if t.typ != tokIdent {
		return nil, false, nil
	}
	next := p.toks[p.pos+1]
	openParen := next.typ == tokSymbol && next.val == "("

	if t.is("COUNT") {
		p.next()
		if openParen {
			p.next()
			if !p.acceptSymbol("*") {
				return nil, false, p.errorf("COUNT takes no column argument")
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, false, err
			}
		}
		return &Aggregate{Func: AggCount}, true, nil
	}

	var fn AggFunc
	switch strings.ToUpper(t.val) {
	case "SUM":
		fn = AggSum
	case "AVG":
		fn = AggAvg
	case "MIN":
		fn = AggMin
	case "MAX":
		fn = AggMax
	default:
		return nil, false, nil
	}
	if !openParen {
		return nil, false, nil
	}

	p.next() // function name
	p.next() // (
	col, err := p.expectColumnRef()
	if err != nil {
		return nil, false, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, false, err
	}
	return &Aggregate{Func: fn, Column: col}, true, nil
}

// parseJoin reads "name2 ON a.col = b.col" after the JOIN keyword.
func (p *parser) parseJoin() (*JoinClause, error) {
	right, err := p.expectName("table name after JOIN")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	l, err := p.expectColumnRef()
	if err != nil {
		return nil, err
	}
	op := p.next()
	if op.typ != tokOperator || op.val != "=" {
		return nil, p.errorf("JOIN condition must be an equality, got %s", op)
	}
	r, err := p.expectColumnRef()
	if err != nil {
		return nil, err
	}
	return &JoinClause{TableName: right, Left: l, Right: r}, nil
}
