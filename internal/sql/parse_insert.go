package sql

// parseInsert parses an INSERT INTO ... VALUES(...) statement.
// Example supported syntax:
//
//	INSERT INTO Employees VALUES(1, "Alice", 1000.0, 10)
func parseInsert(toks []token) (Statement, error) {
	p := newParser(toks, hintInsert)

	if err := p.expectKeyword("INSERT"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INTO"); err != nil {
		return nil, err
	}

	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}

	if err := p.expectKeyword("VALUES"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	var vals Row
	for {
		v, err := p.expectLiteral()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)

		if p.acceptSymbol(",") {
			continue
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		break
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}

	return &InsertStmt{
		TableName: tableName,
		Values:    vals,
	}, nil
}
