package sql

// parseCreateIndex parses:
//
//	MAKE INDEX ON Employees(Salary)
func parseCreateIndex(toks []token) (Statement, error) {
	p := newParser(toks, hintMakeIndex)

	if err := p.expectKeyword("MAKE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("INDEX"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	colName, err := p.expectName("column name")
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}

	return &CreateIndexStmt{
		TableName:  tableName,
		ColumnName: colName,
	}, nil
}

// parseDropIndex parses both spellings:
//
//	UNMAKE INDEX Salary ON Employees
//	DROP INDEX Salary ON Employees
func parseDropIndex(toks []token, hint string) (Statement, error) {
	p := newParser(toks, hint)

	if !p.acceptKeyword("UNMAKE") {
		if err := p.expectKeyword("DROP"); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("INDEX"); err != nil {
		return nil, err
	}
	colName, err := p.expectName("column name")
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}

	return &DropIndexStmt{
		TableName:  tableName,
		ColumnName: colName,
	}, nil
}
