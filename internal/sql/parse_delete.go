package sql

// parseDelete parses:
//
//	DELETE FROM tableName [WHERE condition]
//
// Without WHERE every row of the table is deleted.
func parseDelete(toks []token) (Statement, error) {
	p := newParser(toks, hintDelete)

	if err := p.expectKeyword("DELETE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}

	var where *WhereExpr
	if p.acceptKeyword("WHERE") {
		where, err = p.parseWhere()
		if err != nil {
			return nil, err
		}
	}

	if err := p.expectEOF(); err != nil {
		return nil, err
	}

	return &DeleteStmt{
		TableName: tableName,
		Where:     where,
	}, nil
}
