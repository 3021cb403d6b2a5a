package sql

// parseCreateTable parses:
//
//	CREATE TABLE Employees(ID INT, Name STRING, Salary FLOAT, DeptID INT)
func parseCreateTable(toks []token) (Statement, error) {
	p := newParser(toks, hintCreateTable)

	if err := p.expectKeyword("CREATE"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}

	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}

	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}

	var columns []Column
	seen := make(map[string]bool)
	for {
		colName, err := p.expectName("column name")
		if err != nil {
			return nil, err
		}
		if seen[colName] {
			return nil, p.errorf("duplicate column %q", colName)
		}
		seen[colName] = true

		typeTok := p.next()
		dt, ok := parseDataType(typeTok.val)
		if typeTok.typ != tokIdent || !ok {
			return nil, p.errorf("unknown column type %s for %q (want INT, FLOAT or STRING)", typeTok, colName)
		}

		columns = append(columns, Column{Name: colName, Type: dt})

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

	return &CreateTableStmt{
		TableName: tableName,
		Columns:   columns,
	}, nil
}

// parseDropTable parses:
//
//	DROP TABLE Employees
func parseDropTable(toks []token) (Statement, error) {
	p := newParser(toks, hintDropTable)

	if err := p.expectKeyword("DROP"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TABLE"); err != nil {
		return nil, err
	}
	tableName, err := p.expectName("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &DropTableStmt{TableName: tableName}, nil
}
