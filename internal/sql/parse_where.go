package sql

// parseWhere reads a condition after WHERE. OR binds looser than AND:
//
//	a = 1 OR b < 2.0 AND c != "x"   parses as   a = 1 OR (b < 2.0 AND c != "x")
func (p *parser) parseWhere() (*WhereExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &WhereExpr{Kind: ExprOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (*WhereExpr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("AND") {
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &WhereExpr{Kind: ExprAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseComparison reads "column op literal".
func (p *parser) parseComparison() (*WhereExpr, error) {
	col, err := p.expectColumnRef()
	if err != nil {
		return nil, err
	}

	t := p.next()
	if t.typ != tokOperator {
		return nil, p.errorf("expected comparison operator after %s, got %s", col, t)
	}
	var op CompareOp
	switch t.val {
	case "=":
		op = OpEq
	case "!=", "<>":
		op = OpNe
	case "<":
		op = OpLt
	case ">":
		op = OpGt
	case "<=":
		op = OpLe
	case ">=":
		op = OpGe
	default:
		return nil, p.errorf("unsupported operator %s", t)
	}

	val, err := p.expectLiteral()
	if err != nil {
		return nil, err
	}

	return &WhereExpr{
		Kind:   ExprCompare,
		Column: col,
		Op:     op,
		Value:  val,
	}, nil
}
