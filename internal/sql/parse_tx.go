package sql

// parseBegin accepts START TRANSACTION, and BEGIN [TRANSACTION] as a synonym.
func parseBegin(toks []token) (Statement, error) {
	p := newParser(toks, hintStart)

	if p.acceptKeyword("BEGIN") {
		p.acceptKeyword("TRANSACTION")
	} else {
		if err := p.expectKeyword("START"); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("TRANSACTION"); err != nil {
			return nil, err
		}
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &BeginTxStmt{}, nil
}

// parseCommit accepts COMMIT [TRANSACTION].
func parseCommit(toks []token) (Statement, error) {
	p := newParser(toks, hintCommit)

	if err := p.expectKeyword("COMMIT"); err != nil {
		return nil, err
	}
	p.acceptKeyword("TRANSACTION")
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &CommitTxStmt{}, nil
}

// parseRollback accepts ROLLBACK [TRANSACTION].
func parseRollback(toks []token) (Statement, error) {
	p := newParser(toks, hintRollback)

	if err := p.expectKeyword("ROLLBACK"); err != nil {
		return nil, err
	}
	p.acceptKeyword("TRANSACTION")
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &RollbackTxStmt{}, nil
}

func parseExit(toks []token) (Statement, error) {
	p := newParser(toks, hintExit)

	if err := p.expectKeyword("EXIT"); err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return &ExitStmt{}, nil
}
