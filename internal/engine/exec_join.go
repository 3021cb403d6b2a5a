package engine

import (
	"fmt"

	"vddb/internal/dberr"
	"vddb/internal/sql"
	"vddb/internal/storage"
)

// joinPlan is a resolved equi-join: leftPos and rightPos are positions in
// the joined row layout.
type joinPlan struct {
	left, right string
	sc          scope
	leftPos     int
	rightPos    int
	rightCol    sql.Column
	split       int // number of left columns
}

func (e *DBEngine) planJoin(s *sql.SelectStmt) (*joinPlan, error) {
	left, right := s.TableName, s.Join.TableName
	if left == right {
		return nil, dberr.New(dberr.KindSyntax, "cannot join table %s with itself", left)
	}

	leftCols, err := e.store.TableSchema(left)
	if err != nil {
		return nil, err
	}
	rightCols, err := e.store.TableSchema(right)
	if err != nil {
		return nil, err
	}

	p := &joinPlan{
		left:  left,
		right: right,
		sc:    joinScope(left, leftCols, right, rightCols),
		split: len(leftCols),
	}

	a, aCol, err := p.sc.resolve(s.Join.Left)
	if err != nil {
		return nil, err
	}
	b, bCol, err := p.sc.resolve(s.Join.Right)
	if err != nil {
		return nil, err
	}
	// ON may name the two sides in either order.
	if a >= p.split {
		a, b = b, a
		aCol, bCol = bCol, aCol
	}
	if a >= p.split || b < p.split {
		return nil, dberr.New(dberr.KindColumnNotFound,
			"join condition %s = %s must compare a column of %s with a column of %s",
			s.Join.Left, s.Join.Right, left, right)
	}
	if aCol.Type != bCol.Type {
		return nil, dberr.New(dberr.KindTypeMismatch, "cannot join %s column %s with %s column %s",
			aCol.Type, aCol.Name, bCol.Type, bCol.Name)
	}

	p.leftPos, p.rightPos, p.rightCol = a, b, bCol
	return p, nil
}

// executeJoin runs an inner equi-join. The FROM table drives; for each of
// its rows the matching right rows are found through the right column's
// index when there is one, else by scanning.
func (e *DBEngine) executeJoin(s *sql.SelectStmt) (*Result, error) {
	p, err := e.planJoin(s)
	if err != nil {
		return nil, err
	}

	pred, err := compileWhere(p.sc, s.Where)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = e.withReadTx(func(tx storage.Tx) error {
		leftRows, err := e.candidates(tx, p.left, p.sc, s.Where)
		if err != nil {
			return err
		}

		matcher, err := e.rightMatcher(tx, p)
		if err != nil {
			return err
		}

		var out []sql.Row
		for _, l := range leftRows {
			matches, err := matcher(l[p.leftPos])
			if err != nil {
				return err
			}
			for _, r := range matches {
				joined := make(sql.Row, 0, len(l)+len(r))
				joined = append(joined, l...)
				joined = append(joined, r...)
				if pred(joined) {
					out = append(out, joined)
				}
			}
		}

		res, err = project(p.sc, s, out)
		return err
	})
	return res, err
}

// rightMatcher returns a function yielding the right rows whose join column
// equals a key, in right table order.
func (e *DBEngine) rightMatcher(tx storage.Tx, p *joinPlan) (func(sql.Value) ([]sql.Row, error), error) {
	col := p.rightPos - p.split

	if !e.indexes.Has(p.right, p.rightCol.Name) {
		_, rows, err := tx.Scan(p.right)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		return func(key sql.Value) ([]sql.Row, error) {
			return matching(rows, col, key), nil
		}, nil
	}

	pending, err := tx.Pending(p.right)
	if err != nil {
		return nil, fmt.Errorf("pending: %w", err)
	}
	e.log.Debug("join through index", "table", p.right, "column", p.rightCol.Name)

	return func(key sql.Value) ([]sql.Row, error) {
		positions, _, err := e.indexes.Lookup(p.right, p.rightCol.Name, sql.OpEq, key)
		if err != nil {
			return nil, err
		}
		rows, err := tx.Fetch(p.right, positions)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		return append(rows, matching(pending, col, key)...), nil
	}, nil
}

func matching(rows []sql.Row, col int, key sql.Value) []sql.Row {
	var out []sql.Row
	for _, r := range rows {
		if sql.Equal(r[col], key) {
			out = append(out, r)
		}
	}
	return out
}
