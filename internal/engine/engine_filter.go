package engine

import (
	"vddb/internal/dberr"
	"vddb/internal/sql"
)

// scopeCol is one column of the row stream a statement works on, tagged
// with the table it came from.
type scopeCol struct {
	table string
	col   sql.Column
}

// scope describes the layout of the rows being filtered and projected: one
// table's columns, or the left table's followed by the right table's.
type scope []scopeCol

func tableScope(table string, cols []sql.Column) scope {
	sc := make(scope, len(cols))
	for i, c := range cols {
		sc[i] = scopeCol{table: table, col: c}
	}
	return sc
}

func joinScope(left string, leftCols []sql.Column, right string, rightCols []sql.Column) scope {
	return append(tableScope(left, leftCols), tableScope(right, rightCols)...)
}

// resolve maps a column reference to its position in the row stream. An
// unqualified name must match exactly one column.
func (sc scope) resolve(ref sql.ColumnRef) (int, sql.Column, error) {
	found := -1
	for i, c := range sc {
		if c.col.Name != ref.Name || (ref.Table != "" && c.table != ref.Table) {
			continue
		}
		if found >= 0 {
			return -1, sql.Column{}, dberr.New(dberr.KindColumnNotFound,
				"column %s is ambiguous; qualify it as %s.%s or %s.%s",
				ref.Name, sc[found].table, ref.Name, c.table, ref.Name)
		}
		found = i
	}
	if found < 0 {
		return -1, sql.Column{}, dberr.New(dberr.KindColumnNotFound, "column %s does not exist", ref)
	}
	return found, sc[found].col, nil
}

// headers returns the column names for SELECT *. Joined rows use
// qualified names.
func (sc scope) headers(qualified bool) []string {
	out := make([]string, len(sc))
	for i, c := range sc {
		if qualified {
			out[i] = c.table + "." + c.col.Name
		} else {
			out[i] = c.col.Name
		}
	}
	return out
}

type predicate func(sql.Row) bool

func matchAll(sql.Row) bool { return true }

// compileWhere resolves every column of the condition and checks literal
// types up front, so evaluating the predicate cannot fail part way through
// a table.
func compileWhere(sc scope, where *sql.WhereExpr) (predicate, error) {
	if where == nil {
		return matchAll, nil
	}

	switch where.Kind {
	case sql.ExprAnd, sql.ExprOr:
		left, err := compileWhere(sc, where.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileWhere(sc, where.Right)
		if err != nil {
			return nil, err
		}
		if where.Kind == sql.ExprAnd {
			return func(r sql.Row) bool { return left(r) && right(r) }, nil
		}
		return func(r sql.Row) bool { return left(r) || right(r) }, nil
	}

	pos, col, err := sc.resolve(where.Column)
	if err != nil {
		return nil, err
	}
	if col.Type != where.Value.Type {
		return nil, dberr.New(dberr.KindTypeMismatch, "column %s is %s, cannot compare with %s %s",
			where.Column, col.Type, where.Value.Type, where.Value.Literal())
	}

	op, v := where.Op, where.Value
	return func(r sql.Row) bool {
		c, err := sql.Compare(r[pos], v)
		return err == nil && op.Holds(c)
	}, nil
}

// filterRows keeps the rows for which pred holds, preserving order.
func filterRows(rows []sql.Row, pred predicate) []sql.Row {
	out := make([]sql.Row, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// project applies the select list to rows laid out as sc.
func project(sc scope, s *sql.SelectStmt, rows []sql.Row) (*Result, error) {
	if s.Aggregate != nil {
		return aggregate(sc, s.Aggregate, rows)
	}

	if s.Star {
		return &Result{Columns: sc.headers(s.Join != nil), Rows: rows}, nil
	}

	// Resolve every requested column before touching any row.
	indexes := make([]int, len(s.Columns))
	outCols := make([]string, len(s.Columns))
	for i, ref := range s.Columns {
		pos, _, err := sc.resolve(ref)
		if err != nil {
			return nil, err
		}
		indexes[i] = pos
		outCols[i] = ref.String()
	}

	outRows := make([]sql.Row, 0, len(rows))
	for _, r := range rows {
		proj := make(sql.Row, len(indexes))
		for i, idx := range indexes {
			proj[i] = r[idx]
		}
		outRows = append(outRows, proj)
	}

	return &Result{Columns: outCols, Rows: outRows}, nil
}
