package engine

import (
	"fmt"

	"vddb/internal/sql"
	"vddb/internal/storage"
)

// executeSelect runs a single-table SELECT.
func (e *DBEngine) executeSelect(s *sql.SelectStmt) (*Result, error) {
	cols, err := e.store.TableSchema(s.TableName)
	if err != nil {
		return nil, err
	}
	sc := tableScope(s.TableName, cols)

	pred, err := compileWhere(sc, s.Where)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = e.withReadTx(func(tx storage.Tx) error {
		rows, err := e.candidates(tx, s.TableName, sc, s.Where)
		if err != nil {
			return err
		}
		res, err = project(sc, s, filterRows(rows, pred))
		return err
	})
	return res, err
}

// candidates returns table's rows that may satisfy where, in table order.
// When where (or one AND-ed arm of it) compares an indexed column of table,
// the committed candidates come from the index; otherwise the table is
// scanned. Rows the transaction appended are always included. Callers still
// apply the full predicate.
func (e *DBEngine) candidates(tx storage.Tx, table string, sc scope, where *sql.WhereExpr) ([]sql.Row, error) {
	leaf := e.indexedLeaf(table, sc, where)
	if leaf == nil {
		_, rows, err := tx.Scan(table)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		return rows, nil
	}

	positions, _, err := e.indexes.Lookup(table, leaf.Column.Name, leaf.Op, leaf.Value)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Fetch(table, positions)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	pending, err := tx.Pending(table)
	if err != nil {
		return nil, fmt.Errorf("pending: %w", err)
	}

	e.log.Debug("index lookup", "table", table, "column", leaf.Column.Name, "op", leaf.Op.String(),
		"hits", len(rows), "pending", len(pending))
	return append(rows, pending...), nil
}

// indexedLeaf picks a comparison that an index on table can answer. Only
// leaves reachable through AND qualify: every row satisfying where then
// satisfies the leaf.
func (e *DBEngine) indexedLeaf(table string, sc scope, where *sql.WhereExpr) *sql.WhereExpr {
	if where == nil {
		return nil
	}

	switch where.Kind {
	case sql.ExprAnd:
		if leaf := e.indexedLeaf(table, sc, where.Left); leaf != nil {
			return leaf
		}
		return e.indexedLeaf(table, sc, where.Right)
	case sql.ExprOr:
		return nil
	}

	if where.Op == sql.OpNe {
		return nil
	}
	pos, col, err := sc.resolve(where.Column)
	if err != nil || sc[pos].table != table || col.Type != where.Value.Type {
		return nil
	}
	if !e.indexes.Has(table, col.Name) {
		return nil
	}
	return where
}
