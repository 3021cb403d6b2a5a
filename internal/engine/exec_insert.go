package engine

import (
	"vddb/internal/sql"
	"vddb/internal/storage"
)

func (e *DBEngine) executeInsert(stmt *sql.InsertStmt) (*Result, error) {
	err := e.withWriteTx(func(tx storage.Tx) error {
		// Values must match schema order; the store checks arity and types.
		return tx.Insert(stmt.TableName, stmt.Values)
	})
	if err != nil {
		return nil, err
	}
	return message("1 row inserted"), nil
}
