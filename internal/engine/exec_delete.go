package engine

import (
	"vddb/internal/sql"
	"vddb/internal/storage"
)

func (e *DBEngine) executeDelete(stmt *sql.DeleteStmt) (*Result, error) {
	cols, err := e.store.TableSchema(stmt.TableName)
	if err != nil {
		return nil, err
	}

	pred, err := compileWhere(tableScope(stmt.TableName, cols), stmt.Where)
	if err != nil {
		return nil, err
	}

	var n int
	err = e.withWriteTx(func(tx storage.Tx) error {
		var err error
		n, err = tx.Delete(stmt.TableName, pred)
		return err
	})
	if err != nil {
		return nil, err
	}

	if n == 1 {
		return message("1 row deleted"), nil
	}
	return message("%d rows deleted", n), nil
}
