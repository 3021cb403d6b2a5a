package engine

import (
	"vddb/internal/sql"
)

// Table and index definitions are applied directly to the catalog, also
// while a transaction is active.

func (e *DBEngine) executeCreateTable(s *sql.CreateTableStmt) (*Result, error) {
	if err := e.store.CreateTable(s.TableName, s.Columns); err != nil {
		return nil, err
	}
	return message("table %s created", s.TableName), nil
}

func (e *DBEngine) executeDropTable(s *sql.DropTableStmt) (*Result, error) {
	if err := e.store.DropTable(s.TableName); err != nil {
		return nil, err
	}
	return message("table %s dropped", s.TableName), nil
}

func (e *DBEngine) executeCreateIndex(s *sql.CreateIndexStmt) (*Result, error) {
	if err := e.indexes.Create(s.TableName, s.ColumnName); err != nil {
		return nil, err
	}
	return message("index on %s(%s) created", s.TableName, s.ColumnName), nil
}

func (e *DBEngine) executeDropIndex(s *sql.DropIndexStmt) (*Result, error) {
	if err := e.indexes.Drop(s.TableName, s.ColumnName); err != nil {
		return nil, err
	}
	return message("index on %s(%s) dropped", s.TableName, s.ColumnName), nil
}
