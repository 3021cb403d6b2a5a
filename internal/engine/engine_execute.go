package engine

import (
	"fmt"

	"vddb/internal/sql"
)

// Result is the outcome of one successful command. SELECT fills Columns and
// Rows; every other command sets Message. Exit asks the caller to end the
// session.
type Result struct {
	Columns []string
	Rows    []sql.Row
	Message string
	Exit    bool
}

// IsQuery reports whether the result carries a row set.
func (r *Result) IsQuery() bool {
	return r.Columns != nil
}

func message(format string, args ...any) *Result {
	return &Result{Message: fmt.Sprintf(format, args...)}
}

// ExecuteLine parses one command line and executes it.
func (e *DBEngine) ExecuteLine(line string) (*Result, error) {
	stmt, err := sql.Parse(line)
	if err != nil {
		return nil, err
	}
	return e.Execute(stmt)
}

// Execute takes a parsed Statement and executes it using the engine. An
// error aborts only this command; the engine stays usable.
func (e *DBEngine) Execute(stmt sql.Statement) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	e.log.Debug("execute", "stmt", fmt.Sprintf("%T", stmt), "in_tx", e.inTx)

	res, err := e.execute(stmt)
	if err != nil {
		e.log.Debug("command failed", "stmt", fmt.Sprintf("%T", stmt), "err", err)
		return nil, err
	}
	return res, nil
}

func (e *DBEngine) execute(stmt sql.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *sql.CreateTableStmt:
		return e.executeCreateTable(s)

	case *sql.DropTableStmt:
		return e.executeDropTable(s)

	case *sql.InsertStmt:
		return e.executeInsert(s)

	case *sql.SelectStmt:
		if s.Join != nil {
			return e.executeJoin(s)
		}
		return e.executeSelect(s)

	case *sql.DeleteStmt:
		return e.executeDelete(s)

	case *sql.BeginTxStmt:
		if err := e.beginTx(); err != nil {
			return nil, err
		}
		return message("transaction started"), nil

	case *sql.CommitTxStmt:
		if err := e.commitTx(); err != nil {
			return nil, err
		}
		return message("transaction committed"), nil

	case *sql.RollbackTxStmt:
		if err := e.rollbackTx(); err != nil {
			return nil, err
		}
		return message("transaction rolled back"), nil

	case *sql.CreateIndexStmt:
		return e.executeCreateIndex(s)

	case *sql.DropIndexStmt:
		return e.executeDropIndex(s)

	case *sql.ExitStmt:
		return &Result{Message: "bye", Exit: true}, nil

	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
}
