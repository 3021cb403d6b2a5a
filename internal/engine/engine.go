package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"vddb/internal/index"
	"vddb/internal/logging"
	"vddb/internal/sql"
	"vddb/internal/storage"
)

// DBEngine is the main database engine struct. It owns the index manager
// and the session transaction; the store owns the catalog and the rows.
type DBEngine struct {
	// mu serializes whole commands for callers that share one engine.
	mu sync.Mutex

	started bool
	store   storage.Engine
	indexes *index.Manager

	inTx   bool
	currTx storage.Tx

	log *slog.Logger
}

// New creates a new DBEngine instance on top of store.
func New(store storage.Engine) *DBEngine {
	return &DBEngine{
		started: false,
		store:   store,
		indexes: index.NewManager(store),
		inTx:    false,
		log:     logging.WithComponent("engine"),
	}
}

// Start runs initialization steps for the engine.
func (e *DBEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("engine already started")
	}
	e.started = true
	return nil
}

// InTx reports whether a transaction is active.
func (e *DBEngine) InTx() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inTx
}

// CreateTable creates a new table in the underlying storage engine.
func (e *DBEngine) CreateTable(name string, cols []sql.Column) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("engine not started")
	}
	return e.store.CreateTable(name, cols)
}

// InsertRow inserts a single row into the given table, inside the session
// transaction when one is active.
func (e *DBEngine) InsertRow(tableName string, row sql.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return fmt.Errorf("engine not started")
	}
	return e.withWriteTx(func(tx storage.Tx) error {
		return tx.Insert(tableName, row)
	})
}

// SelectAll returns all visible rows from the given table.
func (e *DBEngine) SelectAll(tableName string) ([]string, []sql.Row, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, nil, fmt.Errorf("engine not started")
	}

	var (
		cols []string
		rows []sql.Row
	)
	err := e.withReadTx(func(tx storage.Tx) error {
		var err error
		cols, rows, err = tx.Scan(tableName)
		return err
	})
	return cols, rows, err
}

// ListTables returns the names of all tables in the storage engine.
func (e *DBEngine) ListTables() ([]string, error) {
	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	return e.store.ListTables()
}

// TableSchema returns the column definitions for a table.
func (e *DBEngine) TableSchema(name string) ([]sql.Column, error) {
	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	return e.store.TableSchema(name)
}

// Indexes lists the existing indexes.
func (e *DBEngine) Indexes() []index.Meta {
	return e.indexes.List()
}

// withWriteTx runs fn in the session transaction, or in a one-statement
// transaction that is committed immediately when none is active.
func (e *DBEngine) withWriteTx(fn func(tx storage.Tx) error) error {
	if e.inTx {
		return fn(e.currTx)
	}

	tx, err := e.store.Begin(false)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = e.store.Rollback(tx)
		return err
	}

	if err := e.store.Commit(tx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// withReadTx runs fn against what the session currently sees: the session
// transaction when active, the committed tables otherwise.
func (e *DBEngine) withReadTx(fn func(tx storage.Tx) error) error {
	if e.inTx {
		return fn(e.currTx)
	}

	tx, err := e.store.Begin(true)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = e.store.Rollback(tx)
		return err
	}

	if err := e.store.Commit(tx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
