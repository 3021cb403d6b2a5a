package storage

import "vddb/internal/sql"

// Tx represents a storage-level transaction.
//
// Reads see the committed tables merged with this transaction's own
// uncommitted changes. Writes are validated before anything is staged, so a
// failed call leaves the transaction unchanged.
type Tx interface {
	// ID identifies the transaction in logs.
	ID() uint64

	// Insert validates row against the table schema and stages it.
	Insert(tableName string, row sql.Row) error

	// Delete stages removal of every visible row for which match returns
	// true. It returns the number of rows removed.
	Delete(tableName string, match func(sql.Row) bool) (int, error)

	// Scan returns the column names and the visible rows in table order.
	Scan(tableName string) (cols []string, rows []sql.Row, err error)

	// Fetch returns the visible rows at the given committed positions, in
	// the order given. Positions removed by this transaction are skipped.
	Fetch(tableName string, positions []int) ([]sql.Row, error)

	// Pending returns the rows this transaction appended to the table and has
	// not removed again.
	Pending(tableName string) ([]sql.Row, error)
}

// Observer is notified when changes reach a committed table. Positions are
// row positions in the committed table.
type Observer interface {
	// RowsRemoved reports positions (ascending) removed from the table.
	// Later rows have already moved down to close the gaps.
	RowsRemoved(tableName string, positions []int)

	// RowsAppended reports rows appended at positions first, first+1, ...
	RowsAppended(tableName string, first int, rows []sql.Row)

	// TableDropped reports that the table no longer exists.
	TableDropped(tableName string)
}

// Engine is a storage engine that owns the catalog and hands out
// transactions.
//
// Different implementations are possible; memstore keeps everything in
// memory for the lifetime of the process.
type Engine interface {
	// Begin starts a new transaction.
	// readOnly = true means the transaction must not perform writes.
	Begin(readOnly bool) (Tx, error)

	// Commit folds the transaction's changes into the committed tables.
	Commit(tx Tx) error

	// Rollback aborts a transaction and discards its changes.
	Rollback(tx Tx) error

	// CreateTable creates a new empty table with the given columns.
	CreateTable(name string, cols []sql.Column) error

	// DropTable removes a table and everything staged against it.
	DropTable(name string) error

	// ListTables returns table names in sorted order.
	ListTables() ([]string, error)

	// TableSchema returns the column definitions for a table.
	TableSchema(name string) ([]sql.Column, error)

	// Subscribe registers an observer of committed changes.
	Subscribe(obs Observer)
}
