// Package memstore is the in-memory catalog and table store.
//
// Committed tables live in a map keyed by name. Each transaction stages its
// writes in a per-table delta (appended rows plus removed positions) that is
// folded into the committed rows on Commit and dropped on Rollback.
package memstore

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"vddb/internal/dberr"
	"vddb/internal/logging"
	"vddb/internal/sql"
	"vddb/internal/storage"
)

type table struct {
	name string
	cols []sql.Column // column definitions
	rows []sql.Row    // committed rows in insertion order
}

func (t *table) colNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

type memEngine struct {
	mu        sync.RWMutex
	tables    map[string]*table
	observers []storage.Observer

	nextTxID uint64
	writer   *memTx // the open read-write transaction, if any

	log *slog.Logger
}

// New creates a new in-memory storage engine.
func New() storage.Engine {
	return &memEngine{
		tables: make(map[string]*table),
		log:    logging.WithComponent("memstore"),
	}
}

func tableNotFound(name string) error {
	return dberr.New(dberr.KindTableNotFound, "table %s does not exist", name)
}

// CreateTable adds a new empty table to the catalog.
func (e *memEngine) CreateTable(name string, cols []sql.Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("table %s needs at least one column", name)
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return fmt.Errorf("duplicate column %q in table %s", c.Name, name)
		}
		seen[c.Name] = true
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.tables[name]; exists {
		return dberr.New(dberr.KindDuplicateTable, "table %s already exists", name)
	}

	e.tables[name] = &table{
		name: name,
		cols: append([]sql.Column(nil), cols...),
		rows: make([]sql.Row, 0),
	}
	e.log.Debug("table created", "table", name, "columns", len(cols))
	return nil
}

// DropTable removes the table. Observers are told so they can forget any
// derived state; deltas staged against the table become stale and are
// ignored at commit.
func (e *memEngine) DropTable(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.tables[name]; !ok {
		return tableNotFound(name)
	}
	delete(e.tables, name)

	for _, obs := range e.observers {
		obs.TableDropped(name)
	}
	e.log.Debug("table dropped", "table", name)
	return nil
}

func (e *memEngine) ListTables() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *memEngine) TableSchema(name string) ([]sql.Column, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.tables[name]
	if !ok {
		return nil, tableNotFound(name)
	}
	return append([]sql.Column(nil), t.cols...), nil
}

func (e *memEngine) Subscribe(obs storage.Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, obs)
}

// Begin starts a new transaction. Only one read-write transaction may be
// open at a time.
func (e *memEngine) Begin(readOnly bool) (storage.Tx, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !readOnly && e.writer != nil {
		return nil, fmt.Errorf("transaction %d is still open", e.writer.id)
	}

	e.nextTxID++
	tx := &memTx{
		eng:      e,
		id:       e.nextTxID,
		readOnly: readOnly,
		deltas:   make(map[string]*delta),
	}
	if !readOnly {
		e.writer = tx
	}
	return tx, nil
}

// Commit folds every live delta into its table: removals first, then
// appends. Observers see the removed positions before the appended ones.
func (e *memEngine) Commit(tx storage.Tx) error {
	mt, err := e.own(tx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, len(mt.deltas))
	for name := range mt.deltas {
		names = append(names, name)
	}
	sort.Strings(names)

	log := logging.WithTx("memstore", mt.id)
	for _, name := range names {
		d := mt.deltas[name]
		t, ok := e.tables[name]
		if !ok || t != d.base {
			log.Debug("discarding delta of dropped table", "table", name)
			continue
		}
		e.fold(t, d)
	}

	mt.finish()
	if !mt.readOnly {
		log.Debug("transaction committed", "tables", len(names))
	}
	return nil
}

// fold applies one delta to its table. Callers hold e.mu.
func (e *memEngine) fold(t *table, d *delta) {
	if len(d.removed) > 0 {
		positions := d.removedPositions()
		kept := make([]sql.Row, 0, len(t.rows)-len(positions))
		for i, r := range t.rows {
			if !d.removed[i] {
				kept = append(kept, r)
			}
		}
		t.rows = kept
		for _, obs := range e.observers {
			obs.RowsRemoved(t.name, positions)
		}
	}

	if len(d.appended) > 0 {
		first := len(t.rows)
		t.rows = append(t.rows, d.appended...)
		for _, obs := range e.observers {
			obs.RowsAppended(t.name, first, d.appended)
		}
	}
}

// Rollback discards the transaction's deltas.
func (e *memEngine) Rollback(tx storage.Tx) error {
	mt, err := e.own(tx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	mt.finish()
	if !mt.readOnly {
		logging.WithTx("memstore", mt.id).Debug("transaction rolled back", "tables", len(mt.deltas))
	}
	return nil
}

func (e *memEngine) own(tx storage.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt.eng != e {
		return nil, fmt.Errorf("transaction does not belong to this store")
	}
	if mt.done {
		return nil, fmt.Errorf("transaction %d already finished", mt.id)
	}
	return mt, nil
}
