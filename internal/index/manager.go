package index

import (
	"log/slog"
	"sort"
	"sync"

	"vddb/internal/dberr"
	"vddb/internal/logging"
	"vddb/internal/sql"
	"vddb/internal/storage"
)

// Manager owns every index of a store and keeps them in step with committed
// changes by observing the store.
type Manager struct {
	store storage.Engine

	mu   sync.Mutex
	open map[string]*Index // key: "table.column"

	log *slog.Logger
}

// NewManager creates an index manager and subscribes it to store.
func NewManager(store storage.Engine) *Manager {
	m := &Manager{
		store: store,
		open:  make(map[string]*Index),
		log:   logging.WithComponent("index"),
	}
	store.Subscribe(m)
	return m
}

// key for open map
func indexKey(table, col string) string {
	return table + "." + col
}

// Create builds an index on table.column from the committed rows.
func (m *Manager) Create(table, column string) error {
	cols, err := m.store.TableSchema(table)
	if err != nil {
		return err
	}
	pos := sql.ColumnIndex(cols, column)
	if pos < 0 {
		return dberr.New(dberr.KindColumnNotFound, "column %s does not exist in table %s", column, table)
	}

	k := indexKey(table, column)
	m.mu.Lock()
	_, exists := m.open[k]
	m.mu.Unlock()
	if exists {
		return dberr.New(dberr.KindIndexAlreadyExists, "index on %s already exists", k)
	}

	// A read-only transaction sees exactly the committed rows, so scan order
	// is position order.
	tx, err := m.store.Begin(true)
	if err != nil {
		return err
	}
	_, rows, err := tx.Scan(table)
	_ = m.store.Commit(tx)
	if err != nil {
		return err
	}

	idx := newIndex(Meta{TableName: table, Column: column, ColPos: pos, Type: cols[pos].Type})
	for i, r := range rows {
		if err := idx.insert(r[pos], i); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.open[k]; exists {
		return dberr.New(dberr.KindIndexAlreadyExists, "index on %s already exists", k)
	}
	m.open[k] = idx

	logging.WithTable("index", table).Debug("index built", "column", column, "rows", len(rows), "keys", idx.Len())
	return nil
}

// Drop removes the index on table.column.
func (m *Manager) Drop(table, column string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := indexKey(table, column)
	if _, ok := m.open[k]; !ok {
		return dberr.New(dberr.KindIndexNotFound, "no index on %s", k)
	}
	delete(m.open, k)
	m.log.Debug("index dropped", "table", table, "column", column)
	return nil
}

// Has reports whether table.column is indexed.
func (m *Manager) Has(table, column string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.open[indexKey(table, column)]
	return ok
}

// Lookup returns the committed positions of rows whose column satisfies
// "column op v". ok is false when the column has no index.
func (m *Manager) Lookup(table, column string, op sql.CompareOp, v sql.Value) (positions []int, ok bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.open[indexKey(table, column)]
	if !ok {
		return nil, false, nil
	}
	positions, err = idx.Range(op, v)
	return positions, true, err
}

// List returns the metadata of every index, ordered by table then column.
func (m *Manager) List() []Meta {
	m.mu.Lock()
	defer m.mu.Unlock()

	metas := make([]Meta, 0, len(m.open))
	for _, idx := range m.open {
		metas = append(metas, idx.meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		if metas[i].TableName != metas[j].TableName {
			return metas[i].TableName < metas[j].TableName
		}
		return metas[i].Column < metas[j].Column
	})
	return metas
}

// onTable calls fn for each index of table. Callers hold m.mu.
func (m *Manager) onTable(table string, fn func(k string, idx *Index)) {
	for k, idx := range m.open {
		if idx.meta.TableName == table {
			fn(k, idx)
		}
	}
}

func (m *Manager) RowsRemoved(table string, positions []int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onTable(table, func(_ string, idx *Index) {
		idx.removePositions(positions)
	})
}

func (m *Manager) RowsAppended(table string, first int, rows []sql.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onTable(table, func(k string, idx *Index) {
		for i, r := range rows {
			if err := idx.insert(r[idx.meta.ColPos], first+i); err != nil {
				m.log.Error("index update failed", "index", k, "position", first+i, "err", err)
			}
		}
	})
}

func (m *Manager) TableDropped(table string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onTable(table, func(k string, _ *Index) {
		delete(m.open, k)
		m.log.Debug("index dropped with table", "index", k)
	})
}
