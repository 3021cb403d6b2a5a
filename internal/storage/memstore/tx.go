package memstore

import (
	"fmt"
	"sort"

	"vddb/internal/sql"
)

// delta holds one transaction's uncommitted changes to one table.
type delta struct {
	base     *table
	appended []sql.Row
	removed  map[int]bool // committed positions marked for removal
}

func (d *delta) removedPositions() []int {
	positions := make([]int, 0, len(d.removed))
	for p := range d.removed {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	return positions
}

// memTx represents a transaction on top of memEngine.
type memTx struct {
	eng      *memEngine
	id       uint64
	readOnly bool
	done     bool
	deltas   map[string]*delta
}

func (tx *memTx) ID() uint64 { return tx.id }

// finish closes the transaction. Callers hold eng.mu.
func (tx *memTx) finish() {
	tx.done = true
	if tx.eng.writer == tx {
		tx.eng.writer = nil
	}
}

func (tx *memTx) check(write bool) error {
	if tx.done {
		return fmt.Errorf("transaction %d already finished", tx.id)
	}
	if write && tx.readOnly {
		return fmt.Errorf("cannot write in a read-only transaction")
	}
	return nil
}

// view returns the committed table and this transaction's live delta for
// it (nil when untouched). A delta staged against a table that has since
// been dropped or recreated is not live.
func (tx *memTx) view(name string) (*table, *delta, error) {
	t, ok := tx.eng.tables[name]
	if !ok {
		return nil, nil, tableNotFound(name)
	}
	d := tx.deltas[name]
	if d != nil && d.base != t {
		d = nil
	}
	return t, d, nil
}

// touch returns the delta for a table, allocating it on first write.
func (tx *memTx) touch(name string) (*table, *delta, error) {
	t, d, err := tx.view(name)
	if err != nil {
		return nil, nil, err
	}
	if d == nil {
		d = &delta{base: t, removed: make(map[int]bool)}
		tx.deltas[name] = d
	}
	return t, d, nil
}

// Insert adds a row into a table inside this transaction.
func (tx *memTx) Insert(tableName string, row sql.Row) error {
	if err := tx.check(true); err != nil {
		return err
	}

	tx.eng.mu.Lock()
	defer tx.eng.mu.Unlock()

	t, _, err := tx.view(tableName)
	if err != nil {
		return err
	}
	// Type check each value against the column definition before staging.
	if err := sql.CheckRow(t.cols, row); err != nil {
		return err
	}

	_, d, _ := tx.touch(tableName)
	d.appended = append(d.appended, row.Clone())
	return nil
}

func (tx *memTx) Delete(tableName string, match func(sql.Row) bool) (int, error) {
	if err := tx.check(true); err != nil {
		return 0, err
	}

	tx.eng.mu.Lock()
	defer tx.eng.mu.Unlock()

	t, d, err := tx.touch(tableName)
	if err != nil {
		return 0, err
	}

	var hits []int
	for i, r := range t.rows {
		if !d.removed[i] && match(r) {
			hits = append(hits, i)
		}
	}

	kept := d.appended[:0:0]
	dropped := 0
	for _, r := range d.appended {
		if match(r) {
			dropped++
			continue
		}
		kept = append(kept, r)
	}

	for _, i := range hits {
		d.removed[i] = true
	}
	d.appended = kept

	return len(hits) + dropped, nil
}

func (tx *memTx) Scan(tableName string) (col []string, rows []sql.Row, err error) {
	if err := tx.check(false); err != nil {
		return nil, nil, err
	}

	tx.eng.mu.RLock()
	defer tx.eng.mu.RUnlock()

	t, d, err := tx.view(tableName)
	if err != nil {
		return nil, nil, err
	}

	// Return copies to prevent callers from mutating stored data.
	rows = make([]sql.Row, 0, len(t.rows))
	for i, r := range t.rows {
		if d != nil && d.removed[i] {
			continue
		}
		rows = append(rows, r.Clone())
	}
	if d != nil {
		for _, r := range d.appended {
			rows = append(rows, r.Clone())
		}
	}

	return t.colNames(), rows, nil
}

func (tx *memTx) Fetch(tableName string, positions []int) ([]sql.Row, error) {
	if err := tx.check(false); err != nil {
		return nil, err
	}

	tx.eng.mu.RLock()
	defer tx.eng.mu.RUnlock()

	t, d, err := tx.view(tableName)
	if err != nil {
		return nil, err
	}

	rows := make([]sql.Row, 0, len(positions))
	for _, p := range positions {
		if p < 0 || p >= len(t.rows) {
			return nil, fmt.Errorf("row position %d out of range for table %s (%d rows)", p, tableName, len(t.rows))
		}
		if d != nil && d.removed[p] {
			continue
		}
		rows = append(rows, t.rows[p].Clone())
	}
	return rows, nil
}

func (tx *memTx) Pending(tableName string) ([]sql.Row, error) {
	if err := tx.check(false); err != nil {
		return nil, err
	}

	tx.eng.mu.RLock()
	defer tx.eng.mu.RUnlock()

	_, d, err := tx.view(tableName)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	rows := make([]sql.Row, len(d.appended))
	for i, r := range d.appended {
		rows[i] = r.Clone()
	}
	return rows, nil
}
