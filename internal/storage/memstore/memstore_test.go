package memstore

import (
	"errors"
	"reflect"
	"testing"

	"vddb/internal/dberr"
	"vddb/internal/sql"
	"vddb/internal/storage"
)

func employeeCols() []sql.Column {
	return []sql.Column{
		{Name: "ID", Type: sql.TypeInt},
		{Name: "Name", Type: sql.TypeString},
		{Name: "Salary", Type: sql.TypeFloat},
	}
}

func employee(id int64, name string, salary float64) sql.Row {
	return sql.Row{sql.IntValue(id), sql.StringValue(name), sql.FloatValue(salary)}
}

// ids extracts the ID column so tests can compare row order cheaply.
func ids(rows []sql.Row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r[0].I64
	}
	return out
}

func mustScan(t *testing.T, store storage.Engine, table string) []sql.Row {
	t.Helper()
	tx, err := store.Begin(true)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer store.Commit(tx)

	_, rows, err := tx.Scan(table)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return rows
}

type removal struct {
	table     string
	positions []int
}

type appendEvent struct {
	table string
	first int
	count int
}

type recordingObserver struct {
	removed  []removal
	appended []appendEvent
	dropped  []string
}

func (o *recordingObserver) RowsRemoved(table string, positions []int) {
	o.removed = append(o.removed, removal{table, append([]int(nil), positions...)})
}

func (o *recordingObserver) RowsAppended(table string, first int, rows []sql.Row) {
	o.appended = append(o.appended, appendEvent{table, first, len(rows)})
}

func (o *recordingObserver) TableDropped(table string) {
	o.dropped = append(o.dropped, table)
}

// TestMemstoreCreateInsertScan verifies that we can create a table,
// insert rows, and read them back with Scan.
func TestMemstoreCreateInsertScan(t *testing.T) {
	store := New()

	// 1. Create table "Employees"
	if err := store.CreateTable("Employees", employeeCols()); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	// 2. Begin a read-write transaction
	tx, err := store.Begin(false /* readOnly */)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	// 3. Insert two rows
	if err := tx.Insert("Employees", employee(1, "Alice", 1000.0)); err != nil {
		t.Fatalf("Insert row1 failed: %v", err)
	}
	if err := tx.Insert("Employees", employee(2, "Bob", 1500.0)); err != nil {
		t.Fatalf("Insert row2 failed: %v", err)
	}

	// 4. The transaction reads its own writes.
	cols, rows, err := tx.Scan("Employees")
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows inside the transaction, got %d", len(rows))
	}

	// 5. Nothing is committed yet.
	if got := mustScan(t, store, "Employees"); len(got) != 0 {
		t.Fatalf("expected uncommitted rows to be invisible, got %d rows", len(got))
	}

	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	expectedCols := []string{"ID", "Name", "Salary"}
	if !reflect.DeepEqual(cols, expectedCols) {
		t.Fatalf("expected columns %v, got %v", expectedCols, cols)
	}

	rows = mustScan(t, store, "Employees")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	checkRow := func(row sql.Row, id int64, name string, salary float64) {
		if len(row) != 3 {
			t.Fatalf("expected 3 values in row, got %d", len(row))
		}
		if row[0].Type != sql.TypeInt || row[0].I64 != id {
			t.Fatalf("id: expected %d, got (type=%v, value=%d)", id, row[0].Type, row[0].I64)
		}
		if row[1].Type != sql.TypeString || row[1].S != name {
			t.Fatalf("name: expected %q, got (type=%v, value=%q)", name, row[1].Type, row[1].S)
		}
		if row[2].Type != sql.TypeFloat || row[2].F64 != salary {
			t.Fatalf("salary: expected %v, got (type=%v, value=%v)", salary, row[2].Type, row[2].F64)
		}
	}

	checkRow(rows[0], 1, "Alice", 1000.0)
	checkRow(rows[1], 2, "Bob", 1500.0)
}

func TestMemstoreInsertValidation(t *testing.T) {
	store := New()
	_ = store.CreateTable("Employees", employeeCols())

	tx, _ := store.Begin(false)

	err := tx.Insert("Employees", sql.Row{sql.IntValue(1), sql.StringValue("Alice")})
	if !errors.Is(err, dberr.ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}

	err = tx.Insert("Employees", sql.Row{sql.IntValue(1), sql.StringValue("Alice"), sql.IntValue(1000)})
	if !errors.Is(err, dberr.ErrTypeMismatch) {
		t.Fatalf("expected TypeMismatch, got %v", err)
	}

	err = tx.Insert("Nope", employee(1, "Alice", 1.0))
	if !errors.Is(err, dberr.ErrTableNotFound) {
		t.Fatalf("expected TableNotFound, got %v", err)
	}

	if _, rows, _ := tx.Scan("Employees"); len(rows) != 0 {
		t.Fatalf("expected failed inserts to stage nothing, got %d rows", len(rows))
	}
	_ = store.Commit(tx)
}

func TestMemstoreDuplicateAndMissingTables(t *testing.T) {
	store := New()
	if err := store.CreateTable("Employees", employeeCols()); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}
	if err := store.CreateTable("Employees", employeeCols()); !errors.Is(err, dberr.ErrDuplicateTable) {
		t.Fatalf("expected DuplicateTable, got %v", err)
	}
	if err := store.DropTable("Departments"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Fatalf("expected TableNotFound, got %v", err)
	}
	if _, err := store.TableSchema("Departments"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Fatalf("expected TableNotFound, got %v", err)
	}
	if err := store.CreateTable("Bad", []sql.Column{{Name: "a", Type: sql.TypeInt}, {Name: "a", Type: sql.TypeInt}}); err == nil {
		t.Fatalf("expected duplicate column error")
	}
}

func TestMemstoreDeletePreservesOrder(t *testing.T) {
	store := New()
	obs := &recordingObserver{}
	store.Subscribe(obs)
	_ = store.CreateTable("Employees", employeeCols())

	tx, _ := store.Begin(false)
	for i, s := range []float64{1000.0, 1500.0, 1200.0, 900.0, 2000.0} {
		_ = tx.Insert("Employees", employee(int64(i+1), "e", s))
	}
	_ = store.Commit(tx)

	tx, _ = store.Begin(false)
	n, err := tx.Delete("Employees", func(r sql.Row) bool { return r[2].F64 < 1500.0 })
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted rows, got %d", n)
	}
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if got := ids(mustScan(t, store, "Employees")); !reflect.DeepEqual(got, []int64{2, 5}) {
		t.Fatalf("expected survivors [2 5], got %v", got)
	}

	if len(obs.removed) != 1 || !reflect.DeepEqual(obs.removed[0].positions, []int{0, 2, 3}) {
		t.Fatalf("unexpected removal notifications: %+v", obs.removed)
	}
	if len(obs.appended) != 1 || obs.appended[0] != (appendEvent{"Employees", 0, 5}) {
		t.Fatalf("unexpected append notifications: %+v", obs.appended)
	}
}

func TestMemstoreRollbackDiscardsDelta(t *testing.T) {
	store := New()
	obs := &recordingObserver{}
	store.Subscribe(obs)
	_ = store.CreateTable("Employees", employeeCols())

	tx, _ := store.Begin(false)
	_ = tx.Insert("Employees", employee(1, "Alice", 1000.0))
	_ = store.Commit(tx)
	before := mustScan(t, store, "Employees")

	tx, _ = store.Begin(false)
	_ = tx.Insert("Employees", employee(2, "Bob", 1500.0))
	if _, err := tx.Delete("Employees", func(sql.Row) bool { return true }); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_ = tx.Insert("Employees", employee(3, "Carol", 1200.0))

	if _, rows, _ := tx.Scan("Employees"); !reflect.DeepEqual(ids(rows), []int64{3}) {
		t.Fatalf("expected only row 3 inside the transaction, got %v", ids(rows))
	}

	if err := store.Rollback(tx); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if after := mustScan(t, store, "Employees"); !reflect.DeepEqual(after, before) {
		t.Fatalf("rollback changed the table: before %v, after %v", before, after)
	}
	if len(obs.removed) != 0 || len(obs.appended) != 1 {
		t.Fatalf("rollback must not notify observers: %+v", obs)
	}
	if err := store.Commit(tx); err == nil {
		t.Fatalf("expected error when committing a finished transaction")
	}
}

func TestMemstoreFetchAndPending(t *testing.T) {
	store := New()
	_ = store.CreateTable("Employees", employeeCols())

	tx, _ := store.Begin(false)
	for i := 1; i <= 3; i++ {
		_ = tx.Insert("Employees", employee(int64(i), "e", 1.0))
	}
	_ = store.Commit(tx)

	tx, _ = store.Begin(false)
	defer store.Rollback(tx)

	_, _ = tx.Delete("Employees", func(r sql.Row) bool { return r[0].I64 == 2 })
	_ = tx.Insert("Employees", employee(4, "e", 1.0))

	rows, err := tx.Fetch("Employees", []int{0, 1, 2})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !reflect.DeepEqual(ids(rows), []int64{1, 3}) {
		t.Fatalf("expected Fetch to skip removed rows, got %v", ids(rows))
	}

	pending, err := tx.Pending("Employees")
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if !reflect.DeepEqual(ids(pending), []int64{4}) {
		t.Fatalf("expected pending row 4, got %v", ids(pending))
	}

	if _, err := tx.Fetch("Employees", []int{7}); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestMemstoreDropTableDuringTransaction(t *testing.T) {
	store := New()
	obs := &recordingObserver{}
	store.Subscribe(obs)
	_ = store.CreateTable("Employees", employeeCols())

	tx, _ := store.Begin(false)
	_ = tx.Insert("Employees", employee(1, "Alice", 1000.0))

	if err := store.DropTable("Employees"); err != nil {
		t.Fatalf("DropTable failed: %v", err)
	}
	_ = store.CreateTable("Employees", employeeCols())

	if _, rows, _ := tx.Scan("Employees"); len(rows) != 0 {
		t.Fatalf("expected stale delta to be invisible, got %d rows", len(rows))
	}
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if rows := mustScan(t, store, "Employees"); len(rows) != 0 {
		t.Fatalf("expected recreated table to be empty, got %d rows", len(rows))
	}
	if !reflect.DeepEqual(obs.dropped, []string{"Employees"}) {
		t.Fatalf("unexpected drop notifications: %v", obs.dropped)
	}
}

func TestMemstoreSingleWriter(t *testing.T) {
	store := New()

	tx, err := store.Begin(false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := store.Begin(false); err == nil {
		t.Fatalf("expected second writer to be rejected")
	}
	if _, err := store.Begin(true); err != nil {
		t.Fatalf("read-only Begin failed: %v", err)
	}
	_ = store.Commit(tx)

	if _, err := store.Begin(false); err != nil {
		t.Fatalf("Begin after commit failed: %v", err)
	}
}

func TestMemstoreReadOnlyRejectsWrites(t *testing.T) {
	store := New()
	_ = store.CreateTable("Employees", employeeCols())

	tx, _ := store.Begin(true)
	if err := tx.Insert("Employees", employee(1, "Alice", 1.0)); err == nil {
		t.Fatalf("expected read-only insert to fail")
	}
	if _, err := tx.Delete("Employees", func(sql.Row) bool { return true }); err == nil {
		t.Fatalf("expected read-only delete to fail")
	}
}

func TestMemstoreListTables(t *testing.T) {
	store := New()
	_ = store.CreateTable("b", employeeCols())
	_ = store.CreateTable("a", employeeCols())

	names, err := store.ListTables()
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("expected sorted names, got %v", names)
	}
}
