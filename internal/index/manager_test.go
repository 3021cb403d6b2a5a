package index

import (
	"errors"
	"reflect"
	"testing"

	"vddb/internal/dberr"
	"vddb/internal/sql"
	"vddb/internal/storage"
	"vddb/internal/storage/memstore"
)

func newEmployees(t *testing.T, salaries ...float64) (storage.Engine, *Manager) {
	t.Helper()
	store := memstore.New()
	m := NewManager(store)

	cols := []sql.Column{
		{Name: "ID", Type: sql.TypeInt},
		{Name: "Name", Type: sql.TypeString},
		{Name: "Salary", Type: sql.TypeFloat},
	}
	if err := store.CreateTable("Employees", cols); err != nil {
		t.Fatalf("CreateTable failed: %v", err)
	}

	tx, err := store.Begin(false)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	for i, s := range salaries {
		row := sql.Row{sql.IntValue(int64(i + 1)), sql.StringValue("e"), sql.FloatValue(s)}
		if err := tx.Insert("Employees", row); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	return store, m
}

func lookup(t *testing.T, m *Manager, op sql.CompareOp, v float64) []int {
	t.Helper()
	positions, ok, err := m.Lookup("Employees", "Salary", op, sql.FloatValue(v))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected Employees.Salary to be indexed")
	}
	return positions
}

func TestManagerCreateErrors(t *testing.T) {
	_, m := newEmployees(t, 1000.0)

	if err := m.Create("Departments", "ID"); !errors.Is(err, dberr.ErrTableNotFound) {
		t.Fatalf("expected TableNotFound, got %v", err)
	}
	if err := m.Create("Employees", "Age"); !errors.Is(err, dberr.ErrColumnNotFound) {
		t.Fatalf("expected ColumnNotFound, got %v", err)
	}
	if err := m.Create("Employees", "Salary"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.Create("Employees", "Salary"); !errors.Is(err, dberr.ErrIndexAlreadyExists) {
		t.Fatalf("expected IndexAlreadyExists, got %v", err)
	}
	if err := m.Drop("Employees", "Name"); !errors.Is(err, dberr.ErrIndexNotFound) {
		t.Fatalf("expected IndexNotFound, got %v", err)
	}
	if err := m.Drop("Employees", "Salary"); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if m.Has("Employees", "Salary") {
		t.Fatalf("expected index to be gone after Drop")
	}
}

func TestManagerBuildsFromCommittedRows(t *testing.T) {
	store, m := newEmployees(t, 1000.0, 1500.0, 1200.0)

	// Uncommitted rows must not reach the index.
	tx, _ := store.Begin(false)
	_ = tx.Insert("Employees", sql.Row{sql.IntValue(9), sql.StringValue("x"), sql.FloatValue(1500.0)})

	if err := m.Create("Employees", "Salary"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := lookup(t, m, sql.OpEq, 1500.0); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("expected [1], got %v", got)
	}

	_ = store.Rollback(tx)
	if got := lookup(t, m, sql.OpEq, 1500.0); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("rollback changed the index: %v", got)
	}
}

func TestManagerFollowsCommits(t *testing.T) {
	store, m := newEmployees(t, 1000.0, 1500.0, 1200.0, 900.0, 2000.0)
	if err := m.Create("Employees", "Salary"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tx, _ := store.Begin(false)
	if _, err := tx.Delete("Employees", func(r sql.Row) bool { return r[2].F64 < 1500.0 }); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_ = tx.Insert("Employees", sql.Row{sql.IntValue(6), sql.StringValue("f"), sql.FloatValue(1500.0)})
	if err := store.Commit(tx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Committed rows are now 1500 (pos 0), 2000 (pos 1), 1500 (pos 2).
	if got := lookup(t, m, sql.OpEq, 1500.0); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("expected [0 2], got %v", got)
	}
	if got := lookup(t, m, sql.OpLt, 1500.0); len(got) != 0 {
		t.Fatalf("expected deleted keys to be gone, got %v", got)
	}

	// Every position the index reports must point at a matching row.
	rtx, _ := store.Begin(true)
	defer store.Commit(rtx)
	rows, err := rtx.Fetch("Employees", lookup(t, m, sql.OpGe, 0))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	var ids []int64
	for _, r := range rows {
		ids = append(ids, r[0].I64)
	}
	if !reflect.DeepEqual(ids, []int64{2, 5, 6}) {
		t.Fatalf("expected rows [2 5 6], got %v", ids)
	}
}

func TestManagerTableDropped(t *testing.T) {
	store, m := newEmployees(t, 1000.0)
	_ = m.Create("Employees", "Salary")
	_ = m.Create("Employees", "ID")

	if got := len(m.List()); got != 2 {
		t.Fatalf("expected 2 indexes, got %d", got)
	}

	if err := store.DropTable("Employees"); err != nil {
		t.Fatalf("DropTable failed: %v", err)
	}
	if got := len(m.List()); got != 0 {
		t.Fatalf("expected indexes to go with the table, got %d", got)
	}
	if _, ok, _ := m.Lookup("Employees", "Salary", sql.OpEq, sql.FloatValue(1000.0)); ok {
		t.Fatalf("expected no index after table drop")
	}
}

func TestManagerList(t *testing.T) {
	_, m := newEmployees(t)
	_ = m.Create("Employees", "Salary")
	_ = m.Create("Employees", "ID")

	metas := m.List()
	if len(metas) != 2 || metas[0].Column != "ID" || metas[1].Column != "Salary" {
		t.Fatalf("unexpected index list: %+v", metas)
	}
	if metas[1].ColPos != 2 || metas[1].Type != sql.TypeFloat {
		t.Fatalf("unexpected Salary metadata: %+v", metas[1])
	}
}
