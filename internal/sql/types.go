package sql

import (
	"fmt"
	"strconv"
	"strings"

	"vddb/internal/dberr"
)

// DataType represents the logical type of a value in a column.
type DataType int

const (
	TypeInt DataType = iota
	TypeFloat
	TypeString
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Numeric reports whether SUM and AVG accept the type.
func (t DataType) Numeric() bool {
	return t == TypeInt || t == TypeFloat
}

// Value represents a single cell in a table (one column in one row).
// Only the field matching Type should be read; other fields remain at their
// zero values to keep the struct compact and easy to inspect while debugging.
type Value struct {
	Type DataType

	I64 int64   // for TypeInt
	F64 float64 // for TypeFloat
	S   string  // for TypeString
}

func IntValue(i int64) Value     { return Value{Type: TypeInt, I64: i} }
func FloatValue(f float64) Value { return Value{Type: TypeFloat, F64: f} }
func StringValue(s string) Value { return Value{Type: TypeString, S: s} }

// String renders the value for display. Floats always carry a decimal point.
func (v Value) String() string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.I64, 10)
	case TypeFloat:
		s := strconv.FormatFloat(v.F64, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case TypeString:
		return v.S
	default:
		return "?"
	}
}

// Literal renders the value the way it is written in a statement.
func (v Value) Literal() string {
	if v.Type == TypeString {
		return `"` + v.S + `"`
	}
	return v.String()
}

// Compare orders two values of the same type. It returns -1, 0 or 1, and a
// TypeMismatch error when the types differ.
func Compare(a, b Value) (int, error) {
	if a.Type != b.Type {
		return 0, dberr.New(dberr.KindTypeMismatch, "cannot compare %s with %s", a.Type, b.Type)
	}
	switch a.Type {
	case TypeInt:
		return cmpOrdered(a.I64, b.I64), nil
	case TypeFloat:
		return cmpOrdered(a.F64, b.F64), nil
	case TypeString:
		return strings.Compare(a.S, b.S), nil
	default:
		return 0, dberr.New(dberr.KindTypeMismatch, "unsupported type %s", a.Type)
	}
}

func cmpOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports whether a and b have the same type and value.
func Equal(a, b Value) bool {
	c, err := Compare(a, b)
	return err == nil && c == 0
}

// Row represents one record in a table: a slice of Values, one per column.
type Row []Value

// Clone returns a copy that shares no backing array with r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Column describes metadata for a single column in a table.
type Column struct {
	Name string
	Type DataType
}

// ColumnIndex returns the position of the named column, or -1.
func ColumnIndex(cols []Column, name string) int {
	for i, c := range cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// CheckRow validates arity and per-position types of row against cols.
func CheckRow(cols []Column, row Row) error {
	if len(row) != len(cols) {
		return dberr.New(dberr.KindArityMismatch, "expected %d values, got %d", len(cols), len(row))
	}
	for i, col := range cols {
		if row[i].Type != col.Type {
			return dberr.New(dberr.KindTypeMismatch, "column %q expects %s, got %s %s",
				col.Name, col.Type, row[i].Type, row[i].Literal())
		}
	}
	return nil
}
