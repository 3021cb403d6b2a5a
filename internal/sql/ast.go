package sql

import "strings"

// Statement is the common interface for all parsed commands.
type Statement interface {
	stmtNode()
}

// CreateTableStmt represents a parsed CREATE TABLE statement.
type CreateTableStmt struct {
	TableName string
	Columns   []Column
}

// DropTableStmt represents DROP TABLE name.
type DropTableStmt struct {
	TableName string
}

// InsertStmt represents INSERT INTO name VALUES(...).
type InsertStmt struct {
	TableName string
	Values    Row
}

// SelectStmt represents a SELECT over one table or an equi-join of two.
//
// Exactly one of Star, Columns and Aggregate describes the select list.
type SelectStmt struct {
	TableName string
	Join      *JoinClause

	Star      bool
	Columns   []ColumnRef
	Aggregate *Aggregate

	Where *WhereExpr
}

// DeleteStmt represents DELETE FROM name [WHERE ...]. A nil Where deletes
// every row.
type DeleteStmt struct {
	TableName string
	Where     *WhereExpr
}

type BeginTxStmt struct{}
type CommitTxStmt struct{}
type RollbackTxStmt struct{}

// CreateIndexStmt represents MAKE INDEX ON table(column).
type CreateIndexStmt struct {
	TableName  string
	ColumnName string
}

// DropIndexStmt represents UNMAKE INDEX / DROP INDEX column ON table.
type DropIndexStmt struct {
	TableName  string
	ColumnName string
}

// ExitStmt asks the caller to end the session.
type ExitStmt struct{}

func (*CreateTableStmt) stmtNode() {}
func (*DropTableStmt) stmtNode()   {}
func (*InsertStmt) stmtNode()      {}
func (*SelectStmt) stmtNode()      {}
func (*DeleteStmt) stmtNode()      {}
func (*BeginTxStmt) stmtNode()     {}
func (*CommitTxStmt) stmtNode()    {}
func (*RollbackTxStmt) stmtNode()  {}
func (*CreateIndexStmt) stmtNode() {}
func (*DropIndexStmt) stmtNode()   {}
func (*ExitStmt) stmtNode()        {}

// ColumnRef names a column, optionally qualified by its table.
type ColumnRef struct {
	Table string
	Name  string
}

func (c ColumnRef) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// parseColumnRef splits "t.c" into its parts. A bare name has no table.
func parseColumnRef(s string) ColumnRef {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return ColumnRef{Table: s[:i], Name: s[i+1:]}
	}
	return ColumnRef{Name: s}
}

// JoinClause is JOIN TableName ON Left = Right.
type JoinClause struct {
	TableName string
	Left      ColumnRef
	Right     ColumnRef
}

// AggFunc identifies an aggregate function.
type AggFunc int

const (
	AggCount AggFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

func (f AggFunc) String() string {
	switch f {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return "?"
	}
}

// Aggregate is a single aggregate call in the select list. COUNT has no
// column.
type Aggregate struct {
	Func   AggFunc
	Column ColumnRef
}

// Header is the result column name for the aggregate.
func (a *Aggregate) Header() string {
	if a.Func == AggCount {
		return "COUNT"
	}
	return a.Func.String() + "(" + a.Column.String() + ")"
}

// CompareOp is a comparison operator in a WHERE clause.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Holds reports whether a comparison result c (as returned by Compare)
// satisfies the operator.
func (op CompareOp) Holds(c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpGt:
		return c > 0
	case OpLe:
		return c <= 0
	case OpGe:
		return c >= 0
	default:
		return false
	}
}

// ExprKind tells a comparison leaf from a boolean combination.
type ExprKind int

const (
	ExprCompare ExprKind = iota
	ExprAnd
	ExprOr
)

// WhereExpr is a WHERE condition tree. Leaves (ExprCompare) compare a column
// with a literal; ExprAnd and ExprOr combine Left and Right.
type WhereExpr struct {
	Kind ExprKind

	Column ColumnRef
	Op     CompareOp
	Value  Value

	Left  *WhereExpr
	Right *WhereExpr
}

func (w *WhereExpr) String() string {
	switch w.Kind {
	case ExprAnd:
		return w.Left.String() + " AND " + w.Right.String()
	case ExprOr:
		return "(" + w.Left.String() + " OR " + w.Right.String() + ")"
	default:
		return w.Column.String() + " " + w.Op.String() + " " + w.Value.Literal()
	}
}

// Walk calls fn for every comparison leaf of w.
func (w *WhereExpr) Walk(fn func(leaf *WhereExpr)) {
	if w == nil {
		return
	}
	if w.Kind == ExprCompare {
		fn(w)
		return
	}
	w.Left.Walk(fn)
	w.Right.Walk(fn)
}
