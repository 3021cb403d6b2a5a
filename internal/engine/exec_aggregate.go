package engine

import (
	"vddb/internal/dberr"
	"vddb/internal/sql"
)

// aggregate folds rows into a single-row result. AVG, MIN and MAX over
// zero rows yield an empty result; SUM yields 0 and COUNT yields 0.
func aggregate(sc scope, agg *sql.Aggregate, rows []sql.Row) (*Result, error) {
	res := &Result{Columns: []string{agg.Header()}, Rows: []sql.Row{}}

	if agg.Func == sql.AggCount {
		res.Rows = append(res.Rows, sql.Row{sql.IntValue(int64(len(rows)))})
		return res, nil
	}

	pos, col, err := sc.resolve(agg.Column)
	if err != nil {
		return nil, err
	}
	if (agg.Func == sql.AggSum || agg.Func == sql.AggAvg) && !col.Type.Numeric() {
		return nil, dberr.New(dberr.KindTypeMismatch, "%s needs a numeric column, %s is %s",
			agg.Func, agg.Column, col.Type)
	}

	var v sql.Value
	switch agg.Func {
	case sql.AggSum:
		v = sum(rows, pos, col.Type)

	case sql.AggAvg:
		if len(rows) == 0 {
			return res, nil
		}
		total := sum(rows, pos, col.Type)
		f := total.F64
		if total.Type == sql.TypeInt {
			f = float64(total.I64)
		}
		v = sql.FloatValue(f / float64(len(rows)))

	case sql.AggMin, sql.AggMax:
		if len(rows) == 0 {
			return res, nil
		}
		v = rows[0][pos]
		for _, r := range rows[1:] {
			c, err := sql.Compare(r[pos], v)
			if err != nil {
				return nil, err
			}
			if (agg.Func == sql.AggMin && c < 0) || (agg.Func == sql.AggMax && c > 0) {
				v = r[pos]
			}
		}
	}

	res.Rows = append(res.Rows, sql.Row{v})
	return res, nil
}

// sum adds column pos over rows, keeping the column's type.
func sum(rows []sql.Row, pos int, t sql.DataType) sql.Value {
	if t == sql.TypeInt {
		var total int64
		for _, r := range rows {
			total += r[pos].I64
		}
		return sql.IntValue(total)
	}

	var total float64
	for _, r := range rows {
		total += r[pos].F64
	}
	return sql.FloatValue(total)
}
