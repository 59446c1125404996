package engine

import (
	"strings"

	"github.com/ondrovic/litepager/internal/btree"
	"github.com/ondrovic/litepager/internal/cell"
	"github.com/ondrovic/litepager/internal/logging"
	"github.com/ondrovic/litepager/internal/pager"
	"github.com/ondrovic/litepager/internal/record"
	"github.com/ondrovic/litepager/internal/schema"
	"github.com/ondrovic/litepager/internal/sqlparse"
	"github.com/ondrovic/litepager/internal/varint"
)

// Result is the outcome of a SELECT: either an aggregate count or a grid
// of projected, string-rendered column values.
type Result struct {
	IsCount bool
	Count   int64
	Columns []string
	Rows    [][]string
}

// Execute parses sql, resolves it against s, and runs the cheapest
// traversal the schema supports: a rowid point lookup when the WHERE
// clause pins the table's rowid-alias column, an index lookup when it
// pins an indexed column, or a full table scan otherwise.
func Execute(p *pager.Pager, s *schema.Schema, sql string) (*Result, error) {
	stmt, err := sqlparse.Parse(sql)
	if err != nil {
		return nil, wrapSql(err)
	}

	table, ok := s.Table(stmt.Table)
	if !ok {
		return nil, semanticf("unknown table %q", stmt.Table)
	}

	if stmt.CountStar {
		rows, err := resolveRows(p, s, table, stmt.Where)
		if err != nil {
			return nil, err
		}
		return &Result{IsCount: true, Count: int64(len(rows))}, nil
	}

	colIdx, err := resolveColumns(table, stmt.Columns)
	if err != nil {
		return nil, err
	}

	rows, err := resolveRows(p, s, table, stmt.Where)
	if err != nil {
		return nil, err
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		vals := rowValues(table, row)
		rendered := make([]string, len(colIdx))
		for i, ci := range colIdx {
			rendered[i] = vals[ci].String()
		}
		out = append(out, rendered)
	}

	cols := stmt.Columns
	if cols == nil {
		cols = table.Columns
	}
	return &Result{Columns: cols, Rows: out}, nil
}

// resolveRows picks a traversal plan from the WHERE clause and returns
// every matching row, with any conditions the plan didn't already satisfy
// applied as a residual filter.
func resolveRows(p *pager.Pager, s *schema.Schema, table schema.TableDef, where []sqlparse.Condition) ([]cell.TableLeafCell, error) {
	if len(where) == 0 {
		rows, err := btree.ScanTable(p, table.RootPage)
		if err != nil {
			return nil, WrapPagerError(err)
		}
		return rows, nil
	}

	if table.RowidAliasCol >= 0 {
		if idx := findCondition(where, table.Columns[table.RowidAliasCol]); idx >= 0 && !where[idx].Value.IsString {
			row, ok, err := btree.GetRowByRowid(p, table.RootPage, where[idx].Value.Num)
			if err != nil {
				return nil, WrapPagerError(err)
			}
			if !ok {
				return nil, nil
			}
			return filterResidual(table, []cell.TableLeafCell{row}, without(where, idx))
		}
	}

	for _, idxDef := range s.IndexesOn(table.Name) {
		if len(idxDef.Columns) == 0 {
			continue
		}
		condIdx := findCondition(where, idxDef.Columns[0])
		if condIdx < 0 {
			continue
		}
		key := []record.Value{literalValue(where[condIdx].Value)}
		rowids, err := btree.FindRowids(p, idxDef.RootPage, key)
		if err != nil {
			return nil, WrapPagerError(err)
		}
		rows, err := btree.GetRowsByRowids(p, table.RootPage, rowids)
		if err != nil {
			return nil, WrapPagerError(err)
		}
		return filterResidual(table, rows, without(where, condIdx))
	}

	logging.Logger().Debug("engine: no index applies, falling back to a full table scan")
	rows, err := btree.ScanTable(p, table.RootPage)
	if err != nil {
		return nil, WrapPagerError(err)
	}
	return filterResidual(table, rows, where)
}

func filterResidual(table schema.TableDef, rows []cell.TableLeafCell, where []sqlparse.Condition) ([]cell.TableLeafCell, error) {
	if len(where) == 0 {
		return rows, nil
	}
	out := make([]cell.TableLeafCell, 0, len(rows))
	for _, row := range rows {
		vals := rowValues(table, row)
		ok, err := matches(table, vals, where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func matches(table schema.TableDef, vals []record.Value, where []sqlparse.Condition) (bool, error) {
	for _, c := range where {
		idx := colPosition(table.Columns, c.Column)
		if idx < 0 {
			return false, semanticf("unknown column %q on table %q", c.Column, table.Name)
		}
		if !valueEqualsLiteral(vals[idx], c.Value) {
			return false, nil
		}
	}
	return true, nil
}

func resolveColumns(table schema.TableDef, requested []string) ([]int, error) {
	if requested == nil {
		idx := make([]int, len(table.Columns))
		for i := range table.Columns {
			idx[i] = i
		}
		return idx, nil
	}
	idx := make([]int, len(requested))
	for i, name := range requested {
		pos := colPosition(table.Columns, name)
		if pos < 0 {
			return nil, semanticf("unknown column %q on table %q", name, table.Name)
		}
		idx[i] = pos
	}
	return idx, nil
}

func rowValues(table schema.TableDef, row cell.TableLeafCell) []record.Value {
	vals := make([]record.Value, len(table.Columns))
	copy(vals, row.Record)
	if table.RowidAliasCol >= 0 && table.RowidAliasCol < len(vals) {
		vals[table.RowidAliasCol] = record.Value{Kind: varint.KindInteger, Int: row.Rowid}
	}
	return vals
}

func colPosition(cols []string, name string) int {
	for i, c := range cols {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func findCondition(where []sqlparse.Condition, column string) int {
	for i, c := range where {
		if strings.EqualFold(c.Column, column) {
			return i
		}
	}
	return -1
}

func without(where []sqlparse.Condition, i int) []sqlparse.Condition {
	out := make([]sqlparse.Condition, 0, len(where)-1)
	out = append(out, where[:i]...)
	out = append(out, where[i+1:]...)
	return out
}

func literalValue(lit sqlparse.Literal) record.Value {
	if lit.IsString {
		return record.Value{Kind: varint.KindText, Text: lit.Text}
	}
	return record.Value{Kind: varint.KindInteger, Int: lit.Num}
}

func valueEqualsLiteral(v record.Value, lit sqlparse.Literal) bool {
	if lit.IsString {
		return v.Kind == varint.KindText && v.Text == lit.Text
	}
	switch v.Kind {
	case varint.KindInteger:
		return v.Int == lit.Num
	case varint.KindZero:
		return lit.Num == 0
	case varint.KindOne:
		return lit.Num == 1
	default:
		return false
	}
}
