// Package schema loads the sqlite_schema table (root page 1) into the
// table and index definitions the query executor needs to pick a plan.
package schema

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/ondrovic/litepager/internal/btree"
	"github.com/ondrovic/litepager/internal/pager"
	"github.com/ondrovic/litepager/internal/sqlparse"
	"github.com/ondrovic/litepager/internal/varint"
)

// TableDef describes one CREATE TABLE row from sqlite_schema.
type TableDef struct {
	Name     string
	RootPage int
	SQL      string
	Columns  []string
	// RowidAliasCol is the 0-based index of the column declared
	// "INTEGER PRIMARY KEY", which is stored as NULL and read back as the
	// cell's own rowid, or -1 if the table has no such column.
	RowidAliasCol int
}

// IndexDef describes one CREATE INDEX row from sqlite_schema.
type IndexDef struct {
	Name     string
	Table    string
	RootPage int
	SQL      string
	Columns  []string
}

// Schema is the database's full set of tables and indexes.
type Schema struct {
	Tables map[string]TableDef
	// TableOrder holds the lowercased table names in sqlite_schema load
	// order, since range over Tables would randomize it.
	TableOrder []string
	Indexes    []IndexDef
}

// Table looks up a table by name, case-insensitively.
func (s *Schema) Table(name string) (TableDef, bool) {
	t, ok := s.Tables[strings.ToLower(name)]
	return t, ok
}

// IndexesOn returns every index defined on table, in schema order.
func (s *Schema) IndexesOn(table string) []IndexDef {
	var out []IndexDef
	for _, idx := range s.Indexes {
		if strings.EqualFold(idx.Table, table) {
			out = append(out, idx)
		}
	}
	return out
}

// Load scans sqlite_schema (root page 1) and builds a Schema.
func Load(p *pager.Pager) (*Schema, error) {
	rows, err := btree.ScanTable(p, 1)
	if err != nil {
		return nil, errors.Wrap(err, "schema: scan sqlite_schema")
	}

	s := &Schema{Tables: make(map[string]TableDef)}
	for _, row := range rows {
		if len(row.Record) != 5 {
			return nil, errors.Errorf("schema: sqlite_schema row has %d columns, want 5", len(row.Record))
		}
		for _, i := range []int{0, 1, 2, 4} {
			if row.Record[i].Kind != varint.KindText {
				return nil, errors.Errorf("schema: sqlite_schema row %d column %d is not text", row.Rowid, i)
			}
		}
		switch row.Record[3].Kind {
		case varint.KindInteger, varint.KindZero, varint.KindOne:
		default:
			return nil, errors.Errorf("schema: sqlite_schema row %d rootpage is not an integer", row.Rowid)
		}
		typ := row.Record[0].Text
		name := row.Record[1].Text
		tblName := row.Record[2].Text
		rootPage := int(row.Record[3].Int)
		sql := row.Record[4].Text

		switch typ {
		case "table":
			stmt, err := sqlparse.ParseCreateTable(sql)
			if err != nil {
				return nil, errors.Wrapf(err, "schema: parsing stored CREATE TABLE for %q", name)
			}
			cols, aliasCol := tableColumns(stmt)
			key := strings.ToLower(name)
			s.Tables[key] = TableDef{
				Name:          name,
				RootPage:      rootPage,
				SQL:           sql,
				Columns:       cols,
				RowidAliasCol: aliasCol,
			}
			s.TableOrder = append(s.TableOrder, key)
		case "index":
			stmt, err := sqlparse.ParseCreateIndex(sql)
			if err != nil {
				return nil, errors.Wrapf(err, "schema: parsing stored CREATE INDEX for %q", name)
			}
			s.Indexes = append(s.Indexes, IndexDef{
				Name:     name,
				Table:    tblName,
				RootPage: rootPage,
				SQL:      sql,
				Columns:  stmt.Columns,
			})
		default:
			// triggers and views share this table but aren't query targets
		}
	}
	return s, nil
}

// tableColumns flattens a parsed CREATE TABLE into its column name list and
// reports which column (if any) is declared "integer primary key" and
// therefore aliases the rowid.
func tableColumns(stmt *sqlparse.CreateTableStmt) (cols []string, rowidAliasCol int) {
	rowidAliasCol = -1
	cols = make([]string, len(stmt.Columns))
	for i, c := range stmt.Columns {
		cols[i] = c.Name
		if c.IsPrimaryKey && strings.EqualFold(c.Type, "integer") {
			rowidAliasCol = i
		}
	}
	return cols, rowidAliasCol
}
