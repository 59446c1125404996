// Package dbfile ties the pager, schema loader, and query executor
// together into one handle: open a file, run SQL against it, close it.
package dbfile

import (
	"github.com/spf13/afero"

	"github.com/ondrovic/litepager/internal/engine"
	"github.com/ondrovic/litepager/internal/pager"
	"github.com/ondrovic/litepager/internal/schema"
)

// DB is an open, read-only handle on a SQLite database file.
type DB struct {
	pager  *pager.Pager
	schema *schema.Schema
}

// Open reads path's header and sqlite_schema table and returns a DB ready
// for queries.
func Open(path string) (*DB, error) {
	return OpenFs(afero.NewOsFs(), path)
}

// OpenFs is Open against an arbitrary afero.Fs, letting tests open an
// in-memory database image.
func OpenFs(fs afero.Fs, path string) (*DB, error) {
	p, err := pager.Open(fs, path)
	if err != nil {
		return nil, engine.WrapPagerError(err)
	}
	s, err := schema.Load(p)
	if err != nil {
		p.Close()
		return nil, engine.WrapPagerError(err)
	}
	return &DB{pager: p, schema: s}, nil
}

// Close releases the underlying file handle.
func (db *DB) Close() error {
	return db.pager.Close()
}

// PageSize returns the database's page size, in bytes.
func (db *DB) PageSize() int {
	return db.pager.PageSize()
}

// TableCount returns sqlite_schema's raw cell count on page 1, the
// ".dbinfo" "number of tables" figure.
func (db *DB) TableCount() int {
	return int(db.pager.SchemaCellCount())
}

// TableNames returns the names of every table in the schema, in load
// order.
func (db *DB) TableNames() []string {
	names := make([]string, 0, len(db.schema.TableOrder))
	for _, key := range db.schema.TableOrder {
		names = append(names, db.schema.Tables[key].Name)
	}
	return names
}

// Query parses and runs a single SELECT statement.
func (db *DB) Query(sql string) (*engine.Result, error) {
	return engine.Execute(db.pager, db.schema, sql)
}
