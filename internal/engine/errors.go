// Package engine resolves a parsed SELECT against a loaded schema and
// walks the right B-tree traversal to answer it.
package engine

import (
	stderrors "errors"
	"os"

	"github.com/pkg/errors"
)

// FormatError wraps a problem with the on-disk file's contents: a bad
// signature, a corrupt page, a record that doesn't decode.
type FormatError struct{ Err error }

func (e *FormatError) Error() string { return "format error: " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

// IOError wraps a failure to read the underlying file.
type IOError struct{ Err error }

func (e *IOError) Error() string { return "io error: " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// SqlError wraps a tokenizer or parser failure: the SQL text itself is
// malformed.
type SqlError struct{ Err error }

func (e *SqlError) Error() string { return "sql error: " + e.Err.Error() }
func (e *SqlError) Unwrap() error { return e.Err }

// SemanticError wraps a well-formed statement that makes no sense against
// the loaded schema: an unknown table or column.
type SemanticError struct{ Err error }

func (e *SemanticError) Error() string { return "semantic error: " + e.Err.Error() }
func (e *SemanticError) Unwrap() error { return e.Err }

// WrapPagerError classifies a failure from the pager or schema loader as an
// IOError when it traces back to a filesystem failure (os.PathError, via
// afero), or a FormatError otherwise: a bad signature, a corrupt page, a
// record that doesn't decode.
func WrapPagerError(err error) error {
	var pathErr *os.PathError
	if stderrors.As(err, &pathErr) {
		return &IOError{Err: err}
	}
	return &FormatError{Err: err}
}

func wrapSql(err error) error { return &SqlError{Err: err} }

func semanticf(format string, args ...interface{}) error {
	return &SemanticError{Err: errors.Errorf(format, args...)}
}
