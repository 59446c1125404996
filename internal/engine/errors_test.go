package engine

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapPagerError_PathErrorBecomesIOError(t *testing.T) {
	pathErr := &os.PathError{Op: "open", Path: "fixture.db", Err: os.ErrNotExist}
	err := WrapPagerError(errors.Wrap(pathErr, "pager: open"))
	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestWrapPagerError_OtherFailureBecomesFormatError(t *testing.T) {
	err := WrapPagerError(errors.New("bad page 1 signature"))
	var fmtErr *FormatError
	assert.ErrorAs(t, err, &fmtErr)
}
