package pager

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondrovic/litepager/internal/dbtest"
)

func openFixture(t *testing.T, opts ...Option) *Pager {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "fixture.db", dbtest.BuildFixture(), 0o644))
	p, err := Open(fs, "fixture.db", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestOpen_RejectsBadSignature(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.db", make([]byte, 200), 0o644))
	_, err := Open(fs, "bad.db")
	require.Error(t, err)
}

func TestOpen_ReadsPageSizeAndSchemaCellCount(t *testing.T) {
	p := openFixture(t)
	assert.Equal(t, dbtest.PageSize, p.PageSize())
	assert.EqualValues(t, 3, p.SchemaCellCount())
}

func TestReadPage_LeafTableHeader(t *testing.T) {
	p := openFixture(t)
	page, err := p.ReadPage(dbtest.ApplesRootPage)
	require.NoError(t, err)
	assert.Equal(t, PageTypeLeafTable, page.Type)
	assert.False(t, page.IsInterior())
	assert.EqualValues(t, 3, page.CellCount)
	assert.Equal(t, 0, page.HeaderBase)
	assert.Equal(t, 8, page.CellPointerBase)
}

func TestReadPage_Page1HasHundredByteOffset(t *testing.T) {
	p := openFixture(t)
	page, err := p.ReadPage(1)
	require.NoError(t, err)
	assert.Equal(t, HeaderSize, page.HeaderBase)
	assert.Equal(t, HeaderSize+8, page.CellPointerBase)
}

func TestReadPage_InteriorTableHasRightmostPointer(t *testing.T) {
	p := openFixture(t)
	page, err := p.ReadPage(dbtest.WideRootPage)
	require.NoError(t, err)
	assert.True(t, page.IsInterior())
	assert.EqualValues(t, 1, page.CellCount)
	assert.EqualValues(t, dbtest.WideRightPage, page.RightmostPointer)
}

func TestReadPage_CachesDecodedPages(t *testing.T) {
	p := openFixture(t, WithCacheSize(1))
	first, err := p.ReadPage(dbtest.ApplesRootPage)
	require.NoError(t, err)
	second, err := p.ReadPage(dbtest.ApplesRootPage)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestReadPage_OutOfRangeIsError(t *testing.T) {
	p := openFixture(t)
	_, err := p.ReadPage(999)
	require.Error(t, err)
}
