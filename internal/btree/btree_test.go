package btree

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondrovic/litepager/internal/dbtest"
	"github.com/ondrovic/litepager/internal/pager"
	"github.com/ondrovic/litepager/internal/record"
)

func openFixture(t *testing.T) *pager.Pager {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "fixture.db", dbtest.BuildFixture(), 0o644))
	p, err := pager.Open(fs, "fixture.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestScanTable_ApplesInRowidOrder(t *testing.T) {
	p := openFixture(t)
	rows, err := ScanTable(p, dbtest.ApplesRootPage)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.EqualValues(t, 1, rows[0].Rowid)
	assert.EqualValues(t, 2, rows[1].Rowid)
	assert.EqualValues(t, 3, rows[2].Rowid)
}

func TestScanTable_WideTableCrossesInteriorRoot(t *testing.T) {
	p := openFixture(t)
	rows, err := ScanTable(p, dbtest.WideRootPage)
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for i, row := range rows {
		assert.EqualValues(t, i+1, row.Rowid)
	}
}

func TestGetRowByRowid_FindsEachRow(t *testing.T) {
	p := openFixture(t)
	for id := int64(1); id <= 10; id++ {
		row, ok, err := GetRowByRowid(p, dbtest.WideRootPage, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, id, row.Rowid)
	}
}

func TestGetRowByRowid_MissingRowidNotFound(t *testing.T) {
	p := openFixture(t)
	_, ok, err := GetRowByRowid(p, dbtest.WideRootPage, 999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetRowByRowid_RightmostEdgeCase(t *testing.T) {
	p := openFixture(t)
	row, ok, err := GetRowByRowid(p, dbtest.WideRootPage, 6)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 6, row.Rowid)
}

func TestGetRowsByRowids_BatchLookup(t *testing.T) {
	p := openFixture(t)
	rows, err := GetRowsByRowids(p, dbtest.WideRootPage, []int64{2, 4, 8, 999})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestFindRowids_ExactMatch(t *testing.T) {
	p := openFixture(t)
	ids, err := FindRowids(p, dbtest.ApplesIdxPage, []record.Value{{Kind: 4, Text: "Red"}})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.EqualValues(t, 2, ids[0])
}

func TestFindRowids_NoMatch(t *testing.T) {
	p := openFixture(t)
	ids, err := FindRowids(p, dbtest.ApplesIdxPage, []record.Value{{Kind: 4, Text: "Purple"}})
	require.NoError(t, err)
	assert.Empty(t, ids)
}
