package dbfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondrovic/litepager/internal/dbtest"
)

func TestOpenFs_QueryAndMetadata(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "fixture.db", dbtest.BuildFixture(), 0o644))

	db, err := OpenFs(fs, "fixture.db")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, dbtest.PageSize, db.PageSize())
	assert.Equal(t, 3, db.TableCount())
	assert.ElementsMatch(t, []string{"apples", "wide"}, db.TableNames())

	res, err := db.Query("SELECT name FROM apples WHERE color = 'Blush Red'")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"Honeycrisp"}, res.Rows[0])
}

func TestOpenFs_MissingFileIsError(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := OpenFs(fs, "missing.db")
	require.Error(t, err)
}
