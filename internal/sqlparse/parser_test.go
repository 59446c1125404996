package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SelectStar(t *testing.T) {
	stmt, err := Parse("SELECT * FROM apples")
	require.NoError(t, err)
	assert.False(t, stmt.CountStar)
	assert.Nil(t, stmt.Columns)
	assert.Equal(t, "apples", stmt.Table)
	assert.Empty(t, stmt.Where)
}

func TestParse_SelectColumns(t *testing.T) {
	stmt, err := Parse("SELECT name, color FROM apples")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "color"}, stmt.Columns)
}

func TestParse_CountStar(t *testing.T) {
	stmt, err := Parse("SELECT COUNT(*) FROM apples")
	require.NoError(t, err)
	assert.True(t, stmt.CountStar)
}

func TestParse_WhereSingleCondition(t *testing.T) {
	stmt, err := Parse("SELECT name FROM apples WHERE color = 'Red'")
	require.NoError(t, err)
	require.Len(t, stmt.Where, 1)
	assert.Equal(t, "color", stmt.Where[0].Column)
	assert.True(t, stmt.Where[0].Value.IsString)
	assert.Equal(t, "Red", stmt.Where[0].Value.Text)
}

func TestParse_WhereAndedConditions(t *testing.T) {
	stmt, err := Parse("SELECT * FROM apples WHERE color = 'Red' AND id = 2")
	require.NoError(t, err)
	require.Len(t, stmt.Where, 2)
	assert.Equal(t, "id", stmt.Where[1].Column)
	assert.False(t, stmt.Where[1].Value.IsString)
	assert.EqualValues(t, 2, stmt.Where[1].Value.Num)
}

func TestParse_MissingFromIsError(t *testing.T) {
	_, err := Parse("SELECT * apples")
	require.Error(t, err)
}

func TestParse_TrailingGarbageIsError(t *testing.T) {
	_, err := Parse("SELECT * FROM apples extra")
	require.Error(t, err)
}

func TestParseCreateTable_PrimaryKeyColumn(t *testing.T) {
	stmt, err := ParseCreateTable("CREATE TABLE apples (id integer primary key, name text, color text)")
	require.NoError(t, err)
	assert.Equal(t, "apples", stmt.Table)
	require.Len(t, stmt.Columns, 3)
	assert.Equal(t, ColumnDef{Name: "id", Type: "integer", IsPrimaryKey: true}, stmt.Columns[0])
	assert.Equal(t, ColumnDef{Name: "name", Type: "text"}, stmt.Columns[1])
	assert.Equal(t, ColumnDef{Name: "color", Type: "text"}, stmt.Columns[2])
}

func TestParseCreateTable_ParenthesizedTypeArgsDontBreakColumnSplit(t *testing.T) {
	stmt, err := ParseCreateTable("CREATE TABLE prices (id integer primary key, amount decimal(10,2))")
	require.NoError(t, err)
	require.Len(t, stmt.Columns, 2)
	assert.Equal(t, "amount", stmt.Columns[1].Name)
	assert.Equal(t, "decimal", stmt.Columns[1].Type)
	assert.False(t, stmt.Columns[1].IsPrimaryKey)
}

func TestParseCreateTable_NoPrimaryKey(t *testing.T) {
	stmt, err := ParseCreateTable("CREATE TABLE apples (name text, color text)")
	require.NoError(t, err)
	for _, c := range stmt.Columns {
		assert.False(t, c.IsPrimaryKey)
	}
}

func TestParseCreateIndex_SingleColumn(t *testing.T) {
	stmt, err := ParseCreateIndex("CREATE INDEX idx_apples_color ON apples (color)")
	require.NoError(t, err)
	assert.Equal(t, "idx_apples_color", stmt.Index)
	assert.Equal(t, "apples", stmt.Table)
	assert.Equal(t, []string{"color"}, stmt.Columns)
}

func TestParseCreateIndex_MultiColumn(t *testing.T) {
	stmt, err := ParseCreateIndex("CREATE INDEX idx_apples_color_name ON apples (color, name)")
	require.NoError(t, err)
	assert.Equal(t, []string{"color", "name"}, stmt.Columns)
}
