package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupStripsSqlPrefixAndIsCaseInsensitive(t *testing.T) {
	a := Lookup("sql.postgres")
	b := Lookup("Postgres")
	assert.Equal(t, a, b)
	assert.Equal(t, "postgres", a.Name)
}

func TestLookupUnknownFallsBackToAnsi(t *testing.T) {
	c := Lookup("sql.nonexistent")
	assert.Equal(t, "ansi", c.Name)
}

func TestLookupEmptyFallsBackToAnsi(t *testing.T) {
	c := Lookup("")
	assert.Equal(t, "ansi", c.Name)
}

func TestLimitStyleMSSQLUsesTop(t *testing.T) {
	assert.Equal(t, TopClause, Lookup("sql.mssql").LimitStyle())
	assert.Equal(t, LimitClause, Lookup("sql.postgres").LimitStyle())
}

func TestExcludeStyles(t *testing.T) {
	assert.Equal(t, ExcludeNone, Lookup("sql.postgres").ExcludeStyle())
	assert.Equal(t, ExcludeKeyword, Lookup("sql.duckdb").ExcludeStyle())
	assert.Equal(t, ExceptKeyword, Lookup("sql.bigquery").ExcludeStyle())
}

func TestUnionDistinctStyles(t *testing.T) {
	assert.Equal(t, UnionDistinctImplicit, Lookup("sql.postgres").UnionDistinctStyle())
	assert.Equal(t, UnionDistinctKeyword, Lookup("sql.mysql").UnionDistinctStyle())
}

func TestQuoteDoublesEmbeddedQuoteChar(t *testing.T) {
	c := Lookup("sql.postgres")
	assert.Equal(t, `"my ""col"""`, c.Quote(`my "col"`))

	mysql := Lookup("sql.mysql")
	assert.Equal(t, "`tbl`", mysql.Quote("tbl"))
}

func TestKeywordCase(t *testing.T) {
	assert.Equal(t, "SELECT", Keyword("select", true))
	assert.Equal(t, "select", Keyword("SELECT", false))
}

func TestEveryDialectStringFromSpecResolves(t *testing.T) {
	for _, name := range []string{
		"sql.any", "sql.ansi", "sql.bigquery", "sql.clickhouse", "sql.duckdb",
		"sql.generic", "sql.glaredb", "sql.mssql", "sql.mysql", "sql.postgres",
		"sql.sqlite", "sql.snowflake",
	} {
		c := Lookup(name)
		assert.NotEmpty(t, c.Name, "target %q should resolve to a named capability row", name)
	}
}
