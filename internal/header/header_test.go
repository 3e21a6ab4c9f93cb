package header

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prqlc-go/prqlc/internal/ast"
)

func TestExtractNoHeader(t *testing.T) {
	stmts := []ast.Stmt{{Kind: ast.SVarDef}}

	h, rest := Extract(stmts)

	assert.False(t, h.Present)
	assert.Equal(t, stmts, rest)
}

func TestExtractHeader(t *testing.T) {
	stmts := []ast.Stmt{
		{Kind: ast.SQueryDef, QueryVersion: "^0.13", QueryTarget: "sql.postgres"},
		{Kind: ast.SVarDef},
	}

	h, rest := Extract(stmts)

	assert.True(t, h.Present)
	assert.Equal(t, "^0.13", h.VersionReq)
	assert.Equal(t, "sql.postgres", h.Target)
	assert.Len(t, rest, 1)
}

func TestCheckVersionEmptyAlwaysSatisfied(t *testing.T) {
	assert.True(t, CheckVersion("", "0.13.2"))
	assert.True(t, CheckVersion("   ", "0.13.2"))
}

func TestCheckVersionCaret(t *testing.T) {
	assert.True(t, CheckVersion("^0.13", "0.13.2"))
	assert.True(t, CheckVersion("^0.13", "0.14.0"))
	assert.False(t, CheckVersion("^0.13", "1.0.0"))
	assert.False(t, CheckVersion("^0.13", "0.12.9"))
}

func TestCheckVersionTilde(t *testing.T) {
	assert.True(t, CheckVersion("~0.13.2", "0.13.5"))
	assert.False(t, CheckVersion("~0.13.2", "0.14.0"))
}

func TestCheckVersionComparisons(t *testing.T) {
	assert.True(t, CheckVersion(">=0.13.0", "0.13.0"))
	assert.True(t, CheckVersion(">=0.13.0", "0.14.0"))
	assert.False(t, CheckVersion(">=0.13.0", "0.12.0"))
	assert.True(t, CheckVersion("<1.0.0", "0.13.0"))
	assert.False(t, CheckVersion("<1.0.0", "1.0.0"))
}

func TestCheckVersionCommaSeparatedClauses(t *testing.T) {
	assert.True(t, CheckVersion(">=0.10.0, <1.0.0", "0.13.0"))
	assert.False(t, CheckVersion(">=0.10.0, <1.0.0", "1.1.0"))
}

func TestResolveTargetOptionsWins(t *testing.T) {
	assert.Equal(t, "sql.mysql", ResolveTarget("sql.mysql", "sql.postgres"))
}

func TestResolveTargetFallsBackToHeader(t *testing.T) {
	assert.Equal(t, "sql.postgres", ResolveTarget("", "sql.postgres"))
}

func TestResolveTargetBothEmpty(t *testing.T) {
	assert.Equal(t, "", ResolveTarget("", ""))
}
