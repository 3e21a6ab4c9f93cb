package prqlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimplePipeline(t *testing.T) {
	sql, errs := Compile(`from employees | filter age > 30 | select {name, age}`, DefaultOptions())

	require.Empty(t, errs)
	assert.Contains(t, sql, "SELECT")
	assert.Contains(t, sql, "FROM")
	assert.Contains(t, sql, "employees")
}

func TestCompileHonoursHeaderTarget(t *testing.T) {
	sql, errs := Compile("prql target:sql.mysql\n\nfrom x | take 5", DefaultOptions())

	require.Empty(t, errs)
	assert.Contains(t, sql, "LIMIT")
}

func TestCompileOptionsTargetOverridesHeader(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = TargetMSSQL

	sql, errs := Compile("prql target:sql.postgres\n\nfrom x | take 5", opts)

	require.Empty(t, errs)
	assert.Contains(t, sql, "TOP")
}

func TestCompileLexErrorIsReported(t *testing.T) {
	_, errs := Compile(`from "unterminated`, DefaultOptions())

	require.NotEmpty(t, errs)
}

func TestCompileNoFormatCollapsesOutput(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = false

	sql, errs := Compile(`from x | select {a, b}`, opts)

	require.Empty(t, errs)
	assert.NotContains(t, sql, "\n")
}

func TestCompileSignatureCommentToggle(t *testing.T) {
	opts := DefaultOptions()
	opts.SignatureComment = true
	withSig, errs := Compile(`from x`, opts)
	require.Empty(t, errs)

	opts.SignatureComment = false
	withoutSig, errs := Compile(`from x`, opts)
	require.Empty(t, errs)

	assert.NotEqual(t, withSig, withoutSig)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Format)
	assert.True(t, opts.SignatureComment)
	assert.Equal(t, Target(""), opts.Target)
}

func TestCompileLoopEmitsRecursiveCTE(t *testing.T) {
	sql, errs := Compile(`from employees | select {n = 1} | loop (filter n < 10 | derive n = n + 1)`, DefaultOptions())

	require.Empty(t, errs)
	assert.Contains(t, sql, "WITH RECURSIVE")
	assert.Contains(t, sql, "UNION ALL")
}

func TestCompileAmbiguousJoinColumnIsAnError(t *testing.T) {
	_, errs := Compile(`from t1 | select {x = 1} | join (from t2 | select {x = 2}) (==x) | select x`, DefaultOptions())

	require.NotEmpty(t, errs)
}

func TestCompileJoinDistinctColumnsIsNotAmbiguous(t *testing.T) {
	sql, errs := Compile(`from t1 | select {x = 1} | join (from t2 | select {y = 2}) (this.x == that.y) | select x`, DefaultOptions())

	require.Empty(t, errs)
	assert.Contains(t, sql, "SELECT")
}
