package prqlfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prqlc-go/prqlc"
)

func format(t *testing.T, src string) string {
	t.Helper()
	pl, errs := prqlc.PrqlToPL(src)
	require.Empty(t, errs)
	return prqlc.PlToPrql(pl)
}

func TestFormatSimplePipeline(t *testing.T) {
	out := format(t, "from employees | filter age > 30 | select {name, age}")

	assert.Contains(t, out, "from employees")
	assert.Contains(t, out, "filter age > 30")
	assert.Contains(t, out, "select {name, age}")
}

func TestFormatLetBinding(t *testing.T) {
	out := format(t, "let high_earners = (from employees | filter salary > 100000)")

	assert.Contains(t, out, "let high_earners")
}

func TestFormatIsIdempotent(t *testing.T) {
	src := "from x | derive y = a + b | sort {-y}"

	once := format(t, src)

	pl, errs := prqlc.PrqlToPL(once)
	require.Empty(t, errs)
	twice := prqlc.PlToPrql(pl)

	assert.Equal(t, once, twice)
}
