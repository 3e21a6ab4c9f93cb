package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prqlc-go/prqlc/internal/source"
	"github.com/prqlc-go/prqlc/internal/token"
)

func lex(t *testing.T, src string) []token.Token {
	t.Helper()
	tree := source.New([2]string{"test.prql", src})
	id, ok := tree.IDOf("test.prql")
	require.True(t, ok)
	toks, errs := Lex(tree, id)
	require.Empty(t, errs)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexPipeline(t *testing.T) {
	toks := lex(t, "from employees | filter age > 30")

	assert.Equal(t, []token.Kind{
		token.Ident, token.Ident, token.Pipe, token.Ident, token.Ident, token.Gt, token.LitInt, token.EOF,
	}, kinds(toks))
}

func TestLexStrings(t *testing.T) {
	toks := lex(t, `"hello" r"raw\n" '''triple'''`)

	assert.Equal(t, []token.Kind{
		token.LitString, token.LitRawString, token.LitString, token.EOF,
	}, kinds(toks))
}

func TestLexInterpolatedStrings(t *testing.T) {
	toks := lex(t, `s"SELECT * FROM {table}"`)
	assert.Equal(t, token.SStringStart, toks[0].Kind)

	toks = lex(t, `f"{a} + {b}"`)
	assert.Equal(t, token.FStringStart, toks[0].Kind)
}

func TestLexNumbers(t *testing.T) {
	toks := lex(t, "1 2.5 1_000 5days 1e10")

	assert.Equal(t, []token.Kind{
		token.LitInt, token.LitFloat, token.LitInt, token.LitValueAndUnit, token.LitFloat, token.EOF,
	}, kinds(toks))
}

func TestLexDateTimeLiterals(t *testing.T) {
	toks := lex(t, "@2021-01-01 @08:30:00 @2021-01-01T08:30:00")

	assert.Equal(t, []token.Kind{
		token.LitDate, token.LitTime, token.LitTimestamp, token.EOF,
	}, kinds(toks))
}

func TestLexRangeVsDot(t *testing.T) {
	toks := lex(t, "1..10")
	assert.Equal(t, []token.Kind{token.LitInt, token.Range, token.LitInt, token.EOF}, kinds(toks))

	rangeTok := toks[1]
	assert.True(t, rangeTok.BindLeft)
	assert.True(t, rangeTok.BindRight)
}

func TestLexOperators(t *testing.T) {
	toks := lex(t, "== != >= <= ~= && || ?? // **")

	assert.Equal(t, []token.Kind{
		token.Eq, token.Ne, token.Ge, token.Le, token.Coalesce,
		token.And, token.Or, token.QCoalesce, token.DivInt, token.Pow, token.EOF,
	}, kinds(toks))
}

func TestLexDocComment(t *testing.T) {
	tree := source.New([2]string{"test.prql", "#! a doc comment\nfrom x"})
	id, _ := tree.IDOf("test.prql")
	toks, errs := Lex(tree, id)
	require.Empty(t, errs)

	assert.Equal(t, token.DocComment, toks[0].Kind)
}

func TestLexUnterminatedStringReportsErrorButContinues(t *testing.T) {
	tree := source.New([2]string{"test.prql", `"unterminated` + "\nfrom x"})
	id, _ := tree.IDOf("test.prql")
	toks, errs := Lex(tree, id)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, ErrUnterminatedString)
	// Lexing continues past the bad token instead of stopping.
	assert.Contains(t, kinds(toks), token.Ident)
}

func TestLexUnexpectedCharacterContinues(t *testing.T) {
	tree := source.New([2]string{"test.prql", "from x | filter a == 1 ~ b"})
	id, _ := tree.IDOf("test.prql")
	_, errs := Lex(tree, id)

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0].Err, ErrUnexpected)
}

func TestLexBacktickIdent(t *testing.T) {
	toks := lex(t, "from `my table`")
	assert.Equal(t, []token.Kind{token.Ident, token.BacktickIdent, token.EOF}, kinds(toks))
}

func TestLexUnicodeIdentNormalization(t *testing.T) {
	// "café" with a combining acute accent (NFD) should normalize to the
	// same token text as its precomposed (NFC) spelling.
	nfd := "café"
	nfc := "café"

	toksNFD := lex(t, nfd)
	toksNFC := lex(t, nfc)

	assert.Equal(t, toksNFC[0].Text, toksNFD[0].Text)
}
