// Package token defines the PRQL token kinds produced by internal/lexer and
// consumed by internal/parser (spec.md §4.1).
package token

import "github.com/prqlc-go/prqlc/internal/source"

// Kind is the type of a lexed Token.
type Kind int

const (
	EOF Kind = iota
	Start // synthetic sentinel some parser passes treat as a newline

	NewLine
	LineWrap // "\\" continuation, carries any comments consumed with it

	// Control characters
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Dot
	Colon
	Pipe
	Bang
	At

	// Multi-char operators
	Arrow       // ->
	FatArrow    // =>
	Eq          // ==
	Ne          // !=
	Ge          // >=
	Le          // <=
	Coalesce    // ~=  (regex match in PRQL's operator set)
	And         // &&
	Or          // ||
	QCoalesce   // ??
	DivInt      // //
	Pow         // **
	Lt
	Gt
	Plus
	Minus
	Star
	Slash
	Percent

	Assign // =

	Range // `..`, with binding flags carried on Token

	Ident
	BacktickIdent

	// Keywords
	KwLet
	KwInto
	KwCase
	KwPrql
	KwType
	KwModule
	KwInternal
	KwFunc
	KwImport

	// Literals
	LitInt
	LitFloat
	LitBool
	LitNull
	LitString
	LitRawString
	LitDate
	LitTime
	LitTimestamp
	LitValueAndUnit

	SStringStart // s"
	FStringStart // f"
	InterpLit    // literal segment of an interpolated string
	InterpHoleStart
	InterpHoleEnd
	StringEnd

	Param // $name

	Comment
	DocComment // #!

	Unexpected
)

// Token is a single lexed token with its span in the owning SourceTree.
type Token struct {
	Kind  Kind
	Text  string
	Span  source.Span
	// BindLeft/BindRight record whether whitespace preceded/followed a
	// Range token's dots, which the parser uses to distinguish `1..` (an
	// open range) from `(-1).field` (indirection), per spec.md §4.1.
	BindLeft  bool
	BindRight bool
	// Comments carried by a LineWrap token (spec.md §4.1).
	Comments []Token
}

func (t Token) String() string {
	return t.Text
}

var keywords = map[string]Kind{
	"let":      KwLet,
	"into":     KwInto,
	"case":     KwCase,
	"prql":     KwPrql,
	"type":     KwType,
	"module":   KwModule,
	"internal": KwInternal,
	"func":     KwFunc,
	"import":   KwImport,
}

// LookupKeyword returns the keyword Kind for word, if any.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}
