// Package parser turns a lexed PRQL token stream into the Parsed
// Representation (spec.md §2, §3.4): a sequence of top-level ast.Stmt
// values, via a hand-written recursive-descent operator-precedence cascade
// over a token cursor (internal/parser/cursor.go, expr.go), the same
// pos/toks cursor shape the teacher's own parser/parserstep2 package
// threads through its productions.
package parser

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// Parse converts a token stream into top-level statements. Parsing never
// aborts at the first error: a failed production recovers at the next
// statement or delimiter boundary and parsing continues, so every error
// reachable in one pass is collected (spec.md §7 "errors are collected, not
// fail-fast").
func Parse(toks []token.Token) ([]ast.Stmt, []Error) {
	p := newParser(toks)
	stmts := p.parseStmts(token.EOF)
	return stmts, p.errs
}
