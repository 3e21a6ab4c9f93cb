package parser

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parseFuncLiteral parses a `func` expression: zero or more parameters,
// each optionally typed (`name:Ty`) and/or defaulted (`name = default`),
// then `-> body` (spec.md §4.2 "Functions"). leading lets a caller that has
// already consumed bare-ident parameters (none currently does, but keeps
// this usable from a future shorthand-definition path) splice them in
// ahead of the ones parsed here.
func (p *parser) parseFuncLiteral(leading []ast.FuncParam) ast.Expr {
	start := p.peek().Span
	if p.check(token.KwFunc) {
		start = p.advance().Span
	}
	e := newExpr(p.allocID(), ast.EFunc)
	params := append([]ast.FuncParam{}, leading...)
	for p.canStartFuncParam() {
		params = append(params, p.parseFuncParam())
	}
	e.FuncParams = params
	p.expect(token.Arrow)
	body := p.parsePipelineStage()
	e.FuncBody = &body
	e.Span = start.Joined(body.Span)
	return e
}

func (p *parser) canStartFuncParam() bool {
	return p.check(token.Ident) || p.check(token.BacktickIdent)
}

func (p *parser) parseFuncParam() ast.FuncParam {
	fp := ast.FuncParam{Name: identPart(p.advance())}
	if p.matchKindTok(token.Colon) {
		t := p.parseTy()
		fp.Type = &t
	}
	if p.matchKindTok(token.Assign) {
		d := p.parseOr()
		fp.Default = &d
	}
	return fp
}
