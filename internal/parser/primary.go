package parser

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parsePrimary parses the highest-precedence expression forms: idents
// (possibly called as functions), literals, tuples `{..}`, arrays `[..]`,
// parenthesised sub-pipelines, `case`, s""/f"" strings, `func` literals and
// `$param` (spec.md §3.4 ExprKind).
func (p *parser) parsePrimary() ast.Expr {
	t := p.peek()
	switch t.Kind {
	case token.LParen:
		return p.parseParenOrFunc()
	case token.LBrace:
		return p.parseTuple()
	case token.LBracket:
		return p.parseArray()
	case token.KwCase:
		return p.parseCase()
	case token.KwFunc:
		return p.parseFuncLiteral(nil)
	case token.SStringStart:
		return p.parseInterp(false)
	case token.FStringStart:
		return p.parseInterp(true)
	case token.Param:
		p.advance()
		e := newExpr(p.allocID(), ast.EParam)
		e.ParamName = t.Text[1:]
		e.Span = t.Span
		return e
	case token.LitInt, token.LitFloat, token.LitBool, token.LitNull, token.LitString,
		token.LitRawString, token.LitDate, token.LitTime, token.LitTimestamp, token.LitValueAndUnit:
		lit := p.parseLiteral()
		e := newExpr(p.allocID(), ast.ELiteral)
		e.Literal = lit
		e.Span = t.Span
		return e
	case token.Ident, token.BacktickIdent:
		return p.parseIdentOrCall()
	default:
		p.errorf(t.Span, t.Text, ErrExpectedExpr)
		p.advance()
		e := newExpr(p.allocID(), ast.ELiteral)
		e.Literal = ast.NullLiteral()
		e.Span = t.Span
		return e
	}
}

// parseParenOrFunc parses `( pipeline )`, with delimited-nested-error
// recovery on an unclosed paren (spec.md §4.2 "Error recovery").
func (p *parser) parseParenOrFunc() ast.Expr {
	open := p.advance()
	p.skipNewlines()
	inner := p.parsePipeline()
	p.skipNewlines()
	if _, ok := p.expect(token.RParen); !ok {
		p.recoverTo(token.LParen, token.RParen)
	}
	inner.Span = open.Span.Joined(inner.Span)
	return inner
}

func identPart(t token.Token) string {
	if t.Kind == token.BacktickIdent {
		return t.Text[1 : len(t.Text)-1]
	}
	return t.Text
}

// parseIdentOrCall parses a dotted identifier path and, if followed by
// further primary-starting tokens, a function call with positional and
// named arguments (spec.md §4.2, §3.4 "FuncCall").
func (p *parser) parseIdentOrCall() ast.Expr {
	start := p.peek().Span
	parts := []string{identPart(p.advance())}
	for p.check(token.Dot) && (p.peekAt(1).Kind == token.Ident || p.peekAt(1).Kind == token.BacktickIdent || p.peekAt(1).Kind == token.Star) {
		p.advance()
		if p.check(token.Star) {
			parts = append(parts, identPart(p.advance()))
			break
		}
		parts = append(parts, identPart(p.advance()))
	}
	ident := newExpr(p.allocID(), ast.EIdent)
	ident.Ident = ast.FromPath(parts...)
	ident.Span = start

	if !p.canStartCallArg() {
		return ident
	}
	call := newExpr(p.allocID(), ast.EFuncCall)
	call.FuncName = &ident
	call.NamedArgs = map[string]ast.Expr{}
	for p.canStartCallArg() {
		if p.check(token.Ident) && p.peekAt(1).Kind == token.Colon {
			name := p.advance().Text
			p.advance()
			call.NamedArgs[name] = p.parseUnary()
			continue
		}
		call.Args = append(call.Args, p.parseUnary())
	}
	if len(call.Args) > 0 {
		call.Span = ident.Span.Joined(call.Args[len(call.Args)-1].Span)
	} else {
		call.Span = ident.Span
	}
	return call
}

// canStartCallArg reports whether the next token can begin a bare function
// argument in "juxtaposition call" position (`f a b`), i.e. everything
// that can start a primary expression except tokens that would make this
// ambiguous with a following operator or pipeline separator.
func (p *parser) canStartCallArg() bool {
	switch p.peek().Kind {
	case token.Ident, token.BacktickIdent, token.LitInt, token.LitFloat, token.LitBool,
		token.LitNull, token.LitString, token.LitRawString, token.LitDate, token.LitTime,
		token.LitTimestamp, token.LitValueAndUnit, token.LParen, token.LBrace, token.LBracket,
		token.Param, token.SStringStart, token.FStringStart, token.KwCase, token.KwFunc:
		return true
	}
	return false
}

func (p *parser) parseTuple() ast.Expr {
	open := p.advance()
	e := newExpr(p.allocID(), ast.ETuple)
	fields := parseCommaList(p, token.RBrace, func() (ast.Expr, bool) {
		return p.parsePipelineStage(), true
	})
	e.Tuple = fields
	close, ok := p.expect(token.RBrace)
	if !ok {
		p.recoverTo(token.LBrace, token.RBrace)
	}
	e.Span = open.Span.Joined(close.Span)
	return e
}

func (p *parser) parseArray() ast.Expr {
	open := p.advance()
	e := newExpr(p.allocID(), ast.EArray)
	elems := parseCommaList(p, token.RBracket, func() (ast.Expr, bool) {
		return p.parsePipelineStage(), true
	})
	e.Tuple = elems
	close, ok := p.expect(token.RBracket)
	if !ok {
		p.recoverTo(token.LBracket, token.RBracket)
	}
	e.Span = open.Span.Joined(close.Span)
	return e
}

// parseCase parses `case [cond => value, ...]` (spec.md §4.2).
func (p *parser) parseCase() ast.Expr {
	start := p.advance()
	e := newExpr(p.allocID(), ast.ECase)
	p.expect(token.LBracket)
	arms := parseCommaList(p, token.RBracket, func() (ast.CaseArm, bool) {
		cond := p.parseOr()
		p.expect(token.FatArrow)
		val := p.parseOr()
		return ast.CaseArm{Condition: cond, Value: val}, true
	})
	e.Cases = arms
	close, _ := p.expect(token.RBracket)
	e.Span = start.Span.Joined(close.Span)
	return e
}
