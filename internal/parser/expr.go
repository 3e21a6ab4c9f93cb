package parser

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parsePipeline parses a `|`- or newline-separated sequence of stages
// (spec.md §4.2 "Pipelines"). A single stage is returned unwrapped; two or
// more are collected into an ast.EPipeline node, left for internal/expand
// to desugar into chained function applications (spec.md §4.3 point 2).
// Alias syntax `name = expr` is only legal here, at pipeline-stage level,
// or as a tuple field (spec.md §4.2 "Alias syntax").
func (p *parser) parsePipeline() ast.Expr {
	start := p.peek().Span
	stages := []ast.Expr{p.parsePipelineStage()}
	for {
		sawSeparator := false
		for p.check(token.NewLine) {
			p.advance()
			sawSeparator = true
		}
		if p.check(token.Pipe) {
			p.advance()
			p.skipNewlines()
			sawSeparator = true
		}
		if !sawSeparator {
			break
		}
		if p.atEnd() || p.atStageTerminator() {
			break
		}
		stages = append(stages, p.parsePipelineStage())
	}
	if len(stages) == 1 {
		return stages[0]
	}
	e := newExpr(p.allocID(), ast.EPipeline)
	e.Pipeline = stages
	e.Span = start.Joined(stages[len(stages)-1].Span)
	return e
}

// atStageTerminator reports whether the cursor sits on a token that can
// never start a pipeline stage, so trailing newlines before a closing
// delimiter don't get misread as "one more empty stage".
func (p *parser) atStageTerminator() bool {
	switch p.peek().Kind {
	case token.RParen, token.RBrace, token.RBracket, token.EOF, token.Comma:
		return true
	}
	return false
}

func (p *parser) parsePipelineStage() ast.Expr {
	e := p.parseOr()
	if p.check(token.Assign) {
		// `name = expr`: only a bare ident on the left makes a legal alias.
		if e.Kind == ast.EIdent && len(e.Ident.Parts) == 1 {
			p.advance()
			value := p.parseOr()
			value.Alias = e.Ident.Name()
			value.Span = e.Span.Joined(value.Span)
			return value
		}
	}
	return e
}

func (p *parser) parseOr() ast.Expr {
	left := p.parseCoalesce()
	for p.check(token.Or) {
		op := p.advance()
		right := p.parseCoalesce()
		left = p.mkBinary(ast.OpOr, left, right, op)
	}
	return left
}

// Binary-operator precedence cascade (spec.md §4.2 "Precedence"):
//
//	pipeline -> or -> and -> equality -> additive -> multiplicative ->
//	unary -> range -> indirection -> primary
//
// `??` binds between `or` and `and`.

func (p *parser) parseCoalesce() ast.Expr {
	left := p.parseAnd()
	for p.check(token.QCoalesce) {
		op := p.advance()
		right := p.parseAnd()
		left = p.mkBinary(ast.OpCoalesce, left, right, op)
	}
	return left
}

func (p *parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.And) {
		op := p.advance()
		right := p.parseEquality()
		left = p.mkBinary(ast.OpAnd, left, right, op)
	}
	return left
}

func (p *parser) parseEquality() ast.Expr {
	left := p.parseAdditive()
	for {
		var op ast.BinOp
		switch p.peek().Kind {
		case token.Eq:
			op = ast.OpEq
		case token.Ne:
			op = ast.OpNe
		case token.Gt:
			op = ast.OpGt
		case token.Lt:
			op = ast.OpLt
		case token.Ge:
			op = ast.OpGe
		case token.Le:
			op = ast.OpLe
		case token.Coalesce:
			op = ast.OpRegex
		default:
			return left
		}
		tok := p.advance()
		right := p.parseAdditive()
		left = p.mkBinary(op, left, right, tok)
	}
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		var op ast.BinOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.OpAdd
		case token.Minus:
			op = ast.OpSub
		default:
			return left
		}
		tok := p.advance()
		right := p.parseMultiplicative()
		left = p.mkBinary(op, left, right, tok)
	}
}

func (p *parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for {
		var op ast.BinOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.OpMul
		case token.DivInt:
			op = ast.OpDivInt
		case token.Slash:
			op = ast.OpDiv
		case token.Percent:
			op = ast.OpMod
		case token.Pow:
			op = ast.OpPow
		default:
			return left
		}
		tok := p.advance()
		right := p.parseUnary()
		left = p.mkBinary(op, left, right, tok)
	}
}

// parseUnary handles `- + ! ==`; the last is "self-equality" join-on sugar
// (spec.md §4.3 point 3) and is only legal on a bare name.
func (p *parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case token.Minus:
		tok := p.advance()
		operand := p.parseUnary()
		e := newExpr(p.allocID(), ast.EUnary)
		e.UnOp = ast.UNeg
		e.Unary = &operand
		e.Span = tok.Span.Joined(operand.Span)
		return e
	case token.Plus:
		p.advance()
		return p.parseUnary() // unary + is identity, no node needed
	case token.Bang:
		tok := p.advance()
		operand := p.parseUnary()
		e := newExpr(p.allocID(), ast.EUnary)
		e.UnOp = ast.UNot
		e.Unary = &operand
		e.Span = tok.Span.Joined(operand.Span)
		return e
	case token.Eq:
		tok := p.advance()
		operand := p.parseUnary()
		if operand.Kind != ast.EIdent || len(operand.Ident.Parts) != 1 {
			p.errorf(operand.Span, "", ErrSelfEqualityOnNonIdent)
		}
		e := newExpr(p.allocID(), ast.EUnary)
		e.UnOp = ast.UEq
		e.Unary = &operand
		e.Span = tok.Span.Joined(operand.Span)
		return e
	default:
		return p.parseRange()
	}
}

// parseRange handles `a..b`, `a..`, `..b` (spec.md §3.4 "Range").
func (p *parser) parseRange() ast.Expr {
	if p.check(token.Range) {
		tok := p.advance()
		e := newExpr(p.allocID(), ast.ERange)
		e.Span = tok.Span
		if p.canStartIndirectionPrimary() {
			end := p.parseIndirection()
			e.RangeEnd = &end
			e.Span = e.Span.Joined(end.Span)
		}
		return e
	}
	left := p.parseIndirection()
	if p.check(token.Range) {
		tok := p.advance()
		e := newExpr(p.allocID(), ast.ERange)
		e.RangeStart = &left
		e.Span = left.Span.Joined(tok.Span)
		if p.canStartIndirectionPrimary() {
			end := p.parseIndirection()
			e.RangeEnd = &end
			e.Span = e.Span.Joined(end.Span)
		}
		return e
	}
	return left
}

func (p *parser) canStartIndirectionPrimary() bool {
	switch p.peek().Kind {
	case token.RParen, token.RBrace, token.RBracket, token.Comma, token.NewLine,
		token.Pipe, token.EOF, token.Arrow, token.FatArrow:
		return false
	}
	return true
}

// parseIndirection handles `.name` and `.0` positional suffixes chained
// after a primary expression (spec.md §4.2 "indirection").
func (p *parser) parseIndirection() ast.Expr {
	base := p.parsePrimary()
	for p.check(token.Dot) {
		p.advance()
		ind := ast.Indirection{}
		var end token.Token
		if p.check(token.LitInt) {
			lit := p.parseLiteral()
			ind.IsPosition = true
			ind.Position = int(lit.Int)
		} else if p.check(token.Ident) || p.check(token.BacktickIdent) {
			end = p.advance()
			ind.Name = end.Text
		} else if p.check(token.Star) {
			end = p.advance()
			ind.Name = "*"
		} else {
			t := p.peek()
			p.errorf(t.Span, t.Text, ErrExpectedExpr)
			break
		}
		e := newExpr(p.allocID(), ast.EIndirection)
		e.IndirectBase = &base
		e.Indirect = ind
		e.Span = base.Span.Joined(end.Span)
		base = e
	}
	return base
}

func (p *parser) mkBinary(op ast.BinOp, left, right ast.Expr, opTok token.Token) ast.Expr {
	e := newExpr(p.allocID(), ast.EBinary)
	e.BinOp = op
	e.Left = &left
	e.Right = &right
	e.Span = left.Span.Joined(right.Span)
	_ = opTok
	return e
}
