package parser

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

var primitiveNames = map[string]ast.Primitive{
	"int": ast.PInt, "float": ast.PFloat, "bool": ast.PBool, "text": ast.PText,
	"date": ast.PDate, "time": ast.PTime, "timestamp": ast.PTimestamp,
}

// parseTy parses a type expression (spec.md §3.4 "Ty"): `Any`, a primitive
// name, a singleton literal, `A || B` unions, `{..}` tuples (where a tuple
// containing a single range is reinterpreted as a wildcard rest marker,
// §4.2 "tuples in type position permit `..` as 'rest'"), `[T]` arrays,
// `func T1 T2 -> R` functions, and `Base - Exclude` differences.
func (p *parser) parseTy() ast.Ty {
	base := p.parseTyUnion()
	if p.matchKindTok(token.Minus) {
		exclude := p.parseTyUnion()
		return ast.Ty{Kind: ast.TDifference, DiffBase: &base, DiffExclude: &exclude}
	}
	return base
}

func (p *parser) parseTyUnion() ast.Ty {
	first := p.parseTyPrimary()
	if !p.check(token.Or) {
		return first
	}
	variants := []ast.TyUnionVariant{{Ty: first}}
	for p.matchKindTok(token.Or) {
		variants = append(variants, ast.TyUnionVariant{Ty: p.parseTyPrimary()})
	}
	return ast.Ty{Kind: ast.TUnion, Union: variants}
}

func (p *parser) matchKindTok(k token.Kind) bool {
	_, ok := p.match(k)
	return ok
}

func (p *parser) parseTyPrimary() ast.Ty {
	switch p.peek().Kind {
	case token.Ident:
		name := p.advance().Text
		if name == "Any" {
			return ast.AnyTy()
		}
		if prim, ok := primitiveNames[name]; ok {
			return ast.PrimitiveTy(prim)
		}
		return ast.IdentTy(ast.FromName(name))
	case token.LitInt, token.LitFloat, token.LitBool, token.LitString, token.LitNull:
		lit := p.parseLiteral()
		return ast.Ty{Kind: ast.TSingleton, Singleton: lit}
	case token.LBrace:
		return p.parseTyTuple()
	case token.LBracket:
		p.advance()
		elem := p.parseTy()
		p.expect(token.RBracket)
		return ast.Ty{Kind: ast.TArray, Array: &elem}
	case token.KwFunc:
		return p.parseTyFunc()
	case token.Minus:
		// Difference type `Base - Exclude` is parsed by parseTy, after a
		// full base type; a leading `-` here is a parse error.
		fallthrough
	default:
		t := p.peek()
		p.errorf(t.Span, t.Text, ErrExpectedExpr)
		p.advance()
		return ast.AnyTy()
	}
}

func (p *parser) parseTyTuple() ast.Ty {
	p.expect(token.LBrace)
	fields := parseCommaList(p, token.RBrace, func() (ast.TyTupleField, bool) {
		if p.check(token.Range) {
			p.advance()
			return ast.TyTupleField{Wildcard: true}, true
		}
		if p.check(token.Ident) && p.peekAt(1).Kind == token.Colon {
			name := p.advance().Text
			p.advance() // colon
			return ast.TyTupleField{Name: name, Ty: p.parseTy()}, true
		}
		return ast.TyTupleField{Ty: p.parseTy()}, true
	})
	p.expect(token.RBrace)
	return ast.Ty{Kind: ast.TTuple, Tuple: fields}
}

func (p *parser) parseTyFunc() ast.Ty {
	p.advance() // func
	var args []*ast.Ty
	for !p.check(token.Arrow) && !p.atEnd() {
		t := p.parseTy()
		args = append(args, &t)
	}
	var ret *ast.Ty
	if p.matchKindTok(token.Arrow) {
		t := p.parseTy()
		ret = &t
	}
	return ast.Ty{Kind: ast.TFunction, FuncArgs: args, FuncReturnTy: ret}
}
