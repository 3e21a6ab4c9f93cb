package parser

import (
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parseStmts parses a sequence of statements separated by newlines, up to
// (but not consuming) end -- token.EOF at the top level, token.RBrace for a
// module body (spec.md §3.4, §4.2 "Statements").
func (p *parser) parseStmts(end token.Kind) []ast.Stmt {
	var stmts []ast.Stmt
	p.skipNewlines()
	for !p.atEnd() && p.peek().Kind != end {
		before := p.pos
		stmts = append(stmts, p.parseStmt())
		if p.pos == before {
			p.advance() // force progress past a token no production could start from
		}
		p.skipNewlines()
	}
	return stmts
}

func (p *parser) parseStmt() ast.Stmt {
	var doc strings.Builder
	for p.check(token.DocComment) {
		doc.WriteString(p.advance().Text)
		p.skipNewlines()
	}

	var annotation *ast.Expr
	if p.check(token.At) {
		p.advance()
		a := p.parseTuple()
		annotation = &a
		p.skipNewlines()
	}

	start := p.peek().Span
	var s ast.Stmt
	switch p.peek().Kind {
	case token.KwPrql:
		s = p.parseQueryDef()
	case token.KwLet:
		s = p.parseVarDef()
	case token.KwFunc:
		s = p.parseFuncDef()
	case token.KwType:
		s = p.parseTypeDef()
	case token.KwModule:
		s = p.parseModuleDef()
	case token.KwImport:
		s = p.parseImportDef()
	case token.KwInto:
		s = p.parseIntoDef()
	default:
		s = p.parseMainDef()
	}
	if doc.Len() > 0 {
		s.DocComment = doc.String()
	}
	s.Annotation = annotation
	s.Span = start.Joined(s.Span)
	s.ID = p.allocID()
	return s
}

// parseQueryDef parses the `prql version:"..." target:sql.dialect` header
// (spec.md §3.4 "QueryDef", GLOSSARY "query header").
func (p *parser) parseQueryDef() ast.Stmt {
	start := p.advance().Span // 'prql'
	s := ast.Stmt{Kind: ast.SQueryDef, Span: start}
	for p.check(token.Ident) && p.peekAt(1).Kind == token.Colon {
		name := p.advance().Text
		p.advance() // colon
		val := p.parseHeaderValue()
		switch name {
		case "version":
			s.QueryVersion = val
		case "target":
			s.QueryTarget = val
		}
		s.Span = s.Span.Joined(p.toks[p.pos-1].Span)
	}
	return s
}

func (p *parser) parseHeaderValue() string {
	if p.check(token.Ident) {
		parts := []string{p.advance().Text}
		for p.check(token.Dot) && p.peekAt(1).Kind == token.Ident {
			p.advance()
			parts = append(parts, p.advance().Text)
		}
		return strings.Join(parts, ".")
	}
	if p.check(token.LitInt) || p.check(token.LitFloat) || p.check(token.LitBool) ||
		p.check(token.LitString) || p.check(token.LitRawString) {
		lit := p.parseLiteral()
		if lit.Kind == ast.LString || lit.Kind == ast.LRawString {
			return lit.Text
		}
	}
	return ""
}

// parseVarDef parses `let name [:Ty] = value` (spec.md §3.4 "VarDef").
func (p *parser) parseVarDef() ast.Stmt {
	start := p.advance().Span // 'let'
	s := ast.Stmt{Kind: ast.SVarDef, VarKind: ast.VDLet, Span: start}
	s.Name = identPart(p.advance())
	if p.matchKindTok(token.Colon) {
		t := p.parseTy()
		s.VarTy = &t
	}
	p.expect(token.Assign)
	val := p.parsePipeline()
	s.VarValue = val
	s.Span = start.Joined(val.Span)
	return s
}

// parseFuncDef parses a named function definition `func name params -> body`
// (spec.md §4.2 "Functions"), which desugars the same as `let name = func
// params -> body` once internal/expand runs.
func (p *parser) parseFuncDef() ast.Stmt {
	start := p.advance().Span // 'func'
	name := identPart(p.advance())
	e := newExpr(p.allocID(), ast.EFunc)
	var params []ast.FuncParam
	for p.canStartFuncParam() {
		params = append(params, p.parseFuncParam())
	}
	e.FuncParams = params
	p.expect(token.Arrow)
	body := p.parsePipelineStage()
	e.FuncBody = &body
	e.Span = start.Joined(body.Span)
	return ast.Stmt{Kind: ast.SVarDef, Name: name, VarKind: ast.VDLet, VarValue: e, Span: e.Span}
}

// parseIntoDef parses `into name`, which renames the result of the
// immediately preceding anonymous pipeline statement (spec.md §3.4
// "VarDefKind::Into").
func (p *parser) parseIntoDef() ast.Stmt {
	start := p.advance().Span // 'into'
	name := identPart(p.advance())
	return ast.Stmt{Kind: ast.SVarDef, Name: name, VarKind: ast.VDInto, Span: start.Joined(p.toks[p.pos-1].Span)}
}

// parseTypeDef parses `type name = Ty` (spec.md §3.4 "TypeDef").
func (p *parser) parseTypeDef() ast.Stmt {
	start := p.advance().Span // 'type'
	name := identPart(p.advance())
	p.expect(token.Assign)
	ty := p.parseTy()
	return ast.Stmt{Kind: ast.STypeDef, Name: name, TypeValue: ty, Span: start.Joined(p.toks[p.pos-1].Span)}
}

// parseModuleDef parses `module name { stmt* }` (spec.md §3.4 "ModuleDef").
func (p *parser) parseModuleDef() ast.Stmt {
	start := p.advance().Span // 'module'
	name := identPart(p.advance())
	p.expect(token.LBrace)
	body := p.parseStmts(token.RBrace)
	closeTok, _ := p.expect(token.RBrace)
	return ast.Stmt{Kind: ast.SModuleDef, Name: name, ModuleStmts: body, Span: start.Joined(closeTok.Span)}
}

// parseImportDef parses `import alias = path.path` or a bare `import
// path.path` (spec.md §3.4 "ImportDef").
func (p *parser) parseImportDef() ast.Stmt {
	start := p.advance().Span // 'import'
	var alias string
	if p.check(token.Ident) && p.peekAt(1).Kind == token.Assign {
		alias = p.advance().Text
		p.advance() // '='
	}
	parts := []string{identPart(p.advance())}
	for p.check(token.Dot) {
		p.advance()
		parts = append(parts, identPart(p.advance()))
	}
	return ast.Stmt{Kind: ast.SImportDef, ImportName: ast.FromPath(parts...), ImportAlias: alias, Span: start.Joined(p.toks[p.pos-1].Span)}
}

// parseMainDef parses a bare pipeline expression at statement level: the
// query's result, i.e. an unnamed VarDef of kind Main (spec.md §3.4
// "VarDefKind::Main").
func (p *parser) parseMainDef() ast.Stmt {
	val := p.parsePipeline()
	return ast.Stmt{Kind: ast.SVarDef, VarKind: ast.VDMain, VarValue: val, Span: val.Span}
}
