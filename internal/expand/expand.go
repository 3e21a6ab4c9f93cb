// Package expand performs the one-pass PR→PL rewrite of spec.md §4.3: it
// allocates fresh generation ids across the whole program, desugars
// pipelines into chained function calls, desugars binary/unary operators
// into `std.*` function calls, and desugars self-equality `==x` into
// `std.eq this.x that.x`. The parser already produces `VarDef{kind:Main}`
// directly for a bare top-level pipeline (spec.md §4.3 point 4), so this
// pass does not need a separate Main-conversion step.
package expand

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/source"
)

type idGen struct{ next int }

func (g *idGen) next_() int {
	g.next++
	return g.next
}

// Expand rewrites a PR statement list into its PL-shaped equivalent,
// in place semantically (it returns new values; callers should discard the
// PR tree afterwards).
func Expand(stmts []ast.Stmt) ([]ast.Stmt, []Error) {
	g := &idGen{}
	var errs []Error
	out := make([]ast.Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = expandStmt(g, &errs, s)
	}
	return out, errs
}

func expandStmt(g *idGen, errs *[]Error, s ast.Stmt) ast.Stmt {
	switch s.Kind {
	case ast.SVarDef:
		s.VarValue = expandExpr(g, errs, s.VarValue)
		if s.VarKind == ast.VDMain && s.Name == "" {
			s.Name = "main"
		}
	case ast.SModuleDef:
		body := make([]ast.Stmt, len(s.ModuleStmts))
		for i, inner := range s.ModuleStmts {
			body[i] = expandStmt(g, errs, inner)
		}
		s.ModuleStmts = body
	case ast.STypeDef, ast.SImportDef, ast.SQueryDef:
		// no nested expressions to expand
	}
	if s.Annotation != nil {
		a := expandExpr(g, errs, *s.Annotation)
		s.Annotation = &a
	}
	return s
}

func expandExpr(g *idGen, errs *[]Error, e ast.Expr) ast.Expr {
	e.ID = g.next_()
	e.TargetID = 0
	e.PlTy = nil
	e.Lineage = nil

	switch e.Kind {
	case ast.EPipeline:
		return expandPipeline(g, errs, e)
	case ast.EBinary:
		left := expandExpr(g, errs, *e.Left)
		right := expandExpr(g, errs, *e.Right)
		call := mkStdCall(g, e.Span, e.BinOp.StdName(), left, right)
		call.Alias = e.Alias
		return call
	case ast.EUnary:
		return expandUnary(g, errs, e)
	case ast.ETuple, ast.EArray:
		fields := make([]ast.Expr, len(e.Tuple))
		for i, f := range e.Tuple {
			fields[i] = expandExpr(g, errs, f)
		}
		e.Tuple = fields
	case ast.ERange:
		if e.RangeStart != nil {
			s := expandExpr(g, errs, *e.RangeStart)
			e.RangeStart = &s
		}
		if e.RangeEnd != nil {
			s := expandExpr(g, errs, *e.RangeEnd)
			e.RangeEnd = &s
		}
	case ast.EFuncCall:
		if e.FuncName != nil {
			n := expandExpr(g, errs, *e.FuncName)
			e.FuncName = &n
		}
		args := make([]ast.Expr, len(e.Args))
		for i, a := range e.Args {
			args[i] = expandExpr(g, errs, a)
		}
		e.Args = args
		if e.NamedArgs != nil {
			named := make(map[string]ast.Expr, len(e.NamedArgs))
			for k, v := range e.NamedArgs {
				named[k] = expandExpr(g, errs, v)
			}
			e.NamedArgs = named
		}
	case ast.EFunc:
		params := make([]ast.FuncParam, len(e.FuncParams))
		for i, p := range e.FuncParams {
			params[i] = expandFuncParam(g, errs, p)
		}
		e.FuncParams = params
		if e.FuncBody != nil {
			b := expandExpr(g, errs, *e.FuncBody)
			e.FuncBody = &b
		}
	case ast.ESString, ast.EFString:
		items := make([]ast.InterpItem, len(e.Interp))
		for i, it := range e.Interp {
			if it.IsExpr && it.Expr != nil {
				x := expandExpr(g, errs, *it.Expr)
				it.Expr = &x
			}
			items[i] = it
		}
		e.Interp = items
	case ast.ECase:
		arms := make([]ast.CaseArm, len(e.Cases))
		for i, arm := range e.Cases {
			arm.Condition = expandExpr(g, errs, arm.Condition)
			arm.Value = expandExpr(g, errs, arm.Value)
			arms[i] = arm
		}
		e.Cases = arms
	case ast.EIndirection:
		if e.IndirectBase != nil {
			b := expandExpr(g, errs, *e.IndirectBase)
			e.IndirectBase = &b
		}
	}
	return e
}

func expandFuncParam(g *idGen, errs *[]Error, p ast.FuncParam) ast.FuncParam {
	if p.Default != nil {
		d := expandExpr(g, errs, *p.Default)
		p.Default = &d
	}
	return p
}

// expandPipeline folds `a | f b | g` into `g (f b a)`: the first stage
// seeds the value, and each later stage receives it appended as its final
// positional argument (spec.md §4.3 point 2).
func expandPipeline(g *idGen, errs *[]Error, e ast.Expr) ast.Expr {
	stages := make([]ast.Expr, len(e.Pipeline))
	for i, st := range e.Pipeline {
		stages[i] = expandExpr(g, errs, st)
	}
	seed := stages[0]
	for _, st := range stages[1:] {
		seed = applyPipelineStage(g, errs, seed, st)
	}
	seed.Alias = e.Alias
	return seed
}

func applyPipelineStage(g *idGen, errs *[]Error, seed, stage ast.Expr) ast.Expr {
	switch stage.Kind {
	case ast.EFuncCall:
		stage.Args = append(append([]ast.Expr{}, stage.Args...), seed)
		stage.ID = g.next_()
		return stage
	case ast.EIdent:
		name := stage
		return ast.Expr{ID: g.next_(), Kind: ast.EFuncCall, Span: stage.Span, FuncName: &name, Args: []ast.Expr{seed}}
	default:
		*errs = append(*errs, Error{Err: ErrInvalidPipelineStage, Span: stage.Span})
		return seed
	}
}

func expandUnary(g *idGen, errs *[]Error, e ast.Expr) ast.Expr {
	operand := expandExpr(g, errs, *e.Unary)
	switch e.UnOp {
	case ast.UNeg:
		call := mkStdCall(g, e.Span, "neg", operand)
		call.Alias = e.Alias
		return call
	case ast.UNot:
		call := mkStdCall(g, e.Span, "not", operand)
		call.Alias = e.Alias
		return call
	case ast.UPos:
		return operand
	case ast.UEq:
		// Self-equality join-on sugar: `==x` -> `std.eq this.x that.x`. The
		// parser already rejected non-bare-name operands (spec.md §4.3
		// point 3), so operand.Ident is trusted here.
		name := operand.Ident.Name()
		thisX := ast.Expr{ID: g.next_(), Kind: ast.EIdent, Span: e.Span, Ident: ast.FromPath("this", name)}
		thatX := ast.Expr{ID: g.next_(), Kind: ast.EIdent, Span: e.Span, Ident: ast.FromPath("that", name)}
		call := mkStdCall(g, e.Span, "eq", thisX, thatX)
		call.Alias = e.Alias
		return call
	}
	return operand
}

func mkStdCall(g *idGen, span source.Span, op string, args ...ast.Expr) ast.Expr {
	fn := ast.Expr{ID: g.next_(), Kind: ast.EIdent, Span: span, Ident: ast.FromPath("std", op)}
	return ast.Expr{ID: g.next_(), Kind: ast.EFuncCall, Span: span, FuncName: &fn, Args: args}
}
