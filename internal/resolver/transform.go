package resolver

import (
	"github.com/prqlc-go/prqlc/internal/ast"
)

var transformKindByName = map[string]ast.TransformKind{
	"from": ast.TFrom, "select": ast.TSelect, "derive": ast.TDerive,
	"filter": ast.TFilter, "group": ast.TGroup, "aggregate": ast.TAggregate,
	"sort": ast.TSort, "take": ast.TTake, "join": ast.TJoin, "window": ast.TWindow,
	"append": ast.TAppend, "loop": ast.TLoop, "remove": ast.TRemove,
}

// transformOwnArity gives the number of positional arguments a transform
// takes besides its chained input. expand.go appends the chained input as
// the final positional argument of every pipeline stage except the first,
// so a call whose argument count doesn't exceed its own arity is the first
// stage of a seedless body pipeline -- the body of a `loop`/`group`/`window`
// continues the relation already flowing through the enclosing transform
// (spec.md §4.5.3, §4.4.4) rather than naming a fresh `from`, and has no
// chained input of its own to resolve.
var transformOwnArity = map[string]int{
	"select": 1, "derive": 1, "filter": 1, "sort": 1, "take": 1,
	"aggregate": 1, "append": 1, "remove": 1,
}

// resolveTransformCall converts a FuncCall whose callee names a built-in
// transform into an ETransformCall node, recomputing the relation's
// Lineage as it goes (spec.md §4.4.4, §4.4.5). The pipeline-desugared
// seed value is always the call's last positional argument (internal/expand
// appends it there), except for `from`, which has no predecessor, and
// except for a body's own first stage, which has no predecessor either.
func (r *Resolver) resolveTransformCall(name string, e ast.Expr) ast.Expr {
	kind := transformKindByName[name]
	tc := &ast.TransformCall{Kind: kind}

	args := e.Args
	var rest []ast.Expr
	if own, ok := transformOwnArity[name]; name == "from" || (ok && len(args) <= own) {
		rest = args
	} else {
		if len(args) == 0 {
			r.errs = append(r.errs, errAt(KindSemantic, ErrTooFewArgs, e.Span))
			t := ast.AnyTy()
			e.PlTy = &t
			return e
		}
		in := r.resolveExpr(args[len(args)-1])
		tc.Input = &in
		rest = args[:len(args)-1]
	}

	prevLineage := r.curLineage
	if tc.Input != nil {
		tc.Input.Lineage = orEmptyLineage(tc.Input.Lineage)
		r.curLineage = tc.Input.Lineage
	}
	defer func() { r.curLineage = prevLineage }()

	newLineage := r.resolveTransformBody(kind, e, tc, rest)

	e.Kind = ast.ETransformCall
	e.Transform = tc
	lineageCopy := newLineage
	e.Lineage = &lineageCopy
	rty := relationTyFromLineage(lineageCopy)
	e.PlTy = &rty
	return e
}

func (r *Resolver) resolveTransformBody(kind ast.TransformKind, e ast.Expr, tc *ast.TransformCall, rest []ast.Expr) ast.Lineage {
	switch kind {
	case ast.TFrom:
		target := r.resolveRelationRef(rest[0])
		tc.Relation = &target
		return lineageOfRelationRef(target)

	case ast.TSelect:
		tuple := r.resolveExpr(rest[0])
		tc.Tuple = flattenTuple(tuple)
		return lineageFromTuple(tc.Tuple)

	case ast.TDerive:
		tuple := r.resolveExpr(rest[0])
		tc.Tuple = flattenTuple(tuple)
		return appendLineage(mustLineage(r.curLineage), tc.Tuple)

	case ast.TFilter:
		cond := r.resolveExpr(rest[0])
		tc.Condition = &cond
		return mustLineage(r.curLineage)

	case ast.TSort:
		tc.Sort = r.resolveSortList(rest[0])
		return mustLineage(r.curLineage)

	case ast.TTake:
		rng := r.resolveExpr(rest[0])
		if rng.Kind == ast.ELiteral && rng.Literal.Kind != ast.LInteger {
			r.errs = append(r.errs, errAt(KindType, ErrTypeMismatch, rng.Span,
				"`take` expected int or range, but found "+literalText(rng.Literal)))
		}
		tc.TakeRange = &rng
		return mustLineage(r.curLineage)

	case ast.TJoin:
		relation := r.resolveRelationRef(rest[0])
		tc.Relation = &relation
		thatLineage := lineageOfRelationRef(relation)
		prevThat := r.curThat
		r.curThat = &thatLineage
		if len(rest) > 1 {
			cond := r.resolveExpr(rest[1])
			tc.Condition = &cond
		}
		r.curThat = prevThat
		if side, ok := e.NamedArgs["side"]; ok {
			tc.Side = joinSideOf(side)
		}
		return mergeLineage(mustLineage(r.curLineage), thatLineage)

	case ast.TGroup:
		keys := r.resolveExpr(rest[0])
		tc.Tuple = flattenTuple(keys)
		wasGroup := r.inGroup
		r.inGroup = true
		var inner ast.Expr
		if len(rest) > 1 {
			inner = r.resolveExpr(rest[1])
		}
		r.inGroup = wasGroup
		tc.Pipeline = &inner
		if inner.Lineage != nil {
			return *inner.Lineage
		}
		return lineageFromTuple(tc.Tuple)

	case ast.TAggregate:
		if !r.inGroup {
			r.errs = append(r.errs, errAt(KindSemantic, ErrTransformOrdering, e.Span, "`aggregate` is only legal inside `group`"))
		}
		tuple := r.resolveExpr(rest[0])
		tc.Tuple = flattenTuple(tuple)
		return lineageFromTuple(tc.Tuple)

	case ast.TWindow:
		wasWindow := r.inWindow
		r.inWindow = true
		var inner ast.Expr
		if len(rest) > 0 {
			inner = r.resolveExpr(rest[len(rest)-1])
		}
		r.inWindow = wasWindow
		tc.Pipeline = &inner
		if f, ok := e.NamedArgs["rows"]; ok {
			rr := r.resolveExpr(f)
			tc.Frame = &ast.WindowFrame{Kind: ast.WindowRows, Start: &rr}
		} else if f, ok := e.NamedArgs["range"]; ok {
			rr := r.resolveExpr(f)
			tc.Frame = &ast.WindowFrame{Kind: ast.WindowRange, Start: &rr}
		}
		if inner.Lineage != nil {
			return *inner.Lineage
		}
		return mustLineage(r.curLineage)

	case ast.TAppend, ast.TRemove:
		relation := r.resolveRelationRef(rest[0])
		tc.Relation = &relation
		return mustLineage(r.curLineage)

	case ast.TLoop:
		inner := r.resolveExpr(rest[0])
		tc.Pipeline = &inner
		if inner.Lineage != nil {
			return *inner.Lineage
		}
		return mustLineage(r.curLineage)
	}
	return ast.Lineage{}
}

func (r *Resolver) resolveSortList(e ast.Expr) []ast.SortSpec {
	fields := flattenTuple(e)
	specs := make([]ast.SortSpec, 0, len(fields))
	for _, f := range fields {
		resolved := r.resolveExpr(f)
		desc := false
		col := resolved
		if resolved.Kind == ast.ERqOperator && resolved.RqOp != nil && resolved.RqOp.Name == "neg" && len(resolved.RqOp.Args) == 1 {
			desc = true
			col = resolved.RqOp.Args[0]
		}
		specs = append(specs, ast.SortSpec{Column: col, Descending: desc})
	}
	return specs
}

func joinSideOf(e ast.Expr) ast.JoinSide {
	name := ""
	if e.Kind == ast.EIdent {
		name = e.Ident.Name()
	}
	switch name {
	case "left":
		return ast.JoinLeft
	case "right":
		return ast.JoinRight
	case "full":
		return ast.JoinFull
	default:
		return ast.JoinInner
	}
}

func orEmptyLineage(l *ast.Lineage) *ast.Lineage {
	if l != nil {
		return l
	}
	return &ast.Lineage{}
}

func mustLineage(l *ast.Lineage) ast.Lineage {
	if l == nil {
		return ast.Lineage{}
	}
	return *l
}
