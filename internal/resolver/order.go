package resolver

import (
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/pl"
	"github.com/prqlc-go/prqlc/internal/source"
)

// topoOrder orders one module's declarations so that every name resolves
// after the names it references, raising ErrCyclicReferences for any cycle
// (spec.md §4.4.1: "A topological sort gives a resolution order; a cycle
// raises a 'cyclic references' error").
func (r *Resolver) topoOrder(mod *pl.Module, names []string) []string {
	nameSet := make(map[string]bool, len(names))
	for _, n := range names {
		nameSet[n] = true
	}
	deps := make(map[string][]string, len(names))
	for _, n := range names {
		d, ok := mod.Get(n)
		if !ok || d.Kind != pl.DUnresolved || d.Unresolved == nil {
			continue
		}
		for _, ref := range collectRefs(*d.Unresolved) {
			if ref != n && nameSet[ref] {
				deps[n] = append(deps[n], ref)
			}
		}
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(names))
	var out []string
	var cyclic []string
	var visit func(string)
	visit = func(n string) {
		switch state[n] {
		case visiting:
			cyclic = append(cyclic, n)
			return
		case done:
			return
		}
		state[n] = visiting
		for _, dep := range deps[n] {
			visit(dep)
		}
		state[n] = done
		out = append(out, n)
	}
	for _, n := range names {
		visit(n)
	}
	if len(cyclic) > 0 {
		r.errs = append(r.errs, errAt(KindResolution, ErrCyclicReferences, source.Span{}, "involves: "+strings.Join(cyclic, ", ")))
	}
	return out
}

// collectRefs walks a statement's value expression collecting the first
// path segment of every ident it mentions, as a coarse over-approximation
// of its dependency set (good enough for a topological ordering -- it may
// link names that turn out unrelated after full resolution, never miss a
// real dependency).
func collectRefs(s ast.Stmt) []string {
	var out []string
	var walk func(e ast.Expr)
	walk = func(e ast.Expr) {
		switch e.Kind {
		case ast.EIdent:
			if len(e.Ident.Parts) > 0 {
				out = append(out, e.Ident.Parts[0])
			}
		case ast.ETuple, ast.EArray:
			for _, f := range e.Tuple {
				walk(f)
			}
		case ast.ERange:
			if e.RangeStart != nil {
				walk(*e.RangeStart)
			}
			if e.RangeEnd != nil {
				walk(*e.RangeEnd)
			}
		case ast.EFuncCall:
			if e.FuncName != nil {
				walk(*e.FuncName)
			}
			for _, a := range e.Args {
				walk(a)
			}
			for _, a := range e.NamedArgs {
				walk(a)
			}
		case ast.EFunc:
			for _, p := range e.FuncParams {
				if p.Default != nil {
					walk(*p.Default)
				}
			}
			if e.FuncBody != nil {
				walk(*e.FuncBody)
			}
		case ast.ECase:
			for _, arm := range e.Cases {
				walk(arm.Condition)
				walk(arm.Value)
			}
		case ast.EIndirection:
			if e.IndirectBase != nil {
				walk(*e.IndirectBase)
			}
		case ast.ESString, ast.EFString:
			for _, it := range e.Interp {
				if it.IsExpr && it.Expr != nil {
					walk(*it.Expr)
				}
			}
		}
	}
	if s.Kind == ast.SVarDef {
		walk(s.VarValue)
	}
	return out
}
