package resolver

import (
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/pl"
)

// resolveIdentExpr resolves a bare EIdent to its Decl, filling in TargetID,
// the rendered fully-qualified Ident, and (when known) the declaration's
// type (spec.md §4.4.2).
func (r *Resolver) resolveIdentExpr(e ast.Expr) ast.Expr {
	fq, targetID, err := r.lookup(e)
	if err != nil {
		r.errs = append(r.errs, errAt(KindResolution, err, e.Span))
		t := ast.AnyTy()
		e.PlTy = &t
		return e
	}
	e.Ident = fq
	e.TargetID = targetID
	if d, ok := r.declByID[targetID]; ok && d.VariableTy != nil {
		e.PlTy = d.VariableTy
	}
	if e.PlTy == nil {
		t := ast.AnyTy()
		e.PlTy = &t
	}
	return e
}

// lookup implements spec.md §4.4.2's name-resolution algorithm: an
// explicitly-prefixed path (std/project/module/db/this/that) is resolved
// directly; an unprefixed path is tried against both the current default
// namespace and std, raising ErrAmbiguousName if both match (spec.md §8
// literal scenario: `derive date = ...` shadowing `std.date`).
func (r *Resolver) lookup(e ast.Expr) (ast.Ident, int, error) {
	parts := e.Ident.Parts
	if len(parts) == 0 {
		return e.Ident, 0, ErrUnknownName
	}

	switch parts[0] {
	case "std", "project", "module", "db", "default_db", "this", "that":
		return r.resolveQualified(parts)
	}

	type candidate struct {
		fq  ast.Ident
		tid int
	}
	var cands []candidate
	if fq, tid, err := r.resolveQualified(append([]string{r.defaultNS}, parts...)); err == nil {
		cands = append(cands, candidate{fq, tid})
	} else if err == ErrAmbiguousName {
		r.errs = append(r.errs, errAt(KindResolution, ErrAmbiguousName, e.Span, "more than one column in scope is named "+strings.Join(parts, ".")))
		return fq, tid, nil
	}
	if fq, tid, err := r.resolveQualified(append([]string{"std"}, parts...)); err == nil {
		cands = append(cands, candidate{fq, tid})
	}

	switch len(cands) {
	case 0:
		return e.Ident, 0, ErrUnknownName
	case 1:
		return cands[0].fq, cands[0].tid, nil
	default:
		names := make([]string, len(cands))
		for i, c := range cands {
			names[i] = c.fq.String()
		}
		r.errs = append(r.errs, errAt(KindResolution, ErrAmbiguousName, e.Span, "could be any of: "+strings.Join(names, ", ")))
		return cands[0].fq, cands[0].tid, nil
	}
}

// resolveQualified walks an already-prefixed path: "this"/"that" consult
// the ephemeral lineage scope first (spec.md §4.4.2 point 1), everything
// else walks the declaration tree from the root, materialising unknown
// segments via a module's InferDecl when present (spec.md §4.4.2 point 2,
// §3.6 "InferDecl").
func (r *Resolver) resolveQualified(parts []string) (ast.Ident, int, error) {
	if len(parts) == 2 && (parts[0] == "this" || parts[0] == "that") {
		if tid, ok, ambiguous := r.lookupScope(parts[0], parts[1]); ok {
			if ambiguous {
				return ast.FromPath(parts...), tid, ErrAmbiguousName
			}
			return ast.FromPath(parts...), tid, nil
		}
	}

	walk := parts
	if len(walk) >= 1 && (walk[0] == "project" || walk[0] == "module") {
		walk = walk[1:]
	}
	if len(walk) == 0 {
		return ast.Ident{}, 0, ErrUnknownName
	}

	curMod := r.Root.Root
	var d *pl.Decl
	var ok bool
	for i, seg := range walk {
		if seg == "*" {
			return ast.FromPath(append(append([]string(nil), walk[:i]...), "*")...), 0, nil
		}
		d, ok = curMod.Get(seg)
		if !ok {
			if curMod.InferDecl != nil {
				inferred := &pl.Decl{Kind: pl.DInferTupleField}
				curMod.Insert(seg, inferred)
				d, ok = inferred, true
			} else {
				return ast.Ident{}, 0, ErrUnknownName
			}
		}
		if i < len(walk)-1 {
			if d.Kind != pl.DModule {
				return ast.Ident{}, 0, ErrUnknownName
			}
			curMod = d.Module
		}
	}

	if d.DeclaredAt == nil {
		id := r.Root.NextID()
		d.DeclaredAt = &id
		r.declByID[id] = d
	}
	return ast.FromPath(walk...), *d.DeclaredAt, nil
}

// resolveRelationRef resolves a `from`/`join`/`append`/`remove` target: a
// let-bound relation or import resolves the ordinary way, but a name with
// no matching declaration falls back to default_db rather than raising
// ErrUnknownName, since an un-imported table name is the common case for
// a source relation (spec.md §3.6 "InferDecl").
func (r *Resolver) resolveRelationRef(e ast.Expr) ast.Expr {
	if e.Kind != ast.EIdent {
		return r.resolveExpr(e)
	}
	fq, tid, err := r.resolveQualified(e.Ident.Parts)
	if err != nil {
		fq, tid, err = r.resolveQualified(append([]string{"default_db"}, e.Ident.Parts...))
	}
	if err != nil {
		r.errs = append(r.errs, errAt(KindResolution, err, e.Span))
		t := ast.AnyTy()
		e.PlTy = &t
		return e
	}
	e.Ident = fq
	e.TargetID = tid
	if d, ok := r.declByID[tid]; ok && d.VariableTy != nil {
		e.PlTy = d.VariableTy
	}
	if e.PlTy == nil {
		t := ast.AnyTy()
		e.PlTy = &t
	}
	return e
}

// lookupScope resolves a single-segment "this.x"/"that.x" reference against
// the Lineage of the relation currently flowing through the transform being
// resolved (spec.md §4.4.2 point 1, §3.7 "Lineage"). ambiguous reports
// whether field matched more than one column -- e.g. `from a | join b
// (==id) | select x` when both a and b expose x, which mergeLineage
// concatenates into one Lineage with two same-named columns (spec.md §8
// "ambiguity error when both sides have x").
func (r *Resolver) lookupScope(ns, field string) (tid int, ok bool, ambiguous bool) {
	var lin *ast.Lineage
	if ns == "this" {
		lin = r.curLineage
	} else {
		lin = r.curThat
	}
	if lin == nil {
		return 0, false, false
	}
	for _, col := range lin.Columns {
		if col.Kind == ast.LineageSingle && col.Name != nil && *col.Name == field {
			if ok {
				return tid, true, true
			}
			tid, ok = col.TargetID, true
		}
	}
	return tid, ok, false
}
