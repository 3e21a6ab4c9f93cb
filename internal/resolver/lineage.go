package resolver

import "github.com/prqlc-go/prqlc/internal/ast"

// flattenTuple returns a tuple/array expression's fields, or a single-item
// slice for anything else (a defensive fallback: every transform argument
// that reaches here was produced by the parser as a tuple literal, but a
// one-field shorthand like `sort x` parses as a bare ident, not a tuple).
func flattenTuple(e ast.Expr) []ast.Expr {
	if e.Kind == ast.ETuple || e.Kind == ast.EArray {
		return e.Tuple
	}
	return []ast.Expr{e}
}

// lineageFromTuple builds a fresh Lineage exposing exactly the given
// fields, named by alias, bare ident, or indirection field name, falling
// back to a positional synthetic name (spec.md §3.7, §4.4.5).
func lineageFromTuple(fields []ast.Expr) ast.Lineage {
	cols := make([]ast.LineageColumn, 0, len(fields))
	for i, f := range fields {
		name := fieldName(f, i)
		n := name
		cols = append(cols, ast.LineageColumn{Kind: ast.LineageSingle, Name: &n, TargetID: f.ID, TargetName: name})
	}
	return ast.Lineage{Columns: cols}
}

// appendLineage adds fields as new columns after everything prev already
// exposes (spec.md §4.4.5 "derive appends its tuple to the lineage").
func appendLineage(prev ast.Lineage, fields []ast.Expr) ast.Lineage {
	out := ast.Lineage{
		Columns: append(append([]ast.LineageColumn(nil), prev.Columns...), lineageFromTuple(fields).Columns...),
		Inputs:  prev.Inputs,
	}
	return out
}

// mergeLineage concatenates two relations' exposed columns and inputs, the
// shape a join's result takes (spec.md §4.4.5).
func mergeLineage(a, b ast.Lineage) ast.Lineage {
	return ast.Lineage{
		Columns: append(append([]ast.LineageColumn(nil), a.Columns...), b.Columns...),
		Inputs:  append(append([]ast.LineageInput(nil), a.Inputs...), b.Inputs...),
	}
}

// lineageOfRelationRef returns a relation expression's own lineage if it
// has already been computed (e.g. it is itself a resolved TransformCall),
// or a single wildcard column standing in for an as-yet-unknown table's
// schema otherwise -- refined later once the SQL backend sees which
// columns are actually projected (spec.md §4.4.6).
func lineageOfRelationRef(target ast.Expr) ast.Lineage {
	if target.Lineage != nil {
		return *target.Lineage
	}
	name := ""
	if target.Kind == ast.EIdent {
		name = target.Ident.Name()
	}
	return ast.Lineage{Columns: []ast.LineageColumn{{Kind: ast.LineageAll, InputName: name}}}
}

// relationTyFromLineage renders a Lineage as the structural Tuple type that
// represents it in PL's type system (spec.md §4.4.3, §4.4.5).
func relationTyFromLineage(lin ast.Lineage) ast.Ty {
	var fields []ast.TyTupleField
	for _, c := range lin.Columns {
		if c.Kind == ast.LineageAll {
			fields = append(fields, ast.TyTupleField{Wildcard: true})
			continue
		}
		name := ""
		if c.Name != nil {
			name = *c.Name
		}
		fields = append(fields, ast.TyTupleField{Name: name, Ty: ast.AnyTy()})
	}
	return ast.Ty{Kind: ast.TTuple, Tuple: fields}
}
