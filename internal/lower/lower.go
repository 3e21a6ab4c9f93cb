// Package lower performs spec.md §4.5's PL → RQ lowering: it registers
// every reachable relational VarDef as a TableDecl, builds the global
// CId → ColumnDecl map as it walks expressions, and translates each
// TransformCall into one or more rq.Transform values.
package lower

import (
	"fmt"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/pl"
	"github.com/prqlc-go/prqlc/internal/resolver/stdlib"
	"github.com/prqlc-go/prqlc/internal/rq"
)

// Lowerer carries the mutable state threaded through one compile's
// PL → RQ pass: the id generator for fresh CIds/TIds, the table registry
// and the global column-declaration map (spec.md §4.5.1, §4.5.2).
type Lowerer struct {
	nextCID int
	nextTID int

	tables  []rq.TableDecl
	columns map[rq.CId]*rq.ColumnDecl

	// tableCache dedupes relation references: the same dotted ident or the
	// same PL decl id always lowers to the same TId.
	tableCache map[string]rq.TId

	// decls is the resolver's TargetID -> Decl index, used to fetch a
	// referenced relation's own resolved expression when it needs
	// materialising as a CTE rather than an ExternRef (spec.md §4.5.1).
	decls map[int]*pl.Decl
}

func New(decls map[int]*pl.Decl) *Lowerer {
	return &Lowerer{columns: make(map[rq.CId]*rq.ColumnDecl), tableCache: make(map[string]rq.TId), decls: decls}
}

// Run lowers a resolved `main` pipeline expression into a RelationalQuery
// (spec.md §4.5 "Input: a single VarDef{name: main}...").
func (lw *Lowerer) Run(main ast.Expr, queryVersion, queryTarget string) *rq.RelationalQuery {
	transforms, sel := lw.lowerRelationFull(main)
	return &rq.RelationalQuery{
		Def:        rq.QueryDef{Version: queryVersion, Target: queryTarget},
		Tables:     lw.tables,
		Relation:   rq.Relation{Kind: rq.RPipeline, Pipeline: transforms},
		Columns:    lw.columns,
		MainSelect: sel,
	}
}

func (lw *Lowerer) allocCID() rq.CId {
	lw.nextCID++
	return rq.CId(lw.nextCID)
}

func (lw *Lowerer) allocTID() rq.TId {
	lw.nextTID++
	return rq.TId(lw.nextTID)
}

// lowerRelationFull lowers a relation-typed expression to its Transform
// list plus the final ordered CId select list its own resolved Lineage
// names (spec.md §3.8 "Relation... Pipeline([Transform])", §4.4.5
// "the number of lineage columns equals the number of tuple fields").
// Wildcard-only lineage columns are not yet expanded to concrete CIds
// (spec.md §4.4.6's full wildcard resolution is out of scope here) and are
// skipped; sqlgen's wildcard contraction (spec.md §4.6.3) falls back to a
// bare `*`/`alias.*` in that case.
func (lw *Lowerer) lowerRelationFull(e ast.Expr) ([]rq.Transform, []rq.CId) {
	transforms, cols := lw.lowerPipeline(e)
	var sel []rq.CId
	if e.Lineage != nil {
		for _, c := range e.Lineage.Columns {
			if c.Kind == ast.LineageSingle {
				if cid, ok := cols[c.TargetID]; ok {
					sel = append(sel, cid)
				}
			}
		}
	}
	return transforms, sel
}

// lowerPipeline walks a TransformCall chain from its root, returning the
// flattened Transform list and the PL-expr-id -> CId map exposed at its
// tail (spec.md §4.5.1, §4.5.3).
func (lw *Lowerer) lowerPipeline(e ast.Expr) ([]rq.Transform, map[int]rq.CId) {
	return lw.lowerPipelineSeeded(e, nil)
}

// lowerPipelineSeeded is lowerPipeline with an initial column scope: a
// `loop` body (spec.md §4.5.3) has no `tc.Input` of its own, since its
// root transform continues the outer relation rather than naming a fresh
// `from`, so its idents (`n` in `loop (derive n = n+1 | filter n < 10)`)
// only resolve if the columns already bound before the loop are seeded in.
func (lw *Lowerer) lowerPipelineSeeded(e ast.Expr, seed map[int]rq.CId) ([]rq.Transform, map[int]rq.CId) {
	if e.Kind != ast.ETransformCall {
		tid := lw.lowerTableRef(e)
		cols := lw.columnsForTable(tid, e.Lineage)
		return []rq.Transform{fromTransform(tid, lw.aliasFor(tid))}, cols
	}

	tc := e.Transform
	var out []rq.Transform
	cols := map[int]rq.CId{}
	for k, v := range seed {
		cols[k] = v
	}
	if tc.Input != nil {
		prefix, prevCols := lw.lowerPipeline(*tc.Input)
		out = append(out, prefix...)
		for k, v := range prevCols {
			cols[k] = v
		}
	}

	switch tc.Kind {
	case ast.TFrom:
		tid := lw.lowerTableRef(*tc.Relation)
		out = append(out, fromTransform(tid, lw.aliasFor(tid)))
		cols = lw.columnsForTable(tid, e.Lineage)

	case ast.TSelect:
		cids, extra, newCols := lw.materializeTuple(tc.Tuple, cols)
		out = append(out, extra...)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TSelect, Select: cids}})
		cols = newCols

	case ast.TDerive:
		for _, f := range tc.Tuple {
			cid, extra := lw.materializeField(f, cols)
			out = append(out, extra...)
			cols[f.ID] = cid
		}

	case ast.TFilter:
		cond := lw.lowerScalar(*tc.Condition, cols)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TFilter, Filter: cond}})

	case ast.TSort:
		sorts := make([]rq.ColumnSort, 0, len(tc.Sort))
		for _, s := range tc.Sort {
			cid, extra := lw.materializeField(s.Column, cols)
			out = append(out, extra...)
			sorts = append(sorts, rq.ColumnSort{Column: cid, Descending: s.Descending})
		}
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TSort, Sort: sorts}})

	case ast.TTake:
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TTake, Take: lw.lowerTakeRange(*tc.TakeRange, cols)}})

	case ast.TJoin:
		tid := lw.lowerTableRef(*tc.Relation)
		var filter *rq.Expr
		if tc.Condition != nil {
			f := lw.lowerScalar(*tc.Condition, cols)
			filter = &f
		}
		out = append(out, rq.Transform{Kind: rq.Kind{
			Tag: rq.TJoin, JoinSide: rq.JoinSide(tc.Side),
			JoinWith: rq.TableRef{TID: tid, Alias: lw.aliasFor(tid)}, JoinFilter: filter,
		}})
		for k, v := range lw.columnsForTable(tid, nil) {
			cols[k] = v
		}

	case ast.TGroup:
		groupOut, groupCols := lw.lowerGroup(tc, cols)
		out = append(out, groupOut...)
		cols = groupCols

	case ast.TAggregate:
		cids, extra, newCols := lw.materializeTuple(tc.Tuple, cols)
		out = append(out, extra...)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TAggregate, AggCompute: cids}})
		cols = newCols

	case ast.TWindow:
		winOut, winCols := lw.lowerWindow(tc, cols, nil)
		out = append(out, winOut...)
		cols = winCols

	case ast.TAppend:
		tid := lw.lowerTableRef(*tc.Relation)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TAppend, Append: rq.TableRef{TID: tid, Alias: lw.aliasFor(tid)}}})

	case ast.TRemove:
		tid := lw.lowerTableRef(*tc.Relation)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TExcept, Except: rq.TableRef{TID: tid, Alias: lw.aliasFor(tid)}}})

	case ast.TLoop:
		inner, _ := lw.lowerPipelineSeeded(*tc.Pipeline, cols)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TLoop, Loop: inner}})
	}

	return out, cols
}

// lowerGroup implements spec.md §4.5.3's one exception to 1-1 transform
// translation: `group k (aggregate a)` folds straight into a single RQ
// Aggregate, and `group k (<other pipeline>)` instead attaches a Window
// (partition: k) to every fresh Compute the inner pipeline introduces.
func (lw *Lowerer) lowerGroup(tc *ast.TransformCall, cols map[int]rq.CId) ([]rq.Transform, map[int]rq.CId) {
	var out []rq.Transform
	partition, extra, _ := lw.materializeTuple(tc.Tuple, cols)
	out = append(out, extra...)

	if tc.Pipeline == nil {
		return out, cols
	}
	inner := *tc.Pipeline
	if inner.Kind == ast.ETransformCall && inner.Transform.Kind == ast.TAggregate {
		cids, aggExtra, newCols := lw.materializeTuple(inner.Transform.Tuple, cols)
		out = append(out, aggExtra...)
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TAggregate, AggPartition: partition, AggCompute: cids}})
		return out, newCols
	}

	winOut, winCols := lw.lowerWindow(&ast.TransformCall{Tuple: nil, Pipeline: tc.Pipeline}, cols, partition)
	out = append(out, winOut...)
	return out, winCols
}

// lowerWindow lowers `window`'s inner pipeline, tagging every Compute it
// introduces with a Window carrying the given partition keys (nil when
// called directly for a standalone `window` transform rather than via
// group) plus this transform's own frame kind and start bound, if any; no
// window ordering is attached (spec.md §4.5.3 "window similarly tags inner
// Computes").
func (lw *Lowerer) lowerWindow(tc *ast.TransformCall, cols map[int]rq.CId, partition []rq.CId) ([]rq.Transform, map[int]rq.CId) {
	if tc.Pipeline == nil {
		return nil, cols
	}
	inner := *tc.Pipeline
	var cids []rq.CId
	var tuple []ast.Expr
	if inner.Kind == ast.ETransformCall {
		tuple = inner.Transform.Tuple
	} else {
		tuple = flatten(inner)
	}
	out, newCols, extracted := lw.materializeTupleTagged(tuple, cols, partition, tc.Frame)
	cids = extracted
	_ = cids
	return out, newCols
}

func flatten(e ast.Expr) []ast.Expr {
	if e.Kind == ast.ETuple || e.Kind == ast.EArray {
		return e.Tuple
	}
	return []ast.Expr{e}
}

func (lw *Lowerer) materializeTuple(fields []ast.Expr, cols map[int]rq.CId) ([]rq.CId, []rq.Transform, map[int]rq.CId) {
	cids := make([]rq.CId, 0, len(fields))
	var extra []rq.Transform
	newCols := map[int]rq.CId{}
	for k, v := range cols {
		newCols[k] = v
	}
	for _, f := range fields {
		cid, ex := lw.materializeField(f, cols)
		extra = append(extra, ex...)
		cids = append(cids, cid)
		newCols[f.ID] = cid
	}
	return cids, extra, newCols
}

func (lw *Lowerer) materializeTupleTagged(fields []ast.Expr, cols map[int]rq.CId, partition []rq.CId, frame *ast.WindowFrame) ([]rq.Transform, map[int]rq.CId, []rq.CId) {
	var out []rq.Transform
	newCols := map[int]rq.CId{}
	for k, v := range cols {
		newCols[k] = v
	}
	var cids []rq.CId
	for _, f := range fields {
		scalar := lw.lowerScalar(f, cols)
		cid := lw.allocCID()
		win := &rq.Window{Partition: partition}
		if frame != nil {
			win.Kind = rq.WindowKind(frame.Kind)
			if frame.Start != nil {
				s := lw.lowerScalar(*frame.Start, cols)
				win.Start = &s
			}
		}
		compute := rq.Compute{ID: cid, Name: fieldName(f), Expr: scalar, Window: win, IsAggregation: isAggExpr(f)}
		lw.columns[cid] = &rq.ColumnDecl{Compute: &compute}
		out = append(out, rq.Transform{Kind: rq.Kind{Tag: rq.TCompute, Compute: compute}})
		newCols[f.ID] = cid
		cids = append(cids, cid)
	}
	return out, newCols, cids
}

// materializeField returns an existing CId if f is already a plain column
// reference in cols, otherwise lowers f to a fresh Compute ColumnDecl
// (spec.md §4.5.2 "Fresh Compute entries are created for anything that is
// not already a direct column reference").
func (lw *Lowerer) materializeField(f ast.Expr, cols map[int]rq.CId) (rq.CId, []rq.Transform) {
	if f.Kind == ast.EIdent {
		if cid, ok := cols[f.TargetID]; ok {
			return cid, nil
		}
	}
	scalar := lw.lowerScalar(f, cols)
	cid := lw.allocCID()
	compute := rq.Compute{ID: cid, Name: fieldName(f), Expr: scalar, IsAggregation: isAggExpr(f)}
	lw.columns[cid] = &rq.ColumnDecl{Compute: &compute}
	return cid, []rq.Transform{{Kind: rq.Kind{Tag: rq.TCompute, Compute: compute}}}
}

// fieldName derives a computed column's output name: an explicit `x = ...`
// alias wins, a bare trailing ident (`foo.bar`) falls back to its last
// path segment, anything else gets an empty name, which sqlgen replaces
// with `_expr<CId>`.
func fieldName(f ast.Expr) string {
	if f.Alias != "" {
		return f.Alias
	}
	if f.Kind == ast.EIdent {
		parts := f.Ident.Parts
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	return ""
}

func isAggExpr(f ast.Expr) bool {
	return f.Kind == ast.ERqOperator && f.RqOp != nil && stdlib.ByName[f.RqOp.Name].IsAggregate
}

func (lw *Lowerer) lowerTakeRange(rng ast.Expr, cols map[int]rq.CId) rq.TakeRange {
	if rng.Kind == ast.ERange {
		var out rq.TakeRange
		if rng.RangeStart != nil {
			s := lw.lowerScalar(*rng.RangeStart, cols)
			out.Start = &s
		}
		if rng.RangeEnd != nil {
			s := lw.lowerScalar(*rng.RangeEnd, cols)
			out.End = &s
		}
		return out
	}
	// a bare `take n` is shorthand for `take 1..n`
	s := lw.lowerScalar(ast.Expr{Kind: ast.ELiteral, Literal: ast.IntLiteral(1)}, cols)
	e := lw.lowerScalar(rng, cols)
	return rq.TakeRange{Start: &s, End: &e}
}

// lowerScalar lowers one PL scalar expression (an operator/literal/ident
// tree, never itself a relation) to an rq.Expr.
func (lw *Lowerer) lowerScalar(f ast.Expr, cols map[int]rq.CId) rq.Expr {
	switch f.Kind {
	case ast.ELiteral:
		return rq.Expr{Kind: rq.ELiteral, Literal: f.Literal}
	case ast.EIdent:
		if cid, ok := cols[f.TargetID]; ok {
			return rq.Expr{Kind: rq.EColumnRef, ColumnRef: cid}
		}
		return rq.Expr{Kind: rq.EParam, Param: f.Ident.String()}
	case ast.ERqOperator:
		args := make([]rq.Expr, len(f.RqOp.Args))
		for i, a := range f.RqOp.Args {
			args[i] = lw.lowerScalar(a, cols)
		}
		return rq.Expr{Kind: rq.EOperator, OpName: f.RqOp.Name, Args: args}
	case ast.ETuple, ast.EArray:
		args := make([]rq.Expr, len(f.Tuple))
		for i, a := range f.Tuple {
			args[i] = lw.lowerScalar(a, cols)
		}
		return rq.Expr{Kind: rq.EArray, Args: args}
	case ast.ECase:
		arms := make([]rq.CaseArm, len(f.Cases))
		for i, arm := range f.Cases {
			arms[i] = rq.CaseArm{Cond: lw.lowerScalar(arm.Condition, cols), Value: lw.lowerScalar(arm.Value, cols)}
		}
		return rq.Expr{Kind: rq.ECase, Cases: arms}
	case ast.ESString, ast.EFString:
		items := make([]ast.InterpItem, len(f.Interp))
		copy(items, f.Interp)
		return rq.Expr{Kind: rq.ESString, Interp: items}
	case ast.EParam:
		return rq.Expr{Kind: rq.EParam, Param: f.ParamName}
	case ast.EIndirection:
		if f.IndirectBase != nil {
			return lw.lowerScalar(*f.IndirectBase, cols)
		}
	case ast.EFuncCall:
		name := ""
		if f.FuncName != nil {
			name = f.FuncName.Ident.Name()
		}
		args := make([]rq.Expr, len(f.Args))
		for i, a := range f.Args {
			args[i] = lw.lowerScalar(a, cols)
		}
		return rq.Expr{Kind: rq.EOperator, OpName: name, Args: args}
	}
	return rq.Expr{Kind: rq.ELiteral, Literal: ast.NullLiteral()}
}

func fromTransform(tid rq.TId, alias string) rq.Transform {
	return rq.Transform{Kind: rq.Kind{Tag: rq.TFrom, From: rq.TableRef{TID: tid, Alias: alias}}}
}

// lowerTableRef resolves a relation-typed expression to a TId, registering
// a fresh TableDecl the first time a given path is seen (spec.md §4.5.1).
func (lw *Lowerer) lowerTableRef(target ast.Expr) rq.TId {
	key := fmt.Sprintf("%d", target.TargetID)
	if target.Kind == ast.EIdent {
		key = target.Ident.String()
	}
	if tid, ok := lw.tableCache[key]; ok {
		return tid
	}

	tid := lw.allocTID()
	lw.tableCache[key] = tid
	name := key
	decl := rq.TableDecl{ID: tid, Name: name, Relation: rq.Relation{Kind: rq.RExternRef, ExternRef: identOf(target)}}

	// A target that resolved to a `let`-bound relation (its Decl's own
	// value is itself a transform chain) is a sub-pipeline: materialise it
	// as a CTE rather than an ExternRef. A target with no such Decl (a
	// plain database table) stays an ExternRef.
	if d, ok := lw.decls[target.TargetID]; ok && d.Expr != nil && d.Expr.Kind == ast.ETransformCall {
		transforms, sel := lw.lowerRelationFull(*d.Expr)
		decl.Relation = rq.Relation{Kind: rq.RPipeline, Pipeline: transforms}
		decl.SelectList = sel
	}

	lw.tables = append(lw.tables, decl)
	return tid
}

func identOf(e ast.Expr) ast.Ident {
	if e.Kind == ast.EIdent {
		return e.Ident
	}
	return ast.Ident{}
}

// aliasFor derives a base SQL alias for a table reference from its
// TableDecl name, falling back to an anonymous "table_n" form
// (spec.md §4.6.1 "Naming of anonymous CTEs: table_n for the n-th").
func (lw *Lowerer) aliasFor(tid rq.TId) string {
	for _, t := range lw.tables {
		if t.ID == tid {
			if t.Name != "" {
				return t.Name
			}
			break
		}
	}
	return fmt.Sprintf("table_%d", int(tid))
}

// columnsForTable builds the PL-expr-id -> CId map for a freshly-scanned
// From/Join table reference: when a Lineage is known (the common case,
// computed by the resolver), each exposed column becomes a RelationColumn
// entry; otherwise a single Wildcard stands in (spec.md §4.5.1 "Wildcard-
// typed table refs get a single RelationColumn::Wildcard").
func (lw *Lowerer) columnsForTable(tid rq.TId, lineage *ast.Lineage) map[int]rq.CId {
	cols := map[int]rq.CId{}
	if lineage == nil {
		cid := lw.allocCID()
		lw.columns[cid] = &rq.ColumnDecl{RelationColumn: &rq.RelationColumn{Kind: rq.ColWildcard, Table: tid}}
		return cols
	}
	for i, c := range lineage.Columns {
		cid := lw.allocCID()
		if c.Kind == ast.LineageAll {
			lw.columns[cid] = &rq.ColumnDecl{RelationColumn: &rq.RelationColumn{Kind: rq.ColWildcard, Table: tid, Position: i}}
			continue
		}
		lw.columns[cid] = &rq.ColumnDecl{RelationColumn: &rq.RelationColumn{Kind: rq.ColSingle, Table: tid, Position: i, Name: c.TargetName}}
		cols[c.TargetID] = cid
	}
	return cols
}
