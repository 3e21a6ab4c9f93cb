// Package sqlgen renders an RQ graph to SQL text (spec.md §4.6). It walks
// each registered relation's Transform pipeline once, producing a single
// SELECT per relation (so a `let`-bound relation still becomes its own
// CTE) rather than spec.md §4.6.1's full back-to-front splitting
// algorithm that re-splits a pipeline wherever SQL clause order would
// otherwise be violated -- see DESIGN.md for why that reduction was made.
package sqlgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/rq"
	"github.com/prqlc-go/prqlc/internal/sqlgen/dialect"
)

// Version is reported in the signature comment (spec.md §4.6.5).
const Version = "0.1.0"

// Options mirrors the subset of spec.md §6.1's Options the SQL backend
// itself consumes.
type Options struct {
	Format           bool
	Target           string
	SignatureComment bool
	// LowerKeywords renders the keywords that go through generator.kw
	// (SELECT, FROM, WHERE, GROUP BY, HAVING, ORDER BY and the WITH
	// RECURSIVE wrapping of `loop`) lower-case instead of the default
	// upper-case; JOIN, LIMIT, DESC, UNION ALL/EXCEPT and the other
	// keywords stay upper-case, the way the teacher's tokenizer tracks
	// keyword casing per dialect (tokenizer/dialect.go's KeywordSet).
	LowerKeywords bool
}

// Generate renders a RelationalQuery to SQL text.
func Generate(q *rq.RelationalQuery, opts Options) (string, error) {
	target := opts.Target
	if target == "" {
		target = q.Def.Target
	}
	g := &generator{
		q:         q,
		dial:      dialect.Lookup(target),
		upper:     !opts.LowerKeywords,
		tableByID: make(map[rq.TId]*rq.TableDecl, len(q.Tables)),
	}
	for i := range q.Tables {
		g.tableByID[q.Tables[i].ID] = &q.Tables[i]
	}

	var ctes []string
	for _, tid := range g.cteOrder() {
		t := g.tableByID[tid]
		body, err := g.renderRelation(t.Relation, t.SelectList)
		if err != nil {
			return "", fmt.Errorf("table %q: %w", t.Name, err)
		}
		ctes = append(ctes, g.dial.Quote(t.Name)+" AS (\n"+indent(body)+"\n)")
	}

	main, err := g.renderRelation(q.Relation, q.MainSelect)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(ctes) > 0 {
		sb.WriteString("WITH ")
		sb.WriteString(strings.Join(ctes, ",\n"))
		sb.WriteString("\n")
	}
	sb.WriteString(main)

	out := sb.String()
	if !opts.Format {
		out = collapse(out)
	}
	if opts.SignatureComment {
		sep := "\n"
		if !opts.Format {
			sep = " "
		}
		out += fmt.Sprintf("%s-- Generated by PRQL compiler version %s (https://prql-lang.org)", sep, Version)
	}
	return out, nil
}

type generator struct {
	q         *rq.RelationalQuery
	dial      dialect.Capability
	upper     bool
	tableByID map[rq.TId]*rq.TableDecl
}

// kw renders one SQL keyword in the requested case.
func (g *generator) kw(s string) string {
	return dialect.Keyword(s, g.upper)
}

// cteOrder topologically sorts the Pipeline-kind tables so a CTE that
// references another CTE is always emitted after it.
func (g *generator) cteOrder() []rq.TId {
	var ordered []rq.TId
	visited := make(map[rq.TId]bool)
	var visit func(tid rq.TId)
	visit = func(tid rq.TId) {
		if visited[tid] {
			return
		}
		visited[tid] = true
		t, ok := g.tableByID[tid]
		if !ok || t.Relation.Kind != rq.RPipeline {
			return
		}
		for _, dep := range g.dependsOn(t.Relation.Pipeline) {
			visit(dep)
		}
		ordered = append(ordered, tid)
	}
	// Preserve registration order among independent tables for readability.
	ids := make([]rq.TId, 0, len(g.q.Tables))
	for _, t := range g.q.Tables {
		ids = append(ids, t.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, tid := range ids {
		visit(tid)
	}
	return ordered
}

func (g *generator) dependsOn(transforms []rq.Transform) []rq.TId {
	var deps []rq.TId
	for _, t := range transforms {
		switch t.Kind.Tag {
		case rq.TFrom:
			deps = append(deps, t.Kind.From.TID)
		case rq.TJoin:
			deps = append(deps, t.Kind.JoinWith.TID)
		case rq.TAppend:
			deps = append(deps, t.Kind.Append.TID)
		case rq.TExcept:
			deps = append(deps, t.Kind.Except.TID)
		case rq.TLoop:
			deps = append(deps, g.dependsOn(t.Kind.Loop)...)
		}
	}
	return deps
}

// aliasFor mirrors internal/lower's own table-naming scheme: the same TId
// always yields the same alias, so a CId's RelationColumn.Table can be
// resolved to a SQL alias without threading per-pipeline scope through
// the renderer.
func (g *generator) aliasFor(tid rq.TId) string {
	if t, ok := g.tableByID[tid]; ok && t.Name != "" {
		return t.Name
	}
	return fmt.Sprintf("table_%d", int(tid))
}

func (g *generator) tableSourceSQL(tid rq.TId) string {
	t, ok := g.tableByID[tid]
	if !ok {
		return g.dial.Quote(fmt.Sprintf("table_%d", int(tid)))
	}
	switch t.Relation.Kind {
	case rq.RExternRef:
		return g.quoteIdent(t.Relation.ExternRef)
	case rq.RPipeline:
		return g.dial.Quote(t.Name)
	case rq.RLiteral:
		return g.renderValuesLiteral(t.Relation.LiteralRows)
	case rq.RSString:
		return "(" + g.renderInterp(t.Relation.Interp) + ")"
	case rq.RBuiltIn:
		return g.renderBuiltIn(t.Relation)
	}
	return g.dial.Quote(t.Name)
}

func (g *generator) quoteIdent(id ast.Ident) string {
	parts := id.Parts
	if len(parts) == 0 {
		return g.dial.Quote(id.Name())
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = g.dial.Quote(p)
	}
	return strings.Join(out, ".")
}

func (g *generator) renderValuesLiteral(rows [][]ast.Literal) string {
	var sb strings.Builder
	sb.WriteString("(VALUES ")
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, lit := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(renderLiteral(lit))
		}
		sb.WriteString(")")
	}
	sb.WriteString(")")
	return sb.String()
}

func (g *generator) renderBuiltIn(rel rq.Relation) string {
	args := make([]string, len(rel.BuiltInArgs))
	for i, a := range rel.BuiltInArgs {
		args[i] = g.renderExpr(a)
	}
	return rel.BuiltInName + "(" + strings.Join(args, ", ") + ")"
}

// renderRelation renders one relation's body: a Pipeline becomes a single
// SELECT (plus UNION ALL/EXCEPT ALL wrapping for any Append/Except
// transforms it carries); the other Relation kinds are themselves already
// valid SELECT-position SQL text.
func (g *generator) renderRelation(rel rq.Relation, selectList []rq.CId) (string, error) {
	switch rel.Kind {
	case rq.RPipeline:
		return g.renderPipeline(rel.Pipeline, selectList)
	case rq.RExternRef:
		return "SELECT * FROM " + g.quoteIdent(rel.ExternRef), nil
	case rq.RLiteral:
		return "SELECT * FROM " + g.renderValuesLiteral(rel.LiteralRows), nil
	case rq.RSString:
		return g.renderInterp(rel.Interp), nil
	case rq.RBuiltIn:
		return "SELECT * FROM " + g.renderBuiltIn(rel), nil
	}
	return "", fmt.Errorf("sqlgen: unhandled relation kind %v", rel.Kind)
}

func (g *generator) renderInterp(items []ast.InterpItem) string {
	var sb strings.Builder
	for _, it := range items {
		if it.IsExpr && it.Expr != nil {
			sb.WriteString(g.renderScalarAST(*it.Expr))
		} else {
			sb.WriteString(it.Text)
		}
	}
	return sb.String()
}

// renderScalarAST renders a raw (unlowered) PL scalar embedded inside an
// s-string hole; s-string holes reference columns by ident rather than by
// CId, so this is a thin fallback separate from the CId-driven renderExpr
// path used everywhere else.
func (g *generator) renderScalarAST(e ast.Expr) string {
	if e.Kind == ast.EIdent {
		return e.Ident.String()
	}
	if e.Kind == ast.ELiteral {
		return renderLiteral(e.Literal)
	}
	return ""
}

func (g *generator) renderPipeline(transforms []rq.Transform, selectList []rq.CId) (string, error) {
	return g.renderPipelineFrom(transforms, selectList, "", "")
}

// renderPipelineFrom is renderPipeline with a pre-seeded FROM source: a
// `loop` body (spec.md §4.5.3, §4.6's `WITH RECURSIVE` commitment) has no
// TFrom transform of its own -- it continues the seed term's relation --
// so its FROM clause is fixed to the recursive CTE's own name, aliased as
// the seed's base table so the body's existing column references (which
// already render as `baseAlias.col`) resolve unchanged.
func (g *generator) renderPipelineFrom(transforms []rq.Transform, selectList []rq.CId, presetFrom, baseAlias string) (string, error) {
	from := presetFrom
	var joins []string
	var wheres []string
	var havings []string
	var groupBys []string
	var orderBys []string
	var limitClause string
	var topClause string
	var unions []string
	aggregateSeen := false

	for _, t := range transforms {
		k := t.Kind
		switch k.Tag {
		case rq.TFrom:
			from = g.tableSourceSQL(k.From.TID) + " AS " + g.dial.Quote(k.From.Alias)
			baseAlias = k.From.Alias

		case rq.TJoin:
			kw := joinKeyword(k.JoinSide)
			clause := kw + " " + g.tableSourceSQL(k.JoinWith.TID) + " AS " + g.dial.Quote(k.JoinWith.Alias)
			if k.JoinFilter != nil {
				clause += " ON " + g.renderExpr(*k.JoinFilter)
			} else {
				clause += " ON TRUE"
			}
			joins = append(joins, clause)

		case rq.TFilter:
			cond := g.renderExpr(k.Filter)
			if aggregateSeen {
				havings = append(havings, cond)
			} else {
				wheres = append(wheres, cond)
			}

		case rq.TAggregate:
			aggregateSeen = true
			groupBys = nil
			for _, p := range k.AggPartition {
				groupBys = append(groupBys, g.renderColumnRef(p))
			}

		case rq.TSort:
			orderBys = nil
			for _, s := range k.Sort {
				col := g.renderColumnRef(s.Column)
				if s.Descending {
					col += " DESC"
				}
				orderBys = append(orderBys, col)
			}

		case rq.TTake:
			if g.dial.LimitStyle() == dialect.TopClause {
				topClause = g.renderTopN(k.Take)
			} else {
				limitClause = g.renderTake(k.Take)
			}

		case rq.TAppend:
			unions = append(unions, "UNION ALL\n"+g.simpleTableSelect(k.Append))

		case rq.TExcept:
			kw := "EXCEPT ALL"
			if !g.dial.ExceptAll {
				kw = "EXCEPT"
			}
			unions = append(unions, kw+"\n"+g.simpleTableSelect(k.Except))

		case rq.TCompute:
			// Computes are inlined wherever referenced by CId; nothing to
			// emit for the transform itself.

		case rq.TLoop:
			seed, err := g.assembleSelect(from, joins, wheres, havings, groupBys, orderBys, limitClause, topClause, selectList)
			if err != nil {
				return "", err
			}
			cteName := baseAlias + "_loop"
			stepFrom := g.dial.Quote(cteName) + " AS " + g.dial.Quote(baseAlias)
			step, err := g.renderPipelineFrom(k.Loop, selectList, stepFrom, baseAlias)
			if err != nil {
				return "", err
			}
			recursive := g.kw("WITH RECURSIVE") + " " + g.dial.Quote(cteName) + " " + g.kw("AS") + " (\n" +
				indent(seed) + "\n" + g.kw("UNION ALL") + "\n" + indent(step) + "\n)\n" +
				g.kw("SELECT") + " * " + g.kw("FROM") + " " + g.dial.Quote(cteName)
			from = "(\n" + indent(recursive) + "\n) AS " + g.dial.Quote(baseAlias)
			joins, wheres, havings, groupBys, orderBys = nil, nil, nil, nil, nil
			limitClause, topClause = "", ""
			aggregateSeen = false
		}
	}

	out, err := g.assembleSelect(from, joins, wheres, havings, groupBys, orderBys, limitClause, topClause, selectList)
	if err != nil {
		return "", err
	}
	for _, u := range unions {
		out = "(\n" + indent(out) + "\n)\n" + u
	}
	return out, nil
}

// assembleSelect renders one SELECT statement from its already-computed
// clause fragments. Split out of renderPipelineFrom so a `loop` transform
// (spec.md §4.5.3) can assemble its seed term mid-pipeline, before the
// recursive CTE wrapping replaces the accumulated FROM/WHERE/etc state.
func (g *generator) assembleSelect(from string, joins, wheres, havings, groupBys, orderBys []string, limitClause, topClause string, selectList []rq.CId) (string, error) {
	selectCols, err := g.renderSelectList(selectList)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(g.kw("SELECT") + " ")
	if topClause != "" {
		sb.WriteString(topClause)
		sb.WriteString(" ")
	}
	sb.WriteString(selectCols)
	if from != "" {
		sb.WriteString("\n" + g.kw("FROM") + " ")
		sb.WriteString(from)
	}
	for _, j := range joins {
		sb.WriteString("\n")
		sb.WriteString(j)
	}
	if len(wheres) > 0 {
		sb.WriteString("\n" + g.kw("WHERE") + " ")
		sb.WriteString(strings.Join(wheres, " AND "))
	}
	if len(groupBys) > 0 {
		sb.WriteString("\n" + g.kw("GROUP BY") + " ")
		sb.WriteString(strings.Join(groupBys, ", "))
	}
	if len(havings) > 0 {
		sb.WriteString("\n" + g.kw("HAVING") + " ")
		sb.WriteString(strings.Join(havings, " AND "))
	}
	if len(orderBys) > 0 {
		sb.WriteString("\n" + g.kw("ORDER BY") + " ")
		sb.WriteString(strings.Join(orderBys, ", "))
	}
	if limitClause != "" {
		sb.WriteString("\n")
		sb.WriteString(limitClause)
	}
	return sb.String(), nil
}

func (g *generator) simpleTableSelect(ref rq.TableRef) string {
	return "SELECT * FROM " + g.tableSourceSQL(ref.TID) + " AS " + g.dial.Quote(ref.Alias)
}

func joinKeyword(side rq.JoinSide) string {
	switch side {
	case rq.JoinLeft:
		return "LEFT JOIN"
	case rq.JoinRight:
		return "RIGHT JOIN"
	case rq.JoinFull:
		return "FULL JOIN"
	default:
		return "JOIN"
	}
}

// renderTake renders a `take` transform for LIMIT-style dialects. A TOP-
// style dialect (mssql) is handled separately by renderTopN, since TOP
// sits inside the SELECT clause rather than after it.
func (g *generator) renderTake(t rq.TakeRange) string {
	if t.End == nil {
		if t.Start == nil || isOneLiteral(t.Start) {
			return ""
		}
		return fmt.Sprintf("OFFSET (%s - 1)", g.renderExpr(*t.Start))
	}
	end := g.renderExpr(*t.End)
	if t.Start == nil || isOneLiteral(t.Start) {
		return "LIMIT " + end
	}
	start := g.renderExpr(*t.Start)
	return fmt.Sprintf("LIMIT (%s - %s + 1) OFFSET (%s - 1)", end, start, start)
}

// renderTopN renders mssql's `SELECT TOP n ...` form. TOP has no native
// offset, so a `take start..end` with start != 1 only honours the count
// and drops the offset -- a stated gap of this simplified backend rather
// than emitting a ROW_NUMBER()-based workaround.
func (g *generator) renderTopN(t rq.TakeRange) string {
	if t.End == nil {
		return ""
	}
	return "TOP " + g.renderExpr(*t.End)
}

func isOneLiteral(e *rq.Expr) bool {
	return e != nil && e.Kind == rq.ELiteral && e.Literal.Kind == ast.LInteger && e.Literal.Int == 1
}

// renderSelectList produces the comma-joined `expr AS name` list; an empty
// list (an as-yet-unresolved wildcard projection, spec.md §4.4.6) falls
// back to a bare `*` (spec.md §4.6.3's simplest contraction case).
func (g *generator) renderSelectList(list []rq.CId) (string, error) {
	if len(list) == 0 {
		return "*", nil
	}
	parts := make([]string, 0, len(list))
	seen := map[string]int{}
	for _, cid := range list {
		col, ok := g.q.Columns[cid]
		if !ok {
			continue
		}
		expr := g.renderColumnExpr(cid)
		name := g.outputName(col, cid)
		if name == "" {
			name = fmt.Sprintf("_expr%d", int(cid))
		}
		seen[name]++
		if seen[name] > 1 {
			name = fmt.Sprintf("%s_%d", name, seen[name])
		}
		if col.RelationColumn != nil && col.RelationColumn.Kind == rq.ColWildcard {
			parts = append(parts, expr)
			continue
		}
		parts = append(parts, expr+" AS "+g.dial.Quote(name))
	}
	if len(parts) == 0 {
		return "*", nil
	}
	return strings.Join(parts, ", "), nil
}

func (g *generator) outputName(col *rq.ColumnDecl, cid rq.CId) string {
	if col.Compute != nil {
		return col.Compute.Name
	}
	if col.RelationColumn != nil {
		return col.RelationColumn.Name
	}
	return ""
}

// renderColumnRef renders a reference to cid for use inside an expression
// context (WHERE/GROUP BY/ORDER BY/operator arguments): a plain relation
// column becomes `alias.name`, a Compute is inlined expression text.
func (g *generator) renderColumnRef(cid rq.CId) string {
	return g.renderColumnExpr(cid)
}

func (g *generator) renderColumnExpr(cid rq.CId) string {
	col, ok := g.q.Columns[cid]
	if !ok {
		return fmt.Sprintf("/* unknown column %d */ NULL", int(cid))
	}
	if col.RelationColumn != nil {
		rc := col.RelationColumn
		alias := g.aliasFor(rc.Table)
		if rc.Kind == rq.ColWildcard {
			return g.dial.Quote(alias) + ".*"
		}
		return g.dial.Quote(alias) + "." + g.dial.Quote(rc.Name)
	}
	if col.Compute != nil {
		return g.renderCompute(col.Compute)
	}
	return "NULL"
}

func (g *generator) renderCompute(c *rq.Compute) string {
	body := g.renderExpr(c.Expr)
	if c.Window == nil {
		return body
	}
	var parts []string
	if len(c.Window.Partition) > 0 {
		cols := make([]string, len(c.Window.Partition))
		for i, p := range c.Window.Partition {
			cols[i] = g.renderColumnRef(p)
		}
		parts = append(parts, "PARTITION BY "+strings.Join(cols, ", "))
	}
	if len(c.Window.Sort) > 0 {
		cols := make([]string, len(c.Window.Sort))
		for i, s := range c.Window.Sort {
			col := g.renderColumnRef(s.Column)
			if s.Descending {
				col += " DESC"
			}
			cols[i] = col
		}
		parts = append(parts, "ORDER BY "+strings.Join(cols, ", "))
	}
	if c.Window.Start != nil {
		frame := "ROWS"
		if c.Window.Kind == rq.WindowRange {
			frame = "RANGE"
		}
		parts = append(parts, frame+" "+g.renderExpr(*c.Window.Start)+" PRECEDING")
	}
	return body + " OVER (" + strings.Join(parts, " ") + ")"
}

func (g *generator) renderExpr(e rq.Expr) string {
	switch e.Kind {
	case rq.EColumnRef:
		return g.renderColumnExpr(e.ColumnRef)
	case rq.ELiteral:
		return renderLiteral(e.Literal)
	case rq.ESString:
		return g.renderInterp(e.Interp)
	case rq.ECase:
		var sb strings.Builder
		sb.WriteString("CASE")
		for _, arm := range e.Cases {
			sb.WriteString(" WHEN ")
			sb.WriteString(g.renderExpr(arm.Cond))
			sb.WriteString(" THEN ")
			sb.WriteString(g.renderExpr(arm.Value))
		}
		sb.WriteString(" END")
		return sb.String()
	case rq.EParam:
		return "$" + e.Param
	case rq.EArray:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = g.renderExpr(a)
		}
		return "(" + strings.Join(args, ", ") + ")"
	case rq.EOperator:
		return g.renderOperator(e.OpName, e.Args)
	}
	return "NULL"
}

func (g *generator) renderOperator(name string, args []rq.Expr) string {
	spec, ok := opTable[name]
	if !ok {
		rendered := make([]string, len(args))
		for i, a := range args {
			rendered[i] = g.renderExpr(a)
		}
		return strings.ToUpper(name) + "(" + strings.Join(rendered, ", ") + ")"
	}
	switch spec.kind {
	case "infix":
		if len(args) == 1 {
			return spec.sql + " " + g.renderExpr(args[0])
		}
		return "(" + g.renderExpr(args[0]) + " " + spec.sql + " " + g.renderExpr(args[1]) + ")"
	case "prefix":
		return spec.sql + " " + g.renderExpr(args[0])
	case "func0":
		return spec.sql + "()"
	case "func_distinct":
		return spec.sql + "(DISTINCT " + g.renderExpr(args[0]) + ")"
	case "passthrough":
		if len(args) == 0 {
			return "NULL"
		}
		return g.renderExpr(args[0])
	default: // "func"
		rendered := make([]string, len(args))
		for i, a := range args {
			rendered[i] = g.renderExpr(a)
		}
		return spec.sql + "(" + strings.Join(rendered, ", ") + ")"
	}
}

type opSpec struct {
	sql  string
	kind string
}

// opTable maps every internal/resolver/stdlib operator name to its SQL
// rendering (spec.md §4.3 point 3's BinOp/UnOp desugar targets plus the
// scalar/aggregate/window functions internal/resolver/stdlib exposes).
var opTable = map[string]opSpec{
	"add": {"+", "infix"}, "sub": {"-", "infix"}, "mul": {"*", "infix"},
	"div": {"/", "infix"}, "div_int": {"/", "infix"}, "mod": {"%", "infix"},
	"pow": {"POWER", "func"},
	"eq": {"=", "infix"}, "ne": {"<>", "infix"}, "gt": {">", "infix"},
	"lt": {"<", "infix"}, "gte": {">=", "infix"}, "lte": {"<=", "infix"},
	"and": {"AND", "infix"}, "or": {"OR", "infix"},
	"coalesce":     {"COALESCE", "func"},
	"regex_search": {"~", "infix"},
	"neg":          {"-", "prefix"},
	"not":          {"NOT", "prefix"},
	"concat":       {"||", "infix"},
	"length":       {"LENGTH", "func"},
	"lower":        {"LOWER", "func"},
	"upper":        {"UPPER", "func"},
	"trim":         {"TRIM", "func"},
	"replace":      {"REPLACE", "func"},
	"sum":          {"SUM", "func"},
	"average":      {"AVG", "func"},
	"min":          {"MIN", "func"},
	"max":          {"MAX", "func"},
	"count":        {"COUNT", "func"},
	"count_distinct": {"COUNT", "func_distinct"},
	"stddev":       {"STDDEV", "func"},
	"round":        {"ROUND", "func"},
	"floor":        {"FLOOR", "func"},
	"ceil":         {"CEIL", "func"},
	"abs":          {"ABS", "func"},
	"row_number":   {"ROW_NUMBER", "func0"},
	"rank":         {"RANK", "func0"},
	"dense_rank":   {"DENSE_RANK", "func0"},
	"lag":          {"LAG", "func"},
	"lead":         {"LEAD", "func"},
	"from_text":    {"CAST", "func"},
	"date_to_text": {"CAST", "func"},
	"dbg":          {"", "passthrough"},
	"math.pi":      {"PI", "func0"},
	"math.abs":     {"ABS", "func"},
}

func renderLiteral(l ast.Literal) string {
	switch l.Kind {
	case ast.LNull:
		return "NULL"
	case ast.LInteger:
		return strconv.FormatInt(l.Int, 10)
	case ast.LFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case ast.LBoolean:
		if l.Bool {
			return "TRUE"
		}
		return "FALSE"
	case ast.LString, ast.LRawString:
		return "'" + strings.ReplaceAll(l.Text, "'", "''") + "'"
	case ast.LDate:
		return "DATE '" + l.Text + "'"
	case ast.LTime:
		return "TIME '" + l.Text + "'"
	case ast.LTimestamp:
		return "TIMESTAMP '" + l.Text + "'"
	case ast.LValueAndUnit:
		return fmt.Sprintf("INTERVAL '%d' %s", l.UnitN, strings.ToUpper(l.UnitName))
	}
	return "NULL"
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// collapse flattens a multi-line rendering to the dense single-line mode
// (spec.md §4.6.5 "dense (single line) and multi-line (default)").
func collapse(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
