// Package prqlfmt renders a PL statement tree back to PRQL surface syntax
// (spec.md §6.2 "pl_to_prql(pl) -> formatted PRQL source"). It is not a
// true autoformatter: it exists so the granular API's round-trip tests can
// check that a PL tree still reads as valid PRQL, the same role the
// teacher's formatter package plays for SnapSQL templates -- a small
// struct carrying indent state, with one Format entry point and one render
// method per node shape.
package prqlfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
)

// Formatter renders statements with a fixed indent step, mirroring the
// teacher's SQLFormatter{indentSize}.
type Formatter struct {
	indentSize int
}

// New returns a Formatter using two-space indentation, PRQL's own
// convention.
func New() *Formatter {
	return &Formatter{indentSize: 2}
}

// Format renders a full statement list back to PRQL source text.
func (f *Formatter) Format(stmts []ast.Stmt) string {
	var sb strings.Builder
	for i, s := range stmts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(f.stmt(s, 0))
	}
	return sb.String()
}

func (f *Formatter) pad(level int) string {
	return strings.Repeat(" ", level*f.indentSize)
}

func (f *Formatter) stmt(s ast.Stmt, level int) string {
	var out strings.Builder
	if s.DocComment != "" {
		out.WriteString("#! " + s.DocComment + "\n")
	}
	switch s.Kind {
	case ast.SQueryDef:
		out.WriteString("prql")
		if s.QueryVersion != "" {
			out.WriteString(fmt.Sprintf(" version:%q", s.QueryVersion))
		}
		if s.QueryTarget != "" {
			out.WriteString(" target:" + s.QueryTarget)
		}
	case ast.SVarDef:
		switch s.VarKind {
		case ast.VDMain:
			out.WriteString("main = " + f.expr(s.VarValue, level))
		case ast.VDInto:
			out.WriteString(f.expr(s.VarValue, level) + "\ninto " + s.Name)
		default:
			out.WriteString("let " + s.Name)
			if s.VarTy != nil {
				out.WriteString(": " + f.ty(*s.VarTy))
			}
			out.WriteString(" = " + f.expr(s.VarValue, level))
		}
	case ast.STypeDef:
		out.WriteString("type " + s.Name + " = " + f.ty(s.TypeValue))
	case ast.SModuleDef:
		out.WriteString("module " + s.Name + " {\n")
		for _, inner := range s.ModuleStmts {
			out.WriteString(f.pad(level+1) + f.stmt(inner, level+1) + "\n")
		}
		out.WriteString(f.pad(level) + "}")
	case ast.SImportDef:
		out.WriteString("import ")
		if s.ImportAlias != "" {
			out.WriteString(s.ImportAlias + " = ")
		}
		out.WriteString(s.ImportName.String())
	}
	return out.String()
}

func (f *Formatter) ty(t ast.Ty) string {
	switch t.Kind {
	case ast.TIdent:
		return t.Ident.String()
	case ast.TPrimitive:
		return t.Primitive.String()
	case ast.TSingleton:
		return f.literal(t.Singleton)
	case ast.TAny:
		return "anytype"
	case ast.TUnion:
		parts := make([]string, len(t.Union))
		for i, v := range t.Union {
			s := f.ty(v.Ty)
			if v.Name != nil {
				s = *v.Name + "=" + s
			}
			parts[i] = s
		}
		return strings.Join(parts, " || ")
	case ast.TTuple:
		parts := make([]string, len(t.Tuple))
		for i, fld := range t.Tuple {
			if fld.Wildcard {
				parts[i] = ".."
				continue
			}
			parts[i] = fld.Name + ":" + f.ty(fld.Ty)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ast.TArray:
		if t.Array != nil {
			return "[" + f.ty(*t.Array) + "]"
		}
		return "[]"
	case ast.TFunction:
		args := make([]string, len(t.FuncArgs))
		for i, a := range t.FuncArgs {
			if a != nil {
				args[i] = f.ty(*a)
			}
		}
		ret := ""
		if t.FuncReturnTy != nil {
			ret = f.ty(*t.FuncReturnTy)
		}
		return "func " + strings.Join(args, " ") + " -> " + ret
	case ast.TDifference:
		base, exclude := "", ""
		if t.DiffBase != nil {
			base = f.ty(*t.DiffBase)
		}
		if t.DiffExclude != nil {
			exclude = f.ty(*t.DiffExclude)
		}
		return base + " - " + exclude
	}
	if t.GenericName != "" {
		return t.GenericName
	}
	return ""
}

func (f *Formatter) expr(e ast.Expr, level int) string {
	var text string
	switch e.Kind {
	case ast.EIdent:
		text = e.Ident.String()
	case ast.ELiteral:
		text = f.literal(e.Literal)
	case ast.EPipeline:
		text = f.pipeline(e.Pipeline, level)
	case ast.ETuple:
		text = f.tuple(e.Tuple, e.FieldNames, level)
	case ast.EArray:
		parts := make([]string, len(e.Tuple))
		for i, el := range e.Tuple {
			parts[i] = f.expr(el, level)
		}
		text = "[" + strings.Join(parts, ", ") + "]"
	case ast.ERange:
		start, end := "", ""
		if e.RangeStart != nil {
			start = f.expr(*e.RangeStart, level)
		}
		if e.RangeEnd != nil {
			end = f.expr(*e.RangeEnd, level)
		}
		text = start + ".." + end
	case ast.EBinary:
		text = fmt.Sprintf("%s %s %s", f.expr(*e.Left, level), binOpSymbol(e.BinOp), f.expr(*e.Right, level))
	case ast.EUnary:
		text = unOpSymbol(e.UnOp) + f.expr(*e.Unary, level)
	case ast.EFuncCall:
		text = f.funcCall(e, level)
	case ast.EFunc:
		text = f.funcLit(e, level)
	case ast.ESString:
		text = "s\"" + f.interp(e.Interp) + "\""
	case ast.EFString:
		text = "f\"" + f.interp(e.Interp) + "\""
	case ast.ECase:
		text = f.caseExpr(e, level)
	case ast.EIndirection:
		base := f.expr(*e.IndirectBase, level)
		if e.Indirect.IsPosition {
			text = fmt.Sprintf("%s.%d", base, e.Indirect.Position)
		} else {
			text = base + "." + e.Indirect.Name
		}
	case ast.EParam:
		text = "$" + e.ParamName
	case ast.EInternal:
		text = e.Internal
	case ast.ETransformCall:
		text = f.transformCall(e.Transform, level)
	case ast.ERqOperator:
		args := make([]string, len(e.RqOp.Args))
		for i, a := range e.RqOp.Args {
			args[i] = f.expr(a, level)
		}
		text = fmt.Sprintf("%s(%s)", e.RqOp.Name, strings.Join(args, ", "))
	case ast.EAll:
		if len(e.Wildcard.Except) == 0 {
			text = "*"
		} else {
			ex := make([]string, len(e.Wildcard.Except))
			for i, x := range e.Wildcard.Except {
				ex[i] = f.expr(x, level)
			}
			text = "!{" + strings.Join(ex, ", ") + "}"
		}
	}
	if e.Alias != "" {
		return e.Alias + " = " + text
	}
	return text
}

func (f *Formatter) pipeline(stages []ast.Expr, level int) string {
	if len(stages) == 0 {
		return ""
	}
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = f.expr(s, level)
	}
	return strings.Join(parts, "\n"+f.pad(level)+"| ")
}

func (f *Formatter) tuple(fields []ast.Expr, names []string, level int) string {
	parts := make([]string, len(fields))
	for i, el := range fields {
		if i < len(names) && names[i] != "" {
			parts[i] = names[i] + " = " + f.expr(el, level)
		} else {
			parts[i] = f.expr(el, level)
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (f *Formatter) funcCall(e ast.Expr, level int) string {
	name := ""
	if e.FuncName != nil {
		name = f.expr(*e.FuncName, level)
	}
	args := make([]string, 0, len(e.Args)+len(e.NamedArgs))
	for _, a := range e.Args {
		args = append(args, f.expr(a, level))
	}
	for k, v := range e.NamedArgs {
		args = append(args, k+":"+f.expr(v, level))
	}
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func (f *Formatter) funcLit(e ast.Expr, level int) string {
	params := make([]string, 0, len(e.FuncParams)+len(e.FuncNamedParams))
	for _, p := range e.FuncParams {
		params = append(params, f.funcParam(p))
	}
	for _, p := range e.FuncNamedParams {
		params = append(params, f.funcParam(p))
	}
	body := ""
	if e.FuncBody != nil {
		body = f.expr(*e.FuncBody, level)
	}
	return "func " + strings.Join(params, " ") + " -> " + body
}

func (f *Formatter) funcParam(p ast.FuncParam) string {
	s := p.Name
	if p.Type != nil {
		s += ":" + p.Type.String()
	}
	if p.Default != nil {
		s += ":" + f.expr(*p.Default, 0)
	}
	return s
}

func (f *Formatter) interp(items []ast.InterpItem) string {
	var sb strings.Builder
	for _, it := range items {
		if !it.IsExpr {
			sb.WriteString(it.Text)
			continue
		}
		sb.WriteString("{")
		if it.Expr != nil {
			sb.WriteString(f.expr(*it.Expr, 0))
		}
		if it.Format != "" {
			sb.WriteString(":" + it.Format)
		}
		sb.WriteString("}")
	}
	return sb.String()
}

func (f *Formatter) caseExpr(e ast.Expr, level int) string {
	arms := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		arms[i] = fmt.Sprintf("%s => %s", f.expr(c.Condition, level), f.expr(c.Value, level))
	}
	return "case [" + strings.Join(arms, ", ") + "]"
}

func (f *Formatter) transformCall(tc *ast.TransformCall, level int) string {
	switch tc.Kind {
	case ast.TFrom:
		return "from " + f.expr(*tc.Relation, level)
	case ast.TSelect:
		return "select " + f.tuple(tc.Tuple, nil, level)
	case ast.TDerive:
		return "derive " + f.tuple(tc.Tuple, nil, level)
	case ast.TFilter:
		return "filter " + f.expr(*tc.Condition, level)
	case ast.TGroup:
		body := ""
		if tc.Pipeline != nil {
			body = f.expr(*tc.Pipeline, level)
		}
		return fmt.Sprintf("group %s (\n%s%s\n%s)", f.tuple(tc.Tuple, nil, level), f.pad(level+1), body, f.pad(level))
	case ast.TAggregate:
		return "aggregate " + f.tuple(tc.Tuple, nil, level)
	case ast.TSort:
		parts := make([]string, len(tc.Sort))
		for i, sp := range tc.Sort {
			sign := "+"
			if sp.Descending {
				sign = "-"
			}
			parts[i] = sign + f.expr(sp.Column, level)
		}
		return "sort {" + strings.Join(parts, ", ") + "}"
	case ast.TTake:
		rng := ""
		if tc.TakeRange != nil {
			rng = f.expr(*tc.TakeRange, level)
		}
		return "take " + rng
	case ast.TJoin:
		side := ""
		switch tc.Side {
		case ast.JoinLeft:
			side = "side:left "
		case ast.JoinRight:
			side = "side:right "
		case ast.JoinFull:
			side = "side:full "
		}
		cond := ""
		if tc.Condition != nil {
			cond = f.expr(*tc.Condition, level)
		}
		return fmt.Sprintf("join %s%s (%s)", side, f.expr(*tc.Relation, level), cond)
	case ast.TWindow:
		body := ""
		if tc.Pipeline != nil {
			body = f.expr(*tc.Pipeline, level)
		}
		return fmt.Sprintf("window (\n%s%s\n%s)", f.pad(level+1), body, f.pad(level))
	case ast.TAppend:
		return "append " + f.expr(*tc.Relation, level)
	case ast.TLoop:
		body := ""
		if tc.Pipeline != nil {
			body = f.expr(*tc.Pipeline, level)
		}
		return fmt.Sprintf("loop (\n%s%s\n%s)", f.pad(level+1), body, f.pad(level))
	case ast.TRemove:
		return "remove " + f.expr(*tc.Relation, level)
	}
	return ""
}

func (f *Formatter) literal(l ast.Literal) string {
	switch l.Kind {
	case ast.LNull:
		return "null"
	case ast.LInteger:
		return strconv.FormatInt(l.Int, 10)
	case ast.LFloat:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case ast.LBoolean:
		if l.Bool {
			return "true"
		}
		return "false"
	case ast.LString:
		return strconv.Quote(l.Text)
	case ast.LRawString:
		return "r\"" + l.Text + "\""
	case ast.LDate:
		return "@" + l.Text
	case ast.LTime:
		return "@" + l.Text
	case ast.LTimestamp:
		return "@" + l.Text
	case ast.LValueAndUnit:
		return fmt.Sprintf("%d%s", l.UnitN, l.UnitName)
	}
	return ""
}

func binOpSymbol(op ast.BinOp) string {
	switch op {
	case ast.OpMul:
		return "*"
	case ast.OpDivInt:
		return "//"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpEq:
		return "=="
	case ast.OpNe:
		return "!="
	case ast.OpGt:
		return ">"
	case ast.OpLt:
		return "<"
	case ast.OpGe:
		return ">="
	case ast.OpLe:
		return "<="
	case ast.OpRegex:
		return "~="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	case ast.OpCoalesce:
		return "??"
	case ast.OpPow:
		return "**"
	}
	return "?"
}

func unOpSymbol(op ast.UnOp) string {
	switch op {
	case ast.UNeg:
		return "-"
	case ast.UPos:
		return "+"
	case ast.UNot:
		return "!"
	case ast.UEq:
		return "=="
	}
	return ""
}
