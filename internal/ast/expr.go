package ast

import "github.com/prqlc-go/prqlc/internal/source"

// ExprKind discriminates the surface-AST expression shapes of spec.md §3.4.
type ExprKind int

const (
	EIdent ExprKind = iota
	ELiteral
	EPipeline
	ETuple
	EArray
	ERange
	EBinary
	EUnary
	EFuncCall
	EFunc
	ESString
	EFString
	ECase
	EIndirection
	EParam
	EInternal
)

// BinOp enumerates PRQL's binary operators (spec.md §3.4).
type BinOp int

const (
	OpMul BinOp = iota
	OpDivInt
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpEq
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
	OpRegex
	OpAnd
	OpOr
	OpCoalesce
	OpPow
)

var binOpNames = map[BinOp]string{
	OpMul: "mul", OpDivInt: "div_int", OpDiv: "div", OpMod: "mod",
	OpAdd: "add", OpSub: "sub", OpEq: "eq", OpNe: "ne", OpGt: "gt",
	OpLt: "lt", OpGe: "gte", OpLe: "lte", OpRegex: "regex_search",
	OpAnd: "and", OpOr: "or", OpCoalesce: "coalesce", OpPow: "pow",
}

// StdName is the `std.<op>` function name this operator desugars to
// (spec.md §4.3 point 3).
func (op BinOp) StdName() string { return binOpNames[op] }

// UnOp enumerates PRQL's unary operators (spec.md §3.4). UEq is the
// "self-equality" sugar `==x` used for join-on shorthand.
type UnOp int

const (
	UNeg UnOp = iota
	UPos
	UNot
	UEq
)

// Indirection is either a named field or a positional index.
type Indirection struct {
	IsPosition bool
	Name       string
	Position   int
}

// InterpItem is one segment of an interpolated s""/f"" string: either a
// literal run of text, or a hole `{expr:format?}` whose content the parser
// re-lexes as an expression (spec.md §4.2).
type InterpItem struct {
	IsExpr bool
	Text   string // literal segment, when !IsExpr
	Expr   *Expr  // hole expression, when IsExpr
	Format string // optional `:format` suffix on a hole
}

// CaseArm is one `condition => value` arm of a `case [...]` expression.
type CaseArm struct {
	Condition Expr
	Value     Expr
}

// FuncParam is one parameter of a Func expression: positional when Default
// is nil, named (keyword) otherwise (spec.md §4.2 "Functions").
type FuncParam struct {
	Name    string
	Type    *Ty
	Default *Expr
}

// Expr is one node of the Parsed Representation. Every Expr/Stmt has a
// unique generation Id, assigned on construction by the parser (spec.md
// §3.4 invariants); PL's expand pass (internal/expand) overwrites it.
type Expr struct {
	ID   int
	Kind ExprKind
	Span source.Span
	Alias string // set when this expr appeared as `name = expr` in a pipeline/tuple

	Ident   Ident
	Literal Literal

	Pipeline []Expr

	Tuple      []Expr // also used for Array elements
	FieldNames []string // parallel to Tuple when non-empty, tuple field aliases

	RangeStart *Expr
	RangeEnd   *Expr

	BinOp BinOp
	UnOp  UnOp
	Left  *Expr
	Right *Expr
	Unary *Expr

	FuncName  *Expr // callee, for EFuncCall
	Args      []Expr
	NamedArgs map[string]Expr

	FuncParams      []FuncParam
	FuncNamedParams []FuncParam
	FuncBody        *Expr
	FuncReturnTy    *Ty

	Interp []InterpItem // for ESString / EFString

	Cases []CaseArm

	IndirectBase *Expr
	Indirect     Indirection

	ParamName string // for EParam
	Internal  string // for EInternal

	// PL-only fields (spec.md §3.5), left zero-valued until
	// internal/resolver fills them in.
	TargetID int      // the Decl this ident/funccall resolved to
	PlTy     *Ty      // the expression's checked type
	Lineage  *Lineage // only set for relation-typed expressions

	Transform *TransformCall // for ETransformCall
	RqOp      *RqOperatorRef // for ERqOperator
	Wildcard  *WildcardAll   // for EAll
}

// Stmt is a single top-level or module-level statement (spec.md §3.4).
type StmtKind int

const (
	SQueryDef StmtKind = iota
	SVarDef
	STypeDef
	SModuleDef
	SImportDef
)

type VarDefKind int

const (
	VDLet VarDefKind = iota
	VDMain
	VDInto
)

type Stmt struct {
	ID   int
	Kind StmtKind
	Span source.Span

	// Annotation (`@{...}`) attached to this statement, if any (spec.md
	// §4.2 "Annotations & doc-comments"). Only round-tripped, never
	// interpreted (SPEC_FULL.md §C.5).
	Annotation *Expr
	// DocComment is the verbatim `#!` text immediately preceding the
	// statement, if any.
	DocComment string

	// QueryDef
	QueryVersion string
	QueryTarget  string

	// VarDef / TypeDef / ModuleDef share Name
	Name string

	// VarDef
	VarValue Expr
	VarTy    *Ty
	VarKind  VarDefKind

	// TypeDef
	TypeValue Ty

	// ModuleDef
	ModuleStmts []Stmt

	// ImportDef
	ImportName  Ident
	ImportAlias string
}
