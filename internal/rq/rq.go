// Package rq defines the Relational Query IR: the fully name-resolved,
// column-addressed form internal/lower produces from PL and internal/sqlgen
// consumes (spec.md §3.8). Every column and table is a dense integer handle
// (CId/TId) rather than a name, so the SQL backend never needs to re-derive
// scoping -- it just prints.
package rq

import "github.com/prqlc-go/prqlc/internal/ast"

// CId and TId are dense handles minted by the same id generator the
// resolver used for PL (spec.md §3.8 "generated by the root module's id
// generator").
type CId int
type TId int

// ExprKind discriminates rq.Expr's shapes (spec.md §3.8 "Expr").
type ExprKind int

const (
	EColumnRef ExprKind = iota
	ELiteral
	ESString
	ECase
	EOperator
	EParam
	EArray
)

type CaseArm struct {
	Cond  Expr
	Value Expr
}

// Expr is one RQ scalar expression node.
type Expr struct {
	Kind ExprKind

	ColumnRef CId
	Literal   ast.Literal
	Interp    []ast.InterpItem // SString

	Cases []CaseArm // Case

	OpName string // Operator
	Args   []Expr  // Operator / Array

	Param string // Param
}

// TableRef names a table instance a From/Join/Append refers to: the
// TableDecl's own TId plus the alias this particular reference uses in the
// emitted SQL (two Froms of the same table need distinct aliases).
type TableRef struct {
	TID   TId
	Alias string
}

// JoinSide mirrors ast.JoinSide at the RQ level.
type JoinSide int

const (
	JoinInner JoinSide = iota
	JoinLeft
	JoinRight
	JoinFull
)

// ColumnSort is one `sort`-transform entry, by CId rather than name.
type ColumnSort struct {
	Column     CId
	Descending bool
}

// WindowKind mirrors ast.WindowKind at the RQ level.
type WindowKind int

const (
	WindowRows WindowKind = iota
	WindowRange
)

// Window attaches framing/partitioning to a Compute that is a window
// function call (spec.md §4.5.3 "window similarly tags inner Computes").
type Window struct {
	Partition []CId
	Sort      []ColumnSort
	Kind      WindowKind
	Start     *Expr
	End       *Expr
}

// Compute is one materialised scalar column definition (spec.md §4.5.2
// "ColumnDecl... Compute{id, expr, window, is_aggregation}").
type Compute struct {
	ID            CId
	Name          string
	Expr          Expr
	Window        *Window
	IsAggregation bool
}

// TransformKind discriminates rq.Transform's shapes (spec.md §3.8
// "Transform").
type TransformKind int

const (
	TFrom TransformKind = iota
	TCompute
	TSelect
	TFilter
	TAggregate
	TSort
	TTake
	TJoin
	TAppend
	TLoop
	// TExcept lowers `remove` (spec.md §4.4.4 "anti-join / EXCEPT-ALL").
	// The abstract Transform sum type in spec.md §3.8 doesn't enumerate it
	// separately from Join, but giving it its own tag keeps sqlgen's
	// per-kind dispatch exhaustive instead of overloading Join's fields
	// with a second meaning.
	TExcept
)

// TakeRange is an inclusive [Start, End] row-window bound, either side nil
// for unbounded.
type TakeRange struct {
	Start *Expr
	End   *Expr
}

// Transform is one RQ pipeline stage.
type Transform struct {
	Kind Kind
}

// Kind is Transform's tagged-union payload. Exactly one field is
// meaningful, selected by Transform.Kind (spec.md §3.8's Transform sum
// type, flattened into one struct the way TransformCall is on the PL
// side -- see internal/ast/pl.go for the same tradeoff, made consistently
// here).
type Kind struct {
	Tag TransformKind

	From TableRef // From

	Compute Compute // Compute

	Select []CId // Select

	Filter Expr // Filter

	AggPartition []CId // Aggregate
	AggCompute   []CId

	Sort []ColumnSort // Sort

	Take TakeRange // Take

	JoinSide   JoinSide // Join
	JoinWith   TableRef
	JoinFilter *Expr

	Append TableRef // Append

	Loop []Transform // Loop

	Except TableRef // Except (remove)
}

// RelationColumnKind discriminates RelationColumn's two shapes.
type RelationColumnKind int

const (
	ColSingle RelationColumnKind = iota
	ColWildcard
)

// RelationColumn is a ColumnDecl that refers into a base table rather than
// being computed (spec.md §4.5.2 "RelationColumn{table, position, kind}").
type RelationColumn struct {
	Kind     RelationColumnKind
	Table    TId // RIId in spec terms; this module doesn't separate relation-instance ids from table ids
	Position int
	Name     string // when Kind == ColSingle
}

// RelationKind discriminates Relation's shapes (spec.md §3.8 "Relation").
type RelationKind int

const (
	RExternRef RelationKind = iota
	RPipeline
	RLiteral
	RSString
	RBuiltIn
)

// Relation is a TableDecl's body.
type Relation struct {
	Kind RelationKind

	ExternRef ast.Ident // ExternRef

	Pipeline []Transform // Pipeline

	LiteralRows [][]ast.Literal // Literal (a literal relation's row data)

	Interp []ast.InterpItem // SString

	BuiltInName string // BuiltInFunction
	BuiltInArgs []Expr
}

// TableDecl is one registered relation, base table or CTE alike
// (spec.md §3.8 "TableDecl").
type TableDecl struct {
	ID       TId
	Name     string
	Relation Relation

	// SelectList is the final ordered output columns of a Pipeline-kind
	// relation, derived from its PL Lineage (nil for ExternRef/Literal/
	// SString/BuiltIn declarations, which have no computed columns of
	// their own).
	SelectList []CId
}

// QueryDef carries the `prql` header's version/target, round-tripped from
// the PL query statement (spec.md §6.3).
type QueryDef struct {
	Version string
	Target  string
}

// RelationalQuery is the lowering pass's output: everything internal/sqlgen
// needs to render SQL (spec.md §3.8 "RelationalQuery").
type RelationalQuery struct {
	Def      QueryDef
	Tables   []TableDecl
	Relation Relation

	// Columns is the global CId -> ColumnDecl map lowering built while
	// walking expressions (spec.md §4.5.2). Exactly one of Compute/
	// RelationColumn is set per entry.
	Columns map[CId]*ColumnDecl

	// MainSelect is the main pipeline's final ordered output columns,
	// the same way TableDecl.SelectList is for a named relation.
	MainSelect []CId
}

// ColumnDecl is one entry of RelationalQuery.Columns.
type ColumnDecl struct {
	Compute        *Compute
	RelationColumn *RelationColumn
}
