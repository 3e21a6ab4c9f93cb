package ast

// PL (Pipelined Lineage, spec.md §3.5) mirrors PR but adds resolved-only
// data to the same Expr/Stmt trees the parser builds: TargetID, Ty and
// Lineage are filled in by internal/resolver, and three expression shapes
// that only ever arise from resolving a PR FuncCall are added to ExprKind
// below rather than given a parallel type hierarchy -- a pure PR/PL split
// (as the original Rust implementation has, via its Fold trait) would
// duplicate every field in this file for no behavioural gain here, since
// internal/resolver is the only consumer of both forms.
const (
	// ETransformCall is a resolved relational pipeline stage: from, select,
	// derive, filter, group, aggregate, sort, take, join, window, append,
	// loop, remove (spec.md §3.5, §4.4.4).
	ETransformCall ExprKind = iota + 100
	// ERqOperator references a built-in arithmetic/comparison/string
	// operator after its std.<op> FuncCall has been resolved (spec.md §3.5).
	ERqOperator
	// EAll is a wildcard column reference with exclusions, e.g. `select
	// !{x, y}` (spec.md §3.5, §4.4.6).
	EAll
)

// TransformKind enumerates the relational pipeline stages (spec.md §4.4.4).
type TransformKind int

const (
	TFrom TransformKind = iota
	TSelect
	TDerive
	TFilter
	TGroup
	TAggregate
	TSort
	TTake
	TJoin
	TWindow
	TAppend
	TLoop
	TRemove
)

var transformNames = map[TransformKind]string{
	TFrom: "from", TSelect: "select", TDerive: "derive", TFilter: "filter",
	TGroup: "group", TAggregate: "aggregate", TSort: "sort", TTake: "take",
	TJoin: "join", TWindow: "window", TAppend: "append", TLoop: "loop",
	TRemove: "remove",
}

func (k TransformKind) String() string { return transformNames[k] }

// JoinSide is the `side:` argument of a join transform.
type JoinSide int

const (
	JoinInner JoinSide = iota
	JoinLeft
	JoinRight
	JoinFull
)

// SortSpec is one `+col`/`-col` entry of a sort transform.
type SortSpec struct {
	Column     Expr
	Descending bool
}

// WindowKind distinguishes a window transform's rows/range frame.
type WindowKind int

const (
	WindowRows WindowKind = iota
	WindowRange
)

// WindowFrame bounds a window transform's frame, both ends optional (an
// unbounded range.Start/End leaves the corresponding pointer nil).
type WindowFrame struct {
	Kind  WindowKind
	Start *Expr
	End   *Expr
}

// TransformCall is the PL node kind carrying relational semantics
// (spec.md §3.5 "TransformCall").
type TransformCall struct {
	Kind  TransformKind
	Input *Expr

	// from / append / remove / join
	Relation *Expr

	// select / derive / group-keys / aggregate / sort-tuple source
	Tuple []Expr

	// filter / join-on
	Condition *Expr

	// join
	Side JoinSide

	// sort
	Sort []SortSpec

	// take
	TakeRange *Expr

	// group / window: the nested pipeline evaluated in the sub-context
	Pipeline *Expr

	// window
	Partition []Expr
	Frame     *WindowFrame
}

// RqOperatorRef is a resolved reference to a std built-in operator
// (spec.md §3.5 "RqOperator{name, args}").
type RqOperatorRef struct {
	Name string
	Args []Expr
}

// WildcardAll is a wildcard column reference with exclusions
// (spec.md §3.5 "All{within, except}").
type WildcardAll struct {
	Within Ident
	Except []Expr
}

// LineageColumnKind discriminates the two shapes a Lineage entry can take.
type LineageColumnKind int

const (
	LineageSingle LineageColumnKind = iota
	LineageAll
)

// LineageColumn is one exposed column of a relation at some pipeline point
// (spec.md §3.7 "Lineage").
type LineageColumn struct {
	Kind LineageColumnKind

	// Single
	Name       *string
	TargetID   int
	TargetName string

	// All
	InputName string
	Except    []Ident
}

// LineageInput records one table instance feeding a Lineage
// (spec.md §3.7: "a list of inputs {id, name, table}").
type LineageInput struct {
	ID    int
	Name  string
	Table Ident
}

// Lineage is the ordered list of columns exposed by a relation at a given
// pipeline point, recomputed after every transform call (spec.md §3.7).
type Lineage struct {
	Columns []LineageColumn
	Inputs  []LineageInput
}
