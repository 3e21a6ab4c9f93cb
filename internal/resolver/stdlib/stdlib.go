// Package stdlib enumerates the std.* built-in operators the resolver
// exposes as DVariable declarations forced to the front of the resolution
// order (spec.md §4.4.1). The original implementation loads these from an
// embedded PRQL source; here each builtin is instead a direct Go table
// entry, since std's bodies are never themselves PRQL (they bottom out in
// RqOperator, not user-level pipelines) -- see DESIGN.md for the tradeoff.
package stdlib

// Func describes one built-in operator: its name under the std module and
// the number of positional arguments it takes. group/aggregate-only
// functions (sum, average, ...) are listed the same as scalar ones; the
// resolver enforces the "aggregate only legal inside group" rule
// separately (spec.md §4.4.4), not through this table.
type Func struct {
	Name  string
	Arity int
	// IsAggregate marks a reducing function only legal inside `aggregate`.
	IsAggregate bool
	// IsWindow marks a function only legal inside `window` (or implicitly
	// windowed via group/window partitioning).
	IsWindow bool
}

// Funcs is the full built-in table: the operators every BinOp/UnOp
// desugars to (spec.md §4.3 point 3) plus the scalar/aggregate/window
// functions supplemented from the original implementation's `std` module
// (SPEC_FULL.md §C.2).
var Funcs = []Func{
	{Name: "add", Arity: 2}, {Name: "sub", Arity: 2}, {Name: "mul", Arity: 2},
	{Name: "div", Arity: 2}, {Name: "div_int", Arity: 2}, {Name: "mod", Arity: 2},
	{Name: "pow", Arity: 2},
	{Name: "eq", Arity: 2}, {Name: "ne", Arity: 2}, {Name: "gt", Arity: 2},
	{Name: "lt", Arity: 2}, {Name: "gte", Arity: 2}, {Name: "lte", Arity: 2},
	{Name: "and", Arity: 2}, {Name: "or", Arity: 2}, {Name: "coalesce", Arity: 2},
	{Name: "regex_search", Arity: 2},
	{Name: "neg", Arity: 1}, {Name: "not", Arity: 1},

	{Name: "concat", Arity: 2}, {Name: "length", Arity: 1}, {Name: "lower", Arity: 1},
	{Name: "upper", Arity: 1}, {Name: "trim", Arity: 1}, {Name: "replace", Arity: 3},

	{Name: "sum", Arity: 1, IsAggregate: true}, {Name: "average", Arity: 1, IsAggregate: true},
	{Name: "min", Arity: 1, IsAggregate: true}, {Name: "max", Arity: 1, IsAggregate: true},
	{Name: "count", Arity: 1, IsAggregate: true}, {Name: "count_distinct", Arity: 1, IsAggregate: true},
	{Name: "stddev", Arity: 1, IsAggregate: true},

	{Name: "round", Arity: 2}, {Name: "floor", Arity: 1}, {Name: "ceil", Arity: 1}, {Name: "abs", Arity: 1},

	{Name: "row_number", Arity: 0, IsWindow: true}, {Name: "rank", Arity: 0, IsWindow: true},
	{Name: "dense_rank", Arity: 0, IsWindow: true},
	{Name: "lag", Arity: 2, IsWindow: true}, {Name: "lead", Arity: 2, IsWindow: true},

	{Name: "from_text", Arity: 1}, {Name: "date_to_text", Arity: 1},

	// dbg/math closures supplemented from the original implementation's
	// `std` module (SPEC_FULL.md §C.2); the resolver exposes them as plain
	// scalar functions like any other std entry.
	{Name: "dbg", Arity: 1}, {Name: "math.pi", Arity: 0}, {Name: "math.abs", Arity: 1},
}

// ByName is Funcs indexed for O(1) lookup.
var ByName = func() map[string]Func {
	m := make(map[string]Func, len(Funcs))
	for _, f := range Funcs {
		m[f.Name] = f
	}
	return m
}()

// TransformNames is the set of identifiers the resolver intercepts before
// ordinary function-call resolution to build a TransformCall instead
// (spec.md §4.4.4).
var TransformNames = map[string]bool{
	"from": true, "select": true, "derive": true, "filter": true,
	"group": true, "aggregate": true, "sort": true, "take": true,
	"join": true, "window": true, "append": true, "loop": true, "remove": true,
}
