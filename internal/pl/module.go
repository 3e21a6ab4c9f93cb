// Package pl holds the declaration tree internal/resolver builds while
// resolving a PL module (spec.md §3.6 "Declaration tree"): RootModule,
// Module and Decl. The Expr/Stmt trees themselves stay internal/ast types
// (spec.md §3.5's PL additions live directly on ast.Expr, see
// internal/ast/pl.go); this package only owns the name→Decl mapping that
// gives every Ident something to resolve against.
package pl

import (
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/source"
)

// ReservedNames are path segments with special resolution meaning
// (spec.md §3.6).
var ReservedNames = []string{
	"std", "default_db", "this", "that", "_local", "_self",
	"_infer", "_infer_module", "_generic", "_main",
}

// DeclKind discriminates the shape of a declaration's payload
// (spec.md §3.6 "DeclKind").
type DeclKind int

const (
	DModule DeclKind = iota
	DVariable
	DTupleField
	DInferTable
	DInferTupleField
	DGenericParam
	DExpr
	DTy
	DQueryDef
	DImport
	DUnresolved
)

// Decl is one entry of a Module's name→Decl mapping (spec.md §3.6 "Decl").
// The RootModule exclusively owns every Decl; nothing outside this package
// holds a pointer into another Decl's subtree except by storing its
// (module path, name) as an ast.Ident, mirroring the "no cyclic references"
// invariant spec.md §3.6 calls out.
type Decl struct {
	DeclaredAt *int
	Kind       DeclKind
	Order      int
	Annotations []ast.Expr

	Module *Module // DModule

	VariableTy *ast.Ty // DVariable, optional

	// DGenericParam: once a candidate type is inferred for this generic,
	// Constraint holds it and ConstraintSpan the site that fixed it
	// (spec.md §4.4.3).
	Constraint     *ast.Ty
	ConstraintSpan source.Span

	Expr *ast.Expr // DExpr
	Ty   *ast.Ty   // DTy

	ImportTarget ast.Ident // DImport

	Unresolved *ast.Stmt // DUnresolved, before the resolver has processed it

	// Shadowed holds a previous Decl of the same name displaced by this
	// one (spec.md §3.6 "Module... an optional shadowed previous Decl").
	Shadowed *Decl
}

// Module is one node of the declaration tree: a name→Decl mapping plus
// lookup-miss fallbacks (spec.md §3.6 "Module").
type Module struct {
	decls map[string]*Decl
	order []string // insertion order, for deterministic iteration/topo-sort tie-breaking

	// Redirects are relative idents tried, in order, on a lookup miss
	// (spec.md §3.6).
	Redirects []ast.Ident

	// InferDecl is the template used to materialise a previously-unknown
	// name -- database columns under a table module being the canonical
	// use (spec.md §3.6, §4.4.2 point 2).
	InferDecl *Decl
}

func NewModule() *Module { return &Module{decls: make(map[string]*Decl)} }

// Insert adds or replaces a name's Decl, chaining the previous one onto
// Shadowed rather than discarding it.
func (m *Module) Insert(name string, d *Decl) {
	if prev, ok := m.decls[name]; ok {
		d.Shadowed = prev
	} else {
		m.order = append(m.order, name)
	}
	m.decls[name] = d
}

// Get returns the current Decl bound to name, if any.
func (m *Module) Get(name string) (*Decl, bool) {
	d, ok := m.decls[name]
	return d, ok
}

// Names returns every bound name in insertion order (deterministic
// iteration, needed for spec.md §8 "compile is deterministic").
func (m *Module) Names() []string {
	return append([]string(nil), m.order...)
}

// EnsureSubmodule returns the Module bound to name, creating and inserting
// an empty DModule Decl for it if none exists yet.
func (m *Module) EnsureSubmodule(name string) *Module {
	if d, ok := m.decls[name]; ok && d.Kind == DModule {
		return d.Module
	}
	sub := NewModule()
	m.Insert(name, &Decl{Kind: DModule, Module: sub})
	return sub
}

// RootModule owns the whole declaration tree plus the monotonic id
// generator every downstream RQ CId/TId is drawn from (spec.md §3.6,
// §3.8 "dense u32 handles generated by the root module's id generator").
type RootModule struct {
	Root   *Module
	nextID int
}

func NewRootModule() *RootModule {
	return &RootModule{Root: NewModule()}
}

// NextID returns a fresh, monotonically increasing id.
func (r *RootModule) NextID() int {
	r.nextID++
	return r.nextID
}

// LookupModule walks a dotted path of module names from the root, returning the
// Module at that path (not including a final non-module Decl).
func (r *RootModule) LookupModule(path []string) (*Module, bool) {
	cur := r.Root
	for _, seg := range path {
		d, ok := cur.Get(seg)
		if !ok || d.Kind != DModule {
			return nil, false
		}
		cur = d.Module
	}
	return cur, true
}

// LookupDecl resolves a fully-qualified path (module segments plus a final
// name) to its Decl.
func (r *RootModule) LookupDecl(path []string) (*Decl, bool) {
	if len(path) == 0 {
		return nil, false
	}
	mod, ok := r.LookupModule(path[:len(path)-1])
	if !ok {
		return nil, false
	}
	return mod.Get(path[len(path)-1])
}

// PathString renders a dotted path the way diagnostics quote it.
func PathString(path []string) string { return strings.Join(path, ".") }
