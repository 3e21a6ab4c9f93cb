// Package resolver implements spec.md §4.4: name resolution, the
// structural type system, transform-call interpretation and lineage
// inference. It is the single largest pass in the pipeline (§2 puts it at
// 32% of core compiler code) -- a tree-fold over the PL-shaped ast.Expr
// produced by internal/expand, threading a Resolver context the way the
// original implementation threads its own Resolver struct (spec.md §4.4
// "one Resolver context plus a tree-fold over PL").
package resolver

import (
	"errors"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/pl"
	"github.com/prqlc-go/prqlc/internal/resolver/stdlib"
	"github.com/prqlc-go/prqlc/internal/source"
)

// ErrEmptySource is raised when there is no `main` pipeline to compile
// (spec.md §8 "Empty source compiles to an error").
var ErrEmptySource = errors.New("expected a pipeline")

// Resolver owns the RootModule, the monotonic id generator (via
// Root.NextID), the current default namespace, and the ephemeral lineage
// context ("this"/"that") used while resolving one transform call's
// arguments (spec.md §4.4).
type Resolver struct {
	Root *pl.RootModule
	errs []Error

	defaultNS string

	declByID map[int]*pl.Decl

	curLineage *ast.Lineage
	curThat    *ast.Lineage

	inGroup  bool
	inWindow bool
}

// New builds a Resolver with the std module and reserved empty db modules
// already declared (spec.md §3.6 reserved names).
func New() *Resolver {
	r := &Resolver{
		Root:      pl.NewRootModule(),
		defaultNS: "this",
		declByID:  make(map[int]*pl.Decl),
	}
	r.declareStdlib()
	// Unqualified relation names (`from employees`) that were never `let`-
	// bound resolve against default_db: any lookup miss there
	// materialises a DInferTable placeholder instead of failing
	// (spec.md §3.6 "InferDecl", §4.4.2 point 2).
	r.Root.Root.EnsureSubmodule("default_db").InferDecl = &pl.Decl{Kind: pl.DInferTable}
	r.Root.Root.EnsureSubmodule("db")
	return r
}

// Run resolves a full PL statement list and returns the `main` pipeline's
// resolved expression (spec.md §4.5 "Input: a single VarDef{name: main}").
func (r *Resolver) Run(stmts []ast.Stmt) (ast.Expr, []Error) {
	r.declareAll(stmts)
	r.resolveModule(r.Root.Root)

	mainDecl, ok := r.Root.Root.Get("main")
	if !ok {
		r.errs = append(r.errs, errAt(KindSemantic, ErrEmptySource, source.Span{}))
		return ast.Expr{}, r.errs
	}
	if mainDecl.Expr == nil {
		return ast.Expr{}, r.errs
	}
	return *mainDecl.Expr, r.errs
}

// Decls exposes the TargetID -> Decl index built while resolving, so
// internal/lower can fetch a referenced relation's own resolved expression
// when materialising it as a CTE (spec.md §4.5.1).
func (r *Resolver) Decls() map[int]*pl.Decl { return r.declByID }

func (r *Resolver) declareStdlib() {
	std := r.Root.Root.EnsureSubmodule("std")
	for _, f := range stdlib.Funcs {
		parts := splitDot(f.Name)
		mod := std
		for _, seg := range parts[:len(parts)-1] {
			mod = mod.EnsureSubmodule(seg)
		}
		mod.Insert(parts[len(parts)-1], &pl.Decl{Kind: pl.DVariable})
	}
}

func splitDot(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func (r *Resolver) declareAll(stmts []ast.Stmt) {
	r.declareInto(r.Root.Root, stmts)
}

func (r *Resolver) declareInto(mod *pl.Module, stmts []ast.Stmt) {
	for i, s := range stmts {
		switch s.Kind {
		case ast.SModuleDef:
			sub := mod.EnsureSubmodule(s.Name)
			r.declareInto(sub, s.ModuleStmts)
		case ast.SImportDef:
			key := s.ImportAlias
			if key == "" {
				key = s.ImportName.Name()
			}
			mod.Insert(key, &pl.Decl{Kind: pl.DImport, ImportTarget: s.ImportName, Order: i})
		default:
			name := s.Name
			if s.Kind == ast.SVarDef && s.VarKind == ast.VDMain {
				name = "main"
			}
			stmtCopy := s
			mod.Insert(name, &pl.Decl{Kind: pl.DUnresolved, Unresolved: &stmtCopy, Order: i})
		}
	}
}

func (r *Resolver) resolveModule(mod *pl.Module) {
	names := mod.Names()
	order := r.topoOrder(mod, names)
	for _, name := range order {
		d, ok := mod.Get(name)
		if !ok {
			continue
		}
		switch d.Kind {
		case pl.DUnresolved:
			r.resolveDecl(d)
		case pl.DModule:
			if name != "std" {
				r.resolveModule(d.Module)
			}
		}
	}
}

func (r *Resolver) resolveDecl(d *pl.Decl) {
	s := *d.Unresolved
	switch s.Kind {
	case ast.SVarDef:
		val := r.resolveExpr(s.VarValue)
		id := val.ID
		d.Kind = pl.DVariable
		d.Expr = &val
		d.VariableTy = val.PlTy
		d.DeclaredAt = &id
		d.Unresolved = nil
		r.declByID[id] = d
	case ast.STypeDef:
		ty := s.TypeValue
		d.Kind = pl.DTy
		d.Ty = &ty
		d.Unresolved = nil
		id := r.Root.NextID()
		d.DeclaredAt = &id
		r.declByID[id] = d
	}
}
