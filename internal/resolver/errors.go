package resolver

import (
	"errors"
	"fmt"

	"github.com/prqlc-go/prqlc/internal/source"
)

// ErrorKind classifies a resolver error into spec.md §7's taxonomy (the
// subset the resolver itself can raise; Lex/Parse/Dialect are raised by
// other passes).
type ErrorKind int

const (
	KindResolution ErrorKind = iota
	KindType
	KindSemantic
	KindInternal
)

var (
	// ErrUnknownName is raised when no declaration matches a resolved path.
	ErrUnknownName = errors.New("unknown name")
	// ErrAmbiguousName is raised when more than one declaration matches.
	ErrAmbiguousName = errors.New("ambiguous name")
	// ErrCyclicReferences is raised when the declaration dependency graph
	// has a cycle (spec.md §4.4.1).
	ErrCyclicReferences = errors.New("cyclic references")
	// ErrDuplicateDeclaration names a name declared twice in the same
	// module. The resolver does not raise it: pl.Module.Insert keeps the
	// earlier Decl as Shadowed instead.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrImportMissing names an ImportDef whose target path is not found
	// in the declaration tree. The resolver does not raise it; import
	// targets are not checked.
	ErrImportMissing = errors.New("import target missing")
	// ErrTypeMismatch is the generic expected/found type error.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrTooManyArgs / ErrTooFewArgs are arity errors on a function call.
	ErrTooManyArgs = errors.New("too many arguments")
	ErrTooFewArgs  = errors.New("too few arguments")
	// ErrTransformOrdering is raised for semantically invalid transform
	// placement, e.g. `aggregate` outside `group` (spec.md §4.4.4).
	ErrTransformOrdering = errors.New("invalid transform ordering")
	// ErrNotARelation names a transform input that does not resolve to a
	// relation-typed expression. The resolver does not raise it; transform
	// inputs are not type-checked.
	ErrNotARelation = errors.New("expected a relation")
)

// Error is one resolver diagnostic.
type Error struct {
	Kind  ErrorKind
	Err   error
	Span  source.Span
	Hints []string
}

func (e Error) Error() string { return fmt.Sprintf("%s at byte %d", e.Err, e.Span.Start) }
func (e Error) Unwrap() error { return e.Err }

func errAt(kind ErrorKind, err error, span source.Span, hints ...string) Error {
	return Error{Kind: kind, Err: err, Span: span, Hints: hints}
}
