package prqlc

import (
	"encoding/json"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/errors"
	"github.com/prqlc-go/prqlc/internal/expand"
	"github.com/prqlc-go/prqlc/internal/header"
	"github.com/prqlc-go/prqlc/internal/lexer"
	"github.com/prqlc-go/prqlc/internal/lower"
	"github.com/prqlc-go/prqlc/internal/parser"
	"github.com/prqlc-go/prqlc/internal/prqlfmt"
	"github.com/prqlc-go/prqlc/internal/resolver"
	"github.com/prqlc-go/prqlc/internal/rq"
	"github.com/prqlc-go/prqlc/internal/source"
	"github.com/prqlc-go/prqlc/internal/sqlgen"
)

// PL is the statement list internal/expand produces: PR statements with
// ids reallocated and pipelines/operators desugared, ready for
// internal/resolver (spec.md §6.2 "prql_to_pl(source) -> PR statements").
// The query header, if present, is carried alongside rather than left in
// the statement list, since PlToRQ needs it to resolve the target dialect.
type PL struct {
	Stmts  []ast.Stmt
	Header header.Header
}

// PrqlToPL lexes, parses and AST-expands source text into its PL form
// (spec.md §6.2). Compile calls the same three passes internally; this
// entry point exposes the intermediate result for callers that want to
// stop before name resolution.
func PrqlToPL(src string) (PL, errors.ErrorMessages) {
	tree := source.New([2]string{"source.prql", src})
	sourceID, _ := tree.IDOf("source.prql")
	colored := colorEnabled()

	toks, lexErrs := lexer.Lex(tree, sourceID)
	if len(lexErrs) > 0 {
		return PL{}, adapt(tree, colored, errors.KindLex, lexErrs, func(e lexer.Error) (error, source.Span, []string) {
			return e, e.Span, nil
		})
	}

	stmts, parseErrs := parser.Parse(toks)
	if len(parseErrs) > 0 {
		return PL{}, adapt(tree, colored, errors.KindParse, parseErrs, func(e parser.Error) (error, source.Span, []string) {
			return e, e.Span, nil
		})
	}

	hdr, body := header.Extract(stmts)

	expanded, expandErrs := expand.Expand(body)
	if len(expandErrs) > 0 {
		return PL{}, adapt(tree, colored, errors.KindParse, expandErrs, func(e expand.Error) (error, source.Span, []string) {
			return e, e.Span, nil
		})
	}

	return PL{Stmts: expanded, Header: hdr}, nil
}

// PlToRQ resolves names/types and lowers a PL statement list into the
// relational IR (spec.md §6.2 "pl_to_rq(pl) -> RQ"). target overrides the
// PL's own header target when non-empty, matching Options.Target's
// override rule (spec.md §6.3).
func PlToRQ(pl PL, target string) (*rq.RelationalQuery, errors.ErrorMessages) {
	tree := source.New() // PL has no source text of its own once lexed; spans still resolve via the original tree held by the caller for diagnostics display.
	colored := colorEnabled()

	r := resolver.New()
	main, resolveErrs := r.Run(pl.Stmts)
	if len(resolveErrs) > 0 {
		return nil, adapt(tree, colored, errors.KindResolution, resolveErrs, func(e resolver.Error) (error, source.Span, []string) {
			return e, e.Span, e.Hints
		}, resolverKind)
	}

	resolvedTarget := header.ResolveTarget(target, pl.Header.Target)

	lw := lower.New(r.Decls())
	return lw.Run(main, pl.Header.VersionReq, resolvedTarget), nil
}

// RqToSql renders the relational IR into SQL text for the dialect named in
// either opts.Target or q.Def.Target (spec.md §6.2 "rq_to_sql(rq, options)
// -> SQL text").
func RqToSql(q *rq.RelationalQuery, opts Options) (string, error) {
	return sqlgen.Generate(q, sqlgen.Options{
		Format:           opts.Format,
		Target:           opts.Target,
		SignatureComment: opts.SignatureComment,
	})
}

// PlToPrql renders a PL statement list back to PRQL surface syntax (spec.md
// §6.2 "pl_to_prql(pl) -> formatted PRQL source (used for round-trip
// tests; not a true autoformatter)").
func PlToPrql(pl PL) string {
	return prqlfmt.New().Format(pl.Stmts)
}

// MarshalPL serialises a PL statement list to JSON (spec.md §6.2 "JSON
// serialisation/deserialisation of PR/PL and RQ trees").
func MarshalPL(pl PL) ([]byte, error) {
	return json.Marshal(pl.Stmts)
}

// MarshalPLIndent is MarshalPL with two-space indentation, for
// human-readable CLI/debug output.
func MarshalPLIndent(pl PL) ([]byte, error) {
	return json.MarshalIndent(pl.Stmts, "", "  ")
}

// UnmarshalPL deserialises a PL statement list previously produced by
// MarshalPL. The query header is not round-tripped through JSON (it is
// PRQL source syntax, not part of the PL tree); callers that need it
// should carry header.Header separately.
func UnmarshalPL(data []byte) (PL, error) {
	var stmts []ast.Stmt
	if err := json.Unmarshal(data, &stmts); err != nil {
		return PL{}, err
	}
	return PL{Stmts: stmts}, nil
}

// MarshalRQ serialises an RQ tree to JSON.
func MarshalRQ(q *rq.RelationalQuery) ([]byte, error) {
	return json.Marshal(q)
}

// UnmarshalRQ deserialises an RQ tree previously produced by MarshalRQ.
func UnmarshalRQ(data []byte) (*rq.RelationalQuery, error) {
	var q rq.RelationalQuery
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
