// Package prqlc compiles PRQL source text to SQL (spec.md §6.1): lex,
// parse, expand PR to PL, resolve names and types, lower to the relational
// IR, and render dialect-specific SQL. Each stage is its own internal
// package; this file wires them the way the teacher's root package exposes
// small, documented functions that delegate immediately into internal/...
package prqlc

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/prqlc-go/prqlc/internal/errors"
	"github.com/prqlc-go/prqlc/internal/expand"
	"github.com/prqlc-go/prqlc/internal/header"
	"github.com/prqlc-go/prqlc/internal/lexer"
	"github.com/prqlc-go/prqlc/internal/lower"
	"github.com/prqlc-go/prqlc/internal/parser"
	"github.com/prqlc-go/prqlc/internal/resolver"
	"github.com/prqlc-go/prqlc/internal/source"
	"github.com/prqlc-go/prqlc/internal/sqlgen"
)

// Version is the compiler's own SemVer, reported in the signature comment.
// Compile does not compare it with a source file's `prql version:"..."`
// header requirement and reports no diagnostic on a mismatch;
// header.CheckVersion implements the matching but has no caller here.
const Version = sqlgen.Version

// ErrorMessage and ErrorMessages re-export internal/errors' diagnostic
// shape (spec.md §6.4) so callers never need to import an internal package
// themselves.
type ErrorMessage = errors.ErrorMessage
type ErrorMessages = errors.ErrorMessages

// Target enumerates the dialect strings spec.md §6.1 recognises. An empty
// Target means "read the dialect from the source's own header"
// (`Sql(None)`); any other value forces that dialect (`Sql(Some(d))`).
type Target = string

// Recognised target strings (spec.md §6.1).
const (
	TargetAny        Target = "sql.any"
	TargetAnsi       Target = "sql.ansi"
	TargetBigQuery   Target = "sql.bigquery"
	TargetClickHouse Target = "sql.clickhouse"
	TargetDuckDB     Target = "sql.duckdb"
	TargetGeneric    Target = "sql.generic"
	TargetGlareDB    Target = "sql.glaredb"
	TargetMSSQL      Target = "sql.mssql"
	TargetMySQL      Target = "sql.mysql"
	TargetPostgres   Target = "sql.postgres"
	TargetSQLite     Target = "sql.sqlite"
	TargetSnowflake  Target = "sql.snowflake"
)

// Options controls Compile's behaviour (spec.md §6.1).
type Options struct {
	// Format pretty-prints the output across multiple lines; false
	// collapses it to one dense line plus a trailing signature comment.
	Format bool
	// Target forces a dialect; empty means read it from the source's own
	// `prql target:sql.<dialect>` header (Sql(None)).
	Target Target
	// SignatureComment appends "-- Generated by ..." to the output.
	SignatureComment bool
	// Color is deprecated and ignored: colour is controlled by whether the
	// hosting process's output stream is a TTY (spec.md §6.1, §7).
	Color bool
}

// DefaultOptions mirrors spec.md §6.1's stated defaults.
func DefaultOptions() Options {
	return Options{Format: true, SignatureComment: true}
}

// Compile renders prql source text to a SQL query string, or the full list
// of diagnostics produced by whichever pass failed first (spec.md §7
// "Propagation": the pipeline stops at the first pass with any error).
func Compile(prql string, options Options) (string, errors.ErrorMessages) {
	tree := source.New([2]string{"source.prql", prql})
	sourceID, _ := tree.IDOf("source.prql")
	colored := colorEnabled()

	toks, lexErrs := lexer.Lex(tree, sourceID)
	if len(lexErrs) > 0 {
		return "", adapt(tree, colored, errors.KindLex, lexErrs, func(e lexer.Error) (error, source.Span, []string) {
			return e, e.Span, nil
		})
	}

	stmts, parseErrs := parser.Parse(toks)
	if len(parseErrs) > 0 {
		return "", adapt(tree, colored, errors.KindParse, parseErrs, func(e parser.Error) (error, source.Span, []string) {
			return e, e.Span, nil
		})
	}

	hdr, body := header.Extract(stmts)
	target := header.ResolveTarget(options.Target, hdr.Target)

	expanded, expandErrs := expand.Expand(body)
	if len(expandErrs) > 0 {
		return "", adapt(tree, colored, errors.KindParse, expandErrs, func(e expand.Error) (error, source.Span, []string) {
			return e, e.Span, nil
		})
	}

	r := resolver.New()
	main, resolveErrs := r.Run(expanded)
	if len(resolveErrs) > 0 {
		return "", adapt(tree, colored, errors.KindResolution, resolveErrs, func(e resolver.Error) (error, source.Span, []string) {
			return e, e.Span, e.Hints
		}, resolverKind)
	}

	lw := lower.New(r.Decls())
	rq := lw.Run(main, hdr.VersionReq, target)

	sql, err := sqlgen.Generate(rq, sqlgen.Options{
		Format:           options.Format,
		Target:           target,
		SignatureComment: options.SignatureComment,
	})
	if err != nil {
		return "", errors.ErrorMessages{errors.Build(tree, errors.Raw{Kind: errors.KindDialect, Err: err}, colored)}
	}

	return sql, nil
}

// resolverKind maps a resolver.Error's own taxonomy onto the unified
// errors.Kind, overriding the KindResolution default adapt() passes in.
func resolverKind(e resolver.Error) errors.Kind {
	switch e.Kind {
	case resolver.KindType:
		return errors.KindType
	case resolver.KindSemantic:
		return errors.KindSemantic
	case resolver.KindInternal:
		return errors.KindInternal
	default:
		return errors.KindResolution
	}
}

// adapt converts one pass's own []Error slice into errors.ErrorMessages. An
// optional kindOf callback (used only for resolver.Error, whose Kind field
// spans four of spec.md §7's taxonomy entries) overrides the default kind
// per error; passes with a single taxonomy entry omit it.
func adapt[E any](tree *source.Tree, colored bool, kind errors.Kind, errs []E, split func(E) (error, source.Span, []string), kindOf ...func(E) errors.Kind) errors.ErrorMessages {
	out := make(errors.ErrorMessages, len(errs))
	for i, e := range errs {
		err, span, hints := split(e)
		k := kind
		if len(kindOf) > 0 {
			k = kindOf[0](e)
		}
		out[i] = errors.Build(tree, errors.Raw{Kind: k, Err: err, Span: span, Hints: hints}, colored)
	}
	return out
}

// colorEnabled implements spec.md §7's "ANSI colour is applied only if the
// host stream is a TTY and NO_COLOR is unset".
func colorEnabled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}
