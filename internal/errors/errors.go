// Package errors unifies every pass's own Error type into the
// ErrorMessage/ErrorMessages shape spec.md §6.4 exposes to callers, and
// renders an ariadne-style display string for each: a source snippet with
// a caret under the offending span, colourised with fatih/color the same
// way the teacher's testrunner package colourises pass/fail output.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"github.com/prqlc-go/prqlc/internal/source"
)

// Kind is spec.md §7's full error taxonomy, spanning every compiler pass.
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindResolution
	KindType
	KindDialect
	KindSemantic
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "Lex"
	case KindParse:
		return "Parse"
	case KindResolution:
		return "Resolution"
	case KindType:
		return "Type"
	case KindDialect:
		return "Dialect"
	case KindSemantic:
		return "Semantic"
	case KindInternal:
		return "Internal"
	}
	return "Unknown"
}

// Location is a 0-based (line, col) pair, start and end (spec.md §6.4).
type Location struct {
	Start [2]int
	End   [2]int
}

// ErrorMessage is one diagnostic in caller-facing form (spec.md §6.4
// "ErrorMessage{kind, code, reason, hints, span, display, location}").
type ErrorMessage struct {
	Kind     Kind
	Code     string
	Reason   string
	Hints    []string
	Span     source.Span
	Display  string
	Location Location
}

// ErrorMessages is the full diagnostic list a failed compile returns.
type ErrorMessages []ErrorMessage

func (ms ErrorMessages) Error() string {
	lines := make([]string, len(ms))
	for i, m := range ms {
		lines[i] = m.Display
	}
	return strings.Join(lines, "\n")
}

// Raw is the minimal shape every pass's own Error type already satisfies:
// an underlying sentinel error, a span, and optional hints. internal/lexer,
// internal/parser, internal/expand and internal/resolver's Error types are
// each adapted to this via a small wrapper at the call site (see
// prqlc.go), rather than this package importing all four passes directly
// and coupling their internal Kind enums together.
type Raw struct {
	Kind  Kind
	Err   error
	Span  source.Span
	Hints []string
}

// Build renders a Raw diagnostic into a full ErrorMessage, computing its
// line/col location and an ariadne-style display string against tree.
func Build(tree *source.Tree, r Raw, colored bool) ErrorMessage {
	code := fmt.Sprintf("%s-%03d", strings.ToUpper(string(r.Kind.String()[0])), stableCode(r.Err.Error()))
	loc := Location{}
	var display strings.Builder

	startLine, startCol, err1 := tree.LineCol(r.Span.SourceID, r.Span.Start)
	endLine, endCol, err2 := tree.LineCol(r.Span.SourceID, r.Span.End)
	if err1 == nil && err2 == nil {
		loc.Start = [2]int{startLine, startCol}
		loc.End = [2]int{endLine, endCol}
	}

	path, _ := tree.Path(r.Span.SourceID)
	header := fmt.Sprintf("%s error: %s", r.Kind, r.Err.Error())
	if colored {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	display.WriteString(header)
	if path != "" {
		display.WriteString(fmt.Sprintf("\n   --> %s:%d:%d", path, startLine+1, startCol+1))
	}
	if snippet := tree.Snippet(r.Span.SourceID, r.Span.Start); snippet != "" {
		caretLine := strings.Repeat(" ", startCol) + strings.Repeat("^", max1(endCol-startCol))
		if colored {
			caretLine = color.New(color.FgYellow).Sprint(caretLine)
		}
		display.WriteString("\n    | " + snippet)
		display.WriteString("\n    | " + caretLine)
	}
	for _, h := range r.Hints {
		display.WriteString("\n  hint: " + renderHint(h))
	}
	if r.Kind == KindInternal {
		display.WriteString("\n  tracking id: " + uuid.NewString())
	}

	return ErrorMessage{
		Kind: r.Kind, Code: code, Reason: r.Err.Error(),
		Hints: r.Hints, Span: r.Span, Display: display.String(), Location: loc,
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// stableCode derives a small deterministic numeric suffix from an error's
// message text, so the same failure always gets the same diagnostic code
// across runs (spec.md §8 "compile is deterministic").
func stableCode(s string) int {
	h := 0
	for _, r := range s {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h % 1000
}

// renderHint strips markdown formatting from a hint string via goldmark,
// the same rendering path the teacher's markdownparser package uses for
// doc-comment bodies, here reused for plain-text hint rendering instead of
// HTML.
func renderHint(h string) string {
	var sb strings.Builder
	if err := goldmark.Convert([]byte(h), &sb); err != nil {
		return h
	}
	return stripTags(sb.String())
}

func stripTags(s string) string {
	var out strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return strings.TrimSpace(out.String())
}
