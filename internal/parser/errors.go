package parser

import (
	"errors"
	"fmt"

	"github.com/prqlc-go/prqlc/internal/source"
	"github.com/prqlc-go/prqlc/internal/token"
)

// Sentinel errors, one per parse failure mode, following the teacher's
// errors.go convention (package-level Err* vars with a one-line doc each).
var (
	// ErrUnexpectedToken is returned when the parser found a token that
	// cannot start or continue the current production.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrUnclosedDelimiter indicates a `(`, `{` or `[` was never closed.
	ErrUnclosedDelimiter = errors.New("unclosed delimiter")
	// ErrExpectedExpr indicates a production required an expression but
	// none could be parsed.
	ErrExpectedExpr = errors.New("expected an expression")
	// ErrSelfEqualityOnNonIdent is raised when `==x` sugar is applied to a
	// non-bare-name operand (spec.md §4.3 point 3).
	ErrSelfEqualityOnNonIdent = errors.New("self-equality operator requires a bare name")
)

// Error is one parse error with the span of the offending token.
type Error struct {
	Err   error
	Span  source.Span
	Found string
}

func (e Error) Error() string {
	if e.Found != "" {
		return fmt.Sprintf("%s: found %q", e.Err, e.Found)
	}
	return e.Err.Error()
}

func (e Error) Unwrap() error { return e.Err }

func (p *parser) errorf(span source.Span, found string, err error) {
	p.errs = append(p.errs, Error{Err: err, Span: span, Found: found})
}

// recoverTo advances the cursor to the matching close delimiter (or EOF),
// implementing the delimited-nested-error recovery spec.md §4.2 describes:
// "the parser returns whatever partial AST it managed plus the full list
// of errors."
func (p *parser) recoverTo(open, close token.Kind) {
	depth := 1
	for !p.atEnd() {
		switch p.peek().Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
