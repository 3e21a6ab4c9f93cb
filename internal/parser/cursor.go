package parser

import (
	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parser holds the mutable cursor state threaded through every production.
// There is no exported Fold-style visitor (spec.md §9 "A faithful
// reimplementation does not need to expose a trait"): a single struct plus
// plain methods is enough since there is only one consumer.
type parser struct {
	toks    []token.Token
	pos     int
	nextID  int
	errs    []Error
}

func newParser(toks []token.Token) *parser {
	// Filter out trivia up front: comments and LineWrap tokens are dropped,
	// so a line wrap leaves no newline behind (spec.md §4.1 "a single
	// LineWrap token that suppresses the newline"); doc-comments are kept.
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		switch t.Kind {
		case token.Comment:
			continue
		case token.LineWrap:
			continue // suppressed: no NewLine emitted in its place
		case token.DocComment:
			filtered = append(filtered, t)
		default:
			filtered = append(filtered, t)
		}
	}
	return &parser{toks: filtered}
}

func (p *parser) allocID() int {
	p.nextID++
	return p.nextID
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.toks) || p.toks[p.pos].Kind == token.EOF
}

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[idx]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *parser) expect(k token.Kind) (token.Token, bool) {
	if t, ok := p.match(k); ok {
		return t, true
	}
	p.errorf(p.peek().Span, p.peek().Text, ErrUnexpectedToken)
	return token.Token{}, false
}

// skipNewlines consumes any run of NewLine tokens; used between pipeline
// stages, inside brackets, and between top-level statements, where
// spec.md §4.2 allows "arbitrary embedded newlines".
func (p *parser) skipNewlines() {
	for p.check(token.NewLine) {
		p.advance()
	}
}

func newExpr(id int, kind ast.ExprKind) ast.Expr {
	return ast.Expr{ID: id, Kind: kind}
}
