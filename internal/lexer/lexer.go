// Package lexer tokenises PRQL source text into a stream of token.Token
// values (spec.md §4.1). It is a single character-level pass: whitespace is
// consumed silently except for newlines, comments are preserved as tokens,
// and lexing always continues to end of input so multiple Unexpected
// errors can be reported together (spec.md §7 "lexing always continues").
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/prqlc-go/prqlc/internal/source"
	"github.com/prqlc-go/prqlc/internal/token"
)

// Sentinel errors, following the teacher's tokenizer/token.go convention of
// one exported Err* var per distinct failure mode.
var (
	// ErrUnexpected is returned (wrapped with the offending rune) for any
	// byte the lexer cannot classify into a token kind.
	ErrUnexpected = errors.New("unexpected character")
	// ErrUnterminatedString indicates a quoted literal was never closed.
	ErrUnterminatedString = errors.New("unterminated string literal")
	// ErrUnterminatedDate indicates an `@`-prefixed literal had no digits.
	ErrUnterminatedDate = errors.New("invalid date/time/timestamp literal")
)

// Error is one lexical error, with the span of the offending text.
type Error struct {
	Err  error
	Span source.Span
}

func (e Error) Error() string {
	return fmt.Sprintf("%s at byte %d", e.Err, e.Span.Start)
}

func (e Error) Unwrap() error { return e.Err }

// Lex tokenises the text of sourceID in tree, returning every token found
// (including a trailing EOF) plus the full list of lexical errors, if any.
// Per spec.md §7, lexing never stops early: it always returns a complete
// token stream alongside whatever errors it accumulated.
func Lex(tree *source.Tree, sourceID uint16) ([]token.Token, []Error) {
	text, ok := tree.Text(sourceID)
	if !ok {
		return nil, []Error{{Err: fmt.Errorf("lexer: unknown source id %d", sourceID)}}
	}
	l := &lexer{input: text, sourceID: sourceID}
	return l.run()
}

type lexer struct {
	input    string
	pos      int
	sourceID uint16
	tokens   []token.Token
	errs     []Error
}

func (l *lexer) run() ([]token.Token, []Error) {
	for {
		l.skipInlineSpace()
		if l.pos >= len(l.input) {
			l.emit(token.EOF, l.pos, l.pos)
			return l.tokens, l.errs
		}
		start := l.pos
		c := l.peek()
		switch {
		case c == '\n':
			l.pos++
			l.lexAfterNewline(start)
		case c == '#':
			l.lexComment(start)
		case c == '\'' || c == '"':
			l.lexString(start, c, false)
		case c == 'r' && (l.at(1) == '\'' || l.at(1) == '"'):
			l.pos++
			l.lexString(start, l.peek(), true)
		case c == 's' && l.at(1) == '"':
			l.pos++
			l.lexString(start, l.peek(), false)
			l.tokens[len(l.tokens)-1].Kind = token.SStringStart
		case c == 'f' && l.at(1) == '"':
			l.pos++
			l.lexString(start, l.peek(), false)
			l.tokens[len(l.tokens)-1].Kind = token.FStringStart
		case c == '`':
			l.lexBacktickIdent(start)
		case c == '@' && isDigit(l.at(1)):
			l.lexDateTime(start)
		case c == '$':
			l.lexParam(start)
		case isDigit(c):
			l.lexNumber(start)
		case isIdentStart(c):
			l.lexWord(start)
		case c == '.':
			l.lexDotOrRange(start)
		default:
			l.lexOperatorOrControl(start)
		}
	}
}

func (l *lexer) emit(kind token.Kind, start, end int) {
	text := l.input[start:end]
	l.tokens = append(l.tokens, token.Token{
		Kind: kind,
		Text: normalizeIdent(kind, text),
		Span: source.Span{SourceID: l.sourceID, Start: start, End: end},
	})
}

// normalizeIdent applies NFC normalisation to identifier-shaped tokens so
// that two idents spelled with different Unicode decompositions of the
// same grapheme compare equal, per SPEC_FULL.md §B.
func normalizeIdent(kind token.Kind, text string) string {
	switch kind {
	case token.Ident, token.BacktickIdent:
		if !norm.NFC.IsNormalString(text) {
			return norm.NFC.String(text)
		}
	}
	return text
}

func (l *lexer) errorAt(err error, start, end int) {
	l.errs = append(l.errs, Error{Err: err, Span: source.Span{SourceID: l.sourceID, Start: start, End: end}})
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *lexer) at(offset int) byte {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	return l.input[p]
}

func (l *lexer) skipInlineSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		default:
			return
		}
	}
}

// lexAfterNewline decides between a plain NewLine token and a LineWrap:
// a newline followed by optional comment lines and a trailing backslash
// collapses into one LineWrap token that suppresses the newline for the
// parser (spec.md §4.1).
func (l *lexer) lexAfterNewline(start int) {
	save := l.pos
	var comments []token.Token
	for {
		l.skipInlineSpace()
		if l.peek() == '#' {
			cstart := l.pos
			l.consumeLineComment()
			comments = append(comments, token.Token{
				Kind: token.Comment,
				Text: l.input[cstart:l.pos],
				Span: source.Span{SourceID: l.sourceID, Start: cstart, End: l.pos},
			})
			if l.peek() == '\n' {
				l.pos++
				continue
			}
		}
		break
	}
	l.skipInlineSpace()
	if l.peek() == '\\' {
		l.pos++
		l.tokens = append(l.tokens, token.Token{
			Kind:     token.LineWrap,
			Text:     l.input[start:l.pos],
			Span:     source.Span{SourceID: l.sourceID, Start: start, End: l.pos},
			Comments: comments,
		})
		return
	}
	// Not a line-wrap: rewind and emit a plain newline.
	l.pos = save
	l.emit(token.NewLine, start, start+1)
}

func (l *lexer) consumeLineComment() {
	// caller already positioned at '#'
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) lexComment(start int) {
	isDoc := l.at(1) == '!'
	l.consumeLineComment()
	kind := token.Comment
	if isDoc {
		kind = token.DocComment
	}
	l.emit(kind, start, l.pos)
}

// lexString handles single- and (odd-count >=3) triple-quoted strings in
// both ' and " flavours. raw=true skips escape processing (r"..." strings).
func (l *lexer) lexString(start int, quote byte, raw bool) {
	quoteLen := 1
	for l.at(quoteLen) == quote {
		quoteLen++
	}
	// An odd run of 3+ identical quote chars opens a triple-quoted string;
	// a run of exactly 2 is an empty single-quoted string (quoteLen stays 1
	// and the second quote is the terminator).
	if quoteLen >= 3 && quoteLen%2 == 1 {
		l.pos += quoteLen
	} else {
		quoteLen = 1
		l.pos++
	}
	closing := strings.Repeat(string(quote), quoteLen)
	for {
		if l.pos >= len(l.input) {
			// Unterminated: end the token at the end of its opening line so
			// the rest of the input is still lexed.
			if nl := strings.IndexByte(l.input[start:], '\n'); nl >= 0 {
				l.pos = start + nl
			}
			l.errorAt(ErrUnterminatedString, start, l.pos)
			l.emit(token.LitString, start, l.pos)
			return
		}
		if strings.HasPrefix(l.input[l.pos:], closing) {
			l.pos += quoteLen
			kind := token.LitString
			if raw {
				kind = token.LitRawString
			}
			l.emit(kind, start, l.pos)
			return
		}
		if !raw && l.peek() == '\\' {
			l.lexEscape()
			continue
		}
		l.pos++
	}
}

// lexEscape consumes one backslash escape sequence: \n \t \r \\ \/ \" \b \f,
// hex \xHH, and unicode \u{...} (spec.md §4.1).
func (l *lexer) lexEscape() {
	start := l.pos
	l.pos++ // backslash
	switch l.peek() {
	case 'n', 't', 'r', '\\', '/', '"', '\'', 'b', 'f':
		l.pos++
	case 'x':
		l.pos++
		for i := 0; i < 2 && isHex(l.peek()); i++ {
			l.pos++
		}
	case 'u':
		l.pos++
		if l.peek() == '{' {
			l.pos++
			for l.peek() != '}' && l.pos < len(l.input) {
				l.pos++
			}
			if l.peek() == '}' {
				l.pos++
			}
		}
	default:
		l.pos++
	}
	_ = start
}

func (l *lexer) lexBacktickIdent(start int) {
	l.pos++
	for l.pos < len(l.input) && l.input[l.pos] != '`' {
		l.pos++
	}
	if l.peek() != '`' {
		l.errorAt(ErrUnterminatedString, start, l.pos)
		l.emit(token.BacktickIdent, start, l.pos)
		return
	}
	l.pos++
	l.emit(token.BacktickIdent, start, l.pos)
}

// lexDateTime lexes @YYYY-MM-DD, @HH:MM:SS(.fff)? and the combined
// timestamp form @YYYY-MM-DDTHH:MM:SS, distinguishing by shape (spec.md
// §4.1: "Dates/times start with @ immediately followed by digits").
func (l *lexer) lexDateTime(start int) {
	l.pos++ // '@'
	hasDash, hasColon, hasT := false, false, false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case isDigit(c) || c == '.' || c == 'Z' || c == '+':
			l.pos++
		case c == '-':
			hasDash = true
			l.pos++
		case c == ':':
			hasColon = true
			l.pos++
		case c == 'T':
			hasT = true
			l.pos++
		default:
			goto done
		}
	}
done:
	if l.pos == start+1 {
		l.errorAt(ErrUnterminatedDate, start, l.pos)
	}
	kind := token.LitDate
	switch {
	case hasT || (hasDash && hasColon):
		kind = token.LitTimestamp
	case hasColon && !hasDash:
		kind = token.LitTime
	case hasDash:
		kind = token.LitDate
	}
	l.emit(kind, start, l.pos)
}

func (l *lexer) lexParam(start int) {
	l.pos++
	for isIdentPart(l.peek()) {
		l.pos++
	}
	l.emit(token.Param, start, l.pos)
}

// lexNumber lexes integers, floats, and `n<unit>` ValueAndUnit literals
// such as `5days`.
func (l *lexer) lexNumber(start int) {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.pos++
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.at(1)) {
		isFloat = true
		l.pos++
		for isDigit(l.peek()) || l.peek() == '_' {
			l.pos++
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		l.pos++
		if l.peek() == '+' || l.peek() == '-' {
			l.pos++
		}
		if isDigit(l.peek()) {
			isFloat = true
			for isDigit(l.peek()) {
				l.pos++
			}
		} else {
			l.pos = save
		}
	}
	numEnd := l.pos
	if isIdentStart(l.peek()) {
		for isIdentPart(l.peek()) {
			l.pos++
		}
		l.emit(token.LitValueAndUnit, start, l.pos)
		return
	}
	if isFloat {
		l.emit(token.LitFloat, start, numEnd)
	} else {
		l.emit(token.LitInt, start, numEnd)
	}
}

func (l *lexer) lexWord(start int) {
	for isIdentPart(l.peek()) {
		l.pos++
	}
	word := l.input[start:l.pos]
	switch word {
	case "true", "false":
		l.emit(token.LitBool, start, l.pos)
		return
	case "null":
		l.emit(token.LitNull, start, l.pos)
		return
	}
	if kw, ok := token.LookupKeyword(word); ok {
		l.emit(kw, start, l.pos)
		return
	}
	l.emit(token.Ident, start, l.pos)
}

// lexDotOrRange distinguishes a single `.` (Dot) from `..` (Range), and
// records whether whitespace surrounds the dots so the parser can tell
// `1..` (range) from `(-1).` (indirection) apart (spec.md §4.1).
func (l *lexer) lexDotOrRange(start int) {
	hadSpaceBefore := start > 0 && (l.input[start-1] == ' ' || l.input[start-1] == '\t' || l.input[start-1] == '\n')
	if l.at(1) == '.' {
		l.pos += 2
		hadSpaceAfter := l.peek() == ' ' || l.peek() == '\t' || l.peek() == '\n' || l.pos >= len(l.input)
		l.tokens = append(l.tokens, token.Token{
			Kind:      token.Range,
			Text:      "..",
			Span:      source.Span{SourceID: l.sourceID, Start: start, End: l.pos},
			BindLeft:  !hadSpaceBefore,
			BindRight: !hadSpaceAfter,
		})
		return
	}
	l.pos++
	l.emit(token.Dot, start, l.pos)
}

func (l *lexer) lexOperatorOrControl(start int) {
	c := l.peek()
	two := l.input[start:min(start+2, len(l.input))]
	switch {
	case two == "->":
		l.pos += 2
		l.emit(token.Arrow, start, l.pos)
	case two == "=>":
		l.pos += 2
		l.emit(token.FatArrow, start, l.pos)
	case two == "==":
		l.pos += 2
		l.emit(token.Eq, start, l.pos)
	case two == "!=":
		l.pos += 2
		l.emit(token.Ne, start, l.pos)
	case two == ">=":
		l.pos += 2
		l.emit(token.Ge, start, l.pos)
	case two == "<=":
		l.pos += 2
		l.emit(token.Le, start, l.pos)
	case two == "~=":
		l.pos += 2
		l.emit(token.Coalesce, start, l.pos)
	case two == "&&":
		l.pos += 2
		l.emit(token.And, start, l.pos)
	case two == "||":
		l.pos += 2
		l.emit(token.Or, start, l.pos)
	case two == "??":
		l.pos += 2
		l.emit(token.QCoalesce, start, l.pos)
	case two == "//":
		l.pos += 2
		l.emit(token.DivInt, start, l.pos)
	case two == "**":
		l.pos += 2
		l.emit(token.Pow, start, l.pos)
	case c == '(':
		l.pos++
		l.emit(token.LParen, start, l.pos)
	case c == ')':
		l.pos++
		l.emit(token.RParen, start, l.pos)
	case c == '{':
		l.pos++
		l.emit(token.LBrace, start, l.pos)
	case c == '}':
		l.pos++
		l.emit(token.RBrace, start, l.pos)
	case c == '[':
		l.pos++
		l.emit(token.LBracket, start, l.pos)
	case c == ']':
		l.pos++
		l.emit(token.RBracket, start, l.pos)
	case c == ',':
		l.pos++
		l.emit(token.Comma, start, l.pos)
	case c == ':':
		l.pos++
		l.emit(token.Colon, start, l.pos)
	case c == '|':
		l.pos++
		l.emit(token.Pipe, start, l.pos)
	case c == '!':
		l.pos++
		l.emit(token.Bang, start, l.pos)
	case c == '@':
		l.pos++
		l.emit(token.At, start, l.pos)
	case c == '<':
		l.pos++
		l.emit(token.Lt, start, l.pos)
	case c == '>':
		l.pos++
		l.emit(token.Gt, start, l.pos)
	case c == '+':
		l.pos++
		l.emit(token.Plus, start, l.pos)
	case c == '-':
		l.pos++
		l.emit(token.Minus, start, l.pos)
	case c == '*':
		l.pos++
		l.emit(token.Star, start, l.pos)
	case c == '/':
		l.pos++
		l.emit(token.Slash, start, l.pos)
	case c == '%':
		l.pos++
		l.emit(token.Percent, start, l.pos)
	case c == '=':
		l.pos++
		l.emit(token.Assign, start, l.pos)
	default:
		l.pos++
		l.errorAt(fmt.Errorf("%w: %q", ErrUnexpected, string(c)), start, l.pos)
		l.emit(token.Unexpected, start, l.pos)
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
// isIdentStart and isIdentPart accept every non-ASCII byte, so a multi-byte
// UTF-8 letter (and any combining mark after it) stays inside one token.
func isIdentStart(c byte) bool {
	return c == '_' || (c < utf8.RuneSelf && unicode.IsLetter(rune(c))) || c >= utf8.RuneSelf
}
func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
