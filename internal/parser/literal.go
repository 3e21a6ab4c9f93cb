package parser

import (
	"strconv"
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parseLiteral converts the current literal token into an ast.Literal and
// advances past it. Caller must have already checked the token is one of
// the literal kinds.
func (p *parser) parseLiteral() ast.Literal {
	t := p.advance()
	switch t.Kind {
	case token.LitInt:
		n, _ := strconv.ParseInt(strings.ReplaceAll(t.Text, "_", ""), 10, 64)
		return ast.IntLiteral(n)
	case token.LitFloat:
		f, _ := strconv.ParseFloat(strings.ReplaceAll(t.Text, "_", ""), 64)
		return ast.FloatLiteral(f)
	case token.LitBool:
		return ast.BoolLiteral(t.Text == "true")
	case token.LitNull:
		return ast.NullLiteral()
	case token.LitString:
		return ast.StringLiteral(unquoteString(t.Text, false))
	case token.LitRawString:
		return ast.RawStringLiteral(unquoteString(strings.TrimPrefix(t.Text, "r"), true))
	case token.LitDate:
		return ast.DateLiteral(strings.TrimPrefix(t.Text, "@"))
	case token.LitTime:
		return ast.TimeLiteral(strings.TrimPrefix(t.Text, "@"))
	case token.LitTimestamp:
		return ast.TimestampLiteral(strings.TrimPrefix(t.Text, "@"))
	case token.LitValueAndUnit:
		return parseValueAndUnit(t.Text)
	default:
		p.errorf(t.Span, t.Text, ErrExpectedExpr)
		return ast.NullLiteral()
	}
}

// unquoteString strips the surrounding (possibly triple) quote run and
// unescapes backslash sequences for non-raw strings, the same escape set
// the lexer recognises (spec.md §4.1): \n \t \r \\ \/ \" \b \f, hex \xHH
// and unicode \u{...}.
func unquoteString(raw string, noEscapes bool) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	qlen := 1
	for qlen < len(raw) && raw[qlen] == quote {
		qlen++
	}
	if qlen < 3 || qlen%2 == 0 {
		qlen = 1
	}
	inner := raw[qlen : len(raw)-qlen]
	if noEscapes {
		return inner
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] != '\\' || i == len(inner)-1 {
			b.WriteByte(inner[i])
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'x':
			if i+2 < len(inner) {
				n, err := strconv.ParseUint(inner[i+1:i+3], 16, 8)
				if err == nil {
					b.WriteByte(byte(n))
					i += 2
				}
			}
		case 'u':
			if i+1 < len(inner) && inner[i+1] == '{' {
				end := strings.IndexByte(inner[i+2:], '}')
				if end >= 0 {
					hex := inner[i+2 : i+2+end]
					n, err := strconv.ParseUint(hex, 16, 32)
					if err == nil {
						b.WriteRune(rune(n))
					}
					i += 2 + end
				}
			}
		default:
			b.WriteByte(inner[i])
		}
	}
	return b.String()
}

// parseValueAndUnit splits a lexed `5days`-shaped token into its numeric
// and unit parts (spec.md §3.2 "ValueAndUnit{n:i64, unit:text}").
func parseValueAndUnit(text string) ast.Literal {
	i := 0
	for i < len(text) && (text[i] >= '0' && text[i] <= '9') {
		i++
	}
	n, _ := strconv.ParseInt(text[:i], 10, 64)
	return ast.ValueAndUnitLiteral(n, text[i:])
}
