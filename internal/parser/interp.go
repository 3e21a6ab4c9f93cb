package parser

import (
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
	"github.com/prqlc-go/prqlc/internal/lexer"
	"github.com/prqlc-go/prqlc/internal/source"
	"github.com/prqlc-go/prqlc/internal/token"
)

// parseInterp builds an ESString/EFString node from a whole s".."/f".."
// token. The lexer hands back the entire literal (braces included) as one
// token (internal/lexer tags it SStringStart/FStringStart but does not
// itself split holes), so the parser is responsible for finding
// `{expr:format?}` holes and re-lexing+re-parsing each one in place
// (spec.md §4.2 "string interpolation").
func (p *parser) parseInterp(isFormat bool) ast.Expr {
	t := p.advance()
	kind := ast.ESString
	if isFormat {
		kind = ast.EFString
	}
	e := newExpr(p.allocID(), kind)
	e.Span = t.Span
	e.Interp = p.splitInterp(t)
	return e
}

func (p *parser) splitInterp(t token.Token) []ast.InterpItem {
	text := t.Text
	i := 0
	if i < len(text) && (text[i] == 's' || text[i] == 'f') {
		i++
	}
	if i >= len(text) {
		return nil
	}
	quote := text[i]
	qlen := 1
	for i+qlen < len(text) && text[i+qlen] == quote {
		qlen++
	}
	if qlen < 3 || qlen%2 == 0 {
		qlen = 1
	}
	innerStart := i + qlen
	innerEnd := len(text) - qlen
	if innerEnd < innerStart {
		return nil
	}
	inner := text[innerStart:innerEnd]
	baseOffset := t.Span.Start + innerStart

	var items []ast.InterpItem
	var lit strings.Builder
	j := 0
	for j < len(inner) {
		c := inner[j]
		switch {
		case c == '{' && j+1 < len(inner) && inner[j+1] == '{':
			lit.WriteByte('{')
			j += 2
		case c == '}' && j+1 < len(inner) && inner[j+1] == '}':
			lit.WriteByte('}')
			j += 2
		case c == '{':
			if lit.Len() > 0 {
				items = append(items, ast.InterpItem{Text: lit.String()})
				lit.Reset()
			}
			holeStart := j + 1
			k := holeStart
			depth := 1
			for k < len(inner) && depth > 0 {
				switch inner[k] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth == 0 {
					break
				}
				k++
			}
			holeText := inner[holeStart:k]
			format := ""
			if idx := strings.LastIndex(holeText, ":"); idx >= 0 {
				format = holeText[idx+1:]
				holeText = holeText[:idx]
			}
			expr := p.parseEmbedded(holeText, baseOffset+holeStart, t.Span.SourceID)
			items = append(items, ast.InterpItem{IsExpr: true, Expr: &expr, Format: format})
			j = k + 1
		default:
			lit.WriteByte(c)
			j++
		}
	}
	if lit.Len() > 0 {
		items = append(items, ast.InterpItem{Text: lit.String()})
	}
	return items
}

// parseEmbedded re-lexes and parses one interpolation hole as a standalone
// expression, shifting every resulting token span by absOffset so errors and
// downstream spans still point into the original file.
func (p *parser) parseEmbedded(text string, absOffset int, sourceID uint16) ast.Expr {
	tree := source.New([2]string{"<interp>", text})
	toks, lexErrs := lexer.Lex(tree, 1)
	for _, le := range lexErrs {
		p.errs = append(p.errs, Error{Span: source.Span{SourceID: sourceID, Start: le.Span.Start + absOffset, End: le.Span.End + absOffset}, Err: le.Err})
	}
	shifted := make([]token.Token, len(toks))
	for i, tk := range toks {
		tk.Span = source.Span{SourceID: sourceID, Start: tk.Span.Start + absOffset, End: tk.Span.End + absOffset}
		shifted[i] = tk
	}
	sub := newParser(shifted)
	sub.nextID = p.nextID
	expr := sub.parsePipelineStage()
	p.nextID = sub.nextID
	p.errs = append(p.errs, sub.errs...)
	return expr
}
