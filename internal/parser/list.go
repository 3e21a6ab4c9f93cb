package parser

import "github.com/prqlc-go/prqlc/internal/token"

// parseCommaList parses `elem (, elem)* ,?` up to (but not consuming) the
// close token, allowing embedded newlines between elements (spec.md §4.2
// "Both allow trailing commas and arbitrary embedded newlines"). elem
// parses one element and reports whether anything was consumed.
func parseCommaList[T any](p *parser, close token.Kind, elem func() (T, bool)) []T {
	var out []T
	p.skipNewlines()
	for !p.atEnd() && !p.check(close) {
		v, ok := elem()
		if !ok {
			break
		}
		out = append(out, v)
		p.skipNewlines()
		if _, ok := p.match(token.Comma); ok {
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	return out
}
