// Package dialect holds the per-database capability table spec.md §4.6.4
// isolates SQL rendering behind: identifier quoting, LIMIT vs TOP, column
// exclusion support, and the UNION/EXCEPT ALL variants each engine
// accepts. The table itself lives in capabilities.yaml, embedded and
// parsed with goccy/go-yaml the way the teacher loads its own embedded
// configuration data.
package dialect

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed capabilities.yaml
var capabilitiesYAML []byte

// LimitStyle discriminates how a dialect expresses row limiting.
type LimitStyle int

const (
	LimitClause LimitStyle = iota // `LIMIT n OFFSET m`
	TopClause                    // `SELECT TOP n ...`
)

// ExcludeStyle discriminates how (if at all) a dialect can drop specific
// wildcard-expanded columns (spec.md §4.6.3).
type ExcludeStyle int

const (
	ExcludeNone ExcludeStyle = iota
	ExcludeKeyword // DuckDB/Snowflake `EXCLUDE (...)`
	ExceptKeyword  // BigQuery `EXCEPT (...)`
)

// UnionDistinct discriminates whether a dialect needs an explicit
// `DISTINCT` keyword after UNION, treats plain UNION as already distinct,
// or has no DISTINCT-union form at all.
type UnionDistinct int

const (
	UnionDistinctImplicit UnionDistinct = iota
	UnionDistinctKeyword
	UnionDistinctUnsupported
)

// Capability is one dialect's full capability set (spec.md §4.6.4's
// table, one row per dialect).
type Capability struct {
	Name          string `yaml:"name"`
	Limit         string `yaml:"limit"` // "limit" | "top"
	IdentQuote    string `yaml:"ident_quote"`
	Exclude       string `yaml:"exclude"` // "none" | "exclude" | "except"
	UnionDistinct string `yaml:"union_distinct"` // "implicit" | "keyword" | "unsupported"
	ExceptAll     bool   `yaml:"except_all"`
}

func (c Capability) LimitStyle() LimitStyle {
	if c.Limit == "top" {
		return TopClause
	}
	return LimitClause
}

func (c Capability) ExcludeStyle() ExcludeStyle {
	switch c.Exclude {
	case "exclude":
		return ExcludeKeyword
	case "except":
		return ExceptKeyword
	default:
		return ExcludeNone
	}
}

func (c Capability) UnionDistinctStyle() UnionDistinct {
	switch c.UnionDistinct {
	case "keyword":
		return UnionDistinctKeyword
	case "unsupported":
		return UnionDistinctUnsupported
	default:
		return UnionDistinctImplicit
	}
}

// Quote wraps an identifier in this dialect's quote character, doubling
// any embedded occurrence of it (the universal SQL escaping convention).
func (c Capability) Quote(ident string) string {
	q := c.IdentQuote
	if q == "" {
		q = `"`
	}
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Keyword renders a SQL keyword upper-case when upper is set and
// lower-case otherwise. The case does not depend on the dialect: sqlgen
// passes upper=false only when its Options.LowerKeywords is set.
func Keyword(kw string, upper bool) string {
	c := cases.Upper(language.English)
	if !upper {
		c = cases.Lower(language.English)
	}
	return c.String(kw)
}

var table map[string]Capability

func init() {
	var rows []Capability
	if err := yaml.Unmarshal(capabilitiesYAML, &rows); err != nil {
		panic(fmt.Sprintf("dialect: invalid embedded capabilities.yaml: %v", err))
	}
	table = make(map[string]Capability, len(rows))
	for _, c := range rows {
		table[c.Name] = c
	}
}

// Lookup returns a dialect's capability row, falling back to "ansi" for an
// unrecognised or empty name (spec.md §6.3 "prql target:sql.X" defaults).
func Lookup(name string) Capability {
	name = strings.ToLower(strings.TrimPrefix(name, "sql."))
	if c, ok := table[name]; ok {
		return c
	}
	return table["ansi"]
}
