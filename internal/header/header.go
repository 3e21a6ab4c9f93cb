// Package header parses the optional `prql version:".." target:sql.<dialect>`
// statement a source file may lead with (spec.md §6.3), and checks its
// SemVer requirement against the compiler's own version the way the
// teacher's config.go validates declared field requirements against a
// small regex grammar rather than pulling in a full SemVer library.
package header

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/prqlc-go/prqlc/internal/ast"
)

// Header is the parsed form of a source file's leading `prql ...` statement.
type Header struct {
	VersionReq string
	Target     string
	Present    bool
}

// Extract pulls the header statement out of a statement list, if the first
// statement is one (spec.md §6.3 "the first statement of a source file may
// be..."). It returns the remaining statements unchanged otherwise.
func Extract(stmts []ast.Stmt) (Header, []ast.Stmt) {
	if len(stmts) == 0 || stmts[0].Kind != ast.SQueryDef {
		return Header{}, stmts
	}
	h := Header{VersionReq: stmts[0].QueryVersion, Target: stmts[0].QueryTarget, Present: true}
	return h, stmts[1:]
}

var reqPattern = regexp.MustCompile(`^(\^|~|>=|<=|>|<|=)?\s*(\d+)(?:\.(\d+))?(?:\.(\d+))?$`)

// CheckVersion reports whether compilerVersion ("X.Y.Z") satisfies req, a
// comma-separated list of SemVer requirement clauses (spec.md §6.3
// "version is parsed as a SemVer requirement; a mismatch emits a
// warning-class diagnostic"). An empty or unparsable req is always
// satisfied -- malformed input degrades to a no-op check rather than a
// hard failure, since a version mismatch is only ever a warning.
func CheckVersion(req, compilerVersion string) bool {
	req = strings.TrimSpace(req)
	if req == "" {
		return true
	}
	cv := parseVersion(compilerVersion)
	for _, clause := range strings.Split(req, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		m := reqPattern.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		op := m[1]
		want := [3]int{atoiOr0(m[2]), atoiOr0(m[3]), atoiOr0(m[4])}
		if !satisfies(cv, want, op) {
			return false
		}
	}
	return true
}

func atoiOr0(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func parseVersion(v string) [3]int {
	parts := strings.SplitN(v, ".", 3)
	var out [3]int
	for i := 0; i < len(parts) && i < 3; i++ {
		out[i] = atoiOr0(parts[i])
	}
	return out
}

func cmp(a, b [3]int) int {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func satisfies(have, want [3]int, op string) bool {
	switch op {
	case "", "=":
		return cmp(have, want) == 0
	case ">=":
		return cmp(have, want) >= 0
	case "<=":
		return cmp(have, want) <= 0
	case ">":
		return cmp(have, want) > 0
	case "<":
		return cmp(have, want) < 0
	case "^":
		// Caret: same major, have >= want.
		return have[0] == want[0] && cmp(have, want) >= 0
	case "~":
		// Tilde: same major.minor, have >= want.
		return have[0] == want[0] && have[1] == want[1] && cmp(have, want) >= 0
	}
	return true
}

// ResolveTarget applies spec.md §6.3's override rule: the header's target
// wins only when the caller-supplied one is empty ("Sql(None)" in spec
// terms).
func ResolveTarget(optionsTarget, headerTarget string) string {
	if optionsTarget != "" {
		return optionsTarget
	}
	return headerTarget
}
