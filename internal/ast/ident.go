package ast

import "strings"

// Ident is an ordered, non-empty path of name parts (spec.md §3.3).
type Ident struct {
	Parts []string
}

// FromName builds a single-segment Ident.
func FromName(name string) Ident { return Ident{Parts: []string{name}} }

// FromPath builds an Ident from an already-split path.
func FromPath(parts ...string) Ident { return Ident{Parts: append([]string(nil), parts...)} }

// Name returns the last path segment.
func (id Ident) Name() string {
	if len(id.Parts) == 0 {
		return ""
	}
	return id.Parts[len(id.Parts)-1]
}

// Pop removes and returns the last segment, plus the remaining Ident. Pop
// of a single-segment Ident returns an empty Ident and ok=false.
func (id Ident) Pop() (rest Ident, name string, ok bool) {
	if len(id.Parts) == 0 {
		return id, "", false
	}
	name = id.Parts[len(id.Parts)-1]
	rest = Ident{Parts: id.Parts[:len(id.Parts)-1]}
	return rest, name, len(rest.Parts) > 0
}

// PopFront removes and returns the first segment.
func (id Ident) PopFront() (first string, rest Ident, ok bool) {
	if len(id.Parts) == 0 {
		return "", id, false
	}
	first = id.Parts[0]
	rest = Ident{Parts: id.Parts[1:]}
	return first, rest, true
}

// Prepend returns a new Ident with part inserted at the front.
func (id Ident) Prepend(part string) Ident {
	parts := make([]string, 0, len(id.Parts)+1)
	parts = append(parts, part)
	parts = append(parts, id.Parts...)
	return Ident{Parts: parts}
}

// WithName returns a copy of id with its last segment replaced by name.
func (id Ident) WithName(name string) Ident {
	if len(id.Parts) == 0 {
		return FromName(name)
	}
	parts := append([]string(nil), id.Parts...)
	parts[len(parts)-1] = name
	return Ident{Parts: parts}
}

// StartsWithPart reports whether id's first segment equals part.
func (id Ident) StartsWithPart(part string) bool {
	return len(id.Parts) > 0 && id.Parts[0] == part
}

// Empty reports whether the ident has no parts.
func (id Ident) Empty() bool { return len(id.Parts) == 0 }

func (id Ident) Equal(other Ident) bool {
	if len(id.Parts) != len(other.Parts) {
		return false
	}
	for i := range id.Parts {
		if id.Parts[i] != other.Parts[i] {
			return false
		}
	}
	return true
}

// isBareIdent reports whether s can be written without back-quoting: it
// must be non-empty, start with a letter or underscore, and contain only
// letters/digits/underscores — anything else must be rendered as `s`
// (spec.md §3.3: "Rendering back-quotes any segment that is not a bare
// identifier").
func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if i > 0 && !isLetter && !isDigit {
			return false
		}
	}
	return true
}

// String renders the Ident back to PRQL surface syntax, back-quoting any
// non-bare segment.
func (id Ident) String() string {
	parts := make([]string, len(id.Parts))
	for i, p := range id.Parts {
		if isBareIdent(p) {
			parts[i] = p
		} else {
			parts[i] = "`" + p + "`"
		}
	}
	return strings.Join(parts, ".")
}
