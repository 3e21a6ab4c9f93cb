// Package source holds the SourceTree: the mapping from file path to PRQL
// source text that feeds the lexer, plus the numeric source ids that every
// downstream span carries so diagnostics can always point back into the
// original text (spec.md §3.1).
package source

import "fmt"

// Span addresses a byte range in one file of a SourceTree.
type Span struct {
	SourceID uint16
	Start    int
	End      int
}

// Contains reports whether offset falls inside the span (half-open: [Start,End)).
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Joined returns the smallest span covering both s and other. Both must
// share a SourceID; Joined of a zero-value Span with a real one returns the
// real one unchanged, so callers can fold over an initially-empty span.
func (s Span) Joined(other Span) Span {
	if s == (Span{}) {
		return other
	}
	if other == (Span{}) {
		return s
	}
	out := Span{SourceID: s.SourceID}
	out.Start = min(s.Start, other.Start)
	out.End = max(s.End, other.End)
	return out
}

// Tree is a mapping from file path to source text, with a bidirectional
// index from source id to path. Source ids are assigned in insertion order
// starting at 1; 0 is reserved to mean "no source" (e.g. synthetic nodes
// produced by the resolver that have no corresponding input text).
type Tree struct {
	paths []string // index i -> path of source id i+1
	texts []string // index i -> text of source id i+1
	byPath map[string]uint16
}

// New builds a Tree from an ordered list of (path, text) pairs. Ordering is
// preserved in the id assignment so that repeated calls with the same input
// are deterministic (compile is required to be deterministic, spec.md §8).
func New(files ...[2]string) *Tree {
	t := &Tree{byPath: make(map[string]uint16, len(files))}
	for _, f := range files {
		t.Insert(f[0], f[1])
	}
	return t
}

// Insert adds a file to the tree, returning its source id. Re-inserting an
// existing path overwrites its text but keeps the same id.
func (t *Tree) Insert(path, text string) uint16 {
	if t.byPath == nil {
		t.byPath = make(map[string]uint16)
	}
	if id, ok := t.byPath[path]; ok {
		t.texts[id-1] = text
		return id
	}
	t.paths = append(t.paths, path)
	t.texts = append(t.texts, text)
	id := uint16(len(t.paths))
	t.byPath[path] = id
	return id
}

// Text returns the source text for a given source id.
func (t *Tree) Text(id uint16) (string, bool) {
	if id == 0 || int(id) > len(t.texts) {
		return "", false
	}
	return t.texts[id-1], true
}

// Path returns the file path for a given source id.
func (t *Tree) Path(id uint16) (string, bool) {
	if id == 0 || int(id) > len(t.paths) {
		return "", false
	}
	return t.paths[id-1], true
}

// IDOf returns the source id assigned to path.
func (t *Tree) IDOf(path string) (uint16, bool) {
	id, ok := t.byPath[path]
	return id, ok
}

// IDs returns every source id in insertion order.
func (t *Tree) IDs() []uint16 {
	ids := make([]uint16, len(t.paths))
	for i := range ids {
		ids[i] = uint16(i + 1)
	}
	return ids
}

// LineCol converts a byte offset within a source's text to a 0-based
// (line, col) pair, as required by the ErrorMessage.location surface
// (spec.md §6.4).
func (t *Tree) LineCol(id uint16, offset int) (line, col int, err error) {
	text, ok := t.Text(id)
	if !ok {
		return 0, 0, fmt.Errorf("source: unknown source id %d", id)
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col, nil
}

// Snippet returns the full line of text containing offset, used by the
// ariadne-style error renderer (internal/errors) to print source context.
func (t *Tree) Snippet(id uint16, offset int) string {
	text, ok := t.Text(id)
	if !ok {
		return ""
	}
	start := offset
	for start > 0 && text[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(text) && text[end] != '\n' {
		end++
	}
	return text[start:end]
}
