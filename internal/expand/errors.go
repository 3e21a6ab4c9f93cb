package expand

import (
	"errors"
	"fmt"

	"github.com/prqlc-go/prqlc/internal/source"
)

// ErrInvalidPipelineStage is raised when a pipeline stage after the first is
// neither a function call nor a bare name that can be called with the
// accumulated value appended (spec.md §4.3 point 2).
var ErrInvalidPipelineStage = errors.New("invalid pipeline stage")

// Error is one AST-expansion error.
type Error struct {
	Err  error
	Span source.Span
}

func (e Error) Error() string { return fmt.Sprintf("%s at byte %d", e.Err, e.Span.Start) }
func (e Error) Unwrap() error { return e.Err }
