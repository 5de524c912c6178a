package invocation

import (
	"go/token"

	"daymacro/internal/source"
)

// Locator turns go/token positions into byte spans of a source.FileSet file.
type Locator interface {
	Span(pos, end token.Pos) source.Span
}

// FileLocator resolves positions of a single file parsed into Fset.
type FileLocator struct {
	Fset *token.FileSet
	File source.FileID
}

func (l FileLocator) Span(pos, end token.Pos) source.Span {
	return source.SpanOf(l.File, l.Fset.Position(pos).Offset, l.Fset.Position(end).Offset)
}
