package ast

import "github.com/ncthbrt/mew/token"

// SetSpan overrides a node's span. Used by the parser for every node it
// builds, and by the Bundler to give its synthetic enclosing Module a
// span derived from its members rather than the zero span.
func (s *span) SetSpan(sp token.Span) { s.Span = sp }

// Spanner is implemented by every node via the embedded span struct.
type Spanner interface {
	SetSpan(token.Span)
}
