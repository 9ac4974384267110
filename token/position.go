// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token holds the span representation shared by every AST node.
//
// Unlike the file-registry-backed cuelang.org/go/cue/token package this
// package mirrors, a weslc Pos is nothing more than a byte offset into the
// bundled source text. Spans exist only to carry diagnostics through to
// errors.Error; no pass ever branches on a Pos.
package token

import "fmt"

// Pos is a byte offset into the bundled source of a translation unit.
// NoPos is the zero value and means "no position available".
type Pos int

// NoPos is the zero Pos.
const NoPos Pos = 0

// IsValid reports whether the position holds useful information.
func (p Pos) IsValid() bool { return p > NoPos }

// Add returns the position offset by n bytes.
func (p Pos) Add(n int) Pos { return p + Pos(n) }

// Span is a half-open byte range [Start, End) into the bundled source.
type Span struct {
	Start Pos
	End   Pos
}

// NoSpan is the zero Span.
var NoSpan = Span{}

// Pos returns the first position of the span.
func (s Span) Pos() Pos { return s.Start }

// EndPos returns the position immediately after the span.
func (s Span) EndPos() Pos { return s.End }

// NewSpan returns the span [start, end).
func NewSpan(start, end Pos) Span {
	return Span{Start: start, End: end}
}

// Union returns the smallest span covering both a and b. A zero span on
// either side is ignored, matching the Bundler's min/max-of-members rule
// for synthesized module spans.
func Union(a, b Span) Span {
	if a == NoSpan {
		return b
	}
	if b == NoSpan {
		return a
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}
