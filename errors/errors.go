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

// Package errors defines the error taxonomy shared by every compiler pass,
// modeled on cuelang.org/go/cue/errors: a single Error interface, a List
// aggregate, and a Print helper for CLI rendering.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/token"
)

// Error is the interface implemented by every weslc error.
type Error interface {
	error
	Position() token.Pos
	Module() string
}

type baseError struct {
	pos    token.Pos
	module string
	msg    string
}

func (e *baseError) Position() token.Pos { return e.pos }
func (e *baseError) Module() string      { return e.module }
func (e *baseError) Error() string {
	if e.module != "" {
		return fmt.Sprintf("%d: %s (module %s)", e.pos, e.msg, e.module)
	}
	return fmt.Sprintf("%d: %s", e.pos, e.msg)
}

// ModuleNotFoundError reports that remove_module (or a module lookup
// internal to a pass) named a module that is not present.
type ModuleNotFoundError struct{ baseError }

// NewModuleNotFound constructs a ModuleNotFoundError.
func NewModuleNotFound(name string) *ModuleNotFoundError {
	return &ModuleNotFoundError{baseError{module: name, msg: fmt.Sprintf("module %q not found", name)}}
}

// ParseError reports a failure in the lexer/parser collaborator.
type ParseError struct{ baseError }

// NewParseError constructs a ParseError.
func NewParseError(message string, pos token.Pos) *ParseError {
	return &ParseError{baseError{pos: pos, msg: message}}
}

// SymbolNotFoundError reports that the first segment of a reference path
// has no entry in scope.
type SymbolNotFoundError struct {
	baseError
	Path *ast.Path
}

// NewSymbolNotFound constructs a SymbolNotFoundError.
func NewSymbolNotFound(path *ast.Path, pos token.Pos) *SymbolNotFoundError {
	return &SymbolNotFoundError{
		baseError: baseError{pos: pos, msg: fmt.Sprintf("symbol not found: %s", path.String())},
		Path:      path,
	}
}

// UnableToResolvePathError reports that the Specializer could not
// materialize a concrete path: a segment is missing from both the
// container and the symbol table, and the remainder is non-empty.
type UnableToResolvePathError struct {
	baseError
	Path []string
}

// NewUnableToResolvePath constructs an UnableToResolvePathError.
func NewUnableToResolvePath(path []string) *UnableToResolvePathError {
	return &UnableToResolvePathError{
		baseError: baseError{msg: fmt.Sprintf("unable to resolve path: %s", strings.Join(path, "::"))},
		Path:      path,
	}
}

// MissingRequiredTemplateArgumentError reports that TemplateNormalizer
// found no actual argument, by name or position, for a required (no
// default) formal template parameter.
type MissingRequiredTemplateArgumentError struct {
	baseError
	Parameter string
}

// NewMissingRequiredTemplateArgument constructs the error.
func NewMissingRequiredTemplateArgument(parameter string, pos token.Pos) *MissingRequiredTemplateArgumentError {
	return &MissingRequiredTemplateArgumentError{
		baseError: baseError{pos: pos, msg: fmt.Sprintf("missing required template argument %q", parameter)},
		Parameter: parameter,
	}
}

// MalformedTemplateArgumentError reports a named actual argument that does
// not match any formal parameter, or a positional/named mismatch.
type MalformedTemplateArgumentError struct{ baseError }

// NewMalformedTemplateArgument constructs the error.
func NewMalformedTemplateArgument(message string, pos token.Pos) *MalformedTemplateArgumentError {
	return &MalformedTemplateArgumentError{baseError{pos: pos, msg: message}}
}

// InternalErrorKind enumerates invariant violations that indicate a bug in
// an earlier pass, not a user error.
type InternalErrorKind int

const (
	UnexpectedNodeKind InternalErrorKind = iota
	AliasSurvivedDealias
	TemplateParameterSurvivedSpecialize
	ModuleSurvivedFlatten
)

// InternalError reports an invariant violation. Passes never attempt
// recovery from one: it indicates a bug upstream.
type InternalError struct {
	baseError
	Kind InternalErrorKind
}

// NewInternalError constructs an InternalError.
func NewInternalError(kind InternalErrorKind, message string, pos token.Pos) *InternalError {
	return &InternalError{baseError: baseError{pos: pos, msg: message}, Kind: kind}
}

// List aggregates zero or more Errors, implementing error itself so a
// pass can return a single value.
type List []Error

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

// Add appends err to the list; a nil err is ignored.
func (l *List) Add(err Error) {
	if err == nil {
		return
	}
	*l = append(*l, err)
}

// Sanitize sorts a list by position for stable, deterministic output.
func (l List) Sanitize() List {
	out := append(List(nil), l...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out
}

// Print writes a human-readable rendering of every error in l to sb.
func Print(sb *strings.Builder, l List) {
	for _, e := range l.Sanitize() {
		sb.WriteString(e.Error())
		sb.WriteByte('\n')
	}
}
