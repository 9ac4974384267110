// Package bundle implements §4.1 Bundler: it concatenates one or more
// source fragments into a single translation unit, optionally wrapping
// the result in a synthetic enclosing module.
//
// Grounded on crates/wesl-bundle/src/bundler.rs (concatenate directive and
// declaration lists in order; wrap in a named module when asked) and on
// cuelang.org/go/internal/core/compile.Files, which likewise folds
// several independently-parsed units (files...) into one before the rest
// of the pipeline runs.
package bundle

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/token"
)

// ParseFunc parses a single fragment's source text into a translation
// unit. offset is added to every span the parser produces so that spans
// stay globally unique (and therefore useful for diagnostics) across
// fragments bundled together. The lexer/parser itself is out of scope for
// this package (see spec.md §1); Bundle is parameterized over it so tests
// can supply a fake and the real Compiler wires in parser.Parse.
type ParseFunc func(src string, offset token.Pos) (*ast.TranslationUnit, errors.List)

// Fragment is one input to Bundle: either raw source text to be parsed,
// or an already-parsed translation unit (as accepted by add_module per
// spec.md §6).
type Fragment struct {
	Source string
	AST    *ast.TranslationUnit // if non-nil, Source is ignored
}

// moduleDirective reports whether a directive kind is one that "can live
// in a module" (use, extend) as opposed to one that cannot (diagnostic,
// enable, requires) and must remain at translation-unit scope even when
// an enclosing module name is given.
func moduleDirective(d ast.Directive) bool {
	switch d.(type) {
	case *ast.UseDirective, *ast.ExtendDirective:
		return true
	default:
		return false
	}
}

// Bundle concatenates fragments in order and, if enclosingName is
// non-empty, wraps the concatenated declarations in a synthetic Module
// named enclosingName. use/extend directives are lifted into that module;
// diagnostic/enable/requires directives remain at translation-unit scope.
func Bundle(fragments []Fragment, enclosingName string, parse ParseFunc) (*ast.TranslationUnit, errors.List) {
	var errs errors.List
	tu := &ast.TranslationUnit{}

	offset := token.Pos(0)
	for _, f := range fragments {
		var frag *ast.TranslationUnit
		if f.AST != nil {
			frag = f.AST
		} else {
			parsed, fErrs := parse(f.Source, offset)
			errs = append(errs, fErrs...)
			if parsed == nil {
				offset = offset.Add(len(f.Source))
				continue
			}
			frag = parsed
		}
		tu.GlobalDirectives = append(tu.GlobalDirectives, frag.GlobalDirectives...)
		tu.GlobalDeclarations = append(tu.GlobalDeclarations, frag.GlobalDeclarations...)
		offset = offset.Add(len(f.Source))
	}
	if len(errs) > 0 {
		return tu, errs
	}

	if enclosingName == "" {
		return tu, nil
	}

	module := &ast.Module{Name: enclosingName}
	var remaining []ast.Directive
	for _, d := range tu.GlobalDirectives {
		if moduleDirective(d) {
			module.Directives = append(module.Directives, d)
		} else {
			remaining = append(remaining, d)
		}
	}
	module.Members = tu.GlobalDeclarations

	var span token.Span
	for _, m := range module.Members {
		span = token.Union(span, token.NewSpan(m.Pos(), m.End()))
	}
	for _, d := range module.Directives {
		span = token.Union(span, token.NewSpan(d.Pos(), d.End()))
	}
	module.SetSpan(span)

	wrapped := &ast.TranslationUnit{
		GlobalDirectives:   remaining,
		GlobalDeclarations: []ast.Decl{module},
	}
	return wrapped, nil
}
