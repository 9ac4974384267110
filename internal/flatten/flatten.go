// Package flatten implements §4.8 Flattener: the final pass. Every
// Module's members — already uniquely mangled by internal/mangle — are
// hoisted to the top level, and the Module envelopes themselves (along
// with any directives still attached to them) are discarded. The
// top-level non-module declarations come first, followed by each
// module's members in their original relative order, with a nested
// module's members taking its place.
//
// Grounded on original_source/crates/wesl-flatten/src/flatten.rs: the
// two-pass split-then-drain structure (separate non-module declarations
// from modules first, append the former, then recursively drain each
// module's members, recursing into any still-nested Module) is carried
// over directly.
package flatten

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/pass"
)

// Flattener hoists every nested Module's members to the top level.
type Flattener struct {
	errs errors.List
}

// New constructs a Flattener.
func New() *Flattener {
	return &Flattener{}
}

// ApplyMut implements pass.Pass.
func (f *Flattener) ApplyMut(tu *ast.TranslationUnit) errors.List {
	f.errs = nil

	var modules []*ast.Module
	var others []ast.Decl
	for _, d := range tu.GlobalDeclarations {
		if m, ok := d.(*ast.Module); ok {
			modules = append(modules, m)
		} else {
			others = append(others, d)
		}
	}

	tu.GlobalDeclarations = others
	for _, m := range modules {
		f.flattenModule(tu, m)
	}

	for _, d := range tu.GlobalDeclarations {
		if _, ok := d.(*ast.Module); ok {
			f.errs.Add(errors.NewInternalError(errors.ModuleSurvivedFlatten, "module declaration survived flattening", d.Pos()))
		}
	}

	return f.errs
}

func (f *Flattener) flattenModule(tu *ast.TranslationUnit, module *ast.Module) {
	for _, d := range module.Members {
		if m, ok := d.(*ast.Module); ok {
			f.flattenModule(tu, m)
			continue
		}
		tu.GlobalDeclarations = append(tu.GlobalDeclarations, d)
	}
}

var _ pass.Pass = (*Flattener)(nil)
