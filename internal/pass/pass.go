// Package pass declares the shared CompilerPass interface implemented by
// every pass in internal/{bundle,resolve,inline,templatenorm,specialize,
// dealias,mangle,flatten}, plus the ModulePath helper several of them use
// to track "what module are we currently inside" during traversal.
//
// Grounded on wesl_types::CompilerPass (every pass is `apply_mut(&mut
// TranslationUnit) -> Result<(), CompilerPassError>`, with `apply` as a
// clone-then-apply_mut convenience wrapper) and on the repeated
// `ModulePath(im::Vector<String>)` newtype used by wesl-resolve and
// wesl-mangle.
package pass

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
)

// A Pass transforms a translation unit in place.
type Pass interface {
	ApplyMut(tu *ast.TranslationUnit) errors.List
}

// Apply clones the translation unit (by deep-cloning every global
// directive and top-level declaration) and applies p to the clone,
// leaving tu untouched. Callers that want non-mutating semantics go
// through this helper rather than duplicating the ApplyMut logic.
func Apply(p Pass, tu *ast.TranslationUnit) (*ast.TranslationUnit, errors.List) {
	var directives []ast.Directive
	for _, d := range tu.GlobalDirectives {
		directives = append(directives, ast.CloneDirective(d))
	}
	clone := &ast.TranslationUnit{
		GlobalDirectives:   directives,
		GlobalDeclarations: ast.CloneDecls(tu.GlobalDeclarations),
	}
	errs := p.ApplyMut(clone)
	return clone, errs
}

// ModulePath is an immutable (copy-on-append) sequence of module names,
// rooted at the translation unit. Every pass that needs to know "what
// module path am I inside right now" threads one of these down the
// recursion instead of mutating shared state.
type ModulePath []string

// Push returns a new ModulePath with name appended, without mutating mp.
func (mp ModulePath) Push(name string) ModulePath {
	out := make(ModulePath, len(mp)+1)
	copy(out, mp)
	out[len(mp)] = name
	return out
}

// Names returns the path as a plain string slice.
func (mp ModulePath) Names() []string {
	return []string(mp)
}

// Join renders the path with "::" between segments, for error messages.
func (mp ModulePath) Join() string {
	s := ""
	for i, n := range mp {
		if i > 0 {
			s += "::"
		}
		s += n
	}
	return s
}
