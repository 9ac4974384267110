// Package mew implements weslc: a source-to-source compiler that lowers
// WESL (a WGSL superset with nested modules, use/extend imports and
// generics) down to plain, flat WGSL.
//
// Compiler is the single external entry point (spec.md §6): callers add
// one or more named source modules, then compile an entry point, which
// runs the full pass pipeline in fixed order and pretty-prints the
// result, in the spirit of cuecontext.Context / cuelang.org/go/cue/cue.
// Runtime: a small stateful struct that owns a set of named inputs and
// exposes one "build" operation over them.
package mew

import (
	"strings"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/format"
	"github.com/ncthbrt/mew/internal/bundle"
	"github.com/ncthbrt/mew/internal/builtin"
	"github.com/ncthbrt/mew/internal/dealias"
	"github.com/ncthbrt/mew/internal/flatten"
	"github.com/ncthbrt/mew/internal/inline"
	"github.com/ncthbrt/mew/internal/mangle"
	"github.com/ncthbrt/mew/internal/pass"
	"github.com/ncthbrt/mew/internal/resolve"
	"github.com/ncthbrt/mew/internal/specialize"
	"github.com/ncthbrt/mew/internal/templatenorm"
	"github.com/ncthbrt/mew/parser"
	"github.com/ncthbrt/mew/token"
)

// Compiler holds a set of named WESL source modules and compiles them on
// demand. The zero value is not usable; construct with NewCompiler.
type Compiler struct {
	catalog *builtin.Catalog
	modules map[string]string
	order   []string
}

// NewCompiler constructs a Compiler with the default (WGSL
// 2024-07-31 draft) built-in catalog.
func NewCompiler() *Compiler {
	return &Compiler{
		catalog: builtin.Default(),
		modules: make(map[string]string),
	}
}

// AddModule registers source text under name, overwriting any previous
// module of the same name. name becomes the leading segment of every
// absolute path inside source once bundled; the empty name bundles
// source unwrapped, with its own top-level declarations becoming
// translation-unit-level declarations directly.
func (c *Compiler) AddModule(name, source string) {
	if _, exists := c.modules[name]; !exists {
		c.order = append(c.order, name)
	}
	c.modules[name] = source
}

// RemoveModule removes a previously-added module. It returns a
// *errors.ModuleNotFoundError if name was never added.
func (c *Compiler) RemoveModule(name string) error {
	if _, exists := c.modules[name]; !exists {
		return errors.NewModuleNotFound(name)
	}
	delete(c.modules, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Compile bundles every registered module (each wrapped in a synthetic
// module named after its registration name, except one registered under
// the empty name), runs the full lowering pipeline with entryPath as the
// reachability root, and pretty-prints the resulting flat translation
// unit. entryPath is a "::"-separated path without template arguments,
// e.g. "app::main".
func (c *Compiler) Compile(entryPath string) (string, errors.List) {
	tu, errs := c.bundleAll()
	if len(errs) > 0 {
		return "", errs
	}

	entry := splitEntryPath(entryPath)
	if errs := c.runPipeline(tu, entry); len(errs) > 0 {
		return "", errs
	}

	return format.TranslationUnit(tu), nil
}

// bundleAll concatenates every registered module, each wrapped in a
// synthetic enclosing module carrying its registration name (a module
// registered under the empty name is not wrapped), into one translation
// unit.
func (c *Compiler) bundleAll() (*ast.TranslationUnit, errors.List) {
	tu := &ast.TranslationUnit{}
	for _, name := range c.order {
		fragment, fErrs := bundle.Bundle(
			[]bundle.Fragment{{Source: c.modules[name]}}, name, parseFragment,
		)
		if len(fErrs) > 0 {
			return nil, fErrs
		}
		tu.GlobalDirectives = append(tu.GlobalDirectives, fragment.GlobalDirectives...)
		tu.GlobalDeclarations = append(tu.GlobalDeclarations, fragment.GlobalDeclarations...)
	}
	return tu, nil
}

// parseFragment adapts parser.Parse to bundle.ParseFunc. The fragment is
// preceded by offset spaces, so every span it produces is shifted by
// offset.
func parseFragment(src string, offset token.Pos) (*ast.TranslationUnit, errors.List) {
	return parser.Parse(strings.Repeat(" ", int(offset)) + src)
}

// runPipeline runs every lowering pass over tu in the fixed order
// Resolve -> Inline -> TemplateNormalize -> Specialize -> Dealias ->
// Mangle -> Flatten, stopping at the first pass that reports errors.
func (c *Compiler) runPipeline(tu *ast.TranslationUnit, entryPath []*ast.PathPart) errors.List {
	passes := []pass.Pass{
		resolve.New(c.catalog),
		inline.New(),
		templatenorm.New(),
		specialize.New(entryPath, c.catalog),
		dealias.New(c.catalog),
		mangle.New(c.catalog),
		flatten.New(),
	}
	for _, p := range passes {
		if errs := p.ApplyMut(tu); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

// splitEntryPath turns "a::b::c" into path parts with no template
// arguments; the entry point named by the CLI and Compile callers is
// always a concrete, already-monomorphic declaration.
func splitEntryPath(entryPath string) []*ast.PathPart {
	if entryPath == "" {
		return nil
	}
	var parts []*ast.PathPart
	start := 0
	for i := 0; i+1 < len(entryPath); i++ {
		if entryPath[i] == ':' && entryPath[i+1] == ':' {
			parts = append(parts, &ast.PathPart{Name: entryPath[start:i]})
			i++
			start = i + 1
		}
	}
	parts = append(parts, &ast.PathPart{Name: entryPath[start:]})
	return parts
}
