// Package mangle implements §4.7 Mangler: it renames every surviving
// declaration to its fully module-qualified flat name and rewrites every
// reference path to the same flat-name scheme, using the escape rules
// centralized in internal/mangling.
//
// Grounded on original_source/crates/wesl-mangle/src/mangle.rs: the
// module-path-threading traversal (pushing the enclosing module's name
// onto an accumulated path before recursing into its members) and the
// declaration-by-declaration mangle_decl/mangle_alias/mangle_struct/
// mangle_func dispatch are carried over directly. That source's mangle_path
// operates on a plain Vec<String> with no per-segment template arguments;
// this module's Path keeps template arguments attached per PathPart (see
// internal/resolve), so mangling a path here additionally mangles each
// segment's own template argument expressions before joining the segment
// names, and carries any surviving template arguments (built-in type
// generators are the only source of these by this point in the pipeline)
// onto the single joined segment.
package mangle

import (
	"strings"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/builtin"
	"github.com/ncthbrt/mew/internal/mangling"
	"github.com/ncthbrt/mew/internal/pass"
)

// Mangler renames every declaration and reference in a translation unit
// to its final flat form. Catalog recognizes built-in-rooted
// single-segment paths, which are exempt from mangling (spec.md §4.7).
type Mangler struct {
	Catalog *builtin.Catalog

	errs errors.List
}

// New constructs a Mangler. A nil catalog falls back to builtin.Default().
func New(catalog *builtin.Catalog) *Mangler {
	if catalog == nil {
		catalog = builtin.Default()
	}
	return &Mangler{Catalog: catalog}
}

// ApplyMut implements pass.Pass.
func (m *Mangler) ApplyMut(tu *ast.TranslationUnit) errors.List {
	m.errs = nil
	for _, d := range tu.GlobalDeclarations {
		m.mangleDecl(d, nil)
	}
	return m.errs
}

func (m *Mangler) mangleName(modulePath []string, name *string) {
	*name = mangling.DeclaredName(modulePath, *name)
}

func (m *Mangler) manglePath(p *ast.Path) {
	if p == nil || len(p.Parts) == 0 {
		return
	}
	if len(p.Parts) == 1 && m.Catalog != nil && m.Catalog.Contains(p.Parts[0].Name) {
		for _, a := range p.Parts[0].TemplateArgs {
			m.mangleExpr(a.Expr, nil)
		}
		return
	}
	for _, part := range p.Parts {
		for _, a := range part.TemplateArgs {
			m.mangleExpr(a.Expr, nil)
		}
	}
	names := make([]string, len(p.Parts))
	var args []*ast.TemplateArg
	for i, part := range p.Parts {
		names[i] = mangling.Escape(part.Name)
		args = append(args, part.TemplateArgs...)
	}
	p.Parts = []*ast.PathPart{{Name: strings.Join(names, "_"), TemplateArgs: args}}
}

func (m *Mangler) mangleDecl(decl ast.Decl, modulePath []string) {
	switch x := decl.(type) {
	case *ast.VarDecl:
		if x.Initializer != nil {
			m.mangleExpr(x.Initializer, modulePath)
		}
		if x.Type != nil {
			m.mangleExpr(x.Type, modulePath)
		}
		m.mangleName(modulePath, &x.Name)
	case *ast.Alias:
		m.mangleName(modulePath, &x.Name)
		m.mangleExpr(x.Type, modulePath)
	case *ast.Struct:
		for _, mem := range x.Members {
			m.mangleExpr(mem.Type, modulePath)
		}
		m.mangleName(modulePath, &x.Name)
	case *ast.Function:
		m.mangleName(modulePath, &x.Name)
		if x.ReturnType != nil {
			m.mangleExpr(x.ReturnType, modulePath)
		}
		for _, p := range x.Parameters {
			m.mangleExpr(p.Type, modulePath)
		}
		m.mangleCompound(x.Body, modulePath)
	case *ast.ConstAssert:
		m.mangleExpr(x.Expr, modulePath)
	case *ast.Module:
		childPath := append(append([]string{}, modulePath...), x.Name)
		for _, mem := range x.Members {
			m.mangleDecl(mem, childPath)
		}
	}
}

func (m *Mangler) mangleCompound(c *ast.CompoundStmt, modulePath []string) {
	if c == nil {
		return
	}
	for _, s := range c.Statements {
		m.mangleStmt(s, modulePath)
	}
}

func (m *Mangler) mangleStmt(stmt ast.Stmt, modulePath []string) {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		m.mangleCompound(x, modulePath)
	case *ast.AssignmentStmt:
		m.mangleExpr(x.LHS, modulePath)
		m.mangleExpr(x.RHS, modulePath)
	case *ast.IncDecStmt:
		m.mangleExpr(x.Expr, modulePath)
	case *ast.IfStmt:
		m.mangleExpr(x.If.Cond, modulePath)
		m.mangleCompound(x.If.Body, modulePath)
		for _, c := range x.ElseIfClauses {
			m.mangleExpr(c.Cond, modulePath)
			m.mangleCompound(c.Body, modulePath)
		}
		m.mangleCompound(x.Else, modulePath)
	case *ast.SwitchStmt:
		m.mangleExpr(x.Expr, modulePath)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				if sel.Expr != nil {
					m.mangleExpr(sel.Expr, modulePath)
				}
			}
			m.mangleCompound(c.Body, modulePath)
		}
	case *ast.LoopStmt:
		m.mangleCompound(x.Body, modulePath)
		if x.Continuing != nil {
			m.mangleCompound(x.Continuing.Body, modulePath)
			if x.Continuing.BreakIf != nil {
				m.mangleExpr(x.Continuing.BreakIf, modulePath)
			}
		}
	case *ast.ForStmt:
		if x.Initializer != nil {
			m.mangleStmt(x.Initializer, modulePath)
		}
		if x.Condition != nil {
			m.mangleExpr(x.Condition, modulePath)
		}
		if x.Update != nil {
			m.mangleStmt(x.Update, modulePath)
		}
		m.mangleCompound(x.Body, modulePath)
	case *ast.WhileStmt:
		m.mangleExpr(x.Condition, modulePath)
		m.mangleCompound(x.Body, modulePath)
	case *ast.ReturnStmt:
		if x.Value != nil {
			m.mangleExpr(x.Value, modulePath)
		}
	case *ast.CallStmt:
		m.mangleExpr(x.Call, modulePath)
	case *ast.ConstAssertStmt:
		m.mangleExpr(x.Assert.Expr, modulePath)
	case *ast.DeclStmt:
		if x.Declaration.Type != nil {
			m.mangleExpr(x.Declaration.Type, modulePath)
		}
		if x.Declaration.Initializer != nil {
			m.mangleExpr(x.Declaration.Initializer, modulePath)
		}
		for _, s := range x.Statements {
			m.mangleStmt(s, modulePath)
		}
	}
}

func (m *Mangler) mangleExpr(e ast.Expr, modulePath []string) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.ParenExpr:
		m.mangleExpr(x.X, modulePath)
	case *ast.NamedComponentExpr:
		m.mangleExpr(x.Base, modulePath)
	case *ast.IndexExpr:
		m.mangleExpr(x.Base, modulePath)
		m.mangleExpr(x.Index, modulePath)
	case *ast.UnaryExpr:
		m.mangleExpr(x.Operand, modulePath)
	case *ast.BinaryExpr:
		m.mangleExpr(x.Left, modulePath)
		m.mangleExpr(x.Right, modulePath)
	case *ast.CallExpr:
		m.manglePath(x.Path)
		for _, a := range x.Args {
			m.mangleExpr(a, modulePath)
		}
	case *ast.IdentExpr:
		m.manglePath(x.Path)
	case *ast.TypeExpr:
		m.manglePath(x.Path)
	}
}

var _ pass.Pass = (*Mangler)(nil)
