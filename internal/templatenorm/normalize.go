// Package templatenorm implements §4.4 TemplateNormalizer: for every
// reference path it walks the (still nested) declaration tree segment by
// segment and, at each part naming a generic declaration, completes its
// template argument list — filling in defaults, naming positional
// arguments, and rejecting unknown or missing arguments.
//
// Grounded on crates/wesl-template-normalize/src/normalize.rs (the
// by-name/by-position argument reconciliation against a declaration's
// formal parameter list, and the alias-re-anchoring special case) and on
// the absolute-path index building technique shared with internal/resolve.
package templatenorm

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/pass"
	"github.com/ncthbrt/mew/token"
)

const maxAliasChain = 64

// Normalizer is stateless between runs; ApplyMut rebuilds its index each
// time since the tree may have changed.
type Normalizer struct {
	errs errors.List
	idx  map[string]ast.Decl
}

// New constructs a Normalizer.
func New() *Normalizer { return &Normalizer{} }

func joinNames(names []string) string {
	s := ""
	for i, n := range names {
		if i > 0 {
			s += "::"
		}
		s += n
	}
	return s
}

func buildIndex(tu *ast.TranslationUnit) map[string]ast.Decl {
	idx := map[string]ast.Decl{}
	var walk func(decls []ast.Decl, prefix []string)
	walk = func(decls []ast.Decl, prefix []string) {
		for _, d := range decls {
			name := d.DeclName()
			if name == "" {
				continue
			}
			idx[joinNames(append(append([]string(nil), prefix...), name))] = d
			if m, ok := d.(*ast.Module); ok {
				walk(m.Members, append(append([]string(nil), prefix...), name))
			}
		}
	}
	walk(tu.GlobalDeclarations, nil)
	return idx
}

func templateParamsOf(d ast.Decl) []*ast.FormalTemplateParameter {
	switch x := d.(type) {
	case *ast.VarDecl:
		return x.TemplateParameters
	case *ast.Alias:
		return x.TemplateParameters
	case *ast.Struct:
		return x.TemplateParameters
	case *ast.Function:
		return x.TemplateParameters
	case *ast.ConstAssert:
		return x.TemplateParameters
	case *ast.Module:
		return x.TemplateParameters
	}
	return nil
}

// ApplyMut implements pass.Pass.
func (n *Normalizer) ApplyMut(tu *ast.TranslationUnit) errors.List {
	n.errs = nil
	n.idx = buildIndex(tu)

	n.walkDecls(tu.GlobalDeclarations)
	for _, d := range tu.GlobalDirectives {
		n.walkDirective(d)
	}
	return n.errs
}

func (n *Normalizer) walkDecls(decls []ast.Decl) {
	for _, d := range decls {
		n.walkDecl(d)
	}
}

func (n *Normalizer) walkDirective(d ast.Directive) {
	switch x := d.(type) {
	case *ast.UseDirective:
		n.walkPathParts(x.Path)
		if x.Item != nil {
			for _, a := range x.Item.TemplateArgs {
				n.walkExpr(a.Expr)
			}
		}
		for _, c := range x.Collection {
			n.walkDirective(c)
		}
	case *ast.ExtendDirective:
		n.walkPathParts(x.Path)
	}
}

func (n *Normalizer) walkDecl(d ast.Decl) {
	switch x := d.(type) {
	case *ast.VarDecl:
		n.walkTemplateDefaults(x.TemplateParameters)
		if x.Type != nil {
			n.walkExpr(x.Type)
		}
		if x.Initializer != nil {
			n.walkExpr(x.Initializer)
		}
	case *ast.Alias:
		n.walkTemplateDefaults(x.TemplateParameters)
		n.walkExpr(x.Type)
	case *ast.Struct:
		n.walkTemplateDefaults(x.TemplateParameters)
		for _, m := range x.Members {
			n.walkExpr(m.Type)
		}
	case *ast.Function:
		n.walkTemplateDefaults(x.TemplateParameters)
		for _, p := range x.Parameters {
			n.walkExpr(p.Type)
		}
		if x.ReturnType != nil {
			n.walkExpr(x.ReturnType)
		}
		n.walkCompound(x.Body)
	case *ast.ConstAssert:
		n.walkTemplateDefaults(x.TemplateParameters)
		n.walkExpr(x.Expr)
	case *ast.Module:
		n.walkTemplateDefaults(x.TemplateParameters)
		for _, dd := range x.Directives {
			n.walkDirective(dd)
		}
		n.walkDecls(x.Members)
	}
}

func (n *Normalizer) walkTemplateDefaults(params []*ast.FormalTemplateParameter) {
	for _, p := range params {
		if p.Default != nil {
			n.walkExpr(p.Default)
		}
	}
}

func (n *Normalizer) walkCompound(c *ast.CompoundStmt) {
	for _, d := range c.Directives {
		n.walkDirective(d)
	}
	for _, s := range c.Statements {
		n.walkStmt(s)
	}
}

func (n *Normalizer) walkStmt(stmt ast.Stmt) {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		n.walkCompound(x)
	case *ast.AssignmentStmt:
		n.walkExpr(x.LHS)
		n.walkExpr(x.RHS)
	case *ast.IncDecStmt:
		n.walkExpr(x.Expr)
	case *ast.IfStmt:
		n.walkExpr(x.If.Cond)
		n.walkCompound(x.If.Body)
		for _, c := range x.ElseIfClauses {
			n.walkExpr(c.Cond)
			n.walkCompound(c.Body)
		}
		if x.Else != nil {
			n.walkCompound(x.Else)
		}
	case *ast.SwitchStmt:
		n.walkExpr(x.Expr)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				if sel.Expr != nil {
					n.walkExpr(sel.Expr)
				}
			}
			n.walkCompound(c.Body)
		}
	case *ast.LoopStmt:
		n.walkCompound(x.Body)
		if x.Continuing != nil {
			n.walkCompound(x.Continuing.Body)
			if x.Continuing.BreakIf != nil {
				n.walkExpr(x.Continuing.BreakIf)
			}
		}
	case *ast.ForStmt:
		if x.Initializer != nil {
			n.walkStmt(x.Initializer)
		}
		if x.Condition != nil {
			n.walkExpr(x.Condition)
		}
		if x.Update != nil {
			n.walkStmt(x.Update)
		}
		n.walkCompound(x.Body)
	case *ast.WhileStmt:
		n.walkExpr(x.Condition)
		n.walkCompound(x.Body)
	case *ast.ReturnStmt:
		if x.Value != nil {
			n.walkExpr(x.Value)
		}
	case *ast.CallStmt:
		n.walkExpr(x.Call)
	case *ast.ConstAssertStmt:
		n.walkExpr(x.Assert.Expr)
	case *ast.DeclStmt:
		if x.Declaration.Type != nil {
			n.walkExpr(x.Declaration.Type)
		}
		if x.Declaration.Initializer != nil {
			n.walkExpr(x.Declaration.Initializer)
		}
		for _, s := range x.Statements {
			n.walkStmt(s)
		}
	}
}

func (n *Normalizer) walkExpr(e ast.Expr) {
	switch x := e.(type) {
	case *ast.ParenExpr:
		n.walkExpr(x.X)
	case *ast.NamedComponentExpr:
		n.walkExpr(x.Base)
	case *ast.IndexExpr:
		n.walkExpr(x.Base)
		n.walkExpr(x.Index)
	case *ast.UnaryExpr:
		n.walkExpr(x.Operand)
	case *ast.BinaryExpr:
		n.walkExpr(x.Left)
		n.walkExpr(x.Right)
	case *ast.CallExpr:
		n.normalizePath(x.Path, 0)
	case *ast.IdentExpr:
		n.normalizePath(x.Path, 0)
	case *ast.TypeExpr:
		n.normalizePath(x.Path, 0)
	}
}

func (n *Normalizer) walkPathParts(parts []*ast.PathPart) {
	for _, p := range parts {
		for _, a := range p.TemplateArgs {
			n.walkExpr(a.Expr)
		}
	}
}

// normalizePath walks path segment by segment against the declaration
// tree, completing the template argument list of every part that names a
// generic declaration and re-anchoring through alias targets.
func (n *Normalizer) normalizePath(path *ast.Path, depth int) {
	if path == nil || depth > maxAliasChain {
		return
	}
	var prefix []string
	for i, part := range path.Parts {
		prefix = append(prefix, part.Name)
		decl, ok := n.idx[joinNames(prefix)]
		if !ok {
			for _, a := range part.TemplateArgs {
				n.walkExpr(a.Expr)
			}
			continue
		}
		if alias, isAlias := decl.(*ast.Alias); isAlias {
			if target, ok := alias.Type.(*ast.TypeExpr); ok && target.Path != nil {
				spliced := make([]*ast.PathPart, 0, len(target.Path.Parts)+len(path.Parts)-i-1)
				spliced = append(spliced, ast.ClonePath(target.Path).Parts...)
				spliced = append(spliced, path.Parts[i+1:]...)
				path.Parts = spliced
				n.normalizePath(path, depth+1)
				return
			}
		}
		params := templateParamsOf(decl)
		if len(params) > 0 {
			part.TemplateArgs = n.normalizeArgs(params, part.TemplateArgs, part.Pos())
		}
		for _, a := range part.TemplateArgs {
			n.walkExpr(a.Expr)
		}
	}
}

// normalizeArgs reconciles the actual argument list against the formal
// parameter list, returning a complete, named, parameter-ordered list.
func (n *Normalizer) normalizeArgs(params []*ast.FormalTemplateParameter, actual []*ast.TemplateArg, pos token.Pos) []*ast.TemplateArg {
	byName := map[string]*ast.TemplateArg{}
	positional := 0
	for _, a := range actual {
		if a.ArgName == "" {
			if positional >= len(params) {
				n.errs.Add(errors.NewMalformedTemplateArgument("too many template arguments", a.Pos()))
				positional++
				continue
			}
			a.ArgName = params[positional].Name
			byName[a.ArgName] = a
			positional++
			continue
		}
		found := false
		for _, p := range params {
			if p.Name == a.ArgName {
				found = true
				break
			}
		}
		if !found {
			n.errs.Add(errors.NewMalformedTemplateArgument("unknown template argument "+a.ArgName, a.Pos()))
			continue
		}
		byName[a.ArgName] = a
	}

	result := make([]*ast.TemplateArg, 0, len(params))
	for _, p := range params {
		if a, ok := byName[p.Name]; ok {
			result = append(result, a)
			continue
		}
		if p.Default != nil {
			def := ast.CloneExpr(p.Default)
			n.walkExpr(def)
			result = append(result, &ast.TemplateArg{ArgName: p.Name, Expr: def})
			continue
		}
		n.errs.Add(errors.NewMissingRequiredTemplateArgument(p.Name, pos))
	}
	return result
}

var _ pass.Pass = (*Normalizer)(nil)
