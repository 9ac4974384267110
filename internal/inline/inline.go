// Package inline implements §4.3 Inliner: it strips `with { directives;
// members }` bags attached to path parts and hoists their contents as
// siblings of the reference's enclosing container.
//
// Grounded on crates/wesl-inline/src/inline.rs (a parent cursor that is
// either the translation unit or a module, with add_member pushing
// extracted declarations onto it and restoring on return from a nested
// module) and on ast.Walk's node-type switch for traversal shape.
package inline

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/pass"
)

// Inliner is stateless: it owns no symbol table, only the cursor it
// threads through recursion.
type Inliner struct{}

// New constructs an Inliner.
func New() *Inliner { return &Inliner{} }

// cursor names the container (translation unit or module) that newly
// extracted directives/members are appended to.
type cursor struct {
	directives *[]ast.Directive
	members    *[]ast.Decl
}

// ApplyMut implements pass.Pass.
func (in *Inliner) ApplyMut(tu *ast.TranslationUnit) errors.List {
	cur := cursor{directives: &tu.GlobalDirectives, members: &tu.GlobalDeclarations}
	in.walkContainer(cur)
	return nil
}

func (in *Inliner) walkContainer(cur cursor) {
	for _, d := range *cur.directives {
		in.walkDirective(d, cur)
	}
	for i := 0; i < len(*cur.members); i++ {
		in.walkDecl((*cur.members)[i], cur)
	}
}

func (in *Inliner) walkDirective(d ast.Directive, cur cursor) {
	switch x := d.(type) {
	case *ast.UseDirective:
		in.walkPathParts(x.Path, cur)
		if x.Item != nil {
			for _, a := range x.Item.TemplateArgs {
				in.walkExpr(a.Expr, cur)
			}
		}
		for _, c := range x.Collection {
			in.walkDirective(c, cur)
		}
	case *ast.ExtendDirective:
		in.walkPathParts(x.Path, cur)
	}
}

func (in *Inliner) walkDecl(d ast.Decl, cur cursor) {
	switch x := d.(type) {
	case *ast.VarDecl:
		in.walkTemplateParams(x.TemplateParameters, cur)
		if x.Type != nil {
			in.walkExpr(x.Type, cur)
		}
		if x.Initializer != nil {
			in.walkExpr(x.Initializer, cur)
		}
	case *ast.Alias:
		in.walkTemplateParams(x.TemplateParameters, cur)
		in.walkExpr(x.Type, cur)
	case *ast.Struct:
		in.walkTemplateParams(x.TemplateParameters, cur)
		for _, m := range x.Members {
			in.walkExpr(m.Type, cur)
		}
	case *ast.Function:
		in.walkTemplateParams(x.TemplateParameters, cur)
		for _, p := range x.Parameters {
			in.walkExpr(p.Type, cur)
		}
		if x.ReturnType != nil {
			in.walkExpr(x.ReturnType, cur)
		}
		in.walkCompound(x.Body, cur)
	case *ast.ConstAssert:
		in.walkTemplateParams(x.TemplateParameters, cur)
		in.walkExpr(x.Expr, cur)
	case *ast.Module:
		nested := cursor{directives: &x.Directives, members: &x.Members}
		in.walkTemplateParams(x.TemplateParameters, cur)
		in.walkContainer(nested)
	}
}

func (in *Inliner) walkTemplateParams(params []*ast.FormalTemplateParameter, cur cursor) {
	for _, p := range params {
		if p.Default != nil {
			in.walkExpr(p.Default, cur)
		}
	}
}

func (in *Inliner) walkCompound(c *ast.CompoundStmt, cur cursor) {
	for _, d := range c.Directives {
		in.walkDirective(d, cur)
	}
	for _, s := range c.Statements {
		in.walkStmt(s, cur)
	}
}

func (in *Inliner) walkStmt(stmt ast.Stmt, cur cursor) {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		in.walkCompound(x, cur)
	case *ast.AssignmentStmt:
		in.walkExpr(x.LHS, cur)
		in.walkExpr(x.RHS, cur)
	case *ast.IncDecStmt:
		in.walkExpr(x.Expr, cur)
	case *ast.IfStmt:
		in.walkExpr(x.If.Cond, cur)
		in.walkCompound(x.If.Body, cur)
		for _, c := range x.ElseIfClauses {
			in.walkExpr(c.Cond, cur)
			in.walkCompound(c.Body, cur)
		}
		if x.Else != nil {
			in.walkCompound(x.Else, cur)
		}
	case *ast.SwitchStmt:
		in.walkExpr(x.Expr, cur)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				if sel.Expr != nil {
					in.walkExpr(sel.Expr, cur)
				}
			}
			in.walkCompound(c.Body, cur)
		}
	case *ast.LoopStmt:
		in.walkCompound(x.Body, cur)
		if x.Continuing != nil {
			in.walkCompound(x.Continuing.Body, cur)
			if x.Continuing.BreakIf != nil {
				in.walkExpr(x.Continuing.BreakIf, cur)
			}
		}
	case *ast.ForStmt:
		if x.Initializer != nil {
			in.walkStmt(x.Initializer, cur)
		}
		if x.Condition != nil {
			in.walkExpr(x.Condition, cur)
		}
		if x.Update != nil {
			in.walkStmt(x.Update, cur)
		}
		in.walkCompound(x.Body, cur)
	case *ast.WhileStmt:
		in.walkExpr(x.Condition, cur)
		in.walkCompound(x.Body, cur)
	case *ast.ReturnStmt:
		if x.Value != nil {
			in.walkExpr(x.Value, cur)
		}
	case *ast.CallStmt:
		in.walkExpr(x.Call, cur)
	case *ast.ConstAssertStmt:
		in.walkExpr(x.Assert.Expr, cur)
	case *ast.DeclStmt:
		if x.Declaration.Type != nil {
			in.walkExpr(x.Declaration.Type, cur)
		}
		if x.Declaration.Initializer != nil {
			in.walkExpr(x.Declaration.Initializer, cur)
		}
		for _, s := range x.Statements {
			in.walkStmt(s, cur)
		}
	}
}

func (in *Inliner) walkExpr(e ast.Expr, cur cursor) {
	switch x := e.(type) {
	case *ast.ParenExpr:
		in.walkExpr(x.X, cur)
	case *ast.NamedComponentExpr:
		in.walkExpr(x.Base, cur)
	case *ast.IndexExpr:
		in.walkExpr(x.Base, cur)
		in.walkExpr(x.Index, cur)
	case *ast.UnaryExpr:
		in.walkExpr(x.Operand, cur)
	case *ast.BinaryExpr:
		in.walkExpr(x.Left, cur)
		in.walkExpr(x.Right, cur)
	case *ast.CallExpr:
		in.walkPath(x.Path, cur)
		for _, a := range x.Args {
			in.walkExpr(a, cur)
		}
	case *ast.IdentExpr:
		in.walkPath(x.Path, cur)
	case *ast.TypeExpr:
		in.walkPath(x.Path, cur)
	}
}

func (in *Inliner) walkPath(p *ast.Path, cur cursor) {
	if p == nil {
		return
	}
	in.walkPathParts(p.Parts, cur)
}

// walkPathParts extracts any `with { ... }` bag attached to a part,
// recursively inlines the extracted content itself (it may carry its own
// nested bags), and hoists it onto cur.
func (in *Inliner) walkPathParts(parts []*ast.PathPart, cur cursor) {
	for _, part := range parts {
		for _, a := range part.TemplateArgs {
			in.walkExpr(a.Expr, cur)
		}
		if part.Inline == nil {
			continue
		}
		bag := part.Inline
		part.Inline = nil

		for _, d := range bag.Directives {
			in.walkDirective(d, cur)
		}
		*cur.directives = append(*cur.directives, bag.Directives...)

		for _, m := range bag.Members {
			in.walkDecl(m, cur)
		}
		*cur.members = append(*cur.members, bag.Members...)
	}
}

var _ pass.Pass = (*Inliner)(nil)
