package dealias

import (
	"testing"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/internal/builtin"
)

func TestDealiasReplacesReference(t *testing.T) {
	alias := &ast.Alias{
		Name: "V",
		Type: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "f32"}}}},
	}
	fn := &ast.Function{
		Name:       "main",
		Parameters: []*ast.FormalParameter{{Name: "x", Type: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "V"}}}}}},
		Body:       &ast.CompoundStmt{},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{alias, fn}}

	d := New(builtin.Default())
	if errs := d.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(tu.GlobalDeclarations) != 1 {
		t.Fatalf("expected alias to be removed, got %d decls", len(tu.GlobalDeclarations))
	}
	got := tu.GlobalDeclarations[0].(*ast.Function)
	path := got.Parameters[0].Type.(*ast.TypeExpr).Path
	if len(path.Parts) != 1 || path.Parts[0].Name != "f32" {
		t.Fatalf("parameter type not dealiased: %+v", path.Parts)
	}
}

func TestDealiasLeavesBuiltinArgsRecursivelyProcessed(t *testing.T) {
	alias := &ast.Alias{
		Name: "V",
		Type: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "f32"}}}},
	}
	varDecl := &ast.VarDecl{
		Name: "x",
		Type: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{
			{Name: "vec4", TemplateArgs: []*ast.TemplateArg{
				{Expr: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "V"}}}}},
			}},
		}}},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{alias, varDecl}}

	d := New(builtin.Default())
	if errs := d.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	got := tu.GlobalDeclarations[0].(*ast.VarDecl)
	path := got.Type.(*ast.TypeExpr).Path
	if path.Parts[0].Name != "vec4" {
		t.Fatalf("builtin generator name should be untouched, got %q", path.Parts[0].Name)
	}
	argPath := path.Parts[0].TemplateArgs[0].Expr.(*ast.TypeExpr).Path
	if argPath.Parts[0].Name != "f32" {
		t.Fatalf("nested alias arg not dealiased: %+v", argPath.Parts)
	}
}
