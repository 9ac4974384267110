package templatenorm

import (
	"testing"

	"github.com/ncthbrt/mew/ast"
)

func TestNormalizeFillsDefault(t *testing.T) {
	fn := &ast.Function{
		Name: "g",
		TemplateParameters: []*ast.FormalTemplateParameter{
			{Name: "T"},
			{Name: "N", Default: &ast.BasicLit{Kind: ast.LitAbstractInt, Value: "4"}},
		},
		Body: &ast.CompoundStmt{},
	}
	call := &ast.CallExpr{
		Path: &ast.Path{Parts: []*ast.PathPart{
			{Name: "g", TemplateArgs: []*ast.TemplateArg{
				{Expr: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "i32"}}}}},
			}},
		}},
	}
	main := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{Statements: []ast.Stmt{&ast.CallStmt{Call: call}}},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{fn, main}}

	n := New()
	if errs := n.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	args := call.Path.Parts[0].TemplateArgs
	if len(args) != 2 {
		t.Fatalf("expected 2 normalized args, got %d", len(args))
	}
	if args[0].ArgName != "T" || args[1].ArgName != "N" {
		t.Fatalf("arg names = %q, %q", args[0].ArgName, args[1].ArgName)
	}
}

func TestNormalizeMissingRequiredArg(t *testing.T) {
	fn := &ast.Function{
		Name:               "g",
		TemplateParameters: []*ast.FormalTemplateParameter{{Name: "T"}},
		Body:               &ast.CompoundStmt{},
	}
	call := &ast.CallExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "g"}}}}
	main := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{Statements: []ast.Stmt{&ast.CallStmt{Call: call}}},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{fn, main}}

	n := New()
	errs := n.ApplyMut(tu)
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d: %v", len(errs), errs)
	}
}
