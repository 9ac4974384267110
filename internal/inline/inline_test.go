package inline

import (
	"testing"

	"github.com/ncthbrt/mew/ast"
)

func TestInlineHoistsMembers(t *testing.T) {
	extra := &ast.Function{Name: "extra", Body: &ast.CompoundStmt{}}
	call := &ast.CallExpr{
		Path: &ast.Path{Parts: []*ast.PathPart{
			{
				Name: "shapes",
				Inline: &ast.InlineTemplateArgs{
					Members: []ast.Decl{extra},
				},
			},
			{Name: "f"},
		}},
	}
	fn := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{Statements: []ast.Stmt{&ast.CallStmt{Call: call}}},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{fn}}

	in := New()
	if errs := in.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if call.Path.Parts[0].Inline != nil {
		t.Fatalf("inline bag was not cleared")
	}
	if len(tu.GlobalDeclarations) != 2 {
		t.Fatalf("expected hoisted member to land at top level, got %d decls", len(tu.GlobalDeclarations))
	}
	if tu.GlobalDeclarations[1].DeclName() != "extra" {
		t.Fatalf("hoisted decl = %q, want %q", tu.GlobalDeclarations[1].DeclName(), "extra")
	}
}
