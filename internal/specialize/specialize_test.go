package specialize

import (
	"testing"

	"github.com/ncthbrt/mew/ast"
)

func i32Type() ast.Expr {
	return &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "i32"}}}}
}

func f32Type() ast.Expr {
	return &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "f32"}}}}
}

// TestSpecializeFunction mirrors spec.md §8's generic-specialization
// scenario: a generic id<T>(x: T) -> T function called as id<i32>(1) and
// id<f32>(1.0) should materialize as two concrete clones, id_i32 and
// id_f32, with no remaining template parameters.
func TestSpecializeFunction(t *testing.T) {
	generic := &ast.Function{
		Name:               "id",
		TemplateParameters: []*ast.FormalTemplateParameter{{Name: "T"}},
		Parameters:         []*ast.FormalParameter{{Name: "x", Type: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "T"}}}}}},
		ReturnType:         &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "T"}}}},
		Body: &ast.CompoundStmt{Statements: []ast.Stmt{
			&ast.ReturnStmt{Value: &ast.IdentExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "x"}}}}},
		}},
	}

	mkCall := func(arg ast.Expr) *ast.CallExpr {
		return &ast.CallExpr{
			Path: &ast.Path{Parts: []*ast.PathPart{{Name: "id", TemplateArgs: []*ast.TemplateArg{{Expr: arg, ArgName: "T"}}}}},
			Args: []ast.Expr{&ast.BasicLit{Kind: ast.LitAbstractInt, Value: "1"}},
		}
	}

	main := &ast.Function{
		Attributes: []*ast.Attribute{{Name: "vertex"}},
		Name:       "main",
		Body: &ast.CompoundStmt{Statements: []ast.Stmt{
			&ast.CallStmt{Call: mkCall(i32Type())},
			&ast.CallStmt{Call: mkCall(f32Type())},
		}},
	}

	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{generic, main}}

	s := New(nil, nil)
	if errs := s.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	names := map[string]bool{}
	for _, d := range tu.GlobalDeclarations {
		names[d.DeclName()] = true
	}
	if !names["id_i32"] || !names["id_f32"] {
		t.Fatalf("expected id_i32 and id_f32 among %v", names)
	}
	if names["id"] {
		t.Fatalf("generic id should not survive unspecialized: %v", names)
	}

	for _, d := range tu.GlobalDeclarations {
		if fn, ok := d.(*ast.Function); ok && len(fn.TemplateParameters) != 0 {
			t.Fatalf("%s retains template parameters", fn.Name)
		}
	}
}

// TestSpecializeDropsUnreachable asserts that a declaration never
// referenced from an entry point is not materialized.
func TestSpecializeDropsUnreachable(t *testing.T) {
	unused := &ast.Function{Name: "unused", Body: &ast.CompoundStmt{}}
	main := &ast.Function{
		Attributes: []*ast.Attribute{{Name: "vertex"}},
		Name:       "main",
		Body:       &ast.CompoundStmt{},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{unused, main}}

	s := New(nil, nil)
	if errs := s.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for _, d := range tu.GlobalDeclarations {
		if d.DeclName() == "unused" {
			t.Fatalf("unreferenced declaration should have been dropped")
		}
	}
}
