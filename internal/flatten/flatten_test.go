package flatten

import (
	"testing"

	"github.com/ncthbrt/mew/ast"
)

func TestFlattenHoistsNestedMembers(t *testing.T) {
	inner := &ast.Function{Name: "shapes_inner_helper", Body: &ast.CompoundStmt{}}
	innerMod := &ast.Module{Name: "inner", Members: []ast.Decl{inner}}
	helper := &ast.Function{Name: "shapes_helper", Body: &ast.CompoundStmt{}}
	shapes := &ast.Module{Name: "shapes", Members: []ast.Decl{helper, innerMod}}
	main := &ast.Function{Name: "main", Body: &ast.CompoundStmt{}}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{shapes, main}}

	f := New()
	if errs := f.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(tu.GlobalDeclarations) != 3 {
		t.Fatalf("expected 3 hoisted declarations, got %d: %+v", len(tu.GlobalDeclarations), tu.GlobalDeclarations)
	}
	for _, d := range tu.GlobalDeclarations {
		if _, ok := d.(*ast.Module); ok {
			t.Fatalf("module should not survive flattening")
		}
	}
	names := map[string]bool{}
	for _, d := range tu.GlobalDeclarations {
		names[d.DeclName()] = true
	}
	for _, want := range []string{"main", "shapes_helper", "shapes_inner_helper"} {
		if !names[want] {
			t.Fatalf("missing %q among %v", want, names)
		}
	}
}
