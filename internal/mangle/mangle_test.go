package mangle

import (
	"testing"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/internal/builtin"
)

func TestMangleNestedDeclAndReference(t *testing.T) {
	helper := &ast.Function{Name: "helper", Body: &ast.CompoundStmt{}}
	shapes := &ast.Module{Name: "shapes", Members: []ast.Decl{helper}}
	call := &ast.CallExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "shapes"}, {Name: "helper"}}}}
	main := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{Statements: []ast.Stmt{&ast.CallStmt{Call: call}}},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{shapes, main}}

	New(nil).ApplyMut(tu)

	if helper.Name != "shapes_helper" {
		t.Fatalf("helper.Name = %q, want shapes_helper", helper.Name)
	}
	if main.Name != "main" {
		t.Fatalf("main.Name = %q, want main", main.Name)
	}
	path := call.Path
	if len(path.Parts) != 1 || path.Parts[0].Name != "shapes_helper" {
		t.Fatalf("call path = %+v, want single part shapes_helper", path.Parts)
	}
}

func TestMangleEscapesUnderscores(t *testing.T) {
	fn := &ast.Function{Name: "my_func", Body: &ast.CompoundStmt{}}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{fn}}
	New(nil).ApplyMut(tu)
	if fn.Name != "my__func" {
		t.Fatalf("fn.Name = %q, want my__func", fn.Name)
	}
}

// TestMangleLeavesBuiltinsUntouched guards against Escape's underscore
// doubling corrupting a built-in whose own name contains an underscore
// (texture_2d and friends) into a different, invalid identifier.
func TestMangleLeavesBuiltinsUntouched(t *testing.T) {
	paramType := &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{
		Name:         "texture_2d",
		TemplateArgs: []*ast.TemplateArg{{Expr: &ast.TypeExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: "f32"}}}}}},
	}}}}
	fn := &ast.Function{
		Name:       "main",
		Parameters: []*ast.FormalParameter{{Name: "t", Type: paramType}},
		Body:       &ast.CompoundStmt{},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{fn}}

	m := New(builtin.Default())
	if errs := m.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	part := paramType.Path.Parts[0]
	if part.Name != "texture_2d" {
		t.Fatalf("builtin texture_2d was mangled to %q", part.Name)
	}
	argType := part.TemplateArgs[0].Expr.(*ast.TypeExpr)
	if argType.Path.Parts[0].Name != "f32" {
		t.Fatalf("builtin f32 template arg was mangled to %q", argType.Path.Parts[0].Name)
	}
}
