package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/format"
)

func pathOf(names ...string) *ast.Path {
	parts := make([]*ast.PathPart, len(names))
	for i, n := range names {
		parts[i] = &ast.PathPart{Name: n}
	}
	return &ast.Path{Parts: parts}
}

// A sibling call inside a module should be rewritten to the module's
// absolute path.
func TestResolveModuleMember(t *testing.T) {
	callee := &ast.Function{Name: "helper", Body: &ast.CompoundStmt{}}
	caller := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{
			Statements: []ast.Stmt{
				&ast.CallStmt{Call: &ast.CallExpr{Path: pathOf("helper")}},
			},
		},
	}
	mod := &ast.Module{Name: "shapes", Members: []ast.Decl{callee, caller}}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{mod}}

	r := New(nil)
	if errs := r.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	got := caller.Body.Statements[0].(*ast.CallStmt).Call.Path.String()
	if want := "shapes::helper"; got != want {
		t.Fatalf("call path = %q, want %q", got, want)
	}
}

func TestResolveUseRename(t *testing.T) {
	callee := &ast.Function{Name: "helper", Body: &ast.CompoundStmt{}}
	mod := &ast.Module{Name: "shapes", Members: []ast.Decl{callee}}
	use := &ast.UseDirective{
		Path: []*ast.PathPart{{Name: "shapes"}},
		Item: &ast.UseItem{Name: "helper", Rename: "h"},
	}
	caller := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{
			Statements: []ast.Stmt{
				&ast.CallStmt{Call: &ast.CallExpr{Path: pathOf("h")}},
			},
		},
	}
	tu := &ast.TranslationUnit{
		GlobalDirectives:   []ast.Directive{use},
		GlobalDeclarations: []ast.Decl{mod, caller},
	}

	r := New(nil)
	if errs := r.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := caller.Body.Statements[0].(*ast.CallStmt).Call.Path.String()
	if want := "shapes::helper"; got != want {
		t.Fatalf("call path mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestResolveUnknownSymbol(t *testing.T) {
	caller := &ast.Function{
		Name: "main",
		Body: &ast.CompoundStmt{
			Statements: []ast.Stmt{
				&ast.CallStmt{Call: &ast.CallExpr{Path: pathOf("nope")}},
			},
		},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{caller}}

	r := New(nil)
	errs := r.ApplyMut(tu)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
}

// Resolving an already-resolved tree a second time must be a no-op: every
// path the Resolver rewrites to an absolute form should already be in that
// form, and every template parameter it mangles should already carry its
// mangled name, so re-running ApplyMut produces byte-identical output.
// This guards against bugs like bindTemplateParams treating an
// already-mangled name as if it were the original (it must call
// stripMangle first).
func TestResolverIdempotent(t *testing.T) {
	callee := &ast.Function{Name: "helper", Body: &ast.CompoundStmt{}}
	fn := &ast.Function{
		Name:               "identity",
		TemplateParameters: []*ast.FormalTemplateParameter{{Name: "T"}},
		Parameters: []*ast.FormalParameter{
			{Name: "x", Type: &ast.TypeExpr{Path: pathOf("T")}},
		},
		ReturnType: &ast.TypeExpr{Path: pathOf("T")},
		Body: &ast.CompoundStmt{
			Statements: []ast.Stmt{
				&ast.CallStmt{Call: &ast.CallExpr{Path: pathOf("helper")}},
			},
		},
	}
	mod := &ast.Module{Name: "shapes", Members: []ast.Decl{callee, fn}}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{mod}}

	if errs := New(nil).ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors on first pass: %v", errs)
	}
	first := format.Node(tu)

	if errs := New(nil).ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors on second pass: %v", errs)
	}
	second := format.Node(tu)

	if first != second {
		t.Fatalf("resolve is not idempotent (-first +second):\n%s", cmp.Diff(first, second))
	}
}

func TestResolveTemplateParameterMangled(t *testing.T) {
	fn := &ast.Function{
		Name:               "identity",
		TemplateParameters: []*ast.FormalTemplateParameter{{Name: "T"}},
		Parameters: []*ast.FormalParameter{
			{Name: "x", Type: &ast.TypeExpr{Path: pathOf("T")}},
		},
		ReturnType: &ast.TypeExpr{Path: pathOf("T")},
		Body:       &ast.CompoundStmt{},
	}
	tu := &ast.TranslationUnit{GlobalDeclarations: []ast.Decl{fn}}

	r := New(nil)
	if errs := r.ApplyMut(tu); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if fn.TemplateParameters[0].Name == "T" {
		t.Fatalf("template parameter was not mangled")
	}
	if got := fn.Parameters[0].Type.(*ast.TypeExpr).Path.String(); got != fn.TemplateParameters[0].Name {
		t.Fatalf("parameter type path = %q, want mangled name %q", got, fn.TemplateParameters[0].Name)
	}
}
