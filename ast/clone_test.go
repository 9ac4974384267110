package ast

import "testing"

// TestCloneDeclDeepCopy verifies the "original and clone never share
// mutable subtrees" guarantee clone.go documents: mutating the clone's
// nested fields must not change the original.
func TestCloneDeclDeepCopy(t *testing.T) {
	orig := &Function{
		Name: "f",
		Parameters: []*FormalParameter{
			{Name: "x", Type: &TypeExpr{Path: &Path{Parts: []*PathPart{{Name: "i32"}}}}},
		},
		Body: &CompoundStmt{
			Statements: []Stmt{
				&ReturnStmt{Value: &IdentExpr{Path: &Path{Parts: []*PathPart{{Name: "x"}}}}},
			},
		},
	}

	cloned := CloneDecl(orig)
	clone, ok := cloned.(*Function)
	if !ok {
		t.Fatalf("CloneDecl returned %T, want *Function", cloned)
	}

	clone.Name = "g"
	clone.Parameters[0].Name = "y"
	clone.Parameters[0].Type.(*TypeExpr).Path.Parts[0].Name = "f32"
	ret := clone.Body.Statements[0].(*ReturnStmt)
	ret.Value.(*IdentExpr).Path.Parts[0].Name = "y"

	if orig.Name != "f" {
		t.Errorf("mutating clone name changed original: %q", orig.Name)
	}
	if orig.Parameters[0].Name != "x" {
		t.Errorf("mutating clone parameter changed original: %q", orig.Parameters[0].Name)
	}
	origType := orig.Parameters[0].Type.(*TypeExpr).Path.Parts[0].Name
	if origType != "i32" {
		t.Errorf("mutating clone parameter type changed original: %q", origType)
	}
	origRet := orig.Body.Statements[0].(*ReturnStmt)
	origIdent := origRet.Value.(*IdentExpr).Path.Parts[0].Name
	if origIdent != "x" {
		t.Errorf("mutating clone body changed original: %q", origIdent)
	}
}

// TestClonePathIndependentSlice verifies ClonePath allocates a fresh
// backing slice for Parts, since the Mangler and Resolver both rewrite
// Parts in place on paths they own.
func TestClonePathIndependentSlice(t *testing.T) {
	orig := &Path{Parts: []*PathPart{{Name: "A"}, {Name: "f"}}}
	clone := ClonePath(orig)

	clone.Parts[0].Name = "B"
	if orig.Parts[0].Name != "A" {
		t.Errorf("mutating cloned path part changed original: %q", orig.Parts[0].Name)
	}

	clone.Parts = append(clone.Parts, &PathPart{Name: "g"})
	if len(orig.Parts) != 2 {
		t.Errorf("appending to cloned path changed original length: %d", len(orig.Parts))
	}
}
