// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import "fmt"

// Walk traverses an AST in depth-first order: it calls before(node); if
// before returns true, Walk recurses into node's non-nil children, then
// calls after(node). Either callback may be nil.
func Walk(node Node, before func(Node) bool, after func(Node)) {
	if node == nil {
		return
	}
	if before != nil && !before(node) {
		return
	}

	switch n := node.(type) {
	case *TranslationUnit:
		for _, d := range n.GlobalDirectives {
			Walk(d, before, after)
		}
		for _, d := range n.GlobalDeclarations {
			Walk(d, before, after)
		}

	case *DiagnosticDirective, *EnableDirective, *RequiresDirective:
		// leaves

	case *UseDirective:
		// Path and Item/Collection carry no further Expr/Decl nodes that
		// need walking beyond template arg expressions.
		for _, part := range n.Path {
			Walk(part, before, after)
		}
		if n.Item != nil {
			for _, a := range n.Item.TemplateArgs {
				Walk(a, before, after)
			}
		}
		for _, c := range n.Collection {
			Walk(c, before, after)
		}

	case *ExtendDirective:
		for _, part := range n.Path {
			Walk(part, before, after)
		}

	case *Attribute:
		for _, a := range n.Args {
			Walk(a, before, after)
		}

	case *FormalTemplateParameter:
		if n.Default != nil {
			Walk(n.Default, before, after)
		}

	case *VarDecl:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		for _, p := range n.TemplateParameters {
			Walk(p, before, after)
		}
		if n.Type != nil {
			Walk(n.Type, before, after)
		}
		if n.Initializer != nil {
			Walk(n.Initializer, before, after)
		}

	case *Alias:
		for _, p := range n.TemplateParameters {
			Walk(p, before, after)
		}
		Walk(n.Type, before, after)

	case *Struct:
		for _, p := range n.TemplateParameters {
			Walk(p, before, after)
		}
		for _, m := range n.Members {
			for _, a := range m.Attributes {
				Walk(a, before, after)
			}
			Walk(m.Type, before, after)
		}

	case *Function:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		for _, p := range n.TemplateParameters {
			Walk(p, before, after)
		}
		for _, param := range n.Parameters {
			for _, a := range param.Attributes {
				Walk(a, before, after)
			}
			Walk(param.Type, before, after)
		}
		for _, a := range n.ReturnAttributes {
			Walk(a, before, after)
		}
		if n.ReturnType != nil {
			Walk(n.ReturnType, before, after)
		}
		Walk(n.Body, before, after)

	case *ConstAssert:
		for _, p := range n.TemplateParameters {
			Walk(p, before, after)
		}
		Walk(n.Expr, before, after)

	case *Module:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		for _, p := range n.TemplateParameters {
			Walk(p, before, after)
		}
		for _, d := range n.Directives {
			Walk(d, before, after)
		}
		for _, m := range n.Members {
			Walk(m, before, after)
		}

	case *VoidDecl:
		// leaf

	case *PathPart:
		for _, a := range n.TemplateArgs {
			Walk(a, before, after)
		}
		if n.Inline != nil {
			for _, d := range n.Inline.Directives {
				Walk(d, before, after)
			}
			for _, m := range n.Inline.Members {
				Walk(m, before, after)
			}
		}

	case *TemplateArg:
		Walk(n.Expr, before, after)

	case *Path:
		for _, p := range n.Parts {
			Walk(p, before, after)
		}

	case *BasicLit:
		// leaf

	case *ParenExpr:
		Walk(n.X, before, after)

	case *NamedComponentExpr:
		Walk(n.Base, before, after)

	case *IndexExpr:
		Walk(n.Base, before, after)
		Walk(n.Index, before, after)

	case *UnaryExpr:
		Walk(n.Operand, before, after)

	case *BinaryExpr:
		Walk(n.Left, before, after)
		Walk(n.Right, before, after)

	case *CallExpr:
		Walk(n.Path, before, after)
		for _, a := range n.Args {
			Walk(a, before, after)
		}

	case *IdentExpr:
		Walk(n.Path, before, after)

	case *TypeExpr:
		Walk(n.Path, before, after)

	case *CompoundStmt:
		for _, d := range n.Directives {
			Walk(d, before, after)
		}
		for _, s := range n.Statements {
			Walk(s, before, after)
		}

	case *AssignmentStmt:
		Walk(n.LHS, before, after)
		Walk(n.RHS, before, after)

	case *IncDecStmt:
		Walk(n.Expr, before, after)

	case *IfStmt:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		Walk(n.If.Cond, before, after)
		Walk(n.If.Body, before, after)
		for _, c := range n.ElseIfClauses {
			Walk(c.Cond, before, after)
			Walk(c.Body, before, after)
		}
		if n.Else != nil {
			Walk(n.Else, before, after)
		}

	case *SwitchStmt:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		Walk(n.Expr, before, after)
		for _, c := range n.Clauses {
			for _, sel := range c.CaseSelectors {
				if !sel.IsDefault {
					Walk(sel.Expr, before, after)
				}
			}
			Walk(c.Body, before, after)
		}

	case *LoopStmt:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		Walk(n.Body, before, after)
		if n.Continuing != nil {
			Walk(n.Continuing.Body, before, after)
			if n.Continuing.BreakIf != nil {
				Walk(n.Continuing.BreakIf, before, after)
			}
		}

	case *ForStmt:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		if n.Initializer != nil {
			Walk(n.Initializer, before, after)
		}
		if n.Condition != nil {
			Walk(n.Condition, before, after)
		}
		if n.Update != nil {
			Walk(n.Update, before, after)
		}
		Walk(n.Body, before, after)

	case *WhileStmt:
		for _, a := range n.Attributes {
			Walk(a, before, after)
		}
		Walk(n.Condition, before, after)
		Walk(n.Body, before, after)

	case *BreakStmt, *ContinueStmt, *DiscardStmt:
		// leaves

	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, before, after)
		}

	case *CallStmt:
		Walk(n.Call, before, after)

	case *ConstAssertStmt:
		Walk(n.Assert, before, after)

	case *DeclStmt:
		Walk(n.Declaration, before, after)
		for _, s := range n.Statements {
			Walk(s, before, after)
		}

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	if after != nil {
		after(node)
	}
}
