package specialize

import "github.com/ncthbrt/mew/ast"

// substituteDecl rewrites every expression/type reachable from d in
// place, applying the substitution rules of spec.md §4.5 for each
// parameter name in subst.
func substituteDecl(d ast.Decl, subst map[string]ast.Expr) {
	if len(subst) == 0 {
		return
	}
	switch x := d.(type) {
	case *ast.VarDecl:
		if x.Type != nil {
			x.Type = substituteExpr(x.Type, subst)
		}
		if x.Initializer != nil {
			x.Initializer = substituteExpr(x.Initializer, subst)
		}
	case *ast.Alias:
		x.Type = substituteExpr(x.Type, subst)
	case *ast.Struct:
		for _, m := range x.Members {
			m.Type = substituteExpr(m.Type, subst)
		}
	case *ast.Function:
		for _, p := range x.Parameters {
			p.Type = substituteExpr(p.Type, subst)
		}
		if x.ReturnType != nil {
			x.ReturnType = substituteExpr(x.ReturnType, subst)
		}
		substituteCompound(x.Body, subst)
	case *ast.ConstAssert:
		x.Expr = substituteExpr(x.Expr, subst)
	case *ast.Module:
		for _, m := range x.Members {
			substituteDecl(m, subst)
		}
	}
}

func substituteCompound(c *ast.CompoundStmt, subst map[string]ast.Expr) {
	if c == nil {
		return
	}
	for i, s := range c.Statements {
		c.Statements[i] = substituteStmt(s, subst)
	}
}

func substituteStmt(stmt ast.Stmt, subst map[string]ast.Expr) ast.Stmt {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		substituteCompound(x, subst)
	case *ast.AssignmentStmt:
		x.LHS = substituteExpr(x.LHS, subst)
		x.RHS = substituteExpr(x.RHS, subst)
	case *ast.IncDecStmt:
		x.Expr = substituteExpr(x.Expr, subst)
	case *ast.IfStmt:
		x.If.Cond = substituteExpr(x.If.Cond, subst)
		substituteCompound(x.If.Body, subst)
		for i := range x.ElseIfClauses {
			x.ElseIfClauses[i].Cond = substituteExpr(x.ElseIfClauses[i].Cond, subst)
			substituteCompound(x.ElseIfClauses[i].Body, subst)
		}
		substituteCompound(x.Else, subst)
	case *ast.SwitchStmt:
		x.Expr = substituteExpr(x.Expr, subst)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				if sel.Expr != nil {
					sel.Expr = substituteExpr(sel.Expr, subst)
				}
			}
			substituteCompound(c.Body, subst)
		}
	case *ast.LoopStmt:
		substituteCompound(x.Body, subst)
		if x.Continuing != nil {
			substituteCompound(x.Continuing.Body, subst)
			if x.Continuing.BreakIf != nil {
				x.Continuing.BreakIf = substituteExpr(x.Continuing.BreakIf, subst)
			}
		}
	case *ast.ForStmt:
		if x.Initializer != nil {
			x.Initializer = substituteStmt(x.Initializer, subst)
		}
		if x.Condition != nil {
			x.Condition = substituteExpr(x.Condition, subst)
		}
		if x.Update != nil {
			x.Update = substituteStmt(x.Update, subst)
		}
		substituteCompound(x.Body, subst)
	case *ast.WhileStmt:
		x.Condition = substituteExpr(x.Condition, subst)
		substituteCompound(x.Body, subst)
	case *ast.ReturnStmt:
		if x.Value != nil {
			x.Value = substituteExpr(x.Value, subst)
		}
	case *ast.CallStmt:
		x.Call = substituteExpr(x.Call, subst).(*ast.CallExpr)
	case *ast.ConstAssertStmt:
		x.Assert.Expr = substituteExpr(x.Assert.Expr, subst)
	case *ast.DeclStmt:
		if x.Declaration.Type != nil {
			x.Declaration.Type = substituteExpr(x.Declaration.Type, subst)
		}
		if x.Declaration.Initializer != nil {
			x.Declaration.Initializer = substituteExpr(x.Declaration.Initializer, subst)
		}
		for i, s := range x.Statements {
			x.Statements[i] = substituteStmt(s, subst)
		}
	}
	return stmt
}

func substituteExpr(e ast.Expr, subst map[string]ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *ast.BasicLit:
		return x
	case *ast.ParenExpr:
		x.X = substituteExpr(x.X, subst)
		return x
	case *ast.NamedComponentExpr:
		x.Base = substituteExpr(x.Base, subst)
		return x
	case *ast.IndexExpr:
		x.Base = substituteExpr(x.Base, subst)
		x.Index = substituteExpr(x.Index, subst)
		return x
	case *ast.UnaryExpr:
		x.Operand = substituteExpr(x.Operand, subst)
		return x
	case *ast.BinaryExpr:
		x.Left = substituteExpr(x.Left, subst)
		x.Right = substituteExpr(x.Right, subst)
		return x
	case *ast.CallExpr:
		x.Path = substitutePathSplice(x.Path, subst)
		substitutePathArgs(x.Path, subst)
		for i, a := range x.Args {
			x.Args[i] = substituteExpr(a, subst)
		}
		return x
	case *ast.IdentExpr:
		if v, ok := wholeSegmentReplace(x.Path, subst); ok {
			return v
		}
		x.Path = substitutePathSplice(x.Path, subst)
		substitutePathArgs(x.Path, subst)
		return x
	case *ast.TypeExpr:
		if v, ok := wholeSegmentReplace(x.Path, subst); ok {
			return v
		}
		x.Path = substitutePathSplice(x.Path, subst)
		substitutePathArgs(x.Path, subst)
		return x
	}
	return e
}

// wholeSegmentReplace handles the case where p is exactly `[N]` (a single,
// bare segment with no template args) and N has a substitution: the whole
// expression is replaced by a clone of the argument.
func wholeSegmentReplace(p *ast.Path, subst map[string]ast.Expr) (ast.Expr, bool) {
	if p == nil || len(p.Parts) != 1 || len(p.Parts[0].TemplateArgs) != 0 {
		return nil, false
	}
	v, ok := subst[p.Parts[0].Name]
	if !ok {
		return nil, false
	}
	return ast.CloneExpr(v), true
}

// substitutePathSplice handles the case where p's first segment's name
// has a substitution whose value is itself path-shaped: that value's
// segments are spliced in place of the first segment.
func substitutePathSplice(p *ast.Path, subst map[string]ast.Expr) *ast.Path {
	if p == nil || len(p.Parts) == 0 {
		return p
	}
	v, ok := subst[p.Parts[0].Name]
	if !ok {
		return p
	}
	var vp *ast.Path
	switch x := v.(type) {
	case *ast.IdentExpr:
		vp = x.Path
	case *ast.TypeExpr:
		vp = x.Path
	}
	if vp == nil {
		return p
	}
	spliced := make([]*ast.PathPart, 0, len(vp.Parts)+len(p.Parts)-1)
	for _, part := range vp.Parts {
		spliced = append(spliced, ast.ClonePathPart(part))
	}
	spliced = append(spliced, p.Parts[1:]...)
	return &ast.Path{Parts: spliced}
}

func substitutePathArgs(p *ast.Path, subst map[string]ast.Expr) {
	if p == nil {
		return
	}
	for _, part := range p.Parts {
		for _, a := range part.TemplateArgs {
			a.Expr = substituteExpr(a.Expr, subst)
		}
	}
}
