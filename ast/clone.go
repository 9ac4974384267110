package ast

// Clone support. The Specializer needs to clone a generic declaration
// every time a distinct argument tuple instantiates it, and the Bundler
// clones nothing but benefits from the same helpers when wrapping
// fragments. Every Clone* function performs a full deep copy so that the
// original and the clone never share mutable subtrees, per the "Passes
// never share mutable state" ownership rule.

func cloneAttrs(in []*Attribute) []*Attribute {
	if in == nil {
		return nil
	}
	out := make([]*Attribute, len(in))
	for i, a := range in {
		out[i] = &Attribute{span: a.span, Name: a.Name, Args: CloneExprs(a.Args)}
	}
	return out
}

func cloneTemplateParams(in []*FormalTemplateParameter) []*FormalTemplateParameter {
	if in == nil {
		return nil
	}
	out := make([]*FormalTemplateParameter, len(in))
	for i, p := range in {
		var def Expr
		if p.Default != nil {
			def = CloneExpr(p.Default)
		}
		out[i] = &FormalTemplateParameter{span: p.span, Name: p.Name, Default: def}
	}
	return out
}

func cloneTemplateArgs(in []*TemplateArg) []*TemplateArg {
	if in == nil {
		return nil
	}
	out := make([]*TemplateArg, len(in))
	for i, a := range in {
		out[i] = &TemplateArg{span: a.span, Expr: CloneExpr(a.Expr), ArgName: a.ArgName}
	}
	return out
}

// ClonePathPart deep-copies a single path part.
func ClonePathPart(p *PathPart) *PathPart {
	if p == nil {
		return nil
	}
	var inline *InlineTemplateArgs
	if p.Inline != nil {
		inline = &InlineTemplateArgs{
			span:       p.Inline.span,
			Directives: cloneDirectives(p.Inline.Directives),
			Members:    CloneDecls(p.Inline.Members),
		}
	}
	return &PathPart{
		span:         p.span,
		Name:         p.Name,
		TemplateArgs: cloneTemplateArgs(p.TemplateArgs),
		Inline:       inline,
	}
}

func clonePathParts(in []*PathPart) []*PathPart {
	if in == nil {
		return nil
	}
	out := make([]*PathPart, len(in))
	for i, p := range in {
		out[i] = ClonePathPart(p)
	}
	return out
}

// ClonePath deep-copies a path.
func ClonePath(p *Path) *Path {
	if p == nil {
		return nil
	}
	return &Path{span: p.span, Parts: clonePathParts(p.Parts)}
}

// CloneExpr deep-copies an expression tree.
func CloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *BasicLit:
		c := *x
		return &c
	case *ParenExpr:
		return &ParenExpr{span: x.span, X: CloneExpr(x.X)}
	case *NamedComponentExpr:
		return &NamedComponentExpr{span: x.span, Base: CloneExpr(x.Base), Component: x.Component}
	case *IndexExpr:
		return &IndexExpr{span: x.span, Base: CloneExpr(x.Base), Index: CloneExpr(x.Index)}
	case *UnaryExpr:
		return &UnaryExpr{span: x.span, Operator: x.Operator, Operand: CloneExpr(x.Operand)}
	case *BinaryExpr:
		return &BinaryExpr{span: x.span, Operator: x.Operator, Left: CloneExpr(x.Left), Right: CloneExpr(x.Right)}
	case *CallExpr:
		return &CallExpr{span: x.span, Path: ClonePath(x.Path), Args: CloneExprs(x.Args)}
	case *IdentExpr:
		return &IdentExpr{span: x.span, Path: ClonePath(x.Path)}
	case *TypeExpr:
		return &TypeExpr{span: x.span, Path: ClonePath(x.Path)}
	default:
		panic("ast.CloneExpr: unexpected expression type")
	}
}

// CloneExprs deep-copies a slice of expressions.
func CloneExprs(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneCondBlock(c CondBlock) CondBlock {
	return CondBlock{Cond: CloneExpr(c.Cond), Body: CloneStmt(c.Body).(*CompoundStmt)}
}

// CloneStmt deep-copies a statement tree.
func CloneStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	switch x := s.(type) {
	case *CompoundStmt:
		return &CompoundStmt{span: x.span, Directives: cloneDirectives(x.Directives), Statements: cloneStmts(x.Statements)}
	case *AssignmentStmt:
		return &AssignmentStmt{span: x.span, Operator: x.Operator, LHS: CloneExpr(x.LHS), RHS: CloneExpr(x.RHS)}
	case *IncDecStmt:
		return &IncDecStmt{span: x.span, Op: x.Op, Expr: CloneExpr(x.Expr)}
	case *IfStmt:
		elifs := make([]CondBlock, len(x.ElseIfClauses))
		for i, c := range x.ElseIfClauses {
			elifs[i] = cloneCondBlock(c)
		}
		var elseClause *CompoundStmt
		if x.Else != nil {
			elseClause = CloneStmt(x.Else).(*CompoundStmt)
		}
		return &IfStmt{span: x.span, Attributes: cloneAttrs(x.Attributes), If: cloneCondBlock(x.If), ElseIfClauses: elifs, Else: elseClause}
	case *SwitchStmt:
		clauses := make([]*SwitchClause, len(x.Clauses))
		for i, c := range x.Clauses {
			sels := make([]*CaseSelector, len(c.CaseSelectors))
			for j, sel := range c.CaseSelectors {
				if sel.IsDefault {
					sels[j] = &CaseSelector{span: sel.span, IsDefault: true}
				} else {
					sels[j] = &CaseSelector{span: sel.span, Expr: CloneExpr(sel.Expr)}
				}
			}
			clauses[i] = &SwitchClause{span: c.span, CaseSelectors: sels, Body: CloneStmt(c.Body).(*CompoundStmt)}
		}
		return &SwitchStmt{span: x.span, Attributes: cloneAttrs(x.Attributes), Expr: CloneExpr(x.Expr), BodyAttributes: cloneAttrs(x.BodyAttributes), Clauses: clauses}
	case *LoopStmt:
		var cont *ContinuingStmt
		if x.Continuing != nil {
			var breakIf Expr
			if x.Continuing.BreakIf != nil {
				breakIf = CloneExpr(x.Continuing.BreakIf)
			}
			cont = &ContinuingStmt{span: x.Continuing.span, Body: CloneStmt(x.Continuing.Body).(*CompoundStmt), BreakIf: breakIf}
		}
		return &LoopStmt{span: x.span, Attributes: cloneAttrs(x.Attributes), Body: CloneStmt(x.Body).(*CompoundStmt), Continuing: cont}
	case *ForStmt:
		var init, upd Stmt
		if x.Initializer != nil {
			init = CloneStmt(x.Initializer)
		}
		if x.Update != nil {
			upd = CloneStmt(x.Update)
		}
		var cond Expr
		if x.Condition != nil {
			cond = CloneExpr(x.Condition)
		}
		return &ForStmt{span: x.span, Attributes: cloneAttrs(x.Attributes), Initializer: init, Condition: cond, Update: upd, Body: CloneStmt(x.Body).(*CompoundStmt)}
	case *WhileStmt:
		return &WhileStmt{span: x.span, Attributes: cloneAttrs(x.Attributes), Condition: CloneExpr(x.Condition), Body: CloneStmt(x.Body).(*CompoundStmt)}
	case *BreakStmt:
		c := *x
		return &c
	case *ContinueStmt:
		c := *x
		return &c
	case *ReturnStmt:
		var v Expr
		if x.Value != nil {
			v = CloneExpr(x.Value)
		}
		return &ReturnStmt{span: x.span, Value: v}
	case *DiscardStmt:
		c := *x
		return &c
	case *CallStmt:
		return &CallStmt{span: x.span, Call: CloneExpr(x.Call).(*CallExpr)}
	case *ConstAssertStmt:
		return &ConstAssertStmt{span: x.span, Assert: CloneDecl(x.Assert).(*ConstAssert)}
	case *DeclStmt:
		return &DeclStmt{span: x.span, Declaration: CloneDecl(x.Declaration).(*VarDecl), Statements: cloneStmts(x.Statements)}
	default:
		panic("ast.CloneStmt: unexpected statement type")
	}
}

func cloneStmts(in []Stmt) []Stmt {
	if in == nil {
		return nil
	}
	out := make([]Stmt, len(in))
	for i, s := range in {
		out[i] = CloneStmt(s)
	}
	return out
}

func cloneDirectives(in []Directive) []Directive {
	if in == nil {
		return nil
	}
	out := make([]Directive, len(in))
	for i, d := range in {
		out[i] = CloneDirective(d)
	}
	return out
}

// CloneDirective deep-copies a directive.
func CloneDirective(d Directive) Directive {
	switch x := d.(type) {
	case *DiagnosticDirective:
		c := *x
		return &c
	case *EnableDirective:
		c := *x
		c.Extensions = append([]string(nil), x.Extensions...)
		return &c
	case *RequiresDirective:
		c := *x
		c.Extensions = append([]string(nil), x.Extensions...)
		return &c
	case *UseDirective:
		out := &UseDirective{span: x.span, Attributes: cloneAttrs(x.Attributes), Path: clonePathParts(x.Path)}
		if x.Item != nil {
			item := &UseItem{Name: x.Item.Name, Rename: x.Item.Rename, TemplateArgs: cloneTemplateArgs(x.Item.TemplateArgs)}
			out.Item = item
		}
		if x.Collection != nil {
			coll := make([]*UseDirective, len(x.Collection))
			for i, c := range x.Collection {
				coll[i] = CloneDirective(c).(*UseDirective)
			}
			out.Collection = coll
		}
		return out
	case *ExtendDirective:
		return &ExtendDirective{span: x.span, Attributes: cloneAttrs(x.Attributes), Path: clonePathParts(x.Path)}
	default:
		panic("ast.CloneDirective: unexpected directive type")
	}
}

// CloneDecl deep-copies a declaration tree.
func CloneDecl(d Decl) Decl {
	if d == nil {
		return nil
	}
	switch x := d.(type) {
	case *VarDecl:
		var typ, init Expr
		if x.Type != nil {
			typ = CloneExpr(x.Type)
		}
		if x.Initializer != nil {
			init = CloneExpr(x.Initializer)
		}
		return &VarDecl{
			span:               x.span,
			Attributes:         cloneAttrs(x.Attributes),
			Kind:               x.Kind,
			TemplateParameters: cloneTemplateParams(x.TemplateParameters),
			Name:               x.Name,
			Type:               typ,
			Initializer:        init,
		}
	case *Alias:
		return &Alias{span: x.span, Name: x.Name, Type: CloneExpr(x.Type), TemplateParameters: cloneTemplateParams(x.TemplateParameters)}
	case *Struct:
		members := make([]*StructMember, len(x.Members))
		for i, m := range x.Members {
			members[i] = &StructMember{span: m.span, Attributes: cloneAttrs(m.Attributes), Name: m.Name, Type: CloneExpr(m.Type)}
		}
		return &Struct{span: x.span, Name: x.Name, Members: members, TemplateParameters: cloneTemplateParams(x.TemplateParameters)}
	case *Function:
		params := make([]*FormalParameter, len(x.Parameters))
		for i, p := range x.Parameters {
			params[i] = &FormalParameter{span: p.span, Attributes: cloneAttrs(p.Attributes), Name: p.Name, Type: CloneExpr(p.Type)}
		}
		var ret Expr
		if x.ReturnType != nil {
			ret = CloneExpr(x.ReturnType)
		}
		return &Function{
			span:               x.span,
			Attributes:         cloneAttrs(x.Attributes),
			Name:               x.Name,
			Parameters:         params,
			ReturnAttributes:   cloneAttrs(x.ReturnAttributes),
			ReturnType:         ret,
			Body:               CloneStmt(x.Body).(*CompoundStmt),
			TemplateParameters: cloneTemplateParams(x.TemplateParameters),
		}
	case *ConstAssert:
		return &ConstAssert{span: x.span, Expr: CloneExpr(x.Expr), TemplateParameters: cloneTemplateParams(x.TemplateParameters)}
	case *Module:
		return &Module{
			span:               x.span,
			Attributes:         cloneAttrs(x.Attributes),
			Name:               x.Name,
			Directives:         cloneDirectives(x.Directives),
			Members:            CloneDecls(x.Members),
			TemplateParameters: cloneTemplateParams(x.TemplateParameters),
		}
	case *VoidDecl:
		c := *x
		return &c
	default:
		panic("ast.CloneDecl: unexpected declaration type")
	}
}

// CloneDecls deep-copies a slice of declarations.
func CloneDecls(in []Decl) []Decl {
	if in == nil {
		return nil
	}
	out := make([]Decl, len(in))
	for i, d := range in {
		out[i] = CloneDecl(d)
	}
	return out
}
