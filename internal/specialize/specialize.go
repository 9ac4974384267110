// Package specialize implements §4.5 Specializer: the monomorphization
// pass. It walks outward from the entry declarations (and an optional
// explicit entry path), materializing each concrete reference into the
// output tree — cloning and substituting generic declarations as they are
// first reached with a given set of concrete template arguments, and
// dropping everything else.
//
// The original source's own specialize.rs is a no-op stub (monomorphization
// there is folded elsewhere); this pass is grounded directly on spec.md
// §4.5's algorithm, using the worklist/symbol-table shape described there
// and the deterministic mangling scheme centralized in internal/mangling.
package specialize

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/builtin"
	"github.com/ncthbrt/mew/internal/mangling"
	"github.com/ncthbrt/mew/internal/pass"
)

// Specializer monomorphizes a translation unit. EntryPath, if non-nil,
// names an additional path (already-resolved, absolute segments) to
// materialize even if nothing else references it. Catalog recognizes
// built-in-rooted single-segment paths, which are never declarations and
// so must never be enqueued as outgoing references.
type Specializer struct {
	EntryPath []*ast.PathPart
	Catalog   *builtin.Catalog

	errs      errors.List
	symbols   map[string]ast.Decl
	scanned   map[ast.Decl]bool
	seenUsage map[string]bool
	usages    [][]*ast.PathPart
}

// New constructs a Specializer. A nil catalog falls back to
// builtin.Default().
func New(entryPath []*ast.PathPart, catalog *builtin.Catalog) *Specializer {
	if catalog == nil {
		catalog = builtin.Default()
	}
	return &Specializer{EntryPath: entryPath, Catalog: catalog}
}

// localScope is a parent-linked, copy-on-insert set of names bound by
// function parameters or local declarations — the same shadowing idiom
// internal/resolve's scope uses, cut down to membership-only since the
// Specializer only needs to know whether a bare name is local, not what
// it resolves to.
type localScope struct {
	parent *localScope
	name   string
}

func (s *localScope) has(name string) bool {
	for c := s; c != nil; c = c.parent {
		if c.name == name {
			return true
		}
	}
	return false
}

func (s *localScope) with(name string) *localScope {
	if name == "" {
		return s
	}
	return &localScope{parent: s, name: name}
}

// shouldSkipPath reports whether parts names a built-in or a locally
// bound parameter/variable rather than a top-level declaration: only a
// single unqualified segment can ever be either, exactly as
// internal/dealias's built-in special case assumes.
func (s *Specializer) shouldSkipPath(parts []*ast.PathPart, locals *localScope) bool {
	if len(parts) != 1 {
		return false
	}
	name := parts[0].Name
	if s.Catalog != nil && s.Catalog.Contains(name) {
		return true
	}
	return locals.has(name)
}

func isEntryDecl(d ast.Decl) bool {
	switch x := d.(type) {
	case *ast.Function:
		return x.IsEntryPoint() && len(x.TemplateParameters) == 0
	case *ast.ConstAssert:
		return true
	case *ast.Alias:
		return len(x.TemplateParameters) == 0
	}
	return false
}

func templateParamsOf(d ast.Decl) []*ast.FormalTemplateParameter {
	switch x := d.(type) {
	case *ast.VarDecl:
		return x.TemplateParameters
	case *ast.Alias:
		return x.TemplateParameters
	case *ast.Struct:
		return x.TemplateParameters
	case *ast.Function:
		return x.TemplateParameters
	case *ast.ConstAssert:
		return x.TemplateParameters
	case *ast.Module:
		return x.TemplateParameters
	}
	return nil
}

func clearTemplateParams(d ast.Decl) {
	switch x := d.(type) {
	case *ast.VarDecl:
		x.TemplateParameters = nil
	case *ast.Alias:
		x.TemplateParameters = nil
	case *ast.Struct:
		x.TemplateParameters = nil
	case *ast.Function:
		x.TemplateParameters = nil
	case *ast.ConstAssert:
		x.TemplateParameters = nil
	}
}

func setDeclName(d ast.Decl, name string) {
	switch x := d.(type) {
	case *ast.VarDecl:
		x.Name = name
	case *ast.Alias:
		x.Name = name
	case *ast.Struct:
		x.Name = name
	case *ast.Function:
		x.Name = name
	case *ast.Module:
		x.Name = name
	}
}

// ApplyMut implements pass.Pass.
func (s *Specializer) ApplyMut(tu *ast.TranslationUnit) errors.List {
	s.errs = nil
	s.symbols = map[string]ast.Decl{}
	s.scanned = map[ast.Decl]bool{}
	s.seenUsage = map[string]bool{}
	s.usages = nil

	var kept []ast.Decl
	for _, d := range tu.GlobalDeclarations {
		if isEntryDecl(d) {
			kept = append(kept, d)
		}
	}

	var flatten func(decls []ast.Decl, prefix string)
	flatten = func(decls []ast.Decl, prefix string) {
		for _, d := range decls {
			name := d.DeclName()
			if name == "" {
				continue
			}
			key := joinKey(prefix, name)
			s.symbols[key] = d
			if m, ok := d.(*ast.Module); ok {
				flatten(m.Members, key)
			}
		}
	}
	flatten(tu.GlobalDeclarations, "")

	tu.GlobalDeclarations = kept

	for _, d := range kept {
		s.scanDecl(d)
	}
	if len(s.EntryPath) > 0 {
		s.enqueue(s.EntryPath)
	}

	for len(s.usages) > 0 {
		p := s.usages[0]
		s.usages = s.usages[1:]
		s.materialize(p, &tu.GlobalDeclarations, "")
	}

	return s.errs
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}

func usageKey(parts []*ast.PathPart) string {
	k := ""
	for i, p := range parts {
		if i > 0 {
			k += "/"
		}
		k += mangledPartName(p)
	}
	return k
}

func mangledPartName(p *ast.PathPart) string {
	if len(p.TemplateArgs) == 0 {
		return mangling.Escape(p.Name)
	}
	return mangling.SpecializedName(p.Name, p.TemplateArgs)
}

func (s *Specializer) enqueue(parts []*ast.PathPart) {
	k := usageKey(parts)
	if s.seenUsage[k] {
		return
	}
	s.seenUsage[k] = true
	s.usages = append(s.usages, clonePathParts(parts))
}

func clonePathParts(parts []*ast.PathPart) []*ast.PathPart {
	out := make([]*ast.PathPart, len(parts))
	for i, p := range parts {
		out[i] = ast.ClonePathPart(p)
	}
	return out
}

// materialize walks parts against the output tree rooted at cursor,
// materializing generic declarations it has not yet placed.
func (s *Specializer) materialize(parts []*ast.PathPart, cursor *[]ast.Decl, prefix string) {
	for _, part := range parts {
		want := mangledPartName(part)
		if idx := indexOfName(*cursor, want); idx >= 0 {
			child := (*cursor)[idx]
			if mod, ok := child.(*ast.Module); ok {
				cursor = &mod.Members
				prefix = joinKey(prefix, want)
				continue
			}
			s.scanDecl(child)
			return
		}

		key := joinKey(prefix, part.Name)
		decl, ok := s.symbols[key]
		if !ok {
			s.errs.Add(errors.NewUnableToResolvePath(namesOf(parts)))
			return
		}

		if mod, ok := decl.(*ast.Module); ok {
			newMod := &ast.Module{Name: want}
			*cursor = append(*cursor, newMod)
			subst := buildSubst(mod.TemplateParameters, part.TemplateArgs)
			instPrefix := joinKey(prefix, want)
			for _, m := range mod.Members {
				clone := ast.CloneDecl(m)
				substituteDecl(clone, subst)
				if name := clone.DeclName(); name != "" {
					s.symbols[joinKey(instPrefix, name)] = clone
				} else if _, isAssert := clone.(*ast.ConstAssert); isAssert {
					newMod.Members = append(newMod.Members, clone)
					s.scanDecl(clone)
				}
			}
			cursor = &newMod.Members
			prefix = instPrefix
			continue
		}

		params := templateParamsOf(decl)
		if len(params) == 0 {
			clone := ast.CloneDecl(decl)
			*cursor = append(*cursor, clone)
			s.scanDecl(clone)
			return
		}

		clone := ast.CloneDecl(decl)
		subst := buildSubst(params, part.TemplateArgs)
		substituteDecl(clone, subst)
		setDeclName(clone, want)
		clearTemplateParams(clone)
		*cursor = append(*cursor, clone)
		s.scanDecl(clone)
		return
	}
}

func indexOfName(decls []ast.Decl, name string) int {
	for i, d := range decls {
		if d.DeclName() == name {
			return i
		}
	}
	return -1
}

func namesOf(parts []*ast.PathPart) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Name
	}
	return out
}

func buildSubst(params []*ast.FormalTemplateParameter, args []*ast.TemplateArg) map[string]ast.Expr {
	subst := map[string]ast.Expr{}
	for _, p := range params {
		for _, a := range args {
			if a.ArgName == p.Name {
				subst[p.Name] = a.Expr
				break
			}
		}
	}
	return subst
}

// scanDecl scans a materialized, already-in-tree declaration once for
// outgoing references, enqueueing any concrete path not yet seen. If the
// declaration is an alias, its target is enqueued directly (its target's
// own materialization will in turn be scanned).
func (s *Specializer) scanDecl(d ast.Decl) {
	if s.scanned[d] {
		return
	}
	s.scanned[d] = true

	if alias, ok := d.(*ast.Alias); ok {
		if target, ok := alias.Type.(*ast.TypeExpr); ok && target.Path != nil && !s.shouldSkipPath(target.Path.Parts, nil) {
			s.enqueue(target.Path.Parts)
		}
		return
	}

	switch x := d.(type) {
	case *ast.VarDecl:
		s.scanExpr(x.Type, nil)
		s.scanExpr(x.Initializer, nil)
	case *ast.Struct:
		for _, m := range x.Members {
			s.scanExpr(m.Type, nil)
		}
	case *ast.Function:
		var locals *localScope
		for _, p := range x.Parameters {
			s.scanExpr(p.Type, nil)
			locals = locals.with(p.Name)
		}
		s.scanExpr(x.ReturnType, nil)
		s.scanCompound(x.Body, locals)
	case *ast.ConstAssert:
		s.scanExpr(x.Expr, nil)
	}
}

func (s *Specializer) scanCompound(c *ast.CompoundStmt, locals *localScope) {
	if c == nil {
		return
	}
	for _, st := range c.Statements {
		s.scanStmt(st, locals)
	}
}

func (s *Specializer) scanStmt(stmt ast.Stmt, locals *localScope) {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		s.scanCompound(x, locals)
	case *ast.AssignmentStmt:
		s.scanExpr(x.LHS, locals)
		s.scanExpr(x.RHS, locals)
	case *ast.IncDecStmt:
		s.scanExpr(x.Expr, locals)
	case *ast.IfStmt:
		s.scanExpr(x.If.Cond, locals)
		s.scanCompound(x.If.Body, locals)
		for _, c := range x.ElseIfClauses {
			s.scanExpr(c.Cond, locals)
			s.scanCompound(c.Body, locals)
		}
		s.scanCompound(x.Else, locals)
	case *ast.SwitchStmt:
		s.scanExpr(x.Expr, locals)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				s.scanExpr(sel.Expr, locals)
			}
			s.scanCompound(c.Body, locals)
		}
	case *ast.LoopStmt:
		s.scanCompound(x.Body, locals)
		if x.Continuing != nil {
			s.scanCompound(x.Continuing.Body, locals)
			s.scanExpr(x.Continuing.BreakIf, locals)
		}
	case *ast.ForStmt:
		forLocals := locals
		if x.Initializer != nil {
			s.scanStmt(x.Initializer, locals)
			if decl, ok := x.Initializer.(*ast.DeclStmt); ok {
				forLocals = locals.with(decl.Declaration.Name)
			}
		}
		s.scanExpr(x.Condition, forLocals)
		if x.Update != nil {
			s.scanStmt(x.Update, forLocals)
		}
		s.scanCompound(x.Body, forLocals)
	case *ast.WhileStmt:
		s.scanExpr(x.Condition, locals)
		s.scanCompound(x.Body, locals)
	case *ast.ReturnStmt:
		s.scanExpr(x.Value, locals)
	case *ast.CallStmt:
		s.scanExpr(x.Call, locals)
	case *ast.ConstAssertStmt:
		s.scanExpr(x.Assert.Expr, locals)
	case *ast.DeclStmt:
		s.scanExpr(x.Declaration.Type, locals)
		s.scanExpr(x.Declaration.Initializer, locals)
		childLocals := locals.with(x.Declaration.Name)
		for _, st := range x.Statements {
			s.scanStmt(st, childLocals)
		}
	}
}

func (s *Specializer) scanExpr(e ast.Expr, locals *localScope) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.ParenExpr:
		s.scanExpr(x.X, locals)
	case *ast.NamedComponentExpr:
		s.scanExpr(x.Base, locals)
	case *ast.IndexExpr:
		s.scanExpr(x.Base, locals)
		s.scanExpr(x.Index, locals)
	case *ast.UnaryExpr:
		s.scanExpr(x.Operand, locals)
	case *ast.BinaryExpr:
		s.scanExpr(x.Left, locals)
		s.scanExpr(x.Right, locals)
	case *ast.CallExpr:
		if !s.shouldSkipPath(x.Path.Parts, locals) {
			s.enqueue(x.Path.Parts)
		}
		for _, a := range x.Args {
			s.scanExpr(a, locals)
		}
	case *ast.IdentExpr:
		if !s.shouldSkipPath(x.Path.Parts, locals) {
			s.enqueue(x.Path.Parts)
		}
	case *ast.TypeExpr:
		if !s.shouldSkipPath(x.Path.Parts, locals) {
			s.enqueue(x.Path.Parts)
		}
	}
}

var _ pass.Pass = (*Specializer)(nil)
