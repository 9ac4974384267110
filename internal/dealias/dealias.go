// Package dealias implements §4.6 Dealiaser: it collects every surviving
// `alias` declaration into a tree keyed by its canonical (mangled) path,
// rewrites every reference path by repeatedly replacing the longest
// matching alias prefix with its target until no prefix matches, and
// finally removes the alias declarations themselves.
//
// Grounded on original_source/crates/wesl-dealias/src/dealias.rs: the
// two-phase populate/replace structure, the per-segment prefix tree and
// its longest-prefix-match resolve loop, and the built-in-rooted
// single-segment special case are carried over from there; the tree is
// expressed here as a plain Go map rather than im::HashMap, matching this
// module's scope type in internal/resolve.
package dealias

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/builtin"
	"github.com/ncthbrt/mew/internal/mangling"
	"github.com/ncthbrt/mew/internal/pass"
)

// Dealiaser removes alias indirection from a translation unit.
type Dealiaser struct {
	Catalog *builtin.Catalog

	errs errors.List
}

// New constructs a Dealiaser using catalog to recognize built-in-rooted
// single-segment paths. A nil catalog falls back to builtin.Default().
func New(catalog *builtin.Catalog) *Dealiaser {
	if catalog == nil {
		catalog = builtin.Default()
	}
	return &Dealiaser{Catalog: catalog}
}

type aliasEntry struct {
	leaf []*ast.PathPart
	node *aliasTree
}

type aliasTree struct {
	entries map[string]*aliasEntry
}

func newAliasTree() *aliasTree {
	return &aliasTree{entries: map[string]*aliasEntry{}}
}

func (t *aliasTree) add(key, value []*ast.PathPart) {
	if len(key) == 0 {
		return
	}
	head := key[0].Name
	rest := key[1:]
	e, ok := t.entries[head]
	if !ok {
		if len(rest) == 0 {
			t.entries[head] = &aliasEntry{leaf: value}
			return
		}
		e = &aliasEntry{node: newAliasTree()}
		t.entries[head] = e
	}
	if e.leaf != nil {
		return
	}
	if e.node != nil {
		e.node.add(rest, value)
	}
}

// resolveRoot repeatedly replaces the longest alias-tree-matching prefix
// of *path with its target, until no prefix of *path matches.
func (t *aliasTree) resolveRoot(path *[]*ast.PathPart) {
	for t.resolveOnce(path) {
	}
}

func (t *aliasTree) resolveOnce(path *[]*ast.PathPart) bool {
	node := t
	consumed := 0
	for consumed < len(*path) {
		name := (*path)[consumed].Name
		e, ok := node.entries[name]
		if !ok {
			return false
		}
		if e.leaf != nil {
			remainder := (*path)[consumed+1:]
			next := make([]*ast.PathPart, 0, len(e.leaf)+len(remainder))
			next = append(next, clonePathParts(e.leaf)...)
			next = append(next, remainder...)
			*path = next
			return true
		}
		node = e.node
		consumed++
	}
	return false
}

func clonePathParts(parts []*ast.PathPart) []*ast.PathPart {
	out := make([]*ast.PathPart, len(parts))
	for i, p := range parts {
		out[i] = ast.ClonePathPart(p)
	}
	return out
}

// ApplyMut implements pass.Pass.
func (d *Dealiaser) ApplyMut(tu *ast.TranslationUnit) errors.List {
	d.errs = nil
	tree := newAliasTree()

	kept := d.populate(tu.GlobalDeclarations, nil, tree)
	tu.GlobalDeclarations = kept

	for _, decl := range tu.GlobalDeclarations {
		d.replaceDecl(decl, tree)
	}

	return d.errs
}

// populate walks decls, extracting every Alias into tree keyed by its
// (module-path-prefixed) canonical path, recursing into nested modules,
// and returns decls with the aliases removed.
func (d *Dealiaser) populate(decls []ast.Decl, modulePath []string, tree *aliasTree) []ast.Decl {
	kept := make([]ast.Decl, 0, len(decls))
	for _, decl := range decls {
		switch x := decl.(type) {
		case *ast.Alias:
			d.addAliasToTree(modulePath, x, tree)
		case *ast.Module:
			x.Members = d.populate(x.Members, append(append([]string{}, modulePath...), x.Name), tree)
			kept = append(kept, x)
		default:
			kept = append(kept, decl)
		}
	}
	return kept
}

func (d *Dealiaser) addAliasToTree(modulePath []string, alias *ast.Alias, tree *aliasTree) {
	raw := make([]*ast.PathPart, 0, len(modulePath)+1)
	for _, m := range modulePath {
		raw = append(raw, &ast.PathPart{Name: m})
	}
	raw = append(raw, &ast.PathPart{Name: alias.Name})
	key := d.normalizePath(raw)

	var target []*ast.PathPart
	if te, ok := alias.Type.(*ast.TypeExpr); ok && te.Path != nil {
		target = d.normalizePath(te.Path.Parts)
	}
	tree.add(key, target)
}

// normalizePath returns the canonical form of parts: every segment's name
// mangled via the same escape/serialize scheme used by Specializer and
// Mangler, with its template args consumed into the mangled name — unless
// parts is a single built-in-rooted segment, in which case the built-in
// name is left untouched and only its template args are (recursively)
// canonicalized.
func (d *Dealiaser) normalizePath(parts []*ast.PathPart) []*ast.PathPart {
	if len(parts) == 1 && d.Catalog != nil && d.Catalog.Contains(parts[0].Name) {
		p := ast.ClonePathPart(parts[0])
		for _, a := range p.TemplateArgs {
			a.Expr = d.normalizeExpr(a.Expr)
		}
		return []*ast.PathPart{p}
	}
	out := make([]*ast.PathPart, len(parts))
	for i, p := range parts {
		out[i] = &ast.PathPart{Name: mangledPartName(p)}
	}
	return out
}

func (d *Dealiaser) normalizeExpr(e ast.Expr) ast.Expr {
	switch x := e.(type) {
	case *ast.IdentExpr:
		x.Path = &ast.Path{Parts: d.normalizePath(x.Path.Parts)}
	case *ast.TypeExpr:
		x.Path = &ast.Path{Parts: d.normalizePath(x.Path.Parts)}
	}
	return e
}

func mangledPartName(p *ast.PathPart) string {
	if len(p.TemplateArgs) == 0 {
		return mangling.Escape(p.Name)
	}
	return mangling.SpecializedName(p.Name, p.TemplateArgs)
}

func (d *Dealiaser) replaceDecl(decl ast.Decl, tree *aliasTree) {
	switch x := decl.(type) {
	case *ast.VarDecl:
		if x.Type != nil {
			d.replaceType(x.Type, tree)
		}
		if x.Initializer != nil {
			d.replaceExpr(x.Initializer, tree)
		}
	case *ast.Alias:
		// Invariant: Dealiaser should have already removed every alias
		// during populate. Surviving one here is a pipeline defect.
		d.errs.Add(errors.NewInternalError(errors.AliasSurvivedDealias, "alias declaration survived dealiasing", x.Pos()))
	case *ast.Struct:
		for _, m := range x.Members {
			d.replaceType(m.Type, tree)
		}
	case *ast.Function:
		for _, p := range x.TemplateParameters {
			if p.Default != nil {
				d.replaceExpr(p.Default, tree)
			}
		}
		for _, p := range x.Parameters {
			d.replaceType(p.Type, tree)
		}
		if x.ReturnType != nil {
			d.replaceType(x.ReturnType, tree)
		}
		d.replaceCompound(x.Body, tree)
	case *ast.ConstAssert:
		d.replaceExpr(x.Expr, tree)
	case *ast.Module:
		for _, m := range x.Members {
			d.replaceDecl(m, tree)
		}
	}
}

func (d *Dealiaser) replaceCompound(c *ast.CompoundStmt, tree *aliasTree) {
	if c == nil {
		return
	}
	for _, s := range c.Statements {
		d.replaceStmt(s, tree)
	}
}

func (d *Dealiaser) replaceStmt(stmt ast.Stmt, tree *aliasTree) {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		d.replaceCompound(x, tree)
	case *ast.AssignmentStmt:
		d.replaceExpr(x.LHS, tree)
		d.replaceExpr(x.RHS, tree)
	case *ast.IncDecStmt:
		d.replaceExpr(x.Expr, tree)
	case *ast.IfStmt:
		d.replaceExpr(x.If.Cond, tree)
		d.replaceCompound(x.If.Body, tree)
		for _, c := range x.ElseIfClauses {
			d.replaceExpr(c.Cond, tree)
			d.replaceCompound(c.Body, tree)
		}
		d.replaceCompound(x.Else, tree)
	case *ast.SwitchStmt:
		d.replaceExpr(x.Expr, tree)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				if sel.Expr != nil {
					d.replaceExpr(sel.Expr, tree)
				}
			}
			d.replaceCompound(c.Body, tree)
		}
	case *ast.LoopStmt:
		d.replaceCompound(x.Body, tree)
		if x.Continuing != nil {
			d.replaceCompound(x.Continuing.Body, tree)
			if x.Continuing.BreakIf != nil {
				d.replaceExpr(x.Continuing.BreakIf, tree)
			}
		}
	case *ast.ForStmt:
		if x.Initializer != nil {
			d.replaceStmt(x.Initializer, tree)
		}
		if x.Condition != nil {
			d.replaceExpr(x.Condition, tree)
		}
		if x.Update != nil {
			d.replaceStmt(x.Update, tree)
		}
		d.replaceCompound(x.Body, tree)
	case *ast.WhileStmt:
		d.replaceExpr(x.Condition, tree)
		d.replaceCompound(x.Body, tree)
	case *ast.ReturnStmt:
		if x.Value != nil {
			d.replaceExpr(x.Value, tree)
		}
	case *ast.CallStmt:
		d.replaceExpr(x.Call, tree)
	case *ast.ConstAssertStmt:
		d.replaceExpr(x.Assert.Expr, tree)
	case *ast.DeclStmt:
		if x.Declaration.Type != nil {
			d.replaceType(x.Declaration.Type, tree)
		}
		if x.Declaration.Initializer != nil {
			d.replaceExpr(x.Declaration.Initializer, tree)
		}
		for _, s := range x.Statements {
			d.replaceStmt(s, tree)
		}
	}
}

func (d *Dealiaser) replaceExpr(e ast.Expr, tree *aliasTree) {
	if e == nil {
		return
	}
	switch x := e.(type) {
	case *ast.ParenExpr:
		d.replaceExpr(x.X, tree)
	case *ast.NamedComponentExpr:
		d.replaceExpr(x.Base, tree)
	case *ast.IndexExpr:
		d.replaceExpr(x.Base, tree)
		d.replaceExpr(x.Index, tree)
	case *ast.UnaryExpr:
		d.replaceExpr(x.Operand, tree)
	case *ast.BinaryExpr:
		d.replaceExpr(x.Left, tree)
		d.replaceExpr(x.Right, tree)
	case *ast.CallExpr:
		d.replacePath(x.Path, tree)
		for _, a := range x.Args {
			d.replaceExpr(a, tree)
		}
	case *ast.IdentExpr:
		d.replacePath(x.Path, tree)
	case *ast.TypeExpr:
		d.replaceType(x, tree)
	}
}

func (d *Dealiaser) replaceType(e ast.Expr, tree *aliasTree) {
	te, ok := e.(*ast.TypeExpr)
	if !ok {
		d.replaceExpr(e, tree)
		return
	}
	d.replacePath(te.Path, tree)
}

// replacePath first dealiases any reference nested in the path's own
// template arguments, then normalizes the path to canonical form and
// resolves the longest alias-tree-matching prefix, repeatedly, to a
// fixed point.
func (d *Dealiaser) replacePath(p *ast.Path, tree *aliasTree) {
	if p == nil {
		return
	}
	for _, part := range p.Parts {
		for _, a := range part.TemplateArgs {
			d.replaceExpr(a.Expr, tree)
		}
	}
	canonical := d.normalizePath(p.Parts)
	tree.resolveRoot(&canonical)
	p.Parts = canonical
}

var _ pass.Pass = (*Dealiaser)(nil)
