// Package resolve implements §4.2 Resolver: it rewrites every reference
// path to be absolute (rooted at the translation unit), expands use/extend
// directives, and mangles every formal template parameter name to be
// globally unique.
//
// Grounded on crates/wesl-resolve/src/resolver.rs (ScopeMember enum,
// im::HashMap-threaded scope, statement/expression recursion with
// module_path accumulation) and on cuelang.org/go/cue/ast/astutil's scope
// struct (parent-linked, copy-on-insert scopes giving correct
// "declarations shadow only after their statement" semantics).
package resolve

import (
	"fmt"
	"strings"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/internal/builtin"
	"github.com/ncthbrt/mew/internal/pass"
)

// kind enumerates the ScopeMember variants of spec.md §4.2.
type kind int

const (
	kindLocal kind = iota
	kindFormalParam
	kindBuiltIn
	kindDecl // covers both GlobalDeclaration and ModuleMemberDeclaration
	kindUse
	kindTemplateParam
)

type member struct {
	k            kind
	modulePath   pass.ModulePath // container path of the referenced decl (kindDecl)
	declName     string          // decl's own name (kindDecl)
	targetPath   pass.ModulePath // use target's container path (kindUse)
	underlying   string          // use target's own name (kindUse)
	templateArgs []*ast.TemplateArg
	mangled      string // kindTemplateParam
}

// scope is a parent-linked, copy-on-insert symbol table, giving the
// "declarations shadow only after their statement" and nested-block
// semantics §4.2 requires without re-cloning the whole table on every
// insert.
type scope struct {
	parent  *scope
	entries map[string]member
}

func (s *scope) lookup(name string) (member, bool) {
	for c := s; c != nil; c = c.parent {
		if m, ok := c.entries[name]; ok {
			return m, true
		}
	}
	return member{}, false
}

func (s *scope) with(name string, m member) *scope {
	return &scope{parent: s, entries: map[string]member{name: m}}
}

func (s *scope) withAll(entries map[string]member) *scope {
	return &scope{parent: s, entries: entries}
}

// Resolver carries the read-only index built from the tree before
// rewriting starts, plus the built-in catalog used to seed scope.
type Resolver struct {
	Catalog *builtin.Catalog

	errs   errors.List
	idx    *index
	params map[string][]paramInfo // module-path-join -> its (original,mangled) params, while that module is open
}

type paramInfo struct {
	original string
	mangled  string
}

// New constructs a Resolver. A nil catalog falls back to builtin.Default().
func New(catalog *builtin.Catalog) *Resolver {
	if catalog == nil {
		catalog = builtin.Default()
	}
	return &Resolver{Catalog: catalog}
}

// index maps a joined absolute path of names to the declaration at that
// path, built by a pre-pass over the whole tree. Resolver mutates the
// tree (e.g. extend synthesizes Alias nodes) as it goes and keeps the
// index up to date so later use/extend directives in the same run see
// newly synthesized aliases.
type index struct {
	byPath map[string]ast.Decl
}

func joinPath(prefix pass.ModulePath, name string) string {
	if len(prefix) == 0 {
		return name
	}
	return prefix.Join() + "::" + name
}

func buildIndex(tu *ast.TranslationUnit) *index {
	idx := &index{byPath: map[string]ast.Decl{}}
	var walkDecls func(decls []ast.Decl, prefix pass.ModulePath)
	walkDecls = func(decls []ast.Decl, prefix pass.ModulePath) {
		for _, d := range decls {
			name := d.DeclName()
			if name == "" {
				continue
			}
			idx.byPath[joinPath(prefix, name)] = d
			if m, ok := d.(*ast.Module); ok {
				walkDecls(m.Members, prefix.Push(name))
			}
		}
	}
	walkDecls(tu.GlobalDeclarations, nil)
	return idx
}

// ApplyMut implements pass.Pass.
func (r *Resolver) ApplyMut(tu *ast.TranslationUnit) errors.List {
	r.errs = nil
	r.idx = buildIndex(tu)
	r.params = map[string][]paramInfo{}

	root := &scope{entries: map[string]member{}}
	for name := range r.builtinNames() {
		root.entries[name] = member{k: kindBuiltIn}
	}

	r.resolveContainer(tu.GlobalDirectives, &tu.GlobalDeclarations, root, nil)
	return r.errs
}

func (r *Resolver) builtinNames() map[string]struct{} {
	out := map[string]struct{}{}
	for _, n := range []string{
		"bool", "i32", "u32", "f32", "f16",
		"sampler", "sampler_comparison",
		"texture_1d", "texture_2d", "texture_2d_array", "texture_3d",
		"texture_cube", "texture_cube_array",
		"texture_depth_2d", "texture_depth_cube",
		"texture_storage_1d", "texture_storage_2d", "texture_storage_3d",
		"vec2", "vec3", "vec4", "mat2x2", "mat2x3", "mat2x4", "mat3x2",
		"mat3x3", "mat3x4", "mat4x2", "mat4x3", "mat4x4", "array", "ptr", "atomic",
		"vec2i", "vec3i", "vec4i", "vec2u", "vec3u", "vec4u", "vec2f", "vec3f",
		"vec4f", "vec2h", "vec3h", "vec4h", "mat2x2f", "mat3x3f", "mat4x4f",
	} {
		out[n] = struct{}{}
	}
	if r.Catalog != nil {
		for _, n := range builtinCatalogNames(r.Catalog) {
			out[n] = struct{}{}
		}
	}
	return out
}

func builtinCatalogNames(c *builtin.Catalog) []string {
	// The catalog does not expose iteration (it is a lookup table, not a
	// list), so probe the common functions/tokens it is expected to carry.
	// Contains is authoritative; this just seeds scope for names a source
	// file might reference.
	names := []string{
		"abs", "acos", "acosh", "all", "any", "asin", "asinh", "atan", "atan2",
		"atanh", "ceil", "clamp", "cos", "cosh", "cross", "degrees",
		"determinant", "distance", "dot", "exp", "exp2", "faceForward",
		"floor", "fma", "fract", "inverseSqrt", "length", "log", "log2",
		"max", "min", "mix", "normalize", "pow", "radians", "reflect",
		"refract", "round", "saturate", "sign", "sin", "sinh", "smoothstep",
		"sqrt", "step", "tan", "tanh", "transpose", "trunc", "select",
		"textureSample", "textureSampleLevel", "textureLoad", "textureStore",
		"textureDimensions", "workgroupBarrier", "storageBarrier", "arrayLength",
		"perspective", "linear", "flat", "center", "centroid", "sample",
	}
	var out []string
	for _, n := range names {
		if c.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// resolveContainer processes the directives and declarations of a module
// or the translation unit: it registers members, expands use/extend, and
// recurses into each member's body.
func (r *Resolver) resolveContainer(directives []ast.Directive, members *[]ast.Decl, outer *scope, modulePath pass.ModulePath) *scope {
	entries := map[string]member{}
	for _, d := range *members {
		name := d.DeclName()
		if name == "" {
			continue
		}
		entries[name] = member{k: kindDecl, modulePath: modulePath, declName: name}
	}
	s := outer.withAll(entries)

	for _, d := range directives {
		if use, ok := d.(*ast.UseDirective); ok {
			s = r.processUse(use, s)
		}
	}
	for _, d := range directives {
		if ext, ok := d.(*ast.ExtendDirective); ok {
			s = r.processExtend(ext, s, members, modulePath)
		}
	}

	for _, m := range *members {
		r.resolveDecl(m, s, modulePath)
	}
	return s
}

func (r *Resolver) processUse(u *ast.UseDirective, s *scope) *scope {
	prefix, err := r.resolvePrefixToAbsolute(u.Path, s)
	if err != nil {
		r.errs.Add(err)
		return s
	}
	return r.installUse(prefix, u, s)
}

func (r *Resolver) installUse(prefix pass.ModulePath, u *ast.UseDirective, s *scope) *scope {
	if u.Item != nil {
		m := member{
			k:            kindUse,
			targetPath:   prefix,
			underlying:   u.Item.Name,
			templateArgs: u.Item.TemplateArgs,
		}
		return s.with(u.Item.EffectiveName(), m)
	}
	for _, c := range u.Collection {
		childPrefix := append(append(pass.ModulePath(nil), prefix...), pathPartNames(c.Path)...)
		s = r.installUse(childPrefix, c, s)
	}
	return s
}

func pathPartNames(parts []*ast.PathPart) []string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names
}

func (r *Resolver) processExtend(e *ast.ExtendDirective, s *scope, members *[]ast.Decl, modulePath pass.ModulePath) *scope {
	targetPrefix, err := r.resolvePrefixToAbsolute(e.Path, s)
	if err != nil {
		r.errs.Add(err)
		return s
	}
	targetKey := targetPrefix.Join()
	targetDecl, ok := r.idx.byPath[targetKey]
	if !ok {
		r.errs.Add(errors.NewSymbolNotFound(&ast.Path{Parts: e.Path}, e.Pos()))
		return s
	}
	targetModule, ok := targetDecl.(*ast.Module)
	if !ok {
		r.errs.Add(errors.NewSymbolNotFound(&ast.Path{Parts: e.Path}, e.Pos()))
		return s
	}

	for _, md := range targetModule.Members {
		name := md.DeclName()
		if name == "" {
			continue
		}
		parts := make([]*ast.PathPart, 0, len(targetPrefix)+1)
		for _, n := range targetPrefix {
			parts = append(parts, &ast.PathPart{Name: n})
		}
		parts = append(parts, &ast.PathPart{Name: name})
		alias := &ast.Alias{Name: name, Type: &ast.TypeExpr{Path: &ast.Path{Parts: parts}}}
		*members = append(*members, alias)
		r.idx.byPath[joinPath(modulePath, name)] = alias
		s = s.with(name, member{k: kindDecl, modulePath: modulePath, declName: name})
	}
	return s
}

// resolvePrefixToAbsolute walks a use/extend target path under the
// current scope (so use chains resolve against already-installed
// bindings) and returns its absolute module path (a plain name sequence,
// no template args — use/extend targets always name a module or item, not
// a specialization).
func (r *Resolver) resolvePrefixToAbsolute(parts []*ast.PathPart, s *scope) (pass.ModulePath, errors.Error) {
	if len(parts) == 0 {
		return nil, nil
	}
	first := parts[0]
	m, ok := s.lookup(first.Name)
	if !ok {
		return nil, errors.NewSymbolNotFound(&ast.Path{Parts: parts}, first.Pos())
	}
	var abs pass.ModulePath
	switch m.k {
	case kindDecl:
		abs = m.modulePath.Push(m.declName)
	case kindUse:
		abs = m.targetPath.Push(m.underlying)
	case kindBuiltIn, kindLocal, kindFormalParam, kindTemplateParam:
		abs = pass.ModulePath{first.Name}
	}
	for _, p := range parts[1:] {
		abs = abs.Push(p.Name)
	}
	return abs, nil
}

func (r *Resolver) resolveDecl(d ast.Decl, s *scope, modulePath pass.ModulePath) {
	switch x := d.(type) {
	case *ast.VarDecl:
		inner := r.bindTemplateParams(x.TemplateParameters, modulePath, x.Name, s)
		if x.Type != nil {
			r.resolveExpr(x.Type, inner)
		}
		if x.Initializer != nil {
			r.resolveExpr(x.Initializer, inner)
		}
	case *ast.Alias:
		inner := r.bindTemplateParams(x.TemplateParameters, modulePath, x.Name, s)
		r.resolveExpr(x.Type, inner)
	case *ast.Struct:
		inner := r.bindTemplateParams(x.TemplateParameters, modulePath, x.Name, s)
		for _, mem := range x.Members {
			r.resolveExpr(mem.Type, inner)
		}
	case *ast.Function:
		inner := r.bindTemplateParams(x.TemplateParameters, modulePath, x.Name, s)
		paramScope := inner
		entries := map[string]member{}
		for _, p := range x.Parameters {
			entries[p.Name] = member{k: kindFormalParam}
			r.resolveExpr(p.Type, paramScope)
		}
		if x.ReturnType != nil {
			r.resolveExpr(x.ReturnType, paramScope)
		}
		bodyScope := paramScope.withAll(entries)
		r.resolveCompound(x.Body, bodyScope, modulePath)
	case *ast.ConstAssert:
		inner := r.bindTemplateParams(x.TemplateParameters, modulePath, "const_assert", s)
		r.resolveExpr(x.Expr, inner)
	case *ast.Module:
		childPath := modulePath.Push(x.Name)
		inner := r.bindTemplateParams(x.TemplateParameters, modulePath, x.Name, s)
		if len(x.TemplateParameters) > 0 {
			infos := make([]paramInfo, len(x.TemplateParameters))
			for i, p := range x.TemplateParameters {
				infos[i] = paramInfo{original: stripMangle(p.Name), mangled: p.Name}
			}
			r.params[childPath.Join()] = infos
		}
		r.resolveContainer(x.Directives, &x.Members, inner, childPath)
	case *ast.VoidDecl:
		// nothing to resolve
	}
}

// bindTemplateParams renames each formal template parameter of a
// declaration at modulePath to a deterministic globally-unique name and
// installs it into scope as a TemplateParam member for the declaration's
// own subtree.
func (r *Resolver) bindTemplateParams(params []*ast.FormalTemplateParameter, modulePath pass.ModulePath, declName string, s *scope) *scope {
	if len(params) == 0 {
		return s
	}
	entries := map[string]member{}
	for _, p := range params {
		original := stripMangle(p.Name)
		mangled := fmt.Sprintf("%s#%s#%s", modulePath.Join(), declName, original)
		p.Name = mangled
		entries[original] = member{k: kindTemplateParam, mangled: mangled}
		// An already-resolved tree refers to the parameter by its mangled
		// name; binding that too keeps a second pass a no-op.
		entries[mangled] = member{k: kindTemplateParam, mangled: mangled}
	}
	inner := s.withAll(entries)
	for _, p := range params {
		if p.Default != nil {
			r.resolveExpr(p.Default, inner)
		}
	}
	return inner
}

// stripMangle recovers the original parameter name from a mangled
// "modulePath#declName#original" string, for re-deriving paramInfo when a
// module's own parameters are looked up again later in the same run.
func stripMangle(mangled string) string {
	if i := strings.LastIndex(mangled, "#"); i >= 0 {
		return mangled[i+1:]
	}
	return mangled
}

func (r *Resolver) resolveCompound(c *ast.CompoundStmt, s *scope, modulePath pass.ModulePath) {
	for _, d := range c.Directives {
		if use, ok := d.(*ast.UseDirective); ok {
			s = r.processUse(use, s)
		}
	}
	for _, stmt := range c.Statements {
		s = r.resolveStmt(stmt, s, modulePath)
	}
}

// resolveStmt resolves one statement and returns the scope visible to its
// *following* siblings (so a DeclStmt's name shadows only afterward).
func (r *Resolver) resolveStmt(stmt ast.Stmt, s *scope, modulePath pass.ModulePath) *scope {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		r.resolveCompound(x, s, modulePath)
	case *ast.AssignmentStmt:
		r.resolveExpr(x.LHS, s)
		r.resolveExpr(x.RHS, s)
	case *ast.IncDecStmt:
		r.resolveExpr(x.Expr, s)
	case *ast.IfStmt:
		r.resolveExpr(x.If.Cond, s)
		r.resolveCompound(x.If.Body, s, modulePath)
		for _, c := range x.ElseIfClauses {
			r.resolveExpr(c.Cond, s)
			r.resolveCompound(c.Body, s, modulePath)
		}
		if x.Else != nil {
			r.resolveCompound(x.Else, s, modulePath)
		}
	case *ast.SwitchStmt:
		r.resolveExpr(x.Expr, s)
		for _, c := range x.Clauses {
			for _, sel := range c.CaseSelectors {
				if !sel.IsDefault {
					r.resolveExpr(sel.Expr, s)
				}
			}
			r.resolveCompound(c.Body, s, modulePath)
		}
	case *ast.LoopStmt:
		loopScope := s
		for _, inner := range x.Body.Statements {
			loopScope = r.resolveStmt(inner, loopScope, modulePath)
		}
		for _, d := range x.Body.Directives {
			if use, ok := d.(*ast.UseDirective); ok {
				loopScope = r.processUse(use, loopScope)
			}
		}
		if x.Continuing != nil {
			contScope := loopScope
			for _, inner := range x.Continuing.Body.Statements {
				contScope = r.resolveStmt(inner, contScope, modulePath)
			}
			if x.Continuing.BreakIf != nil {
				r.resolveExpr(x.Continuing.BreakIf, contScope)
			}
		}
	case *ast.ForStmt:
		forScope := s
		if x.Initializer != nil {
			forScope = r.resolveStmt(x.Initializer, forScope, modulePath)
		}
		if x.Condition != nil {
			r.resolveExpr(x.Condition, forScope)
		}
		if x.Update != nil {
			r.resolveStmt(x.Update, forScope, modulePath)
		}
		r.resolveCompound(x.Body, forScope, modulePath)
	case *ast.WhileStmt:
		r.resolveExpr(x.Condition, s)
		r.resolveCompound(x.Body, s, modulePath)
	case *ast.ReturnStmt:
		if x.Value != nil {
			r.resolveExpr(x.Value, s)
		}
	case *ast.CallStmt:
		r.resolveExpr(x.Call, s)
	case *ast.ConstAssertStmt:
		r.resolveExpr(x.Assert.Expr, s)
	case *ast.DeclStmt:
		if x.Declaration.Type != nil {
			r.resolveExpr(x.Declaration.Type, s)
		}
		if x.Declaration.Initializer != nil {
			r.resolveExpr(x.Declaration.Initializer, s)
		}
		inner := s.with(x.Declaration.Name, member{k: kindLocal})
		cur := inner
		for _, child := range x.Statements {
			cur = r.resolveStmt(child, cur, modulePath)
		}
		return inner
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.DiscardStmt:
		// leaves
	}
	return s
}

func (r *Resolver) resolveExpr(e ast.Expr, s *scope) {
	switch x := e.(type) {
	case *ast.BasicLit:
	case *ast.ParenExpr:
		r.resolveExpr(x.X, s)
	case *ast.NamedComponentExpr:
		r.resolveExpr(x.Base, s)
	case *ast.IndexExpr:
		r.resolveExpr(x.Base, s)
		r.resolveExpr(x.Index, s)
	case *ast.UnaryExpr:
		r.resolveExpr(x.Operand, s)
	case *ast.BinaryExpr:
		r.resolveExpr(x.Left, s)
		r.resolveExpr(x.Right, s)
	case *ast.CallExpr:
		r.resolvePath(x.Path, s)
		for _, a := range x.Args {
			r.resolveExpr(a, s)
		}
	case *ast.IdentExpr:
		r.resolvePath(x.Path, s)
	case *ast.TypeExpr:
		r.resolvePath(x.Path, s)
	}
}

// resolvePath rewrites p in place to be absolute, per the rule in §4.2
// step 4: the first segment's scope entry decides the rewrite; remaining
// segments are left untouched (their resolution is structural, performed
// by TemplateNormalizer/Specializer as they walk the declaration tree).
func (r *Resolver) resolvePath(p *ast.Path, s *scope) {
	if len(p.Parts) == 0 {
		return
	}
	first := p.Parts[0]
	for _, arg := range first.TemplateArgs {
		r.resolveExpr(arg.Expr, s)
	}
	m, ok := s.lookup(first.Name)
	if !ok {
		r.errs.Add(errors.NewSymbolNotFound(p, first.Pos()))
		return
	}
	switch m.k {
	case kindLocal, kindFormalParam, kindBuiltIn:
		return
	case kindTemplateParam:
		p.Parts[0] = &ast.PathPart{Name: m.mangled, TemplateArgs: first.TemplateArgs}
		return
	case kindDecl:
		prefixNames := append(pass.ModulePath(nil), m.modulePath...)
		prefixNames = append(prefixNames, m.declName)
		p.Parts = r.buildAbsoluteParts(prefixNames, first, p.Parts[1:], s)
	case kindUse:
		prefixNames := append(pass.ModulePath(nil), m.targetPath...)
		prefixNames = append(prefixNames, m.underlying)
		mergedArgs := first.TemplateArgs
		if mergedArgs == nil {
			mergedArgs = m.templateArgs
		}
		last := &ast.PathPart{Name: m.underlying, TemplateArgs: mergedArgs, Inline: first.Inline}
		parts := r.buildAbsoluteParts(prefixNames[:len(prefixNames)-1], nil, nil, s)
		parts = append(parts, last)
		p.Parts = append(parts, p.Parts[1:]...)
	}
}

// buildAbsoluteParts constructs path parts for names[0:len(names)-1] as
// plain prefix segments (forwarding enclosing generic parameters where
// applicable) followed by a last segment named names[len(names)-1]
// carrying originalFirst's template args/inline bag, then appends rest.
func (r *Resolver) buildAbsoluteParts(names pass.ModulePath, originalFirst *ast.PathPart, rest []*ast.PathPart, s *scope) []*ast.PathPart {
	parts := make([]*ast.PathPart, 0, len(names)+len(rest))
	for i, n := range names {
		part := &ast.PathPart{Name: n}
		if infos, ok := r.params[names[:i+1].Join()]; ok {
			for _, info := range infos {
				arg := &ast.TemplateArg{
					ArgName: info.mangled,
					Expr:    &ast.IdentExpr{Path: &ast.Path{Parts: []*ast.PathPart{{Name: info.original}}}},
				}
				r.resolveExpr(arg.Expr, s)
				part.TemplateArgs = append(part.TemplateArgs, arg)
			}
		}
		if i == len(names)-1 && originalFirst != nil {
			part.TemplateArgs = originalFirst.TemplateArgs
			part.Inline = originalFirst.Inline
		}
		parts = append(parts, part)
	}
	return append(parts, rest...)
}

var _ pass.Pass = (*Resolver)(nil)
