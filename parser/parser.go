package parser

import (
	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/errors"
	"github.com/ncthbrt/mew/token"
)

// Parse scans and parses src into a translation unit. On a syntax error
// it returns a nil tree and a single-element errors.List (a ParseError).
func Parse(src string) (*ast.TranslationUnit, errors.List) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, errors.List{errors.NewParseError(err.Error(), token.NoPos)}
	}
	p := &Parser{toks: toks}
	return p.parse()
}

// Parser is a recursive-descent parser over a pre-scanned token slice,
// which makes the backtracking that WESL's `<...>` template-argument
// vs. less-than ambiguity requires a matter of saving and restoring a
// plain integer index.
type Parser struct {
	toks []lexToken
	pos  int
}

// parseError is the bailout type used both for fatal syntax errors and
// for speculative attempts that fail to match, mirroring the panic/
// recover parsing style of go/parser and cuelang.org/go/cue/parser.
type parseError struct {
	msg string
	pos token.Pos
}

func (p *Parser) fail(msg string) {
	panic(parseError{msg: msg, pos: p.cur().pos})
}

func (p *Parser) parse() (tu *ast.TranslationUnit, errs errors.List) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			tu = nil
			errs = errors.List{errors.NewParseError(pe.msg, pe.pos)}
		}
	}()
	tu = p.parseTranslationUnit()
	return tu, nil
}

func (p *Parser) cur() lexToken { return p.toks[p.pos] }

func (p *Parser) peek(n int) lexToken {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) at(k tokKind) bool { return p.cur().kind == k }

func (p *Parser) atKeyword(word string) bool {
	c := p.cur()
	return c.kind == tokIdent && c.text == word
}

func (p *Parser) advance() lexToken {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k tokKind) lexToken {
	if !p.at(k) {
		p.fail("unexpected token " + p.cur().text)
	}
	return p.advance()
}

func (p *Parser) expectIdent() string {
	if !p.at(tokIdent) {
		p.fail("expected identifier, got " + p.cur().text)
	}
	return p.advance().text
}

func (p *Parser) advanceKeyword(word string) {
	if !p.atKeyword(word) {
		p.fail("expected '" + word + "'")
	}
	p.advance()
}

func (p *Parser) expectSemi() { p.expect(tokSemicolon) }

func (p *Parser) save() int { return p.pos }

func (p *Parser) restore(mark int) { p.pos = mark }

// attempt runs fn speculatively: if it panics with a parseError, the
// token position is restored and attempt reports false; any other panic
// propagates.
func (p *Parser) attempt(fn func()) (ok bool) {
	mark := p.save()
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); isParseErr {
				p.restore(mark)
				ok = false
				return
			}
			panic(r)
		}
	}()
	fn()
	ok = true
	return
}

// closeAngle consumes a single closing '>', splitting a '>>' token in
// place into two adjacent '>' tokens when nested template-argument lists
// close back to back (the Shr/">>" vs. two ">" ambiguity).
func (p *Parser) closeAngle() bool {
	switch p.cur().kind {
	case tokGt:
		p.advance()
		return true
	case tokShr:
		t := p.toks[p.pos]
		t.kind = tokGt
		t.text = ">"
		t.pos = t.pos + 1
		p.toks[p.pos] = t
		return true
	}
	return false
}

func spanFrom(start token.Pos, p *Parser) token.Span {
	return token.NewSpan(start, p.cur().pos)
}

// ----------------------------------------------------------------------------
// Translation unit / container bodies

func (p *Parser) parseTranslationUnit() *ast.TranslationUnit {
	start := p.cur().pos
	dirs, decls := p.parseDeclsAndDirectives(tokEOF)
	p.expect(tokEOF)
	tu := &ast.TranslationUnit{GlobalDirectives: dirs, GlobalDeclarations: decls}
	tu.SetSpan(spanFrom(start, p))
	return tu
}

// parseDeclsAndDirectives consumes directives and declarations, in
// whatever order they appear, until the current token is stop.
func (p *Parser) parseDeclsAndDirectives(stop tokKind) ([]ast.Directive, []ast.Decl) {
	var dirs []ast.Directive
	var decls []ast.Decl
	for !p.at(stop) {
		if p.at(tokSemicolon) {
			p.advance()
			continue
		}
		attrs := p.parseAttributes()
		switch {
		case p.atKeyword("diagnostic"):
			dirs = append(dirs, p.parseDiagnosticDirective())
		case p.atKeyword("enable"):
			dirs = append(dirs, p.parseEnableDirective())
		case p.atKeyword("requires"):
			dirs = append(dirs, p.parseRequiresDirective())
		case p.atKeyword("use"):
			dirs = append(dirs, p.parseUseDirective(attrs))
		case p.atKeyword("extend"):
			dirs = append(dirs, p.parseExtendDirective(attrs))
		default:
			decls = append(decls, p.parseDecl(attrs))
		}
	}
	return dirs, decls
}

// ----------------------------------------------------------------------------
// Directives

func (p *Parser) parseExtensionList() []string {
	var names []string
	for {
		names = append(names, p.expectIdent())
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	return names
}

func (p *Parser) parseDiagnosticDirective() ast.Directive {
	start := p.cur().pos
	p.advanceKeyword("diagnostic")
	p.expect(tokLParen)
	sev := p.expectIdent()
	p.expect(tokComma)
	rule := p.expectIdent()
	p.expect(tokRParen)
	p.expectSemi()
	d := &ast.DiagnosticDirective{Severity: diagnosticSeverity(sev), RuleName: rule}
	d.SetSpan(spanFrom(start, p))
	return d
}

func diagnosticSeverity(s string) ast.DiagnosticSeverity {
	switch s {
	case "warning":
		return ast.SeverityWarning
	case "info":
		return ast.SeverityInfo
	case "off":
		return ast.SeverityOff
	default:
		return ast.SeverityError
	}
}

func (p *Parser) parseEnableDirective() ast.Directive {
	start := p.cur().pos
	p.advanceKeyword("enable")
	exts := p.parseExtensionList()
	p.expectSemi()
	d := &ast.EnableDirective{Extensions: exts}
	d.SetSpan(spanFrom(start, p))
	return d
}

func (p *Parser) parseRequiresDirective() ast.Directive {
	start := p.cur().pos
	p.advanceKeyword("requires")
	exts := p.parseExtensionList()
	p.expectSemi()
	d := &ast.RequiresDirective{Extensions: exts}
	d.SetSpan(spanFrom(start, p))
	return d
}

func makePathParts(names []string) []*ast.PathPart {
	parts := make([]*ast.PathPart, len(names))
	for i, n := range names {
		parts[i] = &ast.PathPart{Name: n}
	}
	return parts
}

// parseUseBody parses one `use` body: a sequence of "::"-joined names
// followed by either a `{...}` collection, an `as` rename, optional
// template arguments, or nothing (implicit single-item use).
func (p *Parser) parseUseBody() *ast.UseDirective {
	start := p.cur().pos
	var segs []string
	for {
		segs = append(segs, p.expectIdent())
		if p.at(tokColonColon) {
			p.advance()
			if p.at(tokLBrace) {
				break
			}
			continue
		}
		break
	}

	if p.at(tokLBrace) {
		p.advance()
		var coll []*ast.UseDirective
		for {
			coll = append(coll, p.parseUseBody())
			if p.at(tokComma) {
				p.advance()
				if p.at(tokRBrace) {
					break
				}
				continue
			}
			break
		}
		p.expect(tokRBrace)
		ud := &ast.UseDirective{Path: makePathParts(segs), Collection: coll}
		ud.SetSpan(spanFrom(start, p))
		return ud
	}

	targs, _ := p.tryParseTemplateArgs()
	rename := ""
	if p.atKeyword("as") {
		p.advance()
		rename = p.expectIdent()
	}
	last := segs[len(segs)-1]
	ud := &ast.UseDirective{
		Path: makePathParts(segs[:len(segs)-1]),
		Item: &ast.UseItem{Name: last, Rename: rename, TemplateArgs: targs},
	}
	ud.SetSpan(spanFrom(start, p))
	return ud
}

func (p *Parser) parseUseDirective(attrs []*ast.Attribute) ast.Directive {
	start := p.cur().pos
	p.advanceKeyword("use")
	ud := p.parseUseBody()
	ud.Attributes = attrs
	p.expectSemi()
	ud.SetSpan(spanFrom(start, p))
	return ud
}

func (p *Parser) parseExtendDirective(attrs []*ast.Attribute) ast.Directive {
	start := p.cur().pos
	p.advanceKeyword("extend")
	path := p.parsePath()
	p.expectSemi()
	d := &ast.ExtendDirective{Attributes: attrs, Path: path.Parts}
	d.SetSpan(spanFrom(start, p))
	return d
}

// ----------------------------------------------------------------------------
// Attributes, template parameters, paths

func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.at(tokAt) {
		start := p.cur().pos
		p.advance()
		name := p.expectIdent()
		var args []ast.Expr
		if p.at(tokLParen) {
			p.advance()
			args = p.parseExprList(tokRParen)
			p.expect(tokRParen)
		}
		a := &ast.Attribute{Name: name, Args: args}
		a.SetSpan(spanFrom(start, p))
		attrs = append(attrs, a)
	}
	return attrs
}

func (p *Parser) parseTemplateParams() []*ast.FormalTemplateParameter {
	if !p.at(tokLt) {
		return nil
	}
	p.advance()
	var params []*ast.FormalTemplateParameter
	for {
		start := p.cur().pos
		name := p.expectIdent()
		var def ast.Expr
		if p.at(tokAssign) {
			p.advance()
			def = p.parseBinary(templateArgLevel)
		}
		param := &ast.FormalTemplateParameter{Name: name, Default: def}
		param.SetSpan(spanFrom(start, p))
		params = append(params, param)
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	if !p.closeAngle() {
		p.fail("expected '>' to close template parameter list")
	}
	return params
}

func (p *Parser) tryParseTemplateArgs() ([]*ast.TemplateArg, bool) {
	if !p.at(tokLt) {
		return nil, false
	}
	var result []*ast.TemplateArg
	ok := p.attempt(func() {
		p.advance()
		result = p.parseTemplateArgListBody()
		if !p.closeAngle() {
			p.fail("expected '>' to close template argument list")
		}
	})
	if !ok {
		return nil, false
	}
	return result, true
}

// templateArgLevel is the binPrec level (+/-) that template arguments and
// template parameter defaults are parsed from. A bare '>' or '>>' closes
// the list, so relational, shift, bitwise and logical operators inside
// one need parentheses.
const templateArgLevel = 8

func (p *Parser) parseTemplateArgListBody() []*ast.TemplateArg {
	var args []*ast.TemplateArg
	for {
		start := p.cur().pos
		name := ""
		if p.at(tokIdent) && p.peek(1).kind == tokAssign {
			name = p.expectIdent()
			p.advance()
		}
		e := p.parseBinary(templateArgLevel)
		arg := &ast.TemplateArg{Expr: e, ArgName: name}
		arg.SetSpan(spanFrom(start, p))
		args = append(args, arg)
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	return args
}

func (p *Parser) tryParseInlineTemplateArgs() *ast.InlineTemplateArgs {
	if !p.atKeyword("with") {
		return nil
	}
	var result *ast.InlineTemplateArgs
	p.attempt(func() {
		start := p.cur().pos
		p.advance()
		p.expect(tokLBrace)
		dirs, decls := p.parseDeclsAndDirectives(tokRBrace)
		p.expect(tokRBrace)
		result = &ast.InlineTemplateArgs{Directives: dirs, Members: decls}
		result.SetSpan(spanFrom(start, p))
	})
	return result
}

func (p *Parser) parsePathPart() *ast.PathPart {
	start := p.cur().pos
	name := p.expectIdent()
	targs, _ := p.tryParseTemplateArgs()
	inline := p.tryParseInlineTemplateArgs()
	part := &ast.PathPart{Name: name, TemplateArgs: targs, Inline: inline}
	part.SetSpan(spanFrom(start, p))
	return part
}

func (p *Parser) parsePath() *ast.Path {
	start := p.cur().pos
	parts := []*ast.PathPart{p.parsePathPart()}
	for p.at(tokColonColon) {
		p.advance()
		parts = append(parts, p.parsePathPart())
	}
	path := &ast.Path{Parts: parts}
	path.SetSpan(spanFrom(start, p))
	return path
}

// ----------------------------------------------------------------------------
// Declarations

var declKeywords = map[string]ast.DeclKind{
	"const":    ast.DeclConst,
	"override": ast.DeclOverride,
	"let":      ast.DeclLet,
	"var":      ast.DeclVar,
}

func (p *Parser) parseDecl(attrs []*ast.Attribute) ast.Decl {
	switch {
	case p.atKeyword("alias"):
		return p.parseAlias()
	case p.atKeyword("struct"):
		return p.parseStruct()
	case p.atKeyword("fn"):
		return p.parseFunction(attrs)
	case p.atKeyword("const_assert"):
		return p.parseConstAssertDecl()
	case p.atKeyword("mod"):
		return p.parseModule(attrs)
	default:
		for kw := range declKeywords {
			if p.atKeyword(kw) {
				return p.parseVarDecl(attrs, kw)
			}
		}
		p.fail("expected a declaration, got " + p.cur().text)
		return nil
	}
}

func (p *Parser) parseAlias() *ast.Alias {
	start := p.cur().pos
	p.advanceKeyword("alias")
	name := p.expectIdent()
	tparams := p.parseTemplateParams()
	p.expect(tokAssign)
	typ := p.parseType()
	p.expectSemi()
	a := &ast.Alias{Name: name, Type: typ, TemplateParameters: tparams}
	a.SetSpan(spanFrom(start, p))
	return a
}

func (p *Parser) parseStruct() *ast.Struct {
	start := p.cur().pos
	p.advanceKeyword("struct")
	name := p.expectIdent()
	tparams := p.parseTemplateParams()
	p.expect(tokLBrace)
	var members []*ast.StructMember
	for !p.at(tokRBrace) {
		mstart := p.cur().pos
		mattrs := p.parseAttributes()
		mname := p.expectIdent()
		p.expect(tokColon)
		mtype := p.parseType()
		m := &ast.StructMember{Attributes: mattrs, Name: mname, Type: mtype}
		m.SetSpan(spanFrom(mstart, p))
		members = append(members, m)
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRBrace)
	s := &ast.Struct{Name: name, Members: members, TemplateParameters: tparams}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseVarDecl(attrs []*ast.Attribute, kw string) *ast.VarDecl {
	start := p.cur().pos
	p.advanceKeyword(kw)
	name := p.expectIdent()
	tparams := p.parseTemplateParams()
	var typ ast.Expr
	if p.at(tokColon) {
		p.advance()
		typ = p.parseType()
	}
	var init ast.Expr
	if p.at(tokAssign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expectSemi()
	d := &ast.VarDecl{
		Attributes: attrs, Kind: declKeywords[kw], TemplateParameters: tparams,
		Name: name, Type: typ, Initializer: init,
	}
	d.SetSpan(spanFrom(start, p))
	return d
}

func (p *Parser) parseFunction(attrs []*ast.Attribute) *ast.Function {
	start := p.cur().pos
	p.advanceKeyword("fn")
	name := p.expectIdent()
	tparams := p.parseTemplateParams()
	p.expect(tokLParen)
	var params []*ast.FormalParameter
	for !p.at(tokRParen) {
		pstart := p.cur().pos
		pattrs := p.parseAttributes()
		pname := p.expectIdent()
		p.expect(tokColon)
		ptype := p.parseType()
		param := &ast.FormalParameter{Attributes: pattrs, Name: pname, Type: ptype}
		param.SetSpan(spanFrom(pstart, p))
		params = append(params, param)
		if p.at(tokComma) {
			p.advance()
		}
	}
	p.expect(tokRParen)
	var retAttrs []*ast.Attribute
	var retType ast.Expr
	if p.at(tokArrow) {
		p.advance()
		retAttrs = p.parseAttributes()
		retType = p.parseType()
	}
	body := p.parseCompoundStmt()
	f := &ast.Function{
		Attributes: attrs, Name: name, Parameters: params,
		ReturnAttributes: retAttrs, ReturnType: retType, Body: body,
		TemplateParameters: tparams,
	}
	f.SetSpan(spanFrom(start, p))
	return f
}

func (p *Parser) parseConstAssertDecl() *ast.ConstAssert {
	start := p.cur().pos
	p.advanceKeyword("const_assert")
	tparams := p.parseTemplateParams()
	e := p.parseExpr()
	p.expectSemi()
	c := &ast.ConstAssert{Expr: e, TemplateParameters: tparams}
	c.SetSpan(spanFrom(start, p))
	return c
}

func (p *Parser) parseModule(attrs []*ast.Attribute) *ast.Module {
	start := p.cur().pos
	p.advanceKeyword("mod")
	name := p.expectIdent()
	tparams := p.parseTemplateParams()
	p.expect(tokLBrace)
	dirs, decls := p.parseDeclsAndDirectives(tokRBrace)
	p.expect(tokRBrace)
	m := &ast.Module{
		Attributes: attrs, Name: name, Directives: dirs, Members: decls,
		TemplateParameters: tparams,
	}
	m.SetSpan(spanFrom(start, p))
	return m
}

// ----------------------------------------------------------------------------
// Statements

// restructureStmts implements the scope-tree construction step: every
// DeclStmt absorbs the statements that lexically follow it within the
// same compound statement as its own Statements, recursively.
func restructureStmts(flat []ast.Stmt) []ast.Stmt {
	for i, s := range flat {
		if ds, ok := s.(*ast.DeclStmt); ok {
			ds.Statements = restructureStmts(flat[i+1:])
			return flat[:i+1]
		}
	}
	return flat
}

func (p *Parser) parseCompoundStmt() *ast.CompoundStmt {
	start := p.cur().pos
	p.expect(tokLBrace)
	var dirs []ast.Directive
	for p.atKeyword("use") {
		dirs = append(dirs, p.parseUseDirective(nil))
	}
	var stmts []ast.Stmt
	for !p.at(tokRBrace) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(tokRBrace)
	c := &ast.CompoundStmt{Directives: dirs, Statements: restructureStmts(stmts)}
	c.SetSpan(spanFrom(start, p))
	return c
}

func (p *Parser) parseStmt() ast.Stmt {
	if p.at(tokAt) {
		attrs := p.parseAttributes()
		switch {
		case p.atKeyword("if"):
			return p.parseIfStmt(attrs)
		case p.atKeyword("switch"):
			return p.parseSwitchStmt(attrs)
		case p.atKeyword("loop"):
			return p.parseLoopStmt(attrs)
		case p.atKeyword("for"):
			return p.parseForStmt(attrs)
		case p.atKeyword("while"):
			return p.parseWhileStmt(attrs)
		default:
			p.fail("attributes not allowed on this statement")
		}
	}
	switch {
	case p.at(tokLBrace):
		return p.parseCompoundStmt()
	case p.atKeyword("if"):
		return p.parseIfStmt(nil)
	case p.atKeyword("switch"):
		return p.parseSwitchStmt(nil)
	case p.atKeyword("loop"):
		return p.parseLoopStmt(nil)
	case p.atKeyword("for"):
		return p.parseForStmt(nil)
	case p.atKeyword("while"):
		return p.parseWhileStmt(nil)
	case p.atKeyword("break"):
		start := p.cur().pos
		p.advance()
		p.expectSemi()
		s := &ast.BreakStmt{}
		s.SetSpan(spanFrom(start, p))
		return s
	case p.atKeyword("continue"):
		start := p.cur().pos
		p.advance()
		p.expectSemi()
		s := &ast.ContinueStmt{}
		s.SetSpan(spanFrom(start, p))
		return s
	case p.atKeyword("return"):
		return p.parseReturnStmt()
	case p.atKeyword("discard"):
		start := p.cur().pos
		p.advance()
		p.expectSemi()
		s := &ast.DiscardStmt{}
		s.SetSpan(spanFrom(start, p))
		return s
	case p.atKeyword("const_assert"):
		return p.parseConstAssertStmt()
	default:
		for kw := range declKeywords {
			if p.atKeyword(kw) {
				return p.parseDeclStmt(kw)
			}
		}
		return p.parseSimpleStmt(true)
	}
}

func (p *Parser) parseIfStmt(attrs []*ast.Attribute) ast.Stmt {
	start := p.cur().pos
	p.advanceKeyword("if")
	cond := p.parseExpr()
	body := p.parseCompoundStmt()
	ifClause := ast.CondBlock{Cond: cond, Body: body}
	var elifs []ast.CondBlock
	var elseBody *ast.CompoundStmt
	for p.atKeyword("else") {
		p.advance()
		if p.atKeyword("if") {
			p.advance()
			c := p.parseExpr()
			b := p.parseCompoundStmt()
			elifs = append(elifs, ast.CondBlock{Cond: c, Body: b})
			continue
		}
		elseBody = p.parseCompoundStmt()
		break
	}
	s := &ast.IfStmt{Attributes: attrs, If: ifClause, ElseIfClauses: elifs, Else: elseBody}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseSwitchStmt(attrs []*ast.Attribute) ast.Stmt {
	start := p.cur().pos
	p.advanceKeyword("switch")
	expr := p.parseExpr()
	bodyAttrs := p.parseAttributes()
	p.expect(tokLBrace)
	var clauses []*ast.SwitchClause
	for !p.at(tokRBrace) {
		cstart := p.cur().pos
		var selectors []*ast.CaseSelector
		if p.atKeyword("default") {
			p.advance()
			selectors = append(selectors, &ast.CaseSelector{IsDefault: true})
		} else {
			p.advanceKeyword("case")
			selectors = p.parseCaseSelectorList()
		}
		if p.at(tokColon) {
			p.advance()
		}
		body := p.parseCompoundStmt()
		clause := &ast.SwitchClause{CaseSelectors: selectors, Body: body}
		clause.SetSpan(spanFrom(cstart, p))
		clauses = append(clauses, clause)
	}
	p.expect(tokRBrace)
	s := &ast.SwitchStmt{Attributes: attrs, Expr: expr, BodyAttributes: bodyAttrs, Clauses: clauses}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseCaseSelectorList() []*ast.CaseSelector {
	var sels []*ast.CaseSelector
	for {
		start := p.cur().pos
		var sel *ast.CaseSelector
		if p.atKeyword("default") {
			p.advance()
			sel = &ast.CaseSelector{IsDefault: true}
		} else {
			e := p.parseExpr()
			sel = &ast.CaseSelector{Expr: e}
		}
		sel.SetSpan(spanFrom(start, p))
		sels = append(sels, sel)
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	return sels
}

func (p *Parser) parseLoopStmt(attrs []*ast.Attribute) ast.Stmt {
	start := p.cur().pos
	p.advanceKeyword("loop")
	// The continuing block, when present, is the last item inside the
	// loop body's braces.
	bstart := p.cur().pos
	p.expect(tokLBrace)
	var dirs []ast.Directive
	for p.atKeyword("use") {
		dirs = append(dirs, p.parseUseDirective(nil))
	}
	var stmts []ast.Stmt
	var continuing *ast.ContinuingStmt
	for !p.at(tokRBrace) && continuing == nil {
		if p.atKeyword("continuing") {
			continuing = p.parseContinuingStmt()
		} else {
			stmts = append(stmts, p.parseStmt())
		}
	}
	p.expect(tokRBrace)
	body := &ast.CompoundStmt{Directives: dirs, Statements: restructureStmts(stmts)}
	body.SetSpan(spanFrom(bstart, p))
	s := &ast.LoopStmt{Attributes: attrs, Body: body, Continuing: continuing}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseContinuingStmt() *ast.ContinuingStmt {
	start := p.cur().pos
	p.advanceKeyword("continuing")
	p.expect(tokLBrace)
	var stmts []ast.Stmt
	var breakIf ast.Expr
	for !p.at(tokRBrace) {
		if p.atKeyword("break") && p.peek(1).kind == tokIdent && p.peek(1).text == "if" {
			p.advance()
			p.advance()
			breakIf = p.parseExpr()
			p.expectSemi()
			break
		}
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(tokRBrace)
	body := &ast.CompoundStmt{Statements: restructureStmts(stmts)}
	c := &ast.ContinuingStmt{Body: body, BreakIf: breakIf}
	c.SetSpan(spanFrom(start, p))
	return c
}

func (p *Parser) parseForStmt(attrs []*ast.Attribute) ast.Stmt {
	start := p.cur().pos
	p.advanceKeyword("for")
	p.expect(tokLParen)
	var init ast.Stmt
	switch {
	case p.at(tokSemicolon):
		p.advance()
	default:
		init = p.parseForClauseStmt()
	}
	var cond ast.Expr
	if !p.at(tokSemicolon) {
		cond = p.parseExpr()
	}
	p.expectSemi()
	var update ast.Stmt
	if !p.at(tokRParen) {
		update = p.parseSimpleStmt(false)
	}
	p.expect(tokRParen)
	body := p.parseCompoundStmt()
	s := &ast.ForStmt{Attributes: attrs, Initializer: init, Condition: cond, Update: update, Body: body}
	s.SetSpan(spanFrom(start, p))
	return s
}

// parseForClauseStmt parses a for-loop initializer: either a local
// declaration or a simple statement, both of which consume their own
// trailing ';' separator.
func (p *Parser) parseForClauseStmt() ast.Stmt {
	for kw := range declKeywords {
		if p.atKeyword(kw) {
			return p.parseDeclStmt(kw)
		}
	}
	return p.parseSimpleStmt(true)
}

func (p *Parser) parseWhileStmt(attrs []*ast.Attribute) ast.Stmt {
	start := p.cur().pos
	p.advanceKeyword("while")
	cond := p.parseExpr()
	body := p.parseCompoundStmt()
	s := &ast.WhileStmt{Attributes: attrs, Condition: cond, Body: body}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur().pos
	p.advanceKeyword("return")
	var val ast.Expr
	if !p.at(tokSemicolon) {
		val = p.parseExpr()
	}
	p.expectSemi()
	s := &ast.ReturnStmt{Value: val}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseConstAssertStmt() ast.Stmt {
	start := p.cur().pos
	assert := p.parseConstAssertDecl()
	s := &ast.ConstAssertStmt{Assert: assert}
	s.SetSpan(spanFrom(start, p))
	return s
}

func (p *Parser) parseDeclStmt(kw string) ast.Stmt {
	start := p.cur().pos
	decl := p.parseVarDecl(nil, kw)
	s := &ast.DeclStmt{Declaration: decl}
	s.SetSpan(spanFrom(start, p))
	return s
}

var assignOps = map[tokKind]ast.AssignmentOperator{
	tokAssign:    ast.AssignEqual,
	tokPlusEq:    ast.AssignPlus,
	tokMinusEq:   ast.AssignMinus,
	tokStarEq:    ast.AssignTimes,
	tokSlashEq:   ast.AssignDivide,
	tokPercentEq: ast.AssignModulo,
	tokAmpEq:     ast.AssignAnd,
	tokPipeEq:    ast.AssignOr,
	tokCaretEq:   ast.AssignXor,
	tokShrEq:     ast.AssignShiftRight,
	tokShlEq:     ast.AssignShiftLeft,
}

// parseSimpleStmt parses an assignment, increment/decrement, or
// call-as-statement. When consumeSemi is false (for-loop update clause)
// the trailing ';' is left for the caller.
func (p *Parser) parseSimpleStmt(consumeSemi bool) ast.Stmt {
	start := p.cur().pos
	expr := p.parseExpr()
	var stmt ast.Stmt
	op, isAssign := assignOps[p.cur().kind]
	switch {
	case isAssign:
		p.advance()
		rhs := p.parseExpr()
		stmt = &ast.AssignmentStmt{Operator: op, LHS: expr, RHS: rhs}
	case p.at(tokPlusPlus):
		p.advance()
		stmt = &ast.IncDecStmt{Op: ast.IncOp, Expr: expr}
	case p.at(tokMinusMinus):
		p.advance()
		stmt = &ast.IncDecStmt{Op: ast.DecOp, Expr: expr}
	default:
		call, ok := expr.(*ast.CallExpr)
		if !ok {
			p.fail("expected assignment, increment/decrement, or call statement")
		}
		stmt = &ast.CallStmt{Call: call}
	}
	if consumeSemi {
		p.expectSemi()
	}
	if sp, ok := stmt.(ast.Spanner); ok {
		sp.SetSpan(spanFrom(start, p))
	}
	return stmt
}

// ----------------------------------------------------------------------------
// Types and expressions

func (p *Parser) parseType() ast.Expr {
	start := p.cur().pos
	path := p.parsePath()
	t := &ast.TypeExpr{Path: path}
	t.SetSpan(spanFrom(start, p))
	return t
}

func (p *Parser) parseExprList(end tokKind) []ast.Expr {
	var exprs []ast.Expr
	for !p.at(end) {
		exprs = append(exprs, p.parseExpr())
		if p.at(tokComma) {
			p.advance()
			continue
		}
		break
	}
	return exprs
}

func (p *Parser) parseExpr() ast.Expr { return p.parseBinary(0) }

// precedence ladder, lowest first: ||, &&, |, ^, &, ==/!=, relational,
// shift, +/-, * / %.
var binPrec = []map[tokKind]ast.BinaryOperator{
	{tokPipePipe: ast.OpShortCircuitOr},
	{tokAmpAmp: ast.OpShortCircuitAnd},
	{tokPipe: ast.OpBitOr},
	{tokCaret: ast.OpBitXor},
	{tokAmp: ast.OpBitAnd},
	{tokEq: ast.OpEq, tokNeq: ast.OpNeq},
	{tokLt: ast.OpLt, tokLte: ast.OpLte, tokGt: ast.OpGt, tokGte: ast.OpGte},
	{tokShl: ast.OpShl, tokShr: ast.OpShr},
	{tokPlus: ast.OpAdd, tokMinus: ast.OpSub},
	{tokStar: ast.OpMul, tokSlash: ast.OpDiv, tokPercent: ast.OpMod},
}

func (p *Parser) parseBinary(level int) ast.Expr {
	if level >= len(binPrec) {
		return p.parseUnary()
	}
	start := p.cur().pos
	left := p.parseBinary(level + 1)
	for {
		op, ok := binPrec[level][p.cur().kind]
		if !ok {
			return left
		}
		p.advance()
		right := p.parseBinary(level + 1)
		e := &ast.BinaryExpr{Operator: op, Left: left, Right: right}
		e.SetSpan(spanFrom(start, p))
		left = e
	}
}

var unaryOps = map[tokKind]ast.UnaryOperator{
	tokNot:   ast.OpLogicalNegation,
	tokMinus: ast.OpNegation,
	tokTilde: ast.OpBitwiseComplement,
	tokAmp:   ast.OpAddressOf,
	tokStar:  ast.OpIndirection,
}

func (p *Parser) parseUnary() ast.Expr {
	if op, ok := unaryOps[p.cur().kind]; ok {
		start := p.cur().pos
		p.advance()
		operand := p.parseUnary()
		e := &ast.UnaryExpr{Operator: op, Operand: operand}
		e.SetSpan(spanFrom(start, p))
		return e
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur().pos
	e := p.parsePrimary()
	for {
		switch {
		case p.at(tokDot):
			p.advance()
			comp := p.expectIdent()
			n := &ast.NamedComponentExpr{Base: e, Component: comp}
			n.SetSpan(spanFrom(start, p))
			e = n
		case p.at(tokLBracket):
			p.advance()
			idx := p.parseExpr()
			p.expect(tokRBracket)
			n := &ast.IndexExpr{Base: e, Index: idx}
			n.SetSpan(spanFrom(start, p))
			e = n
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur().pos
	switch {
	case p.at(tokLParen):
		p.advance()
		inner := p.parseExpr()
		p.expect(tokRParen)
		e := &ast.ParenExpr{X: inner}
		e.SetSpan(spanFrom(start, p))
		return e
	case p.at(tokNumber):
		tok := p.advance()
		e := &ast.BasicLit{Kind: classifyNumber(tok.text), Value: tok.text}
		e.SetSpan(token.NewSpan(tok.pos, tok.end))
		return e
	case p.atKeyword("true") || p.atKeyword("false"):
		tok := p.advance()
		e := &ast.BasicLit{Kind: ast.LitBool, Value: tok.text}
		e.SetSpan(token.NewSpan(tok.pos, tok.end))
		return e
	case p.at(tokIdent):
		path := p.parsePath()
		if p.at(tokLParen) {
			p.advance()
			args := p.parseExprList(tokRParen)
			p.expect(tokRParen)
			e := &ast.CallExpr{Path: path, Args: args}
			e.SetSpan(spanFrom(start, p))
			return e
		}
		e := &ast.IdentExpr{Path: path}
		e.SetSpan(spanFrom(start, p))
		return e
	default:
		p.fail("expected expression, got " + p.cur().text)
		return nil
	}
}

func classifyNumber(text string) ast.LiteralKind {
	if len(text) == 0 {
		return ast.LitAbstractInt
	}
	switch text[len(text)-1] {
	case 'f':
		return ast.LitF32
	case 'h':
		return ast.LitF16
	case 'i':
		return ast.LitI32
	case 'u':
		return ast.LitU32
	}
	for _, c := range text {
		if c == '.' || c == 'e' || c == 'E' || c == 'p' || c == 'P' {
			return ast.LitAbstractFloat
		}
	}
	return ast.LitAbstractInt
}
