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

// Package ast declares the types used to represent the syntax tree of a
// WESL (WebGPU Extended Shading Language) translation unit: the superset
// of WGSL with nested modules, use/extend directives and generics that
// the weslc passes in internal/ rewrite down to a flat WGSL-compatible
// translation unit.
//
// Every node is spanned: it carries the byte range of the source text it
// was parsed from, for diagnostics only. No pass inspects a Span to make
// a decision.
package ast

import "github.com/ncthbrt/mew/token"

// A Node is any node in the syntax tree.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// span is embedded by every concrete node and gives it a default Pos/End.
type span struct {
	Span token.Span
}

func (s span) Pos() token.Pos { return s.Span.Start }
func (s span) End() token.Pos { return s.Span.End }

// ----------------------------------------------------------------------------
// Translation unit

// A TranslationUnit is the root of the tree: an ordered list of global
// directives followed by an ordered list of global declarations.
type TranslationUnit struct {
	span
	GlobalDirectives   []Directive
	GlobalDeclarations []Decl
}

// ----------------------------------------------------------------------------
// Directives

// A Directive is a global, module, or compound-statement-scoped directive.
type Directive interface {
	Node
	directiveNode()
}

// DiagnosticSeverity is the severity argument of a DiagnosticDirective.
type DiagnosticSeverity int

const (
	SeverityError DiagnosticSeverity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

// DiagnosticDirective is passed through to output unchanged.
type DiagnosticDirective struct {
	span
	Severity DiagnosticSeverity
	RuleName string
}

// EnableDirective is passed through to output unchanged.
type EnableDirective struct {
	span
	Extensions []string
}

// RequiresDirective is passed through to output unchanged.
type RequiresDirective struct {
	span
	Extensions []string
}

// A UseItem names a single imported symbol, with an optional rename and
// optional template arguments applied at the use site.
type UseItem struct {
	Name         string
	Rename       string // "" if not renamed
	TemplateArgs []*TemplateArg
}

// EffectiveName returns Rename if set, else Name.
func (u *UseItem) EffectiveName() string {
	if u.Rename != "" {
		return u.Rename
	}
	return u.Name
}

// UseDirective introduces name bindings into the enclosing scope. Its
// Content is either a single UseItem or a UseCollection of further
// UseDirectives sharing Path as a common prefix (the `use a::{b, c as d}`
// and nested-collection sugar).
type UseDirective struct {
	span
	Attributes []*Attribute
	Path       []*PathPart
	Item       *UseItem        // set iff Collection == nil
	Collection []*UseDirective // set iff Item == nil
}

func (*UseDirective) directiveNode() {}

// ExtendDirective imports every public member of module Path into the
// enclosing module as aliases.
type ExtendDirective struct {
	span
	Attributes []*Attribute
	Path       []*PathPart
}

func (*ExtendDirective) directiveNode() {}
func (*DiagnosticDirective) directiveNode() {}
func (*EnableDirective) directiveNode()     {}
func (*RequiresDirective) directiveNode()   {}

// ----------------------------------------------------------------------------
// Declarations

// A Decl is any of the declaration variants shared by global and module
// scope: Declaration, Alias, Struct, Function, ConstAssert, Module, Void.
type Decl interface {
	Node
	declNode()
	// DeclName returns the declared name, or "" for declarations (Void,
	// ConstAssert) that do not introduce a name.
	DeclName() string
}

// DeclKind distinguishes the four flavors of VarDecl.
type DeclKind int

const (
	DeclConst DeclKind = iota
	DeclOverride
	DeclLet
	DeclVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclConst:
		return "const"
	case DeclOverride:
		return "override"
	case DeclLet:
		return "let"
	case DeclVar:
		return "var"
	default:
		return "?decl?"
	}
}

// Attribute is meta-data attached to a declaration, struct member,
// function, or return type (`@vertex`, `@location(0)`, ...). Arguments are
// passed through unchanged by every pass.
type Attribute struct {
	span
	Name string
	Args []Expr // nil if the attribute takes no argument list
}

// FormalTemplateParameter is a formal generic parameter. A parameter with
// a Default is implicitly named at call sites; one without is positional.
type FormalTemplateParameter struct {
	span
	Name    string
	Default Expr // nil if required
}

// VarDecl is a const/override/let/var declaration, optionally generic.
type VarDecl struct {
	span
	Attributes         []*Attribute
	Kind               DeclKind
	TemplateParameters []*FormalTemplateParameter
	Name               string
	Type               Expr // a TypeExpr, or nil if elided
	Initializer        Expr // nil if absent
}

func (*VarDecl) declNode()          {}
func (d *VarDecl) DeclName() string { return d.Name }

// Alias binds Name to Type; after Dealiaser no Alias remains.
type Alias struct {
	span
	Name               string
	Type               Expr
	TemplateParameters []*FormalTemplateParameter
}

func (*Alias) declNode()          {}
func (a *Alias) DeclName() string { return a.Name }

// StructMember is one field of a Struct.
type StructMember struct {
	span
	Attributes []*Attribute
	Name       string
	Type       Expr
}

// Struct is a struct declaration, optionally generic.
type Struct struct {
	span
	Name               string
	Members            []*StructMember
	TemplateParameters []*FormalTemplateParameter
}

func (*Struct) declNode()          {}
func (s *Struct) DeclName() string { return s.Name }

// FormalParameter is one parameter of a Function.
type FormalParameter struct {
	span
	Attributes []*Attribute
	Name       string
	Type       Expr
}

// Function is a function declaration, optionally generic. Attributes
// include entry-point markers (@vertex, @fragment, @compute).
type Function struct {
	span
	Attributes         []*Attribute
	Name               string
	Parameters         []*FormalParameter
	ReturnAttributes   []*Attribute
	ReturnType         Expr // nil if the function returns nothing
	Body               *CompoundStmt
	TemplateParameters []*FormalTemplateParameter
}

func (*Function) declNode()          {}
func (f *Function) DeclName() string { return f.Name }

// HasAttribute reports whether the function carries an attribute with the
// given name (case-sensitive, e.g. "vertex", "fragment", "compute").
func (f *Function) HasAttribute(name string) bool {
	for _, a := range f.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// IsEntryPoint reports whether f is marked @vertex, @fragment or @compute.
func (f *Function) IsEntryPoint() bool {
	return f.HasAttribute("vertex") || f.HasAttribute("fragment") || f.HasAttribute("compute")
}

// ConstAssert asserts a boolean expression at compile time.
type ConstAssert struct {
	span
	Expr               Expr
	TemplateParameters []*FormalTemplateParameter
}

func (*ConstAssert) declNode()          {}
func (*ConstAssert) DeclName() string   { return "" }

// Module is a named, nestable container of declarations and directives,
// optionally generic.
type Module struct {
	span
	Attributes         []*Attribute
	Name               string
	Directives         []Directive
	Members            []Decl
	TemplateParameters []*FormalTemplateParameter
}

func (*Module) declNode()          {}
func (m *Module) DeclName() string { return m.Name }

// VoidDecl is a no-op placeholder kept to preserve spans.
type VoidDecl struct {
	span
}

func (*VoidDecl) declNode()        {}
func (*VoidDecl) DeclName() string { return "" }

// ----------------------------------------------------------------------------
// Paths

// TemplateArg is an actual template argument: an expression plus an
// optional formal-parameter name (the named-argument form).
type TemplateArg struct {
	span
	Expr     Expr
	ArgName  string // "" if positional / not yet normalized
}

// InlineTemplateArgs is the `with { directives; members }` sugar attached
// to a path part: extra directives and members that logically augment the
// referenced module at that use site. The Inliner strips these.
type InlineTemplateArgs struct {
	span
	Directives []Directive
	Members    []Decl
}

// PathPart is one segment of a Path: a name, optional template arguments,
// and optional inline template arguments.
type PathPart struct {
	span
	Name         string
	TemplateArgs []*TemplateArg     // nil if the part carries no <...>
	Inline       *InlineTemplateArgs // nil if the part carries no `with {...}`
}

// Path is an ordered sequence of path parts joined by "::".
type Path struct {
	span
	Parts []*PathPart
}

// String renders the path as it would appear in source, ignoring template
// arguments, for use in diagnostics.
func (p *Path) String() string {
	s := ""
	for i, part := range p.Parts {
		if i > 0 {
			s += "::"
		}
		s += part.Name
	}
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// An Expr is any expression node.
type Expr interface {
	Node
	exprNode()
}

// LiteralKind distinguishes the flavors of BasicLit.
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitAbstractInt
	LitAbstractFloat
	LitI32
	LitU32
	LitF32
	LitF16
)

// BasicLit is a literal of basic type.
type BasicLit struct {
	span
	Kind  LiteralKind
	Value string // the literal text, e.g. "42", "3.14", "true"
}

func (*BasicLit) exprNode() {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	span
	X Expr
}

func (*ParenExpr) exprNode() {}

// NamedComponentExpr is `base.component` (swizzle or struct member access).
type NamedComponentExpr struct {
	span
	Base      Expr
	Component string
}

func (*NamedComponentExpr) exprNode() {}

// IndexExpr is `base[index]`.
type IndexExpr struct {
	span
	Base  Expr
	Index Expr
}

func (*IndexExpr) exprNode() {}

// UnaryOperator enumerates prefix operators.
type UnaryOperator int

const (
	OpLogicalNegation UnaryOperator = iota
	OpNegation
	OpBitwiseComplement
	OpAddressOf
	OpIndirection
)

// UnaryExpr is a prefix-operator expression.
type UnaryExpr struct {
	span
	Operator UnaryOperator
	Operand  Expr
}

func (*UnaryExpr) exprNode() {}

// BinaryOperator enumerates infix operators.
type BinaryOperator int

const (
	OpShortCircuitOr BinaryOperator = iota
	OpShortCircuitAnd
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpBitOr
	OpBitAnd
	OpBitXor
	OpShl
	OpShr
)

// BinaryExpr is an infix-operator expression.
type BinaryExpr struct {
	span
	Operator    BinaryOperator
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// CallExpr is `path(args...)`, either a function call or a type
// constructor invocation.
type CallExpr struct {
	span
	Path *Path
	Args []Expr
}

func (*CallExpr) exprNode() {}

// IdentExpr is a bare path used in value position.
type IdentExpr struct {
	span
	Path *Path
}

func (*IdentExpr) exprNode() {}

// TypeExpr is a bare path used in type position.
type TypeExpr struct {
	span
	Path *Path
}

func (*TypeExpr) exprNode() {}

// ----------------------------------------------------------------------------
// Statements

// A Stmt is any statement node.
type Stmt interface {
	Node
	stmtNode()
}

// CompoundStmt is a brace-delimited list of statements with its own
// directives (`use` at compound scope).
type CompoundStmt struct {
	span
	Directives []Directive
	Statements []Stmt
}

func (*CompoundStmt) stmtNode() {}

// AssignmentOperator enumerates `=`, `+=`, ....
type AssignmentOperator int

const (
	AssignEqual AssignmentOperator = iota
	AssignPlus
	AssignMinus
	AssignTimes
	AssignDivide
	AssignModulo
	AssignAnd
	AssignOr
	AssignXor
	AssignShiftRight
	AssignShiftLeft
)

// AssignmentStmt is `lhs op rhs`.
type AssignmentStmt struct {
	span
	Operator AssignmentOperator
	LHS, RHS Expr
}

func (*AssignmentStmt) stmtNode() {}

// IncDecOp distinguishes ++ from --.
type IncDecOp int

const (
	IncOp IncDecOp = iota
	DecOp
)

// IncDecStmt is `expr++` or `expr--`.
type IncDecStmt struct {
	span
	Op   IncDecOp
	Expr Expr
}

func (*IncDecStmt) stmtNode() {}

// CondBlock pairs a condition with the compound statement it guards, used
// for the if-clause and each else-if clause of an IfStmt.
type CondBlock struct {
	Cond Expr
	Body *CompoundStmt
}

// IfStmt is `if cond {..} else if cond {..} else {..}`.
type IfStmt struct {
	span
	Attributes    []*Attribute
	If            CondBlock
	ElseIfClauses []CondBlock
	Else          *CompoundStmt // nil if absent
}

func (*IfStmt) stmtNode() {}

// CaseSelector is one selector of a SwitchClause: either `default` or an
// expression.
type CaseSelector struct {
	span
	IsDefault bool
	Expr      Expr // nil if IsDefault
}

// SwitchClause is `case sel, sel2: { ... }`.
type SwitchClause struct {
	span
	CaseSelectors []*CaseSelector
	Body          *CompoundStmt
}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	span
	Attributes     []*Attribute
	Expr           Expr
	BodyAttributes []*Attribute
	Clauses        []*SwitchClause
}

func (*SwitchStmt) stmtNode() {}

// ContinuingStmt is the optional `continuing { ... break if expr; }` tail
// of a LoopStmt.
type ContinuingStmt struct {
	span
	Body    *CompoundStmt
	BreakIf Expr // nil if absent
}

// LoopStmt is `loop { ... continuing { ... } }`.
type LoopStmt struct {
	span
	Attributes []*Attribute
	Body       *CompoundStmt
	Continuing *ContinuingStmt // nil if absent
}

func (*LoopStmt) stmtNode() {}

// ForStmt is a C-style for loop.
type ForStmt struct {
	span
	Attributes  []*Attribute
	Initializer Stmt // nil if absent
	Condition   Expr // nil if absent
	Update      Stmt // nil if absent
	Body        *CompoundStmt
}

func (*ForStmt) stmtNode() {}

// WhileStmt is a while loop.
type WhileStmt struct {
	span
	Attributes []*Attribute
	Condition  Expr
	Body       *CompoundStmt
}

func (*WhileStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct{ span }

func (*BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct{ span }

func (*ContinueStmt) stmtNode() {}

// ReturnStmt is `return expr?;`.
type ReturnStmt struct {
	span
	Value Expr // nil if value-less
}

func (*ReturnStmt) stmtNode() {}

// DiscardStmt is `discard;`.
type DiscardStmt struct{ span }

func (*DiscardStmt) stmtNode() {}

// CallStmt is a function call used as a statement.
type CallStmt struct {
	span
	Call *CallExpr
}

func (*CallStmt) stmtNode() {}

// ConstAssertStmt is a const_assert used as a statement.
type ConstAssertStmt struct {
	span
	Assert *ConstAssert
}

func (*ConstAssertStmt) stmtNode() {}

// DeclStmt introduces a local declaration. Statements owns the *rest* of
// the enclosing block as children, per the scope-tree construction step
// the parser performs right after producing the flat statement list.
type DeclStmt struct {
	span
	Declaration *VarDecl
	Statements  []Stmt
}

func (*DeclStmt) stmtNode() {}
