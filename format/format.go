// Package format pretty-prints a WESL/WGSL AST back to source text. It is
// the single source of truth for how an expression renders as text: the
// Mangler and Specializer derive their deterministic name-mangling
// serialization from Expr so that two syntactically equivalent
// instantiations always produce the same mangled name (spec.md §9:
// "centralize the serializer").
//
// Grounded on cuelang.org/go/cue/format, which plays the identical role
// for CUE: a single recursive printer driven by a type switch over every
// AST node, with no separate "canonical form" computed another way.
package format

import (
	"fmt"
	"strings"

	"github.com/ncthbrt/mew/ast"
)

// Node pretty-prints any translation unit, declaration, directive,
// statement or expression node to source text.
func Node(n ast.Node) string {
	var sb strings.Builder
	switch x := n.(type) {
	case *ast.TranslationUnit:
		writeTranslationUnit(&sb, x)
	case ast.Decl:
		writeDecl(&sb, x, 0)
	case ast.Directive:
		writeDirective(&sb, x, 0)
	case ast.Stmt:
		writeStmt(&sb, x, 0)
	case ast.Expr:
		writeExpr(&sb, x)
	default:
		fmt.Fprintf(&sb, "/* unsupported node %T */", n)
	}
	return sb.String()
}

// TranslationUnit pretty-prints a whole translation unit.
func TranslationUnit(tu *ast.TranslationUnit) string {
	var sb strings.Builder
	writeTranslationUnit(&sb, tu)
	return sb.String()
}

// Expr pretty-prints a single expression. Used directly by the mangling
// serializer (spec.md §4.5, §4.7): its output, with whitespace stripped,
// is the canonical serialization of the expression.
func Expr(e ast.Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

// Path pretty-prints a path, including template argument lists.
func Path(p *ast.Path) string {
	var sb strings.Builder
	writePath(&sb, p)
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("    ")
	}
}

func writeTranslationUnit(sb *strings.Builder, tu *ast.TranslationUnit) {
	for _, d := range tu.GlobalDirectives {
		writeDirective(sb, d, 0)
		sb.WriteByte('\n')
	}
	for i, d := range tu.GlobalDeclarations {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeDecl(sb, d, 0)
		sb.WriteByte('\n')
	}
}

func writeDirective(sb *strings.Builder, d ast.Directive, depth int) {
	indent(sb, depth)
	switch x := d.(type) {
	case *ast.DiagnosticDirective:
		sev := [...]string{"error", "warning", "info", "off"}[x.Severity]
		fmt.Fprintf(sb, "diagnostic(%s, %s);", sev, x.RuleName)
	case *ast.EnableDirective:
		fmt.Fprintf(sb, "enable %s;", strings.Join(x.Extensions, ", "))
	case *ast.RequiresDirective:
		fmt.Fprintf(sb, "requires %s;", strings.Join(x.Extensions, ", "))
	case *ast.UseDirective:
		sb.WriteString("use ")
		writePathParts(sb, x.Path)
		if len(x.Path) > 0 {
			sb.WriteString("::")
		}
		writeUseContent(sb, x)
		sb.WriteByte(';')
	case *ast.ExtendDirective:
		sb.WriteString("extend ")
		writePathParts(sb, x.Path)
		sb.WriteByte(';')
	}
}

func writeUseContent(sb *strings.Builder, u *ast.UseDirective) {
	if u.Item != nil {
		sb.WriteString(u.Item.Name)
		if u.Item.Rename != "" {
			fmt.Fprintf(sb, " as %s", u.Item.Rename)
		}
		return
	}
	sb.WriteByte('{')
	for i, c := range u.Collection {
		if i > 0 {
			sb.WriteString(", ")
		}
		writePathParts(sb, c.Path)
		if len(c.Path) > 0 {
			sb.WriteString("::")
		}
		writeUseContent(sb, c)
	}
	sb.WriteByte('}')
}

func writeTemplateParams(sb *strings.Builder, params []*ast.FormalTemplateParameter) {
	if len(params) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.Default != nil {
			sb.WriteString(" = ")
			writeExpr(sb, p.Default)
		}
	}
	sb.WriteByte('>')
}

func writeAttrs(sb *strings.Builder, attrs []*ast.Attribute, depth int) {
	for _, a := range attrs {
		indent(sb, depth)
		fmt.Fprintf(sb, "@%s", a.Name)
		if a.Args != nil {
			sb.WriteByte('(')
			for i, arg := range a.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				writeExpr(sb, arg)
			}
			sb.WriteByte(')')
		}
		sb.WriteByte('\n')
	}
}

func writeDecl(sb *strings.Builder, d ast.Decl, depth int) {
	switch x := d.(type) {
	case *ast.VarDecl:
		writeAttrs(sb, x.Attributes, depth)
		indent(sb, depth)
		sb.WriteString(x.Kind.String())
		writeTemplateParams(sb, x.TemplateParameters)
		sb.WriteByte(' ')
		sb.WriteString(x.Name)
		if x.Type != nil {
			sb.WriteString(": ")
			writeExpr(sb, x.Type)
		}
		if x.Initializer != nil {
			sb.WriteString(" = ")
			writeExpr(sb, x.Initializer)
		}
		sb.WriteByte(';')
	case *ast.Alias:
		indent(sb, depth)
		sb.WriteString("alias ")
		sb.WriteString(x.Name)
		writeTemplateParams(sb, x.TemplateParameters)
		sb.WriteString(" = ")
		writeExpr(sb, x.Type)
		sb.WriteByte(';')
	case *ast.Struct:
		indent(sb, depth)
		sb.WriteString("struct ")
		sb.WriteString(x.Name)
		writeTemplateParams(sb, x.TemplateParameters)
		sb.WriteString(" {\n")
		for _, m := range x.Members {
			writeAttrs(sb, m.Attributes, depth+1)
			indent(sb, depth+1)
			fmt.Fprintf(sb, "%s: ", m.Name)
			writeExpr(sb, m.Type)
			sb.WriteString(",\n")
		}
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.Function:
		writeAttrs(sb, x.Attributes, depth)
		indent(sb, depth)
		sb.WriteString("fn ")
		sb.WriteString(x.Name)
		writeTemplateParams(sb, x.TemplateParameters)
		sb.WriteByte('(')
		for i, p := range x.Parameters {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s: ", p.Name)
			writeExpr(sb, p.Type)
		}
		sb.WriteByte(')')
		if x.ReturnType != nil {
			sb.WriteString(" -> ")
			writeExpr(sb, x.ReturnType)
		}
		sb.WriteString(" {\n")
		writeStmtList(sb, x.Body.Statements, depth+1)
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.ConstAssert:
		indent(sb, depth)
		sb.WriteString("const_assert ")
		writeExpr(sb, x.Expr)
		sb.WriteByte(';')
	case *ast.Module:
		writeAttrs(sb, x.Attributes, depth)
		indent(sb, depth)
		sb.WriteString("mod ")
		sb.WriteString(x.Name)
		writeTemplateParams(sb, x.TemplateParameters)
		sb.WriteString(" {\n")
		for _, dd := range x.Directives {
			writeDirective(sb, dd, depth+1)
			sb.WriteByte('\n')
		}
		for _, m := range x.Members {
			writeDecl(sb, m, depth+1)
			sb.WriteByte('\n')
		}
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.VoidDecl:
		indent(sb, depth)
		sb.WriteByte(';')
	}
}

func writeStmtList(sb *strings.Builder, stmts []ast.Stmt, depth int) {
	for _, s := range stmts {
		writeStmt(sb, s, depth)
		sb.WriteByte('\n')
	}
}

func writeStmt(sb *strings.Builder, stmt ast.Stmt, depth int) {
	switch x := stmt.(type) {
	case *ast.CompoundStmt:
		indent(sb, depth)
		sb.WriteString("{\n")
		for _, dd := range x.Directives {
			writeDirective(sb, dd, depth+1)
			sb.WriteByte('\n')
		}
		writeStmtList(sb, x.Statements, depth+1)
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.AssignmentStmt:
		indent(sb, depth)
		writeExpr(sb, x.LHS)
		sb.WriteString(" " + assignOpString(x.Operator) + " ")
		writeExpr(sb, x.RHS)
		sb.WriteByte(';')
	case *ast.IncDecStmt:
		indent(sb, depth)
		writeExpr(sb, x.Expr)
		if x.Op == ast.IncOp {
			sb.WriteString("++;")
		} else {
			sb.WriteString("--;")
		}
	case *ast.IfStmt:
		indent(sb, depth)
		sb.WriteString("if ")
		writeExpr(sb, x.If.Cond)
		sb.WriteString(" {\n")
		writeStmtList(sb, x.If.Body.Statements, depth+1)
		indent(sb, depth)
		sb.WriteByte('}')
		for _, c := range x.ElseIfClauses {
			sb.WriteString(" else if ")
			writeExpr(sb, c.Cond)
			sb.WriteString(" {\n")
			writeStmtList(sb, c.Body.Statements, depth+1)
			indent(sb, depth)
			sb.WriteByte('}')
		}
		if x.Else != nil {
			sb.WriteString(" else {\n")
			writeStmtList(sb, x.Else.Statements, depth+1)
			indent(sb, depth)
			sb.WriteByte('}')
		}
	case *ast.SwitchStmt:
		indent(sb, depth)
		sb.WriteString("switch ")
		writeExpr(sb, x.Expr)
		sb.WriteString(" {\n")
		for _, c := range x.Clauses {
			indent(sb, depth+1)
			sb.WriteString("case ")
			for i, sel := range c.CaseSelectors {
				if i > 0 {
					sb.WriteString(", ")
				}
				if sel.IsDefault {
					sb.WriteString("default")
				} else {
					writeExpr(sb, sel.Expr)
				}
			}
			sb.WriteString(": {\n")
			writeStmtList(sb, c.Body.Statements, depth+2)
			indent(sb, depth+1)
			sb.WriteString("}\n")
		}
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.LoopStmt:
		indent(sb, depth)
		sb.WriteString("loop {\n")
		writeStmtList(sb, x.Body.Statements, depth+1)
		if x.Continuing != nil {
			indent(sb, depth+1)
			sb.WriteString("continuing {\n")
			writeStmtList(sb, x.Continuing.Body.Statements, depth+2)
			if x.Continuing.BreakIf != nil {
				indent(sb, depth+2)
				sb.WriteString("break if ")
				writeExpr(sb, x.Continuing.BreakIf)
				sb.WriteString(";\n")
			}
			indent(sb, depth+1)
			sb.WriteString("}\n")
		}
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.ForStmt:
		indent(sb, depth)
		sb.WriteString("for (")
		if x.Initializer != nil {
			// writeStmt already ends the initializer with its ';'.
			writeStmt(sb, x.Initializer, 0)
		} else {
			sb.WriteByte(';')
		}
		sb.WriteByte(' ')
		if x.Condition != nil {
			writeExpr(sb, x.Condition)
		}
		sb.WriteString("; ")
		if x.Update != nil {
			var upd strings.Builder
			writeStmt(&upd, x.Update, 0)
			sb.WriteString(strings.TrimSuffix(upd.String(), ";"))
		}
		sb.WriteString(") {\n")
		writeStmtList(sb, x.Body.Statements, depth+1)
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.WhileStmt:
		indent(sb, depth)
		sb.WriteString("while ")
		writeExpr(sb, x.Condition)
		sb.WriteString(" {\n")
		writeStmtList(sb, x.Body.Statements, depth+1)
		indent(sb, depth)
		sb.WriteByte('}')
	case *ast.BreakStmt:
		indent(sb, depth)
		sb.WriteString("break;")
	case *ast.ContinueStmt:
		indent(sb, depth)
		sb.WriteString("continue;")
	case *ast.ReturnStmt:
		indent(sb, depth)
		sb.WriteString("return")
		if x.Value != nil {
			sb.WriteByte(' ')
			writeExpr(sb, x.Value)
		}
		sb.WriteByte(';')
	case *ast.DiscardStmt:
		indent(sb, depth)
		sb.WriteString("discard;")
	case *ast.CallStmt:
		indent(sb, depth)
		writeExpr(sb, x.Call)
		sb.WriteByte(';')
	case *ast.ConstAssertStmt:
		writeDecl(sb, x.Assert, depth)
	case *ast.DeclStmt:
		writeDecl(sb, x.Declaration, depth)
		for _, s := range x.Statements {
			sb.WriteByte('\n')
			writeStmt(sb, s, depth)
		}
	}
}

func writeExpr(sb *strings.Builder, e ast.Expr) {
	switch x := e.(type) {
	case *ast.BasicLit:
		sb.WriteString(x.Value)
	case *ast.ParenExpr:
		sb.WriteByte('(')
		writeExpr(sb, x.X)
		sb.WriteByte(')')
	case *ast.NamedComponentExpr:
		writeExpr(sb, x.Base)
		sb.WriteByte('.')
		sb.WriteString(x.Component)
	case *ast.IndexExpr:
		writeExpr(sb, x.Base)
		sb.WriteByte('[')
		writeExpr(sb, x.Index)
		sb.WriteByte(']')
	case *ast.UnaryExpr:
		sb.WriteString(unaryOpString(x.Operator))
		writeExpr(sb, x.Operand)
	case *ast.BinaryExpr:
		writeExpr(sb, x.Left)
		sb.WriteString(" " + binaryOpString(x.Operator) + " ")
		writeExpr(sb, x.Right)
	case *ast.CallExpr:
		writePath(sb, x.Path)
		sb.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, a)
		}
		sb.WriteByte(')')
	case *ast.IdentExpr:
		writePath(sb, x.Path)
	case *ast.TypeExpr:
		writePath(sb, x.Path)
	}
}

func writePath(sb *strings.Builder, p *ast.Path) {
	if p == nil {
		return
	}
	writePathParts(sb, p.Parts)
}

func writePathParts(sb *strings.Builder, parts []*ast.PathPart) {
	for i, part := range parts {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(part.Name)
		if len(part.TemplateArgs) > 0 {
			sb.WriteByte('<')
			for j, a := range part.TemplateArgs {
				if j > 0 {
					sb.WriteString(", ")
				}
				if a.ArgName != "" {
					sb.WriteString(a.ArgName)
					sb.WriteString(" = ")
				}
				writeExpr(sb, a.Expr)
			}
			sb.WriteByte('>')
		}
	}
}

func assignOpString(op ast.AssignmentOperator) string {
	return [...]string{"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ">>=", "<<="}[op]
}

func unaryOpString(op ast.UnaryOperator) string {
	return [...]string{"!", "-", "~", "&", "*"}[op]
}

func binaryOpString(op ast.BinaryOperator) string {
	return [...]string{
		"||", "&&", "+", "-", "*", "/", "%",
		"==", "!=", "<", "<=", ">", ">=",
		"|", "&", "^", "<<", ">>",
	}[op]
}
