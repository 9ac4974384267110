// Package mangling centralizes the deterministic name-escaping and
// expression-serialization rules shared by the Specializer (§4.5) and the
// Mangler (§4.7), so that two syntactically equivalent instantiations
// always produce identical mangled names (spec.md §9).
package mangling

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ncthbrt/mew/ast"
	"github.com/ncthbrt/mew/format"
)

// Escape doubles every underscore in s, so a single "_" can be used
// unambiguously as a separator by callers that join escaped components.
func Escape(s string) string {
	return strings.ReplaceAll(s, "_", "__")
}

// Serialize renders e as pretty-printed source text, strips whitespace,
// and expands every non-alphanumeric byte to an "_<decimal>" group. The
// result, further passed through Escape, is the canonical component used
// by both the Specializer's mangled clone names and the Mangler's
// reference-path joining.
func Serialize(e ast.Expr) string {
	text := format.Expr(e)
	var sb strings.Builder
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if isAlphanumeric(r) {
			sb.WriteRune(r)
			continue
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		for _, b := range buf[:n] {
			sb.WriteByte('_')
			sb.WriteString(strconv.Itoa(int(b)))
		}
	}
	return sb.String()
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// EscapedSerialize is Escape(Serialize(e)): the full escaped-component
// form of an expression, safe to join with single "_" separators.
func EscapedSerialize(e ast.Expr) string {
	return Escape(Serialize(e))
}

// SpecializedName computes the deterministic mangled name for a clone of
// a declaration named originalName specialized with args (in declaration
// order), per spec.md §4.5.
func SpecializedName(originalName string, args []*ast.TemplateArg) string {
	var sb strings.Builder
	sb.WriteString(Escape(originalName))
	for _, a := range args {
		sb.WriteByte('_')
		sb.WriteString(EscapedSerialize(a.Expr))
	}
	return sb.String()
}

// DeclaredName computes the flat mangled name for a declaration at module
// path names with local name n, per spec.md §4.7.
func DeclaredName(modulePath []string, n string) string {
	var sb strings.Builder
	for _, m := range modulePath {
		sb.WriteString(Escape(m))
		sb.WriteByte('_')
	}
	sb.WriteString(Escape(n))
	return sb.String()
}
