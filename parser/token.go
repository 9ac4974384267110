// Package parser implements the lexer and recursive-descent parser that
// produce an ast.TranslationUnit from WESL source text. The shape of the
// tree it must produce is fixed by the ast package; the grammar itself
// (lexical rules, operator precedence, the generics/template-argument
// disambiguation heuristic) is this package's own concern, grounded on
// the scanning and parsing conventions of cuelang.org/go/cue/scanner and
// cuelang.org/go/cue/parser.
package parser

import "github.com/ncthbrt/mew/token"

// tokKind enumerates lexical token kinds. Keywords are not distinguished
// lexically from identifiers; the parser recognizes them by text.
type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber

	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokComma
	tokSemicolon
	tokColon
	tokColonColon
	tokArrow
	tokAt
	tokDot

	tokAssign
	tokEq
	tokNeq
	tokLt
	tokGt
	tokLte
	tokGte

	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent

	tokPlusPlus
	tokMinusMinus

	tokPlusEq
	tokMinusEq
	tokStarEq
	tokSlashEq
	tokPercentEq
	tokAmpEq
	tokPipeEq
	tokCaretEq
	tokShlEq
	tokShrEq

	tokAmpAmp
	tokPipePipe
	tokAmp
	tokPipe
	tokCaret

	tokShl
	tokShr

	tokNot
	tokTilde
)

// lexToken is one lexical token: its kind, literal text, and source span.
type lexToken struct {
	kind tokKind
	text string
	pos  token.Pos
	end  token.Pos
}
