// Package dsl implements the front end for the pattern-specification
// language of spec.md §6.2. spec.md treats this parser as an external
// collaborator described only by the AST it must deliver; this package
// supplies a concrete implementation, hand-rolled in the style of
// spec/lexer.go and spec/parser.go in the teacher (token kinds, row-
// tracked positions, *rgerr.Error on malformed input) but scanning
// source runes directly rather than replaying a pre-compiled lexer DFA
// (see DESIGN.md for why maleeni itself isn't used here).
package dsl

type tokenKind string

const (
	tokKWRule          = tokenKind("rule")
	tokKWStartSymbols  = tokenKind("startsymbols")
	tokKWPartial       = tokenKind("partial")
	tokKWUnreachable   = tokenKind("unreachable")
	tokID              = tokenKind("id")
	tokCode            = tokenKind("code")
	tokColon           = tokenKind(":")
	tokDot             = tokenKind(".")
	tokUnderscore      = tokenKind("_")
	tokBang            = tokenKind("!")
	tokSemi            = tokenKind(";")
	tokPipe            = tokenKind("|")
	tokStar            = tokenKind("*")
	tokLBrack          = tokenKind("[")
	tokRBrack          = tokenKind("]")
	tokLParen          = tokenKind("(")
	tokRParen          = tokenKind(")")
	tokEquals          = tokenKind("=")
	tokComma           = tokenKind(",")
	tokAt              = tokenKind("@")
	tokEOF             = tokenKind("eof")
)

type Pos struct {
	Row, Col int
}

type token struct {
	kind tokenKind
	text string
	pos  Pos
}
