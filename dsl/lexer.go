package dsl

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nihei9/lrgrep/rgerr"
)

var keywords = map[string]tokenKind{
	"rule":         tokKWRule,
	"startsymbols": tokKWStartSymbols,
	"partial":      tokKWPartial,
	"unreachable":  tokKWUnreachable,
}

type lexer struct {
	file string
	src  []rune
	pos  int
	row  int
	col  int
}

func newLexer(file, src string) *lexer {
	return &lexer{file: file, src: []rune(src), row: 1, col: 1}
}

func (l *lexer) curPos() Pos { return Pos{Row: l.row, Col: l.col} }

func (l *lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *lexer) advance() (rune, bool) {
	r, ok := l.peekRune()
	if !ok {
		return 0, false
	}
	l.pos++
	if r == '\n' {
		l.row++
		l.col = 1
	} else {
		l.col++
	}
	return r, true
}

func (l *lexer) skipWSAndComments() {
	for {
		r, ok := l.peekRune()
		if !ok {
			return
		}
		if unicode.IsSpace(r) {
			l.advance()
			continue
		}
		if r == '#' {
			for {
				r, ok := l.peekRune()
				if !ok || r == '\n' {
					break
				}
				l.advance()
			}
			continue
		}
		return
	}
}

// next returns the next token, or a *rgerr.Error (KindLexical) on a
// malformed one.
func (l *lexer) next() (*token, error) {
	l.skipWSAndComments()
	pos := l.curPos()

	r, ok := l.peekRune()
	if !ok {
		return &token{kind: tokEOF, pos: pos}, nil
	}

	switch r {
	case ':':
		l.advance()
		return &token{kind: tokColon, pos: pos}, nil
	case '.':
		l.advance()
		return &token{kind: tokDot, pos: pos}, nil
	case '_':
		// '_' alone is the wildcard atom; '_' followed by an identifier
		// continuation is a normal identifier (e.g. "_tmp").
		save := *l
		l.advance()
		if r2, ok := l.peekRune(); ok && isIDCont(r2) {
			*l = save
			return l.lexIdentOrKeyword(pos)
		}
		return &token{kind: tokUnderscore, pos: pos}, nil
	case '!':
		l.advance()
		return &token{kind: tokBang, pos: pos}, nil
	case ';':
		l.advance()
		return &token{kind: tokSemi, pos: pos}, nil
	case '|':
		l.advance()
		return &token{kind: tokPipe, pos: pos}, nil
	case '*':
		l.advance()
		return &token{kind: tokStar, pos: pos}, nil
	case '[':
		l.advance()
		return &token{kind: tokLBrack, pos: pos}, nil
	case ']':
		l.advance()
		return &token{kind: tokRBrack, pos: pos}, nil
	case '(':
		l.advance()
		return &token{kind: tokLParen, pos: pos}, nil
	case ')':
		l.advance()
		return &token{kind: tokRParen, pos: pos}, nil
	case '=':
		l.advance()
		return &token{kind: tokEquals, pos: pos}, nil
	case ',':
		l.advance()
		return &token{kind: tokComma, pos: pos}, nil
	case '@':
		l.advance()
		return &token{kind: tokAt, pos: pos}, nil
	case '{':
		return l.lexCode(pos)
	}

	if isIDStart(r) {
		return l.lexIdentOrKeyword(pos)
	}

	return nil, rgerr.Lexical(l.file, pos.Row, pos.Col, fmt.Errorf("unexpected character %q", r))
}

func isIDStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIDCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func (l *lexer) lexIdentOrKeyword(pos Pos) (*token, error) {
	var b strings.Builder
	for {
		r, ok := l.peekRune()
		if !ok || !isIDCont(r) {
			break
		}
		b.WriteRune(r)
		l.advance()
	}
	text := b.String()
	if kw, ok := keywords[text]; ok {
		return &token{kind: kw, text: text, pos: pos}, nil
	}
	return &token{kind: tokID, text: text, pos: pos}, nil
}

// lexCode scans a '{' ... '}' action body, tracking brace nesting so the
// user's code may itself contain braces (spec.md §6.2: clause ::= pattern
// ('partial'? '{' code '}' | 'unreachable')).
func (l *lexer) lexCode(pos Pos) (*token, error) {
	l.advance() // consume '{'
	depth := 1
	var b strings.Builder
	for {
		r, ok := l.advance()
		if !ok {
			return nil, rgerr.Lexical(l.file, pos.Row, pos.Col, fmt.Errorf("unclosed action block"))
		}
		switch r {
		case '{':
			depth++
			b.WriteRune(r)
		case '}':
			depth--
			if depth == 0 {
				return &token{kind: tokCode, text: b.String(), pos: pos}, nil
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
}
