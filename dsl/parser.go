package dsl

import (
	"fmt"

	"github.com/nihei9/lrgrep/rgerr"
)

// Parse parses one pattern-specification file (spec.md §6.2).
func Parse(file, src string) (*Entry, error) {
	p := &parser{file: file, lex: newLexer(file, src)}
	if _, err := p.fill(); err != nil {
		return nil, err
	}
	return p.parseEntry()
}

type parser struct {
	file string
	lex  *lexer
	tok  *token
}

func (p *parser) fill() (*token, error) {
	t, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	p.tok = t
	return t, nil
}

func (p *parser) errf(format string, args ...any) error {
	return rgerr.Parse(p.file, p.tok.pos.Row, p.tok.pos.Col, fmt.Errorf(format, args...))
}

func (p *parser) at(k tokenKind) bool { return p.tok.kind == k }

func (p *parser) expect(k tokenKind) (*token, error) {
	if !p.at(k) {
		return nil, p.errf("expected %s, found %s %q", k, p.tok.kind, p.tok.text)
	}
	t := p.tok
	if _, err := p.fill(); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *parser) parseEntry() (*Entry, error) {
	e := &Entry{}
	if p.at(tokKWStartSymbols) {
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokEquals); err != nil {
			return nil, err
		}
		names, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		e.StartSymbols = names
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
	}
	for p.at(tokKWRule) {
		r, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		e.Rules = append(e.Rules, r)
	}
	if !p.at(tokEOF) {
		return nil, p.errf("expected %s or end of input, found %s %q", tokKWRule, p.tok.kind, p.tok.text)
	}
	if len(e.Rules) == 0 {
		return nil, p.errf("expected at least one rule")
	}
	return e, nil
}

func (p *parser) parseNameList() ([]string, error) {
	var names []string
	id, err := p.expect(tokID)
	if err != nil {
		return nil, err
	}
	names = append(names, id.text)
	for p.at(tokComma) {
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		id, err := p.expect(tokID)
		if err != nil {
			return nil, err
		}
		names = append(names, id.text)
	}
	return names, nil
}

func (p *parser) parseRule() (*Rule, error) {
	pos := p.tok.pos
	if _, err := p.expect(tokKWRule); err != nil {
		return nil, err
	}
	name, err := p.expect(tokID)
	if err != nil {
		return nil, err
	}
	r := &Rule{Name: name.text, Pos: pos}

	if p.at(tokLParen) {
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		if !p.at(tokRParen) {
			args, err := p.parseNameList()
			if err != nil {
				return nil, err
			}
			r.Args = args
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(tokEquals); err != nil {
		return nil, err
	}

	for !p.at(tokEOF) && !p.at(tokKWRule) && !p.at(tokKWStartSymbols) {
		if p.at(tokSemi) {
			if _, err := p.fill(); err != nil {
				return nil, err
			}
			continue
		}
		c, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		r.Clauses = append(r.Clauses, c)
	}
	if len(r.Clauses) == 0 {
		return nil, p.errf("rule %q has no clauses", r.Name)
	}
	return r, nil
}

// parseClause implements `clause ::= pattern ('partial'? '{' code '}' |
// 'unreachable')` (spec.md §6.2, extended with the `unreachable`
// completeness clause of SPEC_FULL.md §3.H).
func (p *parser) parseClause() (*Clause, error) {
	pos := p.tok.pos
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	c := &Clause{Pattern: pat, Pos: pos}

	if p.at(tokKWUnreachable) {
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		c.Unreachable = true
		return c, nil
	}

	if p.at(tokKWPartial) {
		c.Partial = true
		if _, err := p.fill(); err != nil {
			return nil, err
		}
	}

	code, err := p.expect(tokCode)
	if err != nil {
		return nil, err
	}
	c.Code = code.text
	return c, nil
}

// parsePattern ::= alt, the lowest-precedence production of `pattern ::=
// term+` once '|' (Alt) and ';' (explicit Seq) are taken into account.
func (p *parser) parsePattern() (*Pattern, error) {
	return p.parseAlt()
}

func (p *parser) parseAlt() (*Pattern, error) {
	pos := p.tok.pos
	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	children := []*Pattern{first}
	for p.at(tokPipe) {
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		next, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}
	if len(children) == 1 {
		return first, nil
	}
	return &Pattern{Kind: PatAlt, Children: children, Pos: pos}, nil
}

// parseSeq collects juxtaposed (and/or ';'-separated) terms into one
// sequence (spec.md §6.2 `pattern ::= term+`, with `pattern ';' pattern`
// as an explicit alternative to bare juxtaposition). A ';' between terms
// is consumed as a sequence separator only when a term actually follows
// it; otherwise it is left for the caller (parseClause's clause-ending
// '{'/'unreachable', or parseRule's between-clause ';') to handle, so
// the one token of lookahead this needs is done via a lexer
// save/restore, the same trick parseItem already uses for its LHS
// lookahead.
func (p *parser) parseSeq() (*Pattern, error) {
	pos := p.tok.pos
	var children []*Pattern
	for p.startsTerm() {
		t, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		children = append(children, t)

		if p.at(tokSemi) {
			savedLex := *p.lex
			savedTok := p.tok
			if _, err := p.fill(); err != nil {
				return nil, err
			}
			if !p.startsTerm() {
				*p.lex = savedLex
				p.tok = savedTok
			}
		}
	}
	if len(children) == 0 {
		return nil, p.errf("expected a pattern term, found %s %q", p.tok.kind, p.tok.text)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return &Pattern{Kind: PatSeq, Children: children, Pos: pos}, nil
}

func (p *parser) startsTerm() bool {
	switch p.tok.kind {
	case tokID, tokDot, tokUnderscore, tokBang, tokLBrack, tokLParen:
		return true
	default:
		return false
	}
}

func (p *parser) parsePostfix() (*Pattern, error) {
	pos := p.tok.pos
	prim, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.at(tokStar) {
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		prim = &Pattern{Kind: PatStar, Children: []*Pattern{prim}, Pos: pos}
	}
	return prim, nil
}

func (p *parser) parsePrimary() (*Pattern, error) {
	pos := p.tok.pos
	switch p.tok.kind {
	case tokBang:
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		return &Pattern{Kind: PatReduce, Pos: pos}, nil

	case tokLParen:
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		inner, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return p.maybeCapture(inner)

	case tokLBrack:
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		return p.maybeCapture(&Pattern{Kind: PatItem, Item: item, Pos: pos})

	case tokDot:
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		return p.maybeCapture(&Pattern{Kind: PatAtom, Atom: &AtomNode{IsWildcard: true}, Pos: pos})

	case tokUnderscore:
		if _, err := p.fill(); err != nil {
			return nil, err
		}
		return p.maybeCapture(&Pattern{Kind: PatAtom, Atom: &AtomNode{IsAny: true}, Pos: pos})

	case tokID:
		name, err := p.expect(tokID)
		if err != nil {
			return nil, err
		}
		return p.maybeCapture(&Pattern{Kind: PatAtom, Atom: &AtomNode{Symbol: name.text}, Pos: pos})

	default:
		return nil, p.errf("expected a pattern term, found %s %q", p.tok.kind, p.tok.text)
	}
}

func (p *parser) maybeCapture(pat *Pattern) (*Pattern, error) {
	if !p.at(tokAt) {
		return pat, nil
	}
	if _, err := p.fill(); err != nil {
		return nil, err
	}
	name, err := p.expect(tokID)
	if err != nil {
		return nil, err
	}
	pat.Capture = &name.text
	return pat, nil
}

// parseItem implements `item ::= (nt ':')? symbol* '.' symbol*`
// (spec.md §6.2). Prefix/Suffix are collected in source order (left to
// right); the translator in package pattern is responsible for reversing
// Prefix to match automaton.ItemTemplate's nearest-to-dot-first
// convention.
func (p *parser) parseItem() (*ItemNode, error) {
	if _, err := p.expect(tokLBrack); err != nil {
		return nil, err
	}

	item := &ItemNode{}

	if p.at(tokID) {
		savedLex := *p.lex
		savedTok := p.tok
		id, err := p.expect(tokID)
		if err != nil {
			return nil, err
		}
		if p.at(tokColon) {
			if _, err := p.fill(); err != nil {
				return nil, err
			}
			item.LHS = id.text
		} else {
			*p.lex = savedLex
			p.tok = savedTok
		}
	}

	for p.at(tokID) || p.at(tokUnderscore) {
		sym, err := p.parseItemSymbol()
		if err != nil {
			return nil, err
		}
		item.Prefix = append(item.Prefix, sym)
	}

	if _, err := p.expect(tokDot); err != nil {
		return nil, err
	}

	for p.at(tokID) || p.at(tokUnderscore) {
		sym, err := p.parseItemSymbol()
		if err != nil {
			return nil, err
		}
		item.Suffix = append(item.Suffix, sym)
	}

	if _, err := p.expect(tokRBrack); err != nil {
		return nil, err
	}

	return item, nil
}

// parseItemSymbol reads one symbol name or the '_' wildcard within an
// item template, represented as "" for the wildcard (resolved by the
// translator, which maps "" to a nil *automaton.Symbol).
func (p *parser) parseItemSymbol() (string, error) {
	if p.at(tokUnderscore) {
		if _, err := p.fill(); err != nil {
			return "", err
		}
		return "", nil
	}
	id, err := p.expect(tokID)
	if err != nil {
		return "", err
	}
	return id.text, nil
}
