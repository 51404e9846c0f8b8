// Package pattern implements the RE/KRE intermediate representation of
// spec.md §3 ("Pattern IR") and §4.D: regular expressions over LR(1)
// state sets, with a distinguished Reduce operator, translated from the
// DSL's surface syntax and tagged with clause continuations.
package pattern

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/lrgrep/automaton"
)

// Pos is a source position, carried through for diagnostics (spec.md §3:
// "Each [RE node] carries ... a source position").
type Pos struct {
	Row, Col int
}

type REKind int

const (
	KindSet REKind = iota
	KindAlt
	KindSeq
	KindStar
	KindReduce
)

// RE is a pattern IR node (spec.md §3 "Pattern IR"). Nodes are interned by
// a Builder so structurally identical subexpressions share one *RE value
// and one ID, which is what spec.md means by "carries a unique id (for
// structural hashing)".
type RE struct {
	ID       int
	Kind     REKind
	States   []automaton.S // Set: sorted, deduplicated
	Capture  *string       // Set: optional capture name (spec.md §9 open question)
	Children []*RE         // Alt/Seq: the list; Star: Children[0]
	Pos      Pos
}

func (re *RE) String() string {
	switch re.Kind {
	case KindSet:
		var b strings.Builder
		b.WriteString("{")
		for i, s := range re.States {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%d", s)
		}
		b.WriteString("}")
		if re.Capture != nil {
			fmt.Fprintf(&b, "@%s", *re.Capture)
		}
		return b.String()
	case KindAlt:
		parts := make([]string, len(re.Children))
		for i, c := range re.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, "|") + ")"
	case KindSeq:
		parts := make([]string, len(re.Children))
		for i, c := range re.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, ";") + ")"
	case KindStar:
		return "(" + re.Children[0].String() + ")*"
	case KindReduce:
		return "!"
	default:
		return "?"
	}
}

// Builder interns RE (and, in kre.go, KRE/KRESet) nodes for one
// compilation unit.
type Builder struct {
	bySetKey  map[string]*RE
	byAltKey  map[string]*RE
	bySeqKey  map[string]*RE
	byStarKey map[int]*RE
	reduce    *RE
	nextID    int

	doneCache []*KRE
	byMoreKey map[string]*KRE
}

func NewBuilder() *Builder {
	return &Builder{
		bySetKey:  map[string]*RE{},
		byAltKey:  map[string]*RE{},
		bySeqKey:  map[string]*RE{},
		byStarKey: map[int]*RE{},
		byMoreKey: map[string]*KRE{},
	}
}

func (b *Builder) alloc() int {
	id := b.nextID
	b.nextID++
	return id
}

// Set builds (or returns the interned) Set(states, capture) node.
func (b *Builder) Set(states []automaton.S, capture *string, pos Pos) *RE {
	sorted := append([]automaton.S(nil), states...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	sorted = dedupS(sorted)

	key := setKey(sorted, capture)
	if re, ok := b.bySetKey[key]; ok {
		return re
	}
	re := &RE{ID: b.alloc(), Kind: KindSet, States: sorted, Capture: capture, Pos: pos}
	b.bySetKey[key] = re
	return re
}

func (b *Builder) Reduce(pos Pos) *RE {
	if b.reduce == nil {
		b.reduce = &RE{ID: b.alloc(), Kind: KindReduce, Pos: pos}
	}
	return b.reduce
}

// Alt flattens nested Alt nodes (spec.md §4.D: "Seq/Alt flatten").
func (b *Builder) Alt(children []*RE, pos Pos) *RE {
	flat := flattenKind(children, KindAlt)
	if len(flat) == 1 {
		return flat[0]
	}
	key := childKey(flat)
	if re, ok := b.byAltKey[key]; ok {
		return re
	}
	re := &RE{ID: b.alloc(), Kind: KindAlt, Children: flat, Pos: pos}
	b.byAltKey[key] = re
	return re
}

func (b *Builder) Seq(children []*RE, pos Pos) *RE {
	flat := flattenKind(children, KindSeq)
	if len(flat) == 0 {
		// The empty sequence behaves as the empty-language Star per
		// spec.md §8's boundary behavior; represent it as Star of an
		// empty Alt so the derivation core's Star case handles it
		// uniformly (see prederive in package derive).
		return b.Star(b.Alt(nil, pos), pos)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	key := childKey(flat)
	if re, ok := b.bySeqKey[key]; ok {
		return re
	}
	re := &RE{ID: b.alloc(), Kind: KindSeq, Children: flat, Pos: pos}
	b.bySeqKey[key] = re
	return re
}

func (b *Builder) Star(child *RE, pos Pos) *RE {
	if re, ok := b.byStarKey[child.ID]; ok {
		return re
	}
	re := &RE{ID: b.alloc(), Kind: KindStar, Children: []*RE{child}, Pos: pos}
	b.byStarKey[child.ID] = re
	return re
}

func flattenKind(children []*RE, kind REKind) []*RE {
	var out []*RE
	for _, c := range children {
		if c.Kind == kind {
			out = append(out, c.Children...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

func dedupS(sorted []automaton.S) []automaton.S {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}

func setKey(states []automaton.S, capture *string) string {
	var b strings.Builder
	for _, s := range states {
		fmt.Fprintf(&b, "%d,", s)
	}
	if capture != nil {
		fmt.Fprintf(&b, "@%s", *capture)
	}
	return b.String()
}

func childKey(children []*RE) string {
	var b strings.Builder
	for _, c := range children {
		fmt.Fprintf(&b, "%d,", c.ID)
	}
	return b.String()
}
