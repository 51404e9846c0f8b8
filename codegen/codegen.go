// Package codegen renders a compiled rule's DFA into the output file
// format of spec.md §6.4: the user-supplied header block, the generated
// DFA tables and action dispatcher, and the user-supplied trailer block.
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/nihei9/lrgrep/rgcompile"
)

// Options controls what Generate emits around the generated body
// (spec.md §6.4).
type Options struct {
	Header     string
	Trailer    string
	PackageName string
}

// Generate renders one text file concatenating Options.Header, the
// generated tables/dispatcher for every rule in result, and
// Options.Trailer.
func Generate(result *rgcompile.Result, opts Options) (string, error) {
	t, err := template.New("rule").Funcs(templateFuncs).Parse(ruleTemplate)
	if err != nil {
		return "", fmt.Errorf("parse codegen template: %w", err)
	}

	var body strings.Builder
	buildID := uuid.New().String()
	fmt.Fprintf(&body, "// Code generated by lrgrep. DO NOT EDIT.\n// build-id: %s\n\n", buildID)
	if opts.PackageName != "" {
		fmt.Fprintf(&body, "package %s\n\n", opts.PackageName)
	}

	for _, rr := range result.Rules {
		view := ruleView(rr)
		if err := t.Execute(&body, view); err != nil {
			return "", fmt.Errorf("render rule %q: %w", rr.Rule.Name, err)
		}
	}

	var out strings.Builder
	if opts.Header != "" {
		out.WriteString(opts.Header)
		out.WriteString("\n")
	}
	out.WriteString(body.String())
	if opts.Trailer != "" {
		out.WriteString("\n")
		out.WriteString(opts.Trailer)
	}
	return out.String(), nil
}

var templateFuncs = template.FuncMap{
	"quote": strconv.Quote,
}

type stateView struct {
	Index  int
	Trans  []transView
	Accept int // -1 if none
}

type transView struct {
	States []int
	To     int
}

type clauseView struct {
	Index       int
	Code        string
	Partial     bool
	Unreachable bool
}

type ruleViewData struct {
	Name    string
	Args    []string
	States  []stateView
	Clauses []clauseView
}

func ruleView(rr *rgcompile.RuleResult) ruleViewData {
	v := ruleViewData{Name: rr.Rule.Name, Args: rr.Rule.Args}
	for _, c := range rr.Rule.Clauses {
		v.Clauses = append(v.Clauses, clauseView{
			Index:       c.Index,
			Code:        c.Code,
			Partial:     c.Partial,
			Unreachable: c.Unreachable,
		})
	}

	for i := range rr.DFA.States {
		sv := stateView{Index: i, Accept: -1}
		if clause, ok := rr.DFA.Accept[i]; ok {
			sv.Accept = clause
		}
		for _, e := range rr.DFA.Trans[i] {
			states := e.Label.Values()
			ints := make([]int, len(states))
			for j, s := range states {
				ints[j] = s.Int()
			}
			sort.Ints(ints)
			sv.Trans = append(sv.Trans, transView{States: ints, To: e.To})
		}
		v.States = append(v.States, sv)
	}
	return v
}

const ruleTemplate = `
// rule {{.Name}} ({{range .Args}}{{.}} {{end}})
var {{.Name}}States = []struct {
	Accept int
	Trans  []struct {
		States []int
		To     int
	}
}{
{{- range .States}}
	{Accept: {{.Accept}}, Trans: []struct{States []int; To int}{
{{- range .Trans}}
		{States: {{"{"}}{{range $i, $s := .States}}{{if $i}}, {{end}}{{$s}}{{end}}{{"}"}}, To: {{.To}}},
{{- end}}
	}},
{{- end}}
}

func {{.Name}}Act(clause int) {
	switch clause {
{{- range .Clauses}}
{{- if not .Unreachable}}
	case {{.Index}}:
		{{.Code}}
{{- end}}
{{- end}}
	}
}
`
