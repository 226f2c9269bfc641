package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/PunGy/math-expression-parser/grammar"
)

var describeFlags = struct {
	json *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the parsing table of the expression grammar",
		Args:  cobra.NoArgs,
		RunE:  runDescribe,
	}
	describeFlags.json = cmd.Flags().Bool("json", false, "print the report in JSON format")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			retErr = fmt.Errorf("an unexpected error occurred: %v\n%v", v, string(debug.Stack()))
		}
	}()

	_, report, err := compiledGrammar()
	if err != nil {
		return err
	}

	if *describeFlags.json {
		d, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(d))
		return nil
	}

	return writeReport(os.Stdout, report)
}

const reportTemplate = `# Grammar

{{ .Name }} (canonical LR(1))

# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Non-Terminals

{{ range slice .NonTerminals 1 -}}
{{ printNonTerminal . }}
{{ end }}
# Productions

{{ range slice .Productions 1 -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{- range .Shift }}
{{ printShift . }}
{{- end }}
{{- range .Reduce }}
{{ printReduce . }}
{{- end }}
{{- range .GoTo }}
{{ printGoTo . }}
{{- end }}
{{- range .SRConflict }}
{{ printSRConflict . }}
{{- end }}
{{- range .RRConflict }}
{{ printRRConflict . }}
{{- end }}
{{ end }}`

func writeReport(w io.Writer, report *grammar.Report) error {
	termName := func(sym int) string {
		if report.Terminals[sym].Alias != "" {
			return report.Terminals[sym].Alias
		}
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		return report.NonTerminals[sym].Name
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *grammar.Report) string {
			var count int
			for _, s := range report.States {
				count += len(s.SRConflict)
				count += len(s.RRConflict)
			}
			if count == 0 {
				return "No conflict was detected."
			}
			return fmt.Sprintf("%v conflicts were implicitly resolved.", count)
		},
		"printTerminal": func(term *grammar.Terminal) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%4v %v", term.Number, term.Name)
			if term.Alias != "" {
				fmt.Fprintf(&b, " (%v)", term.Alias)
			}
			if term.Pattern != "" {
				fmt.Fprintf(&b, ": %v", term.Pattern)
			}
			return b.String()
		},
		"printNonTerminal": func(nt *grammar.NonTerminal) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%4v %v\n", nt.Number, nt.Name)

			firsts := make([]string, 0, len(nt.First)+1)
			for _, t := range nt.First {
				firsts = append(firsts, termName(t))
			}
			if nt.Nullable {
				firsts = append(firsts, "<empty>")
			}
			fmt.Fprintf(&b, "        FIRST:  %v\n", strings.Join(firsts, ", "))

			follows := make([]string, 0, len(nt.Follow))
			for _, t := range nt.Follow {
				follows = append(follows, termName(t))
			}
			fmt.Fprintf(&b, "        FOLLOW: %v", strings.Join(follows, ", "))

			return b.String()
		},
		"printProduction": func(prod *grammar.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for _, e := range prod.RHS {
				if e > 0 {
					fmt.Fprintf(&b, " %v", termName(e))
				} else {
					fmt.Fprintf(&b, " %v", nonTermName(e*-1))
				}
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printItem": func(item *grammar.Item) string {
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				if e > 0 {
					fmt.Fprintf(&b, " %v", termName(e))
				} else {
					fmt.Fprintf(&b, " %v", nonTermName(e*-1))
				}
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}
			fmt.Fprintf(&b, ", %v", termName(item.LookAhead))

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *grammar.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *grammar.Reduce) string {
			las := make([]string, 0, len(reduce.LookAhead))
			for _, t := range reduce.LookAhead {
				las = append(las, termName(t))
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(las, ", "))
		},
		"printGoTo": func(tran *grammar.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *grammar.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted", sr.State, sr.Production, termName(sr.Symbol), adopted)
		},
		"printRRConflict": func(rr *grammar.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (reduce %v and %v) on %v: reduce %v adopted", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
