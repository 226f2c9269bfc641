package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	mathexpr "github.com/PunGy/math-expression-parser"
	"github.com/PunGy/math-expression-parser/grammar"
	"github.com/PunGy/math-expression-parser/internal/logger"
)

var rootFlags = struct {
	debug   *bool
	noColor *bool
}{}

var rootCmd = &cobra.Command{
	Use:           "mathexpr",
	Short:         "mathexpr is an arithmetic expression calculator",
	Long:          `mathexpr parses arithmetic expressions with a table-driven canonical LR(1) parser and evaluates them.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(*rootFlags.debug, *rootFlags.noColor)
	},
}

func init() {
	rootFlags.debug = rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootFlags.noColor = rootCmd.PersistentFlags().Bool("no-color", false, "disable colored log output")
}

func Execute() error {
	return rootCmd.Execute()
}

// compiledGrammar compiles the expression grammar once and reports any
// conflicts the parsing table resolved.
func compiledGrammar() (*grammar.CompiledGrammar, *grammar.Report, error) {
	cgram, report, err := mathexpr.Compiled()
	if err != nil {
		return nil, nil, err
	}

	var srCount, rrCount int
	for _, state := range report.States {
		srCount += len(state.SRConflict)
		rrCount += len(state.RRConflict)
	}
	if srCount > 0 || rrCount > 0 {
		log.Warn("the grammar has conflicts", "shift/reduce", srCount, "reduce/reduce", rrCount)
	}
	log.Debug("compiled the expression grammar",
		"states", cgram.ParsingTable.StateCount,
		"terminals", cgram.ParsingTable.TerminalCount,
		"non-terminals", cgram.ParsingTable.NonTerminalCount)

	return cgram, report, nil
}
