package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	mathexpr "github.com/PunGy/math-expression-parser"
	"github.com/PunGy/math-expression-parser/ast"
)

var evalFlags = struct {
	tree   *bool
	format *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression",
		Example: `  mathexpr eval '2 + 3 * 4'
  mathexpr eval --tree '(2 + 3) * 4'`,
		Args: cobra.ExactArgs(1),
		RunE: runEval,
	}
	evalFlags.tree = cmd.Flags().BoolP("tree", "t", false, "print the syntax tree of the expression")
	evalFlags.format = cmd.Flags().BoolP("format", "f", false, "print the fully parenthesized form of the expression")
	rootCmd.AddCommand(cmd)
}

func runEval(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			retErr = fmt.Errorf("an unexpected error occurred: %v\n%v", v, string(debug.Stack()))
		}
	}()

	_, _, err := compiledGrammar()
	if err != nil {
		return err
	}

	expr, err := mathexpr.Parse(args[0])
	if err != nil {
		return err
	}

	if *evalFlags.tree {
		ast.PrintTree(os.Stdout, expr)
	}
	if *evalFlags.format {
		fmt.Fprintln(os.Stdout, ast.Format(expr))
	}
	fmt.Fprintln(os.Stdout, ast.FormatValue(ast.Eval(expr)))

	return nil
}
