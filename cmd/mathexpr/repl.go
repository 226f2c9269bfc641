package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	mathexpr "github.com/PunGy/math-expression-parser"
	"github.com/PunGy/math-expression-parser/ast"
)

var replFlags = struct {
	tree *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator",
		Args:  cobra.NoArgs,
		RunE:  runRepl,
	}
	replFlags.tree = cmd.Flags().BoolP("tree", "t", false, "print the syntax tree of each expression")
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) (retErr error) {
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

	rl, err := readline.New("expr> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(os.Stdout, "Enter an expression to evaluate it, or 'help' for the commands.")

	showTree := *replFlags.tree
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case "quit", "exit":
			return nil
		case "help":
			printReplHelp(os.Stdout)
			continue
		case "table":
			err := writeReport(os.Stdout, report)
			if err != nil {
				return err
			}
			continue
		case "tree":
			showTree = !showTree
			if showTree {
				fmt.Fprintln(os.Stdout, "syntax tree display is on")
			} else {
				fmt.Fprintln(os.Stdout, "syntax tree display is off")
			}
			continue
		}

		expr, err := mathexpr.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stdout, err)
			continue
		}

		if showTree {
			ast.PrintTree(os.Stdout, expr)
		}
		fmt.Fprintf(os.Stdout, "= %v\n", ast.FormatValue(ast.Eval(expr)))
	}

	return nil
}

func printReplHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  <expression>  evaluate an arithmetic expression")
	fmt.Fprintln(w, "  tree          toggle the syntax tree display")
	fmt.Fprintln(w, "  table         print the parsing table")
	fmt.Fprintln(w, "  help          print this help")
	fmt.Fprintln(w, "  quit, exit    leave the calculator")
}
