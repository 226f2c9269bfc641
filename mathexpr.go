// Package mathexpr parses and evaluates arithmetic expressions with a
// table-driven canonical LR(1) parser.
//
// The expression language supports decimal numbers, the four basic
// arithmetic operators, unary negation, and parentheses:
//
//	v, err := mathexpr.Evaluate("(2 + 3) * 4")
package mathexpr

import (
	"errors"
	"strings"
	"sync"

	"github.com/PunGy/math-expression-parser/ast"
	"github.com/PunGy/math-expression-parser/driver"
	perr "github.com/PunGy/math-expression-parser/error"
	"github.com/PunGy/math-expression-parser/grammar"
)

var (
	compileOnce sync.Once
	compiled    *grammar.CompiledGrammar
	report      *grammar.Report
	compileErr  error
)

// Compiled returns the compiled expression grammar along with its report.
// The grammar is fixed, so the compilation runs once and all callers share
// the result.
func Compiled() (*grammar.CompiledGrammar, *grammar.Report, error) {
	compileOnce.Do(func() {
		gram, err := grammar.NewExpressionGrammar()
		if err != nil {
			compileErr = err
			return
		}
		compiled, report, compileErr = grammar.Compile(gram, grammar.EnableReporting())
	})
	return compiled, report, compileErr
}

// Parse parses an arithmetic expression and returns its syntax tree. A
// syntax error is reported as a *error.ParseError wrapping the driver's
// *SyntaxError.
func Parse(src string) (ast.Expr, error) {
	cgram, _, err := Compiled()
	if err != nil {
		return nil, err
	}

	p, err := driver.NewParser(cgram, strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	err = p.Parse()
	if err != nil {
		var synErr *driver.SyntaxError
		if errors.As(err, &synErr) {
			return nil, &perr.ParseError{
				Cause:      synErr,
				Expression: src,
				Row:        synErr.Row,
				Col:        synErr.Col,
			}
		}
		return nil, err
	}

	return p.AST(), nil
}

// Evaluate parses an arithmetic expression and computes its value.
func Evaluate(src string) (float64, error) {
	expr, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return ast.Eval(expr), nil
}
