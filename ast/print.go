package ast

import (
	"fmt"
	"io"
)

// PrintTree writes the expression to w as a tree with one node per line.
//
// add
// ├─ number 2
// └─ mul
//    ├─ number 3
//    └─ number 4
func PrintTree(w io.Writer, expr Expr) {
	printTree(w, expr, "", "")
}

func printTree(w io.Writer, expr Expr, ruledLine string, childRuledLinePrefix string) {
	if expr == nil {
		return
	}

	fmt.Fprintf(w, "%v%v\n", ruledLine, nodeLabel(expr))

	children := childNodes(expr)
	num := len(children)
	for i, child := range children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

func nodeLabel(expr Expr) string {
	switch e := expr.(type) {
	case *NumberLit:
		return "number " + FormatValue(e.Value)
	case *BinaryExpr:
		switch e.Op {
		case OpAdd:
			return "add"
		case OpSub:
			return "sub"
		case OpMul:
			return "mul"
		case OpDiv:
			return "div"
		}
	case *UnaryExpr:
		return "neg"
	}
	return fmt.Sprintf("unknown node: %T", expr)
}

func childNodes(expr Expr) []Expr {
	switch e := expr.(type) {
	case *BinaryExpr:
		return []Expr{e.Left, e.Right}
	case *UnaryExpr:
		return []Expr{e.Operand}
	}
	return nil
}
