// Package ast defines the syntax tree for arithmetic expressions and the
// operations on it.
package ast

import (
	"fmt"
	"strconv"
)

type BinaryOp int

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// Precedence returns the binding strength of the operator. A higher value
// binds tighter.
func (op BinaryOp) Precedence() int {
	switch op {
	case OpMul, OpDiv:
		return 2
	default:
		return 1
	}
}

type UnaryOp int

const OpNeg UnaryOp = 1

func (op UnaryOp) String() string {
	if op == OpNeg {
		return "-"
	}
	return "?"
}

// Expr is an expression node. NumberLit, BinaryExpr, and UnaryExpr are the
// only implementations.
type Expr interface {
	exprNode()
}

type NumberLit struct {
	Value float64
}

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*NumberLit) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}

// Eval computes the value of the expression. Division follows IEEE 754, so
// dividing by zero yields an infinity or a NaN instead of failing.
func Eval(expr Expr) float64 {
	switch e := expr.(type) {
	case *NumberLit:
		return e.Value
	case *BinaryExpr:
		l := Eval(e.Left)
		r := Eval(e.Right)
		switch e.Op {
		case OpAdd:
			return l + r
		case OpSub:
			return l - r
		case OpMul:
			return l * r
		case OpDiv:
			return l / r
		}
	case *UnaryExpr:
		if e.Op == OpNeg {
			return -Eval(e.Operand)
		}
	}
	panic(fmt.Sprintf("unknown expression node: %T", expr))
}

// Format renders the expression fully parenthesized, like `((2 + 3) * 4)`.
func Format(expr Expr) string {
	switch e := expr.(type) {
	case *NumberLit:
		return FormatValue(e.Value)
	case *BinaryExpr:
		return "(" + Format(e.Left) + " " + e.Op.String() + " " + Format(e.Right) + ")"
	case *UnaryExpr:
		return "(" + e.Op.String() + Format(e.Operand) + ")"
	}
	panic(fmt.Sprintf("unknown expression node: %T", expr))
}

// FormatValue renders a numeric value in the same decimal notation the
// number literals use, so it never contains an exponent.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Depth returns the height of the expression tree. A lone number has the
// depth 1.
func Depth(expr Expr) int {
	switch e := expr.(type) {
	case *NumberLit:
		return 1
	case *BinaryExpr:
		l := Depth(e.Left)
		r := Depth(e.Right)
		if l > r {
			return 1 + l
		}
		return 1 + r
	case *UnaryExpr:
		return 1 + Depth(e.Operand)
	}
	panic(fmt.Sprintf("unknown expression node: %T", expr))
}
