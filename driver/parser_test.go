package driver

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/PunGy/math-expression-parser/ast"
	"github.com/PunGy/math-expression-parser/grammar"
)

func testGrammar(t *testing.T) *grammar.CompiledGrammar {
	t.Helper()

	gram, err := grammar.NewExpressionGrammar()
	if err != nil {
		t.Fatal(err)
	}
	cgram, _, err := grammar.Compile(gram)
	if err != nil {
		t.Fatal(err)
	}
	return cgram
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		want    float64
	}{
		{caption: "a number literal", src: `42`, want: 42},
		{caption: "a decimal literal", src: `3.25`, want: 3.25},
		{caption: "addition", src: `2 + 3`, want: 5},
		{caption: "multiplication precedes addition", src: `2 + 3 * 4`, want: 14},
		{caption: "division precedes subtraction", src: `10 - 6 / 2`, want: 7},
		{caption: "parentheses override precedence", src: `(2 + 3) * 4`, want: 20},
		{caption: "subtraction is left-associative", src: `10 - 3 - 4`, want: 3},
		{caption: "division is left-associative", src: `8 / 4 / 2`, want: 1},
		{caption: "unary negation", src: `-5 + 3`, want: -2},
		{caption: "negation of a parenthesized expression", src: `-(2 + 3) * 4`, want: -20},
		{caption: "double negation", src: `--5`, want: 5},
		{caption: "subtraction of a negative number", src: `2--3`, want: 5},
		{caption: "nested parentheses", src: `((1 + 2) * (3 + 4)) / 5`, want: 4.2},
		{caption: "decimals mix with integers", src: `2.5 * 4 + 1.5`, want: 11.5},
		{caption: "redundant white space", src: "  2 \t+\n 3  ", want: 5},
		{caption: "division by zero yields an infinity", src: `5 / 0`, want: math.Inf(1)},
	}
	gram := testGrammar(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(gram, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			err = p.Parse()
			if err != nil {
				t.Fatal(err)
			}

			expr := p.AST()
			if expr == nil {
				t.Fatal("the parser must build an AST")
			}
			got := ast.Eval(expr)
			if got != tt.want {
				t.Fatalf("unexpected result\nwant: %v\ngot: %v", tt.want, got)
			}
		})
	}
}

func TestParser_AST(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		format  string
		depth   int
	}{
		{caption: "precedence becomes the tree shape", src: `2 + 3 * 4`, format: `(2 + (3 * 4))`, depth: 3},
		{caption: "parentheses don't appear in the tree", src: `(2 + 3) * 4`, format: `((2 + 3) * 4)`, depth: 3},
		{caption: "a negation is a unary node", src: `-5`, format: `(-5)`, depth: 2},
		{caption: "negation binds tighter than multiplication", src: `-2 * 3`, format: `((-2) * 3)`, depth: 3},
	}
	gram := testGrammar(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(gram, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			err = p.Parse()
			if err != nil {
				t.Fatal(err)
			}

			expr := p.AST()
			if got := ast.Format(expr); got != tt.format {
				t.Errorf("unexpected format\nwant: %v\ngot: %v", tt.format, got)
			}
			if got := ast.Depth(expr); got != tt.depth {
				t.Errorf("unexpected depth; want: %v, got: %v", tt.depth, got)
			}
		})
	}
}

func TestParser_ParseWithSyntaxErrors(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		row      int
		col      int
		message  string
		expected []string
	}{
		{
			caption:  "an operator can't follow an operator",
			src:      `2 + * 3`,
			row:      0,
			col:      4,
			message:  "unexpected token",
			expected: []string{"number", "-", "("},
		},
		{
			caption:  "an empty input",
			src:      ``,
			row:      0,
			col:      0,
			message:  "unexpected end of input",
			expected: []string{"number", "-", "("},
		},
		{
			caption:  "an input ends in the middle of an expression",
			src:      `2 +`,
			row:      0,
			col:      3,
			message:  "unexpected end of input",
			expected: []string{"number", "-", "("},
		},
		{
			caption:  "an unclosed parenthesis",
			src:      `(2 + 3`,
			row:      0,
			col:      6,
			message:  "unexpected end of input",
			expected: []string{"+", "-", "*", "/", ")"},
		},
		{
			caption:  "an invalid character",
			src:      `2 @ 3`,
			row:      0,
			col:      2,
			message:  "unexpected token",
			expected: []string{"<eof>", "+", "-", "*", "/"},
		},
		{
			caption:  "a right parenthesis without a left one",
			src:      `2 + 3)`,
			row:      0,
			col:      5,
			message:  "unexpected token",
			expected: []string{"<eof>", "+", "-", "*", "/"},
		},
	}
	gram := testGrammar(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(gram, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			err = p.Parse()
			if err == nil {
				t.Fatal("an expected syntax error didn't occur")
			}
			synErr, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("a syntax error is expected; got: %T (%v)", err, err)
			}

			if synErr.Row != tt.row || synErr.Col != tt.col {
				t.Errorf("unexpected position; want: %v:%v, got: %v:%v", tt.row, tt.col, synErr.Row, synErr.Col)
			}
			if synErr.Message != tt.message {
				t.Errorf("unexpected message; want: %v, got: %v", tt.message, synErr.Message)
			}
			if !reflect.DeepEqual(synErr.ExpectedTerminals, tt.expected) {
				t.Errorf("unexpected look-ahead symbols\nwant: %v\ngot: %v", tt.expected, synErr.ExpectedTerminals)
			}
			if p.AST() != nil {
				t.Errorf("the AST must be nil after a syntax error")
			}
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		want    string
	}{
		{
			caption: "a token the parser can't accept",
			src:     `2 + * 3`,
			want:    "1:5: unexpected token: '*' (mul); expected: number, -, (",
		},
		{
			caption: "an unexpected end of input",
			src:     `2 +`,
			want:    "1:4: unexpected end of input; expected: number, -, (",
		},
		{
			caption: "an invalid character has no kind",
			src:     `2 @ 3`,
			want:    "1:3: unexpected token: '@'; expected: <eof>, +, -, *, /",
		},
	}
	gram := testGrammar(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			p, err := NewParser(gram, strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			err = p.Parse()
			if err == nil {
				t.Fatal("an expected syntax error didn't occur")
			}
			if err.Error() != tt.want {
				t.Fatalf("unexpected message\nwant: %v\ngot: %v", tt.want, err.Error())
			}
		})
	}
}
