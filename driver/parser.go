package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/PunGy/math-expression-parser/ast"
	"github.com/PunGy/math-expression-parser/grammar"
)

// SyntaxError describes a token the parser could not accept. Row and Col are
// 0-based, but Error reports them 1-based.
type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             *Token
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v:%v: %v", e.Row+1, e.Col+1, e.Message)
	if !e.Token.EOF {
		if e.Token.KindName != "" {
			fmt.Fprintf(&b, ": '%v' (%v)", string(e.Token.Lexeme), e.Token.KindName)
		} else {
			fmt.Fprintf(&b, ": '%v'", string(e.Token.Lexeme))
		}
	}
	if len(e.ExpectedTerminals) > 0 {
		fmt.Fprintf(&b, "; expected: %v", strings.Join(e.ExpectedTerminals, ", "))
	}
	return b.String()
}

// semanticFrame accompanies a state on the parsing stack. A frame holds a
// token when its state was pushed by a shift, and an expression when its
// state was pushed by a reduction.
type semanticFrame struct {
	expr ast.Expr
	tok  *Token
}

type Parser struct {
	gram       *grammar.CompiledGrammar
	toks       *TokenStream
	stateStack []int
	semStack   []*semanticFrame
	expr       ast.Expr
}

func NewParser(gram *grammar.CompiledGrammar, src io.Reader) (*Parser, error) {
	toks, err := NewTokenStream(gram, src)
	if err != nil {
		return nil, err
	}

	return &Parser{
		gram:       gram,
		toks:       toks,
		stateStack: []int{},
	}, nil
}

// Parse drives the ACTION and GOTO tables until it accepts the input or
// detects a syntax error. The parser doesn't recover from a syntax error,
// so the first one stops the parsing. A *SyntaxError describes it.
func (p *Parser) Parse() error {
	p.push(p.gram.ParsingTable.InitialState)
	tok, err := p.toks.Next()
	if err != nil {
		return err
	}

	for {
		act := p.lookupAction(tok)
		switch {
		case act < 0: // Shift
			nextState := act * -1

			p.shift(nextState)

			p.actOnShift(tok)

			tok, err = p.toks.Next()
			if err != nil {
				return err
			}
		case act > 0: // Reduce
			prodNum := act

			accepted, err := p.reduce(prodNum)
			if err != nil {
				return err
			}
			if accepted {
				p.actOnAccepting()

				return nil
			}

			err = p.actOnReduction(prodNum)
			if err != nil {
				return err
			}
		default: // Error
			synErr := &SyntaxError{
				Row:               tok.Row,
				Col:               tok.Col,
				Message:           "unexpected token",
				Token:             tok,
				ExpectedTerminals: p.searchLookahead(p.top()),
			}
			if tok.EOF {
				synErr.Message = "unexpected end of input"
			}
			return synErr
		}
	}
}

// AST returns the expression the parser built. It is nil until Parse
// succeeds.
func (p *Parser) AST() ast.Expr {
	return p.expr
}

func (p *Parser) lookupAction(tok *Token) int {
	termCount := p.gram.ParsingTable.TerminalCount
	return p.gram.ParsingTable.Action[p.top()*termCount+tok.Terminal]
}

func (p *Parser) shift(nextState int) {
	p.push(nextState)
}

// reduce pops the handle and pushes the GOTO destination. It reports
// acceptance instead when prodNum is the augmented start production.
func (p *Parser) reduce(prodNum int) (bool, error) {
	tab := p.gram.ParsingTable
	if prodNum == tab.StartProduction {
		return true, nil
	}
	lhs := tab.LHSSymbols[prodNum]
	n := tab.AlternativeSymbolCounts[prodNum]
	p.pop(n)
	nextState := tab.GoTo[p.top()*tab.NonTerminalCount+lhs]
	if nextState == 0 {
		return false, fmt.Errorf("GOTO entry not found; state: %v, non-terminal: %v", p.top(), tab.NonTerminals[lhs])
	}
	p.push(nextState)
	return false, nil
}

func (p *Parser) actOnShift(tok *Token) {
	p.semStack = append(p.semStack, &semanticFrame{
		tok: tok,
	})
}

func (p *Parser) actOnReduction(prodNum int) error {
	n := p.gram.ParsingTable.AlternativeSymbolCounts[prodNum]
	handle := p.semStack[len(p.semStack)-n:]

	var expr ast.Expr
	switch prodNum {
	case grammar.ProdExprAdd:
		expr = &ast.BinaryExpr{Op: ast.OpAdd, Left: handle[0].expr, Right: handle[2].expr}
	case grammar.ProdExprSub:
		expr = &ast.BinaryExpr{Op: ast.OpSub, Left: handle[0].expr, Right: handle[2].expr}
	case grammar.ProdExprTerm:
		expr = handle[0].expr
	case grammar.ProdTermMul:
		expr = &ast.BinaryExpr{Op: ast.OpMul, Left: handle[0].expr, Right: handle[2].expr}
	case grammar.ProdTermDiv:
		expr = &ast.BinaryExpr{Op: ast.OpDiv, Left: handle[0].expr, Right: handle[2].expr}
	case grammar.ProdTermFactor:
		expr = handle[0].expr
	case grammar.ProdFactorParen:
		expr = handle[1].expr
	case grammar.ProdFactorNumber:
		expr = &ast.NumberLit{Value: handle[0].tok.Value}
	case grammar.ProdFactorNeg:
		expr = &ast.UnaryExpr{Op: ast.OpNeg, Operand: handle[1].expr}
	default:
		return fmt.Errorf("unknown production number: %v", prodNum)
	}

	p.semStack = p.semStack[:len(p.semStack)-n]
	p.semStack = append(p.semStack, &semanticFrame{
		expr: expr,
	})
	return nil
}

func (p *Parser) actOnAccepting() {
	top := p.semStack[len(p.semStack)-1]
	p.expr = top.expr
}

// searchLookahead lists the terminals the state has any action for. The
// entries appear in ascending order of terminal symbol numbers.
func (p *Parser) searchLookahead(state int) []string {
	kinds := []string{}
	aliases := p.gram.LexicalSpecification.KindAliases
	termCount := p.gram.ParsingTable.TerminalCount
	base := state * termCount
	for term := 0; term < termCount; term++ {
		if p.gram.ParsingTable.Action[base+term] == 0 {
			continue
		}

		if term == p.gram.ParsingTable.EOFSymbol {
			kinds = append(kinds, "<eof>")
			continue
		}

		if alias := aliases[term]; alias != "" {
			kinds = append(kinds, alias)
		} else {
			kinds = append(kinds, p.gram.ParsingTable.Terminals[term])
		}
	}

	return kinds
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}
