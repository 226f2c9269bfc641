package grammar

import (
	"reflect"
	"testing"

	mlspec "github.com/nihei9/maleeni/spec"
)

func TestNewExpressionGrammar(t *testing.T) {
	gram, err := NewExpressionGrammar()
	if err != nil {
		t.Fatal(err)
	}
	reader := gram.symbolTable.reader()

	if !gram.augmentedStartSymbol.isStart() {
		t.Errorf("the augmented start symbol must be a start symbol: %v", gram.augmentedStartSymbol)
	}

	terminalNums := map[string]int{
		symbolNameEOF:  1,
		KindNumber:     2,
		KindAdd:        3,
		KindSub:        4,
		KindMul:        5,
		KindDiv:        6,
		KindLParen:     7,
		KindRParen:     8,
		KindWhiteSpace: 9,
	}
	for text, num := range terminalNums {
		sym, ok := reader.toSymbol(text)
		if !ok {
			t.Fatalf("a terminal symbol was not found: %v", text)
		}
		if !sym.isTerminal() {
			t.Errorf("a terminal symbol is expected: %v", text)
		}
		if sym.num().Int() != num {
			t.Errorf("terminal symbol number is mismatched; symbol: %v, want: %v, got: %v", text, num, sym.num())
		}
	}

	nonTerminalNums := map[string]int{
		"expr'":  1,
		"expr":   2,
		"term":   3,
		"factor": 4,
	}
	for text, num := range nonTerminalNums {
		sym, ok := reader.toSymbol(text)
		if !ok {
			t.Fatalf("a non-terminal symbol was not found: %v", text)
		}
		if !sym.isNonTerminal() {
			t.Errorf("a non-terminal symbol is expected: %v", text)
		}
		if sym.num().Int() != num {
			t.Errorf("non-terminal symbol number is mismatched; symbol: %v, want: %v, got: %v", text, num, sym.num())
		}
	}

	// The driver maps reduce actions onto AST constructions through these
	// production numbers, so they must match the registration order.
	expectedProds := []struct {
		num int
		lhs string
		rhs []string
	}{
		{num: productionNumStart.Int(), lhs: "expr'", rhs: []string{"expr"}},
		{num: ProdExprAdd, lhs: "expr", rhs: []string{"expr", "add", "term"}},
		{num: ProdExprSub, lhs: "expr", rhs: []string{"expr", "sub", "term"}},
		{num: ProdExprTerm, lhs: "expr", rhs: []string{"term"}},
		{num: ProdTermMul, lhs: "term", rhs: []string{"term", "mul", "factor"}},
		{num: ProdTermDiv, lhs: "term", rhs: []string{"term", "div", "factor"}},
		{num: ProdTermFactor, lhs: "term", rhs: []string{"factor"}},
		{num: ProdFactorParen, lhs: "factor", rhs: []string{"l_paren", "expr", "r_paren"}},
		{num: ProdFactorNumber, lhs: "factor", rhs: []string{"number"}},
		{num: ProdFactorNeg, lhs: "factor", rhs: []string{"sub", "factor"}},
	}

	prods := gram.productionSet.getAllProductions()
	if len(prods) != len(expectedProds) {
		t.Fatalf("production count is mismatched; want: %v, got: %v", len(expectedProds), len(prods))
	}
	byNum := map[int]*production{}
	for _, p := range prods {
		byNum[p.num.Int()] = p
	}
	for _, eProd := range expectedProds {
		p, ok := byNum[eProd.num]
		if !ok {
			t.Fatalf("a production was not found; number: %v", eProd.num)
		}
		lhsText, _ := reader.toText(p.lhs)
		if lhsText != eProd.lhs {
			t.Errorf("LHS is mismatched; number: %v, want: %v, got: %v", eProd.num, eProd.lhs, lhsText)
		}
		if p.rhsLen != len(eProd.rhs) {
			t.Fatalf("RHS length is mismatched; number: %v, want: %v, got: %v", eProd.num, len(eProd.rhs), p.rhsLen)
		}
		for i, rhsSym := range p.rhs {
			rhsText, _ := reader.toText(rhsSym)
			if rhsText != eProd.rhs[i] {
				t.Errorf("RHS is mismatched; number: %v, want: %v, got: %v", eProd.num, eProd.rhs[i], rhsText)
			}
		}
	}

	// The skip kind must be declared in the lexical specification and listed
	// as a skip kind.
	if len(gram.lexSpec.Entries) != 8 {
		t.Fatalf("lexical entry count is mismatched; want: %v, got: %v", 8, len(gram.lexSpec.Entries))
	}
	if len(gram.skipLexKinds) != 1 || gram.skipLexKinds[0] != mlspec.LexKindName(KindWhiteSpace) {
		t.Errorf("white_space must be the only skip kind: %v", gram.skipLexKinds)
	}
}

func TestCompile(t *testing.T) {
	gram, err := NewExpressionGrammar()
	if err != nil {
		t.Fatal(err)
	}
	cgram, report, err := Compile(gram)
	if err != nil {
		t.Fatal(err)
	}
	if report != nil {
		t.Fatalf("a report must not be generated without EnableReporting")
	}

	lexSpec := cgram.LexicalSpecification
	tab := cgram.ParsingTable

	expectedTerms := []string{"", "<eof>", "number", "add", "sub", "mul", "div", "l_paren", "r_paren", "white_space"}
	if !reflect.DeepEqual(tab.Terminals, expectedTerms) {
		t.Fatalf("unexpected terminals\nwant: %#v\ngot: %#v", expectedTerms, tab.Terminals)
	}
	expectedNonTerms := []string{"", "expr'", "expr", "term", "factor"}
	if !reflect.DeepEqual(tab.NonTerminals, expectedNonTerms) {
		t.Fatalf("unexpected non-terminals\nwant: %#v\ngot: %#v", expectedNonTerms, tab.NonTerminals)
	}

	if tab.TerminalCount != len(expectedTerms) {
		t.Errorf("terminal count is mismatched; want: %v, got: %v", len(expectedTerms), tab.TerminalCount)
	}
	if tab.NonTerminalCount != len(expectedNonTerms) {
		t.Errorf("non-terminal count is mismatched; want: %v, got: %v", len(expectedNonTerms), tab.NonTerminalCount)
	}
	if tab.StartProduction != productionNumStart.Int() {
		t.Errorf("start production is mismatched; want: %v, got: %v", productionNumStart, tab.StartProduction)
	}
	if tab.EOFSymbol != symbolEOF.num().Int() {
		t.Errorf("EOF symbol is mismatched; want: %v, got: %v", symbolEOF.num(), tab.EOFSymbol)
	}
	if tab.InitialState != stateNumInitial.Int() {
		t.Errorf("initial state is mismatched; want: %v, got: %v", stateNumInitial, tab.InitialState)
	}
	if tab.StateCount <= 0 {
		t.Fatalf("state count must be positive: %v", tab.StateCount)
	}
	if len(tab.Action) != tab.StateCount*tab.TerminalCount {
		t.Errorf("ACTION table size is mismatched; want: %v, got: %v", tab.StateCount*tab.TerminalCount, len(tab.Action))
	}
	if len(tab.GoTo) != tab.StateCount*tab.NonTerminalCount {
		t.Errorf("GOTO table size is mismatched; want: %v, got: %v", tab.StateCount*tab.NonTerminalCount, len(tab.GoTo))
	}

	expectedAltSymCounts := []int{0, 1, 3, 3, 1, 3, 3, 1, 3, 1, 2}
	if !reflect.DeepEqual(tab.AlternativeSymbolCounts, expectedAltSymCounts) {
		t.Fatalf("unexpected alternative symbol counts\nwant: %#v\ngot: %#v", expectedAltSymCounts, tab.AlternativeSymbolCounts)
	}
	expectedLHSSymbols := []int{0, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4}
	if !reflect.DeepEqual(tab.LHSSymbols, expectedLHSSymbols) {
		t.Fatalf("unexpected LHS symbols\nwant: %#v\ngot: %#v", expectedLHSSymbols, tab.LHSSymbols)
	}

	// Every lexical kind must map to the terminal symbol of the same name,
	// and only white_space is skipped.
	for id, kindName := range lexSpec.Spec.KindNames {
		if kindName == mlspec.LexKindNameNil {
			if lexSpec.KindToTerminal[id] != 0 {
				t.Errorf("the nil kind must map to the terminal symbol 0; got: %v", lexSpec.KindToTerminal[id])
			}
			continue
		}

		term := lexSpec.KindToTerminal[id]
		if tab.Terminals[term] != kindName.String() {
			t.Errorf("kind mapping is mismatched; kind: %v, terminal: %v", kindName, tab.Terminals[term])
		}
		if lexSpec.TerminalToKind[term] != id {
			t.Errorf("reverse kind mapping is mismatched; kind ID: %v, got: %v", id, lexSpec.TerminalToKind[term])
		}

		wantSkip := 0
		if kindName.String() == KindWhiteSpace {
			wantSkip = 1
		}
		if lexSpec.Skip[id] != wantSkip {
			t.Errorf("skip flag is mismatched; kind: %v, want: %v, got: %v", kindName, wantSkip, lexSpec.Skip[id])
		}
	}

	aliases := map[string]string{
		KindAdd:    "+",
		KindSub:    "-",
		KindMul:    "*",
		KindDiv:    "/",
		KindLParen: "(",
		KindRParen: ")",
	}
	reader := gram.symbolTable.reader()
	for kind, alias := range aliases {
		sym, ok := reader.toSymbol(kind)
		if !ok {
			t.Fatalf("a terminal symbol was not found: %v", kind)
		}
		if lexSpec.KindAliases[sym.num().Int()] != alias {
			t.Errorf("alias is mismatched; kind: %v, want: %v, got: %v", kind, alias, lexSpec.KindAliases[sym.num().Int()])
		}
	}
}

func TestCompileWithReporting(t *testing.T) {
	gram, err := NewExpressionGrammar()
	if err != nil {
		t.Fatal(err)
	}
	cgram, report, err := Compile(gram, EnableReporting())
	if err != nil {
		t.Fatal(err)
	}
	if report == nil {
		t.Fatal("a report is expected")
	}

	if report.Name != "expr" {
		t.Errorf("grammar name is mismatched; want: %v, got: %v", "expr", report.Name)
	}
	if len(report.States) != cgram.ParsingTable.StateCount {
		t.Fatalf("state count is mismatched; want: %v, got: %v", cgram.ParsingTable.StateCount, len(report.States))
	}

	for _, state := range report.States {
		if len(state.SRConflict) > 0 || len(state.RRConflict) > 0 {
			t.Errorf("the expression grammar must not have any conflict; state: %v", state.Number)
		}
	}

	if report.Terminals[1].Name != symbolNameEOF {
		t.Errorf("terminal 1 must be %v; got: %v", symbolNameEOF, report.Terminals[1].Name)
	}
	if report.Terminals[2].Pattern != `[0-9]+(\.[0-9]+)?` {
		t.Errorf("unexpected number pattern: %v", report.Terminals[2].Pattern)
	}
	if report.Terminals[3].Alias != "+" {
		t.Errorf("unexpected alias of add: %v", report.Terminals[3].Alias)
	}

	expr := report.NonTerminals[2]
	if expr.Name != "expr" {
		t.Fatalf("non-terminal 2 must be expr; got: %v", expr.Name)
	}
	if !reflect.DeepEqual(expr.First, []int{2, 4, 7}) {
		t.Errorf("unexpected FIRST set of expr: %v", expr.First)
	}
	if expr.Nullable {
		t.Errorf("expr must not be nullable")
	}
	if !reflect.DeepEqual(expr.Follow, []int{1, 3, 4, 8}) {
		t.Errorf("unexpected FOLLOW set of expr: %v", expr.Follow)
	}

	term := report.NonTerminals[3]
	if !reflect.DeepEqual(term.Follow, []int{1, 3, 4, 5, 6, 8}) {
		t.Errorf("unexpected FOLLOW set of term: %v", term.Follow)
	}

	addProd := report.Productions[ProdExprAdd]
	if addProd.LHS != 2 || !reflect.DeepEqual(addProd.RHS, []int{-2, 3, -3}) {
		t.Errorf("unexpected production %v: %+v", ProdExprAdd, addProd)
	}

	initial := report.States[0]
	if initial.Number != 0 {
		t.Fatalf("the first state must be the initial state; got: %v", initial.Number)
	}
	if len(initial.Kernel) != 1 {
		t.Fatalf("the initial state must have exactly one kernel item; got: %v", len(initial.Kernel))
	}
	kItem := initial.Kernel[0]
	if kItem.Production != productionNumStart.Int() || kItem.Dot != 0 || kItem.LookAhead != symbolEOF.num().Int() {
		t.Errorf("unexpected kernel item of the initial state: %+v", kItem)
	}
	if len(initial.Shift) != 3 {
		t.Errorf("the initial state must have three shift actions; got: %v", len(initial.Shift))
	}
	if len(initial.Reduce) != 0 {
		t.Errorf("the initial state must not have any reduce action; got: %v", len(initial.Reduce))
	}
	if len(initial.GoTo) != 3 {
		t.Errorf("the initial state must have three goto entries; got: %v", len(initial.GoTo))
	}
}
