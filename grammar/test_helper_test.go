package grammar

import (
	"testing"
)

type testSymbolGenerator func(text string) symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbolTableReader) testSymbolGenerator {
	return func(text string) symbol {
		t.Helper()

		sym, ok := symTab.toSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

func newTestProductionGenerator(t *testing.T, genSym testSymbolGenerator) testProductionGenerator {
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		prod, err := newProduction(genSym(lhs), rhsSym)
		if err != nil {
			t.Fatalf("failed to create a production: %v", err)
		}

		return prod
	}
}

type testLR1ItemGenerator func(lhs string, dot int, lookAhead string, rhs ...string) *lrItem

func newTestLR1ItemGenerator(t *testing.T, genSym testSymbolGenerator, genProd testProductionGenerator) testLR1ItemGenerator {
	return func(lhs string, dot int, lookAhead string, rhs ...string) *lrItem {
		t.Helper()

		prod := genProd(lhs, rhs...)
		item, err := newLR1Item(prod, dot, genSym(lookAhead))
		if err != nil {
			t.Fatalf("failed to create an LR1 item: %v", err)
		}

		return item
	}
}

type testGrammarRule struct {
	lhs string
	rhs []string
}

// genTestGrammar builds a grammar from plain rules. The first rule must be
// the augmented start production, and every non-terminal must appear as the
// LHS of at least one rule. Terminal symbols and productions take their
// numbers from the order they are listed in.
func genTestGrammar(t *testing.T, terminals []string, rules []*testGrammarRule) *Grammar {
	t.Helper()

	symTab := newSymbolTable()
	w := symTab.writer()

	augStartSym, err := w.registerStartSymbol(rules[0].lhs)
	if err != nil {
		t.Fatal(err)
	}
	for _, rule := range rules[1:] {
		if _, err := w.registerNonTerminalSymbol(rule.lhs); err != nil {
			t.Fatal(err)
		}
	}
	for _, text := range terminals {
		if _, err := w.registerTerminalSymbol(text); err != nil {
			t.Fatal(err)
		}
	}

	genSym := newTestSymbolGenerator(t, symTab.reader())
	prods := newProductionSet()
	for _, rule := range rules {
		rhs := make([]symbol, len(rule.rhs))
		for i, text := range rule.rhs {
			rhs[i] = genSym(text)
		}
		prod, err := newProduction(genSym(rule.lhs), rhs)
		if err != nil {
			t.Fatal(err)
		}
		prods.append(prod)
	}

	return &Grammar{
		name:                 "test",
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		symbolTable:          symTab,
	}
}

// expressionGrammarRules is the expression grammar expressed as plain rules.
// It mirrors what NewExpressionGrammar registers.
func expressionGrammarRules() ([]string, []*testGrammarRule) {
	terminals := []string{"number", "add", "sub", "mul", "div", "l_paren", "r_paren"}
	rules := []*testGrammarRule{
		{lhs: "expr'", rhs: []string{"expr"}},
		{lhs: "expr", rhs: []string{"expr", "add", "term"}},
		{lhs: "expr", rhs: []string{"expr", "sub", "term"}},
		{lhs: "expr", rhs: []string{"term"}},
		{lhs: "term", rhs: []string{"term", "mul", "factor"}},
		{lhs: "term", rhs: []string{"term", "div", "factor"}},
		{lhs: "term", rhs: []string{"factor"}},
		{lhs: "factor", rhs: []string{"l_paren", "expr", "r_paren"}},
		{lhs: "factor", rhs: []string{"number"}},
		{lhs: "factor", rhs: []string{"sub", "factor"}},
	}
	return terminals, rules
}
