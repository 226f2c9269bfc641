package grammar

import (
	"errors"
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
)

// Lexical kinds of the expression language.
const (
	KindNumber     = "number"
	KindAdd        = "add"
	KindSub        = "sub"
	KindMul        = "mul"
	KindDiv        = "div"
	KindLParen     = "l_paren"
	KindRParen     = "r_paren"
	KindWhiteSpace = "white_space"
)

// Production numbers of the expression grammar. NewExpressionGrammar
// registers the productions in this order, so the numbers are stable. The
// driver relies on them to map reduce actions onto AST constructions.
const (
	ProdExprAdd      = 2
	ProdExprSub      = 3
	ProdExprTerm     = 4
	ProdTermMul      = 5
	ProdTermDiv      = 6
	ProdTermFactor   = 7
	ProdFactorParen  = 8
	ProdFactorNumber = 9
	ProdFactorNeg    = 10
)

type Grammar struct {
	name                 string
	lexSpec              *mlspec.LexSpec
	skipLexKinds         []mlspec.LexKindName
	kindAliases          map[string]string
	kindPatterns         map[string]string
	productionSet        *productionSet
	augmentedStartSymbol symbol
	symbolTable          *symbolTable
}

// NewExpressionGrammar assembles the arithmetic expression grammar:
//
// expr   → expr add term
//        | expr sub term
//        | term
// term   → term mul factor
//        | term div factor
//        | factor
// factor → l_paren expr r_paren
//        | number
//        | sub factor
//
// The grammar is augmented with `expr' → expr`, and Compile turns it into a
// canonical LR(1) parsing table. Precedence and associativity don't appear
// anywhere because the productions already encode them.
func NewExpressionGrammar() (*Grammar, error) {
	symTab := newSymbolTable()
	w := symTab.writer()

	augStartSym, err := w.registerStartSymbol("expr'")
	if err != nil {
		return nil, err
	}
	exprSym, err := w.registerNonTerminalSymbol("expr")
	if err != nil {
		return nil, err
	}
	termSym, err := w.registerNonTerminalSymbol("term")
	if err != nil {
		return nil, err
	}
	factorSym, err := w.registerNonTerminalSymbol("factor")
	if err != nil {
		return nil, err
	}

	numberSym, err := w.registerTerminalSymbol(KindNumber)
	if err != nil {
		return nil, err
	}
	addSym, err := w.registerTerminalSymbol(KindAdd)
	if err != nil {
		return nil, err
	}
	subSym, err := w.registerTerminalSymbol(KindSub)
	if err != nil {
		return nil, err
	}
	mulSym, err := w.registerTerminalSymbol(KindMul)
	if err != nil {
		return nil, err
	}
	divSym, err := w.registerTerminalSymbol(KindDiv)
	if err != nil {
		return nil, err
	}
	lParenSym, err := w.registerTerminalSymbol(KindLParen)
	if err != nil {
		return nil, err
	}
	rParenSym, err := w.registerTerminalSymbol(KindRParen)
	if err != nil {
		return nil, err
	}
	if _, err := w.registerTerminalSymbol(KindWhiteSpace); err != nil {
		return nil, err
	}

	prods := newProductionSet()
	for _, alt := range []struct {
		lhs symbol
		rhs []symbol
	}{
		{augStartSym, []symbol{exprSym}},
		{exprSym, []symbol{exprSym, addSym, termSym}},
		{exprSym, []symbol{exprSym, subSym, termSym}},
		{exprSym, []symbol{termSym}},
		{termSym, []symbol{termSym, mulSym, factorSym}},
		{termSym, []symbol{termSym, divSym, factorSym}},
		{termSym, []symbol{factorSym}},
		{factorSym, []symbol{lParenSym, exprSym, rParenSym}},
		{factorSym, []symbol{numberSym}},
		{factorSym, []symbol{subSym, factorSym}},
	} {
		prod, err := newProduction(alt.lhs, alt.rhs)
		if err != nil {
			return nil, err
		}
		prods.append(prod)
	}

	lexSpec := &mlspec.LexSpec{
		Entries: []*mlspec.LexEntry{
			newLexEntry(KindWhiteSpace, `[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
			newLexEntry(KindNumber, `[0-9]+(\.[0-9]+)?`),
			newLexEntry(KindAdd, mlspec.EscapePattern(`+`)),
			newLexEntry(KindSub, mlspec.EscapePattern(`-`)),
			newLexEntry(KindMul, mlspec.EscapePattern(`*`)),
			newLexEntry(KindDiv, mlspec.EscapePattern(`/`)),
			newLexEntry(KindLParen, mlspec.EscapePattern(`(`)),
			newLexEntry(KindRParen, mlspec.EscapePattern(`)`)),
		},
	}

	kindPatterns := map[string]string{}
	for _, e := range lexSpec.Entries {
		kindPatterns[string(e.Kind)] = string(e.Pattern)
	}

	return &Grammar{
		name:         "expr",
		lexSpec:      lexSpec,
		skipLexKinds: []mlspec.LexKindName{mlspec.LexKindName(KindWhiteSpace)},
		kindAliases: map[string]string{
			KindAdd:    "+",
			KindSub:    "-",
			KindMul:    "*",
			KindDiv:    "/",
			KindLParen: "(",
			KindRParen: ")",
		},
		kindPatterns:         kindPatterns,
		productionSet:        prods,
		augmentedStartSymbol: augStartSym,
		symbolTable:          symTab,
	}, nil
}

func newLexEntry(kind string, pattern string) *mlspec.LexEntry {
	return &mlspec.LexEntry{
		Kind:    mlspec.LexKindName(kind),
		Pattern: mlspec.LexPattern(pattern),
	}
}

type compileConfig struct {
	isReportingEnabled bool
}

type CompileOption func(config *compileConfig)

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

func Compile(gram *Grammar, opts ...CompileOption) (*CompiledGrammar, *Report, error) {
	config := &compileConfig{}
	for _, opt := range opts {
		opt(config)
	}

	lexSpec, err, cErrs := mlcompiler.Compile(gram.lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, nil, errors.New(b.String())
		}
		return nil, nil, err
	}

	reader := gram.symbolTable.reader()

	kind2Term := make([]int, len(lexSpec.KindNames))
	term2Kind := make([]int, gram.symbolTable.termNum.Int())
	skip := make([]int, len(lexSpec.KindNames))
	for i, k := range lexSpec.KindNames {
		if k == mlspec.LexKindNameNil {
			kind2Term[mlspec.LexKindIDNil] = symbolNil.num().Int()
			term2Kind[symbolNil.num()] = mlspec.LexKindIDNil.Int()
			continue
		}

		sym, ok := reader.toSymbol(k.String())
		if !ok {
			return nil, nil, fmt.Errorf("terminal symbol '%v' was not found in a symbol table", k)
		}
		kind2Term[i] = sym.num().Int()
		term2Kind[sym.num()] = i

		for _, sk := range gram.skipLexKinds {
			if k != sk {
				continue
			}
			skip[i] = 1
			break
		}
	}

	terms, err := reader.terminalTexts()
	if err != nil {
		return nil, nil, err
	}

	kindAliases := make([]string, len(terms))
	for i, t := range terms {
		kindAliases[i] = gram.kindAliases[t]
	}

	nonTerms, err := reader.nonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	firstSet, err := genFirstSet(gram.productionSet)
	if err != nil {
		return nil, nil, err
	}

	followSet, err := genFollowSet(gram.productionSet, firstSet)
	if err != nil {
		return nil, nil, err
	}

	automaton, err := genLR1Automaton(gram.productionSet, gram.augmentedStartSymbol, firstSet)
	if err != nil {
		return nil, nil, err
	}

	var tab *ParsingTable
	var report *Report
	{
		b := &lrTableBuilder{
			automaton:    automaton,
			prods:        gram.productionSet,
			termCount:    len(terms),
			nonTermCount: len(nonTerms),
			symTab:       reader,
			first:        firstSet,
			follow:       followSet,
		}
		tab, err = b.build()
		if err != nil {
			return nil, nil, err
		}

		if config.isReportingEnabled {
			report, err = b.genReport(tab, gram)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	action := make([]int, len(tab.actionTable))
	for i, e := range tab.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(tab.goToTable))
	for i, e := range tab.goToTable {
		goTo[i] = int(e)
	}

	lhsSyms := make([]int, len(gram.productionSet.getAllProductions())+1)
	altSymCounts := make([]int, len(gram.productionSet.getAllProductions())+1)
	for _, p := range gram.productionSet.getAllProductions() {
		lhsSyms[p.num] = p.lhs.num().Int()
		altSymCounts[p.num] = p.rhsLen
	}

	return &CompiledGrammar{
		Name: gram.name,
		LexicalSpecification: &LexicalSpecification{
			Spec:           lexSpec,
			KindToTerminal: kind2Term,
			TerminalToKind: term2Kind,
			Skip:           skip,
			KindAliases:    kindAliases,
		},
		ParsingTable: &CompiledParsingTable{
			Action:                  action,
			GoTo:                    goTo,
			StateCount:              tab.stateCount,
			InitialState:            tab.InitialState.Int(),
			StartProduction:         productionNumStart.Int(),
			LHSSymbols:              lhsSyms,
			AlternativeSymbolCounts: altSymCounts,
			Terminals:               terms,
			TerminalCount:           tab.terminalCount,
			NonTerminals:            nonTerms,
			NonTerminalCount:        tab.nonTerminalCount,
			EOFSymbol:               symbolEOF.num().Int(),
		},
	}, report, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
