package grammar

import mlspec "github.com/nihei9/maleeni/spec"

type CompiledGrammar struct {
	Name                 string                `json:"name"`
	LexicalSpecification *LexicalSpecification `json:"lexical_specification"`
	ParsingTable         *CompiledParsingTable `json:"parsing_table"`
}

// LexicalSpecification bridges the lexer and the parser. The lexer reports
// tokens as lexical kind IDs, and KindToTerminal translates them into the
// terminal symbol numbers the ACTION table uses.
type LexicalSpecification struct {
	Spec           *mlspec.CompiledLexSpec `json:"spec"`
	KindToTerminal []int                   `json:"kind_to_terminal"`
	TerminalToKind []int                   `json:"terminal_to_kind"`
	Skip           []int                   `json:"skip"`
	KindAliases    []string                `json:"kind_aliases"`
}

// CompiledParsingTable contains the ACTION and GOTO tables in a flattened
// form. An ACTION entry at `state*TerminalCount + terminal` means:
//
// negative value: shift, and the negated value is the next state
// positive value: reduce, and the value is a production number
// 0: error
//
// A GOTO entry at `state*NonTerminalCount + non-terminal` holds the next
// state, and 0 means error.
type CompiledParsingTable struct {
	Action                  []int    `json:"action"`
	GoTo                    []int    `json:"goto"`
	StateCount              int      `json:"state_count"`
	InitialState            int      `json:"initial_state"`
	StartProduction         int      `json:"start_production"`
	LHSSymbols              []int    `json:"lhs_symbols"`
	AlternativeSymbolCounts []int    `json:"alternative_symbol_counts"`
	Terminals               []string `json:"terminals"`
	TerminalCount           int      `json:"terminal_count"`
	NonTerminals            []string `json:"non_terminals"`
	NonTerminalCount        int      `json:"non_terminal_count"`
	EOFSymbol               int      `json:"eof_symbol"`
}
