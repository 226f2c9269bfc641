package driver

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/PunGy/math-expression-parser/grammar"
)

// Token is a lexical token annotated with the terminal symbol number the
// parsing table uses.
type Token struct {
	// Terminal is the terminal symbol number corresponding to the token's
	// lexical kind. An invalid token has the terminal symbol number 0, and
	// an EOF token has the EOF symbol number.
	Terminal int

	// KindName is the name of the token's lexical kind. It is empty for EOF
	// and invalid tokens.
	KindName string

	// Row and Col are 0-based.
	Row int
	Col int

	Lexeme []byte

	// Value is the numeric value of a number token.
	Value float64

	EOF     bool
	Invalid bool
}

// TokenStream hands over tokens from the lexer to the parser. Tokens of skip
// kinds never appear in the stream.
type TokenStream struct {
	lex            *mldriver.Lexer
	kindNames      []mlspec.LexKindName
	kindToTerminal []int
	skip           []int
	eofSymbol      int
}

func NewTokenStream(g *grammar.CompiledGrammar, src io.Reader) (*TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.LexicalSpecification.Spec), src)
	if err != nil {
		return nil, err
	}

	return &TokenStream{
		lex:            lex,
		kindNames:      g.LexicalSpecification.Spec.KindNames,
		kindToTerminal: g.LexicalSpecification.KindToTerminal,
		skip:           g.LexicalSpecification.Skip,
		eofSymbol:      g.ParsingTable.EOFSymbol,
	}, nil
}

func (s *TokenStream) Next() (*Token, error) {
	for {
		// We don't have to reject an invalid token here. Its kind ID is 0, which maps to
		// the terminal symbol number 0, and the parsing table has no entry for the terminal
		// symbol 0. Thus the parser detects a syntax error by itself.
		tok, err := s.lex.Next()
		if err != nil {
			return nil, err
		}

		if s.skip[tok.KindID] > 0 {
			continue
		}

		return s.newToken(tok)
	}
}

func (s *TokenStream) newToken(tok *mldriver.Token) (*Token, error) {
	if tok.EOF {
		return &Token{
			Terminal: s.eofSymbol,
			Row:      tok.Row,
			Col:      tok.Col,
			EOF:      true,
		}, nil
	}

	kindName := s.kindNames[tok.KindID].String()
	t := &Token{
		Terminal: s.kindToTerminal[tok.KindID],
		KindName: kindName,
		Row:      tok.Row,
		Col:      tok.Col,
		Lexeme:   tok.Lexeme,
		Invalid:  tok.Invalid,
	}

	if kindName == grammar.KindNumber {
		// The number pattern guarantees the lexeme is a valid literal, so the only
		// error ParseFloat can report is a range error. In that case it saturates
		// the value to an infinity, which is what we want for oversized literals.
		v, err := strconv.ParseFloat(string(tok.Lexeme), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("invalid number literal '%v': %v", string(tok.Lexeme), err)
		}
		t.Value = v
	}

	return t, nil
}
