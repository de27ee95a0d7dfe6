package parser

import (
	"fmt"
	"strconv"
	"unicode"

	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
	"mercator-hq/symbolic/pkg/expr/function"
)

// TokenKind identifies the variant of a Token.
type TokenKind uint8

const (
	// TokenEOL terminates every token stream.
	TokenEOL TokenKind = iota
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenName is a word that is not a catalog identifier.
	TokenName
	// TokenIdentifier is a catalog identifier, either a word or an operator.
	TokenIdentifier
	// TokenSymbol is any other single character, such as '(' or ','.
	TokenSymbol
)

// Token is one lexical unit with its starting column.
type Token struct {
	Kind   TokenKind
	Text   string
	Value  float64 // set for TokenNumber
	Offset int     // 0-based rune offset of the first character
}

// String returns the token text, or "EOL" for the terminator.
func (t Token) String() string {
	if t.Kind == TokenEOL {
		return "EOL"
	}
	return t.Text
}

// Is reports whether t is the symbol s.
func (t Token) Is(s string) bool {
	return t.Kind == TokenSymbol && t.Text == s
}

type class uint8

const (
	classWord class = iota
	classDigit
	classSpace
	classSymbol
)

func classify(r rune) class {
	switch {
	case unicode.IsLetter(r) || r == '_':
		return classWord
	case unicode.IsDigit(r) || r == '.':
		return classDigit
	case unicode.IsSpace(r):
		return classSpace
	default:
		return classSymbol
	}
}

// Lexer holds a fully tokenized input and a read cursor over it.
type Lexer struct {
	tokens []Token
	cursor int
	last   int
}

// NewLexer tokenizes input. The only failure is a digit run that does not
// form a valid number.
func NewLexer(input string) (*Lexer, error) {
	runes := []rune(input)
	lx := &Lexer{tokens: make([]Token, 0, len(runes)/2+1), last: -1}

	for start := 0; start < len(runes); {
		cls := classify(runes[start])
		end := start + 1
		for end < len(runes) && classify(runes[end]) == cls {
			end++
		}
		run := string(runes[start:end])

		switch cls {
		case classWord:
			kind := TokenName
			if function.IsIdentifier(run) {
				kind = TokenIdentifier
			}
			lx.tokens = append(lx.tokens, Token{Kind: kind, Text: run, Offset: start})
		case classDigit:
			v, err := strconv.ParseFloat(run, 64)
			if err != nil {
				return nil, &exprerrors.Error{
					Type:    exprerrors.ErrorTypeLexical,
					Message: fmt.Sprintf("invalid number '%s'", run),
					Column:  start,
					Source:  input,
				}
			}
			lx.tokens = append(lx.tokens, Token{Kind: TokenNumber, Text: run, Value: v, Offset: start})
		case classSymbol:
			lx.splitSymbols(runes[start:end], start)
		}

		start = end
	}

	lx.tokens = append(lx.tokens, Token{Kind: TokenEOL, Offset: len(runes)})
	return lx, nil
}

// splitSymbols breaks a run of symbol characters into the longest catalog
// identifiers it starts with, falling back to single characters.
func (lx *Lexer) splitSymbols(run []rune, offset int) {
	for i := 0; i < len(run); {
		n := len(run) - i
		for ; n > 1; n-- {
			if function.IsIdentifier(string(run[i : i+n])) {
				break
			}
		}

		text := string(run[i : i+n])
		kind := TokenSymbol
		if function.IsIdentifier(text) {
			kind = TokenIdentifier
		}
		lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Offset: offset + i})
		i += n
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() Token {
	return lx.tokens[lx.cursor]
}

// Read consumes and returns the next token. Reading past the end keeps
// returning EOL.
func (lx *Lexer) Read() Token {
	tok := lx.Peek()
	lx.Discard()
	return tok
}

// Discard consumes the next token.
func (lx *Lexer) Discard() {
	lx.last = lx.cursor
	if lx.cursor < len(lx.tokens)-1 {
		lx.cursor++
	}
}

// LastOffset returns the column of the most recently consumed token, or of
// the first token when nothing has been consumed yet.
func (lx *Lexer) LastOffset() int {
	if lx.last < 0 {
		return lx.tokens[0].Offset
	}
	return lx.tokens[lx.last].Offset
}

// Tokens returns the token stream including the trailing EOL.
func (lx *Lexer) Tokens() []Token {
	out := make([]Token, len(lx.tokens))
	copy(out, lx.tokens)
	return out
}
