package parser

import (
	"errors"
	"testing"

	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
)

func TestLexerTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []TokenKind
		texts []string
	}{
		{
			name:  "simple sum",
			input: "1 + x",
			kinds: []TokenKind{TokenNumber, TokenIdentifier, TokenName, TokenEOL},
			texts: []string{"1", "+", "x", "EOL"},
		},
		{
			name:  "greedy operators",
			input: "+===",
			kinds: []TokenKind{TokenIdentifier, TokenIdentifier, TokenSymbol, TokenEOL},
			texts: []string{"+", "==", "=", "EOL"},
		},
		{
			name:  "operator followed by unary minus",
			input: "a<=-b",
			kinds: []TokenKind{TokenName, TokenIdentifier, TokenIdentifier, TokenName, TokenEOL},
			texts: []string{"a", "<=", "-", "b", "EOL"},
		},
		{
			name:  "routine identifier",
			input: "sqrt(x_1)",
			kinds: []TokenKind{TokenIdentifier, TokenSymbol, TokenName, TokenNumber, TokenSymbol, TokenEOL},
			texts: []string{"sqrt", "(", "x_", "1", ")", "EOL"},
		},
		{
			name:  "power",
			input: "2**x",
			kinds: []TokenKind{TokenNumber, TokenIdentifier, TokenName, TokenEOL},
			texts: []string{"2", "**", "x", "EOL"},
		},
		{
			name:  "empty",
			input: "   ",
			kinds: []TokenKind{TokenEOL},
			texts: []string{"EOL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, err := NewLexer(tt.input)
			if err != nil {
				t.Fatalf("NewLexer(%q) error = %v", tt.input, err)
			}
			toks := lx.Tokens()
			if len(toks) != len(tt.kinds) {
				t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(tt.kinds))
			}
			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] || tok.String() != tt.texts[i] {
					t.Errorf("token %d = (%d, %q), want (%d, %q)", i, tok.Kind, tok, tt.kinds[i], tt.texts[i])
				}
			}
		})
	}
}

func TestLexerOffsets(t *testing.T) {
	lx, err := NewLexer("  π +  12.5")
	if err != nil {
		t.Fatal(err)
	}

	want := []int{2, 4, 7, 11}
	for i, tok := range lx.Tokens() {
		if tok.Offset != want[i] {
			t.Errorf("token %q offset = %d, want %d", tok, tok.Offset, want[i])
		}
	}
	if toks := lx.Tokens(); toks[2].Value != 12.5 {
		t.Errorf("number value = %v, want 12.5", toks[2].Value)
	}
}

func TestLexerCursor(t *testing.T) {
	lx, err := NewLexer("a + b")
	if err != nil {
		t.Fatal(err)
	}

	if got := lx.LastOffset(); got != 0 {
		t.Errorf("LastOffset before reading = %d, want 0", got)
	}
	if tok := lx.Peek(); tok.Text != "a" {
		t.Errorf("Peek() = %q, want a", tok)
	}
	if tok := lx.Read(); tok.Text != "a" {
		t.Errorf("Read() = %q, want a", tok)
	}
	lx.Discard()
	if got := lx.LastOffset(); got != 2 {
		t.Errorf("LastOffset after '+' = %d, want 2", got)
	}
	lx.Read()
	for i := 0; i < 3; i++ {
		if tok := lx.Read(); tok.Kind != TokenEOL {
			t.Fatalf("Read past end = %q, want EOL", tok)
		}
	}
	if got := lx.LastOffset(); got != 5 {
		t.Errorf("LastOffset at EOL = %d, want 5", got)
	}
}

func TestLexerInvalidNumber(t *testing.T) {
	_, err := NewLexer("x + 1.2.3")

	var perr *exprerrors.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *errors.Error", err)
	}
	if perr.Type != exprerrors.ErrorTypeLexical {
		t.Errorf("Type = %s, want lexical", perr.Type)
	}
	if perr.Column != 4 {
		t.Errorf("Column = %d, want 4", perr.Column)
	}
}
