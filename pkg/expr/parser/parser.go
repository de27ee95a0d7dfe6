package parser

import (
	"fmt"
	"unicode/utf8"

	"mercator-hq/symbolic/pkg/expr/ast"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
	"mercator-hq/symbolic/pkg/expr/function"
)

// DefaultMaxLength is the default input limit in bytes.
const DefaultMaxLength = 64 * 1024

// Parser turns expression text into a raw, unflattened tree.
type Parser struct {
	maxLength int // Maximum input length in bytes
}

// NewParser creates a parser with default limits.
func NewParser() *Parser {
	return &Parser{
		maxLength: DefaultMaxLength,
	}
}

// WithMaxLength sets the maximum accepted input length in bytes.
func (p *Parser) WithMaxLength(n int) *Parser {
	p.maxLength = n
	return p
}

// Parse parses a complete expression. Errors are *errors.Error values of
// type lexical or syntax carrying the column of the offending token.
func (p *Parser) Parse(input string) (ast.Ast, error) {
	if p.maxLength > 0 && len(input) > p.maxLength {
		return nil, &exprerrors.Error{
			Type:    exprerrors.ErrorTypeSyntax,
			Message: fmt.Sprintf("expression length %d exceeds maximum %d bytes", len(input), p.maxLength),
			Column:  utf8.RuneCountInString(input[:p.maxLength]),
			Source:  input,
		}
	}

	lx, err := NewLexer(input)
	if err != nil {
		return nil, err
	}

	st := &state{lx: lx, input: input}
	expr, err := st.expression()
	if err != nil {
		return nil, err
	}

	if trailing := lx.Read(); trailing.Kind != TokenEOL {
		return nil, st.errorf("unexpected '%s'", trailing)
	}
	return expr, nil
}

// Parse parses input with a default Parser.
func Parse(input string) (ast.Ast, error) {
	return NewParser().Parse(input)
}

// state is the per-call parsing state.
type state struct {
	lx    *Lexer
	input string
}

// errorf builds a syntax error at the last consumed token.
func (s *state) errorf(format string, args ...any) *exprerrors.Error {
	return &exprerrors.Error{
		Type:    exprerrors.ErrorTypeSyntax,
		Message: fmt.Sprintf(format, args...),
		Column:  s.lx.LastOffset(),
		Source:  s.input,
	}
}

// peekBinary returns the binary operator the next token names, if any.
func (s *state) peekBinary() *function.Function {
	tok := s.lx.Peek()
	if tok.Kind != TokenIdentifier {
		return nil
	}
	fn, ok := function.Lookup(tok.Text, 2)
	if !ok || fn.Syntax != function.SyntaxInfix {
		return nil
	}
	return fn
}

func (s *state) expression() (ast.Ast, error) {
	lhs, err := s.primary()
	if err != nil {
		return nil, err
	}
	return s.climb(lhs, function.PrecedenceLowest)
}

// climb folds binary operators binding at least as tightly as floor onto lhs.
func (s *state) climb(lhs ast.Ast, floor function.Precedence) (ast.Ast, error) {
	for {
		op := s.peekBinary()
		if op == nil || op.Precedence < floor {
			return lhs, nil
		}
		s.lx.Discard()

		rhs, err := s.primary()
		if err != nil {
			return nil, err
		}

		for {
			next := s.peekBinary()
			if next == nil {
				break
			}
			tighter := next.Precedence > op.Precedence
			if !tighter && !(next.Precedence == op.Precedence && op.Associativity == function.AssociativeRight) {
				break
			}

			level := op.Precedence
			if tighter {
				level++
			}
			if rhs, err = s.climb(rhs, level); err != nil {
				return nil, err
			}
		}

		lhs = &ast.Call{Fn: op, Args: []ast.Ast{lhs, rhs}}
	}
}

// primary parses a parenthesized expression, a leaf, a routine call or a
// prefix operator, then any implicit multiplication that follows it.
func (s *state) primary() (ast.Ast, error) {
	tok := s.lx.Read()

	var expr ast.Ast
	switch {
	case tok.Kind == TokenEOL:
		return nil, s.errorf("expected an expression")

	case tok.Is("("):
		nested, err := s.expression()
		if err != nil {
			return nil, err
		}
		if !s.lx.Read().Is(")") {
			return nil, s.errorf("expected ')'")
		}
		expr = nested

	case tok.Kind == TokenName:
		expr = ast.NewVariable(tok.Text)

	case tok.Kind == TokenIdentifier:
		call, err := s.call(tok.Text)
		if err != nil {
			return nil, err
		}
		expr = call

	case tok.Kind == TokenNumber:
		expr = ast.NewLiteral(tok.Value)

	default:
		return nil, s.errorf("invalid token '%s'", tok)
	}

	return s.shorthand(expr)
}

// call parses what follows a catalog identifier in operand position.
func (s *state) call(identifier string) (ast.Ast, error) {
	if s.lx.Peek().Is("(") {
		return s.routine(identifier)
	}

	fn, ok := function.Lookup(identifier, 1)
	if !ok {
		return nil, s.errorf("function is not a unary operator '%s'", identifier)
	}
	arg, err := s.primary()
	if err != nil {
		return nil, err
	}
	return &ast.Call{Fn: fn, Args: []ast.Ast{arg}}, nil
}

// routine parses a parenthesized argument list and resolves the overload by
// argument count.
func (s *state) routine(identifier string) (ast.Ast, error) {
	s.lx.Discard() // '('

	var args []ast.Ast
	for !s.lx.Peek().Is(")") {
		if len(args) > 0 && !s.lx.Read().Is(",") {
			return nil, s.errorf("expected ',' or ')'")
		}
		arg, err := s.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	s.lx.Discard() // ')'

	fn, ok := function.Lookup(identifier, len(args))
	if !ok {
		return nil, s.errorf("no overload found for '%s' taking %d arguments", identifier, len(args))
	}
	return &ast.Call{Fn: fn, Args: args}, nil
}

// shorthand turns a primary immediately followed by another primary into a
// product, so "2x" and "3(a + b)" parse as multiplications.
func (s *state) shorthand(lhs ast.Ast) (ast.Ast, error) {
	next := s.lx.Peek()
	if next.Kind != TokenName && next.Kind != TokenNumber && !next.Is("(") {
		return lhs, nil
	}

	rhs, err := s.primary()
	if err != nil {
		return nil, err
	}
	return &ast.Call{Fn: function.Multiply, Args: []ast.Ast{lhs, rhs}}, nil
}
