// Package parser converts expression text into an expression tree.
//
// Tokenization splits the input into runs of one character class (word,
// number, whitespace, symbol). Words that name catalog functions become
// identifiers; symbol runs are split greedily into the longest operator
// identifiers they contain, so "a<=-b" yields a, <=, -, b.
//
// Parsing is recursive descent for primaries (parenthesized expressions,
// variables, literals, routine calls, prefix operators) combined with
// precedence climbing for binary operators. A primary directly followed by a
// name, number or '(' is an implicit multiplication:
//
//	2x        -> 2*x
//	3(a + b)  -> 3*(a + b)
//
// The parser returns the raw tree; canonicalization is a separate step in
// the engine package.
//
// Errors stop at the first failure and report the 0-based column of the
// last token consumed:
//
//	_, err := parser.Parse("(1 + 2")
//	// [syntax] expected ')' at column 6
package parser
