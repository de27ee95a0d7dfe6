// Package function holds the static catalog of operators and routines the
// expression language understands.
//
// Each Function records how it is written (infix or routine), how many
// arguments it takes, how tightly it binds, and the algebraic properties the
// canonicalizer and the rewrite engine rely on: which argument positions may
// be permuted (Commutativity) and which nested calls may be merged
// (Associativity).
//
// The catalog is built once at package initialization and never mutated.
// Functions are compared by pointer identity:
//
//	fn, ok := function.Lookup("+", 3)
//	// fn == function.Add, ok == true
//
//	_, ok = function.Lookup("sqrt", 2)
//	// ok == false: sqrt takes exactly one argument
package function
