// Symbolic parses, canonicalizes and rewrites algebraic expressions.
//
// It provides:
//   - A precedence-climbing parser with column-accurate error reporting
//   - Canonical rendering and flattening of associative operators
//   - A pattern-based rewrite engine driven by YAML rule files
//   - An HTTP service with evaluation history and Prometheus metrics
//
// Usage:
//
//	# Canonicalize an expression
//	symbolic eval "(a + b) + c"
//
//	# Interactive session
//	symbolic repl
//
//	# Apply a rule file
//	symbolic rewrite --rules rules/simplify.yaml "x * 1 + 0"
//
//	# Validate and test rule files
//	symbolic lint --dir rules/
//
//	# Start the HTTP service
//	symbolic serve --config /path/to/config.yaml
package main

func main() {
	Execute()
}
