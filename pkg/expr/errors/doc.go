// Package errors provides the diagnostic type shared by the expression
// parser, the rewrite engine and the rule-file loader.
//
// Parse errors carry the 0-based column of the offending token together with
// the input text, so front ends can draw a caret under it:
//
//	> 2 * (3 + 4
//	             ^ expected ')'
//
// Rule-file errors carry a file Location instead, and can be enriched with
// the surrounding lines via AddContextToError.
//
// Levenshtein-based helpers produce "Did you mean" suggestions for typos in
// capture kinds and function names.
package errors
