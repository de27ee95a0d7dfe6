// Package rules loads rewrite rules from YAML files.
//
// A rule file names a rule set and lists rules written in expression
// syntax:
//
//	name: simplify
//	version: "1.0"
//	rules:
//	  - name: add_zero
//	    pattern: "x + 0"
//	    result: "x"
//	    captures:
//	      x: any
//	    tests:
//	      - input: "(a * b) + 0"
//	        expect: "a * b"
//
// Every name in a pattern must be declared under captures with a kind of
// any, literal or variable. A name repeated in a pattern must match equal
// subtrees. Names in the result that are not captures stay as variables.
//
// Files are compiled by Parser, which reports every problem with its file,
// line and column. RunTests checks the embedded tests and Watcher reloads
// files as they change.
package rules
