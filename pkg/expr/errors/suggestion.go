package errors

import (
	"fmt"
	"strings"
)

// SuggestName returns a "Did you mean" hint for the closest valid name, or
// lists the valid names when nothing is close.
func SuggestName(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string
	for _, name := range valid {
		if dist := levenshteinDistance(unknown, name); dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	if minDistance < 3 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(valid) > 8 {
		return fmt.Sprintf("Valid names include: %s, ...", strings.Join(valid[:8], ", "))
	}
	return fmt.Sprintf("Valid names: %s", strings.Join(valid, ", "))
}

// SuggestFunction suggests a catalog identifier for an unknown one.
func SuggestFunction(unknown string, identifiers []string) string {
	return SuggestName(unknown, identifiers)
}

// SuggestArity explains how many arguments a function takes.
func SuggestArity(identifier string, arity int, exact bool) string {
	if exact {
		return fmt.Sprintf("'%s' takes exactly %d argument(s)", identifier, arity)
	}
	return fmt.Sprintf("'%s' takes at least %d arguments", identifier, arity)
}

// SuggestCapture suggests declaring a name used in a pattern.
func SuggestCapture(name string) string {
	return fmt.Sprintf("Declare '%s' under captures, e.g. '%s: any'", name, name)
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	r1, r2 := []rune(s1), []rune(s2)
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
