package rules

import (
	"fmt"

	"mercator-hq/symbolic/pkg/engine"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
)

// CaptureKind restricts what a pattern variable may match.
type CaptureKind string

const (
	CaptureAny      CaptureKind = "any"      // Any subtree
	CaptureLiteral  CaptureKind = "literal"  // Numeric literals only
	CaptureVariable CaptureKind = "variable" // Variables only
)

// CaptureKinds lists every valid capture kind.
func CaptureKinds() []string {
	return []string{string(CaptureAny), string(CaptureLiteral), string(CaptureVariable)}
}

// RuleFile is a parsed and validated rule file.
type RuleFile struct {
	Name        string
	Version     string
	Description string
	Source      string
	Rules       []*RuleDef
}

// RuleDef is a single rule together with the text it was built from.
type RuleDef struct {
	Name        string
	Description string
	Enabled     bool
	Pattern     string
	Result      string
	Captures    map[string]CaptureKind
	Tests       []RuleTest
	Location    exprerrors.Location

	// Rule is the compiled engine rule.
	Rule *engine.Rule
}

// RuleTest is an input with the expected output of applying one rule.
type RuleTest struct {
	Input    string
	Expect   string
	Location exprerrors.Location
}

// Enabled returns the enabled rules in file order.
func (f *RuleFile) Enabled() []*RuleDef {
	var out []*RuleDef
	for _, r := range f.Rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// RuleSet assembles the enabled rules of the given files, in order, into a
// rule set named name.
func RuleSet(name string, files ...*RuleFile) (*engine.RuleSet, error) {
	rs := engine.NewRuleSet(name)
	for _, f := range files {
		for _, def := range f.Enabled() {
			if err := rs.Add(def.Rule); err != nil {
				return nil, fmt.Errorf("%s: %w", f.Source, err)
			}
		}
	}
	return rs, nil
}
