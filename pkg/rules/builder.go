package rules

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"mercator-hq/symbolic/pkg/engine"
	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
)

// builder turns a decoded rule file into compiled rules, collecting every
// problem instead of stopping at the first.
type builder struct {
	sourcePath string
	errors     *exprerrors.ErrorList
}

func newBuilder(sourcePath string) *builder {
	return &builder{
		sourcePath: sourcePath,
		errors:     exprerrors.NewErrorList(),
	}
}

func (b *builder) buildFile(yf *yamlRuleFile) (*RuleFile, error) {
	file := &RuleFile{
		Name:        yf.Name,
		Version:     yf.Version,
		Description: yf.Description,
		Source:      b.sourcePath,
		Rules:       make([]*RuleDef, 0, len(yf.Rules)),
	}

	if file.Name == "" {
		b.errors.AddErrorWithSuggestion(exprerrors.ErrorTypeRule, "Missing 'name'",
			b.location(nil), "Add 'name: <rule set name>' at the top of the file")
	}

	seen := make(map[string]bool)
	for i := range yf.Rules {
		yr := &yf.Rules[i]
		def, ok := b.buildRule(yr, i)
		if !ok {
			continue
		}
		if seen[def.Name] {
			b.errors.AddError(exprerrors.ErrorTypeRule,
				fmt.Sprintf("Duplicate rule name '%s'", def.Name), def.Location)
			continue
		}
		seen[def.Name] = true
		file.Rules = append(file.Rules, def)
	}

	if b.errors.HasErrors() {
		return nil, b.errors
	}
	return file, nil
}

func (b *builder) buildRule(yr *yamlRule, index int) (*RuleDef, bool) {
	loc := b.location(yr.node)
	errCount := b.errors.Count()

	if yr.Name == "" {
		b.errors.AddError(exprerrors.ErrorTypeRule, fmt.Sprintf("Rule at index %d has no name", index), loc)
	}
	if yr.Pattern == "" {
		b.errors.AddError(exprerrors.ErrorTypeRule, fmt.Sprintf("Rule '%s' has no pattern", yr.Name), loc)
	}
	if yr.Result == "" {
		b.errors.AddError(exprerrors.ErrorTypeRule, fmt.Sprintf("Rule '%s' has no result", yr.Name), loc)
	}
	if b.errors.Count() > errCount {
		return nil, false
	}

	captures := make(map[string]CaptureKind, len(yr.Captures))
	for name, kind := range yr.Captures {
		captures[name] = CaptureKind(kind)
	}

	ids, err := captureIDs(captures)
	if err != nil {
		b.add(err, mappingValue(yr.node, "captures"), 0)
		return nil, false
	}

	patternNode := mappingValue(yr.node, "pattern")
	pred, err := CompilePattern(yr.Pattern, captures, ids)
	if err != nil {
		b.add(err, patternNode, offsetOf(err))
		return nil, false
	}

	resultNode := mappingValue(yr.node, "result")
	res, err := CompileResult(yr.Result, ids)
	if err != nil {
		b.add(err, resultNode, offsetOf(err))
		return nil, false
	}

	rule, err := engine.NewNamedRule(yr.Name, pred, res)
	if err != nil {
		b.add(err, resultNode, 0)
		return nil, false
	}

	enabled := true
	if yr.Enabled != nil {
		enabled = *yr.Enabled
	}

	def := &RuleDef{
		Name:        yr.Name,
		Description: yr.Description,
		Enabled:     enabled,
		Pattern:     yr.Pattern,
		Result:      yr.Result,
		Captures:    captures,
		Location:    loc,
		Rule:        rule,
	}

	for i, yt := range yr.Tests {
		test, ok := b.buildTest(&yt, yr.Name, i)
		if ok {
			def.Tests = append(def.Tests, test)
		}
	}
	if b.errors.Count() > errCount {
		return nil, false
	}

	return def, true
}

func (b *builder) buildTest(yt *yamlRuleTest, rule string, index int) (RuleTest, bool) {
	loc := b.location(yt.node)
	if yt.Input == "" || yt.Expect == "" {
		b.errors.AddError(exprerrors.ErrorTypeRule,
			fmt.Sprintf("Test %d of rule '%s' needs both 'input' and 'expect'", index, rule), loc)
		return RuleTest{}, false
	}

	for _, field := range []struct{ key, text string }{{"input", yt.Input}, {"expect", yt.Expect}} {
		if _, err := engine.Evaluate(field.text); err != nil {
			b.add(err, mappingValue(yt.node, field.key), offsetOf(err))
			return RuleTest{}, false
		}
	}

	return RuleTest{Input: yt.Input, Expect: yt.Expect, Location: loc}, true
}

// add records err at node, shifting the column by offset characters into
// the node's text.
func (b *builder) add(err error, node *yaml.Node, offset int) {
	loc := b.location(node)
	if node != nil && offset > 0 {
		loc.Column += offset
		if node.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
			loc.Column++
		}
	}

	var exprErr *exprerrors.Error
	if errors.As(err, &exprErr) {
		b.errors.Add(&exprerrors.Error{
			Type:       exprErr.Type,
			Message:    exprErr.Message,
			Location:   loc,
			Suggestion: exprErr.Suggestion,
		})
		return
	}
	b.errors.AddError(exprerrors.ErrorTypeRule, err.Error(), loc)
}

func (b *builder) location(node *yaml.Node) exprerrors.Location {
	line, column := getLocation(node)
	if line == 0 {
		line, column = 1, 1
	}
	return exprerrors.Location{File: b.sourcePath, Line: line, Column: column}
}

// offsetOf returns the expression column carried by err, if any.
func offsetOf(err error) int {
	var exprErr *exprerrors.Error
	if errors.As(err, &exprErr) && exprErr.Source != "" {
		return exprErr.Column
	}
	return 0
}
