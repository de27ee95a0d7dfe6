package rules

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlRuleFile is the document shape of a rule file before it is turned
// into engine rules.
type yamlRuleFile struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Description string     `yaml:"description"`
	Rules       []yamlRule `yaml:"-"`
}

// yamlRule is one entry of the rules list.
type yamlRule struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Enabled     *bool             `yaml:"enabled"` // Pointer to distinguish unset vs false
	Pattern     string            `yaml:"pattern"`
	Result      string            `yaml:"result"`
	Captures    map[string]string `yaml:"captures"`
	Tests       []yamlRuleTest    `yaml:"tests"`

	node *yaml.Node
}

// yamlRuleTest is an input/expected pair exercising a single rule.
type yamlRuleTest struct {
	Input  string `yaml:"input"`
	Expect string `yaml:"expect"`

	node *yaml.Node
}

func parseYAMLFile(path string) (*yamlRuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYAMLBytes(data)
}

// parseYAMLBytes decodes a rule file while keeping the node of every rule
// and test so errors can point at their lines.
func parseYAMLBytes(data []byte) (*yamlRuleFile, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	file := &yamlRuleFile{}
	if len(doc.Content) == 0 {
		return file, nil
	}
	root := doc.Content[0]

	if err := root.Decode(file); err != nil {
		return nil, err
	}

	rulesNode := mappingValue(root, "rules")
	if rulesNode == nil || rulesNode.Kind != yaml.SequenceNode {
		return file, nil
	}

	for _, item := range rulesNode.Content {
		var yr yamlRule
		if err := item.Decode(&yr); err != nil {
			return nil, err
		}
		yr.node = item

		if testsNode := mappingValue(item, "tests"); testsNode != nil && testsNode.Kind == yaml.SequenceNode {
			for i, testNode := range testsNode.Content {
				if i < len(yr.Tests) {
					yr.Tests[i].node = testNode
				}
			}
		}
		file.Rules = append(file.Rules, yr)
	}

	return file, nil
}

// mappingValue returns the value node stored under key in a mapping node.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// getLocation returns the line and column of a node.
func getLocation(node *yaml.Node) (int, int) {
	if node == nil {
		return 0, 0
	}
	return node.Line, node.Column
}
