package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	exprerrors "mercator-hq/symbolic/pkg/expr/errors"
)

// Parser loads rule files from disk or memory.
type Parser struct {
	maxFileSize int64 // Maximum file size in bytes (default: 1MB)
}

// NewParser creates a parser with default limits.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 1024 * 1024,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// Parse reads and compiles the rule file at path.
func (p *Parser) Parse(path string) (*RuleFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &exprerrors.Error{
			Type:     exprerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access file: %v", err),
			Location: exprerrors.Location{File: path},
		}
	}
	if info.Size() > p.maxFileSize {
		return nil, &exprerrors.Error{
			Type:     exprerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("File size %d exceeds maximum %d bytes", info.Size(), p.maxFileSize),
			Location: exprerrors.Location{File: path},
		}
	}

	yf, err := parseYAMLFile(path)
	if err != nil {
		return nil, yamlError(err, path)
	}

	file, err := newBuilder(path).buildFile(yf)
	if err != nil {
		if errList, ok := err.(*exprerrors.ErrorList); ok {
			for i, e := range errList.Errors {
				errList.Errors[i] = exprerrors.AddContextToError(e)
			}
		}
		return nil, err
	}
	return file, nil
}

// ParseBytes compiles rule-file YAML held in memory. sourcePath is used
// only in diagnostics.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*RuleFile, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &exprerrors.Error{
			Type:     exprerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: exprerrors.Location{File: sourcePath},
		}
	}

	yf, err := parseYAMLBytes(data)
	if err != nil {
		return nil, yamlError(err, sourcePath)
	}

	file, err := newBuilder(sourcePath).buildFile(yf)
	if err != nil {
		if errList, ok := err.(*exprerrors.ErrorList); ok {
			for _, e := range errList.Errors {
				e.Context = exprerrors.ExtractContextBytes(data, e.Location, 1)
			}
		}
		return nil, err
	}
	return file, nil
}

// ParseDir compiles every .yaml and .yml file directly inside dir, in
// name order.
func (p *Parser) ParseDir(dir string) ([]*RuleFile, error) {
	paths, err := RuleFiles(dir)
	if err != nil {
		return nil, err
	}
	return p.ParseMulti(paths)
}

// ParseMulti compiles several files, reporting every file's errors.
func (p *Parser) ParseMulti(paths []string) ([]*RuleFile, error) {
	files := make([]*RuleFile, 0, len(paths))
	all := exprerrors.NewErrorList()

	for _, path := range paths {
		file, err := p.Parse(path)
		if err != nil {
			switch e := err.(type) {
			case *exprerrors.ErrorList:
				for _, item := range e.Errors {
					all.Add(item)
				}
			case *exprerrors.Error:
				all.Add(e)
			default:
				all.AddError(exprerrors.ErrorTypeIO, err.Error(), exprerrors.Location{File: path})
			}
			continue
		}
		files = append(files, file)
	}

	if err := all.ToError(); err != nil {
		return nil, err
	}
	return files, nil
}

// Load compiles path, which may be a single file or a directory.
func (p *Parser) Load(path string) ([]*RuleFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &exprerrors.Error{
			Type:     exprerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("Failed to access path: %v", err),
			Location: exprerrors.Location{File: path},
		}
	}
	if info.IsDir() {
		return p.ParseDir(path)
	}
	return p.ParseMulti([]string{path})
}

// RuleFiles lists the rule files directly inside dir, sorted by name.
func RuleFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if IsRuleFile(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// IsRuleFile reports whether name has a rule-file extension.
func IsRuleFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func yamlError(err error, path string) *exprerrors.Error {
	return &exprerrors.Error{
		Type:       exprerrors.ErrorTypeSyntax,
		Message:    fmt.Sprintf("YAML parsing failed: %v", err),
		Location:   exprerrors.Location{File: path, Line: 1, Column: 1},
		Suggestion: "Check YAML syntax (indentation, colons, quotes)",
	}
}
