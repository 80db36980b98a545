package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/ats-resume/internal/schemas"
	"github.com/jonathan/ats-resume/internal/types"
	"gopkg.in/yaml.v3"
)

// readInput reads path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return content, nil
}

// isYAML reports whether path names a YAML document.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// toJSON returns content as JSON, converting from YAML when path has a YAML extension.
func toJSON(path string, content []byte) ([]byte, error) {
	if !isYAML(path) {
		return content, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(content, &node); err != nil {
		return nil, &types.InputMalformedError{Message: "input is not valid YAML", Cause: err}
	}
	doc, err := yamlValue(&node)
	if err != nil {
		return nil, &types.InputMalformedError{Message: "YAML document cannot be represented as JSON", Cause: err}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, &types.InputMalformedError{Message: "YAML document cannot be represented as JSON", Cause: err}
	}
	return out, nil
}

// yamlValue converts a YAML node into JSON-compatible values. Scalars other than
// numbers, booleans and null keep their source text, so an unquoted date such as
// 2021-01-01 stays the string "2021-01-01".
func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!int", "!!float", "!!bool":
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, err
			}
			return v, nil
		}
		return n.Value, nil
	}
	return nil, fmt.Errorf("unsupported YAML node at line %d", n.Line)
}

// loadResume reads, schema-checks and decodes a résumé from a JSON or YAML file.
func loadResume(path string) (types.ResumeData, error) {
	content, err := readInput(path)
	if err != nil {
		return types.ResumeData{}, err
	}
	return decodeResume(path, content)
}

// decodeResume schema-checks and decodes content read from path.
func decodeResume(path string, content []byte) (types.ResumeData, error) {
	raw, err := toJSON(path, content)
	if err != nil {
		return types.ResumeData{}, err
	}
	raw, err = types.UnwrapJSONBody(raw)
	if err != nil {
		return types.ResumeData{}, err
	}
	if err := schemas.ValidateResume(raw); err != nil {
		return types.ResumeData{}, err
	}
	return types.ParseResume(raw)
}

// writeOutput writes content to path, or stdout when path is "-", creating parent directories.
func writeOutput(path string, content []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
