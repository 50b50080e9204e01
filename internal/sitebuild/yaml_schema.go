package sitebuild

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type schemaError struct {
	Path    string
	Line    int
	Message string
}

func (e schemaError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d field %s: %s", e.Line, e.Path, e.Message)
	}
	return fmt.Sprintf("field %s: %s", e.Path, e.Message)
}

func formatSchemaErrors(path string, errs []schemaError) string {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Line != errs[j].Line {
			return errs[i].Line < errs[j].Line
		}
		if errs[i].Path != errs[j].Path {
			return errs[i].Path < errs[j].Path
		}
		return errs[i].Message < errs[j].Message
	})
	var b strings.Builder
	b.WriteString("schema validation failed for ")
	b.WriteString(path)
	for _, e := range errs {
		b.WriteString("\n- ")
		b.WriteString(e.String())
	}
	return b.String()
}

func validateYAMLSchema(kind string, root *yaml.Node) []schemaError {
	if root == nil || len(root.Content) == 0 {
		return []schemaError{{Path: kind, Line: 0, Message: "empty YAML document"}}
	}
	node := root.Content[0]
	switch kind {
	case "build":
		return validateBuildYAML(node)
	default:
		return nil
	}
}

func validateBuildYAML(node *yaml.Node) []schemaError {
	errList := []schemaError{}
	allowed := []string{"schema_version", "source", "out_dir", "html_file", "headers_file", "path_pattern", "variant", "site_origin", "cdn_origins"}
	required := []string{"schema_version"}
	m := validateMapNode(node, "build", allowed, required, &errList)
	for _, key := range []string{"schema_version", "source", "out_dir", "html_file", "headers_file", "path_pattern", "variant", "site_origin"} {
		if v, ok := m[key]; ok {
			validateScalarNode(v, "build."+key, &errList)
		}
	}
	if v, ok := m["cdn_origins"]; ok {
		seq := validateSequenceNode(v, "build.cdn_origins", &errList)
		for i, item := range seq {
			validateScalarNode(item, fmt.Sprintf("build.cdn_origins[%d]", i), &errList)
		}
	}
	return errList
}

func validateMapNode(node *yaml.Node, path string, allowed, required []string, errs *[]schemaError) map[string]*yaml.Node {
	result := map[string]*yaml.Node{}
	if node == nil {
		*errs = append(*errs, schemaError{Path: path, Line: 0, Message: "missing object"})
		return result
	}
	if node.Kind != yaml.MappingNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a mapping/object"})
		return result
	}
	allowedSet := map[string]bool{}
	for _, a := range allowed {
		allowedSet[a] = true
	}
	seen := map[string]int{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		v := node.Content[i+1]
		key := k.Value
		if prevLine, ok := seen[key]; ok {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: fmt.Sprintf("duplicate key (already defined at line %d)", prevLine)})
			continue
		}
		seen[key] = k.Line
		if !allowedSet[key] {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: "unknown field"})
		}
		result[key] = v
	}
	for _, req := range required {
		if _, ok := result[req]; !ok {
			*errs = append(*errs, schemaError{Path: path + "." + req, Line: node.Line, Message: "missing required field"})
		}
	}
	return result
}

func validateSequenceNode(node *yaml.Node, path string, errs *[]schemaError) []*yaml.Node {
	if node == nil {
		*errs = append(*errs, schemaError{Path: path, Line: 0, Message: "missing sequence"})
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a sequence/array"})
		return nil
	}
	return node.Content
}

func validateScalarNode(node *yaml.Node, path string, errs *[]schemaError) {
	if node == nil || node.Kind != yaml.ScalarNode {
		line := 0
		if node != nil {
			line = node.Line
		}
		*errs = append(*errs, schemaError{Path: path, Line: line, Message: "must be a scalar"})
	}
}
