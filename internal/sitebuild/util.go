package sitebuild

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func normalizeToken(s string) string {
	t := strings.TrimSpace(strings.ToLower(s))
	if t == "" {
		return "unknown"
	}
	return t
}

func fileSHA256(path string) (string, []byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:]), b, nil
}

func parseYAML(path, kind string, out interface{}) ([]byte, string, error) {
	hash, b, err := fileSHA256(path)
	if err != nil {
		return nil, "", err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, hash, fmt.Errorf("parse %s: %w", path, err)
	}
	schemaErrs := validateYAMLSchema(kind, &root)
	if len(schemaErrs) > 0 {
		return nil, hash, fmt.Errorf("%s", formatSchemaErrors(path, schemaErrs))
	}
	normalized := yamlNodeToValue(root.Content[0])
	j, err := json.Marshal(normalized)
	if err != nil {
		return nil, hash, fmt.Errorf("normalize %s: %w", path, err)
	}
	if err := json.Unmarshal(j, out); err != nil {
		return nil, hash, fmt.Errorf("decode %s: %w", path, err)
	}
	return b, hash, nil
}

// yamlNodeToValue keeps scalars as their literal text: every build setting is
// a string, and `schema_version: 1.0` must not turn into a float.
func yamlNodeToValue(node *yaml.Node) interface{} {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return yamlNodeToValue(node.Content[0])
	case yaml.MappingNode:
		m := make(map[string]interface{}, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			v := node.Content[i+1]
			m[k.Value] = yamlNodeToValue(v)
		}
		return m
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(node.Content))
		for _, c := range node.Content {
			out = append(out, yamlNodeToValue(c))
		}
		return out
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		return node.Value
	default:
		return node.Value
	}
}

func stableBuildID(inputs []InputDigest, variant string) string {
	parts := make([]string, 0, len(inputs)+1)
	for _, in := range inputs {
		parts = append(parts, in.Kind+":"+in.Path+":"+in.SHA256)
	}
	parts = append(parts, "variant:"+variant)
	sort.Strings(parts)
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

func addTrace(state *buildState, phase, result string, details map[string]interface{}) {
	state.Trace = append(state.Trace, TraceEntry{
		Order:   len(state.Trace) + 1,
		Phase:   phase,
		Result:  result,
		Details: details,
	})
}
