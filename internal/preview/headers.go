package preview

import (
	"bufio"
	"fmt"
	"net/http"
	"strings"
)

// Rule binds response headers to a path pattern from a headers file.
type Rule struct {
	Pattern string
	Header  http.Header
}

// ParseHeaders reads the static-hosting headers-file format: a path pattern
// at column zero followed by indented "Key: Value" lines.
func ParseHeaders(text string) ([]Rule, error) {
	var rules []Rule
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if raw[0] != ' ' && raw[0] != '\t' {
			rules = append(rules, Rule{Pattern: trimmed, Header: http.Header{}})
			continue
		}
		if len(rules) == 0 {
			return nil, fmt.Errorf("line %d: header before any path pattern", line)
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("line %d: expected \"Key: Value\"", line)
		}
		rules[len(rules)-1].Header.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r Rule) Matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return path == r.Pattern
}
