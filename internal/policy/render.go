package policy

import "strings"

const (
	HeaderCSP         = "Content-Security-Policy"
	HeaderNoSniff     = "X-Content-Type-Options"
	headerIndentation = "  "
)

func (p Policy) String() string {
	parts := make([]string, 0, len(p.Directives))
	for _, d := range p.Directives {
		parts = append(parts, d.Name+" "+strings.Join(d.Sources, " "))
	}
	return strings.Join(parts, "; ")
}

// RenderHeaders renders the policy as a headers-file block for pathPattern.
// The block has no trailing newline.
func RenderHeaders(pathPattern string, pol Policy) string {
	if strings.TrimSpace(pathPattern) == "" {
		pathPattern = DefaultPathPattern
	}
	lines := []string{
		pathPattern,
		headerIndentation + HeaderCSP + ": " + pol.String(),
		headerIndentation + HeaderNoSniff + ": nosniff",
	}
	return strings.Join(lines, "\n")
}
