package extract

import (
	"regexp"
	"strings"
)

// ScriptTypes matches the type attribute values a browser executes as script.
// Data blocks such as application/ld+json or text/template do not match.
var ScriptTypes = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$|^module$`)

// ExecutableScriptType reports whether a <script> with the given type
// attribute runs as script. An absent or empty type is classic JavaScript.
func ExecutableScriptType(typ string) bool {
	t := strings.TrimSpace(strings.ToLower(typ))
	if mediaType, _, ok := strings.Cut(t, ";"); ok {
		t = strings.TrimSpace(mediaType)
	}
	if t == "" {
		return true
	}
	return ScriptTypes.MatchString(t)
}
