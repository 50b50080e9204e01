package policy

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// HashSource returns base64(SHA-256(body)) over the exact bytes of body.
// Browsers hash the literal inline content, so body must not be trimmed or
// re-encoded by callers.
func HashSource(body string) string {
	sum := sha256.Sum256([]byte(body))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func SourceExpression(hash string) string {
	return "'sha256-" + hash + "'"
}

func validSourceExpression(src string) bool {
	if !strings.HasPrefix(src, "'sha256-") || !strings.HasSuffix(src, "'") {
		return false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(src, "'sha256-"), "'")
	b, err := base64.StdEncoding.DecodeString(raw)
	return err == nil && len(b) == sha256.Size
}
