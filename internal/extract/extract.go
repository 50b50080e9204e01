// Package extract locates the inline script and style bodies that a CSP hash
// source must pin.
//
// Selection is positional: the last inline <script> and the first <style>
// win. Bodies are returned as the raw bytes between the start and end tag,
// because browsers hash the literal inline content.
package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Extraction struct {
	Script      string
	Style       string
	ScriptCount int
	StyleCount  int
}

func (e Extraction) HasScript() bool { return e.ScriptCount > 0 }
func (e Extraction) HasStyle() bool  { return e.StyleCount > 0 }

// Inline scans doc and returns the last inline script body and the first
// style body. A script with a src attribute is external and ignored, as is a
// data block whose type is not executable.
func Inline(doc string) (Extraction, error) {
	var out Extraction
	z := html.NewTokenizer(strings.NewReader(doc))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return Extraction{}, err
			}
			return out, nil
		case html.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Script:
				if _, ok := attr(tok, "src"); ok {
					continue
				}
				if typ, _ := attr(tok, "type"); !ExecutableScriptType(typ) {
					continue
				}
				body := rawBody(z)
				out.ScriptCount++
				out.Script = body
			case atom.Style:
				body := rawBody(z)
				out.StyleCount++
				if out.StyleCount == 1 {
					out.Style = body
				}
			}
		}
	}
}

// rawBody consumes the text of a raw-text element. The tokenizer yields at
// most one text token followed by the end tag.
func rawBody(z *html.Tokenizer) string {
	if z.Next() != html.TextToken {
		return ""
	}
	return string(z.Raw())
}

func attr(tok html.Token, key string) (string, bool) {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
