// Package minify wraps the tdewolff minifiers for a single HTML document with
// inline scripts and styles.
package minify

import (
	"fmt"

	"github.com/solardome/sitebuild/internal/extract"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

const mediaTypeHTML = "text/html"

type Minifier struct {
	m *tdminify.M
}

// New returns a minifier that collapses whitespace, drops comments and
// minifies inline JS and CSS. Document tags, end tags and attribute quotes
// are kept so the output remains a literal document.
func New() *Minifier {
	m := tdminify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(extract.ScriptTypes, js.Minify)
	m.Add(mediaTypeHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &Minifier{m: m}
}

func (mn *Minifier) HTML(doc string) (string, error) {
	out, err := mn.m.String(mediaTypeHTML, doc)
	if err != nil {
		return "", fmt.Errorf("minify html: %w", err)
	}
	return out, nil
}

// HTML minifies doc with a default Minifier.
func HTML(doc string) (string, error) {
	return New().HTML(doc)
}
