package policy

import (
	"fmt"
	"strings"
)

const (
	VariantPermissive = "permissive"
	VariantStrict     = "strict"
)

const (
	DefaultSiteOrigin  = "https://whatever-dev-ws.github.io"
	DefaultPathPattern = "/*"
)

var DefaultCDNOrigins = []string{
	"https://cdn.jsdelivr.net",
	"https://cdnjs.cloudflare.com",
	"https://unpkg.com",
}

const (
	fontStylesheetOrigin = "https://fonts.googleapis.com"
	fontFileOrigin       = "https://fonts.gstatic.com"
)

type Directive struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

type Policy struct {
	Variant    string      `json:"variant"`
	Directives []Directive `json:"directives"`
}

type Inputs struct {
	ScriptHash string
	StyleHash  string
	SiteOrigin string
	CDNOrigins []string
}

func Variants() []string {
	return []string{VariantPermissive, VariantStrict}
}

func ValidVariant(v string) bool {
	for _, known := range Variants() {
		if v == known {
			return true
		}
	}
	return false
}

// Build renders the directive list for variant. Directive order is fixed per
// variant so the header text is stable across runs.
func Build(variant string, in Inputs) (Policy, error) {
	site := firstNonEmpty(in.SiteOrigin, DefaultSiteOrigin)
	cdn := in.CDNOrigins
	if len(cdn) == 0 {
		cdn = DefaultCDNOrigins
	}
	script := SourceExpression(in.ScriptHash)

	switch variant {
	case VariantPermissive:
		return Policy{
			Variant: variant,
			Directives: []Directive{
				{Name: "default-src", Sources: []string{"'none'"}},
				{Name: "script-src", Sources: concat(cdn, []string{script, site, "'unsafe-eval'", "blob:"})},
				{Name: "connect-src", Sources: concat(cdn, []string{fontStylesheetOrigin, "data:"})},
				{Name: "img-src", Sources: []string{"data:"}},
				{Name: "font-src", Sources: concat(cdn, []string{fontFileOrigin})},
				{Name: "style-src", Sources: []string{"'unsafe-inline'"}},
				{Name: "worker-src", Sources: []string{"blob:"}},
				{Name: "base-uri", Sources: []string{"'none'"}},
				{Name: "form-action", Sources: []string{"'none'"}},
				{Name: "frame-ancestors", Sources: []string{site}},
			},
		}, nil
	case VariantStrict:
		return Policy{
			Variant: variant,
			Directives: []Directive{
				{Name: "default-src", Sources: []string{"'none'"}},
				{Name: "script-src", Sources: []string{script}},
				{Name: "style-src", Sources: []string{SourceExpression(in.StyleHash)}},
				{Name: "base-uri", Sources: []string{"'none'"}},
				{Name: "form-action", Sources: []string{"'none'"}},
				{Name: "frame-ancestors", Sources: []string{site}},
			},
		}, nil
	default:
		return Policy{}, fmt.Errorf("unknown policy variant %q (want one of %s)", variant, strings.Join(Variants(), ", "))
	}
}

func (p Policy) Lookup(name string) ([]string, bool) {
	for _, d := range p.Directives {
		if d.Name == name {
			return d.Sources, true
		}
	}
	return nil, false
}

// ValidatePolicy returns every problem found; an empty result means the
// policy is safe to publish.
func ValidatePolicy(pol Policy) []string {
	var errs []string
	if !ValidVariant(pol.Variant) {
		errs = append(errs, "unsupported policy variant")
	}
	seen := map[string]bool{}
	for _, d := range pol.Directives {
		name := normalizeToken(d.Name)
		if seen[name] {
			errs = append(errs, "duplicate directive "+name)
		}
		seen[name] = true
		if len(d.Sources) == 0 {
			errs = append(errs, "directive "+name+" has no sources")
		}
		for _, src := range d.Sources {
			if strings.HasPrefix(src, "'sha256-") && !validSourceExpression(src) {
				errs = append(errs, "directive "+name+" has malformed hash source "+src)
			}
			if pol.Variant == VariantStrict && name != "frame-ancestors" && !noneOrHash(src) {
				errs = append(errs, "strict directive "+name+" allows source "+src)
			}
		}
	}
	if !seen["frame-ancestors"] {
		errs = append(errs, "frame-ancestors directive required")
	}
	return errs
}

// noneOrHash reports whether src is one of the only two source forms a strict
// policy may carry outside frame-ancestors.
func noneOrHash(src string) bool {
	return src == "'none'" || validSourceExpression(src)
}

func concat(parts ...[]string) []string {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]string, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

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
