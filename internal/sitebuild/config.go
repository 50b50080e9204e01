package sitebuild

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solardome/sitebuild/internal/policy"
)

// resolveConfig layers cfg over the optional config file and the defaults.
// Fields already set on cfg win.
func resolveConfig(state *buildState, cfg Config) error {
	if strings.TrimSpace(cfg.ConfigPath) != "" {
		var fc fileConfig
		_, hash, err := parseYAML(cfg.ConfigPath, "build", &fc)
		state.InputDigests = append(state.InputDigests, InputDigest{Kind: "config_yaml", Path: cfg.ConfigPath, SHA256: hash, ReadOK: err == nil})
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		if fc.SchemaVersion != configSchemaVersion {
			return fmt.Errorf("config load failed: unsupported schema_version %q", fc.SchemaVersion)
		}
		cfg.SourcePath = firstNonEmpty(cfg.SourcePath, fc.Source)
		cfg.OutDir = firstNonEmpty(cfg.OutDir, fc.OutDir)
		cfg.HTMLFile = firstNonEmpty(cfg.HTMLFile, fc.HTMLFile)
		cfg.HeadersFile = firstNonEmpty(cfg.HeadersFile, fc.HeadersFile)
		cfg.PathPattern = firstNonEmpty(cfg.PathPattern, fc.PathPattern)
		cfg.Variant = firstNonEmpty(cfg.Variant, fc.Variant)
		cfg.SiteOrigin = firstNonEmpty(cfg.SiteOrigin, fc.SiteOrigin)
		if len(cfg.CDNOrigins) == 0 {
			cfg.CDNOrigins = append([]string{}, fc.CDNOrigins...)
		}
	}

	cfg.SourcePath = firstNonEmpty(cfg.SourcePath, DefaultSourcePath)
	cfg.OutDir = firstNonEmpty(cfg.OutDir, DefaultOutDir)
	cfg.HTMLFile = firstNonEmpty(cfg.HTMLFile, DefaultHTMLFile)
	cfg.HeadersFile = firstNonEmpty(cfg.HeadersFile, DefaultHeadersFile)
	cfg.PathPattern = firstNonEmpty(cfg.PathPattern, policy.DefaultPathPattern)
	cfg.Variant = normalizeToken(firstNonEmpty(cfg.Variant, policy.VariantPermissive))
	cfg.SiteOrigin = firstNonEmpty(cfg.SiteOrigin, policy.DefaultSiteOrigin)
	if len(cfg.CDNOrigins) == 0 {
		cfg.CDNOrigins = append([]string{}, policy.DefaultCDNOrigins...)
	}

	if errs := validateConfig(cfg); len(errs) > 0 {
		return errors.New("invalid build config: " + strings.Join(errs, "; "))
	}
	state.Config = cfg
	return nil
}

func validateConfig(cfg Config) []string {
	var errs []string
	if !policy.ValidVariant(cfg.Variant) {
		errs = append(errs, fmt.Sprintf("variant %q must be one of %s", cfg.Variant, strings.Join(policy.Variants(), ", ")))
	}
	if cfg.HTMLFile == cfg.HeadersFile {
		errs = append(errs, "html_file and headers_file must differ")
	}
	for _, name := range []string{cfg.HTMLFile, cfg.HeadersFile} {
		if strings.ContainsAny(name, `/\`) {
			errs = append(errs, fmt.Sprintf("output file name %q must not contain a path separator", name))
		}
	}
	if !strings.HasPrefix(cfg.PathPattern, "/") {
		errs = append(errs, "path_pattern must start with /")
	}
	for _, origin := range append([]string{cfg.SiteOrigin}, cfg.CDNOrigins...) {
		if !strings.HasPrefix(origin, "https://") && !strings.HasPrefix(origin, "http://") {
			errs = append(errs, fmt.Sprintf("origin %q must be an http(s) URL", origin))
		}
		if strings.ContainsAny(origin, " ;'") {
			errs = append(errs, fmt.Sprintf("origin %q contains characters not allowed in a CSP source", origin))
		}
	}
	return errs
}
