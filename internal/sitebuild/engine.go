package sitebuild

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/solardome/sitebuild/internal/extract"
	"github.com/solardome/sitebuild/internal/minify"
	"github.com/solardome/sitebuild/internal/output"
	"github.com/solardome/sitebuild/internal/policy"
)

const (
	warnNoInlineScript  = "no inline script found; script-src pins the empty-body hash"
	warnNoInlineStyle   = "no inline style found; style-src pins the empty-body hash"
	warnMultipleScripts = "%d inline scripts found; only the last one is pinned in script-src"
	warnMultipleStyles  = "%d inline styles found; only the first one is pinned in style-src"
)

// Run executes one build: load, minify, extract, hash, render the policy and
// write the outputs. Any error aborts the build; outputs written before a
// write failure are left in place.
func Run(cfg Config) (Result, error) {
	var log *auditLogger
	if strings.TrimSpace(cfg.RunLogPath) != "" {
		l, err := newAuditLogger(cfg.RunLogPath)
		if err == nil {
			log = l
			defer log.close()
		}
	}

	state := buildState{}
	if err := resolveConfig(&state, cfg); err != nil {
		log.warn("run.config.error", map[string]interface{}{"error": err.Error()})
		return Result{}, err
	}
	cfg = state.Config
	log.info("run.start", map[string]interface{}{
		"config_path":  cfg.ConfigPath,
		"source":       cfg.SourcePath,
		"out_dir":      cfg.OutDir,
		"variant":      cfg.Variant,
		"path_pattern": cfg.PathPattern,
		"manifest":     cfg.ManifestPath,
		"checksums":    cfg.ChecksumsPath,
	})

	if err := loadSource(&state); err != nil {
		log.warn("run.load_source.error", map[string]interface{}{"error": err.Error(), "path": cfg.SourcePath})
		return Result{}, err
	}
	log.info("run.load_source.ok", map[string]interface{}{"bytes": len(state.Source)})

	minified, err := minify.HTML(state.Source)
	if err != nil {
		err = fmt.Errorf("minify failed: %w", err)
		addTrace(&state, "minify", "error", map[string]interface{}{"error": err.Error()})
		log.warn("run.minify.error", map[string]interface{}{"error": err.Error()})
		return Result{}, err
	}
	state.Minified = minified
	addTrace(&state, "minify", "ok", map[string]interface{}{
		"source_bytes":   len(state.Source),
		"minified_bytes": len(state.Minified),
	})
	log.info("run.minify.ok", map[string]interface{}{"source_bytes": len(state.Source), "minified_bytes": len(state.Minified)})

	if err := extractAndHash(&state); err != nil {
		log.warn("run.extract.error", map[string]interface{}{"error": err.Error()})
		return Result{}, err
	}
	log.info("run.extract.ok", map[string]interface{}{
		"script_count": state.Extraction.ScriptCount,
		"style_count":  state.Extraction.StyleCount,
		"script_hash":  state.ScriptHash,
		"style_hash":   state.StyleHash,
	})
	for _, w := range state.Warnings {
		log.warn("run.extract.warning", map[string]interface{}{"warning": w})
	}

	if err := renderPolicy(&state); err != nil {
		log.warn("run.policy.error", map[string]interface{}{"error": err.Error()})
		return Result{}, err
	}
	log.info("run.policy.ok", map[string]interface{}{"variant": cfg.Variant})

	if err := writeOutputs(&state); err != nil {
		log.warn("run.write.error", map[string]interface{}{"error": err.Error()})
		return Result{}, err
	}
	log.info("run.write.ok", map[string]interface{}{"outputs": append([]string{}, state.Outputs...)})

	artifactPaths := append([]string{}, state.Outputs...)
	result := buildResult(state)
	if strings.TrimSpace(cfg.ManifestPath) != "" {
		if err := writeManifest(cfg.ManifestPath, result); err != nil {
			log.warn("run.manifest.error", map[string]interface{}{"error": err.Error()})
			return Result{}, fmt.Errorf("manifest write failed: %w", err)
		}
		artifactPaths = append(artifactPaths, cfg.ManifestPath)
	}
	if strings.TrimSpace(cfg.ChecksumsPath) != "" {
		if err := writeArtifactChecksums(cfg.ChecksumsPath, artifactPaths); err != nil {
			log.warn("run.checksums.error", map[string]interface{}{"error": err.Error()})
			return Result{}, err
		}
	}
	log.info("run.complete", map[string]interface{}{
		"build_id":      result.BuildID,
		"variant":       result.Variant,
		"script_hash":   result.ScriptHash,
		"style_hash":    result.StyleHash,
		"warning_count": len(result.Warnings),
		"outputs":       result.Outputs,
	})
	return result, nil
}

func loadSource(state *buildState) error {
	path := state.Config.SourcePath
	hash, b, err := fileSHA256(path)
	state.InputDigests = append(state.InputDigests, InputDigest{Kind: "source_html", Path: path, SHA256: hash, ReadOK: err == nil})
	if err != nil {
		return fmt.Errorf("source load failed: %w", err)
	}
	state.Source = string(b)
	addTrace(state, "load_source", "ok", map[string]interface{}{"path": path, "sha256": hash})
	return nil
}

func extractAndHash(state *buildState) error {
	ex, err := extract.Inline(state.Minified)
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	state.Extraction = ex
	state.ScriptHash = policy.HashSource(ex.Script)
	if !ex.HasScript() {
		state.Warnings = append(state.Warnings, warnNoInlineScript)
	}
	if ex.ScriptCount > 1 {
		state.Warnings = append(state.Warnings, fmt.Sprintf(warnMultipleScripts, ex.ScriptCount))
	}
	if state.Config.Variant == policy.VariantStrict {
		state.StyleHash = policy.HashSource(ex.Style)
		if !ex.HasStyle() {
			state.Warnings = append(state.Warnings, warnNoInlineStyle)
		}
		if ex.StyleCount > 1 {
			state.Warnings = append(state.Warnings, fmt.Sprintf(warnMultipleStyles, ex.StyleCount))
		}
	}
	addTrace(state, "extract", extractTraceResult(state), map[string]interface{}{
		"script_count": ex.ScriptCount,
		"style_count":  ex.StyleCount,
		"script_hash":  state.ScriptHash,
		"style_hash":   state.StyleHash,
		"warnings":     append([]string{}, state.Warnings...),
	})
	return nil
}

func extractTraceResult(state *buildState) string {
	if len(state.Warnings) > 0 {
		return "ok_with_warnings"
	}
	return "ok"
}

func renderPolicy(state *buildState) error {
	cfg := state.Config
	pol, err := policy.Build(cfg.Variant, policy.Inputs{
		ScriptHash: state.ScriptHash,
		StyleHash:  state.StyleHash,
		SiteOrigin: cfg.SiteOrigin,
		CDNOrigins: cfg.CDNOrigins,
	})
	if err != nil {
		return fmt.Errorf("policy build failed: %w", err)
	}
	if errs := policy.ValidatePolicy(pol); len(errs) > 0 {
		addTrace(state, "policy", "validation_error", map[string]interface{}{"errors": errs})
		return errors.New("policy validation failed: " + strings.Join(errs, "; "))
	}
	state.Headers = policy.RenderHeaders(cfg.PathPattern, pol)
	addTrace(state, "policy", "ok", map[string]interface{}{
		"variant":    pol.Variant,
		"directives": len(pol.Directives),
	})
	return nil
}

func writeOutputs(state *buildState) error {
	cfg := state.Config
	htmlPath := filepath.Join(cfg.OutDir, cfg.HTMLFile)
	headersPath := filepath.Join(cfg.OutDir, cfg.HeadersFile)
	if err := output.WriteFile(htmlPath, []byte(state.Minified)); err != nil {
		return fmt.Errorf("write %s failed: %w", htmlPath, err)
	}
	state.HTMLPath = htmlPath
	state.Outputs = append(state.Outputs, htmlPath)
	if err := output.WriteFile(headersPath, []byte(state.Headers)); err != nil {
		return fmt.Errorf("write %s failed: %w", headersPath, err)
	}
	state.HeadersPath = headersPath
	state.Outputs = append(state.Outputs, headersPath)
	addTrace(state, "write", "ok", map[string]interface{}{"outputs": append([]string{}, state.Outputs...)})
	return nil
}

func buildResult(state buildState) Result {
	return Result{
		SchemaVersion: manifestSchemaVersion,
		GeneratedAt:   "1970-01-01T00:00:00Z",
		BuildID:       stableBuildID(state.InputDigests, state.Config.Variant),
		Inputs:        state.InputDigests,
		Variant:       state.Config.Variant,
		ScriptHash:    state.ScriptHash,
		StyleHash:     state.StyleHash,
		ScriptCount:   state.Extraction.ScriptCount,
		StyleCount:    state.Extraction.StyleCount,
		Headers:       state.Headers,
		HTMLPath:      state.HTMLPath,
		HeadersPath:   state.HeadersPath,
		Outputs:       state.Outputs,
		Warnings:      state.Warnings,
		Trace:         state.Trace,
	}
}
