package sitebuild

import "github.com/solardome/sitebuild/internal/extract"

const (
	DefaultSourcePath  = "src/index.html"
	DefaultOutDir      = "dist"
	DefaultHTMLFile    = "index.html"
	DefaultHeadersFile = "_headers"

	manifestSchemaVersion = "1.0.0"
	configSchemaVersion   = "1.0"
)

// Config holds one build invocation. Zero-valued fields are filled from the
// config file at ConfigPath, then from the package defaults.
type Config struct {
	ConfigPath    string
	SourcePath    string
	OutDir        string
	HTMLFile      string
	HeadersFile   string
	PathPattern   string
	Variant       string
	SiteOrigin    string
	CDNOrigins    []string
	ManifestPath  string
	ChecksumsPath string
	RunLogPath    string
}

type fileConfig struct {
	SchemaVersion string   `json:"schema_version"`
	Source        string   `json:"source"`
	OutDir        string   `json:"out_dir"`
	HTMLFile      string   `json:"html_file"`
	HeadersFile   string   `json:"headers_file"`
	PathPattern   string   `json:"path_pattern"`
	Variant       string   `json:"variant"`
	SiteOrigin    string   `json:"site_origin"`
	CDNOrigins    []string `json:"cdn_origins"`
}

type buildState struct {
	Config       Config
	InputDigests []InputDigest
	Source       string
	Minified     string
	Extraction   extract.Extraction
	ScriptHash   string
	StyleHash    string
	Headers      string
	HTMLPath     string
	HeadersPath  string
	Outputs      []string
	Warnings     []string
	Trace        []TraceEntry
}

type InputDigest struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	ReadOK bool   `json:"read_ok"`
}

type TraceEntry struct {
	Order   int                    `json:"order"`
	Phase   string                 `json:"phase"`
	Result  string                 `json:"result"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Result describes a finished build. It doubles as the JSON manifest.
type Result struct {
	SchemaVersion string        `json:"schema_version"`
	GeneratedAt   string        `json:"generated_at"`
	BuildID       string        `json:"build_id"`
	Inputs        []InputDigest `json:"inputs"`
	Variant       string        `json:"variant"`
	ScriptHash    string        `json:"script_hash"`
	StyleHash     string        `json:"style_hash,omitempty"`
	ScriptCount   int           `json:"script_count"`
	StyleCount    int           `json:"style_count"`
	Headers       string        `json:"headers"`
	HTMLPath      string        `json:"html_path"`
	HeadersPath   string        `json:"headers_path"`
	Outputs       []string      `json:"outputs"`
	Warnings      []string      `json:"warnings,omitempty"`
	Trace         []TraceEntry  `json:"trace"`
}
