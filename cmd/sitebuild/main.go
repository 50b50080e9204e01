package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/solardome/sitebuild/internal/policy"
	"github.com/solardome/sitebuild/internal/preview"
	"github.com/solardome/sitebuild/internal/sitebuild"
)

type originList []string

func (s *originList) String() string { return strings.Join(*s, ",") }
func (s *originList) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	*s = append(*s, v)
	return nil
}

func main() {
	var configPath string
	var srcPath string
	var outDir string
	var variant string
	var siteOrigin string
	var cdnOrigins originList
	var manifestPath string
	var checksumsPath string
	var runLogPath string
	var serveAddr string

	flag.StringVar(&configPath, "config", "", "Path to build config YAML")
	flag.StringVar(&srcPath, "src", sitebuild.DefaultSourcePath, "Source HTML document")
	flag.StringVar(&outDir, "out-dir", sitebuild.DefaultOutDir, "Output directory")
	flag.StringVar(&variant, "variant", policy.VariantPermissive, "Policy variant: "+strings.Join(policy.Variants(), " or "))
	flag.StringVar(&siteOrigin, "site-origin", policy.DefaultSiteOrigin, "Origin allowed in frame-ancestors")
	flag.Var(&cdnOrigins, "cdn-origin", "CDN origin for the permissive policy (repeatable)")
	flag.StringVar(&manifestPath, "manifest", "", "Output build manifest JSON path")
	flag.StringVar(&checksumsPath, "checksums", "", "Output checksums.sha256 path")
	flag.StringVar(&runLogPath, "run-log", "", "Output run log path")
	flag.StringVar(&serveAddr, "serve", "", "Serve the output directory on this address after building")
	flag.Parse()

	// Only explicitly set flags override the config file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	pick := func(name, value string) string {
		if set[name] {
			return value
		}
		return ""
	}

	res, err := sitebuild.Run(sitebuild.Config{
		ConfigPath:    configPath,
		SourcePath:    pick("src", srcPath),
		OutDir:        pick("out-dir", outDir),
		Variant:       pick("variant", variant),
		SiteOrigin:    pick("site-origin", siteOrigin),
		CDNOrigins:    cdnOrigins,
		ManifestPath:  manifestPath,
		ChecksumsPath: checksumsPath,
		RunLogPath:    runLogPath,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "sitebuild error:", err)
		os.Exit(2)
	}

	fmt.Println("Build complete")
	fmt.Println("Script hash:", res.ScriptHash)
	if res.StyleHash != "" {
		fmt.Println("Style hash:", res.StyleHash)
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if serveAddr != "" {
		if err := serve(serveAddr, res.HTMLPath, res.HeadersPath); err != nil {
			fmt.Fprintln(os.Stderr, "sitebuild error:", err)
			os.Exit(2)
		}
	}
}

// serve exposes the build directory with the headers the build produced.
func serve(addr, htmlPath, headersPath string) error {
	headers, err := os.ReadFile(headersPath)
	if err != nil {
		return fmt.Errorf("read headers file: %w", err)
	}
	rules, err := preview.ParseHeaders(string(headers))
	if err != nil {
		return fmt.Errorf("parse headers file: %w", err)
	}
	root := filepath.Dir(htmlPath)

	srv := &http.Server{
		Addr:              addr,
		Handler:           preview.NewHandler(root, rules),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Serving %s on http://%s\n", root, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
