// Package convert wires components I through H into the single
// synchronous conversion pass components J and M drive: open the
// container, resolve its media and relationships, walk the main
// document body, and inject the result into a target template.
package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
	"github.com/trantaidat7388-dot/word2latex/internal/container"
	"github.com/trantaidat7388-dot/word2latex/internal/converterrors"
	"github.com/trantaidat7388-dot/word2latex/internal/ommlmath"
	"github.com/trantaidat7388-dot/word2latex/internal/ooxml"
	"github.com/trantaidat7388-dot/word2latex/internal/semantic"
	"github.com/trantaidat7388-dot/word2latex/internal/template"
	"github.com/trantaidat7388-dot/word2latex/internal/walker"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// Options bundles the knobs a caller (component J or M) may set
// beyond config.Default.
type Options struct {
	Config   config.Config
	External ommlmath.ExternalMathConverter
	DemoMode bool
}

// Result is the outcome of converting one document: the final LaTeX
// source ready to write out, and the semantic document the template
// injector used to build it (kept for a caller that wants to build a
// warnings report alongside the archive).
type Result struct {
	LaTeX    string
	Document semantic.Document
}

// fsAssets is the filesystem AssetWriter: every extracted image or
// formula raster lands under dir, named by the walker's own
// monotonic counters.
type fsAssets struct {
	dir string
}

func newFSAssets(dir string) *fsAssets { return &fsAssets{dir: dir} }

func (a *fsAssets) Write(name string, data []byte) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.dir, name), data, 0o644)
}

func (a *fsAssets) Dir() string { return a.dir }

// mediaResolver builds a walker.MediaResolver over a container's
// already-loaded parts. The walker resolves a relationship ID to its
// target itself (see partsOfFunc); this resolver only has to turn
// that target (relative to word/) into part bytes and a content
// type (by Override, falling back to Default-by-extension).
func mediaResolver(c *container.Container) walker.MediaResolver {
	return func(target string) ([]byte, string, bool) {
		partName := resolvePartName(target)
		data, ok := c.Parts[partName]
		if !ok {
			return nil, "", false
		}
		return data, contentTypeFor(c.ContentTypes, partName), true
	}
}

// resolvePartName joins a relationship target (relative to word/)
// into a package-absolute part name, collapsing any "../" segments.
func resolvePartName(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return filepath.ToSlash(filepath.Clean(filepath.Join("word", target)))
}

func contentTypeFor(ct *ooxml.ContentTypes, partName string) string {
	if ct == nil {
		return ""
	}
	if typ, ok := ct.Overrides["/"+partName]; ok {
		return typ
	}
	ext := strings.TrimPrefix(filepath.Ext(partName), ".")
	return ct.Defaults[ext]
}

// Convert runs the full I->H pipeline: opens the container, walks
// the main document, and injects the result into tmpl. assetDir is
// where extracted images and formula rasters are written.
func Convert(_ context.Context, docx []byte, tmpl string, assetDir string, opts Options) (Result, error) {
	c, err := container.Open(docx)
	if err != nil {
		return Result{}, err
	}

	rels, err := c.Relationships(ooxml.PartMainDocument)
	if err != nil {
		return Result{}, converterrors.Wrap(converterrors.ContainerError, "parse document relationships", err)
	}

	root, err := xmlnode.Parse(bytes.NewReader(c.MainDocument()))
	if err != nil {
		return Result{}, converterrors.Wrap(converterrors.XmlError, "parse main document", err)
	}
	body := root
	if root != nil {
		if b := root.FindAll("body"); len(b) > 0 {
			body = b[0]
		}
	}

	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}

	assets := newFSAssets(assetDir)
	w := walker.New(cfg, rels, mediaResolver(c), assets, opts.External, opts.DemoMode)
	result := w.Walk(body)

	latex := template.Inject(tmpl, result.Document, result.Unstructured)
	return Result{LaTeX: latex, Document: result.Document}, nil
}
