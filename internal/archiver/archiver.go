// Package archiver packages one job's emitted .tex file and asset
// directory into a single .zip for download (component L), together
// with a warnings README summarizing any degraded conversions. Zip
// packaging is stdlib archive/zip, matching the teacher's own
// document.go packaging idiom; the warnings README is rendered
// through the teacher's own markdown stack (goldmark +
// goldmark-mathjax), the one natural home left for it in this tree.
package archiver

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yuin/goldmark"
	mathjax "github.com/litao91/goldmark-mathjax"
)

// Warning is one degraded-conversion occurrence supplied by the
// caller: a math translation or image extraction that fell back to a
// lesser tier, identified by the block it happened in. The walker
// does not record these; callers that have none pass nil.
type Warning struct {
	Kind       string // "math" or "image"
	BlockIndex int
	Detail     string // e.g. the degraded LaTeX snippet, "$a/b$"
}

// markdownRenderer mirrors the teacher's own converter.go
// construction: MathJax delimiters so a warning's embedded LaTeX
// snippet renders instead of reading as literal dollar signs.
func markdownRenderer() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			mathjax.NewMathJax(
				mathjax.WithInlineDelim("$", "$"),
				mathjax.WithBlockDelim("$$", "$$"),
			),
		),
	)
}

// renderWarningsReadme builds the per-job warnings README as
// markdown, then renders it to HTML via the shared goldmark+MathJax
// pipeline; both the source markdown and the rendered HTML are
// archived, since a reader may prefer either.
func renderWarningsReadme(warnings []Warning) (markdown string, html []byte, err error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Conversion warnings\n\n")
	if len(warnings) == 0 {
		fmt.Fprintf(&buf, "No degraded conversions.\n")
	} else {
		mathCount, imageCount := 0, 0
		sorted := make([]Warning, len(warnings))
		copy(sorted, warnings)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].BlockIndex < sorted[j].BlockIndex })

		for _, w := range sorted {
			switch w.Kind {
			case "math":
				mathCount++
			case "image":
				imageCount++
			}
			fmt.Fprintf(&buf, "- block %d: %s degraded: %s\n", w.BlockIndex, w.Kind, w.Detail)
		}
		fmt.Fprintf(&buf, "\n%d math, %d image degradation(s).\n", mathCount, imageCount)
	}

	markdown = buf.String()
	var out bytes.Buffer
	if err := markdownRenderer().Convert([]byte(markdown), &out); err != nil {
		return markdown, nil, err
	}
	return markdown, out.Bytes(), nil
}

// Archive packages tex (the emitted LaTeX source), every file under
// assetDir, and a generated warnings README into a single .zip. The
// .tex file is archived at the top level as texName; assets keep
// their asset-directory-relative paths under an "assets/" prefix.
func Archive(tex string, texName string, assetDir string, warnings []Warning) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	texWriter, err := zw.Create(texName)
	if err != nil {
		return nil, err
	}
	if _, err := texWriter.Write([]byte(tex)); err != nil {
		return nil, err
	}

	md, html, err := renderWarningsReadme(warnings)
	if err != nil {
		return nil, err
	}
	if w, err := zw.Create("README.md"); err != nil {
		return nil, err
	} else if _, err := w.Write([]byte(md)); err != nil {
		return nil, err
	}
	if w, err := zw.Create("README.html"); err != nil {
		return nil, err
	} else if _, err := w.Write(html); err != nil {
		return nil, err
	}

	if assetDir != "" {
		if err := addAssetDir(zw, assetDir); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addAssetDir(zw *zip.Writer, assetDir string) error {
	entries, err := os.ReadDir(assetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(assetDir, e.Name()))
		if err != nil {
			return err
		}
		w, err := zw.Create("assets/" + e.Name())
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
