package walker

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
	"github.com/trantaidat7388-dot/word2latex/internal/imageclassify"
	"github.com/trantaidat7388-dot/word2latex/internal/ooxml"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// AssetWriter persists extracted binary assets (content images,
// legacy-equation raster fallbacks) under the output asset directory.
// Name is the bare file name ("hinh_3.png", "formula_1.wmf"); Dir is
// the asset directory's own basename, as embedded into the
// \includegraphics path. Implementations decide where that directory
// actually lives on disk.
type AssetWriter interface {
	Write(name string, data []byte) error
	Dir() string
}

// blip is one embedded raster reference found inside a run, paired
// with its declared display dimensions.
type blip struct {
	relID string
	dims  imageclassify.Dimensions
}

func extentDims(n *xmlnode.Node) imageclassify.Dimensions {
	var dims imageclassify.Dimensions
	n.Walk(func(c *xmlnode.Node) {
		if c.Local() != "extent" {
			return
		}
		if dims.WidthEMU != 0 || dims.HeightEMU != 0 {
			return
		}
		cx, _ := c.Attr("cx")
		cy, _ := c.Attr("cy")
		dims.WidthEMU, _ = strconv.Atoi(cx)
		dims.HeightEMU, _ = strconv.Atoi(cy)
	})
	return dims
}

// findBlips collects every a:blip descendant of a run, each paired
// with the dimensions declared on its nearest enclosing drawing.
func findBlips(run *xmlnode.Node) []blip {
	var out []blip
	dims := extentDims(run)
	for _, b := range run.FindAll("blip") {
		relID, ok := b.Attr("embed")
		if !ok || relID == "" {
			continue
		}
		out = append(out, blip{relID: relID, dims: dims})
	}
	return out
}

func contentTypeExt(contentType string) string {
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpg"
	default:
		return "png"
	}
}

// extractedImage is one surviving content image, ready for LaTeX
// figure generation.
type extractedImage struct {
	fileName string
	dims     imageclassify.Dimensions
}

// imageExtractor owns the running image counter and the dimension
// history used for repeated-logo rejection, mirroring chuyen_doi.py's
// dem_anh / kich_thuoc_anh_da_xem fields.
type imageExtractor struct {
	cfg     config.Config
	assets  AssetWriter
	partsOf func(relID string) ([]byte, string, bool) // bytes, content-type, ok

	count int
	seen  []imageclassify.Dimensions
}

func newImageExtractor(cfg config.Config, assets AssetWriter, partsOf func(string) ([]byte, string, bool)) *imageExtractor {
	return &imageExtractor{cfg: cfg, assets: assets, partsOf: partsOf}
}

// extractFromRuns pulls every content image out of a paragraph's
// runs. Paragraphs carrying more than three embedded blips are
// treated as decorative layout (a cover-page montage, not a figure)
// and skipped outright, per trich_xuat_anh's early-exit.
func (ex *imageExtractor) extractFromRuns(p *xmlnode.Node, ctx imageclassify.Context) []extractedImage {
	var blips []blip
	for _, r := range p.ChildrenNamed("r") {
		blips = append(blips, findBlips(r)...)
	}
	if len(blips) > 3 {
		return nil
	}

	var out []extractedImage
	for _, b := range blips {
		if ex.partsOf == nil {
			continue
		}
		data, contentType, ok := ex.partsOf(b.relID)
		if !ok || len(data) == 0 {
			continue
		}

		localCtx := ctx
		localCtx.PreviouslySeen = ex.seen
		if imageclassify.IsDecorative(b.dims, localCtx, ex.cfg) {
			ex.seen = append(ex.seen, b.dims)
			continue
		}

		img, err := imageclassify.Decode(data)
		if err != nil || !imageclassify.IsContent(img, ex.cfg) {
			ex.seen = append(ex.seen, b.dims)
			continue
		}

		ex.count++
		name := fmt.Sprintf("hinh_%d.%s", ex.count, contentTypeExt(contentType))
		if ex.assets != nil {
			if err := ex.assets.Write(name, data); err != nil {
				ex.count--
				continue
			}
		}
		ex.seen = append(ex.seen, b.dims)
		out = append(out, extractedImage{fileName: name, dims: b.dims})
	}
	return out
}

// partsOfFunc builds the relID->bytes/content-type resolver from a
// relationship map and the container's media parts, looked up by
// target path.
func partsOfFunc(rels ooxml.RelationshipMap, media func(target string) ([]byte, string, bool)) func(string) ([]byte, string, bool) {
	return func(relID string) ([]byte, string, bool) {
		target, ok := rels.Target(relID)
		if !ok {
			return nil, "", false
		}
		return media(target)
	}
}

var reFigurePrefix = regexp.MustCompile(`(?i)^(Hình|Figure|Fig\.?)\s*\d+\s*[:.\-–—]?\s*`)
var reFigureCaptionLead = regexp.MustCompile(`(?i)^(HÌNH|HINH|ẢNH|ANH|FIGURE|FIG)\b`)
var reSubCaption = regexp.MustCompile(`\(([a-z])\)\s*([^(]*)`)

func stripFigurePrefix(caption string) string {
	return strings.TrimSpace(reFigurePrefix.ReplaceAllString(caption, ""))
}

// figureCaption looks ahead at most cfg.FigureCaptionLookahead blocks
// for a paragraph beginning with a figure-label keyword, stopping
// early at a table or a heading. The returned index, when found, is
// consumed by the caller so the caption paragraph is not emitted
// again as body text.
func figureCaption(blocks []block, from int, cfg config.Config) (string, int, bool) {
	for step := 1; step <= cfg.FigureCaptionLookahead; step++ {
		idx := from + step
		if idx >= len(blocks) {
			break
		}
		b := blocks[idx]
		if b.kind == blockTable {
			break
		}
		text := strings.TrimSpace(b.text)
		if text == "" {
			continue
		}
		if reFigureCaptionLead.MatchString(text) {
			return stripFigurePrefix(text), idx, true
		}
		if b.isHeading {
			break
		}
	}
	return "", 0, false
}

// subCaptions looks at the single next block for "(a) ..., (b) ..."
// sibling labels, used to caption a subfigure group.
func subCaptions(blocks []block, from int) ([]string, int, bool) {
	idx := from + 1
	if idx >= len(blocks) {
		return nil, 0, false
	}
	b := blocks[idx]
	if b.kind != blockParagraph {
		return nil, 0, false
	}
	text := strings.TrimSpace(b.text)
	matches := reSubCaption.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, 0, false
	}
	var out []string
	for _, m := range matches {
		caption := "(" + m[1] + ")"
		if desc := strings.TrimSpace(m[2]); desc != "" {
			caption += " " + desc
		}
		out = append(out, caption)
	}
	return out, idx, true
}

// renderFigure emits a single-image figure environment.
func renderFigure(img extractedImage, dir, caption string, count int, demoMode bool) string {
	placement := "[htbp]"
	if demoMode {
		placement = "[H]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{figure}%s\n", placement)
	b.WriteString("  \\centering\n")
	fmt.Fprintf(&b, "  \\includegraphics[width=0.6\\linewidth]{%s/%s}\n", dir, img.fileName)
	fmt.Fprintf(&b, "  \\caption{%s}\n", stripFigurePrefix(caption))
	fmt.Fprintf(&b, "  \\label{fig:hinh%d}\n", count)
	b.WriteString("\\end{figure}\n\n")
	return b.String()
}

// renderFigureGroup emits a multi-image figure, laid out as labelled
// subfigures when sibling (a)(b) captions were found, or as a bare
// side-by-side row otherwise.
func renderFigureGroup(imgs []extractedImage, dir string, subCaps []string, caption string, firstCount int, demoMode bool) string {
	if len(imgs) == 0 {
		return ""
	}
	placement := "[htbp]"
	if demoMode {
		placement = "[H]"
	}
	n := len(imgs)
	width := "0.48"
	if n > 1 {
		width = fmt.Sprintf("%.2f", 0.9/float64(n))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{figure}%s\n", placement)
	b.WriteString("  \\centering\n")

	if len(subCaps) > 0 {
		for i, img := range imgs {
			desc := ""
			if i < len(subCaps) {
				desc = strings.TrimSpace(reSubCaption.ReplaceAllString(subCaps[i], "$2"))
				if desc == subCaps[i] {
					desc = strings.TrimSpace(regexp.MustCompile(`^\([a-z]\)\s*`).ReplaceAllString(subCaps[i], ""))
				}
			}
			label := string(rune('a' + i))
			fmt.Fprintf(&b, "  \\begin{subfigure}[b]{%s\\textwidth}\n", width)
			b.WriteString("    \\centering\n")
			fmt.Fprintf(&b, "    \\includegraphics[width=\\linewidth]{%s/%s}\n", dir, img.fileName)
			fmt.Fprintf(&b, "    \\caption{%s}\n", desc)
			fmt.Fprintf(&b, "    \\label{fig:hinh%d_%s}\n", firstCount+i, label)
			b.WriteString("  \\end{subfigure}\n")
			if i < n-1 {
				b.WriteString("  \\hfill\n")
			}
		}
	} else {
		for i, img := range imgs {
			fmt.Fprintf(&b, "  \\includegraphics[width=%s\\linewidth]{%s/%s}\n", width, dir, img.fileName)
			if i < n-1 {
				b.WriteString("  \\hfill\n")
			}
		}
	}

	fmt.Fprintf(&b, "  \\caption{%s}\n", stripFigurePrefix(caption))
	fmt.Fprintf(&b, "  \\label{fig:nhom%d}\n", firstCount+n-1)
	b.WriteString("\\end{figure}\n\n")
	return b.String()
}

// assetDirBase returns the basename embedded into \includegraphics
// paths, independent of where the AssetWriter actually stores files.
func assetDirBase(w AssetWriter) string {
	if w == nil {
		return "images"
	}
	return path.Base(w.Dir())
}
