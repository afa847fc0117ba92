// Package imageclassify decides whether an embedded image is real
// figure content or decorative chrome (a logo, icon, or cover-page
// ornament), via a two-stage filter: a cheap metadata gate followed
// by a pixel-statistics scorer on the decoded raster.
package imageclassify

import (
	"regexp"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
)

var reFourDigitYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Dimensions holds an embedded image's declared size in EMU (English
// Metric Units), as recorded on the drawing that wraps it.
type Dimensions struct {
	WidthEMU  int
	HeightEMU int
}

// Context is everything the walker knows about an image's
// surroundings at the moment it is encountered, beyond its raw
// dimensions.
type Context struct {
	// InBodyRegion is false while still in front-matter (pre-title,
	// title, abstract, keywords): images there are reflexively
	// decorative.
	InBodyRegion bool

	ParagraphStyle string
	ParagraphText  string

	NonEmptyParagraphCount int
	BlockIndex             int
	TotalBlocks            int

	// PreviouslySeen holds the dimensions of every image already
	// accepted or rejected earlier in the walk, for repeated-logo
	// detection.
	PreviouslySeen []Dimensions
}

// decorativeStyles are paragraph styles the metadata gate always
// treats as front-matter chrome, per spec.md §4.D.
var decorativeStyles = map[string]bool{
	"title": true, "subtitle": true, "heading 1": true,
	"abstract": true, "cover page": true, "title page": true,
}

// contentStyles unconditionally whitelist an image regardless of the
// remaining heuristics, per spec.md §4.D.
var contentStyles = map[string]bool{
	"image": true, "figurecaption": true,
}

// decorativeMarkers are case-folded substrings of paragraph text that
// mark the paragraph as decorative front matter, grounded on
// xu_ly_anh.py::la_anh_trang_tri's keyword lists.
var decorativeMarkers = []string{
	"abstract", "acknowledgment", "acknowledgement",
	"tóm tắt", "lời cảm ơn", "cover page", "title page",
	"artist profile", "author profile", "portrait", "logo", "icon",
	"decoration", "hồ sơ nghệ sĩ", "tiểu sử", "chân dung",
}

// IsDecorative runs stage 1, the metadata gate. true means reject
// (decorative); false means the image survives to the pixel scorer.
func IsDecorative(dims Dimensions, ctx Context, cfg config.Config) bool {
	if dims.WidthEMU == 0 || dims.HeightEMU == 0 {
		return true
	}

	style := strings.ToLower(strings.TrimSpace(ctx.ParagraphStyle))
	if contentStyles[style] {
		return false
	}

	if dims.WidthEMU < cfg.ImageMinDimensionEMU && dims.HeightEMU < cfg.ImageMinDimensionEMU {
		return true
	}
	if dims.WidthEMU > cfg.ImageMaxWidthEMU || dims.HeightEMU > cfg.ImageMaxHeightEMU {
		return true
	}

	if !ctx.InBodyRegion || decorativeStyles[style] {
		return true
	}

	textUpper := strings.ToUpper(strings.TrimSpace(ctx.ParagraphText))
	for _, marker := range decorativeMarkers {
		if strings.Contains(textUpper, strings.ToUpper(marker)) {
			return true
		}
	}

	if ctx.NonEmptyParagraphCount < cfg.ImageMinParagraphs {
		return true
	}

	if ctx.TotalBlocks > 0 {
		pct := float64(ctx.BlockIndex) / float64(ctx.TotalBlocks)
		// Lower edge is the configurable fraction; the upper edge is
		// fixed at 95% of the document, per spec.md §4.D.
		if pct < cfg.ImageEdgeFraction || pct > 0.95 {
			return true
		}
	}

	ratio := float64(dims.WidthEMU) / float64(dims.HeightEMU)
	if ratio > cfg.ImageAspectMax || ratio < cfg.ImageAspectMin {
		return true
	}

	if ratio >= 0.8 && ratio <= 1.2 {
		if looksDecorativeSquare(textUpper) {
			return true
		}
	}

	if countRecentDuplicates(dims, ctx.PreviouslySeen, cfg.ImageDuplicateEMU) >= 2 {
		return true
	}

	return false
}

// looksDecorativeSquare implements the near-square carve-out: short
// surrounding text with no "looks like a citation" signal (a 4-digit
// year and at least two sentence-ending dots) reads as decorative.
func looksDecorativeSquare(textUpper string) bool {
	if len(textUpper) < 20 {
		return true
	}
	return !(hasFourDigitYear(textUpper) && strings.Count(textUpper, ".") >= 2)
}

func hasFourDigitYear(s string) bool {
	return reFourDigitYear.MatchString(s)
}

func countRecentDuplicates(dims Dimensions, seen []Dimensions, tolerance int) int {
	n := 0
	for _, s := range seen {
		if abs(s.WidthEMU-dims.WidthEMU) < tolerance && abs(s.HeightEMU-dims.HeightEMU) < tolerance {
			n++
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
