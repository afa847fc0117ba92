package walker

import (
	"strconv"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/mtef"
	"github.com/trantaidat7388-dot/word2latex/internal/ommlmath"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// oleResolver fetches a relationship's target bytes and content type,
// the same resolver shape the image extractor uses.
type oleResolver func(relID string) (data []byte, contentType string, ok bool)

// mathTranslator implements table.MathTranslator, wiring the three
// equation sources §4.C describes: modern OMML via ommlmath, legacy
// Equation Editor OLE objects via mtef, and a VML raster fallback
// when MTEF decoding fails.
type mathTranslator struct {
	external ommlmath.ExternalMathConverter
	resolve  oleResolver
	images   *imageExtractor
}

func newMathTranslator(external ommlmath.ExternalMathConverter, resolve oleResolver, images *imageExtractor) *mathTranslator {
	return &mathTranslator{external: external, resolve: resolve, images: images}
}

// TranslateOMath renders an m:oMath (or m:oMathPara) subtree.
func (m *mathTranslator) TranslateOMath(node *xmlnode.Node) string {
	return ommlmath.Translate(node, m.external)
}

// TranslateOLEObject resolves a w:object's related OLE part and
// translates its MTEF stream to LaTeX. The bool result says whether
// any LaTeX text was produced; it is false when the part can't be
// resolved or its equation stream can't be decoded or parsed. This
// method extracts no raster: the VML preview fallback is
// extractOLERaster, which renderDisplayEquation calls when this
// reports false.
func (m *mathTranslator) TranslateOLEObject(relID string) (string, bool) {
	if m.resolve == nil {
		return "", false
	}
	data, _, ok := m.resolve(relID)
	if !ok || len(data) == 0 {
		return "", false
	}
	mtefData, err := mtef.ExtractFromOLE(data)
	if err != nil || len(mtefData) == 0 {
		return "", false
	}
	latex := mtef.Translate(mtefData)
	if strings.TrimSpace(latex) == "" {
		return "", false
	}
	return latex, true
}

// extractOLERaster walks a w:object element for a v:imagedata preview
// and, if the equation's own OLE part doesn't decode, saves it as a
// formula_<n>.<ext> asset. Returns the asset file name, or "" if
// there was nothing to fall back to.
func extractOLERaster(obj *xmlnode.Node, resolve oleResolver, images *imageExtractor) string {
	matches := obj.FindAll("imagedata")
	if len(matches) == 0 {
		return ""
	}
	imagedata := matches[0]
	relID, ok := imagedata.Attr("id")
	if !ok {
		return ""
	}
	data, contentType, ok := resolve(relID)
	if !ok || len(data) == 0 {
		return ""
	}

	ext := "png"
	switch {
	case strings.Contains(contentType, "x-wmf"), strings.Contains(contentType, "wmf"):
		ext = "wmf"
	case strings.Contains(contentType, "x-emf"), strings.Contains(contentType, "emf"):
		ext = "emf"
	case strings.Contains(contentType, "jpeg"):
		ext = "jpg"
	}

	images.count++
	name := "formula_" + strconv.Itoa(images.count) + "." + ext
	if images.assets != nil {
		if err := images.assets.Write(name, data); err != nil {
			images.count--
			return ""
		}
	}
	return name
}
