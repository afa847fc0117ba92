package walker

import (
	"testing"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
)

func TestStripFigurePrefix(t *testing.T) {
	cases := map[string]string{
		"Hình 3. Sơ đồ kiến trúc": "Sơ đồ kiến trúc",
		"Figure 2: the pipeline":  "the pipeline",
		"Fig. 1 - overview":       "overview",
		"no prefix here":          "no prefix here",
	}
	for in, want := range cases {
		if got := stripFigurePrefix(in); got != want {
			t.Errorf("stripFigurePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func blockPara(text string) block {
	return block{kind: blockParagraph, text: text}
}

func TestFigureCaptionLookahead(t *testing.T) {
	cfg := config.Default()
	blocks := []block{
		blockPara("intro text"),
		blockPara(""),
		blockPara("Hình 1. Sơ đồ tổng quan"),
		blockPara("next paragraph"),
	}
	caption, idx, ok := figureCaption(blocks, 0, cfg)
	if !ok || idx != 2 || caption != "Sơ đồ tổng quan" {
		t.Errorf("figureCaption() = (%q, %d, %v), want (%q, 2, true)", caption, idx, ok, "Sơ đồ tổng quan")
	}
}

func TestFigureCaptionStopsAtTable(t *testing.T) {
	cfg := config.Default()
	blocks := []block{
		blockPara("intro text"),
		{kind: blockTable},
		blockPara("Hình 1. should not be found"),
	}
	_, _, ok := figureCaption(blocks, 0, cfg)
	if ok {
		t.Error("figureCaption() should stop at a table block and not look past it")
	}
}

func TestFigureCaptionStopsAtHeading(t *testing.T) {
	cfg := config.Default()
	blocks := []block{
		blockPara("intro text"),
		{kind: blockParagraph, node: nil, text: "2. Next Section", isHeading: true},
		blockPara("Hình 1. unreachable"),
	}
	_, _, ok := figureCaption(blocks, 0, cfg)
	if ok {
		t.Error("figureCaption() should stop scanning once it passes a heading")
	}
}

func TestSubCaptionsParsesLabelledPairs(t *testing.T) {
	blocks := []block{
		blockPara("figure paragraph"),
		blockPara("(a) first view (b) second view"),
	}
	caps, idx, ok := subCaptions(blocks, 0)
	if !ok || idx != 1 {
		t.Fatalf("subCaptions() ok=%v idx=%d, want true/1", ok, idx)
	}
	if len(caps) != 2 || caps[0] != "(a) first view" || caps[1] != "(b) second view" {
		t.Errorf("subCaptions() = %+v", caps)
	}
}

func TestRenderFigureIncludesCaptionAndLabel(t *testing.T) {
	img := extractedImage{fileName: "hinh_1.png"}
	got := renderFigure(img, "assets", "Figure 1: a diagram", 1, false)
	if !contains(got, `\includegraphics[width=0.6\linewidth]{assets/hinh_1.png}`) {
		t.Errorf("renderFigure() missing includegraphics: %q", got)
	}
	if !contains(got, `\caption{a diagram}`) {
		t.Errorf("renderFigure() missing stripped caption: %q", got)
	}
	if !contains(got, `\label{fig:hinh1}`) {
		t.Errorf("renderFigure() missing label: %q", got)
	}
	if !contains(got, "[htbp]") {
		t.Errorf("renderFigure() should use [htbp] placement outside demo mode: %q", got)
	}
}

func TestRenderFigureGroupWithSubcaptions(t *testing.T) {
	imgs := []extractedImage{{fileName: "hinh_1.png"}, {fileName: "hinh_2.png"}}
	got := renderFigureGroup(imgs, "assets", []string{"(a) left", "(b) right"}, "Combined view", 1, true)
	if !contains(got, `\begin{subfigure}`) {
		t.Errorf("renderFigureGroup() should use subfigure layout when subcaptions are present: %q", got)
	}
	if !contains(got, "[H]") {
		t.Errorf("renderFigureGroup() should use [H] placement in demo mode: %q", got)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
