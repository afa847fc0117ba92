package walker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/escape"
	"github.com/trantaidat7388-dot/word2latex/internal/ooxml"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// highlightNames maps Word's highlight-color-index enum to a named
// LaTeX color, grounded on chuyen_doi.py's lay_highlight.
var highlightNames = map[string]string{
	"yellow": "yellow", "green": "green", "cyan": "cyan",
	"magenta": "magenta", "blue": "blue", "red": "red",
	"lightGray": "lightgray", "lightGrey": "lightgray",
	"darkGray": "lightgray", "darkGrey": "lightgray",
}

// runColor reads the run's explicit RGB font color, normalised to
// "r.rrr,g.ggg,b.bbb" for \textcolor[rgb]{}.
func runColor(r *xmlnode.Node) (string, bool) {
	rpr := r.FirstChildNamed("rPr")
	if rpr == nil {
		return "", false
	}
	colorNode := rpr.FirstChildNamed("color")
	if colorNode == nil {
		return "", false
	}
	val, ok := colorNode.Attr("val")
	if !ok || len(val) != 6 || strings.EqualFold(val, "auto") {
		return "", false
	}
	rgb, err := strconv.ParseUint(val, 16, 32)
	if err != nil {
		return "", false
	}
	rr := float64((rgb>>16)&0xFF) / 255.0
	gg := float64((rgb>>8)&0xFF) / 255.0
	bb := float64(rgb&0xFF) / 255.0
	return fmt.Sprintf("%.3f,%.3f,%.3f", rr, gg, bb), true
}

// runHighlight reads the run's highlight color (w:highlight) or, as a
// fallback, an explicit non-default cell/run shading fill, treated as
// yellow unless it is a default/no-color value.
func runHighlight(r *xmlnode.Node) (string, bool) {
	rpr := r.FirstChildNamed("rPr")
	if rpr == nil {
		return "", false
	}
	if hl := rpr.FirstChildNamed("highlight"); hl != nil {
		if v, ok := hl.Attr("val"); ok {
			if name, ok := highlightNames[v]; ok {
				return name, true
			}
			if v != "" && !strings.EqualFold(v, "none") {
				return "yellow", true
			}
		}
	}
	if shd := rpr.FirstChildNamed("shd"); shd != nil {
		if fill, ok := shd.Attr("fill"); ok {
			upper := strings.ToUpper(fill)
			if upper != "" && upper != "AUTO" && upper != "FFFFFF" && upper != "000000" && upper != "NONE" {
				return "yellow", true
			}
		}
	}
	return "", false
}

func runIsBold(r *xmlnode.Node) bool {
	rpr := r.FirstChildNamed("rPr")
	if rpr == nil {
		return false
	}
	b := rpr.FirstChildNamed("b")
	return b != nil && b.AttrOr("val", "1") != "0" && b.AttrOr("val", "1") != "false"
}

func runIsItalic(r *xmlnode.Node) bool {
	rpr := r.FirstChildNamed("rPr")
	if rpr == nil {
		return false
	}
	i := rpr.FirstChildNamed("i")
	return i != nil && i.AttrOr("val", "1") != "0" && i.AttrOr("val", "1") != "false"
}

func runText(r *xmlnode.Node) string {
	var b strings.Builder
	for _, t := range r.ChildrenNamed("t") {
		b.WriteString(t.AllText())
	}
	return b.String()
}

// formatRun applies escape then bold/italic/highlight/color wrapping,
// in that fixed nesting order (color wraps everything last).
func formatRun(r *xmlnode.Node) string {
	text := runText(r)
	if text == "" {
		return ""
	}
	out := escape.Text(text)
	if runIsBold(r) {
		out = `\textbf{` + out + `}`
	}
	if runIsItalic(r) {
		out = `\textit{` + out + `}`
	}
	if hl, ok := runHighlight(r); ok {
		out = fmt.Sprintf(`\colorbox{%s}{%s}`, hl, out)
	}
	if rgb, ok := runColor(r); ok {
		out = fmt.Sprintf(`\textcolor[rgb]{%s}{%s}`, rgb, out)
	}
	return out
}

// hyperlinkTarget resolves a w:hyperlink element's r:id against the
// document's relationship map.
func hyperlinkTarget(h *xmlnode.Node, rels ooxml.RelationshipMap) (string, bool) {
	relID, ok := h.Attr("id")
	if !ok {
		return "", false
	}
	return rels.Target(relID)
}

// renderHyperlink builds \href{url}{\textcolor{blue}{text}}, falling
// back to the escaped URL itself when the link carries no visible
// text.
func renderHyperlink(h *xmlnode.Node, rels ooxml.RelationshipMap) string {
	url, ok := hyperlinkTarget(h, rels)
	if !ok {
		return ""
	}
	var text strings.Builder
	for _, r := range h.FindAll("r") {
		t := runText(r)
		if t == "" {
			continue
		}
		formatted := escape.Text(t)
		if runIsBold(r) {
			formatted = `\textbf{` + formatted + `}`
		}
		if runIsItalic(r) {
			formatted = `\textit{` + formatted + `}`
		}
		text.WriteString(formatted)
	}
	display := text.String()
	if strings.TrimSpace(display) == "" {
		display = escape.Text(url)
	}
	return fmt.Sprintf(`\href{%s}{\textcolor{blue}{%s}}`, escape.URL(url), display)
}

// renderParagraphContent walks p's direct children in document order,
// resolving hyperlinks and plain runs into a single LaTeX string. This
// is the routine wired into table.Hooks.Para so table cells get
// identical run-level handling to body paragraphs.
func renderParagraphContent(p *xmlnode.Node, rels ooxml.RelationshipMap) string {
	var out strings.Builder
	for _, child := range p.Children {
		switch child.Local() {
		case "hyperlink":
			out.WriteString(renderHyperlink(child, rels))
		case "r":
			out.WriteString(formatRun(child))
		}
	}
	return out.String()
}
