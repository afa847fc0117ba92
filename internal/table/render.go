package table

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/escape"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// MathTranslator is the host-provided bridge into the Math
// Translators (§4.B/§4.C), used by the equation-table renderer to
// turn each row's left cell into a LaTeX equation body.
type MathTranslator interface {
	// TranslateOMath translates an m:oMath subtree found in the cell.
	TranslateOMath(omath *xmlnode.Node) string
	// TranslateOLEObject translates a legacy OLE equation object's
	// raw bytes, resolved by the host from the w:object's relationship
	// id. An empty result with ok=false means no equation was found.
	TranslateOLEObject(relID string) (string, bool)
}

// ParagraphRenderer turns a cell's paragraph content (runs, escaping,
// inline formatting) into LaTeX text; it is the same routine the
// Document Walker uses for body paragraphs, reused here so table
// cells get identical run-level handling.
type ParagraphRenderer interface {
	RenderParagraph(p *xmlnode.Node) string
}

// ImageResolver extracts an embedded image's filename (saved by the
// host) for a run's relationship id.
type ImageResolver interface {
	ResolveImage(relID string) (filename string, ok bool)
}

// Hooks bundles everything a render call needs from the rest of the
// pipeline.
type Hooks struct {
	Math  MathTranslator
	Para  ParagraphRenderer
	Image ImageResolver
	// TablePlacement is the LaTeX float placement specifier ("[H]" in
	// demo mode, "[htbp]" otherwise).
	TablePlacement string
	// Caption is the table's caption text, already resolved by the
	// walker's look-behind over the preceding block, with any leading
	// "Table N:"/"Bảng N:" prefix stripped. Empty if none was found.
	Caption string
	// TableIndex labels a rendered data table ("tab:bangN").
	TableIndex int
}

// Result is a table render's output.
type Result struct {
	Kind  Kind
	LaTeX string
	// TOCEmitted is true when this call produced \tableofcontents;
	// the walker should latch its own flag so later TOC-shaped tables
	// render nothing.
	TOCEmitted bool
	// ImageRelIDs lists every relationship id of an image extracted
	// for a figure-carrier table, in document order, for the walker
	// to turn into a figure or subfigure cluster.
	ImageRelIDs []string
}

var reTableCaptionPrefix = regexp.MustCompile(`(?i)^(bảng|bang|table)\s*\d*\s*[:.]?\s*`)

// StripCaptionPrefix removes a leading "Table 3:"/"Bảng 3." label from
// caption text, leaving the remainder as the LaTeX \caption body.
func StripCaptionPrefix(text string) string {
	return strings.TrimSpace(reTableCaptionPrefix.ReplaceAllString(text, ""))
}

// Render classifies tbl and produces its LaTeX, dispatching to the
// matching kind's renderer.
func Render(tbl *xmlnode.Node, ctx Context, hooks Hooks) Result {
	grid := BuildGrid(tbl)
	kind := Classify(tbl, grid, ctx)

	switch kind {
	case KindMetadataBlock:
		return Result{Kind: kind, LaTeX: renderMetadataBlock(grid, hooks)}
	case KindAuthorBio:
		return Result{Kind: kind, LaTeX: renderAuthorBio(grid, hooks)}
	case KindArticleFrontLayout:
		return Result{Kind: kind, LaTeX: renderArticleFrontLayout(grid, hooks)}
	case KindEquationTable:
		return Result{Kind: kind, LaTeX: renderEquationTable(grid, hooks)}
	case KindTableOfContents:
		if ctx.TOCAlreadyEmitted {
			return Result{Kind: kind}
		}
		return Result{Kind: kind, LaTeX: "\\tableofcontents\n\\newpage\n\n", TOCEmitted: true}
	case KindFigureCarrier:
		return renderFigureCarrier(grid, hooks)
	default:
		return Result{Kind: kind, LaTeX: renderDataTable(grid, hooks)}
	}
}

func renderCellParagraphs(cell GridCell, hooks Hooks) string {
	if cell.Node == nil || hooks.Para == nil {
		return ""
	}
	var parts []string
	for _, p := range cell.Node.ChildrenNamed("p") {
		if text := hooks.Para.RenderParagraph(p); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// renderMetadataBlock lays the table's first two columns side by
// side as minipages: column 1 (article-info) narrow, column 2
// (abstract) wide.
func renderMetadataBlock(grid Grid, hooks Hooks) string {
	var col1, col2 []string
	for r := 0; r < grid.Rows; r++ {
		if grid.Cols >= 1 {
			if c := grid.Cells[r][0]; c.Anchor {
				col1 = append(col1, renderCellParagraphs(c, hooks))
			}
		}
		if grid.Cols >= 2 {
			if c := grid.Cells[r][1]; c.Anchor {
				col2 = append(col2, renderCellParagraphs(c, hooks))
			}
		}
	}

	var b strings.Builder
	b.WriteString("\\vspace{0.5cm}\n\\noindent\n")
	b.WriteString("\\begin{minipage}[t]{0.30\\textwidth}\n")
	b.WriteString(strings.Join(col1, "\n"))
	b.WriteString("\n\\end{minipage}\n\\hfill\n")
	b.WriteString("\\begin{minipage}[t]{0.65\\textwidth}\n")
	b.WriteString(strings.Join(col2, "\n"))
	b.WriteString("\n\\end{minipage}\n\\vspace{0.5cm}\n")
	return b.String()
}

// renderAuthorBio lays each row out as {image minipage | text
// minipage}, putting whichever of the two cells held the picture on
// the left.
func renderAuthorBio(grid Grid, hooks Hooks) string {
	var b strings.Builder
	for r := 0; r < grid.Rows; r++ {
		if grid.Cols < 2 {
			continue
		}
		left, right := grid.Cells[r][0], grid.Cells[r][1]
		if !left.Anchor && !right.Anchor {
			continue
		}

		imageCell, textCell := left, right
		if !hasImageBlip(left.Node) && hasImageBlip(right.Node) {
			imageCell, textCell = right, left
		}

		filename, ok := firstImageFilename(imageCell.Node, hooks.Image)
		if !ok {
			continue
		}

		b.WriteString("\\vspace{0.3cm}\n\\noindent\n")
		b.WriteString("\\begin{minipage}[t]{0.2\\textwidth}\n\\vspace{0pt}\n")
		fmt.Fprintf(&b, "\\includegraphics[width=\\linewidth, height=3.5cm, keepaspectratio]{%s}\n", filename)
		b.WriteString("\\end{minipage}\n\\hfill\n")
		b.WriteString("\\begin{minipage}[t]{0.75\\textwidth}\n\\vspace{0pt}\n")
		b.WriteString(renderCellParagraphs(textCell, hooks))
		b.WriteString("\n\\end{minipage}\n\\vspace{0.3cm}\n")
	}
	return b.String()
}

// renderArticleFrontLayout flattens the table to plain paragraphs,
// dropping the grid entirely and deduplicating repeated cell text
// (merged cells otherwise repeat their content across every slot they
// cover).
func renderArticleFrontLayout(grid Grid, hooks Hooks) string {
	seen := map[string]bool{}
	var b strings.Builder
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			cell := grid.Cells[r][c]
			if !cell.Anchor || cell.Node == nil {
				continue
			}
			text := renderCellParagraphs(cell, hooks)
			trimmed := strings.TrimSpace(text)
			if trimmed == "" || seen[trimmed] {
				continue
			}
			seen[trimmed] = true
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// renderEquationTable turns each row into a numbered \begin{equation}
// block, tagging it with the row's captured integer.
func renderEquationTable(grid Grid, hooks Hooks) string {
	var b strings.Builder
	for r := 0; r < grid.Rows; r++ {
		last := strings.TrimSpace(CellText(grid.Cells[r][grid.Cols-1]))
		m := reEquationNumber.FindStringSubmatch(last)
		if m == nil {
			continue
		}
		num := strings.Trim(last, "()")

		body := extractCellEquation(grid.Cells[r][0], hooks)
		b.WriteString("\\begin{equation}\n")
		if body != "" {
			fmt.Fprintf(&b, "  %s\n", body)
		} else {
			fmt.Fprintf(&b, "  \\text{[Equation %s]}\n", num)
		}
		fmt.Fprintf(&b, "  \\tag{%s}\n", num)
		b.WriteString("\\end{equation}\n\n")
	}
	return b.String()
}

// extractCellEquation finds the math in a cell: an m:oMath subtree
// first, an embedded OLE equation object second, plain escaped text
// as the last resort.
func extractCellEquation(cell GridCell, hooks Hooks) string {
	if cell.Node == nil {
		return ""
	}

	var parts []string
	if hooks.Math != nil {
		for _, omath := range cell.Node.FindAll("oMath") {
			if latex := hooks.Math.TranslateOMath(omath); strings.TrimSpace(latex) != "" {
				parts = append(parts, latex)
			}
		}
		if len(parts) == 0 {
			for _, obj := range cell.Node.FindAll("object") {
				ole := obj.FirstChildNamed("OLEObject")
				if ole == nil {
					continue
				}
				relID, ok := ole.Attr("id")
				if !ok {
					continue
				}
				if latex, ok := hooks.Math.TranslateOLEObject(relID); ok && strings.TrimSpace(latex) != "" {
					parts = append(parts, latex)
				}
			}
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	text := strings.TrimSpace(cell.Node.AllText())
	if text == "" {
		return ""
	}
	return escape.Text(text)
}

// renderFigureCarrier extracts every image cell's relationship id and
// leaves the actual figure/subfigure LaTeX to the walker, which
// already owns figure clustering and caption look-ahead for ordinary
// in-paragraph images.
func renderFigureCarrier(grid Grid, hooks Hooks) Result {
	seen := map[*xmlnode.Node]bool{}
	var relIDs []string
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			cell := grid.Cells[r][c]
			if !cell.Anchor || cell.Node == nil || seen[cell.Node] {
				continue
			}
			seen[cell.Node] = true
			for _, blip := range cell.Node.FindAll("blip") {
				if relID, ok := blip.Attr("embed"); ok {
					relIDs = append(relIDs, relID)
				}
			}
		}
	}
	return Result{Kind: KindFigureCarrier, ImageRelIDs: relIDs}
}

// renderDataTable is the fallback: a merge-aware tabular grid with
// \multirow/\multicolumn for spanned cells.
func renderDataTable(grid Grid, hooks Hooks) string {
	if grid.Cols == 0 {
		return ""
	}
	placement := hooks.TablePlacement
	if placement == "" {
		placement = "[htbp]"
	}

	colSpec := "|" + strings.Repeat("p{2cm}|", grid.Cols)

	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{table}%s\n", placement)
	b.WriteString("  \\centering\n")
	fmt.Fprintf(&b, "  \\begin{tabular}{%s}\n", colSpec)
	b.WriteString("  \\hline\n")

	for r := 0; r < grid.Rows; r++ {
		var cells []string
		for c := 0; c < grid.Cols; c++ {
			cell := grid.Cells[r][c]
			if cell.Node == nil {
				continue
			}
			if !cell.Anchor {
				// A slot under a \multirow anchor still takes an empty
				// token (an empty \multicolumn for a wide merge).
				if cell.Row < r && cell.Col == c {
					filler := ""
					if cell.ColSpan > 1 {
						filler = fmt.Sprintf("\\multicolumn{%d}{|p{%dcm}|}{}", cell.ColSpan, cell.ColSpan*2)
					}
					cells = append(cells, filler)
				}
				continue
			}
			token := strings.TrimSpace(renderCellParagraphs(cell, hooks))
			if cell.RowSpan > 1 {
				token = fmt.Sprintf("\\multirow{%d}{*}{%s}", cell.RowSpan, token)
			}
			if cell.ColSpan > 1 {
				width := cell.ColSpan * 2
				if width < 2 {
					width = 2
				}
				token = fmt.Sprintf("\\multicolumn{%d}{|p{%dcm}|}{%s}", cell.ColSpan, width, token)
			}
			cells = append(cells, token)
		}
		b.WriteString("    " + strings.Join(cells, " & ") + " \\\\\n")
		b.WriteString("  \\hline\n")
	}

	b.WriteString("  \\end{tabular}\n")
	fmt.Fprintf(&b, "  \\caption{%s}\n", escape.Text(hooks.Caption))
	fmt.Fprintf(&b, "  \\label{tab:bang%d}\n", hooks.TableIndex)
	b.WriteString("\\end{table}\n\n")
	return b.String()
}

func firstImageFilename(cell *xmlnode.Node, resolver ImageResolver) (string, bool) {
	if cell == nil || resolver == nil {
		return "", false
	}
	for _, blip := range cell.FindAll("blip") {
		relID, ok := blip.Attr("embed")
		if !ok {
			continue
		}
		if name, ok := resolver.ResolveImage(relID); ok {
			return name, true
		}
	}
	return "", false
}
