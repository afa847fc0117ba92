// Package table classifies a w:tbl element into one of seven kinds
// and renders each kind the way that kind needs: a metadata sidebar,
// an author-bio strip, deduplicated front-matter text, a numbered
// equation list, a table of contents, an extracted figure cluster, or
// a merge-aware tabular grid.
package table

import (
	"regexp"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// Kind is the classifier's verdict, in priority order: the first
// matching predicate wins.
type Kind int

const (
	KindDataTable Kind = iota
	KindMetadataBlock
	KindAuthorBio
	KindArticleFrontLayout
	KindEquationTable
	KindTableOfContents
	KindFigureCarrier
)

// Context is everything the classifier and renderer need beyond the
// table's own XML: where the table sits in the document, and how
// many content tables have already been rendered.
type Context struct {
	// DocumentPositionPercent is this table's position in the overall
	// block sequence, 0-100.
	DocumentPositionPercent float64
	// ContentTableCount is the number of data tables already rendered
	// (the metadata-block predicate stops matching once a handful of
	// ordinary tables have gone by — a real data table that happens to
	// start with "Abstract" in a cell shouldn't relatch the gate).
	ContentTableCount int
	// TOCAlreadyEmitted is true once a table-of-contents table has
	// already produced its \tableofcontents; later TOC-shaped tables
	// emit nothing instead of repeating it.
	TOCAlreadyEmitted bool
}

var metadataKeywords = []string{
	"ARTICLE INFO", "ARTICLE INFORMATION", "ABSTRACT",
	"TÓM TẮT", "THÔNG TIN BÀI BÁO",
}

// articleFrontKeywords is the fixed 22-term journal-metadata
// vocabulary spec.md §4.E names, grounded on xu_ly_bang.py's
// la_bang_layout keyword list.
var articleFrontKeywords = []string{
	"ARTICLE INFORMATION", "ARTICLE TITLE", "ARTICLE HISTORY", "JOURNAL:",
	"ISSN:", "ABSTRACT", "KEYWORDS:", "TỪ KHÓA:",
	"AUTHOR", "AFFILIATION", "CORRESPONDENCE", "CITATION",
	"RECEIVED:", "REVISED:", "ACCEPTED:", "PUBLISHED:", "DOI:",
	"OPEN ACCESS", "TÓM TẮT", "VOLUME:", "ISSUE:", "MANUSCRIPT",
}

var (
	reEquationNumber = regexp.MustCompile(`^\(\d+\)$`)
	reChapterLabel   = regexp.MustCompile(`(?i)(CHƯƠNG|CHUONG|CHAPTER|PHẦN|PHAN|PART|MỤC|MUC)\s*\d`)
	reOutlineHeading = regexp.MustCompile(`^\d+\.?\d*\.?\s+[A-ZÀ-Ỹ]`)
	reSubLabel       = regexp.MustCompile(`^[(\[]?[a-zA-Z0-9][)\]]?\.?$`)
	reFigureLabel    = regexp.MustCompile(`(?i)^(Hình|Figure|Fig|Bảng|Table)\s*\d+`)
)

// Classify runs the seven predicates in priority order and returns
// the first match.
func Classify(tbl *xmlnode.Node, grid Grid, ctx Context) Kind {
	switch {
	case isMetadataBlock(grid, ctx):
		return KindMetadataBlock
	case isAuthorBio(grid):
		return KindAuthorBio
	case isArticleFrontLayout(grid, ctx):
		return KindArticleFrontLayout
	case isEquationTable(grid):
		return KindEquationTable
	case isTableOfContents(grid, ctx):
		return KindTableOfContents
	case isFigureCarrier(grid):
		return KindFigureCarrier
	default:
		return KindDataTable
	}
}

func rowTextUpper(grid Grid, limit int) string {
	var b strings.Builder
	for r := 0; r < limit && r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			cell := grid.Cells[r][c]
			if !cell.Anchor {
				continue
			}
			b.WriteString(strings.ToUpper(CellText(cell)))
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isMetadataBlock(grid Grid, ctx Context) bool {
	if ctx.ContentTableCount > 5 {
		return false
	}
	text := rowTextUpper(grid, 2)
	for _, kw := range metadataKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func isAuthorBio(grid Grid) bool {
	if grid.Cols != 2 || grid.Rows == 0 {
		return false
	}
	row := grid.Cells[0]
	hasImage := false
	textLen := 0
	for _, cell := range row {
		if !cell.Anchor {
			continue
		}
		if hasImageBlip(cell.Node) {
			hasImage = true
		}
		textLen += len(CellText(cell))
	}
	return hasImage && textLen > 50
}

func isArticleFrontLayout(grid Grid, ctx Context) bool {
	if ctx.DocumentPositionPercent > 25 {
		return false
	}
	text := rowTextUpper(grid, 10)
	count := 0
	for _, kw := range articleFrontKeywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count >= 3
}

func isEquationTable(grid Grid) bool {
	if grid.Cols != 2 || grid.Rows == 0 {
		return false
	}
	matches := 0
	for r := 0; r < grid.Rows; r++ {
		last := grid.Cells[r][grid.Cols-1]
		if reEquationNumber.MatchString(CellText(last)) {
			matches++
		}
	}
	return float64(matches)/float64(grid.Rows) >= 0.5
}

func isTableOfContents(grid Grid, ctx Context) bool {
	if ctx.DocumentPositionPercent > 30 {
		return false
	}

	headText := rowTextUpper(grid, 5)
	if strings.Contains(headText, "MỤC LỤC") || strings.Contains(headText, "TABLE OF CONTENTS") {
		return true
	}
	if grid.Rows < 5 {
		return false
	}

	checkRows := grid.Rows
	if checkRows > 20 {
		checkRows = 20
	}

	dotLeaders, trailingPageNums, chapterLike := 0, 0, 0
	for r := 0; r < checkRows; r++ {
		var rowText strings.Builder
		for c := 0; c < grid.Cols; c++ {
			cell := grid.Cells[r][c]
			if cell.Anchor {
				rowText.WriteString(CellText(cell))
			}
		}
		line := rowText.String()
		if strings.Contains(line, ".....") || strings.Contains(line, "…") {
			dotLeaders++
		}

		if grid.Cols >= 2 {
			lastCell := strings.TrimSpace(CellText(grid.Cells[r][grid.Cols-1]))
			if isAllDigits(lastCell) && len(lastCell) >= 1 && len(lastCell) <= 4 {
				trailingPageNums++
			}
			firstCell := strings.ToUpper(strings.TrimSpace(CellText(grid.Cells[r][0])))
			if reChapterLabel.MatchString(firstCell) || reOutlineHeading.MatchString(firstCell) {
				chapterLike++
			}
		}
	}

	threshold := float64(checkRows) * 0.5
	return float64(dotLeaders) >= threshold && float64(trailingPageNums) >= threshold && chapterLike >= 3
}

func isFigureCarrier(grid Grid) bool {
	var imageCells, longTextCells, totalCells int
	seen := map[*xmlnode.Node]bool{}
	for r := 0; r < grid.Rows; r++ {
		for c := 0; c < grid.Cols; c++ {
			cell := grid.Cells[r][c]
			if !cell.Anchor || cell.Node == nil || seen[cell.Node] {
				continue
			}
			seen[cell.Node] = true
			totalCells++

			if hasImageBlip(cell.Node) {
				imageCells++
				continue
			}
			text := strings.TrimSpace(CellText(cell))
			switch {
			case reSubLabel.MatchString(text):
			case reFigureLabel.MatchString(text):
			case len(text) > 20:
				longTextCells++
			}
		}
	}
	if totalCells == 0 || imageCells == 0 {
		return false
	}
	if longTextCells <= 1 {
		return true
	}
	return float64(imageCells)/float64(totalCells) >= 0.3
}

func hasImageBlip(n *xmlnode.Node) bool {
	if n == nil {
		return false
	}
	return len(n.FindAll("blip")) > 0
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
