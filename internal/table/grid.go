package table

import (
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// cellInfo is the merge group a grid slot belongs to: every slot a
// merged cell spans points at the same *cellInfo.
type cellInfo struct {
	tc        *xmlnode.Node
	colspan   int
	anchorRow int
	anchorCol int
}

// GridCell is one slot of a merge-aware grid. Slots covered by a
// rowspan/colspan all carry the same Node, Row, Col, RowSpan and
// ColSpan as the anchor (top-left) slot; Anchor is true only for that
// slot, so a renderer emits the cell once and skips its continuations.
type GridCell struct {
	Node    *xmlnode.Node
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Anchor  bool
}

// Grid is a table's cells resolved to their true row/column position,
// honouring w:gridSpan (colspan) and w:vMerge (rowspan via a restart
// followed by zero or more continues).
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]GridCell
}

// BuildGrid walks a w:tbl element's rows assigning each w:tc to its
// leftmost unoccupied column, the same left-to-right scan python's
// table processor uses to resolve merges without a layout engine.
func BuildGrid(tbl *xmlnode.Node) Grid {
	trs := tbl.ChildrenNamed("tr")
	cols := gridColumnCount(tbl, trs)
	rows := len(trs)
	if cols == 0 || rows == 0 {
		return Grid{}
	}

	meta := make(map[[2]int]*cellInfo, rows*cols)
	occupied := make([][]bool, rows)
	for i := range occupied {
		occupied[i] = make([]bool, cols)
	}

	for r, tr := range trs {
		c := 0
		for _, tc := range tr.ChildrenNamed("tc") {
			for c < cols && occupied[r][c] {
				c++
			}
			if c >= cols {
				break
			}

			colspan := gridSpanOf(tc)
			if colspan < 1 {
				colspan = 1
			}
			info := &cellInfo{tc: tc, colspan: colspan, anchorRow: r, anchorCol: c}
			if vMergeOf(tc) == "continue" && r > 0 {
				if above := meta[[2]int{r - 1, c}]; above != nil {
					info = above
				}
			}

			for k := 0; k < colspan && c+k < cols; k++ {
				occupied[r][c+k] = true
				meta[[2]int{r, c + k}] = info
			}
			c += colspan
		}
	}

	rowspanOf := map[*cellInfo]int{}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			info := meta[[2]int{r, c}]
			if info == nil || info.anchorRow != r || info.anchorCol != c {
				continue
			}
			span := 1
			for rr := r + 1; rr < rows; rr++ {
				if meta[[2]int{rr, c}] != info {
					break
				}
				span++
			}
			rowspanOf[info] = span
		}
	}

	cells := make([][]GridCell, rows)
	for r := 0; r < rows; r++ {
		cells[r] = make([]GridCell, cols)
		for c := 0; c < cols; c++ {
			info := meta[[2]int{r, c}]
			if info == nil {
				continue
			}
			cells[r][c] = GridCell{
				Node:    info.tc,
				Row:     info.anchorRow,
				Col:     info.anchorCol,
				RowSpan: rowspanOf[info],
				ColSpan: info.colspan,
				Anchor:  info.anchorRow == r && info.anchorCol == c,
			}
		}
	}

	return Grid{Rows: rows, Cols: cols, Cells: cells}
}

func gridColumnCount(tbl *xmlnode.Node, trs []*xmlnode.Node) int {
	if grid := tbl.FirstChildNamed("tblGrid"); grid != nil {
		if n := len(grid.ChildrenNamed("gridCol")); n > 0 {
			return n
		}
	}
	max := 0
	for _, tr := range trs {
		if n := len(tr.ChildrenNamed("tc")); n > max {
			max = n
		}
	}
	return max
}

func gridSpanOf(tc *xmlnode.Node) int {
	tcPr := tc.FirstChildNamed("tcPr")
	if tcPr == nil {
		return 1
	}
	gs := tcPr.FirstChildNamed("gridSpan")
	if gs == nil {
		return 1
	}
	val := gs.AttrOr("val", "1")
	n := 0
	for _, r := range val {
		if r < '0' || r > '9' {
			return 1
		}
		n = n*10 + int(r-'0')
	}
	if n < 1 {
		return 1
	}
	return n
}

// vMergeOf returns "", "restart" or "continue". w:vMerge with no
// w:val attribute means continue, per the OOXML spec.
func vMergeOf(tc *xmlnode.Node) string {
	tcPr := tc.FirstChildNamed("tcPr")
	if tcPr == nil {
		return ""
	}
	vm := tcPr.FirstChildNamed("vMerge")
	if vm == nil {
		return ""
	}
	val, ok := vm.Attr("val")
	if !ok || val == "" {
		return "continue"
	}
	return val
}

// CellText returns a grid cell's trimmed visible text.
func CellText(c GridCell) string {
	if c.Node == nil {
		return ""
	}
	return strings.TrimSpace(c.Node.AllText())
}
