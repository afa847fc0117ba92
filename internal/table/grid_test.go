package table

import (
	"testing"
)

func TestBuildGridSimple(t *testing.T) {
	tbl := parseTable(t,
		rowXML(cellXML("a"), cellXML("b"))+
			rowXML(cellXML("c"), cellXML("d")))
	grid := BuildGrid(tbl)
	if grid.Rows != 2 || grid.Cols != 2 {
		t.Fatalf("BuildGrid() dims = %dx%d, want 2x2", grid.Rows, grid.Cols)
	}
	if CellText(grid.Cells[0][0]) != "a" || CellText(grid.Cells[1][1]) != "d" {
		t.Errorf("unexpected cell text placement")
	}
}

func TestBuildGridColSpan(t *testing.T) {
	rows := `<w:tr><w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>wide</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>a</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>b</w:t></w:r></w:p></w:tc></w:tr>`
	tbl := parseTable(t, rows)
	grid := BuildGrid(tbl)

	if grid.Cols != 2 {
		t.Fatalf("Cols = %d, want 2", grid.Cols)
	}
	top := grid.Cells[0][0]
	if !top.Anchor || top.ColSpan != 2 {
		t.Errorf("top-left cell: Anchor=%v ColSpan=%d, want true,2", top.Anchor, top.ColSpan)
	}
	if grid.Cells[0][1].Node != top.Node {
		t.Errorf("spanned slot does not share the anchor's node")
	}
}

func TestBuildGridRowSpan(t *testing.T) {
	rows := `<w:tr><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>tall</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>x</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p></w:p></w:tc><w:tc><w:p><w:r><w:t>y</w:t></w:r></w:p></w:tc></w:tr>`
	tbl := parseTable(t, rows)
	grid := BuildGrid(tbl)

	anchor := grid.Cells[0][0]
	if !anchor.Anchor || anchor.RowSpan != 2 {
		t.Errorf("anchor: Anchor=%v RowSpan=%d, want true,2", anchor.Anchor, anchor.RowSpan)
	}
	below := grid.Cells[1][0]
	if below.Anchor {
		t.Errorf("continuation slot should not be an anchor")
	}
	if below.Node != anchor.Node {
		t.Errorf("continuation slot does not share the anchor's node")
	}
}
