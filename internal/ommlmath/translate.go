// Package ommlmath translates a modern Office Math Markup (OMML)
// XML subtree into a LaTeX math string, via the shared mathast AST.
package ommlmath

import (
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/mathast"
	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// ExternalMathConverter is the host-provided OMML -> MathML -> LaTeX
// transform, tier 2 of the fallback chain (spec.md §4.B). The core
// ships no implementation; a production host wires an XSLT engine or
// similar. A nil converter simply means tier 2 is skipped.
type ExternalMathConverter interface {
	// Convert returns the LaTeX rendering of the given OMML subtree,
	// and whether conversion succeeded. An empty-but-ok result is
	// treated the same as a failure: tier 3 still runs.
	Convert(omml *xmlnode.Node) (string, bool)
}

// Translate runs the three-tier fallback chain on an m:oMath (or
// m:oMathPara) subtree and returns a LaTeX math string. The first
// non-empty tier wins.
func Translate(node *xmlnode.Node, external ExternalMathConverter) string {
	if node == nil {
		return ""
	}
	if n := structured(node); n != nil {
		if s := mathast.Render(n); strings.TrimSpace(s) != "" {
			return s
		}
	}
	if external != nil {
		if s, ok := external.Convert(node); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return lastResort(node)
}

// structured recognises the fixed Office Math element vocabulary and
// builds the corresponding mathast.Node, recursing into children.
// Unknown elements degrade to a Group over their recognised children.
func structured(n *xmlnode.Node) mathast.Node {
	switch n.Local() {
	case "oMath", "oMathPara":
		return groupOf(n)
	case "r":
		return runText(n)
	case "t":
		return &mathast.Char{Text: mapText(n.AllText())}
	case "f":
		num := n.FirstChildNamed("num")
		den := n.FirstChildNamed("den")
		return &mathast.Frac{Num: groupOf(num), Den: groupOf(den)}
	case "rad":
		radPr := n.FirstChildNamed("radPr")
		hideDeg := false
		if radPr != nil {
			if dh := radPr.FirstChildNamed("degHide"); dh != nil {
				hideDeg = dh.AttrOr("val", "1") != "0"
			}
		}
		deg := n.FirstChildNamed("deg")
		e := n.FirstChildNamed("e")
		var index mathast.Node
		if !hideDeg && deg != nil && strings.TrimSpace(deg.AllText()) != "" {
			index = groupOf(deg)
		}
		return &mathast.Root{Index: index, Radicand: groupOf(e)}
	case "sSub":
		return &mathast.Sub{Base: groupOf(n.FirstChildNamed("e")), Dn: groupOf(n.FirstChildNamed("sub"))}
	case "sSup":
		return &mathast.Sup{Base: groupOf(n.FirstChildNamed("e")), Up: groupOf(n.FirstChildNamed("sup"))}
	case "sSubSup":
		return &mathast.SubSup{
			Base: groupOf(n.FirstChildNamed("e")),
			Dn:   groupOf(n.FirstChildNamed("sub")),
			Up:   groupOf(n.FirstChildNamed("sup")),
		}
	case "nary":
		return naryNode(n)
	case "d":
		return delimNode(n)
	case "func":
		return funcNode(n)
	case "limLow":
		return &mathast.Sub{Base: groupOf(n.FirstChildNamed("e")), Dn: groupOf(n.FirstChildNamed("lim"))}
	case "limUpp":
		return &mathast.Sup{Base: groupOf(n.FirstChildNamed("e")), Up: groupOf(n.FirstChildNamed("lim"))}
	case "acc":
		return accNode(n)
	case "bar":
		return barNode(n)
	case "eqArr":
		return eqArrNode(n)
	case "m":
		return matrixNode(n)
	case "borderBox":
		return groupOf(n.FirstChildNamed("e"))
	default:
		// Unknown element: degrade to traversing children.
		return groupOf(n)
	}
}

// groupOf builds a Group over n's recognised children (or, for a
// childless/text-only leaf, a Char of its text).
func groupOf(n *xmlnode.Node) mathast.Node {
	if n == nil {
		return &mathast.Char{}
	}
	if len(n.Children) == 0 {
		return &mathast.Char{Text: mapText(n.Text)}
	}
	var kids []mathast.Node
	for _, c := range n.Children {
		if c.Local() == "rPr" || c.Local() == "ctrlPr" {
			continue
		}
		kids = append(kids, structured(c))
	}
	if len(kids) == 1 {
		return kids[0]
	}
	return &mathast.Group{Children: kids}
}

func runText(n *xmlnode.Node) mathast.Node {
	t := n.FirstChildNamed("t")
	if t == nil {
		return &mathast.Char{}
	}
	return &mathast.Char{Text: mapText(t.AllText())}
}

func naryNode(n *xmlnode.Node) mathast.Node {
	op := `\sum`
	if pr := n.FirstChildNamed("naryPr"); pr != nil {
		if chr := pr.FirstChildNamed("chr"); chr != nil {
			if v, ok := chr.Attr("val"); ok {
				op = naryOp(v)
			}
		}
	}
	var dn, up mathast.Node
	if s := n.FirstChildNamed("sub"); s != nil && strings.TrimSpace(s.AllText()) != "" {
		dn = groupOf(s)
	}
	if s := n.FirstChildNamed("sup"); s != nil && strings.TrimSpace(s.AllText()) != "" {
		up = groupOf(s)
	}
	return &mathast.Nary{Op: op, Dn: dn, Up: up, Body: groupOf(n.FirstChildNamed("e"))}
}

func delimNode(n *xmlnode.Node) mathast.Node {
	open, close := "(", ")"
	if pr := n.FirstChildNamed("dPr"); pr != nil {
		if b := pr.FirstChildNamed("begChr"); b != nil {
			if v, ok := b.Attr("val"); ok {
				open = delimText(v)
			}
		}
		if e := pr.FirstChildNamed("endChr"); e != nil {
			if v, ok := e.Attr("val"); ok {
				close = delimText(v)
			}
		}
	}
	es := n.ChildrenNamed("e")
	var inner mathast.Node
	if len(es) == 1 {
		inner = groupOf(es[0])
	} else if len(es) > 1 {
		var kids []mathast.Node
		for i, e := range es {
			if i > 0 {
				kids = append(kids, &mathast.Char{Text: ", "})
			}
			kids = append(kids, groupOf(e))
		}
		inner = &mathast.Group{Children: kids}
	}
	return &mathast.Delim{Open: open, Close: close, Inner: inner}
}

func funcNode(n *xmlnode.Node) mathast.Node {
	name := ""
	if fn := n.FirstChildNamed("fName"); fn != nil {
		name = strings.TrimSpace(fn.AllText())
	}
	cmd, ok := funcName[strings.ToLower(name)]
	if !ok {
		if name == "" {
			cmd = `\operatorname{}`
		} else {
			cmd = `\operatorname{` + name + `}`
		}
	}
	return &mathast.Func{Name: cmd, Arg: groupOf(n.FirstChildNamed("e"))}
}

func accNode(n *xmlnode.Node) mathast.Node {
	kind := mathast.AccentHat
	if pr := n.FirstChildNamed("accPr"); pr != nil {
		if chr := pr.FirstChildNamed("chr"); chr != nil {
			if v, ok := chr.Attr("val"); ok {
				if k, ok := accentKindFor[v]; ok {
					kind = k
				}
			}
		}
	}
	return &mathast.Accent{Kind: kind, Base: groupOf(n.FirstChildNamed("e"))}
}

func barNode(n *xmlnode.Node) mathast.Node {
	kind := mathast.BarOver
	if pr := n.FirstChildNamed("barPr"); pr != nil {
		if pos := pr.FirstChildNamed("pos"); pos != nil {
			if v, _ := pos.Attr("val"); v == "bot" {
				kind = mathast.BarUnder
			}
		}
	}
	return &mathast.Bar{Kind: kind, Base: groupOf(n.FirstChildNamed("e"))}
}

func eqArrNode(n *xmlnode.Node) mathast.Node {
	es := n.ChildrenNamed("e")
	rows := make([]mathast.Node, 0, len(es)*2-1)
	for i, e := range es {
		if i > 0 {
			rows = append(rows, &mathast.Char{Text: "\\\\\n"})
		}
		rows = append(rows, groupOf(e))
	}
	return &mathast.Group{Children: rows}
}

func matrixNode(n *xmlnode.Node) mathast.Node {
	mrs := n.ChildrenNamed("mr")
	cols := 0
	for _, mr := range mrs {
		if c := len(mr.ChildrenNamed("e")); c > cols {
			cols = c
		}
	}
	cells := make([]mathast.Node, 0, len(mrs)*cols)
	for _, mr := range mrs {
		es := mr.ChildrenNamed("e")
		for c := 0; c < cols; c++ {
			if c < len(es) {
				cells = append(cells, groupOf(es[c]))
			} else {
				cells = append(cells, &mathast.Char{})
			}
		}
	}
	return &mathast.Matrix{Rows: len(mrs), Cols: cols, Env: "pmatrix", Cells: cells}
}

// lastResort concatenates the subtree's run texts, running every
// character through the Unicode -> LaTeX table.
func lastResort(n *xmlnode.Node) string {
	var b strings.Builder
	for _, r := range n.AllText() {
		if cmd, ok := charMap[r]; ok {
			b.WriteString(cmd)
			b.WriteString(" ")
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
