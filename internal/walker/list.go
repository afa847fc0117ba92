package walker

import "github.com/trantaidat7388-dot/word2latex/internal/xmlnode"

// listInfo is a paragraph's numbering properties, read from
// w:pPr/w:numPr.
type listInfo struct {
	numID string
	level int
	has   bool
}

func readListInfo(p *xmlnode.Node) listInfo {
	ppr := p.FirstChildNamed("pPr")
	if ppr == nil {
		return listInfo{}
	}
	numPr := ppr.FirstChildNamed("numPr")
	if numPr == nil {
		return listInfo{}
	}
	numIDNode := numPr.FirstChildNamed("numId")
	if numIDNode == nil {
		return listInfo{}
	}
	numID, ok := numIDNode.Attr("val")
	if !ok {
		return listInfo{}
	}
	level := 0
	if ilvl := numPr.FirstChildNamed("ilvl"); ilvl != nil {
		if v, ok := ilvl.Attr("val"); ok {
			level = atoiDefault(v, 0)
		}
	}
	return listInfo{numID: numID, level: level, has: true}
}

// listState tracks the currently open itemize nesting, mirroring
// chuyen_doi.py's trang_thai_danh_sach: every numId maps to itemize
// (no ordered/bulleted distinction is preserved), open depth follows
// the current item's ilvl, opening or closing levels as it changes.
type listState struct {
	open  bool
	depth int // number of currently open \begin{itemize} environments
}

// enter opens or adjusts the stack to reach level (0-based) and
// returns the LaTeX to emit before the \item itself.
func (s *listState) enter(level int) string {
	var out string
	if !s.open {
		for i := 0; i <= level; i++ {
			out += "\\begin{itemize}\n"
		}
		s.depth = level + 1
		s.open = true
		return out
	}
	switch {
	case level+1 > s.depth:
		for i := s.depth; i < level+1; i++ {
			out += "\\begin{itemize}\n"
		}
	case level+1 < s.depth:
		for i := s.depth; i > level+1; i-- {
			out += "\\end{itemize}\n"
		}
	}
	s.depth = level + 1
	return out
}

// closeAll closes every currently open itemize level at once.
func (s *listState) closeAll() string {
	if !s.open {
		return ""
	}
	var out string
	for i := 0; i < s.depth; i++ {
		out += "\\end{itemize}\n"
	}
	s.open = false
	s.depth = 0
	return out
}

func atoiDefault(s string, def int) int {
	n := 0
	any := false
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		any = true
		n = n*10 + int(r-'0')
	}
	if !any {
		return def
	}
	return n
}
