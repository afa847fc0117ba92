package walker

import (
	"strings"
	"testing"

	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

func parseParagraph(t *testing.T, inner string) *xmlnode.Node {
	t.Helper()
	n, err := xmlnode.Parse(strings.NewReader(`<w:p xmlns:w="w" xmlns:r="r">` + inner + `</w:p>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestReadListInfo(t *testing.T) {
	p := parseParagraph(t, `<w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="3"/></w:numPr></w:pPr>`)
	info := readListInfo(p)
	if !info.has || info.numID != "3" || info.level != 1 {
		t.Errorf("readListInfo() = %+v, want {numID:3 level:1 has:true}", info)
	}

	plain := parseParagraph(t, `<w:r><w:t>no list</w:t></w:r>`)
	if readListInfo(plain).has {
		t.Error("readListInfo() on a plain paragraph should report has=false")
	}
}

func TestListStateStackDiscipline(t *testing.T) {
	var s listState
	if got := s.enter(0); got != "\\begin{itemize}\n" {
		t.Errorf("enter(0) = %q", got)
	}
	if got := s.enter(1); got != "\\begin{itemize}\n" {
		t.Errorf("enter(1) = %q, want one more nested itemize", got)
	}
	if got := s.enter(0); got != "\\end{itemize}\n" {
		t.Errorf("enter(0) after depth 2 = %q, want one close", got)
	}
	if got := s.closeAll(); got != "\\end{itemize}\n" {
		t.Errorf("closeAll() = %q, want the remaining open level closed", got)
	}
	if s.open {
		t.Error("closeAll() should leave the stack closed")
	}
}

func TestAtoiDefault(t *testing.T) {
	if got := atoiDefault("42", 0); got != 42 {
		t.Errorf("atoiDefault(42) = %d", got)
	}
	if got := atoiDefault("", 7); got != 7 {
		t.Errorf("atoiDefault(empty) = %d, want default 7", got)
	}
	if got := atoiDefault("abc", 7); got != 7 {
		t.Errorf("atoiDefault(abc) = %d, want default 7", got)
	}
}
