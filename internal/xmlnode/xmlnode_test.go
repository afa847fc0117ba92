package xmlnode

import (
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	src := `<root xmlns:w="ns"><w:p w:id="1">hello<w:r>world</w:r></w:p></root>`
	root, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Local() != "root" {
		t.Fatalf("root local = %q", root.Local())
	}
	p := root.FirstChildNamed("p")
	if p == nil {
		t.Fatalf("no p child")
	}
	if id, ok := p.Attr("id"); !ok || id != "1" {
		t.Errorf("id attr = %q, %v", id, ok)
	}
	if got := p.AllText(); got != "helloworld" {
		t.Errorf("AllText() = %q", got)
	}
}

func TestFindAll(t *testing.T) {
	src := `<root><a><b/><b/></a><b/></root>`
	root, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	all := root.FindAll("b")
	if len(all) != 3 {
		t.Errorf("FindAll(b) len = %d, want 3", len(all))
	}
}
