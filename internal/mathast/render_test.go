package mathast

import "testing"

func TestRenderFrac(t *testing.T) {
	n := &Frac{Num: &Char{Text: "a"}, Den: &Char{Text: "b"}}
	if got := Render(n); got != `\frac{a}{b}` {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderSupSingleCharUnbraced(t *testing.T) {
	n := &Sup{Base: &Char{Text: "x"}, Up: &Char{Text: "2"}}
	if got := Render(n); got != "x^2" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderSupMultiCharBraced(t *testing.T) {
	n := &Sup{Base: &Char{Text: "x"}, Up: &Char{Text: "n+1"}}
	if got := Render(n); got != "x^{n+1}" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderNary(t *testing.T) {
	n := &Nary{
		Op:   `\sum`,
		Dn:   &Char{Text: "i=1"},
		Up:   &Char{Text: "n"},
		Body: &Char{Text: "i"},
	}
	want := `\sum_{i=1}^{n} i`
	if got := Render(n); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderMatrix(t *testing.T) {
	n := &Matrix{Rows: 2, Cols: 2, Env: "pmatrix", Cells: []Node{
		&Char{Text: "1"}, &Char{Text: "2"},
		&Char{Text: "3"}, &Char{Text: "4"},
	}}
	want := `\begin{pmatrix}1 & 2 \\ 3 & 4\end{pmatrix}`
	if got := Render(n); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestBalanced(t *testing.T) {
	cases := map[string]bool{
		`\frac{a}{b}`:             true,
		`\left(x\right)`:          true,
		`\left(x`:                 false,
		`x}`:                      false,
		`\text{100\% done}`:       true,
	}
	for in, want := range cases {
		if got := Balanced(in); got != want {
			t.Errorf("Balanced(%q) = %v, want %v", in, got, want)
		}
	}
}
