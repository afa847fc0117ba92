package ommlmath

import (
	"strings"
	"testing"

	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

func parse(t *testing.T, src string) *xmlnode.Node {
	t.Helper()
	n, err := xmlnode.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestTranslateFraction(t *testing.T) {
	src := `<m:oMath xmlns:m="m"><m:f><m:num><m:r><m:t>a</m:t></m:r></m:num><m:den><m:r><m:t>b</m:t></m:r></m:den></m:f></m:oMath>`
	n := parse(t, src)
	got := Translate(n, nil)
	if got != `\frac{a}{b}` {
		t.Errorf("Translate() = %q", got)
	}
}

func TestTranslateSuperscript(t *testing.T) {
	src := `<m:oMath xmlns:m="m"><m:sSup><m:e><m:r><m:t>x</m:t></m:r></m:e><m:sup><m:r><m:t>2</m:t></m:r></m:sup></m:sSup></m:oMath>`
	n := parse(t, src)
	if got := Translate(n, nil); got != "x^2" {
		t.Errorf("Translate() = %q", got)
	}
}

func TestTranslateNary(t *testing.T) {
	src := `<m:oMath xmlns:m="m"><m:nary><m:naryPr><m:chr m:val="∑"/></m:naryPr><m:sub><m:r><m:t>i=1</m:t></m:r></m:sub><m:sup><m:r><m:t>n</m:t></m:r></m:sup><m:e><m:r><m:t>i</m:t></m:r></m:e></m:nary></m:oMath>`
	n := parse(t, src)
	want := `\sum_{i=1}^{n} i`
	if got := Translate(n, nil); got != want {
		t.Errorf("Translate() = %q, want %q", got, want)
	}
}

func TestTranslateLastResortOnUnknownDegradesToCharMap(t *testing.T) {
	src := `<m:oMath xmlns:m="m"><m:bogus>α + β</m:bogus></m:oMath>`
	n := parse(t, src)
	got := Translate(n, nil)
	if !strings.Contains(got, `\alpha`) || !strings.Contains(got, `\beta`) {
		t.Errorf("Translate() = %q, want greek letters translated", got)
	}
}
