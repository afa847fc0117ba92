package walker

import (
	"testing"

	"github.com/trantaidat7388-dot/word2latex/internal/config"
)

type fakeAssets struct {
	dir     string
	written map[string][]byte
}

func (f *fakeAssets) Write(name string, data []byte) error {
	if f.written == nil {
		f.written = map[string][]byte{}
	}
	f.written[name] = data
	return nil
}

func (f *fakeAssets) Dir() string { return f.dir }

func TestTranslateOLEObjectResolverMissing(t *testing.T) {
	m := newMathTranslator(nil, nil, nil)
	if _, ok := m.TranslateOLEObject("rId9"); ok {
		t.Error("TranslateOLEObject() with a nil resolver should report ok=false")
	}
}

func TestTranslateOLEObjectResolveFails(t *testing.T) {
	resolve := func(relID string) ([]byte, string, bool) { return nil, "", false }
	m := newMathTranslator(nil, resolve, nil)
	if _, ok := m.TranslateOLEObject("rId9"); ok {
		t.Error("TranslateOLEObject() should report ok=false when the relationship can't be resolved")
	}
}

func TestTranslateOLEObjectNotAnEquationStream(t *testing.T) {
	resolve := func(relID string) ([]byte, string, bool) { return []byte("not an ole file"), "application/octet-stream", true }
	m := newMathTranslator(nil, resolve, nil)
	if _, ok := m.TranslateOLEObject("rId9"); ok {
		t.Error("TranslateOLEObject() should report ok=false for bytes that don't decode as an OLE compound file")
	}
}

func TestExtractOLERasterNoImagedata(t *testing.T) {
	obj := parseParagraph(t, `<w:object></w:object>`).ChildrenNamed("object")[0]
	assets := &fakeAssets{dir: "out/assets"}
	images := newImageExtractor(config.Default(), assets, nil)
	resolve := func(relID string) ([]byte, string, bool) { return nil, "", false }
	if got := extractOLERaster(obj, resolve, images); got != "" {
		t.Errorf("extractOLERaster() = %q, want empty when there is no v:imagedata", got)
	}
}

func TestExtractOLERasterWritesFormulaAsset(t *testing.T) {
	obj := parseParagraph(t, `<w:object><v:shape><v:imagedata r:id="rId5"/></v:shape></w:object>`).ChildrenNamed("object")[0]
	assets := &fakeAssets{dir: "out/assets"}
	images := newImageExtractor(config.Default(), assets, nil)
	resolve := func(relID string) ([]byte, string, bool) {
		if relID != "rId5" {
			t.Fatalf("resolve() called with relID %q, want rId5", relID)
		}
		return []byte("wmf-bytes"), "image/x-wmf", true
	}
	got := extractOLERaster(obj, resolve, images)
	if got != "formula_1.wmf" {
		t.Errorf("extractOLERaster() = %q, want formula_1.wmf", got)
	}
	if images.count != 1 {
		t.Errorf("images.count = %d, want 1", images.count)
	}
	if string(assets.written["formula_1.wmf"]) != "wmf-bytes" {
		t.Errorf("asset not written with expected bytes")
	}
}

func TestExtractOLERasterUndoesCountOnWriteFailure(t *testing.T) {
	obj := parseParagraph(t, `<w:object><v:shape><v:imagedata r:id="rId5"/></v:shape></w:object>`).ChildrenNamed("object")[0]
	images := newImageExtractor(config.Default(), failingAssets{}, nil)
	resolve := func(relID string) ([]byte, string, bool) { return []byte("bytes"), "image/png", true }
	got := extractOLERaster(obj, resolve, images)
	if got != "" {
		t.Errorf("extractOLERaster() = %q, want empty on write failure", got)
	}
	if images.count != 0 {
		t.Errorf("images.count = %d, want 0 after rollback", images.count)
	}
}

type failingAssets struct{}

func (failingAssets) Write(name string, data []byte) error { return errWrite }
func (failingAssets) Dir() string                           { return "out" }

var errWrite = &writeError{}

type writeError struct{}

func (*writeError) Error() string { return "write failed" }
