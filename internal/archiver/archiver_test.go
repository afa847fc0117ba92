package archiver

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func readZipEntry(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open entry %s: %v", name, err)
			}
			defer rc.Close()
			b, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read entry %s: %v", name, err)
			}
			return string(b)
		}
	}
	t.Fatalf("archive missing entry %q", name)
	return ""
}

func TestArchiveContainsTexAndEmptyWarningsReport(t *testing.T) {
	data, err := Archive(`\documentclass{article}`, "paper.tex", "", nil)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if got := readZipEntry(t, data, "paper.tex"); got != `\documentclass{article}` {
		t.Errorf("paper.tex = %q", got)
	}
	if got := readZipEntry(t, data, "README.md"); !bytes.Contains([]byte(got), []byte("No degraded conversions.")) {
		t.Errorf("README.md = %q, want the no-warnings message", got)
	}
}

func TestArchiveReportsWarningsSortedByBlock(t *testing.T) {
	warnings := []Warning{
		{Kind: "image", BlockIndex: 5, Detail: "rejected small icon"},
		{Kind: "math", BlockIndex: 2, Detail: "$a/b$"},
	}
	data, err := Archive("tex source", "paper.tex", "", warnings)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	md := readZipEntry(t, data, "README.md")
	if bytes.Index([]byte(md), []byte("block 2")) > bytes.Index([]byte(md), []byte("block 5")) {
		t.Errorf("README.md warnings not sorted by block index:\n%s", md)
	}
	if !bytes.Contains([]byte(md), []byte("1 math, 1 image")) {
		t.Errorf("README.md missing warning counts: %s", md)
	}

	html := readZipEntry(t, data, "README.html")
	if html == "" {
		t.Error("README.html is empty")
	}
}

func TestArchiveIncludesAssetDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hinh_1.png"), []byte("fake png bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Archive("tex source", "paper.tex", dir, nil)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if got := readZipEntry(t, data, "assets/hinh_1.png"); got != "fake png bytes" {
		t.Errorf("assets/hinh_1.png = %q", got)
	}
}

func TestArchiveToleratesMissingAssetDirectory(t *testing.T) {
	_, err := Archive("tex source", "paper.tex", filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if err != nil {
		t.Fatalf("Archive() error = %v, want nil for a missing asset dir", err)
	}
}
