package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const cliContentTypes = `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const cliDocument = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>hello cli</w:t></w:r></w:p></w:body>
</w:document>`

func TestRunWritesTexAndArchive(t *testing.T) {
	dir := t.TempDir()
	docxPath := filepath.Join(dir, "paper.docx")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": cliContentTypes,
		"word/document.xml":   cliDocument,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(content))
	}
	zw.Close()
	os.WriteFile(docxPath, buf.Bytes(), 0o644)

	tmplPath := filepath.Join(dir, "tmpl.tex")
	os.WriteFile(tmplPath, []byte("%%CONTENT%%"), 0o644)

	outDir := filepath.Join(dir, "out")
	if err := run(docxPath, tmplPath, outDir, false); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "paper.tex")); err != nil {
		t.Errorf("expected paper.tex to exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "paper.zip")); err != nil {
		t.Errorf("expected paper.zip to exist: %v", err)
	}
}

func TestRunMissingInputReturnsError(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "tmpl.tex")
	os.WriteFile(tmplPath, []byte("%%CONTENT%%"), 0o644)

	if err := run(filepath.Join(dir, "missing.docx"), tmplPath, dir, false); err == nil {
		t.Fatal("run() expected an error for a missing input file")
	}
}
