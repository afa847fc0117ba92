package container

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

const normalContentTypes = `<?xml version="1.0"?><Types xmlns="t"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const macroContentTypes = `<?xml version="1.0"?><Types xmlns="t"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.ms-word.document.macroEnabled.main+xml"/><Override PartName="/word/vbaProject.bin" ContentType="application/vnd.ms-office.vbaProject"/></Types>`

func TestOpenMinimalDocument(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": normalContentTypes,
		"word/document.xml":   `<w:document xmlns:w="w"><w:body/></w:document>`,
	})
	c, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if c.MainDocument() == nil {
		t.Fatalf("MainDocument nil")
	}
}

func TestOpenMissingMainDocument(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": normalContentTypes,
	})
	if _, err := Open(data); err == nil {
		t.Fatalf("expected ContainerError for missing main document")
	}
}

func TestMacroStrippingNeutralityOnMacroFreeContainer(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml": normalContentTypes,
		"word/document.xml":   `<w:document xmlns:w="w"><w:body/></w:document>`,
	})
	out, err := stripMacrosIfNeeded(data)
	if err != nil {
		t.Fatalf("stripMacrosIfNeeded: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Errorf("macro-free container was rewritten; want byte-identical")
	}
}

func TestMacroStrippingDropsVBAParts(t *testing.T) {
	data := buildZip(t, map[string]string{
		"[Content_Types].xml":                macroContentTypes,
		"word/document.xml":                  `<w:document xmlns:w="w"><w:body/></w:document>`,
		"word/vbaProject.bin":                "fake-vba-binary",
		"word/_rels/document.xml.rels":       `<Relationships xmlns="r"><Relationship Id="rId1" Type="t" Target="vbaProject.bin"/><Relationship Id="rId2" Type="t" Target="media/image1.png"/></Relationships>`,
	})
	c, err := Open(data)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := c.Parts["word/vbaProject.bin"]; ok {
		t.Errorf("vbaProject.bin was not dropped")
	}
	if c.ContentTypes.HasMacroPart() {
		t.Errorf("content types still declare a macro part")
	}
	rels, err := c.Relationships("word/document.xml")
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}
	if _, ok := rels["rId1"]; ok {
		t.Errorf("macro relationship rId1 was not stripped")
	}
	if _, ok := rels["rId2"]; !ok {
		t.Errorf("non-macro relationship rId2 was incorrectly stripped")
	}
}
