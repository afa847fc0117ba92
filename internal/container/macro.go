package container

import (
	"archive/zip"
	"bytes"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/ooxml"
)

// macroParts are the parts dropped outright when stripping macros.
var macroParts = map[string]bool{
	ooxml.PartVBAProject: true,
	ooxml.PartVBAData:    true,
}

// stripMacrosIfNeeded inspects the raw ZIP bytes; if the manifest
// declares the macro-enabled main document content type, it rewrites
// the archive in memory: vbaProject.bin/vbaData.xml are dropped, the
// content-type manifest's macro MIME and Override entries are
// rewritten/removed, and every relationships part loses any
// Relationship entries pointing at a dropped macro part. For a
// macro-free container the input bytes are returned unchanged
// (byte-identical), matching the macro-stripping-neutrality property.
func stripMacrosIfNeeded(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	parts := map[string][]byte{}
	order := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			rc.Close()
			return nil, err
		}
		rc.Close()
		name := strings.TrimPrefix(f.Name, "/")
		parts[name] = buf.Bytes()
		order = append(order, name)
	}

	ctData, ok := parts[ooxml.PartContentTypes]
	if !ok {
		return data, nil
	}
	ct, err := ooxml.ParseContentTypes(ctData)
	if err != nil {
		return data, nil
	}
	if !ct.HasMacroPart() {
		return data, nil
	}

	// Drop vbaProject.bin / vbaData.xml.
	for name := range macroParts {
		delete(parts, name)
	}
	order = filterOut(order, macroParts)

	// Rewrite [Content_Types].xml: substitute the macro MIME with the
	// non-macro one, drop Override entries for the dropped parts.
	parts[ooxml.PartContentTypes] = rewriteContentTypes(ctData)

	// Strip macro-targeting Relationship entries from every .rels part.
	for name, data := range parts {
		if strings.HasSuffix(name, ".rels") {
			parts[name] = stripMacroRelationships(data)
		}
	}

	return rebuildZip(order, parts)
}

func filterOut(order []string, drop map[string]bool) []string {
	out := order[:0:0]
	for _, name := range order {
		if !drop[name] {
			out = append(out, name)
		}
	}
	return out
}

func rewriteContentTypes(data []byte) []byte {
	s := string(data)
	s = strings.ReplaceAll(s, ooxml.ContentTypeMacroDocument, ooxml.ContentTypeNormalDocument)
	for part := range macroParts {
		s = dropOverrideFor(s, "/"+part)
	}
	return []byte(s)
}

// dropOverrideFor removes every self-closing
// <Override PartName="partName" .../> element whose PartName matches.
func dropOverrideFor(s, partName string) string {
	for {
		idx := strings.Index(s, `PartName="`+partName+`"`)
		if idx < 0 {
			return s
		}
		start := strings.LastIndex(s[:idx], "<Override")
		if start < 0 {
			return s
		}
		end := strings.Index(s[idx:], "/>")
		if end < 0 {
			return s
		}
		end = idx + end + len("/>")
		s = s[:start] + s[end:]
	}
}

func stripMacroRelationships(data []byte) []byte {
	s := string(data)
	for part := range macroParts {
		base := part[strings.LastIndex(part, "/")+1:]
		for {
			idx := strings.Index(s, `Target="`+base+`"`)
			if idx < 0 {
				break
			}
			start := strings.LastIndex(s[:idx], "<Relationship")
			if start < 0 {
				break
			}
			end := strings.Index(s[idx:], "/>")
			if end < 0 {
				break
			}
			end = idx + end + len("/>")
			s = s[:start] + s[end:]
		}
	}
	return []byte(s)
}

func rebuildZip(order []string, parts map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		data, ok := parts[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
