// Package container implements the Container Reader: opening the
// ZIP-shaped input document and, if it is macro-enabled, stripping
// the macro parts in-memory before the XML parser ever sees them.
package container

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/trantaidat7388-dot/word2latex/internal/converterrors"
	"github.com/trantaidat7388-dot/word2latex/internal/ooxml"
)

// Container is an opened document package: every part loaded into
// memory by name, keyed without a leading slash (e.g.
// "word/document.xml").
type Container struct {
	Parts        map[string][]byte
	ContentTypes *ooxml.ContentTypes
}

// Open parses a ZIP-shaped document from raw bytes, transparently
// stripping macro parts first if the manifest declares a macro-
// enabled main document. Failure to open the ZIP or locate the main
// document part is a fatal ContainerError.
func Open(data []byte) (*Container, error) {
	data, err := stripMacrosIfNeeded(data)
	if err != nil {
		return nil, converterrors.Wrap(converterrors.ContainerError, "strip macros", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, converterrors.Wrap(converterrors.ContainerError, "open zip", err)
	}

	c := &Container{Parts: map[string][]byte{}}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, converterrors.Wrap(converterrors.ContainerError, "read part "+f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, converterrors.Wrap(converterrors.ContainerError, "read part "+f.Name, err)
		}
		c.Parts[strings.TrimPrefix(f.Name, "/")] = b
	}

	ctData, ok := c.Parts[ooxml.PartContentTypes]
	if !ok {
		return nil, converterrors.New(converterrors.ContainerError, "missing [Content_Types].xml")
	}
	ct, err := ooxml.ParseContentTypes(ctData)
	if err != nil {
		return nil, converterrors.Wrap(converterrors.ContainerError, "parse content types", err)
	}
	c.ContentTypes = ct

	if _, ok := c.Parts[ooxml.PartMainDocument]; !ok {
		return nil, converterrors.New(converterrors.ContainerError, "missing main document part")
	}
	return c, nil
}

// MainDocument returns the bytes of word/document.xml.
func (c *Container) MainDocument() []byte {
	return c.Parts[ooxml.PartMainDocument]
}

// Relationships returns the relationship map for the given owning
// part name (e.g. "word/document.xml" -> "word/_rels/document.xml.rels").
func (c *Container) Relationships(partName string) (ooxml.RelationshipMap, error) {
	relPath := relsPathFor(partName)
	data, ok := c.Parts[relPath]
	if !ok {
		return ooxml.RelationshipMap{}, nil
	}
	return ooxml.ParseRelationships(data)
}

func relsPathFor(partName string) string {
	idx := strings.LastIndex(partName, "/")
	dir, base := "", partName
	if idx >= 0 {
		dir, base = partName[:idx], partName[idx+1:]
	}
	if dir == "" {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// Media returns the names (sorted, deterministic) of every part
// under word/media/.
func (c *Container) Media() []string {
	var names []string
	for name := range c.Parts {
		if strings.HasPrefix(name, "word/media/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
