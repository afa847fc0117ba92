package ooxml

import (
	"bytes"

	"github.com/trantaidat7388-dot/word2latex/internal/xmlnode"
)

// ParseRelationships parses a .rels part's bytes into a RelationshipMap.
func ParseRelationships(data []byte) (RelationshipMap, error) {
	root, err := xmlnode.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	out := RelationshipMap{}
	if root == nil {
		return out, nil
	}
	for _, rel := range root.ChildrenNamed("Relationship") {
		id, _ := rel.Attr("Id")
		typ, _ := rel.Attr("Type")
		target, _ := rel.Attr("Target")
		out[id] = Relationship{ID: id, Type: typ, Target: target}
	}
	return out, nil
}

// ContentTypes is the parsed [Content_Types].xml manifest.
type ContentTypes struct {
	Defaults  map[string]string // extension -> content type
	Overrides map[string]string // part name -> content type
}

// ParseContentTypes parses the [Content_Types].xml bytes.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	root, err := xmlnode.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	ct := &ContentTypes{Defaults: map[string]string{}, Overrides: map[string]string{}}
	if root == nil {
		return ct, nil
	}
	for _, d := range root.ChildrenNamed("Default") {
		ext, _ := d.Attr("Extension")
		typ, _ := d.Attr("ContentType")
		ct.Defaults[ext] = typ
	}
	for _, o := range root.ChildrenNamed("Override") {
		part, _ := o.Attr("PartName")
		typ, _ := o.Attr("ContentType")
		ct.Overrides[part] = typ
	}
	return ct, nil
}

// HasMacroPart reports whether the manifest declares the macro-
// enabled main-document content type on any part.
func (ct *ContentTypes) HasMacroPart() bool {
	for _, typ := range ct.Overrides {
		if typ == ContentTypeMacroDocument {
			return true
		}
	}
	return false
}
