// Package ooxml holds the fixed set of namespaces and package-level
// structures (relationships, content types) the core depends on.
package ooxml

// Namespace URIs the core recognises. Elements are matched by local
// name once parsed into xmlnode.Node, so these constants exist for
// documentation and for relationship/content-type matching, not for
// tag construction.
const (
	NSWordprocessing = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSMath           = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	NSRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSDrawingMain    = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSWordDrawing    = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NSWordDrawing14  = "http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing"
	NSVML            = "urn:schemas-microsoft-com:vml"
	NSOffice         = "urn:schemas-microsoft-com:office:office"
	NSPackageRel     = "http://schemas.openxmlformats.org/package/2006/relationships"

	ContentTypeMacroDocument    = "application/vnd.ms-word.document.macroEnabled.main+xml"
	ContentTypeNormalDocument   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	PartVBAProject              = "word/vbaProject.bin"
	PartVBAData                 = "word/vbaData.xml"
	PartMainDocument            = "word/document.xml"
	PartContentTypes            = "[Content_Types].xml"
)

// Relationship is one <Relationship> entry from a .rels part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// RelationshipMap resolves relationship IDs to relationships, scoped
// to the part that owns the .rels file (e.g. word/document.xml uses
// word/_rels/document.xml.rels).
type RelationshipMap map[string]Relationship

// Target returns the target URI for the given relationship ID.
func (m RelationshipMap) Target(id string) (string, bool) {
	r, ok := m[id]
	if !ok {
		return "", false
	}
	return r.Target, true
}
