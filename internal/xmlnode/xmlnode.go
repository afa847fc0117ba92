// Package xmlnode builds a small generic XML node tree over the
// standard library's xml.Decoder. The teacher's own OOXML structs
// (pkg/document) are unmarshal targets for a single authored shape;
// this package instead preserves arbitrary, unknown-shape input
// (element order, attributes, mixed text/element content) so the
// Document Walker and Math Translators can traverse input documents
// whose exact element set isn't fixed ahead of time.
package xmlnode

import (
	"encoding/xml"
	"io"
)

// Node is one element of the parsed tree.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	// Text is the concatenation of character data that is a direct
	// child of this element (not of a nested child element).
	Text string
	// Parent is nil for the root node.
	Parent *Node
}

// Local returns the element's local name (namespace stripped).
func (n *Node) Local() string { return n.Name.Local }

// Attr returns the value of the attribute with the given local name,
// ignoring namespace, and whether it was present.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def if absent.
func (n *Node) AttrOr(local, def string) string {
	if v, ok := n.Attr(local); ok {
		return v
	}
	return def
}

// Children named by local name, in document order.
func (n *Node) ChildrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Local() == local {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildNamed returns the first child with the given local name,
// or nil.
func (n *Node) FirstChildNamed(local string) *Node {
	for _, c := range n.Children {
		if c.Local() == local {
			return c
		}
	}
	return nil
}

// AllText concatenates the text of this node and every descendant,
// in document order — the "visible text" of a subtree.
func (n *Node) AllText() string {
	if n == nil {
		return ""
	}
	var out string
	out += n.Text
	for _, c := range n.Children {
		out += c.AllText()
	}
	return out
}

// Walk calls fn for n and every descendant, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns every descendant (not including n itself) whose
// local name matches, pre-order, depth-first.
func (n *Node) FindAll(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Local() == local {
			out = append(out, c)
		}
		out = append(out, c.FindAll(local)...)
	}
	return out
}

// Parse reads an XML document from r and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n.Parent = parent
				parent.Children = append(parent.Children, n)
			} else {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	return root, nil
}
