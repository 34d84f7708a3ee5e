package tagged

import (
	"github.com/tsawler/slideua/core"
	"github.com/tsawler/slideua/model"
)

// Node is one structure element of the generated document.
type Node struct {
	Role model.SemanticRole
	// ElementID names the slide element the node was built from. Nodes made
	// for list items, rows and cells carry their element's id too.
	ElementID string
	Slide     int

	Title string
	Alt   string
	Lang  string
	URL   string

	// Table cell attributes.
	Scope   model.CellScope
	RowSpan int
	ColSpan int

	// BBox is the element box in page coordinates: llx, lly, urx, ury.
	BBox []float64

	// MCIDs are the marked-content ids on the node's page.
	MCIDs    []int
	Children []*Node

	ref   core.IndirectRef
	annot *annotation
}

func (n *Node) add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// HasContent reports whether the node or any descendant owns content.
func (n *Node) HasContent() bool {
	if len(n.MCIDs) > 0 || n.annot != nil {
		return true
	}
	for _, c := range n.Children {
		if c.HasContent() {
			return true
		}
	}
	return false
}

// StructTree is the logical structure of a generated document. Root is the
// Document element with one Sect per slide.
type StructTree struct {
	Root *Node
}

// Walk visits every node depth-first in document order.
func (t *StructTree) Walk(fn func(n *Node, depth int)) {
	if t == nil || t.Root == nil {
		return
	}
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(t.Root, 0)
}

// Nodes returns all nodes in document order.
func (t *StructTree) Nodes() []*Node {
	var out []*Node
	t.Walk(func(n *Node, _ int) { out = append(out, n) })
	return out
}

// ForElement returns the nodes built from the given element.
func (t *StructTree) ForElement(slide int, id string) []*Node {
	var out []*Node
	t.Walk(func(n *Node, _ int) {
		if n.Slide == slide && n.ElementID == id {
			out = append(out, n)
		}
	})
	return out
}

// Count returns the number of nodes with the given role.
func (t *StructTree) Count(role model.SemanticRole) int {
	count := 0
	t.Walk(func(n *Node, _ int) {
		if n.Role == role {
			count++
		}
	})
	return count
}

// Sect returns the section node of a slide, or nil.
func (t *StructTree) Sect(slide int) *Node {
	if t == nil || t.Root == nil {
		return nil
	}
	for _, c := range t.Root.Children {
		if c.Role == model.RoleSect && c.Slide == slide {
			return c
		}
	}
	return nil
}
