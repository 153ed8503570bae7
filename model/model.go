// Package model defines semantic document tree (Domx) produced from design
// scene graph: documents, nodes, styles and asset records. Types here carry
// no conversion logic, they are what gets persisted, merged with override
// layers and handed to templates.
package model

import (
	"fmt"
	"time"
)

// Asset format hints.
const (
	AssetFormatSVG      = "svg"
	AssetFormatImageRef = "imageRef"
	AssetFormatPNG      = "png"
)

// AssetScheme prefixes asset keys in attribute and style values until export
// replaces them with actual file paths, "asset:<key>".
const AssetScheme = "asset:"

// Asset describes single binary resource referenced by a node. It is filled
// in stages: format during conversion, URL by batch resolution, file name and
// dimensions by downloader and finally file path by export. Presence of
// FilePath means file was already copied into output tree.
type Asset struct {
	Format   string `json:"format,omitempty"`
	URL      string `json:"url,omitempty"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	FilePath string `json:"filePath,omitempty"`
}

// Style is a set of CSS declarations, property name to value.
type Style map[string]string

// Node is a single element of semantic tree.
type Node struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
	TagName string `json:"tagName"`

	Attributes map[string]string `json:"attributes,omitempty"`
	Style      Style             `json:"style,omitempty"`
	// keyed by selector suffix, ":hover", "::before", "::placeholder"...
	PseudoStyles map[string]Style `json:"pseudoStyles,omitempty"`

	Text     *string           `json:"text,omitempty"`
	Children []string          `json:"children,omitempty"`
	Assets   map[string]*Asset `json:"assets,omitempty"`
}

// HasText reports whether node carries text content.
func (n *Node) HasText() bool {
	return n != nil && n.Text != nil
}

// Meta is document level information.
type Meta struct {
	Title        string    `json:"title"`
	FileKey      string    `json:"fileKey"`
	FileName     string    `json:"fileName,omitempty"`
	NodeID       string    `json:"nodeId"`
	LastModified time.Time `json:"lastModified"`
	Revision     string    `json:"revision,omitempty"`
}

// Document is flat map of semantic nodes with designated head and body.
type Document struct {
	Meta  Meta             `json:"meta"`
	Head  string           `json:"head,omitempty"`
	Body  string           `json:"body"`
	Nodes map[string]*Node `json:"nodes"`
}

// NewDocument returns empty document ready to be populated.
func NewDocument(meta Meta) *Document {
	return &Document{Meta: meta, Nodes: make(map[string]*Node)}
}

// Node returns node by id or nil.
func (d *Document) Node(id string) *Node {
	if d == nil {
		return nil
	}
	return d.Nodes[id]
}

// Children returns resolved children of the node in order, unknown ids are
// skipped.
func (d *Document) Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	res := make([]*Node, 0, len(n.Children))
	for _, id := range n.Children {
		if c := d.Nodes[id]; c != nil {
			res = append(res, c)
		}
	}
	return res
}

// Walk visits nodes reachable from root in pre-order. Returning false from fn
// stops descending into children of that node.
func (d *Document) Walk(root string, fn func(n *Node, depth int) bool) {
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n := d.Nodes[id]
		if n == nil {
			return
		}
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
}

// Validate checks structural invariants: body resolves and every referenced
// child exists.
func (d *Document) Validate() error {
	if _, ok := d.Nodes[d.Body]; !ok {
		return fmt.Errorf("body node %q is not in the document", d.Body)
	}
	if len(d.Head) > 0 {
		if _, ok := d.Nodes[d.Head]; !ok {
			return fmt.Errorf("head node %q is not in the document", d.Head)
		}
	}
	for id, n := range d.Nodes {
		if n == nil {
			return fmt.Errorf("node %q is empty", id)
		}
		if n.ID != id {
			return fmt.Errorf("node %q is stored under %q", n.ID, id)
		}
		for _, c := range n.Children {
			if _, ok := d.Nodes[c]; !ok {
				return fmt.Errorf("node %q references missing child %q", id, c)
			}
		}
	}
	return nil
}

// Assets returns all asset records in the document keyed by owning node id
// and asset key.
func (d *Document) Assets() map[string]map[string]*Asset {
	res := make(map[string]map[string]*Asset)
	for id, n := range d.Nodes {
		if len(n.Assets) > 0 {
			res[id] = n.Assets
		}
	}
	return res
}
