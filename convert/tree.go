// Package convert turns design scene nodes into semantic document nodes.
//
// Conversion happens in two steps. Build links the whole scene subtree into
// an arena owned by a Tree (parents, classified paints, expanded text runs,
// parsed name directives), then Convert derives id, tag, attributes, assets
// and style of every node. Nodes never outlive their Tree.
package convert

import (
	"errors"

	"go.uber.org/zap"

	"domx/figma"
	"domx/model"
)

// ErrNotInitialized is returned when Convert is called on a node which was
// not created by Tree.Build.
var ErrNotInitialized = errors.New("converted node is not initialized, use Tree.Build")

const noParent = -1

// Tree is an arena of converted nodes for a single conversion pass.
type Tree struct {
	nodes []*Node
	log   *zap.Logger

	// name directives binding pseudo targets to their hosts are resolved
	// once, on the first Convert call
	linked bool
	pseudo map[int][]int
}

// NewTree creates empty arena.
func NewTree(log *zap.Logger) *Tree {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tree{log: log}
}

// Node is a scene node wrapped with everything conversion needs to know about
// it. Fields are populated by Tree.Build and are read only afterwards.
type Node struct {
	tree     *Tree
	index    int
	parent   int
	children []int

	src *figma.Node
	// position among parent children and number of converted ancestors
	sibling int
	depth   int

	paints     paints
	directives directives
	geometry   geometry

	// virtual text run, nil for nodes backed by real scene node
	run *textRun
	// set when text node was split into virtual runs
	expanded bool
	// node styles or text of which are merged onto a host node
	pseudoTarget bool
	// node content is exported as a whole, children are not built
	exported string

	converted *model.Node
	style     model.Style
}

// Build wraps scene node and its subtree, parent may be nil for the root of
// the pass. Returned node is fully linked.
func (t *Tree) Build(src *figma.Node, parent *Node) *Node {
	pi := noParent
	depth := 0
	sibling := 0
	if parent != nil {
		pi = parent.index
		depth = parent.depth + 1
		sibling = len(parent.children)
	}

	n := &Node{
		tree:    t,
		index:   len(t.nodes),
		parent:  pi,
		src:     src,
		sibling: sibling,
		depth:   depth,
	}
	t.nodes = append(t.nodes, n)
	if parent != nil {
		parent.children = append(parent.children, n.index)
	}

	n.paints = classifyPaints(src)
	n.directives = parseDirectives(src.Name)
	n.pseudoTarget = n.directives.isPseudoTarget()
	n.geometry = classifyGeometry(src)
	n.exported = exportFormat(n)

	if n.pseudoTarget || n.exported != "" || IsVoidTag(n.tagName()) {
		return n
	}

	if src.Type == figma.TypeText {
		if runs := splitRuns(src); len(runs) > 0 {
			n.expanded = true
			for _, r := range runs {
				t.buildRun(n, r)
			}
		}
		return n
	}

	for _, c := range src.Children {
		if c == nil {
			continue
		}
		t.Build(c, n)
	}
	return n
}

func (t *Tree) buildRun(parent *Node, r *textRun) {
	n := &Node{
		tree:    t,
		index:   len(t.nodes),
		parent:  parent.index,
		src:     parent.src,
		sibling: len(parent.children),
		depth:   parent.depth + 1,
		run:     r,
	}
	n.paints = classifyPaintList(r.style.Fills, nil, nil)
	t.nodes = append(t.nodes, n)
	parent.children = append(parent.children, n.index)
}

// Len returns number of nodes in arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Nodes returns arena nodes in build (pre-order) order.
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Parent returns converted parent or nil.
func (n *Node) Parent() *Node {
	if n.tree == nil || n.parent == noParent {
		return nil
	}
	return n.tree.nodes[n.parent]
}

// Children returns converted children in scene order.
func (n *Node) Children() []*Node {
	if n.tree == nil {
		return nil
	}
	res := make([]*Node, 0, len(n.children))
	for _, i := range n.children {
		res = append(res, n.tree.nodes[i])
	}
	return res
}

// Ancestors returns chain from direct parent up to the root.
func (n *Node) Ancestors() []*Node {
	var res []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		res = append(res, p)
	}
	return res
}

// Source returns wrapped scene node.
func (n *Node) Source() *figma.Node {
	return n.src
}

// IsVirtual reports whether node is a synthesized text run.
func (n *Node) IsVirtual() bool {
	return n.run != nil
}

// IsPseudoTarget reports whether node is merged onto another node instead of
// being emitted.
func (n *Node) IsPseudoTarget() bool {
	return n.pseudoTarget
}

// siblings returns parent children, including node itself.
func (n *Node) siblings() []*Node {
	if p := n.Parent(); p != nil {
		return p.Children()
	}
	return []*Node{n}
}
