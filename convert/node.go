package convert

import (
	"maps"

	"domx/figma"
	"domx/model"
)

// Convert derives semantic node. It returns nil node for pseudo targets,
// which are merged onto their hosts instead. Result is cached, repeated calls
// return the same node.
func (n *Node) Convert() (*model.Node, error) {
	if n == nil || n.tree == nil {
		return nil, ErrNotInitialized
	}
	if n.pseudoTarget {
		return nil, nil
	}
	if n.converted != nil {
		return n.converted, nil
	}
	n.tree.link()

	res := &model.Node{
		ID:         n.id(),
		Name:       n.src.Name,
		Type:       n.src.Type,
		TagName:    n.tagName(),
		Attributes: n.attributes(),
		Style:      maps.Clone(n.Style()),
		Assets:     n.assets(),
	}
	if n.run != nil {
		res.Name = ""
		res.Type = figma.TypeText
		text := n.run.text
		res.Text = &text
	} else if n.isText() && !n.expanded {
		text := normalizeText(n.src.Characters)
		res.Text = &text
	}

	for _, c := range n.Children() {
		if c.pseudoTarget {
			continue
		}
		res.Children = append(res.Children, c.id())
	}

	for _, i := range n.tree.pseudo[n.index] {
		addPseudoElement(res, n.tree.nodes[i])
	}

	n.converted = res
	return res, nil
}
