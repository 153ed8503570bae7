package convert

import (
	"maps"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"domx/css"
	"domx/model"
)

// properties which make sense for ::placeholder
var placeholderProps = map[string]bool{
	"color": true, "opacity": true, "font-family": true, "font-size": true, "font-weight": true,
	"font-style": true, "line-height": true, "letter-spacing": true, "text-transform": true,
	"text-decoration": true, "font-variant-caps": true, "text-shadow": true,
}

// layout properties are not carried over to pseudo class styles, pseudo
// target is drawn at the place of its host
var hostPlacementProps = map[string]bool{
	"position": true, "top": true, "right": true, "bottom": true, "left": true, "z-index": true,
	"flex-grow": true, "flex-shrink": true, "align-self": true, "grid-column": true, "grid-row": true,
}

// link binds every pseudo target to its host node.
func (t *Tree) link() {
	if t.linked {
		return
	}
	t.linked = true
	t.pseudo = make(map[int][]int)

	for _, n := range t.nodes {
		if !n.pseudoTarget {
			continue
		}
		host := n.host()
		if host == nil {
			t.log.Warn("Unable to find host for pseudo selector, ignoring",
				zap.String("node", n.src.ID), zap.String("name", n.src.Name))
			continue
		}
		t.pseudo[host.index] = append(t.pseudo[host.index], n.index)
	}
}

// host finds node pseudo target applies to: parent for bare selectors,
// otherwise matching sibling and then any node of the tree in build order.
func (n *Node) host() *Node {
	d := &n.directives
	if d.parentPseudo {
		return n.Parent()
	}
	// names typed on different systems may differ in composition only
	name := norm.NFC.String(d.hostName)
	match := func(c *Node) bool {
		if c == n || c.pseudoTarget || c.run != nil {
			return false
		}
		if d.hostID != "" {
			return c.directives.id == d.hostID || c.id() == d.hostID
		}
		return norm.NFC.String(c.src.Name) == name || (c.directives.id != "" && c.directives.id == d.hostName)
	}
	for _, c := range n.siblings() {
		if match(c) {
			return c
		}
	}
	for _, c := range n.tree.nodes {
		if match(c) {
			return c
		}
	}
	return nil
}

// text returns normalized characters of the node and its text descendants.
func (n *Node) text() string {
	if n.run != nil {
		return n.run.text
	}
	if n.isText() {
		return normalizeText(n.src.Characters)
	}
	return ""
}

// addPseudoElement merges pseudo target onto converted host: style goes
// under the selector and text becomes placeholder attribute or content.
func addPseudoElement(host *model.Node, target *Node) {
	sel := target.directives.pseudo
	text := target.text()

	st := make(model.Style)
	for k, v := range target.Style() {
		switch {
		case sel == "::placeholder" && !placeholderProps[k]:
		case !target.directives.isPseudoElement() && hostPlacementProps[k]:
		default:
			st[k] = v
		}
	}

	switch sel {
	case "::placeholder":
		if host.Attributes == nil {
			host.Attributes = make(map[string]string)
		}
		host.Attributes["placeholder"] = text
	case "::before", "::after", "::marker":
		st["content"] = css.EscapeString(text)
	}

	if len(st) == 0 {
		return
	}
	if host.PseudoStyles == nil {
		host.PseudoStyles = make(map[string]model.Style)
	}
	if prev, ok := host.PseudoStyles[sel]; ok {
		merged := maps.Clone(prev)
		maps.Copy(merged, st)
		st = merged
	}
	host.PseudoStyles[sel] = st
}
