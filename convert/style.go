package convert

import (
	"domx/figma"
	"domx/model"
)

// styleRule derives single CSS property. Empty value means property is
// absent. Rules only look at the node itself and its ancestors.
type styleRule struct {
	prop   string
	derive func(n *Node) string
}

// Rules are evaluated in order, for readability of generated output related
// properties are kept together.
var elementRules = concatRules(layoutRules, sizingRules, positionRules, visualRules, backgroundRules, borderRules, effectRules, textRules)

// Virtual text runs only carry text level properties.
var runRules = concatRules(textRules, []styleRule{
	{"background-image", backgroundImage},
	{"background-clip", backgroundClipText},
	{"-webkit-background-clip", backgroundClipText},
})

func concatRules(sets ...[]styleRule) []styleRule {
	var res []styleRule
	for _, s := range sets {
		res = append(res, s...)
	}
	return res
}

// Style returns CSS declarations of the node. Result is computed once and
// cached, callers must not modify it.
func (n *Node) Style() model.Style {
	if n.style != nil {
		return n.style
	}
	rules := elementRules
	if n.run != nil {
		rules = runRules
	}
	st := make(model.Style)
	for _, r := range rules {
		if v := r.derive(n); v != "" {
			st[r.prop] = v
		}
	}
	// explicit declarations from node name have the last word
	if n.run == nil {
		for k, v := range n.directives.style {
			st[k] = v
		}
	}
	n.style = st
	return st
}

// size returns node width and height.
func (n *Node) size() (float64, float64) {
	if n.src.Size != nil {
		return n.src.Size.X, n.src.Size.Y
	}
	if bb := n.src.AbsoluteBoundingBox; bb != nil {
		return bb.Width, bb.Height
	}
	return 0, 0
}

// layoutMode returns auto layout mode of real node.
func (n *Node) layoutMode() string {
	if n.run != nil {
		return ""
	}
	switch m := n.src.LayoutMode; m {
	case figma.LayoutHorizontal, figma.LayoutVertical, figma.LayoutGrid:
		return m
	}
	return ""
}

func (n *Node) isFlex() bool {
	m := n.layoutMode()
	return m == figma.LayoutHorizontal || m == figma.LayoutVertical
}

func (n *Node) isGrid() bool {
	return n.layoutMode() == figma.LayoutGrid
}

// inFlow reports whether node is laid out by parent auto layout.
func (n *Node) inFlow() bool {
	p := n.Parent()
	return p != nil && p.layoutMode() != "" && n.src.LayoutPositioning != "ABSOLUTE"
}

// positioning returns "absolute" or "fixed" for nodes taken out of flow.
func (n *Node) positioning() string {
	if n.run != nil || n.parent == noParent {
		return ""
	}
	if n.src.IsFixed || n.src.ScrollBehavior == "FIXED" {
		return "fixed"
	}
	if !n.inFlow() {
		return "absolute"
	}
	return ""
}

const (
	sizingFixed = "FIXED"
	sizingHug   = "HUG"
	sizingFill  = "FILL"
)

// sizing returns sizing behaviour along the axis.
func (n *Node) sizing(horizontal bool) string {
	explicit := n.src.LayoutSizingVertical
	if horizontal {
		explicit = n.src.LayoutSizingHorizontal
	}
	if explicit != "" {
		return explicit
	}

	if n.src.Type == figma.TypeText && n.src.Style != nil {
		switch n.src.Style.TextAutoResize {
		case "WIDTH_AND_HEIGHT":
			return sizingHug
		case "HEIGHT":
			if !horizontal {
				return sizingHug
			}
		}
	}

	if m := n.layoutMode(); m != "" && m != figma.LayoutGrid {
		primary := (m == figma.LayoutHorizontal) == horizontal
		mode := n.src.CounterAxisSizingMode
		if primary {
			mode = n.src.PrimaryAxisSizingMode
		}
		if mode == "AUTO" {
			return sizingHug
		}
	}

	if p := n.Parent(); p != nil && p.isFlex() && n.inFlow() {
		primary := (p.layoutMode() == figma.LayoutHorizontal) == horizontal
		if primary && n.src.LayoutGrow == 1 {
			return sizingFill
		}
		if !primary && n.src.LayoutAlign == "STRETCH" {
			return sizingFill
		}
	}
	return sizingFixed
}

// typeStyle returns text style of text node or run, never nil for text.
func (n *Node) typeStyle() *figma.TypeStyle {
	if n.run != nil {
		return &n.run.style
	}
	if n.src.Type != figma.TypeText {
		return nil
	}
	if n.src.Style == nil {
		return &figma.TypeStyle{}
	}
	return n.src.Style
}
