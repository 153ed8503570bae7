package convert

import (
	"math"
	"strconv"

	"domx/figma"
)

var layoutRules = []styleRule{
	{"display", display},
	{"flex-direction", flexDirection},
	{"flex-wrap", flexWrap},
	{"justify-content", justifyContent},
	{"align-items", alignItems},
	{"align-content", alignContent},
	{"gap", gap},
	{"row-gap", rowGap},
	{"column-gap", columnGap},
	{"place-content", placeContent},
	{"place-items", placeItems},
	{"grid-template-columns", gridTemplateColumns},
	{"grid-template-rows", gridTemplateRows},
	{"grid-column", gridColumn},
	{"grid-row", gridRow},
	{"padding-top", func(n *Node) string { return positivePx(n.src.PaddingTop) }},
	{"padding-right", func(n *Node) string { return positivePx(n.src.PaddingRight) }},
	{"padding-bottom", func(n *Node) string { return positivePx(n.src.PaddingBottom) }},
	{"padding-left", func(n *Node) string { return positivePx(n.src.PaddingLeft) }},
	{"box-sizing", func(n *Node) string { return "border-box" }},
}

var sizingRules = []styleRule{
	{"width", width},
	{"height", height},
	{"min-width", func(n *Node) string { return optionalPx(n.src.MinWidth) }},
	{"max-width", func(n *Node) string { return optionalPx(n.src.MaxWidth) }},
	{"min-height", minHeight},
	{"max-height", func(n *Node) string { return optionalPx(n.src.MaxHeight) }},
	{"flex-grow", flexGrow},
	{"flex-shrink", flexShrink},
	{"align-self", alignSelf},
}

var positionRules = []styleRule{
	{"position", position},
	{"top", top},
	{"right", right},
	{"bottom", bottom},
	{"left", left},
	{"z-index", zIndex},
	{"transform", transform},
}

func positivePx(v float64) string {
	if v > 0 {
		return px(v)
	}
	return ""
}

func optionalPx(v *float64) string {
	if v == nil {
		return ""
	}
	return positivePx(*v)
}

func display(n *Node) string {
	if !n.src.IsVisible() {
		return "none"
	}
	if n.lineClamp() > 1 {
		return "-webkit-box"
	}
	switch n.layoutMode() {
	case figma.LayoutHorizontal, figma.LayoutVertical:
		return "flex"
	case figma.LayoutGrid:
		return "grid"
	}
	return ""
}

func flexDirection(n *Node) string {
	switch n.layoutMode() {
	case figma.LayoutHorizontal:
		return "row"
	case figma.LayoutVertical:
		return "column"
	}
	return ""
}

func (n *Node) wraps() bool {
	return n.isFlex() && n.src.LayoutWrap == "WRAP"
}

func flexWrap(n *Node) string {
	if n.wraps() {
		return "wrap"
	}
	return ""
}

func justifyContent(n *Node) string {
	if !n.isFlex() {
		return ""
	}
	switch n.src.PrimaryAxisAlignItems {
	case "MIN":
		return "flex-start"
	case "CENTER":
		return "center"
	case "MAX":
		return "flex-end"
	case "SPACE_BETWEEN":
		return "space-between"
	}
	return ""
}

func alignItems(n *Node) string {
	if !n.isFlex() {
		return ""
	}
	switch n.src.CounterAxisAlignItems {
	case "MIN":
		return "flex-start"
	case "CENTER":
		return "center"
	case "MAX":
		return "flex-end"
	case "BASELINE":
		return "baseline"
	}
	return ""
}

func alignContent(n *Node) string {
	if n.wraps() && n.src.CounterAxisAlignContent == "SPACE_BETWEEN" {
		return "space-between"
	}
	return ""
}

func gap(n *Node) string {
	if !n.isFlex() || n.wraps() || n.src.PrimaryAxisAlignItems == "SPACE_BETWEEN" {
		return ""
	}
	return positivePx(n.src.ItemSpacing)
}

// primaryGap returns item spacing unless items are distributed.
func (n *Node) primaryGap() float64 {
	if n.src.PrimaryAxisAlignItems == "SPACE_BETWEEN" {
		return 0
	}
	return n.src.ItemSpacing
}

func rowGap(n *Node) string {
	switch {
	case n.isGrid():
		return positivePx(n.src.GridRowGap)
	case !n.wraps():
		return ""
	case n.layoutMode() == figma.LayoutHorizontal:
		return positivePx(n.src.CounterAxisSpacing)
	}
	return positivePx(n.primaryGap())
}

func columnGap(n *Node) string {
	switch {
	case n.isGrid():
		return positivePx(n.src.GridColumnGap)
	case !n.wraps():
		return ""
	case n.layoutMode() == figma.LayoutHorizontal:
		return positivePx(n.primaryGap())
	}
	return positivePx(n.src.CounterAxisSpacing)
}

func gridAlign(v string) string {
	switch v {
	case "MIN":
		return "start"
	case "CENTER":
		return "center"
	case "MAX":
		return "end"
	case "SPACE_BETWEEN":
		return "space-between"
	case "BASELINE":
		return "baseline"
	}
	return ""
}

func placeContent(n *Node) string {
	if !n.isGrid() {
		return ""
	}
	align, justify := gridAlign(n.src.CounterAxisAlignContent), gridAlign(n.src.PrimaryAxisAlignItems)
	if align == "" && justify == "" {
		return ""
	}
	if align == "" {
		align = "start"
	}
	if justify == "" {
		justify = "start"
	}
	return align + " " + justify
}

func placeItems(n *Node) string {
	if !n.isGrid() {
		return ""
	}
	return gridAlign(n.src.CounterAxisAlignItems)
}

func gridTracks(count int) string {
	if count <= 0 {
		return ""
	}
	return "repeat(" + strconv.Itoa(count) + ", minmax(0, 1fr))"
}

func gridTemplateColumns(n *Node) string {
	if !n.isGrid() {
		return ""
	}
	return gridTracks(n.src.GridColumnCount)
}

func gridTemplateRows(n *Node) string {
	if !n.isGrid() {
		return ""
	}
	return gridTracks(n.src.GridRowCount)
}

func gridPlacement(anchor, span int) string {
	switch {
	case anchor > 0 && span > 1:
		return strconv.Itoa(anchor+1) + " / span " + strconv.Itoa(span)
	case anchor > 0:
		return strconv.Itoa(anchor + 1)
	case span > 1:
		return "span " + strconv.Itoa(span)
	}
	return ""
}

func (n *Node) inGrid() bool {
	p := n.Parent()
	return p != nil && p.isGrid() && n.inFlow()
}

func gridColumn(n *Node) string {
	if !n.inGrid() {
		return ""
	}
	return gridPlacement(n.src.GridColumnAnchorIndex, n.src.GridColumnSpan)
}

func gridRow(n *Node) string {
	if !n.inGrid() {
		return ""
	}
	return gridPlacement(n.src.GridRowAnchorIndex, n.src.GridRowSpan)
}

// dimension returns px size along axis unless size is driven by content or
// by parent.
func (n *Node) dimension(horizontal bool) string {
	w, h := n.size()
	v := h
	if horizontal {
		v = w
	}
	if n.sizing(horizontal) != sizingFixed {
		return ""
	}
	return px(v)
}

func width(n *Node) string {
	if n.parent == noParent {
		w, _ := n.size()
		return px(w)
	}
	return n.dimension(true)
}

func height(n *Node) string {
	if n.parent == noParent {
		return ""
	}
	return n.dimension(false)
}

func minHeight(n *Node) string {
	if n.parent == noParent {
		_, h := n.size()
		return positivePx(h)
	}
	return optionalPx(n.src.MinHeight)
}

// flexChild returns whether parent primary axis is horizontal for nodes in
// flex flow.
func (n *Node) flexChild() (horizontal bool, ok bool) {
	p := n.Parent()
	if p == nil || !p.isFlex() || !n.inFlow() {
		return false, false
	}
	return p.layoutMode() == figma.LayoutHorizontal, true
}

func flexGrow(n *Node) string {
	if h, ok := n.flexChild(); ok && n.sizing(h) == sizingFill {
		return "1"
	}
	return ""
}

func flexShrink(n *Node) string {
	if h, ok := n.flexChild(); ok && n.sizing(h) == sizingFixed {
		return "0"
	}
	return ""
}

func alignSelf(n *Node) string {
	if h, ok := n.flexChild(); ok && n.sizing(!h) == sizingFill {
		return "stretch"
	}
	return ""
}

func position(n *Node) string {
	if p := n.positioning(); p != "" {
		return p
	}
	for _, c := range n.Children() {
		if c.positioning() != "" {
			return "relative"
		}
	}
	return ""
}

// translation returns node offset from parent top left corner. Rotated
// nodes, images and children of groups are placed by bounding boxes since
// relative transform is not in parent coordinates for them.
func (n *Node) translation() (float64, float64) {
	p := n.Parent()
	if p == nil {
		return 0, 0
	}
	rt := n.src.RelativeTransform
	if rt == nil || n.src.Rotation != 0 || n.isImage() ||
		p.src.Type == figma.TypeGroup || p.src.Type == figma.TypeBooleanOp {
		bb, pb := n.src.AbsoluteBoundingBox, p.src.AbsoluteBoundingBox
		if bb == nil || pb == nil {
			return 0, 0
		}
		x, y := bb.X-pb.X, bb.Y-pb.Y
		if n.src.Rotation != 0 {
			// rotation is around the center, bounding box is larger
			w, h := n.size()
			x += (bb.Width - w) / 2
			y += (bb.Height - h) / 2
		}
		return x, y
	}
	return rt[0][2], rt[1][2]
}

func (n *Node) constraints() (string, string) {
	if c := n.src.Constraints; c != nil {
		return c.Horizontal, c.Vertical
	}
	return "", ""
}

func centered(offset float64) string {
	if offset < 0 {
		return "calc(50% - " + px(math.Abs(offset)) + ")"
	}
	return "calc(50% + " + px(offset) + ")"
}

func left(n *Node) string {
	if n.positioning() == "" {
		return ""
	}
	x, _ := n.translation()
	pw, _ := n.Parent().size()
	horizontal, _ := n.constraints()
	switch horizontal {
	case "RIGHT":
		return ""
	case "CENTER":
		return centered(x - pw/2)
	case "SCALE":
		if pw > 0 {
			return pct(x / pw * 100)
		}
	}
	return px(x)
}

func right(n *Node) string {
	if n.positioning() == "" {
		return ""
	}
	horizontal, _ := n.constraints()
	switch horizontal {
	case "RIGHT":
		x, _ := n.translation()
		pw, _ := n.Parent().size()
		w, _ := n.size()
		return px(pw - x - w)
	case "LEFT_RIGHT":
		return left(n)
	}
	return ""
}

func top(n *Node) string {
	if n.positioning() == "" {
		return ""
	}
	_, y := n.translation()
	_, ph := n.Parent().size()
	_, vertical := n.constraints()
	switch vertical {
	case "BOTTOM":
		return ""
	case "CENTER":
		return centered(y - ph/2)
	case "SCALE":
		if ph > 0 {
			return pct(y / ph * 100)
		}
	}
	return px(y)
}

func bottom(n *Node) string {
	if n.positioning() == "" {
		return ""
	}
	_, vertical := n.constraints()
	switch vertical {
	case "BOTTOM":
		_, y := n.translation()
		_, ph := n.Parent().size()
		_, h := n.size()
		return px(ph - y - h)
	case "TOP_BOTTOM":
		return top(n)
	}
	return ""
}

// zIndex is depth*1000 + index among siblings, index counts from the end
// when parent reverses stacking.
func zIndex(n *Node) string {
	if n.positioning() == "" {
		return ""
	}
	idx := n.sibling
	if p := n.Parent(); p != nil && p.src.ItemReverseZIndex {
		idx = len(p.children) - 1 - idx
	}
	return strconv.Itoa(n.depth*1000 + idx)
}

func transform(n *Node) string {
	if n.run != nil || n.src.Rotation == 0 || n.isImage() {
		return ""
	}
	return "rotate(" + deg(-n.src.Rotation) + ")"
}
