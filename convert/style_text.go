package convert

import (
	"strconv"
	"strings"

	"domx/css"
	"domx/figma"
)

var textRules = []styleRule{
	{"color", textColor},
	{"-webkit-text-fill-color", textFillColor},
	{"-webkit-text-stroke", textStroke},
	{"font-family", fontFamily},
	{"font-size", fontSize},
	{"font-weight", fontWeight},
	{"font-style", fontStyle},
	{"line-height", lineHeight},
	{"letter-spacing", letterSpacing},
	{"text-align", textAlign},
	{"text-decoration", textDecoration},
	{"text-transform", textTransform},
	{"font-variant-caps", fontVariantCaps},
	{"text-indent", textIndent},
	{"white-space", whiteSpace},
	{"text-overflow", textOverflow},
	{"-webkit-line-clamp", lineClampRule},
	{"-webkit-box-orient", boxOrient},
	{"text-shadow", textShadow},
	{"cursor", cursor},
	{"object-fit", objectFit},
}

func textColor(n *Node) string {
	if !n.isText() {
		return ""
	}
	if n.paints.hasRenderableGradient() {
		return "transparent"
	}
	return paintColor(n.paints.lastSolid())
}

func textFillColor(n *Node) string {
	if n.isText() && n.paints.hasRenderableGradient() {
		return "transparent"
	}
	return ""
}

func textStroke(n *Node) string {
	if n.run != nil || !n.isText() {
		return ""
	}
	s := n.paints.topStroke()
	if s == nil || s.Type != figma.PaintSolid || n.src.StrokeWeight <= 0 {
		return ""
	}
	return px(n.src.StrokeWeight) + " " + paintColor(s)
}

func fontFamily(n *Node) string {
	if ts := n.typeStyle(); ts != nil && ts.FontFamily != "" {
		return css.EscapeString(ts.FontFamily)
	}
	return ""
}

func fontSize(n *Node) string {
	if ts := n.typeStyle(); ts != nil {
		return positivePx(ts.FontSize)
	}
	return ""
}

func fontWeight(n *Node) string {
	if ts := n.typeStyle(); ts != nil && ts.FontWeight > 0 {
		return num(ts.FontWeight)
	}
	return ""
}

func fontStyle(n *Node) string {
	if ts := n.typeStyle(); ts != nil && ts.Italic {
		return "italic"
	}
	return ""
}

func lineHeight(n *Node) string {
	ts := n.typeStyle()
	if ts == nil {
		return ""
	}
	switch ts.LineHeightUnit {
	case "INTRINSIC_%":
		return ""
	case "FONT_SIZE_%":
		if ts.LineHeightPercentFontSize > 0 {
			return num(ts.LineHeightPercentFontSize / 100)
		}
	}
	return positivePx(ts.LineHeightPx)
}

func letterSpacing(n *Node) string {
	if ts := n.typeStyle(); ts != nil && ts.LetterSpacing != 0 {
		return px(ts.LetterSpacing)
	}
	return ""
}

func textAlign(n *Node) string {
	if n.run != nil {
		return ""
	}
	ts := n.typeStyle()
	if ts == nil {
		return ""
	}
	switch ts.TextAlignHorizontal {
	case "LEFT":
		return "left"
	case "CENTER":
		return "center"
	case "RIGHT":
		return "right"
	case "JUSTIFIED":
		return "justify"
	}
	return ""
}

func textDecoration(n *Node) string {
	if ts := n.typeStyle(); ts != nil {
		switch ts.TextDecoration {
		case "UNDERLINE":
			return "underline"
		case "STRIKETHROUGH":
			return "line-through"
		}
	}
	return ""
}

func textTransform(n *Node) string {
	if ts := n.typeStyle(); ts != nil {
		switch ts.TextCase {
		case "UPPER":
			return "uppercase"
		case "LOWER":
			return "lowercase"
		case "TITLE":
			return "capitalize"
		}
	}
	return ""
}

func fontVariantCaps(n *Node) string {
	if ts := n.typeStyle(); ts != nil {
		switch ts.TextCase {
		case "SMALL_CAPS":
			return "small-caps"
		case "SMALL_CAPS_FORCED":
			return "all-small-caps"
		}
	}
	return ""
}

func textIndent(n *Node) string {
	if n.run != nil {
		return ""
	}
	if ts := n.typeStyle(); ts != nil {
		return positivePx(ts.ParagraphIndent)
	}
	return ""
}

// lineClamp returns number of lines text is truncated at, 0 when it is not.
func (n *Node) lineClamp() int {
	if n.run != nil || !n.isText() {
		return 0
	}
	if ts := n.typeStyle(); ts.TextTruncation == "ENDING" {
		if ts.MaxLines > 0 {
			return ts.MaxLines
		}
		return 1
	}
	return 0
}

func whiteSpace(n *Node) string {
	if n.run != nil || !n.isText() {
		return ""
	}
	ts := n.typeStyle()
	switch {
	case n.lineClamp() == 1, ts.TextAutoResize == "WIDTH_AND_HEIGHT":
		return "nowrap"
	case !n.expanded && strings.ContainsFunc(n.src.Characters, isLineBreak):
		return "pre-wrap"
	}
	return ""
}

func textOverflow(n *Node) string {
	if n.lineClamp() > 0 {
		return "ellipsis"
	}
	return ""
}

func lineClampRule(n *Node) string {
	if l := n.lineClamp(); l > 1 {
		return strconv.Itoa(l)
	}
	return ""
}

func boxOrient(n *Node) string {
	if n.lineClamp() > 1 {
		return "vertical"
	}
	return ""
}

func textShadow(n *Node) string {
	if !n.isText() || n.run != nil {
		return ""
	}
	parts := make([]string, 0, len(n.paints.dropShadows))
	for _, e := range n.paints.dropShadows {
		var x, y float64
		if e.Offset != nil {
			x, y = e.Offset.X, e.Offset.Y
		}
		c := "rgba(0, 0, 0, 1)"
		if e.Color != nil {
			c = rgba(*e.Color, 1)
		}
		parts = append(parts, px(x)+" "+px(y)+" "+px(e.Radius)+" "+c)
	}
	return strings.Join(parts, ", ")
}

func cursor(n *Node) string {
	switch n.tagName() {
	case "a", "button":
		return "pointer"
	}
	return ""
}

func objectFit(n *Node) string {
	if !n.isImage() {
		return ""
	}
	f := n.imageFill()
	if f == nil {
		return ""
	}
	switch f.ScaleMode {
	case "FIT":
		return "contain"
	case "STRETCH":
		return "fill"
	case "TILE":
		return "none"
	}
	return "cover"
}
