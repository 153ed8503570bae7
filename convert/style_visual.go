package convert

import (
	"math"
	"strings"

	"domx/figma"
)

var visualRules = []styleRule{
	{"overflow", overflow},
	{"opacity", opacity},
	{"mix-blend-mode", mixBlendMode},
}

var backgroundRules = []styleRule{
	{"background-color", backgroundColor},
	{"background-image", backgroundImage},
	{"background-size", backgroundSize},
	{"background-position", backgroundPosition},
	{"background-repeat", backgroundRepeat},
	{"background-blend-mode", backgroundBlendMode},
	{"background-clip", backgroundClipText},
	{"-webkit-background-clip", backgroundClipText},
}

var borderRules = []styleRule{
	{"border-width", borderWidth},
	{"border-style", borderStyle},
	{"border-color", borderColor},
	{"border-image-source", borderImageSource},
	{"border-image-slice", borderImageSlice},
	{"border-image-repeat", borderImageRepeat},
	{"outline", outline},
	{"border-radius", borderRadius},
}

var effectRules = []styleRule{
	{"box-shadow", boxShadow},
	{"filter", filter},
	{"backdrop-filter", backdropFilter},
	{"-webkit-backdrop-filter", backdropFilter},
}

func overflow(n *Node) string {
	if n.isText() {
		if ts := n.typeStyle(); ts.TextTruncation == "ENDING" {
			return "hidden"
		}
		return ""
	}
	if n.src.ClipsContent {
		return "hidden"
	}
	return ""
}

func opacity(n *Node) string {
	if o := n.src.Opacity; o != nil && *o < 1 {
		return num(*o)
	}
	return ""
}

func mixBlendMode(n *Node) string {
	if m := blendMode(n.src.BlendMode); m != "normal" {
		return m
	}
	return ""
}

// backgroundColor is taken from topmost solid fill, gradient with a single
// stop is used as solid color when there are no solid fills.
func backgroundColor(n *Node) string {
	if n.isText() || n.isImage() {
		return ""
	}
	if s := n.paints.lastSolid(); s != nil {
		return paintColor(s)
	}
	for i := len(n.paints.fills) - 1; i >= 0; i-- {
		f := n.paints.fills[i]
		if isGradient(f.Type) && len(f.GradientStops) == 1 {
			return rgba(f.GradientStops[0].Color, f.Alpha())
		}
	}
	return ""
}

// bgLayer is single background image layer: image fill or gradient.
type bgLayer struct {
	paint *figma.Paint
	image bool
}

// backgroundLayers returns image fills followed by renderable linear, radial
// and conic gradients. Text only gets gradients.
func (n *Node) backgroundLayers() []bgLayer {
	if n.isImage() {
		return nil
	}
	var res []bgLayer
	if !n.isText() {
		for _, f := range n.paints.images {
			if f.ImageRef != "" {
				res = append(res, bgLayer{paint: f, image: true})
			}
		}
	}
	for _, g := range n.paints.renderableGradients() {
		res = append(res, bgLayer{paint: g})
	}
	return res
}

func (n *Node) hasImageLayer() bool {
	for _, l := range n.backgroundLayers() {
		if l.image {
			return true
		}
	}
	return false
}

func joinLayers(n *Node, fn func(l bgLayer) string) string {
	layers := n.backgroundLayers()
	if len(layers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(layers))
	for _, l := range layers {
		parts = append(parts, fn(l))
	}
	return strings.Join(parts, ", ")
}

func backgroundImage(n *Node) string {
	w, h := n.size()
	return joinLayers(n, func(l bgLayer) string {
		if l.image {
			return `url("` + assetRef(l.paint.ImageRef) + `")`
		}
		return gradient(l.paint, w, h)
	})
}

func backgroundSize(n *Node) string {
	if !n.hasImageLayer() {
		return ""
	}
	return joinLayers(n, func(l bgLayer) string {
		if !l.image {
			return "100% 100%"
		}
		switch l.paint.ScaleMode {
		case "FIT":
			return "contain"
		case "TILE":
			if f := l.paint.ScalingFactor; f > 0 && f != 1 {
				return pct(f * 100)
			}
			return "auto"
		case "STRETCH":
			return "100% 100%"
		}
		return "cover"
	})
}

func backgroundPosition(n *Node) string {
	if !n.hasImageLayer() {
		return ""
	}
	return joinLayers(n, func(l bgLayer) string {
		if l.image && (l.paint.ScaleMode == "TILE" || l.paint.ScaleMode == "STRETCH") {
			return "top left"
		}
		return "center"
	})
}

func backgroundRepeat(n *Node) string {
	if !n.hasImageLayer() {
		return ""
	}
	return joinLayers(n, func(l bgLayer) string {
		if l.image && l.paint.ScaleMode == "TILE" {
			return "repeat"
		}
		return "no-repeat"
	})
}

func backgroundBlendMode(n *Node) string {
	return joinLayers(n, func(l bgLayer) string {
		return blendMode(l.paint.BlendMode)
	})
}

func backgroundClipText(n *Node) string {
	if n.isText() && n.paints.hasRenderableGradient() {
		return "text"
	}
	return ""
}

const (
	strokeInside  = "INSIDE"
	strokeOutside = "OUTSIDE"
	strokeCenter  = "CENTER"
)

// stroke returns topmost stroke with its alignment, text strokes are
// handled separately.
func (n *Node) stroke() (*figma.Paint, string) {
	if n.run != nil || n.isText() {
		return nil, ""
	}
	s := n.paints.topStroke()
	if s == nil {
		return nil, ""
	}
	align := n.src.StrokeAlign
	if align == "" {
		align = strokeInside
	}
	return s, align
}

type sides struct{ top, right, bottom, left float64 }

func (s sides) uniform() bool {
	return s.top == s.right && s.right == s.bottom && s.bottom == s.left
}

func (s sides) max() float64 {
	return math.Max(math.Max(s.top, s.right), math.Max(s.bottom, s.left))
}

func (n *Node) strokeWeights() sides {
	if w := n.src.IndividualStrokeWeights; w != nil {
		return sides{w.Top, w.Right, w.Bottom, w.Left}
	}
	w := n.src.StrokeWeight
	return sides{w, w, w, w}
}

// dashStyle classifies stroke dash pattern.
func (n *Node) dashStyle() string {
	dashes := n.src.StrokeDashes
	if len(dashes) == 0 {
		return "solid"
	}
	half := n.strokeWeights().max() / 2
	dotted := true
	for i := 0; i < len(dashes); i += 2 {
		gap := 0.0
		if i+1 < len(dashes) {
			gap = dashes[i+1]
		}
		if dashes[i] < geomEpsilon && gap > 0 {
			return "dotted"
		}
		if dashes[i] >= half {
			dotted = false
		}
	}
	if dotted {
		return "dotted"
	}
	return "dashed"
}

func borderWidth(n *Node) string {
	s, align := n.stroke()
	w := n.strokeWeights()
	if s == nil || align != strokeCenter || w.max() <= 0 {
		return ""
	}
	if w.uniform() {
		return px(w.top)
	}
	return px(w.top) + " " + px(w.right) + " " + px(w.bottom) + " " + px(w.left)
}

func borderStyle(n *Node) string {
	if borderWidth(n) == "" {
		return ""
	}
	return n.dashStyle()
}

func borderColor(n *Node) string {
	if borderWidth(n) == "" {
		return ""
	}
	if s, _ := n.stroke(); s.Type == figma.PaintSolid {
		return paintColor(s)
	}
	return ""
}

// borderGradient returns last linear gradient stroke when topmost stroke is
// a gradient on solid centered border.
func (n *Node) borderGradient() *figma.Paint {
	if borderWidth(n) == "" || len(n.src.StrokeDashes) > 0 {
		return nil
	}
	if s, _ := n.stroke(); !isGradient(s.Type) {
		return nil
	}
	for i := len(n.paints.strokes) - 1; i >= 0; i-- {
		if s := n.paints.strokes[i]; s.Type == figma.PaintGradientLinear && len(s.GradientStops) >= 2 {
			return s
		}
	}
	return nil
}

func borderImageSource(n *Node) string {
	if g := n.borderGradient(); g != nil {
		w, h := n.size()
		return gradient(g, w, h)
	}
	return ""
}

func borderImageSlice(n *Node) string {
	if n.borderGradient() != nil {
		return "1"
	}
	return ""
}

func borderImageRepeat(n *Node) string {
	if n.borderGradient() != nil {
		return "stretch"
	}
	return ""
}

func outline(n *Node) string {
	s, align := n.stroke()
	w := n.strokeWeights()
	if s == nil || align != strokeOutside || !w.uniform() || w.top <= 0 || s.Type != figma.PaintSolid {
		return ""
	}
	return px(w.top) + " " + n.dashStyle() + " " + paintColor(s)
}

// insideRing emulates inside stroke with inset shadows.
func (n *Node) insideRing() []string {
	s, align := n.stroke()
	w := n.strokeWeights()
	if s == nil || align != strokeInside || w.max() <= 0 || s.Type != figma.PaintSolid {
		return nil
	}
	c := paintColor(s)
	if w.uniform() {
		return []string{"inset 0 0 0 " + px(w.top) + " " + c}
	}
	var res []string
	if w.top > 0 {
		res = append(res, "inset 0 "+px(w.top)+" 0 0 "+c)
	}
	if w.right > 0 {
		res = append(res, "inset "+px(-w.right)+" 0 0 0 "+c)
	}
	if w.bottom > 0 {
		res = append(res, "inset 0 "+px(-w.bottom)+" 0 0 "+c)
	}
	if w.left > 0 {
		res = append(res, "inset "+px(w.left)+" 0 0 0 "+c)
	}
	return res
}

func shadow(e *figma.Effect, inset bool) string {
	var off figma.Vector
	if e.Offset != nil {
		off = *e.Offset
	}
	var c figma.Color
	if e.Color != nil {
		c = *e.Color
	}
	v := px(off.X) + " " + px(off.Y) + " " + px(e.Radius) + " " + px(e.Spread) + " " + rgba(c, 1)
	if inset {
		return "inset " + v
	}
	return v
}

func boxShadow(n *Node) string {
	res := n.insideRing()
	if !n.isText() {
		for _, e := range n.paints.dropShadows {
			res = append(res, shadow(e, false))
		}
		for _, e := range n.paints.innerShadows {
			res = append(res, shadow(e, true))
		}
	}
	return strings.Join(res, ", ")
}

func blurs(effects []*figma.Effect) string {
	parts := make([]string, 0, len(effects))
	for _, e := range effects {
		parts = append(parts, "blur("+px(e.Radius/2)+")")
	}
	return strings.Join(parts, " ")
}

func filter(n *Node) string {
	return blurs(n.paints.layerBlurs)
}

func backdropFilter(n *Node) string {
	return blurs(n.paints.backgroundBlur)
}

func borderRadius(n *Node) string {
	if n.src.Type == figma.TypeEllipse {
		return "50%"
	}
	if r := n.src.RectangleCornerRadii; len(r) == 4 && !(r[0] == r[1] && r[1] == r[2] && r[2] == r[3]) {
		return px(r[0]) + " " + px(r[1]) + " " + px(r[2]) + " " + px(r[3])
	}
	if n.src.CornerRadius > 0 {
		return px(n.src.CornerRadius)
	}
	return positivePx(n.geometry.radius)
}
