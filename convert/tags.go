package convert

import (
	"strconv"
	"strings"

	"domx/figma"
	"domx/model"
)

var htmlTags = map[string]bool{
	"a": true, "abbr": true, "address": true, "area": true, "article": true, "aside": true, "audio": true,
	"b": true, "base": true, "bdi": true, "bdo": true, "blockquote": true, "body": true, "br": true, "button": true,
	"canvas": true, "caption": true, "cite": true, "code": true, "col": true, "colgroup": true,
	"data": true, "datalist": true, "dd": true, "del": true, "details": true, "dfn": true, "dialog": true, "div": true, "dl": true, "dt": true,
	"em": true, "embed": true, "fieldset": true, "figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "head": true, "header": true, "hgroup": true, "hr": true, "html": true,
	"i": true, "iframe": true, "img": true, "input": true, "ins": true, "kbd": true, "label": true, "legend": true, "li": true, "link": true,
	"main": true, "map": true, "mark": true, "menu": true, "meta": true, "meter": true, "nav": true, "noscript": true,
	"object": true, "ol": true, "optgroup": true, "option": true, "output": true, "p": true, "picture": true, "pre": true, "progress": true,
	"q": true, "rp": true, "rt": true, "ruby": true, "s": true, "samp": true, "search": true, "section": true, "select": true, "slot": true,
	"small": true, "source": true, "span": true, "strong": true, "sub": true, "summary": true, "sup": true, "svg": true,
	"table": true, "tbody": true, "td": true, "template": true, "textarea": true, "tfoot": true, "th": true, "thead": true, "time": true,
	"title": true, "tr": true, "track": true, "u": true, "ul": true, "var": true, "video": true, "wbr": true,
}

// elements which may not have children
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

func isHTMLTag(s string) bool {
	return htmlTags[s]
}

// IsVoidTag reports whether element can not have children.
func IsVoidTag(s string) bool {
	return voidTags[s]
}

// SanitizeID makes scene node id usable as element id and file name: every
// character outside [A-Za-z0-9_-] becomes '-' and ids starting with a digit
// get "n" prefix.
func SanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id) + 1)
	for i, r := range id {
		if i == 0 && r >= '0' && r <= '9' {
			b.WriteByte('n')
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// id returns node id in semantic document.
func (n *Node) id() string {
	if n.run != nil {
		return n.Parent().id() + "-r" + strconv.Itoa(n.sibling+1)
	}
	return SanitizeID(n.src.ID)
}

var vectorTypes = map[string]bool{
	figma.TypeVector:         true,
	figma.TypeStar:           true,
	figma.TypeLine:           true,
	figma.TypeRegularPolygon: true,
	figma.TypeBooleanOp:      true,
}

var containerTypes = map[string]bool{
	figma.TypeGroup:     true,
	figma.TypeFrame:     true,
	figma.TypeInstance:  true,
	figma.TypeComponent: true,
}

// exportFormat returns asset format when node is exported as a whole image
// rather than converted into element tree, empty otherwise.
func exportFormat(n *Node) string {
	if n.pseudoTarget || n.parent == noParent {
		return ""
	}
	if n.directives.tag != "" && n.directives.tag != "img" {
		return ""
	}
	src := n.src
	if len(src.ExportSettings) > 0 {
		switch strings.ToUpper(src.ExportSettings[0].Format) {
		case "SVG":
			return model.AssetFormatSVG
		case "PNG", "JPG":
			return model.AssetFormatPNG
		}
	}
	if vectorTypes[src.Type] {
		if n.geometry.rectLike {
			return ""
		}
		return model.AssetFormatSVG
	}
	if containerTypes[src.Type] && isIcon(src) {
		return model.AssetFormatSVG
	}
	return ""
}

// isIcon reports whether container holds nothing but vector shapes.
func isIcon(src *figma.Node) bool {
	if len(src.Children) == 0 {
		return false
	}
	for _, c := range src.Children {
		if c == nil {
			continue
		}
		switch {
		case vectorTypes[c.Type], c.Type == figma.TypeEllipse:
		case containerTypes[c.Type]:
			if !isIcon(c) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// imageFill returns single image fill when node is just a picture.
func (n *Node) imageFill() *figma.Paint {
	if n.run != nil || len(n.src.Children) > 0 || len(n.paints.fills) != 1 || len(n.paints.images) != 1 {
		return nil
	}
	switch {
	case n.src.Type == figma.TypeRectangle, n.src.Type == figma.TypeFrame, n.geometry.rectLike:
		return n.paints.images[0]
	}
	return nil
}

func (n *Node) hyperlink() *figma.Hyperlink {
	if n.run != nil {
		return n.run.style.Hyperlink
	}
	if n.src.Type == figma.TypeText && n.src.Style != nil {
		return n.src.Style.Hyperlink
	}
	return nil
}

func (n *Node) isText() bool {
	return n.run != nil || n.src.Type == figma.TypeText
}

// isImage reports whether node is rendered as image element.
func (n *Node) isImage() bool {
	return n.tagName() == "img"
}

func (n *Node) tagName() string {
	switch {
	case n.run != nil:
		if n.run.style.Hyperlink != nil && n.tree.nodes[n.parent].linksRuns() {
			return "a"
		}
		return n.run.tag
	case n.parent == noParent:
		return "body"
	case n.hyperlink() != nil && !n.linksRuns():
		return "a"
	case n.src.Type == figma.TypeText:
		if n.expanded {
			return "div"
		}
		return "p"
	case n.exported != "", n.imageFill() != nil:
		return "img"
	case n.directives.tag != "":
		return n.directives.tag
	}
	return "div"
}

// linksRuns reports whether some text run links elsewhere than its node.
// Runs become anchors then and node itself does not, anchors never nest.
func (n *Node) linksRuns() bool {
	if !n.expanded {
		return false
	}
	h := n.hyperlink()
	for _, i := range n.children {
		if r := n.tree.nodes[i].run; r != nil && !sameLink(r.style.Hyperlink, h) {
			return true
		}
	}
	return false
}

func sameLink(a, b *figma.Hyperlink) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// assetKey returns key of the asset image element shows.
func (n *Node) assetKey() string {
	if n.exported != "" {
		return n.src.ID
	}
	if f := n.imageFill(); f != nil {
		return f.ImageRef
	}
	return ""
}

func assetRef(key string) string {
	return model.AssetScheme + key
}

func (n *Node) attributes() map[string]string {
	attrs := make(map[string]string)
	if n.directives.id != "" {
		attrs["id"] = n.directives.id
	} else {
		attrs["id"] = n.id()
	}
	if len(n.directives.classes) > 0 {
		attrs["class"] = strings.Join(n.directives.classes, " ")
	}

	switch n.tagName() {
	case "img":
		if key := n.assetKey(); key != "" {
			attrs["src"] = assetRef(key)
		}
		attrs["alt"] = n.src.Name
	case "a":
		if h := n.hyperlink(); h != nil {
			switch {
			case h.URL != "":
				attrs["href"] = h.URL
			case h.NodeID != "":
				attrs["href"] = "#" + SanitizeID(h.NodeID)
			}
		}
	}

	if n.run == nil {
		for k, v := range n.directives.attrs {
			attrs[k] = v
		}
	}
	return attrs
}

// assets returns asset records node references: one per image fill keyed by
// image reference and one keyed by scene node id for exported nodes.
func (n *Node) assets() map[string]*model.Asset {
	if n.run != nil {
		return nil
	}
	res := make(map[string]*model.Asset)
	if n.exported != "" {
		res[n.src.ID] = &model.Asset{Format: n.exported}
	} else {
		for _, f := range n.paints.images {
			if f.ImageRef != "" {
				res[f.ImageRef] = &model.Asset{Format: model.AssetFormatImageRef}
			}
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}
