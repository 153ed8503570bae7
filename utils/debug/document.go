package debug

import (
	"sort"

	"github.com/maruel/natural"

	"domx/model"
)

// DumpDocument renders document tree, head first, one element per line with
// its style, pseudo styles, text and assets nested under it.
func DumpDocument(doc *model.Document) string {
	tw := NewTreeWriter()
	tw.Line(0, "document %s/%s %q revision %s", doc.Meta.FileKey, doc.Meta.NodeID, doc.Meta.Title, doc.Meta.Revision)

	seen := make(map[string]bool, len(doc.Nodes))
	for _, root := range []string{doc.Head, doc.Body} {
		if root == "" {
			continue
		}
		doc.Walk(root, func(n *model.Node, depth int) bool {
			seen[n.ID] = true
			dumpNode(tw, depth+1, n)
			return true
		})
	}

	var orphans []string
	for id := range doc.Nodes {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) > 0 {
		sort.Sort(natural.StringSlice(orphans))
		tw.Line(0, "unreachable")
		for _, id := range orphans {
			tw.Line(1, "%s", id)
		}
	}
	return tw.String()
}

func dumpNode(tw *TreeWriter, depth int, n *model.Node) {
	tw.Line(depth, "<%s> %s %s", n.TagName, n.ID, n.Name)
	for _, k := range sortedKeys(n.Attributes) {
		tw.Value(depth+1, "@"+k, n.Attributes[k])
	}
	if n.HasText() {
		tw.Value(depth+1, "text", *n.Text)
	}
	dumpStyle(tw, depth+1, "style", n.Style)
	for _, k := range sortedKeys(n.PseudoStyles) {
		dumpStyle(tw, depth+1, k, n.PseudoStyles[k])
	}
	for _, k := range sortedKeys(n.Assets) {
		a := n.Assets[k]
		if a == nil {
			continue
		}
		tw.Line(depth+1, "asset %s [%s] %s %s %dx%d", k, a.Format, a.FileName, a.URL, a.Width, a.Height)
	}
}

func dumpStyle(tw *TreeWriter, depth int, label string, s model.Style) {
	if len(s) == 0 {
		return
	}
	tw.Line(depth, "%s", label)
	for _, k := range sortedKeys(s) {
		tw.Line(depth+1, "%s: %s", k, s[k])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	return keys
}
