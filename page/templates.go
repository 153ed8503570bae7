package page

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"domx/archive"
	"domx/common"
	"domx/convert"
	"domx/css"
	"domx/model"
)

//go:embed templates/default
var defaultTemplates embed.FS

// PartialPrefix marks template files which are only included by others.
const PartialPrefix = "_"

// Templates is parsed template directory.
type Templates struct {
	set        *template.Template
	renderable []string
	extensions []string
	cleanup    string
	log        *zap.Logger
}

// Values is what every template is executed against.
type Values struct {
	Document *model.Document
	Meta     model.Meta
	Head     *model.Node
	Body     *model.Node
}

// LoadTemplates parses every file of the directory (or zip bundle) into one
// set so templates can include partials by file name. Directory without
// renderable templates is reported as no template found.
func LoadTemplates(dir string, extensions []string, log *zap.Logger) (*Templates, error) {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Templates{extensions: extensions, log: log}

	fi, err := os.Stat(dir)
	if err != nil {
		return nil, common.NewError(common.ErrorKindNoTemplateFound, err, "templates %s", dir)
	}
	if !fi.IsDir() && strings.EqualFold(filepath.Ext(dir), ".zip") {
		tmp, err := os.MkdirTemp("", "domx-templates-*")
		if err != nil {
			return nil, err
		}
		if _, err := archive.Extract(dir, tmp); err != nil {
			os.RemoveAll(tmp)
			return nil, fmt.Errorf("unable to unpack templates bundle: %w", err)
		}
		t.cleanup, dir = tmp, tmp
	}

	if err := t.parse(os.DirFS(dir)); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

// Close removes temporary files of unpacked bundle.
func (t *Templates) Close() {
	if t.cleanup != "" {
		os.RemoveAll(t.cleanup)
		t.cleanup = ""
	}
}

func (t *Templates) parse(fsys fs.FS) error {
	t.set = template.New("").Funcs(FuncMap())

	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		names = append(names, p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("unable to list templates: %w", err)
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})

	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if _, err := t.set.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("unable to parse template %s: %w", name, err)
		}
		if !strings.HasPrefix(filepath.Base(name), PartialPrefix) {
			t.renderable = append(t.renderable, name)
		}
	}
	if len(t.renderable) == 0 {
		return common.NewError(common.ErrorKindNoTemplateFound, nil, "no renderable templates among %d files", len(names))
	}
	return nil
}

// Names returns renderable templates in render order.
func (t *Templates) Names() []string {
	return slices.Clone(t.renderable)
}

// OutputName strips known template extension from the name.
func (t *Templates) OutputName(name string) string {
	for _, ext := range t.extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// Render executes renderable templates in order writing one file per
// template into outDir. It returns names of written files.
func (t *Templates) Render(ctx context.Context, outDir string, doc *model.Document) ([]string, error) {
	values := Values{
		Document: doc,
		Meta:     doc.Meta,
		Head:     doc.Node(doc.Head),
		Body:     doc.Node(doc.Body),
	}
	var written []string
	for _, name := range t.renderable {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		var buf bytes.Buffer
		if err := t.set.ExecuteTemplate(&buf, name, values); err != nil {
			return written, fmt.Errorf("unable to render %s: %w", name, err)
		}
		out := t.OutputName(name)
		if err := model.WriteFileAtomic(filepath.Join(outDir, filepath.FromSlash(out)), buf.Bytes()); err != nil {
			return written, fmt.Errorf("unable to write %s: %w", out, err)
		}
		t.log.Debug("Template rendered", zap.String("template", name), zap.String("file", out), zap.Int("size", buf.Len()))
		written = append(written, out)
	}
	return written, nil
}

// FuncMap returns sprig functions plus document helpers available to
// templates.
func FuncMap() template.FuncMap {
	funcs := sprig.FuncMap()
	funcs["node"] = func(doc *model.Document, id string) *model.Node { return doc.Node(id) }
	funcs["children"] = func(doc *model.Document, n *model.Node) []*model.Node { return doc.Children(n) }
	funcs["walk"] = walkNodes
	funcs["isVoid"] = convert.IsVoidTag
	funcs["attrs"] = formatAttrs
	funcs["selector"] = selector
	funcs["inlineStyle"] = func(s model.Style) string { return css.FormatInline(s) }
	funcs["cssRule"] = func(sel string, s model.Style) string { return css.FormatRule(sel, s) }
	funcs["pseudoRules"] = pseudoRules
	funcs["text"] = func(n *model.Node) string {
		if n.HasText() {
			return *n.Text
		}
		return ""
	}
	return funcs
}

// walkNodes lists nodes reachable from root in document order.
func walkNodes(doc *model.Document, root *model.Node) []*model.Node {
	if root == nil {
		return nil
	}
	var res []*model.Node
	doc.Walk(root.ID, func(n *model.Node, _ int) bool {
		res = append(res, n)
		return true
	})
	return res
}

// selector returns CSS selector addressing the element.
func selector(n *model.Node) string {
	if id := n.Attributes["id"]; id != "" {
		return "#" + id
	}
	return "#" + n.ID
}

func pseudoRules(n *model.Node) string {
	keys := make([]string, 0, len(n.PseudoStyles))
	for k := range n.PseudoStyles {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(css.FormatRule(selector(n)+k, n.PseudoStyles[k]))
	}
	return b.String()
}

// formatAttrs serializes attributes as ` name="value"` pairs in name order.
func formatAttrs(n *model.Node) string {
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(n.Attributes[k]))
		b.WriteByte('"')
	}
	return b.String()
}

// WriteDefaultTemplates copies embedded templates into dir. Existing files
// are not overwritten unless force is set.
func WriteDefaultTemplates(dir string, force bool) ([]string, error) {
	sub, err := fs.Sub(defaultTemplates, "templates/default")
	if err != nil {
		return nil, err
	}
	var written []string
	err = fs.WalkDir(sub, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(p))
		if !force {
			if _, err := os.Stat(target); err == nil {
				return fmt.Errorf("%s already exists", target)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		data, err := fs.ReadFile(sub, p)
		if err != nil {
			return err
		}
		if err := model.WriteFileAtomic(target, data); err != nil {
			return err
		}
		written = append(written, target)
		return nil
	})
	return written, err
}
