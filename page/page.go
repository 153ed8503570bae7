// Package page keeps one compiled document on disk together with override
// layers and exports it through user templates.
package page

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"domx/common"
	"domx/convert"
	"domx/model"
)

// Files of the page directory.
const (
	ResponseFileName = "figma-response.json"
	DocumentFileName = "document.json"
	VariantsDir      = "variants"
)

// Dir returns page directory for design node under data root.
func Dir(root, fileKey, nodeID string) string {
	return filepath.Join(root, fileKey, convert.SanitizeID(nodeID))
}

// Page is compiled document with its directory. Document holds merged view
// (base plus loaded layers), base is kept as compiled.
type Page struct {
	dir      string
	base     *model.Document
	Document *model.Document
	log      *zap.Logger
}

// New wraps freshly compiled document, nothing is written until Save.
func New(dir string, doc *model.Document, log *zap.Logger) *Page {
	if log == nil {
		log = zap.NewNop()
	}
	return &Page{dir: dir, base: doc, Document: doc, log: log.Named("page")}
}

// Load reads compiled document from page directory. Missing document is
// reported as no compiled page.
func Load(dir string, log *zap.Logger) (*Page, error) {
	var doc model.Document
	if err := model.LoadJSON(filepath.Join(dir, DocumentFileName), &doc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewError(common.ErrorKindNoCompiledPage, err, "no compiled document in %s", dir)
		}
		return nil, err
	}
	if doc.Nodes == nil {
		doc.Nodes = make(map[string]*model.Node)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("compiled document in %s is broken: %w", dir, err)
	}
	return New(dir, &doc, log), nil
}

// Dir returns page directory.
func (p *Page) Dir() string {
	return p.dir
}

// Base returns document as compiled, without override layers.
func (p *Page) Base() *model.Document {
	return p.base
}

// Save writes compiled document into page directory.
func (p *Page) Save() error {
	if err := model.SaveJSON(filepath.Join(p.dir, DocumentFileName), p.base); err != nil {
		return fmt.Errorf("unable to save page: %w", err)
	}
	return nil
}

// LayerPaths returns override layer files in merge order for variant (may be
// empty).
func (p *Page) LayerPaths(variant string) []string {
	dirs := []string{p.dir}
	if variant != "" {
		dirs = append(dirs, VariantDir(p.dir, variant))
	}
	var res []string
	for _, d := range dirs {
		for _, name := range common.LayerKindNames() {
			res = append(res, filepath.Join(d, common.LayerKind(name).FileName()))
		}
	}
	return res
}

// VariantDir returns directory of named variant, name is slugified so any
// label (locale, experiment name) is usable.
func VariantDir(pageDir, variant string) string {
	name := slug.Make(variant)
	if name == "" {
		name = "default"
	}
	return filepath.Join(pageDir, VariantsDir, name)
}

// LoadData rebuilds merged document from base and override layers: page
// layers first (downloaded-assets, ai, user), then the same layers of the
// variant. Later layers win on present leaf keys.
func (p *Page) LoadData(variant string) error {
	doc, err := clone(p.base)
	if err != nil {
		return err
	}
	for _, path := range p.LayerPaths(variant) {
		layer, err := model.LoadLayer(path)
		if err != nil {
			return fmt.Errorf("unable to load layer %s: %w", path, err)
		}
		if layer == nil {
			continue
		}
		skipped, err := doc.Apply(layer)
		if err != nil {
			return fmt.Errorf("unable to apply layer %s: %w", path, err)
		}
		if len(skipped) > 0 {
			p.log.Debug("Layer references unknown nodes", zap.String("layer", path), zap.Strings("ids", skipped))
		}
	}
	p.Document = doc
	return nil
}

// Delete removes page directory.
func (p *Page) Delete() error {
	if err := os.RemoveAll(p.dir); err != nil {
		return fmt.Errorf("unable to remove page: %w", err)
	}
	return nil
}

func clone(doc *model.Document) (*model.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var res model.Document
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
