package page

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	"domx/assets"
	"domx/model"
	"domx/utils/images"
)

// ExportOptions controls where export writes and how asset paths look.
type ExportOptions struct {
	OutDir       string
	TemplatesDir string
	// defaults to "<OutDir>/assets"
	AssetsOutDir string
	// when set asset paths are "<prefix>/<file>" instead of relative to OutDir
	AssetsPrefix string
	// stripped from rendered file names
	Extensions []string
	// convert SVG assets to PNG of given width (0 - intrinsic)
	RasterizeSVG bool
	RasterWidth  int
}

var assetRefRe = regexp.MustCompile(regexp.QuoteMeta(model.AssetScheme) + `([^\s"')]+)`)

// Export copies downloaded assets into output tree, resolves asset
// references and renders templates. Without templates directory document is
// written as JSON. Context is checked before and after asset copying and
// rendering, files already written are left in place.
func (p *Page) Export(ctx context.Context, opts ExportOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if opts.OutDir == "" {
		return errors.New("export destination is not set")
	}
	assetsOut := opts.AssetsOutDir
	if assetsOut == "" {
		assetsOut = filepath.Join(opts.OutDir, assets.Dir)
	}

	doc, err := clone(p.Document)
	if err != nil {
		return err
	}
	copied, err := p.copyAssets(ctx, doc, assetsOut, opts)
	if err != nil {
		return err
	}
	resolveRefs(doc)
	p.log.Debug("Assets exported", zap.Int("files", copied), zap.String("to", assetsOut))

	if err := ctx.Err(); err != nil {
		return err
	}

	if opts.TemplatesDir == "" {
		return writeFallback(opts.OutDir, doc)
	}
	if _, err := os.Stat(opts.TemplatesDir); errors.Is(err, fs.ErrNotExist) {
		p.log.Warn("Templates not found, writing document as is", zap.String("templates", opts.TemplatesDir))
		return writeFallback(opts.OutDir, doc)
	}

	tmpl, err := LoadTemplates(opts.TemplatesDir, opts.Extensions, p.log)
	if err != nil {
		return err
	}
	defer tmpl.Close()
	written, err := tmpl.Render(ctx, opts.OutDir, doc)
	if err != nil {
		return err
	}
	p.log.Info("Page exported", zap.Strings("files", written), zap.String("to", opts.OutDir))
	return ctx.Err()
}

func writeFallback(outDir string, doc *model.Document) error {
	if err := model.SaveJSON(filepath.Join(outDir, DocumentFileName), doc); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	return nil
}

// copyAssets places every asset with downloaded file into assetsOut and sets
// its FilePath. Files are copied once even when shared by many nodes.
func (p *Page) copyAssets(ctx context.Context, doc *model.Document, assetsOut string, opts ExportOptions) (int, error) {
	done := make(map[string]string)
	ids := make([]string, 0, len(doc.Nodes))
	for id := range doc.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		for key, a := range doc.Nodes[id].Assets {
			if a == nil || a.FileName == "" {
				continue
			}
			name, ok := done[a.FileName]
			if !ok {
				if err := ctx.Err(); err != nil {
					return len(done), err
				}
				var err error
				if name, err = p.copyAsset(a.FileName, assetsOut, opts); err != nil {
					p.log.Warn("Unable to export asset", zap.String("node", id), zap.String("asset", key), zap.Error(err))
					continue
				}
				done[a.FileName] = name
			}
			a.FilePath = assetPath(opts.OutDir, assetsOut, opts.AssetsPrefix, name)
			if name != a.FileName {
				a.MimeType = "image/png"
			}
		}
	}
	return len(done), nil
}

func (p *Page) copyAsset(fileName, assetsOut string, opts ExportOptions) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, assets.Dir, fileName))
	if err != nil {
		return "", err
	}
	name := fileName
	if opts.RasterizeSVG && strings.EqualFold(filepath.Ext(fileName), ".svg") {
		png, err := images.RasterizeSVGToPNG(data, opts.RasterWidth)
		if err != nil {
			return "", err
		}
		data, name = png, strings.TrimSuffix(fileName, filepath.Ext(fileName))+".png"
	}
	if err := model.WriteFileAtomic(filepath.Join(assetsOut, name), data); err != nil {
		return "", err
	}
	return name, nil
}

// assetPath returns path templates use for exported file. It always starts
// with "./" (relative to output root, "./../" when assets live outside of it)
// or "/" (prefix or absolute path). Prefix which is an URL is used as is.
func assetPath(outDir, assetsOut, prefix, name string) string {
	if prefix != "" {
		if strings.Contains(prefix, "://") {
			return strings.TrimSuffix(prefix, "/") + "/" + name
		}
		return path.Join("/", filepath.ToSlash(prefix), name)
	}
	rel, err := filepath.Rel(outDir, filepath.Join(assetsOut, name))
	if err != nil {
		abs, _ := filepath.Abs(filepath.Join(assetsOut, name))
		return path.Join("/", filepath.ToSlash(abs))
	}
	return "./" + filepath.ToSlash(rel)
}

// resolveRefs replaces "asset:<key>" in attributes and styles with exported
// file path or, when asset was not downloaded, with its remote URL.
func resolveRefs(doc *model.Document) {
	paths := make(map[string]string)
	for _, n := range doc.Nodes {
		for key, a := range n.Assets {
			if a == nil {
				continue
			}
			switch {
			case a.FilePath != "":
				paths[key] = a.FilePath
			case a.URL != "":
				if _, ok := paths[key]; !ok {
					paths[key] = a.URL
				}
			}
		}
	}
	replace := func(s string) string {
		if !strings.Contains(s, model.AssetScheme) {
			return s
		}
		return assetRefRe.ReplaceAllStringFunc(s, func(m string) string {
			if p, ok := paths[strings.TrimPrefix(m, model.AssetScheme)]; ok {
				return p
			}
			return m
		})
	}
	for _, n := range doc.Nodes {
		for k, v := range n.Attributes {
			n.Attributes[k] = replace(v)
		}
		for k, v := range n.Style {
			n.Style[k] = replace(v)
		}
		for _, st := range n.PseudoStyles {
			for k, v := range st {
				st[k] = replace(v)
			}
		}
	}
}
