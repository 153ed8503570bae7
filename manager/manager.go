// Package manager orchestrates synchronization of one design node with local
// data directory and export of compiled page.
package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"domx/archive"
	"domx/assets"
	"domx/common"
	"domx/config"
	"domx/convert"
	"domx/figma"
	"domx/misc"
	"domx/model"
	"domx/page"
	"domx/utils/debug"
)

// API is design API as manager uses it.
type API interface {
	convert.AssetResolver
	FetchNodes(ctx context.Context, fileKey string, ids []string, geometry string) (*figma.NodesResponse, error)
	Download(ctx context.Context, rawURL string, w io.Writer) (string, error)
}

// Manager keeps state of a single (file, node) pair. It is not safe for
// concurrent use, callers serialize operations per pair.
type Manager struct {
	cfg     *config.Config
	api     API
	fileKey string
	nodeID  string

	Response *figma.NodesResponse
	Page     *page.Page

	http *http.Client
	rpt  *config.Report
	done <-chan struct{}
	log  *zap.Logger
}

// Option customizes Manager.
type Option func(*Manager)

// WithHTTPClient sets client used for asset downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.http = c }
}

// WithReport stores fetched and compiled data in debug report.
func WithReport(rpt *config.Report) Option {
	return func(m *Manager) { m.rpt = rpt }
}

// New creates manager for design node.
func New(cfg *config.Config, api API, fileKey, nodeID string, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		cfg:     cfg,
		api:     api,
		fileKey: fileKey,
		nodeID:  nodeID,
		log:     log.Named("manager").With(zap.String("file", fileKey), zap.String("node", nodeID)),
	}
	for _, o := range opts {
		o(m)
	}
	if m.http == nil {
		m.http = &http.Client{Timeout: cfg.Figma.RequestTimeout}
	}
	return m
}

// FileDir returns directory of the design file under data root.
func (m *Manager) FileDir() string {
	return filepath.Join(m.cfg.Storage.DataDir, m.fileKey)
}

// PageDir returns directory of the node page.
func (m *Manager) PageDir() string {
	return page.Dir(m.cfg.Storage.DataDir, m.fileKey, m.nodeID)
}

// reportName is name of page directory inside debug report.
func (m *Manager) reportName() string {
	return "data/" + m.fileKey + "/" + filepath.Base(m.PageDir())
}

// LoadData populates response and page from local disk only. Missing
// compiled page is reported as ErrNoCompiledPage.
func (m *Manager) LoadData(variant string) error {
	var resp figma.NodesResponse
	switch err := model.LoadJSON(filepath.Join(m.PageDir(), page.ResponseFileName), &resp); {
	case err == nil:
		m.Response = &resp
	case errors.Is(err, fs.ErrNotExist):
		m.Response = nil
	default:
		return fmt.Errorf("unable to load cached response: %w", err)
	}

	p, err := page.Load(m.PageDir(), m.log)
	if err != nil {
		m.Page = nil
		return err
	}
	if err := p.LoadData(variant); err != nil {
		return err
	}
	m.Page = p
	return nil
}

// Synchronize fetches node from design API and, when it changed since last
// synchronization or force is set, converts it, persists raw response and
// compiled page and starts background asset download. It returns whether
// anything was converted.
func (m *Manager) Synchronize(ctx context.Context, force bool, variant string) (bool, error) {
	if err := m.LoadData(variant); err != nil {
		if !errors.Is(err, common.ErrNoCompiledPage) {
			m.log.Warn("Ignoring broken cache", zap.Error(err))
		}
		m.Page = nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	resp, err := m.api.FetchNodes(ctx, m.fileKey, []string{m.nodeID}, m.cfg.Figma.Geometry)
	if err != nil {
		return false, err
	}
	if !force && m.Response != nil && m.Page != nil && !resp.LastModified.After(m.Response.LastModified) {
		m.log.Info("Design is up to date", zap.Time("last_modified", m.Response.LastModified))
		return false, nil
	}

	if m.rpt != nil && m.Page != nil {
		if err := m.rpt.StoreCopy(m.reportName()+".previous", m.PageDir()); err != nil {
			m.log.Debug("Unable to snapshot previous page data", zap.Error(err))
		}
	}

	start := time.Now()
	rc := convert.NewResponseConverter(m.api, &m.cfg.Figma, m.log)
	docs, err := rc.Convert(ctx, m.fileKey, resp)
	if err != nil {
		return false, err
	}
	doc, ok := docs[m.nodeID]
	if !ok {
		return false, common.NewError(common.ErrorKindResourceNotFound, nil, "node %s in file %s", m.nodeID, m.fileKey)
	}

	if err := model.SaveJSON(filepath.Join(m.PageDir(), page.ResponseFileName), resp); err != nil {
		return false, fmt.Errorf("unable to save response: %w", err)
	}
	p := page.New(m.PageDir(), doc, m.log)
	if err := p.Save(); err != nil {
		return false, err
	}
	m.Response, m.Page = resp, p
	// archived when report is closed, so downloaded assets get there too
	if m.rpt != nil {
		m.rpt.Store(m.reportName(), m.PageDir())
		m.rpt.StoreData(m.reportName()+".txt", []byte(debug.DumpDocument(doc)))
	}
	m.log.Info("Design converted", zap.Int("nodes", len(doc.Nodes)), zap.Time("last_modified", resp.LastModified),
		zap.Duration("elapsed", time.Since(start)))

	m.done = assets.NewDownloader(m.PageDir(), &m.cfg.Assets, m.http, m.log).Start(ctx, doc)

	if err := p.LoadData(variant); err != nil {
		return true, err
	}
	return true, nil
}

// WaitForDownloadAssets polls download status until batch is completed or
// timeout elapses and reports whether completion was observed. Zero timeout
// checks status once.
func (m *Manager) WaitForDownloadAssets(ctx context.Context, timeout time.Duration) bool {
	completed := func() bool {
		status, err := assets.ReadStatus(m.PageDir())
		if err != nil {
			m.log.Debug("Unable to read download status", zap.Error(err))
		}
		return status == common.DownloadStatusCompleted
	}
	if completed() {
		return true
	}
	if timeout <= 0 {
		return false
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(m.cfg.Assets.PollInterval)
	defer ticker.Stop()

	done := m.done
	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return completed()
		case <-done:
			done = nil
			if completed() {
				return true
			}
		case <-ticker.C:
			if completed() {
				return true
			}
		}
	}
}

// Export renders loaded page into outDir. Assets go to assetsOutDir (output
// "assets" directory when empty) and are referenced through assetsPrefix
// when it is set.
func (m *Manager) Export(ctx context.Context, outDir, templatesDir, assetsOutDir, assetsPrefix string) error {
	if m.Page == nil {
		return common.NewError(common.ErrorKindNoCompiledPage, nil, "nothing to export for node %s, synchronize first", m.nodeID)
	}
	fi, err := os.Stat(templatesDir)
	if err != nil {
		return common.NewError(common.ErrorKindNoTemplateFound, err, "templates %s", templatesDir)
	}
	if fi.IsDir() {
		entries, err := os.ReadDir(templatesDir)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return common.NewError(common.ErrorKindNoTemplateFound, nil, "templates directory %s is empty", templatesDir)
		}
	}

	return m.Page.Export(ctx, page.ExportOptions{
		OutDir:       outDir,
		TemplatesDir: templatesDir,
		AssetsOutDir: assetsOutDir,
		AssetsPrefix: assetsPrefix,
		Extensions:   m.cfg.Templates.Extensions,
		RasterizeSVG: m.cfg.Assets.RasterizeSVG.Enable,
		RasterWidth:  m.cfg.Assets.RasterizeSVG.Width,
	})
}

// ExportArchive renders loaded page into a temporary directory and packs
// result with its assets into zip archive to.
func (m *Manager) ExportArchive(ctx context.Context, to, templatesDir, assetsPrefix string) error {
	tmp, err := os.MkdirTemp("", misc.GetAppName()+"-export-")
	if err != nil {
		return fmt.Errorf("unable to create export directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := m.Export(ctx, tmp, templatesDir, "", assetsPrefix); err != nil {
		return err
	}
	n, err := archive.Pack(tmp, to)
	if err != nil {
		return fmt.Errorf("unable to pack exported page: %w", err)
	}
	m.log.Info("Page archive written", zap.String("file", to), zap.Int("files", n))
	return nil
}

// DeleteData removes page directory and design file directory when nothing
// else is left there.
func (m *Manager) DeleteData() error {
	if err := os.RemoveAll(m.PageDir()); err != nil {
		return fmt.Errorf("unable to remove page data: %w", err)
	}
	m.Page, m.Response = nil, nil

	entries, err := os.ReadDir(m.FileDir())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case len(entries) == 0:
		if err := os.Remove(m.FileDir()); err != nil {
			return fmt.Errorf("unable to remove file data: %w", err)
		}
	}
	return nil
}

// GetNodeImage renders node through design API and saves it into dest. When
// dest is a directory (or empty - current one) file name is derived from
// node id. It returns path of written file.
func (m *Manager) GetNodeImage(ctx context.Context, nodeID string, format common.ImageFormat, scale float64, dest string) (string, error) {
	urls, err := m.api.ImageExports(ctx, m.fileKey, []string{nodeID}, format, scale)
	if err != nil {
		return "", err
	}
	u, ok := urls[nodeID]
	if !ok || u == "" {
		return "", common.NewError(common.ErrorKindResourceNotFound, nil, "node %s could not be rendered", nodeID)
	}

	if dest == "" {
		dest = "."
	}
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		dest = filepath.Join(dest, slug.Make(nodeID)+format.Ext())
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	ct, err := m.api.Download(ctx, u, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, dest)
	}
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("unable to save node image: %w", err)
	}
	m.log.Info("Node image saved", zap.String("image_node", nodeID), zap.String("file", dest), zap.String("content_type", ct))
	return dest, nil
}
