package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"domx/common"
	"domx/config"
	"domx/model"
	"domx/utils/images"
)

// sidecar is cache metadata kept next to every downloaded file as
// "<file>.json".
type sidecar struct {
	URL          string `json:"url"`
	ETag         string `json:"etag,omitempty"`
	LastModified string `json:"lastModified,omitempty"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// ref points to asset record inside document.
type ref struct {
	node, key string
}

// job is a single URL to fetch with all asset records sharing it.
type job struct {
	url    string
	base   string
	format string
	refs   []ref

	result *sidecar
	cached bool
}

// Downloader fetches document assets into "<page>/assets".
type Downloader struct {
	pageDir string
	limit   int
	http    *http.Client
	log     *zap.Logger
}

// NewDownloader creates downloader for page directory. Nil client means
// http.DefaultClient.
func NewDownloader(pageDir string, cfg *config.AssetsConfig, client *http.Client, log *zap.Logger) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{
		pageDir: pageDir,
		limit:   cfg.Concurrency,
		http:    client,
		log:     log.Named("assets"),
	}
}

// Start runs Download in background. Status is switched to pending before
// Start returns so pollers never see result of previous batch. Returned
// channel is closed when batch is finished and status file says so.
func (d *Downloader) Start(ctx context.Context, doc *model.Document) <-chan struct{} {
	if err := WriteStatus(d.pageDir, common.DownloadStatusPending); err != nil {
		d.log.Warn("Unable to write download status", zap.Error(err))
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := d.Download(ctx, doc); err != nil {
			d.log.Error("Asset download failed", zap.Error(err))
		}
	}()
	return done
}

// Download fetches every http(s) asset of the document. Failures of
// individual assets are logged and never abort siblings. Status file is set
// to pending before and to completed after the batch regardless of failures.
// Resulting layer (asset-only node fragments) is saved into page directory
// and returned.
func (d *Downloader) Download(ctx context.Context, doc *model.Document) (layer model.Layer, rerr error) {
	if err := WriteStatus(d.pageDir, common.DownloadStatusPending); err != nil {
		return nil, fmt.Errorf("unable to write download status: %w", err)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("Asset download ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("asset download panic: %v", r)
		}
		if err := WriteStatus(d.pageDir, common.DownloadStatusCompleted); err != nil && rerr == nil {
			rerr = fmt.Errorf("unable to write download status: %w", err)
		}
	}()

	jobs := collectJobs(doc)
	if err := os.MkdirAll(filepath.Join(d.pageDir, Dir), 0755); err != nil {
		return nil, fmt.Errorf("unable to create assets directory: %w", err)
	}

	var g errgroup.Group
	if d.limit > 0 {
		g.SetLimit(d.limit)
	}
	for _, j := range jobs {
		g.Go(func() error {
			d.run(ctx, j)
			return nil
		})
	}
	_ = g.Wait()

	layer = make(model.Layer)
	fetched, reused := 0, 0
	for _, j := range jobs {
		if j.result == nil {
			continue
		}
		if j.cached {
			reused++
		} else {
			fetched++
		}
		for _, r := range j.refs {
			fragment, ok := layer[r.node]
			if !ok {
				fragment = map[string]any{"assets": map[string]any{}}
				layer[r.node] = fragment
			}
			fragment["assets"].(map[string]any)[r.key] = assetFragment(j.result)
		}
	}

	if err := model.SaveJSON(filepath.Join(d.pageDir, common.LayerKindDownloadedAssets.FileName()), layer); err != nil {
		return layer, fmt.Errorf("unable to save downloaded assets layer: %w", err)
	}
	d.log.Info("Assets downloaded",
		zap.Int("total", len(jobs)), zap.Int("fetched", fetched), zap.Int("not_modified", reused),
		zap.Int("failed", len(jobs)-fetched-reused), zap.Duration("elapsed", time.Since(start)))
	return layer, nil
}

func assetFragment(sc *sidecar) map[string]any {
	res := map[string]any{"fileName": sc.FileName}
	if sc.MimeType != "" {
		res["mimeType"] = sc.MimeType
	}
	if sc.Width > 0 && sc.Height > 0 {
		res["width"] = sc.Width
		res["height"] = sc.Height
	}
	return res
}

// collectJobs groups asset records by URL, only http(s) URLs are considered.
func collectJobs(doc *model.Document) []*job {
	ids := make([]string, 0, len(doc.Nodes))
	for id := range doc.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var (
		jobs  []*job
		byURL = make(map[string]*job)
	)
	for _, id := range ids {
		n := doc.Nodes[id]
		keys := make([]string, 0, len(n.Assets))
		for k := range n.Assets {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			a := n.Assets[k]
			if a == nil || !isRemote(a.URL) {
				continue
			}
			j, ok := byURL[a.URL]
			if !ok {
				j = &job{url: a.URL, base: baseName(k), format: a.Format}
				byURL[a.URL] = j
				jobs = append(jobs, j)
			}
			j.refs = append(j.refs, ref{node: id, key: k})
		}
	}
	return jobs
}

func isRemote(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func baseName(key string) string {
	if s := slug.Make(key); s != "" {
		return s
	}
	return "asset"
}

// knownExt returns extension of URL path when it looks like image one.
func knownExt(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".avif", ".pdf":
		return ext
	}
	return ""
}

// extFor returns file extension for the job before anything is downloaded,
// empty when it can only be sniffed from content.
func (j *job) extFor() string {
	if ext := knownExt(j.url); ext != "" {
		return ext
	}
	switch j.format {
	case model.AssetFormatSVG:
		return ".svg"
	case model.AssetFormatPNG:
		return ".png"
	}
	return ""
}

func (d *Downloader) assetPath(name string) string {
	return filepath.Join(d.pageDir, Dir, name)
}

// cachedSidecar finds metadata of previous download for the job. When
// extension is not known in advance any "<base>.<ext>.json" matches.
func (d *Downloader) cachedSidecar(j *job) *sidecar {
	var candidates []string
	if ext := j.extFor(); ext != "" {
		candidates = []string{j.base + ext + ".json"}
	} else {
		// slug output has no glob meta characters
		matches, _ := filepath.Glob(d.assetPath(j.base + ".*.json"))
		for _, m := range matches {
			candidates = append(candidates, filepath.Base(m))
		}
	}
	for _, name := range candidates {
		var sc sidecar
		if err := model.LoadJSON(d.assetPath(name), &sc); err != nil {
			continue
		}
		if sc.FileName == "" || sc.FileName+".json" != name {
			continue
		}
		if _, err := os.Stat(d.assetPath(sc.FileName)); err != nil {
			continue
		}
		return &sc
	}
	return nil
}

func (d *Downloader) run(ctx context.Context, j *job) {
	log := d.log.With(zap.String("url", j.url), zap.String("asset", j.base))
	defer func() {
		if r := recover(); r != nil {
			log.Error("Asset download ended with panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			j.result = nil
		}
	}()

	res, cached, err := d.fetch(ctx, j)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Info("Asset download cancelled")
	case err != nil:
		log.Warn("Unable to download asset", zap.Error(err))
	default:
		j.result, j.cached = res, cached
		log.Debug("Asset ready", zap.String("file", res.FileName), zap.Bool("not_modified", cached))
	}
}

func (d *Downloader) fetch(ctx context.Context, j *job) (*sidecar, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return nil, false, err
	}
	// signed URLs change between syncs, cache is keyed by asset
	prev := d.cachedSidecar(j)
	if prev != nil {
		if prev.ETag != "" {
			req.Header.Set("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			req.Header.Set("If-Modified-Since", prev.LastModified)
		}
	}

	resp, err := d.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, false, common.NewError(common.ErrorKindNetworkUnavailable, err, "GET %s", j.url)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if prev == nil {
			return nil, false, fmt.Errorf("not modified response without cached copy")
		}
		prev.URL = j.url
		return prev, true, nil
	case http.StatusOK:
	default:
		return nil, false, fmt.Errorf("unexpected response %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		// never write after cancellation
		return nil, false, err
	}

	sc := &sidecar{
		URL:          j.url,
		ETag:         resp.Header.Get("ETag"),
		LastModified: resp.Header.Get("Last-Modified"),
	}

	ext := knownExt(j.url)
	if ext == "" {
		// URL says nothing, trust content over declared type
		sc.MimeType = images.DetectMime(body)
		if sc.MimeType == "" {
			sc.MimeType = mediaType(resp.Header.Get("Content-Type"))
		}
		if e := images.DetectExt(body); e != "" {
			ext = "." + e
		} else {
			ext = j.extFor()
		}
	} else {
		sc.MimeType = mime.TypeByExtension(ext)
	}
	sc.FileName = j.base + ext

	if w, h, err := images.Dimensions(body); err == nil {
		sc.Width, sc.Height = w, h
	} else {
		d.log.Debug("Unable to measure asset", zap.String("file", sc.FileName), zap.Error(err))
	}

	if err := model.WriteFileAtomic(d.assetPath(sc.FileName), body); err != nil {
		return nil, false, fmt.Errorf("unable to save %s: %w", sc.FileName, err)
	}
	if err := model.SaveJSON(d.assetPath(sc.FileName+".json"), sc); err != nil {
		return nil, false, fmt.Errorf("unable to save %s metadata: %w", sc.FileName, err)
	}
	if prev != nil && prev.FileName != sc.FileName {
		// content type changed, drop stale copy
		for _, name := range []string{prev.FileName, prev.FileName + ".json"} {
			if err := os.Remove(d.assetPath(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				d.log.Debug("Unable to remove stale asset", zap.String("file", name), zap.Error(err))
			}
		}
	}
	return sc, false, nil
}

func mediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return ""
}
