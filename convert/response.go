package convert

import (
	"context"
	"fmt"
	"net/url"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"domx/common"
	"domx/config"
	"domx/figma"
	"domx/model"
)

// Ids of synthetic nodes, they can not clash with sanitized scene ids which
// never contain "domx-" prefix followed by a letter.
const (
	HeadID  = "domx-head"
	TitleID = "domx-title"
)

// AssetResolver resolves asset keys into download URLs.
type AssetResolver interface {
	ImageFills(ctx context.Context, fileKey string) (map[string]string, error)
	ImageExports(ctx context.Context, fileKey string, ids []string, format common.ImageFormat, scale float64) (map[string]string, error)
	ExportsURL(fileKey string, ids []string) string
}

// ResponseConverter converts batch nodes response into semantic documents
// and resolves URLs of the assets they reference.
type ResponseConverter struct {
	resolver AssetResolver
	budget   int
	maxBatch int
	scale    float64
	log      *zap.Logger
}

// NewResponseConverter creates converter, resolver may be nil in which case
// asset URLs are left empty.
func NewResponseConverter(resolver AssetResolver, cfg *config.FigmaConfig, log *zap.Logger) *ResponseConverter {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResponseConverter{
		resolver: resolver,
		budget:   cfg.URLLengthBudget,
		maxBatch: cfg.MaxBatch,
		scale:    1,
		log:      log.Named("convert"),
	}
}

// Convert builds one document per requested node id present in response.
// Documents which failed to convert are reported in returned error and left
// out, the rest is still returned.
func (rc *ResponseConverter) Convert(ctx context.Context, fileKey string, resp *figma.NodesResponse) (map[string]*model.Document, error) {
	ids := make([]string, 0, len(resp.Nodes))
	for id := range resp.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var (
		docs = make(map[string]*model.Document, len(ids))
		errs error
	)
	for _, id := range ids {
		entry := resp.Nodes[id]
		if entry == nil || entry.Document == nil {
			errs = multierr.Append(errs, common.NewError(common.ErrorKindResourceNotFound, nil, "node %s is not in file %s", id, fileKey))
			continue
		}
		doc, err := rc.convertDocument(fileKey, id, resp, entry.Document)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		docs[id] = doc
	}

	if err := rc.resolveAssets(ctx, fileKey, docs); err != nil {
		return docs, multierr.Append(errs, err)
	}
	return docs, errs
}

func (rc *ResponseConverter) convertDocument(fileKey, id string, resp *figma.NodesResponse, root *figma.Node) (doc *model.Document, rerr error) {
	log := rc.log.With(zap.String("node", id))

	log.Debug("Document conversion starting")
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Document conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			doc, rerr = nil, fmt.Errorf("conversion panic for node %s: %v", id, r)
		} else if rerr == nil {
			log.Debug("Document conversion completed", zap.Duration("elapsed", time.Since(start)), zap.Int("nodes", len(doc.Nodes)))
		}
	}(time.Now())

	title := strings.TrimSpace(root.Name)
	if title == "" {
		title = resp.Name
	}
	revision, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate revision: %w", err)
	}

	doc = model.NewDocument(model.Meta{
		Title:        title,
		FileKey:      fileKey,
		FileName:     resp.Name,
		NodeID:       id,
		LastModified: resp.LastModified,
		Revision:     revision.String(),
	})

	tree := NewTree(log)
	body := tree.Build(root, nil)
	for _, n := range tree.Nodes() {
		mn, err := n.Convert()
		if err != nil {
			return nil, err
		}
		if mn == nil {
			continue
		}
		doc.Nodes[mn.ID] = mn
	}
	doc.Body = body.id()

	titleText := title
	doc.Nodes[TitleID] = &model.Node{ID: TitleID, TagName: "title", Text: &titleText}
	doc.Nodes[HeadID] = &model.Node{ID: HeadID, TagName: "head", Children: []string{TitleID}}
	doc.Head = HeadID

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("inconsistent document for node %s: %w", id, err)
	}
	return doc, nil
}

// assetIndex maps asset key to every record using it.
type assetIndex map[string][]*model.Asset

func indexAssets(docs map[string]*model.Document, accept func(a *model.Asset) bool) assetIndex {
	idx := make(assetIndex)
	for _, doc := range docs {
		for _, n := range doc.Nodes {
			for key, a := range n.Assets {
				if accept(a) {
					idx[key] = append(idx[key], a)
				}
			}
		}
	}
	return idx
}

func (idx assetIndex) keys() []string {
	res := make([]string, 0, len(idx))
	for k := range idx {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// backfill writes resolved URLs into all records sharing the key.
func (idx assetIndex) backfill(urls map[string]string) int {
	count := 0
	for key, u := range urls {
		if u == "" {
			continue
		}
		for _, a := range idx[key] {
			a.URL = u
			count++
		}
	}
	return count
}

// resolveAssets fetches image fill URLs in one call and export URLs in
// batches, format by format.
func (rc *ResponseConverter) resolveAssets(ctx context.Context, fileKey string, docs map[string]*model.Document) error {
	if rc.resolver == nil || len(docs) == 0 {
		return nil
	}

	fills := indexAssets(docs, func(a *model.Asset) bool { return a.Format == model.AssetFormatImageRef })
	if len(fills) > 0 {
		urls, err := rc.resolver.ImageFills(ctx, fileKey)
		if err != nil {
			return fmt.Errorf("unable to resolve image fills: %w", err)
		}
		rc.log.Debug("Image fills resolved", zap.Int("refs", len(fills)), zap.Int("assets", fills.backfill(urls)))
	}

	for _, format := range []common.ImageFormat{common.ImageFormatSvg, common.ImageFormatPng} {
		exports := indexAssets(docs, func(a *model.Asset) bool { return a.Format == format.String() })
		if len(exports) == 0 {
			continue
		}
		for _, batch := range Batch(exports.keys(), rc.budget, rc.maxBatch) {
			rc.log.Debug("Resolving exports", zap.Stringer("format", format), zap.Int("ids", len(batch)),
				zap.Int("url_length", len(rc.resolver.ExportsURL(fileKey, batch))))
			urls, err := rc.resolver.ImageExports(ctx, fileKey, batch, format, rc.scale)
			if err != nil {
				return fmt.Errorf("unable to resolve %s exports: %w", format, err)
			}
			exports.backfill(urls)
		}
	}
	return nil
}

// separator between ids in serialized list, escaped comma
const batchSeparatorLen = len("%2C")

// Batch splits ids into groups so serialized (query escaped, comma joined)
// id list of every group stays within budget. Group size is first estimated
// from average id length and capped to [1, maxBatch]. Id which alone exceeds
// budget gets its own group. Order is preserved.
func Batch(ids []string, budget, maxBatch int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	if maxBatch < 1 {
		maxBatch = 1
	}

	total := 0
	for _, id := range ids {
		total += len(url.QueryEscape(id))
	}
	avg := total / len(ids)
	size := max(1, min(budget/(avg+batchSeparatorLen), maxBatch))

	var (
		res    [][]string
		cur    []string
		curLen int
	)
	for _, id := range ids {
		l := len(url.QueryEscape(id))
		next := curLen + l
		if len(cur) > 0 {
			next += batchSeparatorLen
		}
		if len(cur) > 0 && (len(cur) >= size || next > budget) {
			res = append(res, cur)
			cur, next = nil, l
		}
		cur = append(cur, id)
		curLen = next
	}
	if len(cur) > 0 {
		res = append(res, cur)
	}
	return res
}
