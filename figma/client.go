package figma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"domx/common"
	"domx/config"
)

// Client talks to design REST API. It is safe for concurrent use.
type Client struct {
	base  *url.URL
	token config.SecretString
	http  *http.Client
	log   *zap.Logger
}

// NewClient creates API client from configuration.
func NewClient(cfg *config.FigmaConfig, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bad api url %q: %w", cfg.APIURL, err)
	}
	return &Client{
		base:  base,
		token: cfg.Token,
		http:  &http.Client{Timeout: cfg.RequestTimeout},
		log:   log.Named("figma"),
	}, nil
}

// FetchNodes requests subtrees for ids from design file. Geometry "paths"
// includes vector path data. Node absent in file is reported as
// ErrResourceNotFound.
func (c *Client) FetchNodes(ctx context.Context, fileKey string, ids []string, geometry string) (*NodesResponse, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	if len(geometry) > 0 {
		q.Set("geometry", geometry)
	}

	var resp NodesResponse
	if err := c.get(ctx, "/v1/files/"+url.PathEscape(fileKey)+"/nodes", q, &resp); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if e, ok := resp.Nodes[id]; !ok || e == nil || e.Document == nil {
			return nil, common.NewError(common.ErrorKindResourceNotFound, nil, "node %s in file %s", id, fileKey)
		}
	}
	return &resp, nil
}

// ImageExports requests rendering of nodes into images, returns node id to
// URL map. Nodes which could not be rendered have no entry.
func (c *Client) ImageExports(ctx context.Context, fileKey string, ids []string, format common.ImageFormat, scale float64) (map[string]string, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("format", format.String())
	if scale > 0 {
		q.Set("scale", strconv.FormatFloat(scale, 'f', -1, 64))
	}

	var resp imagesResponse
	if err := c.get(ctx, "/v1/images/"+url.PathEscape(fileKey), q, &resp); err != nil {
		return nil, err
	}
	if resp.Err != nil && len(*resp.Err) > 0 {
		return nil, fmt.Errorf("image export failed: %s", *resp.Err)
	}
	res := make(map[string]string, len(resp.Images))
	for id, u := range resp.Images {
		if len(u) > 0 {
			res[id] = u
		}
	}
	return res, nil
}

// ImageFills returns download URLs of all image fills in design file keyed by
// image reference.
func (c *Client) ImageFills(ctx context.Context, fileKey string) (map[string]string, error) {
	var resp imageFillsResponse
	if err := c.get(ctx, "/v1/files/"+url.PathEscape(fileKey)+"/images", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error {
		return nil, fmt.Errorf("image fills request failed with status %d", resp.Status)
	}
	return resp.Meta.Images, nil
}

// ExportsURL returns full request URL image export would use, callers use it
// to keep batches under URL length budget.
func (c *Client) ExportsURL(fileKey string, ids []string) string {
	u := *c.base
	u.Path += "/v1/images/" + url.PathEscape(fileKey)
	u.RawQuery = url.Values{"ids": {strings.Join(ids, ",")}}.Encode()
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	u := *c.base
	u.Path += path
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Figma-Token", string(c.token))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return common.NewError(common.ErrorKindNetworkUnavailable, err, "GET %s", u.Path)
	}
	defer resp.Body.Close()

	c.log.Debug("API request", zap.String("path", u.Path), zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return common.NewError(common.ErrorKindNetworkUnavailable, err, "reading response of %s", u.Path)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return common.NewError(common.ErrorKindInvalidCredential, nil, "%s: %s", resp.Status, apiMessage(body))
	case http.StatusNotFound:
		return common.NewError(common.ErrorKindResourceNotFound, nil, "%s: %s", u.Path, apiMessage(body))
	default:
		return fmt.Errorf("unexpected API response %s for %s: %s", resp.Status, u.Path, apiMessage(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unable to decode API response for %s: %w", u.Path, err)
	}
	return nil
}

func apiMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && len(e.Err) > 0 {
		return e.Err
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return strings.TrimSpace(string(body))
}

// Download fetches arbitrary URL returned by API (image exports) into w. It
// is used for node images which bypass asset downloader.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", common.NewError(common.ErrorKindNetworkUnavailable, err, "GET %s", rawURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response %s for %s", resp.Status, rawURL)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", err
	}
	return resp.Header.Get("Content-Type"), nil
}
