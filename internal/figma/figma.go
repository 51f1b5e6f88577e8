// Package figma imports designs from the Figma REST API: it resolves share
// URLs, fetches node documents and renders node images for generation input.
package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.figma.com"

// Render size is capped; oversized exports blow past model input limits.
const maxImageBytes = 8 << 20

var (
	ErrInvalidShareURL = errors.New("figma: not a recognizable share url")
	ErrMissingNodeID   = errors.New("figma: share url has no node-id")
	ErrNodeNotFound    = errors.New("figma: node not found in file")
)

// Target identifies one node of one file.
type Target struct {
	FileKey string
	NodeID  string
}

// ParseShareURL extracts the file key and node id from a design share link.
// Both /file/ and /design/ paths are accepted; the node-id query parameter is
// required and its dashes are normalized to the API's colon form.
func ParseShareURL(raw string) (Target, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrInvalidShareURL, err)
	}
	if !strings.HasSuffix(u.Hostname(), "figma.com") {
		return Target{}, ErrInvalidShareURL
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 || (segs[0] != "file" && segs[0] != "design") || segs[1] == "" {
		return Target{}, ErrInvalidShareURL
	}
	nodeID := u.Query().Get("node-id")
	if nodeID == "" {
		return Target{}, ErrMissingNodeID
	}
	return Target{
		FileKey: segs[1],
		NodeID:  strings.Replace(nodeID, "-", ":", 1),
	}, nil
}

// Client talks to the Figma REST API with a personal access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type ClientOption func(*Client)

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Figma-Token", c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("figma: request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("figma: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchNode returns the pruned document for one node.
func (c *Client) FetchNode(ctx context.Context, t Target) (map[string]any, error) {
	var payload struct {
		Nodes map[string]struct {
			Document map[string]any `json:"document"`
		} `json:"nodes"`
	}
	path := fmt.Sprintf("/v1/files/%s/nodes?ids=%s", url.PathEscape(t.FileKey), url.QueryEscape(t.NodeID))
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	node, ok := payload.Nodes[t.NodeID]
	if !ok || node.Document == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, t.NodeID)
	}
	return PruneNode(node.Document), nil
}

// RenderImage exports the node as a PNG at 2x scale and downloads it.
func (c *Client) RenderImage(ctx context.Context, t Target) ([]byte, error) {
	var payload struct {
		Images map[string]string `json:"images"`
		Err    string            `json:"err"`
	}
	path := fmt.Sprintf("/v1/images/%s?ids=%s&format=png&scale=2", url.PathEscape(t.FileKey), url.QueryEscape(t.NodeID))
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	if payload.Err != "" {
		return nil, fmt.Errorf("figma: render failed: %s", payload.Err)
	}
	imageURL, ok := payload.Images[t.NodeID]
	if !ok || imageURL == "" {
		return nil, fmt.Errorf("%w: no render for %s", ErrNodeNotFound, t.NodeID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("figma: download render: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("figma: render download returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("figma: rendered image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}
