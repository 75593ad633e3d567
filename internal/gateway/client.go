package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to a remote persistence service over HTTP.
type Client struct {
	base string
	http *http.Client
}

// NewClient targets baseURL (e.g. http://localhost:5000/api). A zero
// timeout leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) LoadContent(ctx context.Context) (map[string]any, error) {
	return c.load(ctx, CollectionContent)
}

func (c *Client) SaveContent(ctx context.Context, doc map[string]any) error {
	_, err := c.save(ctx, CollectionContent, doc)
	return err
}

func (c *Client) LoadTranslations(ctx context.Context) (map[string]any, error) {
	return c.load(ctx, CollectionTranslations)
}

func (c *Client) SaveTranslations(ctx context.Context, table map[string]any) error {
	_, err := c.save(ctx, CollectionTranslations, map[string]any{"translations": table})
	return err
}

func (c *Client) load(ctx context.Context, collection string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+collection, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) save(ctx context.Context, collection string, body map[string]any) (map[string]any, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", collection, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+collection, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (map[string]any, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Method: req.Method, URL: req.URL.String(), Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return out, nil
}
