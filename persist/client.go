package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phanxgames/scribble"
)

// Client is a Service talking to a Server over HTTP.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the server at baseURL, for example
// "http://localhost:8080". A nil httpClient uses one with a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", u.Scheme)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: u, http: httpClient}, nil
}

// FeedURL returns the websocket URL of the server's feed.
func (c *Client) FeedURL() string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path += "/feed"
	return u.String()
}

// Save posts serialized and returns the new identifier.
func (c *Client) Save(ctx context.Context, serialized string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/sketches", nil, strings.NewReader(serialized))
	if err != nil {
		return "", &PersistenceError{Op: "save", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus("save", resp); err != nil {
		return "", err
	}
	var out saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &PersistenceError{Op: "save", Status: resp.StatusCode, Err: err}
	}
	if out.ID == "" {
		return "", &PersistenceError{Op: "save", Status: resp.StatusCode, Err: fmt.Errorf("empty id")}
	}
	return out.ID, nil
}

// Load fetches the payload for id. The payload is checked before it is
// returned; one that does not decode fails with *scribble.DecodeError.
func (c *Client) Load(ctx context.Context, id string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/sketches/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return "", &PersistenceError{Op: "load", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus("load", resp); err != nil {
		return "", err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadBytes))
	if err != nil {
		return "", &PersistenceError{Op: "load", Status: resp.StatusCode, Err: err}
	}
	if _, err := scribble.Decode(body); err != nil {
		return "", err
	}
	return string(body), nil
}

// ListGallery fetches one page of a category.
func (c *Client) ListGallery(ctx context.Context, category Category, offset, limit int) ([]Item, int, error) {
	q := url.Values{}
	q.Set("load", string(category))
	q.Set("start", strconv.Itoa(offset))
	q.Set("end", strconv.Itoa(limit))
	resp, err := c.do(ctx, http.MethodGet, "/gallery", q, nil)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus("list", resp); err != nil {
		return nil, 0, err
	}
	var out galleryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, 0, &PersistenceError{Op: "list", Status: resp.StatusCode, Err: err}
	}
	items := make([]Item, 0, len(out.Sketches))
	for _, s := range out.Sketches {
		created, _ := time.Parse(galleryDateFormat, s.Date)
		items = append(items, Item{
			ID:         s.ID,
			Serialized: string(s.Value),
			CreatedAt:  created,
			Views:      s.Views,
			Featured:   category == Featured,
		})
	}
	return items, out.TotalRows, nil
}

// Feature marks a sketch as featured.
func (c *Client) Feature(ctx context.Context, id string) error {
	return c.command(ctx, "feature", http.MethodPost, "/sketches/"+url.PathEscape(id)+"/feature")
}

// Delete removes a sketch.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.command(ctx, "delete", http.MethodDelete, "/sketches/"+url.PathEscape(id))
}

// Thumbnail fetches the PNG thumbnail of a sketch.
func (c *Client) Thumbnail(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/sketches/"+url.PathEscape(id)+"/thumbnail.png", nil, nil)
	if err != nil {
		return nil, &PersistenceError{Op: "thumbnail", Err: err}
	}
	defer resp.Body.Close()
	if err := checkStatus("thumbnail", resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) command(ctx context.Context, op, method, path string) error {
	resp, err := c.do(ctx, method, path, nil, nil)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	return checkStatus(op, resp)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader) (*http.Response, error) {
	u := *c.base
	u.Path += path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// checkStatus maps 404 to ErrNotFound and any other non-2xx status to a
// PersistenceError.
func checkStatus(op string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &PersistenceError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(msg)))}
	}
	return nil
}
