package persist

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/scribble"
	"github.com/phanxgames/scribble/export"
)

func newTestServer(t *testing.T) (*Local, *Client, *httptest.Server) {
	t.Helper()
	local := newTestLocal(t)
	srv := httptest.NewServer(NewServer(local, nil, slog.New(slog.DiscardHandler)))
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return local, client, srv
}

func TestNewClientRejectsScheme(t *testing.T) {
	for _, u := range []string{"ftp://example.com", "://bad", "localhost:8080"} {
		if _, err := NewClient(u, nil); err == nil {
			t.Errorf("NewClient(%q) = nil error", u)
		}
	}
}

func TestClientFeedURL(t *testing.T) {
	tests := []struct{ base, want string }{
		{"http://localhost:8080", "ws://localhost:8080/feed"},
		{"https://sketch.example.com/api/", "wss://sketch.example.com/api/feed"},
	}
	for _, tt := range tests {
		c, err := NewClient(tt.base, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := c.FeedURL(); got != tt.want {
			t.Errorf("FeedURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

func TestServerSaveLoad(t *testing.T) {
	local, client, _ := newTestServer(t)
	ctx := context.Background()

	id, err := client.Save(ctx, legacyPayload)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	payload, err := client.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sk, err := scribble.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sk.Perspective != 0.5 || len(sk.Lines) != 1 || sk.Lines[0].Points[2].Normal != (scribble.Vec2{X: 30, Y: 25}) {
		t.Errorf("loaded sketch = %+v", sk)
	}
	it, _ := local.Peek(ctx, id)
	if it.Views != 1 {
		t.Errorf("Views = %d, want 1", it.Views)
	}
}

func TestServerSaveRejects(t *testing.T) {
	_, client, _ := newTestServer(t)
	ctx := context.Background()
	for _, payload := range []string{"not json", `{"l":[]}`, `{"p":1}`} {
		_, err := client.Save(ctx, payload)
		var pe *PersistenceError
		if !errors.As(err, &pe) || pe.Status != http.StatusBadRequest {
			t.Errorf("Save(%q) = %v, want status 400", payload, err)
		}
	}
}

func TestServerNotFound(t *testing.T) {
	_, client, _ := newTestServer(t)
	ctx := context.Background()
	if _, err := client.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load = %v, want ErrNotFound", err)
	}
	if err := client.Feature(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Feature = %v, want ErrNotFound", err)
	}
	if err := client.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete = %v, want ErrNotFound", err)
	}
	if _, err := client.Thumbnail(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Thumbnail = %v, want ErrNotFound", err)
	}
}

func TestServerGallery(t *testing.T) {
	_, client, _ := newTestServer(t)
	ctx := context.Background()
	var saved []string
	for i := 0; i < 3; i++ {
		id, err := client.Save(ctx, legacyPayload)
		if err != nil {
			t.Fatal(err)
		}
		saved = append(saved, id)
	}
	if err := client.Feature(ctx, saved[1]); err != nil {
		t.Fatalf("Feature: %v", err)
	}
	client.Load(ctx, saved[0])
	client.Load(ctx, saved[0])

	items, total, err := client.ListGallery(ctx, MostRecent, 0, 2)
	if err != nil {
		t.Fatalf("ListGallery: %v", err)
	}
	if total != 3 || len(items) != 2 || items[0].ID != saved[2] || items[1].ID != saved[1] {
		t.Errorf("most recent = %v (total %d)", ids(items), total)
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
	if _, err := scribble.Decode([]byte(items[0].Serialized)); err != nil {
		t.Errorf("gallery value does not decode: %v", err)
	}

	items, total, _ = client.ListGallery(ctx, Featured, 0, 10)
	if total != 1 || len(items) != 1 || items[0].ID != saved[1] || !items[0].Featured {
		t.Errorf("featured = %v (total %d)", ids(items), total)
	}

	items, _, _ = client.ListGallery(ctx, MostViewed, 0, 1)
	if len(items) != 1 || items[0].ID != saved[0] || items[0].Views != 2 {
		t.Errorf("most viewed = %+v", items)
	}
}

func TestServerGalleryBadQuery(t *testing.T) {
	_, _, srv := newTestServer(t)
	for _, q := range []string{
		"load=bogus&start=0&end=5",
		"load=featured&start=-1&end=5",
		"load=featured&start=0",
		"load=featured&start=x&end=5",
	} {
		resp, err := srv.Client().Get(srv.URL + "/gallery?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET /gallery?%s = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestServerDelete(t *testing.T) {
	_, client, _ := newTestServer(t)
	ctx := context.Background()
	id, _ := client.Save(ctx, legacyPayload)
	if err := client.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := client.Load(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after Delete = %v, want ErrNotFound", err)
	}
}

func TestServerThumbnail(t *testing.T) {
	_, client, _ := newTestServer(t)
	ctx := context.Background()
	id, _ := client.Save(ctx, legacyPayload)
	data, err := client.Thumbnail(ctx, id)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != export.ThumbnailWidth || b.Dy() != export.ThumbnailHeight {
		t.Errorf("thumbnail = %dx%d, want %dx%d", b.Dx(), b.Dy(), export.ThumbnailWidth, export.ThumbnailHeight)
	}
}

func TestServerPDF(t *testing.T) {
	_, client, srv := newTestServer(t)
	id, _ := client.Save(context.Background(), legacyPayload)
	resp, err := srv.Client().Get(srv.URL + "/sketches/" + id + "/sketch.pdf")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "%PDF") {
		t.Errorf("body starts with %q, want %%PDF", body[:min(8, len(body))])
	}
}

func TestServerMethodNotAllowed(t *testing.T) {
	_, _, srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/sketches", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("PUT /sketches = %d, want 405", resp.StatusCode)
	}
}

func TestClientLoadRejectsCorruptPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "corrupt")
	}))
	defer srv.Close()
	client, _ := NewClient(srv.URL, srv.Client())
	_, err := client.Load(context.Background(), "x")
	var de *scribble.DecodeError
	if !errors.As(err, &de) {
		t.Errorf("Load = %v, want *DecodeError", err)
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client, _ := NewClient(srv.URL, srv.Client())
	_, err := client.Save(context.Background(), legacyPayload)
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Status != http.StatusServiceUnavailable {
		t.Fatalf("Save = %v, want status 503", err)
	}
	if !strings.Contains(pe.Error(), "down for maintenance") {
		t.Errorf("error = %q, want server message", pe.Error())
	}
}

func TestSessionSavesThroughClient(t *testing.T) {
	_, client, _ := newTestServer(t)
	cfg := scribble.DefaultConfig()
	cfg.Seed = 7
	cfg.Logger = slog.New(slog.DiscardHandler)
	s := scribble.NewSession(cfg)
	var notices []scribble.Notice
	s.Notify = func(n scribble.Notice) { notices = append(notices, n) }

	s.InjectStroke(10, 10, 200, 40, 8)
	for s.InjectPending() > 0 {
		s.Update(1.0 / 60)
	}
	if !s.SaveAsync(context.Background(), client) {
		t.Fatal("SaveAsync = false")
	}
	for i := 0; s.Pending() > 0; i++ {
		if i > 5000 {
			t.Fatal("save never completed")
		}
		time.Sleep(time.Millisecond)
		s.Update(1.0 / 60)
	}
	if len(notices) != 1 || notices[0].Kind != scribble.NoticeSaved || s.LastID() == "" {
		t.Fatalf("notices = %+v", notices)
	}

	loaded := scribble.NewSession(cfg)
	loaded.LoadAsync(context.Background(), client, s.LastID())
	for i := 0; loaded.Pending() > 0; i++ {
		if i > 5000 {
			t.Fatal("load never completed")
		}
		time.Sleep(time.Millisecond)
		loaded.Update(1.0 / 60)
	}
	loaded.Replay().Finish()
	if got, want := loaded.Sketch().PointCount(), s.Sketch().PointCount(); got != want {
		t.Errorf("loaded points = %d, want %d", got, want)
	}
}
