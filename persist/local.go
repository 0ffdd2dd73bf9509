package persist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phanxgames/scribble"
)

// MaxGalleryPage caps the number of items a single listing may return.
const MaxGalleryPage = 100

// Local is a Service backed by a Store in the same process. Payloads are
// decoded before they are stored and kept in their canonical short-key
// form, so legacy payloads are normalized on the way in.
type Local struct {
	store  Store
	feed   *Feed
	logger *slog.Logger
	now    func() time.Time
}

// NewLocal returns a Local service over store. A nil logger uses
// slog.Default().
func NewLocal(store Store, logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{store: store, logger: logger, now: time.Now}
}

// SetFeed publishes every saved sketch to f.
func (l *Local) SetFeed(f *Feed) { l.feed = f }

// Store returns the underlying store.
func (l *Local) Store() Store { return l.store }

// Save validates and stores serialized, returning its new identifier. A
// payload that cannot be decoded fails with *scribble.DecodeError.
func (l *Local) Save(ctx context.Context, serialized string) (string, error) {
	sk, err := scribble.Decode([]byte(serialized))
	if err != nil {
		return "", err
	}
	if len(sk.Lines) == 0 {
		return "", &PersistenceError{Op: "save", Err: ErrEmptySketch}
	}
	canonical, err := scribble.Encode(sk)
	if err != nil {
		return "", &PersistenceError{Op: "save", Err: err}
	}
	it, err := l.store.Put(ctx, Item{
		ID:         uuid.NewString(),
		Serialized: string(canonical),
		CreatedAt:  l.now().UTC(),
	})
	if err != nil {
		return "", &PersistenceError{Op: "save", Err: err}
	}
	l.logger.Info("sketch stored", "id", it.ID, "lines", len(sk.Lines), "points", sk.PointCount())
	if l.feed != nil {
		l.feed.Publish(FeedEvent{Type: FeedSaved, ID: it.ID, Date: it.CreatedAt})
	}
	return it.ID, nil
}

// Load returns the stored payload and counts a view.
func (l *Local) Load(ctx context.Context, id string) (string, error) {
	it, err := l.store.IncrementViews(ctx, id)
	if err != nil {
		return "", wrapStoreErr("load", err)
	}
	return it.Serialized, nil
}

// Peek returns the stored item without counting a view.
func (l *Local) Peek(ctx context.Context, id string) (Item, error) {
	it, err := l.store.Get(ctx, id)
	if err != nil {
		return Item{}, wrapStoreErr("peek", err)
	}
	return it, nil
}

// Sketch decodes the stored sketch without counting a view.
func (l *Local) Sketch(ctx context.Context, id string) (*scribble.Sketch, error) {
	it, err := l.Peek(ctx, id)
	if err != nil {
		return nil, err
	}
	return scribble.Decode([]byte(it.Serialized))
}

// ListGallery returns one page of a category and the category size.
func (l *Local) ListGallery(ctx context.Context, category Category, offset, limit int) ([]Item, int, error) {
	if _, err := ParseCategory(string(category)); err != nil {
		return nil, 0, &PersistenceError{Op: "list", Err: err}
	}
	if offset < 0 || limit < 0 {
		return nil, 0, &PersistenceError{Op: "list", Err: errors.New("negative offset or limit")}
	}
	limit = min(limit, MaxGalleryPage)
	items, total, err := l.store.List(ctx, category, offset, limit)
	if err != nil {
		return nil, 0, wrapStoreErr("list", err)
	}
	return items, total, nil
}

// Feature marks a sketch as featured.
func (l *Local) Feature(ctx context.Context, id string) error {
	if err := l.store.SetFeatured(ctx, id, true); err != nil {
		return wrapStoreErr("feature", err)
	}
	l.logger.Info("sketch featured", "id", id)
	if l.feed != nil {
		l.feed.Publish(FeedEvent{Type: FeedFeatured, ID: id, Date: l.now().UTC()})
	}
	return nil
}

// Delete removes a sketch.
func (l *Local) Delete(ctx context.Context, id string) error {
	if err := l.store.Delete(ctx, id); err != nil {
		return wrapStoreErr("delete", err)
	}
	l.logger.Info("sketch deleted", "id", id)
	if l.feed != nil {
		l.feed.Publish(FeedEvent{Type: FeedDeleted, ID: id, Date: l.now().UTC()})
	}
	return nil
}

// wrapStoreErr passes ErrNotFound through and wraps everything else.
func wrapStoreErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &PersistenceError{Op: op, Err: err}
}
