// Package persist stores and serves serialized sketches. It provides the
// Service contract used by sessions and galleries, in-memory and bbolt
// stores, a Local service over a store, an HTTP server and client, a
// websocket feed of new sketches and mDNS discovery of servers.
package persist

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Category selects and orders a gallery listing.
type Category string

const (
	// Featured lists featured sketches, newest first.
	Featured Category = "featured"
	// MostRecent lists every sketch, newest first.
	MostRecent Category = "mostrecent"
	// MostViewed lists every sketch by view count, highest first.
	MostViewed Category = "mostviewed"
)

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case Featured, MostRecent, MostViewed:
		return c, nil
	}
	return "", fmt.Errorf("unknown gallery category %q", s)
}

// Item is one stored sketch.
type Item struct {
	ID         string    `json:"id"`
	Serialized string    `json:"value"`
	CreatedAt  time.Time `json:"date"`
	Views      int       `json:"views"`
	Featured   bool      `json:"featured"`
	// Index is the insertion sequence number; higher is newer.
	Index uint64 `json:"index"`
}

// Service is the persistence contract. Identifiers are opaque strings.
type Service interface {
	Save(ctx context.Context, serialized string) (string, error)
	Load(ctx context.Context, id string) (string, error)
	ListGallery(ctx context.Context, category Category, offset, limit int) ([]Item, int, error)
}

// ErrNotFound is returned when no sketch has the requested identifier.
var ErrNotFound = errors.New("sketch not found")

// ErrEmptySketch is returned when saving a sketch without any lines.
var ErrEmptySketch = errors.New("sketch has no lines")

// PersistenceError reports a failed save, load or listing. Status is the
// HTTP status when the failure came from a remote server, zero otherwise.
type PersistenceError struct {
	Op     string
	Status int
	Err    error
}

func (e *PersistenceError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("persist %s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("persist %s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
	}
	return "persist " + e.Op
}

func (e *PersistenceError) Unwrap() error { return e.Err }
