package persist

import (
	"context"
	"sort"
)

// Store is the storage backend under a Local service.
type Store interface {
	// Put stores a new item, assigning its Index, and returns it.
	Put(ctx context.Context, item Item) (Item, error)
	Get(ctx context.Context, id string) (Item, error)
	// IncrementViews bumps the view count and returns the updated item.
	IncrementViews(ctx context.Context, id string) (Item, error)
	List(ctx context.Context, category Category, offset, limit int) ([]Item, int, error)
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// selectGallery filters, orders and pages items for a category. It returns
// the page and the number of items matching the category.
func selectGallery(items []Item, category Category, offset, limit int) ([]Item, int) {
	matched := items[:0:0]
	for _, it := range items {
		if category == Featured && !it.Featured {
			continue
		}
		matched = append(matched, it)
	}
	switch category {
	case MostViewed:
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].Views != matched[j].Views {
				return matched[i].Views > matched[j].Views
			}
			return matched[i].Index > matched[j].Index
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Index > matched[j].Index
		})
	}
	total := len(matched)
	if offset < 0 {
		offset = 0
	}
	if offset >= total || limit <= 0 {
		return []Item{}, total
	}
	end := min(offset+limit, total)
	return matched[offset:end], total
}
