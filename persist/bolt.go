package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sketchBucket = []byte("sketches")

// BoltStore keeps sketches in a bbolt database file, one JSON record per
// sketch keyed by its identifier.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sketchBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Put(_ context.Context, item Item) (Item, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sketchBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		item.Index = seq
		return putItem(b, item)
	})
	if err != nil {
		return Item{}, fmt.Errorf("put %s: %w", item.ID, err)
	}
	return item, nil
}

func (s *BoltStore) Get(_ context.Context, id string) (Item, error) {
	var it Item
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		it, err = getItem(tx.Bucket(sketchBucket), id)
		return err
	})
	return it, err
}

func (s *BoltStore) IncrementViews(_ context.Context, id string) (Item, error) {
	var it Item
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sketchBucket)
		var err error
		if it, err = getItem(b, id); err != nil {
			return err
		}
		it.Views++
		return putItem(b, it)
	})
	return it, err
}

func (s *BoltStore) List(_ context.Context, category Category, offset, limit int) ([]Item, int, error) {
	var all []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sketchBucket).ForEach(func(_, v []byte) error {
			var it Item
			if err := json.Unmarshal(v, &it); err != nil {
				return err
			}
			all = append(all, it)
			return nil
		})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", category, err)
	}
	page, total := selectGallery(all, category, offset, limit)
	return page, total, nil
}

func (s *BoltStore) SetFeatured(_ context.Context, id string, featured bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sketchBucket)
		it, err := getItem(b, id)
		if err != nil {
			return err
		}
		it.Featured = featured
		return putItem(b, it)
	})
}

func (s *BoltStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sketchBucket)
		if b.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func getItem(b *bolt.Bucket, id string) (Item, error) {
	v := b.Get([]byte(id))
	if v == nil {
		return Item{}, ErrNotFound
	}
	var it Item
	if err := json.Unmarshal(v, &it); err != nil {
		return Item{}, fmt.Errorf("get %s: %w", id, err)
	}
	return it, nil
}

func putItem(b *bolt.Bucket, it Item) error {
	if it.ID == "" {
		return errors.New("empty sketch id")
	}
	v, err := json.Marshal(it)
	if err != nil {
		return err
	}
	return b.Put([]byte(it.ID), v)
}
