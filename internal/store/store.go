// Package store provides the key-value caches used by the pipeline:
// raw HTML by URL, rating lookups by title, and aggregated movie lists.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Cache namespaces.
const (
	NamespaceHTML    = "html"
	NamespaceRatings = "ratings"
	NamespaceMovies  = "movies"
)

// Store is a TTL-aware key-value cache. A ttl <= 0 never expires.
// Get reports false for missing and expired keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Pruner is implemented by stores that can drop expired entries eagerly.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Clock returns the current time.
type Clock func() time.Time

// GetJSON decodes a cached JSON value. Undecodable entries are reported as a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var v T
	data, ok := s.Get(ctx, key)
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// SetJSON encodes v as JSON and stores it.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data, ttl)
}

func expiry(now time.Time, ttl time.Duration) (time.Time, bool) {
	if ttl <= 0 {
		return time.Time{}, false
	}
	return now.Add(ttl), true
}

// Caches groups the three named stores the pipeline works with.
type Caches struct {
	HTML    Store
	Ratings Store
	Movies  Store
}

// NewSQLiteCaches creates the three namespaced stores on one database.
func NewSQLiteCaches(db *sql.DB, opts ...SQLiteOption) Caches {
	return Caches{
		HTML:    NewSQLite(db, NamespaceHTML, opts...),
		Ratings: NewSQLite(db, NamespaceRatings, opts...),
		Movies:  NewSQLite(db, NamespaceMovies, opts...),
	}
}

// NewMemoryCaches creates three independent in-memory stores.
func NewMemoryCaches(now Clock) Caches {
	return Caches{
		HTML:    NewMemory(now),
		Ratings: NewMemory(now),
		Movies:  NewMemory(now),
	}
}

// ClearAll empties every store.
func (c Caches) ClearAll(ctx context.Context) error {
	for name, s := range c.named() {
		if err := s.Clear(ctx); err != nil {
			return fmt.Errorf("clear %s cache: %w", name, err)
		}
	}
	return nil
}

// PruneAll drops expired entries from stores that support it.
func (c Caches) PruneAll(ctx context.Context) (int64, error) {
	var total int64
	for name, s := range c.named() {
		p, ok := s.(Pruner)
		if !ok {
			continue
		}
		n, err := p.Prune(ctx)
		if err != nil {
			return total, fmt.Errorf("prune %s cache: %w", name, err)
		}
		total += n
	}
	return total, nil
}

func (c Caches) named() map[string]Store {
	return map[string]Store{
		NamespaceHTML:    c.HTML,
		NamespaceRatings: c.Ratings,
		NamespaceMovies:  c.Movies,
	}
}
