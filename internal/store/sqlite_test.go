package store

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock shared by the store tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestSQLite_GetSet_RoundTrip(t *testing.T) {
	s := NewSQLite(setupTestDB(t), NamespaceHTML)
	ctx := context.Background()

	value := []byte("<html><h1>Dune</h1></html>")
	require.NoError(t, s.Set(ctx, "https://example.com/a", value, time.Hour))

	got, ok := s.Get(ctx, "https://example.com/a")
	assert.True(t, ok, "expected to find cached value")
	assert.Equal(t, value, got)
}

func TestSQLite_Get_NotFound(t *testing.T) {
	s := NewSQLite(setupTestDB(t), NamespaceHTML)

	got, ok := s.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestSQLite_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	s := NewSQLite(setupTestDB(t), NamespaceMovies, WithSQLiteClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "all", []byte("[]"), 8*time.Hour))

	clock.Advance(7*time.Hour + 59*time.Minute)
	_, ok := s.Get(ctx, "all")
	assert.True(t, ok, "entry should be valid at T+7h59m")

	clock.Advance(2 * time.Minute)
	_, ok = s.Get(ctx, "all")
	assert.False(t, ok, "entry should be expired at T+8h01m")
}

func TestSQLite_NoTTLNeverExpires(t *testing.T) {
	clock := newFakeClock()
	s := NewSQLite(setupTestDB(t), NamespaceRatings, WithSQLiteClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "dune", []byte("{}"), 0))
	clock.Advance(365 * 24 * time.Hour)

	_, ok := s.Get(ctx, "dune")
	assert.True(t, ok)
}

func TestSQLite_Overwrite(t *testing.T) {
	s := NewSQLite(setupTestDB(t), NamespaceHTML)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("one"), time.Hour))
	require.NoError(t, s.Set(ctx, "k", []byte("two"), time.Hour))

	got, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "two", string(got))
}

func TestSQLite_NamespacesAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	html := NewSQLite(db, NamespaceHTML)
	ratings := NewSQLite(db, NamespaceRatings)
	ctx := context.Background()

	require.NoError(t, html.Set(ctx, "k", []byte("html"), time.Hour))
	require.NoError(t, ratings.Set(ctx, "k", []byte("rating"), 0))

	require.NoError(t, html.Clear(ctx))

	_, ok := html.Get(ctx, "k")
	assert.False(t, ok)
	got, ok := ratings.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "rating", string(got))
}

func TestSQLite_Delete(t *testing.T) {
	s := NewSQLite(setupTestDB(t), NamespaceHTML)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Hour))
	require.NoError(t, s.Delete(ctx, "k"))

	_, ok := s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestSQLite_PruneAndStats(t *testing.T) {
	clock := newFakeClock()
	s := NewSQLite(setupTestDB(t), NamespaceHTML, WithSQLiteClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "long", []byte("b"), time.Hour))
	require.NoError(t, s.Set(ctx, "forever", []byte("c"), 0))
	clock.Advance(2 * time.Minute)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Entries)
	assert.Equal(t, int64(1), st.Expired)

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, ok := s.Get(ctx, "long")
	assert.True(t, ok)
	_, ok = s.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestCaches_ClearAllAndPruneAll(t *testing.T) {
	clock := newFakeClock()
	caches := NewSQLiteCaches(setupTestDB(t), WithSQLiteClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, caches.HTML.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, caches.Ratings.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, caches.Movies.Set(ctx, "c", []byte("3"), time.Hour))

	clock.Advance(2 * time.Minute)
	n, err := caches.PruneAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, caches.ClearAll(ctx))
	for _, s := range []Store{caches.HTML, caches.Ratings, caches.Movies} {
		_, ok := s.Get(ctx, "b")
		assert.False(t, ok)
		_, ok = s.Get(ctx, "c")
		assert.False(t, ok)
	}
}

func TestGetJSON_CorruptIsMiss(t *testing.T) {
	s := NewMemory(nil)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "bad", []byte("{not json"), 0))
	_, ok := GetJSON[map[string]int](ctx, s, "bad")
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, s, "good", map[string]int{"n": 1}, 0))
	got, ok := GetJSON[map[string]int](ctx, s, "good")
	assert.True(t, ok)
	assert.Equal(t, 1, got["n"])
}
