package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
)

// recordingCache is an in-memory cache.Cache that records every call so
// tests can assert the read-through and invalidation behavior.
type recordingCache struct {
	store           map[string][]byte
	sets            []string
	deletes         []string
	deletedPatterns []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: map[string][]byte{}}
}

func (c *recordingCache) prime(t *testing.T, key string, value interface{}) {
	t.Helper()
	data, err := json.Marshal(value)
	require.NoError(t, err)
	c.store[key] = data
}

func (c *recordingCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *recordingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = data
	c.sets = append(c.sets, key)
	return nil
}

func (c *recordingCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.store, key)
		c.deletes = append(c.deletes, key)
	}
	return nil
}

func (c *recordingCache) DeletePattern(_ context.Context, pattern string) error {
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.store {
		if strings.HasPrefix(key, prefix) {
			delete(c.store, key)
		}
	}
	return nil
}

func (c *recordingCache) Ping(_ context.Context) error { return nil }

// rowFunc adapts a scan function to pgx.Row.
type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func userRow(u model.User) rowFunc {
	return func(dest ...any) error {
		*(dest[0].(*int64)) = u.ID
		*(dest[1].(*string)) = u.Username
		*(dest[2].(*string)) = u.Email
		*(dest[3].(*string)) = u.Password
		*(dest[4].(*time.Time)) = u.CreatedAt
		return nil
	}
}

// userRows is a canned pgx.Rows over user rows.
type userRows struct {
	users []model.User
	i     int
}

func (r *userRows) Next() bool {
	if r.i >= len(r.users) {
		return false
	}
	r.i++
	return true
}

func (r *userRows) Scan(dest ...any) error {
	return userRow(r.users[r.i-1])(dest...)
}

func (r *userRows) Close()                                       {}
func (r *userRows) Err() error                                   { return nil }
func (r *userRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *userRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *userRows) Values() ([]any, error)                       { return nil, nil }
func (r *userRows) RawValues() [][]byte                          { return nil }
func (r *userRows) Conn() *pgx.Conn                              { return nil }

// stubQuerier returns canned results; tests that must not reach the
// database leave the fields nil so any access panics the test.
type stubQuerier struct {
	row  pgx.Row
	rows pgx.Rows
}

func (s stubQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row { return s.row }

func (s stubQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return s.rows, nil
}

func (s stubQuerier) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

var cachedAlice = model.User{
	ID:        5,
	Username:  "alice",
	Email:     "alice@example.com",
	Password:  "secret",
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

func TestGetByIDServedFromCache(t *testing.T) {
	c := newRecordingCache()
	c.prime(t, "users:5", cachedAlice)

	// No db stub: a query would panic, proving the cache short-circuits.
	r := &postgresRepository{cache: c, ttl: time.Hour}

	got, err := r.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, cachedAlice, *got)
	assert.Empty(t, c.sets)
}

func TestGetByIDCacheMissPopulatesCache(t *testing.T) {
	c := newRecordingCache()
	r := &postgresRepository{
		db:    stubQuerier{row: userRow(cachedAlice)},
		cache: c,
		ttl:   time.Hour,
	}

	got, err := r.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, cachedAlice, *got)
	assert.Equal(t, []string{"users:5"}, c.sets)
}

func TestGetByIDCacheMissNotFound(t *testing.T) {
	c := newRecordingCache()
	r := &postgresRepository{
		db:    stubQuerier{row: rowFunc(func(_ ...any) error { return pgx.ErrNoRows })},
		cache: c,
		ttl:   time.Hour,
	}

	_, err := r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Empty(t, c.sets)
}

func TestGetByIDInTxSkipsCache(t *testing.T) {
	c := newRecordingCache()
	stale := cachedAlice
	stale.Username = "stale"
	c.prime(t, "users:5", stale)

	r := &postgresRepository{
		db:    stubQuerier{row: userRow(cachedAlice)},
		cache: c,
		ttl:   time.Hour,
		inTx:  true,
	}

	got, err := r.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Empty(t, c.sets)
}

func TestListCacheKeyDeterministic(t *testing.T) {
	assert.Equal(t, "users:list:2:10", ListCacheKey(pagination.Normalize(2, 10)))
	assert.Equal(t, "users:list:1:10", ListCacheKey(pagination.Normalize(0, 0)))
}

func TestListReadThrough(t *testing.T) {
	c := newRecordingCache()
	r := &postgresRepository{
		db:    stubQuerier{rows: &userRows{users: []model.User{cachedAlice}}},
		cache: c,
		ttl:   time.Hour,
	}

	p := pagination.Normalize(1, 10)

	first, err := r.List(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, []string{"users:list:1:10"}, c.sets)

	// Second call is served from the cache; the nil-rows db would fail.
	r.db = stubQuerier{}
	second, err := r.List(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// A user update or delete must clear the whole posts keyspace: cached
// post items embed the author, and a cascade delete removes rows whose
// posts:<id> entries would otherwise outlive them.
func TestUserMutationInvalidationCoversPostItems(t *testing.T) {
	c := newRecordingCache()
	c.prime(t, "users:3", cachedAlice)
	c.prime(t, "users:list:1:10", []model.User{cachedAlice})
	c.prime(t, "posts:7", map[string]interface{}{"id": 7, "author_id": 3})
	c.prime(t, "posts:list:1:10", []map[string]interface{}{})

	r := &postgresRepository{cache: c, ttl: time.Hour}

	r.invalidateUserCache(context.Background(), 3)
	r.invalidateListCaches(context.Background())
	r.invalidatePostCaches(context.Background())

	assert.Contains(t, c.deletes, "users:3")
	assert.Contains(t, c.deletedPatterns, "users:list:*")
	assert.Contains(t, c.deletedPatterns, "posts:*")

	assert.NotContains(t, c.store, "posts:7")
	assert.NotContains(t, c.store, "posts:list:1:10")
	assert.NotContains(t, c.store, "users:list:1:10")
}
