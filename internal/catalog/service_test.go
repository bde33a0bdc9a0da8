package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/haisenberg98/brewgear-api/internal/store"
)

type countingQueries struct {
	items     []store.Item
	listCalls int
}

func (q *countingQueries) GetItemBySlug(_ context.Context, slug string) (store.Item, error) {
	for _, it := range q.items {
		if it.Slug == slug {
			return it, nil
		}
	}
	return store.Item{}, pgx.ErrNoRows
}

func (q *countingQueries) ListItems(_ context.Context, _ string, _, _ int32) ([]store.Item, error) {
	q.listCalls++
	return q.items, nil
}

func (q *countingQueries) ListItemSlugs(_ context.Context) ([]string, error) {
	slugs := make([]string, 0, len(q.items))
	for _, it := range q.items {
		slugs = append(slugs, it.Slug)
	}
	return slugs, nil
}

func (q *countingQueries) ListCategories(_ context.Context) ([]store.Category, error) {
	return nil, nil
}

func (q *countingQueries) GetProvider(_ context.Context, _ pgtype.UUID) (store.Provider, error) {
	return store.Provider{}, pgx.ErrNoRows
}

func newTestService(t *testing.T, q queries) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc, err := NewService(ServiceConfig{
		Queries: q,
		Cache:   NewCache(client, time.Minute),
	})
	require.NoError(t, err)
	return svc
}

func TestListItemsFrontPageIsCached(t *testing.T) {
	q := &countingQueries{items: []store.Item{{
		ID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Name:  "Comandante C40",
		Slug:  "comandante-c40",
		Price: 24_900,
		Stock: 3,
	}}}
	svc := newTestService(t, q)

	first, err := svc.ListItems(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.True(t, first[0].InStock)

	second, err := svc.ListItems(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, q.listCalls, "front page should be served from cache on repeat")
}

func TestListItemsFilteredBypassesCache(t *testing.T) {
	q := &countingQueries{}
	svc := newTestService(t, q)

	_, err := svc.ListItems(context.Background(), ListParams{Category: "grinders"})
	require.NoError(t, err)
	_, err = svc.ListItems(context.Background(), ListParams{Category: "grinders"})
	require.NoError(t, err)
	require.Equal(t, 2, q.listCalls, "filtered listings must not be cached")
}

func TestGetItemUnknownSlug(t *testing.T) {
	svc := newTestService(t, &countingQueries{})
	_, err := svc.GetItem(context.Background(), "nope")
	require.Error(t, err)
}
