package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/haisenberg98/brewgear-api/internal/common"
	"github.com/haisenberg98/brewgear-api/internal/pricing"
	"github.com/haisenberg98/brewgear-api/internal/store"
)

type queries interface {
	GetItemBySlug(ctx context.Context, slug string) (store.Item, error)
	ListItems(ctx context.Context, categorySlug string, limit, offset int32) ([]store.Item, error)
	ListItemSlugs(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]store.Category, error)
	GetProvider(ctx context.Context, id pgtype.UUID) (store.Provider, error)
}

// Service orchestrates catalog queries, DTO assembly, and caching.
type Service struct {
	queries      queries
	cache        *Cache
	defaultLimit int32
	maxLimit     int32
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries      queries
	Cache        *Cache
	DefaultLimit int32
	MaxLimit     int32
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 24
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		queries:      cfg.Queries,
		cache:        cfg.Cache,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// ItemView is the public shape of a catalog item.
type ItemView struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Slug    string        `json:"slug"`
	Price   pricing.Money `json:"price"`
	Display string        `json:"display,omitempty"`
	InStock bool          `json:"inStock"`
}

// ItemDetail adds provider delivery info to the public item shape.
type ItemDetail struct {
	ItemView
	ProviderName string `json:"providerName,omitempty"`
	DeliveryDays string `json:"deliveryDays,omitempty"`
}

// CategoryView is the public shape of a category.
type CategoryView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListParams captures filters for item listing.
type ListParams struct {
	Category string
	Limit    int32
	Offset   int32
}

// Normalize clamps paging values into the configured bounds.
func (s *Service) Normalize(p ListParams) ListParams {
	if p.Limit < 1 {
		p.Limit = s.defaultLimit
	}
	if p.Limit > s.maxLimit {
		p.Limit = s.maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	p.Category = strings.TrimSpace(p.Category)
	return p
}

// ListItems returns published items, served from cache for the unfiltered
// first page.
func (s *Service) ListItems(ctx context.Context, p ListParams) ([]ItemView, error) {
	p = s.Normalize(p)
	key, cacheable := s.listCacheKey(p)
	if cacheable {
		var cached []ItemView
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListItems(ctx, p.Category, p.Limit, p.Offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]ItemView, 0, len(rows))
	for _, row := range rows {
		out = append(out, itemView(row))
	}
	if cacheable {
		_ = s.cache.SetJSON(ctx, key, out)
	}
	return out, nil
}

// GetItem returns the detail payload for a published item by slug.
func (s *Service) GetItem(ctx context.Context, slug string) (ItemDetail, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ItemDetail{}, &common.AppError{Code: "BAD_REQUEST", Message: "slug is required", HTTPStatus: http.StatusBadRequest}
	}
	key := detailCacheKey(slug)
	var cached ItemDetail
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	item, err := s.queries.GetItemBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ItemDetail{}, &common.AppError{Code: "NOT_FOUND", Message: "item not found", HTTPStatus: http.StatusNotFound, Err: err}
		}
		return ItemDetail{}, fmt.Errorf("get item by slug: %w", err)
	}
	detail := ItemDetail{ItemView: itemView(item)}
	if item.ProviderID.Valid {
		if provider, err := s.queries.GetProvider(ctx, item.ProviderID); err == nil {
			detail.ProviderName = provider.Name
			if provider.MinDeliveryDays.Valid && provider.MaxDeliveryDays.Valid {
				detail.DeliveryDays = fmt.Sprintf("%d-%d", provider.MinDeliveryDays.Int32, provider.MaxDeliveryDays.Int32)
			}
		}
	}
	_ = s.cache.SetJSON(ctx, key, detail)
	return detail, nil
}

// ListCategories returns all categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryView, error) {
	const key = "catalog:categories"
	var cached []CategoryView
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]CategoryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, CategoryView{ID: store.UUIDString(row.ID), Name: row.Name, Slug: row.Slug})
	}
	_ = s.cache.SetJSON(ctx, key, out)
	return out, nil
}

// ItemSlugs returns every published item slug, for sitemap generation.
func (s *Service) ItemSlugs(ctx context.Context) ([]string, error) {
	return s.queries.ListItemSlugs(ctx)
}

func itemView(it store.Item) ItemView {
	return ItemView{
		ID:      store.UUIDString(it.ID),
		Name:    it.Name,
		Slug:    it.Slug,
		Price:   it.Price,
		InStock: it.Stock > 0,
	}
}

func (s *Service) listCacheKey(p ListParams) (string, bool) {
	if p.Category != "" || p.Offset != 0 || p.Limit != s.defaultLimit {
		return "", false
	}
	return "catalog:items:front", true
}

func detailCacheKey(slug string) string {
	return "catalog:items:detail:" + slug
}
