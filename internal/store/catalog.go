package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CatalogRepo reads catalog items, categories and providers.
type CatalogRepo struct {
	DB Querier
}

const itemColumns = `id, category_id, provider_id, name, slug, price, stock, published, created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.CategoryID, &it.ProviderID, &it.Name, &it.Slug,
		&it.Price, &it.Stock, &it.Published, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// GetItem fetches a published item by id for cart additions.
func (r CatalogRepo) GetItem(ctx context.Context, id pgtype.UUID) (Item, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = $1 AND published`, id)
	return scanItem(row)
}

// GetItemBySlug fetches a published item by slug for detail pages.
func (r CatalogRepo) GetItemBySlug(ctx context.Context, slug string) (Item, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM items WHERE slug = $1 AND published`, slug)
	return scanItem(row)
}

// ListItems returns published items, optionally filtered by category slug.
func (r CatalogRepo) ListItems(ctx context.Context, categorySlug string, limit, offset int32) ([]Item, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if categorySlug != "" {
		rows, err = r.DB.Query(ctx, `
			SELECT `+prefixed(itemColumns, "i.")+` FROM items i
			JOIN categories c ON c.id = i.category_id
			WHERE i.published AND c.slug = $1
			ORDER BY i.created_at DESC LIMIT $2 OFFSET $3`,
			categorySlug, limit, offset)
	} else {
		rows, err = r.DB.Query(ctx, `
			SELECT `+itemColumns+` FROM items WHERE published
			ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListItemSlugs returns the slugs of all published items for sitemap generation.
func (r CatalogRepo) ListItemSlugs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT slug FROM items WHERE published ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		out = append(out, slug)
	}
	return out, rows.Err()
}

// ListCategories returns all categories in sort order.
func (r CatalogRepo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, slug, sort_order FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const providerColumns = `id, name, min_delivery_days, max_delivery_days, active`

// GetProvider fetches a provider row by id.
func (r CatalogRepo) GetProvider(ctx context.Context, id pgtype.UUID) (Provider, error) {
	var p Provider
	err := r.DB.QueryRow(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.MinDeliveryDays, &p.MaxDeliveryDays, &p.Active)
	return p, err
}

// ListProviders returns providers for the given ids, skipping unknown ones.
func (r CatalogRepo) ListProviders(ctx context.Context, ids []pgtype.UUID) ([]Provider, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Provider
	for rows.Next() {
		var p Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.MinDeliveryDays, &p.MaxDeliveryDays, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func prefixed(columns, prefix string) string {
	out := ""
	start := 0
	for i := 0; i <= len(columns); i++ {
		if i == len(columns) || columns[i] == ',' {
			col := columns[start:i]
			for len(col) > 0 && col[0] == ' ' {
				col = col[1:]
			}
			if out != "" {
				out += ", "
			}
			out += prefix + col
			start = i + 1
		}
	}
	return out
}
