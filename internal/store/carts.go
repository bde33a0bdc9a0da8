package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CartRepo persists carts and their line items.
type CartRepo struct {
	DB Querier
}

const cartColumns = `id, anon_id, applied_discount_code, country, created_at, updated_at, expires_at`

func scanCart(row pgx.Row) (Cart, error) {
	var c Cart
	err := row.Scan(&c.ID, &c.AnonID, &c.AppliedDiscountCode, &c.Country,
		&c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	return c, err
}

// Create inserts a cart for the given anonymous session id.
func (r CartRepo) Create(ctx context.Context, anonID string, country string, expiresAt pgtype.Timestamptz) (Cart, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO carts (anon_id, country, expires_at)
		VALUES ($1, $2, $3)
		RETURNING `+cartColumns,
		anonID, country, expiresAt)
	return scanCart(row)
}

// Get fetches a cart by id.
func (r CartRepo) Get(ctx context.Context, id pgtype.UUID) (Cart, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
	return scanCart(row)
}

// GetByAnon fetches the newest unexpired cart for an anonymous session.
func (r CartRepo) GetByAnon(ctx context.Context, anonID string) (Cart, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+cartColumns+` FROM carts
		WHERE anon_id = $1 AND expires_at > now()
		ORDER BY created_at DESC LIMIT 1`, anonID)
	return scanCart(row)
}

// Touch extends the cart expiry after activity.
func (r CartRepo) Touch(ctx context.Context, id pgtype.UUID, expiresAt pgtype.Timestamptz) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE carts SET updated_at = now(), expires_at = $2 WHERE id = $1`, id, expiresAt)
	return err
}

// SetDiscountCode attaches or clears the applied discount code. Only the code
// is stored; the applied amount is derived at read time.
func (r CartRepo) SetDiscountCode(ctx context.Context, id pgtype.UUID, code pgtype.Text) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE carts SET applied_discount_code = $2, updated_at = now() WHERE id = $1`, id, code)
	return err
}

// DeleteExpired removes carts past their expiry and returns the count.
func (r CartRepo) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM carts WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const cartItemColumns = `id, cart_id, item_id, provider_id, name, unit_price, qty, created_at`

func scanCartItem(row pgx.Row) (CartItem, error) {
	var it CartItem
	err := row.Scan(&it.ID, &it.CartID, &it.ItemID, &it.ProviderID, &it.Name,
		&it.UnitPrice, &it.Qty, &it.CreatedAt)
	return it, err
}

// ListItems returns all lines for a cart in insertion order.
func (r CartRepo) ListItems(ctx context.Context, cartID pgtype.UUID) ([]CartItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+cartItemColumns+` FROM cart_items
		WHERE cart_id = $1 ORDER BY created_at`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartItem
	for rows.Next() {
		it, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// FindItem locates an existing line for the catalog item within a cart.
func (r CartRepo) FindItem(ctx context.Context, cartID, itemID pgtype.UUID) (CartItem, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT `+cartItemColumns+` FROM cart_items
		WHERE cart_id = $1 AND item_id = $2`, cartID, itemID)
	return scanCartItem(row)
}

// GetItem fetches a cart line by its id.
func (r CartRepo) GetItem(ctx context.Context, id pgtype.UUID) (CartItem, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, id)
	return scanCartItem(row)
}

// CreateItemParams carries the insertable fields of a cart line.
type CreateCartItemParams struct {
	CartID     pgtype.UUID
	ItemID     pgtype.UUID
	ProviderID pgtype.UUID
	Name       string
	UnitPrice  int64
	Qty        int32
}

// CreateItem inserts a new cart line.
func (r CartRepo) CreateItem(ctx context.Context, p CreateCartItemParams) (CartItem, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, item_id, provider_id, name, unit_price, qty)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+cartItemColumns,
		p.CartID, p.ItemID, p.ProviderID, p.Name, p.UnitPrice, p.Qty)
	return scanCartItem(row)
}

// UpdateItemQty sets the quantity for a cart line.
func (r CartRepo) UpdateItemQty(ctx context.Context, id pgtype.UUID, qty int32) error {
	_, err := r.DB.Exec(ctx, `UPDATE cart_items SET qty = $2 WHERE id = $1`, id, qty)
	return err
}

// DeleteItem removes a cart line, scoped to its cart.
func (r CartRepo) DeleteItem(ctx context.Context, cartID, id pgtype.UUID) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`, id, cartID)
	return err
}
