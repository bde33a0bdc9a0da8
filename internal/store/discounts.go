package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DiscountRepo persists discount rules.
type DiscountRepo struct {
	DB Querier
}

const discountColumns = `id, code, kind, value, percent_bps, max_usage, used_count, published, message, expires_at, created_at, updated_at`

func scanDiscount(row pgx.Row) (DiscountRule, error) {
	var d DiscountRule
	err := row.Scan(&d.ID, &d.Code, &d.Kind, &d.Value, &d.PercentBps, &d.MaxUsage,
		&d.UsedCount, &d.Published, &d.Message, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// GetByCode fetches a discount rule by its code regardless of publish state.
func (r DiscountRepo) GetByCode(ctx context.Context, code string) (DiscountRule, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+discountColumns+` FROM discount_rules WHERE code = $1`, code)
	return scanDiscount(row)
}

// List returns all discount rules newest first.
func (r DiscountRepo) List(ctx context.Context) ([]DiscountRule, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+discountColumns+` FROM discount_rules ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DiscountRule
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CreateParams carries the insertable fields of a discount rule.
type CreateDiscountParams struct {
	Code       string
	Kind       DiscountKind
	Value      int64
	PercentBps pgtype.Int4
	MaxUsage   int32
	Published  bool
	Message    string
	ExpiresAt  pgtype.Timestamptz
}

// Create inserts a new discount rule.
func (r DiscountRepo) Create(ctx context.Context, p CreateDiscountParams) (DiscountRule, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO discount_rules (code, kind, value, percent_bps, max_usage, published, message, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+discountColumns,
		p.Code, p.Kind, p.Value, p.PercentBps, p.MaxUsage, p.Published, p.Message, p.ExpiresAt)
	return scanDiscount(row)
}

// Update rewrites the mutable fields of an existing rule.
func (r DiscountRepo) Update(ctx context.Context, code string, p CreateDiscountParams) (DiscountRule, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE discount_rules
		SET kind = $2, value = $3, percent_bps = $4, max_usage = $5,
		    published = $6, message = $7, expires_at = $8, updated_at = now()
		WHERE code = $1
		RETURNING `+discountColumns,
		code, p.Kind, p.Value, p.PercentBps, p.MaxUsage, p.Published, p.Message, p.ExpiresAt)
	return scanDiscount(row)
}

// Redeem atomically consumes one use of the code. The usage check and the
// increment are a single statement, so two concurrent redemptions cannot both
// pass an exhausted cap. It reports whether a use was consumed.
func (r DiscountRepo) Redeem(ctx context.Context, code string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE discount_rules
		SET used_count = used_count + 1, updated_at = now()
		WHERE code = $1
		  AND published
		  AND used_count < max_usage
		  AND (expires_at IS NULL OR expires_at > now())`,
		code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
