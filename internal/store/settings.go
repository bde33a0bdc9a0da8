package store

import "context"

// SettingsRepo reads and writes the single global settings row.
type SettingsRepo struct {
	DB Querier
}

// MinimumOrder returns the global minimum order amount in minor units.
func (r SettingsRepo) MinimumOrder(ctx context.Context) (int64, error) {
	var amount int64
	err := r.DB.QueryRow(ctx,
		`SELECT minimum_order FROM settings WHERE id = 1`).Scan(&amount)
	return amount, err
}

// SetMinimumOrder updates the global minimum order amount.
func (r SettingsRepo) SetMinimumOrder(ctx context.Context, amount int64) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE settings SET minimum_order = $1, updated_at = now() WHERE id = 1`, amount)
	return err
}
