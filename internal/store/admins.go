package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// AdminRepo reads admin console accounts.
type AdminRepo struct {
	DB Querier
}

// GetByEmail fetches an admin account by email.
func (r AdminRepo) GetByEmail(ctx context.Context, email string) (AdminUser, error) {
	var a AdminUser
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admin_users WHERE email = $1`, email).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	return a, err
}

// GetByID fetches an admin account by id.
func (r AdminRepo) GetByID(ctx context.Context, id pgtype.UUID) (AdminUser, error) {
	var a AdminUser
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM admin_users WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	return a, err
}
