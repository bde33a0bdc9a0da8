package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// NewsletterRepo persists newsletter subscriptions.
type NewsletterRepo struct {
	DB Querier
}

// Subscribe inserts a subscriber. Duplicate emails surface the underlying
// unique-violation error for the service layer to map.
func (r NewsletterRepo) Subscribe(ctx context.Context, email string) (Subscriber, error) {
	var s Subscriber
	err := r.DB.QueryRow(ctx, `
		INSERT INTO newsletter_subscribers (email)
		VALUES ($1)
		RETURNING id, email, created_at`, email).
		Scan(&s.ID, &s.Email, &s.CreatedAt)
	return s, err
}

// GetByEmail fetches a subscriber row.
func (r NewsletterRepo) GetByEmail(ctx context.Context, email string) (Subscriber, error) {
	var s Subscriber
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, created_at FROM newsletter_subscribers WHERE email = $1`, email).
		Scan(&s.ID, &s.Email, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return Subscriber{}, err
	}
	return s, err
}
