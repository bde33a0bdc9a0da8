package newsletter

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/haisenberg98/brewgear-api/internal/store"
)

// ErrAlreadySubscribed indicates the email is already on the list.
var ErrAlreadySubscribed = errors.New("email already subscribed")

// ErrInvalidEmail indicates the address failed validation.
var ErrInvalidEmail = errors.New("invalid email address")

// Store captures the repository methods used by the newsletter service.
type Store interface {
	Subscribe(ctx context.Context, email string) (store.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (store.Subscriber, error)
}

// Enqueuer schedules the welcome email for async delivery.
type Enqueuer interface {
	EnqueueWelcomeEmail(ctx context.Context, email string) error
}

// Service handles newsletter signups.
type Service struct {
	S      Store
	Tasks  Enqueuer
	Logger *zerolog.Logger
}

// Subscribe validates and stores an email, then schedules the welcome email.
// A failed enqueue does not fail the signup.
func (s *Service) Subscribe(ctx context.Context, email string) (store.Subscriber, error) {
	if s == nil || s.S == nil {
		return store.Subscriber{}, errors.New("newsletter service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return store.Subscriber{}, ErrInvalidEmail
	}
	sub, err := s.S.Subscribe(ctx, email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return store.Subscriber{}, ErrAlreadySubscribed
		}
		return store.Subscriber{}, fmt.Errorf("subscribe: %w", err)
	}
	if s.Tasks != nil {
		if err := s.Tasks.EnqueueWelcomeEmail(ctx, email); err != nil && s.Logger != nil {
			s.Logger.Error().Err(err).Str("email", email).Msg("enqueue welcome email")
		}
	}
	return sub, nil
}
