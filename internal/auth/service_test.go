package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/haisenberg98/brewgear-api/internal/store"
)

type memAdmins struct {
	admins map[string]store.AdminUser
}

func (m memAdmins) GetByEmail(_ context.Context, email string) (store.AdminUser, error) {
	if a, ok := m.admins[email]; ok {
		return a, nil
	}
	return store.AdminUser{}, pgx.ErrNoRows
}

func (m memAdmins) GetByID(_ context.Context, id pgtype.UUID) (store.AdminUser, error) {
	for _, a := range m.admins {
		if store.UUIDEqual(a.ID, id) {
			return a, nil
		}
	}
	return store.AdminUser{}, pgx.ErrNoRows
}

func newTestService(t *testing.T, password string) (*Service, store.AdminUser) {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	admin := store.AdminUser{
		ID:           pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Email:        "ops@brewgear.co.nz",
		PasswordHash: hash,
	}
	svc, err := NewService(Config{
		Admins: memAdmins{admins: map[string]store.AdminUser{admin.Email: admin}},
		Secret: "test-secret-test-secret-test-secret",
	})
	require.NoError(t, err)
	return svc, admin
}

func TestLoginAndParseToken(t *testing.T) {
	svc, admin := newTestService(t, "correct horse battery")

	result, err := svc.Login(context.Background(), "OPS@brewgear.co.nz", "correct horse battery")
	require.NoError(t, err)
	require.Equal(t, admin.Email, result.Admin.Email)
	require.NotEmpty(t, result.AccessToken)

	subject, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, store.UUIDString(admin.ID), subject)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, "correct horse battery")

	_, err := svc.Login(context.Background(), "ops@brewgear.co.nz", "wrong")
	require.Error(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, "correct horse battery")

	_, err := svc.Login(context.Background(), "nobody@brewgear.co.nz", "correct horse battery")
	require.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	svc, _ := newTestService(t, "correct horse battery")
	past := time.Now().Add(-48 * time.Hour)
	svc.WithNow(func() time.Time { return past })

	result, err := svc.Login(context.Background(), "ops@brewgear.co.nz", "correct horse battery")
	require.NoError(t, err)

	svc.WithNow(time.Now)
	_, err = svc.ParseAccessToken(result.AccessToken)
	require.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	svc, _ := newTestService(t, "correct horse battery")
	_, err := svc.ParseAccessToken("not.a.token")
	require.Error(t, err)
}
