package store

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DiscountKind enumerates discount rule variants as stored.
type DiscountKind string

const (
	DiscountKindFlat    DiscountKind = "flat"
	DiscountKindPercent DiscountKind = "percent"
)

// DiscountRule is an admin-managed discount code row.
type DiscountRule struct {
	ID         pgtype.UUID
	Code       string
	Kind       DiscountKind
	Value      int64
	PercentBps pgtype.Int4
	MaxUsage   int32
	UsedCount  int32
	Published  bool
	Message    string
	ExpiresAt  pgtype.Timestamptz
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

// Cart is a session-scoped cart row. Totals are never stored; they are
// recomputed from the items on every read.
type Cart struct {
	ID                  pgtype.UUID
	AnonID              pgtype.Text
	AppliedDiscountCode pgtype.Text
	Country             string
	CreatedAt           pgtype.Timestamptz
	UpdatedAt           pgtype.Timestamptz
	ExpiresAt           pgtype.Timestamptz
}

// CartItem is a single cart line. Subtotal is intentionally absent.
type CartItem struct {
	ID         pgtype.UUID
	CartID     pgtype.UUID
	ItemID     pgtype.UUID
	ProviderID pgtype.UUID
	Name       string
	UnitPrice  int64
	Qty        int32
	CreatedAt  pgtype.Timestamptz
}

// Item is a catalog item row.
type Item struct {
	ID         pgtype.UUID
	CategoryID pgtype.UUID
	ProviderID pgtype.UUID
	Name       string
	Slug       string
	Price      int64
	Stock      int32
	Published  bool
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

// Category is a catalog category row.
type Category struct {
	ID        pgtype.UUID
	Name      string
	Slug      string
	SortOrder int32
}

// Provider is a supplier whose delivery window is shown per cart line.
type Provider struct {
	ID              pgtype.UUID
	Name            string
	MinDeliveryDays pgtype.Int4
	MaxDeliveryDays pgtype.Int4
	Active          bool
}

// DeliveryZone groups shipping methods per destination country.
type DeliveryZone struct {
	ID            pgtype.UUID
	CountryCode   string
	Currency      string
	FreeThreshold int64
	Active        bool
}

// ShippingMethod is one delivery option within a zone.
type ShippingMethod struct {
	ID            pgtype.UUID
	ZoneID        pgtype.UUID
	Name          string
	Price         int64
	FreeEligible  bool
	EstimatedDays string
	Active        bool
	SortOrder     int32
}

// AdminUser is a console account with an argon2id password hash.
type AdminUser struct {
	ID           pgtype.UUID
	Email        string
	PasswordHash string
	CreatedAt    pgtype.Timestamptz
}

// Subscriber is a newsletter signup row.
type Subscriber struct {
	ID        pgtype.UUID
	Email     string
	CreatedAt pgtype.Timestamptz
}

// ToUUID converts a string representation of a UUID into pgtype.UUID.
func ToUUID(value string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(value)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}

// UUIDString converts a pgtype.UUID into its canonical string form.
func UUIDString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

// UUIDValue converts a pgtype.UUID into a google/uuid value.
func UUIDValue(id pgtype.UUID) uuid.UUID {
	if !id.Valid {
		return uuid.Nil
	}
	return uuid.UUID(id.Bytes)
}

// UUIDEqual reports whether two UUID values are both valid and identical.
func UUIDEqual(a, b pgtype.UUID) bool {
	if !a.Valid || !b.Valid {
		return false
	}
	return a.Bytes == b.Bytes
}
