package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DeliveryRepo persists delivery zones and their shipping methods.
type DeliveryRepo struct {
	DB Querier
}

const zoneColumns = `id, country_code, currency, free_threshold, active`

func scanZone(row pgx.Row) (DeliveryZone, error) {
	var z DeliveryZone
	err := row.Scan(&z.ID, &z.CountryCode, &z.Currency, &z.FreeThreshold, &z.Active)
	return z, err
}

// GetZoneByCountry fetches the active zone for a destination country.
func (r DeliveryRepo) GetZoneByCountry(ctx context.Context, countryCode string) (DeliveryZone, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+zoneColumns+` FROM delivery_zones WHERE country_code = $1 AND active`, countryCode)
	return scanZone(row)
}

// ListZones returns every zone, active or not, for the admin console.
func (r DeliveryRepo) ListZones(ctx context.Context) ([]DeliveryZone, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+zoneColumns+` FROM delivery_zones ORDER BY country_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DeliveryZone
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// CreateZoneParams carries the insertable fields of a delivery zone.
type CreateZoneParams struct {
	CountryCode   string
	Currency      string
	FreeThreshold int64
	Active        bool
}

// CreateZone inserts a delivery zone.
func (r DeliveryRepo) CreateZone(ctx context.Context, p CreateZoneParams) (DeliveryZone, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO delivery_zones (country_code, currency, free_threshold, active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+zoneColumns,
		p.CountryCode, p.Currency, p.FreeThreshold, p.Active)
	return scanZone(row)
}

// UpdateZone rewrites a zone's mutable fields.
func (r DeliveryRepo) UpdateZone(ctx context.Context, id pgtype.UUID, p CreateZoneParams) (DeliveryZone, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE delivery_zones
		SET country_code = $2, currency = $3, free_threshold = $4, active = $5
		WHERE id = $1
		RETURNING `+zoneColumns,
		id, p.CountryCode, p.Currency, p.FreeThreshold, p.Active)
	return scanZone(row)
}

const methodColumns = `id, zone_id, name, price, free_eligible, estimated_days, active, sort_order`

func scanMethod(row pgx.Row) (ShippingMethod, error) {
	var m ShippingMethod
	err := row.Scan(&m.ID, &m.ZoneID, &m.Name, &m.Price, &m.FreeEligible,
		&m.EstimatedDays, &m.Active, &m.SortOrder)
	return m, err
}

// ListMethods returns a zone's active methods in display order.
func (r DeliveryRepo) ListMethods(ctx context.Context, zoneID pgtype.UUID) ([]ShippingMethod, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+methodColumns+` FROM shipping_methods
		WHERE zone_id = $1 AND active
		ORDER BY sort_order, name`, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ShippingMethod
	for rows.Next() {
		m, err := scanMethod(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMethodParams carries the insertable fields of a shipping method.
type CreateMethodParams struct {
	ZoneID        pgtype.UUID
	Name          string
	Price         int64
	FreeEligible  bool
	EstimatedDays string
	Active        bool
	SortOrder     int32
}

// CreateMethod inserts a shipping method into a zone.
func (r DeliveryRepo) CreateMethod(ctx context.Context, p CreateMethodParams) (ShippingMethod, error) {
	row := r.DB.QueryRow(ctx, `
		INSERT INTO shipping_methods (zone_id, name, price, free_eligible, estimated_days, active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+methodColumns,
		p.ZoneID, p.Name, p.Price, p.FreeEligible, p.EstimatedDays, p.Active, p.SortOrder)
	return scanMethod(row)
}

// DeleteMethod removes a shipping method.
func (r DeliveryRepo) DeleteMethod(ctx context.Context, id pgtype.UUID) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM shipping_methods WHERE id = $1`, id)
	return err
}
