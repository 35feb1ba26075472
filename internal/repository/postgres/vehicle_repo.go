package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// VehicleRepo implements VehicleRepository using PostgreSQL.
type VehicleRepo struct{ db *DB }

// NewVehicleRepo constructs a vehicle repository.
func NewVehicleRepo(db *DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleColumns = `id, user_id, name, model, year, color, license_plate, status, location, last_updated, created_at`

// ListByOwner selects all vehicles of a user, newest first.
func (r *VehicleRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error) {
	const q = `
SELECT ` + vehicleColumns + `
FROM vehicles WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		var status string
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Model, &v.Year, &v.Color,
			&v.LicensePlate, &status, &v.Location, &v.LastUpdated, &v.CreatedAt); err != nil {
			return nil, err
		}
		v.Status = model.VehicleStatus(status)
		out = append(out, v)
	}
	return out, rows.Err()
}

// Get selects a single vehicle scoped by owner.
func (r *VehicleRepo) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Vehicle, error) {
	const q = `
SELECT ` + vehicleColumns + `
FROM vehicles WHERE id=$1 AND user_id=$2`
	row := r.db.Pool.QueryRow(ctx, q, id, ownerID)
	var v model.Vehicle
	var status string
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Model, &v.Year, &v.Color,
		&v.LicensePlate, &status, &v.Location, &v.LastUpdated, &v.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	v.Status = model.VehicleStatus(status)
	return &v, nil
}

// Create inserts a new vehicle row.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `
INSERT INTO vehicles (id, user_id, name, model, year, color, license_plate, status, location, last_updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Pool.Exec(ctx, q, v.ID, v.OwnerID, v.Name, v.Model, v.Year, v.Color,
		v.LicensePlate, string(v.Status), v.Location, v.LastUpdated)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// Update rewrites mutable vehicle fields, scoped by owner.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	const q = `
UPDATE vehicles
SET name=$3, model=$4, year=$5, color=$6, license_plate=$7, status=$8, location=$9, last_updated=$10
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, v.ID, v.OwnerID, v.Name, v.Model, v.Year, v.Color,
		v.LicensePlate, string(v.Status), v.Location, v.LastUpdated)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateStatus persists only the status and last_updated fields, scoped by owner.
func (r *VehicleRepo) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status model.VehicleStatus, at time.Time) error {
	const q = `
UPDATE vehicles
SET status=$3, last_updated=$4
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, ownerID, string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a vehicle, scoped by owner.
func (r *VehicleRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM vehicles WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
