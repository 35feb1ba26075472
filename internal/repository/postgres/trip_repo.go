package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// TripRepo implements TripRepository using PostgreSQL.
type TripRepo struct{ db *DB }

// NewTripRepo constructs a trip repository.
func NewTripRepo(db *DB) *TripRepo { return &TripRepo{db: db} }

// ListByVehicle selects trips of a vehicle, most recent first.
func (r *TripRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.Trip, error) {
	const q = `
SELECT id, vehicle_id, start_location, end_location, start_time, end_time, distance, duration, created_at
FROM trips WHERE vehicle_id=$1
ORDER BY start_time DESC`
	rows, err := r.db.Pool.Query(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Trip{}
	for rows.Next() {
		var t model.Trip
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.StartLocation, &t.EndLocation,
			&t.StartTime, &t.EndTime, &t.DistanceKM, &t.DurationMin, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts a new trip row.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
	const q = `
INSERT INTO trips (id, vehicle_id, start_location, end_location, start_time, end_time, distance, duration)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.VehicleID, t.StartLocation, t.EndLocation,
		t.StartTime, t.EndTime, t.DistanceKM, t.DurationMin)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}
