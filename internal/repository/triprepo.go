package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// TripRepository provides access to recorded trips. Ownership is checked one
// level up through the vehicle.
type TripRepository interface {
	// ListByVehicle returns trips of a vehicle, most recent first.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]model.Trip, error)
	// Create inserts a new trip.
	Create(ctx context.Context, t *model.Trip) error
}
