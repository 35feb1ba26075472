package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// VehicleRepository provides owner-scoped access to vehicles. Every read and
// write carries the owner ID; rows of other users are indistinguishable from
// missing rows.
type VehicleRepository interface {
	// ListByOwner returns all vehicles of a user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error)
	// Get returns a single vehicle by ID.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Vehicle, error)
	// Create inserts a new vehicle.
	Create(ctx context.Context, v *model.Vehicle) error
	// Update rewrites mutable vehicle fields.
	Update(ctx context.Context, v *model.Vehicle) error
	// UpdateStatus persists the status and last_updated fields only.
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status model.VehicleStatus, at time.Time) error
	// Delete removes a vehicle.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
