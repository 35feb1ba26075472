package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
	"github.com/avtokontrol/avtokontrol/internal/repository"
)

// VehicleService defines owner-scoped operations over the fleet.
type VehicleService interface {
	// List returns all vehicles of the owner.
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error)
	// Get returns a single vehicle of the owner.
	Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Vehicle, error)
	// Create validates and inserts a new vehicle, assigning its ID.
	Create(ctx context.Context, ownerID uuid.UUID, v *model.Vehicle) (*model.Vehicle, error)
	// Update rewrites mutable vehicle fields.
	Update(ctx context.Context, ownerID uuid.UUID, v *model.Vehicle) error
	// SetStatus persists the status written back by remote-control commands.
	SetStatus(ctx context.Context, ownerID, id uuid.UUID, status model.VehicleStatus) error
	// Delete removes a vehicle.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type VehicleServiceImpl struct {
	repo repository.VehicleRepository
	now  func() time.Time
}

// NewVehicleService constructs VehicleService.
func NewVehicleService(repo repository.VehicleRepository) *VehicleServiceImpl {
	return &VehicleServiceImpl{repo: repo, now: time.Now}
}

// List returns all vehicles of the owner, newest first.
func (s *VehicleServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]model.Vehicle, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID", errs.ErrValidation)
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get returns a single vehicle of the owner.
func (s *VehicleServiceImpl) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Vehicle, error) {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/id", errs.ErrValidation)
	}
	return s.repo.Get(ctx, ownerID, id)
}

// Create validates the vehicle and inserts it with a fresh ID.
// Status defaults to Parked when unset.
func (s *VehicleServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, v *model.Vehicle) (*model.Vehicle, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID", errs.ErrValidation)
	}
	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Model) == "" {
		return nil, fmt.Errorf("%w: name and model are required", errs.ErrValidation)
	}
	if v.Year < 1950 || v.Year > s.now().Year()+1 {
		return nil, fmt.Errorf("%w: implausible year %d", errs.ErrValidation, v.Year)
	}
	if v.Status == "" {
		v.Status = model.StatusParked
	} else if _, err := model.ParseVehicleStatus(string(v.Status)); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	v.ID = id
	v.OwnerID = ownerID
	v.LastUpdated = s.now()
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update rewrites mutable fields of an owned vehicle.
func (s *VehicleServiceImpl) Update(ctx context.Context, ownerID uuid.UUID, v *model.Vehicle) error {
	if ownerID == uuid.Nil || v.ID == uuid.Nil {
		return fmt.Errorf("%w: empty ownerID/id", errs.ErrValidation)
	}
	if _, err := model.ParseVehicleStatus(string(v.Status)); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	v.OwnerID = ownerID
	v.LastUpdated = s.now()
	return s.repo.Update(ctx, v)
}

// SetStatus persists the projected status of a remote-control command,
// stamping last_updated. Ownership is enforced by the repository predicate.
func (s *VehicleServiceImpl) SetStatus(ctx context.Context, ownerID, id uuid.UUID, status model.VehicleStatus) error {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return fmt.Errorf("%w: empty ownerID/id", errs.ErrValidation)
	}
	if _, err := model.ParseVehicleStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return s.repo.UpdateStatus(ctx, ownerID, id, status, s.now())
}

// Delete removes an owned vehicle.
func (s *VehicleServiceImpl) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil || id == uuid.Nil {
		return fmt.Errorf("%w: empty ownerID/id", errs.ErrValidation)
	}
	return s.repo.Delete(ctx, ownerID, id)
}
