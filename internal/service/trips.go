package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
	"github.com/avtokontrol/avtokontrol/internal/repository"
)

// TripService defines trip history operations. Ownership is checked through
// the vehicle: a trip is visible only to the vehicle's owner.
type TripService interface {
	// ListForVehicle returns the trip history of an owned vehicle.
	ListForVehicle(ctx context.Context, ownerID, vehicleID uuid.UUID) ([]model.Trip, error)
	// Add records a trip on an owned vehicle, assigning its ID.
	Add(ctx context.Context, ownerID uuid.UUID, t *model.Trip) (*model.Trip, error)
}

type TripServiceImpl struct {
	trips    repository.TripRepository
	vehicles repository.VehicleRepository
}

// NewTripService constructs TripService.
func NewTripService(trips repository.TripRepository, vehicles repository.VehicleRepository) *TripServiceImpl {
	return &TripServiceImpl{trips: trips, vehicles: vehicles}
}

// ListForVehicle verifies ownership of the vehicle and returns its trips.
func (s *TripServiceImpl) ListForVehicle(ctx context.Context, ownerID, vehicleID uuid.UUID) ([]model.Trip, error) {
	if ownerID == uuid.Nil || vehicleID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/vehicleID", errs.ErrValidation)
	}
	if _, err := s.vehicles.Get(ctx, ownerID, vehicleID); err != nil {
		return nil, err
	}
	return s.trips.ListByVehicle(ctx, vehicleID)
}

// Add verifies ownership and records the trip.
func (s *TripServiceImpl) Add(ctx context.Context, ownerID uuid.UUID, t *model.Trip) (*model.Trip, error) {
	if ownerID == uuid.Nil || t.VehicleID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty ownerID/vehicleID", errs.ErrValidation)
	}
	if t.StartLocation == "" || t.EndLocation == "" {
		return nil, fmt.Errorf("%w: start and end locations are required", errs.ErrValidation)
	}
	if t.EndTime.Before(t.StartTime) {
		return nil, fmt.Errorf("%w: trip ends before it starts", errs.ErrValidation)
	}
	if _, err := s.vehicles.Get(ctx, ownerID, t.VehicleID); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := s.trips.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}
