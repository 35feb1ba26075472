package client

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// FleetAPI is the slice of the server API the fleet screens need.
type FleetAPI interface {
	Vehicles(ctx context.Context) ([]model.Vehicle, error)
}

// FleetScreen holds the vehicle list state the dashboard, list and map
// screens render. Every reload runs under a fetch generation: a completion
// that lost the race to a newer reload (or to unmount) is dropped instead
// of overwriting current state.
type FleetScreen struct {
	api   FleetAPI
	fetch Fetcher

	mu       sync.Mutex
	vehicles []model.Vehicle
}

// NewFleetScreen constructs the screen state around the API.
func NewFleetScreen(api FleetAPI) *FleetScreen { return &FleetScreen{api: api} }

// Load fetches the fleet and commits it unless a newer load started in the
// meantime. The fetched slice is returned either way.
func (s *FleetScreen) Load(ctx context.Context) ([]model.Vehicle, error) {
	tok := s.fetch.Begin()
	vs, err := s.api.Vehicles(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.Live() {
		s.vehicles = vs
	}
	return vs, nil
}

// LoadOrFallback loads the fleet; a failed read surfaces as an error
// notification and the screen degrades to the mocked dataset.
func (s *FleetScreen) LoadOrFallback(ctx context.Context, ownerID uuid.UUID, notify Notifier) []model.Vehicle {
	vs, err := s.Load(ctx)
	if err != nil {
		notify.Error("Ошибка загрузки автомобилей")
		return FallbackVehicles(ownerID)
	}
	return vs
}

// Vehicles returns the last committed fleet.
func (s *FleetScreen) Vehicles() []model.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Vehicle, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// Unmount invalidates outstanding loads, as when the view goes away.
func (s *FleetScreen) Unmount() { s.fetch.Invalidate() }
