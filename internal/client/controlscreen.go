package client

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/control"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// Notifier surfaces transient user-visible notifications (the toast layer).
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// VehicleAPI is the slice of the server API the control screen needs.
type VehicleAPI interface {
	Vehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	SetVehicleStatus(ctx context.Context, id uuid.UUID, status model.VehicleStatus) error
}

// ControlScreen drives remote-control commands for one vehicle. Commands
// commit to local state first; the status write-back runs in the background
// and is never rolled back on failure — a failed write only produces an
// error notification, leaving the optimistic state in place.
type ControlScreen struct {
	api     VehicleAPI
	notify  Notifier
	vehicle model.Vehicle
	ctrl    *control.Controller

	wg sync.WaitGroup
}

// writeTimeout bounds a background status write.
const writeTimeout = 10 * time.Second

// OpenControlScreen fetches the vehicle and seeds the control state from
// its persisted status, as the screen does on mount.
func OpenControlScreen(ctx context.Context, api VehicleAPI, notify Notifier, id uuid.UUID) (*ControlScreen, error) {
	v, err := api.Vehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ControlScreen{
		api:     api,
		notify:  notify,
		vehicle: *v,
		ctrl:    control.FromStatus(v.Status),
	}, nil
}

// Vehicle returns the vehicle the screen was opened with.
func (s *ControlScreen) Vehicle() model.Vehicle { return s.vehicle }

// State returns the current control state.
func (s *ControlScreen) State() control.State { return s.ctrl.State() }

// ToggleLock locks or unlocks the doors. Always succeeds locally; the
// persisted status follows in the background.
func (s *ControlScreen) ToggleLock(ctx context.Context) control.State {
	st, status := s.ctrl.ToggleLock(ctx)
	if st.Locked {
		s.notify.Success("Двери заблокированы")
	} else {
		s.notify.Success("Двери разблокированы")
	}
	s.writeStatus(status)
	return st
}

// ToggleEngine starts or stops the engine. Starting while locked yields the
// command error with no state change and no write.
func (s *ControlScreen) ToggleEngine(ctx context.Context) (control.State, error) {
	st, status, err := s.ctrl.ToggleEngine(ctx)
	if err != nil {
		return st, err
	}
	if st.EngineOn {
		s.notify.Success("Двигатель запущен")
	} else {
		s.notify.Success("Двигатель остановлен")
	}
	s.writeStatus(status)
	return st, nil
}

// SetClimateTemperature sets the cabin target. Local only.
func (s *ControlScreen) SetClimateTemperature(celsius int) control.State {
	st := s.ctrl.SetClimateTemperature(celsius)
	s.notify.Success("Температура установлена")
	return st
}

// ToggleLights flips the headlights. Local only.
func (s *ControlScreen) ToggleLights() control.State {
	st := s.ctrl.ToggleLights()
	if st.LightsOn {
		s.notify.Success("Фары включены")
	} else {
		s.notify.Success("Фары выключены")
	}
	return st
}

// writeStatus persists the projected status without blocking the caller.
// Failures surface as a notification only.
func (s *ControlScreen) writeStatus(status model.VehicleStatus) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := s.api.SetVehicleStatus(ctx, s.vehicle.ID, status); err != nil {
			s.notify.Error("Ошибка обновления статуса автомобиля")
		}
	}()
}

// Flush waits for pending background writes. Called before process exit.
func (s *ControlScreen) Flush() { s.wg.Wait() }
