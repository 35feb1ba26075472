// Package control implements the per-vehicle command model: an in-memory
// control state initialized from the persisted vehicle status and projected
// back to a status on each lock/engine command.
package control

import (
	"context"
	"errors"
	"sync"

	"github.com/looplab/fsm"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// Lock/engine states of the control machine.
const (
	StateLockedOff       = "locked_off"
	StateUnlockedOff     = "unlocked_off"
	StateUnlockedRunning = "unlocked_running"
	StateLockedRunning   = "locked_running"
)

// Events accepted by the control machine.
const (
	EventLock        = "lock"
	EventUnlock      = "unlock"
	EventEngineStart = "engine_start"
	EventEngineStop  = "engine_stop"
)

// Climate temperature bounds in °C.
const (
	MinTemperatureC     = 16
	MaxTemperatureC     = 30
	DefaultTemperatureC = 22
)

// Climate is the cabin climate target. Local only, never persisted.
type Climate struct {
	On           bool
	TemperatureC int
}

// State is a snapshot of the ephemeral per-vehicle control state.
type State struct {
	Locked   bool
	EngineOn bool
	Climate  Climate
	LightsOn bool
}

// Controller holds mutable control state for a single vehicle. Lock and
// engine transitions run through an FSM; locking a running vehicle keeps
// the engine on, while starting the engine requires the vehicle to be
// unlocked first.
type Controller struct {
	mu       sync.Mutex
	machine  *fsm.FSM
	climate  Climate
	lightsOn bool
}

// FromStatus builds a controller from the persisted status, the way the
// control screen seeds its toggles on mount: Locked counts as locked,
// Running as engine on, everything else (Parked included) as unlocked
// and stopped.
func FromStatus(st model.VehicleStatus) *Controller {
	initial := StateUnlockedOff
	switch st {
	case model.StatusLocked:
		initial = StateLockedOff
	case model.StatusRunning:
		initial = StateUnlockedRunning
	}

	events := fsm.Events{
		{Name: EventLock, Src: []string{StateUnlockedOff}, Dst: StateLockedOff},
		{Name: EventLock, Src: []string{StateUnlockedRunning}, Dst: StateLockedRunning},
		{Name: EventUnlock, Src: []string{StateLockedOff}, Dst: StateUnlockedOff},
		{Name: EventUnlock, Src: []string{StateLockedRunning}, Dst: StateUnlockedRunning},
		{Name: EventEngineStart, Src: []string{StateUnlockedOff}, Dst: StateUnlockedRunning},
		{Name: EventEngineStop, Src: []string{StateUnlockedRunning}, Dst: StateUnlockedOff},
		{Name: EventEngineStop, Src: []string{StateLockedRunning}, Dst: StateLockedOff},
	}

	return &Controller{
		machine: fsm.NewFSM(initial, events, fsm.Callbacks{}),
		climate: Climate{TemperatureC: DefaultTemperatureC},
	}
}

// State returns a snapshot of the current control state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	cur := c.machine.Current()
	return State{
		Locked:   cur == StateLockedOff || cur == StateLockedRunning,
		EngineOn: cur == StateUnlockedRunning || cur == StateLockedRunning,
		Climate:  c.climate,
		LightsOn: c.lightsOn,
	}
}

// ToggleLock flips the lock and returns the new state plus the status to
// persist (Locked or Unlocked). It always succeeds locally.
func (c *Controller) ToggleLock(ctx context.Context) (State, model.VehicleStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev := EventLock
	status := model.StatusLocked
	if c.snapshot().Locked {
		ev = EventUnlock
		status = model.StatusUnlocked
	}
	// Both directions are defined from every reachable state.
	_ = c.machine.Event(ctx, ev)
	return c.snapshot(), status
}

// ToggleEngine starts or stops the engine. Starting while locked is rejected
// with errs.ErrVehicleLocked and leaves the state untouched. On success the
// returned status (Running or Parked) is the value to persist.
func (c *Controller) ToggleEngine(ctx context.Context) (State, model.VehicleStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev := EventEngineStart
	status := model.StatusRunning
	if c.snapshot().EngineOn {
		ev = EventEngineStop
		status = model.StatusParked
	}
	if err := c.machine.Event(ctx, ev); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return c.snapshot(), "", errs.ErrVehicleLocked
		}
		return c.snapshot(), "", err
	}
	return c.snapshot(), status, nil
}

// SetClimateTemperature sets the climate target, clamped to [16, 30] °C,
// and switches climate on. Local only, not written back.
func (c *Controller) SetClimateTemperature(celsius int) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if celsius < MinTemperatureC {
		celsius = MinTemperatureC
	}
	if celsius > MaxTemperatureC {
		celsius = MaxTemperatureC
	}
	c.climate = Climate{On: true, TemperatureC: celsius}
	return c.snapshot()
}

// ToggleLights flips the headlights. Local only, not written back.
func (c *Controller) ToggleLights() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lightsOn = !c.lightsOn
	return c.snapshot()
}
