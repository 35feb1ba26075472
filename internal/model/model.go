// Package model defines domain entities used by services and repositories.
package model

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued access tokens for a signed-in user.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time // access token expiry
}

// Session is the client-side view of an authenticated identity.
type Session struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the session's access token is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// User represents an account stored on the server. Passwords are never stored in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Email     string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	CreatedAt time.Time
}

// Profile is the public account card, one-to-one with User by id.
type Profile struct {
	ID        uuid.UUID // = users.id
	Name      string
	Username  string
	Email     string
	AvatarURL string
	JoinedAt  time.Time
}

// VehicleStatus is the closed set of persisted vehicle states.
type VehicleStatus string

const (
	StatusParked      VehicleStatus = "Parked"
	StatusRunning     VehicleStatus = "Running"
	StatusLocked      VehicleStatus = "Locked"
	StatusUnlocked    VehicleStatus = "Unlocked"
	StatusMaintenance VehicleStatus = "Maintenance"
	StatusOffline     VehicleStatus = "Offline"
	StatusOnline      VehicleStatus = "Online"
)

// ParseVehicleStatus validates a raw status string against the closed enum.
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	switch v := VehicleStatus(s); v {
	case StatusParked, StatusRunning, StatusLocked, StatusUnlocked,
		StatusMaintenance, StatusOffline, StatusOnline:
		return v, nil
	}
	return "", fmt.Errorf("unknown vehicle status %q", s)
}

// Vehicle is a single fleet unit owned by a user.
type Vehicle struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID // FK -> users.id, every read/write is scoped by it
	Name         string
	Model        string
	Year         int
	Color        string
	LicensePlate string
	Status       VehicleStatus
	Location     string // free-form "lat,lon"; map screen is a placeholder over it
	LastUpdated  time.Time
	CreatedAt    time.Time
}

// Trip is a recorded journey of a vehicle.
type Trip struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	StartLocation string
	EndLocation   string
	StartTime     time.Time
	EndTime       time.Time
	DistanceKM    float64
	DurationMin   int
	CreatedAt     time.Time
}

// UserSettings holds per-user preferences mirrored to the server.
type UserSettings struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Theme     string // "light" | "dark" | "system"
	Language  string // e.g. "ru", "en"
	UpdatedAt time.Time
}

// AlertKind classifies an alert.
type AlertKind string

const (
	AlertInfo    AlertKind = "info"
	AlertWarning AlertKind = "warning"
	AlertError   AlertKind = "error"
)

// Alert is a notification attached to a vehicle. Alerts come from a static
// client-side list; there is no persistence or delivery guarantee.
type Alert struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	Kind      AlertKind
	Message   string
	Timestamp time.Time
	Read      bool
	Resolved  bool
}
