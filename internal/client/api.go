// Package client implements the АвтоКонтроль client: the HTTP API wrapper,
// the session provider, route guarding and the screen-side fetch and
// remote-control logic.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

// API is a thin JSON client for the server. A zero token makes only the
// public auth endpoints usable.
type API struct {
	base  string
	http  *http.Client
	token string
}

// NewAPI constructs an API client for the given base URL, e.g. "http://localhost:8080".
func NewAPI(base string) *API {
	return &API{base: base, http: &http.Client{Timeout: 30 * time.Second}}
}

// SetToken installs the bearer token used for authenticated calls.
func (a *API) SetToken(tok string) { a.token = tok }

// do runs one JSON round trip. A non-2xx response is mapped onto the
// sentinel error taxonomy so callers can errors.Is on it.
func (a *API) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var er struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return apiError(resp.StatusCode, er.Error)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func apiError(code int, msg string) error {
	var base error
	switch code {
	case http.StatusBadRequest:
		base = errs.ErrValidation
	case http.StatusUnauthorized:
		base = errs.ErrUnauthorized
	case http.StatusForbidden:
		base = errs.ErrForbidden
	case http.StatusNotFound:
		base = errs.ErrNotFound
	case http.StatusConflict:
		base = errs.ErrAlreadyExists
	case http.StatusTooManyRequests:
		base = errs.ErrRateLimited
	default:
		return fmt.Errorf("server error (%d): %s", code, msg)
	}
	if msg == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, msg)
}

// Wire types shared with the server.

type profilePayload struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
	Joined   time.Time `json:"joined"`
}

func (p profilePayload) toModel() (*model.Profile, error) {
	id, err := uuid.FromString(p.ID)
	if err != nil {
		return nil, fmt.Errorf("bad profile id: %w", err)
	}
	return &model.Profile{
		ID:        id,
		Name:      p.Name,
		Username:  p.Username,
		Email:     p.Email,
		AvatarURL: p.Avatar,
		JoinedAt:  p.Joined,
	}, nil
}

type vehiclePayload struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color"`
	LicensePlate string    `json:"license_plate"`
	Status       string    `json:"status"`
	Location     string    `json:"location"`
	LastUpdated  time.Time `json:"last_updated"`
}

func (v vehiclePayload) toModel() (model.Vehicle, error) {
	id, err := uuid.FromString(v.ID)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("bad vehicle id: %w", err)
	}
	return model.Vehicle{
		ID:           id,
		Name:         v.Name,
		Model:        v.Model,
		Year:         v.Year,
		Color:        v.Color,
		LicensePlate: v.LicensePlate,
		Status:       model.VehicleStatus(v.Status),
		Location:     v.Location,
		LastUpdated:  v.LastUpdated,
	}, nil
}

type tripPayload struct {
	ID            string    `json:"id"`
	VehicleID     string    `json:"vehicle_id"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DistanceKM    float64   `json:"distance_km"`
	DurationMin   int       `json:"duration_min"`
}

// --- auth ---

// Register creates an account and returns the new user ID.
func (a *API) Register(ctx context.Context, email, password, name string) (string, error) {
	var resp struct {
		UserID string `json:"user_id"`
	}
	err := a.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	}, &resp)
	return resp.UserID, err
}

// SignIn authenticates and returns the established session.
func (a *API) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	var resp struct {
		AccessToken string         `json:"access_token"`
		ExpiresAt   time.Time      `json:"expires_at"`
		Profile     profilePayload `json:"profile"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": email, "password": password,
	}, &resp); err != nil {
		return model.Session{}, err
	}
	prof, err := resp.Profile.toModel()
	if err != nil {
		return model.Session{}, err
	}
	a.token = resp.AccessToken
	return model.Session{
		UserID:      prof.ID,
		Email:       prof.Email,
		AccessToken: resp.AccessToken,
		IssuedAt:    time.Now(),
		ExpiresAt:   resp.ExpiresAt,
	}, nil
}

// SessionProfile validates the given token against the server and returns
// the profile behind it. Used for session restore on start.
func (a *API) SessionProfile(ctx context.Context, token string) (*model.Profile, error) {
	prev := a.token
	a.token = token
	var resp profilePayload
	if err := a.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &resp); err != nil {
		a.token = prev
		return nil, err
	}
	return resp.toModel()
}

// --- profile ---

// Profile returns the caller's profile.
func (a *API) Profile(ctx context.Context) (*model.Profile, error) {
	var resp profilePayload
	if err := a.do(ctx, http.MethodGet, "/api/v1/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.toModel()
}

// UpdateProfile rewrites name, username and avatar.
func (a *API) UpdateProfile(ctx context.Context, name, username, avatar string) (*model.Profile, error) {
	var resp profilePayload
	if err := a.do(ctx, http.MethodPut, "/api/v1/profile", map[string]string{
		"name": name, "username": username, "avatar": avatar,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.toModel()
}

// --- vehicles ---

// Vehicles lists the caller's fleet.
func (a *API) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	var resp []vehiclePayload
	if err := a.do(ctx, http.MethodGet, "/api/v1/vehicles", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Vehicle, 0, len(resp))
	for _, p := range resp {
		v, err := p.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Vehicle returns a single vehicle.
func (a *API) Vehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	var resp vehiclePayload
	if err := a.do(ctx, http.MethodGet, "/api/v1/vehicles/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	v, err := resp.toModel()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// AddVehicle creates a vehicle and returns it with its assigned ID.
func (a *API) AddVehicle(ctx context.Context, v model.Vehicle) (*model.Vehicle, error) {
	var resp vehiclePayload
	if err := a.do(ctx, http.MethodPost, "/api/v1/vehicles", map[string]any{
		"name": v.Name, "model": v.Model, "year": v.Year, "color": v.Color,
		"license_plate": v.LicensePlate, "status": string(v.Status), "location": v.Location,
	}, &resp); err != nil {
		return nil, err
	}
	created, err := resp.toModel()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveVehicle deletes a vehicle.
func (a *API) RemoveVehicle(ctx context.Context, id uuid.UUID) error {
	return a.do(ctx, http.MethodDelete, "/api/v1/vehicles/"+id.String(), nil, nil)
}

// SetVehicleStatus writes the status projection of a remote-control command.
func (a *API) SetVehicleStatus(ctx context.Context, id uuid.UUID, status model.VehicleStatus) error {
	return a.do(ctx, http.MethodPut, "/api/v1/vehicles/"+id.String()+"/status", map[string]string{
		"status": string(status),
	}, nil)
}

// --- trips ---

// Trips returns the trip history of a vehicle.
func (a *API) Trips(ctx context.Context, vehicleID uuid.UUID) ([]model.Trip, error) {
	var resp []tripPayload
	if err := a.do(ctx, http.MethodGet, "/api/v1/vehicles/"+vehicleID.String()+"/trips", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Trip, 0, len(resp))
	for _, p := range resp {
		id, err := uuid.FromString(p.ID)
		if err != nil {
			return nil, fmt.Errorf("bad trip id: %w", err)
		}
		vid, err := uuid.FromString(p.VehicleID)
		if err != nil {
			return nil, fmt.Errorf("bad trip vehicle id: %w", err)
		}
		out = append(out, model.Trip{
			ID: id, VehicleID: vid,
			StartLocation: p.StartLocation, EndLocation: p.EndLocation,
			StartTime: p.StartTime, EndTime: p.EndTime,
			DistanceKM: p.DistanceKM, DurationMin: p.DurationMin,
		})
	}
	return out, nil
}

// --- settings ---

// Settings returns server-side preferences.
func (a *API) Settings(ctx context.Context) (theme, language string, err error) {
	var resp struct {
		Theme    string `json:"theme"`
		Language string `json:"language"`
	}
	err = a.do(ctx, http.MethodGet, "/api/v1/settings", nil, &resp)
	return resp.Theme, resp.Language, err
}

// UpdateSettings rewrites server-side preferences.
func (a *API) UpdateSettings(ctx context.Context, theme, language string) error {
	return a.do(ctx, http.MethodPut, "/api/v1/settings", map[string]string{
		"theme": theme, "language": language,
	}, nil)
}
