package httpapi

import (
	"time"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// Wire representations of domain entities.

type profileDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar,omitempty"`
	Joined   time.Time `json:"joined"`
}

func toProfileDTO(p model.Profile) profileDTO {
	return profileDTO{
		ID:       p.ID.String(),
		Name:     p.Name,
		Username: p.Username,
		Email:    p.Email,
		Avatar:   p.AvatarURL,
		Joined:   p.JoinedAt,
	}
}

type vehicleDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	Color        string    `json:"color,omitempty"`
	LicensePlate string    `json:"license_plate,omitempty"`
	Status       string    `json:"status"`
	Location     string    `json:"location,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
}

func toVehicleDTO(v model.Vehicle) vehicleDTO {
	return vehicleDTO{
		ID:           v.ID.String(),
		Name:         v.Name,
		Model:        v.Model,
		Year:         v.Year,
		Color:        v.Color,
		LicensePlate: v.LicensePlate,
		Status:       string(v.Status),
		Location:     v.Location,
		LastUpdated:  v.LastUpdated,
	}
}

func toVehicleDTOs(vs []model.Vehicle) []vehicleDTO {
	out := make([]vehicleDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVehicleDTO(v))
	}
	return out
}

type tripDTO struct {
	ID            string    `json:"id"`
	VehicleID     string    `json:"vehicle_id"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DistanceKM    float64   `json:"distance_km"`
	DurationMin   int       `json:"duration_min"`
}

func toTripDTO(t model.Trip) tripDTO {
	return tripDTO{
		ID:            t.ID.String(),
		VehicleID:     t.VehicleID.String(),
		StartLocation: t.StartLocation,
		EndLocation:   t.EndLocation,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		DistanceKM:    t.DistanceKM,
		DurationMin:   t.DurationMin,
	}
}

type settingsDTO struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
}

// Request bodies.

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Profile     profileDTO `json:"profile"`
}

type profileUpdateRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

type vehicleUpsertRequest struct {
	Name         string `json:"name"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color"`
	LicensePlate string `json:"license_plate"`
	Status       string `json:"status"`
	Location     string `json:"location"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type tripCreateRequest struct {
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DistanceKM    float64   `json:"distance_km"`
	DurationMin   int       `json:"duration_min"`
}
