// Package httpapi exposes the АвтоКонтроль HTTP/JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	vehicles service.VehicleService
	trips    service.TripService
	settings service.SettingsService
	signKey  []byte
}

// New constructs an API server with injected services.
func New(auth service.AuthService, vehicles service.VehicleService, trips service.TripService, settings service.SettingsService, signKey []byte) *Server {
	return &Server{auth: auth, vehicles: vehicles, trips: trips, settings: settings, signKey: signKey}
}

// Router builds the full route table with middleware applied.
func (s *Server) Router(log *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(Recover(log), Logging(log))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	priv := api.NewRoute().Subrouter()
	priv.Use(s.requireAuth)
	priv.HandleFunc("/auth/session", s.handleSession).Methods(http.MethodGet)
	priv.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	priv.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)
	priv.HandleFunc("/vehicles", s.handleListVehicles).Methods(http.MethodGet)
	priv.HandleFunc("/vehicles", s.handleCreateVehicle).Methods(http.MethodPost)
	priv.HandleFunc("/vehicles/{id}", s.handleGetVehicle).Methods(http.MethodGet)
	priv.HandleFunc("/vehicles/{id}", s.handleUpdateVehicle).Methods(http.MethodPut)
	priv.HandleFunc("/vehicles/{id}", s.handleDeleteVehicle).Methods(http.MethodDelete)
	priv.HandleFunc("/vehicles/{id}/status", s.handleSetVehicleStatus).Methods(http.MethodPut)
	priv.HandleFunc("/vehicles/{id}/trips", s.handleListTrips).Methods(http.MethodGet)
	priv.HandleFunc("/vehicles/{id}/trips", s.handleCreateTrip).Methods(http.MethodPost)
	priv.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	priv.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)

	return r
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// writeServiceError maps sentinel errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "bad credentials")
	case errors.Is(err, errs.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, errs.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate limited")
	default:
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
