package httpapi

import (
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// vehicleID parses the {id} route variable.
func vehicleID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(mux.Vars(r)["id"])
	return id, err == nil
}

// handleListVehicles returns the caller's fleet.
func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	vs, err := s.vehicles.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTOs(vs))
}

// handleCreateVehicle adds a vehicle to the caller's fleet.
func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var req vehicleUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	v := &model.Vehicle{
		Name:         req.Name,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		LicensePlate: req.LicensePlate,
		Status:       model.VehicleStatus(req.Status),
		Location:     req.Location,
	}
	created, err := s.vehicles.Create(r.Context(), userID, v)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVehicleDTO(*created))
}

// handleGetVehicle returns one vehicle of the caller.
func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := vehicleID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	v, err := s.vehicles.Get(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v))
}

// handleUpdateVehicle rewrites mutable vehicle fields.
func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := vehicleID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	var req vehicleUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	v := &model.Vehicle{
		ID:           id,
		Name:         req.Name,
		Model:        req.Model,
		Year:         req.Year,
		Color:        req.Color,
		LicensePlate: req.LicensePlate,
		Status:       model.VehicleStatus(req.Status),
		Location:     req.Location,
	}
	if err := s.vehicles.Update(r.Context(), userID, v); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleDTO(*v))
}

// handleSetVehicleStatus persists the status written back by remote-control
// commands (the lock/engine projection).
func (s *Server) handleSetVehicleStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := vehicleID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.vehicles.SetStatus(r.Context(), userID, id, model.VehicleStatus(req.Status)); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteVehicle removes a vehicle from the caller's fleet.
func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := vehicleID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	if err := s.vehicles.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
