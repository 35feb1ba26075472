package httpapi

import (
	"net/http"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// handleListTrips returns the trip history of an owned vehicle.
func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := vehicleID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	ts, err := s.trips.ListForVehicle(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]tripDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTripDTO(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateTrip records a trip on an owned vehicle.
func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, ok := vehicleID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad id")
		return
	}
	var req tripCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	t := &model.Trip{
		VehicleID:     id,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		DistanceKM:    req.DistanceKM,
		DurationMin:   req.DurationMin,
	}
	created, err := s.trips.Add(r.Context(), userID, t)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTripDTO(*created))
}
