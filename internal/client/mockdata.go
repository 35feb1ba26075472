package client

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avtokontrol/avtokontrol/internal/model"
)

// MockAlerts is the static alert feed shown on the dashboard. Alerts have
// no server-side persistence; this list stands in for a delivery channel.
func MockAlerts(vehicles []model.Vehicle) []model.Alert {
	if len(vehicles) == 0 {
		return nil
	}
	now := time.Now()
	first := vehicles[0].ID
	alerts := []model.Alert{
		{ID: uuid.Must(uuid.NewV4()), VehicleID: first, Kind: model.AlertInfo,
			Message: "Плановое ТО через 500 км", Timestamp: now.Add(-2 * time.Hour)},
		{ID: uuid.Must(uuid.NewV4()), VehicleID: first, Kind: model.AlertWarning,
			Message: "Низкий уровень заряда аккумулятора", Timestamp: now.Add(-45 * time.Minute)},
	}
	if len(vehicles) > 1 {
		alerts = append(alerts, model.Alert{
			ID: uuid.Must(uuid.NewV4()), VehicleID: vehicles[1].ID, Kind: model.AlertError,
			Message: "Потеряна связь с автомобилем", Timestamp: now.Add(-10 * time.Minute),
		})
	}
	return alerts
}

// FallbackVehicles is the small mocked dataset screens degrade to when the
// backend read fails.
func FallbackVehicles(ownerID uuid.UUID) []model.Vehicle {
	now := time.Now()
	return []model.Vehicle{
		{
			ID: uuid.Must(uuid.NewV4()), OwnerID: ownerID,
			Name: "Tesla Model S", Model: "Model S", Year: 2022,
			Color: "Черный", LicensePlate: "А123БВ77",
			Status: model.StatusOnline, Location: "55.753215,37.622504",
			LastUpdated: now,
		},
		{
			ID: uuid.Must(uuid.NewV4()), OwnerID: ownerID,
			Name: "BMW X5", Model: "X5", Year: 2021,
			Color: "Белый", LicensePlate: "В234ГД77",
			Status: model.StatusParked, Location: "55.759747,37.629359",
			LastUpdated: now,
		},
	}
}
