package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/avtokontrol/avtokontrol/internal/errs"
	"github.com/avtokontrol/avtokontrol/internal/model"
)

func TestTripRepo_ListByVehicle(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTripRepo(db)
	ctx := context.Background()
	vehicleID := uuid.Must(uuid.NewV4())
	tripID := uuid.Must(uuid.NewV4())
	start := time.Now().Add(-time.Hour)

	cols := []string{"id", "vehicle_id", "start_location", "end_location", "start_time", "end_time", "distance", "duration", "created_at"}
	mock.ExpectQuery(`SELECT id, vehicle_id, start_location, end_location, start_time, end_time, distance, duration, created_at FROM trips WHERE vehicle_id=\$1 ORDER BY start_time DESC`).
		WithArgs(vehicleID).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(tripID, vehicleID, "Москва, Тверская 1", "Москва, Арбат 10", start, start.Add(40*time.Minute), 12.5, 40, time.Now()))
	got, err := r.ListByVehicle(ctx, vehicleID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 12.5, got[0].DistanceKM)
	require.Equal(t, 40, got[0].DurationMin)
}

func TestTripRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewTripRepo(db)
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)
	trip := &model.Trip{
		ID:            uuid.Must(uuid.NewV4()),
		VehicleID:     uuid.Must(uuid.NewV4()),
		StartLocation: "A",
		EndLocation:   "B",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		DistanceKM:    42.1,
		DurationMin:   60,
	}

	mock.ExpectExec(`INSERT INTO trips \(id, vehicle_id, start_location, end_location, start_time, end_time, distance, duration\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs(trip.ID, trip.VehicleID, trip.StartLocation, trip.EndLocation, trip.StartTime, trip.EndTime, trip.DistanceKM, trip.DurationMin).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, trip))

	mock.ExpectExec(`INSERT INTO trips \(id, vehicle_id, start_location, end_location, start_time, end_time, distance, duration\) VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs(trip.ID, trip.VehicleID, trip.StartLocation, trip.EndLocation, trip.StartTime, trip.EndTime, trip.DistanceKM, trip.DurationMin).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, trip), errs.ErrAlreadyExists)
}
