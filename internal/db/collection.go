package db

import (
	"context"

	"github.com/ukydev/fleet-status/internal/models"
)

// VehicleCollection defines the interface for vehicle data operations.
// FindVehicleByID reports a missing vehicle as (nil, nil).
type VehicleCollection interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) error
	FindVehicles(ctx context.Context) ([]models.Vehicle, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	SetCurrentTrip(ctx context.Context, id string, trip models.Trip) error
	WatchVehicles(ctx context.Context) (<-chan []models.Vehicle, error)
}

// EventCollection defines the interface for vehicle event operations.
// Events are written only through UpsertEvent (reservation feed and seed
// endpoints); the dashboard itself only reads them.
type EventCollection interface {
	UpsertEvent(ctx context.Context, event models.VehicleEvent) error
	FindTodayEvents(ctx context.Context, today string) ([]models.VehicleEvent, error)
	WatchTodayEvents(ctx context.Context, today func() string) (<-chan []models.VehicleEvent, error)
}

// StatusCollection defines the interface for reservation status lookups.
type StatusCollection interface {
	InsertStatus(ctx context.Context, status models.ReservationStatus) error
	FindStatuses(ctx context.Context) ([]models.ReservationStatus, error)
	WatchStatuses(ctx context.Context) (<-chan []models.ReservationStatus, error)
}
