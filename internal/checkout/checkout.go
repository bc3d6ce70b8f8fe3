// Package checkout implements the vehicle checkout transition: an on-site
// vehicle plus a chosen event becomes an off-lot vehicle carrying a
// currentTrip record. There is no reverse transition here; check-in is
// owned by the reservation system.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-status/internal/models"
	"github.com/ukydev/fleet-status/internal/timeutil"
)

var (
	ErrVehicleOffLot  = errors.New("vehicle already has a current trip")
	ErrVehicleMissing = errors.New("vehicle not found")
)

// UnauthenticatedOperator is recorded as handledBy when no operator
// identity is available.
const UnauthenticatedOperator = "unauthenticated"

// Store is the slice of the document store checkout needs.
type Store interface {
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	SetCurrentTrip(ctx context.Context, vehicleID string, trip models.Trip) error
}

// BuildTrip computes the currentTrip record for checking a vehicle out
// against an event. The branch is chosen by the event's status: the "oos"
// sentinel (case-insensitive) means out of service, anything else a rental.
// A rental's lateAfter comes from the event's end date and time; when the
// date is missing or unparseable the deadline stays nil, which downstream
// reads as "never late".
func BuildTrip(event models.VehicleEvent, operator string, clock timeutil.Clock, loc *time.Location) models.Trip {
	if operator == "" {
		operator = UnauthenticatedOperator
	}

	trip := models.Trip{
		Timestamp: clock.Now(),
		HandledBy: operator,
	}

	if strings.EqualFold(event.Status, models.OOSSentinel) {
		trip.Status = models.TripStatusOutOfService
		trip.OOSDescription = event.Description
		return trip
	}

	trip.Status = models.TripStatusRented
	trip.Driver = event.RenterName
	trip.Event = event.ID
	trip.LateAfter = timeutil.ToAbsoluteTime(event.EndDate, event.EndTime, loc)
	return trip
}

// IsLate reports whether a trip has passed its deadline. Only rented trips
// with a known lateAfter can be late; now == lateAfter already counts.
func IsLate(trip *models.Trip, now time.Time) bool {
	if trip == nil || trip.Status != models.TripStatusRented {
		return false
	}
	if trip.LateAfter == nil {
		return false
	}
	return !now.Before(*trip.LateAfter)
}

// TripLabel resolves the display label for a current trip.
func TripLabel(trip *models.Trip, now time.Time) string {
	switch {
	case trip == nil:
		return ""
	case trip.Status == models.TripStatusOutOfService:
		return "Out of service"
	case IsLate(trip, now):
		return "Late"
	default:
		return "Rented"
	}
}

// Service persists checkout transitions.
type Service struct {
	store Store
	clock timeutil.Clock
	loc   *time.Location
}

// NewService creates a checkout service. A nil location defaults to the
// process-local timezone, matching how event times are entered.
func NewService(store Store, clock timeutil.Clock, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, clock: clock, loc: loc}
}

// Checkout builds and persists the currentTrip for vehicleID. The write is
// a single-field update; on failure the vehicle state is unchanged and the
// operator must re-attempt, no retry happens here.
func (s *Service) Checkout(ctx context.Context, vehicleID string, event models.VehicleEvent, operator string) (*models.Trip, error) {
	vehicle, err := s.store.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load vehicle %s: %w", vehicleID, err)
	}
	if vehicle == nil {
		return nil, ErrVehicleMissing
	}
	if vehicle.OffLot() {
		return nil, ErrVehicleOffLot
	}

	trip := BuildTrip(event, operator, s.clock, s.loc)
	if err := s.store.SetCurrentTrip(ctx, vehicleID, trip); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"vehicle_id": vehicleID,
			"event_id":   event.ID,
		}).Error("Failed to set currentTrip")
		return nil, fmt.Errorf("set currentTrip on %s: %w", vehicleID, err)
	}

	log.WithFields(log.Fields{
		"vehicle_id": vehicleID,
		"status":     trip.Status,
		"handled_by": trip.HandledBy,
	}).Info("Vehicle checked out")
	return &trip, nil
}
