package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ukydev/fleet-status/internal/models"
	"github.com/ukydev/fleet-status/internal/timeutil"
)

var testNow = time.Date(2024, 4, 20, 12, 0, 0, 0, time.Local)

func testClock() timeutil.Clock {
	return timeutil.FixedClock{Instant: testNow}
}

func TestBuildTrip_RentedBranch(t *testing.T) {
	event := models.VehicleEvent{
		ID:         "ev1",
		Status:     "stConfirmed",
		RenterName: "Jane",
		EndDate:    "2024-05-01",
		EndTime:    "3:00pm",
	}

	trip := BuildTrip(event, "ops@example.com", testClock(), time.Local)

	assert.Equal(t, models.TripStatusRented, trip.Status)
	assert.Equal(t, "Jane", trip.Driver)
	assert.Equal(t, "ev1", trip.Event)
	assert.Equal(t, "ops@example.com", trip.HandledBy)
	assert.Equal(t, testNow, trip.Timestamp)
	assert.Empty(t, trip.OOSDescription)
	if assert.NotNil(t, trip.LateAfter) {
		assert.Equal(t, time.Date(2024, 5, 1, 15, 0, 0, 0, time.Local), *trip.LateAfter)
	}
}

func TestBuildTrip_RentedBranch_BadDeadline(t *testing.T) {
	// Missing end date: the deadline stays nil, which means never late.
	event := models.VehicleEvent{ID: "ev1", Status: "stConfirmed", RenterName: "Jane"}
	trip := BuildTrip(event, "ops", testClock(), time.Local)
	assert.Equal(t, models.TripStatusRented, trip.Status)
	assert.Nil(t, trip.LateAfter)

	// Unparseable end time falls back to end of day, not nil.
	event.EndDate = "2024-05-01"
	event.EndTime = "around lunch"
	trip = BuildTrip(event, "ops", testClock(), time.Local)
	if assert.NotNil(t, trip.LateAfter) {
		assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 0, 0, time.Local), *trip.LateAfter)
	}
}

func TestBuildTrip_OutOfServiceBranch(t *testing.T) {
	event := models.VehicleEvent{
		ID:          "ev2",
		Status:      "OOS",
		Description: "Flat tire",
		EndDate:     "2024-05-01",
		EndTime:     "3:00pm",
	}

	trip := BuildTrip(event, "", testClock(), time.Local)

	assert.Equal(t, models.TripStatusOutOfService, trip.Status)
	assert.Equal(t, "Flat tire", trip.OOSDescription)
	assert.Nil(t, trip.LateAfter)
	assert.Empty(t, trip.Driver)
	assert.Empty(t, trip.Event)
	assert.Equal(t, UnauthenticatedOperator, trip.HandledBy)
}

func TestIsLate(t *testing.T) {
	deadline := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	rented := &models.Trip{Status: models.TripStatusRented, LateAfter: &deadline}

	assert.False(t, IsLate(rented, deadline.Add(-time.Millisecond)))
	assert.True(t, IsLate(rented, deadline))
	assert.True(t, IsLate(rented, deadline.Add(time.Hour)))

	// Unknown deadline is never late.
	assert.False(t, IsLate(&models.Trip{Status: models.TripStatusRented}, deadline.Add(time.Hour)))

	// Out of service is never late, however long ago its deadline was.
	oos := &models.Trip{Status: models.TripStatusOutOfService, LateAfter: &deadline}
	assert.False(t, IsLate(oos, deadline.Add(24*time.Hour)))

	assert.False(t, IsLate(nil, deadline))
}

func TestTripLabel(t *testing.T) {
	deadline := time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	rented := &models.Trip{Status: models.TripStatusRented, LateAfter: &deadline}

	assert.Equal(t, "Rented", TripLabel(rented, deadline.Add(-time.Hour)))
	assert.Equal(t, "Late", TripLabel(rented, deadline))
	assert.Equal(t, "Out of service", TripLabel(&models.Trip{Status: models.TripStatusOutOfService}, deadline))
	assert.Equal(t, "", TripLabel(nil, deadline))
}

type mockStore struct {
	vehicle  *models.Vehicle
	findErr  error
	setErr   error
	setCalls []models.Trip
}

func (m *mockStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return m.vehicle, m.findErr
}

func (m *mockStore) SetCurrentTrip(ctx context.Context, vehicleID string, trip models.Trip) error {
	m.setCalls = append(m.setCalls, trip)
	return m.setErr
}

func TestService_Checkout(t *testing.T) {
	event := models.VehicleEvent{ID: "ev1", Status: "stConfirmed", RenterName: "Jane", EndDate: "2024-05-01"}

	t.Run("persists the trip", func(t *testing.T) {
		store := &mockStore{vehicle: &models.Vehicle{ID: "v1"}}
		svc := NewService(store, testClock(), time.Local)

		trip, err := svc.Checkout(context.Background(), "v1", event, "ops")

		assert.NoError(t, err)
		assert.NotNil(t, trip)
		assert.Len(t, store.setCalls, 1)
		assert.Equal(t, models.TripStatusRented, store.setCalls[0].Status)
	})

	t.Run("rejects a vehicle already off lot", func(t *testing.T) {
		store := &mockStore{vehicle: &models.Vehicle{ID: "v1", CurrentTrip: &models.Trip{Status: models.TripStatusRented}}}
		svc := NewService(store, testClock(), time.Local)

		_, err := svc.Checkout(context.Background(), "v1", event, "ops")

		assert.ErrorIs(t, err, ErrVehicleOffLot)
		assert.Empty(t, store.setCalls)
	})

	t.Run("write failure leaves state unchanged and surfaces the error", func(t *testing.T) {
		store := &mockStore{vehicle: &models.Vehicle{ID: "v1"}, setErr: errors.New("store down")}
		svc := NewService(store, testClock(), time.Local)

		trip, err := svc.Checkout(context.Background(), "v1", event, "ops")

		assert.Error(t, err)
		assert.Nil(t, trip)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		store := &mockStore{findErr: errors.New("not found")}
		svc := NewService(store, testClock(), time.Local)

		_, err := svc.Checkout(context.Background(), "v1", event, "ops")
		assert.Error(t, err)
	})
}
