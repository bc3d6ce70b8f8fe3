package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/ukydev/fleet-status/internal/config"
	"github.com/ukydev/fleet-status/internal/live"
	"github.com/ukydev/fleet-status/internal/models"
	"github.com/ukydev/fleet-status/internal/timeutil"
)

var handlerNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)

func testConfig() config.Config {
	return config.Config{
		ClosedStatusID: "stClosed",
		OOSSentinel:    models.OOSSentinel,
		Locations: []models.RentalLocation{
			{ID: "locA", Label: "Airport"},
			{ID: "locW", Label: "Waikiki"},
		},
	}
}

type fakeVehicles struct {
	ch       chan []models.Vehicle
	inserted []models.Vehicle
	byID     map[string]*models.Vehicle
	trips    map[string]models.Trip
}

func newFakeVehicles() *fakeVehicles {
	return &fakeVehicles{
		ch:    make(chan []models.Vehicle, 1),
		byID:  map[string]*models.Vehicle{},
		trips: map[string]models.Trip{},
	}
}

func (f *fakeVehicles) InsertVehicle(ctx context.Context, v models.Vehicle) error {
	f.inserted = append(f.inserted, v)
	return nil
}

func (f *fakeVehicles) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return nil, nil
}

func (f *fakeVehicles) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return f.byID[id], nil
}

func (f *fakeVehicles) SetCurrentTrip(ctx context.Context, vehicleID string, trip models.Trip) error {
	f.trips[vehicleID] = trip
	return nil
}

func (f *fakeVehicles) WatchVehicles(ctx context.Context) (<-chan []models.Vehicle, error) {
	return f.ch, nil
}

type fakeEvents struct {
	ch       chan []models.VehicleEvent
	upserted []models.VehicleEvent
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{ch: make(chan []models.VehicleEvent, 1)}
}

func (f *fakeEvents) UpsertEvent(ctx context.Context, e models.VehicleEvent) error {
	f.upserted = append(f.upserted, e)
	return nil
}

func (f *fakeEvents) FindTodayEvents(ctx context.Context, today string) ([]models.VehicleEvent, error) {
	return nil, nil
}

func (f *fakeEvents) WatchTodayEvents(ctx context.Context, today func() string) (<-chan []models.VehicleEvent, error) {
	return f.ch, nil
}

type fakeStatuses struct {
	ch       chan []models.ReservationStatus
	inserted []models.ReservationStatus
}

func newFakeStatuses() *fakeStatuses {
	return &fakeStatuses{ch: make(chan []models.ReservationStatus, 1)}
}

func (f *fakeStatuses) InsertStatus(ctx context.Context, s models.ReservationStatus) error {
	f.inserted = append(f.inserted, s)
	return nil
}

func (f *fakeStatuses) FindStatuses(ctx context.Context) ([]models.ReservationStatus, error) {
	return nil, nil
}

func (f *fakeStatuses) WatchStatuses(ctx context.Context) (<-chan []models.ReservationStatus, error) {
	return f.ch, nil
}

// liveFixture runs a real engine over fake collections so handler tests can
// seed state the same way production does: by pushing snapshots.
type liveFixture struct {
	t        *testing.T
	engine   *live.Engine
	vehicles *fakeVehicles
	events   *fakeEvents
	statuses *fakeStatuses
	tick     chan struct{}
}

func startLive(t *testing.T) *liveFixture {
	t.Helper()
	f := &liveFixture{
		t:        t,
		vehicles: newFakeVehicles(),
		events:   newFakeEvents(),
		statuses: newFakeStatuses(),
	}
	f.engine = live.NewEngine(f.vehicles, f.events, f.statuses, timeutil.FixedClock{Instant: handlerNow})
	f.tick = f.engine.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.engine.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return f
}

func (f *liveFixture) await() {
	f.t.Helper()
	select {
	case <-f.tick:
	case <-time.After(2 * time.Second):
		f.t.Fatal("timed out waiting for engine recompute")
	}
}

func (f *liveFixture) pushVehicles(vs []models.Vehicle) {
	f.t.Helper()
	f.vehicles.ch <- vs
	f.await()
}

func (f *liveFixture) pushEvents(evs []models.VehicleEvent) {
	f.t.Helper()
	f.events.ch <- evs
	f.await()
}

func (f *liveFixture) pushStatuses(sts []models.ReservationStatus) {
	f.t.Helper()
	f.statuses.ch <- sts
	f.await()
}
