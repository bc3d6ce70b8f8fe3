// Package live owns the three store subscriptions (vehicles, today's
// events, reservation statuses) and keeps the derived dashboard state
// current. Each incoming snapshot triggers a full recompute of the view
// models; nothing is patched incrementally, so the streams may interleave
// in any order.
package live

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-status/internal/db"
	"github.com/ukydev/fleet-status/internal/models"
	"github.com/ukydev/fleet-status/internal/status"
	"github.com/ukydev/fleet-status/internal/timeutil"
	"github.com/ukydev/fleet-status/internal/view"
)

// State is the engine's current derived state. Handlers read it at request
// time; it is replaced wholesale on every recompute.
type State struct {
	Models   []view.VehicleViewModel
	Statuses *status.Cache
}

// Engine multiplexes the three live subscriptions into a single derived
// state. The run loop owns the raw snapshots; readers go through Snapshot
// and change notifications through Subscribe.
type Engine struct {
	vehicles db.VehicleCollection
	events   db.EventCollection
	statuses db.StatusCollection
	clock    timeutil.Clock

	mu          sync.RWMutex
	state       State
	subscribers map[chan struct{}]struct{}
	closed      bool
}

// NewEngine creates an engine over the three collections.
func NewEngine(vehicles db.VehicleCollection, events db.EventCollection, statuses db.StatusCollection, clock timeutil.Clock) *Engine {
	return &Engine{
		vehicles:    vehicles,
		events:      events,
		statuses:    statuses,
		clock:       clock,
		state:       State{Models: []view.VehicleViewModel{}, Statuses: status.NewCache(nil)},
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Snapshot returns the current derived state.
func (e *Engine) Snapshot() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Subscribe registers a notification channel that receives a tick after
// every recompute. The channel is closed on engine shutdown.
func (e *Engine) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a notification channel.
func (e *Engine) Unsubscribe(ch chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.subscribers[ch]; ok {
		delete(e.subscribers, ch)
		close(ch)
	}
}

// publish swaps in the new state and ticks every subscriber. A subscriber
// with a pending tick is skipped, never blocked on.
func (e *Engine) publish(mutate func(*State)) {
	e.mu.Lock()
	next := e.state
	mutate(&next)
	e.state = next
	for ch := range e.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	e.mu.Unlock()
}

// Run opens the three watches and processes snapshots until ctx is
// canceled. Cancelling ctx releases every stream handle; no state is
// emitted after teardown. If one stream dies its view simply stops
// updating while the other streams keep flowing.
func (e *Engine) Run(ctx context.Context) error {
	defer func() {
		e.mu.Lock()
		e.closed = true
		for ch := range e.subscribers {
			close(ch)
		}
		e.subscribers = make(map[chan struct{}]struct{})
		e.mu.Unlock()
	}()

	vehCh, err := e.vehicles.WatchVehicles(ctx)
	if err != nil {
		return err
	}
	evCh, err := e.events.WatchTodayEvents(ctx, func() string { return timeutil.Today(e.clock) })
	if err != nil {
		return err
	}
	stCh, err := e.statuses.WatchStatuses(ctx)
	if err != nil {
		return err
	}

	// Re-check the date key periodically so a session crossing midnight
	// re-queries events for the new day without waiting for a change.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var (
		curVehicles []models.Vehicle
		curEvents   []models.VehicleEvent
		today       = timeutil.Today(e.clock)
	)

	rebuild := func() {
		vms := view.BuildViewModels(curVehicles, curEvents)
		e.publish(func(s *State) { s.Models = vms })
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap, ok := <-vehCh:
			if !ok {
				vehCh = nil
				continue
			}
			curVehicles = snap
			rebuild()

		case snap, ok := <-evCh:
			if !ok {
				evCh = nil
				continue
			}
			curEvents = snap
			rebuild()

		case snap, ok := <-stCh:
			if !ok {
				stCh = nil
				continue
			}
			cache := status.NewCache(snap)
			e.publish(func(s *State) { s.Statuses = cache })

		case <-ticker.C:
			if now := timeutil.Today(e.clock); now != today {
				today = now
				snap, err := e.events.FindTodayEvents(ctx, today)
				if err != nil {
					log.WithError(err).Error("Date-rollover event reload failed")
					continue
				}
				curEvents = snap
				rebuild()
			}
		}
	}
}
