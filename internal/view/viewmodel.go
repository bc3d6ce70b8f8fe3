// Package view derives the dashboard's per-vehicle view models from the
// raw vehicle and event snapshots and runs the display filter pipeline.
// Everything here is a pure function of its inputs; derived state is
// recomputed from scratch on every snapshot change, never patched.
package view

import (
	"strings"

	"github.com/ukydev/fleet-status/internal/models"
)

// VehicleViewModel is a vehicle joined with its today-overlapping events.
// It is rebuilt on every snapshot and never persisted.
type VehicleViewModel struct {
	models.Vehicle
	// Events is the vehicle's normalized event group, unordered.
	Events []models.VehicleEvent `json:"events"`
	// RenterName is the de-duplicated renter-name fallback across all of
	// the vehicle's events. Search indexing only; never displayed as-is.
	RenterName string `json:"renterName"`
}

// GroupEventsByVehicle buckets events by assignedVehicle. Events without an
// assigned vehicle belong to no group.
func GroupEventsByVehicle(events []models.VehicleEvent) map[string][]models.VehicleEvent {
	byVehicle := make(map[string][]models.VehicleEvent)
	for _, ev := range events {
		if ev.AssignedVehicle == "" {
			continue
		}
		byVehicle[ev.AssignedVehicle] = append(byVehicle[ev.AssignedVehicle], ev)
	}
	return byVehicle
}

// BuildViewModels joins each vehicle with its event group. The event group
// is empty (not nil) when a vehicle has no events, so the wire shape stays
// a list.
func BuildViewModels(vehicles []models.Vehicle, events []models.VehicleEvent) []VehicleViewModel {
	byVehicle := GroupEventsByVehicle(events)

	out := make([]VehicleViewModel, 0, len(vehicles))
	for _, v := range vehicles {
		evs := byVehicle[v.ID]
		if evs == nil {
			evs = []models.VehicleEvent{}
		}
		out = append(out, VehicleViewModel{
			Vehicle:    v,
			Events:     evs,
			RenterName: renterFallback(evs),
		})
	}
	return out
}

// renterFallback joins the distinct (case-insensitive), non-empty renter
// names across a vehicle's events.
func renterFallback(events []models.VehicleEvent) string {
	seen := make(map[string]struct{})
	var names []string
	for _, ev := range events {
		n := strings.ToLower(strings.TrimSpace(ev.RenterName))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return strings.Join(names, " ")
}
