package view

import (
	"sort"
	"strings"

	"github.com/ukydev/fleet-status/internal/models"
)

// AllLocations is the location filter sentinel meaning "no filter".
const AllLocations = "all"

// Query carries the operator's display toggles.
type Query struct {
	// Search is matched as a plain substring of each vehicle's haystack.
	Search string
	// LocationID restricts to one assigned location, or AllLocations.
	LocationID string
	// ShowClosed includes events in the designated closed status.
	ShowClosed bool
}

// Result is the derived dashboard state for one query.
type Result struct {
	// OnSite are vehicles with no current trip, in input order.
	OnSite []VehicleViewModel
	// OffLot are vehicles with a current trip, ordered by lateAfter
	// ascending with unknown deadlines last.
	OffLot []VehicleViewModel
	// Counts holds per-location result sizes keyed by location id plus
	// AllLocations, computed after search but before the location filter so
	// the filter buttons reflect the active search.
	Counts map[string]int
}

// VisibleEvents applies the show-closed toggle to an event group. An event
// stays visible when the toggle is on, when it is the out-of-service
// sentinel, or when its status is not the closed status. Applying the
// filter twice yields the same list.
func VisibleEvents(events []models.VehicleEvent, showClosed bool, closedStatusID string) []models.VehicleEvent {
	if showClosed {
		return events
	}
	var out []models.VehicleEvent
	for _, ev := range events {
		if strings.EqualFold(ev.Status, models.OOSSentinel) || ev.Status != closedStatusID {
			out = append(out, ev)
		}
	}
	return out
}

// Apply runs the fixed filter pipeline: archived exclusion, free-text
// search over visible events, per-location counts, location filter, the
// on-site/off-lot split, and the off-lot recency sort.
func Apply(vehicles []VehicleViewModel, q Query, closedStatusID string, locations []models.RentalLocation) Result {
	active := make([]VehicleViewModel, 0, len(vehicles))
	for _, v := range vehicles {
		if !v.Archived {
			active = append(active, v)
		}
	}

	searched := active
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		searched = make([]VehicleViewModel, 0, len(active))
		for _, v := range active {
			if strings.Contains(haystack(v, q.ShowClosed, closedStatusID), s) {
				searched = append(searched, v)
			}
		}
	}

	counts := map[string]int{AllLocations: len(searched)}
	for _, loc := range locations {
		n := 0
		for _, v := range searched {
			if v.AssignedLocation == loc.ID {
				n++
			}
		}
		counts[loc.ID] = n
	}

	base := searched
	if q.LocationID != "" && q.LocationID != AllLocations {
		base = make([]VehicleViewModel, 0, len(searched))
		for _, v := range searched {
			if v.AssignedLocation == q.LocationID {
				base = append(base, v)
			}
		}
	}

	res := Result{Counts: counts}
	for _, v := range base {
		if v.OffLot() {
			res.OffLot = append(res.OffLot, v)
		} else {
			res.OnSite = append(res.OnSite, v)
		}
	}

	sort.SliceStable(res.OffLot, func(i, j int) bool {
		return lateAfterBefore(res.OffLot[i].CurrentTrip, res.OffLot[j].CurrentTrip)
	})

	return res
}

// lateAfterBefore orders trips by lateAfter ascending, treating an unset
// deadline as positive infinity.
func lateAfterBefore(a, b *models.Trip) bool {
	switch {
	case a == nil || a.LateAfter == nil:
		return false
	case b == nil || b.LateAfter == nil:
		return true
	default:
		return a.LateAfter.Before(*b.LateAfter)
	}
}

// haystack builds the lower-cased search text for a vehicle. Only events
// surviving the closed filter contribute, so hidden closed events never
// produce matches.
func haystack(v VehicleViewModel, showClosed bool, closedStatusID string) string {
	visible := VisibleEvents(v.Events, showClosed, closedStatusID)

	parts := make([]string, 0, 6+8*len(visible))
	appendNonEmpty(&parts, v.LicenseNo, v.VIN, v.Make, v.Model, v.ClassName)
	appendNonEmpty(&parts, renterFallback(visible))
	for _, ev := range visible {
		appendNonEmpty(&parts,
			ev.RenterName, ev.Description,
			ev.StartDate, ev.EndDate,
			ev.StartTime, ev.EndTime,
			ev.Status,
		)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func appendNonEmpty(parts *[]string, values ...string) {
	for _, s := range values {
		if s != "" {
			*parts = append(*parts, s)
		}
	}
}
