package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ukydev/fleet-status/internal/checkout"
	"github.com/ukydev/fleet-status/internal/config"
	"github.com/ukydev/fleet-status/internal/live"
	"github.com/ukydev/fleet-status/internal/models"
	"github.com/ukydev/fleet-status/internal/status"
	"github.com/ukydev/fleet-status/internal/timeutil"
	"github.com/ukydev/fleet-status/internal/view"
)

// DashboardHandler serves the filtered/sorted fleet view.
type DashboardHandler struct {
	engine *live.Engine
	cfg    config.Config
	clock  timeutil.Clock
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(engine *live.Engine, cfg config.Config, clock timeutil.Clock) *DashboardHandler {
	return &DashboardHandler{engine: engine, cfg: cfg, clock: clock}
}

// tripDTO is a currentTrip decorated with its derived display state.
type tripDTO struct {
	models.Trip
	Label string `json:"label"`
	Late  bool   `json:"late"`
}

// eventDTO is a normalized event decorated with its resolved status
// presentation and display-formatted dates and times.
type eventDTO struct {
	models.VehicleEvent
	StatusPresentation status.Presentation `json:"statusPresentation"`
	StartDateDisplay   string              `json:"startDateDisplay"`
	EndDateDisplay     string              `json:"endDateDisplay"`
	StartTimeDisplay   string              `json:"startTimeDisplay"`
	EndTimeDisplay     string              `json:"endTimeDisplay"`
	PickUpLabel        string              `json:"pickUpLabel"`
	ReturnLabel        string              `json:"returnLabel"`
}

type vehicleDTO struct {
	models.Vehicle
	CurrentTrip   *tripDTO   `json:"currentTrip,omitempty"`
	LocationLabel string     `json:"locationLabel"`
	RenterName    string     `json:"renterName"`
	Events        []eventDTO `json:"events"`
}

type dashboardResponse struct {
	OnSite []vehicleDTO   `json:"onSite"`
	OffLot []vehicleDTO   `json:"offLot"`
	Counts map[string]int `json:"counts"`
}

// ServeHTTP answers GET /api/dashboard?search=&location=&showClosed=.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := view.Query{
		Search:     r.URL.Query().Get("search"),
		LocationID: r.URL.Query().Get("location"),
		ShowClosed: r.URL.Query().Get("showClosed") == "true",
	}
	if q.LocationID == "" {
		q.LocationID = view.AllLocations
	}

	state := h.engine.Snapshot()
	res := view.Apply(state.Models, q, h.cfg.ClosedStatusID, h.cfg.Locations)

	resp := dashboardResponse{
		OnSite: h.decorate(res.OnSite, state.Statuses, q.ShowClosed),
		OffLot: h.decorate(res.OffLot, state.Statuses, q.ShowClosed),
		Counts: res.Counts,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *DashboardHandler) decorate(vehicles []view.VehicleViewModel, statuses *status.Cache, showClosed bool) []vehicleDTO {
	now := h.clock.Now()
	out := make([]vehicleDTO, 0, len(vehicles))
	for _, v := range vehicles {
		dto := vehicleDTO{
			Vehicle:       v.Vehicle,
			LocationLabel: h.cfg.LocationLabel(v.AssignedLocation),
			RenterName:    v.RenterName,
			Events:        []eventDTO{},
		}
		dto.Vehicle.CurrentTrip = nil
		if trip := v.CurrentTrip; trip != nil {
			dto.CurrentTrip = &tripDTO{
				Trip:  *trip,
				Label: checkout.TripLabel(trip, now),
				Late:  checkout.IsLate(trip, now),
			}
		}
		for _, ev := range view.VisibleEvents(v.Events, showClosed, h.cfg.ClosedStatusID) {
			dto.Events = append(dto.Events, eventDTO{
				VehicleEvent:       ev,
				StatusPresentation: statuses.Lookup(ev.Status),
				StartDateDisplay:   timeutil.FormatDateMDY(ev.StartDate),
				EndDateDisplay:     timeutil.FormatDateMDY(ev.EndDate),
				StartTimeDisplay:   timeutil.FormatTime12h(ev.StartTime),
				EndTimeDisplay:     timeutil.FormatTime12h(ev.EndTime),
				PickUpLabel:        h.cfg.LocationLabel(ev.PickUpLocation),
				ReturnLabel:        h.cfg.LocationLabel(ev.ReturnLocation),
			})
		}
		out = append(out, dto)
	}
	return out
}
