package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-status/internal/checkout"
	"github.com/ukydev/fleet-status/internal/live"
	"github.com/ukydev/fleet-status/internal/middleware"
	"github.com/ukydev/fleet-status/internal/models"
)

// CheckoutHandler performs the checkout transition for a vehicle.
type CheckoutHandler struct {
	service *checkout.Service
	engine  *live.Engine
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(service *checkout.Service, engine *live.Engine) *CheckoutHandler {
	return &CheckoutHandler{service: service, engine: engine}
}

// ServeHTTP answers POST /api/vehicles/{id}/checkout with {"eventId": ...}.
// The chosen event must be one of the vehicle's current (today-overlapping)
// events; the operator identity comes from the request's JWT claims.
func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vehicleID := r.PathValue("id")
	if vehicleID == "" {
		http.Error(w, "Vehicle id required", http.StatusBadRequest)
		return
	}

	var req struct {
		EventID string `json:"eventId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.EventID == "" {
		http.Error(w, "eventId is required", http.StatusBadRequest)
		return
	}

	event, ok := h.findEvent(vehicleID, req.EventID)
	if !ok {
		http.Error(w, "Event not found for vehicle", http.StatusNotFound)
		return
	}

	operator := checkout.UnauthenticatedOperator
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		operator = claims.Username
	}

	trip, err := h.service.Checkout(r.Context(), vehicleID, event, operator)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrVehicleOffLot):
			http.Error(w, "Vehicle already checked out", http.StatusConflict)
		case errors.Is(err, checkout.ErrVehicleMissing):
			http.Error(w, "Vehicle not found", http.StatusNotFound)
		default:
			log.WithError(err).WithField("vehicle_id", vehicleID).Error("Checkout failed")
			http.Error(w, "Checkout failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(trip)
}

// findEvent looks the chosen event up in the vehicle's live event group.
func (h *CheckoutHandler) findEvent(vehicleID, eventID string) (models.VehicleEvent, bool) {
	for _, vm := range h.engine.Snapshot().Models {
		if vm.ID != vehicleID {
			continue
		}
		for _, ev := range vm.Events {
			if ev.ID == eventID {
				return ev, true
			}
		}
	}
	return models.VehicleEvent{}, false
}
