package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ukydev/fleet-status/internal/db"
	"github.com/ukydev/fleet-status/internal/models"
)

// FleetHandler exposes the write endpoints the fleet simulator and admin
// tooling use to seed vehicles, events, and statuses. Production records
// normally arrive through the reservation feed instead.
type FleetHandler struct {
	vehicles db.VehicleCollection
	events   db.EventCollection
	statuses db.StatusCollection
}

// NewFleetHandler creates a fleet seeding handler.
func NewFleetHandler(vehicles db.VehicleCollection, events db.EventCollection, statuses db.StatusCollection) *FleetHandler {
	return &FleetHandler{vehicles: vehicles, events: events, statuses: statuses}
}

// CreateVehicle handles POST /api/vehicles.
func (h *FleetHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if vehicle.ID == "" {
		vehicle.ID = primitive.NewObjectID().Hex()
	}

	if err := h.vehicles.InsertVehicle(r.Context(), vehicle); err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": vehicle.ID})
}

// UpsertEvent handles POST /api/events. Events key on the reservation
// system's id, so a repeated post updates in place.
func (h *FleetHandler) UpsertEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var event models.VehicleEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if event.StartDate == "" || event.EndDate == "" {
		http.Error(w, "startDate and endDate are required", http.StatusBadRequest)
		return
	}
	if event.ID == "" {
		event.ID = primitive.NewObjectID().Hex()
	}

	if err := h.events.UpsertEvent(r.Context(), event); err != nil {
		http.Error(w, "Failed to store event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": event.ID})
}

// CreateStatus handles POST /api/statuses.
func (h *FleetHandler) CreateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var st models.ReservationStatus
	if err := json.Unmarshal(body, &st); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if st.ID == "" {
		st.ID = primitive.NewObjectID().Hex()
	}

	if err := h.statuses.InsertStatus(r.Context(), st); err != nil {
		http.Error(w, "Failed to create status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": st.ID})
}
