package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fleetFixture() (*FleetHandler, *fakeVehicles, *fakeEvents, *fakeStatuses) {
	vehicles := newFakeVehicles()
	events := newFakeEvents()
	statuses := newFakeStatuses()
	return NewFleetHandler(vehicles, events, statuses), vehicles, events, statuses
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func decodeID(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp["id"]
}

func TestFleetHandler_CreateVehicle(t *testing.T) {
	h, vehicles, _, _ := fleetFixture()

	t.Run("generates an id when absent", func(t *testing.T) {
		rr := postJSON(t, h.CreateVehicle, "/api/vehicles", `{"make":"Jeep","model":"Wrangler"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		id := decodeID(t, rr)
		assert.NotEmpty(t, id)
		require.Len(t, vehicles.inserted, 1)
		assert.Equal(t, id, vehicles.inserted[0].ID)
		assert.Equal(t, "Jeep", vehicles.inserted[0].Make)
	})

	t.Run("keeps a caller-supplied id", func(t *testing.T) {
		rr := postJSON(t, h.CreateVehicle, "/api/vehicles", `{"id":"v42","make":"Ford"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "v42", decodeID(t, rr))
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		rr := postJSON(t, h.CreateVehicle, "/api/vehicles", `{`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
		rr := httptest.NewRecorder()
		h.CreateVehicle(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestFleetHandler_UpsertEvent(t *testing.T) {
	h, _, events, _ := fleetFixture()

	t.Run("requires both dates", func(t *testing.T) {
		rr := postJSON(t, h.UpsertEvent, "/api/events", `{"startDate":"2024-05-01"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, events.upserted)
	})

	t.Run("stores a valid event", func(t *testing.T) {
		rr := postJSON(t, h.UpsertEvent, "/api/events",
			`{"id":"e1","startDate":"2024-05-01","endDate":"2024-05-03","assignedVehicle":"v1"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "e1", decodeID(t, rr))
		require.Len(t, events.upserted, 1)
		assert.Equal(t, "v1", events.upserted[0].AssignedVehicle)
	})
}

func TestFleetHandler_CreateStatus(t *testing.T) {
	h, _, _, statuses := fleetFixture()

	rr := postJSON(t, h.CreateStatus, "/api/statuses",
		`{"id":"stConfirmed","name":"Confirmed","background":"#dcfce7","text":"#166534"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "stConfirmed", decodeID(t, rr))
	require.Len(t, statuses.inserted, 1)
	assert.Equal(t, "Confirmed", statuses.inserted[0].Name)
}
