package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ukydev/fleet-status/internal/live"
	"github.com/ukydev/fleet-status/internal/models"
	"github.com/ukydev/fleet-status/internal/timeutil"
)

func TestStreamHandler_EmitsUpdateFrames(t *testing.T) {
	vehicles := newFakeVehicles()
	engine := live.NewEngine(vehicles, newFakeEvents(), newFakeStatuses(), timeutil.FixedClock{Instant: handlerNow})
	ctx, cancel := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		_ = engine.Run(ctx)
	}()

	h := NewStreamHandler(engine)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil)

	served := make(chan struct{})
	go func() {
		defer close(served)
		h.ServeHTTP(rr, req)
	}()

	// Give the handler a moment to subscribe before publishing.
	time.Sleep(100 * time.Millisecond)
	vehicles.ch <- []models.Vehicle{{ID: "v1"}}
	time.Sleep(100 * time.Millisecond)

	// Shutting the engine down closes the subscription and ends the stream.
	cancel()
	<-engineDone
	select {
	case <-served:
	case <-time.After(2 * time.Second):
		t.Fatal("stream handler did not terminate on engine shutdown")
	}

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "event: update\ndata: {}\n\n")
}

func TestStreamHandler_ReturnsImmediatelyAfterShutdown(t *testing.T) {
	engine := live.NewEngine(newFakeVehicles(), newFakeEvents(), newFakeStatuses(), timeutil.FixedClock{Instant: handlerNow})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = engine.Run(ctx)
	}()
	cancel()
	<-done

	h := NewStreamHandler(engine)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/stream", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-cache", rr.Header().Get("Cache-Control"))
}
