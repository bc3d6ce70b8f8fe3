package handlers

import (
	"fmt"
	"net/http"

	"github.com/ukydev/fleet-status/internal/live"
)

// StreamHandler is the SSE endpoint notifying clients that the derived
// dashboard state changed. Clients re-fetch /api/dashboard on each tick;
// the stream itself carries no payload.
type StreamHandler struct {
	engine *live.Engine
}

// NewStreamHandler creates a stream handler.
func NewStreamHandler(engine *live.Engine) *StreamHandler {
	return &StreamHandler{engine: engine}
}

// ServeHTTP answers GET /api/stream.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := h.engine.Subscribe()
	defer h.engine.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprint(w, "event: update\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}
