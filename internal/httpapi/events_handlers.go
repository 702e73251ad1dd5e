package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"jobscout-engine/internal/events"
)

const ssePingInterval = 30 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

// ServeSSE streams hub events until the client disconnects. Periodic
// pings keep intermediaries from closing the idle connection.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	reqID := RequestIDFrom(r.Context())
	writeSSE := func(e events.Event) {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", e.Encode())
		flusher.Flush()
	}
	writeSSE(events.New(reqID, "ping", nil))

	ping := time.NewTicker(ssePingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			writeSSE(events.New(reqID, "ping", nil))
		case e := <-ch:
			writeSSE(e)
		}
	}
}
