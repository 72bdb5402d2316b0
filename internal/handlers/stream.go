package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/nischala755/navix-ai/internal/mapview"
)

// HandleMapStream streams map layer mutations to the frontend via
// Server-Sent Events. The journal replays first so a client that connects
// late still converges on the current layer state, then live mutations
// follow. The first subscriber marks the surface ready, which flushes any
// view the session reconciled before the map finished loading.
func (h *Handler) HandleMapStream(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions.Current()
	if session == nil {
		h.handleNotFound(w, "No active session")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	live, replay, cancel := session.Surface().Subscribe()
	defer cancel()

	log.Printf("[STREAM] Client connected: session_id=%s replay=%d", session.ID(), len(replay))

	for _, m := range replay {
		if err := writeMutation(w, m); err != nil {
			return
		}
	}
	flusher.Flush()

	// Deferred reconciles flush on the first ready signal
	session.SurfaceReady()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[STREAM] Client disconnected: session_id=%s", session.ID())
			return
		case m, ok := <-live:
			if !ok {
				// Surface closed, session torn down
				return
			}
			if err := writeMutation(w, m); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeMutation(w http.ResponseWriter, m mapview.Mutation) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", m.Op, data)
	return err
}
