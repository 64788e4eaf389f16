package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hperssn/studyboard/internal/runner"
)

// StreamTimerEvents forwards a timer's phase ticks as server-sent events
// until the timer finishes or is stopped, or the client goes away.
func StreamTimerEvents(manager *runner.TimerManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		events, unsubscribe, ok := manager.Subscribe(id)
		if !ok {
			respondError(w, "timer not found", http.StatusNotFound)
			return
		}
		defer unsubscribe()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}

				data, err := json.Marshal(ev)
				if err != nil {
					log.Printf("timer %s: encode event: %v", id, err)
					return
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
					return
				}
				flusher.Flush()

				if ev.Done {
					return
				}

			case <-r.Context().Done():
				return
			}
		}
	}
}
