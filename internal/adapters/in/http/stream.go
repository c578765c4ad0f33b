package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/broadcast"

	"github.com/labstack/echo/v4"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 30 * time.Second

// eventJSON is the SSE data payload for one broadcast event.
type eventJSON struct {
	Topic   string         `json:"topic"`
	Name    string         `json:"name"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// StreamEvents handles GET /api/v1/events: a server-sent event stream of
// lifecycle notifications for one topic. The topic defaults to the one the
// caller's identity is scoped to; asking for another topic requires the
// identity to be allowed on it.
func (s *Server) StreamEvents(ctx echo.Context) error {
	identity, err := s.authenticate(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	topic := ctx.QueryParam("topic")
	if topic == "" {
		topic = broadcast.TopicFor(identity)
	}
	if !broadcast.CanSubscribe(identity, topic) {
		return echo.NewHTTPError(http.StatusForbidden, "not allowed on this topic")
	}

	sub := s.hub.Subscribe(topic, broadcast.DefaultBuffer)
	defer sub.Close()

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return nil
			}
			w.Flush()

		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}

			raw, err := json.Marshal(eventJSON{
				Topic:   event.Topic,
				Name:    event.Name,
				At:      event.At,
				Payload: event.Payload,
			})
			if err != nil {
				continue
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, raw); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
